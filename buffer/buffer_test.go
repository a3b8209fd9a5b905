// Copyright 2025 The argon Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferWriteRead(t *testing.T) {
	b := New()

	offset := b.Write(0, []byte{0x01, 0x02, 0x03})
	assert.Equal(t, 3, offset)
	assert.Equal(t, 3, b.Len())

	next, view, err := b.Read(0, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, next)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, view)
}

func TestBufferReadOutOfRange(t *testing.T) {
	b := New()
	b.Write(0, []byte{0x01})

	_, _, err := b.Read(0, 2)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestBufferSkipAndBackpatch(t *testing.T) {
	b := New()

	offset, slot := b.Skip(0, 4)
	assert.Equal(t, 4, offset)

	offset = b.Pack(offset, 2, "H", uint16(7))
	assert.Equal(t, 6, offset)

	b.Pack(slot.Offset, slot.Width, "I", uint32(offset))

	next, values, err := b.Unpack(0, 4, "I")
	require.NoError(t, err)
	assert.Equal(t, 4, next)
	assert.Equal(t, uint32(6), values[0])
}

func TestBufferPackUnpackRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		format string
		values []any
	}{
		{"uint8", "B", []any{uint8(0xFF)}},
		{"int8", "b", []any{int8(-5)}},
		{"uint16", "H", []any{uint16(0xCAFE)}},
		{"int16", "h", []any{int16(-1234)}},
		{"uint32", "I", []any{uint32(0xDEADBEEF)}},
		{"int32", "i", []any{int32(-70000)}},
		{"uint64", "Q", []any{uint64(0x0102030405060708)}},
		{"int64", "q", []any{int64(-1)}},
		{"float32", "f", []any{float32(3.25)}},
		{"float64", "d", []any{float64(2.5)}},
		{"mixed", "BHI", []any{uint8(1), uint16(2), uint32(3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			width := widthOf(tt.format)
			b.Pack(0, width, tt.format, tt.values...)

			_, got, err := b.Unpack(0, width, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.values, got)
		})
	}
}

func widthOf(format string) int {
	n := 0
	for _, f := range format {
		switch f {
		case 'B', 'b':
			n++
		case 'H', 'h':
			n += 2
		case 'I', 'i', 'f':
			n += 4
		case 'Q', 'q', 'd':
			n += 8
		}
	}
	return n
}

func TestBufferEnsureGrowth(t *testing.T) {
	b := New()
	before := cap(b.octets)

	b.Ensure(before + 1)
	assert.GreaterOrEqual(t, cap(b.octets), before+1)
}

func TestBufferReset(t *testing.T) {
	b := New()
	b.Write(0, []byte{0x01, 0x02, 0x03})
	b.Reset()

	assert.Equal(t, 0, b.Len())
	_, _, err := b.Read(0, 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestNewFrom(t *testing.T) {
	b := NewFrom([]byte{0xAA, 0xBB})
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, []byte{0xAA, 0xBB}, b.Bytes())
}
