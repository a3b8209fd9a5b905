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

package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssorj/argon/buffer"
	"github.com/ssorj/argon/codec"
)

func openPerformative(containerID string) codec.Value {
	return codec.Described(codec.Ulong(0x10), codec.List(codec.String(containerID)))
}

func TestEmitOpenFrameHeaderPrefix(t *testing.T) {
	c := codec.New()
	buf := buffer.New()

	end, err := Emit(c, buf, 0, Frame{Channel: 0, Performative: openPerformative("abc")})
	require.NoError(t, err)

	_, raw, err := buf.Read(0, end)
	require.NoError(t, err)

	// size(4) doff=2 type=0 channel=0, then the descriptor marker 0x00,
	// the ulong-8 descriptor 0x53 0x10, and the list8 format code 0xC0 —
	// everything spec.md's scenario 6 pins down literally before eliding
	// the rest with "…".
	assert.Equal(t, []byte{0x02, 0x00, 0x00, 0x00}, raw[4:8])
	assert.Equal(t, []byte{0x00, 0x53, 0x10, 0xC0}, raw[8:12])
}

func TestFrameSizeFaithfulness(t *testing.T) {
	c := codec.New()
	buf := buffer.New()

	end, err := Emit(c, buf, 0, Frame{
		Channel:      7,
		Performative: openPerformative("faithful"),
		Payload:      []byte{0xAA, 0xBB, 0xCC},
	})
	require.NoError(t, err)

	_, sizeBytes, err := buf.Unpack(0, 4, "I")
	require.NoError(t, err)
	assert.Equal(t, uint32(end), sizeBytes[0])
}

func TestFrameRoundTrip(t *testing.T) {
	c := codec.New()
	buf := buffer.New()

	in := Frame{
		Channel:      3,
		Performative: openPerformative("round-trip"),
		Payload:      []byte("payload-bytes"),
	}
	end, err := Emit(c, buf, 0, in)
	require.NoError(t, err)

	next, out, err := Parse(c, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, end, next)
	assert.Equal(t, in.Channel, out.Channel)
	assert.Equal(t, in.Payload, out.Payload)
	assert.Equal(t, "round-trip", out.Performative.List[0].Str)
}

func TestParseIncompleteReturnsStartOffsetUnchanged(t *testing.T) {
	c := codec.New()
	buf := buffer.New()

	end, err := Emit(c, buf, 0, Frame{Channel: 1, Performative: openPerformative("x")})
	require.NoError(t, err)

	truncated := buffer.NewFrom(buf.Bytes()[:end-1])
	next, _, err := Parse(c, truncated, 0)
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Equal(t, 0, next)
}

func TestIncrementalParsingMatchesSingleShot(t *testing.T) {
	c := codec.New()
	buf := buffer.New()

	offset := 0
	var err error
	for i, id := range []string{"one", "two", "three"} {
		offset, err = Emit(c, buf, offset, Frame{Channel: uint16(i), Performative: openPerformative(id)})
		require.NoError(t, err)
	}

	all := append([]byte(nil), buf.Bytes()...)

	// Single-shot: parse straight through.
	var singleShot []Frame
	pos := 0
	single := buffer.NewFrom(all)
	for pos < len(all) {
		next, f, err := Parse(c, single, pos)
		require.NoError(t, err)
		singleShot = append(singleShot, f)
		pos = next
	}

	// Incremental: feed one byte at a time, reparsing from 0 against a
	// growing prefix, only advancing once a full frame is available.
	var incremental []Frame
	parsedUpTo := 0
	for n := 1; n <= len(all); n++ {
		incBuf := buffer.NewFrom(all[:n])
		for parsedUpTo < n {
			next, f, err := Parse(c, incBuf, parsedUpTo)
			if err == ErrIncomplete {
				break
			}
			require.NoError(t, err)
			incremental = append(incremental, f)
			parsedUpTo = next
		}
	}

	require.Len(t, incremental, len(singleShot))
	for i := range singleShot {
		assert.Equal(t, singleShot[i].Channel, incremental[i].Channel)
	}
}
