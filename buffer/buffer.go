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

// Package buffer is the bottom layer of the codec stack: a growable octet
// store with big-endian pack/unpack and range I/O. Everything above it —
// the type codec, the frame codec, the message codec — reads and writes
// through a *Buffer rather than touching a []byte directly, so that the
// back-patching idiom (Skip, then Pack at the returned SizeSlot) stays in
// one place.
package buffer

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/ssorj/argon/errs"
)

// ErrOutOfRange is the cause of the MalformedInputError that Read/Unpack
// return when the requested range runs past the buffer's logical length;
// errors.Is(err, ErrOutOfRange) matches it.
var ErrOutOfRange = errors.New("buffer: out of range")

// SizeSlot is an anchor returned by Skip, naming a region reserved for a
// value that isn't known until its children have been encoded — the size
// and count fields of a compound header, the format-code byte of a
// constructor, the size field of a frame. Packing at Offset with Width
// writes the final value.
type SizeSlot struct {
	Offset int
	Width  int
}

// Buffer is a mutable octet region with an owned backing store and a
// current logical length. All multi-byte integers are big-endian.
type Buffer struct {
	octets []byte
	length int
}

// New returns an empty Buffer with a small initial backing store.
func New() *Buffer {
	return &Buffer{octets: make([]byte, 256)}
}

// NewFrom returns a Buffer whose initial content is a copy of b.
func NewFrom(b []byte) *Buffer {
	buf := &Buffer{octets: make([]byte, len(b))}
	copy(buf.octets, b)
	buf.length = len(b)
	return buf
}

// Len reports the buffer's current logical length.
func (b *Buffer) Len() int {
	return b.length
}

// Bytes returns the logically valid prefix of the backing store. The
// slice aliases the buffer's storage; callers that retain it across a
// Reset must copy first.
func (b *Buffer) Bytes() []byte {
	return b.octets[:b.length]
}

// Reset rewinds the buffer to empty without releasing its backing store,
// bounding steady-state memory to the largest single frame seen so far
// once read/write offsets catch up to it (see §5 of the endpoint spec).
func (b *Buffer) Reset() {
	b.length = 0
}

// Ensure grows the backing store so its capacity is at least size.
// Growth policy is max(size, 2*current); bytes below the prior length
// are left unchanged, and growth never shrinks the logical length.
func (b *Buffer) Ensure(size int) {
	if cap(b.octets) >= size {
		if len(b.octets) < size {
			b.octets = b.octets[:size]
		}
		return
	}

	grown := make([]byte, size, max(size, 2*cap(b.octets)))
	copy(grown, b.octets)
	b.octets = grown
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (b *Buffer) bump(end int) {
	if end > b.length {
		b.length = end
	}
}

// Write copies octets into the buffer at offset, growing as needed, and
// returns the offset immediately following the write.
func (b *Buffer) Write(offset int, octets []byte) int {
	end := offset + len(octets)
	b.Ensure(end)
	copy(b.octets[offset:end], octets)
	b.bump(end)
	return end
}

// Skip reserves n bytes at offset for later back-patching, returning the
// offset following the reservation and a SizeSlot anchoring it.
func (b *Buffer) Skip(offset, n int) (int, SizeSlot) {
	end := offset + n
	b.Ensure(end)
	b.bump(end)
	return end, SizeSlot{Offset: offset, Width: n}
}

// Read returns a borrowed view of n bytes at offset and the offset
// following it. The view aliases the buffer's storage.
func (b *Buffer) Read(offset, n int) (int, []byte, error) {
	end := offset + n
	if end > b.length {
		return offset, nil, errs.WrapMalformedInput(ErrOutOfRange, "read of %d octets at offset %d", n, offset)
	}
	return end, b.octets[offset:end], nil
}

// Pack big-endian-encodes values at offset according to fmt, a sequence
// of field codes (B=uint8 H=uint16 I=uint32 Q=uint64 b=int8 h=int16
// i=int32 q=int64 f=float32 d=float64 s=raw octets), growing the buffer
// as needed. Pack never fails.
func (b *Buffer) Pack(offset, n int, format string, values ...any) int {
	end := offset + n
	b.Ensure(end)
	b.bump(end)

	pos := offset
	vi := 0
	for i := 0; i < len(format); i++ {
		switch format[i] {
		case 'B':
			b.octets[pos] = values[vi].(uint8)
			pos++
		case 'b':
			b.octets[pos] = byte(values[vi].(int8))
			pos++
		case 'H':
			binary.BigEndian.PutUint16(b.octets[pos:], values[vi].(uint16))
			pos += 2
		case 'h':
			binary.BigEndian.PutUint16(b.octets[pos:], uint16(values[vi].(int16)))
			pos += 2
		case 'I':
			binary.BigEndian.PutUint32(b.octets[pos:], values[vi].(uint32))
			pos += 4
		case 'i':
			binary.BigEndian.PutUint32(b.octets[pos:], uint32(values[vi].(int32)))
			pos += 4
		case 'Q':
			binary.BigEndian.PutUint64(b.octets[pos:], values[vi].(uint64))
			pos += 8
		case 'q':
			binary.BigEndian.PutUint64(b.octets[pos:], uint64(values[vi].(int64)))
			pos += 8
		case 'f':
			binary.BigEndian.PutUint32(b.octets[pos:], float32bits(values[vi].(float32)))
			pos += 4
		case 'd':
			binary.BigEndian.PutUint64(b.octets[pos:], float64bits(values[vi].(float64)))
			pos += 8
		case 's':
			raw := values[vi].([]byte)
			copy(b.octets[pos:pos+len(raw)], raw)
			pos += len(raw)
		default:
			continue
		}
		vi++
	}

	return end
}

// Unpack is the inverse of Pack: it decodes values at offset according to
// fmt and returns the offset following the read region.
func (b *Buffer) Unpack(offset, n int, format string) (int, []any, error) {
	end := offset + n
	if end > b.length {
		return offset, nil, errs.WrapMalformedInput(ErrOutOfRange, "unpack of %d octets at offset %d", n, offset)
	}

	pos := offset
	values := make([]any, 0, len(format))
	for i := 0; i < len(format); i++ {
		switch format[i] {
		case 'B':
			values = append(values, b.octets[pos])
			pos++
		case 'b':
			values = append(values, int8(b.octets[pos]))
			pos++
		case 'H':
			values = append(values, binary.BigEndian.Uint16(b.octets[pos:]))
			pos += 2
		case 'h':
			values = append(values, int16(binary.BigEndian.Uint16(b.octets[pos:])))
			pos += 2
		case 'I':
			values = append(values, binary.BigEndian.Uint32(b.octets[pos:]))
			pos += 4
		case 'i':
			values = append(values, int32(binary.BigEndian.Uint32(b.octets[pos:])))
			pos += 4
		case 'Q':
			values = append(values, binary.BigEndian.Uint64(b.octets[pos:]))
			pos += 8
		case 'q':
			values = append(values, int64(binary.BigEndian.Uint64(b.octets[pos:])))
			pos += 8
		case 'f':
			values = append(values, float32frombits(binary.BigEndian.Uint32(b.octets[pos:])))
			pos += 4
		case 'd':
			values = append(values, float64frombits(binary.BigEndian.Uint64(b.octets[pos:])))
			pos += 8
		default:
			continue
		}
	}

	return end, values, nil
}

func float32bits(f float32) uint32     { return math.Float32bits(f) }
func float32frombits(b uint32) float32 { return math.Float32frombits(b) }
func float64bits(f float64) uint64     { return math.Float64bits(f) }
func float64frombits(b uint64) float64 { return math.Float64frombits(b) }
