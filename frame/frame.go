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

// Package frame wraps a described performative, plus an optional
// payload, in the 8-byte AMQP frame header (§4.3). It is the only layer
// that touches the fixed size/doff/type/channel preamble; everything it
// carries as a performative is just a codec.Value to the layers above.
package frame

import (
	"github.com/pkg/errors"

	"github.com/ssorj/argon/buffer"
	"github.com/ssorj/argon/codec"
	"github.com/ssorj/argon/errs"
)

// frameType is the one-byte "type" field of every frame this client
// emits or expects to parse; AMQP also defines SASL frames (type 1),
// which this client never negotiates.
const frameType = 0x00

// dataOffsetWords is the frame header's doff field, in 4-byte words.
// This implementation never emits extension octets between the fixed
// header and the performative, so doff is always 2.
const dataOffsetWords = 2

// Frame is the (channel, performative, payload) tuple of §3.
type Frame struct {
	Channel      uint16
	Performative codec.Value
	Payload      []byte
}

// Emit serializes f into buf at offset, returning the offset following
// the frame. It reserves the size field, packs the fixed header, emits
// the performative through c, appends the payload, and back-patches the
// size.
func Emit(c *codec.Codec, buf *buffer.Buffer, offset int, f Frame) (int, error) {
	start := offset
	offset, slot := buf.Skip(offset, 4)
	offset = buf.Pack(offset, 4, "BBH", uint8(dataOffsetWords), uint8(frameType), f.Channel)

	offset, err := c.Encode(buf, offset, f.Performative)
	if err != nil {
		return start, err
	}

	offset = buf.Write(offset, f.Payload)

	size := offset - start
	buf.Pack(slot.Offset, slot.Width, "I", uint32(size))
	return offset, nil
}

// ErrIncomplete is returned by Parse when fewer than the frame's
// declared size bytes are currently buffered. The offset returned
// alongside it is always the caller's start offset, unchanged, per the
// reader-completeness invariant (§8): the caller buffers more bytes and
// retries the same call.
var ErrIncomplete = errors.New("frame: incomplete, buffer more bytes and retry")

// PeekSize reads just the 4-byte size field at offset, without
// consuming or validating the rest of the header. It reports false if
// fewer than 4 bytes are buffered yet. Callers use this to reject an
// oversized declared frame size before Parse would otherwise block
// waiting for bytes that were never going to arrive in one frame.
func PeekSize(buf *buffer.Buffer, offset int) (int, bool) {
	_, vals, err := buf.Unpack(offset, 4, "I")
	if err != nil {
		return 0, false
	}
	return int(vals[0].(uint32)), true
}

// Parse reads one frame from buf at offset. On success it returns the
// offset following the frame. If fewer bytes than the frame's size are
// currently buffered, it returns (offset, Frame{}, ErrIncomplete) with
// the offset unchanged.
func Parse(c *codec.Codec, buf *buffer.Buffer, offset int) (int, Frame, error) {
	start := offset

	next, vals, err := buf.Unpack(offset, 8, "IBBH")
	if err != nil {
		return start, Frame{}, ErrIncomplete
	}
	size := int(vals[0].(uint32))
	doff := vals[1].(uint8)
	channel := vals[3].(uint16)

	if doff < dataOffsetWords {
		return start, Frame{}, errs.NewProtocolViolation("frame doff %d below minimum %d", doff, dataOffsetWords)
	}

	frameEnd := start + size
	if frameEnd > buf.Len() {
		return start, Frame{}, ErrIncomplete
	}

	perfOffset := start + int(doff)*4
	if perfOffset < next {
		return start, Frame{}, errs.NewMalformedInput("frame doff %d overlaps fixed header", doff)
	}

	var perf codec.Value
	perfEnd := perfOffset
	if perfOffset < frameEnd {
		perfEnd, perf, err = c.Decode(buf, perfOffset)
		if err != nil {
			return start, Frame{}, err
		}
		if perfEnd > frameEnd {
			return start, Frame{}, errs.NewMalformedInput("performative overruns frame size")
		}
	}

	_, payload, err := buf.Read(perfEnd, frameEnd-perfEnd)
	if err != nil {
		return start, Frame{}, err
	}

	return frameEnd, Frame{Channel: channel, Performative: perf, Payload: payload}, nil
}
