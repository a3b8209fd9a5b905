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

package codec

import (
	"github.com/ssorj/argon/buffer"
	"github.com/ssorj/argon/errs"
)

// DefaultMaxDepth bounds the recursion of nested lists, maps, and arrays
// a Codec will decode before refusing with MalformedInput.
const DefaultMaxDepth = 32

// Codec holds the configuration the emit/parse procedures read; its zero
// value is not ready for use, construct one with New.
type Codec struct {
	MaxDepth int
}

// New returns a Codec with the default recursion limit.
func New() *Codec {
	return &Codec{MaxDepth: DefaultMaxDepth}
}

// Encode writes v to buf at offset following the canonical constructor
// procedure (§4.2): an optional descriptor marker, a reserved format-code
// byte, the body, then a back-patch of the reserved byte. It returns the
// offset following the encoded value.
func (c *Codec) Encode(buf *buffer.Buffer, offset int, v Value) (int, error) {
	return c.encodeValue(buf, offset, v, 0)
}

// Decode reads one value from buf at offset, returning the offset
// following it.
func (c *Codec) Decode(buf *buffer.Buffer, offset int) (int, Value, error) {
	return c.decodeValue(buf, offset, 0)
}

func (c *Codec) encodeValue(buf *buffer.Buffer, offset int, v Value, depth int) (int, error) {
	if depth > c.MaxDepth {
		return offset, errs.NewMalformedInput("recursion depth exceeded (max %d)", c.MaxDepth)
	}

	if v.Descriptor != nil {
		offset = buf.Write(offset, []byte{0x00})
		var err error
		offset, err = c.encodeValue(buf, offset, *v.Descriptor, depth+1)
		if err != nil {
			return offset, err
		}
	}

	codeOffset, slot := buf.Skip(offset, 1)

	handler, ok := encodeHandlers[v.Kind]
	if !ok {
		return offset, errs.NewMalformedInput("no encode handler for kind %s", v.Kind)
	}

	end, code, err := handler(c, buf, codeOffset, v, depth)
	if err != nil {
		return offset, err
	}

	buf.Pack(slot.Offset, 1, "B", uint8(code))
	return end, nil
}

func (c *Codec) decodeValue(buf *buffer.Buffer, offset int, depth int) (int, Value, error) {
	if depth > c.MaxDepth {
		return offset, Value{}, errs.NewMalformedInput("recursion depth exceeded (max %d)", c.MaxDepth)
	}

	next, raw, err := buf.Read(offset, 1)
	if err != nil {
		return offset, Value{}, err
	}
	code := raw[0]

	if code == 0x00 {
		next, descriptor, err := c.decodeValue(buf, next, depth+1)
		if err != nil {
			return offset, Value{}, err
		}
		next, body, err := c.decodeValue(buf, next, depth+1)
		if err != nil {
			return offset, Value{}, err
		}
		body = Described(descriptor, body)
		return next, body, nil
	}

	handler := decodeTable[code]
	if handler == nil {
		return offset, Value{}, errs.NewMalformedInput("unknown format code 0x%02X", code)
	}
	return handler(c, buf, next, depth)
}
