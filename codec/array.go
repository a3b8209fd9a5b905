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

// canonicalLongCode returns the single format code shared by every
// element of an array of the given kind. Arrays never vary their
// constructor per element, so compact forms (the zero-byte uint, the
// 1-byte int, …) are never used here even when every element would
// individually qualify — each element instead uses that code's fixed
// "long" body width, per §4.2.
func canonicalLongCode(kind Kind) (Format, bool) {
	switch kind {
	case KindNull:
		return fmtNull, true
	case KindBoolean:
		return fmtBoolean, true
	case KindUbyte:
		return fmtUbyte, true
	case KindUshort:
		return fmtUshort, true
	case KindUint:
		return fmtUint, true
	case KindUlong:
		return fmtUlong, true
	case KindByte:
		return fmtByte, true
	case KindShort:
		return fmtShort, true
	case KindInt:
		return fmtInt, true
	case KindLong:
		return fmtLong, true
	case KindFloat:
		return fmtFloat, true
	case KindDouble:
		return fmtDouble, true
	case KindDecimal32:
		return fmtDecimal32, true
	case KindDecimal64:
		return fmtDecimal64, true
	case KindDecimal128:
		return fmtDecimal128, true
	case KindChar:
		return fmtChar, true
	case KindTimestamp:
		return fmtTimestamp, true
	case KindUUID:
		return fmtUUID, true
	case KindBinary:
		return fmtBinary32, true
	case KindString:
		return fmtString32, true
	case KindSymbol:
		return fmtSymbol32, true
	case KindList:
		return fmtList32, true
	case KindMap:
		return fmtMap32, true
	case KindArray:
		return fmtArray32, true
	default:
		return 0, false
	}
}

func kindForLongCode(code byte) (Kind, bool) {
	for k := KindNull; k <= KindArray; k++ {
		if c, ok := canonicalLongCode(k); ok && Format(code) == c {
			return k, true
		}
	}
	return 0, false
}

func encodeArray(c *Codec, buf *buffer.Buffer, offset int, v Value, depth int) (int, Format, error) {
	return encodeArrayBody(c, buf, offset, v, depth, false)
}

// encodeArrayBody emits an array's header and element run; forceLong
// picks the 32-bit header, as an array nested inside another array needs.
func encodeArrayBody(c *Codec, buf *buffer.Buffer, offset int, v Value, depth int, forceLong bool) (int, Format, error) {
	code, ok := canonicalLongCode(v.ArrayElem)
	if !ok {
		return offset, 0, errs.NewMalformedInput("array: unsupported element kind %s", v.ArrayElem)
	}

	end, long, err := encodeCompoundBody(c, buf, offset, depth, forceLong, func(scratch *buffer.Buffer, d int) (int, error) {
		pos := scratch.Pack(0, 1, "B", uint8(code))
		for _, elem := range v.List {
			var err error
			pos, err = encodeArrayElementBody(c, scratch, pos, v.ArrayElem, elem, d)
			if err != nil {
				return 0, err
			}
		}
		return len(v.List), nil
	})
	if err != nil {
		return offset, 0, err
	}
	if long {
		return end, fmtArray32, nil
	}
	return end, fmtArray8, nil
}

func encodeArrayElementBody(c *Codec, buf *buffer.Buffer, offset int, elemKind Kind, v Value, depth int) (int, error) {
	switch elemKind {
	case KindNull:
		return offset, nil
	case KindBoolean:
		var b uint8
		if v.Bool {
			b = 1
		}
		return buf.Pack(offset, 1, "B", b), nil
	case KindUbyte:
		return buf.Pack(offset, 1, "B", uint8(v.U64)), nil
	case KindUshort:
		return buf.Pack(offset, 2, "H", uint16(v.U64)), nil
	case KindUint:
		return buf.Pack(offset, 4, "I", uint32(v.U64)), nil
	case KindUlong:
		return buf.Pack(offset, 8, "Q", v.U64), nil
	case KindByte:
		return buf.Pack(offset, 1, "b", int8(v.I64)), nil
	case KindShort:
		return buf.Pack(offset, 2, "h", int16(v.I64)), nil
	case KindInt:
		return buf.Pack(offset, 4, "i", int32(v.I64)), nil
	case KindLong:
		return buf.Pack(offset, 8, "q", v.I64), nil
	case KindFloat:
		return buf.Pack(offset, 4, "f", v.F32), nil
	case KindDouble:
		return buf.Pack(offset, 8, "d", v.F64), nil
	case KindChar:
		return buf.Pack(offset, 4, "I", uint32(v.U64)), nil
	case KindTimestamp:
		return buf.Pack(offset, 8, "q", v.I64), nil
	case KindUUID:
		return buf.Write(offset, v.UUID[:]), nil
	case KindDecimal32:
		return writeFixedOpaque(buf, offset, v.Bin, 4), nil
	case KindDecimal64:
		return writeFixedOpaque(buf, offset, v.Bin, 8), nil
	case KindDecimal128:
		return writeFixedOpaque(buf, offset, v.Bin, 16), nil
	case KindBinary:
		return writeSizePrefixed32(buf, offset, v.Bin), nil
	case KindString:
		return writeSizePrefixed32(buf, offset, []byte(v.Str)), nil
	case KindSymbol:
		return writeSizePrefixed32(buf, offset, []byte(v.Str)), nil
	case KindList:
		end, _, err := encodeCompoundBody(c, buf, offset, depth, true, func(scratch *buffer.Buffer, d int) (int, error) {
			pos := 0
			for _, elem := range v.List {
				var err error
				pos, err = c.encodeValue(scratch, pos, elem, d)
				if err != nil {
					return 0, err
				}
			}
			return len(v.List), nil
		})
		return end, err
	case KindMap:
		end, _, err := encodeCompoundBody(c, buf, offset, depth, true, func(scratch *buffer.Buffer, d int) (int, error) {
			pos := 0
			for _, entry := range v.Map {
				var err error
				pos, err = c.encodeValue(scratch, pos, entry.Key, d)
				if err != nil {
					return 0, err
				}
				pos, err = c.encodeValue(scratch, pos, entry.Value, d)
				if err != nil {
					return 0, err
				}
			}
			return 2 * len(v.Map), nil
		})
		return end, err
	case KindArray:
		end, _, err := encodeArrayBody(c, buf, offset, v, depth+1, true)
		return end, err
	default:
		return offset, errs.NewMalformedInput("array: unsupported element kind %s", elemKind)
	}
}

func writeFixedOpaque(buf *buffer.Buffer, offset int, octets []byte, width int) int {
	fixed := octets
	if len(fixed) != width {
		fixed = make([]byte, width)
		copy(fixed, octets)
	}
	return buf.Write(offset, fixed)
}

func writeSizePrefixed32(buf *buffer.Buffer, offset int, octets []byte) int {
	end := buf.Pack(offset, 4, "I", uint32(len(octets)))
	return buf.Write(end, octets)
}

func decodeArrayShort(c *Codec, buf *buffer.Buffer, offset int, depth int) (int, Value, error) {
	return decodeArrayBody(c, buf, offset, depth, 1)
}

func decodeArrayLong(c *Codec, buf *buffer.Buffer, offset int, depth int) (int, Value, error) {
	return decodeArrayBody(c, buf, offset, depth, 4)
}

func decodeArrayBody(c *Codec, buf *buffer.Buffer, offset int, depth int, headerWidth int) (int, Value, error) {
	if depth > c.MaxDepth {
		return offset, Value{}, errs.NewMalformedInput("recursion depth exceeded (max %d)", c.MaxDepth)
	}

	next, size, count, err := readCompoundHeader(buf, offset, headerWidth)
	if err != nil {
		return offset, Value{}, err
	}
	bodyEnd := next + (size - headerWidth)

	codeNext, raw, err := buf.Read(next, 1)
	if err != nil {
		return offset, Value{}, err
	}
	elemKind, ok := kindForLongCode(raw[0])
	if !ok {
		return offset, Value{}, errs.NewMalformedInput("array: unknown element format code 0x%02X", raw[0])
	}

	elems := make([]Value, 0, count)
	pos := codeNext
	for i := 0; i < count; i++ {
		var elem Value
		var err error
		pos, elem, err = decodeArrayElementBody(c, buf, pos, elemKind, depth+1)
		if err != nil {
			return offset, Value{}, err
		}
		elems = append(elems, elem)
	}
	if pos != bodyEnd {
		return offset, Value{}, errs.NewMalformedInput("array size/count mismatch: body ended at %d, header promised %d", pos, bodyEnd)
	}

	return pos, Array(elemKind, elems...), nil
}

func decodeArrayElementBody(c *Codec, buf *buffer.Buffer, offset int, elemKind Kind, depth int) (int, Value, error) {
	switch elemKind {
	case KindNull:
		return offset, Null(), nil
	case KindBoolean:
		next, raw, err := buf.Read(offset, 1)
		if err != nil {
			return offset, Value{}, err
		}
		return next, Bool(raw[0] != 0), nil
	case KindUbyte:
		return decodeUbyte(c, buf, offset, depth)
	case KindUshort:
		return decodeUshort(c, buf, offset, depth)
	case KindUint:
		return decodeUint(c, buf, offset, depth)
	case KindUlong:
		return decodeUlong(c, buf, offset, depth)
	case KindByte:
		return decodeByte(c, buf, offset, depth)
	case KindShort:
		return decodeShort(c, buf, offset, depth)
	case KindInt:
		return decodeInt(c, buf, offset, depth)
	case KindLong:
		return decodeLong(c, buf, offset, depth)
	case KindFloat:
		return decodeFloat(c, buf, offset, depth)
	case KindDouble:
		return decodeDouble(c, buf, offset, depth)
	case KindChar:
		return decodeChar(c, buf, offset, depth)
	case KindTimestamp:
		return decodeTimestamp(c, buf, offset, depth)
	case KindUUID:
		return decodeUUID(c, buf, offset, depth)
	case KindDecimal32:
		return decodeOpaque(4, KindDecimal32)(c, buf, offset, depth)
	case KindDecimal64:
		return decodeOpaque(8, KindDecimal64)(c, buf, offset, depth)
	case KindDecimal128:
		return decodeOpaque(16, KindDecimal128)(c, buf, offset, depth)
	case KindBinary:
		return decodeVariableWidth(KindBinary, 4)(c, buf, offset, depth)
	case KindString:
		return decodeVariableWidth(KindString, 4)(c, buf, offset, depth)
	case KindSymbol:
		return decodeVariableWidth(KindSymbol, 4)(c, buf, offset, depth)
	case KindList:
		return decodeCompoundList(c, buf, offset, depth, 4)
	case KindMap:
		return decodeMapBody(c, buf, offset, depth, 4)
	case KindArray:
		return decodeArrayBody(c, buf, offset, depth+1, 4)
	default:
		return offset, Value{}, errs.NewMalformedInput("array: unsupported element kind %s", elemKind)
	}
}
