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
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ssorj/argon/buffer"
	"github.com/ssorj/argon/errs"
)

type encodeHandler func(c *Codec, buf *buffer.Buffer, offset int, v Value, depth int) (int, Format, error)
type decodeHandler func(c *Codec, buf *buffer.Buffer, offset int, depth int) (int, Value, error)

func encodeNull(_ *Codec, _ *buffer.Buffer, offset int, _ Value, _ int) (int, Format, error) {
	return offset, fmtNull, nil
}

func decodeNull(_ *Codec, _ *buffer.Buffer, offset int, _ int) (int, Value, error) {
	return offset, Null(), nil
}

func encodeBoolean(_ *Codec, _ *buffer.Buffer, offset int, v Value, _ int) (int, Format, error) {
	if v.Bool {
		return offset, fmtBooleanTrue, nil
	}
	return offset, fmtBooleanFalse, nil
}

func decodeBooleanTrue(_ *Codec, _ *buffer.Buffer, offset int, _ int) (int, Value, error) {
	return offset, Bool(true), nil
}

func decodeBooleanFalse(_ *Codec, _ *buffer.Buffer, offset int, _ int) (int, Value, error) {
	return offset, Bool(false), nil
}

func decodeBooleanByte(_ *Codec, buf *buffer.Buffer, offset int, _ int) (int, Value, error) {
	next, raw, err := buf.Read(offset, 1)
	if err != nil {
		return offset, Value{}, err
	}
	return next, Bool(raw[0] != 0), nil
}

func encodeUbyte(_ *Codec, buf *buffer.Buffer, offset int, v Value, _ int) (int, Format, error) {
	end := buf.Pack(offset, 1, "B", uint8(v.U64))
	return end, fmtUbyte, nil
}

func decodeUbyte(_ *Codec, buf *buffer.Buffer, offset int, _ int) (int, Value, error) {
	next, vals, err := buf.Unpack(offset, 1, "B")
	if err != nil {
		return offset, Value{}, err
	}
	return next, Ubyte(vals[0].(uint8)), nil
}

func encodeUshort(_ *Codec, buf *buffer.Buffer, offset int, v Value, _ int) (int, Format, error) {
	end := buf.Pack(offset, 2, "H", uint16(v.U64))
	return end, fmtUshort, nil
}

func decodeUshort(_ *Codec, buf *buffer.Buffer, offset int, _ int) (int, Value, error) {
	next, vals, err := buf.Unpack(offset, 2, "H")
	if err != nil {
		return offset, Value{}, err
	}
	return next, Ushort(vals[0].(uint16)), nil
}

func encodeUint(_ *Codec, buf *buffer.Buffer, offset int, v Value, _ int) (int, Format, error) {
	switch {
	case v.U64 == 0:
		return offset, fmtUint0, nil
	case v.U64 <= 255:
		return buf.Pack(offset, 1, "B", uint8(v.U64)), fmtUintByte, nil
	default:
		return buf.Pack(offset, 4, "I", uint32(v.U64)), fmtUint, nil
	}
}

func decodeUint0(_ *Codec, _ *buffer.Buffer, offset int, _ int) (int, Value, error) {
	return offset, Uint(0), nil
}

func decodeUintByte(_ *Codec, buf *buffer.Buffer, offset int, _ int) (int, Value, error) {
	next, vals, err := buf.Unpack(offset, 1, "B")
	if err != nil {
		return offset, Value{}, err
	}
	return next, Uint(uint32(vals[0].(uint8))), nil
}

func decodeUint(_ *Codec, buf *buffer.Buffer, offset int, _ int) (int, Value, error) {
	next, vals, err := buf.Unpack(offset, 4, "I")
	if err != nil {
		return offset, Value{}, err
	}
	return next, Uint(vals[0].(uint32)), nil
}

func encodeUlong(_ *Codec, buf *buffer.Buffer, offset int, v Value, _ int) (int, Format, error) {
	switch {
	case v.U64 == 0:
		return offset, fmtUlong0, nil
	case v.U64 <= 255:
		return buf.Pack(offset, 1, "B", uint8(v.U64)), fmtUlongByte, nil
	default:
		return buf.Pack(offset, 8, "Q", v.U64), fmtUlong, nil
	}
}

func decodeUlong0(_ *Codec, _ *buffer.Buffer, offset int, _ int) (int, Value, error) {
	return offset, Ulong(0), nil
}

func decodeUlongByte(_ *Codec, buf *buffer.Buffer, offset int, _ int) (int, Value, error) {
	next, vals, err := buf.Unpack(offset, 1, "B")
	if err != nil {
		return offset, Value{}, err
	}
	return next, Ulong(uint64(vals[0].(uint8))), nil
}

func decodeUlong(_ *Codec, buf *buffer.Buffer, offset int, _ int) (int, Value, error) {
	next, vals, err := buf.Unpack(offset, 8, "Q")
	if err != nil {
		return offset, Value{}, err
	}
	return next, Ulong(vals[0].(uint64)), nil
}

func encodeByte(_ *Codec, buf *buffer.Buffer, offset int, v Value, _ int) (int, Format, error) {
	return buf.Pack(offset, 1, "b", int8(v.I64)), fmtByte, nil
}

func decodeByte(_ *Codec, buf *buffer.Buffer, offset int, _ int) (int, Value, error) {
	next, vals, err := buf.Unpack(offset, 1, "b")
	if err != nil {
		return offset, Value{}, err
	}
	return next, Byte(vals[0].(int8)), nil
}

func encodeShort(_ *Codec, buf *buffer.Buffer, offset int, v Value, _ int) (int, Format, error) {
	return buf.Pack(offset, 2, "h", int16(v.I64)), fmtShort, nil
}

func decodeShort(_ *Codec, buf *buffer.Buffer, offset int, _ int) (int, Value, error) {
	next, vals, err := buf.Unpack(offset, 2, "h")
	if err != nil {
		return offset, Value{}, err
	}
	return next, Short(vals[0].(int16)), nil
}

func encodeInt(_ *Codec, buf *buffer.Buffer, offset int, v Value, _ int) (int, Format, error) {
	if v.I64 >= -128 && v.I64 <= 127 {
		return buf.Pack(offset, 1, "b", int8(v.I64)), fmtIntByte, nil
	}
	return buf.Pack(offset, 4, "i", int32(v.I64)), fmtInt, nil
}

func decodeIntByte(_ *Codec, buf *buffer.Buffer, offset int, _ int) (int, Value, error) {
	next, vals, err := buf.Unpack(offset, 1, "b")
	if err != nil {
		return offset, Value{}, err
	}
	return next, Int(int32(vals[0].(int8))), nil
}

func decodeInt(_ *Codec, buf *buffer.Buffer, offset int, _ int) (int, Value, error) {
	next, vals, err := buf.Unpack(offset, 4, "i")
	if err != nil {
		return offset, Value{}, err
	}
	return next, Int(vals[0].(int32)), nil
}

func encodeLong(_ *Codec, buf *buffer.Buffer, offset int, v Value, _ int) (int, Format, error) {
	if v.I64 >= -128 && v.I64 <= 127 {
		return buf.Pack(offset, 1, "b", int8(v.I64)), fmtLongByte, nil
	}
	return buf.Pack(offset, 8, "q", v.I64), fmtLong, nil
}

func decodeLongByte(_ *Codec, buf *buffer.Buffer, offset int, _ int) (int, Value, error) {
	next, vals, err := buf.Unpack(offset, 1, "b")
	if err != nil {
		return offset, Value{}, err
	}
	return next, Long(int64(vals[0].(int8))), nil
}

func decodeLong(_ *Codec, buf *buffer.Buffer, offset int, _ int) (int, Value, error) {
	next, vals, err := buf.Unpack(offset, 8, "q")
	if err != nil {
		return offset, Value{}, err
	}
	return next, Long(vals[0].(int64)), nil
}

func encodeFloat(_ *Codec, buf *buffer.Buffer, offset int, v Value, _ int) (int, Format, error) {
	return buf.Pack(offset, 4, "f", v.F32), fmtFloat, nil
}

func decodeFloat(_ *Codec, buf *buffer.Buffer, offset int, _ int) (int, Value, error) {
	next, vals, err := buf.Unpack(offset, 4, "f")
	if err != nil {
		return offset, Value{}, err
	}
	return next, Float(vals[0].(float32)), nil
}

func encodeDouble(_ *Codec, buf *buffer.Buffer, offset int, v Value, _ int) (int, Format, error) {
	return buf.Pack(offset, 8, "d", v.F64), fmtDouble, nil
}

func decodeDouble(_ *Codec, buf *buffer.Buffer, offset int, _ int) (int, Value, error) {
	next, vals, err := buf.Unpack(offset, 8, "d")
	if err != nil {
		return offset, Value{}, err
	}
	return next, Double(vals[0].(float64)), nil
}

func encodeOpaque(width int, code Format) encodeHandler {
	return func(_ *Codec, buf *buffer.Buffer, offset int, v Value, _ int) (int, Format, error) {
		octets := v.Bin
		if len(octets) != width {
			octets = make([]byte, width)
			copy(octets, v.Bin)
		}
		return buf.Write(offset, octets), code, nil
	}
}

func decodeOpaque(width int, kind Kind) decodeHandler {
	return func(_ *Codec, buf *buffer.Buffer, offset int, _ int) (int, Value, error) {
		next, raw, err := buf.Read(offset, width)
		if err != nil {
			return offset, Value{}, err
		}
		octets := append([]byte(nil), raw...)
		return next, Value{Kind: kind, Bin: octets}, nil
	}
}

func encodeChar(_ *Codec, buf *buffer.Buffer, offset int, v Value, _ int) (int, Format, error) {
	return buf.Pack(offset, 4, "I", uint32(v.U64)), fmtChar, nil
}

func decodeChar(_ *Codec, buf *buffer.Buffer, offset int, _ int) (int, Value, error) {
	next, vals, err := buf.Unpack(offset, 4, "I")
	if err != nil {
		return offset, Value{}, err
	}
	return next, Char(rune(vals[0].(uint32))), nil
}

func encodeTimestamp(_ *Codec, buf *buffer.Buffer, offset int, v Value, _ int) (int, Format, error) {
	return buf.Pack(offset, 8, "q", v.I64), fmtTimestamp, nil
}

func decodeTimestamp(_ *Codec, buf *buffer.Buffer, offset int, _ int) (int, Value, error) {
	next, vals, err := buf.Unpack(offset, 8, "q")
	if err != nil {
		return offset, Value{}, err
	}
	return next, Timestamp(vals[0].(int64)), nil
}

func encodeUUID(_ *Codec, buf *buffer.Buffer, offset int, v Value, _ int) (int, Format, error) {
	return buf.Write(offset, v.UUID[:]), fmtUUID, nil
}

func decodeUUID(_ *Codec, buf *buffer.Buffer, offset int, _ int) (int, Value, error) {
	next, raw, err := buf.Read(offset, 16)
	if err != nil {
		return offset, Value{}, err
	}
	id, err := uuid.FromBytes(raw)
	if err != nil {
		return offset, Value{}, errs.WrapMalformedInput(err, "invalid uuid octets")
	}
	return next, UUIDValue(id), nil
}

func encodeVariableWidth(kind Kind) encodeHandler {
	return func(_ *Codec, buf *buffer.Buffer, offset int, v Value, _ int) (int, Format, error) {
		var octets []byte
		switch kind {
		case KindBinary:
			octets = v.Bin
		case KindString:
			octets = []byte(v.Str)
		case KindSymbol:
			octets = []byte(v.Str)
		}

		if len(octets) < compactThreshold {
			end := buf.Pack(offset, 1, "B", uint8(len(octets)))
			end = buf.Write(end, octets)
			return end, variableWidthCode(kind, false), nil
		}

		end := buf.Pack(offset, 4, "I", uint32(len(octets)))
		end = buf.Write(end, octets)
		return end, variableWidthCode(kind, true), nil
	}
}

func variableWidthCode(kind Kind, long bool) Format {
	switch kind {
	case KindBinary:
		if long {
			return fmtBinary32
		}
		return fmtBinary8
	case KindSymbol:
		if long {
			return fmtSymbol32
		}
		return fmtSymbol8
	default: // KindString
		if long {
			return fmtString32
		}
		return fmtString8
	}
}

func decodeVariableWidth(kind Kind, sizeWidth int) decodeHandler {
	return func(_ *Codec, buf *buffer.Buffer, offset int, _ int) (int, Value, error) {
		var size int
		var next int
		if sizeWidth == 1 {
			n, vals, err := buf.Unpack(offset, 1, "B")
			if err != nil {
				return offset, Value{}, err
			}
			size = int(vals[0].(uint8))
			next = n
		} else {
			n, vals, err := buf.Unpack(offset, 4, "I")
			if err != nil {
				return offset, Value{}, err
			}
			size = int(vals[0].(uint32))
			next = n
		}

		end, octets, err := buf.Read(next, size)
		if err != nil {
			return offset, Value{}, err
		}

		switch kind {
		case KindBinary:
			return end, Binary(octets), nil
		case KindSymbol:
			if !isASCII(octets) {
				return offset, Value{}, errs.NewMalformedInput("symbol contains non-ASCII octets")
			}
			return end, Symbol(string(octets)), nil
		default: // KindString
			if !utf8.Valid(octets) {
				return offset, Value{}, errs.NewMalformedInput("string is not valid UTF-8")
			}
			return end, String(string(octets)), nil
		}
	}
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c > 0x7F {
			return false
		}
	}
	return true
}
