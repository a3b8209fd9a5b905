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
	"github.com/cespare/xxhash/v2"

	"github.com/ssorj/argon/buffer"
	"github.com/ssorj/argon/errs"
)

// encodeCompoundBody implements the compound emission procedure of
// §4.2 strategy (a): encode every child into a scratch buffer first, so
// the final size and count are known before any byte reaches buf, then
// write the short or long header followed by the scratch bytes.
//
// forceLong always picks the 32-bit header; array element bodies use
// this so that every element has the same shape regardless of its own
// size, since there is no per-element format code to vary instead.
func encodeCompoundBody(c *Codec, buf *buffer.Buffer, offset int, depth int, forceLong bool, emit func(scratch *buffer.Buffer, depth int) (count int, err error)) (int, bool, error) {
	scratch := buffer.New()
	count, err := emit(scratch, depth+1)
	if err != nil {
		return offset, false, err
	}

	long := forceLong || scratch.Len()+1 >= compactThreshold || count >= compactThreshold

	var end int
	if long {
		end = buf.Pack(offset, 4, "I", uint32(4+scratch.Len()))
		end = buf.Pack(end, 4, "I", uint32(count))
	} else {
		end = buf.Pack(offset, 1, "B", uint8(1+scratch.Len()))
		end = buf.Pack(end, 1, "B", uint8(count))
	}
	end = buf.Write(end, scratch.Bytes())

	return end, long, nil
}

func encodeList(c *Codec, buf *buffer.Buffer, offset int, v Value, depth int) (int, Format, error) {
	if len(v.List) == 0 {
		return offset, fmtListEmpty, nil
	}

	end, long, err := encodeCompoundBody(c, buf, offset, depth, false, func(scratch *buffer.Buffer, d int) (int, error) {
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
	if err != nil {
		return offset, 0, err
	}
	if long {
		return end, fmtList32, nil
	}
	return end, fmtList8, nil
}

func decodeListEmpty(_ *Codec, _ *buffer.Buffer, offset int, _ int) (int, Value, error) {
	return offset, List(), nil
}

func decodeListShort(c *Codec, buf *buffer.Buffer, offset int, depth int) (int, Value, error) {
	return decodeCompoundList(c, buf, offset, depth, 1)
}

func decodeListLong(c *Codec, buf *buffer.Buffer, offset int, depth int) (int, Value, error) {
	return decodeCompoundList(c, buf, offset, depth, 4)
}

func decodeCompoundList(c *Codec, buf *buffer.Buffer, offset int, depth int, headerWidth int) (int, Value, error) {
	next, size, count, err := readCompoundHeader(buf, offset, headerWidth)
	if err != nil {
		return offset, Value{}, err
	}
	bodyEnd := next + (size - headerWidth)

	elems := make([]Value, 0, count)
	pos := next
	for i := 0; i < count; i++ {
		var elem Value
		var err error
		pos, elem, err = c.decodeValue(buf, pos, depth+1)
		if err != nil {
			return offset, Value{}, err
		}
		elems = append(elems, elem)
	}
	if pos != bodyEnd {
		return offset, Value{}, errs.NewMalformedInput("list size/count mismatch: body ended at %d, header promised %d", pos, bodyEnd)
	}

	return pos, List(elems...), nil
}

func readCompoundHeader(buf *buffer.Buffer, offset int, headerWidth int) (int, int, int, error) {
	if headerWidth == 1 {
		next, vals, err := buf.Unpack(offset, 2, "BB")
		if err != nil {
			return offset, 0, 0, err
		}
		return next, int(vals[0].(uint8)), int(vals[1].(uint8)), nil
	}
	next, vals, err := buf.Unpack(offset, 8, "II")
	if err != nil {
		return offset, 0, 0, err
	}
	return next, int(vals[0].(uint32)), int(vals[1].(uint32)), nil
}

func encodeMap(c *Codec, buf *buffer.Buffer, offset int, v Value, depth int) (int, Format, error) {
	end, long, err := encodeCompoundBody(c, buf, offset, depth, false, func(scratch *buffer.Buffer, d int) (int, error) {
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
	if err != nil {
		return offset, 0, err
	}
	if long {
		return end, fmtMap32, nil
	}
	return end, fmtMap8, nil
}

func decodeMapShort(c *Codec, buf *buffer.Buffer, offset int, depth int) (int, Value, error) {
	return decodeMapBody(c, buf, offset, depth, 1)
}

func decodeMapLong(c *Codec, buf *buffer.Buffer, offset int, depth int) (int, Value, error) {
	return decodeMapBody(c, buf, offset, depth, 4)
}

func decodeMapBody(c *Codec, buf *buffer.Buffer, offset int, depth int, headerWidth int) (int, Value, error) {
	next, size, count, err := readCompoundHeader(buf, offset, headerWidth)
	if err != nil {
		return offset, Value{}, err
	}
	if count%2 != 0 {
		return offset, Value{}, errs.NewMalformedInput("map entry count %d is odd", count)
	}
	bodyEnd := next + (size - headerWidth)

	entries := make([]MapEntry, 0, count/2)
	seen := make(map[uint64][]Value, count/2)
	pos := next
	for i := 0; i < count/2; i++ {
		var key, val Value
		var err error
		pos, key, err = c.decodeValue(buf, pos, depth+1)
		if err != nil {
			return offset, Value{}, err
		}
		pos, val, err = c.decodeValue(buf, pos, depth+1)
		if err != nil {
			return offset, Value{}, err
		}

		digest := hashKey(key)
		for _, prior := range seen[digest] {
			if valuesEqual(prior, key) {
				return offset, Value{}, errs.NewMalformedInput("duplicate map key")
			}
		}
		seen[digest] = append(seen[digest], key)

		entries = append(entries, MapEntry{Key: key, Value: val})
	}
	if pos != bodyEnd {
		return offset, Value{}, errs.NewMalformedInput("map size/count mismatch: body ended at %d, header promised %d", pos, bodyEnd)
	}

	return pos, Map(entries...), nil
}

// hashKey digests a decoded map key with xxhash so large maps detect
// duplicate keys in close to O(n) instead of comparing every pair.
func hashKey(v Value) uint64 {
	h := xxhash.New()
	h.Write([]byte{byte(v.Kind)})
	h.Write(v.Bin)
	h.Write([]byte(v.Str))
	var scratch [8]byte
	putUint64(scratch[:], v.U64)
	h.Write(scratch[:])
	putUint64(scratch[:], uint64(v.I64))
	h.Write(scratch[:])
	return h.Sum64()
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (56 - 8*i))
	}
}

func valuesEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindString, KindSymbol:
		return a.Str == b.Str
	case KindBinary, KindDecimal32, KindDecimal64, KindDecimal128:
		return string(a.Bin) == string(b.Bin)
	case KindBoolean:
		return a.Bool == b.Bool
	case KindFloat:
		return a.F32 == b.F32
	case KindDouble:
		return a.F64 == b.F64
	case KindUUID:
		return a.UUID == b.UUID
	case KindNull:
		return true
	default:
		return a.U64 == b.U64 && a.I64 == b.I64
	}
}
