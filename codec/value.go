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

// Package codec implements the AMQP 1.0 type system: a tagged sum value
// (Value), the constructor/compact-form rules that choose how each value
// is serialized, and the recursive emit/parse procedures for primitives,
// lists, maps, and arrays. Everything above this layer — frames,
// messages, performatives — is built out of Value and Codec.
package codec

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind tags the logical AMQP type a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindUbyte
	KindUshort
	KindUint
	KindUlong
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindDecimal32
	KindDecimal64
	KindDecimal128
	KindChar
	KindTimestamp
	KindUUID
	KindBinary
	KindString
	KindSymbol
	KindList
	KindMap
	KindArray
)

func (k Kind) String() string {
	names := [...]string{
		"null", "boolean", "ubyte", "ushort", "uint", "ulong",
		"byte", "short", "int", "long", "float", "double",
		"decimal32", "decimal64", "decimal128", "char", "timestamp", "uuid",
		"binary", "string", "symbol", "list", "map", "array",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// MapEntry is one key/value pair of a decoded or to-be-encoded map. Order
// is preserved on decode and honored on encode.
type MapEntry struct {
	Key   Value
	Value Value
}

// Value is a tagged sum over every AMQP 1.0 primitive and compound type.
// Only the fields relevant to Kind are meaningful; the zero Value is
// Null. A non-nil Descriptor marks the value as described: on encode a
// 0x00 marker and the descriptor's own encoding precede the value's
// format code.
type Value struct {
	Kind Kind

	Bool bool
	U64  uint64 // ubyte/ushort/uint/ulong magnitude, char code point
	I64  int64  // byte/short/int/long, timestamp (ms since epoch)
	F32  float32
	F64  float64
	UUID uuid.UUID
	Str  string     // string, symbol
	Bin  []byte     // binary, decimal32/64/128 opaque octets
	List []Value    // list, array elements
	Map  []MapEntry // map entries

	ArrayElem Kind // element kind, meaningful only when Kind == KindArray

	Descriptor *Value
}

// Described returns a copy of v wrapped with the given descriptor.
func Described(descriptor, v Value) Value {
	d := descriptor
	v.Descriptor = &d
	return v
}

func Null() Value                 { return Value{Kind: KindNull} }
func Bool(b bool) Value           { return Value{Kind: KindBoolean, Bool: b} }
func Ubyte(v uint8) Value         { return Value{Kind: KindUbyte, U64: uint64(v)} }
func Ushort(v uint16) Value       { return Value{Kind: KindUshort, U64: uint64(v)} }
func Uint(v uint32) Value         { return Value{Kind: KindUint, U64: uint64(v)} }
func Ulong(v uint64) Value        { return Value{Kind: KindUlong, U64: v} }
func Byte(v int8) Value           { return Value{Kind: KindByte, I64: int64(v)} }
func Short(v int16) Value         { return Value{Kind: KindShort, I64: int64(v)} }
func Int(v int32) Value           { return Value{Kind: KindInt, I64: int64(v)} }
func Long(v int64) Value          { return Value{Kind: KindLong, I64: v} }
func Float(v float32) Value       { return Value{Kind: KindFloat, F32: v} }
func Double(v float64) Value      { return Value{Kind: KindDouble, F64: v} }
func Char(r rune) Value           { return Value{Kind: KindChar, U64: uint64(r)} }
func Timestamp(ms int64) Value    { return Value{Kind: KindTimestamp, I64: ms} }
func UUIDValue(u uuid.UUID) Value { return Value{Kind: KindUUID, UUID: u} }
func Binary(b []byte) Value       { return Value{Kind: KindBinary, Bin: append([]byte(nil), b...)} }
func String(s string) Value       { return Value{Kind: KindString, Str: s} }
func Symbol(s string) Value       { return Value{Kind: KindSymbol, Str: s} }
func List(values ...Value) Value  { return Value{Kind: KindList, List: values} }
func Decimal32(b [4]byte) Value   { return Value{Kind: KindDecimal32, Bin: b[:]} }
func Decimal64(b [8]byte) Value   { return Value{Kind: KindDecimal64, Bin: b[:]} }
func Decimal128(b [16]byte) Value { return Value{Kind: KindDecimal128, Bin: b[:]} }

// Map builds a map Value from an ordered slice of entries.
func Map(entries ...MapEntry) Value {
	return Value{Kind: KindMap, Map: entries}
}

// Array builds an array Value whose elements all share elemKind.
func Array(elemKind Kind, values ...Value) Value {
	return Value{Kind: KindArray, ArrayElem: elemKind, List: values}
}

// IsNull reports whether v is the Null value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// U64Uint32 narrows an unsigned integer Value's magnitude to uint32, the
// width every performative field that carries a channel, handle, or
// delivery id uses on the wire.
func (v Value) U64Uint32() uint32 { return uint32(v.U64) }

// At returns the element of a list Value at position i, or Null if the
// list is shorter than i+1. It implements the positional-field accessor
// pattern performatives and message sections use (§4.4).
func (v Value) At(i int) Value {
	if i < 0 || i >= len(v.List) {
		return Null()
	}
	return v.List[i]
}

// WithAt returns a copy of v with position i set to elem, extending the
// backing list with Null values as needed.
func (v Value) WithAt(i int, elem Value) Value {
	list := append([]Value(nil), v.List...)
	for len(list) <= i {
		list = append(list, Null())
	}
	list[i] = elem
	v.List = list
	return v
}
