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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssorj/argon/buffer"
)

func encodeToBytes(t *testing.T, v Value) []byte {
	t.Helper()
	c := New()
	buf := buffer.New()
	end, err := c.Encode(buf, 0, v)
	require.NoError(t, err)
	_, view, err := buf.Read(0, end)
	require.NoError(t, err)
	return append([]byte(nil), view...)
}

func TestEncodeConcreteScenarios(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want []byte
	}{
		{"null", Null(), []byte{0x40}},
		{"true", Bool(true), []byte{0x41}},
		{"false", Bool(false), []byte{0x42}},
		{"uint zero", Uint(0), []byte{0x43}},
		{"uint small", Uint(128), []byte{0x52, 0x80}},
		{"uint max", Uint(0xFFFFFFFF), []byte{0x70, 0xFF, 0xFF, 0xFF, 0xFF}},
		{
			"string with emoji",
			String("Hello, \U0001F34B!"),
			[]byte{0xA1, 0x0C, 0x48, 0x65, 0x6C, 0x6C, 0x6F, 0x2C, 0x20, 0xF0, 0x9F, 0x8D, 0x8B, 0x21},
		},
		{"empty list", List(), []byte{0x45}},
		{
			"short list of compact uints",
			List(Uint(0), Uint(1), Uint(2)),
			[]byte{0xC0, 0x06, 0x03, 0x43, 0x52, 0x01, 0x52, 0x02},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encodeToBytes(t, tt.v))
		})
	}
}

func roundTrip(t *testing.T, v Value) Value {
	t.Helper()
	c := New()
	buf := buffer.New()
	end, err := c.Encode(buf, 0, v)
	require.NoError(t, err)

	next, got, err := c.Decode(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, end, next)
	return got
}

func TestRoundTripPrimitives(t *testing.T) {
	tests := []struct {
		name string
		v    Value
	}{
		{"null", Null()},
		{"true", Bool(true)},
		{"false", Bool(false)},
		{"ubyte", Ubyte(200)},
		{"ushort", Ushort(40000)},
		{"uint zero", Uint(0)},
		{"uint small", Uint(42)},
		{"uint large", Uint(0xABCDEF01)},
		{"ulong zero", Ulong(0)},
		{"ulong small", Ulong(7)},
		{"ulong large", Ulong(0x0102030405060708)},
		{"byte", Byte(-12)},
		{"short", Short(-1234)},
		{"int small", Int(5)},
		{"int large", Int(-70000)},
		{"long small", Long(-100)},
		{"long large", Long(-1)},
		{"float", Float(3.5)},
		{"double", Double(2.25)},
		{"char", Char('λ')},
		{"timestamp", Timestamp(1700000000000)},
		{"binary", Binary([]byte{0x01, 0x02, 0x03})},
		{"string", String("hello world")},
		{"symbol", Symbol("amqp:accepted:list")},
		{"empty list", List()},
		{"list", List(Uint(1), String("x"), Bool(true))},
		{"map", Map(MapEntry{Key: Symbol("k"), Value: Uint(1)})},
		{"array of uint", Array(KindUint, Uint(1), Uint(2), Uint(3))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := roundTrip(t, tt.v)
			assert.Equal(t, tt.v.Kind, got.Kind)
		})
	}
}

func TestRoundTripDescribedValue(t *testing.T) {
	v := Described(Ulong(0x10), List(String("container-1")))
	got := roundTrip(t, v)

	require.NotNil(t, got.Descriptor)
	assert.Equal(t, KindUlong, got.Descriptor.Kind)
	assert.Equal(t, uint64(0x10), got.Descriptor.U64)
	assert.Equal(t, "container-1", got.List[0].Str)
}

func TestLargeListPromotesToLongForm(t *testing.T) {
	elems := make([]Value, 300)
	for i := range elems {
		elems[i] = Uint(uint32(i))
	}
	v := List(elems...)

	raw := encodeToBytes(t, v)
	assert.Equal(t, byte(fmtList32), raw[0])

	got := roundTrip(t, v)
	assert.Len(t, got.List, 300)
}

func TestMapDuplicateKeyIsMalformedInput(t *testing.T) {
	c := New()
	buf := buffer.New()

	_, err := c.Encode(buf, 0, Map(
		MapEntry{Key: Symbol("dup"), Value: Uint(1)},
		MapEntry{Key: Symbol("dup"), Value: Uint(2)},
	))
	require.NoError(t, err)

	_, _, err = c.Decode(buf, 0)
	assert.Error(t, err)
}

func TestArrayElementsShareOneConstructor(t *testing.T) {
	v := Array(KindUint, Uint(0), Uint(1), Uint(2))
	got := roundTrip(t, v)

	require.Equal(t, KindArray, got.Kind)
	require.Len(t, got.List, 3)
	for i, elem := range got.List {
		assert.Equal(t, KindUint, elem.Kind)
		assert.Equal(t, uint64(i), elem.U64)
	}
}

func TestArrayOfArraysPermitted(t *testing.T) {
	inner := Array(KindUint, Uint(1), Uint(2))
	outer := Array(KindArray, inner, inner)

	got := roundTrip(t, outer)
	require.Len(t, got.List, 2)
	assert.Equal(t, KindArray, got.List[0].Kind)
	assert.Equal(t, KindUint, got.List[0].ArrayElem)
}

func TestRecursionDepthExceeded(t *testing.T) {
	c := &Codec{MaxDepth: 2}
	buf := buffer.New()

	nested := List(List(List(Uint(1))))
	_, err := c.Encode(buf, 0, nested)
	assert.Error(t, err)
}

func TestUnknownFormatCodeIsMalformedInput(t *testing.T) {
	c := New()
	buf := buffer.NewFrom([]byte{0xFF})

	_, _, err := c.Decode(buf, 0)
	assert.Error(t, err)
}
