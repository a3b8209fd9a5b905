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

package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssorj/argon/buffer"
	"github.com/ssorj/argon/codec"
	"github.com/ssorj/argon/descriptor"
)

func TestMessageRoundTrip(t *testing.T) {
	c := codec.New()
	m := New()
	m.SetPropertyField(0, codec.String("message-id-1"))
	m.SetApplicationProperty("priority", codec.Uint(7))
	m.SetBody(codec.Binary([]byte{1, 2, 3}))

	buf := buffer.New()
	end, err := m.Encode(c, buf, 0)
	require.NoError(t, err)

	got, err := Decode(c, buf, 0, end)
	require.NoError(t, err)

	require.NotNil(t, got.ApplicationProperties)
	assert.Equal(t, "priority", got.ApplicationProperties.Map[0].Key.Str)
	assert.Equal(t, uint64(7), got.ApplicationProperties.Map[0].Value.U64)

	assert.Equal(t, "message-id-1", got.Properties.At(0).Str)

	require.NotNil(t, got.Body)
	assert.Equal(t, []byte{1, 2, 3}, got.Body.Bin)
}

func TestMessageSectionsEmittedInFixedOrder(t *testing.T) {
	c := codec.New()
	m := New()
	m.SetHeaderField(0, codec.Bool(true))
	body := codec.String("body")
	m.SetBody(body)
	m.Footer = &codec.Value{Kind: codec.KindMap}

	buf := buffer.New()
	_, err := m.Encode(c, buf, 0)
	require.NoError(t, err)

	offset := 0
	var kinds []descriptor.Kind
	for offset < buf.Len() {
		next, v, err := c.Decode(buf, offset)
		require.NoError(t, err)
		require.NotNil(t, v.Descriptor)
		k, ok := descriptor.KindOf(v.Descriptor.U64)
		require.True(t, ok)
		kinds = append(kinds, k)
		offset = next
	}

	assert.Equal(t, []descriptor.Kind{descriptor.Header, descriptor.AmqpValue, descriptor.Footer}, kinds)
}

func TestMessageUnknownDescriptorIsSurfaced(t *testing.T) {
	c := codec.New()
	buf := buffer.New()

	// Attach (0x12) is not a valid message-scope descriptor.
	end, err := c.Encode(buf, 0, codec.Described(codec.Ulong(0x12), codec.List()))
	require.NoError(t, err)

	_, err = Decode(c, buf, 0, end)
	assert.Error(t, err)
}

func TestPositionalFieldAccessorsExtendWithNull(t *testing.T) {
	m := New()
	m.SetHeaderField(2, codec.Bool(true))

	assert.True(t, m.Header.At(0).IsNull())
	assert.True(t, m.Header.At(1).IsNull())
	assert.True(t, m.Header.At(2).Bool)
	assert.True(t, m.Header.At(5).IsNull())
}
