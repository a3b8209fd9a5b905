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

// Package message represents an AMQP message as its seven optional
// described sections (§4.4) and walks them, in fixed order, to and from
// a transfer frame's payload.
package message

import (
	"github.com/ssorj/argon/buffer"
	"github.com/ssorj/argon/codec"
	"github.com/ssorj/argon/descriptor"
	"github.com/ssorj/argon/errs"
)

// Message holds the present subset of the seven sections. A nil pointer
// section means absent; Header and Properties are present once a field
// has been set on them (or they were decoded). Present sections are
// always emitted in the fixed order
// Header, DeliveryAnnotations, MessageAnnotations, Properties,
// ApplicationProperties, Body, Footer.
type Message struct {
	Header                codec.Value // list, positional fields, see At/WithAt
	DeliveryAnnotations   *codec.Value
	MessageAnnotations    *codec.Value
	Properties            codec.Value // list, positional fields
	ApplicationProperties *codec.Value
	Body                  *codec.Value // descriptor 0x77 (AmqpValue) body
	Footer                *codec.Value

	hasHeader     bool
	hasProperties bool
}

// New returns an empty Message with no sections present.
func New() *Message {
	return &Message{}
}

// SetHeaderField sets position i of the Header list, marking the Header
// section present. Absent trailing fields stay null per §4.4.
func (m *Message) SetHeaderField(i int, v codec.Value) {
	m.Header = m.Header.WithAt(i, v)
	m.hasHeader = true
}

// SetPropertyField sets position i of the Properties list, marking the
// section present.
func (m *Message) SetPropertyField(i int, v codec.Value) {
	m.Properties = m.Properties.WithAt(i, v)
	m.hasProperties = true
}

// SetApplicationProperty sets key/value in the ApplicationProperties
// map, creating the section if absent.
func (m *Message) SetApplicationProperty(key string, v codec.Value) {
	var entries []codec.MapEntry
	if m.ApplicationProperties != nil {
		entries = m.ApplicationProperties.Map
	}
	for i, e := range entries {
		if e.Key.Kind == codec.KindString && e.Key.Str == key {
			entries[i].Value = v
			return
		}
	}
	entries = append(entries, codec.MapEntry{Key: codec.String(key), Value: v})
	section := codec.Map(entries...)
	m.ApplicationProperties = &section
}

// SetBody sets the message body to an AmqpValue section wrapping v.
func (m *Message) SetBody(v codec.Value) {
	m.Body = &v
}

// Encode appends every present section, in order, to buf starting at
// offset, returning the offset following the last section.
func (m *Message) Encode(c *codec.Codec, buf *buffer.Buffer, offset int) (int, error) {
	emit := func(kind descriptor.Kind, v *codec.Value) error {
		if v == nil {
			return nil
		}
		var err error
		offset, err = c.Encode(buf, offset, codec.Described(codec.Ulong(descriptor.Code[kind]), *v))
		return err
	}

	if m.hasHeader {
		if err := emit(descriptor.Header, &m.Header); err != nil {
			return offset, err
		}
	}
	if err := emit(descriptor.DeliveryAnnotations, m.DeliveryAnnotations); err != nil {
		return offset, err
	}
	if err := emit(descriptor.MessageAnnotations, m.MessageAnnotations); err != nil {
		return offset, err
	}
	if m.hasProperties {
		if err := emit(descriptor.Properties, &m.Properties); err != nil {
			return offset, err
		}
	}
	if err := emit(descriptor.ApplicationProperties, m.ApplicationProperties); err != nil {
		return offset, err
	}
	if err := emit(descriptor.AmqpValue, m.Body); err != nil {
		return offset, err
	}
	if err := emit(descriptor.Footer, m.Footer); err != nil {
		return offset, err
	}

	return offset, nil
}

// Decode parses sections from buf starting at offset until end,
// classifying each by its descriptor and assigning it to the matching
// field. An unknown descriptor at message scope is a MalformedInput
// error per §4.4 ("MUST be surfaced to the caller, not silently
// dropped").
func Decode(c *codec.Codec, buf *buffer.Buffer, offset int, end int) (*Message, error) {
	m := New()

	for offset < end {
		next, v, err := c.Decode(buf, offset)
		if err != nil {
			return nil, err
		}
		offset = next

		if v.Descriptor == nil || v.Descriptor.Kind != codec.KindUlong {
			return nil, errs.NewMalformedInput("message section missing ulong descriptor")
		}
		kind, ok := descriptor.KindOf(v.Descriptor.U64)
		if !ok {
			return nil, errs.NewMalformedInput("unknown message section descriptor 0x%X", v.Descriptor.U64)
		}

		body := v
		body.Descriptor = nil

		switch kind {
		case descriptor.Header:
			m.Header = body
			m.hasHeader = true
		case descriptor.DeliveryAnnotations:
			m.DeliveryAnnotations = &body
		case descriptor.MessageAnnotations:
			m.MessageAnnotations = &body
		case descriptor.Properties:
			m.Properties = body
			m.hasProperties = true
		case descriptor.ApplicationProperties:
			m.ApplicationProperties = &body
		case descriptor.AmqpValue:
			m.Body = &body
		case descriptor.Footer:
			m.Footer = &body
		default:
			return nil, errs.NewMalformedInput("descriptor %s is not a valid message section", kind)
		}
	}

	return m, nil
}
