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

package endpoint

import (
	"github.com/ssorj/argon/codec"
	"github.com/ssorj/argon/descriptor"
)

// Each performative is a described list with named positional fields
// (§3, §4.5). On encode we emit only the shortest prefix whose trailing
// fields are all null (§9 "Field lists"); on decode, At tolerates a
// shorter list than the field count below.

// Open is the connection-scope performative. Field 0 is container-id.
type Open struct {
	ContainerID string
	Hostname    string
}

func (o Open) ToValue() codec.Value {
	list := codec.List().WithAt(0, codec.String(o.ContainerID))
	if o.Hostname != "" {
		list = list.WithAt(1, codec.String(o.Hostname))
	}
	return codec.Described(codec.Ulong(descriptor.Code[descriptor.Open]), list)
}

func OpenFromValue(v codec.Value) Open {
	return Open{ContainerID: v.At(0).Str, Hostname: v.At(1).Str}
}

// Begin is the session-scope performative. Field 0 is remote-channel
// (null when this Begin is sent first), field 4 is handle-max
// (unused here).
type Begin struct {
	RemoteChannel  *uint16
	NextOutgoingID uint32
	IncomingWindow uint32
	OutgoingWindow uint32
}

func (b Begin) ToValue() codec.Value {
	list := codec.List().
		WithAt(0, remoteChannelValue(b.RemoteChannel)).
		WithAt(1, codec.Uint(b.NextOutgoingID)).
		WithAt(2, codec.Uint(b.IncomingWindow)).
		WithAt(3, codec.Uint(b.OutgoingWindow))
	return codec.Described(codec.Ulong(descriptor.Code[descriptor.Begin]), list)
}

func remoteChannelValue(ch *uint16) codec.Value {
	if ch == nil {
		return codec.Null()
	}
	return codec.Ushort(*ch)
}

func BeginFromValue(v codec.Value) Begin {
	b := Begin{
		NextOutgoingID: v.At(1).U64Uint32(),
		IncomingWindow: v.At(2).U64Uint32(),
		OutgoingWindow: v.At(3).U64Uint32(),
	}
	if !v.At(0).IsNull() {
		ch := uint16(v.At(0).U64)
		b.RemoteChannel = &ch
	}
	return b
}

// Attach is the link-scope performative. Field 0 is name, field 1 is
// handle, field 2 is role (false=sender).
type Attach struct {
	Name   string
	Handle uint32
	Role   bool // false = sender, true = receiver
}

func (a Attach) ToValue() codec.Value {
	list := codec.List().
		WithAt(0, codec.String(a.Name)).
		WithAt(1, codec.Uint(a.Handle)).
		WithAt(2, codec.Bool(a.Role))
	return codec.Described(codec.Ulong(descriptor.Code[descriptor.Attach]), list)
}

func AttachFromValue(v codec.Value) Attach {
	return Attach{
		Name:   v.At(0).Str,
		Handle: v.At(1).U64Uint32(),
		Role:   v.At(2).Bool,
	}
}

// Flow carries link-credit updates. A null Handle targets the session.
// NextIncomingID and NextOutgoingID are nullable per §2.7.4 (the former
// is null on a Flow sent before any Transfer has been received); this
// client doesn't track either sequence, so it only ever emits the
// window fields and, for a link-targeted Flow, Handle/LinkCredit.
type Flow struct {
	NextIncomingID *uint32
	IncomingWindow uint32
	NextOutgoingID *uint32
	OutgoingWindow uint32
	Handle         *uint32
	LinkCredit     *uint32
}

func (f Flow) ToValue() codec.Value {
	list := codec.List().
		WithAt(1, codec.Uint(f.IncomingWindow)).
		WithAt(3, codec.Uint(f.OutgoingWindow))
	if f.NextIncomingID != nil {
		list = list.WithAt(0, codec.Uint(*f.NextIncomingID))
	}
	if f.NextOutgoingID != nil {
		list = list.WithAt(2, codec.Uint(*f.NextOutgoingID))
	}
	if f.Handle != nil {
		list = list.WithAt(4, codec.Uint(*f.Handle))
	}
	if f.LinkCredit != nil {
		list = list.WithAt(6, codec.Uint(*f.LinkCredit))
	}
	return codec.Described(codec.Ulong(descriptor.Code[descriptor.Flow]), list)
}

func FlowFromValue(v codec.Value) Flow {
	f := Flow{
		IncomingWindow: v.At(1).U64Uint32(),
		OutgoingWindow: v.At(3).U64Uint32(),
	}
	if !v.At(0).IsNull() {
		id := v.At(0).U64Uint32()
		f.NextIncomingID = &id
	}
	if !v.At(2).IsNull() {
		id := v.At(2).U64Uint32()
		f.NextOutgoingID = &id
	}
	if !v.At(4).IsNull() {
		h := v.At(4).U64Uint32()
		f.Handle = &h
	}
	if !v.At(6).IsNull() {
		lc := v.At(6).U64Uint32()
		f.LinkCredit = &lc
	}
	return f
}

// Transfer carries one outgoing delivery.
type Transfer struct {
	Handle      uint32
	DeliveryID  uint32
	DeliveryTag []byte
	Settled     bool
}

func (tr Transfer) ToValue() codec.Value {
	list := codec.List().
		WithAt(0, codec.Uint(tr.Handle)).
		WithAt(1, codec.Uint(tr.DeliveryID)).
		WithAt(2, codec.Binary(tr.DeliveryTag)).
		WithAt(4, codec.Bool(tr.Settled))
	return codec.Described(codec.Ulong(descriptor.Code[descriptor.Transfer]), list)
}

func TransferFromValue(v codec.Value) Transfer {
	return Transfer{
		Handle:      v.At(0).U64Uint32(),
		DeliveryID:  v.At(1).U64Uint32(),
		DeliveryTag: v.At(2).Bin,
		Settled:     v.At(4).Bool,
	}
}

// Disposition reports settlement of a range of deliveries.
type Disposition struct {
	Role    bool
	First   uint32
	Last    uint32
	Settled bool
}

func DispositionFromValue(v codec.Value) Disposition {
	return Disposition{
		Role:    v.At(0).Bool,
		First:   v.At(1).U64Uint32(),
		Last:    v.At(2).U64Uint32(),
		Settled: v.At(3).Bool,
	}
}

// Detach ends a link. Field 0 is handle.
type Detach struct {
	Handle uint32
	Closed bool
}

func (d Detach) ToValue() codec.Value {
	list := codec.List().
		WithAt(0, codec.Uint(d.Handle)).
		WithAt(1, codec.Bool(d.Closed))
	return codec.Described(codec.Ulong(descriptor.Code[descriptor.Detach]), list)
}

func DetachFromValue(v codec.Value) Detach {
	return Detach{Handle: v.At(0).U64Uint32(), Closed: v.At(1).Bool}
}

// End terminates a session.
type End struct{}

func (End) ToValue() codec.Value {
	return codec.Described(codec.Ulong(descriptor.Code[descriptor.End]), codec.List())
}

// Close terminates the connection.
type Close struct{}

func (Close) ToValue() codec.Value {
	return codec.Described(codec.Ulong(descriptor.Code[descriptor.Close]), codec.List())
}
