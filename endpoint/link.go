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
	"fmt"

	"github.com/ssorj/argon/buffer"
	"github.com/ssorj/argon/codec"
	"github.com/ssorj/argon/message"
)

// Link is the link-scope endpoint entity of §3: a name, a handle, a
// role, and — for an outgoing link — a delivery id sequence.
type Link struct {
	Name   string
	Handle uint32
	Role   bool // false = sender, true = receiver
	State  State

	session        *Session
	nextDeliveryID uint32
	credit         uint32

	OnAttach func(Attach)
	OnFlow   func(Flow)
	OnDetach func(Detach)
}

// Attach emits the local Attach performative and transitions to
// OpenSent. Role false (sender) is the only role this client's Send
// path exercises; there is no receiver-side reassembly.
func (l *Link) Attach() error {
	if l.State != Unopened {
		return newUsage("link.Attach called in state %s", l.State)
	}
	a := Attach{Name: l.Name, Handle: l.Handle, Role: l.Role}
	if err := l.session.conn.out.EnqueueOutput(l.session.Channel, a.ToValue(), nil); err != nil {
		return err
	}
	l.State = OpenSent
	return nil
}

func (l *Link) handleAttach(a Attach) error {
	switch l.State {
	case OpenSent:
		l.State = Opened
	case Unopened:
		if err := l.Attach(); err != nil {
			return err
		}
		l.State = Opened
	default:
		return newProtocolViolation("unexpected Attach in state %s", l.State)
	}
	if l.OnAttach != nil {
		l.OnAttach(a)
	}
	return nil
}

func (l *Link) handleFlow(f Flow) error {
	if f.LinkCredit != nil {
		l.credit = *f.LinkCredit
	}
	if l.OnFlow != nil {
		l.OnFlow(f)
	}
	return nil
}

// Credit reports the sender's current link-credit, as last advertised
// by a Flow targeting this link.
func (l *Link) Credit() uint32 { return l.credit }

func (l *Link) detachLocal() error {
	if err := l.session.conn.out.EnqueueOutput(l.session.Channel, Detach{Handle: l.Handle, Closed: true}.ToValue(), nil); err != nil {
		return err
	}
	l.State = CloseSent
	return nil
}

func (l *Link) handleDetach(d Detach) error {
	switch l.State {
	case CloseSent:
		l.State = Closed
	case Opened, OpenSent:
		if err := l.detachLocal(); err != nil {
			return err
		}
		l.State = Closed
	default:
		return newProtocolViolation("unexpected Detach in state %s", l.State)
	}
	if l.OnDetach != nil {
		l.OnDetach(d)
	}
	return nil
}

// Send encodes msg and emits it as a single presettled Transfer (§4.5:
// "the codec today implements only presettled delivery"). It allocates
// the next delivery id and synthesizes an ASCII delivery tag
// "delivery-<id>". Calling Send while the link is not Opened, or while
// Credit() == 0, is a UsageError surfaced synchronously — per §4.5 this
// core does not enforce flow control beyond that check.
func (l *Link) Send(c *codec.Codec, m *message.Message) error {
	if l.State != Opened {
		return newUsage("link.Send called before link opened (state %s)", l.State)
	}
	if l.credit == 0 {
		return newUsage("link.Send called with zero credit")
	}

	buf := buffer.New()
	end, err := m.Encode(c, buf, 0)
	if err != nil {
		return err
	}
	_, payload, err := buf.Read(0, end)
	if err != nil {
		return err
	}

	deliveryID := l.nextDeliveryID
	l.nextDeliveryID++
	l.credit--

	tr := Transfer{
		Handle:      l.Handle,
		DeliveryID:  deliveryID,
		DeliveryTag: []byte(fmt.Sprintf("delivery-%d", deliveryID)),
		Settled:     true,
	}
	return l.session.conn.out.EnqueueOutput(l.session.Channel, tr.ToValue(), payload)
}
