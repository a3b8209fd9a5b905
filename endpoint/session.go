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
	"github.com/hashicorp/go-multierror"

	"github.com/ssorj/argon/codec"
	"github.com/ssorj/argon/descriptor"
)

// defaultWindow is the incoming/outgoing transfer-count window this
// client advertises. Link-level flow control beyond accepting a credit
// value isn't implemented, so the window only needs to be wide enough
// that the broker never blocks our sole outgoing link.
const defaultWindow = 2048

// Session is the session-scope endpoint entity of §3: a channel number,
// transfer windows, and the links opened on it.
type Session struct {
	Channel uint16
	State   State

	conn       *Connection
	links      map[string]*Link
	handles    map[uint32]*Link
	nextHandle uint32

	incomingDeliveryCount uint64

	OnBegin func(Begin)
	OnFlow  func(Flow)
	OnEnd   func()
}

// Begin emits the local Begin performative and transitions to OpenSent.
func (s *Session) Begin() error {
	if s.State != Unopened {
		return newUsage("session.Begin called in state %s", s.State)
	}
	b := Begin{NextOutgoingID: 0, IncomingWindow: defaultWindow, OutgoingWindow: defaultWindow}
	if err := s.conn.out.EnqueueOutput(s.Channel, b.ToValue(), nil); err != nil {
		return err
	}
	s.State = OpenSent
	return nil
}

// Link allocates a new link on the next available handle, but does not
// yet emit Attach — call Link.Attach.
func (s *Session) Link(name string) *Link {
	handle := s.nextHandle
	s.nextHandle++

	l := &Link{Name: name, Handle: handle, session: s}
	s.links[name] = l
	s.handles[handle] = l
	return l
}

// End emits the local End, detaching every open link first.
func (s *Session) End() error {
	if s.State != Opened {
		return newUsage("session.End called in state %s", s.State)
	}
	return s.teardown()
}

func (s *Session) teardown() error {
	var result *multierror.Error
	for _, l := range s.links {
		if l.State == Opened || l.State == OpenSent {
			if err := l.detachLocal(); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	if err := s.conn.out.EnqueueOutput(s.Channel, End{}.ToValue(), nil); err != nil {
		result = multierror.Append(result, err)
	}
	s.State = CloseSent
	return result.ErrorOrNil()
}

func (s *Session) handleBegin(b Begin) error {
	switch s.State {
	case OpenSent:
		s.State = Opened
	case Unopened:
		if err := s.Begin(); err != nil {
			return err
		}
		s.State = Opened
	default:
		return newProtocolViolation("unexpected Begin in state %s", s.State)
	}
	if s.OnBegin != nil {
		s.OnBegin(b)
	}
	return nil
}

func (s *Session) handleEnd() error {
	switch s.State {
	case CloseSent:
		s.State = Closed
	case Opened:
		if err := s.teardown(); err != nil {
			return err
		}
		s.State = Closed
	default:
		return newProtocolViolation("unexpected End in state %s", s.State)
	}
	if s.OnEnd != nil {
		s.OnEnd()
	}
	return nil
}

func (s *Session) handlePerformative(kind descriptor.Kind, body codec.Value) error {
	switch kind {
	case descriptor.Attach:
		a := AttachFromValue(body)
		l, ok := s.links[a.Name]
		if !ok {
			return newProtocolViolation("attach for unknown link name %q", a.Name)
		}
		return l.handleAttach(a)

	case descriptor.Flow:
		f := FlowFromValue(body)
		if f.Handle == nil {
			if s.OnFlow != nil {
				s.OnFlow(f)
			}
			return nil
		}
		l, ok := s.handles[*f.Handle]
		if !ok {
			return newProtocolViolation("flow for unknown handle %d", *f.Handle)
		}
		return l.handleFlow(f)

	case descriptor.Transfer:
		s.incomingDeliveryCount++
		return nil

	case descriptor.Disposition:
		return nil

	case descriptor.Detach:
		d := DetachFromValue(body)
		l, ok := s.handles[d.Handle]
		if !ok {
			return newProtocolViolation("detach for unknown handle %d", d.Handle)
		}
		return l.handleDetach(d)

	default:
		return newProtocolViolation("%s is not valid at session scope", kind)
	}
}
