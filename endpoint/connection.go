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

// Package endpoint drives the Open/Begin/Attach/Flow/Transfer/
// Disposition/Detach/End/Close handshake (§4.5) over a pure edge pair:
// inbound frames arrive through HandleFrame, outbound frames leave
// through the Output this Connection was built with. Nothing here
// touches a socket — see package transport for that.
package endpoint

import (
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/ssorj/argon/codec"
	"github.com/ssorj/argon/descriptor"
)

// Output is the transport-facing edge a Connection emits frames
// through; it is the enqueue_output surface of §1.
type Output interface {
	EnqueueOutput(channel uint16, performative codec.Value, payload []byte) error
}

// Connection is the top-level endpoint entity of §3: a container id, a
// channel allocator, and the sessions opened on it.
type Connection struct {
	ContainerID string
	State       State

	out      Output
	sessions map[uint16]*Session
	nextChan uint32

	OnOpen  func(Open)
	OnClose func()
	OnStop  func(error)
}

// NewConnection returns a Connection bound to out, with a randomly
// generated container id (hex of 16 random octets, per §3).
func NewConnection(out Output) *Connection {
	id := uuid.New()
	return &Connection{
		ContainerID: hex.EncodeToString(id[:]),
		out:         out,
		sessions:    make(map[uint16]*Session),
	}
}

// Open emits the local Open performative and transitions to OpenSent.
func (c *Connection) Open() error {
	if c.State != Unopened {
		return newUsage("connection.Open called in state %s", c.State)
	}
	if err := c.out.EnqueueOutput(0, Open{ContainerID: c.ContainerID}.ToValue(), nil); err != nil {
		return err
	}
	c.State = OpenSent
	return nil
}

// Session allocates a new session on the next available channel and
// registers it, but does not yet emit Begin — call Session.Begin.
func (c *Connection) Session() *Session {
	channel := uint16(c.nextChan)
	c.nextChan++

	s := &Session{
		Channel: channel,
		conn:    c,
		links:   make(map[string]*Link),
		handles: make(map[uint32]*Link),
	}
	c.sessions[channel] = s
	return s
}

// HandleFrame dispatches one inbound frame to the connection, session,
// or link it targets (§4.5 dispatch rules). A codec or protocol error
// surfaced by a handler is fatal: the caller should stop reading and
// close the connection's transport.
func (c *Connection) HandleFrame(channel uint16, performative codec.Value) error {
	if performative.Descriptor == nil || performative.Descriptor.Kind != codec.KindUlong {
		return newProtocolViolation("frame performative missing ulong descriptor")
	}
	kind, ok := descriptor.KindOf(performative.Descriptor.U64)
	if !ok {
		return newProtocolViolation("unknown performative descriptor 0x%X", performative.Descriptor.U64)
	}

	body := performative
	body.Descriptor = nil

	switch kind {
	case descriptor.Open:
		return c.handleOpen(OpenFromValue(body))
	case descriptor.Close:
		return c.handleClose()
	case descriptor.Begin:
		return c.sessionFor(channel, true).handleBegin(BeginFromValue(body))
	case descriptor.End:
		s := c.sessionFor(channel, false)
		if s == nil {
			return newProtocolViolation("end on unknown channel %d", channel)
		}
		return s.handleEnd()
	case descriptor.Attach, descriptor.Flow, descriptor.Transfer, descriptor.Disposition, descriptor.Detach:
		s := c.sessionFor(channel, false)
		if s == nil {
			return newProtocolViolation("%s on unknown channel %d", kind, channel)
		}
		return s.handlePerformative(kind, body)
	default:
		return newProtocolViolation("%s is not valid at connection scope", kind)
	}
}

func (c *Connection) sessionFor(channel uint16, createIfMissing bool) *Session {
	if s, ok := c.sessions[channel]; ok {
		return s
	}
	if !createIfMissing {
		return nil
	}
	s := &Session{Channel: channel, conn: c, links: make(map[string]*Link), handles: make(map[uint32]*Link)}
	c.sessions[channel] = s
	return s
}

func (c *Connection) handleOpen(o Open) error {
	switch c.State {
	case OpenSent:
		c.State = Opened
	case Unopened:
		if err := c.Open(); err != nil {
			return err
		}
		c.State = Opened
	default:
		return newProtocolViolation("unexpected Open in state %s", c.State)
	}
	if c.OnOpen != nil {
		c.OnOpen(o)
	}
	return nil
}

func (c *Connection) handleClose() error {
	switch c.State {
	case CloseSent:
		c.State = Closed
	case Opened:
		if err := c.closeLocal(); err != nil {
			return err
		}
		c.State = Closed
	default:
		return newProtocolViolation("unexpected Close in state %s", c.State)
	}
	if c.OnClose != nil {
		c.OnClose()
	}
	return nil
}

// Close emits the local Close and tears down every open session and
// link. Failures encoding or emitting individual Detach/End frames are
// aggregated with go-multierror so the caller sees every endpoint that
// failed to close, not just the first.
func (c *Connection) Close() error {
	if c.State != Opened {
		return newUsage("connection.Close called in state %s", c.State)
	}
	err := c.closeLocal()
	c.State = CloseSent
	return err
}

func (c *Connection) closeLocal() error {
	var result *multierror.Error
	for _, s := range c.sessions {
		if s.State == Opened || s.State == OpenSent {
			if err := s.teardown(); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	if err := c.out.EnqueueOutput(0, Close{}.ToValue(), nil); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
