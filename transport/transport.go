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

// Package transport drives an endpoint.Connection over a real TCP
// socket: the 8-octet protocol header exchange of §4.1, and a
// single-goroutine poll loop (§5) that reads, parses, and dispatches
// inbound frames and writes queued outbound ones.
//
// Go exposes no portable poll(2) surface, so the fixed poll quantum is
// emulated with SetReadDeadline/SetWriteDeadline: the loop blocks on the
// socket for up to one quantum, then re-checks for cancellation.
package transport

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/ssorj/argon/buffer"
	"github.com/ssorj/argon/codec"
	"github.com/ssorj/argon/common"
	"github.com/ssorj/argon/endpoint"
	"github.com/ssorj/argon/frame"
	"github.com/ssorj/argon/logger"
	"github.com/ssorj/argon/metrics"
)

// hexDump renders octets as a space-separated hex string for
// ARGON_DEBUG tracing. The scratch buffer is pooled with
// bytebufferpool rather than built with fmt/strings.Builder, since a
// busy connection calls this once per frame in each direction.
func hexDump(octets []byte) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for i, b := range octets {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(buf, "%02X", b)
	}
	return buf.String()
}

// protocolHeader is the fixed 8-octet AMQP protocol header of §4.1:
// "AMQP", protocol id 0, major 1, minor 0, revision 0.
var protocolHeader = [8]byte{'A', 'M', 'Q', 'P', 0, 1, 0, 0}

// debugEnabled gates the inbound/outbound hex-dump tracing this package
// writes when ARGON_DEBUG is set in the environment — a developer knob,
// not a deployment one, so it stays an env var rather than a config flag.
func debugEnabled() bool {
	return os.Getenv("ARGON_DEBUG") != ""
}

// Transport owns the socket, the codec, and the read/write buffers for
// one connection. It implements endpoint.Output, so a Connection built
// on top of it can enqueue outbound frames directly.
type Transport struct {
	conn net.Conn
	c    *codec.Codec

	inBuf    *buffer.Buffer
	parsedAt int

	outBuf    *buffer.Buffer
	writtenAt int

	quantum time.Duration
	maxSize int
	metrics *metrics.Registry
	debug   bool
}

// Dial opens a TCP connection to addr and performs the protocol header
// handshake of §4.1: write our header, then read and validate the
// peer's before returning. The handshake itself is a single blocking
// round trip, not yet subject to the poll quantum.
func Dial(addr string, quantum time.Duration, maxFrameSize uint32, reg *metrics.Registry) (*Transport, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "transport: dial %s", addr)
	}

	t := &Transport{
		conn:    conn,
		c:       codec.New(),
		inBuf:   buffer.New(),
		outBuf:  buffer.New(),
		quantum: quantum,
		maxSize: int(maxFrameSize),
		metrics: reg,
		debug:   debugEnabled(),
	}

	if err := t.handshake(); err != nil {
		conn.Close()
		return nil, err
	}
	return t, nil
}

func (t *Transport) handshake() error {
	if _, err := t.conn.Write(protocolHeader[:]); err != nil {
		return errors.Wrap(err, "transport: writing protocol header")
	}
	var peer [8]byte
	if _, err := io.ReadFull(t.conn, peer[:]); err != nil {
		return errors.Wrap(err, "transport: reading peer protocol header")
	}
	if !bytes.Equal(peer[:4], protocolHeader[:4]) {
		return errors.Errorf("transport: peer sent unrecognized header %q", peer[:4])
	}
	if t.debug {
		logger.Debugf("transport: handshake ok, peer header % X", peer[:])
	}
	if t.metrics != nil {
		t.metrics.BytesSent.Add(8)
		t.metrics.BytesReceived.Add(8)
	}
	return nil
}

// EnqueueOutput implements endpoint.Output: it encodes performative and
// payload as one frame into the outbound buffer immediately. The run
// loop flushes whatever has accumulated there on its next write turn.
// Calling this from inside a HandleFrame callback is the one form of
// transport reentrancy §5 permits.
func (t *Transport) EnqueueOutput(channel uint16, performative codec.Value, payload []byte) error {
	start := t.outBuf.Len()
	end, err := frame.Emit(t.c, t.outBuf, start, frame.Frame{
		Channel:      channel,
		Performative: performative,
		Payload:      payload,
	})
	if err != nil {
		return err
	}
	if t.debug {
		logger.Debugf("transport: queued outbound frame channel=%d %s", channel, hexDump(t.outBuf.Bytes()[start:end]))
	}
	if t.metrics != nil {
		t.metrics.FramesSent.Inc()
	}
	return nil
}

// Run drives conn's endpoint.Connection until stop fires or the peer
// closes the socket or a handler returns an error. It never returns nil
// except on a clean local shutdown triggered by stop.
func (t *Transport) Run(conn *endpoint.Connection, stop <-chan struct{}) error {
	readBuf := make([]byte, common.ReadWriteBlockSize)

	for {
		select {
		case <-stop:
			return t.conn.Close()
		default:
		}

		if err := t.flushOutbound(); err != nil {
			return err
		}

		if err := t.conn.SetReadDeadline(time.Now().Add(t.quantum)); err != nil {
			return errors.Wrap(err, "transport: set read deadline")
		}
		n, err := t.conn.Read(readBuf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if errors.Is(err, io.EOF) {
				return errors.New("transport: connection closed by peer")
			}
			return errors.Wrap(err, "transport: read")
		}
		if n == 0 {
			continue
		}

		at := t.inBuf.Len()
		t.inBuf.Write(at, readBuf[:n])
		if t.metrics != nil {
			t.metrics.BytesReceived.Add(float64(n))
		}

		if err := t.parseReady(conn); err != nil {
			return err
		}
		t.rewind()
	}
}

func (t *Transport) parseReady(conn *endpoint.Connection) error {
	for {
		if t.maxSize > 0 {
			if size, ok := frame.PeekSize(t.inBuf, t.parsedAt); ok && size > t.maxSize {
				return errors.Errorf("transport: peer frame size %d exceeds max-frame-size %d", size, t.maxSize)
			}
		}

		start := t.parsedAt
		next, f, err := frame.Parse(t.c, t.inBuf, t.parsedAt)
		if err != nil {
			if errors.Is(err, frame.ErrIncomplete) {
				return nil
			}
			return err
		}
		t.parsedAt = next

		if t.debug {
			logger.Debugf("transport: parsed inbound frame channel=%d %s", f.Channel, hexDump(t.inBuf.Bytes()[start:next]))
		}
		if t.metrics != nil {
			t.metrics.FramesReceived.Inc()
		}
		if err := conn.HandleFrame(f.Channel, f.Performative); err != nil {
			if t.metrics != nil {
				t.metrics.Errors.Inc()
			}
			return err
		}
	}
}

// flushOutbound writes whatever EnqueueOutput has queued since the last
// call, tolerating short writes the way a non-blocking socket can
// produce them. A deadline timeout is not a failure: it just means the
// socket didn't accept the whole backlog in one quantum, symmetric with
// how Run treats a read timeout.
func (t *Transport) flushOutbound() error {
	pending := t.outBuf.Bytes()[t.writtenAt:]
	if len(pending) == 0 {
		return nil
	}
	if err := t.conn.SetWriteDeadline(time.Now().Add(t.quantum)); err != nil {
		return errors.Wrap(err, "transport: set write deadline")
	}
	n, err := t.conn.Write(pending)
	t.writtenAt += n
	if t.metrics != nil {
		t.metrics.BytesSent.Add(float64(n))
	}
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil
		}
		return errors.Wrap(err, "transport: write")
	}
	return nil
}

// rewind resets the read and write buffers to offset zero once the
// parser/writer has fully caught up, so a long-lived connection doesn't
// grow its buffers without bound (§5).
func (t *Transport) rewind() {
	if t.parsedAt == t.inBuf.Len() {
		t.inBuf.Reset()
		t.parsedAt = 0
	}
	if t.writtenAt == t.outBuf.Len() {
		t.outBuf.Reset()
		t.writtenAt = 0
	}
}

// Close closes the underlying socket directly, bypassing the poll loop;
// use this only when Run was never started.
func (t *Transport) Close() error {
	return t.conn.Close()
}
