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

package transport

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssorj/argon/buffer"
	"github.com/ssorj/argon/codec"
	"github.com/ssorj/argon/endpoint"
	"github.com/ssorj/argon/frame"
)

// dialedPair wires a Transport to one end of a net.Pipe and hands the
// other end back as a bare net.Conn standing in for the peer, so tests
// don't need a real listening socket.
func dialedPair(t *testing.T) (*Transport, net.Conn) {
	t.Helper()
	client, peer := net.Pipe()

	tr := &Transport{
		conn:    client,
		c:       codec.New(),
		inBuf:   buffer.New(),
		outBuf:  buffer.New(),
		quantum: 50 * time.Millisecond,
	}

	done := make(chan error, 1)
	go func() { done <- tr.handshake() }()

	var peerHeader [8]byte
	_, err := io.ReadFull(peer, peerHeader[:])
	require.NoError(t, err)
	assert.Equal(t, protocolHeader[:4], peerHeader[:4])
	_, err = peer.Write(protocolHeader[:])
	require.NoError(t, err)

	require.NoError(t, <-done)
	return tr, peer
}

func TestHandshakeExchangesProtocolHeader(t *testing.T) {
	tr, peer := dialedPair(t)
	defer tr.conn.Close()
	defer peer.Close()
}

func TestHandshakeRejectsUnrecognizedHeader(t *testing.T) {
	client, peer := net.Pipe()
	defer client.Close()
	defer peer.Close()

	tr := &Transport{conn: client, c: codec.New(), inBuf: buffer.New(), outBuf: buffer.New(), quantum: 50 * time.Millisecond}

	done := make(chan error, 1)
	go func() { done <- tr.handshake() }()

	var discard [8]byte
	_, err := io.ReadFull(peer, discard[:])
	require.NoError(t, err)
	_, err = peer.Write([]byte("XMQP\x00\x01\x00\x00"))
	require.NoError(t, err)

	assert.Error(t, <-done)
}

func TestEnqueueOutputBuffersFrameForRun(t *testing.T) {
	tr, peer := dialedPair(t)
	defer tr.conn.Close()
	defer peer.Close()

	require.NoError(t, tr.EnqueueOutput(0, endpoint.Open{ContainerID: "test"}.ToValue(), nil))
	assert.Greater(t, tr.outBuf.Len(), 0)

	stop := make(chan struct{})
	conn := endpoint.NewConnection(tr)
	runDone := make(chan error, 1)
	go func() { runDone <- tr.Run(conn, stop) }()
	defer func() {
		close(stop)
		<-runDone
	}()

	readBuf := make([]byte, 256)
	peer.SetReadDeadline(time.Now().Add(time.Second))
	n, err := peer.Read(readBuf)
	require.NoError(t, err)
	assert.Greater(t, n, 8)
}

func TestRunDispatchesInboundFrameToConnection(t *testing.T) {
	tr, peer := dialedPair(t)
	defer tr.conn.Close()
	defer peer.Close()

	conn := endpoint.NewConnection(tr)
	opened := make(chan endpoint.Open, 1)
	conn.OnOpen = func(o endpoint.Open) { opened <- o }

	stop := make(chan struct{})
	runDone := make(chan error, 1)
	go func() { runDone <- tr.Run(conn, stop) }()
	defer func() {
		close(stop)
		<-runDone
	}()

	require.NoError(t, conn.Open())

	var outHeader [8]byte
	peer.SetReadDeadline(time.Now().Add(time.Second))
	_, err := io.ReadFull(peer, outHeader[:])
	require.NoError(t, err)

	buf := buffer.New()
	_, err = frame.Emit(codec.New(), buf, 0, frame.Frame{
		Channel:      0,
		Performative: endpoint.Open{ContainerID: "peer"}.ToValue(),
	})
	require.NoError(t, err)
	_, err = peer.Write(buf.Bytes())
	require.NoError(t, err)

	select {
	case o := <-opened:
		assert.Equal(t, "peer", o.ContainerID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Open to be handled")
	}
}
