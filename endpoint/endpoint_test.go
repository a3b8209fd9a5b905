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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssorj/argon/codec"
	"github.com/ssorj/argon/message"
)

type recordedFrame struct {
	channel      uint16
	performative codec.Value
	payload      []byte
}

type fakeOutput struct {
	frames []recordedFrame
}

func (f *fakeOutput) EnqueueOutput(channel uint16, performative codec.Value, payload []byte) error {
	f.frames = append(f.frames, recordedFrame{channel, performative, payload})
	return nil
}

func TestConnectionOpenTransitionsOnPeerReply(t *testing.T) {
	out := &fakeOutput{}
	conn := NewConnection(out)

	require.NoError(t, conn.Open())
	assert.Equal(t, OpenSent, conn.State)

	var opened Open
	conn.OnOpen = func(o Open) { opened = o }
	require.NoError(t, conn.HandleFrame(0, Open{ContainerID: "broker-1"}.ToValue()))
	assert.Equal(t, Opened, conn.State)
	assert.Equal(t, "broker-1", opened.ContainerID)
}

func TestEndToEndHandshakeAndTransfer(t *testing.T) {
	out := &fakeOutput{}
	conn := NewConnection(out)
	require.NoError(t, conn.Open())
	require.NoError(t, conn.HandleFrame(0, Open{ContainerID: "broker"}.ToValue()))

	sess := conn.Session()
	require.NoError(t, sess.Begin())
	require.NoError(t, conn.HandleFrame(sess.Channel, Begin{}.ToValue()))
	assert.Equal(t, Opened, sess.State)

	link := sess.Link("sender-1")
	require.NoError(t, link.Attach())
	require.NoError(t, conn.HandleFrame(sess.Channel, Attach{Name: "sender-1", Handle: 0, Role: true}.ToValue()))
	assert.Equal(t, Opened, link.State)

	credit := uint32(1)
	require.NoError(t, conn.HandleFrame(sess.Channel, Flow{
		IncomingWindow: defaultWindow, OutgoingWindow: defaultWindow,
		Handle: &link.Handle, LinkCredit: &credit,
	}.ToValue()))
	assert.Equal(t, uint32(1), link.Credit())

	c := codec.New()
	m := message.New()
	m.SetBody(codec.Array(codec.KindUint, codec.Uint(1), codec.Uint(2), codec.Uint(3)))
	require.NoError(t, link.Send(c, m))
	assert.Equal(t, uint32(0), link.Credit())

	require.NoError(t, conn.HandleFrame(sess.Channel, Detach{Handle: 0, Closed: true}.ToValue()))
	assert.Equal(t, Closed, link.State)

	require.NoError(t, conn.HandleFrame(sess.Channel, End{}.ToValue()))
	assert.Equal(t, Closed, sess.State)

	require.NoError(t, conn.HandleFrame(0, Close{}.ToValue()))
	assert.Equal(t, Closed, conn.State)

	assert.NotEmpty(t, out.frames)
}

func TestSendRejectedWithoutCredit(t *testing.T) {
	out := &fakeOutput{}
	conn := NewConnection(out)
	require.NoError(t, conn.Open())
	sess := conn.Session()
	require.NoError(t, sess.Begin())
	link := sess.Link("sender-1")
	require.NoError(t, link.Attach())
	link.State = Opened

	c := codec.New()
	m := message.New()
	err := link.Send(c, m)
	assert.Error(t, err)
	var usageErr *UsageError
	assert.ErrorAs(t, err, &usageErr)
}

func TestCloseTearsDownOpenSessionsAndLinks(t *testing.T) {
	out := &fakeOutput{}
	conn := NewConnection(out)
	require.NoError(t, conn.Open())
	conn.State = Opened

	sess := conn.Session()
	require.NoError(t, sess.Begin())
	sess.State = Opened

	link := sess.Link("sender-1")
	require.NoError(t, link.Attach())
	link.State = Opened

	require.NoError(t, conn.Close())
	assert.Equal(t, CloseSent, conn.State)
	assert.Equal(t, CloseSent, sess.State)
	assert.Equal(t, CloseSent, link.State)
}

func TestUnexpectedPerformativeIsProtocolViolation(t *testing.T) {
	out := &fakeOutput{}
	conn := NewConnection(out)

	err := conn.HandleFrame(0, Attach{Name: "premature"}.ToValue())
	assert.Error(t, err)
	var violation *ProtocolViolationError
	assert.ErrorAs(t, err, &violation)
}
