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

package common

const (
	// App is the program name reported by the CLI and in log lines.
	App = "argon"

	// Version is the fallback module version when no build-time value is linked in.
	Version = "v0.1.0"

	// ReadWriteBlockSize is the per-poll-iteration socket read size.
	//
	// A single AMQP frame can run well past this, so the transport loop
	// reads in ReadWriteBlockSize chunks and lets the frame parser decide
	// when enough bytes have accumulated, rather than sizing the read for
	// the largest frame up front.
	ReadWriteBlockSize = 4096

	// DefaultMaxFrameSize is the largest inbound frame size the transport
	// accepts; a larger declared size fails the connection. It is not
	// sent to the peer: the Open performative carries no max-frame-size.
	DefaultMaxFrameSize = 1 << 20

	// DefaultPollQuantum is the fixed poll wait of §5: no idle-timeout or
	// heartbeat logic is implemented, but the loop still wakes on this
	// cadence to notice cancellation promptly.
	DefaultPollQuantum = 1000 // milliseconds
)
