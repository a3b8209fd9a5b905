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

// State is shared by Connection, Session, and Link (§4.5): each
// endpoint moves through the same five states, whichever side opens or
// closes first.
type State uint8

const (
	Unopened State = iota
	OpenSent
	Opened
	CloseSent
	Closed
)

func (s State) String() string {
	names := [...]string{"unopened", "open-sent", "opened", "close-sent", "closed"}
	if int(s) < len(names) {
		return names[s]
	}
	return "state(?)"
}
