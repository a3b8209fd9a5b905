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

import "github.com/ssorj/argon/errs"

// The four error kinds of §7, surfaced under package endpoint since that
// is where a caller driving the state machine naturally looks for them.
// They are defined in errs so that codec, frame, and message can return
// them too without importing endpoint (which imports all three).
type (
	MalformedInputError    = errs.MalformedInputError
	ProtocolViolationError = errs.ProtocolViolationError
	TransportError         = errs.TransportError
	UsageError             = errs.UsageError
)

var (
	newMalformedInput    = errs.NewMalformedInput
	newProtocolViolation = errs.NewProtocolViolation
	newUsage             = errs.NewUsage
)
