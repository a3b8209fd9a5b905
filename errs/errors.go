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

// Package errs defines the four error kinds shared by every layer of the
// wire stack. It exists below buffer/codec/frame/message/endpoint so that
// a codec decode failure and an endpoint protocol failure are the same
// family of type without endpoint importing codec's callers or vice
// versa; package endpoint re-exports these as its own names since that is
// where a caller naturally looks for them.
package errs

import "github.com/pkg/errors"

// MalformedInputError reports a decode-time defect: an unknown format
// code, a truncated length, an inconsistent size/count pair, a duplicate
// map key, undecodable UTF-8, or a recursion depth that was exceeded.
// It is always fatal to the connection that produced it.
type MalformedInputError struct {
	Detail string
	Cause  error
}

func (e *MalformedInputError) Error() string {
	if e.Cause != nil {
		return "malformed input: " + e.Detail + ": " + e.Cause.Error()
	}
	return "malformed input: " + e.Detail
}

func (e *MalformedInputError) Unwrap() error { return e.Cause }

// NewMalformedInput builds a MalformedInputError from a format string.
func NewMalformedInput(format string, args ...any) *MalformedInputError {
	return &MalformedInputError{Detail: errors.Errorf(format, args...).Error()}
}

// WrapMalformedInput builds a MalformedInputError around an existing
// error, preserving it for errors.Unwrap/errors.As.
func WrapMalformedInput(cause error, format string, args ...any) *MalformedInputError {
	return &MalformedInputError{Detail: errors.Errorf(format, args...).Error(), Cause: cause}
}

// ProtocolViolationError reports a performative arriving in a state that
// forbids it, an unknown descriptor at frame scope, or an Attach with a
// name already in use on the session. Fatal to the connection.
type ProtocolViolationError struct {
	Detail string
}

func (e *ProtocolViolationError) Error() string {
	return "protocol violation: " + e.Detail
}

func NewProtocolViolation(format string, args ...any) *ProtocolViolationError {
	return &ProtocolViolationError{Detail: errors.Errorf(format, args...).Error()}
}

// TransportError reports a socket error, a premature EOF, or any other
// failure of the underlying connection. Fatal to the connection.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string { return "transport error: " + e.Cause.Error() }
func (e *TransportError) Unwrap() error { return e.Cause }

func NewTransport(cause error) *TransportError {
	return &TransportError{Cause: cause}
}

// UsageError reports a caller violating a local precondition, such as
// calling Send before the link has been opened. It is surfaced
// synchronously to the caller; the endpoint is not terminated.
type UsageError struct {
	Detail string
}

func (e *UsageError) Error() string { return "usage error: " + e.Detail }

func NewUsage(format string, args ...any) *UsageError {
	return &UsageError{Detail: errors.Errorf(format, args...).Error()}
}
