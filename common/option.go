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

// Package common holds the small pieces of state shared across argon's
// packages that don't belong to any one protocol layer: build metadata,
// wire-level defaults, and a loosely typed option bag for CLI/config glue.
package common

import (
	"github.com/spf13/cast"
)

// Options is a loosely typed bag used to pass CLI/config-derived values
// into constructors without a bespoke struct per call site.
type Options map[string]any

func NewOptions() Options {
	return make(Options)
}

func (o Options) GetInt(k string) (int, error) {
	return cast.ToIntE(o[k])
}

func (o Options) GetBool(k string) (bool, error) {
	return cast.ToBoolE(o[k])
}

func (o Options) GetString(k string) (string, error) {
	return cast.ToStringE(o[k])
}

func (o Options) GetUint16(k string) (uint16, error) {
	return cast.ToUint16E(o[k])
}

func (o Options) Merge(k string, v any) {
	o[k] = v
}
