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

// Package descriptor holds the fixed ulong codes that name every
// performative and message section (§3 of the performative/message
// model), and the lookup from code to the logical Kind it identifies.
// It sits below codec's callers message and endpoint, so that both
// agree on the same table without importing each other.
package descriptor

// Kind names one entry of the descriptor table.
type Kind uint8

const (
	Unknown Kind = iota
	Open
	Begin
	Attach
	Flow
	Transfer
	Disposition
	Detach
	End
	Close
	Source
	Target
	Header
	DeliveryAnnotations
	MessageAnnotations
	Properties
	ApplicationProperties
	AmqpValue
	Footer
)

func (k Kind) String() string {
	names := [...]string{
		"unknown", "open", "begin", "attach", "flow", "transfer",
		"disposition", "detach", "end", "close", "source", "target",
		"header", "delivery-annotations", "message-annotations",
		"properties", "application-properties", "amqp-value", "footer",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "kind(?)"
}

// Code is the low-32-bit ulong value that tags a described value with
// one of the Kinds above.
var Code = map[Kind]uint64{
	Open:                  0x10,
	Begin:                 0x11,
	Attach:                0x12,
	Flow:                  0x13,
	Transfer:              0x14,
	Disposition:           0x15,
	Detach:                0x16,
	End:                   0x17,
	Close:                 0x18,
	Source:                0x28,
	Target:                0x29,
	Header:                0x70,
	DeliveryAnnotations:   0x71,
	MessageAnnotations:    0x72,
	Properties:            0x73,
	ApplicationProperties: 0x74,
	AmqpValue:             0x77,
	Footer:                0x78,
}

var kindByCode map[uint64]Kind

func init() {
	kindByCode = make(map[uint64]Kind, len(Code))
	for k, code := range Code {
		kindByCode[code] = k
	}
}

// KindOf looks up the Kind tagged by a ulong descriptor code. The second
// return is false for any code outside the fixed table.
func KindOf(code uint64) (Kind, bool) {
	k, ok := kindByCode[code]
	return k, ok
}
