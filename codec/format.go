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

package codec

// Format codes, one constant per wire-visible encoding of a logical
// type. Where a type has more than one code, the name carries a suffix
// naming the body width or form.
const (
	fmtNull Format = 0x40

	fmtBooleanTrue  Format = 0x41
	fmtBooleanFalse Format = 0x42
	fmtBoolean      Format = 0x56 // 1-byte form, accepted on decode only

	fmtUint0    Format = 0x43
	fmtUintByte Format = 0x52
	fmtUint     Format = 0x70

	fmtUlong0    Format = 0x44
	fmtUlongByte Format = 0x53
	fmtUlong     Format = 0x80

	fmtUbyte  Format = 0x50
	fmtUshort Format = 0x60

	fmtIntByte Format = 0x54
	fmtInt     Format = 0x71

	fmtLongByte Format = 0x55
	fmtLong     Format = 0x81

	fmtByte  Format = 0x51
	fmtShort Format = 0x61

	fmtFloat  Format = 0x72
	fmtDouble Format = 0x82

	fmtDecimal32  Format = 0x74
	fmtDecimal64  Format = 0x84
	fmtDecimal128 Format = 0x94

	fmtChar      Format = 0x73
	fmtTimestamp Format = 0x83
	fmtUUID      Format = 0x98

	fmtBinary8  Format = 0xA0
	fmtBinary32 Format = 0xB0

	fmtString8  Format = 0xA1
	fmtString32 Format = 0xB1

	fmtSymbol8  Format = 0xA3
	fmtSymbol32 Format = 0xB3

	fmtListEmpty Format = 0x45
	fmtList8     Format = 0xC0
	fmtList32    Format = 0xD0

	fmtMap8  Format = 0xC1
	fmtMap32 Format = 0xD1

	fmtArray8  Format = 0xE0
	fmtArray32 Format = 0xF0
)

// Format is a single AMQP format-code byte.
type Format uint8

// compactThreshold is the element/byte count at which variable-width and
// compound encodings must promote from the 8-bit to the 32-bit header.
const compactThreshold = 256
