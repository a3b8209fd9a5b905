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

// encodeHandlers maps a value's Kind to the procedure that emits its
// body and reports the chosen format code. Built once at package init,
// never mutated afterward — no runtime registration is needed.
var encodeHandlers map[Kind]encodeHandler

// decodeTable maps every format-code byte to the procedure that parses
// the value it introduces. A nil entry is an unknown code and is
// reported as MalformedInput.
var decodeTable [256]decodeHandler

func init() {
	encodeHandlers = map[Kind]encodeHandler{
		KindNull:       encodeNull,
		KindBoolean:    encodeBoolean,
		KindUbyte:      encodeUbyte,
		KindUshort:     encodeUshort,
		KindUint:       encodeUint,
		KindUlong:      encodeUlong,
		KindByte:       encodeByte,
		KindShort:      encodeShort,
		KindInt:        encodeInt,
		KindLong:       encodeLong,
		KindFloat:      encodeFloat,
		KindDouble:     encodeDouble,
		KindDecimal32:  encodeOpaque(4, fmtDecimal32),
		KindDecimal64:  encodeOpaque(8, fmtDecimal64),
		KindDecimal128: encodeOpaque(16, fmtDecimal128),
		KindChar:       encodeChar,
		KindTimestamp:  encodeTimestamp,
		KindUUID:       encodeUUID,
		KindBinary:     encodeVariableWidth(KindBinary),
		KindString:     encodeVariableWidth(KindString),
		KindSymbol:     encodeVariableWidth(KindSymbol),
		KindList:       encodeList,
		KindMap:        encodeMap,
		KindArray:      encodeArray,
	}

	decodeTable[fmtNull] = decodeNull

	decodeTable[fmtBooleanTrue] = decodeBooleanTrue
	decodeTable[fmtBooleanFalse] = decodeBooleanFalse
	decodeTable[fmtBoolean] = decodeBooleanByte

	decodeTable[fmtUbyte] = decodeUbyte
	decodeTable[fmtUshort] = decodeUshort

	decodeTable[fmtUint0] = decodeUint0
	decodeTable[fmtUintByte] = decodeUintByte
	decodeTable[fmtUint] = decodeUint

	decodeTable[fmtUlong0] = decodeUlong0
	decodeTable[fmtUlongByte] = decodeUlongByte
	decodeTable[fmtUlong] = decodeUlong

	decodeTable[fmtByte] = decodeByte
	decodeTable[fmtShort] = decodeShort

	decodeTable[fmtIntByte] = decodeIntByte
	decodeTable[fmtInt] = decodeInt

	decodeTable[fmtLongByte] = decodeLongByte
	decodeTable[fmtLong] = decodeLong

	decodeTable[fmtFloat] = decodeFloat
	decodeTable[fmtDouble] = decodeDouble

	decodeTable[fmtDecimal32] = decodeOpaque(4, KindDecimal32)
	decodeTable[fmtDecimal64] = decodeOpaque(8, KindDecimal64)
	decodeTable[fmtDecimal128] = decodeOpaque(16, KindDecimal128)

	decodeTable[fmtChar] = decodeChar
	decodeTable[fmtTimestamp] = decodeTimestamp
	decodeTable[fmtUUID] = decodeUUID

	decodeTable[fmtBinary8] = decodeVariableWidth(KindBinary, 1)
	decodeTable[fmtBinary32] = decodeVariableWidth(KindBinary, 4)

	decodeTable[fmtString8] = decodeVariableWidth(KindString, 1)
	decodeTable[fmtString32] = decodeVariableWidth(KindString, 4)

	decodeTable[fmtSymbol8] = decodeVariableWidth(KindSymbol, 1)
	decodeTable[fmtSymbol32] = decodeVariableWidth(KindSymbol, 4)

	decodeTable[fmtListEmpty] = decodeListEmpty
	decodeTable[fmtList8] = decodeListShort
	decodeTable[fmtList32] = decodeListLong

	decodeTable[fmtMap8] = decodeMapShort
	decodeTable[fmtMap32] = decodeMapLong

	decodeTable[fmtArray8] = decodeArrayShort
	decodeTable[fmtArray32] = decodeArrayLong
}
