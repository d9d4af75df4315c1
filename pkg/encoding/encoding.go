// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package encoding holds the byte- and nibble-level conversions shared by
// the SIC/XE Pass 1 and Pass 2 engines: hex/decimal literal decoding,
// quoted-constant payload extraction, and case folding for identifiers.
package encoding

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upperCaser = cases.Upper(language.Und)

// Fold upper-cases s the way the lexer folds mnemonics, directives, labels,
// and register operands, using Unicode case folding rather than byte-wise
// ASCII upper-casing.
func Fold(s string) string {
	return upperCaser.String(s)
}

// DecodeHex parses a hexadecimal string with no required prefix (the format
// START's address operand and BYTE X'...' payloads both use).
func DecodeHex(s string) (int, error) {
	result, err := strconv.ParseInt(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hex value %q", s)
	}
	return int(result), nil
}

// DecodeInt parses a decimal integer operand.
func DecodeInt(s string) (int, error) {
	result, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid decimal value %q", s)
	}
	return int(result), nil
}

// quotedPayload splits a quoted constant such as C'EOF' or =X'1C' into its
// kind ('C' or 'X') and verbatim payload.
func quotedPayload(source string) (kind byte, payload string, err error) {
	s := source
	if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	if len(s) < 3 {
		return 0, "", errors.New("constant too short")
	}

	kind = upperCaser.String(s[:1])[0]
	if kind != 'C' && kind != 'X' {
		return 0, "", fmt.Errorf("unknown constant kind %q", s[:1])
	}

	if s[1] != '\'' || s[len(s)-1] != '\'' {
		return 0, "", fmt.Errorf("malformed quoted constant %q", source)
	}

	payload = s[2 : len(s)-1]
	return kind, payload, nil
}

// ConstantBytes decodes a C'...' or X'...' constant (with or without a
// leading literal '=') into its byte representation. Character constants
// emit one ASCII byte per character; hex constants emit ceil(n/2) bytes. An
// odd digit count is right-padded with a zero nibble (X'1' -> 0x10, not
// 0x01): the padding nibble always falls in the last byte, so the byte
// count ConstantLength reserves always matches len(ConstantBytes(...))
// without a separate odd-length case.
func ConstantBytes(source string) ([]byte, error) {
	kind, payload, err := quotedPayload(source)
	if err != nil {
		return nil, err
	}

	switch kind {
	case 'C':
		return []byte(payload), nil
	case 'X':
		digits := strings.ToUpper(payload)
		for _, r := range digits {
			if !strings.ContainsRune("0123456789ABCDEF", r) {
				return nil, fmt.Errorf("invalid hex digit %q", r)
			}
		}
		if len(digits)%2 != 0 {
			digits = digits + "0"
		}
		out := make([]byte, len(digits)/2)
		for i := range out {
			b, err := strconv.ParseUint(digits[i*2:i*2+2], 16, 8)
			if err != nil {
				return nil, err
			}
			out[i] = byte(b)
		}
		return out, nil
	}

	return nil, fmt.Errorf("unknown constant kind %q", kind)
}

// ConstantLength returns the byte length a C'...' or X'...' constant
// consumes in the location counter, without materializing its bytes.
func ConstantLength(source string) (int, error) {
	kind, payload, err := quotedPayload(source)
	if err != nil {
		return 0, err
	}

	switch kind {
	case 'C':
		return len(payload), nil
	case 'X':
		return (len(payload) + 1) / 2, nil
	}

	return 0, fmt.Errorf("unknown constant kind %q", kind)
}

// HexString renders bytes as an upper-case hex string with no separators,
// the form used by Text records and the listing's object-code column.
func HexString(data []byte) string {
	var b strings.Builder
	b.Grow(len(data) * 2)
	for _, c := range data {
		fmt.Fprintf(&b, "%02X", c)
	}
	return b.String()
}

// TwosComplement12 encodes a signed displacement into a 12-bit two's
// complement field.
func TwosComplement12(disp int) uint16 {
	return uint16(disp) & 0x0FFF
}

// RegisterNumber maps a SIC/XE register name to its 4-bit encoding.
// A=0, X=1, L=2, B=3, S=4, T=5, F=6, PC=8, SW=9.
func RegisterNumber(name string) (uint16, bool) {
	switch Fold(name) {
	case "A":
		return 0, true
	case "X":
		return 1, true
	case "L":
		return 2, true
	case "B":
		return 3, true
	case "S":
		return 4, true
	case "T":
		return 5, true
	case "F":
		return 6, true
	case "PC":
		return 8, true
	case "SW":
		return 9, true
	}
	return 0, false
}
