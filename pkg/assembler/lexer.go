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

package assembler

import (
	"regexp"
	"strings"

	"github.com/sicxeasm/sicxeasm/pkg/encoding"
)

// quotedOperand matches an operand whose payload is a quoted C/X constant,
// with or without a leading literal '='.
var quotedOperand = regexp.MustCompile(`^(=?)([A-Za-z])('.*')$`)

// ParseLine converts one physical source line into an AssemblyLine. lineNum
// is the 1-based source line number.
func ParseLine(lineNum int, raw string) *AssemblyLine {
	line := &AssemblyLine{LineNumber: lineNum}

	trimmed := strings.TrimLeft(raw, " \t")
	if trimmed == "" || strings.HasPrefix(trimmed, ".") {
		line.IsComment = true
		line.Comment = raw
		return line
	}

	fields := strings.Split(raw, "\t")
	var tokens []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			tokens = append(tokens, f)
		}
	}

	if len(tokens) == 0 {
		line.IsComment = true
		line.Comment = raw
		return line
	}

	first := stripExtension(encoding.Fold(tokens[0]))

	if isKnownOpcode(first) {
		line.Mnemonic = normalizeOpcode(tokens[0])
		if len(tokens) > 1 {
			line.Operand = normalizeOperand(tokens[1])
		}
	} else {
		line.Label = encoding.Fold(tokens[0])
		if len(tokens) > 1 {
			line.Mnemonic = normalizeOpcode(tokens[1])
		}
		if len(tokens) > 2 {
			line.Operand = normalizeOperand(tokens[2])
		}
	}

	return line
}

// stripExtension removes a leading '+' extended-format marker.
func stripExtension(mnemonic string) string {
	return strings.TrimPrefix(mnemonic, "+")
}

// normalizeOpcode upper-cases an opcode field while preserving a leading
// '+' extended-format marker.
func normalizeOpcode(raw string) string {
	if strings.HasPrefix(raw, "+") {
		return "+" + encoding.Fold(raw[1:])
	}
	return encoding.Fold(raw)
}

// normalizeOperand upper-cases an operand's addressing syntax while
// preserving the verbatim payload of any quoted C'...'/X'...' constant,
// per spec.md §4.1: "operand bodies enclosed in quotes ... preserve the
// payload verbatim."
func normalizeOperand(raw string) string {
	if m := quotedOperand.FindStringSubmatch(raw); m != nil {
		prefix, kind, body := m[1], m[2], m[3]
		return prefix + encoding.Fold(kind) + body
	}
	return encoding.Fold(raw)
}
