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

// Package object packs Pass 2 output into the relocatable SIC/XE object
// record stream: Header, Define, Refer, Text, Modification, and End
// records, one block per control section.
package object

import (
	"fmt"
	"strings"

	"github.com/sicxeasm/sicxeasm/pkg/assembler"
)

const textRecordCap = 30 // bytes

// TextRecord is a run of contiguous object-code bytes sharing one starting
// address, per spec.md §4.5.
type TextRecord struct {
	Start int
	Codes []string // hex byte-groups, one per contributing line
}

// Length reports the record's total payload in bytes.
func (t TextRecord) Length() int {
	n := 0
	for _, c := range t.Codes {
		n += len(c) / 2
	}
	return n
}

// BuildTextRecords groups a section's object-code-bearing lines, in address
// order, into records capped at 30 payload bytes and split at storage gaps.
func BuildTextRecords(lines []*assembler.AssemblyLine, section string) []TextRecord {
	var records []TextRecord
	var current *TextRecord
	nextAddr := -1

	for _, line := range lines {
		if line.Section != section || !line.HasAddress || line.ObjectCode == "" {
			continue
		}

		gap := current == nil || line.Address != nextAddr
		if current != nil && !gap && current.Length()+len(line.ObjectCode)/2 > textRecordCap {
			gap = true
		}

		if gap {
			if current != nil {
				records = append(records, *current)
			}
			current = &TextRecord{Start: line.Address}
		}

		current.Codes = append(current.Codes, line.ObjectCode)
		nextAddr = line.Address + len(line.ObjectCode)/2
	}

	if current != nil {
		records = append(records, *current)
	}
	return records
}

// FormatHeader renders a section's H record: name padded with trailing
// blanks to 6 columns,
// 6-hex-digit start address, 6-hex-digit length.
func FormatHeader(sec *assembler.ControlSection) string {
	return fmt.Sprintf("H^%-6s^%06X^%06X", sec.Name, sec.Start, sec.Length)
}

// FormatDefine renders a section's D record from its exported symbols'
// resolved addresses, or "" if the section exports nothing.
func FormatDefine(sec *assembler.ControlSection, symbols *assembler.SymbolTable) string {
	if len(sec.Exports) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("D")
	for _, name := range sec.Exports {
		addr := 0
		if sym, ok := symbols.Lookup(sec.Name, name); ok {
			addr = sym.Address
		}
		fmt.Fprintf(&b, "^%s^%06X", name, addr)
	}
	return b.String()
}

// FormatRefer renders a section's R record from its imported names, or ""
// if the section imports nothing.
func FormatRefer(sec *assembler.ControlSection) string {
	if len(sec.Imports) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("R")
	for _, name := range sec.Imports {
		fmt.Fprintf(&b, "^%s", name)
	}
	return b.String()
}

// FormatText renders one T record.
func FormatText(t TextRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "T^%06X^%02X", t.Start, t.Length())
	for _, code := range t.Codes {
		fmt.Fprintf(&b, "^%s", code)
	}
	return b.String()
}

// FormatModification renders one M record: field length in half-bytes,
// signed symbol name.
func FormatModification(m assembler.ModificationRecord) string {
	return fmt.Sprintf("M^%06X^%02d^%c%s", m.Address, m.Length, m.Sign, m.Symbol)
}

// FormatEnd renders a section's E record. entryAddr is appended only for
// the program's first (main) section.
func FormatEnd(isFirst bool, entryAddr int) string {
	if !isFirst {
		return "E"
	}
	return fmt.Sprintf("E^%06X", entryAddr)
}

// entryAddress finds the first executable instruction in section, per
// spec.md §4.5/§6: the address of the first line that bears a catalog
// instruction, skipping START and the storage/data directives. Falls back
// to the section's start address if it contains no instructions.
func entryAddress(lines []*assembler.AssemblyLine, section *assembler.ControlSection) int {
	for _, line := range lines {
		if line.Section != section.Name || !assembler.IsInstruction(line) {
			continue
		}
		return line.Address
	}
	return section.Start
}

// Emit assembles the full object-program text: one Header/Define/Refer/
// Text.../Modification.../End block per section, in section order.
func Emit(sections []*assembler.ControlSection, lines []*assembler.AssemblyLine, symbols *assembler.SymbolTable, mods []assembler.ModificationRecord) string {
	var out strings.Builder

	entryAddr := 0
	if len(sections) > 0 {
		entryAddr = entryAddress(lines, sections[0])
	}

	for i, sec := range sections {
		out.WriteString(FormatHeader(sec))
		out.WriteString("\n")

		if d := FormatDefine(sec, symbols); d != "" {
			out.WriteString(d)
			out.WriteString("\n")
		}
		if r := FormatRefer(sec); r != "" {
			out.WriteString(r)
			out.WriteString("\n")
		}

		for _, t := range BuildTextRecords(lines, sec.Name) {
			out.WriteString(FormatText(t))
			out.WriteString("\n")
		}

		for _, m := range mods {
			if m.Section != sec.Name {
				continue
			}
			out.WriteString(FormatModification(m))
			out.WriteString("\n")
		}

		out.WriteString(FormatEnd(i == 0, entryAddr))
		out.WriteString("\n")
	}

	return out.String()
}
