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
	"strings"

	"github.com/sicxeasm/sicxeasm/pkg/encoding"
)

// Pass1Result holds everything Pass 1 hands to Pass 2 and the record/listing
// emitters: the address-annotated line sequence, the symbol and literal
// tables, and the closed control sections in program order.
type Pass1Result struct {
	Lines    []*AssemblyLine
	Symbols  *SymbolTable
	Literals map[string]*Literal
	Sections []*ControlSection
}

type pass1 struct {
	symbols   *SymbolTable
	literals  map[string]*Literal
	pending   []string // literal source forms enqueued since the last flush
	lastFlush []string // sources placed by the most recent flushLiterals call

	sections       []*ControlSection
	currentSection *ControlSection

	counter    int
	baseSymbol string
}

// RunPass1 walks the parsed line sequence, assigning addresses, opening and
// closing control sections, and populating the symbol and literal tables.
// Synthetic lines are inserted after each LTORG/END for every literal the
// directive flushes, so the Listing Writer can show a row per literal at
// the point it was placed.
func RunPass1(lines []*AssemblyLine) (*Pass1Result, error) {
	p := &pass1{
		symbols:  NewSymbolTable(),
		literals: make(map[string]*Literal),
	}

	var out []*AssemblyLine

	for _, line := range lines {
		out = append(out, line)

		if line.IsComment {
			continue
		}

		if err := p.processLine(line); err != nil {
			return nil, err
		}

		if p.currentSection != nil {
			line.Section = p.currentSection.Name
		}
		line.baseSymbol = p.baseSymbol

		mnemonic := stripExtension(line.Mnemonic)
		if mnemonic == "LTORG" || mnemonic == "END" {
			out = append(out, p.literalLines(line.Section)...)
		}

		if strings.EqualFold(line.Mnemonic, "END") {
			break
		}
	}

	p.closeSection()

	return &Pass1Result{
		Lines:    out,
		Symbols:  p.symbols,
		Literals: p.literals,
		Sections: p.sections,
	}, nil
}

// literalLines builds one synthetic AssemblyLine per literal just placed by
// flushLiterals, in insertion order.
func (p *pass1) literalLines(section string) []*AssemblyLine {
	sources := p.lastFlush
	p.lastFlush = nil

	lines := make([]*AssemblyLine, 0, len(sources))
	for _, source := range sources {
		lit := p.literals[source]
		lines = append(lines, &AssemblyLine{
			Mnemonic:   "BYTE",
			Operand:    source[1:], // drop the leading '='
			HasAddress: true,
			Address:    lit.Address,
			Section:    section,
			literal:    source,
		})
	}
	return lines
}

func (p *pass1) closeSection() {
	if p.currentSection != nil {
		p.currentSection.Length = p.counter - p.currentSection.Start
	}
}

func (p *pass1) openSection(name string, start int) {
	p.closeSection()
	sec := &ControlSection{Name: name, Start: start}
	p.sections = append(p.sections, sec)
	p.currentSection = sec
	p.counter = start
	p.baseSymbol = ""
}

func (p *pass1) processLine(line *AssemblyLine) error {
	mnemonic := stripExtension(line.Mnemonic)
	extended := strings.HasPrefix(line.Mnemonic, "+")

	if directiveSet[mnemonic] {
		return p.processDirective(line, mnemonic)
	}

	inst, ok := lookupInstruction(mnemonic)
	if !ok {
		return &UnknownOpcodeError{LineNum: line.LineNumber, Mnemonic: line.Mnemonic}
	}

	line.HasAddress = true
	line.Address = p.counter

	if err := p.defineLabel(line); err != nil {
		return err
	}

	if strings.HasPrefix(line.Operand, "=") {
		p.enqueueLiteral(line.Operand)
	}

	size := 3
	switch inst.Format {
	case FORMAT_1:
		size = 1
	case FORMAT_2:
		size = 2
	case FORMAT_3:
		size = 3
		if extended {
			size = 4
		}
	}
	p.counter += size

	return nil
}

func (p *pass1) defineLabel(line *AssemblyLine) error {
	if line.Label == "" {
		return nil
	}
	section := ""
	if p.currentSection != nil {
		section = p.currentSection.Name
	}
	if _, dup := p.symbols.Define(section, line.Label, line.Address); dup {
		return &DuplicateSymbolError{LineNum: line.LineNumber, Name: line.Label, Section: section}
	}
	return nil
}

func (p *pass1) enqueueLiteral(source string) {
	if _, placed := p.literals[source]; placed {
		return
	}
	for _, q := range p.pending {
		if q == source {
			return
		}
	}
	length, err := encoding.ConstantLength(source)
	if err != nil {
		length = 0
	}
	p.literals[source] = &Literal{Source: source, Address: -1, Length: length}
	p.pending = append(p.pending, source)
}

func (p *pass1) flushLiterals() {
	section := ""
	if p.currentSection != nil {
		section = p.currentSection.Name
	}
	var placed []string
	for _, source := range p.pending {
		lit := p.literals[source]
		if lit.Address >= 0 {
			continue
		}
		lit.Address = p.counter
		lit.Section = section
		p.counter += lit.Length
		placed = append(placed, source)
	}
	p.pending = nil
	p.lastFlush = placed
}

func (p *pass1) processDirective(line *AssemblyLine, mnemonic string) error {
	section := ""
	if p.currentSection != nil {
		section = p.currentSection.Name
	}

	switch mnemonic {
	case "START":
		addr := 0
		if line.Operand != "" {
			v, err := encoding.DecodeHex(line.Operand)
			if err != nil {
				return &MalformedOperandError{line.LineNumber, line.Operand, "expected hex start address"}
			}
			addr = v
		}
		p.openSection(line.Label, addr)
		return p.defineLabel(line)

	case "CSECT":
		p.openSection(line.Label, 0)
		return p.defineLabel(line)

	case "END":
		p.flushLiterals()
		return nil

	case "EXTDEF":
		for _, name := range splitNames(line.Operand) {
			p.symbols.Declare(section, name, false)
		}
		if sec := p.currentSection; sec != nil {
			sec.Exports = append(sec.Exports, splitNames(line.Operand)...)
		}
		return nil

	case "EXTREF":
		for _, name := range splitNames(line.Operand) {
			p.symbols.Declare(section, name, true)
		}
		if sec := p.currentSection; sec != nil {
			sec.Imports = append(sec.Imports, splitNames(line.Operand)...)
		}
		return nil

	case "BASE":
		p.baseSymbol = line.Operand
		return nil

	case "NOBASE":
		p.baseSymbol = ""
		return nil

	case "EQU":
		value, err := p.evalEquExpr(line, section)
		if err != nil {
			return err
		}
		if line.Label == "" {
			return &MalformedOperandError{line.LineNumber, line.Operand, "EQU requires a label"}
		}
		if _, dup := p.symbols.Define(section, line.Label, value); dup {
			return &DuplicateSymbolError{LineNum: line.LineNumber, Name: line.Label, Section: section}
		}
		return nil

	case "LTORG":
		p.flushLiterals()
		return nil

	case "ORG", "USE":
		return &UnsupportedDirectiveError{LineNum: line.LineNumber, Directive: mnemonic}

	case "RESW":
		n, err := encoding.DecodeInt(line.Operand)
		if err != nil {
			return &MalformedOperandError{line.LineNumber, line.Operand, "expected decimal count"}
		}
		line.HasAddress = true
		line.Address = p.counter
		if err := p.defineLabel(line); err != nil {
			return err
		}
		p.counter += 3 * n
		return nil

	case "RESB":
		n, err := encoding.DecodeInt(line.Operand)
		if err != nil {
			return &MalformedOperandError{line.LineNumber, line.Operand, "expected decimal count"}
		}
		line.HasAddress = true
		line.Address = p.counter
		if err := p.defineLabel(line); err != nil {
			return err
		}
		p.counter += n
		return nil

	case "WORD":
		line.HasAddress = true
		line.Address = p.counter
		if err := p.defineLabel(line); err != nil {
			return err
		}
		p.counter += 3
		return nil

	case "BYTE":
		length, err := encoding.ConstantLength(line.Operand)
		if err != nil {
			return &MalformedOperandError{line.LineNumber, line.Operand, err.Error()}
		}
		line.HasAddress = true
		line.Address = p.counter
		if err := p.defineLabel(line); err != nil {
			return err
		}
		p.counter += length
		return nil
	}

	return nil
}

// evalEquExpr evaluates an EQU operand: '*', a decimal integer, a single
// defined symbol, or "A-B" where both symbols are defined.
func (p *pass1) evalEquExpr(line *AssemblyLine, section string) (int, error) {
	operand := line.Operand

	if operand == "*" {
		return p.counter, nil
	}

	if v, err := encoding.DecodeInt(operand); err == nil {
		return v, nil
	}

	if idx := strings.IndexByte(operand, '-'); idx > 0 {
		left, right := operand[:idx], operand[idx+1:]
		a, aok := p.symbols.Lookup(section, left)
		b, bok := p.symbols.Lookup(section, right)
		if (aok && a.External) || (bok && b.External) {
			return 0, &MalformedOperandError{
				line.LineNumber, operand,
				"EQU of an external symbol cannot be resolved at assembly time",
			}
		}
		if !aok || !a.Defined {
			return 0, &UndefinedSymbolError{LineNum: line.LineNumber, Name: left}
		}
		if !bok || !b.Defined {
			return 0, &UndefinedSymbolError{LineNum: line.LineNumber, Name: right}
		}
		return a.Address - b.Address, nil
	}

	sym, ok := p.symbols.Lookup(section, operand)
	if !ok || !sym.Defined {
		return 0, &UndefinedSymbolError{LineNum: line.LineNumber, Name: operand}
	}
	return sym.Address, nil
}

// splitNames parses a comma-separated EXTDEF/EXTREF operand into names.
func splitNames(operand string) []string {
	if operand == "" {
		return nil
	}
	parts := strings.Split(operand, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			names = append(names, part)
		}
	}
	return names
}
