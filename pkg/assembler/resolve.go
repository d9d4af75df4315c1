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

// addressing describes a decoded Format 3/4 operand: its addressing mode
// and the base expression left after stripping #/@ and a trailing ,X.
type addressing struct {
	Immediate bool
	Indirect  bool
	Indexed   bool
	Base      string // "" for an empty operand (e.g. RSUB)
}

// parseAddressing decodes a Format 3/4 operand per spec.md §4.4: a leading
// '#' is immediate, a leading '@' is indirect, otherwise simple; a trailing
// ",X" sets indexed regardless of mode.
func parseAddressing(operand string) addressing {
	a := addressing{}
	s := operand

	if strings.HasSuffix(s, ",X") {
		a.Indexed = true
		s = s[:len(s)-2]
	}

	switch {
	case strings.HasPrefix(s, "#"):
		a.Immediate = true
		s = s[1:]
	case strings.HasPrefix(s, "@"):
		a.Indirect = true
		s = s[1:]
	}

	a.Base = s
	return a
}

// resolveOperandTarget implements spec.md §4.6's symbol resolution order
// for a base operand against the current instruction's section.
func resolveOperandTarget(symbols *SymbolTable, section, operand string, lineNum int) (target int, external bool, err error) {
	if sym, ok := symbols.Lookup(section, operand); ok {
		if sym.External {
			return 0, true, nil
		}
		if sym.Defined {
			return sym.Address, false, nil
		}
	}

	if sym, ok := symbols.LookupAny(operand); ok {
		if sym.External {
			return 0, true, nil
		}
		return sym.Address, false, nil
	}

	if v, err2 := encoding.DecodeInt(operand); err2 == nil {
		return v, false, nil
	}

	return 0, false, &UndefinedSymbolError{LineNum: lineNum, Name: operand}
}

// isExternalInSection reports whether name was imported via EXTREF in
// section.
func isExternalInSection(symbols *SymbolTable, section, name string) bool {
	sym, ok := symbols.Lookup(section, name)
	return ok && sym.External
}

// ValidateOperands implements spec.md §4.7's pre-Pass-2 scan: every operand
// symbol must be defined in its section, imported via EXTREF, numeric, or
// (for Format 2) a register name.
func ValidateOperands(lines []*AssemblyLine, symbols *SymbolTable, literals map[string]*Literal) error {
	for _, line := range lines {
		if line.IsComment || line.Mnemonic == "" {
			continue
		}

		mnemonic := stripExtension(line.Mnemonic)
		inst, ok := lookupInstruction(mnemonic)
		if !ok {
			continue // directives were already validated in Pass 1
		}

		if inst.Format == FORMAT_2 {
			for _, reg := range strings.Split(line.Operand, ",") {
				reg = strings.TrimSpace(reg)
				if reg == "" {
					continue
				}
				if _, ok := encoding.RegisterNumber(reg); !ok {
					return &InvalidRegisterError{LineNum: line.LineNumber, Operand: reg}
				}
			}
			continue
		}

		if inst.Format != FORMAT_3 || line.Operand == "" {
			continue
		}

		a := parseAddressing(line.Operand)
		if a.Base == "" {
			continue
		}

		if strings.HasPrefix(a.Base, "=") {
			if _, ok := literals[a.Base]; !ok {
				return &UndefinedSymbolError{LineNum: line.LineNumber, Name: a.Base}
			}
			continue
		}

		if a.Immediate {
			if _, err := encoding.DecodeInt(a.Base); err == nil {
				continue
			}
		}

		if isExternalInSection(symbols, line.Section, a.Base) {
			continue
		}

		if sym, ok := symbols.Lookup(line.Section, a.Base); ok && sym.Defined {
			continue
		}

		if _, err := encoding.DecodeInt(a.Base); err == nil {
			continue
		}

		return &UndefinedSymbolError{LineNum: line.LineNumber, Name: a.Base}
	}

	return nil
}
