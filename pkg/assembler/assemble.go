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

// Result is everything the record emitter and listing writer need: the
// address- and object-code-annotated line sequence, the resolved tables,
// and the Modification records Pass 2 produced.
type Result struct {
	Lines         []*AssemblyLine
	Symbols       *SymbolTable
	Literals      map[string]*Literal
	Sections      []*ControlSection
	Modifications []ModificationRecord
}

// Assemble runs the full CORE pipeline — parse, Pass 1, pre-Pass-2
// validation, Pass 2 — over an already-read sequence of source lines. It
// aborts on the first diagnosed LineError, matching §7's fail-fast design.
func Assemble(sourceLines []string) (*Result, error) {
	lines := make([]*AssemblyLine, len(sourceLines))
	for i, raw := range sourceLines {
		lines[i] = ParseLine(i+1, raw)
	}

	pass1, err := RunPass1(lines)
	if err != nil {
		return nil, err
	}

	if err := ValidateOperands(pass1.Lines, pass1.Symbols, pass1.Literals); err != nil {
		return nil, err
	}

	mods, err := RunPass2(pass1.Lines, pass1.Symbols, pass1.Literals)
	if err != nil {
		return nil, err
	}

	return &Result{
		Lines:         pass1.Lines,
		Symbols:       pass1.Symbols,
		Literals:      pass1.Literals,
		Sections:      pass1.Sections,
		Modifications: mods,
	}, nil
}
