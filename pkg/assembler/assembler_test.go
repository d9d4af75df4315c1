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

package assembler_test

import (
	"testing"

	"github.com/sicxeasm/sicxeasm/pkg/assembler"
)

// findLine returns the first line in result.Lines with the given label, or
// nil.
func findLine(result *assembler.Result, label string) *assembler.AssemblyLine {
	for _, line := range result.Lines {
		if line.Label == label {
			return line
		}
	}
	return nil
}

func findOpLine(result *assembler.Result, mnemonic string) *assembler.AssemblyLine {
	for _, line := range result.Lines {
		if line.Mnemonic == mnemonic {
			return line
		}
	}
	return nil
}

// TestAssemblePCRelativeLoad mirrors spec.md §8 scenario 1.
func TestAssemblePCRelativeLoad(t *testing.T) {
	source := []string{
		"FIRST\tSTART\t1000",
		"\tLDA\tALPHA",
		"ALPHA\tRESW\t1",
		"\tEND\tFIRST",
	}

	result, err := assembler.Assemble(source)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	alpha := findLine(result, "ALPHA")
	if alpha == nil || alpha.Address != 0x1003 {
		t.Fatalf("ALPHA address = %#x, want 0x1003", addrOf(alpha))
	}

	lda := findOpLine(result, "LDA")
	if lda == nil {
		t.Fatal("LDA line not found")
	}
	if have, want := lda.ObjectCode, "032000"; have != want {
		t.Errorf("LDA object code = %s, want %s", have, want)
	}

	if have, want := result.Sections[0].Length, 6; have != want {
		t.Errorf("section length = %d, want %d", have, want)
	}
}

// TestAssembleFormat4External mirrors spec.md §8 scenario 2.
func TestAssembleFormat4External(t *testing.T) {
	source := []string{
		"COPY\tSTART\t0",
		"\tEXTREF\tBUF",
		"\t+LDA\tBUF",
		"\tEND\tCOPY",
	}

	result, err := assembler.Assemble(source)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	lda := findOpLine(result, "+LDA")
	if lda == nil {
		t.Fatal("+LDA line not found")
	}
	if have, want := lda.ObjectCode, "03100000"; have != want {
		t.Errorf("+LDA object code = %s, want %s", have, want)
	}

	if len(result.Modifications) != 1 {
		t.Fatalf("modifications = %d, want 1", len(result.Modifications))
	}
	m := result.Modifications[0]
	if m.Address != 0x01 || m.Length != 5 || m.Sign != '+' || m.Symbol != "BUF" {
		t.Errorf("modification = %+v, want {Address:1 Length:5 Sign:+ Symbol:BUF}", m)
	}
}

// TestAssembleCharacterByte mirrors spec.md §8 scenario 3.
func TestAssembleCharacterByte(t *testing.T) {
	source := []string{
		"PROG\tSTART\t0",
		"LBL\tBYTE\tC'EOF'",
		"\tEND\tPROG",
	}

	result, err := assembler.Assemble(source)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	lbl := findLine(result, "LBL")
	if lbl == nil {
		t.Fatal("LBL line not found")
	}
	if have, want := lbl.ObjectCode, "454F46"; have != want {
		t.Errorf("BYTE object code = %s, want %s", have, want)
	}
	if have, want := result.Sections[0].Length, 3; have != want {
		t.Errorf("section length = %d, want %d", have, want)
	}
}

// TestAssembleLiteralPool mirrors spec.md §8 scenario 4.
func TestAssembleLiteralPool(t *testing.T) {
	source := []string{
		"PROG\tSTART\t0",
		"FILL\tRESB\t48", // pads the counter to 0x0030
		"\tLDA\t=C'EOF'",
		"PAD\tRESB\t29", // pads the counter to 0x0050
		"\tLTORG",
		"\tEND\tPROG",
	}

	result, err := assembler.Assemble(source)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	lda := findOpLine(result, "LDA")
	if lda == nil {
		t.Fatal("LDA line not found")
	}
	if have, want := lda.ObjectCode, "03201D"; have != want {
		t.Errorf("LDA object code = %s, want %s", have, want)
	}

	lit, ok := result.Literals["=C'EOF'"]
	if !ok {
		t.Fatal("literal =C'EOF' not recorded")
	}
	if have, want := lit.Address, 0x0050; have != want {
		t.Errorf("literal address = %#x, want %#x", have, want)
	}
}

// TestAssembleEquExpression mirrors spec.md §8 scenario 5.
func TestAssembleEquExpression(t *testing.T) {
	source := []string{
		"PROG\tSTART\t0",
		"BUFFER\tRESB\t256",
		"BUFEND\tEQU\t*",
		"MAXLEN\tEQU\tBUFEND-BUFFER",
		"\tEND\tPROG",
	}

	result, err := assembler.Assemble(source)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	sym, ok := result.Symbols.Lookup("PROG", "MAXLEN")
	if !ok {
		t.Fatal("MAXLEN not defined")
	}
	if have, want := sym.Address, 256; have != want {
		t.Errorf("MAXLEN = %d, want %d", have, want)
	}
}

func TestAssembleDuplicateSymbol(t *testing.T) {
	source := []string{
		"PROG\tSTART\t0",
		"ALPHA\tRESW\t1",
		"ALPHA\tRESW\t1",
		"\tEND\tPROG",
	}

	_, err := assembler.Assemble(source)
	if _, ok := err.(*assembler.DuplicateSymbolError); !ok {
		t.Fatalf("err = %v (%T), want *DuplicateSymbolError", err, err)
	}
}

func TestAssembleUndefinedSymbol(t *testing.T) {
	source := []string{
		"PROG\tSTART\t0",
		"\tLDA\tMISSING",
		"\tEND\tPROG",
	}

	_, err := assembler.Assemble(source)
	if _, ok := err.(*assembler.UndefinedSymbolError); !ok {
		t.Fatalf("err = %v (%T), want *UndefinedSymbolError", err, err)
	}
}

func TestAssembleUnknownOpcode(t *testing.T) {
	source := []string{
		"PROG\tSTART\t0",
		"\tFROB\tALPHA",
		"\tEND\tPROG",
	}

	_, err := assembler.Assemble(source)
	if _, ok := err.(*assembler.UnknownOpcodeError); !ok {
		t.Fatalf("err = %v (%T), want *UnknownOpcodeError", err, err)
	}
}

func TestAssembleUnsupportedDirective(t *testing.T) {
	source := []string{
		"PROG\tSTART\t0",
		"\tORG\t100",
		"\tEND\tPROG",
	}

	_, err := assembler.Assemble(source)
	if _, ok := err.(*assembler.UnsupportedDirectiveError); !ok {
		t.Fatalf("err = %v (%T), want *UnsupportedDirectiveError", err, err)
	}
}

func TestAssembleInvalidRegister(t *testing.T) {
	source := []string{
		"PROG\tSTART\t0",
		"\tCOMPR\tA,Q",
		"\tEND\tPROG",
	}

	_, err := assembler.Assemble(source)
	if _, ok := err.(*assembler.InvalidRegisterError); !ok {
		t.Fatalf("err = %v (%T), want *InvalidRegisterError", err, err)
	}
}

// TestAssembleBaseRelative exercises the base-relative fallback when a
// target falls outside the PC-relative window.
func TestAssembleBaseRelative(t *testing.T) {
	source := []string{
		"PROG\tSTART\t0",
		"BUFFER\tRESB\t4000",
		"\tBASE\tBUFFER",
		"\tLDA\tBUFFER",
		"\tEND\tPROG",
	}

	result, err := assembler.Assemble(source)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	lda := findOpLine(result, "LDA")
	if lda == nil {
		t.Fatal("LDA line not found")
	}
	if have, want := lda.ObjectCode, "034000"; have != want {
		t.Errorf("LDA object code = %s, want %s", have, want)
	}
}

func addrOf(line *assembler.AssemblyLine) int {
	if line == nil {
		return -1
	}
	return line.Address
}
