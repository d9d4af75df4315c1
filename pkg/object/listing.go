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

package object

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/sicxeasm/sicxeasm/pkg/assembler"
)

// WriteListing formats the assembled line sequence as a tab-aligned listing:
// a header row, one row per source line (comments occupy their own row,
// verbatim), and a trailing dump of locally defined symbols.
//
// objectColumnWidth sets the tabwriter's minimum width for the OBJECT CODE
// column; addressDigits sets how many hex digits ADDR fields are zero-padded
// to. Both come from the config's [listing] table (spec.md §4.9).
func WriteListing(lines []*assembler.AssemblyLine, symbols *assembler.SymbolTable, objectColumnWidth, addressDigits int) string {
	addrFmt := fmt.Sprintf("%%0%dX", addressDigits)

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "LINE\tADDR\tLABEL\tOPCODE\tOPERAND\tOBJECT CODE")

	for _, line := range lines {
		if line.IsComment {
			fmt.Fprintf(w, "%d\t\t\t\t\t%s\n", line.LineNumber, line.Comment)
			continue
		}

		addr := ""
		if line.HasAddress {
			addr = fmt.Sprintf(addrFmt, line.Address)
		}

		object := line.ObjectCode
		if len(object) < objectColumnWidth {
			object += strings.Repeat(" ", objectColumnWidth-len(object))
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			line.LineNumber, addr, line.Label, line.Mnemonic, line.Operand, object,
		)
	}

	w.Flush()

	b.WriteString("\nSYMBOL TABLE\n")
	w2 := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w2, "NAME\tADDR\tSECTION")
	for _, sym := range symbols.Defined() {
		fmt.Fprintf(w2, "%s\t"+addrFmt+"\t%s\n", sym.Name, sym.Address, sym.Section)
	}
	w2.Flush()

	return b.String()
}
