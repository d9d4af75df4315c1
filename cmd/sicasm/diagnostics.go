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

package main

import (
	"bufio"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/sicxeasm/sicxeasm/pkg/assembler"
	"github.com/sicxeasm/sicxeasm/pkg/config"
)

// wantsColor resolves the diagnostics.color config setting against whether
// stderr is actually a terminal, the way golc3-asm's stdin/stdout check
// decided whether to underline a TokenError — here delegated to
// golang.org/x/term instead of a hand-rolled os.ModeCharDevice probe.
func wantsColor(cfg config.Config) bool {
	switch cfg.Diagnostics.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return term.IsTerminal(int(os.Stderr.Fd()))
	}
}

// reportError prints a LineError alongside the offending source line, bold
// and red when color is enabled.
func reportError(sourcePath string, err error, cfg config.Config) {
	lineErr, ok := err.(assembler.LineError)
	if !ok {
		log.Println(err)
		return
	}

	color := wantsColor(cfg)

	if color {
		log.Printf("\033[1;31m%s\033[0m", lineErr.Error())
	} else {
		log.Println(lineErr.Error())
	}

	source, openErr := os.Open(sourcePath)
	if openErr != nil {
		return
	}
	defer source.Close()

	scanner := bufio.NewScanner(source)
	n := 0
	for scanner.Scan() {
		n++
		if n == lineErr.Line() {
			if color {
				log.Printf("\033[1m%s\033[0m", scanner.Text())
			} else {
				log.Println(scanner.Text())
			}
			return
		}
	}
}
