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
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/sicxeasm/sicxeasm/pkg/config"
)

var termRestore unix.Termios

func enterRawTerm() {
	termios, err := unix.IoctlGetTermios(int(os.Stdin.Fd()), unix.TCGETS)
	if err != nil {
		panic(err)
	}

	termRestore = *termios
	termstate := *termios

	termstate.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR
	termstate.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	termstate.Cflag &^= unix.CSIZE | unix.PARENB
	termstate.Cflag |= unix.CS8

	termstate.Cc[unix.VMIN] = 1
	termstate.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(
		int(os.Stdin.Fd()), unix.TCSETS, &termstate,
	); err != nil {
		panic(err)
	}
}

func exitRawTerm() {
	if err := unix.IoctlSetTermios(
		int(os.Stdin.Fd()), unix.TCSETS, &termRestore,
	); err != nil {
		panic(err)
	}
}

// pageListing shows listing one screenful at a time, advancing on any
// keypress and quitting on 'q'. It is the read-only counterpart of the
// teacher's debug REPL: same raw-mode dance, no command dispatch.
func pageListing(listing string, cfg config.Config) {
	if stat, _ := os.Stdin.Stat(); stat.Mode()&os.ModeCharDevice == 0 {
		fmt.Print(listing)
		return
	}

	const screenHeight = 24

	enterRawTerm()
	defer exitRawTerm()

	lines := strings.Split(listing, "\n")
	reader := bufio.NewReader(os.Stdin)

	for i := 0; i < len(lines); i += screenHeight {
		end := i + screenHeight
		if end > len(lines) {
			end = len(lines)
		}
		for _, line := range lines[i:end] {
			fmt.Print(line, "\r\n")
		}

		if end >= len(lines) {
			return
		}

		fmt.Print("\033[1m--more--\033[0m\r\n")
		b, err := reader.ReadByte()
		if err != nil || b == 'q' {
			return
		}
	}
}
