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
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/sicxeasm/sicxeasm/pkg/assembler"
	"github.com/sicxeasm/sicxeasm/pkg/config"
	"github.com/sicxeasm/sicxeasm/pkg/object"
)

var (
	helpvar   bool
	configvar string
	pagevar   bool
	clipvar   bool
	outvar    string
)

const usage = "sicasm [-config file] [-page] [-clip] [-o outfile] filename"

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.StringVar(&configvar, "config", "", "Path to a TOML settings file")
	flag.BoolVar(&pagevar, "page", false, "Pages the listing in the terminal after assembly")
	flag.BoolVar(&clipvar, "clip", false, "Copies the object program to the system clipboard")
	flag.StringVar(&outvar, "o", "", "Base name for the .lst/.obj output files, overriding the default")
	flag.Parse()
}

func sicasm() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()
	if len(args) != 1 {
		log.Println(usage)
		return 1
	}

	cfg, err := config.Load(configvar)
	if err != nil {
		log.Println("Error loading config file")
		log.Println(err)
		return 1
	}

	infile := args[0]
	base := outvar
	if base == "" {
		base = strings.TrimSuffix(infile, filepath.Ext(infile))
	}
	listingPath := base + ".lst"
	objectPath := base + ".obj"

	if err := assemble(infile, listingPath, objectPath, cfg); err != nil {
		reportError(infile, err, cfg)
		return 1
	}

	if pagevar {
		if data, err := os.ReadFile(listingPath); err == nil {
			pageListing(string(data), cfg)
		}
	}

	if clipvar || cfg.Output.Clipboard {
		if data, err := os.ReadFile(objectPath); err == nil {
			copyToClipboard(data)
		}
	}

	return 0
}

// assemble is the driver's one entry operation: read inputPath, run the
// CORE pipeline, and write the listing and object program.
func assemble(inputPath, listingPath, objectPath string, cfg config.Config) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer file.Close()

	var sourceLines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		sourceLines = append(sourceLines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	result, err := assembler.Assemble(sourceLines)
	if err != nil {
		return err
	}

	listing := object.WriteListing(
		result.Lines, result.Symbols,
		cfg.Listing.ObjectColumnWidth, cfg.Listing.AddressDigits,
	)
	if err := os.WriteFile(listingPath, []byte(listing), 0666); err != nil {
		return err
	}

	program := object.Emit(result.Sections, result.Lines, result.Symbols, result.Modifications)
	if err := os.WriteFile(objectPath, []byte(program), 0666); err != nil {
		return err
	}

	return nil
}

func main() {
	os.Exit(sicasm())
}
