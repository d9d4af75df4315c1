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

// Package config loads the driver's TOML settings file: listing column
// widths, diagnostic coloring, and clipboard export.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

type Listing struct {
	ObjectColumnWidth int `toml:"object_column_width"`
	AddressDigits     int `toml:"address_digits"`
}

type Diagnostics struct {
	Color string `toml:"color"` // "auto" | "always" | "never"
}

type Output struct {
	Clipboard bool `toml:"clipboard"`
}

// Config is the driver's full settings tree. The zero value is not the
// built-in settings; use Default() for those.
type Config struct {
	Listing     Listing     `toml:"listing"`
	Diagnostics Diagnostics `toml:"diagnostics"`
	Output      Output      `toml:"output"`
}

// Default returns the built-in settings used when no config file is given.
func Default() Config {
	return Config{
		Listing:     Listing{ObjectColumnWidth: 12, AddressDigits: 4},
		Diagnostics: Diagnostics{Color: "auto"},
		Output:      Output{Clipboard: false},
	}
}

// Load reads path as a TOML document, starting from Default() and
// overwriting only the fields present in the file. A missing path is not
// an error; the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
