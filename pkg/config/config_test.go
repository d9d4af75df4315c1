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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sicxeasm/sicxeasm/pkg/config"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg, err := config.Load("")
	assert.NoError(err)
	assert.Equal(config.Default(), cfg)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "no-such.toml"))
	assert.NoError(err)
	assert.Equal(config.Default(), cfg)
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "sicasm.toml")
	body := "[diagnostics]\ncolor = \"always\"\n"
	assert.NoError(os.WriteFile(path, []byte(body), 0o644))

	cfg, err := config.Load(path)
	assert.NoError(err)
	assert.Equal("always", cfg.Diagnostics.Color)
	assert.Equal(config.Default().Listing, cfg.Listing)
	assert.Equal(config.Default().Output, cfg.Output)
}

func TestLoadMalformedFileErrors(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "sicasm.toml")
	assert.NoError(os.WriteFile(path, []byte("not valid toml {{"), 0o644))

	_, err := config.Load(path)
	assert.Error(err)
}
