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

package encoding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sicxeasm/sicxeasm/pkg/encoding"
)

func TestFold(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("LDA", encoding.Fold("lda"))
	assert.Equal("ALPHA", encoding.Fold("Alpha"))
}

func TestDecodeHex(t *testing.T) {
	assert := assert.New(t)

	v, err := encoding.DecodeHex("1000")
	assert.NoError(err)
	assert.Equal(0x1000, v)

	_, err = encoding.DecodeHex("ZZZZ")
	assert.Error(err)
}

func TestDecodeInt(t *testing.T) {
	assert := assert.New(t)

	v, err := encoding.DecodeInt("42")
	assert.NoError(err)
	assert.Equal(42, v)

	_, err = encoding.DecodeInt("ALPHA")
	assert.Error(err)
}

func TestConstantBytesCharacter(t *testing.T) {
	assert := assert.New(t)

	data, err := encoding.ConstantBytes("C'EOF'")
	assert.NoError(err)
	assert.Equal([]byte{0x45, 0x4F, 0x46}, data)
}

func TestConstantBytesHex(t *testing.T) {
	assert := assert.New(t)

	data, err := encoding.ConstantBytes("X'1C'")
	assert.NoError(err)
	assert.Equal([]byte{0x1C}, data)
}

func TestConstantBytesOddHex(t *testing.T) {
	assert := assert.New(t)

	data, err := encoding.ConstantBytes("X'1'")
	assert.NoError(err)
	assert.Equal([]byte{0x10}, data)
}

func TestConstantBytesLiteralPrefix(t *testing.T) {
	assert := assert.New(t)

	data, err := encoding.ConstantBytes("=C'EOF'")
	assert.NoError(err)
	assert.Equal([]byte{0x45, 0x4F, 0x46}, data)
}

func TestConstantLength(t *testing.T) {
	assert := assert.New(t)

	n, err := encoding.ConstantLength("C'EOF'")
	assert.NoError(err)
	assert.Equal(3, n)

	n, err = encoding.ConstantLength("X'1'")
	assert.NoError(err)
	assert.Equal(1, n)
}

func TestHexString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("454F46", encoding.HexString([]byte{0x45, 0x4F, 0x46}))
	assert.Equal("", encoding.HexString(nil))
}

func TestTwosComplement12(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint16(0x000), encoding.TwosComplement12(0))
	assert.Equal(uint16(0xFFF), encoding.TwosComplement12(-1))
	assert.Equal(uint16(0x800), encoding.TwosComplement12(-2048))
}

func TestRegisterNumber(t *testing.T) {
	assert := assert.New(t)

	cases := map[string]uint16{
		"A": 0, "X": 1, "L": 2, "B": 3, "S": 4, "T": 5, "F": 6, "PC": 8, "SW": 9,
	}
	for name, want := range cases {
		got, ok := encoding.RegisterNumber(name)
		assert.True(ok)
		assert.Equal(want, got)
	}

	_, ok := encoding.RegisterNumber("Z")
	assert.False(ok)
}
