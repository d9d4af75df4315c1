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

const (
	pcRangeLow  = -2048
	pcRangeHigh = 2047
	baseLow     = 0
	baseHigh    = 4095
)

// RunPass2 walks the address-annotated line sequence and generates object
// code for every line that emits bytes, returning the Modification records
// produced along the way.
func RunPass2(lines []*AssemblyLine, symbols *SymbolTable, literals map[string]*Literal) ([]ModificationRecord, error) {
	var mods []ModificationRecord

	for _, line := range lines {
		if line.IsComment || line.Mnemonic == "" {
			continue
		}

		mnemonic := stripExtension(line.Mnemonic)
		extended := strings.HasPrefix(line.Mnemonic, "+")

		switch mnemonic {
		case "RESW", "RESB", "START", "END", "CSECT", "EXTDEF", "EXTREF",
			"BASE", "NOBASE", "EQU", "LTORG":
			continue
		case "WORD":
			code, wordMods, err := encodeWord(line, symbols)
			if err != nil {
				return nil, err
			}
			line.ObjectCode = code
			mods = append(mods, wordMods...)
			continue
		case "BYTE":
			data, err := encoding.ConstantBytes(line.Operand)
			if err != nil {
				return nil, &MalformedOperandError{line.LineNumber, line.Operand, err.Error()}
			}
			line.ObjectCode = encoding.HexString(data)
			continue
		}

		inst, ok := lookupInstruction(mnemonic)
		if !ok {
			return nil, &UnknownOpcodeError{LineNum: line.LineNumber, Mnemonic: line.Mnemonic}
		}

		var code string
		var err error

		switch inst.Format {
		case FORMAT_1:
			code = encoding.HexString([]byte{inst.Opcode})
		case FORMAT_2:
			code, err = encodeFormat2(line, inst)
		case FORMAT_3:
			if extended {
				var m []ModificationRecord
				code, m, err = encodeFormat4(line, inst, symbols, literals)
				mods = append(mods, m...)
			} else {
				code, err = encodeFormat3(line, inst, symbols, literals)
			}
		}

		if err != nil {
			return nil, err
		}
		line.ObjectCode = code
	}

	return mods, nil
}

func encodeFormat2(line *AssemblyLine, inst Instruction) (string, error) {
	var r1, r2 uint16

	fields := strings.Split(line.Operand, ",")
	if len(fields) > 0 && strings.TrimSpace(fields[0]) != "" {
		n, ok := encoding.RegisterNumber(strings.TrimSpace(fields[0]))
		if !ok {
			return "", &InvalidRegisterError{LineNum: line.LineNumber, Operand: fields[0]}
		}
		r1 = n
	}
	if len(fields) > 1 && strings.TrimSpace(fields[1]) != "" {
		n, ok := encoding.RegisterNumber(strings.TrimSpace(fields[1]))
		if !ok {
			return "", &InvalidRegisterError{LineNum: line.LineNumber, Operand: fields[1]}
		}
		r2 = n
	}

	return encoding.HexString([]byte{inst.Opcode, byte(r1<<4 | r2)}), nil
}

// targetAddress resolves operand (a bare Format 3/4 base expression, which
// may be a literal reference) to an address, per spec.md §4.6, extended to
// also recognize literal-pool entries.
func targetAddress(base string, line *AssemblyLine, symbols *SymbolTable, literals map[string]*Literal) (addr int, external bool, err error) {
	if strings.HasPrefix(base, "=") {
		lit, ok := literals[base]
		if !ok {
			return 0, false, &UndefinedSymbolError{LineNum: line.LineNumber, Name: base}
		}
		return lit.Address, false, nil
	}
	return resolveOperandTarget(symbols, line.Section, base, line.LineNumber)
}

func encodeFormat3(line *AssemblyLine, inst Instruction, symbols *SymbolTable, literals map[string]*Literal) (string, error) {
	a := parseAddressing(line.Operand)

	n, i := 1, 1
	switch {
	case a.Immediate:
		n, i = 0, 1
	case a.Indirect:
		n, i = 1, 0
	}
	x := 0
	if a.Indexed {
		x = 1
	}

	var disp, b, p int

	switch {
	case a.Base == "":
		disp, b, p = 0, 0, 0

	case a.Immediate:
		if v, err := encoding.DecodeInt(a.Base); err == nil {
			disp, b, p = v, 0, 0
			break
		}
		fallthrough

	default:
		target, _, err := targetAddress(a.Base, line, symbols, literals)
		if err != nil {
			return "", err
		}

		pcDisp := target - (line.Address + 3)
		if pcDisp >= pcRangeLow && pcDisp <= pcRangeHigh {
			disp, b, p = pcDisp, 0, 1
			break
		}

		if line.baseSymbol != "" {
			baseVal, _, err := resolveOperandTarget(symbols, line.Section, line.baseSymbol, line.LineNumber)
			if err == nil {
				baseDisp := target - baseVal
				if baseDisp >= baseLow && baseDisp <= baseHigh {
					disp, b, p = baseDisp, 1, 0
					break
				}
			}
		}

		return "", &DisplacementOutOfRangeError{LineNum: line.LineNumber, Displacement: pcDisp}
	}

	dispField := encoding.TwosComplement12(disp)

	byte1 := (inst.Opcode & 0xFC) | byte((n<<1)|i)
	byte2 := byte((x<<7)|(b<<6)|(p<<5)) | byte((dispField>>8)&0x0F)
	byte3 := byte(dispField & 0xFF)

	return encoding.HexString([]byte{byte1, byte2, byte3}), nil
}

func encodeFormat4(line *AssemblyLine, inst Instruction, symbols *SymbolTable, literals map[string]*Literal) (string, []ModificationRecord, error) {
	a := parseAddressing(line.Operand)

	n, i := 1, 1
	switch {
	case a.Immediate:
		n, i = 0, 1
	case a.Indirect:
		n, i = 1, 0
	}
	x := 0
	if a.Indexed {
		x = 1
	}
	const e = 1

	var addr int
	var mods []ModificationRecord

	switch {
	case a.Base == "":
		addr = 0

	case a.Immediate:
		if v, err := encoding.DecodeInt(a.Base); err == nil {
			addr = v
			break
		}
		fallthrough

	default:
		if isExternalInSection(symbols, line.Section, a.Base) {
			addr = 0
			mods = append(mods, ModificationRecord{
				Address: line.Address + 1, Length: 5, Sign: '+',
				Symbol: a.Base, Section: line.Section,
			})
		} else {
			target, _, err := targetAddress(a.Base, line, symbols, literals)
			if err != nil {
				return "", nil, err
			}
			addr = target
			mods = append(mods, ModificationRecord{
				Address: line.Address + 1, Length: 5, Sign: '+',
				Symbol: line.Section, Section: line.Section,
			})
		}
	}

	addrField := uint32(addr) & 0xFFFFF

	byte1 := (inst.Opcode & 0xFC) | byte((n<<1)|i)
	byte2 := byte((x<<7)|(e<<4)) | byte((addrField>>16)&0x0F)
	byte3 := byte((addrField >> 8) & 0xFF)
	byte4 := byte(addrField & 0xFF)

	return encoding.HexString([]byte{byte1, byte2, byte3, byte4}), mods, nil
}

// encodeWord emits a WORD operand: a decimal integer, a single symbol
// (0 if an unresolved EXTREF), or an "A-B" expression whose external terms
// each contribute a Modification record instead of an inlined value.
func encodeWord(line *AssemblyLine, symbols *SymbolTable) (string, []ModificationRecord, error) {
	operand := line.Operand

	if v, err := encoding.DecodeInt(operand); err == nil {
		return encoding.HexString(wordBytes(v)), nil, nil
	}

	if idx := strings.IndexByte(operand, '-'); idx > 0 {
		left, right := operand[:idx], operand[idx+1:]
		value := 0
		var mods []ModificationRecord

		for _, term := range []struct {
			name string
			sign int
		}{{left, 1}, {right, -1}} {
			if isExternalInSection(symbols, line.Section, term.name) {
				sign := byte('+')
				if term.sign < 0 {
					sign = '-'
				}
				mods = append(mods, ModificationRecord{
					Address: line.Address, Length: 6, Sign: sign,
					Symbol: term.name, Section: line.Section,
				})
				continue
			}
			target, _, err := resolveOperandTarget(symbols, line.Section, term.name, line.LineNumber)
			if err != nil {
				return "", nil, err
			}
			value += term.sign * target
		}

		return encoding.HexString(wordBytes(value)), mods, nil
	}

	if isExternalInSection(symbols, line.Section, operand) {
		return encoding.HexString(wordBytes(0)), nil, nil
	}

	target, _, err := resolveOperandTarget(symbols, line.Section, operand, line.LineNumber)
	if err != nil {
		return "", nil, err
	}
	return encoding.HexString(wordBytes(target)), nil, nil
}

func wordBytes(v int) []byte {
	u := uint32(v) & 0xFFFFFF
	return []byte{byte(u >> 16), byte(u >> 8), byte(u)}
}
