package spirv

import (
	"errors"
	"fmt"
)

// ErrBadMagic is returned when a binary does not start with MagicNumber.
var ErrBadMagic = errors.New("spirv: invalid magic number")

// Header is the decoded five-word module header.
type Header struct {
	Magic     uint32
	Version   Version
	Generator uint32
	Bound     uint32
	Schema    uint32
}

// RawInstruction is one decoded instruction with its word offset in the module.
type RawInstruction struct {
	Offset   int
	Opcode   OpCode
	Operands []uint32
}

// Words re-encodes the instruction.
func (r RawInstruction) Words() []uint32 {
	return Encode(r.Opcode, r.Operands...)
}

// ReadHeader decodes the header at the start of words.
func ReadHeader(words []uint32) (Header, error) {
	if len(words) < HeaderWords {
		return Header{}, fmt.Errorf("spirv: module too small: %d words", len(words))
	}
	if words[0] != MagicNumber {
		return Header{}, fmt.Errorf("%w: 0x%08X", ErrBadMagic, words[0])
	}
	return Header{
		Magic:     words[0],
		Version:   VersionFromWord(words[1]),
		Generator: words[2],
		Bound:     words[3],
		Schema:    words[4],
	}, nil
}

// ReadInstructions splits the instruction stream following the header.
// Operand slices alias words.
func ReadInstructions(words []uint32) ([]RawInstruction, error) {
	if _, err := ReadHeader(words); err != nil {
		return nil, err
	}
	var insts []RawInstruction
	for offset := HeaderWords; offset < len(words); {
		op, count := SplitOpWord(words[offset])
		if count == 0 || offset+int(count) > len(words) {
			return insts, fmt.Errorf("spirv: invalid word count %d for %s at word %d", count, op, offset)
		}
		insts = append(insts, RawInstruction{
			Offset:   offset,
			Opcode:   op,
			Operands: words[offset+1 : offset+int(count)],
		})
		offset += int(count)
	}
	return insts, nil
}
