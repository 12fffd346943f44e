package spirv

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// MaxWordCount is the largest instruction size expressible in the high
// half of the first instruction word.
const MaxWordCount = 0xFFFF

// ErrWordCountOverflow is the panic value used when an instruction would
// not fit in MaxWordCount words.
var ErrWordCountOverflow = errors.New("spirv: instruction word count overflows 16 bits")

// ErrMalformedString is returned by DecodeString when the words hold no NUL terminator.
var ErrMalformedString = errors.New("spirv: string literal is not NUL terminated")

// MakeOpWord combines an opcode and a total word count into the first
// word of an instruction.
func MakeOpWord(op OpCode, wordCount uint16) uint32 {
	return uint32(wordCount)<<16 | uint32(op)
}

// SplitOpWord is the inverse of MakeOpWord.
func SplitOpWord(word uint32) (OpCode, uint16) {
	return OpCode(word & 0xFFFF), uint16(word >> 16)
}

// Encode produces [op | wordCount<<16, operands...]. The word count
// includes the opcode word itself. It panics with ErrWordCountOverflow
// when the instruction is too large to encode.
func Encode(op OpCode, operands ...uint32) []uint32 {
	count, err := safecast.Conv[uint16](len(operands) + 1)
	if err != nil {
		panic(fmt.Errorf("%w: %s with %d operands", ErrWordCountOverflow, op, len(operands)))
	}
	words := make([]uint32, 0, int(count))
	words = append(words, MakeOpWord(op, count))
	return append(words, operands...)
}

// EncodeString packs s little-endian, four bytes per word, NUL terminated
// and zero padded to a whole word. An empty string encodes to one zero word.
func EncodeString(s string) []uint32 {
	words := make([]uint32, len(s)/4+1)
	for i := 0; i < len(s); i++ {
		words[i/4] |= uint32(s[i]) << (8 * (i % 4))
	}
	return words
}

// StringWordCount returns len(EncodeString(s)) without encoding.
func StringWordCount(s string) int {
	return len(s)/4 + 1
}

// DecodeString reads a literal string from the start of words. It returns
// the string and the number of words it occupied.
func DecodeString(words []uint32) (string, int, error) {
	var sb strings.Builder
	for i, word := range words {
		for shift := 0; shift < 32; shift += 8 {
			b := byte(word >> shift)
			if b == 0 {
				return sb.String(), i + 1, nil
			}
			sb.WriteByte(b)
		}
	}
	return "", 0, ErrMalformedString
}

// Instruction represents a SPIR-V instruction.
type Instruction struct {
	Opcode OpCode
	Words  []uint32 // result type ID, result ID, operands
}

// Encode encodes the instruction to words.
func (i Instruction) Encode() []uint32 {
	return Encode(i.Opcode, i.Words...)
}

// WordCount returns the encoded size including the opcode word.
func (i Instruction) WordCount() int {
	return len(i.Words) + 1
}

// InstructionBuilder builds SPIR-V instructions.
type InstructionBuilder struct {
	words []uint32
}

// NewInstructionBuilder creates a new instruction builder.
func NewInstructionBuilder() *InstructionBuilder {
	return &InstructionBuilder{
		words: make([]uint32, 0, 8),
	}
}

// AddWord adds a word to the instruction.
func (b *InstructionBuilder) AddWord(word uint32) *InstructionBuilder {
	b.words = append(b.words, word)
	return b
}

// AddWords adds several words to the instruction.
func (b *InstructionBuilder) AddWords(words ...uint32) *InstructionBuilder {
	b.words = append(b.words, words...)
	return b
}

// AddString adds a NUL terminated literal string.
func (b *InstructionBuilder) AddString(s string) *InstructionBuilder {
	b.words = append(b.words, EncodeString(s)...)
	return b
}

// Build builds the instruction with the given opcode and resets the builder.
func (b *InstructionBuilder) Build(opcode OpCode) Instruction {
	inst := Instruction{
		Opcode: opcode,
		Words:  b.words,
	}
	b.words = make([]uint32, 0, 8)
	return inst
}

// WordsToBytes serializes words little-endian.
func WordsToBytes(words []uint32) []byte {
	buf := make([]byte, len(words)*4)
	for i, word := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], word)
	}
	return buf
}

// BytesToWords parses a little-endian byte stream. The length must be a
// multiple of four.
func BytesToWords(data []byte) ([]uint32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("spirv: binary size %d is not a multiple of 4", len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words, nil
}
