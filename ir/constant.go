package ir

import (
	"math"
	"slices"

	"github.com/gogpu/spvgen/spirv"
)

// Constant is one constant declaration: opcode, result type id, literal or
// constituent operands and an attached decoration set.
type Constant struct {
	Op          spirv.OpCode
	TypeID      uint32
	Args        []uint32
	Decorations []DecorationHandle
}

// Equal reports structural equality, treating decorations as a set.
func (c Constant) Equal(o Constant) bool {
	return c.Op == o.Op && c.TypeID == o.TypeID &&
		slices.Equal(c.Args, o.Args) &&
		slices.Equal(decorationSet(c.Decorations), decorationSet(o.Decorations))
}

// WithResultID encodes [op|wc, typeID, id, args...].
func (c Constant) WithResultID(id uint32) []uint32 {
	operands := make([]uint32, 0, len(c.Args)+2)
	operands = append(operands, c.TypeID, id)
	return spirv.Encode(c.Op, append(operands, c.Args...)...)
}

// IsSpec reports whether c is a specialization constant.
func (c Constant) IsSpec() bool {
	switch c.Op {
	case spirv.OpSpecConstantTrue, spirv.OpSpecConstantFalse, spirv.OpSpecConstant,
		spirv.OpSpecConstantComposite, spirv.OpSpecConstantOp:
		return true
	}
	return false
}

func (c Constant) canonical() Constant {
	return Constant{
		Op:          c.Op,
		TypeID:      c.TypeID,
		Args:        slices.Clone(c.Args),
		Decorations: decorationSet(c.Decorations),
	}
}

func newConstant(op spirv.OpCode, typeID uint32, args []uint32, decorations []DecorationHandle) Constant {
	return Constant{Op: op, TypeID: typeID, Args: args, Decorations: decorations}
}

func True(typeID uint32, decorations ...DecorationHandle) Constant {
	return newConstant(spirv.OpConstantTrue, typeID, nil, decorations)
}

func False(typeID uint32, decorations ...DecorationHandle) Constant {
	return newConstant(spirv.OpConstantFalse, typeID, nil, decorations)
}

// Numeric declares an OpConstant from raw literal words (low-order word first).
func Numeric(typeID uint32, words []uint32, decorations ...DecorationHandle) Constant {
	return newConstant(spirv.OpConstant, typeID, slices.Clone(words), decorations)
}

func ConstUint32(typeID, v uint32, decorations ...DecorationHandle) Constant {
	return Numeric(typeID, []uint32{v}, decorations...)
}

func ConstInt32(typeID uint32, v int32, decorations ...DecorationHandle) Constant {
	return Numeric(typeID, []uint32{uint32(v)}, decorations...)
}

func ConstFloat32(typeID uint32, v float32, decorations ...DecorationHandle) Constant {
	return Numeric(typeID, []uint32{math.Float32bits(v)}, decorations...)
}

func ConstUint64(typeID uint32, v uint64, decorations ...DecorationHandle) Constant {
	return Numeric(typeID, splitWords(v), decorations...)
}

func ConstInt64(typeID uint32, v int64, decorations ...DecorationHandle) Constant {
	return Numeric(typeID, splitWords(uint64(v)), decorations...)
}

func ConstFloat64(typeID uint32, v float64, decorations ...DecorationHandle) Constant {
	return Numeric(typeID, splitWords(math.Float64bits(v)), decorations...)
}

func Composite(typeID uint32, constituents []uint32, decorations ...DecorationHandle) Constant {
	return newConstant(spirv.OpConstantComposite, typeID, slices.Clone(constituents), decorations)
}

// SamplerConstant declares an OpConstantSampler.
func SamplerConstant(typeID uint32, addressing spirv.SamplerAddressingMode, normalized bool,
	filter spirv.SamplerFilterMode, decorations ...DecorationHandle,
) Constant {
	args := []uint32{uint32(addressing), boolWord(normalized), uint32(filter)}
	return newConstant(spirv.OpConstantSampler, typeID, args, decorations)
}

func Null(typeID uint32, decorations ...DecorationHandle) Constant {
	return newConstant(spirv.OpConstantNull, typeID, nil, decorations)
}

func SpecTrue(typeID uint32, decorations ...DecorationHandle) Constant {
	return newConstant(spirv.OpSpecConstantTrue, typeID, nil, decorations)
}

func SpecFalse(typeID uint32, decorations ...DecorationHandle) Constant {
	return newConstant(spirv.OpSpecConstantFalse, typeID, nil, decorations)
}

func SpecNumeric(typeID uint32, words []uint32, decorations ...DecorationHandle) Constant {
	return newConstant(spirv.OpSpecConstant, typeID, slices.Clone(words), decorations)
}

func SpecComposite(typeID uint32, constituents []uint32, decorations ...DecorationHandle) Constant {
	return newConstant(spirv.OpSpecConstantComposite, typeID, slices.Clone(constituents), decorations)
}

func splitWords(v uint64) []uint32 {
	return []uint32{uint32(v), uint32(v >> 32)}
}
