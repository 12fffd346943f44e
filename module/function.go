package module

import (
	"github.com/gogpu/spvgen/spirv"
)

// BasicBlock is a label followed by raw instructions. A block with label 0
// and no instructions is empty.
type BasicBlock struct {
	Label        uint32
	Instructions [][]uint32
}

// NewBasicBlock creates an empty block with the given label id.
func NewBasicBlock(label uint32) *BasicBlock {
	return &BasicBlock{Label: label}
}

// Add appends an encoded instruction.
func (b *BasicBlock) Add(inst []uint32) {
	b.Instructions = append(b.Instructions, inst)
}

// IsEmpty reports whether b is in the zero state.
func (b *BasicBlock) IsEmpty() bool {
	return b.Label == 0 && len(b.Instructions) == 0
}

// IsTerminated reports whether the last instruction ends the block.
func (b *BasicBlock) IsTerminated() bool {
	if len(b.Instructions) == 0 {
		return false
	}
	op, _ := spirv.SplitOpWord(b.Instructions[len(b.Instructions)-1][0])
	return IsTerminator(op)
}

// LabelInstruction encodes the OpLabel that opens the block.
func (b *BasicBlock) LabelInstruction() []uint32 {
	return spirv.Encode(spirv.OpLabel, b.Label)
}

func (b *BasicBlock) Clear() {
	b.Label = 0
	b.Instructions = nil
}

// IsTerminator reports whether op ends a basic block.
func IsTerminator(op spirv.OpCode) bool {
	switch op {
	case spirv.OpBranch, spirv.OpBranchConditional, spirv.OpSwitch,
		spirv.OpReturn, spirv.OpReturnValue, spirv.OpKill, spirv.OpUnreachable:
		return true
	}
	return false
}

// Parameter is one OpFunctionParameter.
type Parameter struct {
	Type uint32
	ID   uint32
}

// Instruction encodes the parameter declaration.
func (p Parameter) Instruction() []uint32 {
	return spirv.Encode(spirv.OpFunctionParameter, p.Type, p.ID)
}

// Function is one function definition: the OpFunction header, its
// parameters and its blocks in order. The first block is the entry block.
type Function struct {
	ResultType uint32
	ResultID   uint32
	Control    spirv.FunctionControl
	FuncType   uint32
	Params     []Parameter
	Blocks     []*BasicBlock
}

// IsEmpty reports whether every field of f is at its zero value.
func (f *Function) IsEmpty() bool {
	return f.ResultType == 0 && f.ResultID == 0 && f.Control == 0 && f.FuncType == 0 &&
		len(f.Params) == 0 && len(f.Blocks) == 0
}

// Block returns the block labelled label.
func (f *Function) Block(label uint32) (*BasicBlock, bool) {
	for _, b := range f.Blocks {
		if b.Label == label {
			return b, true
		}
	}
	return nil, false
}

// Instruction encodes the OpFunction that opens f.
func (f *Function) Instruction() []uint32 {
	return spirv.Encode(spirv.OpFunction, f.ResultType, f.ResultID, uint32(f.Control), f.FuncType)
}

// EndInstruction encodes OpFunctionEnd.
func (f *Function) EndInstruction() []uint32 {
	return spirv.Encode(spirv.OpFunctionEnd)
}

func (f *Function) Clear() {
	*f = Function{}
}

