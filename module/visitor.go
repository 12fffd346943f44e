package module

import (
	"github.com/gogpu/spvgen/spirv"
)

// Phase tells a composite hook whether traversal is entering or leaving.
type Phase uint8

const (
	PhaseInit Phase = iota
	PhaseDone
)

func (p Phase) String() string {
	if p == PhaseInit {
		return "init"
	}
	return "done"
}

// Kind classifies a leaf instruction by the module section it belongs to.
type Kind uint8

const (
	KindCapability Kind = iota
	KindExtension
	KindExtInstImport
	KindMemoryModel
	KindEntryPoint
	KindExecutionMode
	KindDebugSource
	KindModuleProcessed
	KindDecoration
	KindType
	KindConstant
	KindVariable
	KindDebugInstruction
	KindParameter
	KindInstruction
)

var kindNames = [...]string{
	KindCapability:       "capability",
	KindExtension:        "extension",
	KindExtInstImport:    "ext-inst-import",
	KindMemoryModel:      "memory-model",
	KindEntryPoint:       "entry-point",
	KindExecutionMode:    "execution-mode",
	KindDebugSource:      "debug-source",
	KindModuleProcessed:  "module-processed",
	KindDecoration:       "decoration",
	KindType:             "type",
	KindConstant:         "constant",
	KindVariable:         "variable",
	KindDebugInstruction: "debug-instruction",
	KindParameter:        "parameter",
	KindInstruction:      "instruction",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Visitor receives a module traversal. Composite hooks are called with
// PhaseInit before and PhaseDone after the construct's contents; leaf hooks
// receive one encoded instruction each. Returning false from any hook
// stops the traversal.
//
// The instruction slices passed to leaf hooks may be shared with the
// module or its Context and must not be modified.
type Visitor interface {
	VisitModule(m *Module, phase Phase) bool
	VisitFunction(f *Function, phase Phase) bool
	VisitBasicBlock(b *BasicBlock, phase Phase) bool

	VisitCapability(inst []uint32) bool
	VisitExtension(inst []uint32) bool
	VisitExtInstImport(inst []uint32) bool
	VisitMemoryModel(inst []uint32) bool
	VisitEntryPoint(inst []uint32) bool
	VisitExecutionMode(inst []uint32) bool
	VisitDebugSource(inst []uint32) bool
	VisitModuleProcessed(inst []uint32) bool
	VisitDecoration(inst []uint32) bool
	VisitType(inst []uint32) bool
	VisitConstant(inst []uint32) bool
	VisitVariable(inst []uint32) bool
	VisitDebugInstruction(inst []uint32) bool
	VisitParameter(inst []uint32) bool
	VisitInstruction(inst []uint32) bool
}

// BaseVisitor implements every Visitor hook as a no-op that continues the
// traversal. Embed it and override the hooks of interest.
type BaseVisitor struct{}

func (BaseVisitor) VisitModule(*Module, Phase) bool         { return true }
func (BaseVisitor) VisitFunction(*Function, Phase) bool     { return true }
func (BaseVisitor) VisitBasicBlock(*BasicBlock, Phase) bool { return true }
func (BaseVisitor) VisitCapability([]uint32) bool           { return true }
func (BaseVisitor) VisitExtension([]uint32) bool            { return true }
func (BaseVisitor) VisitExtInstImport([]uint32) bool        { return true }
func (BaseVisitor) VisitMemoryModel([]uint32) bool          { return true }
func (BaseVisitor) VisitEntryPoint([]uint32) bool           { return true }
func (BaseVisitor) VisitExecutionMode([]uint32) bool        { return true }
func (BaseVisitor) VisitDebugSource([]uint32) bool          { return true }
func (BaseVisitor) VisitModuleProcessed([]uint32) bool      { return true }
func (BaseVisitor) VisitDecoration([]uint32) bool           { return true }
func (BaseVisitor) VisitType([]uint32) bool                 { return true }
func (BaseVisitor) VisitConstant([]uint32) bool             { return true }
func (BaseVisitor) VisitVariable([]uint32) bool             { return true }
func (BaseVisitor) VisitDebugInstruction([]uint32) bool     { return true }
func (BaseVisitor) VisitParameter([]uint32) bool            { return true }
func (BaseVisitor) VisitInstruction([]uint32) bool          { return true }

// VisitLeaf dispatches inst to the hook for kind.
func VisitLeaf(v Visitor, kind Kind, inst []uint32) bool {
	switch kind {
	case KindCapability:
		return v.VisitCapability(inst)
	case KindExtension:
		return v.VisitExtension(inst)
	case KindExtInstImport:
		return v.VisitExtInstImport(inst)
	case KindMemoryModel:
		return v.VisitMemoryModel(inst)
	case KindEntryPoint:
		return v.VisitEntryPoint(inst)
	case KindExecutionMode:
		return v.VisitExecutionMode(inst)
	case KindDebugSource:
		return v.VisitDebugSource(inst)
	case KindModuleProcessed:
		return v.VisitModuleProcessed(inst)
	case KindDecoration:
		return v.VisitDecoration(inst)
	case KindType:
		return v.VisitType(inst)
	case KindConstant:
		return v.VisitConstant(inst)
	case KindVariable:
		return v.VisitVariable(inst)
	case KindDebugInstruction:
		return v.VisitDebugInstruction(inst)
	case KindParameter:
		return v.VisitParameter(inst)
	default:
		return v.VisitInstruction(inst)
	}
}

type leaf struct {
	kind  Kind
	words []uint32
}

// leaves returns the module-scope instructions in section order.
func (m *Module) leaves() []leaf {
	var out []leaf
	add := func(kind Kind, insts [][]uint32) {
		for _, inst := range insts {
			out = append(out, leaf{kind, inst})
		}
	}

	for _, c := range m.capabilities {
		out = append(out, leaf{KindCapability, spirv.Encode(spirv.OpCapability, uint32(c))})
	}
	for _, e := range m.extensions {
		out = append(out, leaf{KindExtension, spirv.Encode(spirv.OpExtension, spirv.EncodeString(e)...)})
	}
	add(KindExtInstImport, m.extInstImports)
	if m.hasAddressing && m.hasMemory {
		out = append(out, leaf{KindMemoryModel,
			spirv.Encode(spirv.OpMemoryModel, uint32(m.addressing), uint32(m.memory))})
	}
	add(KindEntryPoint, m.entryPoints)
	add(KindExecutionMode, m.executionModes)
	add(KindDebugSource, m.debugSource)
	add(KindModuleProcessed, m.processed)
	for _, d := range m.decorations {
		out = append(out, leaf{KindDecoration, m.ctx.MustDecoration(d.handle).Instruction(d.target)})
	}
	for _, d := range m.declarations {
		inst, _ := m.ctx.InstructionForID(d.id)
		kind := KindType
		if d.constant {
			kind = KindConstant
		}
		out = append(out, leaf{kind, inst})
	}
	add(KindVariable, m.globals)
	add(KindDebugInstruction, m.debug)
	return out
}

// InvokeVisitor walks the module with v and reports whether the traversal
// ran to completion. With reverse set, instructions are visited in the
// exact reverse of the forward order: functions last to first, each
// function's blocks last to first before its parameters, and module-scope
// sections last to first. Composite hooks keep their Init/Done bracketing
// in both directions.
func (m *Module) InvokeVisitor(v Visitor, reverse bool) bool {
	if !v.VisitModule(m, PhaseInit) {
		return false
	}
	if reverse {
		for i := len(m.functions) - 1; i >= 0; i-- {
			if !visitFunction(v, m.functions[i], true) {
				return false
			}
		}
		leaves := m.leaves()
		for i := len(leaves) - 1; i >= 0; i-- {
			if !VisitLeaf(v, leaves[i].kind, leaves[i].words) {
				return false
			}
		}
	} else {
		for _, l := range m.leaves() {
			if !VisitLeaf(v, l.kind, l.words) {
				return false
			}
		}
		for _, f := range m.functions {
			if !visitFunction(v, f, false) {
				return false
			}
		}
	}
	return v.VisitModule(m, PhaseDone)
}

func visitFunction(v Visitor, f *Function, reverse bool) bool {
	if !v.VisitFunction(f, PhaseInit) {
		return false
	}
	if reverse {
		for i := len(f.Blocks) - 1; i >= 0; i-- {
			if !visitBlock(v, f.Blocks[i], true) {
				return false
			}
		}
		for i := len(f.Params) - 1; i >= 0; i-- {
			if !v.VisitParameter(f.Params[i].Instruction()) {
				return false
			}
		}
	} else {
		for _, p := range f.Params {
			if !v.VisitParameter(p.Instruction()) {
				return false
			}
		}
		for _, b := range f.Blocks {
			if !visitBlock(v, b, false) {
				return false
			}
		}
	}
	return v.VisitFunction(f, PhaseDone)
}

func visitBlock(v Visitor, b *BasicBlock, reverse bool) bool {
	if !v.VisitBasicBlock(b, PhaseInit) {
		return false
	}
	n := len(b.Instructions)
	for i := 0; i < n; i++ {
		j := i
		if reverse {
			j = n - 1 - i
		}
		if !v.VisitInstruction(b.Instructions[j]) {
			return false
		}
	}
	return v.VisitBasicBlock(b, PhaseDone)
}
