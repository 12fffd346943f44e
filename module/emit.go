package module

// EmitVisitor serializes a module into a flat word buffer. It writes the
// header when entering the module, OpFunction/OpFunctionEnd around each
// function and OpLabel when entering a block, and records the word offset
// of each function and label it writes.
type EmitVisitor struct {
	words     []uint32
	labels    map[uint32]int
	functions map[uint32]int
}

var _ Visitor = (*EmitVisitor)(nil)

func NewEmitVisitor() *EmitVisitor {
	return &EmitVisitor{
		labels:    make(map[uint32]int),
		functions: make(map[uint32]int),
	}
}

// Words returns the buffer written so far.
func (e *EmitVisitor) Words() []uint32 { return e.words }

// LabelOffset returns the word offset of the OpLabel for label.
func (e *EmitVisitor) LabelOffset(label uint32) (int, bool) {
	off, ok := e.labels[label]
	return off, ok
}

// FunctionOffset returns the word offset of the OpFunction for id.
func (e *EmitVisitor) FunctionOffset(id uint32) (int, bool) {
	off, ok := e.functions[id]
	return off, ok
}

func (e *EmitVisitor) emit(inst []uint32) bool {
	e.words = append(e.words, inst...)
	return true
}

func (e *EmitVisitor) VisitModule(m *Module, phase Phase) bool {
	if phase == PhaseInit {
		return e.emit(m.Header().Words())
	}
	return true
}

func (e *EmitVisitor) VisitFunction(f *Function, phase Phase) bool {
	if phase == PhaseDone {
		return e.emit(f.EndInstruction())
	}
	e.functions[f.ResultID] = len(e.words)
	return e.emit(f.Instruction())
}

func (e *EmitVisitor) VisitBasicBlock(b *BasicBlock, phase Phase) bool {
	if phase == PhaseDone {
		return true
	}
	e.labels[b.Label] = len(e.words)
	return e.emit(b.LabelInstruction())
}

func (e *EmitVisitor) VisitCapability(inst []uint32) bool       { return e.emit(inst) }
func (e *EmitVisitor) VisitExtension(inst []uint32) bool        { return e.emit(inst) }
func (e *EmitVisitor) VisitExtInstImport(inst []uint32) bool    { return e.emit(inst) }
func (e *EmitVisitor) VisitMemoryModel(inst []uint32) bool      { return e.emit(inst) }
func (e *EmitVisitor) VisitEntryPoint(inst []uint32) bool       { return e.emit(inst) }
func (e *EmitVisitor) VisitExecutionMode(inst []uint32) bool    { return e.emit(inst) }
func (e *EmitVisitor) VisitDebugSource(inst []uint32) bool      { return e.emit(inst) }
func (e *EmitVisitor) VisitModuleProcessed(inst []uint32) bool  { return e.emit(inst) }
func (e *EmitVisitor) VisitDecoration(inst []uint32) bool       { return e.emit(inst) }
func (e *EmitVisitor) VisitType(inst []uint32) bool             { return e.emit(inst) }
func (e *EmitVisitor) VisitConstant(inst []uint32) bool         { return e.emit(inst) }
func (e *EmitVisitor) VisitVariable(inst []uint32) bool         { return e.emit(inst) }
func (e *EmitVisitor) VisitDebugInstruction(inst []uint32) bool { return e.emit(inst) }
func (e *EmitVisitor) VisitParameter(inst []uint32) bool        { return e.emit(inst) }
func (e *EmitVisitor) VisitInstruction(inst []uint32) bool      { return e.emit(inst) }
