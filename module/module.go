package module

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/spvgen/ir"
	"github.com/gogpu/spvgen/spirv"
)

var (
	// ErrMissingMemoryModel is reported by CheckWellFormed when the
	// addressing or memory model was never set.
	ErrMissingMemoryModel = errors.New("module: missing memory model")

	// ErrUnknownEntryPoint is reported by CheckWellFormed for an entry
	// point naming a function the module does not define.
	ErrUnknownEntryPoint = errors.New("module: entry point names an undefined function")
)

// Header is the five word module header.
type Header struct {
	Magic     uint32
	Version   uint32
	Generator uint32
	Bound     uint32
	Schema    uint32
}

// NewHeader returns a header with a zero bound placeholder.
func NewHeader(version spirv.Version, generator uint32) Header {
	return Header{Magic: spirv.MagicNumber, Version: version.Word(), Generator: generator}
}

// Words encodes the header.
func (h Header) Words() []uint32 {
	return []uint32{h.Magic, h.Version, h.Generator, h.Bound, h.Schema}
}

type decorationRef struct {
	handle ir.DecorationHandle
	target uint32
}

type declaration struct {
	id       uint32
	constant bool
}

// Module is an assembled SPIR-V module. Types, constants and decorations
// are stored as handles into the shared ir.Context and encoded when the
// module is visited.
type Module struct {
	ctx    *ir.Context
	header Header

	capabilities   []spirv.Capability
	extensions     []string
	extInstImports [][]uint32
	addressing     spirv.AddressingModel
	memory         spirv.MemoryModel
	hasAddressing  bool
	hasMemory      bool
	entryPoints    [][]uint32
	executionModes [][]uint32
	debugSource    [][]uint32
	processed      [][]uint32
	decorations    []decorationRef
	declarations   []declaration
	globals        [][]uint32
	debug          [][]uint32
	functions      []*Function

	// lookup sets for the deduplicated sections
	capabilitySet map[spirv.Capability]struct{}
	extensionSet  map[string]struct{}
	decorationSet map[decorationRef]struct{}
	declared      map[uint32]struct{}
	debugTypes    map[ir.DebugTypeHandle]struct{}
}

// New creates an empty module whose types and constants live in ctx.
func New(ctx *ir.Context) *Module {
	m := &Module{ctx: ctx}
	m.reset()
	return m
}

func (m *Module) reset() {
	*m = Module{
		ctx:           m.ctx,
		capabilitySet: make(map[spirv.Capability]struct{}),
		extensionSet:  make(map[string]struct{}),
		decorationSet: make(map[decorationRef]struct{}),
		declared:      make(map[uint32]struct{}),
		debugTypes:    make(map[ir.DebugTypeHandle]struct{}),
	}
}

// Context returns the interning context the module draws from.
func (m *Module) Context() *ir.Context { return m.ctx }

func (m *Module) Header() Header { return m.header }

func (m *Module) SetHeader(h Header) { m.header = h }

// SetBound stamps the header bound.
func (m *Module) SetBound(bound uint32) { m.header.Bound = bound }

// IsEmpty reports whether nothing, not even a header, was added.
func (m *Module) IsEmpty() bool {
	return m.header == Header{} &&
		len(m.capabilities) == 0 && len(m.extensions) == 0 && len(m.extInstImports) == 0 &&
		!m.hasAddressing && !m.hasMemory &&
		len(m.entryPoints) == 0 && len(m.executionModes) == 0 &&
		len(m.debugSource) == 0 && len(m.processed) == 0 &&
		len(m.decorations) == 0 && len(m.declarations) == 0 &&
		len(m.globals) == 0 && len(m.debug) == 0 && len(m.functions) == 0
}

// Clear drops all content, leaving the module as returned by New.
func (m *Module) Clear() { m.reset() }

// AddCapability adds c once; it reports whether c was new.
func (m *Module) AddCapability(c spirv.Capability) bool {
	if _, ok := m.capabilitySet[c]; ok {
		return false
	}
	m.capabilitySet[c] = struct{}{}
	m.capabilities = append(m.capabilities, c)
	return true
}

func (m *Module) HasCapability(c spirv.Capability) bool {
	_, ok := m.capabilitySet[c]
	return ok
}

// Capabilities returns the capabilities in insertion order.
func (m *Module) Capabilities() []spirv.Capability {
	return slices.Clone(m.capabilities)
}

// AddExtension adds the named extension once; it reports whether it was new.
func (m *Module) AddExtension(name string) bool {
	if _, ok := m.extensionSet[name]; ok {
		return false
	}
	m.extensionSet[name] = struct{}{}
	m.extensions = append(m.extensions, name)
	return true
}

// AddExtInstImport records OpExtInstImport of set under result id id.
func (m *Module) AddExtInstImport(id uint32, set string) {
	inst := spirv.NewInstructionBuilder().AddWord(id).AddString(set).Build(spirv.OpExtInstImport)
	m.extInstImports = append(m.extInstImports, inst.Encode())
}

func (m *Module) SetAddressingModel(a spirv.AddressingModel) {
	m.addressing = a
	m.hasAddressing = true
}

func (m *Module) SetMemoryModel(mm spirv.MemoryModel) {
	m.memory = mm
	m.hasMemory = true
}

// AddEntryPoint records an entry point on function fn. iface lists the
// ids of the global variables the entry point uses.
func (m *Module) AddEntryPoint(model spirv.ExecutionModel, fn uint32, name string, iface ...uint32) {
	inst := spirv.NewInstructionBuilder().
		AddWords(uint32(model), fn).
		AddString(name).
		AddWords(iface...).
		Build(spirv.OpEntryPoint)
	m.entryPoints = append(m.entryPoints, inst.Encode())
}

func (m *Module) AddExecutionMode(fn uint32, mode spirv.ExecutionMode, args ...uint32) {
	operands := append([]uint32{fn, uint32(mode)}, args...)
	m.executionModes = append(m.executionModes, spirv.Encode(spirv.OpExecutionMode, operands...))
}

// AddString records OpString s under result id id.
func (m *Module) AddString(id uint32, s string) {
	inst := spirv.NewInstructionBuilder().AddWord(id).AddString(s).Build(spirv.OpString)
	m.debugSource = append(m.debugSource, inst.Encode())
}

// AddSource records OpSource. file is the id of an OpString naming the
// source file, or 0 for none.
func (m *Module) AddSource(lang spirv.SourceLanguage, version, file uint32) {
	operands := []uint32{uint32(lang), version}
	if file != 0 {
		operands = append(operands, file)
	}
	m.debugSource = append(m.debugSource, spirv.Encode(spirv.OpSource, operands...))
}

func (m *Module) AddSourceExtension(ext string) {
	inst := spirv.NewInstructionBuilder().AddString(ext).Build(spirv.OpSourceExtension)
	m.debugSource = append(m.debugSource, inst.Encode())
}

// AddName records OpName for target.
func (m *Module) AddName(target uint32, name string) {
	inst := spirv.NewInstructionBuilder().AddWord(target).AddString(name).Build(spirv.OpName)
	m.debugSource = append(m.debugSource, inst.Encode())
}

// AddMemberName records OpMemberName for one member of a struct type.
func (m *Module) AddMemberName(target, member uint32, name string) {
	inst := spirv.NewInstructionBuilder().AddWords(target, member).AddString(name).Build(spirv.OpMemberName)
	m.debugSource = append(m.debugSource, inst.Encode())
}

func (m *Module) AddModuleProcessed(process string) {
	inst := spirv.NewInstructionBuilder().AddString(process).Build(spirv.OpModuleProcessed)
	m.processed = append(m.processed, inst.Encode())
}

// AddDecoration applies the interned decoration h to target. Each
// (decoration, target) pair is recorded once; it reports whether the pair
// was new.
func (m *Module) AddDecoration(h ir.DecorationHandle, target uint32) bool {
	ref := decorationRef{handle: h, target: target}
	if _, ok := m.decorationSet[ref]; ok {
		return false
	}
	m.ctx.MustDecoration(h)
	m.decorationSet[ref] = struct{}{}
	m.decorations = append(m.decorations, ref)
	return true
}

// AddType resolves h and appends its declaration once. It returns the
// type's result id.
func (m *Module) AddType(h ir.TypeHandle) uint32 {
	id := m.ctx.ResolveTypeID(h)
	m.declare(id, false)
	return id
}

// AddConstant resolves h and appends its declaration once. It returns the
// constant's result id.
func (m *Module) AddConstant(h ir.ConstantHandle) uint32 {
	id := m.ctx.ResolveConstantID(h)
	m.declare(id, true)
	return id
}

func (m *Module) declare(id uint32, constant bool) {
	if _, ok := m.declared[id]; ok {
		return
	}
	m.declared[id] = struct{}{}
	m.declarations = append(m.declarations, declaration{id: id, constant: constant})
}

// Declared reports whether the type or constant with result id id is part
// of the module.
func (m *Module) Declared(id uint32) bool {
	_, ok := m.declared[id]
	return ok
}

// AddVariable appends a module-scope OpVariable.
func (m *Module) AddVariable(inst []uint32) {
	m.globals = append(m.globals, inst)
}

// AddDebugInstruction appends an OpExtInst of a debug info set.
func (m *Module) AddDebugInstruction(inst []uint32) {
	m.debug = append(m.debug, inst)
}

// AddDebugType appends inst, the encoding of debug type h, unless h was
// already added. It reports whether h was new.
func (m *Module) AddDebugType(h ir.DebugTypeHandle, inst []uint32) bool {
	if _, ok := m.debugTypes[h]; ok {
		return false
	}
	m.debugTypes[h] = struct{}{}
	m.debug = append(m.debug, inst)
	return true
}

// HasDebugType reports whether debug type h was added with AddDebugType.
func (m *Module) HasDebugType(h ir.DebugTypeHandle) bool {
	_, ok := m.debugTypes[h]
	return ok
}

// AddFunction moves f into the module. The caller must not modify f
// afterwards.
func (m *Module) AddFunction(f *Function) {
	m.functions = append(m.functions, f)
}

// Functions returns the function definitions in order.
func (m *Module) Functions() []*Function {
	return m.functions
}

// Function returns the function with result id id.
func (m *Module) Function(id uint32) (*Function, bool) {
	for _, f := range m.functions {
		if f.ResultID == id {
			return f, true
		}
	}
	return nil, false
}

// CheckWellFormed reports structural problems the binary format rejects.
// It is not called by any other method.
func (m *Module) CheckWellFormed() error {
	var errs []error
	if !m.hasAddressing || !m.hasMemory {
		errs = append(errs, ErrMissingMemoryModel)
	}
	for _, ep := range m.entryPoints {
		if _, ok := m.Function(ep[2]); !ok {
			errs = append(errs, fmt.Errorf("%w: %%%d", ErrUnknownEntryPoint, ep[2]))
		}
	}
	return errors.Join(errs...)
}

// Take serializes the module with an EmitVisitor and clears it.
func (m *Module) Take() []uint32 {
	e := NewEmitVisitor()
	m.InvokeVisitor(e, false)
	words := e.Words()
	m.reset()
	return words
}
