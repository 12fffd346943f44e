// Package builder assembles SPIR-V modules through a call-order-sensitive
// API on top of an ir.Context and a module.Module.
//
// A typical session:
//
//	ctx := ir.NewContext()
//	b := builder.New(ctx)
//	_ = b.BeginModule()
//	void := b.TypeID(ir.Void())
//	fn, _ := b.BeginFunction(b.TypeID(ir.Function(void, nil)), void)
//	entry, _ := b.CreateBasicBlock()
//	_ = b.SetInsertPoint(entry)
//	_ = b.ReturnBlock(entry)
//	_ = b.EndFunction()
//	_ = b.EndModule()
//	words, _ := b.TakeModule()
//
// Misordered calls return one of the sequencing errors in this package
// wrapped with the name of the failing call; the builder state is left
// unchanged.
package builder

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gogpu/spvgen/ir"
	"github.com/gogpu/spvgen/module"
	"github.com/gogpu/spvgen/spirv"
)

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger for lifecycle events.
func WithLogger(log *zap.Logger) Option {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// WithVersion sets the SPIR-V version written to the header.
func WithVersion(v spirv.Version) Option {
	return func(b *Builder) { b.version = v }
}

// WithGenerator sets the generator word written to the header.
func WithGenerator(word uint32) Option {
	return func(b *Builder) { b.generator = word }
}

// WithDebugNames controls whether Name and MemberName record anything.
// Names are recorded by default.
func WithDebugNames(enabled bool) Option {
	return func(b *Builder) { b.debugNames = enabled }
}

// Builder drives one module at a time. It is not safe for concurrent use;
// parallel builds use one Context and one Builder each.
type Builder struct {
	ctx *ir.Context
	mod *module.Module
	log *zap.Logger

	version    spirv.Version
	generator  uint32
	debugNames bool

	begun bool
	ended bool

	fn        *module.Function
	blocks    []*module.BasicBlock
	labels    map[uint32]*module.BasicBlock
	locals    [][]uint32
	insert    *module.BasicBlock
	extImport map[string]uint32
}

// New creates a builder over ctx. ctx must outlive the builder.
func New(ctx *ir.Context, opts ...Option) *Builder {
	b := &Builder{
		ctx:        ctx,
		mod:        module.New(ctx),
		log:        zap.NewNop(),
		version:    spirv.Version1_0,
		generator:  spirv.GeneratorID,
		debugNames: true,
		extImport:  make(map[string]uint32),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Context returns the interning context the builder allocates ids from.
func (b *Builder) Context() *ir.Context { return b.ctx }

// Module returns the module under construction.
func (b *Builder) Module() *module.Module { return b.mod }

// BeginModule writes the header placeholder. It fails if a module is
// already in progress.
func (b *Builder) BeginModule() error {
	if b.begun || !b.mod.IsEmpty() {
		return fmt.Errorf("begin module: %w", ErrModuleNotEmpty)
	}
	b.mod.SetHeader(module.NewHeader(b.version, b.generator))
	b.begun = true
	b.log.Debug("begin module",
		zap.Stringer("version", b.version),
		zap.Uint32("generator", b.generator))
	return nil
}

// EndModule stamps the header bound with the next unissued id. Functions
// can no longer be opened; TakeModule stamps the bound again for ids
// issued by declarations made after EndModule.
func (b *Builder) EndModule() error {
	if !b.begun {
		return fmt.Errorf("end module: %w", ErrModuleNotBegun)
	}
	if b.fn != nil {
		return fmt.Errorf("end module: %w", ErrFunctionActive)
	}
	bound := b.ctx.PeekNextID()
	b.mod.SetBound(bound)
	b.ended = true
	b.log.Debug("end module",
		zap.Uint32("bound", bound),
		zap.Int("functions", len(b.mod.Functions())))
	return nil
}

// TakeModule moves the finished binary out and leaves the builder ready
// for another BeginModule.
func (b *Builder) TakeModule() ([]uint32, error) {
	if !b.begun {
		return nil, fmt.Errorf("take module: %w", ErrModuleNotBegun)
	}
	if !b.ended {
		return nil, fmt.Errorf("take module: %w", ErrModuleNotEnded)
	}
	b.mod.SetBound(b.ctx.PeekNextID())
	words := b.mod.Take()
	b.begun, b.ended = false, false
	clear(b.extImport)
	b.ctx.ResetDebugTypes()
	return words, nil
}

// BeginFunction opens a function of type funcType returning returnType and
// returns its result id. Only one function may be open at a time.
func (b *Builder) BeginFunction(funcType, returnType uint32) (uint32, error) {
	if !b.begun {
		return 0, fmt.Errorf("begin function: %w", ErrModuleNotBegun)
	}
	if b.ended {
		return 0, fmt.Errorf("begin function: %w", ErrModuleEnded)
	}
	if b.fn != nil {
		return 0, fmt.Errorf("begin function: %w (open function %%%d)", ErrFunctionActive, b.fn.ResultID)
	}
	id := b.ctx.TakeNextID()
	b.fn = &module.Function{ResultType: returnType, ResultID: id, FuncType: funcType}
	b.labels = make(map[uint32]*module.BasicBlock)
	b.log.Debug("begin function", zap.Uint32("id", id), zap.Uint32("type", funcType))
	return id, nil
}

// SetFunctionControl sets the control mask of the open function.
func (b *Builder) SetFunctionControl(c spirv.FunctionControl) error {
	if b.fn == nil {
		return fmt.Errorf("set function control: %w", ErrNoFunction)
	}
	b.fn.Control = c
	return nil
}

// AddFunctionParameter appends a parameter of type typ and returns its id.
func (b *Builder) AddFunctionParameter(typ uint32) (uint32, error) {
	if b.fn == nil {
		return 0, fmt.Errorf("add function parameter: %w", ErrNoFunction)
	}
	id := b.ctx.TakeNextID()
	b.fn.Params = append(b.fn.Params, module.Parameter{Type: typ, ID: id})
	return id, nil
}

// AddFunctionVariable declares a Function storage class variable of
// pointer type ptrType. init is an optional initializer id. Variables are
// placed at the top of the entry block when the function ends.
func (b *Builder) AddFunctionVariable(ptrType, init uint32) (uint32, error) {
	if b.fn == nil {
		return 0, fmt.Errorf("add function variable: %w", ErrNoFunction)
	}
	id := b.ctx.TakeNextID()
	operands := []uint32{ptrType, id, uint32(spirv.StorageClassFunction)}
	if init != 0 {
		operands = append(operands, init)
	}
	b.locals = append(b.locals, spirv.Encode(spirv.OpVariable, operands...))
	return id, nil
}

// EndFunction closes the open function and moves it into the module with
// its blocks in creation order.
func (b *Builder) EndFunction() error {
	if b.fn == nil {
		return fmt.Errorf("end function: %w", ErrNoFunction)
	}
	if len(b.locals) > 0 {
		if len(b.blocks) == 0 {
			return fmt.Errorf("end function %%%d: variables without an entry block: %w", b.fn.ResultID, ErrNoInsertPoint)
		}
		entry := b.blocks[0]
		entry.Instructions = append(b.locals, entry.Instructions...)
	}
	for _, bb := range b.blocks {
		if !bb.IsTerminated() {
			b.log.Warn("basic block has no terminator",
				zap.Uint32("function", b.fn.ResultID),
				zap.Uint32("label", bb.Label))
		}
	}
	b.fn.Blocks = b.blocks
	b.mod.AddFunction(b.fn)
	b.log.Debug("end function",
		zap.Uint32("id", b.fn.ResultID),
		zap.Int("blocks", len(b.blocks)))

	b.fn, b.blocks, b.labels, b.locals, b.insert = nil, nil, nil, nil, nil
	return nil
}

// CreateBasicBlock adds an empty block to the open function and returns
// its label id. The insertion point is not changed.
func (b *Builder) CreateBasicBlock() (uint32, error) {
	if b.fn == nil {
		return 0, fmt.Errorf("create basic block: %w", ErrNoFunction)
	}
	label := b.ctx.TakeNextID()
	bb := module.NewBasicBlock(label)
	b.blocks = append(b.blocks, bb)
	b.labels[label] = bb
	return label, nil
}

func (b *Builder) block(call string, label uint32) (*module.BasicBlock, error) {
	if b.fn == nil {
		return nil, fmt.Errorf("%s: %w", call, ErrNoFunction)
	}
	bb, ok := b.labels[label]
	if !ok {
		return nil, fmt.Errorf("%s %%%d: %w", call, label, ErrUnknownLabel)
	}
	return bb, nil
}

// SetInsertPoint directs following instructions to the block label.
func (b *Builder) SetInsertPoint(label uint32) error {
	bb, err := b.block("set insert point", label)
	if err != nil {
		return err
	}
	b.insert = bb
	return nil
}

// InsertPoint returns the label of the current insertion block, or 0.
func (b *Builder) InsertPoint() uint32 {
	if b.insert == nil {
		return 0
	}
	return b.insert.Label
}

// ReturnBlock terminates the block label with OpReturn. It fails if the
// block already ends in a terminator.
func (b *Builder) ReturnBlock(label uint32) error {
	bb, err := b.block("return block", label)
	if err != nil {
		return err
	}
	if bb.IsTerminated() {
		return fmt.Errorf("return block %%%d: %w", label, ErrBlockTerminated)
	}
	bb.Add(spirv.Encode(spirv.OpReturn))
	return nil
}

func (b *Builder) insertion(call string) (*module.BasicBlock, error) {
	if b.fn == nil {
		return nil, fmt.Errorf("%s: %w", call, ErrNoFunction)
	}
	if b.insert == nil {
		return nil, fmt.Errorf("%s: %w", call, ErrNoInsertPoint)
	}
	return b.insert, nil
}

// AddInstruction appends already encoded words to the insertion block.
func (b *Builder) AddInstruction(inst []uint32) error {
	bb, err := b.insertion("add instruction")
	if err != nil {
		return err
	}
	bb.Add(inst)
	return nil
}

// Emit encodes op with operands into the insertion block.
func (b *Builder) Emit(op spirv.OpCode, operands ...uint32) error {
	bb, err := b.insertion("emit " + op.String())
	if err != nil {
		return err
	}
	bb.Add(spirv.Encode(op, operands...))
	return nil
}

// EmitResult encodes an instruction with a result type and a fresh result
// id, [op, resultType, id, operands...], and returns the id.
func (b *Builder) EmitResult(op spirv.OpCode, resultType uint32, operands ...uint32) (uint32, error) {
	bb, err := b.insertion("emit " + op.String())
	if err != nil {
		return 0, err
	}
	id := b.ctx.TakeNextID()
	words := make([]uint32, 0, len(operands)+2)
	words = append(words, resultType, id)
	bb.Add(spirv.Encode(op, append(words, operands...)...))
	return id, nil
}

func (b *Builder) Branch(target uint32) error {
	return b.Emit(spirv.OpBranch, target)
}

func (b *Builder) BranchConditional(cond, trueLabel, falseLabel uint32) error {
	return b.Emit(spirv.OpBranchConditional, cond, trueLabel, falseLabel)
}

// Return terminates the insertion block with OpReturn.
func (b *Builder) Return() error {
	return b.Emit(spirv.OpReturn)
}

func (b *Builder) ReturnValue(value uint32) error {
	return b.Emit(spirv.OpReturnValue, value)
}

func (b *Builder) Unreachable() error {
	return b.Emit(spirv.OpUnreachable)
}

func (b *Builder) Kill() error {
	return b.Emit(spirv.OpKill)
}

func (b *Builder) SelectionMerge(merge uint32, control spirv.SelectionControl) error {
	return b.Emit(spirv.OpSelectionMerge, merge, uint32(control))
}

func (b *Builder) LoopMerge(merge, continueTarget uint32, control spirv.LoopControl) error {
	return b.Emit(spirv.OpLoopMerge, merge, continueTarget, uint32(control))
}

// TypeID interns t, adds its declaration to the module and returns its id.
// Decorations attached to t are applied to the id.
func (b *Builder) TypeID(t ir.Type) uint32 {
	return b.DeclareType(b.ctx.InternType(t))
}

// DeclareType is TypeID for an already interned handle.
func (b *Builder) DeclareType(h ir.TypeHandle) uint32 {
	id := b.mod.AddType(h)
	t, _ := b.ctx.Type(h)
	for _, d := range t.Decorations {
		b.mod.AddDecoration(d, id)
	}
	return id
}

// ConstantID interns c, adds its declaration to the module and returns
// its id. Decorations attached to c are applied to the id.
func (b *Builder) ConstantID(c ir.Constant) uint32 {
	h := b.ctx.InternConstant(c)
	id := b.mod.AddConstant(h)
	k, _ := b.ctx.Constant(h)
	for _, d := range k.Decorations {
		b.mod.AddDecoration(d, id)
	}
	return id
}

// Decorate applies d to target, or to one of its members when d is
// member-scoped.
func (b *Builder) Decorate(target uint32, d ir.Decoration) {
	b.mod.AddDecoration(b.ctx.InternDecoration(d), target)
}

// GlobalVariable declares a module-scope variable of pointer type ptrType
// and returns its id. init is an optional initializer id.
func (b *Builder) GlobalVariable(ptrType uint32, storage spirv.StorageClass, init uint32) uint32 {
	id := b.ctx.TakeNextID()
	operands := []uint32{ptrType, id, uint32(storage)}
	if init != 0 {
		operands = append(operands, init)
	}
	b.mod.AddVariable(spirv.Encode(spirv.OpVariable, operands...))
	return id
}

func (b *Builder) Capability(c spirv.Capability) { b.mod.AddCapability(c) }

func (b *Builder) Extension(name string) { b.mod.AddExtension(name) }

// ExtInstImport returns the id of the named extended instruction set,
// importing it on first use.
func (b *Builder) ExtInstImport(name string) uint32 {
	if id, ok := b.extImport[name]; ok {
		return id
	}
	id := b.ctx.TakeNextID()
	b.extImport[name] = id
	b.mod.AddExtInstImport(id, name)
	return id
}

func (b *Builder) SetMemoryModel(addressing spirv.AddressingModel, memory spirv.MemoryModel) {
	b.mod.SetAddressingModel(addressing)
	b.mod.SetMemoryModel(memory)
}

// AddEntryPoint declares fn as an entry point. Fragment entry points get
// OriginUpperLeft.
func (b *Builder) AddEntryPoint(model spirv.ExecutionModel, fn uint32, name string, iface ...uint32) {
	b.mod.AddEntryPoint(model, fn, name, iface...)
	if model == spirv.ExecutionModelFragment {
		b.mod.AddExecutionMode(fn, spirv.ExecutionModeOriginUpperLeft)
	}
}

func (b *Builder) AddExecutionMode(fn uint32, mode spirv.ExecutionMode, args ...uint32) {
	b.mod.AddExecutionMode(fn, mode, args...)
}

// ExecutionModelForProfile maps a shader profile such as "ps_6_0" to its
// execution model.
func ExecutionModelForProfile(profile string) (spirv.ExecutionModel, error) {
	stage, _, ok := strings.Cut(profile, "s_")
	if ok && len(stage) == 1 {
		if model, ok := spirv.ExecutionModelFromProfile(stage[0]); ok {
			return model, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidProfile, profile)
}

// Name records OpName for target unless debug names are disabled.
func (b *Builder) Name(target uint32, name string) {
	if b.debugNames && name != "" {
		b.mod.AddName(target, name)
	}
}

func (b *Builder) MemberName(target, member uint32, name string) {
	if b.debugNames && name != "" {
		b.mod.AddMemberName(target, member, name)
	}
}

// String records OpString s and returns its id.
func (b *Builder) String(s string) uint32 {
	id := b.ctx.TakeNextID()
	b.mod.AddString(id, s)
	return id
}

func (b *Builder) Source(lang spirv.SourceLanguage, version, file uint32) {
	b.mod.AddSource(lang, version, file)
}

func (b *Builder) ModuleProcessed(process string) {
	b.mod.AddModuleProcessed(process)
}

// EmitDebugTypes encodes the debug types bound to types declared in this
// module, and the debug types they reference, into the debug instruction
// section. Types already emitted are skipped. The debug info set is
// imported on first use.
func (b *Builder) EmitDebugTypes() {
	var roots []ir.DebugTypeHandle
	for _, bind := range b.ctx.DebugBindings() {
		if id, ok := b.ctx.TypeID(bind.Type); ok && b.mod.Declared(id) {
			roots = append(roots, bind.Debug)
		}
	}
	var pending []ir.DebugTypeHandle
	for _, h := range b.ctx.DebugTypeOrder(roots...) {
		if !b.mod.HasDebugType(h) {
			pending = append(pending, h)
		}
	}
	if len(pending) == 0 {
		return
	}
	void := b.TypeID(ir.Void())
	set := b.ExtInstImport(ir.DebugInfoSet)
	for _, h := range pending {
		b.mod.AddDebugType(h, b.ctx.DebugInstruction(h, void, set))
	}
	b.log.Debug("emit debug types", zap.Int("count", len(pending)))
}
