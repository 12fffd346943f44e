package script

import (
	"fmt"
	"math"
	"strings"

	"fortio.org/safecast"

	"github.com/gogpu/spvgen/builder"
	"github.com/gogpu/spvgen/ir"
	"github.com/gogpu/spvgen/spirv"
)

// Build replays s against b and returns the finished binary. On failure no
// words are returned.
func Build(s *Script, b *builder.Builder) ([]uint32, error) {
	if err := Run(s, b); err != nil {
		return nil, err
	}
	return b.TakeModule()
}

// Run replays s against b from BeginModule through EndModule. The first
// error stops the replay and is returned with the failing declaration.
func Run(s *Script, b *builder.Builder) error {
	r := &runner{
		s:         s,
		b:         b,
		ctx:       b.Context(),
		symbols:   make(map[string]uint32),
		types:     make(map[string]*TypeDecl),
		constants: make(map[string]*ConstantDecl),
		resolving: make(map[string]bool),
	}
	return r.run()
}

type runner struct {
	s   *Script
	b   *builder.Builder
	ctx *ir.Context

	symbols map[string]uint32

	// Types and constants are declared on first reference, so they may
	// appear in any order in the script.
	types     map[string]*TypeDecl
	constants map[string]*ConstantDecl
	resolving map[string]bool
}

func (r *runner) run() error {
	if err := r.b.BeginModule(); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	if err := r.module(); err != nil {
		return fmt.Errorf("script: module: %w", err)
	}

	for i := range r.s.Types {
		t := &r.s.Types[i]
		if err := r.index(t.Name); err != nil {
			return fmt.Errorf("script: type %q: %w", t.Name, err)
		}
		r.types[t.Name] = t
	}
	for i := range r.s.Constants {
		c := &r.s.Constants[i]
		if err := r.index(c.Name); err != nil {
			return fmt.Errorf("script: constant %q: %w", c.Name, err)
		}
		r.constants[c.Name] = c
	}
	for _, t := range r.s.Types {
		if _, err := r.ref(t.Name); err != nil {
			return fmt.Errorf("script: %w", err)
		}
	}
	for _, c := range r.s.Constants {
		if _, err := r.ref(c.Name); err != nil {
			return fmt.Errorf("script: %w", err)
		}
	}

	for _, v := range r.s.Variables {
		if err := r.variable(v); err != nil {
			return fmt.Errorf("script: variable %q: %w", v.Name, err)
		}
	}
	for _, f := range r.s.Functions {
		if err := r.function(f); err != nil {
			return fmt.Errorf("script: function %q: %w", f.Name, err)
		}
	}
	for _, ep := range r.s.EntryPoints {
		if err := r.entryPoint(ep); err != nil {
			return fmt.Errorf("script: entry point %q: %w", ep.Name, err)
		}
	}
	if err := r.b.EndModule(); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

func (r *runner) index(name string) error {
	if name == "" {
		return fmt.Errorf("%w: missing name", ErrBadOperand)
	}
	if _, ok := r.types[name]; ok {
		return ErrDuplicateSymbol
	}
	if _, ok := r.constants[name]; ok {
		return ErrDuplicateSymbol
	}
	return nil
}

func (r *runner) define(name string, id uint32) error {
	if name == "" {
		return nil
	}
	if _, ok := r.symbols[name]; ok {
		return fmt.Errorf("%w: %%%s", ErrDuplicateSymbol, name)
	}
	r.symbols[name] = id
	return nil
}

// ref returns the id bound to name, declaring a pending type or constant
// on first use.
func (r *runner) ref(name string) (uint32, error) {
	name = strings.TrimPrefix(name, "%")
	if id, ok := r.symbols[name]; ok {
		return id, nil
	}
	if r.resolving[name] {
		return 0, fmt.Errorf("%w: %%%s", ErrSymbolCycle, name)
	}
	if t, ok := r.types[name]; ok {
		r.resolving[name] = true
		defer delete(r.resolving, name)
		id, err := r.declareType(t)
		if err != nil {
			return 0, fmt.Errorf("type %q: %w", name, err)
		}
		return id, nil
	}
	if c, ok := r.constants[name]; ok {
		r.resolving[name] = true
		defer delete(r.resolving, name)
		id, err := r.declareConstant(c)
		if err != nil {
			return 0, fmt.Errorf("constant %q: %w", name, err)
		}
		return id, nil
	}
	return 0, fmt.Errorf("%w: %%%s", ErrUndefinedSymbol, name)
}

// optRef is ref for optional references; "" yields 0.
func (r *runner) optRef(name string) (uint32, error) {
	if name == "" {
		return 0, nil
	}
	return r.ref(name)
}

func (r *runner) module() error {
	m := r.s.Module
	for _, name := range m.Capabilities {
		c, err := spirv.ParseCapability(name)
		if err != nil {
			return err
		}
		r.b.Capability(c)
	}
	for _, ext := range m.Extensions {
		r.b.Extension(ext)
	}
	for _, imp := range m.Imports {
		if err := r.define(imp.Name, r.b.ExtInstImport(imp.Set)); err != nil {
			return err
		}
	}
	if m.Addressing != "" || m.Memory != "" {
		addressing, err := spirv.ParseAddressingModel(m.Addressing)
		if err != nil {
			return err
		}
		memory, err := spirv.ParseMemoryModel(m.Memory)
		if err != nil {
			return err
		}
		r.b.SetMemoryModel(addressing, memory)
	}
	if m.Source != "" {
		lang, err := spirv.ParseSourceLanguage(m.Source)
		if err != nil {
			return err
		}
		var file uint32
		if m.SourceFile != "" {
			file = r.b.String(m.SourceFile)
		}
		r.b.Source(lang, m.SourceVersion, file)
	}
	for _, p := range m.Processed {
		r.b.ModuleProcessed(p)
	}
	return nil
}

func opcode(name string) (spirv.OpCode, error) {
	if !strings.HasPrefix(name, "Op") {
		name = "Op" + name
	}
	return spirv.ParseOpCode(name)
}

func (r *runner) decorations(decls []DecorationDecl) ([]ir.Decoration, error) {
	out := make([]ir.Decoration, 0, len(decls))
	for _, d := range decls {
		kind, err := spirv.ParseDecoration(d.Kind)
		if err != nil {
			return nil, err
		}
		args, err := r.operands(d.Args)
		if err != nil {
			return nil, fmt.Errorf("decoration %s: %w", d.Kind, err)
		}
		dec := ir.NewDecoration(kind, args...)
		if d.Member != nil {
			dec = dec.ForMember(*d.Member)
		}
		out = append(out, dec)
	}
	return out, nil
}

func (r *runner) declareType(t *TypeDecl) (uint32, error) {
	op, err := opcode(t.Op)
	if err != nil {
		return 0, err
	}
	args, err := r.operands(t.Operands)
	if err != nil {
		return 0, err
	}
	decs, err := r.decorations(t.Decorations)
	if err != nil {
		return 0, err
	}
	h := r.ctx.InternType(ir.NewType(op, args, r.ctx.InternDecorations(decs...)...))
	id := r.b.DeclareType(h)
	if err := r.define(t.Name, id); err != nil {
		return 0, err
	}
	r.b.Name(id, t.Name)
	for i, member := range t.MemberNames {
		m, err := safecast.Conv[uint32](i)
		if err != nil {
			return 0, err
		}
		r.b.MemberName(id, m, member)
	}
	return id, nil
}

func (r *runner) declareConstant(c *ConstantDecl) (uint32, error) {
	op, err := opcode(c.Op)
	if err != nil {
		return 0, err
	}
	typ, err := r.ref(c.Type)
	if err != nil {
		return 0, err
	}
	args, err := r.operands(c.Operands)
	if err != nil {
		return 0, err
	}
	decs, err := r.decorations(c.Decorations)
	if err != nil {
		return 0, err
	}
	id := r.b.ConstantID(ir.Constant{
		Op:          op,
		TypeID:      typ,
		Args:        args,
		Decorations: r.ctx.InternDecorations(decs...),
	})
	if err := r.define(c.Name, id); err != nil {
		return 0, err
	}
	r.b.Name(id, c.Name)
	return id, nil
}

func (r *runner) variable(v VariableDecl) error {
	typ, err := r.ref(v.Type)
	if err != nil {
		return err
	}
	storage, err := spirv.ParseStorageClass(v.Storage)
	if err != nil {
		return err
	}
	init, err := r.optRef(v.Init)
	if err != nil {
		return err
	}
	decs, err := r.decorations(v.Decorations)
	if err != nil {
		return err
	}
	id := r.b.GlobalVariable(typ, storage, init)
	for _, d := range decs {
		r.b.Decorate(id, d)
	}
	if err := r.define(v.Name, id); err != nil {
		return err
	}
	r.b.Name(id, v.Name)
	return nil
}

func (r *runner) function(f FunctionDecl) error {
	fnType, err := r.ref(f.Type)
	if err != nil {
		return err
	}
	ret, err := r.ref(f.Return)
	if err != nil {
		return err
	}
	id, err := r.b.BeginFunction(fnType, ret)
	if err != nil {
		return err
	}
	if err := r.define(f.Name, id); err != nil {
		return err
	}
	r.b.Name(id, f.Name)
	if f.Control != "" {
		c, err := spirv.ParseFunctionControl(f.Control)
		if err != nil {
			return err
		}
		if err := r.b.SetFunctionControl(c); err != nil {
			return err
		}
	}
	for _, p := range f.Params {
		typ, err := r.ref(p.Type)
		if err != nil {
			return fmt.Errorf("param %q: %w", p.Name, err)
		}
		pid, err := r.b.AddFunctionParameter(typ)
		if err != nil {
			return err
		}
		if err := r.define(p.Name, pid); err != nil {
			return err
		}
		r.b.Name(pid, p.Name)
	}
	for _, l := range f.Locals {
		typ, err := r.ref(l.Type)
		if err != nil {
			return fmt.Errorf("local %q: %w", l.Name, err)
		}
		init, err := r.optRef(l.Init)
		if err != nil {
			return fmt.Errorf("local %q: %w", l.Name, err)
		}
		lid, err := r.b.AddFunctionVariable(typ, init)
		if err != nil {
			return err
		}
		if err := r.define(l.Name, lid); err != nil {
			return err
		}
		r.b.Name(lid, l.Name)
	}

	// Labels are bound up front so branches can target later blocks.
	labels := make([]uint32, len(f.Blocks))
	for i, bd := range f.Blocks {
		label, err := r.b.CreateBasicBlock()
		if err != nil {
			return err
		}
		if err := r.define(bd.Label, label); err != nil {
			return fmt.Errorf("block %q: %w", bd.Label, err)
		}
		labels[i] = label
	}
	for i, bd := range f.Blocks {
		if err := r.b.SetInsertPoint(labels[i]); err != nil {
			return err
		}
		for j, inst := range bd.Instructions {
			if err := r.instruction(inst); err != nil {
				return fmt.Errorf("block %q instruction %d (%s): %w", bd.Label, j, inst.Op, err)
			}
		}
	}
	return r.b.EndFunction()
}

func (r *runner) instruction(inst InstructionDecl) error {
	op, err := opcode(inst.Op)
	if err != nil {
		return err
	}
	if inst.Result == "" && inst.Type == "" {
		operands, err := r.operands(inst.Operands)
		if err != nil {
			return err
		}
		return r.b.Emit(op, operands...)
	}
	typ, err := r.ref(inst.Type)
	if err != nil {
		return err
	}
	operands, err := r.operands(inst.Operands)
	if err != nil {
		return err
	}
	id, err := r.b.EmitResult(op, typ, operands...)
	if err != nil {
		return err
	}
	return r.define(inst.Result, id)
}

func (r *runner) entryPoint(ep EntryPointDecl) error {
	fn, err := r.ref(ep.Function)
	if err != nil {
		return err
	}
	var model spirv.ExecutionModel
	switch {
	case ep.Model != "":
		model, err = spirv.ParseExecutionModel(ep.Model)
	case ep.Profile != "":
		model, err = builder.ExecutionModelForProfile(ep.Profile)
	default:
		err = fmt.Errorf("%w: model or profile required", ErrBadOperand)
	}
	if err != nil {
		return err
	}
	iface := make([]uint32, 0, len(ep.Interface))
	for _, name := range ep.Interface {
		id, err := r.ref(name)
		if err != nil {
			return err
		}
		iface = append(iface, id)
	}
	r.b.AddEntryPoint(model, fn, ep.Name, iface...)
	for _, md := range ep.Modes {
		mode, err := spirv.ParseExecutionMode(md.Mode)
		if err != nil {
			return err
		}
		r.b.AddExecutionMode(fn, mode, md.Args...)
	}
	return nil
}

func (r *runner) operands(values []any) ([]uint32, error) {
	var words []uint32
	for i, v := range values {
		w, err := r.operand(v)
		if err != nil {
			return nil, fmt.Errorf("operand %d: %w", i, err)
		}
		words = append(words, w...)
	}
	return words, nil
}

// operand converts one script value to words.
func (r *runner) operand(v any) ([]uint32, error) {
	switch v := v.(type) {
	case string:
		return r.stringOperand(v)
	case bool:
		if v {
			return []uint32{1}, nil
		}
		return []uint32{0}, nil
	case float32:
		return []uint32{math.Float32bits(v)}, nil
	case float64:
		return []uint32{math.Float32bits(float32(v))}, nil
	case int8:
		return intWord(int64(v))
	case int16:
		return intWord(int64(v))
	case int32:
		return intWord(int64(v))
	case int64:
		return intWord(v)
	case int:
		return intWord(int64(v))
	case uint8:
		return []uint32{uint32(v)}, nil
	case uint16:
		return []uint32{uint32(v)}, nil
	case uint32:
		return []uint32{v}, nil
	case uint64:
		w, err := safecast.Conv[uint32](v)
		if err != nil {
			return nil, fmt.Errorf("%w: %d: %w", ErrBadOperand, v, err)
		}
		return []uint32{w}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported value %v (%T)", ErrBadOperand, v, v)
	}
}

// intWord accepts the int32 and uint32 ranges; negatives are stored in
// two's complement.
func intWord(v int64) ([]uint32, error) {
	if v < 0 {
		s, err := safecast.Conv[int32](v)
		if err != nil {
			return nil, fmt.Errorf("%w: %d: %w", ErrBadOperand, v, err)
		}
		return []uint32{uint32(s)}, nil
	}
	w, err := safecast.Conv[uint32](v)
	if err != nil {
		return nil, fmt.Errorf("%w: %d: %w", ErrBadOperand, v, err)
	}
	return []uint32{w}, nil
}

var enumParsers = map[string]func(string) (uint32, error){
	"Capability":            enumParser(spirv.ParseCapability),
	"StorageClass":          enumParser(spirv.ParseStorageClass),
	"Decoration":            enumParser(spirv.ParseDecoration),
	"BuiltIn":               enumParser(spirv.ParseBuiltIn),
	"ExecutionMode":         enumParser(spirv.ParseExecutionMode),
	"ExecutionModel":        enumParser(spirv.ParseExecutionModel),
	"Dim":                   enumParser(spirv.ParseDim),
	"FunctionControl":       enumParser(spirv.ParseFunctionControl),
	"AccessQualifier":       enumParser(spirv.ParseAccessQualifier),
	"SamplerAddressingMode": enumParser(spirv.ParseSamplerAddressingMode),
	"SamplerFilterMode":     enumParser(spirv.ParseSamplerFilterMode),
}

func enumParser[T ~uint32](parse func(string) (T, error)) func(string) (uint32, error) {
	return func(s string) (uint32, error) {
		v, err := parse(s)
		return uint32(v), err
	}
}

func (r *runner) stringOperand(s string) ([]uint32, error) {
	if strings.HasPrefix(s, "%") {
		id, err := r.ref(s)
		if err != nil {
			return nil, err
		}
		return []uint32{id}, nil
	}
	if kind, value, ok := strings.Cut(s, "."); ok {
		if parse, ok := enumParsers[kind]; ok {
			w, err := parse(value)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrBadOperand, err)
			}
			return []uint32{w}, nil
		}
	}
	return spirv.EncodeString(s), nil
}
