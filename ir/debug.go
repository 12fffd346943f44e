package ir

import (
	"cmp"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/gogpu/spvgen/spirv"
)

// DebugInfoSet is the extended instruction set name of the debug types.
const DebugInfoSet = "OpenCL.DebugInfo.100"

// OpenCL.DebugInfo.100 instruction numbers used by the debug-type bridge.
const (
	DebugTypeBasicInst             uint32 = 2
	DebugTypePointerInst           uint32 = 3
	DebugTypeQualifierInst         uint32 = 4
	DebugTypeArrayInst             uint32 = 5
	DebugTypeVectorInst            uint32 = 6
	DebugTypedefInst               uint32 = 7
	DebugTypeFunctionInst          uint32 = 8
	DebugTypeEnumInst              uint32 = 9
	DebugTypeCompositeInst         uint32 = 10
	DebugTypeMemberInst            uint32 = 11
	DebugTypeTemplateInst          uint32 = 14
	DebugTypeTemplateParameterInst uint32 = 15
)

// NoDebugType marks a literal DebugOperand.
const NoDebugType = ^DebugTypeHandle(0)

// DebugOperand is either a literal word or a reference to another debug
// type, resolved to its id at emission time.
type DebugOperand struct {
	Ref  DebugTypeHandle
	Word uint32
}

// Lit returns a literal operand. Ids of OpString, constants or the
// compilation unit are passed as literals too.
func Lit(w uint32) DebugOperand { return DebugOperand{Ref: NoDebugType, Word: w} }

// Ref returns an operand referring to a debug type.
func Ref(h DebugTypeHandle) DebugOperand { return DebugOperand{Ref: h} }

// IsRef reports whether the operand refers to a debug type.
func (o DebugOperand) IsRef() bool { return o.Ref != NoDebugType }

// DebugType is one OpExtInst of the debug info set.
type DebugType struct {
	Inst     uint32
	Operands []DebugOperand
}

func lits(words ...uint32) []DebugOperand {
	ops := make([]DebugOperand, len(words))
	for i, w := range words {
		ops[i] = Lit(w)
	}
	return ops
}

// DebugBasic describes a scalar. name is an OpString id, size a constant id.
func DebugBasic(name, size, encoding uint32) DebugType {
	return DebugType{Inst: DebugTypeBasicInst, Operands: lits(name, size, encoding)}
}

func DebugVector(base DebugTypeHandle, count uint32) DebugType {
	return DebugType{Inst: DebugTypeVectorInst, Operands: []DebugOperand{Ref(base), Lit(count)}}
}

// DebugArray describes an array; counts are constant ids, outermost first.
func DebugArray(base DebugTypeHandle, counts ...uint32) DebugType {
	return DebugType{Inst: DebugTypeArrayInst, Operands: append([]DebugOperand{Ref(base)}, lits(counts...)...)}
}

// DebugFunction describes a function type. ret is Ref(h) for a debug type
// or Lit(id) of the void type.
func DebugFunction(flags uint32, ret DebugOperand, params ...DebugTypeHandle) DebugType {
	ops := []DebugOperand{Lit(flags), ret}
	for _, p := range params {
		ops = append(ops, Ref(p))
	}
	return DebugType{Inst: DebugTypeFunctionInst, Operands: ops}
}

// CompositeDesc holds the fixed operands of DebugTypeComposite. All fields
// except Tag, Line, Column and Flags are ids.
type CompositeDesc struct {
	Name, Tag, Source, Line, Column, Parent, LinkageName, Size, Flags uint32
}

// DebugComposite describes a struct or class. Members are appended with
// Context.AddDebugMember.
func DebugComposite(d CompositeDesc) DebugType {
	return DebugType{
		Inst:     DebugTypeCompositeInst,
		Operands: lits(d.Name, d.Tag, d.Source, d.Line, d.Column, d.Parent, d.LinkageName, d.Size, d.Flags),
	}
}

// MemberDesc holds the operands of DebugTypeMember besides type and parent.
type MemberDesc struct {
	Name, Source, Line, Column, Offset, Size, Flags uint32
}

// DebugTemplate wraps target with template parameter ids.
func DebugTemplate(target DebugTypeHandle, params ...uint32) DebugType {
	return DebugType{Inst: DebugTypeTemplateInst, Operands: append([]DebugOperand{Ref(target)}, lits(params...)...)}
}

type debugTable struct {
	types     []DebugType
	ids       []uint32
	byType    map[TypeHandle]DebugTypeHandle
	templates map[TypeHandle]DebugTypeHandle
}

func (t *debugTable) init() {
	t.byType = make(map[TypeHandle]DebugTypeHandle)
	t.templates = make(map[TypeHandle]DebugTypeHandle)
}

func (t *debugTable) add(dt DebugType) DebugTypeHandle {
	h := DebugTypeHandle(mintHandle(len(t.types)))
	dt.Operands = append([]DebugOperand(nil), dt.Operands...)
	t.types = append(t.types, dt)
	t.ids = append(t.ids, 0)
	return h
}

// DebugTypeFor returns the debug type bound to a SPIR-V type, if any.
func (c *Context) DebugTypeFor(t TypeHandle) (DebugTypeHandle, bool) {
	h, ok := c.debug.byType[t]
	return h, ok
}

// GetDebugType returns the debug type bound to t, creating it from dt on
// first use. Later calls with the same t return the existing handle and
// ignore dt.
func (c *Context) GetDebugType(t TypeHandle, dt DebugType) DebugTypeHandle {
	if h, ok := c.debug.byType[t]; ok {
		return h
	}
	h := c.debug.add(dt)
	c.debug.byType[t] = h
	return h
}

// GetDebugTemplate is GetDebugType for template instantiations, which are
// tracked apart from the composite they wrap.
func (c *Context) GetDebugTemplate(t TypeHandle, dt DebugType) DebugTypeHandle {
	if h, ok := c.debug.templates[t]; ok {
		return h
	}
	h := c.debug.add(dt)
	c.debug.templates[t] = h
	return h
}

// AddDebugMember creates a member of composite and appends it to the
// composite's operand list. Members are never shared.
func (c *Context) AddDebugMember(composite DebugTypeHandle, memberType DebugTypeHandle, d MemberDesc) DebugTypeHandle {
	c.mustDebug(composite)
	h := c.debug.add(DebugType{
		Inst: DebugTypeMemberInst,
		Operands: []DebugOperand{
			Lit(d.Name), Ref(memberType), Lit(d.Source), Lit(d.Line), Lit(d.Column),
			Ref(composite), Lit(d.Offset), Lit(d.Size), Lit(d.Flags),
		},
	})
	comp := &c.debug.types[composite]
	comp.Operands = append(comp.Operands, Ref(h))
	return h
}

// DebugType returns the debug type for h.
func (c *Context) DebugType(h DebugTypeHandle) (DebugType, bool) {
	if int(h) >= len(c.debug.types) {
		return DebugType{}, false
	}
	return c.debug.types[h], true
}

// DebugTypeCount returns the number of debug types created.
func (c *Context) DebugTypeCount() int { return len(c.debug.types) }

func (c *Context) mustDebug(h DebugTypeHandle) {
	if int(h) >= len(c.debug.types) {
		panic(fmt.Errorf("ir: invalid debug type handle %d", h))
	}
}

// ResolveDebugTypeID binds an id to h on first use.
func (c *Context) ResolveDebugTypeID(h DebugTypeHandle) uint32 {
	c.mustDebug(h)
	if id := c.debug.ids[h]; id != 0 {
		return id
	}
	id := c.ids.TakeNextID()
	c.debug.ids[h] = id
	return id
}

// DebugBinding pairs a SPIR-V type with the debug type bound to it.
type DebugBinding struct {
	Type  TypeHandle
	Debug DebugTypeHandle
}

// DebugBindings returns every debug type created by GetDebugType or
// GetDebugTemplate, ordered by debug handle.
func (c *Context) DebugBindings() []DebugBinding {
	out := make([]DebugBinding, 0, len(c.debug.byType)+len(c.debug.templates))
	for t, h := range c.debug.byType {
		out = append(out, DebugBinding{Type: t, Debug: h})
	}
	for t, h := range c.debug.templates {
		out = append(out, DebugBinding{Type: t, Debug: h})
	}
	slices.SortFunc(out, func(a, b DebugBinding) int { return cmp.Compare(a.Debug, b.Debug) })
	return out
}

// DebugTypeOrder returns roots and every debug type they reference, each
// after the types it references. The member/composite cycle is broken by
// placing members first.
func (c *Context) DebugTypeOrder(roots ...DebugTypeHandle) []DebugTypeHandle {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]uint8, len(c.debug.types))
	var order []DebugTypeHandle

	var visit func(h DebugTypeHandle)
	visit = func(h DebugTypeHandle) {
		state[h] = visiting
		for _, op := range c.debug.types[h].Operands {
			if op.IsRef() && state[op.Ref] == unvisited {
				visit(op.Ref)
			}
		}
		state[h] = done
		order = append(order, h)
	}
	for _, h := range roots {
		c.mustDebug(h)
		if state[h] == unvisited {
			visit(h)
		}
	}
	return order
}

// DebugInstruction encodes h as an OpExtInst of extSet with the given void
// result type, binding ids to h and its references on first use.
func (c *Context) DebugInstruction(h DebugTypeHandle, voidType, extSet uint32) []uint32 {
	c.mustDebug(h)
	dt := c.debug.types[h]
	operands := make([]uint32, 0, 4+len(dt.Operands))
	operands = append(operands, voidType, c.ResolveDebugTypeID(h), extSet, dt.Inst)
	for _, op := range dt.Operands {
		if op.IsRef() {
			operands = append(operands, c.ResolveDebugTypeID(op.Ref))
		} else {
			operands = append(operands, op.Word)
		}
	}
	return spirv.Encode(spirv.OpExtInst, operands...)
}

// ResetDebugTypes drops every debug type. Their literal operands are ids of
// the module they were created for, so they do not carry over to the next
// module built on this Context.
func (c *Context) ResetDebugTypes() {
	n := len(c.debug.types)
	c.debug = debugTable{}
	c.debug.init()
	c.log.Debug("reset debug types", zap.Int("count", n))
}
