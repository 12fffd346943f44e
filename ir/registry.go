package ir

import (
	"encoding/binary"
	"fmt"

	"fortio.org/safecast"
	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

// Context interns types, decorations and constants and binds result ids to
// them on first use. Every value is stored once; handles index the arenas.
type Context struct {
	ids *IDAllocator
	log *zap.Logger

	types     []Type
	typeIndex map[uint64][]TypeHandle
	typeIDs   []uint32 // parallel to types, 0 until resolved
	resolved  []TypeHandle

	decorations     []Decoration
	decorationIndex map[uint64][]DecorationHandle

	constants     []Constant
	constantIndex map[uint64][]ConstantHandle
	constantIDs   []uint32

	// id -> encoded declaring instruction, shared by types and constants.
	instructions map[uint32][]uint32

	debug debugTable

	keyBuf []byte // reusable buffer for hashing
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger used for id binding events.
func WithLogger(log *zap.Logger) Option {
	return func(c *Context) {
		if log != nil {
			c.log = log
		}
	}
}

// WithIDAllocator makes the Context draw ids from a caller-owned allocator.
func WithIDAllocator(ids *IDAllocator) Option {
	return func(c *Context) {
		if ids != nil {
			c.ids = ids
		}
	}
}

// NewContext creates an empty interning context.
func NewContext(opts ...Option) *Context {
	c := &Context{
		ids:             NewIDAllocator(),
		log:             zap.NewNop(),
		types:           make([]Type, 0, 16),
		typeIndex:       make(map[uint64][]TypeHandle, 16),
		typeIDs:         make([]uint32, 0, 16),
		decorations:     make([]Decoration, 0, 16),
		decorationIndex: make(map[uint64][]DecorationHandle, 16),
		constantIndex:   make(map[uint64][]ConstantHandle, 16),
		instructions:    make(map[uint32][]uint32, 32),
		keyBuf:          make([]byte, 0, 64),
	}
	c.debug.init()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IDs returns the allocator shared by everything built on this Context.
func (c *Context) IDs() *IDAllocator { return c.ids }

// PeekNextID returns the next id without consuming it.
func (c *Context) PeekNextID() uint32 { return c.ids.PeekNextID() }

// TakeNextID consumes and returns the next id.
func (c *Context) TakeNextID() uint32 { return c.ids.TakeNextID() }

// Logger returns the Context logger.
func (c *Context) Logger() *zap.Logger { return c.log }

// InternDecoration returns the canonical handle for d.
func (c *Context) InternDecoration(d Decoration) DecorationHandle {
	key := c.hashDecoration(d)
	for _, h := range c.decorationIndex[key] {
		if c.decorations[h].Equal(d) {
			return h
		}
	}
	h := DecorationHandle(mintHandle(len(c.decorations)))
	c.decorations = append(c.decorations, d.clone())
	c.decorationIndex[key] = append(c.decorationIndex[key], h)
	return h
}

// InternDecorations interns each decoration and returns the handles in order.
func (c *Context) InternDecorations(ds ...Decoration) []DecorationHandle {
	handles := make([]DecorationHandle, len(ds))
	for i, d := range ds {
		handles[i] = c.InternDecoration(d)
	}
	return handles
}

// InternType returns the canonical handle for t. The candidate is copied;
// the caller keeps ownership of its slices.
func (c *Context) InternType(t Type) TypeHandle {
	canon := t.canonical()
	key := c.hashType(canon)
	for _, h := range c.typeIndex[key] {
		if c.types[h].Equal(canon) {
			return h
		}
	}
	h := TypeHandle(mintHandle(len(c.types)))
	c.types = append(c.types, canon)
	c.typeIDs = append(c.typeIDs, 0)
	c.typeIndex[key] = append(c.typeIndex[key], h)
	return h
}

// InternConstant returns the canonical handle for k.
func (c *Context) InternConstant(k Constant) ConstantHandle {
	canon := k.canonical()
	key := c.hashConstant(canon)
	for _, h := range c.constantIndex[key] {
		if c.constants[h].Equal(canon) {
			return h
		}
	}
	h := ConstantHandle(mintHandle(len(c.constants)))
	c.constants = append(c.constants, canon)
	c.constantIDs = append(c.constantIDs, 0)
	c.constantIndex[key] = append(c.constantIndex[key], h)
	return h
}

// Type returns the canonical type for h. The returned value shares storage
// with the Context and must not be modified.
func (c *Context) Type(h TypeHandle) (Type, bool) {
	if int(h) >= len(c.types) {
		return Type{}, false
	}
	return c.types[h], true
}

// Decoration returns the canonical decoration for h.
func (c *Context) Decoration(h DecorationHandle) (Decoration, bool) {
	if int(h) >= len(c.decorations) {
		return Decoration{}, false
	}
	return c.decorations[h], true
}

// Constant returns the canonical constant for h.
func (c *Context) Constant(h ConstantHandle) (Constant, bool) {
	if int(h) >= len(c.constants) {
		return Constant{}, false
	}
	return c.constants[h], true
}

// MustDecoration is Decoration for handles known to be valid.
func (c *Context) MustDecoration(h DecorationHandle) Decoration {
	d, ok := c.Decoration(h)
	if !ok {
		panic(fmt.Errorf("ir: invalid decoration handle %d", h))
	}
	return d
}

// TypeID returns the id bound to h, if any, without allocating.
func (c *Context) TypeID(h TypeHandle) (uint32, bool) {
	if int(h) >= len(c.typeIDs) || c.typeIDs[h] == 0 {
		return 0, false
	}
	return c.typeIDs[h], true
}

// ConstantID returns the id bound to h, if any, without allocating.
func (c *Context) ConstantID(h ConstantHandle) (uint32, bool) {
	if int(h) >= len(c.constantIDs) || c.constantIDs[h] == 0 {
		return 0, false
	}
	return c.constantIDs[h], true
}

// ResolveTypeID returns the result id of h, taking a fresh id and encoding
// the declaring instruction on the first call. It panics on a handle that
// was not produced by this Context.
func (c *Context) ResolveTypeID(h TypeHandle) uint32 {
	if int(h) >= len(c.types) {
		panic(fmt.Errorf("ir: invalid type handle %d", h))
	}
	if id := c.typeIDs[h]; id != 0 {
		return id
	}
	t := c.types[h]
	id := c.ids.TakeNextID()
	c.typeIDs[h] = id
	c.instructions[id] = t.Instruction(id)
	c.resolved = append(c.resolved, h)
	c.log.Debug("bound type id",
		zap.Stringer("op", t.Op),
		zap.Uint32("handle", uint32(h)),
		zap.Uint32("id", id))
	return id
}

// InstructionForType resolves h and returns its cached declaring
// instruction. The slice is owned by the Context.
func (c *Context) InstructionForType(h TypeHandle) []uint32 {
	return c.instructions[c.ResolveTypeID(h)]
}

// ResolveConstantID is ResolveTypeID for constants.
func (c *Context) ResolveConstantID(h ConstantHandle) uint32 {
	if int(h) >= len(c.constants) {
		panic(fmt.Errorf("ir: invalid constant handle %d", h))
	}
	if id := c.constantIDs[h]; id != 0 {
		return id
	}
	k := c.constants[h]
	id := c.ids.TakeNextID()
	c.constantIDs[h] = id
	c.instructions[id] = k.WithResultID(id)
	c.log.Debug("bound constant id",
		zap.Stringer("op", k.Op),
		zap.Uint32("handle", uint32(h)),
		zap.Uint32("id", id))
	return id
}

// InstructionForConstant resolves h and returns its cached instruction.
func (c *Context) InstructionForConstant(h ConstantHandle) []uint32 {
	return c.instructions[c.ResolveConstantID(h)]
}

// InstructionForID returns the cached declaring instruction of a resolved
// type or constant id.
func (c *Context) InstructionForID(id uint32) ([]uint32, bool) {
	inst, ok := c.instructions[id]
	return inst, ok
}

// ResolvedTypes returns type handles in the order their ids were bound.
func (c *Context) ResolvedTypes() []TypeHandle {
	return c.resolved
}

// TypeCount returns the number of unique types interned.
func (c *Context) TypeCount() int { return len(c.types) }

// DecorationCount returns the number of unique decorations interned.
func (c *Context) DecorationCount() int { return len(c.decorations) }

// ConstantCount returns the number of unique constants interned.
func (c *Context) ConstantCount() int { return len(c.constants) }

func mintHandle(n int) uint32 {
	h, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("ir: handle space exhausted: %w", err))
	}
	return h
}

// Hashing writes a tagged little-endian word stream into keyBuf. Collisions
// are resolved by Equal, so the hash only needs to be stable.

func (c *Context) hashType(t Type) uint64 {
	b := append(c.keyBuf[:0], 'T')
	b = binary.LittleEndian.AppendUint32(b, uint32(t.Op))
	b = appendWords(b, t.Args)
	b = append(b, '|')
	for _, d := range t.Decorations {
		b = binary.LittleEndian.AppendUint32(b, uint32(d))
	}
	c.keyBuf = b
	return xxhash.Sum64(b)
}

func (c *Context) hashDecoration(d Decoration) uint64 {
	b := append(c.keyBuf[:0], 'D')
	b = binary.LittleEndian.AppendUint32(b, uint32(d.Kind))
	b = binary.LittleEndian.AppendUint32(b, uint32(d.Member))
	b = appendWords(b, d.Args)
	c.keyBuf = b
	return xxhash.Sum64(b)
}

func (c *Context) hashConstant(k Constant) uint64 {
	b := append(c.keyBuf[:0], 'C')
	b = binary.LittleEndian.AppendUint32(b, uint32(k.Op))
	b = binary.LittleEndian.AppendUint32(b, k.TypeID)
	b = appendWords(b, k.Args)
	b = append(b, '|')
	for _, d := range k.Decorations {
		b = binary.LittleEndian.AppendUint32(b, uint32(d))
	}
	c.keyBuf = b
	return xxhash.Sum64(b)
}

func appendWords(b []byte, words []uint32) []byte {
	b = binary.LittleEndian.AppendUint32(b, uint32(len(words)))
	for _, w := range words {
		b = binary.LittleEndian.AppendUint32(b, w)
	}
	return b
}
