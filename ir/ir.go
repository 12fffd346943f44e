package ir

// Handle types for referencing interned values. A handle is an index into
// the owning Context's arena and is only meaningful for that Context.
type (
	TypeHandle       uint32
	DecorationHandle uint32
	ConstantHandle   uint32
	DebugTypeHandle  uint32
)

// IDAllocator issues result ids. Ids start at 1; 0 is never issued and
// marks "no id" throughout the package.
type IDAllocator struct {
	next uint32
}

// NewIDAllocator creates an allocator whose first id is 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{next: 1}
}

// PeekNextID returns the id the next TakeNextID call will return.
func (a *IDAllocator) PeekNextID() uint32 {
	return a.next
}

// TakeNextID returns a fresh id and advances the counter.
func (a *IDAllocator) TakeNextID() uint32 {
	id := a.next
	a.next++
	return id
}
