// Package ir holds the structural value types of a SPIR-V module and the
// Context that interns them.
//
// # Values and handles
//
// Type, Decoration and Constant are plain values built by the caller with
// the constructors in this package:
//
//	ctx := ir.NewContext()
//	f32 := ctx.InternType(ir.Float32())
//	vec4 := ctx.InternType(ir.Vector(ctx.ResolveTypeID(f32), 4))
//
// Interning returns a handle. Structurally equal values always map to the
// same handle for the lifetime of the Context: a type is equal to another
// when the opcode, the ordered argument words and the unordered set of
// attached decorations match. Decorations compare kind, arguments and
// member index exactly.
//
// # Result ids
//
// Interning never allocates a result id. An id is taken from the Context's
// IDAllocator the first time ResolveTypeID (or InstructionForType) is called
// for a handle, so ids follow first use rather than creation order. The
// defining instruction is encoded once, at that point, and cached by id.
//
// # Debug types
//
// Debug types (OpenCL.DebugInfo.100) are bound one per SPIR-V type handle
// and share the same allocator. Member debug types are never deduplicated.
//
// A Context is not safe for concurrent use. Use one Context per module.
package ir
