// Package module holds an assembled SPIR-V module in section order.
//
// A Module is filled incrementally through its Add methods and read back
// through a Visitor:
//
//	ctx := ir.NewContext()
//	m := module.New(ctx)
//	m.AddCapability(spirv.CapabilityShader)
//	m.SetAddressingModel(spirv.AddressingModelLogical)
//	m.SetMemoryModel(spirv.MemoryModelGLSL450)
//	m.AddType(ctx.InternType(ir.Float32()))
//
//	emit := module.NewEmitVisitor()
//	m.InvokeVisitor(emit, false)
//	words := emit.Words()
//
// Sections are visited in the order the binary format requires:
// capabilities, extensions, extended instruction set imports, memory
// model, entry points, execution modes, debug source and names,
// module-processed notes, decorations, types and constants, global
// variables, debug instructions and functions.
//
// Traversal in reverse visits every instruction in the exact reverse of
// the forward order. Module, function and basic block hooks still see
// PhaseInit before and PhaseDone after their contents.
package module
