package builder

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gogpu/spvgen/ir"
	"github.com/gogpu/spvgen/spirv"
)

func newBuilder(t *testing.T, opts ...Option) *Builder {
	t.Helper()
	ctx := ir.NewContext(ir.WithLogger(zaptest.NewLogger(t)))
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	return New(ctx, opts...)
}

func opcodes(t *testing.T, words []uint32) []spirv.OpCode {
	t.Helper()
	insts, err := spirv.ReadInstructions(words)
	require.NoError(t, err)
	ops := make([]spirv.OpCode, len(insts))
	for i, inst := range insts {
		ops[i] = inst.Opcode
	}
	return ops
}

func TestHeaderOnly(t *testing.T) {
	b := newBuilder(t)
	require.NoError(t, b.BeginModule())
	require.NoError(t, b.EndModule())

	words, err := b.TakeModule()
	require.NoError(t, err)
	require.Equal(t, []uint32{spirv.MagicNumber, 0x00010000, 14 << 16, 1, 0}, words)
}

func TestHeaderOptions(t *testing.T) {
	b := newBuilder(t, WithVersion(spirv.Version1_3), WithGenerator(spirv.GeneratorWord(14, 2)))
	require.NoError(t, b.BeginModule())
	require.NoError(t, b.EndModule())

	words, err := b.TakeModule()
	require.NoError(t, err)
	require.Equal(t, spirv.Version1_3.Word(), words[1])
	require.Equal(t, uint32(14<<16|2), words[2])
}

func TestModuleSequencing(t *testing.T) {
	b := newBuilder(t)

	require.ErrorIs(t, b.EndModule(), ErrModuleNotBegun)
	_, err := b.TakeModule()
	require.ErrorIs(t, err, ErrModuleNotBegun)
	_, err = b.BeginFunction(1, 2)
	require.ErrorIs(t, err, ErrModuleNotBegun)

	require.NoError(t, b.BeginModule())
	require.ErrorIs(t, b.BeginModule(), ErrModuleNotEmpty)
	_, err = b.TakeModule()
	require.ErrorIs(t, err, ErrModuleNotEnded)

	require.NoError(t, b.EndModule())
	_, err = b.TakeModule()
	require.NoError(t, err)

	// The builder is reusable after TakeModule.
	require.NoError(t, b.BeginModule())
}

func TestSingleFunction(t *testing.T) {
	b := newBuilder(t)
	require.NoError(t, b.BeginModule())

	void := b.TypeID(ir.Void())
	fnType := b.TypeID(ir.Function(void, nil))
	fn, err := b.BeginFunction(fnType, void)
	require.NoError(t, err)
	require.NotZero(t, fn)

	_, err = b.BeginFunction(fnType, void)
	require.ErrorIs(t, err, ErrFunctionActive)
	require.ErrorIs(t, b.EndModule(), ErrFunctionActive)

	require.NoError(t, b.EndFunction())
	require.ErrorIs(t, b.EndFunction(), ErrNoFunction)
	require.NoError(t, b.EndModule())
}

func TestBlockSequencing(t *testing.T) {
	b := newBuilder(t)
	require.NoError(t, b.BeginModule())

	_, err := b.CreateBasicBlock()
	require.ErrorIs(t, err, ErrNoFunction)
	require.ErrorIs(t, b.SetInsertPoint(1), ErrNoFunction)
	require.ErrorIs(t, b.ReturnBlock(1), ErrNoFunction)
	require.ErrorIs(t, b.Return(), ErrNoFunction)
	_, err = b.AddFunctionParameter(1)
	require.ErrorIs(t, err, ErrNoFunction)

	_, err = b.BeginFunction(1, 2)
	require.NoError(t, err)
	require.ErrorIs(t, b.Return(), ErrNoInsertPoint)
	_, err = b.EmitResult(spirv.OpIAdd, 1, 2, 3)
	require.ErrorIs(t, err, ErrNoInsertPoint)

	label, err := b.CreateBasicBlock()
	require.NoError(t, err)
	require.Zero(t, b.InsertPoint())

	err = b.SetInsertPoint(label + 100)
	require.ErrorIs(t, err, ErrUnknownLabel)
	require.ErrorIs(t, b.ReturnBlock(label+100), ErrUnknownLabel)

	require.NoError(t, b.SetInsertPoint(label))
	require.Equal(t, label, b.InsertPoint())
	require.NoError(t, b.ReturnBlock(label))
	require.NoError(t, b.EndFunction())
	require.Zero(t, b.InsertPoint())
}

func TestFragmentShader(t *testing.T) {
	b := newBuilder(t)
	ctx := b.Context()
	require.NoError(t, b.BeginModule())

	b.Capability(spirv.CapabilityShader)
	b.Capability(spirv.CapabilityShader)
	glsl := b.ExtInstImport("GLSL.std.450")
	require.Equal(t, glsl, b.ExtInstImport("GLSL.std.450"))
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	void := b.TypeID(ir.Void())
	f32 := b.TypeID(ir.Float32())
	vec4 := b.TypeID(ir.Vec4(f32))
	block := ctx.InternDecoration(ir.Block())
	offset := ctx.InternDecoration(ir.Offset(0).ForMember(0))
	ubo := b.TypeID(ir.Struct([]uint32{vec4}, block, offset))
	require.Equal(t, ubo, b.TypeID(ir.Struct([]uint32{vec4}, offset, block)))

	outPtr := b.TypeID(ir.Pointer(spirv.StorageClassOutput, vec4))
	fnPtr := b.TypeID(ir.Pointer(spirv.StorageClassFunction, vec4))
	out := b.GlobalVariable(outPtr, spirv.StorageClassOutput, 0)
	b.Decorate(out, ir.Location(0))
	b.Name(out, "color")
	b.MemberName(ubo, 0, "tint")

	one := b.ConstantID(ir.ConstFloat32(f32, 1))
	white := b.ConstantID(ir.Composite(vec4, []uint32{one, one, one, one}))

	fn, err := b.BeginFunction(b.TypeID(ir.Function(void, nil)), void)
	require.NoError(t, err)
	b.Name(fn, "main")
	entry, err := b.CreateBasicBlock()
	require.NoError(t, err)
	require.NoError(t, b.SetInsertPoint(entry))
	local, err := b.AddFunctionVariable(fnPtr, white)
	require.NoError(t, err)
	loaded, err := b.EmitResult(spirv.OpLoad, vec4, local)
	require.NoError(t, err)
	require.NoError(t, b.Emit(spirv.OpStore, out, loaded))
	require.NoError(t, b.Return())
	require.NoError(t, b.EndFunction())

	b.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", out)
	require.NoError(t, b.Module().CheckWellFormed())
	require.NoError(t, b.EndModule())

	bound := ctx.PeekNextID()
	words, err := b.TakeModule()
	require.NoError(t, err)
	require.Equal(t, bound, words[3])

	require.Equal(t, []spirv.OpCode{
		spirv.OpCapability,
		spirv.OpExtInstImport,
		spirv.OpMemoryModel,
		spirv.OpEntryPoint,
		spirv.OpExecutionMode,
		spirv.OpName,
		spirv.OpMemberName,
		spirv.OpName,
		spirv.OpDecorate,
		spirv.OpMemberDecorate,
		spirv.OpDecorate,
		spirv.OpTypeVoid,
		spirv.OpTypeFloat,
		spirv.OpTypeVector,
		spirv.OpTypeStruct,
		spirv.OpTypePointer,
		spirv.OpTypePointer,
		spirv.OpConstant,
		spirv.OpConstantComposite,
		spirv.OpTypeFunction,
		spirv.OpVariable,
		spirv.OpFunction,
		spirv.OpLabel,
		spirv.OpVariable,
		spirv.OpLoad,
		spirv.OpStore,
		spirv.OpReturn,
		spirv.OpFunctionEnd,
	}, opcodes(t, words))

	insts, err := spirv.ReadInstructions(words)
	require.NoError(t, err)
	for _, inst := range insts {
		if inst.Opcode == spirv.OpExecutionMode {
			require.Equal(t, []uint32{fn, uint32(spirv.ExecutionModeOriginUpperLeft)}, inst.Operands)
		}
	}
}

func TestDebugNamesDisabled(t *testing.T) {
	b := newBuilder(t, WithDebugNames(false))
	require.NoError(t, b.BeginModule())
	b.Name(1, "x")
	b.MemberName(1, 0, "y")
	require.NoError(t, b.EndModule())

	words, err := b.TakeModule()
	require.NoError(t, err)
	require.Len(t, words, spirv.HeaderWords)
}

func TestEmitDebugTypes(t *testing.T) {
	b := newBuilder(t)
	ctx := b.Context()
	require.NoError(t, b.BeginModule())

	b.EmitDebugTypes()
	require.Empty(t, opcodes(t, takeAfterEnd(t, b)))

	require.NoError(t, b.BeginModule())
	f32 := ctx.InternType(ir.Float32())
	b.DeclareType(f32)
	name := b.String("float")
	ctx.GetDebugType(f32, ir.DebugBasic(name, 0, 3))
	b.EmitDebugTypes()

	ops := opcodes(t, takeAfterEnd(t, b))
	require.Contains(t, ops, spirv.OpExtInstImport)
	require.Contains(t, ops, spirv.OpString)
	require.Equal(t, spirv.OpExtInst, ops[len(ops)-1])
}

// debugResults returns the result ids of the OpExtInst instructions in
// words and the OpString ids, keyed by result id.
func debugResults(t *testing.T, words []uint32) (results []uint32, stringIDs map[uint32]bool) {
	t.Helper()
	insts, err := spirv.ReadInstructions(words)
	require.NoError(t, err)
	stringIDs = make(map[uint32]bool)
	for _, inst := range insts {
		switch inst.Opcode {
		case spirv.OpExtInst:
			results = append(results, inst.Operands[1])
		case spirv.OpString:
			stringIDs[inst.Operands[0]] = true
		}
	}
	return results, stringIDs
}

func TestEmitDebugTypesOnce(t *testing.T) {
	b := newBuilder(t)
	ctx := b.Context()
	require.NoError(t, b.BeginModule())

	f32 := ctx.InternType(ir.Float32())
	f32ID := b.DeclareType(f32)
	s := ctx.InternType(ir.Struct([]uint32{f32ID}))
	b.DeclareType(s)

	name := b.String("S")
	basic := ctx.GetDebugType(f32, ir.DebugBasic(name, 32, 3))
	comp := ctx.GetDebugType(s, ir.DebugComposite(ir.CompositeDesc{Name: name}))
	ctx.AddDebugMember(comp, basic, ir.MemberDesc{Name: name})
	b.EmitDebugTypes()
	b.EmitDebugTypes()

	v4 := ctx.InternType(ir.Vec4(f32ID))
	b.DeclareType(v4)
	ctx.GetDebugType(v4, ir.DebugVector(basic, 4))
	b.EmitDebugTypes()

	results, _ := debugResults(t, takeAfterEnd(t, b))
	require.Len(t, results, 4)
	seen := make(map[uint32]bool)
	for _, id := range results {
		require.False(t, seen[id], "result id %%%d defined twice", id)
		seen[id] = true
	}
}

func TestEmitDebugTypesPerModule(t *testing.T) {
	b := newBuilder(t)
	ctx := b.Context()

	require.NoError(t, b.BeginModule())
	f32 := ctx.InternType(ir.Float32())
	b.DeclareType(f32)
	ctx.GetDebugType(f32, ir.DebugBasic(b.String("float"), 32, 3))
	b.EmitDebugTypes()
	first, _ := debugResults(t, takeAfterEnd(t, b))
	require.Len(t, first, 1)

	// Nothing from the first module carries over.
	require.NoError(t, b.BeginModule())
	b.DeclareType(f32)
	b.EmitDebugTypes()
	require.NotContains(t, opcodes(t, takeAfterEnd(t, b)), spirv.OpExtInst)

	require.NoError(t, b.BeginModule())
	b.DeclareType(f32)
	name := b.String("float")
	ctx.GetDebugType(f32, ir.DebugBasic(name, 32, 3))
	b.EmitDebugTypes()
	words := takeAfterEnd(t, b)

	results, stringIDs := debugResults(t, words)
	require.Len(t, results, 1)
	require.NotEqual(t, first[0], results[0])
	require.True(t, stringIDs[name])

	insts, err := spirv.ReadInstructions(words)
	require.NoError(t, err)
	for _, inst := range insts {
		if inst.Opcode == spirv.OpExtInst {
			require.Equal(t, name, inst.Operands[4])
		}
	}
}

func TestEmitDebugTypesSkipsUndeclared(t *testing.T) {
	b := newBuilder(t)
	ctx := b.Context()
	require.NoError(t, b.BeginModule())

	f32 := ctx.InternType(ir.Float32())
	ctx.GetDebugType(f32, ir.DebugBasic(1, 32, 3))
	b.EmitDebugTypes()
	require.Empty(t, opcodes(t, takeAfterEnd(t, b)))
}

func TestDeclarationsAfterEndModule(t *testing.T) {
	b := newBuilder(t)
	require.NoError(t, b.BeginModule())
	require.NoError(t, b.EndModule())

	void := b.TypeID(ir.Void())
	fnType := b.TypeID(ir.Function(void, nil))
	_, err := b.BeginFunction(fnType, void)
	require.ErrorIs(t, err, ErrModuleEnded)
	require.Contains(t, err.Error(), "begin function")

	words, err := b.TakeModule()
	require.NoError(t, err)
	require.Equal(t, []spirv.OpCode{spirv.OpTypeVoid, spirv.OpTypeFunction}, opcodes(t, words))
	require.Greater(t, words[3], void)
	require.Greater(t, words[3], fnType)
	require.Equal(t, b.Context().PeekNextID(), words[3])
}

func TestReturnBlockTerminated(t *testing.T) {
	b := newBuilder(t)
	require.NoError(t, b.BeginModule())
	void := b.TypeID(ir.Void())
	_, err := b.BeginFunction(b.TypeID(ir.Function(void, nil)), void)
	require.NoError(t, err)
	entry, err := b.CreateBasicBlock()
	require.NoError(t, err)

	require.NoError(t, b.ReturnBlock(entry))
	err = b.ReturnBlock(entry)
	require.ErrorIs(t, err, ErrBlockTerminated)
	require.Contains(t, err.Error(), "return block")
	require.NoError(t, b.EndFunction())

	ops := opcodes(t, takeAfterEnd(t, b))
	require.Equal(t, []spirv.OpCode{
		spirv.OpTypeVoid, spirv.OpTypeFunction,
		spirv.OpFunction, spirv.OpLabel, spirv.OpReturn, spirv.OpFunctionEnd,
	}, ops)
}

func takeAfterEnd(t *testing.T, b *Builder) []uint32 {
	t.Helper()
	require.NoError(t, b.EndModule())
	words, err := b.TakeModule()
	require.NoError(t, err)
	return words
}

func TestUnterminatedBlockWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	b := New(ir.NewContext(), WithLogger(zap.New(core)))
	require.NoError(t, b.BeginModule())
	_, err := b.BeginFunction(1, 2)
	require.NoError(t, err)
	_, err = b.CreateBasicBlock()
	require.NoError(t, err)
	require.NoError(t, b.EndFunction())

	require.Equal(t, 1, logs.FilterMessage("basic block has no terminator").Len())
}

func TestLocalsNeedEntryBlock(t *testing.T) {
	b := newBuilder(t)
	require.NoError(t, b.BeginModule())
	_, err := b.BeginFunction(1, 2)
	require.NoError(t, err)
	_, err = b.AddFunctionVariable(3, 0)
	require.NoError(t, err)
	require.ErrorIs(t, b.EndFunction(), ErrNoInsertPoint)
}

func TestBranchHelpers(t *testing.T) {
	b := newBuilder(t)
	require.NoError(t, b.BeginModule())
	_, err := b.BeginFunction(1, 2)
	require.NoError(t, err)
	entry, _ := b.CreateBasicBlock()
	then, _ := b.CreateBasicBlock()
	merge, _ := b.CreateBasicBlock()

	require.NoError(t, b.SetInsertPoint(entry))
	require.NoError(t, b.SelectionMerge(merge, spirv.SelectionControlNone))
	require.NoError(t, b.BranchConditional(9, then, merge))
	require.NoError(t, b.SetInsertPoint(then))
	require.NoError(t, b.LoopMerge(merge, then, spirv.LoopControlNone))
	require.NoError(t, b.Branch(merge))
	require.NoError(t, b.SetInsertPoint(merge))
	require.NoError(t, b.ReturnValue(9))
	require.NoError(t, b.EndFunction())

	fn := b.Module().Functions()[0]
	require.Len(t, fn.Blocks, 3)
	for _, bb := range fn.Blocks {
		require.True(t, bb.IsTerminated())
	}
	require.Equal(t, spirv.Encode(spirv.OpBranchConditional, 9, then, merge), fn.Blocks[0].Instructions[1])
}

func TestExecutionModelForProfile(t *testing.T) {
	tests := []struct {
		profile string
		want    spirv.ExecutionModel
	}{
		{"vs_6_0", spirv.ExecutionModelVertex},
		{"hs_6_0", spirv.ExecutionModelTessellationControl},
		{"ds_6_0", spirv.ExecutionModelTessellationEvaluation},
		{"gs_6_0", spirv.ExecutionModelGeometry},
		{"ps_6_0", spirv.ExecutionModelFragment},
		{"cs_6_0", spirv.ExecutionModelGLCompute},
	}
	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			got, err := ExecutionModelForProfile(tt.profile)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "xs_6_0", "lib_6_3", "ps"} {
		_, err := ExecutionModelForProfile(bad)
		require.ErrorIs(t, err, ErrInvalidProfile, bad)
	}
}
