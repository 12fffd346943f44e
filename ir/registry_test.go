package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gogpu/spvgen/spirv"
)

func TestIDAllocator(t *testing.T) {
	ids := NewIDAllocator()

	require.Equal(t, uint32(1), ids.PeekNextID())
	require.Equal(t, uint32(1), ids.PeekNextID(), "peek must not consume")
	require.Equal(t, uint32(1), ids.TakeNextID())
	require.Equal(t, uint32(2), ids.TakeNextID())
	require.Equal(t, uint32(3), ids.PeekNextID())

	prev := uint32(2)
	for i := 0; i < 100; i++ {
		id := ids.TakeNextID()
		require.Greater(t, id, prev)
		prev = id
	}
}

func TestContext_ScalarDeduplication(t *testing.T) {
	ctx := NewContext()

	a := ctx.InternType(Int32())
	b := ctx.InternType(Int(32, true))
	require.Equal(t, a, b)
	require.Equal(t, 1, ctx.TypeCount())

	u := ctx.InternType(Uint32())
	f := ctx.InternType(Float32())
	h := ctx.InternType(Float16())
	handles := []TypeHandle{a, u, f, h}
	for i := range handles {
		for j := i + 1; j < len(handles); j++ {
			require.NotEqual(t, handles[i], handles[j])
		}
	}
	require.Equal(t, 4, ctx.TypeCount())
}

func TestContext_InternDoesNotAllocateIDs(t *testing.T) {
	ctx := NewContext()

	h := ctx.InternType(Bool())
	require.Equal(t, uint32(1), ctx.PeekNextID())
	_, ok := ctx.TypeID(h)
	require.False(t, ok)
}

func TestContext_ResolveTypeIDIdempotent(t *testing.T) {
	ctx := NewContext()
	h := ctx.InternType(Int32())

	before := ctx.PeekNextID()
	first := ctx.ResolveTypeID(h)
	second := ctx.ResolveTypeID(h)

	require.Equal(t, first, second)
	require.Equal(t, before+1, ctx.PeekNextID(), "exactly one id allocated")

	id, ok := ctx.TypeID(h)
	require.True(t, ok)
	require.Equal(t, first, id)
}

func TestContext_IDsFollowFirstUse(t *testing.T) {
	ctx := NewContext()
	void := ctx.InternType(Void())
	f32 := ctx.InternType(Float32())

	require.Equal(t, uint32(1), ctx.ResolveTypeID(f32))
	require.Equal(t, uint32(2), ctx.ResolveTypeID(void))
	require.Equal(t, []TypeHandle{f32, void}, ctx.ResolvedTypes())
}

func TestContext_InstructionForType(t *testing.T) {
	ctx := NewContext()
	f32 := ctx.InternType(Float32())
	f32ID := ctx.ResolveTypeID(f32)
	vec4 := ctx.InternType(Vec4(f32ID))

	inst := ctx.InstructionForType(vec4)
	vecID, ok := ctx.TypeID(vec4)
	require.True(t, ok)
	require.Equal(t, spirv.Encode(spirv.OpTypeVector, vecID, f32ID, 4), inst)

	op, count := spirv.SplitOpWord(inst[0])
	require.Equal(t, spirv.OpTypeVector, op)
	require.Equal(t, uint16(len(inst)), count, "word count covers the whole instruction")

	cached, ok := ctx.InstructionForID(vecID)
	require.True(t, ok)
	require.Equal(t, inst, cached)
}

func TestContext_ForwardPointerHasNoResultID(t *testing.T) {
	ctx := NewContext()
	fwd := ctx.InternType(ForwardPointer(42, spirv.StorageClassCrossWorkgroup))

	inst := ctx.InstructionForType(fwd)
	require.Equal(t, []uint32{
		spirv.MakeOpWord(spirv.OpTypeForwardPointer, 3),
		42,
		uint32(spirv.StorageClassCrossWorkgroup),
	}, inst)
}

func TestContext_DecorationDeduplication(t *testing.T) {
	ctx := NewContext()

	a := ctx.InternDecoration(Offset(16).ForMember(1))
	b := ctx.InternDecoration(Offset(16).ForMember(1))
	require.Equal(t, a, b)

	c := ctx.InternDecoration(Offset(16))
	require.NotEqual(t, a, c, "member index is part of the key")
	require.Equal(t, 2, ctx.DecorationCount())
}

func TestContext_MemberDecorationDistinct(t *testing.T) {
	ctx := NewContext()

	pos0 := ctx.InternDecoration(BuiltIn(spirv.BuiltInPosition).ForMember(0))
	pos1 := ctx.InternDecoration(BuiltIn(spirv.BuiltInPosition).ForMember(1))
	require.NotEqual(t, pos0, pos1)
}

func structDecorations(ctx *Context) (relaxed, bufferBlock, offset0, offset1, builtin0 DecorationHandle) {
	relaxed = ctx.InternDecoration(RelaxedPrecision())
	bufferBlock = ctx.InternDecoration(BufferBlock())
	offset0 = ctx.InternDecoration(Offset(0).ForMember(0))
	offset1 = ctx.InternDecoration(Offset(0).ForMember(1))
	builtin0 = ctx.InternDecoration(BuiltIn(spirv.BuiltInPosition).ForMember(0))
	return
}

func TestContext_StructDecorationOrderIrrelevant(t *testing.T) {
	ctx := NewContext()
	intID := ctx.ResolveTypeID(ctx.InternType(Int32()))
	boolID := ctx.ResolveTypeID(ctx.InternType(Bool()))
	relaxed, bufferBlock, offset0, offset1, builtin0 := structDecorations(ctx)

	s1 := ctx.InternType(Struct([]uint32{intID, boolID}, relaxed, bufferBlock, offset0, offset1, builtin0))
	s2 := ctx.InternType(Struct([]uint32{intID, boolID}, bufferBlock, offset0, builtin0, offset1, relaxed))
	require.Equal(t, s1, s2)
	require.Equal(t, ctx.ResolveTypeID(s1), ctx.ResolveTypeID(s2))

	s3 := ctx.InternType(Struct([]uint32{boolID, intID}, relaxed, bufferBlock, offset0, offset1, builtin0))
	require.NotEqual(t, s1, s3, "member order is significant")

	s4 := ctx.InternType(Struct([]uint32{intID, boolID}, relaxed, bufferBlock))
	require.NotEqual(t, s1, s4)
}

func TestContext_DuplicateDecorationsCollapse(t *testing.T) {
	ctx := NewContext()
	block := ctx.InternDecoration(Block())

	a := ctx.InternType(Struct([]uint32{1}, block))
	b := ctx.InternType(Struct([]uint32{1}, block, block))
	require.Equal(t, a, b)

	stored, ok := ctx.Type(a)
	require.True(t, ok)
	require.Equal(t, []DecorationHandle{block}, stored.Decorations)
}

func TestContext_CandidateIsCopied(t *testing.T) {
	ctx := NewContext()
	members := []uint32{1, 2}
	h := ctx.InternType(NewType(spirv.OpTypeStruct, members))
	members[0] = 99

	stored, ok := ctx.Type(h)
	require.True(t, ok)
	require.Equal(t, []uint32{1, 2}, stored.Args)
}

func TestContext_Lookups(t *testing.T) {
	ctx := NewContext()

	_, ok := ctx.Type(7)
	require.False(t, ok)
	_, ok = ctx.Decoration(7)
	require.False(t, ok)
	_, ok = ctx.Constant(7)
	require.False(t, ok)
	_, ok = ctx.InstructionForID(7)
	require.False(t, ok)

	require.Panics(t, func() { ctx.ResolveTypeID(7) })
	require.Panics(t, func() { ctx.ResolveConstantID(7) })
	require.Panics(t, func() { ctx.MustDecoration(7) })
}

func TestContext_ConstantsShareAllocator(t *testing.T) {
	ctx := NewContext(WithLogger(zaptest.NewLogger(t)))
	u32 := ctx.ResolveTypeID(ctx.InternType(Uint32()))

	one := ctx.InternConstant(ConstUint32(u32, 1))
	again := ctx.InternConstant(ConstUint32(u32, 1))
	two := ctx.InternConstant(ConstUint32(u32, 2))
	require.Equal(t, one, again)
	require.NotEqual(t, one, two)
	require.Equal(t, 2, ctx.ConstantCount())

	id := ctx.ResolveConstantID(one)
	require.Equal(t, u32+1, id)
	require.Equal(t, id, ctx.ResolveConstantID(one))
	require.Equal(t, []uint32{spirv.MakeOpWord(spirv.OpConstant, 4), u32, id, 1}, ctx.InstructionForConstant(one))

	_, ok := ctx.ConstantID(two)
	require.False(t, ok)
}

func TestContext_SharedAllocator(t *testing.T) {
	ids := NewIDAllocator()
	ids.TakeNextID()
	ctx := NewContext(WithIDAllocator(ids))

	require.Same(t, ids, ctx.IDs())
	require.Equal(t, uint32(2), ctx.ResolveTypeID(ctx.InternType(Void())))
	require.Equal(t, uint32(3), ids.PeekNextID())
}
