package script

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gogpu/spvgen/builder"
	"github.com/gogpu/spvgen/ir"
	"github.com/gogpu/spvgen/spirv"
)

func newBuilder(t *testing.T) *builder.Builder {
	t.Helper()
	return builder.New(ir.NewContext(), builder.WithLogger(zaptest.NewLogger(t)))
}

func mustDecode(t *testing.T, src string) *Script {
	t.Helper()
	s, err := Decode([]byte(src), FormatTOML)
	require.NoError(t, err)
	return s
}

func find(insts []spirv.RawInstruction, op spirv.OpCode) []spirv.RawInstruction {
	var out []spirv.RawInstruction
	for _, inst := range insts {
		if inst.Opcode == op {
			out = append(out, inst)
		}
	}
	return out
}

func TestBuildFragment(t *testing.T) {
	s, err := DecodeFile("testdata/fragment.toml")
	require.NoError(t, err)

	words, err := Build(s, newBuilder(t))
	require.NoError(t, err)

	insts, err := spirv.ReadInstructions(words)
	require.NoError(t, err)

	require.Len(t, find(insts, spirv.OpCapability), 1)
	require.Len(t, find(insts, spirv.OpMemoryModel), 1)
	require.Len(t, find(insts, spirv.OpExtInstImport), 1)

	modes := find(insts, spirv.OpExecutionMode)
	require.Len(t, modes, 1)
	require.Equal(t, uint32(spirv.ExecutionModeOriginUpperLeft), modes[0].Operands[1])

	eps := find(insts, spirv.OpEntryPoint)
	require.Len(t, eps, 1)
	require.Equal(t, uint32(spirv.ExecutionModelFragment), eps[0].Operands[0])
	name, n, err := spirv.DecodeString(eps[0].Operands[2:])
	require.NoError(t, err)
	require.Equal(t, "main", name)
	require.Len(t, eps[0].Operands, 2+n+1, "one interface variable")

	// Constants are declared after the types they reference even though
	// the script lists them first.
	ids := map[uint32]int{}
	for i, inst := range insts {
		if inst.Opcode == spirv.OpTypeFloat || inst.Opcode == spirv.OpTypeVector {
			ids[inst.Operands[0]] = i
		}
	}
	for i, inst := range insts {
		if inst.Opcode == spirv.OpConstant || inst.Opcode == spirv.OpConstantComposite {
			pos, ok := ids[inst.Operands[0]]
			require.True(t, ok)
			require.Less(t, pos, i)
		}
	}

	consts := find(insts, spirv.OpConstant)
	require.Len(t, consts, 2)
	require.Equal(t, math.Float32bits(1), consts[0].Operands[2])

	ptrs := find(insts, spirv.OpTypePointer)
	require.Len(t, ptrs, 2)
	require.Equal(t, uint32(spirv.StorageClassOutput), ptrs[0].Operands[1])

	// The local variable is hoisted into the entry block.
	labels := find(insts, spirv.OpLabel)
	require.Len(t, labels, 2)
	var afterLabel spirv.RawInstruction
	for i, inst := range insts {
		if inst.Opcode == spirv.OpLabel {
			afterLabel = insts[i+1]
			break
		}
	}
	require.Equal(t, spirv.OpVariable, afterLabel.Opcode)
	require.Equal(t, uint32(spirv.StorageClassFunction), afterLabel.Operands[2])

	require.NotEmpty(t, find(insts, spirv.OpName))
	require.Len(t, find(insts, spirv.OpSource), 1)
	require.Len(t, find(insts, spirv.OpModuleProcessed), 1)
}

func TestMsgpackRoundTrip(t *testing.T) {
	s, err := DecodeFile("testdata/fragment.toml")
	require.NoError(t, err)
	want, err := Build(s, newBuilder(t))
	require.NoError(t, err)

	data, err := Marshal(s)
	require.NoError(t, err)
	decoded, err := Decode(data, FormatMsgpack)
	require.NoError(t, err)

	got, err := Build(decoded, newBuilder(t))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte("[module]\nbogus = 1\n"), FormatTOML)
	require.ErrorIs(t, err, ErrUndecodedKeys)
	require.Contains(t, err.Error(), "module.bogus")

	_, err = Decode([]byte("not = [toml"), FormatTOML)
	require.Error(t, err)

	_, err = Decode([]byte{0xc1}, FormatMsgpack)
	require.Error(t, err)

	_, err = FormatForPath("shader.json")
	require.ErrorIs(t, err, ErrUnknownFormat)
	f, err := FormatForPath("a/b.MSGPACK")
	require.NoError(t, err)
	require.Equal(t, FormatMsgpack, f)
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  error
		msg  string
	}{
		{
			name: "undefined",
			src: `
[[types]]
name = "v"
op = "TypeVector"
operands = ["%nope", 4]
`,
			err: ErrUndefinedSymbol,
			msg: `type "v"`,
		},
		{
			name: "duplicate",
			src: `
[[types]]
name = "a"
op = "TypeBool"

[[constants]]
name = "a"
op = "ConstantTrue"
type = "%a"
`,
			err: ErrDuplicateSymbol,
		},
		{
			name: "cycle",
			src: `
[[types]]
name = "arr"
op = "TypeArray"
operands = ["%arr", "%len"]

[[constants]]
name = "len"
op = "Constant"
type = "%arr"
operands = [4]
`,
			err: ErrSymbolCycle,
		},
		{
			name: "operand range",
			src: `
[[types]]
name = "i"
op = "TypeInt"
operands = [4294967296, 0]
`,
			err: ErrBadOperand,
		},
		{
			name: "bad enum",
			src: `
[[types]]
name = "p"
op = "TypePointer"
operands = ["StorageClass.Nowhere", 1]
`,
			err: ErrBadOperand,
		},
		{
			name: "unknown label",
			src: `
[[types]]
name = "void"
op = "TypeVoid"

[[types]]
name = "fn"
op = "TypeFunction"
operands = ["%void"]

[[functions]]
name = "main"
type = "%fn"
return = "%void"

[[functions.blocks]]
label = "entry"
instructions = [{ op = "Branch", operands = ["%missing"] }]
`,
			err: ErrUndefinedSymbol,
			msg: `function "main": block "entry" instruction 0 (Branch)`,
		},
		{
			name: "entry point model",
			src: `
[[entry_points]]
function = "%main"
name = "main"
`,
			err: ErrUndefinedSymbol,
		},
		{
			name: "profile",
			src: `
[[types]]
name = "void"
op = "TypeVoid"

[[types]]
name = "fn"
op = "TypeFunction"
operands = ["%void"]

[[functions]]
name = "main"
type = "%fn"
return = "%void"

[[entry_points]]
function = "%main"
name = "main"
profile = "lib_6_3"
`,
			err: builder.ErrInvalidProfile,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words, err := Build(mustDecode(t, tt.src), newBuilder(t))
			require.ErrorIs(t, err, tt.err)
			require.Nil(t, words)
			if tt.msg != "" {
				require.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestOperands(t *testing.T) {
	r := &runner{symbols: map[string]uint32{"x": 7}}
	tests := []struct {
		in   any
		want []uint32
	}{
		{int64(5), []uint32{5}},
		{int64(-1), []uint32{0xFFFFFFFF}},
		{int8(-2), []uint32{0xFFFFFFFE}},
		{uint16(9), []uint32{9}},
		{uint64(math.MaxUint32), []uint32{math.MaxUint32}},
		{true, []uint32{1}},
		{1.5, []uint32{math.Float32bits(1.5)}},
		{"%x", []uint32{7}},
		{"BuiltIn.Position", []uint32{uint32(spirv.BuiltInPosition)}},
		{"GLSL.std.450", spirv.EncodeString("GLSL.std.450")},
		{"main", spirv.EncodeString("main")},
	}
	for _, tt := range tests {
		got, err := r.operand(tt.in)
		require.NoError(t, err, "%v", tt.in)
		require.Equal(t, tt.want, got, "%v", tt.in)
	}

	_, err := r.operand(int64(math.MinInt32) - 1)
	require.ErrorIs(t, err, ErrBadOperand)
	_, err = r.operand([]int{1})
	require.ErrorIs(t, err, ErrBadOperand)
}
