package spirv

import (
	"fmt"
	"io"
	"strings"
)

// Style decorates disassembly tokens, e.g. with terminal colors.
// Nil fields leave the token unchanged.
type Style struct {
	Opcode  func(string) string
	ID      func(string) string
	Literal func(string) string
	Comment func(string) string
}

func apply(f func(string) string, s string) string {
	if f == nil {
		return s
	}
	return f(s)
}

// Disassemble writes a .spvasm-like text listing of a binary module.
func Disassemble(w io.Writer, words []uint32, style Style) error {
	header, err := ReadHeader(words)
	if err != nil {
		return err
	}
	insts, err := ReadInstructions(words)

	d := &disassembler{style: style}
	d.comment("; SPIR-V")
	d.comment(fmt.Sprintf("; Version: %s", header.Version))
	d.comment(fmt.Sprintf("; Generator: 0x%08X", header.Generator))
	d.comment(fmt.Sprintf("; Bound: %d", header.Bound))
	d.comment(fmt.Sprintf("; Schema: %d", header.Schema))
	d.sb.WriteByte('\n')
	for _, inst := range insts {
		d.instruction(inst)
	}
	if _, werr := io.WriteString(w, d.sb.String()); werr != nil {
		return werr
	}
	return err
}

type disassembler struct {
	style Style
	sb    strings.Builder
}

func (d *disassembler) comment(s string) {
	d.sb.WriteString(apply(d.style.Comment, s))
	d.sb.WriteByte('\n')
}

func (d *disassembler) id(n uint32) string {
	return apply(d.style.ID, fmt.Sprintf("%%%d", n))
}

func (d *disassembler) lit(v any) string {
	return apply(d.style.Literal, fmt.Sprint(v))
}

func (d *disassembler) str(ops []uint32) (string, int) {
	s, n, err := DecodeString(ops)
	if err != nil {
		return apply(d.style.Literal, `"<malformed>"`), len(ops)
	}
	return apply(d.style.Literal, fmt.Sprintf("%q", s)), n
}

// line writes "%result = OpName rest..." or "OpName rest..." with the
// result column aligned.
func (d *disassembler) line(result uint32, op OpCode, rest ...string) {
	if result != 0 {
		r := d.id(result)
		d.sb.WriteString(strings.Repeat(" ", max(0, 14-len(fmt.Sprintf("%%%d", result)))))
		d.sb.WriteString(r)
		d.sb.WriteString(" = ")
	} else {
		d.sb.WriteString(strings.Repeat(" ", 17))
	}
	d.sb.WriteString(apply(d.style.Opcode, op.String()))
	for _, s := range rest {
		d.sb.WriteByte(' ')
		d.sb.WriteString(s)
	}
	d.sb.WriteByte('\n')
}

func (d *disassembler) ids(ops []uint32) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = d.id(op)
	}
	return out
}

func (d *disassembler) lits(ops []uint32) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = d.lit(op)
	}
	return out
}

// minOperands guards the fixed operand positions read by instruction.
var minOperands = map[OpCode]int{
	OpCapability: 1, OpExtInstImport: 1, OpString: 1, OpMemoryModel: 2,
	OpEntryPoint: 3, OpExecutionMode: 2, OpSource: 1, OpName: 1, OpMemberName: 2,
	OpDecorate: 2, OpMemberDecorate: 3, OpTypeInt: 1, OpTypeFloat: 1, OpTypeOpaque: 1,
	OpTypeVector: 3, OpTypeMatrix: 3, OpTypeImage: 7, OpTypePointer: 3,
	OpTypeForwardPointer: 2, OpTypePipe: 2, OpConstant: 2, OpSpecConstant: 2,
	OpConstantSampler: 5, OpFunction: 4, OpVariable: 3, OpExtInst: 4, OpLabel: 1,
	OpCompositeExtract: 3, OpVectorShuffle: 4,
}

func isTypeDeclaration(op OpCode) bool {
	return (op >= OpTypeVoid && op <= OpTypeForwardPointer) || op == OpTypePipeStorage || op == OpTypeNamedBarrier
}

// hasTypedResult reports whether the opcode follows the <result type> <result id>
// operand layout. Type declarations put the result id first instead.
func hasTypedResult(op OpCode) bool {
	switch {
	case op >= OpConstantTrue && op <= OpSpecConstantOp:
		return true
	case op == OpFunction, op == OpFunctionParameter, op == OpFunctionCall, op == OpVariable:
		return true
	case op >= OpImageTexelPointer && op <= OpLoad:
		return true
	case op >= OpAccessChain && op <= OpInBoundsPtrAccessChain:
		return true
	case op >= OpVectorExtractDynamic && op <= OpBitCount && op != OpImageWrite, op == OpExtInst, op == OpPhi, op == OpUndef:
		return true
	case op >= OpDPdx && op <= OpFwidth, op >= OpAtomicLoad && op <= OpAtomicIAdd && op != OpAtomicStore:
		return true
	}
	return false
}

//nolint:gocyclo,cyclop,funlen // one case per opcode family
func (d *disassembler) instruction(inst RawInstruction) {
	op, ops := inst.Opcode, inst.Operands
	if len(ops) < minOperands[op] {
		d.generic(op, ops)
		return
	}
	switch op {
	case OpCapability:
		d.line(0, op, d.lit(Capability(ops[0])))

	case OpExtension:
		s, _ := d.str(ops)
		d.line(0, op, s)

	case OpExtInstImport, OpString:
		s, _ := d.str(ops[1:])
		d.line(ops[0], op, s)

	case OpMemoryModel:
		d.line(0, op, d.lit(AddressingModel(ops[0])), d.lit(MemoryModel(ops[1])))

	case OpEntryPoint:
		s, n := d.str(ops[2:])
		rest := []string{d.lit(ExecutionModel(ops[0])), d.id(ops[1]), s}
		d.line(0, op, append(rest, d.ids(ops[2+n:])...)...)

	case OpExecutionMode:
		rest := []string{d.id(ops[0]), d.lit(ExecutionMode(ops[1]))}
		d.line(0, op, append(rest, d.lits(ops[2:])...)...)

	case OpSource:
		rest := []string{d.lit(SourceLanguage(ops[0]))}
		d.line(0, op, append(rest, d.lits(ops[1:])...)...)

	case OpSourceExtension, OpModuleProcessed:
		s, _ := d.str(ops)
		d.line(0, op, s)

	case OpName:
		s, _ := d.str(ops[1:])
		d.line(0, op, d.id(ops[0]), s)

	case OpMemberName:
		s, _ := d.str(ops[2:])
		d.line(0, op, d.id(ops[0]), d.lit(ops[1]), s)

	case OpDecorate:
		rest := []string{d.id(ops[0]), d.lit(Decoration(ops[1]))}
		if Decoration(ops[1]) == DecorationBuiltIn && len(ops) > 2 {
			rest = append(rest, d.lit(BuiltIn(ops[2])))
		} else {
			rest = append(rest, d.lits(ops[2:])...)
		}
		d.line(0, op, rest...)

	case OpMemberDecorate:
		rest := []string{d.id(ops[0]), d.lit(ops[1]), d.lit(Decoration(ops[2]))}
		if Decoration(ops[2]) == DecorationBuiltIn && len(ops) > 3 {
			rest = append(rest, d.lit(BuiltIn(ops[3])))
		} else {
			rest = append(rest, d.lits(ops[3:])...)
		}
		d.line(0, op, rest...)

	case OpTypeInt, OpTypeFloat:
		d.line(ops[0], op, d.lits(ops[1:])...)

	case OpTypeOpaque:
		s, _ := d.str(ops[1:])
		d.line(ops[0], op, s)

	case OpTypeVector, OpTypeMatrix:
		d.line(ops[0], op, d.id(ops[1]), d.lit(ops[2]))

	case OpTypeImage:
		rest := []string{d.id(ops[1]), d.lit(Dim(ops[2]))}
		rest = append(rest, d.lits(ops[3:7])...)
		if len(ops) > 7 {
			rest = append(rest, d.lit(ops[7]))
		}
		if len(ops) > 8 {
			rest = append(rest, d.lit(AccessQualifier(ops[8])))
		}
		d.line(ops[0], op, rest...)

	case OpTypePointer:
		d.line(ops[0], op, d.lit(StorageClass(ops[1])), d.id(ops[2]))

	case OpTypeForwardPointer:
		d.line(0, op, d.id(ops[0]), d.lit(StorageClass(ops[1])))

	case OpTypePipe:
		d.line(ops[0], op, d.lit(AccessQualifier(ops[1])))

	case OpConstant, OpSpecConstant:
		d.line(ops[1], op, append([]string{d.id(ops[0])}, d.lits(ops[2:])...)...)

	case OpConstantSampler:
		d.line(ops[1], op, d.id(ops[0]), d.lit(SamplerAddressingMode(ops[2])), d.lit(ops[3]), d.lit(SamplerFilterMode(ops[4])))

	case OpFunction:
		d.line(ops[1], op, d.id(ops[0]), d.lit(FunctionControl(ops[2])), d.id(ops[3]))

	case OpVariable:
		rest := []string{d.id(ops[0]), d.lit(StorageClass(ops[2]))}
		d.line(ops[1], op, append(rest, d.ids(ops[3:])...)...)

	case OpExtInst:
		rest := []string{d.id(ops[0]), d.id(ops[2]), d.lit(ops[3])}
		d.line(ops[1], op, append(rest, d.ids(ops[4:])...)...)

	case OpLabel:
		d.line(ops[0], op)

	case OpCompositeExtract:
		rest := []string{d.id(ops[0]), d.id(ops[2])}
		d.line(ops[1], op, append(rest, d.lits(ops[3:])...)...)

	case OpVectorShuffle:
		rest := []string{d.id(ops[0]), d.id(ops[2]), d.id(ops[3])}
		d.line(ops[1], op, append(rest, d.lits(ops[4:])...)...)

	default:
		d.generic(op, ops)
	}
}

func (d *disassembler) generic(op OpCode, ops []uint32) {
	switch {
	case len(ops) >= 2 && hasTypedResult(op):
		d.line(ops[1], op, append([]string{d.id(ops[0])}, d.ids(ops[2:])...)...)
	case len(ops) >= 1 && isTypeDeclaration(op):
		d.line(ops[0], op, d.ids(ops[1:])...)
	default:
		d.line(0, op, d.ids(ops)...)
	}
}
