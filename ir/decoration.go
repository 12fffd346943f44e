package ir

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"github.com/gogpu/spvgen/spirv"
)

// NoMember marks a decoration that applies to its whole target.
const NoMember int32 = -1

// Decoration is one decoration kind with its literal arguments, optionally
// scoped to one member of a struct.
type Decoration struct {
	Kind   spirv.Decoration
	Args   []uint32
	Member int32
}

// NewDecoration creates a whole-target decoration.
func NewDecoration(kind spirv.Decoration, args ...uint32) Decoration {
	return Decoration{Kind: kind, Args: args, Member: NoMember}
}

// ForMember returns a copy of d scoped to the given struct member.
func (d Decoration) ForMember(member uint32) Decoration {
	m, err := safecast.Conv[int32](member)
	if err != nil {
		panic(fmt.Errorf("ir: member index %d out of range: %w", member, err))
	}
	d.Member = m
	return d
}

// HasMember reports whether d targets a struct member.
func (d Decoration) HasMember() bool {
	return d.Member != NoMember
}

// Equal reports structural equality: kind, args and member index.
func (d Decoration) Equal(o Decoration) bool {
	return d.Kind == o.Kind && d.Member == o.Member && slices.Equal(d.Args, o.Args)
}

// Instruction encodes d as OpDecorate or OpMemberDecorate on target.
func (d Decoration) Instruction(target uint32) []uint32 {
	if d.HasMember() {
		operands := make([]uint32, 0, 3+len(d.Args))
		operands = append(operands, target, uint32(d.Member), uint32(d.Kind))
		return spirv.Encode(spirv.OpMemberDecorate, append(operands, d.Args...)...)
	}
	operands := make([]uint32, 0, 2+len(d.Args))
	operands = append(operands, target, uint32(d.Kind))
	return spirv.Encode(spirv.OpDecorate, append(operands, d.Args...)...)
}

func (d Decoration) clone() Decoration {
	d.Args = slices.Clone(d.Args)
	return d
}

// Decoration constructors. Member-scoped variants are obtained with ForMember.

// RelaxedPrecision allows the target to compute with 16 bit or lower
// precision.
func RelaxedPrecision() Decoration { return NewDecoration(spirv.DecorationRelaxedPrecision) }
// SpecID marks a specialization constant with its external id.
func SpecID(id uint32) Decoration { return NewDecoration(spirv.DecorationSpecID, id) }
// Block and BufferBlock mark a struct as a uniform or storage interface
// block.
func Block() Decoration { return NewDecoration(spirv.DecorationBlock) }
func BufferBlock() Decoration { return NewDecoration(spirv.DecorationBufferBlock) }
// RowMajor and ColMajor set the layout of a matrix member.
func RowMajor() Decoration { return NewDecoration(spirv.DecorationRowMajor) }
func ColMajor() Decoration { return NewDecoration(spirv.DecorationColMajor) }
func GLSLShared() Decoration { return NewDecoration(spirv.DecorationGLSLShared) }
func GLSLPacked() Decoration { return NewDecoration(spirv.DecorationGLSLPacked) }
func CPacked() Decoration { return NewDecoration(spirv.DecorationCPacked) }
// NoPerspective, Flat, Patch, Centroid and Sample select interpolation
// and tessellation qualifiers of stage interface variables.
func NoPerspective() Decoration { return NewDecoration(spirv.DecorationNoPerspective) }
func Flat() Decoration { return NewDecoration(spirv.DecorationFlat) }
func Patch() Decoration { return NewDecoration(spirv.DecorationPatch) }
func Centroid() Decoration { return NewDecoration(spirv.DecorationCentroid) }
func Sample() Decoration { return NewDecoration(spirv.DecorationSample) }
func Invariant() Decoration { return NewDecoration(spirv.DecorationInvariant) }
// Restrict, Aliased, Volatile, Coherent, NonWritable and NonReadable are
// memory access qualifiers.
func Restrict() Decoration { return NewDecoration(spirv.DecorationRestrict) }
func Aliased() Decoration { return NewDecoration(spirv.DecorationAliased) }
func Volatile() Decoration { return NewDecoration(spirv.DecorationVolatile) }
// ConstantDecoration is the Constant decoration, named apart from the
// Constant type of this package.
func ConstantDecoration() Decoration { return NewDecoration(spirv.DecorationConstant) }
func Coherent() Decoration { return NewDecoration(spirv.DecorationCoherent) }
func NonWritable() Decoration { return NewDecoration(spirv.DecorationNonWritable) }
func NonReadable() Decoration { return NewDecoration(spirv.DecorationNonReadable) }
// Uniform marks a value as the same for all invocations of a group.
func Uniform() Decoration { return NewDecoration(spirv.DecorationUniform) }
// SaturatedConversion clamps the result of a conversion instead of
// wrapping it.
func SaturatedConversion() Decoration {
	return NewDecoration(spirv.DecorationSaturatedConversion)
}
// NoContraction forbids fusing the result into a contracted operation.
func NoContraction() Decoration { return NewDecoration(spirv.DecorationNoContraction) }

// ArrayStride and MatrixStride give the byte distance between
// consecutive array elements or matrix columns.
func ArrayStride(stride uint32) Decoration { return NewDecoration(spirv.DecorationArrayStride, stride) }
func MatrixStride(stride uint32) Decoration { return NewDecoration(spirv.DecorationMatrixStride, stride) }
// Stream selects the geometry shader vertex stream.
func Stream(stream uint32) Decoration { return NewDecoration(spirv.DecorationStream, stream) }
// Location, Component and Index place a stage interface variable.
func Location(loc uint32) Decoration { return NewDecoration(spirv.DecorationLocation, loc) }
func Component(comp uint32) Decoration { return NewDecoration(spirv.DecorationComponent, comp) }
func Index(index uint32) Decoration { return NewDecoration(spirv.DecorationIndex, index) }
// Binding and DescriptorSet bind a resource variable.
func Binding(binding uint32) Decoration { return NewDecoration(spirv.DecorationBinding, binding) }
func DescriptorSet(set uint32) Decoration { return NewDecoration(spirv.DecorationDescriptorSet, set) }
// Offset is the byte offset of a struct member. Use ForMember.
func Offset(offset uint32) Decoration { return NewDecoration(spirv.DecorationOffset, offset) }
// XfbBuffer and XfbStride configure transform feedback capture.
func XfbBuffer(buffer uint32) Decoration { return NewDecoration(spirv.DecorationXfbBuffer, buffer) }
func XfbStride(stride uint32) Decoration { return NewDecoration(spirv.DecorationXfbStride, stride) }
// Alignment is the pointer alignment in bytes.
func Alignment(align uint32) Decoration { return NewDecoration(spirv.DecorationAlignment, align) }

// BuiltIn marks a variable or member as the built-in b.
func BuiltIn(b spirv.BuiltIn) Decoration { return NewDecoration(spirv.DecorationBuiltIn, uint32(b)) }

// FuncParamAttr attaches an OpenCL function parameter attribute, such as
// zero or sign extension, to a parameter id.
func FuncParamAttr(attr uint32) Decoration {
	return NewDecoration(spirv.DecorationFuncParamAttr, attr)
}

// FPRoundingMode sets the rounding mode of a floating point conversion.
func FPRoundingMode(mode uint32) Decoration {
	return NewDecoration(spirv.DecorationFPRoundingMode, mode)
}

// FPFastMathMode lists the fast math assumptions allowed for a result.
func FPFastMathMode(mode uint32) Decoration {
	return NewDecoration(spirv.DecorationFPFastMathMode, mode)
}

// InputAttachmentIndex binds a subpass input to its attachment.
func InputAttachmentIndex(index uint32) Decoration {
	return NewDecoration(spirv.DecorationInputAttachmentIndex, index)
}

// LinkageAttributes encodes the linkage name followed by the linkage type.
func LinkageAttributes(name string, linkageType uint32) Decoration {
	return NewDecoration(spirv.DecorationLinkageAttributes, append(spirv.EncodeString(name), linkageType)...)
}
