package ir

import (
	"slices"

	"github.com/gogpu/spvgen/spirv"
)

// Type is one SPIR-V type declaration. Args may reference other types and
// constants by their resolved result ids. Decorations is a set: its order
// is irrelevant for equality and hashing.
type Type struct {
	Op          spirv.OpCode
	Args        []uint32
	Decorations []DecorationHandle
}

// NewType creates a type from an opcode and its operand words.
func NewType(op spirv.OpCode, args []uint32, decorations ...DecorationHandle) Type {
	return Type{Op: op, Args: args, Decorations: decorations}
}

// Equal reports structural equality, treating decorations as a set.
func (t Type) Equal(o Type) bool {
	return t.Op == o.Op &&
		slices.Equal(t.Args, o.Args) &&
		slices.Equal(decorationSet(t.Decorations), decorationSet(o.Decorations))
}

// HasResultID reports whether the declaring instruction carries a result
// id operand. OpTypeForwardPointer is the only type declaration without one.
func (t Type) HasResultID() bool {
	return t.Op != spirv.OpTypeForwardPointer
}

// Instruction encodes the declaring instruction with the given result id.
func (t Type) Instruction(id uint32) []uint32 {
	if !t.HasResultID() {
		return spirv.Encode(t.Op, t.Args...)
	}
	operands := make([]uint32, 0, len(t.Args)+1)
	operands = append(operands, id)
	return spirv.Encode(t.Op, append(operands, t.Args...)...)
}

// canonical returns an owned copy with a sorted, duplicate-free decoration set.
func (t Type) canonical() Type {
	return Type{
		Op:          t.Op,
		Args:        slices.Clone(t.Args),
		Decorations: decorationSet(t.Decorations),
	}
}

// decorationSet returns a sorted, duplicate-free copy of handles.
func decorationSet(handles []DecorationHandle) []DecorationHandle {
	if len(handles) == 0 {
		return nil
	}
	set := slices.Clone(handles)
	slices.Sort(set)
	return slices.Compact(set)
}

// IsVoid reports whether t is an OpTypeVoid.
func (t Type) IsVoid() bool { return t.Op == spirv.OpTypeVoid }

// IsBoolean reports whether t is an OpTypeBool.
func (t Type) IsBoolean() bool { return t.Op == spirv.OpTypeBool }

// IsInteger reports whether t is an OpTypeInt of any width and signedness.
func (t Type) IsInteger() bool { return t.Op == spirv.OpTypeInt }

// IsFloat reports whether t is an OpTypeFloat of any width.
func (t Type) IsFloat() bool { return t.Op == spirv.OpTypeFloat }

// IsNumerical reports integer and float types.
func (t Type) IsNumerical() bool { return t.IsInteger() || t.IsFloat() }

// IsScalar reports booleans and numerical types.
func (t Type) IsScalar() bool { return t.IsBoolean() || t.IsNumerical() }

// IsVector reports whether t is an OpTypeVector.
func (t Type) IsVector() bool { return t.Op == spirv.OpTypeVector }

// IsMatrix reports whether t is an OpTypeMatrix.
func (t Type) IsMatrix() bool { return t.Op == spirv.OpTypeMatrix }

// IsArray reports whether t is a fixed-size OpTypeArray.
func (t Type) IsArray() bool { return t.Op == spirv.OpTypeArray }

// IsRuntimeArray reports whether t is an OpTypeRuntimeArray.
func (t Type) IsRuntimeArray() bool { return t.Op == spirv.OpTypeRuntimeArray }

// IsStruct reports whether t is an OpTypeStruct.
func (t Type) IsStruct() bool { return t.Op == spirv.OpTypeStruct }

// IsPointer reports whether t is an OpTypePointer.
func (t Type) IsPointer() bool { return t.Op == spirv.OpTypePointer }

// IsFunction reports whether t is an OpTypeFunction.
func (t Type) IsFunction() bool { return t.Op == spirv.OpTypeFunction }

// IsImage reports whether t is an OpTypeImage.
func (t Type) IsImage() bool { return t.Op == spirv.OpTypeImage }

// IsSampler reports whether t is an OpTypeSampler.
func (t Type) IsSampler() bool { return t.Op == spirv.OpTypeSampler }

// IsSampledImage reports whether t is an OpTypeSampledImage.
func (t Type) IsSampledImage() bool { return t.Op == spirv.OpTypeSampledImage }

// IsOpaque reports whether t is an OpTypeOpaque.
func (t Type) IsOpaque() bool { return t.Op == spirv.OpTypeOpaque }

// IsForwardPointer reports whether t is an OpTypeForwardPointer.
func (t Type) IsForwardPointer() bool { return t.Op == spirv.OpTypeForwardPointer }

// IsComposite reports vectors, matrices, arrays and structs.
func (t Type) IsComposite() bool {
	return t.IsVector() || t.IsMatrix() || t.IsArray() || t.IsRuntimeArray() || t.IsStruct()
}

// IsAggregate reports arrays and structs.
func (t Type) IsAggregate() bool {
	return t.IsArray() || t.IsRuntimeArray() || t.IsStruct()
}

// Type constructors. Arguments that name other types or constants are
// result ids, obtained from Context.ResolveTypeID / ResolveConstantID.

// Void declares OpTypeVoid.
func Void() Type { return NewType(spirv.OpTypeVoid, nil) }
// Bool declares OpTypeBool.
func Bool() Type { return NewType(spirv.OpTypeBool, nil) }

// Int declares an integer type of the given bit width.
func Int(width uint32, signed bool) Type {
	var s uint32
	if signed {
		s = 1
	}
	return NewType(spirv.OpTypeInt, []uint32{width, s})
}

// Int8 through Uint64 declare the signed and unsigned integer widths.
func Int8() Type { return Int(8, true) }
func Int16() Type { return Int(16, true) }
func Int32() Type { return Int(32, true) }
func Int64() Type { return Int(64, true) }
func Uint8() Type { return Int(8, false) }
func Uint16() Type { return Int(16, false) }
func Uint32() Type { return Int(32, false) }
func Uint64() Type { return Int(64, false) }

// Float declares a floating point type of the given bit width.
func Float(width uint32) Type { return NewType(spirv.OpTypeFloat, []uint32{width}) }
// Float16, Float32 and Float64 declare the IEEE 754 widths.
func Float16() Type { return Float(16) }
func Float32() Type { return Float(32) }
func Float64() Type { return Float(64) }

// Vector declares a vector of count components of type component.
func Vector(component, count uint32) Type {
	return NewType(spirv.OpTypeVector, []uint32{component, count})
}

// Vec2, Vec3 and Vec4 are Vector with a fixed component count.
func Vec2(component uint32) Type { return Vector(component, 2) }
func Vec3(component uint32) Type { return Vector(component, 3) }
func Vec4(component uint32) Type { return Vector(component, 4) }

// Matrix declares a matrix of columnCount columns, each of vector type column.
func Matrix(column, columnCount uint32, decorations ...DecorationHandle) Type {
	return NewType(spirv.OpTypeMatrix, []uint32{column, columnCount}, decorations...)
}

// ImageDesc describes an OpTypeImage.
type ImageDesc struct {
	SampledType  uint32
	Dim          spirv.Dim
	Depth        uint32 // 0 no depth, 1 depth, 2 unknown
	Arrayed      bool
	Multisampled bool
	Sampled      uint32 // 0 run-time, 1 sampled, 2 storage
	Format       spirv.ImageFormat
	Access       *spirv.AccessQualifier
}

// Image declares an image type. The access qualifier is appended only when set.
func Image(d ImageDesc, decorations ...DecorationHandle) Type {
	args := []uint32{d.SampledType, uint32(d.Dim), d.Depth, boolWord(d.Arrayed), boolWord(d.Multisampled), d.Sampled, uint32(d.Format)}
	if d.Access != nil {
		args = append(args, uint32(*d.Access))
	}
	return NewType(spirv.OpTypeImage, args, decorations...)
}

// Sampler declares OpTypeSampler.
func Sampler(decorations ...DecorationHandle) Type {
	return NewType(spirv.OpTypeSampler, nil, decorations...)
}

// SampledImage combines the image type image with a sampler.
func SampledImage(image uint32, decorations ...DecorationHandle) Type {
	return NewType(spirv.OpTypeSampledImage, []uint32{image}, decorations...)
}

// Array declares a fixed-size array. length is the id of a constant.
func Array(element, length uint32, decorations ...DecorationHandle) Type {
	return NewType(spirv.OpTypeArray, []uint32{element, length}, decorations...)
}

// RuntimeArray declares an array whose length is known only at run time.
func RuntimeArray(element uint32, decorations ...DecorationHandle) Type {
	return NewType(spirv.OpTypeRuntimeArray, []uint32{element}, decorations...)
}

// Struct declares a struct with the given member type ids. members is
// copied.
func Struct(members []uint32, decorations ...DecorationHandle) Type {
	return NewType(spirv.OpTypeStruct, slices.Clone(members), decorations...)
}

// Opaque declares a named type with no visible structure.
func Opaque(name string, decorations ...DecorationHandle) Type {
	return NewType(spirv.OpTypeOpaque, spirv.EncodeString(name), decorations...)
}

// Pointer declares a pointer into storage to the type pointee.
func Pointer(storage spirv.StorageClass, pointee uint32, decorations ...DecorationHandle) Type {
	return NewType(spirv.OpTypePointer, []uint32{uint32(storage), pointee}, decorations...)
}

// Function declares a function type returning ret and taking params.
func Function(ret uint32, params []uint32, decorations ...DecorationHandle) Type {
	args := make([]uint32, 0, len(params)+1)
	args = append(args, ret)
	return NewType(spirv.OpTypeFunction, append(args, params...), decorations...)
}

// Event, DeviceEvent, ReserveID and Queue declare the OpenCL
// kernel object types.
func Event() Type { return NewType(spirv.OpTypeEvent, nil) }
func DeviceEvent() Type { return NewType(spirv.OpTypeDeviceEvent, nil) }
func ReserveID() Type { return NewType(spirv.OpTypeReserveId, nil) }
func Queue() Type { return NewType(spirv.OpTypeQueue, nil) }

// Pipe declares an OpenCL pipe with the given read or write access.
func Pipe(access spirv.AccessQualifier) Type {
	return NewType(spirv.OpTypePipe, []uint32{uint32(access)})
}

// ForwardPointer declares pointerType ahead of its definition. The
// instruction has no result id of its own.
func ForwardPointer(pointerType uint32, storage spirv.StorageClass) Type {
	return NewType(spirv.OpTypeForwardPointer, []uint32{pointerType, uint32(storage)})
}

// PipeStorage declares storage for a pipe created at module scope.
func PipeStorage() Type { return NewType(spirv.OpTypePipeStorage, nil) }
// NamedBarrier declares the type of a barrier created by
// OpNamedBarrierInitialize.
func NamedBarrier() Type { return NewType(spirv.OpTypeNamedBarrier, nil) }

func boolWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
