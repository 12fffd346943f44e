package spirv

import (
	"fmt"
	"strconv"
	"strings"
)

// Version represents a SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

// Common SPIR-V versions
var (
	Version1_0 = Version{1, 0}
	Version1_1 = Version{1, 1}
	Version1_2 = Version{1, 2}
	Version1_3 = Version{1, 3}
	Version1_4 = Version{1, 4}
	Version1_5 = Version{1, 5}
	Version1_6 = Version{1, 6}
)

// Word returns the header encoding of the version: 0 | major | minor | 0.
func (v Version) Word() uint32 {
	return (uint32(v.Major) << 16) | (uint32(v.Minor) << 8)
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// VersionFromWord decodes a header version word.
func VersionFromWord(word uint32) Version {
	return Version{Major: uint8(word >> 16), Minor: uint8(word >> 8)}
}

// ParseVersion parses "major.minor", e.g. "1.3".
func ParseVersion(s string) (Version, error) {
	major, minor, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return Version{}, fmt.Errorf("invalid SPIR-V version %q: want major.minor", s)
	}
	maj, err := strconv.ParseUint(major, 10, 8)
	if err != nil {
		return Version{}, fmt.Errorf("invalid SPIR-V version %q: %w", s, err)
	}
	mnr, err := strconv.ParseUint(minor, 10, 8)
	if err != nil {
		return Version{}, fmt.Errorf("invalid SPIR-V version %q: %w", s, err)
	}
	return Version{Major: uint8(maj), Minor: uint8(mnr)}, nil
}

// SPIR-V magic number and header constants
const (
	MagicNumber = 0x07230203

	// GeneratorNumber is the registered generator tool number written in
	// the high half of the generator word.
	GeneratorNumber = 14

	// GeneratorID is the default generator word (tool version 0).
	GeneratorID = GeneratorNumber << 16

	// HeaderWords is the size of the module header in words.
	HeaderWords = 5
)

// GeneratorWord builds a generator word from a tool number and tool version.
func GeneratorWord(tool, version uint16) uint32 {
	return uint32(tool)<<16 | uint32(version)
}

// OpCode represents a SPIR-V opcode.
type OpCode uint16

// Opcodes.
const (
	OpNop                            OpCode = 0
	OpUndef                          OpCode = 1
	OpSourceContinued                OpCode = 2
	OpSource                         OpCode = 3
	OpSourceExtension                OpCode = 4
	OpName                           OpCode = 5
	OpMemberName                     OpCode = 6
	OpString                         OpCode = 7
	OpLine                           OpCode = 8
	OpExtension                      OpCode = 10
	OpExtInstImport                  OpCode = 11
	OpExtInst                        OpCode = 12
	OpMemoryModel                    OpCode = 14
	OpEntryPoint                     OpCode = 15
	OpExecutionMode                  OpCode = 16
	OpCapability                     OpCode = 17
	OpTypeVoid                       OpCode = 19
	OpTypeBool                       OpCode = 20
	OpTypeInt                        OpCode = 21
	OpTypeFloat                      OpCode = 22
	OpTypeVector                     OpCode = 23
	OpTypeMatrix                     OpCode = 24
	OpTypeImage                      OpCode = 25
	OpTypeSampler                    OpCode = 26
	OpTypeSampledImage               OpCode = 27
	OpTypeArray                      OpCode = 28
	OpTypeRuntimeArray               OpCode = 29
	OpTypeStruct                     OpCode = 30
	OpTypeOpaque                     OpCode = 31
	OpTypePointer                    OpCode = 32
	OpTypeFunction                   OpCode = 33
	OpTypeEvent                      OpCode = 34
	OpTypeDeviceEvent                OpCode = 35
	OpTypeReserveId                  OpCode = 36
	OpTypeQueue                      OpCode = 37
	OpTypePipe                       OpCode = 38
	OpTypeForwardPointer             OpCode = 39
	OpConstantTrue                   OpCode = 41
	OpConstantFalse                  OpCode = 42
	OpConstant                       OpCode = 43
	OpConstantComposite              OpCode = 44
	OpConstantSampler                OpCode = 45
	OpConstantNull                   OpCode = 46
	OpSpecConstantTrue               OpCode = 48
	OpSpecConstantFalse              OpCode = 49
	OpSpecConstant                   OpCode = 50
	OpSpecConstantComposite          OpCode = 51
	OpSpecConstantOp                 OpCode = 52
	OpFunction                       OpCode = 54
	OpFunctionParameter              OpCode = 55
	OpFunctionEnd                    OpCode = 56
	OpFunctionCall                   OpCode = 57
	OpVariable                       OpCode = 59
	OpImageTexelPointer              OpCode = 60
	OpLoad                           OpCode = 61
	OpStore                          OpCode = 62
	OpCopyMemory                     OpCode = 63
	OpCopyMemorySized                OpCode = 64
	OpAccessChain                    OpCode = 65
	OpInBoundsAccessChain            OpCode = 66
	OpPtrAccessChain                 OpCode = 67
	OpArrayLength                    OpCode = 68
	OpGenericPtrMemSemantics         OpCode = 69
	OpInBoundsPtrAccessChain         OpCode = 70
	OpDecorate                       OpCode = 71
	OpMemberDecorate                 OpCode = 72
	OpDecorationGroup                OpCode = 73
	OpGroupDecorate                  OpCode = 74
	OpGroupMemberDecorate            OpCode = 75
	OpVectorExtractDynamic           OpCode = 77
	OpVectorInsertDynamic            OpCode = 78
	OpVectorShuffle                  OpCode = 79
	OpCompositeConstruct             OpCode = 80
	OpCompositeExtract               OpCode = 81
	OpCompositeInsert                OpCode = 82
	OpCopyObject                     OpCode = 83
	OpTranspose                      OpCode = 84
	OpSampledImage                   OpCode = 86
	OpImageSampleImplicitLod         OpCode = 87
	OpImageSampleExplicitLod         OpCode = 88
	OpImageSampleDrefImplicitLod     OpCode = 89
	OpImageSampleDrefExplicitLod     OpCode = 90
	OpImageSampleProjImplicitLod     OpCode = 91
	OpImageSampleProjExplicitLod     OpCode = 92
	OpImageSampleProjDrefImplicitLod OpCode = 93
	OpImageSampleProjDrefExplicitLod OpCode = 94
	OpImageFetch                     OpCode = 95
	OpImageGather                    OpCode = 96
	OpImageDrefGather                OpCode = 97
	OpImageRead                      OpCode = 98
	OpImageWrite                     OpCode = 99
	OpImage                          OpCode = 100
	OpImageQueryFormat               OpCode = 101
	OpImageQueryOrder                OpCode = 102
	OpImageQuerySizeLod              OpCode = 103
	OpImageQuerySize                 OpCode = 104
	OpImageQueryLod                  OpCode = 105
	OpImageQueryLevels               OpCode = 106
	OpImageQuerySamples              OpCode = 107
	OpConvertFToU                    OpCode = 109
	OpConvertFToS                    OpCode = 110
	OpConvertSToF                    OpCode = 111
	OpConvertUToF                    OpCode = 112
	OpUConvert                       OpCode = 113
	OpSConvert                       OpCode = 114
	OpFConvert                       OpCode = 115
	OpQuantizeToF16                  OpCode = 116
	OpConvertPtrToU                  OpCode = 117
	OpSatConvertSToU                 OpCode = 118
	OpSatConvertUToS                 OpCode = 119
	OpConvertUToPtr                  OpCode = 120
	OpPtrCastToGeneric               OpCode = 121
	OpGenericCastToPtr               OpCode = 122
	OpGenericCastToPtrExplicit       OpCode = 123
	OpBitcast                        OpCode = 124
	OpSNegate                        OpCode = 126
	OpFNegate                        OpCode = 127
	OpIAdd                           OpCode = 128
	OpFAdd                           OpCode = 129
	OpISub                           OpCode = 130
	OpFSub                           OpCode = 131
	OpIMul                           OpCode = 132
	OpFMul                           OpCode = 133
	OpUDiv                           OpCode = 134
	OpSDiv                           OpCode = 135
	OpFDiv                           OpCode = 136
	OpUMod                           OpCode = 137
	OpSRem                           OpCode = 138
	OpSMod                           OpCode = 139
	OpFRem                           OpCode = 140
	OpFMod                           OpCode = 141
	OpVectorTimesScalar              OpCode = 142
	OpMatrixTimesScalar              OpCode = 143
	OpVectorTimesMatrix              OpCode = 144
	OpMatrixTimesVector              OpCode = 145
	OpMatrixTimesMatrix              OpCode = 146
	OpOuterProduct                   OpCode = 147
	OpDot                            OpCode = 148
	OpIAddCarry                      OpCode = 149
	OpISubBorrow                     OpCode = 150
	OpUMulExtended                   OpCode = 151
	OpSMulExtended                   OpCode = 152
	OpAny                            OpCode = 164
	OpAll                            OpCode = 165
	OpIsNan                          OpCode = 166
	OpIsInf                          OpCode = 167
	OpIsFinite                       OpCode = 168
	OpIsNormal                       OpCode = 169
	OpSignBitSet                     OpCode = 170
	OpLessOrGreater                  OpCode = 171
	OpOrdered                        OpCode = 172
	OpUnordered                      OpCode = 173
	OpLogicalEqual                   OpCode = 174
	OpLogicalNotEqual                OpCode = 175
	OpLogicalOr                      OpCode = 176
	OpLogicalAnd                     OpCode = 177
	OpLogicalNot                     OpCode = 178
	OpSelect                         OpCode = 179
	OpIEqual                         OpCode = 180
	OpINotEqual                      OpCode = 181
	OpUGreaterThan                   OpCode = 182
	OpSGreaterThan                   OpCode = 183
	OpUGreaterThanEqual              OpCode = 184
	OpSGreaterThanEqual              OpCode = 185
	OpULessThan                      OpCode = 186
	OpSLessThan                      OpCode = 187
	OpULessThanEqual                 OpCode = 188
	OpSLessThanEqual                 OpCode = 189
	OpFOrdEqual                      OpCode = 190
	OpFUnordEqual                    OpCode = 191
	OpFOrdNotEqual                   OpCode = 192
	OpFUnordNotEqual                 OpCode = 193
	OpShiftRightLogical              OpCode = 194
	OpShiftRightArithmetic           OpCode = 195
	OpShiftLeftLogical               OpCode = 196
	OpBitwiseOr                      OpCode = 197
	OpBitwiseXor                     OpCode = 198
	OpBitwiseAnd                     OpCode = 199
	OpNot                            OpCode = 200
	OpBitFieldInsert                 OpCode = 201
	OpBitFieldSExtract               OpCode = 202
	OpBitFieldUExtract               OpCode = 203
	OpBitReverse                     OpCode = 204
	OpBitCount                       OpCode = 205
	OpDPdx                           OpCode = 207
	OpDPdy                           OpCode = 208
	OpFwidth                         OpCode = 209
	OpControlBarrier                 OpCode = 224
	OpMemoryBarrier                  OpCode = 225
	OpAtomicLoad                     OpCode = 227
	OpAtomicStore                    OpCode = 228
	OpAtomicExchange                 OpCode = 229
	OpAtomicIIncrement               OpCode = 232
	OpAtomicIAdd                     OpCode = 234
	OpPhi                            OpCode = 245
	OpLoopMerge                      OpCode = 246
	OpSelectionMerge                 OpCode = 247
	OpLabel                          OpCode = 248
	OpBranch                         OpCode = 249
	OpBranchConditional              OpCode = 250
	OpSwitch                         OpCode = 251
	OpKill                           OpCode = 252
	OpReturn                         OpCode = 253
	OpReturnValue                    OpCode = 254
	OpUnreachable                    OpCode = 255
	OpLifetimeStart                  OpCode = 256
	OpLifetimeStop                   OpCode = 257
	OpNoLine                         OpCode = 317
	OpTypePipeStorage                OpCode = 322
	OpTypeNamedBarrier               OpCode = 327
	OpModuleProcessed                OpCode = 330
	OpExecutionModeId                OpCode = 331
	OpDecorateId                     OpCode = 332
)

// Capability represents a SPIR-V capability.
type Capability uint32

// Capabilities
const (
	CapabilityMatrix                      Capability = 0
	CapabilityShader                      Capability = 1
	CapabilityGeometry                    Capability = 2
	CapabilityTessellation                Capability = 3
	CapabilityAddresses                   Capability = 4
	CapabilityLinkage                     Capability = 5
	CapabilityKernel                      Capability = 6
	CapabilityVector16                    Capability = 7
	CapabilityFloat16Buffer               Capability = 8
	CapabilityFloat16                     Capability = 9
	CapabilityFloat64                     Capability = 10
	CapabilityInt64                       Capability = 11
	CapabilityInt64Atomics                Capability = 12
	CapabilityImageBasic                  Capability = 13
	CapabilityImageReadWrite              Capability = 14
	CapabilityImageMipmap                 Capability = 15
	CapabilityPipes                       Capability = 17
	CapabilityGroups                      Capability = 18
	CapabilityDeviceEnqueue               Capability = 19
	CapabilityLiteralSampler              Capability = 20
	CapabilityAtomicStorage               Capability = 21
	CapabilityInt16                       Capability = 22
	CapabilityClipDistance                Capability = 31
	CapabilityCullDistance                Capability = 32
	CapabilityImageCubeArray              Capability = 33
	CapabilitySampleRateShading           Capability = 34
	CapabilityInt8                        Capability = 38
	CapabilityInputAttachment             Capability = 39
	CapabilitySampled1D                   Capability = 42
	CapabilityImage1D                     Capability = 43
	CapabilitySampledBuffer               Capability = 45
	CapabilityImageBuffer                 Capability = 46
	CapabilityStorageImageExtendedFormats Capability = 48
	CapabilityImageQuery                  Capability = 49
	CapabilityDerivativeControl           Capability = 50
	CapabilityNamedBarrier                Capability = 58
	CapabilityPipeStorage                 Capability = 59
	CapabilityDrawParameters              Capability = 4427
)

// AddressingModel represents a SPIR-V addressing model.
type AddressingModel uint32

// Addressing models
const (
	AddressingModelLogical                 AddressingModel = 0
	AddressingModelPhysical32              AddressingModel = 1
	AddressingModelPhysical64              AddressingModel = 2
	AddressingModelPhysicalStorageBuffer64 AddressingModel = 5348
)

// MemoryModel represents a SPIR-V memory model.
type MemoryModel uint32

// Memory models
const (
	MemoryModelSimple  MemoryModel = 0
	MemoryModelGLSL450 MemoryModel = 1
	MemoryModelOpenCL  MemoryModel = 2
	MemoryModelVulkan  MemoryModel = 3
)

// ExecutionModel represents a SPIR-V execution model.
type ExecutionModel uint32

// Execution models
const (
	ExecutionModelVertex                 ExecutionModel = 0
	ExecutionModelTessellationControl    ExecutionModel = 1
	ExecutionModelTessellationEvaluation ExecutionModel = 2
	ExecutionModelGeometry               ExecutionModel = 3
	ExecutionModelFragment               ExecutionModel = 4
	ExecutionModelGLCompute              ExecutionModel = 5
	ExecutionModelKernel                 ExecutionModel = 6
)

// ExecutionModelFromProfile maps the stage letter of a shader profile
// ("vs_6_0" -> 'v', "ps_6_0" -> 'p', ...) to an execution model.
func ExecutionModelFromProfile(stage byte) (ExecutionModel, bool) {
	switch stage {
	case 'v':
		return ExecutionModelVertex, true
	case 'h':
		return ExecutionModelTessellationControl, true
	case 'd':
		return ExecutionModelTessellationEvaluation, true
	case 'g':
		return ExecutionModelGeometry, true
	case 'p':
		return ExecutionModelFragment, true
	case 'c':
		return ExecutionModelGLCompute, true
	default:
		return 0, false
	}
}

// ExecutionMode represents a SPIR-V execution mode.
type ExecutionMode uint32

// Execution modes
const (
	ExecutionModeInvocations         ExecutionMode = 0
	ExecutionModeSpacingEqual        ExecutionMode = 1
	ExecutionModePixelCenterInteger  ExecutionMode = 6
	ExecutionModeOriginUpperLeft     ExecutionMode = 7
	ExecutionModeOriginLowerLeft     ExecutionMode = 8
	ExecutionModeEarlyFragmentTests  ExecutionMode = 9
	ExecutionModeDepthReplacing      ExecutionMode = 12
	ExecutionModeLocalSize           ExecutionMode = 17
	ExecutionModeTriangles           ExecutionMode = 22
	ExecutionModeOutputVertices      ExecutionMode = 26
	ExecutionModeOutputTriangleStrip ExecutionMode = 29
)

// StorageClass represents a SPIR-V storage class.
type StorageClass uint32

// Storage classes
const (
	StorageClassUniformConstant StorageClass = 0
	StorageClassInput           StorageClass = 1
	StorageClassUniform         StorageClass = 2
	StorageClassOutput          StorageClass = 3
	StorageClassWorkgroup       StorageClass = 4
	StorageClassCrossWorkgroup  StorageClass = 5
	StorageClassPrivate         StorageClass = 6
	StorageClassFunction        StorageClass = 7
	StorageClassGeneric         StorageClass = 8
	StorageClassPushConstant    StorageClass = 9
	StorageClassAtomicCounter   StorageClass = 10
	StorageClassImage           StorageClass = 11
	StorageClassStorageBuffer   StorageClass = 12
)

// Decoration represents a SPIR-V decoration kind.
type Decoration uint32

// Decorations
const (
	DecorationRelaxedPrecision     Decoration = 0
	DecorationSpecID               Decoration = 1
	DecorationBlock                Decoration = 2
	DecorationBufferBlock          Decoration = 3
	DecorationRowMajor             Decoration = 4
	DecorationColMajor             Decoration = 5
	DecorationArrayStride          Decoration = 6
	DecorationMatrixStride         Decoration = 7
	DecorationGLSLShared           Decoration = 8
	DecorationGLSLPacked           Decoration = 9
	DecorationCPacked              Decoration = 10
	DecorationBuiltIn              Decoration = 11
	DecorationNoPerspective        Decoration = 13
	DecorationFlat                 Decoration = 14
	DecorationPatch                Decoration = 15
	DecorationCentroid             Decoration = 16
	DecorationSample               Decoration = 17
	DecorationInvariant            Decoration = 18
	DecorationRestrict             Decoration = 19
	DecorationAliased              Decoration = 20
	DecorationVolatile             Decoration = 21
	DecorationConstant             Decoration = 22
	DecorationCoherent             Decoration = 23
	DecorationNonWritable          Decoration = 24
	DecorationNonReadable          Decoration = 25
	DecorationUniform              Decoration = 26
	DecorationSaturatedConversion  Decoration = 28
	DecorationStream               Decoration = 29
	DecorationLocation             Decoration = 30
	DecorationComponent            Decoration = 31
	DecorationIndex                Decoration = 32
	DecorationBinding              Decoration = 33
	DecorationDescriptorSet        Decoration = 34
	DecorationOffset               Decoration = 35
	DecorationXfbBuffer            Decoration = 36
	DecorationXfbStride            Decoration = 37
	DecorationFuncParamAttr        Decoration = 38
	DecorationFPRoundingMode       Decoration = 39
	DecorationFPFastMathMode       Decoration = 40
	DecorationLinkageAttributes    Decoration = 41
	DecorationNoContraction        Decoration = 42
	DecorationInputAttachmentIndex Decoration = 43
	DecorationAlignment            Decoration = 44
)

// BuiltIn represents a SPIR-V built-in variable.
type BuiltIn uint32

// Built-ins
const (
	BuiltInPosition             BuiltIn = 0
	BuiltInPointSize            BuiltIn = 1
	BuiltInClipDistance         BuiltIn = 3
	BuiltInCullDistance         BuiltIn = 4
	BuiltInPrimitiveID          BuiltIn = 7
	BuiltInInvocationID         BuiltIn = 8
	BuiltInLayer                BuiltIn = 9
	BuiltInViewportIndex        BuiltIn = 10
	BuiltInTessLevelOuter       BuiltIn = 11
	BuiltInTessLevelInner       BuiltIn = 12
	BuiltInTessCoord            BuiltIn = 13
	BuiltInPatchVertices        BuiltIn = 14
	BuiltInFragCoord            BuiltIn = 15
	BuiltInPointCoord           BuiltIn = 16
	BuiltInFrontFacing          BuiltIn = 17
	BuiltInSampleID             BuiltIn = 18
	BuiltInSamplePosition       BuiltIn = 19
	BuiltInSampleMask           BuiltIn = 20
	BuiltInFragDepth            BuiltIn = 22
	BuiltInHelperInvocation     BuiltIn = 23
	BuiltInNumWorkgroups        BuiltIn = 24
	BuiltInWorkgroupSize        BuiltIn = 25
	BuiltInWorkgroupID          BuiltIn = 26
	BuiltInLocalInvocationID    BuiltIn = 27
	BuiltInGlobalInvocationID   BuiltIn = 28
	BuiltInLocalInvocationIndex BuiltIn = 29
	BuiltInVertexIndex          BuiltIn = 42
	BuiltInInstanceIndex        BuiltIn = 43
)

// Dim is the dimensionality of an image.
type Dim uint32

// Image dimensionalities
const (
	Dim1D          Dim = 0
	Dim2D          Dim = 1
	Dim3D          Dim = 2
	DimCube        Dim = 3
	DimRect        Dim = 4
	DimBuffer      Dim = 5
	DimSubpassData Dim = 6
)

// ImageFormat is the texel format of a storage image.
type ImageFormat uint32

// Image formats (subset)
const (
	ImageFormatUnknown ImageFormat = 0
	ImageFormatRgba32f ImageFormat = 1
	ImageFormatRgba16f ImageFormat = 2
	ImageFormatR32f    ImageFormat = 3
	ImageFormatRgba8   ImageFormat = 4
	ImageFormatR32ui   ImageFormat = 33
)

// AccessQualifier restricts image and pipe access.
type AccessQualifier uint32

// Access qualifiers
const (
	AccessQualifierReadOnly  AccessQualifier = 0
	AccessQualifierWriteOnly AccessQualifier = 1
	AccessQualifierReadWrite AccessQualifier = 2
)

// SamplerAddressingMode is the addressing mode of a literal sampler.
type SamplerAddressingMode uint32

// Sampler addressing modes
const (
	SamplerAddressingModeNone           SamplerAddressingMode = 0
	SamplerAddressingModeClampToEdge    SamplerAddressingMode = 1
	SamplerAddressingModeClamp          SamplerAddressingMode = 2
	SamplerAddressingModeRepeat         SamplerAddressingMode = 3
	SamplerAddressingModeRepeatMirrored SamplerAddressingMode = 4
)

// SamplerFilterMode is the filter mode of a literal sampler.
type SamplerFilterMode uint32

// Sampler filter modes
const (
	SamplerFilterModeNearest SamplerFilterMode = 0
	SamplerFilterModeLinear  SamplerFilterMode = 1
)

// FunctionControl is the function control mask of OpFunction.
type FunctionControl uint32

// Function control bits
const (
	FunctionControlNone       FunctionControl = 0
	FunctionControlInline     FunctionControl = 1
	FunctionControlDontInline FunctionControl = 2
	FunctionControlPure       FunctionControl = 4
	FunctionControlConst      FunctionControl = 8
)

// SelectionControl is the control mask of OpSelectionMerge.
type SelectionControl uint32

// Selection control bits
const (
	SelectionControlNone        SelectionControl = 0
	SelectionControlFlatten     SelectionControl = 1
	SelectionControlDontFlatten SelectionControl = 2
)

// LoopControl is the control mask of OpLoopMerge.
type LoopControl uint32

// Loop control bits
const (
	LoopControlNone       LoopControl = 0
	LoopControlUnroll     LoopControl = 1
	LoopControlDontUnroll LoopControl = 2
)

// SourceLanguage identifies the source language in OpSource.
type SourceLanguage uint32

// Source languages
const (
	SourceLanguageUnknown   SourceLanguage = 0
	SourceLanguageESSL      SourceLanguage = 1
	SourceLanguageGLSL      SourceLanguage = 2
	SourceLanguageOpenCLC   SourceLanguage = 3
	SourceLanguageOpenCLCPP SourceLanguage = 4
	SourceLanguageHLSL      SourceLanguage = 5
)
