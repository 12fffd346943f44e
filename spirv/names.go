package spirv

import "fmt"

// Name tables used by String methods, the disassembler and the Parse*
// helpers. Keys follow the SPIR-V unified grammar.

var opcodeNames = map[OpCode]string{
	OpNop:                            "OpNop",
	OpUndef:                          "OpUndef",
	OpSourceContinued:                "OpSourceContinued",
	OpSource:                         "OpSource",
	OpSourceExtension:                "OpSourceExtension",
	OpName:                           "OpName",
	OpMemberName:                     "OpMemberName",
	OpString:                         "OpString",
	OpLine:                           "OpLine",
	OpExtension:                      "OpExtension",
	OpExtInstImport:                  "OpExtInstImport",
	OpExtInst:                        "OpExtInst",
	OpMemoryModel:                    "OpMemoryModel",
	OpEntryPoint:                     "OpEntryPoint",
	OpExecutionMode:                  "OpExecutionMode",
	OpCapability:                     "OpCapability",
	OpTypeVoid:                       "OpTypeVoid",
	OpTypeBool:                       "OpTypeBool",
	OpTypeInt:                        "OpTypeInt",
	OpTypeFloat:                      "OpTypeFloat",
	OpTypeVector:                     "OpTypeVector",
	OpTypeMatrix:                     "OpTypeMatrix",
	OpTypeImage:                      "OpTypeImage",
	OpTypeSampler:                    "OpTypeSampler",
	OpTypeSampledImage:               "OpTypeSampledImage",
	OpTypeArray:                      "OpTypeArray",
	OpTypeRuntimeArray:               "OpTypeRuntimeArray",
	OpTypeStruct:                     "OpTypeStruct",
	OpTypeOpaque:                     "OpTypeOpaque",
	OpTypePointer:                    "OpTypePointer",
	OpTypeFunction:                   "OpTypeFunction",
	OpTypeEvent:                      "OpTypeEvent",
	OpTypeDeviceEvent:                "OpTypeDeviceEvent",
	OpTypeReserveId:                  "OpTypeReserveId",
	OpTypeQueue:                      "OpTypeQueue",
	OpTypePipe:                       "OpTypePipe",
	OpTypeForwardPointer:             "OpTypeForwardPointer",
	OpConstantTrue:                   "OpConstantTrue",
	OpConstantFalse:                  "OpConstantFalse",
	OpConstant:                       "OpConstant",
	OpConstantComposite:              "OpConstantComposite",
	OpConstantSampler:                "OpConstantSampler",
	OpConstantNull:                   "OpConstantNull",
	OpSpecConstantTrue:               "OpSpecConstantTrue",
	OpSpecConstantFalse:              "OpSpecConstantFalse",
	OpSpecConstant:                   "OpSpecConstant",
	OpSpecConstantComposite:          "OpSpecConstantComposite",
	OpSpecConstantOp:                 "OpSpecConstantOp",
	OpFunction:                       "OpFunction",
	OpFunctionParameter:              "OpFunctionParameter",
	OpFunctionEnd:                    "OpFunctionEnd",
	OpFunctionCall:                   "OpFunctionCall",
	OpVariable:                       "OpVariable",
	OpImageTexelPointer:              "OpImageTexelPointer",
	OpLoad:                           "OpLoad",
	OpStore:                          "OpStore",
	OpCopyMemory:                     "OpCopyMemory",
	OpCopyMemorySized:                "OpCopyMemorySized",
	OpAccessChain:                    "OpAccessChain",
	OpInBoundsAccessChain:            "OpInBoundsAccessChain",
	OpPtrAccessChain:                 "OpPtrAccessChain",
	OpArrayLength:                    "OpArrayLength",
	OpGenericPtrMemSemantics:         "OpGenericPtrMemSemantics",
	OpInBoundsPtrAccessChain:         "OpInBoundsPtrAccessChain",
	OpDecorate:                       "OpDecorate",
	OpMemberDecorate:                 "OpMemberDecorate",
	OpDecorationGroup:                "OpDecorationGroup",
	OpGroupDecorate:                  "OpGroupDecorate",
	OpGroupMemberDecorate:            "OpGroupMemberDecorate",
	OpVectorExtractDynamic:           "OpVectorExtractDynamic",
	OpVectorInsertDynamic:            "OpVectorInsertDynamic",
	OpVectorShuffle:                  "OpVectorShuffle",
	OpCompositeConstruct:             "OpCompositeConstruct",
	OpCompositeExtract:               "OpCompositeExtract",
	OpCompositeInsert:                "OpCompositeInsert",
	OpCopyObject:                     "OpCopyObject",
	OpTranspose:                      "OpTranspose",
	OpSampledImage:                   "OpSampledImage",
	OpImageSampleImplicitLod:         "OpImageSampleImplicitLod",
	OpImageSampleExplicitLod:         "OpImageSampleExplicitLod",
	OpImageSampleDrefImplicitLod:     "OpImageSampleDrefImplicitLod",
	OpImageSampleDrefExplicitLod:     "OpImageSampleDrefExplicitLod",
	OpImageSampleProjImplicitLod:     "OpImageSampleProjImplicitLod",
	OpImageSampleProjExplicitLod:     "OpImageSampleProjExplicitLod",
	OpImageSampleProjDrefImplicitLod: "OpImageSampleProjDrefImplicitLod",
	OpImageSampleProjDrefExplicitLod: "OpImageSampleProjDrefExplicitLod",
	OpImageFetch:                     "OpImageFetch",
	OpImageGather:                    "OpImageGather",
	OpImageDrefGather:                "OpImageDrefGather",
	OpImageRead:                      "OpImageRead",
	OpImageWrite:                     "OpImageWrite",
	OpImage:                          "OpImage",
	OpImageQueryFormat:               "OpImageQueryFormat",
	OpImageQueryOrder:                "OpImageQueryOrder",
	OpImageQuerySizeLod:              "OpImageQuerySizeLod",
	OpImageQuerySize:                 "OpImageQuerySize",
	OpImageQueryLod:                  "OpImageQueryLod",
	OpImageQueryLevels:               "OpImageQueryLevels",
	OpImageQuerySamples:              "OpImageQuerySamples",
	OpConvertFToU:                    "OpConvertFToU",
	OpConvertFToS:                    "OpConvertFToS",
	OpConvertSToF:                    "OpConvertSToF",
	OpConvertUToF:                    "OpConvertUToF",
	OpUConvert:                       "OpUConvert",
	OpSConvert:                       "OpSConvert",
	OpFConvert:                       "OpFConvert",
	OpQuantizeToF16:                  "OpQuantizeToF16",
	OpConvertPtrToU:                  "OpConvertPtrToU",
	OpSatConvertSToU:                 "OpSatConvertSToU",
	OpSatConvertUToS:                 "OpSatConvertUToS",
	OpConvertUToPtr:                  "OpConvertUToPtr",
	OpPtrCastToGeneric:               "OpPtrCastToGeneric",
	OpGenericCastToPtr:               "OpGenericCastToPtr",
	OpGenericCastToPtrExplicit:       "OpGenericCastToPtrExplicit",
	OpBitcast:                        "OpBitcast",
	OpSNegate:                        "OpSNegate",
	OpFNegate:                        "OpFNegate",
	OpIAdd:                           "OpIAdd",
	OpFAdd:                           "OpFAdd",
	OpISub:                           "OpISub",
	OpFSub:                           "OpFSub",
	OpIMul:                           "OpIMul",
	OpFMul:                           "OpFMul",
	OpUDiv:                           "OpUDiv",
	OpSDiv:                           "OpSDiv",
	OpFDiv:                           "OpFDiv",
	OpUMod:                           "OpUMod",
	OpSRem:                           "OpSRem",
	OpSMod:                           "OpSMod",
	OpFRem:                           "OpFRem",
	OpFMod:                           "OpFMod",
	OpVectorTimesScalar:              "OpVectorTimesScalar",
	OpMatrixTimesScalar:              "OpMatrixTimesScalar",
	OpVectorTimesMatrix:              "OpVectorTimesMatrix",
	OpMatrixTimesVector:              "OpMatrixTimesVector",
	OpMatrixTimesMatrix:              "OpMatrixTimesMatrix",
	OpOuterProduct:                   "OpOuterProduct",
	OpDot:                            "OpDot",
	OpIAddCarry:                      "OpIAddCarry",
	OpISubBorrow:                     "OpISubBorrow",
	OpUMulExtended:                   "OpUMulExtended",
	OpSMulExtended:                   "OpSMulExtended",
	OpAny:                            "OpAny",
	OpAll:                            "OpAll",
	OpIsNan:                          "OpIsNan",
	OpIsInf:                          "OpIsInf",
	OpIsFinite:                       "OpIsFinite",
	OpIsNormal:                       "OpIsNormal",
	OpSignBitSet:                     "OpSignBitSet",
	OpLessOrGreater:                  "OpLessOrGreater",
	OpOrdered:                        "OpOrdered",
	OpUnordered:                      "OpUnordered",
	OpLogicalEqual:                   "OpLogicalEqual",
	OpLogicalNotEqual:                "OpLogicalNotEqual",
	OpLogicalOr:                      "OpLogicalOr",
	OpLogicalAnd:                     "OpLogicalAnd",
	OpLogicalNot:                     "OpLogicalNot",
	OpSelect:                         "OpSelect",
	OpIEqual:                         "OpIEqual",
	OpINotEqual:                      "OpINotEqual",
	OpUGreaterThan:                   "OpUGreaterThan",
	OpSGreaterThan:                   "OpSGreaterThan",
	OpUGreaterThanEqual:              "OpUGreaterThanEqual",
	OpSGreaterThanEqual:              "OpSGreaterThanEqual",
	OpULessThan:                      "OpULessThan",
	OpSLessThan:                      "OpSLessThan",
	OpULessThanEqual:                 "OpULessThanEqual",
	OpSLessThanEqual:                 "OpSLessThanEqual",
	OpFOrdEqual:                      "OpFOrdEqual",
	OpFUnordEqual:                    "OpFUnordEqual",
	OpFOrdNotEqual:                   "OpFOrdNotEqual",
	OpFUnordNotEqual:                 "OpFUnordNotEqual",
	OpShiftRightLogical:              "OpShiftRightLogical",
	OpShiftRightArithmetic:           "OpShiftRightArithmetic",
	OpShiftLeftLogical:               "OpShiftLeftLogical",
	OpBitwiseOr:                      "OpBitwiseOr",
	OpBitwiseXor:                     "OpBitwiseXor",
	OpBitwiseAnd:                     "OpBitwiseAnd",
	OpNot:                            "OpNot",
	OpBitFieldInsert:                 "OpBitFieldInsert",
	OpBitFieldSExtract:               "OpBitFieldSExtract",
	OpBitFieldUExtract:               "OpBitFieldUExtract",
	OpBitReverse:                     "OpBitReverse",
	OpBitCount:                       "OpBitCount",
	OpDPdx:                           "OpDPdx",
	OpDPdy:                           "OpDPdy",
	OpFwidth:                         "OpFwidth",
	OpControlBarrier:                 "OpControlBarrier",
	OpMemoryBarrier:                  "OpMemoryBarrier",
	OpAtomicLoad:                     "OpAtomicLoad",
	OpAtomicStore:                    "OpAtomicStore",
	OpAtomicExchange:                 "OpAtomicExchange",
	OpAtomicIIncrement:               "OpAtomicIIncrement",
	OpAtomicIAdd:                     "OpAtomicIAdd",
	OpPhi:                            "OpPhi",
	OpLoopMerge:                      "OpLoopMerge",
	OpSelectionMerge:                 "OpSelectionMerge",
	OpLabel:                          "OpLabel",
	OpBranch:                         "OpBranch",
	OpBranchConditional:              "OpBranchConditional",
	OpSwitch:                         "OpSwitch",
	OpKill:                           "OpKill",
	OpReturn:                         "OpReturn",
	OpReturnValue:                    "OpReturnValue",
	OpUnreachable:                    "OpUnreachable",
	OpLifetimeStart:                  "OpLifetimeStart",
	OpLifetimeStop:                   "OpLifetimeStop",
	OpNoLine:                         "OpNoLine",
	OpTypePipeStorage:                "OpTypePipeStorage",
	OpTypeNamedBarrier:               "OpTypeNamedBarrier",
	OpModuleProcessed:                "OpModuleProcessed",
	OpExecutionModeId:                "OpExecutionModeId",
	OpDecorateId:                     "OpDecorateId",
}

var capabilityNames = map[Capability]string{
	0: "Matrix", 1: "Shader", 2: "Geometry", 3: "Tessellation",
	4: "Addresses", 5: "Linkage", 6: "Kernel", 7: "Vector16",
	8: "Float16Buffer", 9: "Float16", 10: "Float64", 11: "Int64",
	12: "Int64Atomics", 13: "ImageBasic", 14: "ImageReadWrite", 15: "ImageMipmap",
	17: "Pipes", 18: "Groups", 19: "DeviceEnqueue", 20: "LiteralSampler",
	21: "AtomicStorage", 22: "Int16", 23: "TessellationPointSize", 24: "GeometryPointSize",
	25: "ImageGatherExtended", 26: "StorageImageMultisample", 27: "UniformBufferArrayDynamicIndexing", 28: "SampledImageArrayDynamicIndexing",
	29: "StorageBufferArrayDynamicIndexing", 30: "StorageImageArrayDynamicIndexing", 31: "ClipDistance", 32: "CullDistance",
	33: "ImageCubeArray", 34: "SampleRateShading", 35: "ImageRect", 36: "SampledRect",
	37: "GenericPointer", 38: "Int8", 39: "InputAttachment", 40: "SparseResidency",
	41: "MinLod", 42: "Sampled1D", 43: "Image1D", 44: "SampledCubeArray",
	45: "SampledBuffer", 46: "ImageBuffer", 47: "ImageMSArray", 48: "StorageImageExtendedFormats",
	49: "ImageQuery", 50: "DerivativeControl", 51: "InterpolationFunction", 52: "TransformFeedback",
	53: "GeometryStreams", 54: "StorageImageReadWithoutFormat", 55: "StorageImageWriteWithoutFormat", 56: "MultiViewport",
	57: "SubgroupDispatch", 58: "NamedBarrier", 59: "PipeStorage", 60: "GroupNonUniform",
	61: "GroupNonUniformVote", 62: "GroupNonUniformArithmetic", 63: "GroupNonUniformBallot", 64: "GroupNonUniformShuffle",
	65: "GroupNonUniformShuffleRelative", 66: "GroupNonUniformClustered", 67: "GroupNonUniformQuad", 4423: "SubgroupBallotKHR",
	4427: "DrawParameters", 4437: "StorageBuffer16BitAccess", 4438: "UniformAndStorageBuffer16BitAccess", 4439: "StoragePushConstant16",
	4440: "StorageInputOutput16", 4441: "DeviceGroup", 4442: "MultiView", 4445: "VariablePointersStorageBuffer",
	4446: "VariablePointers", 5009: "StencilExportEXT", 5010: "SampleMaskPostDepthCoverage", 5013: "ShaderNonUniform",
	5015: "RuntimeDescriptorArray", 5016: "InputAttachmentArrayDynamicIndexing", 5017: "UniformTexelBufferArrayDynamicIndexing", 5018: "StorageTexelBufferArrayDynamicIndexing",
	5019: "UniformBufferArrayNonUniformIndexing",
}

var storageClassNames = map[StorageClass]string{
	0: "UniformConstant", 1: "Input", 2: "Uniform", 3: "Output",
	4: "Workgroup", 5: "CrossWorkgroup", 6: "Private", 7: "Function",
	8: "Generic", 9: "PushConstant", 10: "AtomicCounter", 11: "Image",
	12: "StorageBuffer",
}

var decorationNames = map[Decoration]string{
	0: "RelaxedPrecision", 1: "SpecId", 2: "Block", 3: "BufferBlock",
	4: "RowMajor", 5: "ColMajor", 6: "ArrayStride", 7: "MatrixStride",
	8: "GLSLShared", 9: "GLSLPacked", 10: "CPacked", 11: "BuiltIn",
	13: "NoPerspective", 14: "Flat", 15: "Patch", 16: "Centroid",
	17: "Sample", 18: "Invariant", 19: "Restrict", 20: "Aliased",
	21: "Volatile", 22: "Constant", 23: "Coherent", 24: "NonWritable",
	25: "NonReadable", 26: "Uniform", 28: "SaturatedConversion", 29: "Stream",
	30: "Location", 31: "Component", 32: "Index", 33: "Binding",
	34: "DescriptorSet", 35: "Offset", 36: "XfbBuffer", 37: "XfbStride",
	38: "FuncParamAttr", 39: "FPRoundingMode", 40: "FPFastMathMode", 41: "LinkageAttributes",
	42: "NoContraction", 43: "InputAttachmentIndex", 44: "Alignment",
}

var builtInNames = map[BuiltIn]string{
	0: "Position", 1: "PointSize", 3: "ClipDistance", 4: "CullDistance",
	5: "VertexId", 6: "InstanceId", 7: "PrimitiveId", 8: "InvocationId",
	9: "Layer", 10: "ViewportIndex", 11: "TessLevelOuter", 12: "TessLevelInner",
	13: "TessCoord", 14: "PatchVertices", 15: "FragCoord", 16: "PointCoord",
	17: "FrontFacing", 18: "SampleId", 19: "SamplePosition", 20: "SampleMask",
	22: "FragDepth", 23: "HelperInvocation", 24: "NumWorkgroups", 25: "WorkgroupSize",
	26: "WorkgroupId", 27: "LocalInvocationId", 28: "GlobalInvocationId", 29: "LocalInvocationIndex",
	30: "WorkDim", 31: "GlobalSize", 32: "EnqueuedWorkgroupSize", 33: "GlobalOffset",
	34: "GlobalLinearId", 36: "SubgroupSize", 37: "SubgroupMaxSize", 38: "NumSubgroups",
	39: "NumEnqueuedSubgroups", 40: "SubgroupId", 41: "SubgroupLocalInvocationId", 42: "VertexIndex",
	43: "InstanceIndex",
}

var executionModeNames = map[ExecutionMode]string{
	0: "Invocations", 1: "SpacingEqual", 2: "SpacingFractionalEven", 3: "SpacingFractionalOdd",
	4: "VertexOrderCw", 5: "VertexOrderCcw", 6: "PixelCenterInteger", 7: "OriginUpperLeft",
	8: "OriginLowerLeft", 9: "EarlyFragmentTests", 10: "PointMode", 11: "Xfb",
	12: "DepthReplacing", 14: "DepthGreater", 15: "DepthLess", 16: "DepthUnchanged",
	17: "LocalSize", 18: "LocalSizeHint", 19: "InputPoints", 20: "InputLines",
	21: "InputLinesAdjacency", 22: "Triangles", 23: "InputTrianglesAdjacency", 24: "Quads",
	25: "Isolines", 26: "OutputVertices", 27: "OutputPoints", 28: "OutputLineStrip",
	29: "OutputTriangleStrip", 30: "VecTypeHint", 31: "ContractionOff", 33: "Initializer",
	34: "Finalizer", 35: "SubgroupSize", 36: "SubgroupsPerWorkgroup",
}

var executionModelNames = map[ExecutionModel]string{
	0: "Vertex", 1: "TessellationControl", 2: "TessellationEvaluation", 3: "Geometry",
	4: "Fragment", 5: "GLCompute", 6: "Kernel",
}

var dimNames = map[Dim]string{
	0: "1D", 1: "2D", 2: "3D", 3: "Cube",
	4: "Rect", 5: "Buffer", 6: "SubpassData",
}

var addressingModelNames = map[AddressingModel]string{
	0: "Logical", 1: "Physical32", 2: "Physical64", 5348: "PhysicalStorageBuffer64",
}

var memoryModelNames = map[MemoryModel]string{
	0: "Simple", 1: "GLSL450", 2: "OpenCL", 3: "Vulkan",
}

var sourceLanguageNames = map[SourceLanguage]string{
	0: "Unknown", 1: "ESSL", 2: "GLSL", 3: "OpenCL_C",
	4: "OpenCL_CPP", 5: "HLSL",
}

var functionControlNames = map[FunctionControl]string{
	0: "None", 1: "Inline", 2: "DontInline", 4: "Pure",
	8: "Const",
}

var accessQualifierNames = map[AccessQualifier]string{
	0: "ReadOnly", 1: "WriteOnly", 2: "ReadWrite",
}

var samplerAddressingModeNames = map[SamplerAddressingMode]string{
	0: "None", 1: "ClampToEdge", 2: "Clamp", 3: "Repeat",
	4: "RepeatMirrored",
}

var samplerFilterModeNames = map[SamplerFilterMode]string{
	0: "Nearest", 1: "Linear",
}

func (op OpCode) String() string {
	if s, ok := opcodeNames[op]; ok {
		return s
	}
	return fmt.Sprintf("Op%d", uint16(op))
}

func (c Capability) String() string { return enumName(capabilityNames, c) }
func (s StorageClass) String() string { return enumName(storageClassNames, s) }
func (d Decoration) String() string { return enumName(decorationNames, d) }
func (b BuiltIn) String() string { return enumName(builtInNames, b) }
func (m ExecutionMode) String() string { return enumName(executionModeNames, m) }
func (m ExecutionModel) String() string { return enumName(executionModelNames, m) }
func (d Dim) String() string { return enumName(dimNames, d) }
func (m AddressingModel) String() string { return enumName(addressingModelNames, m) }
func (m MemoryModel) String() string { return enumName(memoryModelNames, m) }
func (l SourceLanguage) String() string { return enumName(sourceLanguageNames, l) }
func (c FunctionControl) String() string { return enumName(functionControlNames, c) }
func (q AccessQualifier) String() string { return enumName(accessQualifierNames, q) }
func (m SamplerAddressingMode) String() string { return enumName(samplerAddressingModeNames, m) }
func (m SamplerFilterMode) String() string { return enumName(samplerFilterModeNames, m) }

func enumName[T ~uint32](names map[T]string, v T) string {
	if s, ok := names[v]; ok {
		return s
	}
	return fmt.Sprintf("%d", uint32(v))
}

func parseEnum[T ~uint32](kind string, names map[T]string, s string) (T, error) {
	for v, name := range names {
		if name == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}

// ParseOpCode looks up an opcode by its grammar name ("OpFAdd").
func ParseOpCode(s string) (OpCode, error) {
	for op, name := range opcodeNames {
		if name == s {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown opcode %q", s)
}

// ParseCapability looks up a capability by name ("Shader").
func ParseCapability(s string) (Capability, error) {
	return parseEnum("capability", capabilityNames, s)
}

// ParseStorageClass looks up a storage class by name ("Output").
func ParseStorageClass(s string) (StorageClass, error) {
	return parseEnum("storage class", storageClassNames, s)
}

// ParseDecoration looks up a decoration kind by name ("Location").
func ParseDecoration(s string) (Decoration, error) {
	return parseEnum("decoration", decorationNames, s)
}

// ParseBuiltIn looks up a built-in by name ("Position").
func ParseBuiltIn(s string) (BuiltIn, error) {
	return parseEnum("built-in", builtInNames, s)
}

// ParseExecutionMode looks up an execution mode by name.
func ParseExecutionMode(s string) (ExecutionMode, error) {
	return parseEnum("execution mode", executionModeNames, s)
}

// ParseExecutionModel looks up an execution model by name ("Fragment").
func ParseExecutionModel(s string) (ExecutionModel, error) {
	return parseEnum("execution model", executionModelNames, s)
}

// ParseAddressingModel looks up an addressing model by name.
func ParseAddressingModel(s string) (AddressingModel, error) {
	return parseEnum("addressing model", addressingModelNames, s)
}

// ParseMemoryModel looks up a memory model by name.
func ParseMemoryModel(s string) (MemoryModel, error) {
	return parseEnum("memory model", memoryModelNames, s)
}

// ParseSourceLanguage looks up a source language by name ("HLSL").
func ParseSourceLanguage(s string) (SourceLanguage, error) {
	return parseEnum("source language", sourceLanguageNames, s)
}

// ParseDim looks up an image dimensionality by name ("2D").
func ParseDim(s string) (Dim, error) {
	return parseEnum("dim", dimNames, s)
}

// ParseFunctionControl looks up a function control bit by name ("Inline").
func ParseFunctionControl(s string) (FunctionControl, error) {
	return parseEnum("function control", functionControlNames, s)
}

func ParseAccessQualifier(s string) (AccessQualifier, error) {
	return parseEnum("access qualifier", accessQualifierNames, s)
}

func ParseSamplerAddressingMode(s string) (SamplerAddressingMode, error) {
	return parseEnum("sampler addressing mode", samplerAddressingModeNames, s)
}

func ParseSamplerFilterMode(s string) (SamplerFilterMode, error) {
	return parseEnum("sampler filter mode", samplerFilterModeNames, s)
}
