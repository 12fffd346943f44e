// Package spirv is the SPIR-V wire layer: enumerants, instruction word
// encoding, binary reading and a text disassembler.
//
// SPIR-V is the standard intermediate language for GPU shaders,
// used by Vulkan, OpenCL, and other APIs.
//
// # Encoding
//
// Every instruction starts with a word holding the word count in the high
// half and the opcode in the low half. Encode builds one instruction:
//
//	words := spirv.Encode(spirv.OpCapability, uint32(spirv.CapabilityShader))
//
// Literal strings are UTF-8, NUL terminated and zero padded to a word
// boundary (EncodeString, DecodeString). Binaries are little-endian
// (WordsToBytes, BytesToWords).
//
// # Reading
//
// ReadHeader and ReadInstructions split a binary into its header and
// instructions; Disassemble prints them as .spvasm-like text:
//
//	if err := spirv.Disassemble(os.Stdout, words, spirv.Style{}); err != nil {
//		log.Fatal(err)
//	}
//
// # SPIR-V Structure
//
// SPIR-V modules consist of:
//   - Header (magic, version, generator, bound, schema)
//   - Capabilities (required features)
//   - Extensions (optional extensions)
//   - Extended instruction imports (GLSL.std.450, etc.)
//   - Memory model (addressing and memory model)
//   - Entry points (shader entry functions)
//   - Execution modes (shader configuration)
//   - Debug information (names, source info)
//   - Annotations (decorations)
//   - Types and constants
//   - Global variables
//   - Functions (code)
//
// The module package assembles instructions in this order.
//
// # References
//
// SPIR-V Specification: https://registry.khronos.org/SPIR-V/specs/unified1/SPIRV.html
package spirv
