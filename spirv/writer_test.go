package spirv

import (
	"errors"
	"strings"
	"testing"
)

func TestEncode_WordCount(t *testing.T) {
	words := Encode(OpTypeVector, 7, 3, 4)

	if len(words) != 4 {
		t.Fatalf("Wrong length: got %d words, want 4", len(words))
	}
	op, count := SplitOpWord(words[0])
	if op != OpTypeVector {
		t.Errorf("Wrong opcode: got %s, want %s", op, OpTypeVector)
	}
	if count != 4 {
		t.Errorf("Word count must include the opcode word: got %d, want 4", count)
	}
	if words[0] != 4<<16|uint32(OpTypeVector) {
		t.Errorf("Wrong first word: got 0x%08X", words[0])
	}
}

func TestEncode_NoOperands(t *testing.T) {
	words := Encode(OpReturn)
	if len(words) != 1 || words[0] != 1<<16|uint32(OpReturn) {
		t.Errorf("OpReturn encoded as %v", words)
	}
}

func TestEncode_Overflow(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrWordCountOverflow) {
			t.Errorf("expected ErrWordCountOverflow panic, got %v", r)
		}
	}()
	Encode(OpTypeStruct, make([]uint32, MaxWordCount)...)
}

func TestEncodeString_Known(t *testing.T) {
	got := EncodeString("TestString")
	want := []uint32{1953719636, 1769108563, 26478}

	if len(got) != len(want) {
		t.Fatalf("Wrong length: got %d words, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestEncodeString_Padding(t *testing.T) {
	tests := []struct {
		in    string
		words int
	}{
		{"", 1},
		{"a", 1},
		{"abc", 1},
		{"abcd", 2}, // terminator needs its own word
		{"abcde", 2},
		{"GLSL.std.450", 4},
	}
	for _, tt := range tests {
		got := EncodeString(tt.in)
		if len(got) != tt.words {
			t.Errorf("EncodeString(%q): got %d words, want %d", tt.in, len(got), tt.words)
		}
		if StringWordCount(tt.in) != tt.words {
			t.Errorf("StringWordCount(%q) = %d, want %d", tt.in, StringWordCount(tt.in), tt.words)
		}
		last := got[len(got)-1]
		if last>>24 != 0 {
			t.Errorf("EncodeString(%q): last word 0x%08X is not NUL terminated", tt.in, last)
		}
	}
}

func TestDecodeString_RoundTrip(t *testing.T) {
	for _, s := range []string{"", "x", "main", "TestString", "OpenCL.DebugInfo.100", strings.Repeat("ab", 33)} {
		got, n, err := DecodeString(EncodeString(s))
		if err != nil {
			t.Fatalf("DecodeString(%q): %v", s, err)
		}
		if got != s {
			t.Errorf("round trip: got %q, want %q", got, s)
		}
		if n != StringWordCount(s) {
			t.Errorf("round trip %q consumed %d words, want %d", s, n, StringWordCount(s))
		}
	}
}

func TestDecodeString_TrailingOperands(t *testing.T) {
	words := append(EncodeString("main"), 42, 43)
	s, n, err := DecodeString(words)
	if err != nil || s != "main" || n != 2 {
		t.Errorf("got (%q, %d, %v), want (\"main\", 2, nil)", s, n, err)
	}
}

func TestDecodeString_Unterminated(t *testing.T) {
	_, _, err := DecodeString([]uint32{0x64636261})
	if !errors.Is(err, ErrMalformedString) {
		t.Errorf("expected ErrMalformedString, got %v", err)
	}
}

func TestInstructionBuilder_String(t *testing.T) {
	builder := NewInstructionBuilder()
	builder.AddWord(5).AddString("hello")

	inst := builder.Build(OpName)
	encoded := inst.Encode()

	opcode, wordCount := SplitOpWord(encoded[0])
	if opcode != OpName {
		t.Errorf("Wrong opcode: got %d, want %d", opcode, OpName)
	}
	// id + "hello\0" padded to 2 words + opcode word
	if wordCount != 4 || int(wordCount) != inst.WordCount() {
		t.Errorf("Wrong word count: got %d, want 4", wordCount)
	}
	if len(builder.words) != 0 {
		t.Error("Build should reset the builder")
	}
}

func TestBytesToWords(t *testing.T) {
	words := []uint32{MagicNumber, Version1_0.Word(), GeneratorID, 1, 0}
	data := WordsToBytes(words)
	if len(data) != 20 {
		t.Fatalf("got %d bytes, want 20", len(data))
	}
	if data[0] != 0x03 || data[3] != 0x07 {
		t.Errorf("magic not little endian: % X", data[:4])
	}
	back, err := BytesToWords(data)
	if err != nil {
		t.Fatal(err)
	}
	for i := range words {
		if back[i] != words[i] {
			t.Errorf("word %d: got 0x%08X, want 0x%08X", i, back[i], words[i])
		}
	}
	if _, err := BytesToWords(data[:7]); err == nil {
		t.Error("expected error for truncated input")
	}
}

func TestVersion(t *testing.T) {
	if Version1_3.Word() != 1<<16|3<<8 {
		t.Errorf("Version1_3.Word() = 0x%08X", Version1_3.Word())
	}
	if VersionFromWord(0x00010500) != Version1_5 {
		t.Errorf("VersionFromWord mismatch")
	}
	v, err := ParseVersion("1.4")
	if err != nil || v != Version1_4 {
		t.Errorf("ParseVersion(1.4) = %v, %v", v, err)
	}
	if _, err := ParseVersion("one"); err == nil {
		t.Error("expected error for malformed version")
	}
	if GeneratorWord(GeneratorNumber, 0) != GeneratorID {
		t.Errorf("GeneratorWord(14, 0) = 0x%08X, want 0x%08X", GeneratorWord(GeneratorNumber, 0), GeneratorID)
	}
}

func TestNames(t *testing.T) {
	if OpTypeForwardPointer.String() != "OpTypeForwardPointer" {
		t.Errorf("got %s", OpTypeForwardPointer)
	}
	if OpCode(9999).String() != "Op9999" {
		t.Errorf("unknown opcode rendered as %s", OpCode(9999))
	}
	if BuiltInFragCoord.String() != "FragCoord" {
		t.Errorf("BuiltInFragCoord = %s", BuiltInFragCoord)
	}
	op, err := ParseOpCode("OpFAdd")
	if err != nil || op != OpFAdd {
		t.Errorf("ParseOpCode(OpFAdd) = %v, %v", op, err)
	}
	c, err := ParseCapability("Shader")
	if err != nil || c != CapabilityShader {
		t.Errorf("ParseCapability(Shader) = %v, %v", c, err)
	}
	if _, err := ParseStorageClass("Nowhere"); err == nil {
		t.Error("expected error for unknown storage class")
	}
	m, ok := ExecutionModelFromProfile('p')
	if !ok || m != ExecutionModelFragment {
		t.Errorf("profile p -> %v, %v", m, ok)
	}
	if _, ok := ExecutionModelFromProfile('x'); ok {
		t.Error("profile x should not map")
	}
}
