// Package script decodes module build requests and replays them against a
// builder.Builder.
//
// A script lists the module settings, types, constants, global variables,
// functions and entry points of one module. It is written in TOML or
// msgpack; both use the same field names.
//
//	[module]
//	capabilities = ["Shader"]
//	addressing = "Logical"
//	memory = "GLSL450"
//
//	[[types]]
//	name = "void"
//	op = "TypeVoid"
//
//	[[types]]
//	name = "main_t"
//	op = "TypeFunction"
//	operands = ["%void"]
//
//	[[functions]]
//	name = "main"
//	type = "%main_t"
//	return = "%void"
//
//	[[functions.blocks]]
//	label = "entry"
//	instructions = [{ op = "Return" }]
//
//	[[entry_points]]
//	function = "%main"
//	name = "main"
//	profile = "ps_6_0"
//
// Operands are integers (literal words), floats (32-bit float literals),
// booleans, "%name" references to declared symbols, "Kind.Value" enum
// names such as "StorageClass.Output", or any other string, which is
// encoded as a literal string.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrUnknownFormat   = errors.New("unknown script format")
	ErrUndefinedSymbol = errors.New("undefined symbol")
	ErrDuplicateSymbol = errors.New("duplicate symbol")
	ErrSymbolCycle     = errors.New("declaration cycle")
	ErrBadOperand      = errors.New("bad operand")
	ErrUndecodedKeys   = errors.New("unknown keys")
)

// Format selects the script encoding.
type Format uint8

const (
	FormatTOML Format = iota
	FormatMsgpack
)

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Script is one module build request.
type Script struct {
	Module      ModuleSection    `toml:"module" msgpack:"module"`
	Types       []TypeDecl       `toml:"types" msgpack:"types,omitempty"`
	Constants   []ConstantDecl   `toml:"constants" msgpack:"constants,omitempty"`
	Variables   []VariableDecl   `toml:"variables" msgpack:"variables,omitempty"`
	Functions   []FunctionDecl   `toml:"functions" msgpack:"functions,omitempty"`
	EntryPoints []EntryPointDecl `toml:"entry_points" msgpack:"entry_points,omitempty"`
}

type ModuleSection struct {
	Capabilities  []string     `toml:"capabilities" msgpack:"capabilities,omitempty"`
	Extensions    []string     `toml:"extensions" msgpack:"extensions,omitempty"`
	Imports       []ImportDecl `toml:"imports" msgpack:"imports,omitempty"`
	Addressing    string       `toml:"addressing" msgpack:"addressing,omitempty"`
	Memory        string       `toml:"memory" msgpack:"memory,omitempty"`
	Source        string       `toml:"source" msgpack:"source,omitempty"`
	SourceVersion uint32       `toml:"source_version" msgpack:"source_version,omitempty"`
	SourceFile    string       `toml:"source_file" msgpack:"source_file,omitempty"`
	Processed     []string     `toml:"processed" msgpack:"processed,omitempty"`
}

// ImportDecl imports an extended instruction set under a symbol name.
type ImportDecl struct {
	Name string `toml:"name" msgpack:"name"`
	Set  string `toml:"set" msgpack:"set"`
}

type DecorationDecl struct {
	Kind   string  `toml:"kind" msgpack:"kind"`
	Args   []any   `toml:"args" msgpack:"args,omitempty"`
	Member *uint32 `toml:"member" msgpack:"member,omitempty"`
}

// TypeDecl declares a type. Op is the opcode name with or without the
// "Op" prefix.
type TypeDecl struct {
	Name        string           `toml:"name" msgpack:"name"`
	Op          string           `toml:"op" msgpack:"op"`
	Operands    []any            `toml:"operands" msgpack:"operands,omitempty"`
	Decorations []DecorationDecl `toml:"decorations" msgpack:"decorations,omitempty"`
	MemberNames []string         `toml:"member_names" msgpack:"member_names,omitempty"`
}

type ConstantDecl struct {
	Name        string           `toml:"name" msgpack:"name"`
	Op          string           `toml:"op" msgpack:"op"`
	Type        string           `toml:"type" msgpack:"type"`
	Operands    []any            `toml:"operands" msgpack:"operands,omitempty"`
	Decorations []DecorationDecl `toml:"decorations" msgpack:"decorations,omitempty"`
}

type VariableDecl struct {
	Name        string           `toml:"name" msgpack:"name"`
	Type        string           `toml:"type" msgpack:"type"`
	Storage     string           `toml:"storage" msgpack:"storage"`
	Init        string           `toml:"init" msgpack:"init,omitempty"`
	Decorations []DecorationDecl `toml:"decorations" msgpack:"decorations,omitempty"`
}

type ParamDecl struct {
	Name string `toml:"name" msgpack:"name"`
	Type string `toml:"type" msgpack:"type"`
}

type LocalDecl struct {
	Name string `toml:"name" msgpack:"name"`
	Type string `toml:"type" msgpack:"type"`
	Init string `toml:"init" msgpack:"init,omitempty"`
}

// InstructionDecl is one instruction of a block. With Result set the
// instruction gets a fresh result id of type Type, bound to Result.
type InstructionDecl struct {
	Op       string `toml:"op" msgpack:"op"`
	Type     string `toml:"type" msgpack:"type,omitempty"`
	Result   string `toml:"result" msgpack:"result,omitempty"`
	Operands []any  `toml:"operands" msgpack:"operands,omitempty"`
}

type BlockDecl struct {
	Label        string            `toml:"label" msgpack:"label"`
	Instructions []InstructionDecl `toml:"instructions" msgpack:"instructions,omitempty"`
}

type FunctionDecl struct {
	Name    string      `toml:"name" msgpack:"name"`
	Type    string      `toml:"type" msgpack:"type"`
	Return  string      `toml:"return" msgpack:"return"`
	Control string      `toml:"control" msgpack:"control,omitempty"`
	Params  []ParamDecl `toml:"params" msgpack:"params,omitempty"`
	Locals  []LocalDecl `toml:"locals" msgpack:"locals,omitempty"`
	Blocks  []BlockDecl `toml:"blocks" msgpack:"blocks,omitempty"`
}

type ModeDecl struct {
	Mode string   `toml:"mode" msgpack:"mode"`
	Args []uint32 `toml:"args" msgpack:"args,omitempty"`
}

// EntryPointDecl names an entry point. The execution model is taken from
// Model when set, otherwise from Profile ("vs_6_0", "ps_6_0", ...).
type EntryPointDecl struct {
	Function  string     `toml:"function" msgpack:"function"`
	Name      string     `toml:"name" msgpack:"name"`
	Model     string     `toml:"model" msgpack:"model,omitempty"`
	Profile   string     `toml:"profile" msgpack:"profile,omitempty"`
	Interface []string   `toml:"interface" msgpack:"interface,omitempty"`
	Modes     []ModeDecl `toml:"modes" msgpack:"modes,omitempty"`
}

// Decode parses a script in the given format. TOML scripts with keys that
// do not map to a Script field are rejected.
func Decode(data []byte, format Format) (*Script, error) {
	var s Script
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &s)
		if err != nil {
			return nil, fmt.Errorf("script: failed to parse TOML: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("script: %w: %s", ErrUndecodedKeys, strings.Join(keys, ", "))
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
			return nil, fmt.Errorf("script: failed to decode msgpack: %w", err)
		}
	default:
		return nil, fmt.Errorf("script: %w: %d", ErrUnknownFormat, format)
	}
	return &s, nil
}

// DecodeFile reads and decodes a script, choosing the format by extension.
func DecodeFile(path string) (*Script, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Marshal encodes s as msgpack.
func Marshal(s *Script) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
