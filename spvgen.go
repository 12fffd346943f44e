// Package spvgen builds SPIR-V binary modules from request scripts.
//
// The heavy lifting lives in the subpackages:
//   - ir      interning context for types, decorations and constants
//   - module  the module assembly model and its visitor
//   - builder sequencing API on top of a module
//   - script  TOML/msgpack request scripts replayed against a builder
//
// This package ties them together with a small TOML configuration:
//
//	opts, err := spvgen.LoadOptions("spvgen.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	words, err := spvgen.BuildFile("shader.toml", opts, nil)
package spvgen

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gogpu/spvgen/builder"
	"github.com/gogpu/spvgen/ir"
	"github.com/gogpu/spvgen/script"
	"github.com/gogpu/spvgen/spirv"
)

// ErrUnknownOption is returned by LoadOptions for keys that do not map to
// an Options field.
var ErrUnknownOption = errors.New("unknown option")

// Options configures module generation.
type Options struct {
	// Version is the target SPIR-V version as "major.minor" (default: 1.0).
	Version string `toml:"version"`

	// Generator is the registered tool id placed in the high half of the
	// header generator word.
	Generator uint32 `toml:"generator"`

	// ToolVersion is the low half of the generator word.
	ToolVersion uint32 `toml:"tool_version"`

	// DebugNames enables OpName and OpMemberName output.
	DebugNames bool `toml:"debug_names"`

	// LogLevel is a zap level name ("debug", "info", ...).
	LogLevel string `toml:"log_level"`
}

// DefaultOptions returns the options used when no config file is given.
func DefaultOptions() Options {
	return Options{
		Version:    spirv.Version1_0.String(),
		Generator:  spirv.GeneratorNumber,
		DebugNames: true,
		LogLevel:   "info",
	}
}

// LoadOptions reads a TOML config file. Fields missing from the file keep
// their DefaultOptions values.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return Options{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, fmt.Errorf("config %s: %w: %s", path, ErrUnknownOption, strings.Join(keys, ", "))
	}
	if _, err := opts.BuilderOptions(nil); err != nil {
		return Options{}, fmt.Errorf("config %s: %w", path, err)
	}
	return opts, nil
}

// GeneratorWord packs Generator and ToolVersion into the header word.
func (o Options) GeneratorWord() (uint32, error) {
	tool, err := safecast.Conv[uint16](o.Generator)
	if err != nil {
		return 0, fmt.Errorf("generator %d: %w", o.Generator, err)
	}
	version, err := safecast.Conv[uint16](o.ToolVersion)
	if err != nil {
		return 0, fmt.Errorf("tool version %d: %w", o.ToolVersion, err)
	}
	return uint32(tool)<<16 | uint32(version), nil
}

// BuilderOptions translates o into builder options. log may be nil.
func (o Options) BuilderOptions(log *zap.Logger) ([]builder.Option, error) {
	version, err := spirv.ParseVersion(o.Version)
	if err != nil {
		return nil, err
	}
	generator, err := o.GeneratorWord()
	if err != nil {
		return nil, err
	}
	return []builder.Option{
		builder.WithLogger(log),
		builder.WithVersion(version),
		builder.WithGenerator(generator),
		builder.WithDebugNames(o.DebugNames),
	}, nil
}

// Logger builds a console logger at LogLevel.
func (o Options) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(o.LogLevel)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// Build replays s into a fresh context and returns the finished words.
// log may be nil.
func Build(s *script.Script, opts Options, log *zap.Logger) ([]uint32, error) {
	if log == nil {
		log = zap.NewNop()
	}
	bopts, err := opts.BuilderOptions(log)
	if err != nil {
		return nil, err
	}
	ctx := ir.NewContext(ir.WithLogger(log))
	return script.Build(s, builder.New(ctx, bopts...))
}

// BuildFile decodes the script at path and builds it.
func BuildFile(path string, opts Options, log *zap.Logger) ([]uint32, error) {
	s, err := script.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	words, err := Build(s, opts, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return words, nil
}
