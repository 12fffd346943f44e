package spvgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gogpu/spvgen/spirv"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spvgen.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	word, err := opts.GeneratorWord()
	require.NoError(t, err)
	require.Equal(t, uint32(spirv.GeneratorID), word)

	log, err := opts.Logger()
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestLoadOptions(t *testing.T) {
	path := writeConfig(t, `
version = "1.3"
tool_version = 7
debug_names = false
`)
	opts, err := LoadOptions(path)
	require.NoError(t, err)
	require.Equal(t, "1.3", opts.Version)
	require.False(t, opts.DebugNames)
	require.Equal(t, uint32(spirv.GeneratorNumber), opts.Generator, "default kept")
	require.Equal(t, "info", opts.LogLevel)

	word, err := opts.GeneratorWord()
	require.NoError(t, err)
	require.Equal(t, uint32(spirv.GeneratorID|7), word)
}

func TestLoadOptionsErrors(t *testing.T) {
	_, err := LoadOptions(writeConfig(t, "verison = \"1.3\"\n"))
	require.ErrorIs(t, err, ErrUnknownOption)
	require.Contains(t, err.Error(), "verison")

	_, err = LoadOptions(writeConfig(t, "version = \"one\"\n"))
	require.Error(t, err)

	_, err = LoadOptions(writeConfig(t, "tool_version = 70000\n"))
	require.Error(t, err)

	_, err = LoadOptions(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = DefaultOptions().BuilderOptions(nil)
	require.NoError(t, err)
	bad := DefaultOptions()
	bad.LogLevel = "loud"
	_, err = bad.Logger()
	require.Error(t, err)
}

func TestBuildFile(t *testing.T) {
	opts := DefaultOptions()
	opts.Version = "1.3"
	opts.ToolVersion = 2

	words, err := BuildFile("script/testdata/fragment.toml", opts, zaptest.NewLogger(t))
	require.NoError(t, err)

	header, err := spirv.ReadHeader(words)
	require.NoError(t, err)
	require.Equal(t, spirv.Version1_3, header.Version)
	require.Equal(t, uint32(spirv.GeneratorID|2), header.Generator)
	require.Zero(t, header.Schema)

	insts, err := spirv.ReadInstructions(words)
	require.NoError(t, err)
	var maxID uint32
	for _, inst := range insts {
		if inst.Opcode == spirv.OpName {
			maxID = max(maxID, inst.Operands[0])
		}
	}
	require.Less(t, maxID, header.Bound)
}

func TestBuildFileDebugNames(t *testing.T) {
	opts := DefaultOptions()
	opts.DebugNames = false

	words, err := BuildFile("script/testdata/fragment.toml", opts, nil)
	require.NoError(t, err)
	insts, err := spirv.ReadInstructions(words)
	require.NoError(t, err)
	for _, inst := range insts {
		require.NotEqual(t, spirv.OpName, inst.Opcode)
	}
}

func TestBuildFileErrors(t *testing.T) {
	_, err := BuildFile("script/testdata/missing.toml", DefaultOptions(), nil)
	require.ErrorIs(t, err, os.ErrNotExist)

	opts := DefaultOptions()
	opts.Version = "x"
	_, err = BuildFile("script/testdata/fragment.toml", opts, nil)
	require.Error(t, err)
}
