package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"lukechampine.com/blake3"
)

const fragmentScript = "../../script/testdata/fragment.toml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEmitAndDisassemble(t *testing.T) {
	spv := filepath.Join(t.TempDir(), "fragment.spv")

	out, err := execute(t, "emit", "--log-level", "error", "--digest", "-o", spv, fragmentScript)
	require.NoError(t, err)

	data, err := os.ReadFile(spv)
	require.NoError(t, err)
	require.Equal(t, []byte{0x03, 0x02, 0x23, 0x07}, data[:4])
	sum := blake3.Sum256(data)
	require.Equal(t, hex.EncodeToString(sum[:])+"  "+spv+"\n", out)

	out, err = execute(t, "dis", "--no-color", spv)
	require.NoError(t, err)
	require.Contains(t, out, "; SPIR-V")
	require.Contains(t, out, "OpEntryPoint")
	require.Contains(t, out, "OpFunctionEnd")
	require.NotContains(t, out, "\x1b[")
}

func TestEmitErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "emit", "-o", filepath.Join(dir, "x.spv"), fragmentScript, fragmentScript)
	require.ErrorContains(t, err, "exactly one script")

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[[types]]\nname = \"v\"\nop = \"TypeVector\"\noperands = [\"%f\", 4]\n"), 0o600))
	_, err = execute(t, "emit", "-o", filepath.Join(dir, "bad.spv"), "--log-level", "error", bad)
	require.ErrorContains(t, err, "undefined symbol")
	_, statErr := os.Stat(filepath.Join(dir, "bad.spv"))
	require.ErrorIs(t, statErr, os.ErrNotExist)

	_, err = execute(t, "dis", filepath.Join(dir, "missing.spv"))
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(strings.TrimSpace(out), "spvgen"), out)
	require.Contains(t, out, "generator 14")
}
