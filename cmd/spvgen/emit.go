package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/blake3"

	"github.com/gogpu/spvgen"
	"github.com/gogpu/spvgen/spirv"
)

var errTerminalOutput = errors.New("refusing to write binary module to a terminal")

var emitCmd = &cobra.Command{
	Use:   "emit [flags] script...",
	Short: "Build SPIR-V modules from scripts",
	Long: `Emit builds every script concurrently. Each module is written next to its
script with a .spv extension unless -o names a single output ("-" for stdout).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEmit,
}

func init() {
	emitCmd.Flags().StringP("output", "o", "", "output file for a single script, - for stdout")
	emitCmd.Flags().Bool("digest", false, "print the BLAKE3-256 digest of each module")
}

type emitResult struct {
	path  string
	out   string
	words []uint32
}

func runEmit(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	digest, err := cmd.Flags().GetBool("digest")
	if err != nil {
		return fmt.Errorf("failed to get digest flag: %w", err)
	}
	if output != "" && len(args) > 1 {
		return fmt.Errorf("-o needs exactly one script, got %d", len(args))
	}
	if output == "-" && isTerminal(os.Stdout) {
		return errTerminalOutput
	}

	opts, log, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// Each build owns its context and builder.
	results := make([]emitResult, len(args))
	eg, ctx := errgroup.WithContext(cmd.Context())
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range args {
		i, path := i, path
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			words, err := spvgen.BuildFile(path, opts, log.With(zap.String("script", path)))
			if err != nil {
				return err
			}
			out := output
			if out == "" {
				out = strings.TrimSuffix(path, filepath.Ext(path)) + ".spv"
			}
			results[i] = emitResult{path: path, out: out, words: words}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	// Digests go to stderr when the module itself occupies stdout.
	var report io.Writer = cmd.OutOrStdout()
	if output == "-" {
		report = cmd.ErrOrStderr()
	}
	for _, r := range results {
		data := spirv.WordsToBytes(r.words)
		if r.out == "-" {
			if _, err := cmd.OutOrStdout().Write(data); err != nil {
				return err
			}
		} else if err := os.WriteFile(r.out, data, 0o644); err != nil {
			return err
		}
		log.Info("emitted module",
			zap.String("script", r.path),
			zap.String("output", r.out),
			zap.Int("words", len(r.words)))
		if digest {
			sum := blake3.Sum256(data)
			fmt.Fprintf(report, "%s  %s\n", hex.EncodeToString(sum[:]), r.out)
		}
	}
	return nil
}
