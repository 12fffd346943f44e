// Command spvgen builds SPIR-V modules from request scripts and prints
// disassembly listings.
//
// Usage:
//
//	spvgen emit [-o out.spv] [--config spvgen.toml] [--digest] script.toml...
//	spvgen dis [--no-color] module.spv
//	spvgen version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/gogpu/spvgen"
)

// version is overridden at link time.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "spvgen",
	Short:         "SPIR-V module builder",
	Long:          `spvgen replays TOML or msgpack module scripts into SPIR-V binaries`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(emitCmd)
	rootCmd.AddCommand(disCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("config", "", "TOML options file")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error), overrides the config")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "spvgen: %v\n", err)
		os.Exit(1)
	}
}

// loadOptions reads --config and applies --log-level on top of it.
func loadOptions(cmd *cobra.Command) (spvgen.Options, *zap.Logger, error) {
	flags := cmd.Root().PersistentFlags()
	path, err := flags.GetString("config")
	if err != nil {
		return spvgen.Options{}, nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	opts := spvgen.DefaultOptions()
	if path != "" {
		if opts, err = spvgen.LoadOptions(path); err != nil {
			return spvgen.Options{}, nil, err
		}
	}
	if flags.Changed("log-level") {
		if opts.LogLevel, err = flags.GetString("log-level"); err != nil {
			return spvgen.Options{}, nil, fmt.Errorf("failed to get log-level flag: %w", err)
		}
	}
	log, err := opts.Logger()
	if err != nil {
		return spvgen.Options{}, nil, fmt.Errorf("log level %q: %w", opts.LogLevel, err)
	}
	return opts, log, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
