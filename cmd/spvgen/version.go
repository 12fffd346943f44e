package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gogpu/spvgen/spirv"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		name := color.New(color.FgCyan, color.Bold).Sprint("spvgen")
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (SPIR-V %s..%s, generator %d)\n",
			name, version, spirv.Version1_0, spirv.Version1_6, spirv.GeneratorNumber)
	},
}
