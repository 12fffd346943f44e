package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gogpu/spvgen/spirv"
)

var disCmd = &cobra.Command{
	Use:   "dis [flags] module.spv",
	Short: "Disassemble a SPIR-V binary",
	Args:  cobra.ExactArgs(1),
	RunE:  runDis,
}

func init() {
	disCmd.Flags().Bool("no-color", false, "disable colored output")
}

func sprint(c *color.Color) func(string) string {
	return func(s string) string { return c.Sprint(s) }
}

var disStyle = spirv.Style{
	Opcode:  sprint(color.New(color.FgCyan, color.Bold)),
	ID:      sprint(color.New(color.FgYellow)),
	Literal: sprint(color.New(color.FgGreen)),
	Comment: sprint(color.New(color.FgHiBlack)),
}

func runDis(cmd *cobra.Command, args []string) error {
	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return fmt.Errorf("failed to get no-color flag: %w", err)
	}
	if noColor || !isTerminal(os.Stdout) {
		color.NoColor = true
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	words, err := spirv.BytesToWords(data)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	if err := spirv.Disassemble(cmd.OutOrStdout(), words, disStyle); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return nil
}
