// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "run1920",
	Short: "RUN1920 processor simulator",
	Long: `Interpreter for the machinecode of the RUN1920 CPU, by the Radboud
University Nijmegen. Includes an assembler for RUN1920 assembly.
`,
	SilenceUsage: true,
}
