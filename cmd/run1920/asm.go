// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezrec/run1920/asm"
	"github.com/ezrec/run1920/emulator"
)

var asmOutput string
var asmVerbose bool

// asmCmd represents the asm command
var asmCmd = &cobra.Command{
	Use:   "asm sourceFile",
	Short: "Assemble RUN1920 assembly into a machinecode image",
	Long: `Asm assembles a RUN1920 assembly source file into a machinecode
image. By default the image is written next to the source, with a
.hex extension.
`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return assembleFile(args[0], asmOutput, asmVerbose)
	},
}

func init() {
	asmCmd.Flags().StringVarP(&asmOutput, "output", "o", "", "machinecode image to write")
	asmCmd.Flags().BoolVarP(&asmVerbose, "verbose", "v", false, "log each assembled line")
	rootCmd.AddCommand(asmCmd)
}

// hexName returns the default image name for a source file.
func hexName(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + ".hex"
}

func assembleFile(source string, output string, verbose bool) (err error) {
	inf, err := os.Open(source)
	if err != nil {
		return
	}
	defer inf.Close()

	assembler := &asm.Assembler{Verbose: verbose}
	assembler.PredefineAll(emulator.NewEmulator(0, nil, nil).Defines())

	prog, err := assembler.Parse(inf)
	if err != nil {
		return
	}

	if len(output) == 0 {
		output = hexName(source)
	}

	ouf, err := os.Create(output)
	if err != nil {
		return
	}
	defer func() {
		cerr := ouf.Close()
		if err == nil {
			err = cerr
		}
	}()

	err = prog.Marshal(ouf)
	if err != nil {
		return
	}

	log.Print(f("[!] File assembled successfully!"))

	return
}
