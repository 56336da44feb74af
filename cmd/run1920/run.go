// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"

	"github.com/bradleyjkemp/memviz"
	"github.com/spf13/cobra"

	"github.com/ezrec/run1920/cpu"
	"github.com/ezrec/run1920/emulator"
	"github.com/ezrec/run1920/translate"
)

var f = translate.From

// Config holds the run command options.
type Config struct {
	Memory        int    // Memory size in words.
	Verbose       bool   // Trace every executed instruction.
	ShowMemory    bool   // Dump memory after execution.
	ShowRegisters bool   // Dump registers after execution.
	Assemble      bool   // The input is assembly source.
	Statsview     bool   // Serve runtime statistics.
	Memviz        string // Write a graph of the final cpu state.
}

var runConfig Config

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run filename",
	Short: "Run a RUN1920 machinecode image",
	Long: `Run loads a machinecode image into memory and executes it until
the processor halts, faults, or is interrupted with Ctrl-C.
`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfig.Run(cmd.Context(), args[0])
	},
}

func init() {
	flags := runCmd.Flags()
	flags.IntVarP(&runConfig.Memory, "memory", "m", cpu.MEMORY_DEFAULT_WORDS, "size of the RAM in 4-byte words")
	flags.BoolVarP(&runConfig.Verbose, "verbose", "v", false, "print the executed assembly instructions")
	flags.BoolVar(&runConfig.ShowMemory, "show-memory", false, "print the RAM memory after execution")
	flags.BoolVar(&runConfig.ShowRegisters, "show-registers", false, "print the registers after execution")
	flags.BoolVarP(&runConfig.Assemble, "assemble", "a", false, "assemble the input file first")
	flags.BoolVar(&runConfig.Statsview, "statsview", false, "serve runtime statistics at "+STATSVIEW_ADDRESS)
	flags.StringVar(&runConfig.Memviz, "memviz", "", "write a graphviz diagram of the final cpu state")
	rootCmd.AddCommand(runCmd)
}

// Run executes filename. A processor fault or interrupt is reported,
// but is not an error.
func (cfg *Config) Run(ctx context.Context, filename string) (err error) {
	inf, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Print(f("[!] File %v not found!", filename))
		}
		return
	}
	defer inf.Close()

	kb, restore := newKeyboard(cfg.Verbose)
	defer restore()

	emu := emulator.NewEmulator(cfg.Memory, kb, os.Stdout)
	emu.Verbose = cfg.Verbose

	if cfg.Assemble {
		err = emu.Assemble(inf)
		if err != nil {
			return
		}
		log.Print(f("[!] File assembled successfully!"))
	} else {
		err = emu.Load(inf)
		if err != nil {
			return
		}
	}

	if cfg.Statsview {
		launchStatsview(os.Stderr)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	fault := emu.Run(ctx)
	restore()

	switch {
	case errors.Is(fault, cpu.ErrInterrupted):
		log.Print(f("[!] Processor interrupted!"))
	case fault != nil:
		log.Print(f("\n[!] %v", fault))
		log.Print(f("[!] Shutting down processor..."))
	}

	if cfg.ShowMemory {
		err = emu.DumpMemory(os.Stdout)
		if err != nil {
			return
		}
	}

	if cfg.ShowRegisters {
		err = emu.DumpRegisters(os.Stdout)
		if err != nil {
			return
		}
	}

	if len(cfg.Memviz) != 0 {
		err = writeMemviz(cfg.Memviz, emu)
	}

	return
}

// writeMemviz writes a graph of the emulator state.
func writeMemviz(path string, emu *emulator.Emulator) (err error) {
	ouf, err := os.Create(path)
	if err != nil {
		return
	}
	defer func() {
		cerr := ouf.Close()
		if err == nil {
			err = cerr
		}
	}()

	memviz.Map(ouf, emu.Cpu)

	return
}
