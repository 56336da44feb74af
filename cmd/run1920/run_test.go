package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/run1920/cpu"
)

func TestHexName(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("prog.hex", hexName("prog.asm"))
	assert.Equal("dir/prog.hex", hexName("dir/prog"))
}

func writeSource(t *testing.T, lines ...string) (path string) {
	path = filepath.Join(t.TempDir(), "prog.asm")
	err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
	require.NoError(t, err)
	return
}

func TestAssembleAndRun(t *testing.T) {
	assert := assert.New(t)

	source := writeSource(t,
		"  li r1 42",
		"  halt",
	)

	err := assembleFile(source, "", false)
	require.NoError(t, err)

	image, err := os.ReadFile(hexName(source))
	require.NoError(t, err)
	assert.True(strings.HasPrefix(string(image), "RUN1920 machinecode v1\n"))

	words, err := cpu.ParseImage(strings.NewReader(string(image)))
	require.NoError(t, err)
	assert.Equal(2, len(words))

	viz := filepath.Join(t.TempDir(), "cpu.dot")
	cfg := &Config{Memory: 16, Memviz: viz}
	err = cfg.Run(context.Background(), hexName(source))
	assert.NoError(err)

	_, err = os.Stat(viz)
	assert.NoError(err)
}

func TestRunAssemble(t *testing.T) {
	source := writeSource(t,
		"  add r1 r1 1",
	)

	cfg := &Config{Memory: 16, Assemble: true, ShowRegisters: true}
	err := cfg.Run(context.Background(), source)
	assert.NoError(t, err)
}

func TestRunMissing(t *testing.T) {
	cfg := &Config{Memory: 16}
	err := cfg.Run(context.Background(), filepath.Join(t.TempDir(), "missing.hex"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
