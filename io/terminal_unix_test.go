//go:build linux || darwin

package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminal_NotATerminal(t *testing.T) {
	assert := assert.New(t)

	file, err := os.Create(filepath.Join(t.TempDir(), "input"))
	require.NoError(t, err)
	defer file.Close()

	pt, err := NewTerminal(file)
	assert.Error(err)
	assert.Nil(pt)
}
