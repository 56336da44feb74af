package io

import (
	"bytes"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type errReader struct{}

func (errReader) Read(p []byte) (int, error) {
	return 0, errors.New("broken")
}

func TestBuffered_Empty(t *testing.T) {
	assert := assert.New(t)

	kb := NewBuffered(strings.NewReader(""), false)
	<-kb.Done()

	assert.Equal(uint8(0), kb.ReadCharacter())
	assert.NoError(kb.Err())
}

func TestBuffered_ReadCharacter(t *testing.T) {
	assert := assert.New(t)

	kb := NewBuffered(strings.NewReader("hi!"), false)
	<-kb.Done()

	assert.Equal(uint8('h'), kb.ReadCharacter())
	assert.Equal(uint8('i'), kb.ReadCharacter())
	assert.Equal(uint8('!'), kb.ReadCharacter())
	assert.Equal(uint8(0), kb.ReadCharacter())
}

func TestBuffered_Error(t *testing.T) {
	assert := assert.New(t)

	kb := NewBuffered(errReader{}, false)
	<-kb.Done()

	assert.Error(kb.Err())
	assert.Equal(uint8(0), kb.ReadCharacter())
}

func TestBuffered_Pending(t *testing.T) {
	assert := assert.New(t)

	// The reader never delivers a byte.
	kb := NewBuffered(blockedReader{}, false)

	assert.Equal(uint8(0), kb.ReadCharacter())
}

type blockedReader struct{}

func (blockedReader) Read(p []byte) (int, error) {
	select {}
}

func TestBlocking_ReadCharacter(t *testing.T) {
	assert := assert.New(t)

	kb := &Blocking{Input: bytes.NewReader([]byte{'x', 'y'})}

	assert.Equal(uint8('x'), kb.ReadCharacter())
	assert.Equal(uint8('y'), kb.ReadCharacter())
	assert.Equal(uint8(0), kb.ReadCharacter())
}

func TestBlocking_NoInput(t *testing.T) {
	assert := assert.New(t)

	kb := &Blocking{}
	assert.Equal(uint8(0), kb.ReadCharacter())
}

func TestBuffered_DropVerbose(t *testing.T) {
	assert := assert.New(t)

	var logged bytes.Buffer
	log.SetOutput(&logged)
	defer log.SetOutput(os.Stderr)

	input := strings.Repeat("x", QUEUE_DEFAULT_CAPACITY) + "!"
	kb := NewBuffered(strings.NewReader(input), true)
	<-kb.Done()

	assert.True(kb.Verbose)
	assert.Equal(QUEUE_DEFAULT_CAPACITY, kb.Queue.Len())
	assert.Contains(logged.String(), "keyboard: drop 0x21")
}
