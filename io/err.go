// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"errors"

	"github.com/ezrec/run1920/translate"
)

var f = translate.From

var (
	// Queue errors
	ErrQueueFull = errors.New(f("keyboard queue full"))

	// Terminal errors
	ErrTerminalUnsupported = errors.New(f("raw keyboard capture unsupported"))
)
