// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"errors"

	"github.com/ezrec/ezasm/translate"
)

var f = translate.From

var (
	// Tape errors
	ErrTapeCursor = errors.New(f("tape cursor out of range"))
	ErrTapeWait   = errors.New(f("waiting for input"))
)
