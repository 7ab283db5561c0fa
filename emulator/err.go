// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"

	"github.com/ezrec/ezasm/translate"
)

var f = translate.From

var (
	ErrRunning    = errors.New(f("emulator is running"))
	ErrNotRunning = errors.New(f("emulator is not running"))
	ErrNotPaused  = errors.New(f("emulator is not paused"))
	ErrNoHistory  = errors.New(f("no history to step back"))
	ErrNoProgram  = errors.New(f("no program loaded"))
	ErrConfig     = errors.New(f("invalid configuration"))
)

// ErrConfigKey reports an unknown key in a configuration file.
type ErrConfigKey string

func (err ErrConfigKey) Error() string {
	return f("unknown configuration key '%v'", string(err))
}

func (err ErrConfigKey) Is(target error) bool {
	return target == ErrConfig
}
