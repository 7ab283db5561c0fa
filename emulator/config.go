// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/ezasm/cpu"
)

// Config is the emulator configuration.
type Config struct {
	MemorySize   uint `toml:"memory_size"`   // Memory size, in bytes.
	StackSize    uint `toml:"stack_size"`    // Stack arena size, in bytes.
	HistoryLimit int  `toml:"history_limit"` // Undo depth, or 0 for unlimited.
	Verbose      bool `toml:"verbose"`       // Verbose logging.
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MemorySize:   cpu.DEFAULT_MEMORY_SIZE,
		StackSize:    cpu.DEFAULT_STACK_SIZE,
		HistoryLimit: cpu.DEFAULT_HISTORY_LIMIT,
	}
}

// LoadConfig reads a TOML configuration file. Keys missing from the
// file keep their default values.
func LoadConfig(path string) (config Config, err error) {
	config = DefaultConfig()

	md, err := toml.DecodeFile(path, &config)
	if err != nil {
		err = errors.Join(ErrConfig, err)
		return
	}

	for _, key := range md.Undecoded() {
		err = ErrConfigKey(key.String())
		return
	}

	err = config.Validate()
	return
}

// Validate checks that the configuration describes a usable machine.
func (config Config) Validate() (err error) {
	switch {
	case config.MemorySize < uint(cpu.WORD_SIZE):
		err = errors.Join(ErrConfig, errors.New(f("memory_size %d is too small", config.MemorySize)))
	case config.StackSize > config.MemorySize:
		err = errors.Join(ErrConfig, errors.New(f("stack_size %d is larger than memory_size %d", config.StackSize, config.MemorySize)))
	case config.StackSize%uint(cpu.WORD_SIZE) != 0:
		err = errors.Join(ErrConfig, errors.New(f("stack_size %d is not a multiple of %d", config.StackSize, cpu.WORD_SIZE)))
	case config.HistoryLimit < 0:
		err = errors.Join(ErrConfig, errors.New(f("history_limit %d is negative", config.HistoryLimit)))
	}
	return
}
