// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ezasm/cpu"
)

func writeConfig(t *testing.T, text string) (path string) {
	t.Helper()

	path = filepath.Join(t.TempDir(), "ezasm.toml")
	err := os.WriteFile(path, []byte(text), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	return
}

func TestConfig_Default(t *testing.T) {
	assert := assert.New(t)

	config := DefaultConfig()
	assert.NoError(config.Validate())
	assert.Equal(uint(cpu.DEFAULT_MEMORY_SIZE), config.MemorySize)
	assert.Equal(uint(cpu.DEFAULT_STACK_SIZE), config.StackSize)
	assert.Equal(cpu.DEFAULT_HISTORY_LIMIT, config.HistoryLimit)
	assert.False(config.Verbose)
}

func TestConfig_Load(t *testing.T) {
	assert := assert.New(t)

	path := writeConfig(t, `
memory_size = 65536
history_limit = 0
`)

	config, err := LoadConfig(path)
	assert.NoError(err)
	assert.Equal(uint(65536), config.MemorySize)
	assert.Equal(uint(cpu.DEFAULT_STACK_SIZE), config.StackSize)
	assert.Equal(0, config.HistoryLimit)
}

func TestConfig_LoadErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(err, ErrConfig)
	assert.ErrorIs(err, os.ErrNotExist)

	_, err = LoadConfig(writeConfig(t, "memory_size = \"lots\"\n"))
	assert.ErrorIs(err, ErrConfig)

	_, err = LoadConfig(writeConfig(t, "memroy_size = 1024\n"))
	assert.ErrorIs(err, ErrConfig)
	assert.Equal(ErrConfigKey("memroy_size"), err)

	_, err = LoadConfig(writeConfig(t, "memory_size = 1024\n"))
	assert.ErrorIs(err, ErrConfig)
}

func TestConfig_Validate(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		config Config
		ok     bool
	}){
		{Config{MemorySize: 4096, StackSize: 1024}, true},
		{Config{MemorySize: 4096, StackSize: 4096}, true},
		{Config{MemorySize: 8, StackSize: 0}, true},
		{Config{MemorySize: 4, StackSize: 0}, false},
		{Config{MemorySize: 4096, StackSize: 8192}, false},
		{Config{MemorySize: 4096, StackSize: 1023}, false},
		{Config{MemorySize: 4096, StackSize: 1024, HistoryLimit: -1}, false},
	}

	for _, entry := range table {
		err := entry.config.Validate()
		if entry.ok {
			assert.NoError(err, entry.config)
		} else {
			assert.ErrorIs(err, ErrConfig, entry.config)
		}
	}
}
