package cpu

// Memory arena layout. The stack arena is the top of memory, the rest
// is free for program data.
const (
	DEFAULT_MEMORY_SIZE = 1 << 20 // Default size of memory, in bytes.
	DEFAULT_STACK_SIZE  = 1 << 16 // Default size of the stack arena, in bytes.
)
