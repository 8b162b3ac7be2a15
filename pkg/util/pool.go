package util

import "runtime"

// GetOptimalPoolSize returns how many tree-sitter parsers a single grammar
// pool may hold.
//
// Formula: min(max(runtime.NumCPU(), 2), 16)
//
// A refactoring invocation parses one document, so the pool only needs to
// cover concurrent MCP tool calls and the scan command's workers.
func GetOptimalPoolSize() int {
	poolSize := runtime.NumCPU()

	if poolSize < 2 {
		poolSize = 2
	}
	if poolSize > 16 {
		poolSize = 16
	}

	return poolSize
}

// GetOptimalPoolSizeWithOverride returns pool size with optional override.
//
// If override > 0, uses override value (for testing/tuning).
// Otherwise, uses GetOptimalPoolSize().
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
