package parser

import (
	"github.com/gnana997/styco/pkg/util"
)

// getPoolSize returns the number of parsers each grammar pool may hold.
// A positive override wins; otherwise the size follows the CPU count.
func getPoolSize(override int) int {
	return util.GetOptimalPoolSizeWithOverride(override)
}
