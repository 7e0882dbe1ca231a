// Package debug provides environment-gated debug logging for the path
// engine. Each area has its own QUARRY_DEBUG_* boolean variable so noisy
// traces can be switched on per concern.
package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Walk  bool
	Patch bool
	Eval  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Walk = boolEnv("QUARRY_DEBUG_WALK")
	d.Patch = boolEnv("QUARRY_DEBUG_PATCH")
	d.Eval = boolEnv("QUARRY_DEBUG_EVAL")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Walk() bool {
	return d.Walk
}
func Patch() bool {
	return d.Patch
}
func Eval() bool {
	return d.Eval
}

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
