package val

import (
	"fmt"

	"github.com/quarrydb/quarry/idiom"
)

var (
	// ErrDepthExceeded reports that a path walk crossed the configured
	// recursion ceiling. It is recoverable for the caller and distinct
	// from a miss, which resolves to None.
	ErrDepthExceeded = fmt.Errorf("computation depth exceeded")

	// ErrNoEvaluator reports a path containing an expression part walked
	// without an evaluator configured in Options.
	ErrNoEvaluator = fmt.Errorf("path requires expression evaluation but no evaluator is configured")

	// ErrNulByte mirrors the idiom-level constructor invariant for strand
	// and key content.
	ErrNulByte = idiom.ErrNulByte
)

// TestFailedError reports a failed patch test op. Ops applied before the
// failing test stay applied; the error surfaces after the fact.
type TestFailedError struct {
	Path string
	Want *Value
	Got  *Value
}

func (e *TestFailedError) Error() string {
	return fmt.Sprintf("patch test failed at %s: expected %s, got %s", e.Path, e.Want, e.Got)
}
