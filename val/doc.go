// Package val implements the document value model of the quarry engine
// and the path operations over it.
//
// # Values
//
// A Value is a recursive tagged union: scalars (null, bool, number,
// strand, duration, datetime, bytes, regex), record links, ranges,
// closures, and the two containers, array and object. Objects keep
// members in insertion order with unique string keys. Values are strict
// trees; no child is shared between parents, so mutation never needs to
// consider aliasing inside a single value.
//
// # Path operations
//
// Paths are compiled idioms (see the idiom package). The operations are:
//
//   - Get: read-only resolution, producing None for a miss and fresh
//     arrays for wildcard and filter expansion.
//   - Set: path-directed write with create-on-demand intermediates.
//   - Del: path-directed removal; array removal shifts, filter removal
//     keeps survivor order, a missing path is success.
//   - Cut: the synchronous literal-path delete used by the patcher.
//   - Patch: ordered batches of add/remove/replace/move/copy/test/change
//     edit operations addressed by slash-delimited paths.
//   - CompareAt: three-way ordering of two values at a path, for sorting.
//
// # Stack safety
//
// Path length is caller controlled, and filters can nest arbitrarily, so
// Get, Set and Del never walk by native recursion. Each step is a frame
// on an explicit heap stack driven by a trampoline, and every consumed
// segment counts against a configurable depth ceiling. Crossing the
// ceiling reports ErrDepthExceeded, a recoverable error distinct from a
// miss.
//
// # Expression evaluation
//
// WHERE predicates and computed segments are full expressions evaluated
// by an injected callback (Options.Eval); the walk suspends, awaits the
// result, and resumes. The engine never evaluates expressions itself.
// See the eval package for a ready-made evaluator.
//
// # Concurrency
//
// Values are not synchronized. Concurrent Get and CompareAt calls over
// the same value are safe; Set, Del and Patch need exclusive access,
// enforced by the caller.
package val
