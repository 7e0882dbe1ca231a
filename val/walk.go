package val

import (
	"context"

	"github.com/quarrydb/quarry/debug"
	"github.com/quarrydb/quarry/idiom"
)

// DefaultMaxDepth bounds path-walk recursion when Options does not set a
// ceiling. The ceiling is a property of the path being walked, not of the
// document: an over-long path fails even when the document is empty.
const DefaultMaxDepth = 120

// Evaluator evaluates an embedded path expression with cur bound as the
// current document. WHERE predicates and computed segments suspend the
// walk here; the evaluator may itself read other data and must honor ctx.
type Evaluator func(ctx context.Context, expr idiom.Expr, cur *Value) (*Value, error)

// FetchFunc dereferences a record link on behalf of the navigator. It is
// an explicit capability: without it record links are opaque leaf values.
type FetchFunc func(ctx context.Context, rid *RecordID) (*Value, error)

// Options configures a path operation. The zero value and nil are both
// valid: no evaluator, no record fetching, default depth ceiling.
type Options struct {
	// MaxDepth overrides DefaultMaxDepth when positive.
	MaxDepth int

	// Eval runs WHERE predicates and computed segments.
	Eval Evaluator

	// Fetch, when set, lets field access descend through record links.
	Fetch FetchFunc
}

func (o *Options) maxDepth() int {
	if o == nil || o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

func (o *Options) fetch() FetchFunc {
	if o == nil {
		return nil
	}
	return o.Fetch
}

// frame is one suspended step of a path walk. Frames live on the walker's
// explicit stack, so traversal depth is bounded by the configured ceiling
// rather than by the goroutine stack. A step call either pushes a child
// frame, finishes with an output value, or transitions internally.
type frame interface {
	step(w *walker, sub *Value) (child frame, out *Value, done bool, err error)
}

// walker trampolines frames until the root frame completes.
type walker struct {
	ctx   context.Context
	opt   *Options
	stack []frame
}

func (w *walker) run(root frame) (*Value, error) {
	w.stack = append(w.stack[:0], root)
	var sub *Value
	for len(w.stack) > 0 {
		if err := w.ctx.Err(); err != nil {
			return nil, err
		}
		top := w.stack[len(w.stack)-1]
		child, out, done, err := top.step(w, sub)
		sub = nil
		switch {
		case err != nil:
			return nil, err
		case child != nil:
			w.stack = append(w.stack, child)
		case done:
			w.stack = w.stack[:len(w.stack)-1]
			sub = out
		}
	}
	return sub, nil
}

// descend accounts for one consumed path part. Depth is counted even when
// the current value is a miss, so the ceiling triggers on path length
// alone.
func (w *walker) descend(depth int) (int, error) {
	depth++
	if depth > w.opt.maxDepth() {
		if debug.Walk() {
			debug.Logf("walk: depth ceiling %d crossed\n", w.opt.maxDepth())
		}
		return depth, ErrDepthExceeded
	}
	return depth, nil
}

// evalExpr is the walk's suspension point for sub-expression evaluation.
func (w *walker) evalExpr(expr idiom.Expr, cur *Value) (*Value, error) {
	if w.opt == nil || w.opt.Eval == nil {
		return nil, ErrNoEvaluator
	}
	if debug.Eval() {
		debug.Logf("walk: eval %q against %s\n", expr, cur)
	}
	res, err := w.opt.Eval(w.ctx, expr, cur)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = None()
	}
	return res, nil
}

// partFromValue routes a computed segment result: numbers address by
// index, anything else addresses by its string form as a field.
func partFromValue(v *Value) idiom.Part {
	if v.Type == NumberType {
		if i, ok := v.asInt(); ok {
			return idiom.Index(int(i))
		}
	}
	if v.Type == StrandType {
		return idiom.Field(v.Strand)
	}
	return idiom.Field(v.String())
}
