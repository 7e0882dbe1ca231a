// Package eval provides a ready-made expression evaluator for path
// walks, built on expr-lang. It satisfies the val.Evaluator contract:
// WHERE predicates and computed segments run with the current document's
// members bound as identifiers.
//
// The engine itself never depends on this package; callers inject it
// through val.Options, and hosts with their own expression language
// substitute their own evaluator.
package eval

import (
	"context"
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/quarrydb/quarry/debug"
	"github.com/quarrydb/quarry/idiom"
	"github.com/quarrydb/quarry/val"
)

// New returns an evaluator that compiles each distinct expression once
// and caches the program across calls.
func New() val.Evaluator {
	var cache sync.Map // idiom.Expr -> *vm.Program
	return func(ctx context.Context, e idiom.Expr, cur *val.Value) (*val.Value, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		prog, err := compile(&cache, e)
		if err != nil {
			return nil, err
		}
		env := environment(cur)
		out, err := expr.Run(prog, env)
		if err != nil {
			return nil, fmt.Errorf("evaluating %q: %w", e, err)
		}
		if debug.Eval() {
			debug.Logf("eval: %q -> %v\n", e, out)
		}
		return val.FromAny(out)
	}
}

func compile(cache *sync.Map, e idiom.Expr) (*vm.Program, error) {
	if cached, ok := cache.Load(e); ok {
		return cached.(*vm.Program), nil
	}
	prog, err := expr.Compile(string(e), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", e, err)
	}
	cache.Store(e, prog)
	return prog, nil
}

// environment exposes the current document to the expression: object
// members become identifiers, and "this" always names the whole value.
// A getpath helper resolves literal paths against the current document.
func environment(cur *val.Value) map[string]any {
	env := map[string]any{}
	if cur != nil && cur.Type == val.ObjectType {
		if m, ok := cur.Any().(map[string]any); ok {
			env = m
		}
	}
	env["this"] = cur.Any()
	env["getpath"] = func(path string) (any, error) {
		p, err := idiom.Parse(path)
		if err != nil {
			return nil, err
		}
		res, err := cur.Get(context.Background(), nil, p)
		if err != nil {
			return nil, err
		}
		return res.Any(), nil
	}
	return env
}
