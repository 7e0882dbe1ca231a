package eval_test

import (
	"context"
	"testing"

	"github.com/quarrydb/quarry/eval"
	"github.com/quarrydb/quarry/idiom"
	"github.com/quarrydb/quarry/val"
)

func doc(t *testing.T, src string) *val.Value {
	t.Helper()
	v, err := val.FromJSON([]byte(src))
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return v
}

func TestEvaluator(t *testing.T) {
	ev := eval.New()
	tests := []struct {
		name string
		cur  string
		expr idiom.Expr
		want string
	}{
		{"member access", `{"age":40}`, "age > 35", "true"},
		{"member arithmetic", `{"a":2,"b":3}`, "a + b", "5"},
		{"this names the whole value", `{"n":7}`, "this.n * 2", "14"},
		{"string function", `{"k":"name"}`, "upper(k)", `"NAME"`},
		{"undefined member is nil", `{"a":1}`, "missing == nil", "true"},
		{"getpath", `{"a":{"b":[10,20]}}`, `getpath("a.b[1]")`, "20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ev(context.Background(), tt.expr, doc(t, tt.cur))
			if err != nil {
				t.Fatalf("eval: %v", err)
			}
			if want := doc(t, tt.want); !val.Equal(want, got) {
				t.Errorf("result = %s, want %s", got, want)
			}
		})
	}
}

func TestEvaluatorFiltersArrays(t *testing.T) {
	document := doc(t, `{"users":[{"name":"ann","age":20},{"name":"bob","age":41}]}`)
	opt := &val.Options{Eval: eval.New()}
	path, err := idiom.Parse("users[WHERE age > 35].name")
	if err != nil {
		t.Fatal(err)
	}
	got, err := document.Get(context.Background(), opt, path)
	if err != nil {
		t.Fatal(err)
	}
	if want := doc(t, `["bob"]`); !val.Equal(want, got) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestEvaluatorCompileError(t *testing.T) {
	ev := eval.New()
	if _, err := ev(context.Background(), "1 +", doc(t, `{}`)); err == nil {
		t.Fatal("want a compile error")
	}
}

func TestEvaluatorCancelledContext(t *testing.T) {
	ev := eval.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ev(ctx, "1 + 1", doc(t, `{}`)); err == nil {
		t.Fatal("want a context error")
	}
}

// The same expression must keep working across calls against differently
// shaped documents; the cache holds compiled programs, not environments.
func TestEvaluatorCacheReuse(t *testing.T) {
	ev := eval.New()
	for _, cur := range []string{`{"x":1}`, `{"x":10}`, `{"y":3}`} {
		got, err := ev(context.Background(), "x != nil && x > 5", doc(t, cur))
		if err != nil {
			t.Fatalf("eval against %s: %v", cur, err)
		}
		want := cur == `{"x":10}`
		if val.Truth(got) != want {
			t.Errorf("against %s got %s, want %v", cur, got, want)
		}
	}
}
