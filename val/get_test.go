package val_test

import (
	"context"
	"errors"
	"testing"

	"github.com/quarrydb/quarry/eval"
	"github.com/quarrydb/quarry/idiom"
	"github.com/quarrydb/quarry/val"
)

func TestGet(t *testing.T) {
	opt := &val.Options{Eval: eval.New()}
	tests := []struct {
		name string
		doc  string
		path string
		want string
	}{
		{"field", `{"test":{"something":123}}`, "test.something", `123`},
		{"nested field", `{"test":{"a":{"b":{"c":"x"}}}}`, "test.a.b.c", `"x"`},
		{"index", `{"test":{"something":[123,456,789]}}`, "test.something[1]", `456`},
		{"last", `{"test":[123,456,789]}`, "test[$]", `789`},
		{"wildcard array", `{"a":[{"x":1},{"x":2}]}`, "a[*].x", `[1,2]`},
		{"flatten field over array", `{"a":[{"x":1},{"x":2}]}`, "a.x", `[1,2]`},
		{"wildcard object", `{"a":{"p":1,"q":2}}`, "a.*", `[1,2]`},
		{"where filter", `{"a":[{"age":30},{"age":40},{"age":50}]}`,
			"a[WHERE age > 35]", `[{"age":40},{"age":50}]`},
		{"where then index", `{"a":[{"age":30},{"age":40},{"age":50}]}`,
			"a[WHERE age > 35][0]", `{"age":40}`},
		{"where then field", `{"a":[{"age":30},{"age":40},{"age":50}]}`,
			"a[WHERE age > 35].age", `[40,50]`},
		{"computed index", `{"items":[10,20,30]}`, "items[1+1]", `30`},
		{"computed field", `{"obj":{"K":7}}`, `obj[upper("k")]`, `7`},
		{"destructure", `{"a":{"x":1,"y":2,"z":3}}`, "a.{x, y}", `{"x":1,"y":2}`},
		{"destructure aliased", `{"a":{"b":{"c":9}}}`, "a.{deep: b.c}", `{"deep":9}`},
		{"index on object key", `{"a":{"1":"one"}}`, "a[1]", `"one"`},
		{"quoted key", `{"a":{"person:tobie":true}}`, "a['person:tobie']", `true`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustJSON(t, tt.doc)
			got, err := doc.Get(context.Background(), opt, mustPath(t, tt.path))
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			wantEqual(t, mustJSON(t, tt.want), got)
		})
	}
}

func TestGetMisses(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
	}{
		{"missing field", `{"test":123}`, "missing"},
		{"field through scalar", `{"test":123}`, "test.deeper"},
		{"field through null", `{"test":null}`, "test.deeper"},
		{"optional short circuit", `{"c":1}`, "a?.b"},
		{"index on object", `{"a":{"x":1}}`, "a[3]"},
		{"negative index", `{"test":[1,2,3]}`, "test[-1]"},
		{"index out of range", `{"test":[1,2,3]}`, "test[9]"},
		{"last on empty array", `{"test":[]}`, "test[$]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustJSON(t, tt.doc)
			got, err := doc.Get(context.Background(), nil, mustPath(t, tt.path))
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if !got.IsNone() {
				t.Errorf("got %s, want NONE", got)
			}
		})
	}
}

func TestGetKeepsMissEntriesInWildcard(t *testing.T) {
	doc := mustJSON(t, `{"a":[{"x":1},{"y":2},{"x":3}]}`)
	got, err := doc.Get(context.Background(), nil, mustPath(t, "a[*].x"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := val.FromSlice([]*val.Value{val.FromInt(1), val.None(), val.FromInt(3)})
	wantEqual(t, want, got)
}

func TestGetIdempotent(t *testing.T) {
	doc := mustJSON(t, `{"a":[{"age":30},{"age":40}],"b":{"c":[1,2]}}`)
	opt := &val.Options{Eval: eval.New()}
	for _, path := range []string{"a[WHERE age > 35]", "b.c[*]", "a.age"} {
		p := mustPath(t, path)
		first, err := doc.Get(context.Background(), opt, p)
		if err != nil {
			t.Fatalf("get %q: %v", path, err)
		}
		second, err := doc.Get(context.Background(), opt, p)
		if err != nil {
			t.Fatalf("get %q: %v", path, err)
		}
		wantEqual(t, first, second)
	}
}

func TestGetDoesNotAliasDocument(t *testing.T) {
	doc := mustJSON(t, `{"a":{"b":[1,2,3]}}`)
	got, err := doc.Get(context.Background(), nil, mustPath(t, "a.b"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Values[0] = val.FromInt(99)
	again, err := doc.Get(context.Background(), nil, mustPath(t, "a.b[0]"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	wantEqual(t, val.FromInt(1), again)
}

func TestGetRecordFetch(t *testing.T) {
	doc := val.FromKeyVals([]val.KeyVal{{Key: "author", Val: val.FromRecord("person", "tobie")}})

	// Without a fetch capability record links stay opaque.
	got, err := doc.Get(context.Background(), nil, mustPath(t, "author.name"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsNone() {
		t.Fatalf("got %s, want NONE without fetch", got)
	}

	opt := &val.Options{
		Fetch: func(ctx context.Context, rid *val.RecordID) (*val.Value, error) {
			if rid.Table != "person" || rid.ID != "tobie" {
				return nil, errors.New("unexpected record")
			}
			return mustJSON(t, `{"name":"Tobie"}`), nil
		},
	}
	got, err = doc.Get(context.Background(), opt, mustPath(t, "author.name"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	wantEqual(t, val.FromString("Tobie"), got)
}

func TestGetEvaluatorErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	opt := &val.Options{
		Eval: func(ctx context.Context, e idiom.Expr, cur *val.Value) (*val.Value, error) {
			return nil, boom
		},
	}
	doc := mustJSON(t, `{"a":[{"x":1}]}`)
	_, err := doc.Get(context.Background(), opt, mustPath(t, "a[WHERE x > 0]"))
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want the evaluator's error", err)
	}
}

func TestGetWithoutEvaluator(t *testing.T) {
	doc := mustJSON(t, `{"a":[{"x":1}]}`)
	_, err := doc.Get(context.Background(), nil, mustPath(t, "a[WHERE x > 0]"))
	if !errors.Is(err, val.ErrNoEvaluator) {
		t.Errorf("got %v, want ErrNoEvaluator", err)
	}
}
