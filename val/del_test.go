package val_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/quarrydb/quarry/eval"
	"github.com/quarrydb/quarry/idiom"
	"github.com/quarrydb/quarry/val"
)

func TestDel(t *testing.T) {
	opt := &val.Options{Eval: eval.New()}
	tests := []struct {
		name string
		doc  string
		path string
		want string
	}{
		{"object member", `{"test":{"other":null,"something":123}}`,
			"test.something", `{"test":{"other":null}}`},
		{"array element shifts", `{"test":{"something":[123,456,789]}}`,
			"test.something[1]", `{"test":{"something":[123,789]}}`},
		{"last element", `{"test":[1,2,3]}`,
			"test[$]", `{"test":[1,2]}`},
		{"clear array", `{"test":[1,2,3]}`,
			"test[*]", `{"test":[]}`},
		{"missing path is success", `{"test":123}`,
			"other.deep", `{"test":123}`},
		{"where removes matches", `{"a":[{"age":30},{"age":40},{"age":50}]}`,
			"a[WHERE age > 35]", `{"a":[{"age":30}]}`},
		{"where then index removes from filtered subset",
			`{"a":[{"age":30},{"age":40},{"age":50}]}`,
			"a[WHERE age > 35][0]", `{"a":[{"age":30},{"age":50}]}`},
		{"where then field", `{"a":[{"age":30,"x":1},{"age":40,"x":2}]}`,
			"a[WHERE age > 35].x", `{"a":[{"age":30,"x":1},{"age":40}]}`},
		{"field over array", `{"a":[{"x":1,"y":2},{"x":3}]}`,
			"a.x", `{"a":[{"y":2},{}]}`},
		{"record-shaped key is a string key", `{"test":{"person:tobie":true,"other":1}}`,
			"test['person:tobie']", `{"test":{"other":1}}`},
		{"no ancestor collapse", `{"a":{"b":{"c":1}}}`,
			"a.b.c", `{"a":{"b":{}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustJSON(t, tt.doc)
			if err := doc.Del(context.Background(), opt, mustPath(t, tt.path)); err != nil {
				t.Fatalf("del: %v", err)
			}
			want := mustJSON(t, tt.want)
			if !val.Equal(want, doc) {
				t.Errorf("mismatch (-want +got):\n%s", cmp.Diff(want.Any(), doc.Any()))
			}
		})
	}
}

func TestDelEmptyPathResets(t *testing.T) {
	doc := mustJSON(t, `{"a":1}`)
	if err := doc.Del(context.Background(), nil, idiom.Idiom{}); err != nil {
		t.Fatalf("del: %v", err)
	}
	if !doc.IsNone() {
		t.Errorf("got %s, want NONE", doc)
	}
}

// For every resolvable path, deleting it makes a subsequent get a miss.
func TestDelThenGet(t *testing.T) {
	// Array-index paths are excluded: removal shifts later elements into
	// the deleted position, so the path may legitimately resolve again.
	paths := []string{"a.b", "a.c", "d"}
	for _, path := range paths {
		doc := mustJSON(t, `{"a":{"b":1,"c":[1,2,3]},"d":true}`)
		p := mustPath(t, path)
		before, err := doc.Get(context.Background(), nil, p)
		if err != nil {
			t.Fatalf("get %q: %v", path, err)
		}
		if before.IsNone() {
			t.Fatalf("path %q should resolve before del", path)
		}
		if err := doc.Del(context.Background(), nil, p); err != nil {
			t.Fatalf("del %q: %v", path, err)
		}
		after, err := doc.Get(context.Background(), nil, p)
		if err != nil {
			t.Fatalf("get %q after del: %v", path, err)
		}
		if !after.IsNone() {
			t.Errorf("path %q resolves to %s after del, want NONE", path, after)
		}
	}
}
