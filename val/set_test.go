package val_test

import (
	"context"
	"testing"

	"github.com/quarrydb/quarry/eval"
	"github.com/quarrydb/quarry/idiom"
	"github.com/quarrydb/quarry/val"
)

func TestSet(t *testing.T) {
	opt := &val.Options{Eval: eval.New()}
	tests := []struct {
		name  string
		doc   string
		path  string
		value string
		want  string
	}{
		{"replace member", `{"test":{"other":null,"something":123}}`,
			"test.something", `456`, `{"test":{"other":null,"something":456}}`},
		{"add member", `{"test":{"other":null}}`,
			"test.something", `123`, `{"test":{"other":null,"something":123}}`},
		{"create intermediates", `{}`,
			"a.b.c", `1`, `{"a":{"b":{"c":1}}}`},
		{"overwrite scalar intermediate", `{"a":5}`,
			"a.b", `1`, `{"a":{"b":1}}`},
		{"array element", `{"test":[123,456,789]}`,
			"test[1]", `"x"`, `{"test":[123,"x",789]}`},
		{"array element out of range", `{"test":[123]}`,
			"test[9]", `"x"`, `{"test":[123]}`},
		{"last element", `{"test":[1,2,3]}`,
			"test[$]", `9`, `{"test":[1,2,9]}`},
		{"broadcast wildcard", `{"a":[{"x":1},{"x":2}]}`,
			"a[*].x", `0`, `{"a":[{"x":0},{"x":0}]}`},
		{"broadcast whole elements", `{"a":[1,2,3]}`,
			"a[*]", `0`, `{"a":[0,0,0]}`},
		{"field over array", `{"a":[{"x":1},{"x":2}]}`,
			"a.x", `0`, `{"a":[{"x":0},{"x":0}]}`},
		{"filtered set", `{"a":[{"age":30},{"age":40},{"age":50}]}`,
			"a[WHERE age > 35].age", `0`, `{"a":[{"age":30},{"age":0},{"age":0}]}`},
		{"filtered then index", `{"a":[{"age":30},{"age":40},{"age":50}]}`,
			"a[WHERE age > 35][0].age", `0`, `{"a":[{"age":30},{"age":0},{"age":50}]}`},
		{"index keys object", `{"a":{"1":"one"}}`,
			"a[1]", `"uno"`, `{"a":{"1":"uno"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustJSON(t, tt.doc)
			err := doc.Set(context.Background(), opt, mustPath(t, tt.path), mustJSON(t, tt.value))
			if err != nil {
				t.Fatalf("set: %v", err)
			}
			wantEqual(t, mustJSON(t, tt.want), doc)
		})
	}
}

func TestSetEmptyPathReplacesValue(t *testing.T) {
	doc := mustJSON(t, `{"a":1}`)
	if err := doc.Set(context.Background(), nil, idiom.Idiom{}, val.FromInt(7)); err != nil {
		t.Fatalf("set: %v", err)
	}
	wantEqual(t, val.FromInt(7), doc)
}

func TestSetThenGetRoundTrip(t *testing.T) {
	tests := []struct {
		doc  string
		path string
	}{
		{`{}`, "a"},
		{`{}`, "a.b.c"},
		{`{"a":{"b":1}}`, "a.b"},
		{`{"a":[1,2,3]}`, "a[1]"},
		{`{"a":5}`, "a.b.c"},
	}
	value := mustJSON(t, `{"deep":[1,2,{"x":true}]}`)
	for _, tt := range tests {
		doc := mustJSON(t, tt.doc)
		path := mustPath(t, tt.path)
		if err := doc.Set(context.Background(), nil, path, value); err != nil {
			t.Fatalf("set %q: %v", tt.path, err)
		}
		got, err := doc.Get(context.Background(), nil, path)
		if err != nil {
			t.Fatalf("get %q: %v", tt.path, err)
		}
		wantEqual(t, value, got)
	}
}

// Broadcast writes place an independent copy at every target.
func TestSetBroadcastDoesNotShare(t *testing.T) {
	doc := mustJSON(t, `{"a":[{"x":1},{"x":2}]}`)
	err := doc.Set(context.Background(), nil, mustPath(t, "a[*].x"), mustJSON(t, `{"v":0}`))
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	err = doc.Set(context.Background(), nil, mustPath(t, "a[0].x.v"), val.FromInt(9))
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	wantEqual(t, mustJSON(t, `{"a":[{"x":{"v":9}},{"x":{"v":0}}]}`), doc)
}
