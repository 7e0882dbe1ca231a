package val_test

import (
	"testing"

	"github.com/quarrydb/quarry/idiom"
	"github.com/quarrydb/quarry/val"
)

func mustJSON(t *testing.T, src string) *val.Value {
	t.Helper()
	v, err := val.FromJSON([]byte(src))
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return v
}

func mustPath(t *testing.T, src string) idiom.Idiom {
	t.Helper()
	p, err := idiom.Parse(src)
	if err != nil {
		t.Fatalf("parse path %q: %v", src, err)
	}
	return p
}

func wantEqual(t *testing.T, want, got *val.Value) {
	t.Helper()
	if !val.Equal(want, got) {
		t.Errorf("got %s, want %s", got, want)
	}
}
