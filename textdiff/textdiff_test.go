package textdiff_test

import (
	"testing"

	"github.com/quarrydb/quarry/textdiff"
)

func TestMakeApplyRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
	}{
		{"insert", "hello world", "hello there, world"},
		{"delete", "one two three", "one three"},
		{"replace", "the quick brown fox", "the slow brown dog"},
		{"from empty", "", "fresh content"},
		{"to empty", "gone soon", ""},
		{"multiline", "line a\nline b\nline c\n", "line a\nline B\nline c\nline d\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch := textdiff.Make(tt.from, tt.to)
			got, err := textdiff.Apply(tt.from, patch)
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			if got != tt.to {
				t.Errorf("applied = %q, want %q", got, tt.to)
			}
		})
	}
}

func TestMakeEqualStringsIsEmpty(t *testing.T) {
	if patch := textdiff.Make("same", "same"); patch != "" {
		t.Errorf("patch = %q, want empty", patch)
	}
	got, err := textdiff.Apply("same", "")
	if err != nil {
		t.Fatal(err)
	}
	if got != "same" {
		t.Errorf("empty patch changed the source to %q", got)
	}
}

func TestApplyMismatchFails(t *testing.T) {
	patch := textdiff.Make("the original sentence here", "the changed sentence here")
	if _, err := textdiff.Apply("completely unrelated text", patch); err == nil {
		t.Fatal("mismatched source must not apply")
	}
}

func TestApplyMalformedFails(t *testing.T) {
	if _, err := textdiff.Apply("src", "not a patch"); err == nil {
		t.Fatal("malformed patch text must error")
	}
}
