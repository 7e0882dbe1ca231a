// Package textdiff makes and applies textual string patches in the
// familiar "@@ -a,b +c,d @@" hunk form. It backs the patch engine's
// change operation: stored documents keep the patch text, not both
// string versions.
package textdiff

import (
	"fmt"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Make produces patch text transforming from into to. The result is ""
// when the strings are equal.
func Make(from, to string) string {
	dmp := diffpatch.New()
	patches := dmp.PatchMake(from, to)
	if len(patches) == 0 {
		return ""
	}
	return dmp.PatchToText(patches)
}

// Apply applies patch text to src. Malformed hunks and hunks that do not
// match the source are errors, not silent no-ops.
func Apply(src, patch string) (string, error) {
	if patch == "" {
		return src, nil
	}
	dmp := diffpatch.New()
	patches, err := dmp.PatchFromText(patch)
	if err != nil {
		return "", fmt.Errorf("malformed text patch: %w", err)
	}
	res, applied := dmp.PatchApply(patches, src)
	for i, ok := range applied {
		if !ok {
			return "", fmt.Errorf("text patch hunk %d does not apply", i)
		}
	}
	return res, nil
}
