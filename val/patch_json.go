package val

import (
	"context"
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
)

// PatchJSON decodes a JSON-encoded patch batch and applies it. The wire
// shape is validated by the JSON-Patch decoder before any op is
// translated into the engine's patch semantics; the change op rides along
// as an extension the decoder passes through untouched.
func (v *Value) PatchJSON(ctx context.Context, opt *Options, data []byte) error {
	patch, err := jsonpatch.DecodePatch(data)
	if err != nil {
		return fmt.Errorf("invalid patch document: %w", err)
	}
	ops := make([]*Value, 0, len(patch))
	for i, op := range patch {
		one := NewObject()
		for _, key := range []string{"op", "path", "from", "value"} {
			raw, ok := op[key]
			if !ok || raw == nil {
				continue
			}
			dec, err := rawToValue(*raw)
			if err != nil {
				return fmt.Errorf("patch op %d: bad %q: %w", i, key, err)
			}
			one.SetField(key, dec)
		}
		ops = append(ops, one)
	}
	return v.Patch(ctx, opt, FromSlice(ops))
}

func rawToValue(raw json.RawMessage) (*Value, error) {
	return FromJSON(raw)
}
