package val

import (
	"github.com/goccy/go-yaml"
)

// FromYAML decodes a YAML document into a value.
func FromYAML(data []byte) (*Value, error) {
	var x any
	if err := yaml.Unmarshal(data, &x); err != nil {
		return nil, err
	}
	return FromAny(normalizeYAML(x))
}

// YAML encodes the value through its plain-data form.
func (v *Value) YAML() ([]byte, error) {
	return yaml.Marshal(v.Any())
}

// normalizeYAML rewrites map[any]any keys, which some YAML shapes
// produce, into string-keyed maps.
func normalizeYAML(x any) any {
	switch x := x.(type) {
	case map[any]any:
		res := make(map[string]any, len(x))
		for k, v := range x {
			if ks, ok := k.(string); ok {
				res[ks] = normalizeYAML(v)
			}
		}
		return res
	case map[string]any:
		for k, v := range x {
			x[k] = normalizeYAML(v)
		}
		return x
	case []any:
		for i, v := range x {
			x[i] = normalizeYAML(v)
		}
		return x
	default:
		return x
	}
}
