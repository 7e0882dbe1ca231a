package val

// Truth reports the truthiness used by WHERE filtering: true booleans,
// non-zero numbers and positive durations are truthy, everything else
// (including None and Null) is falsy.
func Truth(v *Value) bool {
	if v == nil {
		return false
	}
	switch v.Type {
	case BoolType:
		return v.Bool
	case NumberType:
		switch {
		case v.Int64 != nil:
			return *v.Int64 != 0
		case v.Float64 != nil:
			return *v.Float64 != 0
		default:
			return v.Decimal != "" && v.Decimal != "0"
		}
	case DurationType:
		return *v.Dur > 0
	default:
		return false
	}
}
