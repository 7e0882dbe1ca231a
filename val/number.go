package val

import (
	"cmp"
	"strconv"
	"strings"
)

// compareNumbers orders two number values. Mixed int/float pairs compare
// numerically; decimal-literal fallbacks compare numerically when both
// parse, and lexically otherwise.
func compareNumbers(a, b *Value) int {
	if a.Int64 != nil && b.Int64 != nil {
		return cmp.Compare(*a.Int64, *b.Int64)
	}
	af, aok := a.asFloat()
	bf, bok := b.asFloat()
	if aok && bok {
		return cmp.Compare(af, bf)
	}
	return strings.Compare(a.numberLiteral(), b.numberLiteral())
}

func (v *Value) asFloat() (float64, bool) {
	switch {
	case v.Int64 != nil:
		return float64(*v.Int64), true
	case v.Float64 != nil:
		return *v.Float64, true
	default:
		f, err := strconv.ParseFloat(v.Decimal, 64)
		return f, err == nil
	}
}

// asInt returns the integral form of a number if it has one exactly.
func (v *Value) asInt() (int64, bool) {
	switch {
	case v.Int64 != nil:
		return *v.Int64, true
	case v.Float64 != nil:
		i := int64(*v.Float64)
		return i, float64(i) == *v.Float64
	default:
		i, err := strconv.ParseInt(v.Decimal, 10, 64)
		return i, err == nil
	}
}

func (v *Value) numberLiteral() string {
	switch {
	case v.Int64 != nil:
		return strconv.FormatInt(*v.Int64, 10)
	case v.Float64 != nil:
		return strconv.FormatFloat(*v.Float64, 'g', -1, 64)
	default:
		return v.Decimal
	}
}
