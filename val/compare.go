package val

import (
	"bytes"
	"cmp"
	"context"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/quarrydb/quarry/idiom"
)

// Compare returns an integer ordering two values: 0 if a == b, -1 if
// a < b, +1 if a > b. The order is total: values of different variants
// order by variant rank, with None ranking below everything present.
func Compare(a, b *Value) int {
	return compareValues(a, b, false, false)
}

// Equal reports structural equality, as used by patch test ops.
func Equal(a, b *Value) bool {
	return Compare(a, b) == 0
}

// CompareAt resolves path against both values and orders the results.
// A value missing at the path sorts below any present value; two misses
// are equal. Arrays produced by wildcard or filter expansion compare
// element-wise with a shorter-sorts-less tie-break. The numeric flag
// switches strings to natural (digit-aware) ordering and collate to
// locale collation. The second result is false only when the two values
// are fundamentally incomparable, such as a path that would need
// expression evaluation to resolve.
func CompareAt(a, b *Value, path idiom.Idiom, numeric, collate bool) (int, bool) {
	av, err := a.Get(context.Background(), nil, path)
	if err != nil {
		return 0, false
	}
	bv, err := b.Get(context.Background(), nil, path)
	if err != nil {
		return 0, false
	}
	return compareValues(av, bv, numeric, collate), true
}

func compareValues(a, b *Value, numeric, coll bool) int {
	ra, rb := compareRank(a), compareRank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	if a.IsNone() {
		return 0
	}
	switch a.Type {
	case NullType:
		return 0
	case BoolType:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	case NumberType:
		return compareNumbers(a, b)
	case StrandType:
		return compareStrings(a.Strand, b.Strand, numeric, coll)
	case DurationType:
		return cmp.Compare(*a.Dur, *b.Dur)
	case DatetimeType:
		return a.Time.Compare(*b.Time)
	case RecordIDType:
		if c := strings.Compare(a.Record.Table, b.Record.Table); c != 0 {
			return c
		}
		return strings.Compare(a.Record.ID, b.Record.ID)
	case BytesType:
		return bytes.Compare(a.Bytes, b.Bytes)
	case RegexType:
		return strings.Compare(a.Regex.String(), b.Regex.String())
	case RangeType:
		if c := compareValues(a.Span.Beg, b.Span.Beg, numeric, coll); c != 0 {
			return c
		}
		return compareValues(a.Span.End, b.Span.End, numeric, coll)
	case ClosureType:
		return strings.Compare(a.Func.Body, b.Func.Body)
	case ArrayType:
		n := min(len(a.Values), len(b.Values))
		for i := 0; i < n; i++ {
			if c := compareValues(a.Values[i], b.Values[i], numeric, coll); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(a.Values), len(b.Values))
	case ObjectType:
		n := min(len(a.Keys), len(b.Keys))
		for i := 0; i < n; i++ {
			if c := compareStrings(a.Keys[i], b.Keys[i], numeric, coll); c != 0 {
				return c
			}
			if c := compareValues(a.Values[i], b.Values[i], numeric, coll); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(a.Keys), len(b.Keys))
	}
	return 0
}

// compareRank orders variants. None sorts below every present value.
func compareRank(v *Value) int {
	if v.IsNone() {
		return 0
	}
	return int(v.Type)
}

func compareStrings(a, b string, numeric, coll bool) int {
	switch {
	case numeric:
		return naturalCompare(a, b)
	case coll:
		return collatedCompare(a, b)
	default:
		return strings.Compare(a, b)
	}
}

var (
	collMu   sync.Mutex
	collator = collate.New(language.Und)
)

func collatedCompare(a, b string) int {
	// Collators keep internal buffers, so calls are serialized.
	collMu.Lock()
	defer collMu.Unlock()
	return collator.CompareString(a, b)
}

// naturalCompare orders strings digit-run aware, so "a2" sorts before
// "a10".
func naturalCompare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			ia, ja := i, j
			for ia < len(a) && isDigit(a[ia]) {
				ia++
			}
			for ja < len(b) && isDigit(b[ja]) {
				ja++
			}
			da := strings.TrimLeft(a[i:ia], "0")
			db := strings.TrimLeft(b[j:ja], "0")
			if len(da) != len(db) {
				return cmp.Compare(len(da), len(db))
			}
			if c := strings.Compare(da, db); c != 0 {
				return c
			}
			i, j = ia, ja
			continue
		}
		if ca != cb {
			return cmp.Compare(ca, cb)
		}
		i++
		j++
	}
	return cmp.Compare(len(a)-i, len(b)-j)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
