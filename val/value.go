package val

import (
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// Value is a document tree node. It works as a recursive tagged union:
// the Type field says which variant the node holds, and the variant data
// lives in the matching field. Values form strict trees; no child is ever
// shared between two parents, so mutation is always local.
//
// Objects keep Keys[i] as the member name for Values[i], preserving
// insertion order. Keys are unique and never contain NUL bytes; the same
// holds for Strand content. That invariant is enforced where untrusted
// strings enter (ParseStrand, idiom.Parse), not re-checked per operation.
type Value struct {
	Type Type

	Bool    bool
	Int64   *int64
	Float64 *float64
	Decimal string

	Strand string

	Keys   []string
	Values []*Value

	Record *RecordID
	Time   *time.Time
	Dur    *time.Duration
	Span   *Range
	Bytes  []byte
	Regex  *regexp2.Regexp
	Func   *Closure
}

// Range is a bounded interval between two values.
type Range struct {
	Beg     *Value
	End     *Value
	BegIncl bool
	EndIncl bool
}

// Closure is an opaque callable value. The path engine never invokes it;
// it only stores, moves, and compares it by its source form.
type Closure struct {
	Params []string
	Body   string
}

func None() *Value {
	return &Value{Type: NoneType}
}

func Null() *Value {
	return &Value{Type: NullType}
}

func FromBool(v bool) *Value {
	return &Value{Type: BoolType, Bool: v}
}

func FromInt(v int64) *Value {
	return &Value{Type: NumberType, Int64: &v}
}

func FromFloat(v float64) *Value {
	return &Value{Type: NumberType, Float64: &v}
}

// FromDecimal holds a numeric literal that fits neither int64 nor
// float64 exactly.
func FromDecimal(v string) *Value {
	return &Value{Type: NumberType, Decimal: v}
}

// FromString wraps trusted string content as a strand. The caller
// guarantees the absence of interior NUL bytes; use ParseStrand for
// untrusted input.
func FromString(v string) *Value {
	return &Value{Type: StrandType, Strand: v}
}

// ParseStrand validates untrusted string content at the boundary where it
// enters the document model.
func ParseStrand(v string) (*Value, error) {
	if strings.IndexByte(v, 0) != -1 {
		return nil, ErrNulByte
	}
	return FromString(v), nil
}

func FromDuration(d time.Duration) *Value {
	return &Value{Type: DurationType, Dur: &d}
}

func FromTime(t time.Time) *Value {
	return &Value{Type: DatetimeType, Time: &t}
}

func FromBytes(b []byte) *Value {
	return &Value{Type: BytesType, Bytes: b}
}

// FromRegexPattern compiles a pattern in the database regex dialect, which
// allows lookarounds and other constructs beyond RE2.
func FromRegexPattern(pattern string) (*Value, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, err
	}
	return &Value{Type: RegexType, Regex: re}, nil
}

func FromRange(r *Range) *Value {
	return &Value{Type: RangeType, Span: r}
}

func FromClosure(c *Closure) *Value {
	return &Value{Type: ClosureType, Func: c}
}

func FromSlice(vs []*Value) *Value {
	return &Value{Type: ArrayType, Values: vs}
}

// NewObject returns an empty object.
func NewObject() *Value {
	return &Value{Type: ObjectType}
}

// KeyVal is one object member used by FromKeyVals.
type KeyVal struct {
	Key string
	Val *Value
}

// FromKeyVals builds an object preserving the given member order.
func FromKeyVals(kvs []KeyVal) *Value {
	res := NewObject()
	for _, kv := range kvs {
		res.SetField(kv.Key, kv.Val)
	}
	return res
}

// IsNone reports whether the value is absent. A nil *Value counts as
// absent so navigation helpers can return nil for a miss.
func (v *Value) IsNone() bool {
	return v == nil || v.Type == NoneType
}

// Field returns the member value for key, or nil when absent or when the
// value is not an object.
func (v *Value) Field(key string) *Value {
	if v == nil || v.Type != ObjectType {
		return nil
	}
	for i, k := range v.Keys {
		if k == key {
			return v.Values[i]
		}
	}
	return nil
}

// SetField inserts or replaces the member for key, keeping insertion
// order for new keys.
func (v *Value) SetField(key string, val *Value) {
	for i, k := range v.Keys {
		if k == key {
			v.Values[i] = val
			return
		}
	}
	v.Keys = append(v.Keys, key)
	v.Values = append(v.Values, val)
}

// DeleteField removes the member for key if present.
func (v *Value) DeleteField(key string) {
	for i, k := range v.Keys {
		if k == key {
			v.Keys = append(v.Keys[:i], v.Keys[i+1:]...)
			v.Values = append(v.Values[:i], v.Values[i+1:]...)
			return
		}
	}
}

// Len returns the number of children of a container, and 0 otherwise.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Values)
}

// Clone deep-copies the value.
func (v *Value) Clone() *Value {
	if v == nil {
		return None()
	}
	res := &Value{
		Type:    v.Type,
		Bool:    v.Bool,
		Decimal: v.Decimal,
		Strand:  v.Strand,
		Regex:   v.Regex,
		Func:    v.Func,
	}
	if v.Int64 != nil {
		i := *v.Int64
		res.Int64 = &i
	}
	if v.Float64 != nil {
		f := *v.Float64
		res.Float64 = &f
	}
	if v.Keys != nil {
		res.Keys = make([]string, len(v.Keys))
		copy(res.Keys, v.Keys)
	}
	if v.Values != nil {
		res.Values = make([]*Value, len(v.Values))
		for i, c := range v.Values {
			res.Values[i] = c.Clone()
		}
	}
	if v.Record != nil {
		r := *v.Record
		res.Record = &r
	}
	if v.Time != nil {
		t := *v.Time
		res.Time = &t
	}
	if v.Dur != nil {
		d := *v.Dur
		res.Dur = &d
	}
	if v.Span != nil {
		res.Span = &Range{
			Beg:     v.Span.Beg.Clone(),
			End:     v.Span.End.Clone(),
			BegIncl: v.Span.BegIncl,
			EndIncl: v.Span.EndIncl,
		}
	}
	if v.Bytes != nil {
		res.Bytes = append([]byte(nil), v.Bytes...)
	}
	return res
}

// String renders a short human-readable form used in error messages and
// debug logs. It is not a serialization format.
func (v *Value) String() string {
	if v == nil {
		return "NONE"
	}
	switch v.Type {
	case NoneType:
		return "NONE"
	case NullType:
		return "NULL"
	case BoolType:
		return strconv.FormatBool(v.Bool)
	case NumberType:
		switch {
		case v.Int64 != nil:
			return strconv.FormatInt(*v.Int64, 10)
		case v.Float64 != nil:
			return strconv.FormatFloat(*v.Float64, 'g', -1, 64)
		default:
			return v.Decimal
		}
	case StrandType:
		return strconv.Quote(v.Strand)
	case DurationType:
		return v.Dur.String()
	case DatetimeType:
		return v.Time.Format(time.RFC3339Nano)
	case RecordIDType:
		return v.Record.String()
	case BytesType:
		return "b64:" + strconv.Itoa(len(v.Bytes)) + " bytes"
	case RegexType:
		return "/" + v.Regex.String() + "/"
	case RangeType:
		beg, end := "", ""
		if v.Span.Beg != nil {
			beg = v.Span.Beg.String()
		}
		if v.Span.End != nil {
			end = v.Span.End.String()
		}
		return beg + ".." + end
	case ClosureType:
		return "closure(" + strings.Join(v.Func.Params, ", ") + ")"
	case ArrayType:
		items := make([]string, len(v.Values))
		for i, c := range v.Values {
			items[i] = c.String()
		}
		return "[" + strings.Join(items, ", ") + "]"
	case ObjectType:
		items := make([]string, len(v.Keys))
		for i, k := range v.Keys {
			items[i] = k + ": " + v.Values[i].String()
		}
		return "{ " + strings.Join(items, ", ") + " }"
	}
	return "<unknown>"
}
