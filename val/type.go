package val

import "fmt"

// Type discriminates the variant held by a Value.
type Type int

const (
	NoneType Type = iota
	NullType
	BoolType
	NumberType
	StrandType
	DurationType
	DatetimeType
	RecordIDType
	BytesType
	RegexType
	RangeType
	ClosureType
	ArrayType
	ObjectType
)

var typeNames = map[Type]string{
	NoneType:     "None",
	NullType:     "Null",
	BoolType:     "Bool",
	NumberType:   "Number",
	StrandType:   "Strand",
	DurationType: "Duration",
	DatetimeType: "Datetime",
	RecordIDType: "RecordID",
	BytesType:    "Bytes",
	RegexType:    "Regex",
	RangeType:    "Range",
	ClosureType:  "Closure",
	ArrayType:    "Array",
	ObjectType:   "Object",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "<unknown type>"
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	for tt, name := range typeNames {
		if name == string(d) {
			*t = tt
			return nil
		}
	}
	return fmt.Errorf("unrecognized type %q", d)
}

// IsContainer reports whether values of this type hold child values.
func (t Type) IsContainer() bool {
	switch t {
	case ArrayType, ObjectType:
		return true
	default:
		return false
	}
}
