package val

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// FromAny converts plain Go data (the shape produced by encoding/json and
// yaml unmarshalling into any) to a document value. Map keys are sorted,
// since Go maps carry no order of their own. String content is validated
// at this boundary.
func FromAny(x any) (*Value, error) {
	switch x := x.(type) {
	case nil:
		return Null(), nil
	case *Value:
		return x, nil
	case bool:
		return FromBool(x), nil
	case int:
		return FromInt(int64(x)), nil
	case int64:
		return FromInt(x), nil
	case uint64:
		if x > 1<<63-1 {
			return FromDecimal(strconv.FormatUint(x, 10)), nil
		}
		return FromInt(int64(x)), nil
	case float64:
		return FromFloat(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return FromInt(i), nil
		}
		if f, err := x.Float64(); err == nil {
			return FromFloat(f), nil
		}
		return FromDecimal(x.String()), nil
	case string:
		return ParseStrand(x)
	case []byte:
		return FromBytes(x), nil
	case time.Time:
		return FromTime(x), nil
	case time.Duration:
		return FromDuration(x), nil
	case []any:
		vs := make([]*Value, len(x))
		for i, item := range x {
			v, err := FromAny(item)
			if err != nil {
				return nil, err
			}
			vs[i] = v
		}
		return FromSlice(vs), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		res := NewObject()
		for _, k := range keys {
			if bytes.IndexByte([]byte(k), 0) != -1 {
				return nil, ErrNulByte
			}
			v, err := FromAny(x[k])
			if err != nil {
				return nil, err
			}
			res.SetField(k, v)
		}
		return res, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to a document value", x)
	}
}

// Any converts the value to plain Go data. None maps to nil like Null;
// callers that need the distinction check IsNone first. Record links
// render as "table:id" strings, bytes as base64, the remaining exotic
// variants as their display form.
func (v *Value) Any() any {
	if v == nil {
		return nil
	}
	switch v.Type {
	case NoneType, NullType:
		return nil
	case BoolType:
		return v.Bool
	case NumberType:
		switch {
		case v.Int64 != nil:
			return *v.Int64
		case v.Float64 != nil:
			return *v.Float64
		default:
			return json.Number(v.Decimal)
		}
	case StrandType:
		return v.Strand
	case DurationType:
		return v.Dur.String()
	case DatetimeType:
		return v.Time.Format(time.RFC3339Nano)
	case RecordIDType:
		return v.Record.String()
	case BytesType:
		return base64.StdEncoding.EncodeToString(v.Bytes)
	case ArrayType:
		res := make([]any, len(v.Values))
		for i, c := range v.Values {
			res[i] = c.Any()
		}
		return res
	case ObjectType:
		res := make(map[string]any, len(v.Keys))
		for i, k := range v.Keys {
			res[k] = v.Values[i].Any()
		}
		return res
	default:
		return v.String()
	}
}

// FromJSON decodes a JSON document. Numbers keep their integer form when
// they have one.
func FromJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return nil, err
	}
	return FromAny(x)
}

// JSON encodes the value through its plain-data form.
func (v *Value) JSON() ([]byte, error) {
	return json.Marshal(v.Any())
}
