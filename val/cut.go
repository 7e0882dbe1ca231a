package val

import (
	"strconv"

	"github.com/quarrydb/quarry/idiom"
)

// Cut is the synchronous delete primitive used by the patcher. It handles
// literal parts only (field, index, last) and removes without collapsing
// ancestors; expression parts and wildcards are a no-op here. Removing a
// missing path is success.
func (v *Value) Cut(path idiom.Idiom) {
	cur := v
	for i, p := range path {
		last := i == len(path)-1
		switch p := p.(type) {
		case idiom.Field:
			if cur.Type != ObjectType {
				return
			}
			if last {
				cur.DeleteField(string(p))
				return
			}
			cur = cur.Field(string(p))
		case idiom.Index:
			switch cur.Type {
			case ArrayType:
				n := int(p)
				if n < 0 || n >= len(cur.Values) {
					return
				}
				if last {
					cur.Values = append(cur.Values[:n], cur.Values[n+1:]...)
					return
				}
				cur = cur.Values[n]
			case ObjectType:
				key := strconv.Itoa(int(p))
				if last {
					cur.DeleteField(key)
					return
				}
				cur = cur.Field(key)
			default:
				return
			}
		case idiom.Last:
			if cur.Type != ArrayType || len(cur.Values) == 0 {
				return
			}
			n := len(cur.Values) - 1
			if last {
				cur.Values = cur.Values[:n]
				return
			}
			cur = cur.Values[n]
		default:
			return
		}
		if cur == nil {
			return
		}
	}
	*v = *None()
}

// pick resolves literal parts to the addressed node itself, without
// cloning, for in-place mutation by the patcher. It returns nil on a
// miss or when the path needs expression evaluation.
func (v *Value) pick(path idiom.Idiom) *Value {
	cur := v
	for _, p := range path {
		if cur == nil {
			return nil
		}
		switch p := p.(type) {
		case idiom.Field:
			if cur.Type != ObjectType {
				return nil
			}
			cur = cur.Field(string(p))
		case idiom.Index:
			switch cur.Type {
			case ArrayType:
				cur = elemAt(cur, int(p))
			case ObjectType:
				cur = cur.Field(strconv.Itoa(int(p)))
			default:
				return nil
			}
		case idiom.Last:
			if cur.Type != ArrayType || len(cur.Values) == 0 {
				return nil
			}
			cur = cur.Values[len(cur.Values)-1]
		default:
			return nil
		}
	}
	return cur
}
