package val

import (
	"context"
	"strconv"

	"github.com/quarrydb/quarry/idiom"
)

// Del removes every value addressed by path. Array removal shifts later
// elements down; filter removal keeps survivors in order; deleting a path
// that does not resolve is success, not an error. Only the exact match is
// removed: ancestors left empty stay in place. An empty path resets the
// whole value to None.
//
// The walk consumes the full path even through missing values, so an
// over-long path fails with ErrDepthExceeded regardless of the document.
func (v *Value) Del(ctx context.Context, opt *Options, path idiom.Idiom) error {
	w := &walker{ctx: ctx, opt: opt}
	_, err := w.run(&delFrame{val: v, path: path})
	return err
}

type delFrame struct {
	val   *Value
	path  idiom.Idiom
	depth int

	items []*Value
	rest  idiom.Idiom
	idx   int
	fan   bool
}

func (f *delFrame) step(w *walker, _ *Value) (frame, *Value, bool, error) {
	if f.fan {
		return f.next()
	}
	for {
		if len(f.path) == 0 {
			*f.val = *None()
			return nil, nil, true, nil
		}
		var err error
		if f.depth, err = w.descend(f.depth); err != nil {
			return nil, nil, false, err
		}
		p := f.path[0]
		rest := f.path[1:]

		switch p := p.(type) {
		case idiom.Optional:
			f.path = rest

		case idiom.Field:
			switch f.val.Type {
			case ObjectType:
				if len(rest) == 0 {
					f.val.DeleteField(string(p))
					return nil, nil, true, nil
				}
				child := f.val.Field(string(p))
				if child == nil {
					// Keep walking a detached miss so the ceiling
					// still applies to the remaining path.
					child = None()
				}
				f.val, f.path = child, rest
			case ArrayType:
				return f.fanOut(f.val.Values, f.path)
			default:
				f.val, f.path = None(), rest
			}

		case idiom.Index:
			switch f.val.Type {
			case ArrayType:
				i := int(p)
				if i < 0 || i >= len(f.val.Values) {
					f.val, f.path = None(), rest
					continue
				}
				if len(rest) == 0 {
					f.val.Values = append(f.val.Values[:i], f.val.Values[i+1:]...)
					return nil, nil, true, nil
				}
				f.val, f.path = f.val.Values[i], rest
			case ObjectType:
				f.path = prepend(idiom.Field(strconv.Itoa(int(p))), rest)
			default:
				f.val, f.path = None(), rest
			}

		case idiom.Last:
			if f.val.Type != ArrayType || len(f.val.Values) == 0 {
				f.val, f.path = None(), rest
				continue
			}
			last := len(f.val.Values) - 1
			if len(rest) == 0 {
				f.val.Values = f.val.Values[:last]
				return nil, nil, true, nil
			}
			f.val, f.path = f.val.Values[last], rest

		case idiom.All:
			if !f.val.Type.IsContainer() {
				f.val, f.path = None(), rest
				continue
			}
			if len(rest) == 0 {
				f.val.Keys = nil
				f.val.Values = nil
				return nil, nil, true, nil
			}
			return f.fanOut(f.val.Values, rest)

		case idiom.Where:
			if f.val.Type != ArrayType {
				f.val, f.path = None(), rest
				continue
			}
			matched, err := matchedPositions(w, p, f.val.Values)
			if err != nil {
				return nil, nil, false, err
			}
			if len(rest) == 0 {
				f.val.Values = removePositions(f.val.Values, matched)
				return nil, nil, true, nil
			}
			if i, n, ok := headIndex(rest, len(matched)); ok {
				// The index addresses the filtered subset; the rest of
				// the array stays untouched.
				if i < 0 || i >= len(matched) {
					f.val, f.path = None(), rest[n:]
					continue
				}
				pos := matched[i]
				if len(rest[n:]) == 0 {
					f.val.Values = append(f.val.Values[:pos], f.val.Values[pos+1:]...)
					return nil, nil, true, nil
				}
				f.val, f.path = f.val.Values[pos], rest[n:]
				continue
			}
			elems := make([]*Value, len(matched))
			for i, pos := range matched {
				elems[i] = f.val.Values[pos]
			}
			return f.fanOut(elems, rest)

		case idiom.Computed:
			res, err := w.evalExpr(p.Expr, f.val)
			if err != nil {
				return nil, nil, false, err
			}
			f.path = prepend(partFromValue(res), rest)

		default:
			f.val, f.path = None(), rest
		}
	}
}

func (f *delFrame) fanOut(items []*Value, rest idiom.Idiom) (frame, *Value, bool, error) {
	f.fan = true
	f.items = items
	f.rest = rest
	return f.next()
}

func (f *delFrame) next() (frame, *Value, bool, error) {
	if f.idx < len(f.items) {
		child := &delFrame{val: f.items[f.idx], path: f.rest, depth: f.depth}
		f.idx++
		return child, nil, false, nil
	}
	return nil, nil, true, nil
}

// matchedPositions returns the source positions whose elements satisfy
// the predicate, in order.
func matchedPositions(w *walker, p idiom.Where, elems []*Value) ([]int, error) {
	var res []int
	for i, elem := range elems {
		ok, err := w.evalExpr(p.Expr, elem)
		if err != nil {
			return nil, err
		}
		if Truth(ok) {
			res = append(res, i)
		}
	}
	return res, nil
}

func removePositions(elems []*Value, positions []int) []*Value {
	if len(positions) == 0 {
		return elems
	}
	drop := make(map[int]bool, len(positions))
	for _, p := range positions {
		drop[p] = true
	}
	res := elems[:0]
	for i, e := range elems {
		if !drop[i] {
			res = append(res, e)
		}
	}
	return res
}
