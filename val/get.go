package val

import (
	"context"
	"strconv"

	"github.com/quarrydb/quarry/idiom"
)

// Get resolves path against the value and returns the matched sub-value,
// cloned. A path that does not resolve yields None, never an error;
// errors are reserved for the depth ceiling, context cancellation, and
// evaluator failures, which propagate verbatim.
//
// Wildcard and filter segments aggregate their matches into a fresh
// array, preserving source order. When the current value is an array and
// the next segment is a plain field, the access maps over every element,
// so `accounts.balance` and `accounts[*].balance` resolve alike.
func (v *Value) Get(ctx context.Context, opt *Options, path idiom.Idiom) (*Value, error) {
	w := &walker{ctx: ctx, opt: opt}
	return w.run(&getFrame{val: v, path: path})
}

type getMode int

const (
	getDescend getMode = iota
	getMap
	getDestructure
)

type getFrame struct {
	val   *Value
	path  idiom.Idiom
	depth int

	mode  getMode
	items []*Value    // sources for child walks
	rest  idiom.Idiom // path given to each child
	subs  idiom.Destructure
	idx   int
	out   []*Value
}

func (f *getFrame) step(w *walker, sub *Value) (frame, *Value, bool, error) {
	if f.mode != getDescend {
		if sub != nil {
			f.out = append(f.out, sub)
		}
		return f.next()
	}

	for {
		if f.val.IsNone() && hasOptional(f.path) {
			return nil, None(), true, nil
		}
		if len(f.path) == 0 {
			return nil, f.val.Clone(), true, nil
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
			switch {
			case f.val != nil && f.val.Type == ObjectType:
				f.val, f.path = f.val.Field(string(p)), rest
			case f.val != nil && f.val.Type == ArrayType:
				// Implicit flatten-map: each element resolves the
				// field itself.
				return f.fanOut(f.val.Values, f.path)
			case f.val != nil && f.val.Type == RecordIDType && w.opt.fetch() != nil:
				fetched, err := w.opt.fetch()(w.ctx, f.val.Record)
				if err != nil {
					return nil, nil, false, err
				}
				f.val = fetched
				// Re-handle the same part against the fetched record.
			default:
				f.val, f.path = nil, rest
			}

		case idiom.Index:
			switch {
			case f.val != nil && f.val.Type == ArrayType:
				f.val, f.path = elemAt(f.val, int(p)), rest
			case f.val != nil && f.val.Type == ObjectType:
				f.val, f.path = f.val.Field(strconv.Itoa(int(p))), rest
			default:
				f.val, f.path = nil, rest
			}

		case idiom.Last:
			if f.val != nil && f.val.Type == ArrayType && len(f.val.Values) > 0 {
				f.val, f.path = f.val.Values[len(f.val.Values)-1], rest
			} else {
				f.val, f.path = nil, rest
			}

		case idiom.All:
			if f.val != nil && f.val.Type.IsContainer() {
				return f.fanOut(f.val.Values, rest)
			}
			f.val, f.path = nil, rest

		case idiom.Where:
			if f.val == nil || f.val.Type != ArrayType {
				f.val, f.path = nil, rest
				continue
			}
			kept, err := filterElems(w, p, f.val.Values)
			if err != nil {
				return nil, nil, false, err
			}
			// Continue on the filtered array, so a trailing index
			// addresses the filtered set and field access maps over
			// the survivors.
			f.val, f.path = FromSlice(kept), rest

		case idiom.Computed:
			res, err := w.evalExpr(p.Expr, f.val)
			if err != nil {
				return nil, nil, false, err
			}
			f.path = prepend(partFromValue(res), rest)

		case idiom.Destructure:
			f.mode = getDestructure
			f.subs = p
			return f.next()

		default:
			f.val, f.path = nil, rest
		}
	}
}

// fanOut switches the frame into mapping mode: each item is walked with
// rest and the results are collected into a fresh array.
func (f *getFrame) fanOut(items []*Value, rest idiom.Idiom) (frame, *Value, bool, error) {
	f.mode = getMap
	f.items = items
	f.rest = rest
	f.out = make([]*Value, 0, len(items))
	return f.next()
}

func (f *getFrame) next() (frame, *Value, bool, error) {
	switch f.mode {
	case getMap:
		if f.idx < len(f.items) {
			child := &getFrame{val: f.items[f.idx], path: f.rest, depth: f.depth}
			f.idx++
			return child, nil, false, nil
		}
		return nil, FromSlice(f.out), true, nil
	case getDestructure:
		if f.idx < len(f.subs) {
			child := &getFrame{val: f.val, path: f.subs[f.idx].Path, depth: f.depth}
			f.idx++
			return child, nil, false, nil
		}
		res := NewObject()
		for i, df := range f.subs {
			res.SetField(df.Name, f.out[i])
		}
		return nil, res, true, nil
	}
	return nil, nil, false, nil
}

// filterElems evaluates a WHERE predicate per element and returns the
// elements whose predicate result is truthy, in source order.
func filterElems(w *walker, p idiom.Where, elems []*Value) ([]*Value, error) {
	var kept []*Value
	for _, elem := range elems {
		res, err := w.evalExpr(p.Expr, elem)
		if err != nil {
			return nil, err
		}
		if Truth(res) {
			kept = append(kept, elem)
		}
	}
	return kept, nil
}

func elemAt(v *Value, i int) *Value {
	if i < 0 || i >= len(v.Values) {
		return nil
	}
	return v.Values[i]
}

func hasOptional(path idiom.Idiom) bool {
	if len(path) == 0 {
		return false
	}
	_, ok := path[0].(idiom.Optional)
	return ok
}

func prepend(p idiom.Part, rest idiom.Idiom) idiom.Idiom {
	res := make(idiom.Idiom, 0, len(rest)+1)
	return append(append(res, p), rest...)
}
