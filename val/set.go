package val

import (
	"context"
	"strconv"

	"github.com/quarrydb/quarry/idiom"
)

// Set writes a deep copy of nv at every position addressed by path,
// creating intermediate objects on demand and overwriting scalars that
// stand where a container is needed. Wildcard and filter selections
// receive the value as a uniform broadcast, one copy per target. An empty
// path replaces the whole value. Positions that cannot be created, such
// as out-of-range array indexes, are skipped silently.
func (v *Value) Set(ctx context.Context, opt *Options, path idiom.Idiom, nv *Value) error {
	if nv == nil {
		nv = None()
	}
	w := &walker{ctx: ctx, opt: opt}
	_, err := w.run(&setFrame{val: v, path: path, nv: nv})
	return err
}

type setFrame struct {
	val   *Value
	path  idiom.Idiom
	nv    *Value
	depth int

	items []*Value
	rest  idiom.Idiom
	idx   int
	fan   bool
}

func (f *setFrame) step(w *walker, _ *Value) (frame, *Value, bool, error) {
	if f.fan {
		return f.next()
	}
	for {
		if len(f.path) == 0 {
			*f.val = *f.nv.Clone()
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
			if f.val.Type == ArrayType {
				// Field access maps over the elements, mirroring the
				// navigator's flatten rule.
				return f.fanOut(f.val.Values, f.path)
			}
			if f.val.Type != ObjectType {
				// Overwrite whatever stands here with a fresh object
				// and re-handle the same part.
				*f.val = *NewObject()
				continue
			}
			child := f.val.Field(string(p))
			if child == nil {
				if len(rest) == 0 {
					f.val.SetField(string(p), f.nv.Clone())
					return nil, nil, true, nil
				}
				child = NewObject()
				f.val.SetField(string(p), child)
			}
			f.val, f.path = child, rest

		case idiom.Index:
			switch f.val.Type {
			case ArrayType:
				elem := elemAt(f.val, int(p))
				if elem == nil {
					return nil, nil, true, nil
				}
				f.val, f.path = elem, rest
			case ObjectType:
				f.path = prepend(idiom.Field(strconv.Itoa(int(p))), rest)
			default:
				*f.val = *NewObject()
				f.path = prepend(idiom.Field(strconv.Itoa(int(p))), rest)
			}

		case idiom.Last:
			if f.val.Type != ArrayType || len(f.val.Values) == 0 {
				return nil, nil, true, nil
			}
			f.val, f.path = f.val.Values[len(f.val.Values)-1], rest

		case idiom.All:
			if !f.val.Type.IsContainer() {
				return nil, nil, true, nil
			}
			if len(rest) == 0 {
				for _, elem := range f.val.Values {
					*elem = *f.nv.Clone()
				}
				return nil, nil, true, nil
			}
			return f.fanOut(f.val.Values, rest)

		case idiom.Where:
			if f.val.Type != ArrayType {
				return nil, nil, true, nil
			}
			kept, err := filterElems(w, p, f.val.Values)
			if err != nil {
				return nil, nil, false, err
			}
			if len(rest) == 0 {
				for _, elem := range kept {
					*elem = *f.nv.Clone()
				}
				return nil, nil, true, nil
			}
			if i, n, ok := headIndex(rest, len(kept)); ok {
				if i < 0 || i >= len(kept) {
					return nil, nil, true, nil
				}
				f.val, f.path = kept[i], rest[n:]
				continue
			}
			return f.fanOut(kept, rest)

		case idiom.Computed:
			res, err := w.evalExpr(p.Expr, f.val)
			if err != nil {
				return nil, nil, false, err
			}
			f.path = prepend(partFromValue(res), rest)

		default:
			// Destructure and other projection parts are not writable.
			return nil, nil, true, nil
		}
	}
}

func (f *setFrame) fanOut(items []*Value, rest idiom.Idiom) (frame, *Value, bool, error) {
	f.fan = true
	f.items = items
	f.rest = rest
	return f.next()
}

func (f *setFrame) next() (frame, *Value, bool, error) {
	if f.idx < len(f.items) {
		child := &setFrame{val: f.items[f.idx], path: f.rest, nv: f.nv, depth: f.depth}
		f.idx++
		return child, nil, false, nil
	}
	return nil, nil, true, nil
}

// headIndex recognizes a leading literal index accessor applied to a
// filtered selection and resolves it to a position. It returns the
// position, the number of parts consumed, and whether it matched.
func headIndex(path idiom.Idiom, n int) (int, int, bool) {
	if len(path) == 0 {
		return 0, 0, false
	}
	switch p := path[0].(type) {
	case idiom.Index:
		return int(p), 1, true
	case idiom.Last:
		return n - 1, 1, true
	}
	return 0, 0, false
}
