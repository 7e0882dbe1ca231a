package val

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/quarrydb/quarry/debug"
	"github.com/quarrydb/quarry/idiom"
	"github.com/quarrydb/quarry/textdiff"
)

// Patch applies an ordered batch of edit operations to the value. Each op
// is an object with a string "op" discriminator (add, remove, replace,
// move, copy, test, change), a slash-delimited "path", and op-specific
// "value" and "from" operands.
//
// The batch is decoded and validated before any mutation, but application
// is sequential and in place: a failing test op stops the batch and is
// reported to the caller while every earlier op stays applied. replace
// behaves as an upsert, creating the path when absent.
func (v *Value) Patch(ctx context.Context, opt *Options, ops *Value) error {
	decoded, err := decodePatch(ops)
	if err != nil {
		return err
	}
	return v.applyPatch(ctx, opt, decoded)
}

type patchOp struct {
	kind  string
	path  idiom.Idiom
	raw   string
	from  idiom.Idiom
	value *Value
}

func decodePatch(ops *Value) ([]patchOp, error) {
	if ops == nil || ops.Type != ArrayType {
		return nil, fmt.Errorf("patch document must be an array, got %s", ops)
	}
	res := make([]patchOp, 0, len(ops.Values))
	for i, op := range ops.Values {
		if op.Type != ObjectType {
			return nil, fmt.Errorf("patch op %d must be an object, got %s", i, op.Type)
		}
		kind := op.Field("op")
		if kind == nil || kind.Type != StrandType {
			return nil, fmt.Errorf("patch op %d is missing its op name", i)
		}
		path := op.Field("path")
		if path == nil || path.Type != StrandType {
			return nil, fmt.Errorf("patch op %d is missing its path", i)
		}
		one := patchOp{
			kind:  kind.Strand,
			raw:   path.Strand,
			path:  splitPatchPath(path.Strand),
			value: op.Field("value"),
		}
		switch one.kind {
		case "add", "replace", "test", "change":
			if one.value == nil {
				return nil, fmt.Errorf("patch op %d (%s) is missing its value", i, one.kind)
			}
		case "remove":
		case "move", "copy":
			from := op.Field("from")
			if from == nil || from.Type != StrandType {
				return nil, fmt.Errorf("patch op %d (%s) is missing its from path", i, one.kind)
			}
			one.from = splitPatchPath(from.Strand)
		default:
			return nil, fmt.Errorf("patch op %d has unknown kind %q", i, one.kind)
		}
		res = append(res, one)
	}
	return res, nil
}

// splitPatchPath compiles a slash-delimited patch path into field parts.
// Every segment is an object-member name at this stage; segments that
// address array positions are recognized against the live document when
// the op applies.
func splitPatchPath(s string) idiom.Idiom {
	var res idiom.Idiom
	for _, seg := range strings.Split(s, "/") {
		if seg == "" {
			continue
		}
		res = append(res, idiom.Field(seg))
	}
	return res
}

func (v *Value) applyPatch(ctx context.Context, opt *Options, ops []patchOp) error {
	for i, op := range ops {
		if debug.Patch() {
			debug.Logf("patch: op %d %s at %q\n", i, op.kind, op.raw)
		}
		var err error
		switch op.kind {
		case "add":
			err = v.patchAdd(ctx, opt, op.path, op.value)
		case "remove":
			v.Cut(v.literalize(op.path))
		case "replace":
			err = v.Set(ctx, opt, v.literalize(op.path), op.value)
		case "copy":
			err = v.patchCopy(ctx, opt, op.path, op.from)
		case "move":
			if err = v.patchCopy(ctx, opt, op.path, op.from); err == nil {
				v.Cut(v.literalize(op.from))
			}
		case "test":
			got, gerr := v.Get(ctx, opt, v.literalize(op.path))
			if gerr != nil {
				return gerr
			}
			if !Equal(got, op.value) {
				return &TestFailedError{Path: op.raw, Want: op.value, Got: got}
			}
		case "change":
			err = v.patchChange(op.raw, op.path, op.value)
		}
		if err != nil {
			return fmt.Errorf("patch op %d (%s) at %q: %w", i, op.kind, op.raw, err)
		}
	}
	return nil
}

func (v *Value) patchAdd(ctx context.Context, opt *Options, path idiom.Idiom, nv *Value) error {
	path = v.literalize(path)
	if len(path) > 0 {
		if parent := v.pick(path[:len(path)-1]); parent != nil && parent.Type == ArrayType {
			i := len(parent.Values)
			if idx, ok := path[len(path)-1].(idiom.Index); ok {
				i = int(idx)
			}
			i = max(0, min(i, len(parent.Values)))
			parent.Values = append(parent.Values, nil)
			copy(parent.Values[i+1:], parent.Values[i:])
			parent.Values[i] = nv.Clone()
			return nil
		}
	}
	return v.Set(ctx, opt, path, nv)
}

func (v *Value) patchCopy(ctx context.Context, opt *Options, path, from idiom.Idiom) error {
	src, err := v.Get(ctx, opt, v.literalize(from))
	if err != nil {
		return err
	}
	return v.patchAdd(ctx, opt, path, src)
}

func (v *Value) patchChange(raw string, path idiom.Idiom, diff *Value) error {
	if diff.Type != StrandType {
		return fmt.Errorf("change value must be patch text, got %s", diff.Type)
	}
	target := v.pick(v.literalize(path))
	if target == nil || target.Type != StrandType {
		return fmt.Errorf("change target at %q is not a string", raw)
	}
	patched, err := textdiff.Apply(target.Strand, diff.Strand)
	if err != nil {
		return err
	}
	target.Strand = patched
	return nil
}

// literalize rewrites field segments that land on live array nodes into
// index accessors: "/a/1" addresses position 1 when a is an array and
// member "1" when it is an object. The trailing "-" names the append
// position.
func (v *Value) literalize(path idiom.Idiom) idiom.Idiom {
	res := make(idiom.Idiom, 0, len(path))
	cur := v
	for _, p := range path {
		f, isField := p.(idiom.Field)
		if isField && cur != nil && cur.Type == ArrayType {
			if string(f) == "-" {
				res = append(res, idiom.Index(len(cur.Values)))
				cur = nil
				continue
			}
			if i, err := strconv.Atoi(string(f)); err == nil {
				res = append(res, idiom.Index(i))
				cur = elemAt(cur, i)
				continue
			}
		}
		res = append(res, p)
		if isField {
			cur = cur.Field(string(f))
		} else {
			cur = nil
		}
	}
	return res
}
