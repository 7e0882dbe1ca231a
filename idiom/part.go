package idiom

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is the source text of a sub-expression embedded in a path, such as
// a WHERE predicate or a computed segment. The engine never evaluates it
// itself; evaluation is delegated to the caller's evaluator.
type Expr string

// Part is one segment of an Idiom.
type Part interface {
	part()
	String() string
}

// Field accesses an object member by name.
type Field string

// Index accesses an array element by position. Negative or out-of-range
// positions resolve to no match, not an error.
type Index int

// All selects every element of the current array or object.
type All struct{}

// Last selects the final element of the current array.
type Last struct{}

// Where filters array elements by a predicate expression. Each element is
// bound as the current document while the predicate runs.
type Where struct {
	Expr Expr
}

// Computed is a dynamically computed segment. The expression result is
// used as an Index if it is a number, and as a Field otherwise.
type Computed struct {
	Expr Expr
}

// DestructureField names one projection of a destructuring segment.
type DestructureField struct {
	Name string
	Path Idiom
}

// Destructure projects multiple sub-paths of the current value into a new
// object keyed by the projection names.
type Destructure []DestructureField

// Optional makes a missing intermediate value short-circuit to none.
type Optional struct{}

func (Field) part()       {}
func (Index) part()       {}
func (All) part()         {}
func (Last) part()        {}
func (Where) part()       {}
func (Computed) part()    {}
func (Destructure) part() {}
func (Optional) part()    {}

func (f Field) String() string {
	s := string(f)
	if s != "" && strings.IndexAny(s, ".*$[]? '") == -1 {
		return "." + s
	}
	return ".'" + strings.Replace(s, "'", "\\'", -1) + "'"
}

func (i Index) String() string { return "[" + strconv.Itoa(int(i)) + "]" }

func (All) String() string { return "[*]" }

func (Last) String() string { return "[$]" }

func (w Where) String() string { return "[WHERE " + string(w.Expr) + "]" }

func (c Computed) String() string { return "[" + string(c.Expr) + "]" }

func (d Destructure) String() string {
	items := make([]string, len(d))
	for i, f := range d {
		p := f.Path.String()
		if len(f.Path) == 1 && f.Path[0] == Field(f.Name) {
			items[i] = f.Name
			continue
		}
		items[i] = fmt.Sprintf("%s: %s", f.Name, strings.TrimPrefix(p, "."))
	}
	return ".{" + strings.Join(items, ", ") + "}"
}

func (Optional) String() string { return "?" }
