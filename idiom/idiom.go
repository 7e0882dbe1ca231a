// Package idiom defines compiled path expressions for the quarry document
// engine. An Idiom is an ordered sequence of parts, each describing one
// navigation or selection step through a document value. Idioms are
// structurally independent of any particular document: the same idiom may
// be applied to arbitrarily shaped values and degrades to a miss rather
// than an error when intermediate containers are absent or wrongly shaped.
package idiom

import "strings"

// Idiom is a compiled, immutable sequence of path parts.
type Idiom []Part

// New builds an idiom from parts.
func New(parts ...Part) Idiom {
	return Idiom(parts)
}

// Fields builds an idiom of plain field accesses, one per name. It is the
// shape produced from slash-delimited patch paths.
func Fields(names ...string) Idiom {
	res := make(Idiom, len(names))
	for i, n := range names {
		res[i] = Field(n)
	}
	return res
}

func (p Idiom) String() string {
	var b strings.Builder
	for i, part := range p {
		s := part.String()
		if i == 0 {
			s = strings.TrimPrefix(s, ".")
		}
		b.WriteString(s)
	}
	return b.String()
}

// Clone returns a copy of the idiom sharing no backing storage with the
// original at the top level. Parts themselves are immutable.
func (p Idiom) Clone() Idiom {
	res := make(Idiom, len(p))
	copy(res, p)
	return res
}
