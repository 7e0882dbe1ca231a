package idiom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNulByte is reported when untrusted path or string input contains an
// interior NUL byte, which the document model forbids.
var ErrNulByte = errors.New("value contains NUL byte")

// Parse compiles the textual path syntax used by tests and tooling into an
// Idiom. Examples of accepted input:
//
//	test.something
//	test.something[1]
//	accounts[*].balance
//	entries[$]
//	users[WHERE age > 35].name
//	record[$key]
//	profile.{name, contact: email.primary}
//	maybe?.nested
func Parse(src string) (Idiom, error) {
	if strings.IndexByte(src, 0) != -1 {
		return nil, ErrNulByte
	}
	p := &parser{src: src}
	res, err := p.parse()
	if err != nil {
		return nil, fmt.Errorf("path %q: %w", src, err)
	}
	return res, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) parse() (Idiom, error) {
	var res Idiom
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '.':
			p.pos++
			part, err := p.fieldSegment()
			if err != nil {
				return nil, err
			}
			res = append(res, part)
		case c == '[':
			part, err := p.bracketSegment()
			if err != nil {
				return nil, err
			}
			res = append(res, part)
		case c == '?':
			p.pos++
			res = append(res, Optional{})
		case len(res) == 0:
			part, err := p.fieldSegment()
			if err != nil {
				return nil, err
			}
			res = append(res, part)
		default:
			return nil, fmt.Errorf("unexpected %q at offset %d", c, p.pos)
		}
	}
	if len(res) == 0 {
		return nil, errors.New("empty path")
	}
	return res, nil
}

func (p *parser) fieldSegment() (Part, error) {
	if p.pos >= len(p.src) {
		return nil, errors.New("expected segment at end of path")
	}
	switch p.src[p.pos] {
	case '*':
		p.pos++
		return All{}, nil
	case '{':
		return p.destructure()
	case '\'', '"':
		name, err := p.quoted()
		if err != nil {
			return nil, err
		}
		return Field(name), nil
	}
	start := p.pos
	for p.pos < len(p.src) && isIdent(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return nil, fmt.Errorf("expected field name at offset %d", start)
	}
	return Field(p.src[start:p.pos]), nil
}

func (p *parser) bracketSegment() (Part, error) {
	inner, err := p.bracketBody()
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(inner)
	switch {
	case body == "*":
		return All{}, nil
	case body == "$":
		return Last{}, nil
	case body == "":
		return nil, errors.New("empty brackets")
	}
	if i, err := strconv.Atoi(body); err == nil {
		return Index(i), nil
	}
	if rest, ok := cutKeyword(body, "WHERE"); ok {
		return Where{Expr: Expr(rest)}, nil
	}
	if strings.HasPrefix(body, "?") {
		return Where{Expr: Expr(strings.TrimSpace(body[1:]))}, nil
	}
	if body[0] == '\'' || body[0] == '"' {
		q := &parser{src: body}
		name, err := q.quoted()
		if err != nil {
			return nil, err
		}
		if q.pos != len(body) {
			return nil, fmt.Errorf("trailing input after quoted key in %q", body)
		}
		return Field(name), nil
	}
	return Computed{Expr: Expr(body)}, nil
}

// bracketBody consumes "[...]" starting at the current '[', balancing
// nested brackets and skipping quoted runs, and returns the inner text.
func (p *parser) bracketBody() (string, error) {
	start := p.pos + 1
	depth := 0
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '[':
			depth++
			p.pos++
		case ']':
			depth--
			p.pos++
			if depth == 0 {
				return p.src[start : p.pos-1], nil
			}
		case '\'', '"':
			if _, err := p.quoted(); err != nil {
				return "", err
			}
		default:
			p.pos++
		}
	}
	return "", errors.New("unterminated '['")
}

func (p *parser) quoted() (string, error) {
	quote := p.src[p.pos]
	res := make([]byte, 0, 8)
	escaped := false
	for i := p.pos + 1; i < len(p.src); i++ {
		c := p.src[i]
		switch {
		case escaped:
			escaped = false
			res = append(res, c)
		case c == '\\':
			escaped = true
		case c == quote:
			p.pos = i + 1
			return string(res), nil
		default:
			res = append(res, c)
		}
	}
	return "", fmt.Errorf("unterminated %q string", quote)
}

func (p *parser) destructure() (Part, error) {
	start := p.pos + 1
	depth := 0
	end := -1
scan:
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '{':
			depth++
			p.pos++
		case '}':
			depth--
			p.pos++
			if depth == 0 {
				end = p.pos - 1
				break scan
			}
		case '\'', '"':
			if _, err := p.quoted(); err != nil {
				return nil, err
			}
		default:
			p.pos++
		}
	}
	if end == -1 {
		return nil, errors.New("unterminated '{'")
	}
	var res Destructure
	for _, item := range splitTop(p.src[start:end]) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, pathSrc, aliased := strings.Cut(item, ":")
		name = strings.TrimSpace(name)
		if !aliased {
			pathSrc = name
		}
		sub, err := Parse(strings.TrimSpace(pathSrc))
		if err != nil {
			return nil, err
		}
		res = append(res, DestructureField{Name: name, Path: sub})
	}
	if len(res) == 0 {
		return nil, errors.New("empty destructuring")
	}
	return res, nil
}

// splitTop splits on commas not nested inside brackets or braces.
func splitTop(s string) []string {
	var res []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '{', '(':
			depth++
		case ']', '}', ')':
			depth--
		case ',':
			if depth == 0 {
				res = append(res, s[last:i])
				last = i + 1
			}
		}
	}
	return append(res, s[last:])
}

func cutKeyword(s, kw string) (string, bool) {
	if len(s) <= len(kw) {
		return "", false
	}
	if !strings.EqualFold(s[:len(kw)], kw) {
		return "", false
	}
	if s[len(kw)] != ' ' && s[len(kw)] != '\t' {
		return "", false
	}
	return strings.TrimSpace(s[len(kw):]), true
}

func isIdent(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
