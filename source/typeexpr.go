package source

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseTypeExpr parses the textual type forms used by manifests:
//
//	string                    named reference
//	User[]                    array syntax (repeatable: User[][])
//	Page<User>                generic instantiation
//	Pick<User, 'id' | 'name'> string-literal union argument
//	Org | null                nullable union, reduced to Org
//	(A | B)[]                 parenthesized element
//
// Unions of several non-literal members are rejected.
func ParseTypeExpr(s string) (TypeExpr, error) {
	p := &typeParser{src: s}
	p.next()
	t, err := p.parseUnion()
	if err != nil {
		return TypeExpr{}, err
	}
	if p.tok.kind != tokEOF {
		return TypeExpr{}, p.errorf("unexpected %q", p.tok.text)
	}
	return t, nil
}

// MustParseTypeExpr is like ParseTypeExpr but panics on error.
// It is intended for tests and static declarations.
func MustParseTypeExpr(s string) TypeExpr {
	t, err := ParseTypeExpr(s)
	if err != nil {
		panic(err)
	}
	return t
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokString
	tokPunct
)

type token struct {
	kind tokKind
	text string
	pos  int
}

type typeParser struct {
	src string
	off int
	tok token
}

func (p *typeParser) errorf(format string, args ...any) error {
	return fmt.Errorf("source: invalid type expression %q at offset %d: %s", p.src, p.tok.pos, fmt.Sprintf(format, args...))
}

func isIdentRune(r rune, first bool) bool {
	if r == '_' || r == '$' || unicode.IsLetter(r) {
		return true
	}
	return !first && (unicode.IsDigit(r) || r == '.')
}

func (p *typeParser) next() {
	for p.off < len(p.src) && unicode.IsSpace(rune(p.src[p.off])) {
		p.off++
	}
	start := p.off
	if p.off >= len(p.src) {
		p.tok = token{kind: tokEOF, pos: start}
		return
	}
	c := rune(p.src[p.off])
	switch {
	case c == '\'' || c == '"':
		end := strings.IndexRune(p.src[p.off+1:], c)
		if end < 0 {
			p.tok = token{kind: tokPunct, text: p.src[p.off:], pos: start}
			p.off = len(p.src)
			return
		}
		p.tok = token{kind: tokString, text: p.src[p.off+1 : p.off+1+end], pos: start}
		p.off += end + 2
	case isIdentRune(c, true):
		for p.off < len(p.src) && isIdentRune(rune(p.src[p.off]), false) {
			p.off++
		}
		p.tok = token{kind: tokIdent, text: p.src[start:p.off], pos: start}
	default:
		p.off++
		p.tok = token{kind: tokPunct, text: string(c), pos: start}
	}
}

func (p *typeParser) accept(punct string) bool {
	if p.tok.kind == tokPunct && p.tok.text == punct {
		p.next()
		return true
	}
	return false
}

func (p *typeParser) parseUnion() (TypeExpr, error) {
	var members []TypeExpr
	for {
		t, err := p.parsePostfix()
		if err != nil {
			return TypeExpr{}, err
		}
		members = append(members, t)
		if !p.accept("|") {
			break
		}
	}
	if len(members) == 1 {
		return members[0], nil
	}

	var literals []string
	var others []TypeExpr
	for _, m := range members {
		switch {
		case m.IsLiteralUnion():
			literals = append(literals, m.Literals...)
		case m.Elem == nil && len(m.Args) == 0 && (m.Name == "null" || m.Name == "undefined"):
			// nullable marker
		default:
			others = append(others, m)
		}
	}
	switch {
	case len(others) == 0 && len(literals) > 0:
		return LiteralUnion(literals...), nil
	case len(others) == 1 && len(literals) == 0:
		return others[0], nil
	default:
		return TypeExpr{}, p.errorf("unsupported union of %d members", len(members))
	}
}

func (p *typeParser) parsePostfix() (TypeExpr, error) {
	t, err := p.parsePrimary()
	if err != nil {
		return TypeExpr{}, err
	}
	for p.accept("[") {
		if !p.accept("]") {
			return TypeExpr{}, p.errorf("expected ]")
		}
		t = ArrayOf(t)
	}
	return t, nil
}

func (p *typeParser) parsePrimary() (TypeExpr, error) {
	switch p.tok.kind {
	case tokString:
		lit := p.tok.text
		p.next()
		return LiteralUnion(lit), nil
	case tokIdent:
		name := p.tok.text
		p.next()
		t := TypeExpr{Name: name}
		if p.accept("<") {
			for {
				arg, err := p.parseUnion()
				if err != nil {
					return TypeExpr{}, err
				}
				t.Args = append(t.Args, arg)
				if p.accept(",") {
					continue
				}
				if !p.accept(">") {
					return TypeExpr{}, p.errorf("expected > or ,")
				}
				break
			}
		}
		return t, nil
	case tokPunct:
		if p.accept("(") {
			t, err := p.parseUnion()
			if err != nil {
				return TypeExpr{}, err
			}
			if !p.accept(")") {
				return TypeExpr{}, p.errorf("expected )")
			}
			return t, nil
		}
		return TypeExpr{}, p.errorf("unexpected %q", p.tok.text)
	default:
		return TypeExpr{}, p.errorf("unexpected end of input")
	}
}
