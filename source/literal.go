package source

import (
	"strconv"
	"strings"
)

// ParseLiteral interprets s as a literal value. Quoted strings lose their
// quotes, "true"/"false" become bools, numbers become int64 or float64,
// and "[a, b]" becomes a []any of parsed elements. Anything else is
// returned unchanged as a string.
func ParseLiteral(s string) any {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '\'' || first == '"' || first == '`') && last == first {
			return s[1 : len(s)-1]
		}
		if first == '[' && last == ']' {
			inner := strings.TrimSpace(s[1 : len(s)-1])
			if inner == "" {
				return []any{}
			}
			parts := splitTopLevel(inner, ',')
			out := make([]any, len(parts))
			for i, p := range parts {
				out[i] = ParseLiteral(p)
			}
			return out
		}
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// splitTopLevel splits s on sep, ignoring separators nested inside
// brackets or quotes.
func splitTopLevel(s string, sep rune) []string {
	var parts []string
	var current strings.Builder
	depth := 0
	var quote rune
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"' || r == '`':
			quote = r
		case r == '[' || r == '<' || r == '(':
			depth++
		case r == ']' || r == '>' || r == ')':
			depth--
		case r == sep && depth == 0:
			parts = append(parts, strings.TrimSpace(current.String()))
			current.Reset()
			continue
		}
		current.WriteRune(r)
	}
	parts = append(parts, strings.TrimSpace(current.String()))
	return parts
}
