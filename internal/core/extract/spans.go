package extract

import (
	"strings"

	"gitcards/internal/core/langspec"
)

// Span is a half-open [Start, End) byte range inside a source file
type Span struct {
	Start int
	End   int
}

// DetectSpans finds every string literal and comment in src using the
// grammar's delimiters. Single left-to-right pass; the longest string
// opener at a position wins (rules are pre-sorted by Load). Unterminated
// constructs extend to end of input.
func DetectSpans(src string, g *langspec.Grammar) []Span {
	var spans []Span
	i := 0
	n := len(src)

	for i < n {
		// String literals take precedence over comment markers so that
		// "// not a comment" inside a string stays a string.
		if rule, ok := matchString(src, i, g); ok {
			end := scanString(src, i+len(rule.Open), rule)
			spans = append(spans, Span{Start: i, End: end})
			i = end
			continue
		}

		if m := matchPrefix(src, i, g.LineComments); m != "" {
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				end = n
			} else {
				end += i // keep the newline outside the span
			}
			spans = append(spans, Span{Start: i, End: end})
			i = end
			continue
		}

		if open, close, ok := matchBlockOpen(src, i, g); ok {
			end := scanBlock(src, i+len(open), open, close, g.NestedBlocks)
			spans = append(spans, Span{Start: i, End: end})
			i = end
			continue
		}

		i++
	}
	return spans
}

// Mask replaces every span byte with a space, preserving newlines so
// multiline anchors in the templates still line up with the original.
func Mask(src string, spans []Span) string {
	if len(spans) == 0 {
		return src
	}
	b := []byte(src)
	for _, s := range spans {
		for i := s.Start; i < s.End && i < len(b); i++ {
			if b[i] != '\n' {
				b[i] = ' '
			}
		}
	}
	return string(b)
}

func matchString(src string, i int, g *langspec.Grammar) (langspec.StringRule, bool) {
	for _, rule := range g.Strings {
		if strings.HasPrefix(src[i:], rule.Open) {
			return rule, true
		}
	}
	return langspec.StringRule{}, false
}

func scanString(src string, i int, rule langspec.StringRule) int {
	n := len(src)
	for i < n {
		if rule.Escape && src[i] == '\\' {
			i += 2
			continue
		}
		if strings.HasPrefix(src[i:], rule.Close) {
			return i + len(rule.Close)
		}
		// Single-char delimiters do not cross lines; an unterminated
		// literal ends at the newline rather than eating the file.
		if src[i] == '\n' && len(rule.Open) == 1 && rule.Open != "`" {
			return i
		}
		i++
	}
	return n
}

func matchPrefix(src string, i int, prefixes []string) string {
	for _, p := range prefixes {
		if strings.HasPrefix(src[i:], p) {
			return p
		}
	}
	return ""
}

func matchBlockOpen(src string, i int, g *langspec.Grammar) (string, string, bool) {
	for _, bc := range g.BlockComments {
		if strings.HasPrefix(src[i:], bc[0]) {
			return bc[0], bc[1], true
		}
	}
	return "", "", false
}

func scanBlock(src string, i int, open, close string, nested bool) int {
	n := len(src)
	depth := 1
	for i < n {
		if nested && strings.HasPrefix(src[i:], open) {
			depth++
			i += len(open)
			continue
		}
		if strings.HasPrefix(src[i:], close) {
			depth--
			i += len(close)
			if depth == 0 {
				return i
			}
			continue
		}
		i++
	}
	return n
}
