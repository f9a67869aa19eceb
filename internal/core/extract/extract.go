// Package extract pulls declared identifiers out of masked source text.
//
// Extraction is template-driven: each grammar carries an ordered list of
// declaration-site patterns, and earlier templates claim match positions
// before later ones see them. String literals and comments are masked
// out first so quoted code never produces tokens.
package extract

import (
	"gitcards/internal/core/langspec"
)

// RawToken is one identifier occurrence before normalization
type RawToken struct {
	Text     string
	Category langspec.Category
	Language langspec.Tag
	Path     string
}

const (
	minTokenLen = 3
	maxTokenLen = 30
)

// Scan extracts identifier occurrences from one file's content.
// Tokens come back in (template, match) order, which is stable for a
// given grammar and input.
func Scan(path, src string, g *langspec.Grammar) []RawToken {
	masked := Mask(src, DetectSpans(src, g))

	var out []RawToken
	claimed := make(map[int]struct{})

	for _, p := range g.Patterns {
		matches := p.Re.FindAllStringSubmatchIndex(masked, -1)
		for _, m := range matches {
			start, end := captureBounds(m)
			if start < 0 {
				continue
			}
			if _, taken := claimed[start]; taken {
				continue
			}
			text := masked[start:end]
			if !keepable(text, g) {
				continue
			}
			claimed[start] = struct{}{}
			out = append(out, RawToken{
				Text:     text,
				Category: p.Category,
				Language: g.Tag,
				Path:     path,
			})
		}
	}
	return out
}

// captureBounds returns the last non-empty capture group of a match
func captureBounds(m []int) (int, int) {
	for i := len(m) - 2; i >= 2; i -= 2 {
		if m[i] >= 0 {
			return m[i], m[i+1]
		}
	}
	return -1, -1
}

func keepable(text string, g *langspec.Grammar) bool {
	if len(text) < minTokenLen || len(text) > maxTokenLen {
		return false
	}
	if g.IsKeyword(lower(text)) {
		return false
	}
	digits := 0
	for i := 0; i < len(text); i++ {
		if text[i] >= '0' && text[i] <= '9' {
			digits++
		}
	}
	return digits != len(text)
}

func lower(s string) string {
	b := []byte(s)
	changed := false
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(b)
}
