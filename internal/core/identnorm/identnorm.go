// Package identnorm turns raw identifier text into canonical tokens.
//
// Two spellings of the same name ("getUserData", "get_user_data",
// "GetUserData") must collapse to one canonical key so downstream
// aggregation counts them together. Splitting is acronym-aware:
// HTTPServer becomes [http server], not [h t t p server].
package identnorm

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"gitcards/internal/core/extract"
	"gitcards/internal/core/langspec"
)

// Token is a normalized identifier occurrence
type Token struct {
	Key      string
	Display  string
	Category langspec.Category
	Language langspec.Tag
}

// Normalizer applies canonicalization and stopword filtering against
// a loaded registry. Safe for concurrent use; casers are pooled since
// they carry transformer state.
type Normalizer struct {
	reg   *langspec.Registry
	folds sync.Pool
}

// New builds a Normalizer bound to the registry's stopword sets
func New(reg *langspec.Registry) *Normalizer {
	return &Normalizer{
		reg: reg,
		folds: sync.Pool{New: func() any {
			c := cases.Fold()
			return &c
		}},
	}
}

// Normalize canonicalizes one raw token. ok is false when the token is
// rejected: stopworded, keyword-only, or empty after splitting.
func (n *Normalizer) Normalize(raw extract.RawToken, g *langspec.Grammar) (Token, bool) {
	words := SplitWords(raw.Text)
	if len(words) == 0 {
		return Token{}, false
	}

	fold := n.folds.Get().(*cases.Caser)
	folded := make([]string, len(words))
	for i, w := range words {
		folded[i] = fold.String(norm.NFKC.String(w))
	}
	n.folds.Put(fold)
	key := strings.Join(folded, "_")

	if n.rejected(key, folded, g) {
		return Token{}, false
	}

	return Token{
		Key:      key,
		Display:  raw.Text,
		Category: raw.Category,
		Language: raw.Language,
	}, true
}

// rejected drops a token when its whole key or any constituent word is
// noise for this language or globally
func (n *Normalizer) rejected(key string, words []string, g *langspec.Grammar) bool {
	if n.reg.IsGenericStopword(key) || g.IsStopword(key) || g.IsKeyword(key) {
		return true
	}
	for _, w := range words {
		if n.reg.IsGenericStopword(w) || g.IsStopword(w) {
			return true
		}
	}
	return false
}

// SplitWords breaks an identifier into its constituent words.
//
// Boundaries: non-alphanumeric separators, lower-to-upper transitions,
// the end of an acronym run (the last upper of "HTTPServer" starts
// "Server"), and letter-to-digit transitions.
func SplitWords(ident string) []string {
	var words []string
	runes := []rune(ident)
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r):
			prev := rune(0)
			if i > 0 {
				prev = runes[i-1]
			}
			next := rune(0)
			if i+1 < len(runes) {
				next = runes[i+1]
			}
			// camelCase boundary, or an acronym run ending before a
			// lowercase letter (HTTPServer -> http | server)
			if unicode.IsLower(prev) || unicode.IsDigit(prev) ||
				(unicode.IsUpper(prev) && unicode.IsLower(next)) {
				flush()
			}
			cur = append(cur, r)
		case unicode.IsDigit(r):
			if i > 0 && unicode.IsLetter(runes[i-1]) {
				flush()
			}
			cur = append(cur, r)
		default:
			if i > 0 && unicode.IsDigit(runes[i-1]) {
				flush()
			}
			cur = append(cur, r)
		}
	}
	flush()
	return words
}
