// Package dedup aggregates normalized tokens into per-identifier records.
//
// Records are keyed by (canonical key, category): a type named Parser
// and a function named parser stay distinct. The display spelling
// follows the dominant language, with first-seen order breaking ties,
// so repeated runs over the same input produce the same card.
package dedup

import (
	"sort"
	"sync"

	"gitcards/internal/core/identnorm"
	"gitcards/internal/core/langspec"
)

// Record is one deduplicated identifier with its aggregate counts
type Record struct {
	Key       string
	Display   string
	Category  langspec.Category
	Frequency int
	Languages map[langspec.Tag]int
	Dominant  langspec.Tag
	Score     float64

	seq      int
	langSeen map[langspec.Tag]int
	langNext int
}

// LanguageCount returns how many distinct languages contributed
func (r *Record) LanguageCount() int { return len(r.Languages) }

type recordKey struct {
	key string
	cat langspec.Category
}

// Aggregator accumulates tokens. Safe for concurrent Add, though the
// pipeline feeds it serially to keep tie-breaks order-stable.
type Aggregator struct {
	mu   sync.Mutex
	byID map[recordKey]*Record
	next int
}

// NewAggregator returns an empty Aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{byID: make(map[recordKey]*Record)}
}

// Add folds one token into its record
func (a *Aggregator) Add(tok identnorm.Token) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := recordKey{key: tok.Key, cat: tok.Category}
	r, ok := a.byID[id]
	if !ok {
		r = &Record{
			Key:       tok.Key,
			Display:   tok.Display,
			Category:  tok.Category,
			Languages: make(map[langspec.Tag]int),
			Dominant:  tok.Language,
			seq:       a.next,
			langSeen:  make(map[langspec.Tag]int),
		}
		a.next++
		a.byID[id] = r
	}

	if _, seen := r.langSeen[tok.Language]; !seen {
		r.langSeen[tok.Language] = r.langNext
		r.langNext++
	}

	r.Frequency++
	r.Languages[tok.Language]++

	// The display spelling tracks the dominant language. A strictly
	// higher count takes over; on equal counts the earlier-seen
	// language keeps the slot.
	cur, cand := r.Languages[r.Dominant], r.Languages[tok.Language]
	switch {
	case tok.Language == r.Dominant:
		// Within the dominant language, upgrade once to a PascalCase
		// spelling; it reads better on the card than snake_case.
		if !pascalCase(r.Display) && pascalCase(tok.Display) {
			r.Display = tok.Display
		}
	case cand > cur || (cand == cur && r.langSeen[tok.Language] < r.langSeen[r.Dominant]):
		r.Dominant = tok.Language
		r.Display = tok.Display
	}
}

func pascalCase(s string) bool {
	if s == "" || s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || c == '-' || c == '$' {
			return false
		}
	}
	return true
}

// Records returns all records in first-seen order
func (a *Aggregator) Records() []*Record {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]*Record, 0, len(a.byID))
	for _, r := range a.byID {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// Len reports how many distinct records have accumulated
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.byID)
}
