package dedup

import (
	"testing"

	"gitcards/internal/core/identnorm"
	"gitcards/internal/core/langspec"
)

func tok(key, display string, cat langspec.Category, lang langspec.Tag) identnorm.Token {
	return identnorm.Token{Key: key, Display: display, Category: cat, Language: lang}
}

func TestAddAccumulatesFrequency(t *testing.T) {
	a := NewAggregator()
	a.Add(tok("retry_policy", "RetryPolicy", langspec.CategoryType, "go"))
	a.Add(tok("retry_policy", "RetryPolicy", langspec.CategoryType, "go"))
	a.Add(tok("retry_policy", "RetryPolicy", langspec.CategoryType, "java"))

	recs := a.Records()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	r := recs[0]
	if r.Frequency != 3 {
		t.Errorf("Frequency = %d, want 3", r.Frequency)
	}
	if r.Languages["go"] != 2 || r.Languages["java"] != 1 {
		t.Errorf("language counts wrong: %v", r.Languages)
	}
	if r.LanguageCount() != 2 {
		t.Errorf("LanguageCount = %d, want 2", r.LanguageCount())
	}
}

func TestCategoryKeepsRecordsApart(t *testing.T) {
	a := NewAggregator()
	a.Add(tok("parser", "Parser", langspec.CategoryType, "go"))
	a.Add(tok("parser", "parser", langspec.CategoryValue, "go"))

	if a.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", a.Len())
	}
}

func TestDominantLanguageControlsDisplay(t *testing.T) {
	a := NewAggregator()
	a.Add(tok("user_profile", "user_profile", langspec.CategoryValue, "python"))
	a.Add(tok("user_profile", "userProfile", langspec.CategoryValue, "typescript"))
	a.Add(tok("user_profile", "userProfile", langspec.CategoryValue, "typescript"))

	r := a.Records()[0]
	if r.Dominant != "typescript" {
		t.Fatalf("Dominant = %q, want typescript", r.Dominant)
	}
	if r.Display != "userProfile" {
		t.Fatalf("Display = %q, want userProfile", r.Display)
	}
}

func TestDominantTieKeepsFirstSeen(t *testing.T) {
	a := NewAggregator()
	a.Add(tok("order_book", "order_book", langspec.CategoryValue, "python"))
	a.Add(tok("order_book", "orderBook", langspec.CategoryValue, "javascript"))

	r := a.Records()[0]
	if r.Dominant != "python" {
		t.Fatalf("tie should keep first-seen language, got %q", r.Dominant)
	}
	if r.Display != "order_book" {
		t.Fatalf("Display = %q, want order_book", r.Display)
	}
}

func TestPascalUpgradeWithinDominant(t *testing.T) {
	a := NewAggregator()
	a.Add(tok("http_server", "http_server", langspec.CategoryType, "python"))
	a.Add(tok("http_server", "HttpServer", langspec.CategoryType, "python"))
	a.Add(tok("http_server", "httpServer", langspec.CategoryType, "python"))

	r := a.Records()[0]
	if r.Display != "HttpServer" {
		t.Fatalf("Display = %q, want HttpServer", r.Display)
	}
}

func TestRecordsFirstSeenOrder(t *testing.T) {
	a := NewAggregator()
	for _, k := range []string{"zebra", "alpha", "mango"} {
		a.Add(tok(k, k, langspec.CategoryValue, "go"))
	}
	a.Add(tok("alpha", "alpha", langspec.CategoryValue, "go"))

	recs := a.Records()
	got := []string{recs[0].Key, recs[1].Key, recs[2].Key}
	want := []string{"zebra", "alpha", "mango"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
