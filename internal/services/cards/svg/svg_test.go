package svg

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitcards/internal/core/langspec"
	"gitcards/internal/core/pipeline"
	"gitcards/internal/services/cards/domain"
)

func sampleCard() *domain.IdentifierCard {
	return &domain.IdentifierCard{
		Username: "octocat",
		Sections: []domain.Section{
			{
				Category: langspec.CategoryType,
				Title:    "Types & Classes",
				Entries: []pipeline.Entry{
					{Key: "auth_manager", Display: "AuthManager", Frequency: 4, Score: 2.1},
					{Key: "retry_policy", Display: "RetryPolicy", Frequency: 2, Score: 1.4},
				},
			},
			{
				Category: langspec.CategoryValue,
				Title:    "Functions & Variables",
				Entries: []pipeline.Entry{
					{Key: "verify_token", Display: "verifyToken", Frequency: 6, Score: 2.6},
				},
			},
		},
		ReposScanned: 3,
		FilesScanned: 17,
	}
}

func TestIdentifierRendersEntries(t *testing.T) {
	out := string(Identifier(sampleCard(), 0))

	for _, want := range []string{
		"AuthManager", "RetryPolicy", "verifyToken",
		"Types &amp; Classes", "Functions &amp; Variables",
		"3 repos", "17 files scanned",
	} {
		assert.Contains(t, out, want)
	}
	require.True(t, strings.HasPrefix(out, "<svg "), "not an svg document")
}

func TestIdentifierDeterministic(t *testing.T) {
	first := Identifier(sampleCard(), 480)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, Identifier(sampleCard(), 480), "render %d differs", i)
	}
}

func TestIdentifierEscapesDisplay(t *testing.T) {
	card := sampleCard()
	card.Sections[0].Entries[0].Display = `<script>"x"</script>`
	out := string(Identifier(card, 480))
	assert.NotContains(t, out, "<script>", "unescaped markup in output")
}

func TestIdentifierEmptyState(t *testing.T) {
	card := &domain.IdentifierCard{Username: "hermit", Sections: []domain.Section{
		{Category: langspec.CategoryType, Title: "Types & Classes"},
	}}
	out := string(Identifier(card, 480))
	assert.Contains(t, out, "no source files found")
}

func TestLanguages(t *testing.T) {
	card := &domain.LanguageCard{
		Username: "octocat",
		Mode:     domain.LanguageModePercent,
		Slices: []domain.LanguageSlice{
			{Tag: "python", Name: "Python", Color: "#3572A5", Bytes: 6144, Fraction: 0.6},
			{Tag: "go", Name: "Go", Color: "#00ADD8", Bytes: 4096, Fraction: 0.4},
		},
		ReposScanned: 2,
	}
	out := string(Languages(card, 480))
	for _, want := range []string{"Python 60.0%", "Go 40.0%", "#3572A5", "2 repos scanned"} {
		assert.Contains(t, out, want)
	}

	card.Mode = domain.LanguageModeBytes
	out = string(Languages(card, 480))
	assert.Contains(t, out, "Python 6.0 KB")
	assert.NotContains(t, out, "60.0%")

	card.Mode = domain.LanguageModeBoth
	out = string(Languages(card, 480))
	assert.Contains(t, out, "Python 60.0% (6.0 KB)")
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 << 20, "3.0 MB"},
		{5 << 30, "5.0 GB"},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, formatBytes(tc.in), "formatBytes(%d)", tc.in)
	}
}

func TestTrimKeepsRunesWhole(t *testing.T) {
	out := trim("café_überschreibung_mañana", 12)
	require.True(t, utf8.ValidString(out), "trim split a rune: %q", out)
	assert.True(t, strings.HasSuffix(out, "…"))
}

func TestErrorCard(t *testing.T) {
	out := string(Error("user not found", `no GitHub user "ghost"`, 480))
	require.Contains(t, out, "user not found")
	assert.NotContains(t, out, `"ghost"`, "quotes should be escaped")
}

func TestClampWidth(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, DefaultWidth},
		{-5, DefaultWidth},
		{100, MinWidth},
		{500, 500},
		{5000, MaxWidth},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, ClampWidth(tc.in), "ClampWidth(%d)", tc.in)
	}
}
