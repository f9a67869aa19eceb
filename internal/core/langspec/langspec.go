// Package langspec loads the embedded language grammar registry.
//
// The registry is compiled once at Load(): patterns are compiled,
// lookup maps are built, and everything that affects iteration order
// is sorted so the rest of the pipeline stays deterministic.
package langspec

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	_ "embed"
)

//go:embed languages.json
var rawLanguages []byte

// Tag identifies a supported language ("python", "go", ...)
type Tag string

// Category buckets an extracted identifier
type Category string

const (
	// CategoryType covers declared nominal types: classes, interfaces, enums, structs
	CategoryType Category = "type"
	// CategoryValue covers functions, methods, variables and constants
	CategoryValue Category = "value"
)

// Categories returns all known categories in canonical order
func Categories() []Category { return []Category{CategoryType, CategoryValue} }

// ErrUnsupportedLanguage is returned when no grammar exists for a tag or path
var ErrUnsupportedLanguage = errors.New("langspec: unsupported language")

// StringRule describes one string-literal delimiter pair
type StringRule struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Escape bool   `json:"escape"`
}

// Pattern is one declaration-site template. Templates are applied in
// file order; earlier templates claim match positions first.
type Pattern struct {
	Category Category `json:"category"`
	Pattern  string   `json:"pattern"`

	Re *regexp.Regexp `json:"-"`
}

// Grammar holds everything extraction needs for one language
type Grammar struct {
	Tag           Tag         `json:"tag"`
	Name          string      `json:"name"`
	Color         string      `json:"color"`
	Extensions    []string    `json:"extensions"`
	LineComments  []string    `json:"line_comments"`
	BlockComments [][2]string `json:"block_comments"`
	NestedBlocks  bool        `json:"nested_blocks"`
	Strings       []StringRule `json:"strings"`
	Keywords      []string    `json:"keywords"`
	Stopwords     []string    `json:"stopwords"`
	Patterns      []Pattern   `json:"patterns"`

	keywordSet  map[string]struct{}
	stopwordSet map[string]struct{}
}

// IsKeyword reports whether w (already lowercased) is a reserved word
func (g *Grammar) IsKeyword(w string) bool {
	_, ok := g.keywordSet[w]
	return ok
}

// IsStopword reports whether w (already lowercased) is language noise
func (g *Grammar) IsStopword(w string) bool {
	_, ok := g.stopwordSet[w]
	return ok
}

type rawRegistry struct {
	Version          int        `json:"version"`
	GenericStopwords []string   `json:"generic_stopwords"`
	Languages        []*Grammar `json:"languages"`
}

// Registry is the compiled, immutable grammar set
type Registry struct {
	byTag   map[Tag]*Grammar
	byExt   map[string]Tag
	generic map[string]struct{}
	tags    []Tag
}

// Load parses and compiles the embedded grammar data
func Load() (*Registry, error) {
	var raw rawRegistry
	if err := json.Unmarshal(rawLanguages, &raw); err != nil {
		return nil, fmt.Errorf("langspec: parse embedded grammars: %w", err)
	}
	if len(raw.Languages) == 0 {
		return nil, errors.New("langspec: embedded grammar set is empty")
	}

	r := &Registry{
		byTag:   make(map[Tag]*Grammar, len(raw.Languages)),
		byExt:   make(map[string]Tag),
		generic: make(map[string]struct{}, len(raw.GenericStopwords)),
	}
	for _, w := range raw.GenericStopwords {
		r.generic[strings.ToLower(w)] = struct{}{}
	}

	for _, g := range raw.Languages {
		if g.Tag == "" {
			return nil, errors.New("langspec: grammar with empty tag")
		}
		if _, dup := r.byTag[g.Tag]; dup {
			return nil, fmt.Errorf("langspec: duplicate grammar tag %q", g.Tag)
		}
		for i := range g.Patterns {
			p := &g.Patterns[i]
			switch p.Category {
			case CategoryType, CategoryValue:
			default:
				return nil, fmt.Errorf("langspec: %s: unknown category %q", g.Tag, p.Category)
			}
			re, err := regexp.Compile(p.Pattern)
			if err != nil {
				return nil, fmt.Errorf("langspec: %s: compile %q: %w", g.Tag, p.Pattern, err)
			}
			if re.NumSubexp() < 1 {
				return nil, fmt.Errorf("langspec: %s: pattern %q has no capture group", g.Tag, p.Pattern)
			}
			p.Re = re
		}

		g.keywordSet = make(map[string]struct{}, len(g.Keywords))
		for _, w := range g.Keywords {
			g.keywordSet[strings.ToLower(w)] = struct{}{}
		}
		g.stopwordSet = make(map[string]struct{}, len(g.Stopwords))
		for _, w := range g.Stopwords {
			g.stopwordSet[strings.ToLower(w)] = struct{}{}
		}

		// Longest opener first so """ wins over " during span scanning
		sort.SliceStable(g.Strings, func(i, j int) bool {
			return len(g.Strings[i].Open) > len(g.Strings[j].Open)
		})

		for _, ext := range g.Extensions {
			ext = strings.ToLower(ext)
			if prev, dup := r.byExt[ext]; dup {
				return nil, fmt.Errorf("langspec: extension %q claimed by %q and %q", ext, prev, g.Tag)
			}
			r.byExt[ext] = g.Tag
		}

		r.byTag[g.Tag] = g
		r.tags = append(r.tags, g.Tag)
	}

	sort.Slice(r.tags, func(i, j int) bool { return r.tags[i] < r.tags[j] })
	return r, nil
}

// Grammar returns the compiled grammar for a tag
func (r *Registry) Grammar(t Tag) (*Grammar, error) {
	g, ok := r.byTag[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, t)
	}
	return g, nil
}

// TagForPath maps a file path to a language tag via its extension
func (r *Registry) TagForPath(path string) (Tag, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", false
	}
	t, ok := r.byExt[ext]
	return t, ok
}

// Tags lists all registered language tags, sorted
func (r *Registry) Tags() []Tag {
	out := make([]Tag, len(r.tags))
	copy(out, r.tags)
	return out
}

// IsGenericStopword reports whether w (lowercased) is cross-language noise
func (r *Registry) IsGenericStopword(w string) bool {
	_, ok := r.generic[w]
	return ok
}
