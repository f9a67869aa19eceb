// Package domain holds card service types and ports
package domain

import (
	"time"

	"gitcards/internal/core/langspec"
	"gitcards/internal/core/pipeline"
)

// IdentifierCardInput selects what an identifier card shows
type IdentifierCardInput struct {
	Username   string
	Categories []langspec.Category
	TopN       int
	Width      int
}

// Section is one category block of a rendered card, in request order
type Section struct {
	Category langspec.Category
	Title    string
	Entries  []pipeline.Entry
}

// IdentifierCard is the assembled card model handed to the renderer
type IdentifierCard struct {
	Username     string
	Sections     []Section
	ReposScanned int
	FilesScanned int
	FilesSkipped int
	BytesScanned int64
	GeneratedAt  time.Time
}

// LanguageMode selects how each language's byte share is labeled in
// the legend. Shares are always weighted by blob size.
type LanguageMode string

const (
	// LanguageModePercent labels each language with its percent share
	LanguageModePercent LanguageMode = "percent"
	// LanguageModeBytes labels each language with its byte count
	LanguageModeBytes LanguageMode = "bytes"
	// LanguageModeBoth labels with percent and byte count together
	LanguageModeBoth LanguageMode = "both"
)

// LanguageCardInput selects what a language card shows
type LanguageCardInput struct {
	Username string
	Mode     LanguageMode
	Width    int
}

// LanguageSlice is one language's share of the scanned corpus
type LanguageSlice struct {
	Tag      langspec.Tag
	Name     string
	Color    string
	Files    int
	Bytes    int64
	Fraction float64
}

// LanguageCard is the assembled language breakdown card
type LanguageCard struct {
	Username     string
	Mode         LanguageMode
	Slices       []LanguageSlice
	ReposScanned int
	GeneratedAt  time.Time
}
