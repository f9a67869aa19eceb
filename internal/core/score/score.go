// Package score assigns a quality score to deduplicated identifiers.
//
// The score is a product of fixed factors: a length curve that favors
// mid-length names, a casing factor keyed to the category's expected
// convention, a frequency factor that grows monotonically but
// sub-linearly, and a small bonus for appearing across languages.
// All weights are constants; scoring a record twice gives the same
// number.
package score

import (
	"math"
	"strings"
	"unicode"

	"gitcards/internal/core/dedup"
	"gitcards/internal/core/langspec"
)

const (
	baseType  = 1.0
	baseValue = 1.0

	lenTiny  = 0.60 // < 4 chars
	lenShort = 0.85 // 4-5
	lenGood  = 1.00 // 6-20
	lenLong  = 0.90 // 21-30
	lenHuge  = 0.70

	casingMatch   = 1.30 // spelling matches the category's convention
	casingAcronym = 1.15 // embedded acronym run (parseJSON, HTTPPool)
	casingFlat    = 0.85 // all-lowercase single blob

	freqWeight = 0.35

	diversityTwo  = 1.10
	diversityMany = 1.25 // 3+ languages
)

// Score computes the record's quality score from its display spelling,
// frequency and language spread
func Score(r *dedup.Record) float64 {
	s := categoryBase(r.Category)
	s *= lengthFactor(len(r.Display))
	s *= casingFactor(r.Display, r.Category)
	s *= freqFactor(r.Frequency)
	s *= diversityFactor(r.LanguageCount())
	return s
}

// Apply scores every record in place
func Apply(recs []*dedup.Record) {
	for _, r := range recs {
		r.Score = Score(r)
	}
}

func categoryBase(c langspec.Category) float64 {
	if c == langspec.CategoryType {
		return baseType
	}
	return baseValue
}

func lengthFactor(n int) float64 {
	switch {
	case n < 4:
		return lenTiny
	case n <= 5:
		return lenShort
	case n <= 20:
		return lenGood
	case n <= 30:
		return lenLong
	default:
		return lenHuge
	}
}

func casingFactor(display string, c langspec.Category) float64 {
	f := 1.0
	runes := []rune(display)
	if len(runes) == 0 {
		return f
	}

	upperFirst := unicode.IsUpper(runes[0])
	hasUpper := strings.IndexFunc(display, unicode.IsUpper) >= 0
	hasSep := strings.ContainsAny(display, "_-")

	switch c {
	case langspec.CategoryType:
		if upperFirst {
			f *= casingMatch
		}
	default:
		// camelCase or snake_case both read as deliberate value names
		if (!upperFirst && hasUpper) || (hasSep && !hasUpper) {
			f *= casingMatch
		}
	}

	if acronymRun(runes) {
		f *= casingAcronym
	}
	if !hasUpper && !hasSep {
		f *= casingFlat
	}
	return f
}

// acronymRun reports two or more consecutive uppercase letters
func acronymRun(runes []rune) bool {
	run := 0
	for _, r := range runes {
		if unicode.IsUpper(r) {
			run++
			if run >= 2 {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

// freqFactor grows without bound but slowly, so a wildly repeated
// boilerplate name cannot bury everything else
func freqFactor(freq int) float64 {
	if freq < 1 {
		freq = 1
	}
	return 1 + math.Log2(1+float64(freq))*freqWeight
}

func diversityFactor(langs int) float64 {
	switch {
	case langs >= 3:
		return diversityMany
	case langs == 2:
		return diversityTwo
	default:
		return 1.0
	}
}
