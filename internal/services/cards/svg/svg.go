// Package svg renders card models into self-contained SVG documents.
//
// Rendering is pure: the same card model always yields the same bytes,
// which keeps card responses cacheable by URL.
package svg

import (
	"bytes"
	"fmt"
	"strings"

	"gitcards/internal/core/langspec"
	"gitcards/internal/services/cards/domain"
)

const (
	DefaultWidth = 480
	MinWidth     = 320
	MaxWidth     = 960

	headerH   = 44
	sectionH  = 26
	rowH      = 22
	footerH   = 30
	padX      = 18
	barStartX = 170
	barH      = 12

	bgColor     = "#0d1117"
	borderColor = "#30363d"
	titleColor  = "#e6edf3"
	labelColor  = "#c9d1d9"
	mutedColor  = "#8b949e"
	trackColor  = "#21262d"
)

// categoryColor picks the bar fill per category
func categoryColor(c langspec.Category) string {
	if c == langspec.CategoryType {
		return "#a371f7"
	}
	return "#3fb950"
}

// ClampWidth normalizes a requested card width
func ClampWidth(w int) int {
	switch {
	case w <= 0:
		return DefaultWidth
	case w < MinWidth:
		return MinWidth
	case w > MaxWidth:
		return MaxWidth
	default:
		return w
	}
}

func escape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return r.Replace(s)
}

func open(b *bytes.Buffer, width, height int, title string) {
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" role="img" aria-label="%s">`+"\n",
		width, height, width, height, escape(title))
	fmt.Fprintf(b, `<rect x="0.5" y="0.5" width="%d" height="%d" rx="6" fill="%s" stroke="%s"/>`+"\n",
		width-1, height-1, bgColor, borderColor)
	b.WriteString(`<g font-family="ui-monospace,SFMono-Regular,Menlo,monospace">` + "\n")
}

func closeSVG(b *bytes.Buffer) {
	b.WriteString("</g>\n</svg>\n")
}

// Identifier renders the ranked identifier card
func Identifier(card *domain.IdentifierCard, width int) []byte {
	width = ClampWidth(width)

	rows := 0
	for _, sec := range card.Sections {
		rows += len(sec.Entries)
	}
	height := headerH + len(card.Sections)*sectionH + rows*rowH + footerH
	if rows == 0 {
		height += rowH // room for the empty-state line
	}

	var b bytes.Buffer
	open(&b, width, height, card.Username+" identifiers")
	fmt.Fprintf(&b, `<text x="%d" y="28" font-size="15" font-weight="bold" fill="%s">%s&#39;s identifiers</text>`+"\n",
		padX, titleColor, escape(card.Username))

	y := headerH
	if rows == 0 {
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="12" fill="%s">no source files found</text>`+"\n",
			padX, y+16, mutedColor)
		y += rowH
	}

	for _, sec := range card.Sections {
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="12" font-weight="bold" fill="%s">%s</text>`+"\n",
			padX, y+18, mutedColor, escape(sec.Title))
		y += sectionH

		maxScore := 0.0
		for _, e := range sec.Entries {
			if e.Score > maxScore {
				maxScore = e.Score
			}
		}
		barMax := width - barStartX - padX - 40
		for _, e := range sec.Entries {
			frac := 0.0
			if maxScore > 0 {
				frac = e.Score / maxScore
			}
			w := int(frac * float64(barMax))
			if w < 2 {
				w = 2
			}
			fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="12" fill="%s">%s</text>`+"\n",
				padX, y+15, labelColor, escape(trim(e.Display, 22)))
			fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" rx="3" fill="%s"/>`+"\n",
				barStartX, y+5, barMax, barH, trackColor)
			fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" rx="3" fill="%s"/>`+"\n",
				barStartX, y+5, w, barH, categoryColor(sec.Category))
			fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="11" fill="%s">%d</text>`+"\n",
				barStartX+barMax+8, y+15, mutedColor, e.Frequency)
			y += rowH
		}
	}

	fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="11" fill="%s">%d repos &#8226; %d files scanned</text>`+"\n",
		padX, height-12, mutedColor, card.ReposScanned, card.FilesScanned)
	closeSVG(&b)
	return b.Bytes()
}

// Languages renders the language share card: one stacked bar plus a legend
func Languages(card *domain.LanguageCard, width int) []byte {
	width = ClampWidth(width)

	const maxSlices = 8
	slices := card.Slices
	if len(slices) > maxSlices {
		slices = slices[:maxSlices]
	}

	legendRows := (len(slices) + 1) / 2
	height := headerH + 28 + legendRows*rowH + footerH
	if len(slices) == 0 {
		height = headerH + rowH + footerH
	}

	var b bytes.Buffer
	open(&b, width, height, card.Username+" languages")
	fmt.Fprintf(&b, `<text x="%d" y="28" font-size="15" font-weight="bold" fill="%s">%s&#39;s languages</text>`+"\n",
		padX, titleColor, escape(card.Username))

	if len(slices) == 0 {
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="12" fill="%s">no source files found</text>`+"\n",
			padX, headerH+16, mutedColor)
	} else {
		barW := width - 2*padX
		x := float64(padX)
		for _, sl := range slices {
			w := sl.Fraction * float64(barW)
			fmt.Fprintf(&b, `<rect x="%.1f" y="%d" width="%.1f" height="%d" fill="%s"/>`+"\n",
				x, headerH, w, barH, sl.Color)
			x += w
		}

		y := headerH + 28
		for i, sl := range slices {
			col := i % 2
			lx := padX + col*(width-2*padX)/2
			ly := y + (i/2)*rowH
			fmt.Fprintf(&b, `<circle cx="%d" cy="%d" r="5" fill="%s"/>`+"\n", lx+5, ly+10, sl.Color)
			fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="12" fill="%s">%s</text>`+"\n",
				lx+16, ly+14, labelColor, escape(legendLabel(card.Mode, sl)))
		}
	}

	fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="11" fill="%s">%d repos scanned</text>`+"\n",
		padX, height-12, mutedColor, card.ReposScanned)
	closeSVG(&b)
	return b.Bytes()
}

// Error renders a compact error card so embeds degrade gracefully
func Error(title, msg string, width int) []byte {
	width = ClampWidth(width)
	height := headerH + rowH + footerH

	var b bytes.Buffer
	open(&b, width, height, title)
	fmt.Fprintf(&b, `<text x="%d" y="28" font-size="15" font-weight="bold" fill="#f85149">%s</text>`+"\n",
		padX, escape(title))
	fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="12" fill="%s">%s</text>`+"\n",
		padX, headerH+16, mutedColor, escape(trim(msg, 64)))
	closeSVG(&b)
	return b.Bytes()
}

// legendLabel formats one legend entry per the card's label mode
func legendLabel(mode domain.LanguageMode, sl domain.LanguageSlice) string {
	switch mode {
	case domain.LanguageModeBytes:
		return fmt.Sprintf("%s %s", sl.Name, formatBytes(sl.Bytes))
	case domain.LanguageModeBoth:
		return fmt.Sprintf("%s %.1f%% (%s)", sl.Name, sl.Fraction*100, formatBytes(sl.Bytes))
	default:
		return fmt.Sprintf("%s %.1f%%", sl.Name, sl.Fraction*100)
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	v := float64(n)
	suffix := []string{"KB", "MB", "GB"}
	i := -1
	for v >= unit && i < len(suffix)-1 {
		v /= unit
		i++
	}
	return fmt.Sprintf("%.1f %s", v, suffix[i])
}

// trim shortens on rune boundaries so a cut never splits a multi-byte
// character inside the document
func trim(s string, max int) string {
	if len(s) <= max {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
