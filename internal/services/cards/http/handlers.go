// Package http provides the card endpoints. Responses are SVG
// documents, not the JSON envelope, so embeds work in READMEs.
package http

import (
	stdhttp "net/http"
	"strings"
	"time"

	"gitcards/internal/core/langspec"
	perr "gitcards/internal/platform/errors"
	phttp "gitcards/internal/platform/net/http"
	"gitcards/internal/platform/net/http/bind"
	"gitcards/internal/services/cards/domain"
	"gitcards/internal/services/cards/svg"
)

const cardMaxAge = 30 * time.Minute

// Register mounts the card routes
func Register(r phttp.Router, s domain.CardService) {
	h := &handlers{svc: s}
	r.Get("/identifiers", h.identifiers)
	r.Get("/languages", h.languages)
}

type handlers struct{ svc domain.CardService }

// identifierQuery is the /identifiers query surface
type identifierQuery struct {
	Username string `query:"username" json:"username" validate:"required,min=1,max=39"`
	Extract  string `query:"extract"  json:"extract"  validate:"omitempty,max=64"`
	Top      int    `query:"top"      json:"top"      validate:"omitempty,min=1,max=25"`
	Width    int    `query:"width"    json:"width"    validate:"omitempty,min=1,max=4096"`
}

// languageQuery is the /languages query surface
type languageQuery struct {
	Username string `query:"username" json:"username" validate:"required,min=1,max=39"`
	Mode     string `query:"mode"     json:"mode"     validate:"omitempty,max=16"`
	Width    int    `query:"width"    json:"width"    validate:"omitempty,min=1,max=4096"`
}

// parseCategories maps the extract parameter to categories, accepting
// the legacy names "classes" and "variables" alongside the current
// ones. Unknown kinds are dropped rather than rejected; when nothing
// usable remains the nil result selects both categories downstream, so
// an embed with a stale parameter still renders a card
func parseCategories(extract string) []langspec.Category {
	var out []langspec.Category
	seen := map[langspec.Category]bool{}
	for _, part := range strings.Split(extract, ",") {
		var c langspec.Category
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "types", "classes":
			c = langspec.CategoryType
		case "values", "variables":
			c = langspec.CategoryValue
		default:
			continue
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// GET /cards/identifiers
// @Summary Render the ranked identifier card for a user
// @Tags Cards
// @Produce image/svg+xml
// @Param username query string true "GitHub login"
// @Param extract query string false "Comma list: types,values (classes,variables accepted)"
// @Param top query int false "Entries per section, 1-25"
// @Param width query int false "Card width in px"
// @Success 200 {string} string "svg"
// @Router /cards/identifiers [get]
func (h *handlers) identifiers(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	q, err := bind.ParseQuery[identifierQuery](r)
	if err != nil {
		writeErrorCard(w, err, 0)
		return
	}
	card, err := h.svc.IdentifierCard(r.Context(), domain.IdentifierCardInput{
		Username:   q.Username,
		Categories: parseCategories(q.Extract),
		TopN:       q.Top,
		Width:      q.Width,
	})
	if err != nil {
		writeErrorCard(w, err, q.Width)
		return
	}
	phttp.RespondSVG(w, stdhttp.StatusOK, svg.Identifier(card, q.Width), cardMaxAge)
}

// GET /cards/languages
// @Summary Render the language share card for a user
// @Tags Cards
// @Produce image/svg+xml
// @Param username query string true "GitHub login"
// @Param mode query string false "Legend labels: percent, bytes, or both"
// @Param width query int false "Card width in px"
// @Success 200 {string} string "svg"
// @Router /cards/languages [get]
func (h *handlers) languages(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	q, err := bind.ParseQuery[languageQuery](r)
	if err != nil {
		writeErrorCard(w, err, 0)
		return
	}

	card, err := h.svc.LanguageCard(r.Context(), domain.LanguageCardInput{
		Username: q.Username,
		Mode:     domain.LanguageMode(q.Mode),
		Width:    q.Width,
	})
	if err != nil {
		writeErrorCard(w, err, q.Width)
		return
	}
	phttp.RespondSVG(w, stdhttp.StatusOK, svg.Languages(card, q.Width), cardMaxAge)
}

// writeErrorCard renders failures as SVG so a broken embed still shows
// something legible instead of a broken image icon
func writeErrorCard(w stdhttp.ResponseWriter, err error, width int) {
	status := perr.HTTPStatus(err)
	title := "card unavailable"
	switch {
	case perr.IsCode(err, perr.ErrorCodeNotFound):
		title = "user not found"
	case perr.IsCode(err, perr.ErrorCodeValidation), perr.IsCode(err, perr.ErrorCodeInvalidArgument):
		title = "bad request"
	case perr.IsCode(err, perr.ErrorCodeTooManyRequests):
		title = "rate limited"
	}
	phttp.RespondSVG(w, status, svg.Error(title, perr.WireFrom(err).Message, width), 0)
}
