// Package http provides meta endpoints
package http

import (
	"net/http"
	"time"

	"gitcards/internal/core/langspec"
	"gitcards/internal/core/version"
	"gitcards/internal/modkit/httpkit"
)

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Registry    *langspec.Registry
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	// mount routes
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/languages", h.languages)
}

//
// Swagger DTOs and route docs
//

// HealthResponse is the health payload
// swagger:model
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"gitcards-api"`
	Started string `json:"started"  example:"2026-08-03T13:00:00Z"`
	Now     string `json:"now"      example:"2026-08-03T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"grammars"`
	Status string `json:"status" example:"ok"` // ok fail skipped
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-08-03T13:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"    example:"gitcards-api"`
	Started string `json:"started" example:"2026-08-03T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// LanguageInfo describes one supported language
type LanguageInfo struct {
	Tag        string   `json:"tag"        example:"python"`
	Name       string   `json:"name"       example:"Python"`
	Color      string   `json:"color"      example:"#3572A5"`
	Extensions []string `json:"extensions"`
}

// swagger:route GET /meta/health Meta metaHealth
// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 type HealthResponse ok
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness probe with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 type ReadyResponse ok
// @Router /meta/ready [get]
func (h *handlers) ready(_ *http.Request) (any, error) {
	grammars := ReadyCheck{Name: "grammars", Status: "ok"}
	if h.deps.Registry == nil || len(h.deps.Registry.Tags()) == 0 {
		grammars = ReadyCheck{Name: "grammars", Status: "fail", Error: "grammar registry not loaded"}
	}

	overall := "ok"
	if grammars.Status != "ok" {
		overall = "fail"
	}

	return ReadyResponse{
		Status: overall,
		Checks: []ReadyCheck{grammars},
		Now:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 type version.BuildInfo ok
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// swagger:route GET /meta/service Meta metaService
// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 type ServiceResponse ok
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	uptime := time.Since(h.deps.StartedAt)
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(uptime / time.Second),
	}, nil
}

// swagger:route GET /meta/languages Meta metaLanguages
// @Summary Supported languages and their extensions
// @Tags Meta
// @Produce json
// @Success 200 {array} LanguageInfo ok
// @Router /meta/languages [get]
func (h *handlers) languages(_ *http.Request) (any, error) {
	if h.deps.Registry == nil {
		return []LanguageInfo{}, nil
	}
	out := make([]LanguageInfo, 0, len(h.deps.Registry.Tags()))
	for _, tag := range h.deps.Registry.Tags() {
		g, err := h.deps.Registry.Grammar(tag)
		if err != nil {
			continue
		}
		out = append(out, LanguageInfo{
			Tag:        string(g.Tag),
			Name:       g.Name,
			Color:      g.Color,
			Extensions: g.Extensions,
		})
	}
	return out, nil
}
