// Package module wires cards into the API using modkit
package module

import (
	"net/http"

	modkit "gitcards/internal/modkit"
	"gitcards/internal/modkit/httpkit"
	str "gitcards/internal/platform/strings"
	"gitcards/internal/services/cards/domain"
	cardshttp "gitcards/internal/services/cards/http"
	cardssvc "gitcards/internal/services/cards/service"
)

// Ports exposes the card service for cross-module lookups
type Ports struct {
	Cards domain.CardService
}

// Module implements the cards module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc domain.CardService
}

// New constructs the cards module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("cards"), modkit.WithPrefix("/cards")}, opts...)...)

	svc := cardssvc.New(deps.GH, deps.Registry, FromConfig(deps.Cfg))

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Cards: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		cardshttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
