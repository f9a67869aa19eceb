// Package modkit provides module wiring and core deps
package modkit

import (
	gh "gitcards/internal/adapters/ingest/github"
	"gitcards/internal/core/langspec"
	"gitcards/internal/platform/config"
	"gitcards/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log      logger.Logger
	Cfg      config.Conf
	GH       *gh.CachedClient
	Registry *langspec.Registry
}

// ZeroOK returns true when deps are safe to use with zero values in tests
// consumers should still nil check for optional adapters
func (d Deps) ZeroOK() bool { return true }
