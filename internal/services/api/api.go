// Package api provides the HTTP API for the application
package api

import (
	stdhttp "net/http"

	gh "gitcards/internal/adapters/ingest/github"
	"gitcards/internal/core/langspec"
	"gitcards/internal/platform/config"
	"gitcards/internal/platform/logger"
	phttp "gitcards/internal/platform/net/http"

	"gitcards/internal/modkit"
	"gitcards/internal/modkit/httpkit"
	"gitcards/internal/modkit/module"
	"gitcards/internal/modkit/swaggerkit"

	metamod "gitcards/internal/services/api/meta/module"
	cardsmod "gitcards/internal/services/cards/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	GH             *gh.CachedClient
	Registry       *langspec.Registry
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg:      opt.Config,
		GH:       opt.GH,
		Registry: opt.Registry,
	}

	mods := []module.Module{
		metamod.New(deps),
		cardsmod.New(deps),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})

	// landing page with usage examples
	r.Get("/", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		phttp.RespondHTML(w, stdhttp.StatusOK, indexPage())
	})
}

func indexPage() []byte {
	return []byte(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>gitcards</title>
<style>
body{font-family:ui-monospace,SFMono-Regular,Menlo,monospace;background:#0d1117;color:#c9d1d9;max-width:720px;margin:40px auto;padding:0 16px}
a{color:#58a6ff}code{background:#161b22;padding:2px 6px;border-radius:4px}
h1{color:#e6edf3}
</style>
</head>
<body>
<h1>gitcards</h1>
<p>Embeddable SVG cards built from the identifiers in a GitHub user's public code.</p>
<p>Identifier card:</p>
<p><code>/api/v1/cards/identifiers?username=OCTOCAT</code></p>
<p>Optional parameters: <code>extract=types,values</code>, <code>top=10</code>, <code>width=480</code></p>
<p>Language card:</p>
<p><code>/api/v1/cards/languages?username=OCTOCAT&amp;mode=bytes</code></p>
<p>Supported languages: <a href="/api/v1/meta/languages">/api/v1/meta/languages</a></p>
</body>
</html>
`)
}
