// @title         Gitcards API
// @version       0.1.0
// @description   Embeddable SVG cards rendered from a GitHub user's public code

package main

import (
	"context"

	"github.com/joho/godotenv"

	gh "gitcards/internal/adapters/ingest/github"
	"gitcards/internal/core/langspec"
	"gitcards/internal/platform/config"
	"gitcards/internal/platform/logger"
	phttp "gitcards/internal/platform/net/http"

	"gitcards/internal/services/api"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	ghCfg := root.Prefix("SERVICE_GITHUB_")

	// bring up logging early
	l := logger.Get()

	// compiled grammar registry shared by every request
	reg, err := langspec.Load()
	if err != nil {
		l.Panic().Err(err).Msg("langspec.Load failed")
	}

	// GitHub client with the TTL cache layer
	client := gh.NewClient(gh.Options{
		BaseURL:   ghCfg.MayString("API_URL", ""),
		RawURL:    ghCfg.MayString("RAW_URL", ""),
		TokensCSV: ghCfg.MayString("TOKENS", ""),
		UserAgent: ghCfg.MayString("USER_AGENT", ""),
	})
	cached := gh.NewCachedClient(client)

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			GH:             cached,
			Registry:       reg,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
