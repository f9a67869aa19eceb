package module

import (
	"gitcards/internal/platform/config"
	"gitcards/internal/services/cards/service"
)

// FromConfig reads card build limits from CARDS_* env keys
func FromConfig(cfg config.Conf) service.Options {
	c := cfg.Prefix("CARDS_")
	return service.Options{
		MaxRepos:     c.MayInt("MAX_REPOS", 30),
		FilesPerRepo: c.MayInt("FILES_PER_REPO", 6),
		MaxFiles:     c.MayInt("MAX_FILES", 200),
		MaxFileBytes: int64(c.MayInt("MAX_FILE_BYTES", 100<<10)),
		Concurrency:  c.MayInt("CONCURRENCY", 8),
		TopN:         c.MayInt("TOP_N", 10),
		SkipGlobs:    c.MayCSV("SKIP_GLOBS", nil),
	}
}
