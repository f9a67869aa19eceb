package service

import (
	"github.com/bmatcuk/doublestar/v4"

	gh "gitcards/internal/adapters/ingest/github"
	"gitcards/internal/core/langspec"
)

// DefaultSkipGlobs excludes generated and vendored trees that would
// drown real identifiers in third-party noise
var DefaultSkipGlobs = []string{
	"**/node_modules/**",
	"**/vendor/**",
	"**/dist/**",
	"**/build/**",
	"**/target/**",
	"**/.git/**",
	"**/testdata/**",
	"**/__pycache__/**",
	"**/*.min.js",
	"**/*.bundle.js",
	"**/*_pb2.py",
	"**/*.pb.go",
	"**/*.generated.*",
	"**/migrations/**",
}

// candidate is one tree entry selected for fetching
type candidate struct {
	repo   gh.Repo
	path   string
	lang   langspec.Tag
	size   int64
}

// selectCandidates walks one repo tree in listing order and picks up to
// perRepo source files: known extension, under the size cap, not matched
// by any skip glob. Tree order keeps selection deterministic.
func selectCandidates(reg *langspec.Registry, repo gh.Repo, tree gh.Tree, skip []string, perRepo int, maxFileBytes int64) []candidate {
	var out []candidate
	for _, e := range tree.Tree {
		if len(out) >= perRepo {
			break
		}
		if e.Type != "blob" {
			continue
		}
		if e.Size <= 0 || e.Size > maxFileBytes {
			continue
		}
		tag, ok := reg.TagForPath(e.Path)
		if !ok {
			continue
		}
		if skipped(e.Path, skip) {
			continue
		}
		out = append(out, candidate{repo: repo, path: e.Path, lang: tag, size: e.Size})
	}
	return out
}

func skipped(path string, globs []string) bool {
	for _, g := range globs {
		if ok, err := doublestar.Match(g, path); err == nil && ok {
			return true
		}
	}
	return false
}
