// Package service orchestrates card assembly: list repos, walk trees,
// fetch candidate files, run the extraction flow, shape the card.
package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	gh "gitcards/internal/adapters/ingest/github"
	"gitcards/internal/core/langspec"
	"gitcards/internal/core/pipeline"
	perr "gitcards/internal/platform/errors"
	"gitcards/internal/platform/logger"
	"gitcards/internal/services/cards/domain"
)

// Options bound one card build
type Options struct {
	MaxRepos     int
	FilesPerRepo int
	MaxFiles     int
	MaxFileBytes int64
	Concurrency  int
	TopN         int
	SkipGlobs    []string
}

func (o Options) withDefaults() Options {
	if o.MaxRepos <= 0 {
		o.MaxRepos = 30
	}
	if o.FilesPerRepo <= 0 {
		o.FilesPerRepo = 6
	}
	if o.MaxFiles <= 0 {
		o.MaxFiles = pipeline.DefaultMaxFiles
	}
	if o.MaxFileBytes <= 0 {
		o.MaxFileBytes = pipeline.DefaultMaxFileBytes
	}
	if o.Concurrency <= 0 {
		o.Concurrency = pipeline.DefaultConcurrency
	}
	if o.TopN <= 0 {
		o.TopN = pipeline.DefaultTopN
	}
	if o.SkipGlobs == nil {
		o.SkipGlobs = DefaultSkipGlobs
	}
	return o
}

// Service implements domain.CardService
type Service struct {
	src    domain.ContentSource
	reg    *langspec.Registry
	runner *pipeline.Runner
	opts   Options
	log    logger.Logger
}

// New constructs the card service
func New(src domain.ContentSource, reg *langspec.Registry, opts Options) *Service {
	if src == nil {
		panic("cards.Service requires a non-nil ContentSource")
	}
	return &Service{
		src:    src,
		reg:    reg,
		runner: pipeline.New(reg),
		opts:   opts.withDefaults(),
		log:    *logger.Named("cards"),
	}
}

// sectionTitle maps a category to its card heading
func sectionTitle(c langspec.Category) string {
	switch c {
	case langspec.CategoryType:
		return "Types & Classes"
	case langspec.CategoryValue:
		return "Functions & Variables"
	default:
		return string(c)
	}
}

// IdentifierCard builds the ranked identifier card for one user
func (s *Service) IdentifierCard(ctx context.Context, in domain.IdentifierCardInput) (*domain.IdentifierCard, error) {
	if in.Username == "" {
		return nil, perr.InvalidArgf("username is required")
	}
	cats := in.Categories
	if len(cats) == 0 {
		cats = langspec.Categories()
	}
	topN := in.TopN
	if topN <= 0 {
		topN = s.opts.TopN
	}
	log := s.log.With().Str("scan_id", uuid.NewString()).Str("user", in.Username).Logger()

	repos, trees, err := s.scan(ctx, log, in.Username)
	if err != nil {
		return nil, err
	}

	// Candidate selection in repo order, then a global cap
	var cands []candidate
	for i, repo := range repos {
		if trees[i] == nil {
			continue
		}
		picked := selectCandidates(s.reg, repo, *trees[i], s.opts.SkipGlobs, s.opts.FilesPerRepo, s.opts.MaxFileBytes)
		if len(cands)+len(picked) > s.opts.MaxFiles {
			picked = picked[:s.opts.MaxFiles-len(cands)]
		}
		cands = append(cands, picked...)
		if len(cands) >= s.opts.MaxFiles {
			break
		}
	}

	// Parallel content fetch into indexed slots; a failed fetch skips
	// the file rather than failing the card
	contents := make([][]byte, len(cands))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.opts.Concurrency)
	for i, c := range cands {
		i, c := i, c
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b, err := s.src.RawFile(gctx, c.repo.FullName, branchOf(c.repo), c.path, s.opts.MaxFileBytes)
			if err != nil {
				log.Warn().Err(err).Str("repo", c.repo.FullName).Str("path", c.path).Msg("raw fetch failed, skipping file")
				return nil
			}
			contents[i] = b
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	files := make([]pipeline.SourceFile, 0, len(cands))
	fetchFailed := 0
	for i, c := range cands {
		if contents[i] == nil {
			fetchFailed++
			continue
		}
		files = append(files, pipeline.SourceFile{Path: c.path, Content: contents[i]})
	}

	res, err := s.runner.Run(ctx, files, cats, pipeline.Options{
		MaxFiles:     s.opts.MaxFiles,
		MaxFileBytes: s.opts.MaxFileBytes,
		Concurrency:  s.opts.Concurrency,
		TopN:         topN,
	})
	if err != nil {
		return nil, err
	}

	card := &domain.IdentifierCard{
		Username:     in.Username,
		ReposScanned: scannedRepos(trees),
		FilesScanned: res.FilesProcessed,
		FilesSkipped: res.FilesSkipped + fetchFailed,
		BytesScanned: res.BytesProcessed,
		GeneratedAt:  time.Now().UTC(),
	}
	for _, c := range cats {
		card.Sections = append(card.Sections, domain.Section{
			Category: c,
			Title:    sectionTitle(c),
			Entries:  res.Entries[c],
		})
	}
	return card, nil
}

// LanguageCard builds the language share card from tree listings alone;
// no file content is fetched for it
func (s *Service) LanguageCard(ctx context.Context, in domain.LanguageCardInput) (*domain.LanguageCard, error) {
	if in.Username == "" {
		return nil, perr.InvalidArgf("username is required")
	}
	mode := labelMode(in.Mode)

	log := s.log.With().Str("scan_id", uuid.NewString()).Str("user", in.Username).Logger()
	_, trees, err := s.scan(ctx, log, in.Username)
	if err != nil {
		return nil, err
	}

	type acc struct {
		files int
		bytes int64
	}
	byLang := map[langspec.Tag]*acc{}
	for _, t := range trees {
		if t == nil {
			continue
		}
		for _, e := range t.Tree {
			if e.Type != "blob" || e.Size <= 0 {
				continue
			}
			tag, ok := s.reg.TagForPath(e.Path)
			if !ok || skipped(e.Path, s.opts.SkipGlobs) {
				continue
			}
			a := byLang[tag]
			if a == nil {
				a = &acc{}
				byLang[tag] = a
			}
			a.files++
			a.bytes += e.Size
		}
	}

	var slices []domain.LanguageSlice
	var totalBytes int64
	for tag, a := range byLang {
		g, err := s.reg.Grammar(tag)
		if err != nil {
			continue
		}
		slices = append(slices, domain.LanguageSlice{
			Tag: tag, Name: g.Name, Color: g.Color, Files: a.files, Bytes: a.bytes,
		})
		totalBytes += a.bytes
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Bytes != slices[j].Bytes {
			return slices[i].Bytes > slices[j].Bytes
		}
		return slices[i].Tag < slices[j].Tag
	})
	if totalBytes > 0 {
		for i := range slices {
			slices[i].Fraction = float64(slices[i].Bytes) / float64(totalBytes)
		}
	}

	return &domain.LanguageCard{
		Username:     in.Username,
		Mode:         mode,
		Slices:       slices,
		ReposScanned: scannedRepos(trees),
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

// scan lists repos and fetches their trees in parallel, keeping repo
// order in the results. A repo whose tree cannot be listed is logged
// and left nil.
func (s *Service) scan(ctx context.Context, log logger.Logger, username string) ([]gh.Repo, []*gh.Tree, error) {
	repos, err := s.src.UserRepos(ctx, username, s.opts.MaxRepos)
	if err != nil {
		return nil, nil, err
	}

	trees := make([]*gh.Tree, len(repos))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.opts.Concurrency)
	for i, repo := range repos {
		i, repo := i, repo
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, err := s.src.RepoTree(gctx, repo.FullName, branchOf(repo))
			if err != nil {
				log.Warn().Err(err).Str("repo", repo.FullName).Msg("tree listing failed, skipping repo")
				return nil
			}
			if t.Truncated {
				log.Debug().Str("repo", repo.FullName).Msg("tree truncated upstream")
			}
			trees[i] = &t
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return repos, trees, nil
}

func scannedRepos(trees []*gh.Tree) int {
	n := 0
	for _, t := range trees {
		if t != nil {
			n++
		}
	}
	return n
}

// labelMode resolves the legend label mode; anything unrecognized,
// including the empty string, falls back to percent so stale embed
// URLs keep rendering
func labelMode(m domain.LanguageMode) domain.LanguageMode {
	switch m {
	case domain.LanguageModeBytes, domain.LanguageModeBoth:
		return m
	default:
		return domain.LanguageModePercent
	}
}

func branchOf(r gh.Repo) string {
	if r.DefaultBranch != "" {
		return r.DefaultBranch
	}
	return "main"
}
