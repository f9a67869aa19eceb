// Package pipeline runs the full extraction flow over a set of files.
//
// Admission is serial and order-preserving: budgets are charged in
// input order, unsupported or malformed files are skipped without
// spending budget. Extraction and normalization run in parallel per
// file into indexed slots, then a serial merge in input order feeds the
// aggregator, so results (including first-seen tie-breaks) are
// deterministic for a given input sequence.
package pipeline

import (
	"bytes"
	"context"
	"sort"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"gitcards/internal/core/dedup"
	"gitcards/internal/core/extract"
	"gitcards/internal/core/identnorm"
	"gitcards/internal/core/langspec"
	"gitcards/internal/core/score"
)

// SourceFile is one candidate input file
type SourceFile struct {
	Path    string
	Content []byte
}

// Options bound a run. Zero values fall back to the defaults below.
type Options struct {
	MaxFiles      int
	MaxTotalBytes int64
	MaxFileBytes  int64
	Concurrency   int
	TopN          int
}

const (
	DefaultMaxFiles      = 200
	DefaultMaxTotalBytes = 10 << 20
	DefaultMaxFileBytes  = 100 << 10
	DefaultConcurrency   = 8
	DefaultTopN          = 10
)

func (o Options) withDefaults() Options {
	if o.MaxFiles <= 0 {
		o.MaxFiles = DefaultMaxFiles
	}
	if o.MaxTotalBytes <= 0 {
		o.MaxTotalBytes = DefaultMaxTotalBytes
	}
	if o.MaxFileBytes <= 0 {
		o.MaxFileBytes = DefaultMaxFileBytes
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.TopN <= 0 {
		o.TopN = DefaultTopN
	}
	return o
}

// Entry is one ranked identifier in the result
type Entry struct {
	Key       string
	Display   string
	Frequency int
	Score     float64
	Languages int
	Dominant  langspec.Tag
}

// Result is the outcome of one pipeline run
type Result struct {
	// Entries maps each requested category to its ranked top-N
	Entries map[langspec.Category][]Entry

	FilesProcessed int
	FilesSkipped   int
	BytesProcessed int64
	// LanguageFiles counts processed files per language
	LanguageFiles map[langspec.Tag]int
}

// Runner executes extraction runs against one registry
type Runner struct {
	reg  *langspec.Registry
	norm *identnorm.Normalizer
}

// New builds a Runner
func New(reg *langspec.Registry) *Runner {
	return &Runner{reg: reg, norm: identnorm.New(reg)}
}

// Run extracts, aggregates, scores and ranks identifiers from files.
// Empty input yields an empty Result and nil error. A canceled context
// discards all partial work and returns ctx.Err().
func (r *Runner) Run(ctx context.Context, files []SourceFile, cats []langspec.Category, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if len(cats) == 0 {
		cats = langspec.Categories()
	}

	res := &Result{
		Entries:       make(map[langspec.Category][]Entry, len(cats)),
		LanguageFiles: make(map[langspec.Tag]int),
	}
	for _, c := range cats {
		res.Entries[c] = []Entry{}
	}

	type admitted struct {
		file SourceFile
		g    *langspec.Grammar
	}

	// Serial admission in input order; budget is only charged for files
	// that will actually be processed. The first file that would overflow
	// the byte budget closes admission for the rest of the batch: the run
	// ranks what was collected rather than scanning ahead for smaller
	// files, which would make the processed set depend on file sizes.
	var work []admitted
	var total int64
	exhausted := false
	for _, f := range files {
		if exhausted || len(work) >= opts.MaxFiles {
			res.FilesSkipped++
			continue
		}
		tag, ok := r.reg.TagForPath(f.Path)
		if !ok {
			res.FilesSkipped++
			continue
		}
		size := int64(len(f.Content))
		if size > opts.MaxFileBytes {
			res.FilesSkipped++
			continue
		}
		if total+size > opts.MaxTotalBytes {
			exhausted = true
			res.FilesSkipped++
			continue
		}
		if !decodable(f.Content) {
			res.FilesSkipped++
			continue
		}
		g, err := r.reg.Grammar(tag)
		if err != nil {
			res.FilesSkipped++
			continue
		}
		total += size
		work = append(work, admitted{file: f, g: g})
	}

	// Parallel per-file extraction into indexed slots
	slots := make([][]identnorm.Token, len(work))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Concurrency)
	for i, w := range work {
		i, w := i, w
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			raws := extract.Scan(w.file.Path, string(w.file.Content), w.g)
			toks := make([]identnorm.Token, 0, len(raws))
			for _, raw := range raws {
				if tok, ok := r.norm.Normalize(raw, w.g); ok {
					toks = append(toks, tok)
				}
			}
			slots[i] = toks
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Serial merge in input order so first-seen tie-breaks are stable
	agg := dedup.NewAggregator()
	for i, w := range work {
		for _, tok := range slots[i] {
			agg.Add(tok)
		}
		res.FilesProcessed++
		res.BytesProcessed += int64(len(w.file.Content))
		res.LanguageFiles[w.g.Tag]++
	}

	recs := agg.Records()
	score.Apply(recs)

	want := make(map[langspec.Category]struct{}, len(cats))
	for _, c := range cats {
		want[c] = struct{}{}
	}
	byCat := make(map[langspec.Category][]*dedup.Record)
	for _, rec := range recs {
		if _, ok := want[rec.Category]; ok {
			byCat[rec.Category] = append(byCat[rec.Category], rec)
		}
	}

	for cat, rs := range byCat {
		sort.SliceStable(rs, func(i, j int) bool {
			if rs[i].Score != rs[j].Score {
				return rs[i].Score > rs[j].Score
			}
			if rs[i].Frequency != rs[j].Frequency {
				return rs[i].Frequency > rs[j].Frequency
			}
			return rs[i].Key < rs[j].Key
		})
		if len(rs) > opts.TopN {
			rs = rs[:opts.TopN]
		}
		entries := make([]Entry, len(rs))
		for i, rec := range rs {
			entries[i] = Entry{
				Key:       rec.Key,
				Display:   rec.Display,
				Frequency: rec.Frequency,
				Score:     rec.Score,
				Languages: rec.LanguageCount(),
				Dominant:  rec.Dominant,
			}
		}
		res.Entries[cat] = entries
	}

	return res, nil
}

// decodable rejects binary blobs: NUL bytes or invalid UTF-8
func decodable(b []byte) bool {
	if bytes.IndexByte(b, 0) >= 0 {
		return false
	}
	return utf8.Valid(b)
}
