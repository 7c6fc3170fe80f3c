// Package lint runs cops over source files, optionally correcting them.
package lint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/sync/errgroup"

	"github.com/phobologic/grapelint/internal/cop"
	"github.com/phobologic/grapelint/internal/correct"
	"github.com/phobologic/grapelint/internal/discover"
	"github.com/phobologic/grapelint/internal/lang"
	"github.com/phobologic/grapelint/internal/model"
	"github.com/phobologic/grapelint/internal/parse"
)

// maxIterations bounds the correct-and-relint loop for one file.
const maxIterations = 10

// Linter checks files with a fixed set of cops.
type Linter struct {
	Cops        []cop.Cop
	Autocorrect bool
	// Workers limits concurrent files; zero means GOMAXPROCS.
	Workers int
	// Stderr receives warnings. It may be nil.
	Stderr io.Writer

	mu sync.Mutex
}

func (l *Linter) warnf(format string, args ...any) {
	if l.Stderr == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.Stderr, "Warning: "+format+"\n", args...)
}

// Run lints files under root concurrently and returns results in input order.
// Files that cannot be read or parsed are reported on Stderr and left out.
// With Autocorrect set, corrected sources are written back in place.
func (l *Linter) Run(ctx context.Context, root string, files []discover.FileEntry) (*model.Report, error) {
	numWorkers := l.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	numWorkers = min(numWorkers, len(files))

	results := make([]model.FileResult, len(files))
	valid := make([]bool, len(files))

	work := make(chan int)
	g, ctx := errgroup.WithContext(ctx)

	for range numWorkers {
		g.Go(func() error {
			// Each goroutine gets its own parser
			parsers := make(map[string]*parserPair)

			for idx := range work {
				f := files[idx]
				pp, ok := parsers[f.Language]
				if !ok {
					lg := lang.Languages[f.Language]
					q, err := lg.GetDeclarationQuery()
					if err != nil {
						return fmt.Errorf("query for %s: %w", f.Language, err)
					}
					pp = &parserPair{parser: lg.NewParser(), query: q}
					parsers[f.Language] = pp
				}

				absPath := filepath.Join(root, f.Path)
				source, err := os.ReadFile(absPath)
				if err != nil {
					l.warnf("%s: %v", f.Path, err)
					continue
				}

				res, err := l.Source(ctx, pp.parser, pp.query, f.Path, source)
				if err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					l.warnf("%v", err)
					continue
				}
				if res.Corrected != nil {
					if err := os.WriteFile(absPath, res.Corrected, 0o644); err != nil {
						return fmt.Errorf("writing %s: %w", f.Path, err)
					}
				}
				results[idx] = res
				valid[idx] = true
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(work)
		for i := range files {
			select {
			case work <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &model.Report{}
	for i, v := range valid {
		if v {
			report.Files = append(report.Files, results[i])
		}
	}
	return report, nil
}

type parserPair struct {
	parser *sitter.Parser
	query  *sitter.Query
}

// Source lints one in-memory source. With Autocorrect set it applies every
// available correction, re-parses, and repeats until nothing more can be
// corrected. Corrected offenses are reported as found in the pass that fixed
// them; the rest as found in the final pass.
func (l *Linter) Source(ctx context.Context, parser *sitter.Parser, query *sitter.Query, path string, source []byte) (model.FileResult, error) {
	res := model.FileResult{Path: path}
	current := source

	for iter := 0; ; iter++ {
		f, err := parse.Parse(ctx, parser, query, current, path)
		if err != nil {
			if iter > 0 {
				return res, fmt.Errorf("%s: correction left invalid source, not written: %w", path, err)
			}
			return res, err
		}

		findings := l.check(f)
		if !l.Autocorrect || iter == maxIterations {
			res.Offenses = append(res.Offenses, offenses(findings)...)
			break
		}

		next, fixed := l.correct(path, current, findings)
		if fixed == nil {
			res.Offenses = append(res.Offenses, offenses(findings)...)
			break
		}
		res.Offenses = append(res.Offenses, fixed...)
		current = next
	}

	if l.Autocorrect && !slices.Equal(current, source) {
		res.Corrected = current
	}
	slices.SortStableFunc(res.Offenses, func(a, b model.Offense) int {
		if a.Span.Line != b.Span.Line {
			return a.Span.Line - b.Span.Line
		}
		return a.Span.Column - b.Span.Column
	})
	return res, nil
}

func (l *Linter) check(f *parse.File) []cop.Finding {
	var out []cop.Finding
	for _, c := range l.Cops {
		out = append(out, c.Check(f)...)
	}
	return out
}

// correct applies every non-conflicting correction to source in one pass.
// It returns the new source and the offenses it fixed, or nil when nothing
// could be applied.
func (l *Linter) correct(path string, source []byte, findings []cop.Finding) ([]byte, []model.Offense) {
	var (
		plans  []correct.Plan
		owners []int
	)
	for i, fd := range findings {
		if fd.Corrector == nil {
			continue
		}
		p, err := fd.Corrector.Plan(source)
		if err != nil {
			if errors.Is(err, correct.ErrCorrectionStale) {
				l.warnf("%s:%d: %s: correction skipped: %v", path, fd.Offense.Span.Line, fd.Offense.Cop, err)
			}
			continue
		}
		plans = append(plans, p)
		owners = append(owners, i)
	}

	edits, accepted := correct.Combine(plans)
	if len(accepted) == 0 {
		return nil, nil
	}
	next, err := correct.Apply(source, edits)
	if err != nil {
		l.warnf("%s: %v", path, err)
		return nil, nil
	}

	fixed := make([]model.Offense, 0, len(accepted))
	for _, a := range accepted {
		o := findings[owners[a]].Offense
		o.Corrected = true
		fixed = append(fixed, o)
	}
	return next, fixed
}

func offenses(findings []cop.Finding) []model.Offense {
	out := make([]model.Offense, len(findings))
	for i := range findings {
		out[i] = findings[i].Offense
	}
	return out
}
