// Package check implements the content-integrity checks: front-matter
// well-formedness, required keys, link and image targets, fenced code
// blocks, route uniqueness, and author policy.
package check

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mohelwah/inkwell/internal/site"
)

// Severity of a finding. Errors fail a check run; warnings do not.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Finding is one authoring problem located in the document set.
type Finding struct {
	Checker  string   `json:"checker"`
	Doc      string   `json:"doc,omitempty"`
	Key      string   `json:"key,omitempty"`
	Severity Severity `json:"-"`
	Level    string   `json:"severity"`
	Message  string   `json:"message"`
}

func finding(checker string, sev Severity, doc, key, format string, args ...any) Finding {
	return Finding{
		Checker:  checker,
		Doc:      doc,
		Key:      key,
		Severity: sev,
		Level:    sev.String(),
		Message:  fmt.Sprintf(format, args...),
	}
}

// HasErrors reports whether any finding is at error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == Error {
			return true
		}
	}
	return false
}

// Checker inspects a document set and reports findings. Checkers must
// be safe to run concurrently with each other.
type Checker interface {
	Name() string
	Check(ctx context.Context, s *site.Site) ([]Finding, error)
}

// Runner fans a set of checkers out over a site.
type Runner struct {
	checkers []Checker
	log      zerolog.Logger
}

func NewRunner(log zerolog.Logger, checkers ...Checker) *Runner {
	return &Runner{checkers: checkers, log: log}
}

// Run executes every checker and returns the merged findings, sorted
// by document then message so output is stable across runs.
func (r *Runner) Run(ctx context.Context, s *site.Site) ([]Finding, error) {
	var (
		mu  sync.Mutex
		all []Finding
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, c := range r.checkers {
		g.Go(func() error {
			findings, err := c.Check(ctx, s)
			if err != nil {
				return fmt.Errorf("%s check: %w", c.Name(), err)
			}
			r.log.Debug().Str("checker", c.Name()).Int("findings", len(findings)).Msg("checker finished")

			mu.Lock()
			all = append(all, findings...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Doc != all[j].Doc {
			return all[i].Doc < all[j].Doc
		}
		if all[i].Checker != all[j].Checker {
			return all[i].Checker < all[j].Checker
		}
		return all[i].Message < all[j].Message
	})
	return all, nil
}
