// Package pipeline turns feature lists into annotations in parallel
package pipeline

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/ChrisMcGann/LipidKey/pkg/adduct"
	"github.com/ChrisMcGann/LipidKey/pkg/annotation"
	"github.com/ChrisMcGann/LipidKey/pkg/filter"
	"github.com/ChrisMcGann/LipidKey/pkg/logging"
	"github.com/ChrisMcGann/LipidKey/pkg/reader/msp"
)

// Runner annotates features. A zero Runner uses the default detector, no
// peak filtering, a single worker and the "pipeline" logger.
type Runner struct {
	Detector *adduct.Detector
	Filter   *filter.Config
	Threads  int
	Logger   *slog.Logger
}

// Run builds one annotation per valid feature. Output order follows input
// order. Invalid features are logged and skipped. The only error returned
// is the context's.
func (r *Runner) Run(ctx context.Context, features []*msp.Feature) ([]*annotation.Annotation, error) {
	detector := r.Detector
	if detector == nil {
		detector = annotation.DefaultDetector()
	}
	logger := r.Logger
	if logger == nil {
		logger = logging.New("pipeline")
	}
	threads := max(r.Threads, 1)

	results := make([]*annotation.Annotation, len(features))
	var skipped atomic.Int64

	annotate := func(i int, f *msp.Feature) {
		if err := f.Validate(); err != nil {
			logger.Warn("skipping invalid feature", "name", f.Lipid.Name, "id", f.Lipid.ID, "error", err)
			skipped.Add(1)
			return
		}

		peaks := f.Peaks
		if r.Filter != nil {
			peaks = r.Filter.Apply(peaks)
		}

		results[i] = annotation.New(f.Lipid, f.PrecursorMZ, f.Intensity, f.RetentionTime, peaks, f.Ionization,
			annotation.WithDetector(detector))
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for i, f := range features {
		if gCtx.Err() != nil {
			break
		}
		i, f := i, f
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			annotate(i, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	annotations := make([]*annotation.Annotation, 0, len(features))
	for _, a := range results {
		if a != nil {
			annotations = append(annotations, a)
		}
	}

	logger.Info("annotation complete",
		"features", len(features), "annotations", len(annotations), "skipped", skipped.Load(), "threads", threads)
	return annotations, nil
}

// AdductCount is the number of annotations assigned one adduct
type AdductCount struct {
	Adduct string
	Count  int
}

// Summary counts adduct assignments over a set of annotations
type Summary struct {
	Total      int
	Assigned   int
	Unassigned int
	PerAdduct  []AdductCount // most frequent first, ties by name
}

// Summarize counts assigned and unassigned annotations
func Summarize(annotations []*annotation.Annotation) Summary {
	s := Summary{Total: len(annotations)}
	counts := make(map[string]int)

	for _, a := range annotations {
		name, ok := a.Adduct()
		if !ok {
			s.Unassigned++
			continue
		}
		s.Assigned++
		counts[name]++
	}

	for name, n := range counts {
		s.PerAdduct = append(s.PerAdduct, AdductCount{Adduct: name, Count: n})
	}
	slices.SortFunc(s.PerAdduct, func(a, b AdductCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Adduct, b.Adduct)
	})

	return s
}
