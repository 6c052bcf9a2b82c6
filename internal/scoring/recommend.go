package scoring

import (
	"context"
	"errors"
	"runtime"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"uniguide/backend/internal/model"
)

var tracer = otel.Tracer("uniguide/scoring")

// Options tunes Recommend.
type Options struct {
	// BucketLimit caps each bucket after sorting. Zero keeps everything.
	BucketLimit int
	// Workers bounds concurrent scoring. Zero uses GOMAXPROCS.
	Workers int
}

// Recommendations scored universities grouped by category.
type Recommendations struct {
	Dream   []FitResult `json:"dream"`
	Target  []FitResult `json:"target"`
	Safe    []FitResult `json:"safe"`
	Total   int         `json:"total"`
	Skipped int         `json:"skipped"`
}

// Recommend scores the whole batch in parallel, then groups and sorts the
// results once every score is known. Records failing validation are
// skipped and counted instead of failing the batch.
func Recommend(ctx context.Context, s *model.Student, batch []model.University, opts Options) (*Recommendations, error) {
	ctx, span := tracer.Start(ctx, "scoring.Recommend")
	defer span.End()
	span.SetAttributes(attribute.Int("batch.size", len(batch)))

	if err := ValidateProfile(s); err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]FitResult, len(batch))
	valid := make([]bool, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range batch {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := Score(s, &batch[i])
			if errors.Is(err, ErrInvalidUniversity) {
				return nil
			}
			if err != nil {
				return err
			}
			results[i], valid[i] = r, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Recommendations{
		Dream:  []FitResult{},
		Target: []FitResult{},
		Safe:   []FitResult{},
	}
	for i, r := range results {
		if !valid[i] {
			out.Skipped++
			continue
		}
		out.Total++
		switch r.Category {
		case model.CategorySafe:
			out.Safe = append(out.Safe, r)
		case model.CategoryTarget:
			out.Target = append(out.Target, r)
		default:
			out.Dream = append(out.Dream, r)
		}
	}

	out.Dream = rank(out.Dream, opts.BucketLimit)
	out.Target = rank(out.Target, opts.BucketLimit)
	out.Safe = rank(out.Safe, opts.BucketLimit)

	span.SetAttributes(
		attribute.Int("result.total", out.Total),
		attribute.Int("result.skipped", out.Skipped),
	)
	return out, nil
}

// rank sorts by score desc, then ranking asc (unranked last), then name.
func rank(bucket []FitResult, limit int) []FitResult {
	sort.SliceStable(bucket, func(i, j int) bool {
		a, b := bucket[i], bucket[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		ra, rb := rankingOf(a.University), rankingOf(b.University)
		if ra != rb {
			return ra < rb
		}
		return a.University.Name < b.University.Name
	})
	if limit > 0 && len(bucket) > limit {
		bucket = bucket[:limit]
	}
	return bucket
}

func rankingOf(u model.University) int {
	if u.Ranking == nil {
		return int(^uint(0) >> 1)
	}
	return *u.Ranking
}
