// Package stats merges per-position ranker samples for one player into a
// single reportable statistic set.
package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/omarshaarawi/fcbot/internal/config"
	"github.com/omarshaarawi/fcbot/internal/models"
)

var ErrAggregationEmpty = errors.New("no position returned data for this player")

// DistributionFields are the fields collected per position under the
// distribution policy.
var DistributionFields = models.StatFields

type Fetcher interface {
	RankerStats(ctx context.Context, matchType int, spID int64, position models.Position) (models.RankerStatSample, error)
}

type Aggregator struct {
	fetcher       Fetcher
	concurrency   int
	lookupTimeout time.Duration
}

func NewAggregator(fetcher Fetcher, cfg config.Stats) *Aggregator {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Aggregator{
		fetcher:       fetcher,
		concurrency:   concurrency,
		lookupTimeout: cfg.LookupTimeout,
	}
}

type lookup struct {
	sample models.RankerStatSample
	err    error
}

// Aggregate issues one lookup per position and merges the successful ones
// under the given policy. Failed lookups are skipped, never retried.
func (a *Aggregator) Aggregate(ctx context.Context, positions []models.Position, playerID int64, matchType int, policy models.AggregationPolicy) (*models.AggregatedStats, error) {
	results := make([]lookup, len(positions))

	var g errgroup.Group
	g.SetLimit(a.concurrency)

	for i, pos := range positions {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].err = err
				return nil
			}

			lctx := ctx
			if a.lookupTimeout > 0 {
				var cancel context.CancelFunc
				lctx, cancel = context.WithTimeout(ctx, a.lookupTimeout)
				defer cancel()
			}

			sample, err := a.fetcher.RankerStats(lctx, matchType, playerID, pos)
			sample.Position = pos
			results[i] = lookup{sample: sample, err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("aggregating player %d: %w", playerID, err)
	}

	out := &models.AggregatedStats{
		Policy:    policy,
		PlayerID:  playerID,
		MatchType: matchType,
	}
	switch policy {
	case models.PolicyDistribution:
		out.Distribution = make(map[string][]float64, len(DistributionFields))
	default:
		out.Policy = models.PolicyWeighted
		out.Totals = make(map[string]float64)
	}

	for i, res := range results {
		if res.err != nil {
			slog.Debug("Position lookup failed",
				"spid", playerID,
				"position", positions[i].Name,
				"error", res.err,
			)
			out.Skipped = append(out.Skipped, positions[i])
			continue
		}

		out.Positions = append(out.Positions, positions[i])
		out.MatchCount += res.sample.MatchCount

		if out.Policy == models.PolicyDistribution {
			for _, field := range DistributionFields {
				value, ok := res.sample.Fields[field]
				if !ok {
					continue
				}
				out.Distribution[field] = append(out.Distribution[field], value)
			}
			continue
		}
		for field, value := range res.sample.Fields {
			if field == models.FieldMatchCount {
				continue
			}
			out.Totals[field] += value * res.sample.MatchCount
		}
	}

	if out.Empty() {
		return nil, fmt.Errorf("player %d, match type %d: %w", playerID, matchType, ErrAggregationEmpty)
	}

	slog.Info("Stats aggregated",
		"spid", playerID,
		"policy", out.Policy,
		"positions", len(out.Positions),
		"skipped", len(out.Skipped),
	)
	return out, nil
}

// Summarize returns the minimum, median and maximum of values. values must
// not be empty.
func Summarize(values []float64) (float64, float64, float64) {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[0], median, sorted[n-1]
}
