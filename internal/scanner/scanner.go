// Package scanner orchestrates one evaluation pass: normalize the leg set,
// run every strategy family, then rank the merged output. A pass is a pure
// function of its inputs: identical snapshots and parameters always produce
// an identical ordered result.
package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/eddiefleurent/stamford_scanner/internal/models"
	"github.com/eddiefleurent/stamford_scanner/internal/rank"
	"github.com/eddiefleurent/stamford_scanner/internal/strategy"
)

// Params bundles the evaluator and ranking knobs for one scan.
type Params struct {
	Strategy strategy.Params `json:"strategy"`
	Rank     rank.Params     `json:"rank"`
}

// DefaultParams returns the standard scan configuration.
func DefaultParams() Params {
	return Params{
		Strategy: strategy.DefaultParams(),
		Rank:     rank.DefaultParams(),
	}
}

// Result is one completed scan: the ranked strategies plus provenance.
type Result struct {
	ID         string                    `json:"id"`
	Symbol     string                    `json:"symbol"`
	SpotPrice  float64                   `json:"spot_price"`
	Timestamp  time.Time                 `json:"timestamp"`
	LegCount   int                       `json:"leg_count"`
	Strategies []*models.StrategyMetrics `json:"strategies"`
	Summary    rank.Summary              `json:"summary"`
}

// Scanner runs evaluation passes. It holds no cross-scan state.
type Scanner struct {
	params Params
	logger *logrus.Logger
}

// New creates a scanner with the given parameters. A nil logger falls back
// to the logrus standard logger.
func New(params Params, logger *logrus.Logger) *Scanner {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Scanner{params: params, logger: logger}
}

// Scan evaluates every strategy family over the leg set and returns the
// ranked result. The families are independent, so each runs on its own
// worker; the per-family outputs are merged in the fixed dispatch-table
// order to keep the pass deterministic.
func (s *Scanner) Scan(ctx context.Context, symbol string, legs []models.OptionLeg, spot float64) (*Result, error) {
	if spot <= 0 {
		return nil, fmt.Errorf("spot price must be positive, got %.4f", spot)
	}

	normalized := make([]models.OptionLeg, 0, len(legs))
	for _, leg := range legs {
		leg = leg.Normalize()
		if !leg.Usable() {
			continue
		}
		normalized = append(normalized, leg)
	}

	s.logger.WithFields(logrus.Fields{
		"symbol": symbol,
		"legs":   len(normalized),
		"spot":   spot,
	}).Debug("starting scan pass")

	byFamily := make([][]*models.StrategyMetrics, len(strategy.Families))
	g, gctx := errgroup.WithContext(ctx)
	for i, family := range strategy.Families {
		i, family := i, family
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			byFamily[i] = family.Run(normalized, spot, s.params.Strategy)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan canceled: %w", err)
	}

	var merged []*models.StrategyMetrics
	for i, family := range strategy.Families {
		for _, rec := range byFamily[i] {
			if err := rec.Validate(); err != nil {
				// An invariant violation here is an evaluator bug; skip
				// the record rather than fail the scan.
				s.logger.WithError(err).WithField("family", family.Kind).Warn("dropping invalid record")
				continue
			}
			merged = append(merged, rec)
		}
	}

	ranked := rank.Rank(merged, s.params.Rank)

	res := &Result{
		ID:         uuid.NewString(),
		Symbol:     symbol,
		SpotPrice:  spot,
		Timestamp:  time.Now().UTC(),
		LegCount:   len(normalized),
		Strategies: ranked,
		Summary:    rank.Summarize(ranked),
	}

	s.logger.WithFields(logrus.Fields{
		"scan_id":    res.ID,
		"candidates": len(merged),
		"emitted":    len(ranked),
	}).Info("scan pass complete")

	return res, nil
}
