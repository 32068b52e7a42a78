// Package rank turns the raw evaluator output into a deduplicated,
// risk-bounded, ordered result set in lot-sized financial terms.
package rank

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/eddiefleurent/stamford_scanner/internal/models"
)

// Params controls the financial rescale, the risk filter and the ordering.
type Params struct {
	// LotSize is the contract multiplier applied when converting per-unit
	// metrics into currency terms.
	LotSize int
	// FeePerLeg is the flat transaction cost per contract leg, charged at
	// open.
	FeePerLeg float64
	// MaxRiskReward drops records whose risk/reward ratio exceeds this
	// bound. Zero disables the filter.
	MaxRiskReward float64
	// SortByReturn orders descending by financial profit instead of the
	// default ascending risk/reward.
	SortByReturn bool
}

// DefaultParams returns the standard lot scaling with no risk cap.
func DefaultParams() Params {
	return Params{LotSize: 100}
}

// Rank rescales each record into financial terms, filters by the risk/reward
// cap, deduplicates to the best record per strategy name and orders the rest.
// Ordering is stable: ties keep their discovery order. The input records are
// mutated in place (the single permitted rescale step); the returned slice
// owns them afterwards.
func Rank(records []*models.StrategyMetrics, p Params) []*models.StrategyMetrics {
	if p.LotSize <= 0 {
		p.LotSize = DefaultParams().LotSize
	}

	kept := make([]*models.StrategyMetrics, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		rescale(rec, p)
		if !passesRiskFilter(rec, p) {
			continue
		}
		kept = append(kept, rec)
	}

	kept = dedupeByName(kept)

	if p.SortByReturn {
		sort.SliceStable(kept, func(i, j int) bool {
			return kept[i].ProfitFinancial > kept[j].ProfitFinancial
		})
	} else {
		sort.SliceStable(kept, func(i, j int) bool {
			return lessRiskReward(kept[i], kept[j])
		})
	}
	return kept
}

// rescale converts per-unit metrics into lot-sized, fee-adjusted currency
// terms and derives the risk/reward ratio.
func rescale(rec *models.StrategyMetrics, p Params) {
	lot := float64(p.LotSize)
	rec.Fees = float64(rec.LegCount()) * p.FeePerLeg

	if rec.MaxProfit.Unbounded {
		rec.ProfitFinancial = 0
	} else {
		rec.ProfitFinancial = rec.MaxProfit.Amount*lot - rec.Fees
	}
	if rec.MaxLoss.Unbounded {
		rec.LossFinancial = 0
	} else {
		rec.LossFinancial = rec.MaxLoss.Amount*lot + rec.Fees
	}

	// Risk/reward: max loss per unit of max profit, lower is better.
	// Unbounded profit drives the ratio to zero; unbounded loss has no
	// finite ratio and is handled by the risk filter and comparator.
	switch {
	case rec.MaxLoss.Unbounded:
		rec.RiskReward = 0
	case rec.MaxProfit.Unbounded:
		rec.RiskReward = 0
	case rec.ProfitFinancial > 0:
		rec.RiskReward = rec.LossFinancial / rec.ProfitFinancial
	default:
		rec.RiskReward = 0
	}
}

// passesRiskFilter applies the caller's risk/reward cap. Records with an
// unbounded max loss can never satisfy a finite cap; fee-swallowed records
// (no financial profit left) are dropped outright.
func passesRiskFilter(rec *models.StrategyMetrics, p Params) bool {
	if !rec.MaxProfit.Unbounded && rec.ProfitFinancial <= 0 {
		return false
	}
	if p.MaxRiskReward <= 0 {
		return true
	}
	if rec.MaxLoss.Unbounded {
		return false
	}
	return rec.RiskReward <= p.MaxRiskReward
}

// dedupeByName keeps the best record per strategy name, preserving the
// discovery order of the survivors.
func dedupeByName(records []*models.StrategyMetrics) []*models.StrategyMetrics {
	best := make(map[string]*models.StrategyMetrics, len(records))
	order := make([]string, 0, len(records))
	for _, rec := range records {
		cur, seen := best[rec.Name]
		if !seen {
			best[rec.Name] = rec
			order = append(order, rec.Name)
			continue
		}
		if lessRiskReward(rec, cur) {
			best[rec.Name] = rec
		}
	}

	out := make([]*models.StrategyMetrics, 0, len(order))
	for _, name := range order {
		out = append(out, best[name])
	}
	return out
}

// lessRiskReward orders a strictly before b. Unbounded-loss records always
// sort after bounded ones.
func lessRiskReward(a, b *models.StrategyMetrics) bool {
	if a.MaxLoss.Unbounded != b.MaxLoss.Unbounded {
		return !a.MaxLoss.Unbounded
	}
	return a.RiskReward < b.RiskReward
}

// Summary aggregates a ranked result set for reporting.
type Summary struct {
	Count            int     `json:"count"`
	CreditCount      int     `json:"credit_count"`
	DebitCount       int     `json:"debit_count"`
	BestRiskReward   float64 `json:"best_risk_reward"`
	MedianRiskReward float64 `json:"median_risk_reward"`
	WorstRiskReward  float64 `json:"worst_risk_reward"`
	TotalMaxProfit   float64 `json:"total_max_profit"`
}

// Summarize computes summary statistics over a ranked result set.
func Summarize(records []*models.StrategyMetrics) Summary {
	s := Summary{Count: len(records)}
	if len(records) == 0 {
		return s
	}

	ratios := make([]float64, 0, len(records))
	for _, rec := range records {
		switch rec.CashFlow {
		case models.CashFlowCredit:
			s.CreditCount++
		case models.CashFlowDebit:
			s.DebitCount++
		}
		if !rec.MaxLoss.Unbounded {
			ratios = append(ratios, rec.RiskReward)
		}
		if !rec.MaxProfit.Unbounded {
			s.TotalMaxProfit += rec.ProfitFinancial
		}
	}

	if len(ratios) > 0 {
		// stats errors only on empty input, which is excluded above.
		s.BestRiskReward, _ = stats.Min(ratios)
		s.MedianRiskReward, _ = stats.Median(ratios)
		s.WorstRiskReward, _ = stats.Max(ratios)
	}
	return s
}
