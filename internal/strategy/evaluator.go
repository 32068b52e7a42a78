// Package strategy implements the per-family evaluators that turn candidate
// leg tuples into strategy records. Every evaluator is a pure function:
// (tuple, spot, params) -> zero or one record. Structurally invalid or
// economically degenerate tuples are rejected by returning nil, never by
// returning an error; a chain with no viable strategies is an expected
// outcome, not a failure.
package strategy

import (
	"fmt"

	"github.com/eddiefleurent/stamford_scanner/internal/chain"
	"github.com/eddiefleurent/stamford_scanner/internal/models"
	"github.com/eddiefleurent/stamford_scanner/internal/pricing"
	"github.com/eddiefleurent/stamford_scanner/internal/util"
)

// minPremium rejects numerically degenerate credits and debits that survive
// a plain positivity check only through float noise.
const minPremium = 1e-4

// Params tunes the evaluators and the pricing fallback.
type Params struct {
	// RiskFreeRate is the annualized rate fed to the pricing model.
	RiskFreeRate float64
	// FallbackVol is the implied volatility assumed when a leg carries
	// neither market sensitivities nor its own implied volatility.
	FallbackVol float64
	// CreditWidthCap rejects credit structures whose credit exceeds this
	// fraction of the spread width; a near-100% credit signals stale or
	// illiquid book data rather than a real edge.
	CreditWidthCap float64
}

// DefaultParams returns the evaluator defaults.
func DefaultParams() Params {
	return Params{
		RiskFreeRate:   pricing.DefaultRiskFreeRate,
		FallbackVol:    0.35,
		CreditWidthCap: 0.85,
	}
}

// normalized fills zero fields so partially constructed Params behave.
func (p Params) normalized() Params {
	def := DefaultParams()
	if p.RiskFreeRate == 0 {
		p.RiskFreeRate = def.RiskFreeRate
	}
	if p.FallbackVol <= 0 {
		p.FallbackVol = def.FallbackVol
	}
	if p.CreditWidthCap <= 0 || p.CreditWidthCap >= 1 {
		p.CreditWidthCap = def.CreditWidthCap
	}
	return p
}

// Family couples one strategy kind with the generator+evaluator pipeline
// that produces its records. Dispatch is by this table rather than by
// runtime type inspection, so the family list is closed and enumerable.
type Family struct {
	Kind models.StrategyKind
	Run  func(legs []models.OptionLeg, spot float64, p Params) []*models.StrategyMetrics
}

// Families is the dispatch table, in the fixed order results are merged.
var Families = []Family{
	{Kind: models.KindBullCallSpread, Run: runPairs(models.OptionTypeCall, BullCallSpread)},
	{Kind: models.KindBearCallSpread, Run: runPairs(models.OptionTypeCall, BearCallSpread)},
	{Kind: models.KindBullPutSpread, Run: runPairs(models.OptionTypePut, BullPutSpread)},
	{Kind: models.KindBearPutSpread, Run: runPairs(models.OptionTypePut, BearPutSpread)},
	{Kind: models.KindLongStraddle, Run: runCross(chain.StraddlePairs, LongStraddle)},
	{Kind: models.KindShortStraddle, Run: runCross(chain.StraddlePairs, ShortStraddle)},
	{Kind: models.KindLongStrangle, Run: runCross(chain.StranglePairs, LongStrangle)},
	{Kind: models.KindShortStrangle, Run: runCross(chain.StranglePairs, ShortStrangle)},
	{Kind: models.KindButterfly, Run: runTriples(Butterfly)},
	{Kind: models.KindIronCondor, Run: runQuads(IronCondor)},
}

// PairEvaluator evaluates one same-type two-leg candidate.
type PairEvaluator func(pair chain.Pair, spot float64, p Params) *models.StrategyMetrics

// CrossPairEvaluator evaluates one call/put two-leg candidate.
type CrossPairEvaluator func(pair chain.CrossPair, spot float64, p Params) *models.StrategyMetrics

// TripleEvaluator evaluates one three-leg candidate.
type TripleEvaluator func(triple chain.Triple, spot float64, p Params) *models.StrategyMetrics

// QuadEvaluator evaluates one four-leg candidate.
type QuadEvaluator func(quad chain.Quad, spot float64, p Params) *models.StrategyMetrics

func runPairs(typ models.OptionType, eval PairEvaluator) func([]models.OptionLeg, float64, Params) []*models.StrategyMetrics {
	return func(legs []models.OptionLeg, spot float64, p Params) []*models.StrategyMetrics {
		p = p.normalized()
		var out []*models.StrategyMetrics
		for _, pair := range chain.SameTypePairs(legs, typ) {
			if m := evalSafe(func() *models.StrategyMetrics { return eval(pair, spot, p) }); m != nil {
				out = append(out, m)
			}
		}
		return out
	}
}

func runCross(gen func([]models.OptionLeg) []chain.CrossPair, eval CrossPairEvaluator) func([]models.OptionLeg, float64, Params) []*models.StrategyMetrics {
	return func(legs []models.OptionLeg, spot float64, p Params) []*models.StrategyMetrics {
		p = p.normalized()
		var out []*models.StrategyMetrics
		for _, pair := range gen(legs) {
			if m := evalSafe(func() *models.StrategyMetrics { return eval(pair, spot, p) }); m != nil {
				out = append(out, m)
			}
		}
		return out
	}
}

func runTriples(eval TripleEvaluator) func([]models.OptionLeg, float64, Params) []*models.StrategyMetrics {
	return func(legs []models.OptionLeg, spot float64, p Params) []*models.StrategyMetrics {
		p = p.normalized()
		var out []*models.StrategyMetrics
		for _, triple := range chain.ButterflyTriples(legs) {
			if m := evalSafe(func() *models.StrategyMetrics { return eval(triple, spot, p) }); m != nil {
				out = append(out, m)
			}
		}
		return out
	}
}

func runQuads(eval QuadEvaluator) func([]models.OptionLeg, float64, Params) []*models.StrategyMetrics {
	return func(legs []models.OptionLeg, spot float64, p Params) []*models.StrategyMetrics {
		p = p.normalized()
		var out []*models.StrategyMetrics
		for _, quad := range chain.CondorQuads(legs) {
			if m := evalSafe(func() *models.StrategyMetrics { return eval(quad, spot, p) }); m != nil {
				out = append(out, m)
			}
		}
		return out
	}
}

// evalSafe isolates one candidate evaluation so a bad tuple cannot abort the
// whole scan; a panicking evaluation simply contributes no record.
func evalSafe(fn func() *models.StrategyMetrics) (m *models.StrategyMetrics) {
	defer func() {
		if r := recover(); r != nil {
			m = nil
		}
	}()
	return fn()
}

// strikeDesc renders the strikes of a strategy low-to-high, e.g. "28/30".
func strikeDesc(strikes ...float64) string {
	desc := ""
	for i, k := range strikes {
		if i > 0 {
			desc += "/"
		}
		desc += trimStrike(k)
	}
	return desc
}

func trimStrike(k float64) string {
	// Snap to the cent tick first so float noise in a quoted strike does
	// not defeat the whole-number check.
	k = util.RoundToTick(k, 0.01)
	if k == float64(int64(k)) {
		return fmt.Sprintf("%.0f", k)
	}
	return fmt.Sprintf("%.2f", k)
}

// buy and sell build strategy legs with the given label.
func buy(leg models.OptionLeg, qty int, label string) models.StrategyLeg {
	return models.StrategyLeg{Leg: leg, Direction: models.DirectionBuy, Quantity: qty, Label: label}
}

func sell(leg models.OptionLeg, qty int, label string) models.StrategyLeg {
	return models.StrategyLeg{Leg: leg, Direction: models.DirectionSell, Quantity: qty, Label: label}
}
