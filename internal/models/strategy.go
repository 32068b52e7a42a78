package models

import (
	"fmt"
	"strings"
)

// Direction indicates whether a strategy leg is bought or sold.
type Direction string

const (
	// DirectionBuy marks a long leg
	DirectionBuy Direction = "buy"
	// DirectionSell marks a short leg
	DirectionSell Direction = "sell"
)

// CashFlow classifies the net premium of a strategy at open.
type CashFlow string

const (
	// CashFlowCredit means the position is opened for a net credit
	CashFlowCredit CashFlow = "credit"
	// CashFlowDebit means the position is opened for a net debit
	CashFlowDebit CashFlow = "debit"
)

// StrategyKind tags the structural family of a strategy record. The scanner
// routes candidate tuples through a table keyed by kind, so the family list
// is enumerable at compile time.
type StrategyKind string

const (
	// KindBullCallSpread is a debit vertical built from two calls
	KindBullCallSpread StrategyKind = "bull_call_spread"
	// KindBearCallSpread is a credit vertical built from two calls
	KindBearCallSpread StrategyKind = "bear_call_spread"
	// KindBullPutSpread is a credit vertical built from two puts
	KindBullPutSpread StrategyKind = "bull_put_spread"
	// KindBearPutSpread is a debit vertical built from two puts
	KindBearPutSpread StrategyKind = "bear_put_spread"
	// KindLongStraddle is a bought call+put at the same strike
	KindLongStraddle StrategyKind = "long_straddle"
	// KindShortStraddle is a sold call+put at the same strike
	KindShortStraddle StrategyKind = "short_straddle"
	// KindLongStrangle is a bought call+put at different strikes
	KindLongStrangle StrategyKind = "long_strangle"
	// KindShortStrangle is a sold call+put at different strikes
	KindShortStrangle StrategyKind = "short_strangle"
	// KindButterfly is a three-leg equidistant call structure
	KindButterfly StrategyKind = "butterfly"
	// KindIronCondor is a four-leg symmetric credit structure
	KindIronCondor StrategyKind = "iron_condor"
)

// Kinds lists every strategy family in the fixed evaluation order.
var Kinds = []StrategyKind{
	KindBullCallSpread,
	KindBearCallSpread,
	KindBullPutSpread,
	KindBearPutSpread,
	KindLongStraddle,
	KindShortStraddle,
	KindLongStrangle,
	KindShortStrangle,
	KindButterfly,
	KindIronCondor,
}

// Valid returns true if the StrategyKind is one of the defined constants.
func (k StrategyKind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// DisplayName returns the human-readable family name used for deduplication
// and presentation, e.g. "Bull Call Spread".
func (k StrategyKind) DisplayName() string {
	parts := strings.Split(string(k), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// StrategyLeg references one option leg inside a strategy, with direction,
// quantity multiplier (>1 for butterfly middle legs) and a display label.
type StrategyLeg struct {
	Leg       OptionLeg `json:"leg"`
	Direction Direction `json:"direction"`
	Quantity  int       `json:"quantity"`
	Label     string    `json:"label"`
}

// SignedQuantity returns the quantity with the position sign applied:
// positive for long legs, negative for short legs.
func (s StrategyLeg) SignedQuantity() float64 {
	if s.Direction == DirectionSell {
		return -float64(s.Quantity)
	}
	return float64(s.Quantity)
}

// ProfitLoss is a profit or loss bound. Unbounded directions (naked long
// volatility profit, naked short volatility loss) carry an explicit flag
// instead of a floating-point infinity so records stay JSON-serializable.
// Amounts are magnitudes; the cash-flow sign lives on NetPremium.
type ProfitLoss struct {
	Amount    float64 `json:"amount"`
	Unbounded bool    `json:"unbounded,omitempty"`
}

// BoundedPL builds a finite profit/loss bound.
func BoundedPL(amount float64) ProfitLoss {
	return ProfitLoss{Amount: amount}
}

// UnboundedPL builds the sentinel for a direction with no finite bound.
func UnboundedPL() ProfitLoss {
	return ProfitLoss{Unbounded: true}
}

// String renders the bound for logs and tables.
func (p ProfitLoss) String() string {
	if p.Unbounded {
		return "unbounded"
	}
	return fmt.Sprintf("%.2f", p.Amount)
}

// StrategyMetrics is the engine's output unit: one structurally valid,
// economically sane strategy with its full risk/reward profile. Instances
// are created fresh per scan pass and mutated only by the result normalizer's
// single rescale step before ownership transfers to the caller.
type StrategyMetrics struct {
	Name       string       `json:"name"`
	Kind       StrategyKind `json:"kind"`
	Symbol     string       `json:"symbol"`
	SpotPrice  float64      `json:"spot_price"`
	Expiration string       `json:"expiration"`
	Strikes    string       `json:"strikes"`

	// NetPremium is per-unit and signed: positive for credits, negative
	// for debits.
	NetPremium float64  `json:"net_premium"`
	CashFlow   CashFlow `json:"cash_flow"`

	MaxProfit  ProfitLoss `json:"max_profit"`
	MaxLoss    ProfitLoss `json:"max_loss"`
	Breakevens []float64  `json:"breakevens"`
	NetGreeks  Greeks     `json:"net_greeks"`

	// Financial fields are populated by the result normalizer: per-unit
	// metrics rescaled to lot size with opening fees applied.
	ProfitFinancial float64 `json:"profit_financial"`
	LossFinancial   float64 `json:"loss_financial"`
	Fees            float64 `json:"fees"`
	RiskReward      float64 `json:"risk_reward"`

	Legs []StrategyLeg `json:"legs"`
}

// LegCount returns the number of contract legs, counting quantity
// multipliers, used for fee computation.
func (m *StrategyMetrics) LegCount() int {
	n := 0
	for _, leg := range m.Legs {
		n += leg.Quantity
	}
	return n
}

// Validate checks the structural invariants every emitted record must hold.
func (m *StrategyMetrics) Validate() error {
	if !m.Kind.Valid() {
		return fmt.Errorf("strategy %q: invalid kind %q", m.Name, m.Kind)
	}
	if len(m.Legs) < 2 {
		return fmt.Errorf("strategy %q: needs at least 2 legs, got %d", m.Name, len(m.Legs))
	}
	for _, leg := range m.Legs {
		if leg.Leg.Expiration != m.Expiration {
			return fmt.Errorf("strategy %q: leg expiration %s differs from strategy expiration %s",
				m.Name, leg.Leg.Expiration, m.Expiration)
		}
		if leg.Quantity <= 0 {
			return fmt.Errorf("strategy %q: leg quantity must be positive, got %d", m.Name, leg.Quantity)
		}
	}
	if !m.MaxProfit.Unbounded && m.MaxProfit.Amount <= 0 {
		return fmt.Errorf("strategy %q: bounded max profit must be positive, got %.4f", m.Name, m.MaxProfit.Amount)
	}
	if !m.MaxLoss.Unbounded && m.MaxLoss.Amount <= 0 {
		return fmt.Errorf("strategy %q: bounded max loss must be positive, got %.4f", m.Name, m.MaxLoss.Amount)
	}
	return nil
}
