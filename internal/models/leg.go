// Package models defines the data types shared by the chain generators,
// strategy evaluators and result ranking.
package models

import (
	"fmt"
	"strings"
)

// OptionType represents the type of option contract.
type OptionType string

const (
	// OptionTypeCall represents a call option contract
	OptionTypeCall OptionType = "call"
	// OptionTypePut represents a put option contract
	OptionTypePut OptionType = "put"
)

// Valid returns true if the OptionType is one of the defined constants.
func (t OptionType) Valid() bool {
	return t == OptionTypeCall || t == OptionTypePut
}

// Greeks holds the per-unit sensitivities of an option price.
// A zero value for every field means the quote carried no sensitivities
// and they must be derived from the pricing model.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
}

// IsZero returns true when no sensitivity is populated.
func (g Greeks) IsZero() bool {
	return g.Delta == 0 && g.Gamma == 0 && g.Theta == 0 && g.Vega == 0
}

// Add returns the component-wise sum of g and other scaled by factor.
func (g Greeks) Add(other Greeks, factor float64) Greeks {
	return Greeks{
		Delta: g.Delta + other.Delta*factor,
		Gamma: g.Gamma + other.Gamma*factor,
		Theta: g.Theta + other.Theta*factor,
		Vega:  g.Vega + other.Vega*factor,
	}
}

// Scale thresholds for the upstream ×100 data-entry anomaly. Quotes sourced
// from some books report strike and premium in cents; anything above these
// bounds is treated as mis-scaled and divided back down exactly once.
const (
	strikeScaleThreshold  = 500.0
	premiumScaleThreshold = 50.0
	scaleFactor           = 100.0
)

// tradingDaysPerYear converts business days to expiry into year fractions.
const tradingDaysPerYear = 252.0

// DefaultMultiplier is the standard US equity option contract multiplier.
const DefaultMultiplier = 100

// OptionLeg is one quoted contract, read-only input for a single scan pass.
type OptionLeg struct {
	Symbol       string     `json:"symbol"`
	ContractID   string     `json:"contract_id"`
	Expiration   string     `json:"expiration"` // YYYY-MM-DD
	BusinessDays int        `json:"business_days"`
	Type         OptionType `json:"type"`
	Strike       float64    `json:"strike"`
	Premium      float64    `json:"premium"`
	ImpliedVol   float64    `json:"implied_vol"`
	Greeks       Greeks     `json:"greeks"`
	Multiplier   int        `json:"multiplier"`

	// scaleChecked guards the one-shot ×100 correction so Normalize is
	// idempotent even for values that stay above the thresholds after
	// one division.
	scaleChecked bool
}

// Normalize corrects known unit-scale anomalies on a leg. The correction is
// applied at most once: calling Normalize on an already-normalized leg is a
// no-op. Absent fields pass through unchanged.
func (l OptionLeg) Normalize() OptionLeg {
	if l.scaleChecked {
		return l
	}
	if l.Strike > strikeScaleThreshold {
		l.Strike /= scaleFactor
	}
	if l.Premium > premiumScaleThreshold {
		l.Premium /= scaleFactor
	}
	if l.Multiplier == 0 {
		l.Multiplier = DefaultMultiplier
	}
	l.scaleChecked = true
	return l
}

// Usable reports whether the leg can participate in any combination.
// A leg with a missing or non-positive strike or premium is unusable.
func (l OptionLeg) Usable() bool {
	return l.Strike > 0 && l.Premium > 0 && l.Type.Valid()
}

// TimeToExpiry returns the remaining life of the contract in years,
// measured in trading days.
func (l OptionLeg) TimeToExpiry() float64 {
	if l.BusinessDays <= 0 {
		return 0
	}
	return float64(l.BusinessDays) / tradingDaysPerYear
}

// GroupKey identifies the (underlying, expiration) bucket a leg belongs to.
// Combination generators never pair legs across buckets.
func (l OptionLeg) GroupKey() string {
	return strings.ToUpper(l.Symbol) + "|" + l.Expiration
}

// String returns a compact human-readable description of the leg.
func (l OptionLeg) String() string {
	return fmt.Sprintf("%s %s %s %.2f @ %.2f", l.Symbol, l.Expiration, strings.ToUpper(string(l.Type)), l.Strike, l.Premium)
}
