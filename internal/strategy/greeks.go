package strategy

import (
	"github.com/eddiefleurent/stamford_scanner/internal/models"
	"github.com/eddiefleurent/stamford_scanner/internal/pricing"
)

// AggregateGreeks combines per-leg sensitivities into the net position
// sensitivity: long legs contribute +quantity, short legs -quantity. Market
// sensitivities are used when the quote carries any; otherwise they are
// derived from the pricing model, defaulting the volatility to
// Params.FallbackVol when the leg's own implied volatility is unavailable.
func AggregateGreeks(legs []models.StrategyLeg, spot float64, p Params) models.Greeks {
	p = p.normalized()
	var net models.Greeks
	for _, sl := range legs {
		net = net.Add(legGreeks(sl.Leg, spot, p), sl.SignedQuantity())
	}
	return net
}

func legGreeks(leg models.OptionLeg, spot float64, p Params) models.Greeks {
	if !leg.Greeks.IsZero() {
		return leg.Greeks
	}
	vol := leg.ImpliedVol
	if vol <= 0 {
		vol = p.FallbackVol
	}
	return pricing.Price(leg.Type, spot, leg.Strike, leg.TimeToExpiry(), vol, p.RiskFreeRate).Greeks()
}
