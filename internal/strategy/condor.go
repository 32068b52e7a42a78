package strategy

import (
	"math"

	"github.com/eddiefleurent/stamford_scanner/internal/chain"
	"github.com/eddiefleurent/stamford_scanner/internal/models"
)

// IronCondor evaluates the four-leg credit structure: buy the far put, sell
// the near put, sell the near call, buy the far call. The max loss is capped
// by the wider of the two spreads; credits approaching that width are
// rejected as stale-book artifacts.
func IronCondor(quad chain.Quad, spot float64, p Params) *models.StrategyMetrics {
	putWidth := quad.ShortPut.Strike - quad.LongPut.Strike
	callWidth := quad.LongCall.Strike - quad.ShortCall.Strike
	if putWidth <= 0 || callWidth <= 0 {
		return nil
	}

	credit := quad.ShortPut.Premium + quad.ShortCall.Premium -
		quad.LongPut.Premium - quad.LongCall.Premium
	maxWidth := math.Max(putWidth, callWidth)
	if credit <= minPremium || credit > p.CreditWidthCap*maxWidth {
		return nil
	}

	legs := []models.StrategyLeg{
		buy(quad.LongPut, 1, "buy put "+trimStrike(quad.LongPut.Strike)),
		sell(quad.ShortPut, 1, "sell put "+trimStrike(quad.ShortPut.Strike)),
		sell(quad.ShortCall, 1, "sell call "+trimStrike(quad.ShortCall.Strike)),
		buy(quad.LongCall, 1, "buy call "+trimStrike(quad.LongCall.Strike)),
	}
	return &models.StrategyMetrics{
		Name:       models.KindIronCondor.DisplayName(),
		Kind:       models.KindIronCondor,
		Symbol:     quad.ShortPut.Symbol,
		SpotPrice:  spot,
		Expiration: quad.ShortPut.Expiration,
		Strikes: strikeDesc(quad.LongPut.Strike, quad.ShortPut.Strike,
			quad.ShortCall.Strike, quad.LongCall.Strike),
		NetPremium: credit,
		CashFlow:   models.CashFlowCredit,
		MaxProfit:  models.BoundedPL(credit),
		MaxLoss:    models.BoundedPL(maxWidth - credit),
		Breakevens: []float64{quad.ShortPut.Strike - credit, quad.ShortCall.Strike + credit},
		NetGreeks:  AggregateGreeks(legs, spot, p),
		Legs:       legs,
	}
}
