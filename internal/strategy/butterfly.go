package strategy

import (
	"github.com/eddiefleurent/stamford_scanner/internal/chain"
	"github.com/eddiefleurent/stamford_scanner/internal/models"
)

// Butterfly evaluates a long call butterfly: buy the wings, sell the middle
// strike twice. The generator guarantees near-equal strike gaps; the
// evaluator rejects tuples whose net debit is non-positive or reaches the
// gap, which would leave no profit zone.
func Butterfly(triple chain.Triple, spot float64, p Params) *models.StrategyMetrics {
	gap := triple.Mid.Strike - triple.Low.Strike
	cost := triple.Low.Premium + triple.High.Premium - 2*triple.Mid.Premium
	if gap <= 0 || cost <= minPremium || cost >= gap {
		return nil
	}

	legs := []models.StrategyLeg{
		buy(triple.Low, 1, "buy call "+trimStrike(triple.Low.Strike)),
		sell(triple.Mid, 2, "sell 2x call "+trimStrike(triple.Mid.Strike)),
		buy(triple.High, 1, "buy call "+trimStrike(triple.High.Strike)),
	}
	return &models.StrategyMetrics{
		Name:       models.KindButterfly.DisplayName(),
		Kind:       models.KindButterfly,
		Symbol:     triple.Low.Symbol,
		SpotPrice:  spot,
		Expiration: triple.Low.Expiration,
		Strikes:    strikeDesc(triple.Low.Strike, triple.Mid.Strike, triple.High.Strike),
		NetPremium: -cost,
		CashFlow:   models.CashFlowDebit,
		MaxProfit:  models.BoundedPL(gap - cost),
		MaxLoss:    models.BoundedPL(cost),
		Breakevens: []float64{triple.Low.Strike + cost, triple.High.Strike - cost},
		NetGreeks:  AggregateGreeks(legs, spot, p),
		Legs:       legs,
	}
}
