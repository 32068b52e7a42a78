package strategy

import (
	"github.com/eddiefleurent/stamford_scanner/internal/chain"
	"github.com/eddiefleurent/stamford_scanner/internal/models"
)

// BullCallSpread evaluates a debit vertical: buy the low-strike call, sell
// the high-strike call. Rejected when the net debit is non-positive or
// swallows the whole width.
func BullCallSpread(pair chain.Pair, spot float64, p Params) *models.StrategyMetrics {
	width := pair.High.Strike - pair.Low.Strike
	cost := pair.Low.Premium - pair.High.Premium
	if width <= 0 || cost <= minPremium || cost >= width {
		return nil
	}

	legs := []models.StrategyLeg{
		buy(pair.Low, 1, "buy call "+trimStrike(pair.Low.Strike)),
		sell(pair.High, 1, "sell call "+trimStrike(pair.High.Strike)),
	}
	return &models.StrategyMetrics{
		Name:       models.KindBullCallSpread.DisplayName(),
		Kind:       models.KindBullCallSpread,
		Symbol:     pair.Low.Symbol,
		SpotPrice:  spot,
		Expiration: pair.Low.Expiration,
		Strikes:    strikeDesc(pair.Low.Strike, pair.High.Strike),
		NetPremium: -cost,
		CashFlow:   models.CashFlowDebit,
		MaxProfit:  models.BoundedPL(width - cost),
		MaxLoss:    models.BoundedPL(cost),
		Breakevens: []float64{pair.Low.Strike + cost},
		NetGreeks:  AggregateGreeks(legs, spot, p),
		Legs:       legs,
	}
}

// BearCallSpread evaluates a credit vertical: sell the low-strike call, buy
// the high-strike call. Rejected when the credit is non-positive or exceeds
// CreditWidthCap of the width.
func BearCallSpread(pair chain.Pair, spot float64, p Params) *models.StrategyMetrics {
	width := pair.High.Strike - pair.Low.Strike
	credit := pair.Low.Premium - pair.High.Premium
	if width <= 0 || credit <= minPremium || credit > p.CreditWidthCap*width {
		return nil
	}

	legs := []models.StrategyLeg{
		sell(pair.Low, 1, "sell call "+trimStrike(pair.Low.Strike)),
		buy(pair.High, 1, "buy call "+trimStrike(pair.High.Strike)),
	}
	return &models.StrategyMetrics{
		Name:       models.KindBearCallSpread.DisplayName(),
		Kind:       models.KindBearCallSpread,
		Symbol:     pair.Low.Symbol,
		SpotPrice:  spot,
		Expiration: pair.Low.Expiration,
		Strikes:    strikeDesc(pair.Low.Strike, pair.High.Strike),
		NetPremium: credit,
		CashFlow:   models.CashFlowCredit,
		MaxProfit:  models.BoundedPL(credit),
		MaxLoss:    models.BoundedPL(width - credit),
		Breakevens: []float64{pair.Low.Strike + credit},
		NetGreeks:  AggregateGreeks(legs, spot, p),
		Legs:       legs,
	}
}

// BullPutSpread evaluates a credit vertical: sell the high-strike put, buy
// the low-strike put.
func BullPutSpread(pair chain.Pair, spot float64, p Params) *models.StrategyMetrics {
	width := pair.High.Strike - pair.Low.Strike
	credit := pair.High.Premium - pair.Low.Premium
	if width <= 0 || credit <= minPremium || credit > p.CreditWidthCap*width {
		return nil
	}

	legs := []models.StrategyLeg{
		sell(pair.High, 1, "sell put "+trimStrike(pair.High.Strike)),
		buy(pair.Low, 1, "buy put "+trimStrike(pair.Low.Strike)),
	}
	return &models.StrategyMetrics{
		Name:       models.KindBullPutSpread.DisplayName(),
		Kind:       models.KindBullPutSpread,
		Symbol:     pair.Low.Symbol,
		SpotPrice:  spot,
		Expiration: pair.Low.Expiration,
		Strikes:    strikeDesc(pair.Low.Strike, pair.High.Strike),
		NetPremium: credit,
		CashFlow:   models.CashFlowCredit,
		MaxProfit:  models.BoundedPL(credit),
		MaxLoss:    models.BoundedPL(width - credit),
		Breakevens: []float64{pair.High.Strike - credit},
		NetGreeks:  AggregateGreeks(legs, spot, p),
		Legs:       legs,
	}
}

// BearPutSpread evaluates a debit vertical: buy the high-strike put, sell
// the low-strike put.
func BearPutSpread(pair chain.Pair, spot float64, p Params) *models.StrategyMetrics {
	width := pair.High.Strike - pair.Low.Strike
	cost := pair.High.Premium - pair.Low.Premium
	if width <= 0 || cost <= minPremium || cost >= width {
		return nil
	}

	legs := []models.StrategyLeg{
		buy(pair.High, 1, "buy put "+trimStrike(pair.High.Strike)),
		sell(pair.Low, 1, "sell put "+trimStrike(pair.Low.Strike)),
	}
	return &models.StrategyMetrics{
		Name:       models.KindBearPutSpread.DisplayName(),
		Kind:       models.KindBearPutSpread,
		Symbol:     pair.Low.Symbol,
		SpotPrice:  spot,
		Expiration: pair.Low.Expiration,
		Strikes:    strikeDesc(pair.Low.Strike, pair.High.Strike),
		NetPremium: -cost,
		CashFlow:   models.CashFlowDebit,
		MaxProfit:  models.BoundedPL(width - cost),
		MaxLoss:    models.BoundedPL(cost),
		Breakevens: []float64{pair.High.Strike - cost},
		NetGreeks:  AggregateGreeks(legs, spot, p),
		Legs:       legs,
	}
}
