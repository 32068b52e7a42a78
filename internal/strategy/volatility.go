package strategy

import (
	"github.com/eddiefleurent/stamford_scanner/internal/chain"
	"github.com/eddiefleurent/stamford_scanner/internal/models"
)

// LongStraddle evaluates a bought call+put at the same strike: unbounded
// profit either direction, loss capped at the combined debit.
func LongStraddle(pair chain.CrossPair, spot float64, p Params) *models.StrategyMetrics {
	return longVolatility(models.KindLongStraddle, pair, spot, p)
}

// LongStrangle evaluates a bought call+put at different strikes.
func LongStrangle(pair chain.CrossPair, spot float64, p Params) *models.StrategyMetrics {
	return longVolatility(models.KindLongStrangle, pair, spot, p)
}

// ShortStraddle evaluates a sold call+put at the same strike: profit capped
// at the credit, unbounded loss either direction.
func ShortStraddle(pair chain.CrossPair, spot float64, p Params) *models.StrategyMetrics {
	return shortVolatility(models.KindShortStraddle, pair, spot, p)
}

// ShortStrangle evaluates a sold call+put at different strikes.
func ShortStrangle(pair chain.CrossPair, spot float64, p Params) *models.StrategyMetrics {
	return shortVolatility(models.KindShortStrangle, pair, spot, p)
}

func longVolatility(kind models.StrategyKind, pair chain.CrossPair, spot float64, p Params) *models.StrategyMetrics {
	cost := pair.Call.Premium + pair.Put.Premium
	if cost <= minPremium {
		return nil
	}

	legs := []models.StrategyLeg{
		buy(pair.Call, 1, "buy call "+trimStrike(pair.Call.Strike)),
		buy(pair.Put, 1, "buy put "+trimStrike(pair.Put.Strike)),
	}
	return &models.StrategyMetrics{
		Name:       kind.DisplayName(),
		Kind:       kind,
		Symbol:     pair.Call.Symbol,
		SpotPrice:  spot,
		Expiration: pair.Call.Expiration,
		Strikes:    volatilityStrikes(pair),
		NetPremium: -cost,
		CashFlow:   models.CashFlowDebit,
		MaxProfit:  models.UnboundedPL(),
		MaxLoss:    models.BoundedPL(cost),
		Breakevens: []float64{pair.Put.Strike - cost, pair.Call.Strike + cost},
		NetGreeks:  AggregateGreeks(legs, spot, p),
		Legs:       legs,
	}
}

func shortVolatility(kind models.StrategyKind, pair chain.CrossPair, spot float64, p Params) *models.StrategyMetrics {
	credit := pair.Call.Premium + pair.Put.Premium
	if credit <= minPremium {
		return nil
	}

	legs := []models.StrategyLeg{
		sell(pair.Call, 1, "sell call "+trimStrike(pair.Call.Strike)),
		sell(pair.Put, 1, "sell put "+trimStrike(pair.Put.Strike)),
	}
	return &models.StrategyMetrics{
		Name:       kind.DisplayName(),
		Kind:       kind,
		Symbol:     pair.Call.Symbol,
		SpotPrice:  spot,
		Expiration: pair.Call.Expiration,
		Strikes:    volatilityStrikes(pair),
		NetPremium: credit,
		CashFlow:   models.CashFlowCredit,
		MaxProfit:  models.BoundedPL(credit),
		MaxLoss:    models.UnboundedPL(),
		Breakevens: []float64{pair.Put.Strike - credit, pair.Call.Strike + credit},
		NetGreeks:  AggregateGreeks(legs, spot, p),
		Legs:       legs,
	}
}

func volatilityStrikes(pair chain.CrossPair) string {
	if pair.Put.Strike == pair.Call.Strike {
		return trimStrike(pair.Call.Strike)
	}
	return strikeDesc(pair.Put.Strike, pair.Call.Strike)
}
