// Package mock generates synthetic option chains for testing the
// scanner without a live data source.
package mock

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/eddiefleurent/stamford_scanner/internal/feed"
	"github.com/eddiefleurent/stamford_scanner/internal/models"
	"github.com/eddiefleurent/stamford_scanner/internal/pricing"
)

// ChainProvider produces a synthetic option chain around a spot price.
// Premiums and greeks come from the pricing model so the generated
// chain is internally consistent.
type ChainProvider struct {
	symbol    string
	spotPrice float64
	baseVol   float64
}

// maxCleanStrike and maxCleanPremium bound what the generator will emit.
// Larger values trip the cent-scale correction in OptionLeg.Normalize.
const (
	maxCleanStrike  = 500.0
	maxCleanPremium = 50.0
)

var _ feed.Provider = (*ChainProvider)(nil)

// secureFloat64 generates a cryptographically secure random float64 between 0 and 1
func secureFloat64() float64 {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<53))
	if err != nil {
		// Fallback to a reasonable default if crypto/rand fails
		return 0.5
	}
	return float64(n.Int64()) / (1 << 53)
}

// NewChainProvider creates a synthetic provider for symbol. A zero
// spotPrice picks a random level around 450.
func NewChainProvider(symbol string, spotPrice float64) *ChainProvider {
	if symbol == "" {
		symbol = "SPY"
	}
	if spotPrice <= 0 {
		spotPrice = 450.0 + secureFloat64()*10
	}
	return &ChainProvider{
		symbol:    symbol,
		spotPrice: spotPrice,
		baseVol:   0.12 + secureFloat64()*0.18, // IV between 12-30%
	}
}

// Fetch builds a chain of calls and puts at strikes bracketing spot,
// for a single expiration 45 days out.
func (m *ChainProvider) Fetch(ctx context.Context) (*feed.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expDate := now.AddDate(0, 0, 45)
	expiration := expDate.Format("2006-01-02")
	businessDays := businessDaysUntil(now, expDate)
	t := float64(businessDays) / pricing.TradingDaysPerYear

	// Keep the ladder inside the clean-scale range: the leg normalizer
	// treats strikes above 500 and premiums above 50 as cent-scale quotes,
	// so strikes past that line (or deep enough in the money to quote
	// above 50) would be rescaled into bogus legs.
	strikeInterval := 5.0
	startStrike := math.Floor(m.spotPrice/strikeInterval)*strikeInterval - 30
	endStrike := startStrike + 60
	if endStrike > maxCleanStrike {
		endStrike = maxCleanStrike
		startStrike = endStrike - 60
	}

	var legs []models.OptionLeg
	for strike := startStrike; strike <= endStrike; strike += strikeInterval {
		// Volatility smile: vol rises away from the money.
		distance := math.Abs(strike-m.spotPrice) / m.spotPrice
		vol := m.baseVol * (1 + distance*0.5)

		for _, typ := range []models.OptionType{models.OptionTypeCall, models.OptionTypePut} {
			res := pricing.Price(typ, m.spotPrice, strike, t, vol, pricing.DefaultRiskFreeRate)
			if res.Price <= 0 || res.Price > maxCleanPremium {
				continue
			}
			legs = append(legs, models.OptionLeg{
				Symbol:       m.symbol,
				ContractID:   occSymbol(m.symbol, expDate, typ, strike),
				Expiration:   expiration,
				BusinessDays: businessDays,
				Type:         typ,
				Strike:       strike,
				Premium:      res.Price,
				ImpliedVol:   vol,
				Greeks:       res.Greeks(),
				Multiplier:   models.DefaultMultiplier,
			})
		}
	}

	if len(legs) == 0 {
		return nil, feed.ErrEmptyChain
	}

	return &feed.Snapshot{
		Symbol:    m.symbol,
		SpotPrice: m.spotPrice,
		AsOf:      now,
		Legs:      legs,
	}, nil
}

// occSymbol formats a contract identifier in OCC style,
// e.g. SPY250115C00450000.
func occSymbol(symbol string, exp time.Time, typ models.OptionType, strike float64) string {
	side := "C"
	if typ == models.OptionTypePut {
		side = "P"
	}
	return fmt.Sprintf("%s%s%s%08d", symbol, exp.Format("060102"), side, int(strike*1000))
}

func businessDaysUntil(from, to time.Time) int {
	days := 0
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	if days < 1 {
		days = 1
	}
	return days
}
