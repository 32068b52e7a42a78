package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddiefleurent/stamford_scanner/internal/chain"
	"github.com/eddiefleurent/stamford_scanner/internal/models"
)

const testExp = "2026-01-16"

func callLeg(strike, premium float64) models.OptionLeg {
	return models.OptionLeg{
		Symbol:       "SPY",
		Expiration:   testExp,
		BusinessDays: 21,
		Type:         models.OptionTypeCall,
		Strike:       strike,
		Premium:      premium,
	}
}

func putLeg(strike, premium float64) models.OptionLeg {
	leg := callLeg(strike, premium)
	leg.Type = models.OptionTypePut
	return leg
}

func TestBullCallSpread(t *testing.T) {
	pair := chain.Pair{Low: callLeg(28, 1.50), High: callLeg(30, 0.60)}

	m := BullCallSpread(pair, 28.50, DefaultParams())
	require.NotNil(t, m)

	assert.Equal(t, models.KindBullCallSpread, m.Kind)
	assert.Equal(t, "Bull Call Spread", m.Name)
	assert.Equal(t, "28/30", m.Strikes)
	assert.Equal(t, models.CashFlowDebit, m.CashFlow)
	assert.InDelta(t, -0.90, m.NetPremium, 1e-9)
	assert.InDelta(t, 1.10, m.MaxProfit.Amount, 1e-9)
	assert.InDelta(t, 0.90, m.MaxLoss.Amount, 1e-9)
	require.Len(t, m.Breakevens, 1)
	assert.InDelta(t, 28.90, m.Breakevens[0], 1e-9)

	// max profit + max loss must equal the width for verticals.
	assert.InDelta(t, 2.00, m.MaxProfit.Amount+m.MaxLoss.Amount, 1e-9)
}

func TestBullCallSpreadRejections(t *testing.T) {
	tests := []struct {
		name string
		pair chain.Pair
	}{
		{"inverted premiums give no debit", chain.Pair{Low: callLeg(28, 0.50), High: callLeg(30, 0.60)}},
		{"debit swallows the width", chain.Pair{Low: callLeg(28, 2.80), High: callLeg(30, 0.60)}},
		{"zero width", chain.Pair{Low: callLeg(28, 1.50), High: callLeg(28, 0.60)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, BullCallSpread(tt.pair, 28.50, DefaultParams()))
		})
	}
}

func TestBearCallSpread(t *testing.T) {
	pair := chain.Pair{Low: callLeg(28, 1.50), High: callLeg(30, 0.60)}

	m := BearCallSpread(pair, 28.50, DefaultParams())
	require.NotNil(t, m)

	assert.Equal(t, models.CashFlowCredit, m.CashFlow)
	assert.InDelta(t, 0.90, m.NetPremium, 1e-9)
	assert.InDelta(t, 0.90, m.MaxProfit.Amount, 1e-9)
	assert.InDelta(t, 1.10, m.MaxLoss.Amount, 1e-9)
	require.Len(t, m.Breakevens, 1)
	assert.InDelta(t, 28.90, m.Breakevens[0], 1e-9)
}

func TestBearCallSpreadRejectsFatCredit(t *testing.T) {
	// Credit of 1.90 on a 2.00 width is 95% of the width: stale book data.
	pair := chain.Pair{Low: callLeg(28, 2.00), High: callLeg(30, 0.10)}
	assert.Nil(t, BearCallSpread(pair, 28.50, DefaultParams()))

	// Below the cap the spread is kept.
	below := chain.Pair{Low: callLeg(28, 1.60), High: callLeg(30, 0.10)}
	assert.NotNil(t, BearCallSpread(below, 28.50, DefaultParams()))
}

func TestBullPutSpread(t *testing.T) {
	pair := chain.Pair{Low: putLeg(28, 0.40), High: putLeg(30, 1.30)}

	m := BullPutSpread(pair, 29.50, DefaultParams())
	require.NotNil(t, m)

	assert.Equal(t, models.CashFlowCredit, m.CashFlow)
	assert.InDelta(t, 0.90, m.NetPremium, 1e-9)
	assert.InDelta(t, 0.90, m.MaxProfit.Amount, 1e-9)
	assert.InDelta(t, 1.10, m.MaxLoss.Amount, 1e-9)
	require.Len(t, m.Breakevens, 1)
	assert.InDelta(t, 29.10, m.Breakevens[0], 1e-9)
}

func TestBearPutSpread(t *testing.T) {
	pair := chain.Pair{Low: putLeg(28, 0.40), High: putLeg(30, 1.30)}

	m := BearPutSpread(pair, 29.50, DefaultParams())
	require.NotNil(t, m)

	assert.Equal(t, models.CashFlowDebit, m.CashFlow)
	assert.InDelta(t, -0.90, m.NetPremium, 1e-9)
	assert.InDelta(t, 1.10, m.MaxProfit.Amount, 1e-9)
	assert.InDelta(t, 0.90, m.MaxLoss.Amount, 1e-9)
	require.Len(t, m.Breakevens, 1)
	assert.InDelta(t, 29.10, m.Breakevens[0], 1e-9)
}

func TestLongStraddle(t *testing.T) {
	pair := chain.CrossPair{Call: callLeg(110, 1.50), Put: putLeg(110, 2.50)}

	m := LongStraddle(pair, 109, DefaultParams())
	require.NotNil(t, m)

	assert.Equal(t, "110", m.Strikes)
	assert.Equal(t, models.CashFlowDebit, m.CashFlow)
	assert.InDelta(t, -4.00, m.NetPremium, 1e-9)
	assert.True(t, m.MaxProfit.Unbounded)
	assert.InDelta(t, 4.00, m.MaxLoss.Amount, 1e-9)
	require.Len(t, m.Breakevens, 2)
	assert.InDelta(t, 106, m.Breakevens[0], 1e-9)
	assert.InDelta(t, 114, m.Breakevens[1], 1e-9)
}

func TestShortStrangle(t *testing.T) {
	pair := chain.CrossPair{Call: callLeg(115, 1.20), Put: putLeg(105, 1.30)}

	m := ShortStrangle(pair, 110, DefaultParams())
	require.NotNil(t, m)

	assert.Equal(t, "105/115", m.Strikes)
	assert.Equal(t, models.CashFlowCredit, m.CashFlow)
	assert.InDelta(t, 2.50, m.NetPremium, 1e-9)
	assert.InDelta(t, 2.50, m.MaxProfit.Amount, 1e-9)
	assert.True(t, m.MaxLoss.Unbounded)
	require.Len(t, m.Breakevens, 2)
	assert.InDelta(t, 102.50, m.Breakevens[0], 1e-9)
	assert.InDelta(t, 117.50, m.Breakevens[1], 1e-9)
}

func TestButterfly(t *testing.T) {
	triple := chain.Triple{
		Low:  callLeg(95, 7.00),
		Mid:  callLeg(100, 4.00),
		High: callLeg(105, 2.00),
	}

	m := Butterfly(triple, 100, DefaultParams())
	require.NotNil(t, m)

	assert.Equal(t, "95/100/105", m.Strikes)
	assert.InDelta(t, -1.00, m.NetPremium, 1e-9)
	assert.InDelta(t, 4.00, m.MaxProfit.Amount, 1e-9)
	assert.InDelta(t, 1.00, m.MaxLoss.Amount, 1e-9)
	require.Len(t, m.Breakevens, 2)
	assert.InDelta(t, 96, m.Breakevens[0], 1e-9)
	assert.InDelta(t, 104, m.Breakevens[1], 1e-9)

	// Middle strike carries double quantity.
	require.Len(t, m.Legs, 3)
	assert.Equal(t, 2, m.Legs[1].Quantity)
	assert.Equal(t, models.DirectionSell, m.Legs[1].Direction)
	assert.Equal(t, 4, m.LegCount())
}

func TestButterflyRejectsNoProfitZone(t *testing.T) {
	// Net debit 5.00 equals the gap: nothing left at the peak.
	triple := chain.Triple{
		Low:  callLeg(95, 9.00),
		Mid:  callLeg(100, 3.00),
		High: callLeg(105, 2.00),
	}
	assert.Nil(t, Butterfly(triple, 100, DefaultParams()))
}

func TestIronCondor(t *testing.T) {
	quad := chain.Quad{
		LongPut:   putLeg(90, 0.50),
		ShortPut:  putLeg(95, 1.00),
		ShortCall: callLeg(105, 1.10),
		LongCall:  callLeg(110, 0.55),
	}

	m := IronCondor(quad, 100, DefaultParams())
	require.NotNil(t, m)

	assert.Equal(t, "90/95/105/110", m.Strikes)
	assert.Equal(t, models.CashFlowCredit, m.CashFlow)
	assert.InDelta(t, 1.05, m.NetPremium, 1e-9)
	assert.InDelta(t, 1.05, m.MaxProfit.Amount, 1e-9)
	assert.InDelta(t, 3.95, m.MaxLoss.Amount, 1e-9)
	require.Len(t, m.Breakevens, 2)
	assert.InDelta(t, 93.95, m.Breakevens[0], 1e-9)
	assert.InDelta(t, 106.05, m.Breakevens[1], 1e-9)
	assert.Equal(t, 4, m.LegCount())
}

func TestIronCondorRejectsFatCredit(t *testing.T) {
	quad := chain.Quad{
		LongPut:   putLeg(90, 0.05),
		ShortPut:  putLeg(95, 3.00),
		ShortCall: callLeg(105, 2.00),
		LongCall:  callLeg(110, 0.05),
	}
	// Credit 4.90 on a 5.00 width exceeds the 85% cap.
	assert.Nil(t, IronCondor(quad, 100, DefaultParams()))
}

func TestFamiliesOrderMatchesKinds(t *testing.T) {
	require.Len(t, Families, len(models.Kinds))
	for i, fam := range Families {
		assert.Equal(t, models.Kinds[i], fam.Kind)
	}
}

func TestFamiliesProduceValidRecords(t *testing.T) {
	legs := []models.OptionLeg{
		callLeg(95, 7.00), callLeg(100, 4.00), callLeg(105, 2.00), callLeg(110, 0.90),
		putLeg(90, 0.50), putLeg(95, 1.00), putLeg(100, 2.80), putLeg(105, 6.00),
	}

	for _, fam := range Families {
		for _, m := range fam.Run(legs, 100, DefaultParams()) {
			assert.NoError(t, m.Validate(), "family %s emitted invalid record", fam.Kind)
			assert.Equal(t, fam.Kind, m.Kind)
		}
	}
}

func TestEvalSafeSwallowsPanics(t *testing.T) {
	m := evalSafe(func() *models.StrategyMetrics { panic("bad tuple") })
	assert.Nil(t, m)
}

func TestStrikeDesc(t *testing.T) {
	assert.Equal(t, "28/30", strikeDesc(28, 30))
	assert.Equal(t, "27.50/30", strikeDesc(27.5, 30))
	assert.Equal(t, "95/100/105", strikeDesc(95, 100, 105))
}

func TestAggregateGreeksFromQuotes(t *testing.T) {
	long := callLeg(100, 2.50)
	long.Greeks = models.Greeks{Delta: 0.55, Gamma: 0.04, Theta: -0.03, Vega: 0.12}
	short := callLeg(105, 1.10)
	short.Greeks = models.Greeks{Delta: 0.30, Gamma: 0.03, Theta: -0.02, Vega: 0.10}

	net := AggregateGreeks([]models.StrategyLeg{
		{Leg: long, Direction: models.DirectionBuy, Quantity: 1},
		{Leg: short, Direction: models.DirectionSell, Quantity: 1},
	}, 100, DefaultParams())

	assert.InDelta(t, 0.25, net.Delta, 1e-9)
	assert.InDelta(t, 0.01, net.Gamma, 1e-9)
	assert.InDelta(t, -0.01, net.Theta, 1e-9)
	assert.InDelta(t, 0.02, net.Vega, 1e-9)
}

func TestAggregateGreeksModelFallback(t *testing.T) {
	// Legs without quote sensitivities fall back to the pricing model.
	leg := callLeg(100, 2.50)
	require.True(t, leg.Greeks.IsZero())

	net := AggregateGreeks([]models.StrategyLeg{
		{Leg: leg, Direction: models.DirectionBuy, Quantity: 1},
	}, 100, DefaultParams())

	assert.False(t, net.IsZero(), "model fallback should produce sensitivities")
	assert.Greater(t, net.Delta, 0.0)
	assert.Less(t, net.Theta, 0.0)
}

func TestAggregateGreeksQuantityScaling(t *testing.T) {
	leg := callLeg(100, 2.50)
	leg.Greeks = models.Greeks{Delta: 0.50}

	net := AggregateGreeks([]models.StrategyLeg{
		{Leg: leg, Direction: models.DirectionSell, Quantity: 2},
	}, 100, DefaultParams())

	if math.Abs(net.Delta+1.0) > 1e-9 {
		t.Errorf("net delta = %v, expected -1.0", net.Delta)
	}
}

func TestStrikeDescSnapsFloatNoise(t *testing.T) {
	// Quoted strikes can carry float residue from upstream arithmetic;
	// the description must still read as clean tick multiples.
	assert.Equal(t, "30", trimStrike(29.999999999999996))
	assert.Equal(t, "32.50", trimStrike(32.500000000000004))
	assert.Equal(t, "28/30", strikeDesc(28.000000000000004, 29.999999999999996))
}
