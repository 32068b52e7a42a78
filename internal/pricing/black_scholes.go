// Package pricing implements closed-form European option pricing used as a
// fallback when a quote carries no market sensitivities. The package is pure
// and stateless: outputs are a function of the inputs alone.
package pricing

import (
	"math"

	"github.com/eddiefleurent/stamford_scanner/internal/models"
)

const (
	// DefaultRiskFreeRate is the annualized risk-free rate assumed when the
	// caller does not supply one.
	DefaultRiskFreeRate = 0.1075
	// TradingDaysPerYear scales annualized theta down to a per-trading-day
	// decay figure.
	TradingDaysPerYear = 252.0
	// VegaScale reports vega per 1% move in volatility rather than per
	// full point.
	VegaScale = 100.0
)

// Result holds the theoretical price and per-unit sensitivities of one
// option contract.
type Result struct {
	Price float64 `json:"price"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"` // per trading day
	Vega  float64 `json:"vega"`  // per 1% volatility move
}

// Greeks converts the result into the shared sensitivities type.
func (r Result) Greeks() models.Greeks {
	return models.Greeks{Delta: r.Delta, Gamma: r.Gamma, Theta: r.Theta, Vega: r.Vega}
}

// Price computes the theoretical value and sensitivities of a European
// option. spot, strike and vol must be positive and t is in years; at t <= 0
// the price degenerates to intrinsic value and delta to 0 or 1 depending on
// moneyness (0 or -1 for puts). Any other non-positive input yields all
// zeros rather than a division by zero.
func Price(kind models.OptionType, spot, strike, t, vol, rate float64) Result {
	if spot <= 0 || strike <= 0 {
		return Result{}
	}
	if t <= 0 {
		return expired(kind, spot, strike)
	}
	if vol <= 0 {
		return Result{}
	}

	sqrtT := math.Sqrt(t)
	d1 := (math.Log(spot/strike) + (rate+0.5*vol*vol)*t) / (vol * sqrtT)
	d2 := d1 - vol*sqrtT
	discount := math.Exp(-rate * t)

	var res Result
	// Gamma and vega are identical for calls and puts.
	res.Gamma = normPDF(d1) / (spot * vol * sqrtT)
	res.Vega = spot * normPDF(d1) * sqrtT / VegaScale

	if kind == models.OptionTypeCall {
		res.Price = spot*normCDF(d1) - strike*discount*normCDF(d2)
		res.Delta = normCDF(d1)
		res.Theta = (-spot*normPDF(d1)*vol/(2*sqrtT) - rate*strike*discount*normCDF(d2)) / TradingDaysPerYear
	} else {
		res.Price = strike*discount*normCDF(-d2) - spot*normCDF(-d1)
		res.Delta = normCDF(d1) - 1
		res.Theta = (-spot*normPDF(d1)*vol/(2*sqrtT) + rate*strike*discount*normCDF(-d2)) / TradingDaysPerYear
	}
	return res
}

// expired returns the degenerate valuation of a contract at expiry.
func expired(kind models.OptionType, spot, strike float64) Result {
	var res Result
	if kind == models.OptionTypeCall {
		if spot > strike {
			res.Price = spot - strike
			res.Delta = 1
		}
		return res
	}
	if spot < strike {
		res.Price = strike - spot
		res.Delta = -1
	}
	return res
}

// Abramowitz & Stegun 26.2.17 coefficients for the cumulative normal
// approximation, accurate to about 1e-7.
var cndCoefficients = [5]float64{0.31938153, -0.356563782, 1.781477937, -1.821255978, 1.330274429}

// normCDF approximates the standard normal cumulative distribution with a
// 5-term polynomial.
func normCDF(x float64) float64 {
	l := math.Abs(x)
	k := 1 / (1 + 0.2316419*l)
	poly := k * (cndCoefficients[0] + k*(cndCoefficients[1]+k*(cndCoefficients[2]+k*(cndCoefficients[3]+k*cndCoefficients[4]))))
	res := 1 - normPDF(l)*poly
	if x < 0 {
		return 1 - res
	}
	return res
}

// normPDF is the standard normal probability density function.
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}
