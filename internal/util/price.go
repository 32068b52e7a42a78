// Package util provides common utility functions for price calculations.
package util

import "math"

// snapEpsilon absorbs float division noise so that exact tick multiples
// are not pushed across a floor/ceil boundary.
const snapEpsilon = 1e-12

// RoundToTick rounds x to the nearest tick increment.
// For example, with tick=0.01, 1.2345 becomes 1.23 or 1.24 depending on rounding.
// A negative tick is treated as its absolute value; a zero tick returns x.
func RoundToTick(x, tick float64) float64 {
	tick = math.Abs(tick)
	if tick == 0 {
		return x
	}
	return math.Round(x/tick) * tick
}

// FloorToTick rounds x down to the nearest tick increment.
func FloorToTick(x, tick float64) float64 {
	tick = math.Abs(tick)
	if tick == 0 {
		return x
	}
	return math.Floor(snapToTick(x/tick)) * tick
}

// CeilToTick rounds x up to the nearest tick increment.
func CeilToTick(x, tick float64) float64 {
	tick = math.Abs(tick)
	if tick == 0 {
		return x
	}
	return math.Ceil(snapToTick(x/tick)) * tick
}

func snapToTick(q float64) float64 {
	if nearest := math.Round(q); math.Abs(q-nearest) < snapEpsilon {
		return nearest
	}
	return q
}
