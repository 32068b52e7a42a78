// Package chain turns a flat option-chain snapshot into candidate leg tuples
// for the strategy evaluators. All generators are pure functions over the leg
// set: they group by (underlying, expiration), sort by strike and enumerate
// tuples inside each group only, which keeps the combinatorics bounded for
// realistic chains of tens of legs per expiration.
package chain

import (
	"math"
	"sort"

	"github.com/eddiefleurent/stamford_scanner/internal/models"
)

const (
	// StraddleStrikeTolerance is the band, as a fraction of the call
	// strike, inside which a call/put pair counts as same-strike.
	StraddleStrikeTolerance = 0.01
	// ButterflyGapTolerance is the absolute tolerance when comparing the
	// two strike gaps of a candidate butterfly.
	ButterflyGapTolerance = 0.05
)

// Pair is a same-type two-leg candidate, ordered by strike ascending.
type Pair struct {
	Low  models.OptionLeg
	High models.OptionLeg
}

// CrossPair is a call/put two-leg candidate sharing an expiration.
type CrossPair struct {
	Call models.OptionLeg
	Put  models.OptionLeg
}

// Triple is a same-type three-leg candidate with equidistant strikes,
// ordered by strike ascending.
type Triple struct {
	Low  models.OptionLeg
	Mid  models.OptionLeg
	High models.OptionLeg
}

// Quad is a four-leg condor candidate: a put pair below a call pair.
type Quad struct {
	LongPut   models.OptionLeg
	ShortPut  models.OptionLeg
	ShortCall models.OptionLeg
	LongCall  models.OptionLeg
}

// groupByExpiration buckets usable legs of the given type by
// (underlying, expiration) and sorts each bucket by strike ascending.
func groupByExpiration(legs []models.OptionLeg, typ models.OptionType) map[string][]models.OptionLeg {
	groups := make(map[string][]models.OptionLeg)
	for _, leg := range legs {
		if !leg.Usable() || leg.Type != typ {
			continue
		}
		key := leg.GroupKey()
		groups[key] = append(groups[key], leg)
	}
	for key := range groups {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool { return group[i].Strike < group[j].Strike })
	}
	return groups
}

// sortedKeys returns the group keys in a deterministic order so repeated
// scans over the same snapshot enumerate tuples identically.
func sortedKeys[T any](groups map[string][]T) []string {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// SameTypePairs emits every ordered pair (low strike, high strike) of legs of
// the given type within each (underlying, expiration) group. Used for
// vertical spreads.
func SameTypePairs(legs []models.OptionLeg, typ models.OptionType) []Pair {
	groups := groupByExpiration(legs, typ)

	var pairs []Pair
	for _, key := range sortedKeys(groups) {
		group := groups[key]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if group[j].Strike <= group[i].Strike {
					continue // duplicate strikes produce zero-width spreads
				}
				pairs = append(pairs, Pair{Low: group[i], High: group[j]})
			}
		}
	}
	return pairs
}

// StraddlePairs emits every call/put pair sharing an expiration whose strikes
// match within StraddleStrikeTolerance of the call strike.
func StraddlePairs(legs []models.OptionLeg) []CrossPair {
	return crossPairs(legs, func(call, put models.OptionLeg) bool {
		return math.Abs(call.Strike-put.Strike) <= StraddleStrikeTolerance*call.Strike
	})
}

// StranglePairs emits every call/put pair sharing an expiration whose strikes
// differ beyond the straddle tolerance, with the put strike below the call
// strike.
func StranglePairs(legs []models.OptionLeg) []CrossPair {
	return crossPairs(legs, func(call, put models.OptionLeg) bool {
		return put.Strike < call.Strike &&
			math.Abs(call.Strike-put.Strike) > StraddleStrikeTolerance*call.Strike
	})
}

func crossPairs(legs []models.OptionLeg, match func(call, put models.OptionLeg) bool) []CrossPair {
	calls := groupByExpiration(legs, models.OptionTypeCall)
	puts := groupByExpiration(legs, models.OptionTypePut)

	var pairs []CrossPair
	for _, key := range sortedKeys(calls) {
		putGroup, ok := puts[key]
		if !ok {
			continue
		}
		for _, call := range calls[key] {
			for _, put := range putGroup {
				if match(call, put) {
					pairs = append(pairs, CrossPair{Call: call, Put: put})
				}
			}
		}
	}
	return pairs
}

// ButterflyTriples emits every ordered call triple within a group whose two
// strike gaps are equal within ButterflyGapTolerance.
func ButterflyTriples(legs []models.OptionLeg) []Triple {
	groups := groupByExpiration(legs, models.OptionTypeCall)

	var triples []Triple
	for _, key := range sortedKeys(groups) {
		group := groups[key]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				for k := j + 1; k < len(group); k++ {
					lowGap := group[j].Strike - group[i].Strike
					highGap := group[k].Strike - group[j].Strike
					if lowGap <= 0 || highGap <= 0 {
						continue
					}
					if math.Abs(lowGap-highGap) > ButterflyGapTolerance {
						continue
					}
					triples = append(triples, Triple{Low: group[i], Mid: group[j], High: group[k]})
				}
			}
		}
	}
	return triples
}

// CondorQuads cross-joins put pairs with call pairs inside each group,
// keeping only combinations where the short put strike sits below the short
// call strike and the two spread widths differ by no more than half the
// larger width.
func CondorQuads(legs []models.OptionLeg) []Quad {
	calls := groupByExpiration(legs, models.OptionTypeCall)
	puts := groupByExpiration(legs, models.OptionTypePut)

	var quads []Quad
	for _, key := range sortedKeys(puts) {
		callGroup, ok := calls[key]
		if !ok {
			continue
		}
		putGroup := puts[key]

		for pi := 0; pi < len(putGroup); pi++ {
			for pj := pi + 1; pj < len(putGroup); pj++ {
				longPut, shortPut := putGroup[pi], putGroup[pj]
				putWidth := shortPut.Strike - longPut.Strike
				if putWidth <= 0 {
					continue
				}
				for ci := 0; ci < len(callGroup); ci++ {
					for cj := ci + 1; cj < len(callGroup); cj++ {
						shortCall, longCall := callGroup[ci], callGroup[cj]
						callWidth := longCall.Strike - shortCall.Strike
						if callWidth <= 0 {
							continue
						}
						if shortPut.Strike >= shortCall.Strike {
							continue
						}
						larger := math.Max(putWidth, callWidth)
						if math.Abs(putWidth-callWidth) > larger/2 {
							continue
						}
						quads = append(quads, Quad{
							LongPut:   longPut,
							ShortPut:  shortPut,
							ShortCall: shortCall,
							LongCall:  longCall,
						})
					}
				}
			}
		}
	}
	return quads
}
