// Package feed loads option chain snapshots from external sources.
//
// A Provider yields a Snapshot: the underlying symbol, its spot price,
// and the raw option legs to scan. Implementations cover CSV files,
// HTTP endpoints, and synthetic data for testing.
package feed

import (
	"context"
	"errors"
	"time"

	"github.com/eddiefleurent/stamford_scanner/internal/models"
)

// ErrEmptyChain is returned when a source yields no usable option legs.
var ErrEmptyChain = errors.New("feed: option chain is empty")

// Snapshot is one observation of an option chain.
type Snapshot struct {
	Symbol    string             `json:"symbol"`
	SpotPrice float64            `json:"spot_price"`
	AsOf      time.Time          `json:"as_of"`
	Legs      []models.OptionLeg `json:"legs"`
}

// Provider fetches an option chain snapshot for scanning.
type Provider interface {
	// Fetch returns the current snapshot. Implementations must respect
	// ctx cancellation when the source involves I/O.
	Fetch(ctx context.Context) (*Snapshot, error)
}
