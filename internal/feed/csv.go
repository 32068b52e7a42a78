package feed

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/eddiefleurent/stamford_scanner/internal/models"
)

// csvLegRow mirrors one line of a chain export file.
type csvLegRow struct {
	Symbol       string  `csv:"symbol"`
	ContractID   string  `csv:"contract_id"`
	Expiration   string  `csv:"expiration"`
	BusinessDays int     `csv:"business_days"`
	Type         string  `csv:"type"`
	Strike       float64 `csv:"strike"`
	Premium      float64 `csv:"premium"`
	ImpliedVol   float64 `csv:"implied_vol"`
	Delta        float64 `csv:"delta"`
	Gamma        float64 `csv:"gamma"`
	Theta        float64 `csv:"theta"`
	Vega         float64 `csv:"vega"`
	Multiplier   int     `csv:"multiplier"`
}

// CSVProvider reads an option chain from a local CSV export.
type CSVProvider struct {
	path      string
	symbol    string
	spotPrice float64
}

// Compile-time check that CSVProvider satisfies Provider.
var _ Provider = (*CSVProvider)(nil)

// NewCSVProvider creates a provider backed by the CSV file at path.
// symbol and spotPrice describe the underlying, since chain exports
// carry per-contract data only.
func NewCSVProvider(path, symbol string, spotPrice float64) (*CSVProvider, error) {
	if path == "" {
		return nil, fmt.Errorf("csv provider: path is required")
	}
	if symbol == "" {
		return nil, fmt.Errorf("csv provider: symbol is required")
	}
	if spotPrice <= 0 {
		return nil, fmt.Errorf("csv provider: spot price must be positive, got %v", spotPrice)
	}
	return &CSVProvider{path: path, symbol: symbol, spotPrice: spotPrice}, nil
}

// Fetch reads and parses the chain file.
func (p *CSVProvider) Fetch(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("opening chain file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var rows []*csvLegRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing chain file %s: %w", p.path, err)
	}

	legs := make([]models.OptionLeg, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		legs = append(legs, rowToLeg(row, p.symbol))
	}
	if len(legs) == 0 {
		return nil, ErrEmptyChain
	}

	return &Snapshot{
		Symbol:    p.symbol,
		SpotPrice: p.spotPrice,
		AsOf:      time.Now().UTC(),
		Legs:      legs,
	}, nil
}

func rowToLeg(row *csvLegRow, fallbackSymbol string) models.OptionLeg {
	symbol := strings.TrimSpace(row.Symbol)
	if symbol == "" {
		symbol = fallbackSymbol
	}
	return models.OptionLeg{
		Symbol:       symbol,
		ContractID:   strings.TrimSpace(row.ContractID),
		Expiration:   strings.TrimSpace(row.Expiration),
		BusinessDays: row.BusinessDays,
		Type:         models.OptionType(strings.ToLower(strings.TrimSpace(row.Type))),
		Strike:       row.Strike,
		Premium:      row.Premium,
		ImpliedVol:   row.ImpliedVol,
		Greeks: models.Greeks{
			Delta: row.Delta,
			Gamma: row.Gamma,
			Theta: row.Theta,
			Vega:  row.Vega,
		},
		Multiplier: row.Multiplier,
	}
}
