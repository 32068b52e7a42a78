package feed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/eddiefleurent/stamford_scanner/internal/models"
)

const chainCSV = `symbol,contract_id,expiration,business_days,type,strike,premium,implied_vol,delta,gamma,theta,vega,multiplier
SPY,SPY260116C00028000,2026-01-16,21,call,28,1.50,0.32,0.62,0.08,-0.02,0.03,100
SPY,SPY260116C00030000,2026-01-16,21,call,30,0.60,0.30,0.31,0.07,-0.015,0.025,100
,SPY260116P00028000,2026-01-16,21,PUT,28,0.80,0.34,-0.38,0.08,-0.018,0.028,0
`

func writeChain(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chain.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing chain file: %v", err)
	}
	return path
}

func TestCSVProviderFetch(t *testing.T) {
	p, err := NewCSVProvider(writeChain(t, chainCSV), "SPY", 28.50)
	if err != nil {
		t.Fatalf("NewCSVProvider: %v", err)
	}

	snap, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if snap.Symbol != "SPY" || snap.SpotPrice != 28.50 {
		t.Errorf("snapshot header wrong: %s @ %v", snap.Symbol, snap.SpotPrice)
	}
	if len(snap.Legs) != 3 {
		t.Fatalf("expected 3 legs, got %d", len(snap.Legs))
	}

	first := snap.Legs[0]
	if first.Type != models.OptionTypeCall || first.Strike != 28 || first.Premium != 1.50 {
		t.Errorf("first leg parsed wrong: %+v", first)
	}
	if first.Greeks.Delta != 0.62 {
		t.Errorf("Delta = %v, expected 0.62", first.Greeks.Delta)
	}

	// Type is lowercased and a missing symbol falls back to the provider's.
	third := snap.Legs[2]
	if third.Type != models.OptionTypePut {
		t.Errorf("Type = %q, expected put", third.Type)
	}
	if third.Symbol != "SPY" {
		t.Errorf("Symbol = %q, expected fallback SPY", third.Symbol)
	}
}

func TestCSVProviderEmptyChain(t *testing.T) {
	header := "symbol,contract_id,expiration,business_days,type,strike,premium,implied_vol,delta,gamma,theta,vega,multiplier\n"
	p, err := NewCSVProvider(writeChain(t, header), "SPY", 28.50)
	if err != nil {
		t.Fatalf("NewCSVProvider: %v", err)
	}

	if _, err := p.Fetch(context.Background()); err == nil {
		t.Error("expected error for empty chain")
	}
}

func TestCSVProviderMissingFile(t *testing.T) {
	p, err := NewCSVProvider(filepath.Join(t.TempDir(), "absent.csv"), "SPY", 28.50)
	if err != nil {
		t.Fatalf("NewCSVProvider: %v", err)
	}
	if _, err := p.Fetch(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCSVProviderValidation(t *testing.T) {
	if _, err := NewCSVProvider("", "SPY", 28.50); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := NewCSVProvider("chain.csv", "", 28.50); err == nil {
		t.Error("expected error for empty symbol")
	}
	if _, err := NewCSVProvider("chain.csv", "SPY", 0); err == nil {
		t.Error("expected error for zero spot")
	}
}

func TestCSVProviderRespectsCancellation(t *testing.T) {
	p, err := NewCSVProvider(writeChain(t, chainCSV), "SPY", 28.50)
	if err != nil {
		t.Fatalf("NewCSVProvider: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Fetch(ctx); err == nil {
		t.Error("expected error from canceled context")
	}
}
