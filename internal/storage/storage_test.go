package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eddiefleurent/stamford_scanner/internal/models"
	"github.com/eddiefleurent/stamford_scanner/internal/rank"
	"github.com/eddiefleurent/stamford_scanner/internal/scanner"
)

func testScan(id string) *scanner.Result {
	return &scanner.Result{
		ID:        id,
		Symbol:    "SPY",
		SpotPrice: 28.50,
		Timestamp: time.Date(2026, 1, 5, 15, 30, 0, 0, time.UTC),
		LegCount:  8,
		Strategies: []*models.StrategyMetrics{
			{
				Name:       "Bull Call Spread",
				Kind:       models.KindBullCallSpread,
				CashFlow:   models.CashFlowDebit,
				MaxProfit:  models.BoundedPL(1.10),
				MaxLoss:    models.BoundedPL(0.90),
				RiskReward: 0.82,
			},
		},
		Summary: rank.Summary{Count: 1, DebitCount: 1, BestRiskReward: 0.82},
	}
}

func newTestStorage(t *testing.T, limit int) (*JSONStorage, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scans.json")
	s, err := NewJSONStorage(path, limit)
	if err != nil {
		t.Fatalf("NewJSONStorage: %v", err)
	}
	return s, path
}

func TestAddScanAndGet(t *testing.T) {
	s, _ := newTestStorage(t, 10)

	if err := s.AddScan(testScan("scan-1")); err != nil {
		t.Fatalf("AddScan: %v", err)
	}

	got, err := s.GetScan("scan-1")
	if err != nil {
		t.Fatalf("GetScan: %v", err)
	}
	if got.Symbol != "SPY" || len(got.Strategies) != 1 {
		t.Errorf("unexpected scan: %+v", got)
	}

	if !s.HasScan("scan-1") {
		t.Error("HasScan should find stored scan")
	}
	if s.HasScan("scan-2") {
		t.Error("HasScan should not find unknown ID")
	}

	if _, err := s.GetScan("scan-2"); err != ErrScanNotFound {
		t.Errorf("expected ErrScanNotFound, got %v", err)
	}
}

func TestGetLatest(t *testing.T) {
	s, _ := newTestStorage(t, 10)

	if _, err := s.GetLatest(); err != ErrNoScans {
		t.Errorf("expected ErrNoScans on empty store, got %v", err)
	}

	for i := 1; i <= 3; i++ {
		if err := s.AddScan(testScan(fmt.Sprintf("scan-%d", i))); err != nil {
			t.Fatalf("AddScan: %v", err)
		}
	}

	latest, err := s.GetLatest()
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if latest.ID != "scan-3" {
		t.Errorf("latest = %s, expected scan-3", latest.ID)
	}
}

func TestHistoryLimit(t *testing.T) {
	s, _ := newTestStorage(t, 3)

	for i := 1; i <= 5; i++ {
		if err := s.AddScan(testScan(fmt.Sprintf("scan-%d", i))); err != nil {
			t.Fatalf("AddScan: %v", err)
		}
	}

	history := s.GetHistory()
	if len(history) != 3 {
		t.Fatalf("history length = %d, expected 3", len(history))
	}
	if history[0].ID != "scan-3" || history[2].ID != "scan-5" {
		t.Errorf("oldest entries not evicted: %s..%s", history[0].ID, history[2].ID)
	}

	// Evicted scans no longer resolve, but statistics remember them.
	if s.HasScan("scan-1") {
		t.Error("evicted scan still present")
	}
	if stats := s.GetStatistics(); stats.TotalScans != 5 {
		t.Errorf("TotalScans = %d, expected 5", stats.TotalScans)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	s, path := newTestStorage(t, 10)
	if err := s.AddScan(testScan("scan-1")); err != nil {
		t.Fatalf("AddScan: %v", err)
	}

	reopened, err := NewJSONStorage(path, 10)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	got, err := reopened.GetScan("scan-1")
	if err != nil {
		t.Fatalf("GetScan after reload: %v", err)
	}
	if got.Strategies[0].MaxProfit.Amount != 1.10 {
		t.Errorf("strategy amounts lost in round trip: %+v", got.Strategies[0])
	}
	if stats := reopened.GetStatistics(); stats.TotalScans != 1 {
		t.Errorf("statistics lost in round trip: %+v", stats)
	}
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scans.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	if _, err := NewJSONStorage(path, 10); err == nil {
		t.Error("expected error for corrupt store file")
	}
}

func TestStatistics(t *testing.T) {
	s, _ := newTestStorage(t, 10)

	first := testScan("scan-1")
	first.Summary.BestRiskReward = 0.82
	second := testScan("scan-2")
	second.Summary.BestRiskReward = 0.50

	if err := s.AddScan(first); err != nil {
		t.Fatalf("AddScan: %v", err)
	}
	if err := s.AddScan(second); err != nil {
		t.Fatalf("AddScan: %v", err)
	}

	stats := s.GetStatistics()
	if stats.TotalScans != 2 || stats.TotalStrategies != 2 {
		t.Errorf("counts wrong: %+v", stats)
	}
	if stats.BestRiskReward != 0.50 {
		t.Errorf("BestRiskReward = %v, expected 0.50 (lower is better)", stats.BestRiskReward)
	}
}

func TestAddScanRejectsNil(t *testing.T) {
	s, _ := newTestStorage(t, 10)
	if err := s.AddScan(nil); err == nil {
		t.Error("expected error for nil scan")
	}
}
