// Package storage persists scan results to disk as JSON so the
// dashboard and CLI can review past scans.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/eddiefleurent/stamford_scanner/internal/scanner"
)

// DefaultHistoryLimit bounds how many scan results are retained.
const DefaultHistoryLimit = 50

// JSONStorage stores scan history in a single JSON file. Writes go
// through a temp file and rename so a crash never leaves a truncated
// store behind.
type JSONStorage struct {
	mu           sync.RWMutex
	filepath     string
	historyLimit int
	data         *storeData
}

type storeData struct {
	Scans       []scanner.Result `json:"scans"`
	Statistics  *Statistics      `json:"statistics"`
	LastUpdated time.Time        `json:"last_updated"`
}

// Statistics aggregates the stored scan history.
type Statistics struct {
	TotalScans      int       `json:"total_scans"`
	TotalStrategies int       `json:"total_strategies"`
	BestRiskReward  float64   `json:"best_risk_reward"`
	LastScanAt      time.Time `json:"last_scan_at"`
}

// NewJSONStorage creates a store backed by filepath, loading any
// existing data. historyLimit <= 0 uses DefaultHistoryLimit.
func NewJSONStorage(filepath string, historyLimit int) (*JSONStorage, error) {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	s := &JSONStorage{
		filepath:     filepath,
		historyLimit: historyLimit,
		data: &storeData{
			Statistics: &Statistics{},
		},
	}

	// Load existing data if file exists
	if _, err := os.Stat(filepath); err == nil {
		if err := s.Load(); err != nil {
			return nil, fmt.Errorf("loading storage: %w", err)
		}
	}

	return s, nil
}

// Load reads the store file into memory.
func (s *JSONStorage) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.filepath)
	if err != nil {
		return err
	}

	data := &storeData{}
	if err := json.Unmarshal(raw, data); err != nil {
		return fmt.Errorf("parsing storage file %s: %w", s.filepath, err)
	}
	if data.Statistics == nil {
		data.Statistics = &Statistics{}
	}
	s.data = data

	return nil
}

// Save writes the store to disk atomically.
func (s *JSONStorage) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *JSONStorage) saveLocked() error {
	s.data.LastUpdated = time.Now().UTC()

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}

	// Write to temp file first
	tmpFile := s.filepath + ".tmp"
	if err := os.WriteFile(tmpFile, raw, 0o644); err != nil {
		return err
	}

	// Atomic rename
	return os.Rename(tmpFile, s.filepath)
}

// AddScan appends a scan result, trims history to the limit, refreshes
// statistics, and persists.
func (s *JSONStorage) AddScan(res *scanner.Result) error {
	if res == nil {
		return fmt.Errorf("nil scan result")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Scans = append(s.data.Scans, *res)
	if excess := len(s.data.Scans) - s.historyLimit; excess > 0 {
		s.data.Scans = s.data.Scans[excess:]
	}
	s.refreshStatisticsLocked(res)

	return s.saveLocked()
}

func (s *JSONStorage) refreshStatisticsLocked(latest *scanner.Result) {
	stats := s.data.Statistics
	stats.TotalScans++
	stats.TotalStrategies += len(latest.Strategies)
	stats.LastScanAt = latest.Timestamp

	best := latest.Summary.BestRiskReward
	if best > 0 && (stats.BestRiskReward == 0 || best < stats.BestRiskReward) {
		stats.BestRiskReward = best
	}
}

// GetScan returns the stored scan with the given ID.
func (s *JSONStorage) GetScan(id string) (*scanner.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.data.Scans {
		if s.data.Scans[i].ID == id {
			res := s.data.Scans[i]
			return &res, nil
		}
	}
	return nil, ErrScanNotFound
}

// GetLatest returns the most recently added scan.
func (s *JSONStorage) GetLatest() (*scanner.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.data.Scans) == 0 {
		return nil, ErrNoScans
	}
	res := s.data.Scans[len(s.data.Scans)-1]
	return &res, nil
}

// HasScan reports whether a scan with the given ID is stored.
func (s *JSONStorage) HasScan(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.data.Scans {
		if s.data.Scans[i].ID == id {
			return true
		}
	}
	return false
}

// GetHistory returns a copy of the stored scans, oldest first.
func (s *JSONStorage) GetHistory() []scanner.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]scanner.Result, len(s.data.Scans))
	copy(out, s.data.Scans)
	return out
}

// GetStatistics returns a copy of the aggregate statistics.
func (s *JSONStorage) GetStatistics() *Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := *s.data.Statistics
	return &stats
}
