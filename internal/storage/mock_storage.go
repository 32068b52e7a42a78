package storage

import (
	"github.com/eddiefleurent/stamford_scanner/internal/scanner"
)

// MockStorage implements Interface in memory for testing.
type MockStorage struct {
	saveError     error
	loadError     error
	scans         []scanner.Result
	statistics    *Statistics
	saveCallCount int
	loadCallCount int
}

// NewMockStorage creates a new mock storage for testing
func NewMockStorage() *MockStorage {
	return &MockStorage{
		statistics: &Statistics{},
	}
}

var _ Interface = (*MockStorage)(nil)

// SetSaveError makes subsequent Save calls fail with err.
func (m *MockStorage) SetSaveError(err error) { m.saveError = err }

// SetLoadError makes subsequent Load calls fail with err.
func (m *MockStorage) SetLoadError(err error) { m.loadError = err }

// SaveCallCount reports how many times Save was invoked.
func (m *MockStorage) SaveCallCount() int { return m.saveCallCount }

// LoadCallCount reports how many times Load was invoked.
func (m *MockStorage) LoadCallCount() int { return m.loadCallCount }

func (m *MockStorage) AddScan(res *scanner.Result) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.scans = append(m.scans, *res)
	m.statistics.TotalScans++
	m.statistics.TotalStrategies += len(res.Strategies)
	m.statistics.LastScanAt = res.Timestamp
	return nil
}

func (m *MockStorage) GetScan(id string) (*scanner.Result, error) {
	for i := range m.scans {
		if m.scans[i].ID == id {
			res := m.scans[i]
			return &res, nil
		}
	}
	return nil, ErrScanNotFound
}

func (m *MockStorage) GetLatest() (*scanner.Result, error) {
	if len(m.scans) == 0 {
		return nil, ErrNoScans
	}
	res := m.scans[len(m.scans)-1]
	return &res, nil
}

func (m *MockStorage) HasScan(id string) bool {
	for i := range m.scans {
		if m.scans[i].ID == id {
			return true
		}
	}
	return false
}

func (m *MockStorage) GetHistory() []scanner.Result {
	out := make([]scanner.Result, len(m.scans))
	copy(out, m.scans)
	return out
}

func (m *MockStorage) GetStatistics() *Statistics {
	stats := *m.statistics
	return &stats
}

func (m *MockStorage) Save() error {
	m.saveCallCount++
	return m.saveError
}

func (m *MockStorage) Load() error {
	m.loadCallCount++
	return m.loadError
}
