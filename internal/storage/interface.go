package storage

import (
	"github.com/eddiefleurent/stamford_scanner/internal/scanner"
)

// Interface defines the contract for scan result persistence.
//
// Implementations must be safe for concurrent use - callers can assume all methods
// are goroutine-safe and can safely call these methods from multiple goroutines.
//
// The provided JSONStorage implementation uses sync.RWMutex to serialize access,
// ensuring all Interface methods are protected for concurrent readers and writers.
type Interface interface {
	// Scan management
	AddScan(res *scanner.Result) error
	GetScan(id string) (*scanner.Result, error)
	GetLatest() (*scanner.Result, error)
	HasScan(id string) bool

	// Data persistence
	Save() error
	Load() error

	// Historical data and analytics
	GetHistory() []scanner.Result
	GetStatistics() *Statistics
}

// NewStorage creates a new storage implementation (currently JSON-based)
// In the future, this can be extended to support different storage backends
func NewStorage(filepath string, historyLimit int) (Interface, error) {
	return NewJSONStorage(filepath, historyLimit)
}

// Ensure JSONStorage implements Interface
var _ Interface = (*JSONStorage)(nil)
