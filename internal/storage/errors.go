package storage

import "errors"

// ErrScanNotFound is returned when no stored scan matches the requested ID
var ErrScanNotFound = errors.New("scan not found")

// ErrNoScans is returned when history is empty and a latest scan is requested
var ErrNoScans = errors.New("no scans recorded")
