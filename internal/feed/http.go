package feed

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/eddiefleurent/stamford_scanner/internal/retry"
)

// HTTPProvider fetches chain snapshots from a JSON endpoint. The
// endpoint is expected to return a Snapshot document; transient
// failures are retried with backoff.
type HTTPProvider struct {
	url    string
	client *retry.Client
}

var _ Provider = (*HTTPProvider)(nil)

// NewHTTPProvider creates a provider that fetches from url. A nil
// httpClient uses http.DefaultClient.
func NewHTTPProvider(url string, httpClient *http.Client, logger *log.Logger) (*HTTPProvider, error) {
	if url == "" {
		return nil, fmt.Errorf("http provider: url is required")
	}
	return &HTTPProvider{
		url:    url,
		client: retry.NewClient(httpClient, logger),
	}, nil
}

// Fetch performs the HTTP request and decodes the snapshot.
func (p *HTTPProvider) Fetch(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	if err := p.client.GetJSON(ctx, p.url, &snap); err != nil {
		return nil, fmt.Errorf("fetching chain snapshot: %w", err)
	}
	if snap.Symbol == "" {
		return nil, fmt.Errorf("chain snapshot missing symbol")
	}
	if snap.SpotPrice <= 0 {
		return nil, fmt.Errorf("chain snapshot has invalid spot price %v", snap.SpotPrice)
	}
	if len(snap.Legs) == 0 {
		return nil, ErrEmptyChain
	}
	return &snap, nil
}
