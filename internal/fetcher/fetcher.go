package fetcher

import (
	"context"
	"encoding/json"
)

// QuoteFetcher is the core interface for looking up a single stock code
// against the upstream quote service.
type QuoteFetcher interface {
	// Fetch retrieves the quote for code and returns the upstream JSON
	// object unmodified. Failures are reported as *FetchError.
	Fetch(ctx context.Context, code string) (json.RawMessage, error)
}

// QuoteFetcherFunc adapts a plain function to QuoteFetcher.
type QuoteFetcherFunc func(ctx context.Context, code string) (json.RawMessage, error)

// Fetch calls f(ctx, code).
func (f QuoteFetcherFunc) Fetch(ctx context.Context, code string) (json.RawMessage, error) {
	return f(ctx, code)
}
