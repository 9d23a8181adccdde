package quoteapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"resty.dev/v3"

	"stockproxy/internal/fetcher"
)

// stockPath is the upstream route for a single code. The code is escaped as
// one path segment, so "BRK/B" is sent as "BRK%2FB".
const stockPath = "/stock/{code}"

// StockFetcher fetches raw stock quotes from the upstream quote service
type StockFetcher struct {
	client *resty.Client
	logger *slog.Logger
}

// NewStockFetcher creates a new stock quote fetcher on top of a shared client
func NewStockFetcher(client *resty.Client, logger *slog.Logger) *StockFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &StockFetcher{
		client: client,
		logger: logger,
	}
}

// Fetch retrieves the quote for code. Non-2xx statuses and transport errors
// come back as recoverable *fetcher.FetchError values; an invalid JSON body
// on a 2xx response is returned as a decode error.
func (f *StockFetcher) Fetch(ctx context.Context, code string) (json.RawMessage, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetPathParam("code", code).
		SetDoNotParseResponse(true).
		Get(stockPath)

	if err != nil {
		f.logger.Error("error fetching stock data",
			"code", code,
			"error", err.Error())
		return nil, fetcher.NewNetworkError(code, err)
	}
	defer resp.Body.Close()

	if !resp.IsSuccess() {
		f.logger.Error("failed to fetch stock data",
			"code", code,
			"status_code", resp.StatusCode())
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fetcher.NewStatusError(code, resp.StatusCode())
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		f.logger.Error("error reading stock data",
			"code", code,
			"error", err.Error())
		return nil, fetcher.NewNetworkError(code, err)
	}

	var quote json.RawMessage
	if err := json.Unmarshal(body, &quote); err != nil {
		return nil, fetcher.NewDecodeError(code, err)
	}

	return quote, nil
}
