package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc/iter"

	"stockproxy/internal/fetcher"
	"stockproxy/internal/metrics"
)

// ErrNoCodes is returned when Gather is called without any stock codes.
var ErrNoCodes = errors.New("no stock codes to fetch")

// Coordinator fans stock codes out to a QuoteFetcher and gathers the results
type Coordinator struct {
	fetcher fetcher.QuoteFetcher
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a new Coordinator. m may be nil.
func New(f fetcher.QuoteFetcher, m *metrics.Metrics, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		fetcher: f,
		metrics: m,
		logger:  logger,
	}
}

type outcome struct {
	result fetcher.Result
	err    error
}

// Gather fetches every code concurrently, one goroutine per code, and waits
// for all of them. The returned slice is positional: result i belongs to
// codes[i]. Status and network failures become Failure entries; any other
// error fails the whole gather and no results are returned.
func (c *Coordinator) Gather(ctx context.Context, codes []string) ([]fetcher.Result, error) {
	if len(codes) == 0 {
		return nil, ErrNoCodes
	}
	c.metrics.ObserveFanOut(len(codes))

	// iter.Map defaults to GOMAXPROCS workers; every code gets its own.
	mapper := iter.Mapper[string, outcome]{MaxGoroutines: len(codes)}
	outcomes := mapper.Map(codes, func(code *string) outcome {
		return c.fetchOne(ctx, *code)
	})

	results := make([]fetcher.Result, len(outcomes))
	for i, o := range outcomes {
		if o.err != nil {
			return nil, o.err
		}
		results[i] = o.result
	}

	c.logger.Debug("gathered stock quotes", "count", len(results))
	return results, nil
}

func (c *Coordinator) fetchOne(ctx context.Context, code string) outcome {
	quote, err := c.fetcher.Fetch(ctx, code)
	if err == nil {
		c.metrics.ObserveFetch(metrics.OutcomeSuccess)
		return outcome{result: fetcher.Result{Code: code, Quote: quote}}
	}

	var fe *fetcher.FetchError
	if !errors.As(err, &fe) {
		return outcome{err: fmt.Errorf("fetch %s: %w", code, err)}
	}

	c.metrics.ObserveFetch(string(fe.Type))
	if !fe.Recoverable() {
		return outcome{err: err}
	}

	failure := fetcher.NewFailure(code, fe)
	return outcome{result: fetcher.Result{Code: code, Failure: &failure}}
}
