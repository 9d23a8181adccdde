package fetcher

import (
	"time"

	"resty.dev/v3"
)

// DefaultUserAgent identifies this service to the upstream as a proxy.
const DefaultUserAgent = "Cloudflare-Worker-Proxy/1.0"

// ClientOptions configures the shared upstream HTTP client.
type ClientOptions struct {
	BaseURL   string
	UserAgent string
	// Timeout bounds a single upstream call. Zero leaves it to the transport.
	Timeout time.Duration
}

// NewHTTPClient creates the upstream HTTP client. Requests are never retried:
// a failed call is reported once and turned into a failure entry by the caller.
func NewHTTPClient(opts ClientOptions) *resty.Client {
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetRetryCount(0)

	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	return client
}
