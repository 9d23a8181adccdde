package quoteapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"stockproxy/internal/fetcher"
)

func newTestFetcher(baseURL string) *StockFetcher {
	client := fetcher.NewHTTPClient(fetcher.ClientOptions{BaseURL: baseURL})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStockFetcher(client, logger)
}

func TestNewStockFetcher(t *testing.T) {
	f := NewStockFetcher(fetcher.NewHTTPClient(fetcher.ClientOptions{BaseURL: "http://localhost"}), nil)

	if f == nil {
		t.Fatal("NewStockFetcher() returned nil")
	}
	if f.client == nil {
		t.Error("client is nil")
	}
	if f.logger == nil {
		t.Error("logger is nil")
	}
}

func TestStockFetcher_Fetch_Success(t *testing.T) {
	body := `{"code":"7203","name":"Toyota","price":2850.5}`

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %q, want GET", r.Method)
		}
		if r.URL.Path != "/stock/7203" {
			t.Errorf("path = %q, want /stock/7203", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	quote, err := newTestFetcher(server.URL).Fetch(context.Background(), "7203")
	if err != nil {
		t.Fatalf("Fetch() returned unexpected error: %v", err)
	}

	if string(quote) != body {
		t.Errorf("Fetch() = %s, want %s", quote, body)
	}
}

func TestStockFetcher_Fetch_SendsUserAgent(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		want      string
	}{
		{"default", "", fetcher.DefaultUserAgent},
		{"custom", "quote-proxy-test/0.1", "quote-proxy-test/0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("User-Agent")
				w.Write([]byte(`{}`))
			}))
			defer server.Close()

			client := fetcher.NewHTTPClient(fetcher.ClientOptions{
				BaseURL:   server.URL,
				UserAgent: tt.userAgent,
			})
			if _, err := NewStockFetcher(client, nil).Fetch(context.Background(), "AAPL"); err != nil {
				t.Fatalf("Fetch() returned unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("User-Agent = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStockFetcher_Fetch_EscapesCode(t *testing.T) {
	var rawPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawPath = r.URL.EscapedPath()
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	if _, err := newTestFetcher(server.URL).Fetch(context.Background(), "BRK/B"); err != nil {
		t.Fatalf("Fetch() returned unexpected error: %v", err)
	}

	if rawPath != "/stock/BRK%2FB" {
		t.Errorf("path = %q, want /stock/BRK%%2FB", rawPath)
	}
}

func TestStockFetcher_Fetch_HTTPError(t *testing.T) {
	statuses := []int{
		http.StatusNotFound,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
	}

	for _, status := range statuses {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				w.Write([]byte(`{"error":"nope"}`))
			}))
			defer server.Close()

			_, err := newTestFetcher(server.URL).Fetch(context.Background(), "AAPL")
			if err == nil {
				t.Fatal("Fetch() expected error, got nil")
			}

			var fe *fetcher.FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("error type = %T, want *fetcher.FetchError", err)
			}
			if fe.Type != fetcher.ErrorTypeStatus {
				t.Errorf("Type = %q, want %q", fe.Type, fetcher.ErrorTypeStatus)
			}
			if fe.StatusCode != status {
				t.Errorf("StatusCode = %d, want %d", fe.StatusCode, status)
			}
			if !fe.Recoverable() {
				t.Error("status error should be recoverable")
			}
		})
	}
}

func TestStockFetcher_Fetch_NoRetry(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestFetcher(server.URL).Fetch(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("Fetch() expected error, got nil")
	}
	if calls != 1 {
		t.Errorf("upstream called %d times, want 1", calls)
	}
}

func TestStockFetcher_Fetch_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	_, err := newTestFetcher(baseURL).Fetch(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("Fetch() expected error, got nil")
	}

	var fe *fetcher.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error type = %T, want *fetcher.FetchError", err)
	}
	if fe.Type != fetcher.ErrorTypeNetwork {
		t.Errorf("Type = %q, want %q", fe.Type, fetcher.ErrorTypeNetwork)
	}
	if fe.Cause == nil {
		t.Error("Cause is nil")
	}
	if fe.Diagnostic() != "Fetch failed: "+fe.Cause.Error() {
		t.Errorf("Diagnostic() = %q, want cause message", fe.Diagnostic())
	}
}

func TestStockFetcher_Fetch_InvalidJSON(t *testing.T) {
	bodies := map[string]string{
		"garbage": `not json`,
		"empty":   ``,
		"partial": `{"code":"AAPL"`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(body))
			}))
			defer server.Close()

			_, err := newTestFetcher(server.URL).Fetch(context.Background(), "AAPL")
			if err == nil {
				t.Fatal("Fetch() expected error for invalid JSON, got nil")
			}

			var fe *fetcher.FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("error type = %T, want *fetcher.FetchError", err)
			}
			if fe.Type != fetcher.ErrorTypeDecode {
				t.Errorf("Type = %q, want %q", fe.Type, fetcher.ErrorTypeDecode)
			}
			if fe.Recoverable() {
				t.Error("decode error should not be recoverable")
			}
		})
	}
}

func TestStockFetcher_Fetch_ContextCancellation(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Server will be slow to respond
		<-r.Context().Done()
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestFetcher(server.URL).Fetch(ctx, "AAPL")
	if err == nil {
		t.Error("Fetch() expected error for cancelled context, got nil")
	}
}
