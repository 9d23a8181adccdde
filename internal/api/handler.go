package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"stockproxy/internal/fetcher"
)

// MissingCodeMessage is returned when a request names no stock codes.
const MissingCodeMessage = `Query parameter "code" or "codes" is missing.`

const internalErrorPrefix = "Pages Function internal error: "

// corsHeaders are attached to every response the quote handler writes.
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, HEAD, POST, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type",
}

// Gatherer fans a list of stock codes out to the upstream and returns one
// result per code, in order.
type Gatherer interface {
	Gather(ctx context.Context, codes []string) ([]fetcher.Result, error)
}

// QuoteHandler serves the aggregate quote endpoint.
type QuoteHandler struct {
	gatherer Gatherer
	logger   *slog.Logger
}

// NewQuoteHandler creates the handler.
func NewQuoteHandler(gatherer Gatherer, logger *slog.Logger) *QuoteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteHandler{
		gatherer: gatherer,
		logger:   logger,
	}
}

type quotesResponse struct {
	Data []fetcher.Result `json:"data"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ServeHTTP answers preflight requests directly and otherwise looks up every
// requested code.
func (h *QuoteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	codes := ParseCodes(r.URL.Query())
	if len(codes) == 0 {
		writeError(w, http.StatusBadRequest, MissingCodeMessage)
		return
	}

	results, err := h.gatherer.Gather(r.Context(), codes)
	if err != nil {
		h.logger.Error("failed to gather stock quotes",
			"codes", codes,
			"error", err.Error())
		writeInternalError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, quotesResponse{Data: results})
}

// ParseCodes extracts stock codes from a query. "codes" takes precedence
// whenever it is present, even if it yields nothing; "code" is only
// consulted when "codes" is absent.
func ParseCodes(query map[string][]string) []string {
	if values, ok := query["codes"]; ok {
		raw := ""
		if len(values) > 0 {
			raw = values[0]
		}
		return splitCSV(raw)
	}

	if values, ok := query["code"]; ok && len(values) > 0 {
		if code := strings.TrimSpace(values[0]); code != "" {
			return []string{code}
		}
	}

	return nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func setCORSHeaders(w http.ResponseWriter) {
	for key, value := range corsHeaders {
		w.Header().Set(key, value)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Status: "error", Message: message})
}

func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, internalErrorPrefix+message)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{
			Status:  "error",
			Message: internalErrorPrefix + fmt.Sprintf("encode response: %v", err),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
