package fetcher

import "encoding/json"

// FailureName is the placeholder name reported for codes that could not be fetched.
const FailureName = "N/A"

// Failure is the synthesized entry returned in place of an upstream quote
// when the fetch for a code failed in a recoverable way.
type Failure struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

// NewFailure builds the Failure entry for a recoverable fetch error.
func NewFailure(code string, err *FetchError) Failure {
	return Failure{
		Code:  code,
		Name:  FailureName,
		Error: err.Diagnostic(),
	}
}

// Result represents the outcome of fetching one code.
// Exactly one of Quote and Failure is meaningful, selected by Failed.
type Result struct {
	// Code is the stock code this result belongs to
	Code string

	// Quote is the upstream JSON object, passed through verbatim
	Quote json.RawMessage

	// Failure is set when the upstream call failed and was recovered
	Failure *Failure
}

// Failed reports whether r carries a Failure instead of a quote.
func (r Result) Failed() bool {
	return r.Failure != nil
}

// MarshalJSON encodes either the raw quote or the failure object, so both
// shapes look identical to callers of the aggregate endpoint.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Failure != nil {
		return json.Marshal(r.Failure)
	}
	if len(r.Quote) == 0 {
		return []byte("null"), nil
	}
	return r.Quote, nil
}
