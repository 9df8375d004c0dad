// Package tread implements token-importance routing for medical text:
// documents are scored span by span, high-importance spans are marked
// for full model computation and the rest for the cheap path, and
// routing decisions are cached by content fingerprint.
package tread

import (
	"errors"

	"github.com/docmentor/tread/internal/dictionary"
)

// Path classifies a span for downstream processing.
type Path string

const (
	// PathHigh spans get full-fidelity model computation.
	PathHigh Path = "high"
	// PathLow spans are eligible for a cheaper downstream transform.
	// They are never dropped; the full text stays reconstructible.
	PathLow Path = "low"
)

// ErrMalformedInput marks text that cannot be tokenized. Callers route
// such documents fail-open: one high-path span, nothing skipped.
var ErrMalformedInput = errors.New("malformed input text")

// Token is a contiguous byte range of the original text.
type Token struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ScoredToken is a token with its normalized importance in [0, 1].
type ScoredToken struct {
	Token
	Importance float64 `json:"importance"`
}

// Span is a contiguous, non-overlapping range of the document assigned a
// single routing path. The spans of a RoutingResult cover the entire
// text with no gaps.
type Span struct {
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Importance float64 `json:"importance"`
	Path       Path    `json:"path"`
	Tokens     int     `json:"tokens"`
}

// RoutingResult is the routed form of one document.
type RoutingResult struct {
	Spans       []Span `json:"spans"`
	TokenCount  int    `json:"token_count"`
	Fingerprint string `json:"fingerprint"`
	FailOpen    bool   `json:"fail_open,omitempty"`
}

// HighTokens returns the number of tokens routed to the high path.
func (r *RoutingResult) HighTokens() int {
	n := 0
	for _, s := range r.Spans {
		if s.Path == PathHigh {
			n += s.Tokens
		}
	}
	return n
}

// ProcessingResult holds what the term processor found in one document.
// Read-only after creation.
type ProcessingResult struct {
	Terms        []dictionary.TermMatch
	Measurements []dictionary.Measurement
	Confidence   float64
}
