package tread

import "sort"

// Router partitions a scored token sequence into high- and low-path
// spans. Output spans are ordered by offset, non-overlapping, and cover
// the entire text; every input token is accounted for.
type Router struct {
	threshold       float64
	minHighFraction float64
}

// NewRouter builds a Router with the given threshold and high-path
// floor.
func NewRouter(threshold, minHighFraction float64) *Router {
	return &Router{threshold: threshold, minHighFraction: minHighFraction}
}

// Route merges maximal runs of tokens at or above the threshold into
// high spans and everything else into low spans, then enforces the
// minimum high-path fraction by promoting the best low spans. The
// caller fills in the fingerprint.
func (r *Router) Route(text string, scored []ScoredToken) RoutingResult {
	if len(scored) == 0 {
		var spans []Span
		if len(text) > 0 {
			// Whitespace-only document: nothing to score, nothing worth
			// the high path, but coverage still holds.
			spans = []Span{{Start: 0, End: len(text), Path: PathLow}}
		}
		return RoutingResult{Spans: spans}
	}

	spans := r.thresholdPass(scored)
	spans = r.enforceFloor(spans, len(scored))
	spans = mergeAdjacent(spans)

	// Widen span boundaries over inter-token gaps so the union of spans
	// is exactly [0, len(text)).
	spans[0].Start = 0
	for i := 1; i < len(spans); i++ {
		spans[i].Start = spans[i-1].End
	}
	spans[len(spans)-1].End = len(text)

	return RoutingResult{Spans: spans, TokenCount: len(scored)}
}

func (r *Router) thresholdPass(scored []ScoredToken) []Span {
	var spans []Span
	runStart := 0
	runHigh := scored[0].Importance >= r.threshold

	flush := func(from, to int) {
		sum := 0.0
		for _, st := range scored[from:to] {
			sum += st.Importance
		}
		path := PathLow
		if runHigh {
			path = PathHigh
		}
		spans = append(spans, Span{
			Start:      scored[from].Start,
			End:        scored[to-1].End,
			Importance: sum / float64(to-from),
			Path:       path,
			Tokens:     to - from,
		})
	}

	for i := 1; i < len(scored); i++ {
		high := scored[i].Importance >= r.threshold
		if high != runHigh {
			flush(runStart, i)
			runStart = i
			runHigh = high
		}
	}
	flush(runStart, len(scored))
	return spans
}

// enforceFloor promotes low spans, best first, until the high path holds
// at least ceil(minHighFraction × total) tokens. The floor keeps a
// uniformly low-scoring document from starving the model of context.
func (r *Router) enforceFloor(spans []Span, total int) []Span {
	need := int(r.minHighFraction * float64(total))
	if float64(need) < r.minHighFraction*float64(total) {
		need++
	}

	high := 0
	for _, s := range spans {
		if s.Path == PathHigh {
			high += s.Tokens
		}
	}
	if high >= need {
		return spans
	}

	order := make([]int, 0, len(spans))
	for i, s := range spans {
		if s.Path == PathLow {
			order = append(order, i)
		}
	}
	// Descending importance, ties by ascending offset.
	sort.SliceStable(order, func(a, b int) bool {
		if spans[order[a]].Importance != spans[order[b]].Importance {
			return spans[order[a]].Importance > spans[order[b]].Importance
		}
		return spans[order[a]].Start < spans[order[b]].Start
	})

	for _, i := range order {
		if high >= need {
			break
		}
		spans[i].Path = PathHigh
		high += spans[i].Tokens
	}
	return spans
}

// mergeAdjacent joins neighboring spans that share a path, recomputing
// the token-weighted importance.
func mergeAdjacent(spans []Span) []Span {
	out := spans[:0]
	for _, s := range spans {
		if n := len(out); n > 0 && out[n-1].Path == s.Path {
			prev := &out[n-1]
			totalTokens := prev.Tokens + s.Tokens
			if totalTokens > 0 {
				prev.Importance = (prev.Importance*float64(prev.Tokens) + s.Importance*float64(s.Tokens)) / float64(totalTokens)
			}
			prev.End = s.End
			prev.Tokens = totalTokens
			continue
		}
		out = append(out, s)
	}
	return out
}

// FailOpenResult routes an entire document through the high path: one
// span, every token, nothing skipped. Used when processing a document
// fails, because under-processing clinical text is the worse failure.
func FailOpenResult(text, fingerprint string) *RoutingResult {
	tokenCount := 0
	inTok := false
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			inTok = false
			continue
		}
		if !inTok {
			tokenCount++
			inTok = true
		}
	}

	var spans []Span
	if len(text) > 0 {
		spans = []Span{{Start: 0, End: len(text), Importance: 1, Path: PathHigh, Tokens: tokenCount}}
	}
	return &RoutingResult{
		Spans:       spans,
		TokenCount:  tokenCount,
		Fingerprint: fingerprint,
		FailOpen:    true,
	}
}
