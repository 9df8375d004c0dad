package tread

import (
	"sort"
	"strings"
)

// Scorer assigns each token a normalized importance: inverse in-document
// frequency, boosted by the medical weight when the token overlaps a
// recognized term or measurement. Deterministic for identical inputs.
type Scorer struct {
	medicalWeight float64
}

// NewScorer builds a Scorer with the given medical weight multiplier.
func NewScorer(medicalWeight float64) *Scorer {
	return &Scorer{medicalWeight: medicalWeight}
}

// Score computes per-token importance in [0, 1], min-max normalized
// across the document. A zero-range document (every token scores the
// same) gets uniform importance 0.5.
func (s *Scorer) Score(text string, tokens []Token, result ProcessingResult) []ScoredToken {
	if len(tokens) == 0 {
		return nil
	}

	// In-document frequency of the folded token text.
	freq := make(map[string]int, len(tokens))
	folded := make([]string, len(tokens))
	for i, t := range tokens {
		folded[i] = strings.ToLower(text[t.Start:t.End])
		freq[folded[i]]++
	}

	medical := medicalIntervals(result)

	raw := make([]float64, len(tokens))
	for i, t := range tokens {
		base := 1.0 / float64(freq[folded[i]])
		if overlapsAny(t, medical) {
			base *= s.medicalWeight
		}
		raw[i] = base
	}

	min, max := raw[0], raw[0]
	for _, v := range raw[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	scored := make([]ScoredToken, len(tokens))
	for i, t := range tokens {
		imp := 0.5
		if max > min {
			imp = (raw[i] - min) / (max - min)
		}
		scored[i] = ScoredToken{Token: t, Importance: imp}
	}
	return scored
}

// medicalIntervals merges term and measurement offset ranges into one
// sorted, non-overlapping interval list.
func medicalIntervals(result ProcessingResult) []Token {
	intervals := make([]Token, 0, len(result.Terms)+len(result.Measurements))
	for _, t := range result.Terms {
		intervals = append(intervals, Token{Start: t.Start, End: t.End})
	}
	for _, m := range result.Measurements {
		intervals = append(intervals, Token{Start: m.Start, End: m.End})
	}
	sort.Slice(intervals, func(i, j int) bool { return intervals[i].Start < intervals[j].Start })

	merged := intervals[:0]
	for _, iv := range intervals {
		if n := len(merged); n > 0 && iv.Start <= merged[n-1].End {
			if iv.End > merged[n-1].End {
				merged[n-1].End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

func overlapsAny(t Token, intervals []Token) bool {
	// intervals are sorted by start; binary search for the first one
	// ending after the token starts.
	i := sort.Search(len(intervals), func(i int) bool { return intervals[i].End > t.Start })
	return i < len(intervals) && intervals[i].Start < t.End
}
