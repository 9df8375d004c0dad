package tread

import (
	"strings"
	"unicode/utf8"

	"github.com/docmentor/tread/internal/config"
	"github.com/docmentor/tread/internal/dictionary"
)

// Processor extracts recognized terms and structured measurements from
// raw text and computes a per-document confidence. Purely functional
// over the dictionary and input; safe for concurrent use.
type Processor struct {
	dict              *dictionary.Dictionary
	measurements      *dictionary.MeasurementMatcher
	measurementWeight float64
	confidenceNorm    float64
}

// NewProcessor builds a Processor over a dictionary and the engine
// settings.
func NewProcessor(dict *dictionary.Dictionary, cfg config.EngineConfig) *Processor {
	return &Processor{
		dict:              dict,
		measurements:      dictionary.NewMeasurementMatcher(cfg.Units),
		measurementWeight: cfg.MeasurementWeight,
		confidenceNorm:    cfg.ConfidenceNorm,
	}
}

// Process scans text for dictionary terms and measurements. Empty input
// yields an empty result with confidence 0, not an error. Invalid UTF-8
// is the only failure.
func (p *Processor) Process(text string) (ProcessingResult, error) {
	if text == "" {
		return ProcessingResult{}, nil
	}
	if !utf8.ValidString(text) {
		return ProcessingResult{}, ErrMalformedInput
	}

	terms := p.dict.Match(text)
	measurements := p.measurements.Extract(text)

	return ProcessingResult{
		Terms:        terms,
		Measurements: measurements,
		Confidence:   p.confidence(text, terms, measurements),
	}, nil
}

// confidence = min(1, (Σ term weights + measurements × measurement
// weight) / (norm × (unmatched words + 1))). Normalizing by unmatched
// words keeps the value comparable across document sizes and monotone:
// appending a recognized term or measurement raises the numerator
// without growing the denominator.
func (p *Processor) confidence(text string, terms []dictionary.TermMatch, measurements []dictionary.Measurement) float64 {
	sum := 0.0
	matchedWords := 0
	for _, t := range terms {
		sum += t.Term.Weight
		matchedWords += strings.Count(dictionary.Fold(t.Term.Surface), " ") + 1
	}
	sum += float64(len(measurements)) * p.measurementWeight
	matchedWords += len(measurements)

	unmatched := len(strings.Fields(text)) - matchedWords
	if unmatched < 0 {
		unmatched = 0
	}

	conf := sum / (p.confidenceNorm * float64(unmatched+1))
	if conf > 1 {
		conf = 1
	}
	return conf
}
