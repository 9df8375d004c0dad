package tread

import (
	"testing"

	"github.com/docmentor/tread/internal/config"
	"github.com/docmentor/tread/internal/dictionary"
)

func scoreText(t *testing.T, p *Processor, s *Scorer, text string) []ScoredToken {
	t.Helper()
	tokens, err := Tokenize(text)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	result, err := p.Process(text)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	return s.Score(text, tokens, result)
}

func TestScoreBoostsMedicalTokens(t *testing.T) {
	p := vitalsProcessor()
	s := NewScorer(1.5)

	scored := scoreText(t, p, s, "Patient BP 140/90, HR 95, RR 18")
	if len(scored) != 7 {
		t.Fatalf("got %d scored tokens, want 7", len(scored))
	}

	// "Patient" is the only non-medical token: lowest score after
	// normalization.
	if scored[0].Importance != 0 {
		t.Errorf("filler importance = %v, want 0", scored[0].Importance)
	}
	for i, st := range scored[1:] {
		if st.Importance != 1 {
			t.Errorf("medical token %d importance = %v, want 1", i+1, st.Importance)
		}
	}
}

func TestScoreUniformDocument(t *testing.T) {
	dict := dictionary.New(nil)
	p := NewProcessor(dict, config.Default().Engine)
	s := NewScorer(1.5)

	scored := scoreText(t, p, s, "alpha beta gamma delta")
	for i, st := range scored {
		if st.Importance != 0.5 {
			t.Errorf("token %d importance = %v, want uniform 0.5", i, st.Importance)
		}
	}
}

func TestScoreRepetitionLowersImportance(t *testing.T) {
	dict := dictionary.New(nil)
	p := NewProcessor(dict, config.Default().Engine)
	s := NewScorer(1.5)

	scored := scoreText(t, p, s, "noted noted noted unique")
	if scored[3].Importance != 1 {
		t.Errorf("unique token importance = %v, want 1", scored[3].Importance)
	}
	for i := 0; i < 3; i++ {
		if scored[i].Importance != 0 {
			t.Errorf("repeated token %d importance = %v, want 0", i, scored[i].Importance)
		}
	}
}

func TestScoreDeterministic(t *testing.T) {
	p := vitalsProcessor()
	s := NewScorer(1.5)
	text := "Patient BP 140/90, HR 95, RR 18"

	a := scoreText(t, p, s, text)
	b := scoreText(t, p, s, text)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("token %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestScoreEmptyTokens(t *testing.T) {
	s := NewScorer(1.5)
	if got := s.Score("", nil, ProcessingResult{}); len(got) != 0 {
		t.Errorf("expected no scored tokens, got %+v", got)
	}
}
