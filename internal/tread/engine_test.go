package tread

import (
	"context"
	"reflect"
	"testing"

	"github.com/docmentor/tread/internal/config"
	"github.com/docmentor/tread/internal/dictionary"
)

func testEngine(t *testing.T, mut func(*config.Config)) *Engine {
	t.Helper()
	cfg := config.Default()
	if mut != nil {
		mut(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	dict := dictionary.New([]dictionary.Term{
		{Surface: "BP", Weight: 1.5},
		{Surface: "HR", Weight: 1.5},
		{Surface: "RR", Weight: 1.5},
	})
	return NewEngine(cfg, dict)
}

func TestProcessVitalsScenario(t *testing.T) {
	e := testEngine(t, nil)
	ctx := context.Background()
	text := "Patient BP 140/90, HR 95, RR 18"

	result, err := e.Process(ctx, text)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if result.TokenCount != 7 {
		t.Errorf("token count = %d, want 7", result.TokenCount)
	}

	// Coverage invariant.
	if result.Spans[0].Start != 0 {
		t.Errorf("first span starts at %d", result.Spans[0].Start)
	}
	for i := 1; i < len(result.Spans); i++ {
		if result.Spans[i].Start != result.Spans[i-1].End {
			t.Errorf("coverage broken between spans %d and %d", i-1, i)
		}
	}
	if last := result.Spans[len(result.Spans)-1]; last.End != len(text) {
		t.Errorf("last span ends at %d, want %d", last.End, len(text))
	}

	// The measurement regions route high; the leading filler routes low.
	if result.Spans[0].Path != PathLow {
		t.Errorf("leading filler span path = %s, want low", result.Spans[0].Path)
	}
	highCoversVitals := false
	for _, s := range result.Spans {
		if s.Path == PathHigh && s.Start <= 11 && s.End >= 17 {
			highCoversVitals = true
		}
	}
	if !highCoversVitals {
		t.Errorf("no high span covers the 140/90 region: %+v", result.Spans)
	}
}

func TestProcessDeterministic(t *testing.T) {
	text := "Patient BP 140/90, HR 95, RR 18"
	ctx := context.Background()

	// Fresh engines so the second run cannot lean on the first's cache.
	a, err := testEngine(t, nil).Process(ctx, text)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	b, err := testEngine(t, nil).Process(ctx, text)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical input and config produced different results:\n%+v\n%+v", a, b)
	}
}

func TestProcessCacheHit(t *testing.T) {
	e := testEngine(t, nil)
	ctx := context.Background()
	text := "Patient BP 140/90, HR 95, RR 18"

	first, err := e.Process(ctx, text)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	second, err := e.Process(ctx, text)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("cache returned a different result")
	}

	stats := e.Stats()
	if stats.CacheHits != 1 {
		t.Errorf("cache hits = %d, want 1", stats.CacheHits)
	}
	if stats.CacheMisses != 1 {
		t.Errorf("cache misses = %d, want 1", stats.CacheMisses)
	}
}

func TestConfigVersionForcesRecomputation(t *testing.T) {
	text := "Patient BP 140/90, HR 95, RR 18"

	a := testEngine(t, nil)
	b := testEngine(t, func(c *config.Config) { c.Engine.RoutingThreshold = 0.7 })

	fpA := Fingerprint(text, a.ConfigVersion())
	fpB := Fingerprint(text, b.ConfigVersion())
	if fpA == fpB {
		t.Errorf("threshold change did not change the fingerprint")
	}
}

func TestCacheEvictionScenario(t *testing.T) {
	e := testEngine(t, func(c *config.Config) { c.Engine.CacheSize = 1 })
	ctx := context.Background()

	docA := "Patient BP 140/90"
	docB := "Patient HR 95 resting"

	e.Process(ctx, docA)
	e.Process(ctx, docB) // evicts A
	e.Process(ctx, docA) // miss again

	stats := e.Stats()
	if stats.CacheMisses != 3 {
		t.Errorf("cache misses = %d, want 3 (A evicted by B)", stats.CacheMisses)
	}
	if stats.CacheHits != 0 {
		t.Errorf("cache hits = %d, want 0", stats.CacheHits)
	}
	if stats.CacheEvictions < 1 {
		t.Errorf("cache evictions = %d, want >= 1", stats.CacheEvictions)
	}
}

func TestProcessMalformedFailsOpen(t *testing.T) {
	e := testEngine(t, nil)
	ctx := context.Background()
	text := "clinical note \xff\xfe with bad bytes"

	result, err := e.Process(ctx, text)
	if err != nil {
		t.Fatalf("fail-open must not surface an error: %v", err)
	}
	if !result.FailOpen {
		t.Errorf("FailOpen not set")
	}
	if len(result.Spans) != 1 || result.Spans[0].Path != PathHigh {
		t.Errorf("spans = %+v, want one full-width high span", result.Spans)
	}
	if result.Spans[0].End != len(text) {
		t.Errorf("span end = %d, want %d", result.Spans[0].End, len(text))
	}

	if got := e.Stats().FailOpens; got != 1 {
		t.Errorf("fail-open counter = %d, want 1", got)
	}
}

func TestFailOpenNotCached(t *testing.T) {
	e := testEngine(t, nil)
	ctx := context.Background()
	text := "bad \xff input"

	e.Process(ctx, text)
	e.Process(ctx, text)

	// Both calls recompute: the fail-open result never enters the cache.
	stats := e.Stats()
	if stats.CacheMisses != 2 {
		t.Errorf("cache misses = %d, want 2", stats.CacheMisses)
	}
	if e.CacheLen() != 0 {
		t.Errorf("cache len = %d, want 0", e.CacheLen())
	}
}

func TestMinHighPathFloor(t *testing.T) {
	e := testEngine(t, func(c *config.Config) {
		c.Engine.RoutingThreshold = 1.0
		c.Engine.MinHighPathFraction = 0.3
	})
	ctx := context.Background()

	// Plain prose, nothing medical: threshold 1.0 would route 0% high
	// without the floor.
	result, err := e.Process(ctx, "one two three four five six seven eight nine ten")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if high := result.HighTokens(); float64(high) < 0.3*float64(result.TokenCount) {
		t.Errorf("high tokens = %d of %d, want >= 30%%", high, result.TokenCount)
	}
}

func TestProcessBatch(t *testing.T) {
	e := testEngine(t, func(c *config.Config) { c.Engine.BatchSize = 3 })
	ctx := context.Background()

	texts := []string{
		"Patient BP 140/90, HR 95, RR 18",
		"",
		"bad \xff bytes here",
		"Follow-up visit scheduled next week",
	}

	results, err := e.ProcessBatch(ctx, texts)
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if len(results) != len(texts) {
		t.Fatalf("got %d results, want %d", len(results), len(texts))
	}

	if results[0].TokenCount != 7 {
		t.Errorf("doc 0 token count = %d, want 7", results[0].TokenCount)
	}
	if results[1].TokenCount != 0 || len(results[1].Spans) != 0 {
		t.Errorf("empty doc result = %+v", results[1])
	}
	if !results[2].FailOpen {
		t.Errorf("malformed doc did not fail open; batch must continue")
	}
	if results[3] == nil || results[3].FailOpen {
		t.Errorf("healthy doc after a failure was affected: %+v", results[3])
	}
}

func TestProcessBatchCanceled(t *testing.T) {
	e := testEngine(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.ProcessBatch(ctx, []string{"Patient BP 140/90"})
	if err == nil {
		t.Fatalf("expected context error")
	}
}

func TestSetDictionaryDropsCache(t *testing.T) {
	e := testEngine(t, nil)
	ctx := context.Background()
	text := "Patient BP 140/90"

	e.Process(ctx, text)
	if e.CacheLen() != 1 {
		t.Fatalf("cache len = %d, want 1", e.CacheLen())
	}

	e.SetDictionary(dictionary.New(dictionary.Builtin()))
	if e.CacheLen() != 0 {
		t.Errorf("cache survived a dictionary swap")
	}
}

func TestStatsReset(t *testing.T) {
	e := testEngine(t, nil)
	e.Process(context.Background(), "Patient BP 140/90")

	if e.Stats().Documents != 1 {
		t.Fatalf("documents = %d, want 1", e.Stats().Documents)
	}
	e.ResetStats()
	s := e.Stats()
	if s.Documents != 0 || s.TokensProcessed != 0 || s.CacheMisses != 0 {
		t.Errorf("stats not zeroed: %+v", s)
	}
}
