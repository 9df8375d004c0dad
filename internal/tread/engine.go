package tread

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/docmentor/tread/internal/cache"
	"github.com/docmentor/tread/internal/config"
	"github.com/docmentor/tread/internal/dictionary"
)

// Engine wires the processor, scorer, router, and routing cache into the
// document pipeline. Safe for concurrent use; the dictionary can be
// swapped at runtime.
type Engine struct {
	cfg     config.Config
	version string

	dict      atomic.Pointer[dictionary.Dictionary]
	processor atomic.Pointer[Processor]

	scorer *Scorer
	router *Router
	cache  *cache.Cache[*RoutingResult]
	mon    *Monitor
}

// NewEngine creates an Engine for a validated config and an initial
// dictionary.
func NewEngine(cfg config.Config, dict *dictionary.Dictionary) *Engine {
	e := &Engine{
		cfg:     cfg,
		version: cfg.Version(),
		scorer:  NewScorer(cfg.Engine.MedicalWeight),
		router:  NewRouter(cfg.Engine.RoutingThreshold, cfg.Engine.MinHighPathFraction),
		mon:     NewMonitor(),
	}
	e.cache = cache.New[*RoutingResult](cfg.Engine.CacheSize, e.mon)
	e.dict.Store(dict)
	e.processor.Store(NewProcessor(dict, cfg.Engine))
	return e
}

// Dictionary returns the active term dictionary.
func (e *Engine) Dictionary() *dictionary.Dictionary {
	return e.dict.Load()
}

// SetDictionary swaps the term dictionary. The routing fingerprint does
// not cover the term set, so cached decisions made under the old
// dictionary are dropped.
func (e *Engine) SetDictionary(dict *dictionary.Dictionary) {
	e.dict.Store(dict)
	e.processor.Store(NewProcessor(dict, e.cfg.Engine))
	e.cache.Clear()
}

// ConfigVersion returns the routing-relevant config identifier baked
// into every fingerprint.
func (e *Engine) ConfigVersion() string { return e.version }

// Config returns the engine's immutable configuration.
func (e *Engine) Config() config.Config { return e.cfg }

// Analyze runs term and measurement extraction only, without routing.
func (e *Engine) Analyze(text string) (ProcessingResult, error) {
	return e.processor.Load().Process(text)
}

// Process routes one document, consulting the cache. A document that
// cannot be processed is routed fail-open — the whole text on the high
// path — rather than dropped; the result is not cached so a later call
// retries. The returned error is non-nil only when ctx ends first.
func (e *Engine) Process(ctx context.Context, text string) (*RoutingResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	fp := Fingerprint(text, e.version)

	result, err := e.cache.GetOrCompute(ctx, fp, func() (*RoutingResult, error) {
		return e.compute(text, fp)
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		result = FailOpenResult(text, fp)
	}

	e.mon.ObserveDocument(result, time.Since(start))
	return result, nil
}

func (e *Engine) compute(text, fingerprint string) (*RoutingResult, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	processed, err := e.processor.Load().Process(text)
	if err != nil {
		return nil, err
	}
	scored := e.scorer.Score(text, tokens, processed)
	result := e.router.Route(text, scored)
	result.Fingerprint = fingerprint
	return &result, nil
}

// ProcessBatch routes documents concurrently, at most BatchSize at a
// time. Documents are independent: one failing document routes
// fail-open and the rest continue. Results keep input order. Only a
// dead ctx aborts the batch.
func (e *Engine) ProcessBatch(ctx context.Context, texts []string) ([]*RoutingResult, error) {
	results := make([]*RoutingResult, len(texts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Engine.BatchSize)
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			r, err := e.Process(ctx, text)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Stats returns the current monitoring snapshot.
func (e *Engine) Stats() Stats { return e.mon.Snapshot() }

// ResetStats zeroes the monitoring counters.
func (e *Engine) ResetStats() { e.mon.Reset() }

// ClearCache drops every cached routing decision.
func (e *Engine) ClearCache() { e.cache.Clear() }

// CacheLen returns the number of cached routing decisions.
func (e *Engine) CacheLen() int { return e.cache.Len() }
