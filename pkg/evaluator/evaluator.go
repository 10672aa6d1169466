// Package evaluator orchestrates an evaluation: cache lookup,
// acquisition, merging, completion, scoring and cache write-back.
package evaluator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"trust-shield/models"
	"trust-shield/pkg/acquire"
	"trust-shield/pkg/cache"
	"trust-shield/pkg/merge"
	"trust-shield/pkg/scoring"
)

// ErrNoListingData means neither acquisition nor caller hints produced
// any usable field for the listing.
var ErrNoListingData = errors.New("no listing data available")

// Acquirer is the acquisition entry point; satisfied by acquire.Chain.
type Acquirer interface {
	Acquire(ctx context.Context, req acquire.Request) (*models.Listing, error)
}

// Evaluator runs the full scoring pipeline for one request.
type Evaluator struct {
	chain      Acquirer
	engine     *scoring.Engine
	store      cache.Store
	completion merge.CompletionStrategy
	ttl        time.Duration
	log        *slog.Logger
	now        func() time.Time
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithClock fixes the evaluator's clock.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) { e.now = now }
}

// WithCompletion replaces the default deterministic completion
// strategy.
func WithCompletion(s merge.CompletionStrategy) Option {
	return func(e *Evaluator) { e.completion = s }
}

// New builds an evaluator. A nil store disables caching.
func New(chain Acquirer, engine *scoring.Engine, store cache.Store, ttl time.Duration, log *slog.Logger, opts ...Option) *Evaluator {
	if log == nil {
		log = slog.Default()
	}
	e := &Evaluator{
		chain:      chain,
		engine:     engine,
		store:      store,
		completion: merge.Deterministic{},
		ttl:        ttl,
		log:        log,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate scores the listing named by the request, serving a cached
// result when one is still fresh. Cache failures are logged and never
// fail the evaluation.
func (e *Evaluator) Evaluate(ctx context.Context, req models.EvaluateRequest) (*models.ScoreResult, error) {
	key := cacheKey(req)

	if cached := e.lookup(key); cached != nil {
		e.log.Info("serving cached result",
			"listing_id", req.ListingID,
			"age", cached.Age(e.now()).String())
		result := cached.Result
		return &result, nil
	}

	acquired, err := e.chain.Acquire(ctx, acquire.Request{
		ListingID: req.ListingID,
		URL:       req.ListingURL,
	})
	if err != nil {
		return nil, err
	}

	listing := merge.Merge(acquired, req.Hints)
	if listing == nil {
		return nil, ErrNoListingData
	}
	if listing.ID == "" {
		listing.ID = req.ListingID
	}
	if listing.URL == "" {
		listing.URL = req.ListingURL
	}

	merge.Complete(listing, e.completion)
	merge.DetectLanguage(listing)

	result := e.engine.Score(*listing)
	e.log.Info("listing evaluated",
		"listing_id", listing.ID,
		"score", result.Score,
		"risk", result.RiskLevel)

	e.storeResult(key, result)
	return &result, nil
}

// lookup returns a fresh cache entry or nil. Store errors count as
// misses.
func (e *Evaluator) lookup(key string) *cache.Entry {
	if e.store == nil || key == "" {
		return nil
	}
	entry, err := e.store.Get(key)
	if err != nil {
		e.log.Warn("cache read failed", "key", key, "error", err)
		return nil
	}
	if entry == nil {
		return nil
	}
	if entry.Age(e.now()) > e.ttl {
		return nil
	}
	return entry
}

func (e *Evaluator) storeResult(key string, result models.ScoreResult) {
	if e.store == nil || key == "" {
		return
	}
	entry := cache.Entry{Result: result, ComputedAt: e.now()}
	if err := e.store.Put(key, entry); err != nil {
		e.log.Warn("cache write failed", "key", key, "error", err)
	}
}

// cacheKey prefers the listing URL, falling back to the id.
func cacheKey(req models.EvaluateRequest) string {
	if req.ListingURL != "" {
		return req.ListingURL
	}
	return req.ListingID
}
