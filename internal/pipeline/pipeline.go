// Package pipeline wires the acquisition chain, scoring engine and
// cache into a ready-to-use evaluator. Both CLI commands share this
// assembly.
package pipeline

import (
	"fmt"
	"log/slog"
	"net/http"

	"trust-shield/models"
	"trust-shield/pkg/acquire"
	"trust-shield/pkg/cache"
	"trust-shield/pkg/evaluator"
	"trust-shield/pkg/scoring"
)

// Pipeline bundles the evaluator with the resources it owns.
type Pipeline struct {
	Evaluator *evaluator.Evaluator
	Config    *models.Config
	Log       *slog.Logger

	store cache.Store
}

// New assembles a pipeline from config. Call Close when done.
func New(cfg *models.Config, log *slog.Logger) (*Pipeline, error) {
	if log == nil {
		log = slog.Default()
	}

	policy, err := resolvePolicy(cfg)
	if err != nil {
		return nil, err
	}

	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}
	ttl, err := cfg.TTL()
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: timeout}
	chain := acquire.NewChain(log,
		acquire.NewEndpointStrategy(cfg.EndpointBaseURL, client),
		acquire.NewPageStrategy(client),
	)

	var store cache.Store
	if cfg.CachePath == "" {
		store = cache.NewMemoryStore()
	} else {
		sqliteStore, err := cache.OpenSQLite(cfg.CachePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
		store = sqliteStore
	}

	engine := scoring.NewEngine(policy)
	ev := evaluator.New(chain, engine, store, ttl, log)

	log.Info("pipeline assembled",
		"policy", policy.Name,
		"cache", cfg.CachePath,
		"ttl", ttl.String())

	return &Pipeline{
		Evaluator: ev,
		Config:    cfg,
		Log:       log,
		store:     store,
	}, nil
}

// Close releases the cache store.
func (p *Pipeline) Close() error {
	if p.store == nil {
		return nil
	}
	return p.store.Close()
}

// resolvePolicy picks the scoring policy: an explicit policy file wins
// over the named built-in.
func resolvePolicy(cfg *models.Config) (scoring.Policy, error) {
	if cfg.PolicyFile != "" {
		return scoring.LoadPolicy(cfg.PolicyFile)
	}
	return scoring.PolicyByName(cfg.Policy)
}
