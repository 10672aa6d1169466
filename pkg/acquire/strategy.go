// Package acquire retrieves listing data from the portal. Strategies
// are tried in order; the first one that yields data wins, and an
// exhausted chain reports "no data" rather than an error so the caller
// can still fall back to hints.
package acquire

import (
	"context"
	"log/slog"

	"trust-shield/models"
)

// Request identifies the listing to acquire.
type Request struct {
	ListingID string
	URL       string
}

// Strategy is one way of obtaining listing data.
type Strategy interface {
	Name() string
	Acquire(ctx context.Context, req Request) (*models.Listing, error)
}

// Chain runs strategies in order and returns the first non-empty
// result. Strategy failures are logged and skipped; they never abort
// the chain.
type Chain struct {
	strategies []Strategy
	log        *slog.Logger
}

// NewChain builds a chain over the given strategies.
func NewChain(log *slog.Logger, strategies ...Strategy) *Chain {
	if log == nil {
		log = slog.Default()
	}
	return &Chain{strategies: strategies, log: log}
}

// Acquire tries each strategy until one returns a non-empty listing.
// An exhausted chain returns (nil, nil).
func (c *Chain) Acquire(ctx context.Context, req Request) (*models.Listing, error) {
	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		listing, err := s.Acquire(ctx, req)
		if err != nil {
			c.log.Warn("acquisition strategy failed",
				"strategy", s.Name(),
				"listing_id", req.ListingID,
				"error", err)
			continue
		}
		if listing == nil || listing.Empty() {
			c.log.Debug("acquisition strategy returned no data",
				"strategy", s.Name(),
				"listing_id", req.ListingID)
			continue
		}

		c.log.Info("listing acquired",
			"strategy", s.Name(),
			"listing_id", req.ListingID)
		return listing, nil
	}
	return nil, nil
}
