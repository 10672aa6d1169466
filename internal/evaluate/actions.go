// Package evaluate implements the evaluate CLI command: score one
// listing and print the result as JSON on stdout.
package evaluate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"trust-shield/internal/common"
	"trust-shield/internal/pipeline"
	"trust-shield/models"
	"trust-shield/pkg/evaluator"
)

func EvaluateAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"))

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return cli.Exit("", 2)
	}
	if v := c.String("policy"); v != "" {
		cfg.Policy = v
	}
	if v := c.String("policy-file"); v != "" {
		cfg.PolicyFile = v
	}
	if c.Bool("no-cache") {
		cfg.CachePath = ""
	}

	req, err := buildRequest(c, cfg)
	if err != nil {
		logger.Error("invalid arguments", "error", err)
		return cli.Exit("", 2)
	}

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		logger.Error("failed to assemble pipeline", "error", err)
		return cli.Exit("", 2)
	}
	defer p.Close()

	result, err := p.Evaluator.Evaluate(c.Context, req)
	if err != nil {
		if errors.Is(err, evaluator.ErrNoListingData) {
			logger.Error("no data could be acquired for this listing", "listing_id", req.ListingID)
			return cli.Exit("", 3)
		}
		logger.Error("evaluation failed", "error", err)
		return cli.Exit("", 1)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		logger.Error("failed to encode result", "error", err)
		return cli.Exit("", 1)
	}
	return nil
}

// buildRequest derives the evaluate request from the positional
// argument, which may be a listing id or a detail-page URL. Hints are
// read from an optional JSON file.
func buildRequest(c *cli.Context, cfg *models.Config) (models.EvaluateRequest, error) {
	arg := c.Args().First()
	if arg == "" {
		return models.EvaluateRequest{}, fmt.Errorf("a listing id or URL is required")
	}

	req := models.EvaluateRequest{}
	if id := common.ListingIDFromURL(arg); id != "" {
		req.ListingID = id
		req.ListingURL = arg
	} else {
		req.ListingID = arg
		req.ListingURL = common.ListingURLFromID(cfg.EndpointBaseURL, arg)
	}

	if path := c.String("hints"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return models.EvaluateRequest{}, fmt.Errorf("failed to read hints file: %w", err)
		}
		hints := &models.Listing{}
		if err := json.Unmarshal(data, hints); err != nil {
			return models.EvaluateRequest{}, fmt.Errorf("failed to parse hints file %s: %w", path, err)
		}
		req.Hints = hints
	}

	return req, nil
}
