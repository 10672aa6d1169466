// Package api exposes the evaluation pipeline over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"trust-shield/models"
	"trust-shield/pkg/evaluator"
)

// Scorer evaluates a listing; satisfied by evaluator.Evaluator.
type Scorer interface {
	Evaluate(ctx context.Context, req models.EvaluateRequest) (*models.ScoreResult, error)
}

// Handler handles HTTP requests for the evaluation API.
type Handler struct {
	scorer Scorer
	log    *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(scorer Scorer, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{scorer: scorer, log: log}
}

// Evaluate handles POST /api/v1/evaluate.
func (h *Handler) Evaluate(c *gin.Context) {
	var req models.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid evaluation request", "error", err)
		c.JSON(http.StatusBadRequest, models.Envelope{
			Success: false,
			Error:   "invalid request body: " + err.Error(),
		})
		return
	}
	if req.ListingID == "" && req.ListingURL == "" {
		c.JSON(http.StatusBadRequest, models.Envelope{
			Success: false,
			Error:   "listingId or listingUrl is required",
		})
		return
	}

	result, err := h.scorer.Evaluate(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, evaluator.ErrNoListingData) {
			c.JSON(http.StatusUnprocessableEntity, models.Envelope{
				Success: false,
				Error:   "no data could be acquired for this listing",
			})
			return
		}
		h.log.Error("evaluation failed",
			"listing_id", req.ListingID,
			"error", err)
		c.JSON(http.StatusInternalServerError, models.Envelope{
			Success: false,
			Error:   "evaluation failed",
		})
		return
	}

	c.JSON(http.StatusOK, models.Envelope{Success: true, Data: result})
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
