package models

// Risk levels derived from the numeric score via policy thresholds.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Factor identifiers, in the fixed order they appear in a breakdown.
const (
	FactorScamLanguage   = "scam_language"
	FactorPriceAnomaly   = "price_anomaly"
	FactorListingQuality = "listing_quality"
	FactorFreshness      = "freshness"
	FactorDuplicate      = "duplicate"
	FactorAdvertiser     = "advertiser"
)

// FactorScore explains one factor's contribution to the overall score.
// PointDelta is the signed distance from that factor's full credit and is
// always <= 0; Detail is a human-readable justification, present even when
// the factor earned full credit.
type FactorScore struct {
	Factor     string  `json:"factor"`
	PointDelta float64 `json:"pointDelta"`
	Detail     string  `json:"detail"`
}

// ScoreResult is the outcome of evaluating a single listing. The listing
// used for the computation is kept so the presentation layer can explain
// the result without re-acquiring data.
type ScoreResult struct {
	Score     int           `json:"score"`
	Breakdown []FactorScore `json:"breakdown"`
	RiskLevel string        `json:"riskLevel"`
	Listing   Listing       `json:"listing"`
}

// EvaluateRequest is what the presentation layer sends to request a score.
// Hints carry attributes already visible to the caller from a lighter-weight
// rendering; non-empty hint fields take precedence over acquired data.
type EvaluateRequest struct {
	ListingID  string   `json:"listingId"`
	ListingURL string   `json:"listingUrl"`
	Hints      *Listing `json:"hints,omitempty"`
}

// Envelope wraps every response handed back to the presentation layer.
type Envelope struct {
	Success bool         `json:"success"`
	Data    *ScoreResult `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
}
