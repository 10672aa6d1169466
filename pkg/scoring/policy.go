// Package scoring computes a 0-100 trust score for a listing from a
// fixed set of weighted risk factors. All rule constants live in a
// Policy value so alternative weightings can be loaded from disk and
// scored side by side.
package scoring

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"trust-shield/models"
	"trust-shield/pkg/normalize"
)

// Weights holds the maximum points each factor can contribute.
// They must sum to 100 for a policy to validate.
type Weights struct {
	ScamLanguage   float64 `yaml:"scam_language" json:"scam_language"`
	PriceAnomaly   float64 `yaml:"price_anomaly" json:"price_anomaly"`
	ListingQuality float64 `yaml:"listing_quality" json:"listing_quality"`
	Freshness      float64 `yaml:"freshness" json:"freshness"`
	Duplicate      float64 `yaml:"duplicate" json:"duplicate"`
	Advertiser     float64 `yaml:"advertiser" json:"advertiser"`
}

func (w Weights) total() float64 {
	return w.ScamLanguage + w.PriceAnomaly + w.ListingQuality +
		w.Freshness + w.Duplicate + w.Advertiser
}

// PriceRules bounds the listing price against the neighborhood average
// price per square meter. Ratios below SuspectBelow earn partial
// credit, below ScamBelow almost none, and above StrictAbove (when
// non-zero) the factor is also penalized.
type PriceRules struct {
	ScamBelow    float64 `yaml:"scam_below" json:"scam_below"`
	SuspectBelow float64 `yaml:"suspect_below" json:"suspect_below"`
	StrictAbove  float64 `yaml:"strict_above" json:"strict_above"`
}

// QualityRules scores listing completeness: photo count tiers plus
// bonuses for a floor plan and a substantial description.
type QualityRules struct {
	PhotoTiers       []PhotoTier `yaml:"photo_tiers" json:"photo_tiers"`
	FloorPlanBonus   float64     `yaml:"floor_plan_bonus" json:"floor_plan_bonus"`
	LongDescMinChars int         `yaml:"long_desc_min_chars" json:"long_desc_min_chars"`
	LongDescBonus    float64     `yaml:"long_desc_bonus" json:"long_desc_bonus"`
	ShortDescMax     int         `yaml:"short_desc_max" json:"short_desc_max"`
	ShortDescPenalty float64     `yaml:"short_desc_penalty" json:"short_desc_penalty"`
}

// PhotoTier grants Credit (a 0-100 sub-score) when the listing has at
// least MinPhotos photos. Tiers are checked in order, first match wins.
type PhotoTier struct {
	MinPhotos int     `yaml:"min_photos" json:"min_photos"`
	Credit    float64 `yaml:"credit" json:"credit"`
}

// FreshnessRules maps listing age in days to a 0-100 sub-score.
// Tiers are checked in order, first match wins; UnknownCredit applies
// when no update timestamp could be recovered.
type FreshnessRules struct {
	Tiers         []AgeTier `yaml:"tiers" json:"tiers"`
	StaleCredit   float64   `yaml:"stale_credit" json:"stale_credit"`
	UnknownCredit float64   `yaml:"unknown_credit" json:"unknown_credit"`
}

// AgeTier grants Credit when the listing is at most MaxDays old.
type AgeTier struct {
	MaxDays int     `yaml:"max_days" json:"max_days"`
	Credit  float64 `yaml:"credit" json:"credit"`
}

// AdvertiserRules scores who is behind the listing: base credit by
// advertiser type, a penalty for free-mail contact addresses, and a
// bonus when the advertiser name looks professional.
type AdvertiserRules struct {
	AgencyCredit    float64 `yaml:"agency_credit" json:"agency_credit"`
	PrivateCredit   float64 `yaml:"private_credit" json:"private_credit"`
	UnknownCredit   float64 `yaml:"unknown_credit" json:"unknown_credit"`
	GenericPenalty  float64 `yaml:"generic_penalty" json:"generic_penalty"`
	ProfessionBonus float64 `yaml:"profession_bonus" json:"profession_bonus"`
}

// RiskThresholds maps the final score to a risk level: Low at or above
// LowMin, High below MediumMin, Medium in between.
type RiskThresholds struct {
	LowMin    int `yaml:"low_min" json:"low_min"`
	MediumMin int `yaml:"medium_min" json:"medium_min"`
}

// Policy is a complete, self-contained scoring rule set. Two listings
// scored under the same policy and the same clock always produce the
// same result.
type Policy struct {
	Name    string  `yaml:"name" json:"name"`
	Weights Weights `yaml:"weights" json:"weights"`

	ScamPhrases          []string                      `yaml:"scam_phrases" json:"scam_phrases"`
	GenericEmailDomains  []string                      `yaml:"generic_email_domains" json:"generic_email_domains"`
	ProfessionalKeywords []string                      `yaml:"professional_keywords" json:"professional_keywords"`
	NeighborhoodPrices   []normalize.NeighborhoodPrice `yaml:"neighborhood_prices" json:"neighborhood_prices"`

	Price      PriceRules      `yaml:"price" json:"price"`
	Quality    QualityRules    `yaml:"quality" json:"quality"`
	Freshness  FreshnessRules  `yaml:"freshness" json:"freshness"`
	Advertiser AdvertiserRules `yaml:"advertiser" json:"advertiser"`
	Risk       RiskThresholds  `yaml:"risk" json:"risk"`
}

var defaultScamPhrases = []string{
	"western union",
	"moneygram",
	"transfer to reserve",
	"payment before viewing",
	"currently abroad",
	"out of town",
	"contact me via email only",
	"whatsapp only",
	"send passport",
	"bank details to apply",
	"owner traveling",
	"overseas",
	"holding fee",
	"reservation fee",
	"urgent",
	"trust me",
	"100% safe",
}

var defaultGenericDomains = []string{
	"gmail.com",
	"yahoo.com",
	"hotmail.com",
	"outlook.com",
}

var defaultProfessionalKeywords = []string{
	"inmobiliaria",
	"real estate",
	"properties",
	"gestión",
	"agencia",
}

// DefaultPolicy is the current production rule set.
func DefaultPolicy() Policy {
	return Policy{
		Name: "2025.2",
		Weights: Weights{
			ScamLanguage:   15,
			PriceAnomaly:   25,
			ListingQuality: 20,
			Freshness:      10,
			Duplicate:      15,
			Advertiser:     15,
		},
		ScamPhrases:          defaultScamPhrases,
		GenericEmailDomains:  defaultGenericDomains,
		ProfessionalKeywords: defaultProfessionalKeywords,
		NeighborhoodPrices:   normalize.DefaultNeighborhoodPrices,
		Price: PriceRules{
			ScamBelow:    0.4,
			SuspectBelow: 0.6,
			StrictAbove:  1.5,
		},
		Quality: QualityRules{
			PhotoTiers: []PhotoTier{
				{MinPhotos: 20, Credit: 60},
				{MinPhotos: 10, Credit: 45},
				{MinPhotos: 5, Credit: 30},
				{MinPhotos: 1, Credit: 15},
			},
			FloorPlanBonus:   20,
			LongDescMinChars: 300,
			LongDescBonus:    20,
			ShortDescMax:     50,
			ShortDescPenalty: 10,
		},
		Freshness: FreshnessRules{
			Tiers: []AgeTier{
				{MaxDays: 7, Credit: 100},
				{MaxDays: 30, Credit: 75},
				{MaxDays: 90, Credit: 40},
			},
			StaleCredit:   10,
			UnknownCredit: 50,
		},
		Advertiser: AdvertiserRules{
			AgencyCredit:    80,
			PrivateCredit:   60,
			UnknownCredit:   60,
			GenericPenalty:  30,
			ProfessionBonus: 20,
		},
		Risk: RiskThresholds{LowMin: 85, MediumMin: 65},
	}
}

// LegacyPolicy is the pre-2025 weighting, kept for replaying cached
// scores produced before the rebalance.
func LegacyPolicy() Policy {
	p := DefaultPolicy()
	p.Name = "2024.1"
	p.Weights = Weights{
		ScamLanguage:   40,
		PriceAnomaly:   30,
		ListingQuality: 15,
		Freshness:      10,
		Duplicate:      10,
		Advertiser:     5,
	}
	p.Price.StrictAbove = 0
	p.Risk = RiskThresholds{LowMin: 80, MediumMin: 60}
	return p
}

// PolicyByName resolves a built-in policy by its version name.
func PolicyByName(name string) (Policy, error) {
	switch name {
	case "", DefaultPolicy().Name, "default":
		return DefaultPolicy(), nil
	case LegacyPolicy().Name, "legacy":
		return LegacyPolicy(), nil
	default:
		return Policy{}, fmt.Errorf("unknown scoring policy %q", name)
	}
}

// LoadPolicy reads a policy from a YAML file. Omitted sections fall
// back to the default policy so a file can override just the weights.
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}
	p := DefaultPolicy()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("parse policy file %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, fmt.Errorf("policy file %s: %w", path, err)
	}
	return p, nil
}

// Validate checks the internal consistency of a policy.
func (p Policy) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("policy name is required")
	}
	if total := p.Weights.total(); total != 100 {
		return fmt.Errorf("factor weights sum to %v, want 100", total)
	}
	if p.Risk.LowMin <= p.Risk.MediumMin {
		return fmt.Errorf("risk thresholds out of order: low_min %d <= medium_min %d",
			p.Risk.LowMin, p.Risk.MediumMin)
	}
	if p.Price.ScamBelow > p.Price.SuspectBelow {
		return fmt.Errorf("price rules out of order: scam_below %v > suspect_below %v",
			p.Price.ScamBelow, p.Price.SuspectBelow)
	}
	return nil
}

// RiskLevel maps a final score to its risk band.
func (p Policy) RiskLevel(score int) string {
	switch {
	case score >= p.Risk.LowMin:
		return models.RiskLow
	case score >= p.Risk.MediumMin:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}
