package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"trust-shield/models"
	"trust-shield/pkg/normalize"
)

// Engine scores listings under a single policy. The clock is injected
// so freshness scoring is reproducible in tests.
type Engine struct {
	policy Policy
	now    func() time.Time
}

// NewEngine builds an engine over the given policy using the wall clock.
func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy, now: time.Now}
}

// NewEngineAt builds an engine with a fixed clock.
func NewEngineAt(policy Policy, now func() time.Time) *Engine {
	return &Engine{policy: policy, now: now}
}

// Policy returns the rule set this engine scores under.
func (e *Engine) Policy() Policy { return e.policy }

// Score evaluates every factor against the listing and returns the
// final result. The breakdown always contains one entry per factor in
// a fixed order, full-credit factors included.
func (e *Engine) Score(listing models.Listing) models.ScoreResult {
	w := e.policy.Weights

	factors := []struct {
		name   string
		weight float64
		score  func(models.Listing) (float64, string)
	}{
		{models.FactorScamLanguage, w.ScamLanguage, e.scamLanguage},
		{models.FactorPriceAnomaly, w.PriceAnomaly, e.priceAnomaly},
		{models.FactorListingQuality, w.ListingQuality, e.listingQuality},
		{models.FactorFreshness, w.Freshness, e.freshness},
		{models.FactorDuplicate, w.Duplicate, e.duplicate},
		{models.FactorAdvertiser, w.Advertiser, e.advertiser},
	}

	var total float64
	breakdown := make([]models.FactorScore, 0, len(factors))
	for _, f := range factors {
		sub, detail := f.score(listing)
		sub = clamp(sub, 0, 100)
		earned := sub / 100 * f.weight
		total += earned
		breakdown = append(breakdown, models.FactorScore{
			Factor:     f.name,
			PointDelta: earned - f.weight,
			Detail:     detail,
		})
	}

	score := int(clamp(math.Round(total), 0, 100))
	return models.ScoreResult{
		Score:     score,
		Breakdown: breakdown,
		RiskLevel: e.policy.RiskLevel(score),
		Listing:   listing,
	}
}

// scamLanguage returns full credit unless the description contains a
// known scam phrase. A single hit zeroes the factor.
func (e *Engine) scamLanguage(l models.Listing) (float64, string) {
	desc := strings.ToLower(l.Description)
	if desc == "" {
		return 100, "no description to inspect"
	}
	var hits []string
	for _, phrase := range e.policy.ScamPhrases {
		// Phrases from a policy file may carry mixed case.
		if strings.Contains(desc, strings.ToLower(phrase)) {
			hits = append(hits, phrase)
		}
	}
	if len(hits) > 0 {
		return 0, fmt.Sprintf("scam language detected: %s", strings.Join(hits, ", "))
	}
	return 100, "no scam language detected"
}

// priceAnomaly compares price per square meter against the
// neighborhood average.
func (e *Engine) priceAnomaly(l models.Listing) (float64, string) {
	if l.Price == nil || l.Area == nil || *l.Area <= 0 {
		return 100, "insufficient data for price comparison"
	}
	avg, ok := normalize.NeighborhoodAvgPrice(l.Neighborhood, e.policy.NeighborhoodPrices)
	if !ok {
		return 100, fmt.Sprintf("no reference price for %q", l.Neighborhood)
	}

	perArea := *l.Price / *l.Area
	ratio := perArea / avg
	rules := e.policy.Price

	switch {
	case ratio < rules.ScamBelow:
		return 5, fmt.Sprintf("price %.1f €/m² is far below the %.1f €/m² area average", perArea, avg)
	case ratio < rules.SuspectBelow:
		return 50, fmt.Sprintf("price %.1f €/m² is well below the %.1f €/m² area average", perArea, avg)
	case rules.StrictAbove > 0 && ratio > rules.StrictAbove:
		return 50, fmt.Sprintf("price %.1f €/m² is far above the %.1f €/m² area average", perArea, avg)
	default:
		return 100, fmt.Sprintf("price %.1f €/m² is in line with the %.1f €/m² area average", perArea, avg)
	}
}

// listingQuality rewards completeness: photos, a floor plan and a
// substantial description.
func (e *Engine) listingQuality(l models.Listing) (float64, string) {
	rules := e.policy.Quality
	var sub float64
	var notes []string

	photos := 0
	if l.PhotoCount != nil {
		photos = *l.PhotoCount
	}
	for _, tier := range rules.PhotoTiers {
		if photos >= tier.MinPhotos {
			sub += tier.Credit
			break
		}
	}
	notes = append(notes, fmt.Sprintf("%d photos", photos))

	if l.HasFloorPlan != nil && *l.HasFloorPlan {
		sub += rules.FloorPlanBonus
		notes = append(notes, "floor plan present")
	}

	descLen := len([]rune(strings.TrimSpace(l.Description)))
	switch {
	case descLen >= rules.LongDescMinChars:
		sub += rules.LongDescBonus
		notes = append(notes, "detailed description")
	case descLen > 0 && descLen < rules.ShortDescMax:
		sub -= rules.ShortDescPenalty
		notes = append(notes, "very short description")
	case descLen == 0:
		notes = append(notes, "no description")
	}

	return sub, strings.Join(notes, ", ")
}

// freshness maps the listing age against the policy's tier table.
func (e *Engine) freshness(l models.Listing) (float64, string) {
	rules := e.policy.Freshness
	if l.LastUpdated == nil {
		return rules.UnknownCredit, "last update date unknown"
	}
	age := e.now().Sub(*l.LastUpdated)
	days := int(age.Hours() / 24)
	if days < 0 {
		days = 0
	}
	for _, tier := range rules.Tiers {
		if days <= tier.MaxDays {
			return tier.Credit, fmt.Sprintf("updated %d days ago", days)
		}
	}
	return rules.StaleCredit, fmt.Sprintf("stale, updated %d days ago", days)
}

// duplicate is a placeholder until cross-listing image fingerprinting
// lands. It always grants full credit so the weight stays reserved in
// the total without penalizing anyone.
func (e *Engine) duplicate(l models.Listing) (float64, string) {
	return 100, "no duplicate found"
}

// advertiser scores who posted the listing and how they can be reached.
func (e *Engine) advertiser(l models.Listing) (float64, string) {
	rules := e.policy.Advertiser
	var sub float64
	var notes []string

	switch l.AdvertiserType {
	case models.AdvertiserAgency:
		sub = rules.AgencyCredit
		notes = append(notes, "agency listing")
	case models.AdvertiserPrivate:
		sub = rules.PrivateCredit
		notes = append(notes, "private listing")
	default:
		sub = rules.UnknownCredit
		notes = append(notes, "advertiser type unknown")
	}

	if domain := emailDomain(l.ContactEmail); domain != "" {
		for _, generic := range e.policy.GenericEmailDomains {
			if domain == generic {
				sub -= rules.GenericPenalty
				notes = append(notes, fmt.Sprintf("free-mail contact address (%s)", domain))
				break
			}
		}
	}

	if name := strings.ToLower(l.AdvertiserName); name != "" {
		for _, kw := range e.policy.ProfessionalKeywords {
			if strings.Contains(name, kw) {
				sub += rules.ProfessionBonus
				notes = append(notes, "professional advertiser name")
				break
			}
		}
	}

	return sub, strings.Join(notes, ", ")
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
