package scoring

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"trust-shield/models"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngineAt(DefaultPolicy(), func() time.Time { return testNow })
}

// cleanListing is a complete, trustworthy agency listing that earns
// full credit on every factor.
func cleanListing() models.Listing {
	return models.Listing{
		ID:             "10644",
		URL:            "https://www.idealista.com/inmueble/10644/",
		Description:    strings.Repeat("Luminoso piso reformado junto al metro. ", 10),
		Price:          models.Float64(2700),
		Area:           models.Float64(100),
		Neighborhood:   "Gràcia",
		PhotoCount:     models.Int(22),
		HasFloorPlan:   models.Bool(true),
		LastUpdated:    models.Time(testNow.AddDate(0, 0, -2)),
		AdvertiserName: "Inmobiliaria Vives",
		AdvertiserType: models.AdvertiserAgency,
		ContactEmail:   "info@vives-bcn.es",
	}
}

func TestScoreCleanListing(t *testing.T) {
	e := testEngine(t)
	result := e.Score(cleanListing())

	if result.Score != 100 {
		t.Errorf("score = %d; want 100", result.Score)
	}
	if result.RiskLevel != models.RiskLow {
		t.Errorf("risk = %q; want %q", result.RiskLevel, models.RiskLow)
	}
	for _, f := range result.Breakdown {
		if f.PointDelta != 0 {
			t.Errorf("factor %s delta = %v; want 0", f.Factor, f.PointDelta)
		}
	}
	dup := factorByName(t, result, models.FactorDuplicate)
	if dup.Detail != "no duplicate found" {
		t.Errorf("duplicate detail = %q; want %q", dup.Detail, "no duplicate found")
	}
}

func TestScoreHealthyListing(t *testing.T) {
	e := testEngine(t)
	l := models.Listing{
		ID:           "2469119",
		Description:  "Piso exterior reformado, cocina equipada y balcón soleado.",
		Price:        models.Float64(2469),
		Area:         models.Float64(119),
		Neighborhood: "Eixample",
		PhotoCount:   models.Int(23),
		HasFloorPlan: models.Bool(true),
		LastUpdated:  models.Time(testNow.AddDate(0, 0, -3)),
	}

	result := e.Score(l)

	// ratio 20.75/26 = 0.80: no anomaly; 23 photos + plan: strong
	// quality; 3 days old: full freshness.
	if result.Score < 85 {
		t.Errorf("score = %d; want >= 85", result.Score)
	}
	if result.RiskLevel != models.RiskLow {
		t.Errorf("risk = %q; want %q", result.RiskLevel, models.RiskLow)
	}
	price := factorByName(t, result, models.FactorPriceAnomaly)
	if price.PointDelta != 0 {
		t.Errorf("price delta = %v; want 0 at ratio 0.80", price.PointDelta)
	}
}

func TestScoreMajorPriceAnomaly(t *testing.T) {
	e := testEngine(t)
	l := models.Listing{
		ID:           "500100",
		Price:        models.Float64(500),
		Area:         models.Float64(100),
		Neighborhood: "Gràcia",
	}

	result := e.Score(l)

	// 5 €/m² against a 27 €/m² average: ratio 0.185.
	if result.RiskLevel != models.RiskHigh {
		t.Errorf("risk = %q; want %q", result.RiskLevel, models.RiskHigh)
	}
	price := factorByName(t, result, models.FactorPriceAnomaly)
	if price.PointDelta > -20 {
		t.Errorf("price delta = %v; want a near-total loss of the factor", price.PointDelta)
	}
}

func TestScoreScamPhraseZeroesFactor(t *testing.T) {
	e := testEngine(t)
	l := cleanListing()
	l.Description += " Please send the deposit via Western Union before viewing."

	result := e.Score(l)

	if result.Score != 85 {
		t.Errorf("score = %d; want 85", result.Score)
	}
	if result.RiskLevel != models.RiskLow {
		t.Errorf("risk = %q; want %q", result.RiskLevel, models.RiskLow)
	}
	scam := factorByName(t, result, models.FactorScamLanguage)
	if scam.PointDelta != -e.Policy().Weights.ScamLanguage {
		t.Errorf("scam delta = %v; want %v", scam.PointDelta, -e.Policy().Weights.ScamLanguage)
	}
	if !strings.Contains(scam.Detail, "western union") {
		t.Errorf("scam detail %q should name the phrase", scam.Detail)
	}
}

func TestScoreScamPhraseCaseInsensitive(t *testing.T) {
	policy := DefaultPolicy()
	policy.ScamPhrases = []string{"Western Union"}
	e := NewEngineAt(policy, func() time.Time { return testNow })

	l := cleanListing()
	l.Description += " Send payment via WESTERN UNION today."

	result := e.Score(l)

	scam := factorByName(t, result, models.FactorScamLanguage)
	if scam.PointDelta != -policy.Weights.ScamLanguage {
		t.Errorf("scam delta = %v; want %v for a mixed-case phrase", scam.PointDelta, -policy.Weights.ScamLanguage)
	}
}

func TestScoreSuspiciousListing(t *testing.T) {
	e := testEngine(t)
	l := models.Listing{
		ID:             "66001",
		Price:          models.Float64(1000),
		Area:           models.Float64(100),
		Neighborhood:   "Gràcia",
		LastUpdated:    models.Time(testNow.AddDate(0, 0, -120)),
		AdvertiserType: models.AdvertiserPrivate,
		ContactEmail:   "cheapflat2025@gmail.com",
	}

	result := e.Score(l)

	// scam 15 (no description), price 1.25, quality 0, freshness 1,
	// duplicate 15, advertiser 4.5 -> 36.75 rounds to 37.
	if result.Score != 37 {
		t.Errorf("score = %d; want 37", result.Score)
	}
	if result.RiskLevel != models.RiskHigh {
		t.Errorf("risk = %q; want %q", result.RiskLevel, models.RiskHigh)
	}
}

func TestScoreDeterministic(t *testing.T) {
	e := testEngine(t)
	l := cleanListing()
	l.Description += " urgent"

	first := e.Score(l)
	for i := 0; i < 5; i++ {
		if got := e.Score(l); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d produced a different result:\n got %+v\nwant %+v", i, got, first)
		}
	}
}

func TestScoreBreakdownInvariants(t *testing.T) {
	e := testEngine(t)
	listings := []models.Listing{
		cleanListing(),
		{},
		{ID: "x", Description: "urgent! 100% safe! trust me"},
		{Price: models.Float64(500), Area: models.Float64(90), Neighborhood: "eixample"},
	}
	wantOrder := []string{
		models.FactorScamLanguage,
		models.FactorPriceAnomaly,
		models.FactorListingQuality,
		models.FactorFreshness,
		models.FactorDuplicate,
		models.FactorAdvertiser,
	}
	weights := map[string]float64{
		models.FactorScamLanguage:   e.Policy().Weights.ScamLanguage,
		models.FactorPriceAnomaly:   e.Policy().Weights.PriceAnomaly,
		models.FactorListingQuality: e.Policy().Weights.ListingQuality,
		models.FactorFreshness:      e.Policy().Weights.Freshness,
		models.FactorDuplicate:      e.Policy().Weights.Duplicate,
		models.FactorAdvertiser:     e.Policy().Weights.Advertiser,
	}

	for _, l := range listings {
		result := e.Score(l)
		if result.Score < 0 || result.Score > 100 {
			t.Errorf("score %d out of range for listing %q", result.Score, l.ID)
		}
		if len(result.Breakdown) != len(wantOrder) {
			t.Fatalf("breakdown has %d entries; want %d", len(result.Breakdown), len(wantOrder))
		}
		var earned float64
		for i, f := range result.Breakdown {
			if f.Factor != wantOrder[i] {
				t.Errorf("breakdown[%d] = %s; want %s", i, f.Factor, wantOrder[i])
			}
			if f.PointDelta > 0 {
				t.Errorf("factor %s delta %v > 0", f.Factor, f.PointDelta)
			}
			if f.Detail == "" {
				t.Errorf("factor %s has empty detail", f.Factor)
			}
			earned += weights[f.Factor] + f.PointDelta
		}
		if math.Abs(earned-float64(result.Score)) > 0.5 {
			t.Errorf("breakdown sums to %v but score is %d", earned, result.Score)
		}
	}
}

func TestPriceAnomalyTiers(t *testing.T) {
	e := testEngine(t)
	tests := []struct {
		name  string
		price float64
		want  float64 // sub-score
	}{
		{name: "scam range", price: 900, want: 5},      // 9 €/m², ratio 0.33
		{name: "suspect range", price: 1400, want: 50}, // 14 €/m², ratio 0.52
		{name: "in line", price: 2700, want: 100},      // 27 €/m², ratio 1.0
		{name: "overpriced", price: 4200, want: 50},    // 42 €/m², ratio 1.56
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := models.Listing{
				Price:        models.Float64(tt.price),
				Area:         models.Float64(100),
				Neighborhood: "gràcia",
			}
			sub, _ := e.priceAnomaly(l)
			if sub != tt.want {
				t.Errorf("price %v -> sub %v; want %v", tt.price, sub, tt.want)
			}
		})
	}
}

func TestPriceAnomalyInsufficientData(t *testing.T) {
	e := testEngine(t)
	listings := []models.Listing{
		{Area: models.Float64(100), Neighborhood: "gràcia"},
		{Price: models.Float64(1000), Neighborhood: "gràcia"},
		{Price: models.Float64(1000), Area: models.Float64(100), Neighborhood: "atlantis"},
		{Price: models.Float64(1000), Area: models.Float64(0), Neighborhood: "gràcia"},
	}
	for i, l := range listings {
		if sub, _ := e.priceAnomaly(l); sub != 100 {
			t.Errorf("listing %d: sub = %v; want full credit on missing data", i, sub)
		}
	}
}

func TestFreshnessTiers(t *testing.T) {
	e := testEngine(t)
	tests := []struct {
		name string
		age  int // days, -1 means unknown
		want float64
	}{
		{name: "this week", age: 3, want: 100},
		{name: "boundary week", age: 7, want: 100},
		{name: "this month", age: 20, want: 75},
		{name: "this quarter", age: 60, want: 40},
		{name: "stale", age: 200, want: 10},
		{name: "unknown", age: -1, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l models.Listing
			if tt.age >= 0 {
				l.LastUpdated = models.Time(testNow.AddDate(0, 0, -tt.age))
			}
			sub, _ := e.freshness(l)
			if sub != tt.want {
				t.Errorf("age %d -> sub %v; want %v", tt.age, sub, tt.want)
			}
		})
	}
}

func TestAdvertiserScoring(t *testing.T) {
	e := testEngine(t)
	tests := []struct {
		name    string
		listing models.Listing
		want    float64
	}{
		{
			name:    "agency",
			listing: models.Listing{AdvertiserType: models.AdvertiserAgency},
			want:    80,
		},
		{
			name:    "private",
			listing: models.Listing{AdvertiserType: models.AdvertiserPrivate},
			want:    60,
		},
		{
			name:    "unknown type",
			listing: models.Listing{},
			want:    60,
		},
		{
			name: "private with free mail",
			listing: models.Listing{
				AdvertiserType: models.AdvertiserPrivate,
				ContactEmail:   "owner@gmail.com",
			},
			want: 30,
		},
		{
			name: "agency with professional name",
			listing: models.Listing{
				AdvertiserType: models.AdvertiserAgency,
				AdvertiserName: "Barcelona Real Estate Group",
			},
			want: 100,
		},
		{
			name: "corporate email not penalized",
			listing: models.Listing{
				AdvertiserType: models.AdvertiserAgency,
				ContactEmail:   "ventas@fincas.cat",
			},
			want: 80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, _ := e.advertiser(tt.listing)
			if sub != tt.want {
				t.Errorf("sub = %v; want %v", sub, tt.want)
			}
		})
	}
}

func TestRiskLevelBands(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		score int
		want  string
	}{
		{100, models.RiskLow},
		{85, models.RiskLow},
		{84, models.RiskMedium},
		{65, models.RiskMedium},
		{64, models.RiskHigh},
		{0, models.RiskHigh},
	}
	for _, tt := range tests {
		if got := p.RiskLevel(tt.score); got != tt.want {
			t.Errorf("RiskLevel(%d) = %q; want %q", tt.score, got, tt.want)
		}
	}
}

func TestLegacyPolicyNoUpperBound(t *testing.T) {
	e := NewEngineAt(LegacyPolicy(), func() time.Time { return testNow })
	l := models.Listing{
		Price:        models.Float64(4200), // ratio 1.56 over gràcia average
		Area:         models.Float64(100),
		Neighborhood: "gràcia",
	}
	if sub, _ := e.priceAnomaly(l); sub != 100 {
		t.Errorf("legacy policy should not penalize overpriced listings, got sub %v", sub)
	}
}

func TestPolicyValidate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Errorf("default policy invalid: %v", err)
	}
	if err := LegacyPolicy().Validate(); err != nil {
		t.Errorf("legacy policy invalid: %v", err)
	}

	bad := DefaultPolicy()
	bad.Weights.ScamLanguage = 50
	if err := bad.Validate(); err == nil {
		t.Error("expected weight sum error")
	}

	bad = DefaultPolicy()
	bad.Risk = RiskThresholds{LowMin: 60, MediumMin: 80}
	if err := bad.Validate(); err == nil {
		t.Error("expected threshold order error")
	}
}

func TestPolicyByName(t *testing.T) {
	for name, want := range map[string]string{
		"":       "2025.2",
		"2025.2": "2025.2",
		"2024.1": "2024.1",
		"legacy": "2024.1",
	} {
		p, err := PolicyByName(name)
		if err != nil {
			t.Errorf("PolicyByName(%q): %v", name, err)
			continue
		}
		if p.Name != want {
			t.Errorf("PolicyByName(%q).Name = %q; want %q", name, p.Name, want)
		}
	}
	if _, err := PolicyByName("2019.9"); err == nil {
		t.Error("expected error for unknown policy name")
	}
}

func TestLoadPolicyOverridesWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	doc := `name: custom
weights:
  scam_language: 30
  price_anomaly: 20
  listing_quality: 20
  freshness: 10
  duplicate: 10
  advertiser: 10
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}
	if p.Name != "custom" {
		t.Errorf("name = %q; want custom", p.Name)
	}
	if p.Weights.ScamLanguage != 30 {
		t.Errorf("scam weight = %v; want 30", p.Weights.ScamLanguage)
	}
	// Untouched sections keep their defaults.
	if p.Risk.LowMin != 85 {
		t.Errorf("low_min = %d; want default 85", p.Risk.LowMin)
	}
	if len(p.ScamPhrases) == 0 {
		t.Error("scam phrases should fall back to defaults")
	}
}

func factorByName(t *testing.T, r models.ScoreResult, name string) models.FactorScore {
	t.Helper()
	for _, f := range r.Breakdown {
		if f.Factor == name {
			return f
		}
	}
	t.Fatalf("factor %s missing from breakdown", name)
	return models.FactorScore{}
}
