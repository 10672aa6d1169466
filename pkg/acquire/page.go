package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"trust-shield/models"
	"trust-shield/pkg/normalize"
)

// minBodyBytes guards against interstitials and error pages that come
// back with a 200 status.
const minBodyBytes = 1000

// Locator tables, in preference order. The first selector whose text
// is non-empty wins per field; fields resolve independently.
var (
	priceLocators = []string{
		".info-data-price .txt-bold",
		".info-data-price span",
		"[data-price]",
		".price-row .price",
	}
	descriptionLocators = []string{
		"div.comment p",
		"div.comment",
		".adCommentsLanguage p",
		"[data-description]",
	}
	neighborhoodLocators = []string{
		".main-info__title-minor",
		".header-map-list li:first-child",
		"[data-location]",
	}
	areaLocators = []string{
		".info-features span:contains(\"m²\")",
		".details-property_features li:contains(\"m²\")",
	}
	photoCountLocators = []string{
		".multimedia-shortcuts-button[data-button-type=\"pics\"]",
		".multimedia-shortcuts-button span",
		".fotos span",
	}
	floorPlanLocators = []string{
		".multimedia-shortcuts-button[data-button-type=\"plan\"]",
		".icon-plan",
		"[data-floor-plan]",
	}
	updatedLocators = []string{
		".date-update-text",
		"#stats p",
		".stats-text",
	}
)

// PageStrategy parses the rendered listing page.
type PageStrategy struct {
	client *http.Client
	now    func() time.Time
}

// NewPageStrategy builds the strategy over the given HTTP client.
func NewPageStrategy(client *http.Client) *PageStrategy {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &PageStrategy{client: client, now: time.Now}
}

func (s *PageStrategy) Name() string { return "page" }

// Acquire fetches and scrapes the listing page. When the page parse
// leaves key fields empty the embedded script payloads are scanned as
// a last resort.
func (s *PageStrategy) Acquire(ctx context.Context, req Request) (*models.Listing, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("listing url is required for page acquisition")
	}

	body, err := s.fetch(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	if len(body) < minBodyBytes {
		return nil, fmt.Errorf("body too short (%d bytes), likely an interstitial", len(body))
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	listing := s.scrape(doc, req)
	if listing.Description == "" || listing.PhotoCount == nil || listing.Neighborhood == "" {
		fillFromScripts(listing, doc, s.now())
	}
	if listing.Description == "" {
		listing.Description = readableText(req.URL, string(body))
	}

	if listing.Empty() {
		return nil, nil
	}
	return listing, nil
}

func (s *PageStrategy) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

func (s *PageStrategy) scrape(doc *goquery.Document, req Request) *models.Listing {
	l := &models.Listing{ID: req.ListingID, URL: req.URL}

	if raw := firstText(doc, priceLocators); raw != "" {
		l.Price = normalize.Amount(raw)
	}
	if raw := firstText(doc, areaLocators); raw != "" {
		l.Area = normalize.Amount(raw)
	}
	if raw := firstText(doc, neighborhoodLocators); raw != "" {
		l.Neighborhood = normalize.Text(raw)
	}

	l.Description = normalize.Text(firstText(doc, descriptionLocators))

	if raw := firstText(doc, photoCountLocators); raw != "" {
		l.PhotoCount = normalize.Counter(raw)
	}
	if l.PhotoCount == nil {
		if n := doc.Find(".multimedia-container img, .gallery img").Length(); n > 0 {
			l.PhotoCount = models.Int(n)
		}
	}

	for _, sel := range floorPlanLocators {
		if doc.Find(sel).Length() > 0 {
			l.HasFloorPlan = models.Bool(true)
			break
		}
	}

	if raw := firstText(doc, updatedLocators); raw != "" {
		l.RawLastUpdated = normalize.Text(raw)
		l.LastUpdated = normalize.When(l.RawLastUpdated, s.now())
	}

	extractAdvertiser(l, doc)
	return l
}

// firstText returns the trimmed text of the first locator that
// matches a non-empty node.
func firstText(doc *goquery.Document, locators []string) string {
	for _, sel := range locators {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}

// readableText runs main-content extraction over the raw page as a
// description fallback. Extraction failure just means no description.
func readableText(rawURL, html string) string {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(html), parsedURL)
	if err != nil {
		return ""
	}
	return normalize.Text(article.TextContent)
}
