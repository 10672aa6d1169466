package acquire

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"trust-shield/models"
	"trust-shield/pkg/normalize"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

// endpointPaths are the structured-data routes the portal has exposed
// over time, newest first.
var endpointPaths = []string{
	"/detail/%s/datalayer",
	"/api/detail/%s",
	"/events/datalayer/%s",
}

// EndpointStrategy pulls listing data from the portal's JSON endpoints.
type EndpointStrategy struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// NewEndpointStrategy builds the strategy against the given portal base
// URL, e.g. "https://www.idealista.com".
func NewEndpointStrategy(baseURL string, client *http.Client) *EndpointStrategy {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &EndpointStrategy{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		now:     time.Now,
	}
}

func (s *EndpointStrategy) Name() string { return "endpoint" }

// Acquire tries each endpoint path in order and returns the first
// payload that decodes to a non-empty listing.
func (s *EndpointStrategy) Acquire(ctx context.Context, req Request) (*models.Listing, error) {
	if req.ListingID == "" {
		return nil, fmt.Errorf("listing id is required for endpoint acquisition")
	}

	var lastErr error
	for _, path := range endpointPaths {
		url := s.baseURL + fmt.Sprintf(path, req.ListingID)
		listing, err := s.fetch(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}
		if listing != nil && !listing.Empty() {
			listing.ID = req.ListingID
			if listing.URL == "" {
				listing.URL = req.URL
			}
			return listing, nil
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("all endpoint paths failed: %w", lastErr)
	}
	return nil, nil
}

func (s *EndpointStrategy) fetch(ctx context.Context, url string) (*models.Listing, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	payload, err := decodePayload(body)
	if err != nil {
		return nil, err
	}
	return listingFromPayload(payload, s.now()), nil
}

// decodePayload unmarshals the response, unwrapping a {"data": {...}}
// envelope. On failure it salvages the first balanced JSON value from
// the body; the analytics endpoints sometimes prepend a script snippet
// and some push an array onto the data layer instead of a bare object.
func decodePayload(body []byte) (map[string]any, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		salvaged, ok := salvageJSON(string(body))
		if !ok {
			return nil, fmt.Errorf("failed to decode payload: %w", err)
		}
		if err := json.Unmarshal([]byte(salvaged), &raw); err != nil {
			return nil, fmt.Errorf("failed to decode salvaged payload: %w", err)
		}
	}

	obj, ok := payloadObject(raw)
	if !ok {
		return nil, fmt.Errorf("payload is not a JSON object")
	}
	if data, ok := obj["data"].(map[string]any); ok {
		return data, nil
	}
	return obj, nil
}

// payloadObject reduces a decoded value to an object: maps pass through
// and the first object element of an array is taken.
func payloadObject(raw any) (map[string]any, bool) {
	switch v := raw.(type) {
	case map[string]any:
		return v, true
	case []any:
		for _, elem := range v {
			if m, ok := elem.(map[string]any); ok {
				return m, true
			}
		}
	}
	return nil, false
}

// salvageJSON extracts the substring between the first opening brace or
// bracket and its last counterpart.
func salvageJSON(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", false
	}
	var end int
	if s[start] == '{' {
		end = strings.LastIndex(s, "}")
	} else {
		end = strings.LastIndex(s, "]")
	}
	if end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// listingFromPayload maps known payload keys onto a listing. Numeric
// fields arrive as JSON numbers or strings depending on the endpoint
// generation, so both are accepted.
func listingFromPayload(payload map[string]any, ref time.Time) *models.Listing {
	l := &models.Listing{}

	if v, ok := flexString(payload, "url", "link"); ok {
		l.URL = v
	}
	if v, ok := flexString(payload, "description", "comment", "propertyComment"); ok {
		l.Description = normalize.Text(v)
	}
	if v, ok := flexFloat(payload, "price", "propertyPrice"); ok {
		l.Price = models.Float64(v)
	}
	if v, ok := flexFloat(payload, "area", "surface", "constructedArea"); ok {
		l.Area = models.Float64(v)
	}
	if v, ok := flexString(payload, "neighborhood", "neighbourhood", "district", "locationName"); ok {
		l.Neighborhood = normalize.Text(v)
	}
	if v, ok := flexInt(payload, "photoCount", "photoNumber", "numPhotos", "multimediaCount"); ok {
		l.PhotoCount = models.Int(v)
	}
	if v, ok := flexBool(payload, "hasFloorPlan", "floorPlan", "hasPlan"); ok {
		l.HasFloorPlan = models.Bool(v)
	}
	if v, ok := flexString(payload, "lastUpdated", "updatedAt", "modificationDate"); ok {
		l.RawLastUpdated = v
		l.LastUpdated = normalize.When(v, ref)
	}
	if v, ok := flexString(payload, "advertiserName", "agencyName", "commercialName"); ok {
		l.AdvertiserName = normalize.Text(v)
	}
	if v, ok := flexString(payload, "advertiserType", "ownerType", "adOwnerType"); ok {
		l.AdvertiserType = normalizeAdvertiserType(v)
	}
	if v, ok := flexString(payload, "contactEmail", "email"); ok {
		l.ContactEmail = strings.TrimSpace(v)
	}

	if l.Empty() {
		return nil
	}
	return l
}

func normalizeAdvertiserType(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "agency", "professional", "pro", "agencia":
		return models.AdvertiserAgency
	case "private", "particular", "owner":
		return models.AdvertiserPrivate
	default:
		return ""
	}
}

func flexString(payload map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		v, ok := payload[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if strings.TrimSpace(t) != "" {
				return t, true
			}
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64), true
		}
	}
	return "", false
}

func flexFloat(payload map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		v, ok := payload[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case float64:
			return t, true
		case string:
			if parsed := normalize.Amount(t); parsed != nil {
				return *parsed, true
			}
		}
	}
	return 0, false
}

func flexInt(payload map[string]any, keys ...string) (int, bool) {
	if v, ok := flexFloat(payload, keys...); ok {
		return int(v), true
	}
	return 0, false
}

func flexBool(payload map[string]any, keys ...string) (bool, bool) {
	for _, key := range keys {
		v, ok := payload[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case bool:
			return t, true
		case string:
			switch strings.ToLower(strings.TrimSpace(t)) {
			case "true", "1", "yes":
				return true, true
			case "false", "0", "no":
				return false, true
			}
		case float64:
			return t != 0, true
		}
	}
	return false, false
}
