package acquire

import (
	"encoding/json"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"

	"trust-shield/models"
	"trust-shield/pkg/normalize"
)

// Page-state and analytics assignments observed in portal markup. Each
// pattern matches up to the opening brace; the object itself is taken
// by brace counting since it usually nests.
var scriptPatterns = []*regexp.Regexp{
	regexp.MustCompile(`window\.__INITIAL_PROPS__\s*=\s*\{`),
	regexp.MustCompile(`dataLayer\.push\(\s*\{`),
	regexp.MustCompile(`utag_data\s*=\s*\{`),
}

// fillFromScripts scans inline script payloads for listing data and
// fills only the fields still missing on the listing. Already-present
// values are never overwritten.
func fillFromScripts(l *models.Listing, doc *goquery.Document, ref time.Time) {
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		for _, pattern := range scriptPatterns {
			loc := pattern.FindStringIndex(text)
			if loc == nil {
				continue
			}
			object, ok := balancedObject(text[loc[1]-1:])
			if !ok {
				continue
			}
			payload := map[string]any{}
			if err := json.Unmarshal([]byte(object), &payload); err != nil {
				continue
			}
			if data, ok := payload["data"].(map[string]any); ok {
				payload = data
			}
			mergeMissing(l, payload, ref)
		}
		// Stop once the fields this scan exists for are covered.
		return l.Description == "" || l.PhotoCount == nil || l.Neighborhood == ""
	})
}

// balancedObject returns the JSON object starting at s[0] == '{',
// tracking brace depth and skipping string literals.
func balancedObject(s string) (string, bool) {
	if s == "" || s[0] != '{' {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}

func mergeMissing(l *models.Listing, payload map[string]any, ref time.Time) {
	if l.Description == "" {
		if v, ok := flexString(payload, "description", "comment", "propertyComment"); ok {
			l.Description = normalize.Text(v)
		}
	}
	if l.PhotoCount == nil {
		if v, ok := flexInt(payload, "photoCount", "photoNumber", "numPhotos", "multimediaCount"); ok {
			l.PhotoCount = models.Int(v)
		}
	}
	if l.Neighborhood == "" {
		if v, ok := flexString(payload, "neighborhood", "neighbourhood", "district", "locationName"); ok {
			l.Neighborhood = normalize.Text(v)
		}
	}
	if l.Price == nil {
		if v, ok := flexFloat(payload, "price", "propertyPrice"); ok {
			l.Price = models.Float64(v)
		}
	}
	if l.Area == nil {
		if v, ok := flexFloat(payload, "area", "surface", "constructedArea"); ok {
			l.Area = models.Float64(v)
		}
	}
	if l.LastUpdated == nil {
		if v, ok := flexString(payload, "lastUpdated", "updatedAt", "modificationDate"); ok {
			l.RawLastUpdated = v
			l.LastUpdated = normalize.When(v, ref)
		}
	}
}
