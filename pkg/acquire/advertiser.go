package acquire

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"trust-shield/models"
	"trust-shield/pkg/normalize"
)

// ldJSONRoles are the structured-data keys under which portals file the
// party behind a listing.
var ldJSONRoles = []string{"seller", "publisher", "agent", "author", "provider", "advertiser"}

const maxLDJSONDepth = 6

// extractAdvertiser fills advertiser identity from the page, cheapest
// source first: mailto links, data attributes, hidden form fields, then
// ld+json structured data.
func extractAdvertiser(l *models.Listing, doc *goquery.Document) {
	if l.ContactEmail == "" {
		doc.Find("a[href^='mailto:']").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			href, _ := sel.Attr("href")
			addr := strings.TrimPrefix(href, "mailto:")
			if i := strings.IndexAny(addr, "?&"); i >= 0 {
				addr = addr[:i]
			}
			if strings.Contains(addr, "@") {
				l.ContactEmail = strings.TrimSpace(addr)
				return false
			}
			return true
		})
	}

	if l.AdvertiserName == "" {
		attrs := []struct {
			name   string
			agency bool
		}{
			{"data-advertiser-name", false},
			{"data-agency-name", true},
		}
		for _, a := range attrs {
			node := doc.Find("[" + a.name + "]").First()
			if node.Length() == 0 {
				continue
			}
			if v, ok := node.Attr(a.name); ok && strings.TrimSpace(v) != "" {
				l.AdvertiserName = normalize.Text(v)
				if a.agency {
					l.AdvertiserType = models.AdvertiserAgency
				}
				break
			}
		}
	}

	if l.AdvertiserName == "" {
		doc.Find("input[type='hidden'][name*='advertiser']").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if v, ok := sel.Attr("value"); ok && strings.TrimSpace(v) != "" {
				l.AdvertiserName = normalize.Text(v)
				return false
			}
			return true
		})
	}

	if l.AdvertiserName == "" && l.ContactEmail == "" {
		name, email := advertiserFromLDJSON(doc)
		if name != "" {
			l.AdvertiserName = normalize.Text(name)
		}
		if email != "" {
			l.ContactEmail = strings.TrimSpace(email)
		}
	}

	if l.AdvertiserType == "" && l.AdvertiserName != "" {
		lower := strings.ToLower(l.AdvertiserName)
		for _, kw := range []string{"inmobiliaria", "real estate", "agencia", "gestión", "properties"} {
			if strings.Contains(lower, kw) {
				l.AdvertiserType = models.AdvertiserAgency
				break
			}
		}
	}
}

// advertiserFromLDJSON walks every ld+json block looking for a party
// object under a known role key. The walk is bounded and iterates map
// keys in sorted order so results do not depend on map ordering.
func advertiserFromLDJSON(doc *goquery.Document) (name, email string) {
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var root any
		if err := json.Unmarshal([]byte(sel.Text()), &root); err != nil {
			return true
		}
		name, email = findParty(root, 0)
		return name == "" && email == ""
	})
	return name, email
}

func findParty(node any, depth int) (string, string) {
	if depth > maxLDJSONDepth {
		return "", ""
	}

	switch t := node.(type) {
	case map[string]any:
		for _, role := range ldJSONRoles {
			if party, ok := t[role]; ok {
				if name, email := partyIdentity(party); name != "" || email != "" {
					return name, email
				}
			}
		}
		for _, key := range sortedKeys(t) {
			if name, email := findParty(t[key], depth+1); name != "" || email != "" {
				return name, email
			}
		}
	case []any:
		for _, item := range t {
			if name, email := findParty(item, depth+1); name != "" || email != "" {
				return name, email
			}
		}
	}
	return "", ""
}

func partyIdentity(party any) (string, string) {
	m, ok := party.(map[string]any)
	if !ok {
		return "", ""
	}
	name, _ := m["name"].(string)
	email, _ := m["email"].(string)
	return strings.TrimSpace(name), strings.TrimSpace(email)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
