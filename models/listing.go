// Package models defines the data structures shared across the evaluation
// pipeline: the canonical listing record, score results, and configuration.
package models

import "time"

// Advertiser types recognised by the scoring engine. An empty string means
// the advertiser type could not be determined.
const (
	AdvertiserAgency  = "agency"
	AdvertiserPrivate = "private"
)

// Listing is the canonical record describing one marketplace listing.
// Every field besides ID and URL is optional: nil pointers and empty strings
// mean the value could not be acquired. The scoring engine tolerates any
// subset of fields being absent.
type Listing struct {
	ID  string `json:"id"`
	URL string `json:"url"`

	Description  string   `json:"description,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Area         *float64 `json:"area,omitempty"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	PhotoCount   *int     `json:"photoCount,omitempty"`
	HasFloorPlan *bool    `json:"hasFloorPlan,omitempty"`

	// LastUpdated is the parsed update time; RawLastUpdated keeps the text
	// it was parsed from ("hace 3 días", "12/05/2025") for display. A nil
	// LastUpdated is a distinct state from "not recently updated".
	LastUpdated    *time.Time `json:"lastUpdated,omitempty"`
	RawLastUpdated string     `json:"rawLastUpdated,omitempty"`

	AdvertiserName string `json:"advertiserName,omitempty"`
	AdvertiserType string `json:"advertiserType,omitempty"`
	ContactEmail   string `json:"contactEmail,omitempty"`

	// Language is the detected language of the description ("Spanish",
	// "Catalan"). Cosmetic: the scoring engine does not read it.
	Language string `json:"language,omitempty"`
}

// Empty reports whether the listing carries no acquired attributes at all.
// Identity fields (ID, URL) do not count: a record with only those cannot
// be scored meaningfully.
func (l *Listing) Empty() bool {
	if l == nil {
		return true
	}
	return l.Description == "" &&
		l.Price == nil &&
		l.Area == nil &&
		l.Neighborhood == "" &&
		l.PhotoCount == nil &&
		l.HasFloorPlan == nil &&
		l.LastUpdated == nil &&
		l.RawLastUpdated == "" &&
		l.AdvertiserName == "" &&
		l.AdvertiserType == "" &&
		l.ContactEmail == ""
}

// Float64 returns a pointer to v. Convenience for building listings.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Time returns a pointer to v.
func Time(v time.Time) *time.Time { return &v }
