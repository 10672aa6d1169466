// Package merge combines acquired listing data with caller-provided
// hints and optionally completes sparse records with plausible
// neutral values before scoring.
package merge

import (
	"trust-shield/models"
)

// Merge overlays hints onto an acquired listing. Any field present in
// the hints wins; fields the hints leave unset keep the acquired
// value. Either side may be nil.
func Merge(acquired, hints *models.Listing) *models.Listing {
	if acquired == nil && hints == nil {
		return nil
	}

	out := models.Listing{}
	if acquired != nil {
		out = *acquired
	}
	if hints == nil {
		return &out
	}

	if hints.ID != "" {
		out.ID = hints.ID
	}
	if hints.URL != "" {
		out.URL = hints.URL
	}
	if hints.Description != "" {
		out.Description = hints.Description
	}
	if hints.Price != nil {
		out.Price = hints.Price
	}
	if hints.Area != nil {
		out.Area = hints.Area
	}
	if hints.Neighborhood != "" {
		out.Neighborhood = hints.Neighborhood
	}
	if hints.PhotoCount != nil {
		out.PhotoCount = hints.PhotoCount
	}
	if hints.HasFloorPlan != nil {
		out.HasFloorPlan = hints.HasFloorPlan
	}
	if hints.LastUpdated != nil {
		out.LastUpdated = hints.LastUpdated
	}
	if hints.RawLastUpdated != "" {
		out.RawLastUpdated = hints.RawLastUpdated
	}
	if hints.AdvertiserName != "" {
		out.AdvertiserName = hints.AdvertiserName
	}
	if hints.AdvertiserType != "" {
		out.AdvertiserType = hints.AdvertiserType
	}
	if hints.ContactEmail != "" {
		out.ContactEmail = hints.ContactEmail
	}
	if hints.Language != "" {
		out.Language = hints.Language
	}

	if out.Empty() {
		return nil
	}
	return &out
}
