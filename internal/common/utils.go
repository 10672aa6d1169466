// Package common holds helpers shared by the CLI commands.
package common

import (
	"log/slog"
	"os"
	"regexp"
	"strings"
)

var listingIDRe = regexp.MustCompile(`/inmueble/([0-9]+)`)

// NewLogger builds the JSON logger commands write to stderr, so
// command output on stdout stays machine-readable.
func NewLogger(quiet bool) *slog.Logger {
	level := slog.LevelInfo
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// ListingIDFromURL pulls the numeric listing id out of a detail-page
// URL. Returns "" when the URL carries none.
func ListingIDFromURL(rawURL string) string {
	if m := listingIDRe.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}

// ListingURLFromID builds the canonical detail-page URL for an id.
func ListingURLFromID(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/inmueble/" + id + "/"
}
