package merge

import (
	"sync"

	"github.com/pemistahl/lingua-go"

	"trust-shield/models"
)

// The portal serves Spanish, Catalan and English copy; restricting the
// detector to those keeps it fast and accurate on short texts.
var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.Spanish, lingua.Catalan, lingua.English).
			Build()
	})
	return detector
}

// DetectLanguage annotates the listing with the language of its
// description. Empty descriptions and inconclusive detections leave
// the field empty.
func DetectLanguage(l *models.Listing) {
	if l == nil || l.Description == "" {
		return
	}
	if lang, ok := languageDetector().DetectLanguageOf(l.Description); ok {
		l.Language = lang.String()
	}
}
