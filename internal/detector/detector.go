// Package detector guards oracle output: replacement verses that do not
// detect as Arabic are rejected by the refiners instead of being spliced
// into the poem.
package detector

import (
	lingua "github.com/pemistahl/lingua-go"

	"github.com/valpere/diwan/internal/tashkeel"
)

// minDetectionLength is the minimum rune count required to attempt
// language detection. Shorter texts produce unreliable results and are
// accepted without checking.
const minDetectionLength = 12

// Detector wraps a lingua-go detector built over the languages an oracle
// plausibly answers in.
type Detector struct {
	detector lingua.LanguageDetector
}

// New builds the detector. The instance is expensive to build; reuse it.
func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.Arabic, lingua.Persian, lingua.Urdu, lingua.English, lingua.French).
		Build()

	return &Detector{detector: detector}
}

// Detect returns the detected language of text.
func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// IsArabic reports whether text appears to be Arabic. Diacritics are
// stripped first; they skew the detector's n-gram statistics. Texts too
// short to classify pass, and only a confident non-Arabic verdict fails.
func (d *Detector) IsArabic(text string) bool {
	bare := tashkeel.Strip(text)
	if len([]rune(bare)) < minDetectionLength {
		return true
	}
	lang, ok := d.Detect(bare)
	if !ok {
		return true
	}
	return lang == lingua.Arabic
}
