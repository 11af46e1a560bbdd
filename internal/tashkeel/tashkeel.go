// Package tashkeel implements diacritic-level text handling for Arabic
// verse: rune classification, shadda/vowel-mark normalization, diacritic
// stripping, and the scansion that derives a bait's binary stress pattern.
package tashkeel

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Arabic combining marks.
const (
	Fathatan = 'ً' // tanween forms
	Dammatan = 'ٌ'
	Kasratan = 'ٍ'
	Fatha    = 'َ'
	Damma    = 'ُ'
	Kasra    = 'ِ'
	Shadda   = 'ّ'
	Sukun    = 'ْ'

	Alif        = 'ا'
	AlifMadda   = 'آ'
	AlifHamzaA  = 'أ'
	AlifHamzaB  = 'إ'
	AlifMaqsura = 'ى'
	Waw         = 'و'
	Ya          = 'ي'
	Lam         = 'ل'
)

// IsHaraka reports whether r is a short vowel mark (fatha, damma, kasra).
func IsHaraka(r rune) bool {
	return r == Fatha || r == Damma || r == Kasra
}

// IsTanween reports whether r is a nunation mark.
func IsTanween(r rune) bool {
	return r == Fathatan || r == Dammatan || r == Kasratan
}

// IsVowelMark reports whether r is any vowel mark (haraka or tanween).
func IsVowelMark(r rune) bool {
	return IsHaraka(r) || IsTanween(r)
}

// IsMark reports whether r is any combining diacritic, sukun and shadda
// included.
func IsMark(r rune) bool {
	return r >= 'ً' && r <= 'ْ'
}

// IsLetter reports whether r is an Arabic letter (hamza through ya).
func IsLetter(r rune) bool {
	return r >= 'ء' && r <= 'ي'
}

// IsAlifForm reports whether r is one of the alif letter shapes, which
// never carry a vowel mark of their own.
func IsAlifForm(r rune) bool {
	return r == Alif || r == AlifMadda || r == AlifHamzaA || r == AlifHamzaB || r == AlifMaqsura
}

// IsConsonant reports whether r is an Arabic letter that is expected to
// carry (or be followed by) a vowel mark. Alif shapes are excluded: they
// only ever stand for a long vowel.
func IsConsonant(r rune) bool {
	return IsLetter(r) && !IsAlifForm(r)
}

// Normalize applies Unicode NFC so that decomposed letter+mark sequences
// compare and scan consistently.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// Strip removes all combining diacritics from s, leaving bare letters.
func Strip(s string) string {
	var b strings.Builder
	for _, r := range s {
		if !IsMark(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeShadda removes any vowel mark immediately adjacent to a shadda,
// in either order, keeping only the shadda. Oracle output frequently
// renders gemination as shadda+haraka or haraka+shadda; downstream
// validation expects the bare shadda.
func NormalizeShadda(s string) string {
	runes := []rune(Normalize(s))
	out := make([]rune, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if IsVowelMark(r) && i+1 < len(runes) && runes[i+1] == Shadda {
			continue // haraka before shadda: drop the haraka
		}
		out = append(out, r)
		if r == Shadda {
			for i+1 < len(runes) && IsVowelMark(runes[i+1]) {
				i++ // shadda before haraka: drop the haraka(s)
			}
		}
	}
	return string(out)
}
