package tashkeel

import (
	"fmt"
	"strings"
)

// Scan derives the binary stress pattern of diacritized verse text using
// the written-form scansion convention:
//
//	letter + haraka            → "1"  (mutaharrik)
//	letter + sukun             → "0"  (sakin)
//	bare letter (long vowel)   → "0"
//	letter + shadda            → "01" (doubled: sakin then mutaharrik)
//	letter + tanween           → "10" (haraka then hidden sakin nun)
//
// Non-Arabic runes (spaces, punctuation, boundary markers) are skipped.
// Scan fails when the text contains no Arabic letters at all.
func Scan(text string) (string, error) {
	runes := []rune(Normalize(text))
	var b strings.Builder

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if !IsLetter(r) {
			continue
		}

		var shadda, sukun bool
		var haraka, tanween bool
		for i+1 < len(runes) && IsMark(runes[i+1]) {
			i++
			switch {
			case runes[i] == Shadda:
				shadda = true
			case runes[i] == Sukun:
				sukun = true
			case IsTanween(runes[i]):
				tanween = true
			case IsHaraka(runes[i]):
				haraka = true
			}
		}

		if shadda {
			// Doubled letter: the first instance closes the previous
			// syllable, the second opens a new one.
			b.WriteString("01")
			if tanween {
				b.WriteString("0")
			}
			continue
		}
		switch {
		case tanween:
			b.WriteString("10")
		case haraka:
			b.WriteString("1")
		case sukun:
			b.WriteString("0")
		default:
			// Bare letter: alif, waw or ya standing for a long vowel,
			// or an unmarked final consonant. Both scan as sakin.
			b.WriteString("0")
		}
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("no Arabic letters to scan")
	}
	return b.String(), nil
}
