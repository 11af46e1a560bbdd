package validator

import (
	"fmt"

	"github.com/valpere/diwan/internal"
	"github.com/valpere/diwan/internal/tashkeel"
)

// Tashkeel checks each bait for under-diacritized consonants and
// malformed shadda sequences. It depends on the line-count dimension
// having passed: with an odd verse count there are no complete baits to
// scan, and the result is immediately negative.
type Tashkeel struct{}

// NewTashkeel creates the diacritic validator.
func NewTashkeel() *Tashkeel {
	return &Tashkeel{}
}

// Validate scans every bait character by character.
func (v *Tashkeel) Validate(p internal.Poem) internal.ValidationResult {
	if p.BaitCount() == 0 {
		return internal.ValidationResult{
			Dimension: internal.DimTashkeel,
			Valid:     false,
			Summary:   "no complete baits to scan; the verse count must be even before diacritics can be checked",
		}
	}

	baits := p.Baits()
	results := make([]internal.BaitResult, 0, len(baits))
	for _, b := range baits {
		results = append(results, checkBaitTashkeel(b))
	}

	r := aggregate(internal.DimTashkeel, results)
	r.Summary = failureSummary(r, "carry complete diacritics")
	return r
}

func checkBaitTashkeel(b internal.Bait) internal.BaitResult {
	res := internal.BaitResult{Index: b.Index, Text: baitText(b)}

	first := scanLineTashkeel(b.First)
	second := scanLineTashkeel(b.Second)
	switch {
	case first == "" && second == "":
		res.Valid = true
	case first == "":
		res.Issue = second
	case second == "":
		res.Issue = first
	default:
		res.Issue = first + "; " + second
	}
	return res
}

// scanLineTashkeel walks one hemistich and returns a description of its
// diacritic defects, or "" when the line is fully marked.
func scanLineTashkeel(line string) string {
	runes := []rune(tashkeel.Normalize(line))
	var bare, malformed int

	for i, r := range runes {
		if r == tashkeel.Shadda && i+1 < len(runes) && tashkeel.IsVowelMark(runes[i+1]) {
			// Gemination must stand alone; shadda followed by a vowel
			// mark is a malformed ordering the fix step normalizes away.
			malformed++
			continue
		}

		if !tashkeel.IsConsonant(r) {
			continue
		}
		if definiteArticleExempt(runes, i) {
			continue
		}
		if !markedWithin(runes, i, 2) {
			bare++
		}
	}

	switch {
	case bare > 0 && malformed > 0:
		return fmt.Sprintf("%d under-diacritized consonant(s) and %d malformed shadda sequence(s)", bare, malformed)
	case bare > 0:
		return fmt.Sprintf("%d under-diacritized consonant(s)", bare)
	case malformed > 0:
		return fmt.Sprintf("%d malformed shadda sequence(s)", malformed)
	}
	return ""
}

// markedWithin reports whether any of the lookahead runes after position i
// is a diacritic that satisfies the consonant: a vowel mark, a sukun, or a
// shadda. The sun-letter case (consonant doubled by shadda right after the
// article) is covered by the shadda arm.
func markedWithin(runes []rune, i, lookahead int) bool {
	for j := i + 1; j <= i+lookahead && j < len(runes); j++ {
		r := runes[j]
		if tashkeel.IsVowelMark(r) || r == tashkeel.Sukun || r == tashkeel.Shadda {
			return true
		}
	}
	return false
}

// definiteArticleExempt reports whether the consonant at position i
// directly follows the alif+lam digraph of the definite article, whose
// lam is customarily written without a mark.
func definiteArticleExempt(runes []rune, i int) bool {
	return i >= 2 && runes[i-1] == tashkeel.Lam && runes[i-2] == tashkeel.Alif
}
