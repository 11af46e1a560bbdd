package validator

import (
	"strings"
	"testing"

	"github.com/valpere/diwan/internal"
	"github.com/valpere/diwan/internal/tashkeel"
)

func marked(runes ...rune) string { return string(runes) }

func TestTashkeel_FullyDiacritized(t *testing.T) {
	v := NewTashkeel()

	p := internal.Poem{Verses: []string{
		marked('ك', tashkeel.Fatha, 'ت', tashkeel.Fatha, 'ب', tashkeel.Fatha),
		marked('ج', tashkeel.Fatha, 'ل', tashkeel.Fatha, 'س', tashkeel.Fatha),
	}}
	r := v.Validate(p)
	if !r.Valid {
		t.Errorf("expected valid=true for fully marked verses, got %+v", r)
	}
	if r.TotalBaits != 1 || r.ValidBaits != 1 {
		t.Errorf("unexpected counters: %+v", r)
	}
}

func TestTashkeel_BareConsonants(t *testing.T) {
	v := NewTashkeel()

	p := internal.Poem{Verses: []string{"كتب", "جلس"}}
	r := v.Validate(p)
	if r.Valid {
		t.Error("expected valid=false for bare verses")
	}
	if r.InvalidBaits != 1 {
		t.Errorf("expected one invalid bait, got %d", r.InvalidBaits)
	}
	if !strings.Contains(r.Baits[0].Issue, "under-diacritized") {
		t.Errorf("expected an under-diacritization issue, got %q", r.Baits[0].Issue)
	}
}

func TestTashkeel_SukunAndShaddaSatisfy(t *testing.T) {
	v := NewTashkeel()

	p := internal.Poem{Verses: []string{
		marked('م', tashkeel.Kasra, 'ن', tashkeel.Sukun),
		marked('ر', tashkeel.Fatha, 'ب', tashkeel.Shadda),
	}}
	r := v.Validate(p)
	if !r.Valid {
		t.Errorf("expected sukun and shadda to count as marks, got %+v", r)
	}
}

func TestTashkeel_MalformedShaddaSequence(t *testing.T) {
	v := NewTashkeel()

	// Shadda directly followed by a vowel mark is a malformed ordering.
	p := internal.Poem{Verses: []string{
		marked('ر', tashkeel.Fatha, 'ب', tashkeel.Shadda, tashkeel.Kasra),
		marked('ج', tashkeel.Fatha, 'ل', tashkeel.Fatha, 'س', tashkeel.Fatha),
	}}
	r := v.Validate(p)
	if r.Valid {
		t.Error("expected valid=false for a shadda+vowel sequence")
	}
	if !strings.Contains(r.Baits[0].Issue, "malformed shadda") {
		t.Errorf("expected a malformed shadda issue, got %q", r.Baits[0].Issue)
	}
}

func TestTashkeel_BothHemistichDefectsJoined(t *testing.T) {
	v := NewTashkeel()

	// First hemistich bare, second with a shadda+vowel sequence; the bait
	// issue carries both descriptions, separated.
	p := internal.Poem{Verses: []string{
		"كتب",
		marked('ر', tashkeel.Fatha, 'ب', tashkeel.Shadda, tashkeel.Kasra),
	}}
	r := v.Validate(p)
	if r.Valid {
		t.Fatal("expected valid=false with defects in both hemistichs")
	}
	issue := r.Baits[0].Issue
	if !strings.Contains(issue, "under-diacritized") || !strings.Contains(issue, "malformed shadda") {
		t.Fatalf("expected both hemistich defects reported, got %q", issue)
	}
	if !strings.Contains(issue, "; ") {
		t.Errorf("expected the two descriptions separated, got %q", issue)
	}
}

func TestTashkeel_DefiniteArticleExemption(t *testing.T) {
	v := NewTashkeel()

	// The lam of the definite article is customarily written bare; the
	// line must still count as fully diacritized.
	line := marked(tashkeel.Alif, tashkeel.Lam, 'ق', tashkeel.Fatha, 'م', tashkeel.Fatha, 'ر', tashkeel.Damma)
	p := internal.Poem{Verses: []string{line, line}}
	r := v.Validate(p)
	if !r.Valid {
		t.Errorf("expected the article-adjacent consonant to be exempt, got %+v", r)
	}
}

func TestTashkeel_OddVerseCount(t *testing.T) {
	v := NewTashkeel()

	p := internal.Poem{Verses: []string{"أ", "ب", "ج"}}
	r := v.Validate(p)
	if r.Valid {
		t.Error("expected valid=false with no complete baits")
	}
	if r.TotalBaits != 0 {
		t.Errorf("expected zero baits, got %d", r.TotalBaits)
	}
	if !strings.Contains(r.Summary, "even") {
		t.Errorf("expected the summary to point at the verse count, got %q", r.Summary)
	}
}
