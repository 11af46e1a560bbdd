package refiner

import (
	"context"
	"strings"
	"testing"

	"github.com/valpere/diwan/internal"
	"github.com/valpere/diwan/internal/prompt"
)

func rhymeAssessment(baits []internal.BaitResult) *internal.QualityAssessment {
	r := internal.ValidationResult{Dimension: internal.DimRhyme, TotalBaits: len(baits), Baits: baits}
	for _, b := range baits {
		if b.Valid {
			r.ValidBaits++
		} else {
			r.InvalidBaits++
		}
	}
	r.Valid = r.TotalBaits > 0 && r.InvalidBaits == 0
	return &internal.QualityAssessment{
		Results: map[internal.Dimension]internal.ValidationResult{internal.DimRhyme: r},
	}
}

func TestRhyme_ReplacesBrokenBait(t *testing.T) {
	o := &stubOracle{response: "شَطْرٌ عَلَى القَافِيَةِ\nيَنْتَهِي بِالقَمَرِ"}
	r := NewRhyme(o, prompt.NewLibrary(), nil, 1)

	p := internal.Poem{Verses: []string{"أ", "ب", "ج", "د"}}
	c := internal.Constraints{Qafiya: internal.Qafiya{Letter: "ر", Vocalization: "ِ"}}
	a := rhymeAssessment([]internal.BaitResult{
		{Index: 0, Valid: false, Text: "أ … ب", Issue: "ends on the wrong letter"},
		{Index: 1, Valid: true},
	})

	next, detail := r.Apply(context.Background(), p, c, a)
	if next.Verses[0] == "أ" {
		t.Error("expected the broken bait replaced")
	}
	if next.Verses[2] != "ج" || next.Verses[3] != "د" {
		t.Error("the valid bait must never be touched")
	}
	if !strings.Contains(detail, "fixed bait(s) 1") {
		t.Errorf("unexpected detail: %q", detail)
	}
}

func TestRhyme_NotApplicableWhenValid(t *testing.T) {
	r := NewRhyme(&stubOracle{}, prompt.NewLibrary(), nil, 1)

	a := rhymeAssessment([]internal.BaitResult{{Index: 0, Valid: true}})
	if r.Applicable(a) {
		t.Error("expected not applicable when the rhyme dimension holds")
	}
}

func TestRhyme_OracleFailureLeavesPoemUnchanged(t *testing.T) {
	o := &stubOracle{err: context.DeadlineExceeded}
	r := NewRhyme(o, prompt.NewLibrary(), nil, 1)

	p := internal.Poem{Verses: []string{"أ", "ب"}}
	a := rhymeAssessment([]internal.BaitResult{
		{Index: 0, Valid: false, Text: "أ … ب", Issue: "wrong letter"},
	})

	next, detail := r.Apply(context.Background(), p, internal.Constraints{}, a)
	if next.Verses[0] != "أ" || next.Verses[1] != "ب" {
		t.Error("expected the poem unchanged on oracle failure")
	}
	if !strings.Contains(detail, "no bait fixed") {
		t.Errorf("unexpected detail: %q", detail)
	}
}
