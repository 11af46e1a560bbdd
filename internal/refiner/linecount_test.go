package refiner

import (
	"context"
	"strings"
	"testing"

	"github.com/valpere/diwan/internal"
	"github.com/valpere/diwan/internal/prompt"
)

func lineCountAssessment(valid bool) *internal.QualityAssessment {
	return &internal.QualityAssessment{
		Results: map[internal.Dimension]internal.ValidationResult{
			internal.DimLineCount: {Dimension: internal.DimLineCount, Valid: valid},
		},
	}
}

func TestLineCount_Applicable(t *testing.T) {
	r := NewLineCount(&stubOracle{}, prompt.NewLibrary(), nil)

	if r.Applicable(lineCountAssessment(true)) {
		t.Error("expected not applicable when the dimension is valid")
	}
	if !r.Applicable(lineCountAssessment(false)) {
		t.Error("expected applicable when the dimension failed")
	}
	if r.Applicable(&internal.QualityAssessment{}) {
		t.Error("expected not applicable when the dimension was not evaluated")
	}
}

func TestLineCount_ExtendsToTarget(t *testing.T) {
	o := &stubOracle{response: "بَيْتٌ جَدِيدٌ أَوَّلُ\nبَيْتٌ جَدِيدٌ ثَانِي"}
	r := NewLineCount(o, prompt.NewLibrary(), nil)

	p := internal.Poem{Verses: []string{"أ", "ب", "ج", "د"}}
	c := internal.Constraints{Meter: "tawil", BaitCount: 3}

	next, detail := r.Apply(context.Background(), p, c, lineCountAssessment(false))
	if len(next.Verses) != 6 {
		t.Fatalf("expected 6 verses, got %d: %v", len(next.Verses), next.Verses)
	}
	for i, v := range p.Verses {
		if next.Verses[i] != v {
			t.Errorf("existing verse %d changed: %q", i, next.Verses[i])
		}
	}
	if !strings.Contains(detail, "appended 1 bait") {
		t.Errorf("unexpected detail: %q", detail)
	}
}

func TestLineCount_TruncatesOverlongPoem(t *testing.T) {
	r := NewLineCount(&stubOracle{}, prompt.NewLibrary(), nil)

	p := internal.Poem{Verses: []string{"أ", "ب", "ج", "د", "هـ", "و"}}
	c := internal.Constraints{BaitCount: 2}

	next, detail := r.Apply(context.Background(), p, c, lineCountAssessment(false))
	if len(next.Verses) != 4 {
		t.Fatalf("expected 4 verses, got %d", len(next.Verses))
	}
	if !strings.Contains(detail, "truncated") {
		t.Errorf("unexpected detail: %q", detail)
	}
	if len(p.Verses) != 6 {
		t.Error("the input poem must not be mutated")
	}
}

func TestLineCount_DropsDanglingHemistich(t *testing.T) {
	o := &stubOracle{response: "شَطْرٌ أَوَّلُ\nشَطْرٌ ثَانِي"}
	r := NewLineCount(o, prompt.NewLibrary(), nil)

	p := internal.Poem{Verses: []string{"أ", "ب", "ج", "د", "شطر يتيم"}}
	c := internal.Constraints{BaitCount: 3}

	next, detail := r.Apply(context.Background(), p, c, lineCountAssessment(false))
	if len(next.Verses) != 6 {
		t.Fatalf("expected 6 verses, got %d: %v", len(next.Verses), next.Verses)
	}
	if next.Verses[4] == "شطر يتيم" {
		t.Error("expected the dangling hemistich replaced by generated baits")
	}
	if !strings.Contains(detail, "dropped dangling hemistich") {
		t.Errorf("unexpected detail: %q", detail)
	}
}

func TestLineCount_NoTargetRestoresParity(t *testing.T) {
	r := NewLineCount(&stubOracle{}, prompt.NewLibrary(), nil)

	p := internal.Poem{Verses: []string{"أ", "ب", "ج"}}
	next, _ := r.Apply(context.Background(), p, internal.Constraints{}, lineCountAssessment(false))
	if len(next.Verses) != 2 {
		t.Errorf("expected the dangling line dropped, got %d verses", len(next.Verses))
	}
}

func TestLineCount_WrongOracleLineCountIsNoop(t *testing.T) {
	o := &stubOracle{response: "سطر واحد فقط"}
	r := NewLineCount(o, prompt.NewLibrary(), nil)

	p := internal.Poem{Verses: []string{"أ", "ب"}}
	c := internal.Constraints{BaitCount: 2}

	next, detail := r.Apply(context.Background(), p, c, lineCountAssessment(false))
	if len(next.Verses) != 2 {
		t.Errorf("expected the poem unchanged, got %d verses", len(next.Verses))
	}
	if !strings.Contains(detail, "wanted 2") {
		t.Errorf("unexpected detail: %q", detail)
	}
}

func TestLineCount_ExtraOracleLinesTruncated(t *testing.T) {
	o := &stubOracle{response: "الأول\nالثاني\nالثالث\nالرابع"}
	r := NewLineCount(o, prompt.NewLibrary(), nil)

	p := internal.Poem{Verses: []string{"أ", "ب"}}
	c := internal.Constraints{BaitCount: 2}

	next, _ := r.Apply(context.Background(), p, c, lineCountAssessment(false))
	if len(next.Verses) != 4 {
		t.Errorf("expected exactly the missing lines appended, got %d verses", len(next.Verses))
	}
}

func TestLineCount_OracleFailureIsNoop(t *testing.T) {
	o := &stubOracle{err: context.DeadlineExceeded}
	r := NewLineCount(o, prompt.NewLibrary(), nil)

	p := internal.Poem{Verses: []string{"أ", "ب"}}
	c := internal.Constraints{BaitCount: 2}

	next, detail := r.Apply(context.Background(), p, c, lineCountAssessment(false))
	if len(next.Verses) != 2 || next.Verses[0] != "أ" {
		t.Error("expected the poem unchanged on oracle failure")
	}
	if !strings.Contains(detail, "extension failed") {
		t.Errorf("unexpected detail: %q", detail)
	}
}
