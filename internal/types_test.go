package internal

import (
	"testing"
)

func TestPoem_Baits_Even(t *testing.T) {
	p := Poem{Verses: []string{"a", "b", "c", "d"}}

	baits := p.Baits()
	if len(baits) != 2 {
		t.Fatalf("expected 2 baits, got %d", len(baits))
	}
	if baits[0].Index != 0 || baits[0].First != "a" || baits[0].Second != "b" {
		t.Errorf("unexpected first bait: %+v", baits[0])
	}
	if baits[1].Index != 1 || baits[1].First != "c" || baits[1].Second != "d" {
		t.Errorf("unexpected second bait: %+v", baits[1])
	}
}

func TestPoem_Baits_OddCount(t *testing.T) {
	p := Poem{Verses: []string{"a", "b", "c"}}

	if baits := p.Baits(); baits != nil {
		t.Errorf("expected nil baits for odd verse count, got %d", len(baits))
	}
	if n := p.BaitCount(); n != 0 {
		t.Errorf("expected bait count 0 for odd verse count, got %d", n)
	}
}

func TestPoem_Clone_Independent(t *testing.T) {
	p := Poem{Verses: []string{"a", "b"}, Assessment: &QualityAssessment{Score: 0.5}}

	c := p.Clone()
	c.Verses[0] = "x"

	if p.Verses[0] != "a" {
		t.Error("mutating the clone changed the original")
	}
	if c.Assessment != nil {
		t.Error("expected the clone to drop the stale assessment")
	}
}

func TestQafiya_FamilyDescription(t *testing.T) {
	q := Qafiya{Family: "mutawatir"}
	if d := q.FamilyDescription(); d == "mutawatir" {
		t.Error("expected a description for a known family")
	}

	q = Qafiya{Family: "something-else"}
	if d := q.FamilyDescription(); d != "something-else" {
		t.Errorf("expected the raw classification for an unknown family, got %q", d)
	}
}

func TestConstraints_Snapshot(t *testing.T) {
	c := Constraints{
		Meter:  "tawil",
		Qafiya: Qafiya{Letter: "ر", Vocalization: "ِ"},
		Theme:  "nostalgia",
	}

	m := c.Snapshot()
	if m["meter"] != "tawil" {
		t.Errorf("expected meter in snapshot, got %q", m["meter"])
	}
	if m["qafiya"] != "رِ" {
		t.Errorf("expected qafiya in snapshot, got %q", m["qafiya"])
	}
	if m["theme"] != "nostalgia" {
		t.Errorf("expected theme in snapshot, got %q", m["theme"])
	}
	if _, ok := m["tone"]; ok {
		t.Error("expected empty tone to be omitted")
	}
}

func TestValidationResult_InvalidIndices(t *testing.T) {
	r := ValidationResult{
		Baits: []BaitResult{
			{Index: 0, Valid: true},
			{Index: 1, Valid: false},
			{Index: 2, Valid: false},
		},
	}

	idx := r.InvalidIndices()
	if len(idx) != 2 || idx[0] != 1 || idx[1] != 2 {
		t.Errorf("unexpected invalid indices: %v", idx)
	}
}

func TestQualityAssessment_Result_Nil(t *testing.T) {
	var a *QualityAssessment
	if _, ok := a.Result(DimProsody); ok {
		t.Error("expected no result from a nil assessment")
	}
}
