// Package internal holds the data model shared by the validation and
// refinement pipeline: poems, their verse-pairs (baits), the target
// constraints, per-dimension validation results, and the refinement
// audit trail.
package internal

import "time"

// Dimension identifies one correctness dimension of a poem.
type Dimension string

const (
	DimLineCount Dimension = "line_count"
	DimProsody   Dimension = "prosody"
	DimRhyme     Dimension = "rhyme"
	DimTashkeel  Dimension = "tashkeel"
)

// Poem is an ordered sequence of verse lines plus provenance metadata.
// Poems are never mutated in place: every refinement step produces a new
// value and the refinement loop threads the current one forward.
type Poem struct {
	ID          string            `json:"id"`
	Verses      []string          `json:"verses"`
	Provider    string            `json:"provider"`
	Model       string            `json:"model"`
	Constraints map[string]string `json:"constraints,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	Assessment  *QualityAssessment `json:"assessment,omitempty"`
}

// Bait is a verse-pair: the two lines at indices 2i and 2i+1. It is the
// atomic unit of metrical and rhyme validation. Baits exist only when the
// poem's verse count is even.
type Bait struct {
	Index  int    `json:"index"`
	First  string `json:"first"`
	Second string `json:"second"`
}

// Baits returns the complete verse-pairs of p. An odd verse count yields
// zero complete pairs.
func (p Poem) Baits() []Bait {
	if len(p.Verses)%2 != 0 {
		return nil
	}
	baits := make([]Bait, 0, len(p.Verses)/2)
	for i := 0; i+1 < len(p.Verses); i += 2 {
		baits = append(baits, Bait{Index: i / 2, First: p.Verses[i], Second: p.Verses[i+1]})
	}
	return baits
}

// BaitCount returns the number of complete verse-pairs (0 for odd counts).
func (p Poem) BaitCount() int {
	if len(p.Verses)%2 != 0 {
		return 0
	}
	return len(p.Verses) / 2
}

// Clone returns a copy of p with its own verse slice, ready for mutation
// by a refiner without touching the original.
func (p Poem) Clone() Poem {
	verses := make([]string, len(p.Verses))
	copy(verses, p.Verses)
	p.Verses = verses
	p.Assessment = nil
	return p
}

// Qafiya is the rhyme specification every bait ending must satisfy.
type Qafiya struct {
	Letter       string `json:"letter"`        // rawi letter
	Vocalization string `json:"vocalization"`  // harakat al-rawi
	Family       string `json:"family"`        // mutawatir, mutarakib, ...
	Example      string `json:"example"`       // rendered ending pattern
}

// rhymeFamilies maps a qafiya family classification to its description as
// used in oracle instructions.
var rhymeFamilies = map[string]string{
	"mutakawis":  "four moving letters between the two sakin letters",
	"mutarakib":  "three moving letters between the two sakin letters",
	"mutadarik":  "two moving letters between the two sakin letters",
	"mutawatir":  "one moving letter between the two sakin letters",
	"mutaradif":  "the two sakin letters are adjacent",
}

// FamilyDescription returns the human-readable description of the rhyme
// family, or the raw classification when it is not a known family.
func (q Qafiya) FamilyDescription() string {
	if d, ok := rhymeFamilies[q.Family]; ok {
		return d
	}
	return q.Family
}

// Constraints describe the target poem. Meter and Qafiya and BaitCount
// drive validation; the descriptive fields are passed through to the
// oracle untouched.
type Constraints struct {
	Meter     string `json:"meter"` // free-text key into the meter table
	Qafiya    Qafiya `json:"qafiya"`
	BaitCount int    `json:"bait_count"`
	Theme     string `json:"theme,omitempty"`
	Tone      string `json:"tone,omitempty"`
	Register  string `json:"register,omitempty"`
}

// Snapshot renders the constraints as an opaque string map for attaching
// to a Poem's provenance.
func (c Constraints) Snapshot() map[string]string {
	m := map[string]string{
		"meter":  c.Meter,
		"qafiya": c.Qafiya.Letter + c.Qafiya.Vocalization,
	}
	if c.Theme != "" {
		m["theme"] = c.Theme
	}
	if c.Tone != "" {
		m["tone"] = c.Tone
	}
	if c.Register != "" {
		m["register"] = c.Register
	}
	return m
}

// BaitResult is the verdict for a single verse-pair within one dimension.
type BaitResult struct {
	Index   int    `json:"index"`
	Valid   bool   `json:"valid"`
	Text    string `json:"text,omitempty"`
	Pattern string `json:"pattern,omitempty"` // derived stress pattern, prosody only
	Issue   string `json:"issue,omitempty"`
}

// ValidationResult is the common shape shared by all four dimensions.
// Invariant: ValidBaits + InvalidBaits == TotalBaits, and TotalBaits is
// the number of complete verse-pairs (0 when the verse count is odd).
type ValidationResult struct {
	Dimension    Dimension    `json:"dimension"`
	Valid        bool         `json:"valid"`
	TotalBaits   int          `json:"total_baits"`
	ValidBaits   int          `json:"valid_baits"`
	InvalidBaits int          `json:"invalid_baits"`
	Baits        []BaitResult `json:"baits,omitempty"`
	Summary      string       `json:"summary"`

	// Line-count dimension only.
	LineCount  int  `json:"line_count,omitempty"`
	EvenCount  bool `json:"even_count,omitempty"`
}

// InvalidIndices returns the indices of invalid baits in ascending order.
func (r ValidationResult) InvalidIndices() []int {
	var idx []int
	for _, b := range r.Baits {
		if !b.Valid {
			idx = append(idx, b.Index)
		}
	}
	return idx
}

// QualityAssessment aggregates validation results into a single score.
// Created once per evaluation; never mutated.
type QualityAssessment struct {
	Score           float64                        `json:"score"` // in [0, 1]
	Acceptable      bool                           `json:"acceptable"`
	Results         map[Dimension]ValidationResult `json:"results"`
	Issues          map[Dimension][]string         `json:"issues,omitempty"`
	Recommendations []string                       `json:"recommendations,omitempty"`
	EvaluatedAt     time.Time                      `json:"evaluated_at"`
}

// Result returns the validation result for dim, if that dimension was
// evaluated.
func (a *QualityAssessment) Result(dim Dimension) (ValidationResult, bool) {
	if a == nil {
		return ValidationResult{}, false
	}
	r, ok := a.Results[dim]
	return r, ok
}

// RefinementStep is one immutable entry of the refinement audit trail.
type RefinementStep struct {
	Refiner     string    `json:"refiner"`
	Iteration   int       `json:"iteration"`
	Before      Poem      `json:"before"`
	After       Poem      `json:"after"`
	ScoreBefore float64   `json:"score_before"`
	ScoreAfter  float64   `json:"score_after"`
	Detail      string    `json:"detail,omitempty"`
	AppliedAt   time.Time `json:"applied_at"`
}
