// Package refiner implements the fix side of the pipeline: one refiner
// per correctness dimension, plus the Chain that drives the bounded
// evaluate→refine cycle.
//
// Refiners are fail-safe, not fail-fast: on any oracle or parse failure
// they return the input poem unmodified and describe the problem in the
// step detail. A bait the corresponding validator marked valid is never
// touched.
package refiner

import (
	"context"
	"strings"

	"github.com/valpere/diwan/internal"
	"github.com/valpere/diwan/internal/detector"
	"github.com/valpere/diwan/internal/oracle"
	"github.com/valpere/diwan/internal/postprocess"
	"github.com/valpere/diwan/internal/prompt"
	"github.com/valpere/diwan/internal/verse"
)

// Refiner fixes one dimension of a poem.
type Refiner interface {
	Name() string

	// Applicable reports whether this refiner's dimension was evaluated
	// and found invalid.
	Applicable(a *internal.QualityAssessment) bool

	// Apply returns the (possibly unchanged) refined poem and a free-text
	// detail for the audit trail.
	Apply(ctx context.Context, p internal.Poem, c internal.Constraints, a *internal.QualityAssessment) (internal.Poem, string)
}

// DefaultSet builds the closed refiner set in its fixed application
// order: line count first (the bait-indexed dimensions are meaningless
// until it holds), then prosody, rhyme, and diacritics.
func DefaultSet(o oracle.Oracle, prompts *prompt.Library, guard *detector.Detector, workers int) []Refiner {
	return []Refiner{
		NewLineCount(o, prompts, guard),
		NewProsody(o, prompts, guard, workers),
		NewRhyme(o, prompts, guard, workers),
		NewTashkeel(o, prompts, guard),
	}
}

// deps bundles the collaborators every oracle-backed refiner needs.
type deps struct {
	oracle  oracle.Oracle
	prompts *prompt.Library
	guard   *detector.Detector
	workers int
}

// applicable implements the shared Applicable contract for dim.
func applicable(a *internal.QualityAssessment, dim internal.Dimension) bool {
	r, ok := a.Result(dim)
	return ok && !r.Valid
}

// generateLines runs one oracle call and segments the cleaned response
// into verse lines. Non-Arabic output is rejected.
func (d deps) generateLines(ctx context.Context, instruction string) ([]string, error) {
	response, err := d.oracle.Generate(ctx, instruction)
	if err != nil {
		return nil, err
	}
	lines := verse.Split(postprocess.Clean(response))
	if d.guard != nil && len(lines) > 0 && !d.guard.IsArabic(strings.Join(lines, " ")) {
		return nil, errNotArabic
	}
	return lines, nil
}

type constError string

func (e constError) Error() string { return string(e) }

const errNotArabic = constError("oracle reply is not Arabic")

// qafiyaValues renders the rhyme spec fields shared by several templates.
func qafiyaValues(q internal.Qafiya) prompt.Values {
	return prompt.Values{
		"rhyme_letter":       q.Letter,
		"rhyme_vocalization": q.Vocalization,
		"rhyme_family":       q.Family,
		"rhyme_description":  q.FamilyDescription(),
		"rhyme_example":      q.Example,
	}
}

// merge copies extra values into base and returns base.
func merge(base prompt.Values, extra prompt.Values) prompt.Values {
	for k, v := range extra {
		base[k] = v
	}
	return base
}
