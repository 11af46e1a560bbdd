// Package evaluator runs a selected subset of the validators over a poem
// and folds their results into one weighted QualityAssessment.
package evaluator

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/valpere/diwan/internal"
	"github.com/valpere/diwan/internal/meter"
	"github.com/valpere/diwan/internal/oracle"
	"github.com/valpere/diwan/internal/prompt"
	"github.com/valpere/diwan/internal/validator"
)

// DefaultThreshold is the acceptability threshold used when the caller
// does not supply one.
const DefaultThreshold = 0.8

// Penalty weights per failing dimension. Prosody, rhyme and tashkeel are
// scaled by the invalid/total bait ratio when per-bait detail exists;
// otherwise the full weight applies.
const (
	penaltyLineCount = 0.3
	penaltyProsody   = 0.4
	penaltyRhyme     = 0.3
	penaltyTashkeel  = 0.15
)

// AllDimensions is the full evaluation set in dependency order.
var AllDimensions = []internal.Dimension{
	internal.DimLineCount,
	internal.DimProsody,
	internal.DimRhyme,
	internal.DimTashkeel,
}

// Evaluator owns the four validators and the scoring policy.
type Evaluator struct {
	lineCount *validator.LineCount
	prosody   *validator.Prosody
	tashkeel  *validator.Tashkeel
	rhyme     *validator.Rhyme
	threshold float64
}

// New wires an evaluator over the given collaborators. workers bounds the
// concurrent per-bait oracle calls of the rhyme validator.
func New(meters meter.Source, o oracle.Oracle, prompts *prompt.Library, workers int) *Evaluator {
	return &Evaluator{
		lineCount: validator.NewLineCount(),
		prosody:   validator.NewProsody(meters),
		tashkeel:  validator.NewTashkeel(),
		rhyme:     validator.NewRhyme(o, prompts, workers),
		threshold: DefaultThreshold,
	}
}

// WithThreshold overrides the acceptability threshold.
func (e *Evaluator) WithThreshold(t float64) *Evaluator {
	if t > 0 {
		e.threshold = t
	}
	return e
}

// WithScan substitutes the prosody scansion function. Intended for tests
// and alternative scansion backends.
func (e *Evaluator) WithScan(scan validator.ScanFunc) *Evaluator {
	e.prosody = e.prosody.WithScan(scan)
	return e
}

// WithVerdictCache attaches a rhyme verdict cache.
func (e *Evaluator) WithVerdictCache(c validator.VerdictCache) *Evaluator {
	e.rhyme = e.rhyme.WithCache(c)
	return e
}

// Threshold returns the current acceptability threshold.
func (e *Evaluator) Threshold() float64 {
	return e.threshold
}

// Evaluate runs only the requested dimensions (all of them when dims is
// empty) and aggregates the outcome. The returned assessment is a fresh
// value every call; earlier assessments are never touched.
func (e *Evaluator) Evaluate(ctx context.Context, p internal.Poem, c internal.Constraints, dims []internal.Dimension) *internal.QualityAssessment {
	if len(dims) == 0 {
		dims = AllDimensions
	}

	a := &internal.QualityAssessment{
		Score:       1.0,
		Results:     make(map[internal.Dimension]internal.ValidationResult),
		Issues:      make(map[internal.Dimension][]string),
		EvaluatedAt: time.Now(),
	}

	for _, dim := range dims {
		var r internal.ValidationResult
		switch dim {
		case internal.DimLineCount:
			r = e.lineCount.Validate(p)
		case internal.DimProsody:
			r = e.prosody.Validate(p, c.Meter)
		case internal.DimRhyme:
			r = e.rhyme.Validate(ctx, p, c.Qafiya)
		case internal.DimTashkeel:
			r = e.tashkeel.Validate(p)
		default:
			continue
		}
		a.Results[dim] = r
		if !r.Valid {
			a.Score -= penalty(dim, r)
			a.Issues[dim] = issues(r)
		}
	}

	if a.Score < 0 {
		a.Score = 0
	}
	// Penalty ratios accumulate binary rounding error; snap the score so a
	// threshold comparison at an exact fraction like 0.8 holds.
	a.Score = math.Round(a.Score*1e6) / 1e6

	lineCountOK := true
	if r, ok := a.Results[internal.DimLineCount]; ok && !r.Valid {
		// An odd verse count invalidates every bait-indexed result, so it
		// disqualifies the poem regardless of score.
		lineCountOK = false
	}
	a.Acceptable = a.Score >= e.threshold && lineCountOK

	a.Recommendations = recommend(a)
	return a
}

// penalty computes the score deduction for a failing dimension.
func penalty(dim internal.Dimension, r internal.ValidationResult) float64 {
	var weight float64
	switch dim {
	case internal.DimLineCount:
		return penaltyLineCount
	case internal.DimProsody:
		weight = penaltyProsody
	case internal.DimRhyme:
		weight = penaltyRhyme
	case internal.DimTashkeel:
		weight = penaltyTashkeel
	}
	if r.TotalBaits > 0 {
		return weight * float64(r.InvalidBaits) / float64(r.TotalBaits)
	}
	return weight
}

// issues collects the result summary plus every per-bait issue message.
func issues(r internal.ValidationResult) []string {
	list := []string{r.Summary}
	for _, b := range r.Baits {
		if !b.Valid && b.Issue != "" {
			list = append(list, fmt.Sprintf("bait %d: %s", b.Index+1, b.Issue))
		}
	}
	return list
}

// recommend produces free-text guidance ordered by fix dependency.
func recommend(a *internal.QualityAssessment) []string {
	var recs []string
	if r, ok := a.Results[internal.DimLineCount]; ok && !r.Valid {
		recs = append(recs, "complete the final bait or adjust the verse count first; the other checks need complete baits")
	}
	if r, ok := a.Results[internal.DimProsody]; ok && !r.Valid && r.TotalBaits > 0 {
		recs = append(recs, "rewrite the failing baits to scan in the target meter")
	}
	if r, ok := a.Results[internal.DimRhyme]; ok && !r.Valid && r.TotalBaits > 0 {
		recs = append(recs, "rework the failing bait endings onto the target rhyme letter")
	}
	if r, ok := a.Results[internal.DimTashkeel]; ok && !r.Valid {
		recs = append(recs, "rediacritize the poem so every consonant carries a mark")
	}
	return recs
}
