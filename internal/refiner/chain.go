package refiner

import (
	"context"
	"fmt"
	"time"

	"github.com/valpere/diwan/internal"
	"github.com/valpere/diwan/internal/evaluator"
)

// Outcome is the terminal state of a refinement run. The distinction is
// informational: every outcome carries the resulting poem and the full
// step history.
type Outcome string

const (
	// Converged: the quality score cleared the target.
	Converged Outcome = "converged"
	// Stalled: the score is below target but no refiner is applicable.
	Stalled Outcome = "stalled"
	// Exhausted: the iteration budget was spent.
	Exhausted Outcome = "exhausted"
)

// Config bounds a refinement run.
type Config struct {
	TargetQuality float64 `mapstructure:"target_quality" json:"target_quality"`
	MaxIterations int     `mapstructure:"max_iterations" json:"max_iterations"`
}

// DefaultConfig is used for zero-valued config fields.
var DefaultConfig = Config{TargetQuality: evaluator.DefaultThreshold, MaxIterations: 5}

// Result is the outcome of one refinement run.
type Result struct {
	Poem       internal.Poem             `json:"poem"` // best poem found (latest on convergence)
	Outcome    Outcome                   `json:"outcome"`
	Iterations int                       `json:"iterations"`
	Steps      []internal.RefinementStep `json:"steps"`
	Final      *internal.QualityAssessment `json:"final"` // assessment of Poem
}

// Chain owns the evaluate→select→apply→re-evaluate cycle. A chain holds
// no mutable poem state between runs; independent chains may refine
// different poems concurrently.
type Chain struct {
	eval     *evaluator.Evaluator
	refiners []Refiner
	cfg      Config
	logf     func(format string, args ...any)
}

// NewChain builds the loop over an evaluator and the refiners in their
// fixed application order: line count before the bait-indexed dimensions,
// diacritics last.
func NewChain(eval *evaluator.Evaluator, refiners []Refiner, cfg Config) *Chain {
	if cfg.TargetQuality <= 0 {
		cfg.TargetQuality = DefaultConfig.TargetQuality
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultConfig.MaxIterations
	}
	return &Chain{eval: eval, refiners: refiners, cfg: cfg}
}

// WithLogf directs progress messages (applied refiners, no-op steps) to
// the given printf-style sink. The chain stays silent without one.
func (c *Chain) WithLogf(logf func(format string, args ...any)) *Chain {
	c.logf = logf
	return c
}

func (c *Chain) logln(format string, args ...any) {
	if c.logf != nil {
		c.logf(format, args...)
	}
}

// Run refines poem until the score clears the target, no refiner applies,
// or the iteration budget is spent. The input poem is never mutated; the
// loop threads a fresh value through every step. Beyond the initial
// evaluation, at most MaxIterations further evaluations are performed.
func (c *Chain) Run(ctx context.Context, poem internal.Poem, constraints internal.Constraints) (*Result, error) {
	if c.eval == nil {
		return nil, fmt.Errorf("chain has no evaluator")
	}

	dims := dimensionsFor(constraints)

	current := poem
	assessment := c.eval.Evaluate(ctx, current, constraints, dims)
	current.Assessment = assessment

	best := current
	bestScore := assessment.Score

	res := &Result{}

	for iteration := 1; ; iteration++ {
		if assessment.Score >= c.cfg.TargetQuality {
			res.Poem = current
			res.Outcome = Converged
			res.Final = assessment
			return res, nil
		}

		var selected []Refiner
		for _, r := range c.refiners {
			if r.Applicable(assessment) {
				selected = append(selected, r)
			}
		}
		if len(selected) == 0 {
			res.Poem = best
			res.Outcome = Stalled
			res.Final = best.Assessment
			return res, nil
		}

		// Each refiner's output feeds the next refiner within the same
		// iteration.
		firstStep := len(res.Steps)
		for _, r := range selected {
			before := current
			next, detail := r.Apply(ctx, current, constraints, assessment)
			if len(next.Verses) == len(before.Verses) && sameVerses(next.Verses, before.Verses) {
				c.logln("iteration %d: %s: no-op (%s)", iteration, r.Name(), detail)
			} else {
				c.logln("iteration %d: %s: %s", iteration, r.Name(), detail)
			}
			res.Steps = append(res.Steps, internal.RefinementStep{
				Refiner:     r.Name(),
				Iteration:   iteration,
				Before:      before,
				After:       next,
				ScoreBefore: assessment.Score,
				Detail:      detail,
				AppliedAt:   time.Now(),
			})
			current = next
		}

		res.Iterations = iteration
		assessment = c.eval.Evaluate(ctx, current, constraints, dims)
		current.Assessment = assessment
		for i := firstStep; i < len(res.Steps); i++ {
			res.Steps[i].ScoreAfter = assessment.Score
		}
		if assessment.Score > bestScore {
			best = current
			bestScore = assessment.Score
		}

		if iteration >= c.cfg.MaxIterations {
			if assessment.Score >= c.cfg.TargetQuality {
				res.Poem = current
				res.Outcome = Converged
				res.Final = assessment
			} else {
				res.Poem = best
				res.Outcome = Exhausted
				res.Final = best.Assessment
			}
			return res, nil
		}
	}
}

// dimensionsFor selects the dimensions to evaluate: rhyme is skipped when
// no rhyme letter is set.
func dimensionsFor(c internal.Constraints) []internal.Dimension {
	if c.Qafiya.Letter != "" {
		return evaluator.AllDimensions
	}
	dims := make([]internal.Dimension, 0, len(evaluator.AllDimensions)-1)
	for _, d := range evaluator.AllDimensions {
		if d != internal.DimRhyme {
			dims = append(dims, d)
		}
	}
	return dims
}

func sameVerses(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
