package refiner

import (
	"context"

	"github.com/valpere/diwan/internal"
	"github.com/valpere/diwan/internal/detector"
	"github.com/valpere/diwan/internal/oracle"
	"github.com/valpere/diwan/internal/prompt"
	"github.com/valpere/diwan/internal/verse"
)

// Rhyme rewrites each bait whose ending breaks the qafiya. Unlike the
// prosody fix, the instruction carries the full current poem: a rhyme
// correction needs whole-poem context that a meter correction does not.
type Rhyme struct {
	deps
}

// NewRhyme creates the rhyme refiner.
func NewRhyme(o oracle.Oracle, prompts *prompt.Library, guard *detector.Detector, workers int) *Rhyme {
	return &Rhyme{deps{oracle: o, prompts: prompts, guard: guard, workers: workers}}
}

func (r *Rhyme) Name() string {
	return "rhyme"
}

func (r *Rhyme) Applicable(a *internal.QualityAssessment) bool {
	return applicable(a, internal.DimRhyme)
}

func (r *Rhyme) Apply(ctx context.Context, p internal.Poem, c internal.Constraints, a *internal.QualityAssessment) (internal.Poem, string) {
	result, ok := a.Result(internal.DimRhyme)
	if !ok {
		return p, "rhyme was not evaluated"
	}

	poemText := verse.Join(p.Verses)
	return r.fixInvalidBaits(ctx, p, result, func(b internal.BaitResult) (string, error) {
		values := merge(qafiyaValues(c.Qafiya), prompt.Values{
			"poem":  poemText,
			"bait":  b.Text,
			"issue": b.Issue,
		})
		return r.prompts.Render(prompt.RhymeFix, values)
	})
}
