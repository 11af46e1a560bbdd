package refiner

import (
	"context"

	"github.com/valpere/diwan/internal"
	"github.com/valpere/diwan/internal/detector"
	"github.com/valpere/diwan/internal/oracle"
	"github.com/valpere/diwan/internal/prompt"
)

// Prosody rewrites each metrically invalid bait in place, given the
// recorded scansion error. Valid baits are never touched.
type Prosody struct {
	deps
}

// NewProsody creates the prosody refiner. workers bounds the concurrent
// per-bait fix calls.
func NewProsody(o oracle.Oracle, prompts *prompt.Library, guard *detector.Detector, workers int) *Prosody {
	return &Prosody{deps{oracle: o, prompts: prompts, guard: guard, workers: workers}}
}

func (r *Prosody) Name() string {
	return "prosody"
}

func (r *Prosody) Applicable(a *internal.QualityAssessment) bool {
	return applicable(a, internal.DimProsody)
}

func (r *Prosody) Apply(ctx context.Context, p internal.Poem, c internal.Constraints, a *internal.QualityAssessment) (internal.Poem, string) {
	result, ok := a.Result(internal.DimProsody)
	if !ok {
		return p, "prosody was not evaluated"
	}

	return r.fixInvalidBaits(ctx, p, result, func(b internal.BaitResult) (string, error) {
		return r.prompts.Render(prompt.ProsodyFix, prompt.Values{
			"meter": c.Meter,
			"bait":  b.Text,
			"issue": b.Issue,
		})
	})
}
