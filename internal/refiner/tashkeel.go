package refiner

import (
	"context"
	"fmt"
	"strings"

	"github.com/valpere/diwan/internal"
	"github.com/valpere/diwan/internal/detector"
	"github.com/valpere/diwan/internal/oracle"
	"github.com/valpere/diwan/internal/prompt"
	"github.com/valpere/diwan/internal/tashkeel"
	"github.com/valpere/diwan/internal/verse"
)

// Tashkeel requests a fully re-diacritized rendition of the whole poem in
// one oracle call, then normalizes shadda+vowel sequences down to the
// bare shadda. Only the lines of baits the validator found invalid are
// replaced; a rediacritized line whose bare letters differ from the
// original is rejected.
type Tashkeel struct {
	deps
}

// NewTashkeel creates the diacritic refiner.
func NewTashkeel(o oracle.Oracle, prompts *prompt.Library, guard *detector.Detector) *Tashkeel {
	return &Tashkeel{deps{oracle: o, prompts: prompts, guard: guard}}
}

func (r *Tashkeel) Name() string {
	return "tashkeel"
}

func (r *Tashkeel) Applicable(a *internal.QualityAssessment) bool {
	return applicable(a, internal.DimTashkeel)
}

func (r *Tashkeel) Apply(ctx context.Context, p internal.Poem, c internal.Constraints, a *internal.QualityAssessment) (internal.Poem, string) {
	result, ok := a.Result(internal.DimTashkeel)
	if !ok {
		return p, "tashkeel was not evaluated"
	}

	instruction, err := r.prompts.Render(prompt.Rediacritize, prompt.Values{
		"poem": verse.Join(p.Verses),
	})
	if err != nil {
		return p, fmt.Sprintf("could not build rediacritization instruction: %v", err)
	}

	lines, err := r.generateLines(ctx, instruction)
	if err != nil {
		return p, fmt.Sprintf("rediacritization failed: %v", err)
	}
	if len(lines) != len(p.Verses) {
		return p, fmt.Sprintf("oracle returned %d line(s), wanted %d; poem left unchanged", len(lines), len(p.Verses))
	}

	invalid := make(map[int]bool, result.InvalidBaits)
	for _, i := range result.InvalidIndices() {
		invalid[i] = true
	}

	next := p.Clone()
	var replaced, rejected int
	for i := range next.Verses {
		if !invalid[i/2] {
			continue // bait already valid, keep its lines as they are
		}
		fixed := tashkeel.NormalizeShadda(lines[i])
		if !sameLetters(fixed, next.Verses[i]) {
			rejected++
			continue
		}
		next.Verses[i] = fixed
		replaced++
	}

	if replaced == 0 {
		return p, fmt.Sprintf("no line replaced (%d rejected for altered wording)", rejected)
	}
	detail := fmt.Sprintf("rediacritized %d line(s)", replaced)
	if rejected > 0 {
		detail += fmt.Sprintf("; %d rejected for altered wording", rejected)
	}
	return next, detail
}

// sameLetters compares two lines after stripping diacritics and spacing.
func sameLetters(a, b string) bool {
	strip := func(s string) string {
		return strings.Join(strings.Fields(tashkeel.Strip(tashkeel.Normalize(s))), " ")
	}
	return strip(a) == strip(b)
}
