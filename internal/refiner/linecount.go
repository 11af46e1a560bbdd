package refiner

import (
	"context"
	"fmt"

	"github.com/valpere/diwan/internal"
	"github.com/valpere/diwan/internal/detector"
	"github.com/valpere/diwan/internal/oracle"
	"github.com/valpere/diwan/internal/prompt"
	"github.com/valpere/diwan/internal/verse"
)

// LineCount brings the poem to the target bait count: a short poem gets
// newly generated baits appended, a long one is truncated to the nearest
// even verse count at or below the target. A dangling final hemistich is
// dropped before extending.
type LineCount struct {
	deps
}

// NewLineCount creates the line-count refiner.
func NewLineCount(o oracle.Oracle, prompts *prompt.Library, guard *detector.Detector) *LineCount {
	return &LineCount{deps{oracle: o, prompts: prompts, guard: guard}}
}

func (r *LineCount) Name() string {
	return "line_count"
}

func (r *LineCount) Applicable(a *internal.QualityAssessment) bool {
	return applicable(a, internal.DimLineCount)
}

func (r *LineCount) Apply(ctx context.Context, p internal.Poem, c internal.Constraints, a *internal.QualityAssessment) (internal.Poem, string) {
	target := c.BaitCount
	if target <= 0 {
		// No target: just restore parity by dropping the dangling line.
		target = len(p.Verses) / 2
	}

	complete := len(p.Verses) / 2

	if complete >= target {
		next := p.Clone()
		next.Verses = next.Verses[:target*2]
		return next, fmt.Sprintf("truncated from %d to %d verses", len(p.Verses), target*2)
	}

	next := p.Clone()
	dropped := ""
	if len(next.Verses)%2 != 0 {
		next.Verses = next.Verses[:len(next.Verses)-1]
		dropped = "dropped dangling hemistich; "
	}

	missing := target - complete
	values := merge(qafiyaValues(c.Qafiya), prompt.Values{
		"meter":     c.Meter,
		"poem":      verse.Join(next.Verses),
		"missing":   missing,
		"new_lines": missing * 2,
	})
	instruction, err := r.prompts.Render(prompt.ExtendPoem, values)
	if err != nil {
		return p, fmt.Sprintf("could not build extension instruction: %v", err)
	}

	lines, err := r.generateLines(ctx, instruction)
	if err != nil {
		return p, fmt.Sprintf("extension failed: %v", err)
	}
	if len(lines) > missing*2 {
		lines = lines[:missing*2]
	}
	if len(lines) != missing*2 {
		return p, fmt.Sprintf("oracle returned %d line(s), wanted %d; poem left unchanged", len(lines), missing*2)
	}

	next.Verses = append(next.Verses, lines...)
	return next, fmt.Sprintf("%sappended %d bait(s) to reach %d", dropped, missing, target)
}
