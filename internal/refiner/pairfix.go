package refiner

import (
	"context"
	"fmt"
	"strings"

	"github.com/valpere/diwan/internal"
	"github.com/valpere/diwan/internal/orchestrator"
)

// baitFix is the outcome of one per-bait fix attempt.
type baitFix struct {
	index int
	lines []string // exactly two when the fix succeeded
	note  string
}

// fixInvalidBaits replaces exactly the invalid baits of result, leaving
// every valid bait untouched. build renders the fix instruction for one
// failing bait. Baits for which the oracle does not return exactly two
// corrected lines are left unmodified and reported as not yet fixed.
func (d deps) fixInvalidBaits(ctx context.Context, p internal.Poem, result internal.ValidationResult, build func(b internal.BaitResult) (string, error)) (internal.Poem, string) {
	invalid := make([]internal.BaitResult, 0, result.InvalidBaits)
	for _, b := range result.Baits {
		if !b.Valid {
			invalid = append(invalid, b)
		}
	}
	if len(invalid) == 0 {
		return p, "nothing to fix"
	}

	workers := d.workers
	if workers <= 0 {
		workers = orchestrator.DefaultWorkers
	}

	fixes := orchestrator.Run(ctx, len(invalid), workers, func(ctx context.Context, i int) baitFix {
		return d.fixOneBait(ctx, invalid[i], build)
	})

	next := p.Clone()
	var fixed, skipped []string
	for _, f := range fixes {
		if len(f.lines) == 2 && f.index*2+1 < len(next.Verses) {
			next.Verses[f.index*2] = f.lines[0]
			next.Verses[f.index*2+1] = f.lines[1]
			fixed = append(fixed, fmt.Sprintf("%d", f.index+1))
		} else {
			skipped = append(skipped, fmt.Sprintf("%d (%s)", f.index+1, f.note))
		}
	}

	if len(fixed) == 0 {
		return p, "no bait fixed: " + strings.Join(skipped, "; ")
	}
	detail := "fixed bait(s) " + strings.Join(fixed, ", ")
	if len(skipped) > 0 {
		detail += "; not yet fixed: " + strings.Join(skipped, "; ")
	}
	return next, detail
}

func (d deps) fixOneBait(ctx context.Context, b internal.BaitResult, build func(b internal.BaitResult) (string, error)) baitFix {
	f := baitFix{index: b.Index}

	instruction, err := build(b)
	if err != nil {
		f.note = fmt.Sprintf("could not build instruction: %v", err)
		return f
	}

	lines, err := d.generateLines(ctx, instruction)
	if err != nil {
		f.note = fmt.Sprintf("oracle failed: %v", err)
		return f
	}
	if len(lines) != 2 {
		f.note = fmt.Sprintf("oracle returned %d line(s), wanted 2", len(lines))
		return f
	}

	f.lines = lines
	return f
}
