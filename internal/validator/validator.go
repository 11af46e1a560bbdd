// Package validator implements the four correctness dimensions of a poem:
// line-count parity, metrical conformity, rhyme consistency, and diacritic
// completeness. Every validator returns a negative ValidationResult for
// malformed input or collaborator failure; none of them raises.
package validator

import (
	"fmt"
	"strings"

	"github.com/valpere/diwan/internal"
)

// maxEnumeratedFailures caps how many failing bait numbers a summary
// names before it falls back to a count. Verbosity control only.
const maxEnumeratedFailures = 5

// BaitSeparator joins a bait's two hemistichs when the pair is treated as
// one text (scansion input, oracle instructions).
const BaitSeparator = " … "

// aggregate fills the common counters of a result from its per-bait
// verdicts and returns it. ValidBaits + InvalidBaits always equals
// TotalBaits.
func aggregate(dim internal.Dimension, baits []internal.BaitResult) internal.ValidationResult {
	r := internal.ValidationResult{
		Dimension:  dim,
		TotalBaits: len(baits),
		Baits:      baits,
	}
	for _, b := range baits {
		if b.Valid {
			r.ValidBaits++
		} else {
			r.InvalidBaits++
		}
	}
	r.Valid = r.TotalBaits > 0 && r.InvalidBaits == 0
	return r
}

// failureSummary names the failing baits when there are fewer than
// maxEnumeratedFailures, otherwise reports only the count.
func failureSummary(r internal.ValidationResult, what string) string {
	if r.InvalidBaits == 0 {
		return fmt.Sprintf("all %d baits %s", r.TotalBaits, what)
	}
	if r.InvalidBaits < maxEnumeratedFailures {
		nums := make([]string, 0, r.InvalidBaits)
		for _, i := range r.InvalidIndices() {
			nums = append(nums, fmt.Sprintf("%d", i+1))
		}
		return fmt.Sprintf("bait(s) %s do not satisfy: %s", strings.Join(nums, ", "), what)
	}
	return fmt.Sprintf("%d of %d baits do not satisfy: %s", r.InvalidBaits, r.TotalBaits, what)
}

// baitText renders a bait as a single line for messages and prompts.
func baitText(b internal.Bait) string {
	return b.First + BaitSeparator + b.Second
}
