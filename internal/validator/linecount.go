package validator

import (
	"fmt"

	"github.com/valpere/diwan/internal"
)

// LineCount checks that the poem's verse count is even, i.e. that every
// bait is complete. It is a pure function of the count's parity and has
// no failure modes.
type LineCount struct{}

// NewLineCount creates the line-count validator.
func NewLineCount() *LineCount {
	return &LineCount{}
}

// Validate reports whether the poem consists of complete baits.
func (v *LineCount) Validate(p internal.Poem) internal.ValidationResult {
	n := len(p.Verses)
	r := internal.ValidationResult{
		Dimension: internal.DimLineCount,
		LineCount: n,
		EvenCount: n%2 == 0,
	}

	if r.EvenCount {
		r.Valid = true
		r.TotalBaits = n / 2
		r.ValidBaits = n / 2
		r.Summary = fmt.Sprintf("verse count %d is even: %d complete baits", n, n/2)
		return r
	}

	r.Valid = false
	r.Summary = fmt.Sprintf("verse count %d is odd; every bait needs two hemistichs, so the count must be even", n)
	return r
}
