package validator

import (
	"fmt"

	"github.com/valpere/diwan/internal"
	"github.com/valpere/diwan/internal/meter"
	"github.com/valpere/diwan/internal/tashkeel"
)

// ScanFunc derives a binary stress pattern from diacritized bait text.
type ScanFunc func(text string) (string, error)

// Prosody checks each bait's scanned stress pattern for membership in the
// meter's allowed pattern set.
type Prosody struct {
	meters meter.Source
	scan   ScanFunc
}

// NewProsody creates the prosody validator over the given pattern source.
// The written-form scansion from the tashkeel package is used unless
// overridden with WithScan.
func NewProsody(meters meter.Source) *Prosody {
	return &Prosody{meters: meters, scan: tashkeel.Scan}
}

// WithScan substitutes the scansion function. Intended for tests and for
// alternative scansion backends.
func (v *Prosody) WithScan(scan ScanFunc) *Prosody {
	v.scan = scan
	return v
}

// Validate scans every bait and tests membership in the pattern set of
// meterKey. An unknown meter yields zero total baits and an overall
// negative verdict, which is distinct from "meter known but all baits
// invalid".
func (v *Prosody) Validate(p internal.Poem, meterKey string) internal.ValidationResult {
	patterns, ok := v.meters.Patterns(meterKey)
	if !ok {
		return internal.ValidationResult{
			Dimension: internal.DimProsody,
			Valid:     false,
			Summary:   fmt.Sprintf("unknown meter %q: no pattern set to validate against", meterKey),
		}
	}

	baits := p.Baits()
	results := make([]internal.BaitResult, 0, len(baits))
	for _, b := range baits {
		results = append(results, v.checkBait(b, meterKey, patterns))
	}

	r := aggregate(internal.DimProsody, results)
	r.Summary = failureSummary(r, fmt.Sprintf("scan in the %s meter", meterKey))
	return r
}

func (v *Prosody) checkBait(b internal.Bait, meterKey string, patterns map[string]bool) internal.BaitResult {
	res := internal.BaitResult{Index: b.Index, Text: baitText(b)}

	pattern, err := v.scan(baitText(b))
	if err != nil {
		res.Issue = fmt.Sprintf("scansion failed: %v", err)
		return res
	}
	res.Pattern = pattern

	if !patterns[pattern] {
		res.Issue = fmt.Sprintf("stress pattern %s is not a valid %s realization", pattern, meterKey)
		return res
	}

	res.Valid = true
	return res
}
