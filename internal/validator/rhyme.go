package validator

import (
	"context"
	"fmt"

	"github.com/valpere/diwan/internal"
	"github.com/valpere/diwan/internal/oracle"
	"github.com/valpere/diwan/internal/orchestrator"
	"github.com/valpere/diwan/internal/postprocess"
	"github.com/valpere/diwan/internal/prompt"
)

// VerdictCache lets a validator reuse earlier oracle rhyme verdicts for
// identical bait text and rhyme specification. The store package provides
// the sqlite-backed implementation.
type VerdictCache interface {
	GetRhymeVerdict(ctx context.Context, baitText, spec string) (valid bool, issue string, found bool, err error)
	SaveRhymeVerdict(ctx context.Context, baitText, spec string, valid bool, issue string) error
}

// Rhyme asks the oracle, one bait at a time, whether each bait's ending
// satisfies the qafiya. Per-bait calls keep the instruction size bounded
// and isolate oracle failures to a single bait; a failed call or an
// unparseable verdict degrades to an invalid bait, never to an error.
type Rhyme struct {
	oracle  oracle.Oracle
	prompts *prompt.Library
	workers int
	cache   VerdictCache
}

// NewRhyme creates the rhyme validator. workers bounds the concurrent
// oracle calls; pass 1 for strictly sequential validation.
func NewRhyme(o oracle.Oracle, prompts *prompt.Library, workers int) *Rhyme {
	if workers <= 0 {
		workers = orchestrator.DefaultWorkers
	}
	return &Rhyme{oracle: o, prompts: prompts, workers: workers}
}

// WithCache attaches a verdict cache.
func (v *Rhyme) WithCache(c VerdictCache) *Rhyme {
	v.cache = c
	return v
}

// rhymeVerdict is the structured verdict the oracle is instructed to
// answer with.
type rhymeVerdict struct {
	IsValid bool    `json:"is_valid"`
	Issue   *string `json:"issue"`
}

// Validate checks every bait independently against the qafiya and
// aggregates the verdicts.
func (v *Rhyme) Validate(ctx context.Context, p internal.Poem, q internal.Qafiya) internal.ValidationResult {
	baits := p.Baits()

	results := orchestrator.Run(ctx, len(baits), v.workers, func(ctx context.Context, i int) internal.BaitResult {
		return v.checkBait(ctx, baits[i], q)
	})

	r := aggregate(internal.DimRhyme, results)
	r.Summary = failureSummary(r, fmt.Sprintf("end on the rhyme %q%s", q.Letter, q.Vocalization))
	return r
}

func (v *Rhyme) checkBait(ctx context.Context, b internal.Bait, q internal.Qafiya) internal.BaitResult {
	res := internal.BaitResult{Index: b.Index, Text: baitText(b)}
	spec := q.Letter + q.Vocalization + "/" + q.Family

	if v.cache != nil {
		if valid, issue, found, err := v.cache.GetRhymeVerdict(ctx, res.Text, spec); err == nil && found {
			res.Valid = valid
			res.Issue = issue
			return res
		}
	}

	instruction, err := v.prompts.Render(prompt.RhymeCheck, prompt.Values{
		"bait":               res.Text,
		"rhyme_letter":       q.Letter,
		"rhyme_vocalization": q.Vocalization,
		"rhyme_family":       q.Family,
		"rhyme_description":  q.FamilyDescription(),
		"rhyme_example":      q.Example,
	})
	if err != nil {
		res.Issue = fmt.Sprintf("could not build rhyme check instruction: %v", err)
		return res
	}

	response, err := v.oracle.Generate(ctx, instruction)
	if err != nil {
		res.Issue = fmt.Sprintf("rhyme check unavailable: %v", err)
		return res
	}

	var verdict rhymeVerdict
	if err := postprocess.ExtractJSON(response, &verdict); err != nil {
		res.Issue = fmt.Sprintf("unreadable rhyme verdict: %v", err)
		return res
	}

	res.Valid = verdict.IsValid
	if verdict.Issue != nil {
		res.Issue = *verdict.Issue
	}
	if !res.Valid && res.Issue == "" {
		res.Issue = fmt.Sprintf("bait does not end on the rhyme %q%s", q.Letter, q.Vocalization)
	}

	if v.cache != nil {
		_ = v.cache.SaveRhymeVerdict(ctx, res.Text, spec, res.Valid, res.Issue)
	}
	return res
}
