// Package report renders the refinement audit trail — final assessment,
// per-dimension issues, and the step history — as Markdown, with an
// optional HTML rendering for sharing.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/valpere/diwan/internal"
	"github.com/valpere/diwan/internal/refiner"
)

// dimensionOrder fixes the rendering order of the assessment sections.
var dimensionOrder = []internal.Dimension{
	internal.DimLineCount,
	internal.DimProsody,
	internal.DimRhyme,
	internal.DimTashkeel,
}

// Markdown renders the full session report. gloss may be nil; when
// present it must hold one translated line per verse.
func Markdown(res *refiner.Result, constraints internal.Constraints, gloss []string) string {
	var b strings.Builder

	b.WriteString("# Refinement report\n\n")
	fmt.Fprintf(&b, "- Meter: %s\n", constraints.Meter)
	if constraints.Qafiya.Letter != "" {
		fmt.Fprintf(&b, "- Qafiya: %s%s (%s)\n", constraints.Qafiya.Letter, constraints.Qafiya.Vocalization, constraints.Qafiya.Family)
	}
	fmt.Fprintf(&b, "- Outcome: %s after %d iteration(s)\n", res.Outcome, res.Iterations)
	if res.Final != nil {
		fmt.Fprintf(&b, "- Final score: %.2f (acceptable: %v)\n", res.Final.Score, res.Final.Acceptable)
	}

	b.WriteString("\n## Poem\n\n")
	for i, v := range res.Poem.Verses {
		fmt.Fprintf(&b, "> %s\n", v)
		if gloss != nil && i < len(gloss) {
			fmt.Fprintf(&b, "> — *%s*\n", gloss[i])
		}
	}

	if res.Final != nil {
		writeAssessment(&b, res.Final)
	}
	writeSteps(&b, res.Steps)

	return b.String()
}

func writeAssessment(b *strings.Builder, a *internal.QualityAssessment) {
	b.WriteString("\n## Assessment\n\n")
	for _, dim := range dimensionOrder {
		r, ok := a.Results[dim]
		if !ok {
			continue
		}
		status := "ok"
		if !r.Valid {
			status = "FAILED"
		}
		fmt.Fprintf(b, "- **%s**: %s — %s\n", dim, status, r.Summary)
		for _, issue := range a.Issues[dim] {
			if issue != r.Summary {
				fmt.Fprintf(b, "  - %s\n", issue)
			}
		}
	}
	if len(a.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n\n")
		for _, rec := range a.Recommendations {
			fmt.Fprintf(b, "- %s\n", rec)
		}
	}
}

func writeSteps(b *strings.Builder, steps []internal.RefinementStep) {
	if len(steps) == 0 {
		return
	}
	b.WriteString("\n## Steps\n\n")
	b.WriteString("| # | Iteration | Refiner | Score | Detail |\n")
	b.WriteString("|---|-----------|---------|-------|--------|\n")
	for i, s := range steps {
		fmt.Fprintf(b, "| %d | %d | %s | %.2f → %.2f | %s |\n",
			i+1, s.Iteration, s.Refiner, s.ScoreBefore, s.ScoreAfter,
			strings.ReplaceAll(s.Detail, "|", "\\|"))
	}
}

// ToHTML renders the Markdown report as a standalone HTML fragment.
func ToHTML(md string) string {
	opts := html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank,
	}
	renderer := html.NewRenderer(opts)
	ext := parser.CommonExtensions | parser.Attributes
	p := parser.NewWithExtensions(ext)
	doc := p.Parse([]byte(md))
	return string(markdown.Render(doc, renderer))
}
