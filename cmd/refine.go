/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/valpere/diwan/internal"
	"github.com/valpere/diwan/internal/detector"
	"github.com/valpere/diwan/internal/evaluator"
	"github.com/valpere/diwan/internal/gloss"
	"github.com/valpere/diwan/internal/meter"
	"github.com/valpere/diwan/internal/oracle"
	"github.com/valpere/diwan/internal/postprocess"
	"github.com/valpere/diwan/internal/prompt"
	"github.com/valpere/diwan/internal/refiner"
	"github.com/valpere/diwan/internal/report"
	"github.com/valpere/diwan/internal/store"
	"github.com/valpere/diwan/internal/verse"
)

var (
	inputFile  string
	outputFile string

	meterKey          string
	rhymeLetter       string
	rhymeVocalization string
	rhymeFamily       string
	rhymeExample      string
	baitCount         int
	theme             string
	tone              string
	register          string

	oracleKind    string
	oracleModel   string
	oracleURL     string
	oracleAPIKey  string
	targetQuality float64
	maxIterations int
	workers       int

	dbPath  string
	noCache bool

	reportFile string
	reportHTML bool
	glossLang  string
	credentials string
	projectID   string
)

var refineCmd = &cobra.Command{
	Use:   "refine",
	Short: "Refine a draft poem until it satisfies its constraints",
	Long: `Refine a draft Arabic poem until it satisfies the target meter, rhyme,
bait count, and diacritization, or the iteration budget is spent.

Without --input, a fresh draft is first generated from the constraints.

The loop evaluates the poem, runs the refiners whose dimension failed
(line count, then prosody, then rhyme, then diacritics), re-evaluates,
and repeats. Outcomes:
  converged   the quality score cleared the target
  stalled     below target but nothing left to fix
  exhausted   the iteration budget was spent`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile != "" && inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		ctx := context.Background()

		kind := fromConfig(oracleKind, "oracle.kind", "ollama")
		model := fromConfig(oracleModel, "oracle.model", "")
		baseURL := fromConfig(oracleURL, "oracle.base_url", "")
		apiKey := fromConfig(oracleAPIKey, "oracle.api_key", "")

		flags := cmd.Flags()
		quality := fromConfigFloat(flags.Changed("target-quality"), targetQuality, "target_quality")
		budget := fromConfigInt(flags.Changed("max-iterations"), maxIterations, "max_iterations")
		pool := fromConfigInt(flags.Changed("workers"), workers, "workers")
		database := fromConfigString(flags.Changed("db"), dbPath, "db")

		orc, err := buildOracle(kind, model, baseURL, apiKey)
		if err != nil {
			return err
		}

		constraints := buildConstraints(meterKey, rhymeLetter, rhymeVocalization, rhymeFamily, rhymeExample, baitCount, theme, tone, register)
		prompts := prompt.NewLibrary()
		meters := meter.NewTable()
		guard := detector.New()

		var db *store.Store
		if !noCache && database != "" {
			db, err = store.New(database)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()
		}

		eval := evaluator.New(meters, orc, prompts, pool).WithThreshold(quality)
		if db != nil {
			eval = eval.WithVerdictCache(db)
		}

		chain := refiner.NewChain(eval, refiner.DefaultSet(orc, prompts, guard, pool), refiner.Config{
			TargetQuality: quality,
			MaxIterations: budget,
		}).WithLogf(func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		})

		var poem internal.Poem
		if inputFile != "" {
			poem, err = loadPoem(inputFile, orc.Name(), model, constraints)
			if err != nil {
				return err
			}
		} else {
			fmt.Fprintf(os.Stderr, "Generating initial draft...\n")
			poem, err = generatePoem(ctx, orc, prompts, constraints, model)
			if err != nil {
				return err
			}
		}

		result, err := chain.Run(ctx, poem, constraints)
		if err != nil {
			return fmt.Errorf("refinement failed: %w", err)
		}

		fmt.Fprintf(os.Stderr, "Outcome: %s after %d iteration(s), score %.2f\n",
			result.Outcome, result.Iterations, result.Final.Score)
		if result.Outcome != refiner.Converged {
			fmt.Fprintf(os.Stderr, "Warning: the poem did not converge; see the report for remaining issues\n")
		}

		if outputFile != "" {
			if err := writeText(outputFile, verse.Join(result.Poem.Verses)+"\n"); err != nil {
				return err
			}
		} else {
			fmt.Println(verse.Join(result.Poem.Verses))
		}

		if db != nil {
			id, err := db.SaveSession(ctx, store.Session{
				ID:         uuid.New().String(),
				Meter:      constraints.Meter,
				Qafiya:     constraints.Qafiya.Letter + constraints.Qafiya.Vocalization,
				BaitCount:  constraints.BaitCount,
				Outcome:    string(result.Outcome),
				Score:      result.Final.Score,
				Iterations: result.Iterations,
				InputPoem:  poem.Verses,
				FinalPoem:  result.Poem.Verses,
				Provider:   orc.Name(),
				Model:      model,
				Steps:      result.Steps,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to save session: %v\n", err)
			} else {
				fmt.Fprintf(os.Stderr, "Session saved: %s\n", id)
			}
		}

		if reportFile != "" {
			var glossLines []string
			if glossLang != "" {
				g := gloss.New(gloss.Config{Credentials: credentials, ProjectID: projectID})
				glossLines, err = g.Gloss(ctx, result.Poem.Verses, glossLang)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Gloss failed: %v\n", err)
					glossLines = nil
				}
			}

			md := report.Markdown(result, constraints, glossLines)
			if reportHTML {
				md = report.ToHTML(md)
			}
			if err := writeText(reportFile, md); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Report written: %s\n", reportFile)
		}

		return nil
	},
}

// generatePoem asks the oracle for a fresh draft satisfying constraints.
func generatePoem(ctx context.Context, orc oracle.Oracle, prompts *prompt.Library, c internal.Constraints, model string) (internal.Poem, error) {
	values := prompt.Values{
		"meter":              c.Meter,
		"bait_count":         c.BaitCount,
		"verse_count":        c.BaitCount * 2,
		"rhyme_letter":       c.Qafiya.Letter,
		"rhyme_vocalization": c.Qafiya.Vocalization,
		"rhyme_family":       c.Qafiya.Family,
		"rhyme_description":  c.Qafiya.FamilyDescription(),
		"rhyme_example":      c.Qafiya.Example,
		"theme":              c.Theme,
		"tone":               c.Tone,
		"register":           c.Register,
	}
	instruction, err := prompts.Render(prompt.GeneratePoem, values)
	if err != nil {
		return internal.Poem{}, err
	}

	response, err := orc.Generate(ctx, instruction)
	if err != nil {
		return internal.Poem{}, fmt.Errorf("draft generation failed: %w", err)
	}

	verses := verse.Split(postprocess.Clean(response))
	if len(verses) == 0 {
		return internal.Poem{}, fmt.Errorf("oracle produced no verses")
	}

	return internal.Poem{
		ID:          uuid.New().String(),
		Verses:      verses,
		Provider:    orc.Name(),
		Model:       model,
		Constraints: c.Snapshot(),
		CreatedAt:   time.Now(),
	}, nil
}

func writeText(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(refineCmd)

	refineCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Draft poem file (omit to generate a fresh draft)")
	refineCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file for the refined poem (default stdout)")

	refineCmd.Flags().StringVarP(&meterKey, "meter", "m", "", "Target meter, e.g. tawil (required)")
	refineCmd.Flags().StringVar(&rhymeLetter, "rhyme-letter", "", "Qafiya rawi letter")
	refineCmd.Flags().StringVar(&rhymeVocalization, "rhyme-mark", "", "Vocalization mark of the rawi")
	refineCmd.Flags().StringVar(&rhymeFamily, "rhyme-family", "mutawatir", "Rhyme family classification")
	refineCmd.Flags().StringVar(&rhymeExample, "rhyme-example", "", "Rendered example of the target ending")
	refineCmd.Flags().IntVar(&baitCount, "baits", 4, "Target bait (verse-pair) count")
	refineCmd.Flags().StringVar(&theme, "theme", "", "Theme passed through to the oracle")
	refineCmd.Flags().StringVar(&tone, "tone", "", "Tone passed through to the oracle")
	refineCmd.Flags().StringVar(&register, "register", "", "Register passed through to the oracle")

	refineCmd.Flags().StringVar(&oracleKind, "oracle", "", "Oracle backend: ollama or openai (config: oracle.kind)")
	refineCmd.Flags().StringVar(&oracleModel, "model", "", "Oracle model name (config: oracle.model)")
	refineCmd.Flags().StringVar(&oracleURL, "oracle-url", "", "Oracle base URL (config: oracle.base_url)")
	refineCmd.Flags().StringVar(&oracleAPIKey, "api-key", "", "Oracle API key (config: oracle.api_key)")
	refineCmd.Flags().Float64Var(&targetQuality, "target-quality", evaluator.DefaultThreshold, "Quality score required to converge (config: target_quality)")
	refineCmd.Flags().IntVar(&maxIterations, "max-iterations", refiner.DefaultConfig.MaxIterations, "Refinement iteration budget (config: max_iterations)")
	refineCmd.Flags().IntVar(&workers, "workers", 4, "Concurrent per-bait oracle calls, 1 = sequential (config: workers)")

	refineCmd.Flags().StringVar(&dbPath, "db", "./data/diwan.db", "Database path for sessions and verdict cache (config: db)")
	refineCmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable the session store and verdict cache")

	refineCmd.Flags().StringVar(&reportFile, "report", "", "Write a refinement report to this file")
	refineCmd.Flags().BoolVar(&reportHTML, "report-html", false, "Render the report as HTML instead of Markdown")
	refineCmd.Flags().StringVar(&glossLang, "gloss", "", "Add a prose gloss in this language to the report (e.g. en)")
	refineCmd.Flags().StringVarP(&credentials, "credentials", "c", "", "Path to Google Cloud credentials (gloss)")
	refineCmd.Flags().StringVarP(&projectID, "project", "p", "", "Google Cloud project ID (gloss)")

	refineCmd.MarkFlagRequired("meter")
}
