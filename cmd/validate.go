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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/diwan/internal"
	"github.com/valpere/diwan/internal/evaluator"
	"github.com/valpere/diwan/internal/meter"
	"github.com/valpere/diwan/internal/prompt"
)

var (
	validateInput string

	validateMeter       string
	validateRhymeLetter string
	validateRhymeMark   string
	validateRhymeFamily string
	validateExample     string

	validateOracleKind   string
	validateOracleModel  string
	validateOracleURL    string
	validateOracleAPIKey string
	validateWorkers      int
	validateThreshold    float64
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run one evaluation pass over a poem and print the assessment",
	Long: `Validate a poem against the target meter, rhyme, verse count, and
diacritization in a single pass, without refining anything.

Rhyme validation needs an oracle; it is skipped when --rhyme-letter is
not set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		constraints := buildConstraints(validateMeter, validateRhymeLetter, validateRhymeMark, validateRhymeFamily, validateExample, 0, "", "", "")

		kind := fromConfig(validateOracleKind, "oracle.kind", "ollama")
		model := fromConfig(validateOracleModel, "oracle.model", "")
		baseURL := fromConfig(validateOracleURL, "oracle.base_url", "")
		apiKey := fromConfig(validateOracleAPIKey, "oracle.api_key", "")

		orc, err := buildOracle(kind, model, baseURL, apiKey)
		if err != nil {
			return err
		}

		poem, err := loadPoem(validateInput, orc.Name(), model, constraints)
		if err != nil {
			return err
		}

		dims := evaluator.AllDimensions
		if constraints.Qafiya.Letter == "" {
			dims = []internal.Dimension{internal.DimLineCount, internal.DimProsody, internal.DimTashkeel}
		}

		pool := fromConfigInt(cmd.Flags().Changed("workers"), validateWorkers, "workers")
		threshold := fromConfigFloat(cmd.Flags().Changed("target-quality"), validateThreshold, "target_quality")

		eval := evaluator.New(meter.NewTable(), orc, prompt.NewLibrary(), pool).WithThreshold(threshold)
		a := eval.Evaluate(ctx, poem, constraints, dims)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DIMENSION\tVALID\tBAITS\tSUMMARY")
		for _, dim := range dims {
			r, ok := a.Results[dim]
			if !ok {
				continue
			}
			fmt.Fprintf(w, "%s\t%v\t%d/%d\t%s\n", dim, r.Valid, r.ValidBaits, r.TotalBaits, r.Summary)
		}
		w.Flush()

		fmt.Printf("\nScore: %.2f  Acceptable: %v\n", a.Score, a.Acceptable)
		for dim, issues := range a.Issues {
			for _, issue := range issues {
				fmt.Printf("  [%s] %s\n", dim, issue)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "Poem file to validate (required)")
	validateCmd.Flags().StringVarP(&validateMeter, "meter", "m", "", "Target meter (required)")
	validateCmd.Flags().StringVar(&validateRhymeLetter, "rhyme-letter", "", "Qafiya rawi letter")
	validateCmd.Flags().StringVar(&validateRhymeMark, "rhyme-mark", "", "Vocalization mark of the rawi")
	validateCmd.Flags().StringVar(&validateRhymeFamily, "rhyme-family", "mutawatir", "Rhyme family classification")
	validateCmd.Flags().StringVar(&validateExample, "rhyme-example", "", "Rendered example of the target ending")

	validateCmd.Flags().StringVar(&validateOracleKind, "oracle", "", "Oracle backend: ollama or openai")
	validateCmd.Flags().StringVar(&validateOracleModel, "model", "", "Oracle model name")
	validateCmd.Flags().StringVar(&validateOracleURL, "oracle-url", "", "Oracle base URL")
	validateCmd.Flags().StringVar(&validateOracleAPIKey, "api-key", "", "Oracle API key")
	validateCmd.Flags().IntVar(&validateWorkers, "workers", 4, "Concurrent per-bait oracle calls (config: workers)")
	validateCmd.Flags().Float64Var(&validateThreshold, "target-quality", evaluator.DefaultThreshold, "Acceptability threshold (config: target_quality)")

	validateCmd.MarkFlagRequired("input")
	validateCmd.MarkFlagRequired("meter")
}
