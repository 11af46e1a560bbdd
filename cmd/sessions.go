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

	"github.com/valpere/diwan/internal/store"
	"github.com/valpere/diwan/internal/verse"
)

var sessionsDBPath string

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage stored refinement sessions",
	Long:  `List, inspect, and clear the SQLite refinement session history.`,
}

// openSessionsDB resolves the database path (flag, then config key, then
// default) and opens the store.
func openSessionsDB(cmd *cobra.Command) (*store.Store, error) {
	path := fromConfigString(cmd.Flags().Changed("db"), sessionsDBPath, "db")
	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored refinement sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openSessionsDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		sessions, err := db.ListSessions(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No stored sessions.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tMETER\tQAFIYA\tBAITS\tOUTCOME\tSCORE\tITER\tCREATED")
		for _, s := range sessions {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%.2f\t%d\t%s\n",
				s.ID, s.Meter, s.Qafiya, s.BaitCount, s.Outcome, s.Score,
				s.Iterations, s.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one session with its poem and step history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openSessionsDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		s, err := db.GetSession(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Session %s (%s, score %.2f after %d iteration(s))\n\n",
			s.ID, s.Outcome, s.Score, s.Iterations)
		fmt.Println(verse.Join(s.FinalPoem))
		if len(s.Steps) > 0 {
			fmt.Println()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ITER\tREFINER\tSCORE\tDETAIL")
			for _, step := range s.Steps {
				fmt.Fprintf(w, "%d\t%s\t%.2f → %.2f\t%s\n",
					step.Iteration, step.Refiner, step.ScoreBefore, step.ScoreAfter, step.Detail)
			}
			w.Flush()
		}
		return nil
	},
}

var sessionsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show rhyme verdict cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openSessionsDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Cached verdicts: %d\n", stats.TotalEntries)
		fmt.Printf("Valid verdicts:  %d\n", stats.ValidEntries)
		fmt.Printf("Total usage:     %d\n", stats.TotalUsage)
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored session by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openSessionsDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.DeleteSession(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		fmt.Printf("Deleted session: %s\n", args[0])
		return nil
	},
}

var sessionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openSessionsDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.ClearSessions(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear sessions: %w", err)
		}
		fmt.Printf("Cleared %d session(s).\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)

	sessionsCmd.PersistentFlags().StringVar(&sessionsDBPath, "db", "./data/diwan.db", "Database path (config: db)")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsStatsCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsClearCmd)
}
