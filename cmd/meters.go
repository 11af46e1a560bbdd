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
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/diwan/internal/meter"
)

var metersCmd = &cobra.Command{
	Use:   "meters",
	Short: "List the meters in the built-in pattern table",
	RunE: func(cmd *cobra.Command, args []string) error {
		table := meter.NewTable()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "METER\tPATTERNS")
		for _, name := range table.Names() {
			patterns, _ := table.Patterns(name)
			fmt.Fprintf(w, "%s\t%d\n", name, len(patterns))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(metersCmd)
}
