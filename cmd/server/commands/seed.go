package commands

import (
	"encoding/json"
	"fmt"

	"starwars-api/internal/seed"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed [people|planets]",
	Short: "Import people or planets from SWAPI",
	Long: `Fetch the first page of the given resource from SEED_BASE_URL and insert
every record that is not already in the catalog.

Examples:
  server seed planets
  server seed people`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{seed.ResourcePeople, seed.ResourcePlanets},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		report, err := a.importer.Import(ctx, args[0])
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}
