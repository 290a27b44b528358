package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/moviedb-cli/internal/report"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Rank movies by budget converted to USD",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Flags().Changed("limit") {
			cfg.Analysis.BudgetLimit, _ = cmd.Flags().GetInt("limit")
		}
		if lowest, _ := cmd.Flags().GetBool("lowest"); lowest {
			cfg.Analysis.TopN = false
		}
		out, _ := cmd.Flags().GetString("out")

		return computeAndPrint(cmd, "budget_ranking", out)
	},
}

func init() {
	budgetCmd.Flags().Int("limit", 10, "number of movies to list (default from config)")
	budgetCmd.Flags().Bool("lowest", false, "rank the lowest budgets instead of the highest")
	budgetCmd.Flags().String("out", "", "also write the ranking to this .csv or .json file")
	rootCmd.AddCommand(budgetCmd)
}

// computeAndPrint runs one task, prints its result and optionally writes it
// to out.
func computeAndPrint(cmd *cobra.Command, task, out string) error {
	ctx := cmd.Context()

	env, err := initEnv(ctx, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	movies, err := loadMovies(ctx)
	if err != nil {
		return eris.Wrap(err, "load dataset")
	}

	result, err := env.Pipeline.Compute(ctx, task, movies)
	if err != nil {
		return eris.Wrap(err, task)
	}

	if err := report.NewPrinter(os.Stdout).Print(task, result); err != nil {
		return err
	}
	if out != "" {
		return report.Write(result, out)
	}
	return nil
}
