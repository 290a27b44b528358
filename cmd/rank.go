package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/moviedb-cli/internal/model"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "List movies of a genre in the top or bottom percentile of a column",
	RunE: func(cmd *cobra.Command, _ []string) error {
		column, _ := cmd.Flags().GetString("column")
		task, err := percentileTask(model.Column(column))
		if err != nil {
			return err
		}

		if genre, _ := cmd.Flags().GetString("genre"); genre != "" {
			cfg.Analysis.Genre = genre
		}
		if cmd.Flags().Changed("percentile") {
			cfg.Analysis.Percentile, _ = cmd.Flags().GetInt("percentile")
		}
		if bottom, _ := cmd.Flags().GetBool("bottom"); bottom {
			cfg.Analysis.TopN = false
		}
		out, _ := cmd.Flags().GetString("out")

		return computeAndPrint(cmd, task, out)
	},
}

func init() {
	rankCmd.Flags().String("column", string(model.ColumnMetascore), "numeric column to rank by (metascore or imdb_rating)")
	rankCmd.Flags().String("genre", "", "genre substring to filter by (default from config)")
	rankCmd.Flags().Int("percentile", 10, "percentile cut (0-100, default from config)")
	rankCmd.Flags().Bool("bottom", false, "select the bottom percentile instead of the top")
	rankCmd.Flags().String("out", "", "also write the result to this .csv or .json file")
	rootCmd.AddCommand(rankCmd)
}

func percentileTask(col model.Column) (string, error) {
	switch col {
	case model.ColumnMetascore:
		return "metascore_percentile", nil
	case model.ColumnIMDbRating:
		return "imdb_percentile", nil
	default:
		return "", eris.Errorf("rank: unknown column %q (want metascore or imdb_rating)", col)
	}
}
