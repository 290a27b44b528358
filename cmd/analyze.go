package main

import (
	"context"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/moviedb-cli/internal/model"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run every analysis task and write its output file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		only, _ := cmd.Flags().GetStringSlice("only")
		if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
			cfg.Output.Dir = dir
		}

		summary, err := runAnalyze(cmd.Context(), os.Stdout, only)
		if err != nil {
			return err
		}
		if n := summary.Failed(); n > 0 {
			zap.L().Warn("analyze: some tasks failed", zap.Int("failed", n), zap.Int("tasks", len(summary.Tasks)))
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringSlice("only", nil, "run only these tasks (comma-separated task names)")
	analyzeCmd.Flags().String("output-dir", "", "directory for output files (default from config)")
	rootCmd.AddCommand(analyzeCmd)
}

// runAnalyze loads the dataset and runs the selected tasks, recording the run
// when a store is configured. Task failures are reported in the summary and
// do not produce an error.
func runAnalyze(ctx context.Context, out io.Writer, only []string) (*model.RunSummary, error) {
	env, err := initEnv(ctx, out)
	if err != nil {
		return nil, err
	}
	defer env.Close()

	log := zap.L().With(zap.String("data_file", cfg.Analysis.DataFile))

	var run *model.Run
	if env.Store != nil {
		run, err = env.Store.CreateRun(ctx, cfg.Analysis.DataFile)
		if err != nil {
			log.Warn("analyze: record run", zap.Error(err))
		}
	}
	complete := func(status model.RunStatus, summary *model.RunSummary) {
		if run == nil {
			return
		}
		if err := env.Store.CompleteRun(ctx, run.ID, status, summary); err != nil {
			log.Warn("analyze: complete run", zap.String("run_id", run.ID), zap.Error(err))
		}
	}

	movies, err := loadMovies(ctx)
	if err != nil {
		complete(model.RunStatusFailed, nil)
		return nil, eris.Wrap(err, "analyze: load dataset")
	}

	summary, err := env.Pipeline.Run(ctx, movies, only)
	if err != nil {
		complete(model.RunStatusFailed, summary)
		return nil, err
	}
	complete(summary.Status(), summary)

	if run != nil {
		log.Info("analyze: run recorded", zap.String("run_id", run.ID), zap.String("status", string(summary.Status())))
	}
	return summary, nil
}
