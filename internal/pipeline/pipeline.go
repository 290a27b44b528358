// Package pipeline runs the fixed set of analysis tasks over a loaded movie
// table, printing and writing each result.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/moviedb-cli/internal/budget"
	"github.com/sells-group/moviedb-cli/internal/config"
	"github.com/sells-group/moviedb-cli/internal/currency"
	"github.com/sells-group/moviedb-cli/internal/model"
	"github.com/sells-group/moviedb-cli/internal/plot"
	"github.com/sells-group/moviedb-cli/internal/report"
)

// ErrUnknownTask is returned for a task name outside the fixed task list.
var ErrUnknownTask = eris.New("pipeline: unknown task")

// Pipeline computes and emits analysis task results.
type Pipeline struct {
	cfg        config.AnalysisConfig
	outDir     string
	plotFormat string
	normalizer *budget.Normalizer
	renderer   plot.Renderer
	printer    *report.Printer
}

// New creates a Pipeline. printer may be nil to disable terminal output;
// renderer may be nil to always write the plot as SVG.
func New(cfg *config.Config, conv currency.Converter, renderer plot.Renderer, printer *report.Printer) *Pipeline {
	return &Pipeline{
		cfg:        cfg.Analysis,
		outDir:     cfg.Output.Dir,
		plotFormat: cfg.Output.PlotFormat,
		normalizer: budget.NewNormalizer(conv, cfg.Rates.Concurrency),
		renderer:   renderer,
		printer:    printer,
	}
}

// Compute runs the named task without writing its output.
func (p *Pipeline) Compute(ctx context.Context, name string, movies []model.Movie) (report.Result, error) {
	t, ok := lookup(name)
	if !ok {
		return report.Result{}, eris.Wrapf(ErrUnknownTask, "%q", name)
	}
	return t.compute(ctx, p, movies)
}

// Run executes the selected tasks (all when only is empty) in their fixed
// order. A failing task is recorded in the summary and never stops the
// remaining tasks.
func (p *Pipeline) Run(ctx context.Context, movies []model.Movie, only []string) (*model.RunSummary, error) {
	selected, err := selectTasks(only)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(p.outDir, 0o755); err != nil {
		return nil, eris.Wrap(err, "pipeline: create output dir")
	}

	log := zap.L().With(zap.Int("movies", len(movies)))
	log.Info("pipeline: starting", zap.Int("tasks", len(selected)))

	summary := &model.RunSummary{Movies: len(movies)}
	for _, t := range selected {
		if ctx.Err() != nil {
			return summary, eris.Wrap(ctx.Err(), "pipeline: cancelled")
		}
		summary.Tasks = append(summary.Tasks, p.runTask(ctx, log, t, movies))
	}

	log.Info("pipeline: finished",
		zap.Int("tasks", len(summary.Tasks)),
		zap.Int("failed", summary.Failed()),
	)
	return summary, nil
}

func (p *Pipeline) runTask(ctx context.Context, log *zap.Logger, t Task, movies []model.Movie) model.TaskOutcome {
	start := time.Now()
	out := model.TaskOutcome{Name: t.Name}

	fail := func(err error) model.TaskOutcome {
		out.Status = model.TaskStatusFailed
		out.Error = err.Error()
		out.DurationMS = time.Since(start).Milliseconds()
		log.Error("pipeline: task failed", zap.String("task", t.Name), zap.Error(err))
		if p.printer != nil {
			p.printer.Failure(t.Name, err)
		}
		return out
	}

	result, err := t.compute(ctx, p, movies)
	if err != nil {
		return fail(err)
	}

	if p.printer != nil {
		if err := p.printer.Print(t.heading(p), result); err != nil {
			log.Warn("pipeline: print result", zap.String("task", t.Name), zap.Error(err))
		}
	}

	path := filepath.Join(p.outDir, t.File)
	written, err := t.emit(ctx, p, result, path)
	if err != nil {
		return fail(err)
	}

	out.Status = model.TaskStatusOK
	out.File = written
	out.DurationMS = time.Since(start).Milliseconds()
	log.Info("pipeline: task complete",
		zap.String("task", t.Name),
		zap.String("file", written),
		zap.Int("results", result.Len()),
		zap.Int64("duration_ms", out.DurationMS),
	)
	return out
}

func selectTasks(only []string) ([]Task, error) {
	all := Tasks()
	if len(only) == 0 {
		return all, nil
	}
	for _, name := range only {
		if _, ok := lookup(strings.TrimSpace(name)); !ok {
			return nil, eris.Wrapf(ErrUnknownTask, "%q (known: %s)", name, strings.Join(TaskNames(), ", "))
		}
	}
	var selected []Task
	for _, t := range all {
		if slices.ContainsFunc(only, func(n string) bool { return strings.TrimSpace(n) == t.Name }) {
			selected = append(selected, t)
		}
	}
	return selected, nil
}
