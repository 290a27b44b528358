package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/sells-group/moviedb-cli/internal/analysis"
	"github.com/sells-group/moviedb-cli/internal/budget"
	"github.com/sells-group/moviedb-cli/internal/model"
	"github.com/sells-group/moviedb-cli/internal/plot"
	"github.com/sells-group/moviedb-cli/internal/report"
)

// Task is one analysis with a fixed output file.
type Task struct {
	Name string
	File string

	title   func(p *Pipeline) string
	compute func(ctx context.Context, p *Pipeline, movies []model.Movie) (report.Result, error)
	write   func(ctx context.Context, p *Pipeline, r report.Result, path string) (string, error)
}

func (t Task) heading(p *Pipeline) string {
	if t.title == nil {
		return t.Name
	}
	return t.title(p)
}

func (t Task) emit(ctx context.Context, p *Pipeline, r report.Result, path string) (string, error) {
	if t.write != nil {
		return t.write(ctx, p, r, path)
	}
	if err := report.Write(r, path); err != nil {
		return "", err
	}
	return path, nil
}

// Tasks returns the analysis tasks in execution order.
func Tasks() []Task {
	return []Task{
		{
			Name: "metascore_percentile",
			File: "metascore_percentile.csv",
			title: func(p *Pipeline) string {
				return fmt.Sprintf("%s %d%% movies by metascore for genre %s", direction(p.cfg.TopN), p.cfg.Percentile, p.cfg.Genre)
			},
			compute: func(_ context.Context, p *Pipeline, movies []model.Movie) (report.Result, error) {
				ranked, err := analysis.RankByPercentile(movies, model.ColumnMetascore, p.cfg.Genre, p.cfg.Percentile, p.cfg.TopN)
				if err != nil {
					return report.Result{}, err
				}
				return report.Table("metascore_percentile", lo.Map(ranked, func(m model.Movie, _ int) MetascoreRow {
					return MetascoreRow{Title: m.Title, Metascore: m.Metascore, Genres: m.Genres}
				}))
			},
		},
		{
			Name: "imdb_percentile",
			File: "imdb_percentile.csv",
			title: func(p *Pipeline) string {
				return fmt.Sprintf("%s %d%% movies by IMDb user rating for genre %s", direction(p.cfg.TopN), p.cfg.Percentile, p.cfg.Genre)
			},
			compute: func(_ context.Context, p *Pipeline, movies []model.Movie) (report.Result, error) {
				ranked, err := analysis.RankByPercentile(movies, model.ColumnIMDbRating, p.cfg.Genre, p.cfg.Percentile, p.cfg.TopN)
				if err != nil {
					return report.Result{}, err
				}
				return report.Table("imdb_percentile", lo.Map(ranked, func(m model.Movie, _ int) RatingRow {
					return RatingRow{Title: m.Title, IMDbRating: m.IMDbRating, Genres: m.Genres}
				}))
			},
		},
		{
			Name:  "oscar_movies",
			File:  "oscar_movies.csv",
			title: func(p *Pipeline) string { return fmt.Sprintf("Oscar winning movies for year %d", p.cfg.Year) },
			compute: func(_ context.Context, p *Pipeline, movies []model.Movie) (report.Result, error) {
				return report.List("oscar_movies", analysis.OscarMovies(movies, p.cfg.Year)), nil
			},
		},
		{
			Name: "budget_ranking",
			File: "budget_ranking.csv",
			title: func(p *Pipeline) string {
				if p.cfg.TopN {
					return fmt.Sprintf("Top %d highest budget movies", p.cfg.BudgetLimit)
				}
				return fmt.Sprintf("Top %d lowest budget movies", p.cfg.BudgetLimit)
			},
			compute: func(ctx context.Context, p *Pipeline, movies []model.Movie) (report.Result, error) {
				entries, err := p.normalizer.NormalizeAll(ctx, movies)
				if err != nil {
					return report.Result{}, err
				}
				dir := budget.Highest
				if !p.cfg.TopN {
					dir = budget.Lowest
				}
				return report.Table("budget_ranking", lo.Map(budget.Rank(entries, dir, p.cfg.BudgetLimit), func(e budget.Entry, _ int) BudgetRow {
					return newBudgetRow(e)
				}))
			},
		},
		{
			Name:  "top_countries_by_year",
			File:  "top_countries_by_year.csv",
			title: func(*Pipeline) string { return "Countries with the most movie releases per year" },
			compute: func(_ context.Context, _ *Pipeline, movies []model.Movie) (report.Result, error) {
				return report.Table("top_countries_by_year", analysis.TopCountriesByYear(movies))
			},
		},
		{
			Name:  "rating_vs_awards",
			File:  "rating_vs_awards.png",
			title: func(*Pipeline) string { return "IMDb user rating vs awards count" },
			compute: func(_ context.Context, _ *Pipeline, movies []model.Movie) (report.Result, error) {
				pairs := analysis.RatingVsAwards(movies)
				if r, ok := analysis.RatingAwardsCorrelation(pairs); ok {
					zap.L().Info("pipeline: rating vs awards correlation", zap.Float64("pearson_r", r), zap.Int("movies", len(pairs)))
				}
				return report.Table("rating_vs_awards", pairs)
			},
			write: writeScatter,
		},
		{
			Name: "akas_by_region",
			File: "akas_by_region.json",
			title: func(p *Pipeline) string {
				return fmt.Sprintf("Akas for movie %s", p.cfg.Movie)
			},
			compute: func(_ context.Context, p *Pipeline, movies []model.Movie) (report.Result, error) {
				akas, err := analysis.AkasByRegion(movies, p.cfg.Movie)
				if err != nil {
					return report.Result{}, err
				}
				if p.cfg.Region != "" {
					titles, ok := akas[p.cfg.Region]
					if !ok {
						zap.L().Warn("pipeline: no akas for region", zap.String("movie", p.cfg.Movie), zap.String("region", p.cfg.Region))
					} else {
						zap.L().Info("pipeline: akas for region", zap.String("region", p.cfg.Region), zap.Strings("akas", titles))
					}
				}
				return report.Mapping("akas_by_region", akas), nil
			},
		},
		{
			Name: "movies_by_year",
			File: "movies_by_year.json",
			title: func(p *Pipeline) string {
				switch p.cfg.Flag {
				case analysis.FlagAfter:
					return fmt.Sprintf("Movies released after %d", p.cfg.Year)
				case analysis.FlagBefore:
					return fmt.Sprintf("Movies released before %d", p.cfg.Year)
				default:
					return fmt.Sprintf("Movies released in %d", p.cfg.Year)
				}
			},
			compute: func(_ context.Context, p *Pipeline, movies []model.Movie) (report.Result, error) {
				titles, err := analysis.MoviesByYear(movies, p.cfg.Year, p.cfg.Flag)
				if err != nil {
					return report.Result{}, err
				}
				return report.List("movies_by_year", titles), nil
			},
		},
		{
			Name:  "top_director",
			File:  "top_director.csv",
			title: func(*Pipeline) string { return "Director with the most Oscar winning movies" },
			compute: func(_ context.Context, _ *Pipeline, movies []model.Movie) (report.Result, error) {
				top, err := analysis.TopDirector(movies)
				if err != nil {
					return report.Result{}, err
				}
				return report.Table("top_director", []analysis.DirectorCount{top})
			},
		},
	}
}

// TaskNames returns the task names in execution order.
func TaskNames() []string {
	return lo.Map(Tasks(), func(t Task, _ int) string { return t.Name })
}

func lookup(name string) (Task, bool) {
	return lo.Find(Tasks(), func(t Task) bool { return t.Name == name })
}

func direction(top bool) string {
	if top {
		return "Top"
	}
	return "Bottom"
}

func writeScatter(ctx context.Context, p *Pipeline, r report.Result, path string) (string, error) {
	pairs, _ := r.Rows.([]analysis.RatingAwards)
	points := lo.Map(pairs, func(ra analysis.RatingAwards, _ int) plot.Point {
		return plot.Point{X: ra.Rating, Y: float64(ra.Awards)}
	})
	if strings.EqualFold(p.plotFormat, "svg") {
		path = strings.TrimSuffix(path, filepath.Ext(path)) + ".svg"
	}
	return plot.WriteScatter(ctx, points, plot.Options{
		Title:  "Relationship between IMDb User Rating and Awards Count",
		XLabel: "IMDb User Rating",
		YLabel: "Awards Count",
	}, p.renderer, path)
}
