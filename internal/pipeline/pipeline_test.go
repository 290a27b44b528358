package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/moviedb-cli/internal/analysis"
	"github.com/sells-group/moviedb-cli/internal/config"
	"github.com/sells-group/moviedb-cli/internal/currency"
	"github.com/sells-group/moviedb-cli/internal/model"
	"github.com/sells-group/moviedb-cli/internal/report"
)

type fakeRenderer struct {
	err   error
	calls int
}

func (f *fakeRenderer) RenderPNG(_ context.Context, _ []byte, _, _ int) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("\x89PNG fake"), nil
}

func sampleMovies() []model.Movie {
	return []model.Movie{
		{
			Title: "The Godfather", Genres: "Crime, Drama", Metascore: 100, IMDbRating: 9.2, Year: 1972,
			Awards: "Won Oscar 1973, Golden Globe 1973", Budget: "$6,000,000", Countries: "USA",
			Akas: "Le Parrain (France), Der Pate (Germany), El padrino (Spain)", Directors: "Francis Ford Coppola",
		},
		{
			Title: "Amelie", Genres: "Comedy, Romance", Metascore: 69, IMDbRating: 8.3, Year: 2001,
			Awards: "Nominated", Budget: "EUR 10,000,000", Countries: "France, Germany",
			Directors: "Jean-Pierre Jeunet",
		},
		{
			Title: "Heat", Genres: "Crime, Drama", Metascore: 76, IMDbRating: 8.3, Year: 1995,
			Budget: "$60,000,000", Countries: "USA", Directors: "Michael Mann",
		},
		{
			Title: "Apocalypse Now", Genres: "Drama, War", Metascore: 94, IMDbRating: 8.4, Year: 1979,
			Awards: "Won Oscar 1980", Budget: "XYZ 1,000", Countries: "USA",
			Directors: "Francis Ford Coppola",
		},
		{
			Title: "Unknown", Genres: "", Metascore: model.Missing, IMDbRating: model.Missing, Year: model.Missing,
		},
	}
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		Analysis: config.AnalysisConfig{
			Genre:       "Drama",
			Percentile:  50,
			Year:        1973,
			TopN:        true,
			Movie:       "The Godfather",
			Region:      "France",
			Flag:        analysis.FlagAfter,
			BudgetLimit: 10,
		},
		Output: config.OutputConfig{Dir: dir, PlotFormat: "png"},
		Rates:  config.RatesConfig{Concurrency: 2},
	}
}

func newTestPipeline(cfg *config.Config, renderer *fakeRenderer, out *bytes.Buffer) *Pipeline {
	conv := currency.NewCache(currency.NewStaticSource(currency.USD, map[string]float64{"EUR": 1.1}))
	var printer *report.Printer
	if out != nil {
		printer = report.NewPrinter(out)
	}
	return New(cfg, conv, renderer, printer)
}

func TestRunWritesEveryOutput(t *testing.T) {
	dir := t.TempDir()
	renderer := &fakeRenderer{}
	var out bytes.Buffer
	p := newTestPipeline(testConfig(dir), renderer, &out)

	summary, err := p.Run(context.Background(), sampleMovies(), nil)
	require.NoError(t, err)

	require.Len(t, summary.Tasks, len(Tasks()))
	assert.Equal(t, 0, summary.Failed())
	assert.Equal(t, 5, summary.Movies)

	for _, task := range Tasks() {
		assert.FileExists(t, filepath.Join(dir, task.File), task.Name)
	}
	assert.Equal(t, 1, renderer.calls)

	oscars, err := report.ReadCSVTitles(filepath.Join(dir, "oscar_movies.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"The Godfather"}, oscars)

	data, err := os.ReadFile(filepath.Join(dir, "movies_by_year.json"))
	require.NoError(t, err)
	var titles []string
	require.NoError(t, json.Unmarshal(data, &titles))
	assert.Equal(t, []string{"Apocalypse Now", "Heat", "Amelie"}, titles)

	data, err = os.ReadFile(filepath.Join(dir, "akas_by_region.json"))
	require.NoError(t, err)
	var akas map[string][]string
	require.NoError(t, json.Unmarshal(data, &akas))
	assert.Equal(t, []string{"Le Parrain"}, akas["France"])
	assert.Equal(t, []string{"Der Pate"}, akas["Germany"])

	assert.Contains(t, out.String(), "Top 50% movies by metascore for genre Drama")
	assert.Contains(t, out.String(), "Movies released after 1973")
}

func TestComputeBudgetRanking(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(testConfig(t.TempDir()), &fakeRenderer{}, nil)

	r, err := p.Compute(context.Background(), "budget_ranking", sampleMovies())
	require.NoError(t, err)
	rows, ok := r.Rows.([]BudgetRow)
	require.True(t, ok)
	require.Len(t, rows, 4)

	assert.Equal(t, "Heat", rows[0].Title)
	assert.Equal(t, "60000000.00", rows[0].USD)
	assert.Equal(t, "Amelie", rows[1].Title)
	assert.Equal(t, "11000000.00", rows[1].USD)
	assert.Equal(t, "The Godfather", rows[2].Title)
	// Unconvertible currencies sort last with an empty USD column.
	assert.Equal(t, "Apocalypse Now", rows[3].Title)
	assert.Equal(t, "XYZ", rows[3].Currency)
	assert.Empty(t, rows[3].USD)
}

func TestComputeBudgetRankingLowest(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t.TempDir())
	cfg.Analysis.TopN = false
	cfg.Analysis.BudgetLimit = 2
	p := newTestPipeline(cfg, &fakeRenderer{}, nil)

	r, err := p.Compute(context.Background(), "budget_ranking", sampleMovies())
	require.NoError(t, err)
	rows := r.Rows.([]BudgetRow)
	require.Len(t, rows, 2)
	assert.Equal(t, "The Godfather", rows[0].Title)
	assert.Equal(t, "Amelie", rows[1].Title)
}

func TestComputePercentile(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(testConfig(t.TempDir()), &fakeRenderer{}, nil)

	r, err := p.Compute(context.Background(), "metascore_percentile", sampleMovies())
	require.NoError(t, err)
	rows := r.Rows.([]MetascoreRow)
	titles := make([]string, 0, len(rows))
	for _, row := range rows {
		titles = append(titles, row.Title)
	}
	assert.Equal(t, []string{"The Godfather", "Apocalypse Now"}, titles)
}

func TestComputeUnknownTask(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(testConfig(t.TempDir()), &fakeRenderer{}, nil)
	_, err := p.Compute(context.Background(), "box_office", sampleMovies())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownTask)
}

func TestRunFailingTaskDoesNotStopOthers(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Analysis.Flag = 7
	cfg.Analysis.Movie = "Nonexistent"
	var out bytes.Buffer
	p := newTestPipeline(cfg, &fakeRenderer{}, &out)

	summary, err := p.Run(context.Background(), sampleMovies(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Failed())

	failed := map[string]string{}
	for _, o := range summary.Tasks {
		if o.Status == model.TaskStatusFailed {
			failed[o.Name] = o.Error
		}
	}
	assert.Contains(t, failed, "movies_by_year")
	assert.Contains(t, failed, "akas_by_region")
	assert.NoFileExists(t, filepath.Join(dir, "movies_by_year.json"))
	assert.FileExists(t, filepath.Join(dir, "top_director.csv"))
	assert.Contains(t, out.String(), "movies_by_year failed")
}

func TestRunOnlySelected(t *testing.T) {
	dir := t.TempDir()
	p := newTestPipeline(testConfig(dir), &fakeRenderer{}, nil)

	summary, err := p.Run(context.Background(), sampleMovies(), []string{"top_director", " oscar_movies"})
	require.NoError(t, err)
	require.Len(t, summary.Tasks, 2)
	// Execution order is fixed regardless of selection order.
	assert.Equal(t, "oscar_movies", summary.Tasks[0].Name)
	assert.Equal(t, "top_director", summary.Tasks[1].Name)
	assert.NoFileExists(t, filepath.Join(dir, "budget_ranking.csv"))
}

func TestRunUnknownSelection(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(testConfig(t.TempDir()), &fakeRenderer{}, nil)
	_, err := p.Run(context.Background(), sampleMovies(), []string{"nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "known:")
}

func TestRunPlotFallsBackToSVG(t *testing.T) {
	dir := t.TempDir()
	p := newTestPipeline(testConfig(dir), &fakeRenderer{err: errors.New("no chrome")}, nil)

	summary, err := p.Run(context.Background(), sampleMovies(), []string{"rating_vs_awards"})
	require.NoError(t, err)
	require.Len(t, summary.Tasks, 1)
	assert.Equal(t, model.TaskStatusOK, summary.Tasks[0].Status)
	assert.Equal(t, filepath.Join(dir, "rating_vs_awards.svg"), summary.Tasks[0].File)
	assert.NoFileExists(t, filepath.Join(dir, "rating_vs_awards.png"))
}

func TestRunPlotFormatSVG(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Output.PlotFormat = "svg"
	renderer := &fakeRenderer{}
	p := newTestPipeline(cfg, renderer, nil)

	summary, err := p.Run(context.Background(), sampleMovies(), []string{"rating_vs_awards"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rating_vs_awards.svg"), summary.Tasks[0].File)
	assert.Zero(t, renderer.calls)
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestPipeline(testConfig(t.TempDir()), &fakeRenderer{}, nil)
	_, err := p.Run(ctx, sampleMovies(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTaskNamesOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		"metascore_percentile",
		"imdb_percentile",
		"oscar_movies",
		"budget_ranking",
		"top_countries_by_year",
		"rating_vs_awards",
		"akas_by_region",
		"movies_by_year",
		"top_director",
	}, TaskNames())
}
