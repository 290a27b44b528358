package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/moviedb-cli/internal/config"
)

const testMoviesCSV = `Title,Genres,Metascore,IMDB User Rating,Awards,Budget,Year,Countries,Akas,Directors
The Godfather,"Crime, Drama",100,9.2,"Won Oscar 1973, Golden Globe 1973","$6,000,000",1972,USA,"Le Parrain (France), Der Pate (Germany)",Francis Ford Coppola
Amelie,"Comedy, Romance",69,8.3,Nominated,"EUR 10,000,000",2001,"France, Germany",,Jean-Pierre Jeunet
Heat,"Crime, Drama",76,8.3,,"$60,000,000",1995,USA,,Michael Mann
Apocalypse Now,"Drama, War",94,8.4,Won Oscar 1980,"XYZ 1,000",1979,USA,,Francis Ford Coppola
`

// useTestConfig points the global config at a small dataset in a temp dir
// and restores the previous config when the test ends.
func useTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	dataPath := filepath.Join(dir, "movies.csv")
	require.NoError(t, os.WriteFile(dataPath, []byte(testMoviesCSV), 0o644))

	ratesPath := filepath.Join(dir, "rates.yaml")
	require.NoError(t, os.WriteFile(ratesPath, []byte("to: USD\nrates:\n  EUR: 1.1\n"), 0o644))

	prev := cfg
	cfg = &config.Config{
		Analysis: config.AnalysisConfig{
			DataFile:    dataPath,
			Encoding:    "utf-8",
			Delimiter:   ",",
			Genre:       "Drama",
			Percentile:  50,
			Year:        1973,
			TopN:        true,
			Movie:       "The Godfather",
			Region:      "France",
			Flag:        1,
			BudgetLimit: 10,
		},
		Output: config.OutputConfig{Dir: filepath.Join(dir, "out"), PlotFormat: "svg"},
		Rates:  config.RatesConfig{Provider: "static", StaticFile: ratesPath, Concurrency: 2},
		Store:  config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(dir, "runs.db")},
		Server: config.ServerConfig{Port: 8080},
		Log:    config.LogConfig{Level: "info", Format: "json"},
	}
	t.Cleanup(func() { cfg = prev })
	return dir
}
