package dataset

import (
	"archive/zip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/sells-group/moviedb-cli/internal/model"
)

const moviesCSV = `imdbid,title,genres,metascore,imdb user rating,awards,budget,year,countries,akas,directors
tt0113277,Heat,"Action, Crime, Drama",76,8.3,"Nominated for 1 BAFTA",$60000000,1995,(USA),"Fuego contra fuego (Spain)",Michael Mann
tt0078748,Alien,"Horror, Sci-Fi",89,8.5,"Won 1 Oscar 1980","$11,000,000 (estimated)",1979,"(UK, USA)",,Ridley Scott
tt9999999,Untitled,,,,,,,,,
,,Drama,50,7.0,,,2000,,,
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadLocalCSV(t *testing.T) {
	p := writeFile(t, "movies.csv", moviesCSV)

	movies, err := Load(context.Background(), Options{Location: p})
	require.NoError(t, err)
	require.Len(t, movies, 3)

	heat := movies[0]
	assert.Equal(t, "tt0113277", heat.IMDbID)
	assert.Equal(t, "Heat", heat.Title)
	assert.Equal(t, "Action, Crime, Drama", heat.Genres)
	assert.Equal(t, 76, heat.Metascore)
	assert.InDelta(t, 8.3, heat.IMDbRating, 1e-9)
	assert.Equal(t, "$60000000", heat.Budget)
	assert.Equal(t, 1995, heat.Year)
	assert.Equal(t, "(USA)", heat.Countries)
	assert.Equal(t, "Michael Mann", heat.Directors)

	untitled := movies[2]
	assert.Equal(t, "Untitled", untitled.Title)
	assert.Equal(t, model.Missing, untitled.Metascore)
	assert.Equal(t, float64(model.Missing), untitled.IMDbRating)
	assert.Equal(t, model.Missing, untitled.Year)
	assert.Empty(t, untitled.Budget)
}

func TestLoadSentinelForUnparseableNumbers(t *testing.T) {
	p := writeFile(t, "movies.csv", "title,metascore,imdb_rating,year\nX,n/a,abc,1999.5\nY,74.0,7,2001\n")

	movies, err := Load(context.Background(), Options{Location: p})
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, model.Missing, movies[0].Metascore)
	assert.Equal(t, float64(model.Missing), movies[0].IMDbRating)
	assert.Equal(t, model.Missing, movies[0].Year)
	assert.Equal(t, 74, movies[1].Metascore)
	assert.Equal(t, 2001, movies[1].Year)
}

func TestLoadMissingTitleColumn(t *testing.T) {
	p := writeFile(t, "movies.csv", "name,year\nHeat,1995\n")

	_, err := Load(context.Background(), Options{Location: p})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing required column "title"`)
}

func TestLoadRequiresLocation(t *testing.T) {
	_, err := Load(context.Background(), Options{})
	require.Error(t, err)
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load(context.Background(), Options{Location: filepath.Join(t.TempDir(), "nope.csv")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset: open file")
}

func TestLoadDelimiterAndEncoding(t *testing.T) {
	encoded, err := charmap.Windows1252.NewEncoder().String("Title;Year\nAmélie;2001\n")
	require.NoError(t, err)
	p := writeFile(t, "movies.csv", encoded)

	movies, err := Load(context.Background(), Options{Location: p, Delimiter: ";", Encoding: "windows-1252"})
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Amélie", movies[0].Title)
	assert.Equal(t, 2001, movies[0].Year)
}

func TestLoadBadDelimiter(t *testing.T) {
	p := writeFile(t, "movies.csv", moviesCSV)

	_, err := Load(context.Background(), Options{Location: p, Delimiter: "::"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single character")
}

func TestLoadTSV(t *testing.T) {
	p := writeFile(t, "movies.tsv", "title\tyear\nHeat\t1995\n")

	movies, err := Load(context.Background(), Options{Location: p})
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, 1995, movies[0].Year)
}

func TestLoadZIP(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "movies.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	fw, err := w.Create("notes.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("ignore me"))
	require.NoError(t, err)
	fw, err = w.Create("movies.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(moviesCSV))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	movies, err := Load(context.Background(), Options{Location: zipPath})
	require.NoError(t, err)
	assert.Len(t, movies, 3)
}

func TestLoadXLSX(t *testing.T) {
	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("movies")
	require.NoError(t, err)
	for _, r := range [][]string{
		{"Title", "IMDb User Rating", "Year"},
		{"Heat", "8.3", "1995"},
		{"Alien", "", "1979"},
	} {
		row := sheet.AddRow()
		for _, c := range r {
			row.AddCell().SetString(c)
		}
	}
	p := filepath.Join(t.TempDir(), "movies.xlsx")
	require.NoError(t, wb.Save(p))

	movies, err := Load(context.Background(), Options{Location: p})
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.InDelta(t, 8.3, movies[0].IMDbRating, 1e-9)
	assert.Equal(t, float64(model.Missing), movies[1].IMDbRating)
	assert.Equal(t, 1979, movies[1].Year)
}

func TestLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/movies.csv", r.URL.Path)
		_, _ = w.Write([]byte(moviesCSV))
	}))
	defer srv.Close()

	movies, err := Load(context.Background(), Options{Location: srv.URL + "/data/movies.csv"})
	require.NoError(t, err)
	assert.Len(t, movies, 3)
}

func TestLoadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := Load(context.Background(), Options{Location: srv.URL + "/movies.csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset: download")
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", model.Missing},
		{"42", 42},
		{"42.0", 42},
		{"42.5", model.Missing},
		{"-1", model.Missing},
		{"NaN", model.Missing},
		{"x", model.Missing},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseInt(tt.in))
		})
	}
}
