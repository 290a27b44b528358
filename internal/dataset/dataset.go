// Package dataset loads the movie metadata table from CSV or XLSX sources,
// local or remote, into model.Movie records.
package dataset

import (
	"context"
	"math"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/moviedb-cli/internal/fetcher"
	"github.com/sells-group/moviedb-cli/internal/model"
)

// Options configures Load.
type Options struct {
	// Location is a local path or an http(s):// or ftp:// URL. A .zip
	// archive is unpacked and its first .csv, .tsv or .xlsx entry is read.
	Location  string
	Encoding  string // CSV charset label, default utf-8
	Delimiter string // CSV delimiter, default "," ("\t" for .tsv)
	Sheet     string // XLSX sheet name, default first sheet
	Fetch     fetcher.Options
}

// columnAliases maps normalized header text to the canonical column.
var columnAliases = map[string]string{
	"title":            "title",
	"genres":           "genres",
	"genre":            "genres",
	"metascore":        "metascore",
	"imdb user rating": "imdb_rating",
	"imdb_user_rating": "imdb_rating",
	"imdb_rating":      "imdb_rating",
	"imdb rating":      "imdb_rating",
	"awards":           "awards",
	"budget":           "budget",
	"year":             "year",
	"countries":        "countries",
	"akas":             "akas",
	"directors":        "directors",
	"imdbid":           "imdb_id",
	"imdb_id":          "imdb_id",
}

// Load reads every movie record from the configured source.
func Load(ctx context.Context, opts Options) ([]model.Movie, error) {
	if strings.TrimSpace(opts.Location) == "" {
		return nil, eris.New("dataset: location is required")
	}

	tmpDir, err := os.MkdirTemp("", "moviedb-*")
	if err != nil {
		return nil, eris.Wrap(err, "dataset: create temp dir")
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck

	local, err := resolve(ctx, opts, tmpDir)
	if err != nil {
		return nil, err
	}

	header, rows, err := readTable(ctx, local, opts)
	if err != nil {
		return nil, err
	}

	movies, err := decode(header, rows)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: decode %s", opts.Location)
	}

	zap.L().Info("dataset: loaded",
		zap.String("location", opts.Location),
		zap.Int("rows", len(rows)),
		zap.Int("movies", len(movies)),
	)
	return movies, nil
}

// resolve returns a local file path for the source, downloading and
// unpacking into tmpDir as needed.
func resolve(ctx context.Context, opts Options, tmpDir string) (string, error) {
	local := opts.Location
	if f, remote := fetcher.ForLocation(opts.Location, opts.Fetch); remote {
		u, err := url.Parse(opts.Location)
		if err != nil {
			return "", eris.Wrap(err, "dataset: parse location")
		}
		name := path.Base(u.Path)
		if name == "." || name == "/" {
			name = "dataset.csv"
		}
		local = filepath.Join(tmpDir, name)
		n, err := f.DownloadToFile(ctx, opts.Location, local)
		if err != nil {
			return "", eris.Wrapf(err, "dataset: download %s", opts.Location)
		}
		zap.L().Debug("dataset: downloaded", zap.String("url", opts.Location), zap.Int64("bytes", n))
	}

	if strings.EqualFold(filepath.Ext(local), ".zip") {
		extracted, err := fetcher.ExtractZIPFirst(local, tmpDir, ".csv", ".tsv", ".xlsx")
		if err != nil {
			return "", eris.Wrap(err, "dataset: unpack")
		}
		local = extracted
	}

	return local, nil
}

func readTable(ctx context.Context, local string, opts Options) ([]string, [][]string, error) {
	ext := strings.ToLower(filepath.Ext(local))
	if ext == ".xlsx" {
		header, rows, err := fetcher.ReadXLSX(local, fetcher.XLSXOptions{SheetName: opts.Sheet})
		if err != nil {
			return nil, nil, eris.Wrap(err, "dataset: read workbook")
		}
		return header, rows, nil
	}

	delim := ','
	if ext == ".tsv" {
		delim = '\t'
	}
	if opts.Delimiter != "" {
		r, size := utf8.DecodeRuneInString(opts.Delimiter)
		if size != len(opts.Delimiter) {
			return nil, nil, eris.Errorf("dataset: delimiter must be a single character (got %q)", opts.Delimiter)
		}
		delim = r
	}

	f, err := os.Open(local)
	if err != nil {
		return nil, nil, eris.Wrap(err, "dataset: open file")
	}
	defer f.Close() //nolint:errcheck

	header, rowCh, errCh, err := fetcher.StreamCSV(ctx, f, fetcher.CSVOptions{
		Delimiter:  delim,
		Encoding:   opts.Encoding,
		LazyQuotes: true,
	})
	if err != nil {
		return nil, nil, eris.Wrap(err, "dataset: read csv")
	}

	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	if err := <-errCh; err != nil {
		return nil, nil, eris.Wrap(err, "dataset: read csv")
	}
	return header, rows, nil
}

func decode(header []string, rows [][]string) ([]model.Movie, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if col, ok := columnAliases[key]; ok {
			if _, dup := idx[col]; !dup {
				idx[col] = i
			}
		}
	}
	if _, ok := idx["title"]; !ok {
		return nil, eris.Errorf("missing required column %q", "title")
	}

	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	movies := make([]model.Movie, 0, len(rows))
	for n, row := range rows {
		title := cell(row, "title")
		if title == "" {
			zap.L().Warn("dataset: skipping row without title", zap.Int("row", n+2))
			continue
		}
		movies = append(movies, model.Movie{
			IMDbID:     cell(row, "imdb_id"),
			Title:      title,
			Genres:     cell(row, "genres"),
			Metascore:  parseInt(cell(row, "metascore")),
			IMDbRating: parseFloat(cell(row, "imdb_rating")),
			Awards:     cell(row, "awards"),
			Budget:     cell(row, "budget"),
			Year:       parseInt(cell(row, "year")),
			Countries:  cell(row, "countries"),
			Akas:       cell(row, "akas"),
			Directors:  cell(row, "directors"),
		})
	}
	return movies, nil
}

// parseInt accepts integral text such as "74" or "74.0"; anything else is
// Missing.
func parseInt(s string) int {
	f := parseFloat(s)
	if f == model.Missing || f != math.Trunc(f) {
		return model.Missing
	}
	return int(f)
}

func parseFloat(s string) float64 {
	if s == "" {
		return model.Missing
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return model.Missing
	}
	return f
}
