package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
)

// Format is an output file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// FormatFor returns the format implied by the extension of path.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", eris.Errorf("report: no format for %q", path)
	}
}

type titleRow struct {
	Title string `csv:"title"`
}

// Write serializes r to path in the format implied by its extension.
func Write(r Result, path string) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "report: create file")
	}

	switch format {
	case FormatCSV:
		err = WriteCSV(f, r)
	case FormatJSON:
		err = WriteJSON(f, r)
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = eris.Wrap(cerr, "report: close file")
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

// WriteCSV writes r as CSV. Lists become a single "title" column, mappings a
// header of keys with one row of "; "-joined values, tables one row per
// element.
func WriteCSV(w io.Writer, r Result) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	var err error
	switch r.Shape {
	case ShapeList:
		rows := make([]titleRow, len(r.Items))
		for i, t := range r.Items {
			rows[i] = titleRow{Title: t}
		}
		err = encodeRows(enc, rows)
	case ShapeMapping:
		keys := sortedKeys(r.Mapping)
		values := make([]string, len(keys))
		for i, k := range keys {
			values[i] = strings.Join(r.Mapping[k], "; ")
		}
		if err = cw.Write(keys); err == nil {
			err = cw.Write(values)
		}
	case ShapeTable:
		err = encodeRows(enc, r.Rows)
	default:
		return eris.Wrapf(ErrUnsupportedShape, "%s: %s", r.Task, r.Shape)
	}
	if err != nil {
		return eris.Wrapf(err, "report: encode csv %s", r.Task)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "report: flush csv")
	}
	return nil
}

// encodeRows writes the header and every element of rows, or only the header
// when rows is empty.
func encodeRows(enc *csvutil.Encoder, rows any) error {
	v := reflect.ValueOf(rows)
	if v.Len() == 0 {
		return enc.EncodeHeader(reflect.Zero(v.Type().Elem()).Interface())
	}
	return enc.Encode(rows)
}

// WriteJSON writes r as JSON. Lists become an array and mappings an indented
// object; tables are rejected with ErrUnsupportedShape.
func WriteJSON(w io.Writer, r Result) error {
	var (
		data []byte
		err  error
	)
	switch r.Shape {
	case ShapeList:
		data, err = json.Marshal(r.Items)
	case ShapeMapping:
		data, err = json.MarshalIndent(r.Mapping, "", "    ")
	case ShapeTable:
		return eris.Wrapf(ErrUnsupportedShape, "%s: tables are written as csv", r.Task)
	default:
		return eris.Wrapf(ErrUnsupportedShape, "%s: %s", r.Task, r.Shape)
	}
	if err != nil {
		return eris.Wrapf(err, "report: encode json %s", r.Task)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return eris.Wrap(err, "report: write json")
	}
	return nil
}

// ReadCSVTitles reads the "title" column of a CSV file written by WriteCSV.
func ReadCSVTitles(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "report: open file")
	}
	defer f.Close() //nolint:errcheck

	dec, err := csvutil.NewDecoder(csv.NewReader(f))
	if err == io.EOF {
		return []string{}, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "report: read header")
	}
	if !slices.Contains(dec.Header(), "title") {
		return nil, eris.Errorf("report: %s has no title column", path)
	}

	titles := []string{}
	for {
		var row titleRow
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrap(err, "report: decode row")
		}
		titles = append(titles, row.Title)
	}
	return titles, nil
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
