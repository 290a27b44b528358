package fetcher

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// CSVOptions configures the streaming CSV parser.
type CSVOptions struct {
	Delimiter  rune   // default ','
	Encoding   string // WHATWG label, default utf-8
	LazyQuotes bool
	TrimSpace  bool
}

// StreamCSV reads the header row of r and then streams the remaining rows.
// Caller must consume the returned row channel. Errors are sent on the error channel.
// Both channels are closed when processing completes.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) ([]string, <-chan []string, <-chan error, error) {
	src, err := decodeReader(r, opts.Encoding)
	if err != nil {
		return nil, nil, nil, err
	}

	reader := csv.NewReader(src)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, nil, eris.New("csv: missing header row")
	}
	if err != nil {
		return nil, nil, nil, eris.Wrap(err, "csv: read header")
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	trimFields(header, opts.TrimSpace)

	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "csv: read row")
				return
			}
			trimFields(record, opts.TrimSpace)

			select {
			case rowCh <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}
		}
	}()

	return header, rowCh, errCh, nil
}

func trimFields(record []string, trim bool) {
	if !trim {
		return
	}
	for i, field := range record {
		record[i] = strings.TrimSpace(field)
	}
}

// decodeReader wraps r so that it yields UTF-8 for the named encoding.
func decodeReader(r io.Reader, name string) (io.Reader, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return r, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: unknown encoding %q", name)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
