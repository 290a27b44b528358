package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func collectRows(t *testing.T, rowCh <-chan []string, errCh <-chan error) ([][]string, error) {
	t.Helper()
	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	// Drain error channel
	for err := range errCh {
		if err != nil {
			return rows, err
		}
	}
	return rows, nil
}

func TestStreamCSV_Basic(t *testing.T) {
	input := "a,b,c\n1,2,3\n4,5,6\n"
	header, rowCh, errCh, err := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, header)

	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "2", "3"}, rows[0])
	assert.Equal(t, []string{"4", "5", "6"}, rows[1])
}

func TestStreamCSV_SemicolonDelimited(t *testing.T) {
	input := "title;year\nHeat;1995\n"
	header, rowCh, errCh, err := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{
		Delimiter: ';',
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "year"}, header)

	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Heat", "1995"}}, rows)
}

func TestStreamCSV_QuotedCommas(t *testing.T) {
	input := "title,genres\n\"Heat\",\"Crime, Drama\"\n"
	_, rowCh, errCh, err := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)

	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Crime, Drama", rows[0][1])
}

func TestStreamCSV_TrimSpaceAndBOM(t *testing.T) {
	input := "\ufefftitle , year\n Heat , 1995 \n"
	header, rowCh, errCh, err := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{
		TrimSpace: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "year"}, header)

	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Heat", "1995"}}, rows)
}

func TestStreamCSV_VariableFields(t *testing.T) {
	input := "a,b,c\n1,2\n3,4,5,6\n"
	_, rowCh, errCh, err := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)

	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 2)
	assert.Len(t, rows[1], 4)
}

func TestStreamCSV_Latin1(t *testing.T) {
	encoded, err := charmap.ISO8859_1.NewEncoder().String("title\nAmélie\n")
	require.NoError(t, err)

	_, rowCh, errCh, err := StreamCSV(context.Background(), strings.NewReader(encoded), CSVOptions{
		Encoding: "latin1",
	})
	require.NoError(t, err)

	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Amélie"}}, rows)
}

func TestStreamCSV_UnknownEncoding(t *testing.T) {
	_, _, _, err := StreamCSV(context.Background(), strings.NewReader("a\n"), CSVOptions{Encoding: "klingon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown encoding")
}

func TestStreamCSV_Empty(t *testing.T) {
	_, _, _, err := StreamCSV(context.Background(), strings.NewReader(""), CSVOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing header")
}

func TestStreamCSV_MalformedRow(t *testing.T) {
	input := "a,b\n\"unterminated,2\n"
	_, rowCh, errCh, err := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)

	_, err = collectRows(t, rowCh, errCh)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv: read row")
}

func TestStreamCSV_ContextCancelled(t *testing.T) {
	var b strings.Builder
	b.WriteString("n\n")
	for i := 0; i < 1000; i++ {
		b.WriteString("1\n")
	}

	ctx, cancel := context.WithCancel(context.Background())
	_, rowCh, errCh, err := StreamCSV(ctx, strings.NewReader(b.String()), CSVOptions{})
	require.NoError(t, err)
	cancel()

	_, err = collectRows(t, rowCh, errCh)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context cancelled")
}
