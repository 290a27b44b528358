package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/rotisserie/eris"
)

// Printer renders results for a terminal.
type Printer struct {
	w       io.Writer
	heading *color.Color
	muted   *color.Color
	failure *color.Color
}

// NewPrinter creates a Printer writing to w. Colors follow the fatih/color
// terminal detection.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{
		w:       w,
		heading: color.New(color.FgCyan, color.Bold),
		muted:   color.New(color.FgHiBlack),
		failure: color.New(color.FgRed),
	}
}

// Heading prints a section title.
func (p *Printer) Heading(format string, args ...any) {
	p.heading.Fprintf(p.w, format+"\n", args...) //nolint:errcheck
}

// Failure prints a task failure.
func (p *Printer) Failure(task string, err error) {
	p.failure.Fprintf(p.w, "%s failed: %v\n", task, err) //nolint:errcheck
}

// Print renders r below a heading of title.
func (p *Printer) Print(title string, r Result) error {
	p.Heading("%s", title)

	if r.Len() == 0 {
		p.muted.Fprintln(p.w, "(no results)") //nolint:errcheck
		return nil
	}

	switch r.Shape {
	case ShapeList:
		for _, item := range r.Items {
			fmt.Fprintf(p.w, "  %s\n", item)
		}
	case ShapeMapping:
		table := p.newTable([]string{"Key", "Values"})
		for _, k := range sortedKeys(r.Mapping) {
			table.Append([]string{k, strings.Join(r.Mapping[k], "; ")})
		}
		table.Render()
	case ShapeTable:
		var buf bytes.Buffer
		if err := WriteCSV(&buf, r); err != nil {
			return err
		}
		records, err := csv.NewReader(&buf).ReadAll()
		if err != nil {
			return eris.Wrap(err, "report: reread table")
		}
		table := p.newTable(records[0])
		table.AppendBulk(records[1:])
		table.Render()
	default:
		return eris.Wrapf(ErrUnsupportedShape, "%s: %s", r.Task, r.Shape)
	}
	return nil
}

func (p *Printer) newTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(p.w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	return table
}
