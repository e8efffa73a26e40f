// Package output renders run records for the terminal.
package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/results"
)

// Format selects how records are rendered.
type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown output format")

const (
	titleColumnWidth = 48
	linkColumnWidth  = 64
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatCSV, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

var header = []string{"#", "Title", "Company", "Location", "Employer", "Y-tunnus", "Industry", "Link"}

// Render writes records to w in the given format.
func Render(w io.Writer, format Format, records []results.Record) error {
	if format == FormatCSV {
		return renderCSV(w, records)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	failed := 0
	for _, r := range records {
		if r.DetailFailed {
			failed++
		}
		t.AppendRow(table.Row{
			r.SequenceID,
			r.Title,
			r.Company,
			r.Location,
			r.Employer,
			r.RegistrationID,
			r.Field,
			r.Link,
		})
	}

	switch format {
	case FormatTable:
		t.SetStyle(table.StyleRounded)
		t.SetColumnConfigs([]table.ColumnConfig{
			{Name: "Title", WidthMax: titleColumnWidth},
			{Name: "Link", WidthMax: linkColumnWidth},
		})
		t.AppendFooter(table.Row{"Total", len(records), "Detail failed", failed})
		t.Render()
	case FormatMarkdown:
		t.RenderMarkdown()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return nil
}

// renderCSV writes RFC 4180 CSV. go-pretty's RenderCSV emits \, inside
// quoted fields, so it is not used here.
func renderCSV(w io.Writer, records []results.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.SequenceID),
			r.Title,
			r.Company,
			r.Location,
			r.Employer,
			r.RegistrationID,
			r.Field,
			r.Link,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", r.SequenceID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
