package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/faizmokh/belajar/internal/logbook"
)

// Column names shared by both export formats.
const (
	columnDate     = "Date"
	columnActivity = "Activity"
	columnDuration = "Duration (min)"
	columnNotes    = "Notes"
)

var exportHeader = []string{columnDate, columnActivity, columnDuration, columnNotes}

type exportRow struct {
	Date     string `json:"Date"`
	Activity string `json:"Activity"`
	Duration int    `json:"Duration (min)"`
	Notes    string `json:"Notes"`
}

// Export renders sessions in the requested format. An empty collection
// returns ErrNothingToExport.
func Export(sessions []logbook.Session, format Format) ([]byte, error) {
	if len(sessions) == 0 {
		return nil, ErrNothingToExport
	}

	rows := make([]exportRow, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, exportRow{
			Date:     s.Date,
			Activity: s.Subject,
			Duration: s.Duration,
			Notes:    s.Note,
		})
	}

	switch format {
	case FormatJSON:
		return exportJSON(rows)
	case FormatCSV:
		return exportCSV(rows), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func exportJSON(rows []exportRow) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// exportCSV quotes every data field and doubles embedded quotes. Rows are
// joined with \n and there is no trailing newline. Newlines inside a note stay
// inside its quoted field.
func exportCSV(rows []exportRow) []byte {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(exportHeader, ","))

	for _, row := range rows {
		fields := []string{
			quoteField(row.Date),
			quoteField(row.Activity),
			quoteField(strconv.Itoa(row.Duration)),
			quoteField(row.Notes),
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return []byte(strings.Join(lines, "\n"))
}

func quoteField(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
