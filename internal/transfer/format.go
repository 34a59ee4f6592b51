// Package transfer converts session collections to and from the JSON and CSV
// files users export and import.
package transfer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format names an export/import file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

const exportBaseName = "progress_data"

var (
	// ErrUnsupportedFormat is returned for anything other than JSON or CSV.
	ErrUnsupportedFormat = errors.New("only JSON or CSV files are supported")
	// ErrNothingToExport is returned when exporting an empty collection.
	ErrNothingToExport = errors.New("no data to export")
	// ErrInvalidJSON is returned when the JSON top-level value is not an array.
	ErrInvalidJSON = errors.New("invalid JSON data format")
	// ErrMalformedContent wraps parser failures on import.
	ErrMalformedContent = errors.New("malformed import content")
	// ErrEmptyCSV is returned when a CSV has no data rows.
	ErrEmptyCSV = errors.New("CSV file is empty or header-only")
	// ErrNoValidRecords is returned when every imported candidate was dropped.
	ErrNoValidRecords = errors.New("no valid records found in the imported file")
)

// ParseFormat accepts "json" or "csv" in any case, with or without a dot.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(value), "."))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, value)
	}
}

// FormatFromFilename dispatches purely on the file extension.
func FormatFromFilename(name string) (Format, error) {
	ext := filepath.Ext(name)
	if ext == "" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(name))
	}
	format, err := ParseFormat(ext)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(name))
	}
	return format, nil
}

// FileName is the default export file name for the format.
func (f Format) FileName() string {
	return exportBaseName + "." + string(f)
}
