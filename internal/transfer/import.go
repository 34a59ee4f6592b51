package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/faizmokh/belajar/internal/logbook"
)

// Result is the outcome of decoding an import file.
type Result struct {
	Format   Format
	Sessions []logbook.Session
	// Skipped counts candidates dropped by validation or shape mismatches.
	Skipped int
}

// DecodeFile reads path and decodes it with Decode.
func DecodeFile(path string, now time.Time) (Result, error) {
	format, err := FormatFromFilename(path)
	if err != nil {
		return Result{}, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	return decode(format, content, now)
}

// Decode parses content according to the extension of name. now supplies
// the date for CSV or JSON records that carry none. Only records with a
// non-empty subject and a positive whole-minute duration are returned; if none
// survive, ErrNoValidRecords is returned.
func Decode(name string, content []byte, now time.Time) (Result, error) {
	format, err := FormatFromFilename(name)
	if err != nil {
		return Result{}, err
	}
	return decode(format, content, now)
}

func decode(format Format, content []byte, now time.Time) (Result, error) {
	content = trimBOM(content)

	var (
		candidates []candidate
		skipped    int
		err        error
	)
	switch format {
	case FormatJSON:
		candidates, skipped, err = decodeJSON(content)
	case FormatCSV:
		candidates, skipped, err = decodeCSV(string(content))
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Result{}, err
	}

	result := Result{Format: format, Skipped: skipped}
	today := logbook.FormatDate(now)
	for _, c := range candidates {
		session, ok := c.session(today)
		if !ok {
			result.Skipped++
			continue
		}
		result.Sessions = append(result.Sessions, session)
	}

	if len(result.Sessions) == 0 {
		return result, ErrNoValidRecords
	}
	return result, nil
}

// candidate is a record before validation. A nil duration means the source
// value was missing or not a number.
type candidate struct {
	date     string
	subject  string
	duration *float64
	note     string
}

func (c candidate) session(today string) (logbook.Session, bool) {
	subject := strings.TrimSpace(c.subject)
	if subject == "" || c.duration == nil {
		return logbook.Session{}, false
	}
	d := *c.duration
	if d <= 0 || d != math.Trunc(d) || d > math.MaxInt32 {
		return logbook.Session{}, false
	}

	date := strings.TrimSpace(c.date)
	if date == "" {
		date = today
	}
	return logbook.Session{
		Date:     date,
		Subject:  subject,
		Duration: int(d),
		Note:     strings.TrimSpace(c.note),
	}, true
}

func decodeJSON(content []byte) ([]candidate, int, error) {
	var top any
	if err := json.Unmarshal(content, &top); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedContent, err)
	}
	items, ok := top.([]any)
	if !ok {
		return nil, 0, ErrInvalidJSON
	}

	var (
		out     []candidate
		skipped int
	)
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		c := candidate{
			date:    stringField(obj, "date", columnDate),
			subject: stringField(obj, "subject", columnActivity),
			note:    stringField(obj, "note", columnNotes),
		}
		if d, ok := numberField(obj, "duration", columnDuration); ok {
			c.duration = &d
		}
		out = append(out, c)
	}
	return out, skipped, nil
}

// stringField returns the first key holding a string value.
func stringField(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := obj[key].(string); ok {
			return v
		}
	}
	return ""
}

// numberField returns the first key holding a JSON number.
func numberField(obj map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		if v, ok := obj[key].(float64); ok {
			return v, true
		}
	}
	return 0, false
}

func decodeCSV(text string) ([]candidate, int, error) {
	records := splitRecords(text)
	if len(records) < 2 {
		return nil, 0, ErrEmptyCSV
	}

	headerFields := splitFields(records[0])
	header := make([]string, len(headerFields))
	for i, cell := range headerFields {
		header[i] = headerKey(cell)
	}

	var (
		out     []candidate
		skipped int
	)
	for _, line := range records[1:] {
		fields := splitFields(line)
		if len(fields) != len(header) {
			skipped++
			continue
		}

		item := make(map[string]string, len(header))
		for i, key := range header {
			item[key] = unquote(fields[i])
		}

		d := float64(leadingInt(item["duration"]))
		out = append(out, candidate{
			date:     item["date"],
			subject:  firstNonEmpty(item["activity"], item["subject"]),
			duration: &d,
			note:     firstNonEmpty(item["notes"], item["note"]),
		})
	}
	return out, skipped, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func trimBOM(content []byte) []byte {
	return bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
}
