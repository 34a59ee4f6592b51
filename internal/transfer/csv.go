package transfer

import (
	"regexp"
	"strconv"
	"strings"
)

var parenthesizedSuffix = regexp.MustCompile(`\s*\(.*\)`)

// splitRecords splits text into non-blank records on newlines outside quoted
// spans. A span left open at the end of the text is split back into plain
// lines, so one unbalanced quote cannot swallow the rows after it.
func splitRecords(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	parts, open := scanQuoted(text, '\n')
	if open {
		last := parts[len(parts)-1]
		parts = append(parts[:len(parts)-1], strings.Split(last, "\n")...)
	}

	records := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSuffix(part, "\r")
		if strings.TrimSpace(part) != "" {
			records = append(records, part)
		}
	}
	return records
}

// splitFields splits one record on commas outside quoted spans. Quotes are
// kept; unquote strips them.
func splitFields(record string) []string {
	fields, _ := scanQuoted(record, ',')
	return fields
}

// scanQuoted splits text on sep outside quoted spans and reports whether a
// span was still open at the end. A quote opens a span only as the first
// non-blank character of a field; anywhere else it is literal. Inside a span
// a doubled quote is an escaped quote.
func scanQuoted(text string, sep rune) ([]string, bool) {
	var (
		parts      []string
		current    strings.Builder
		inQuotes   bool
		fieldStart = true
	)
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inQuotes && r == '"':
			current.WriteRune(r)
			if i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
				continue
			}
			inQuotes = false
		case inQuotes:
			current.WriteRune(r)
		case r == sep:
			parts = append(parts, current.String())
			current.Reset()
			fieldStart = true
		case r == '"' && fieldStart:
			inQuotes = true
			fieldStart = false
			current.WriteRune(r)
		default:
			current.WriteRune(r)
			switch r {
			case ',', '\n':
				fieldStart = true
			case ' ', '\t':
			default:
				fieldStart = false
			}
		}
	}
	return append(parts, current.String()), inQuotes
}

// unquote trims a field and removes its quoting. A fully quoted value has its
// outer quotes dropped and doubled quotes collapsed; stray quotes elsewhere
// are removed.
func unquote(field string) string {
	field = strings.TrimSpace(field)
	if len(field) >= 2 && strings.HasPrefix(field, `"`) && strings.HasSuffix(field, `"`) {
		return strings.ReplaceAll(field[1:len(field)-1], `""`, `"`)
	}
	return strings.ReplaceAll(field, `"`, "")
}

// headerKey turns a header cell such as `"Duration (min)"` into `duration`.
func headerKey(cell string) string {
	key := strings.ReplaceAll(strings.TrimSpace(cell), `"`, "")
	key = strings.ToLower(key)
	key = parenthesizedSuffix.ReplaceAllString(key, "")
	key = strings.TrimSpace(key)
	return strings.ReplaceAll(key, " ", "_")
}

// leadingInt reads an optional sign and the leading digits of value, the way
// a lenient integer parse would. Anything unparsable is 0.
func leadingInt(value string) int {
	value = strings.TrimSpace(value)
	end := 0
	if end < len(value) && (value[end] == '+' || value[end] == '-') {
		end++
	}
	start := end
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.Atoi(value[:end])
	if err != nil {
		return 0
	}
	return n
}
