package transfer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faizmokh/belajar/internal/logbook"
)

var importDay = time.Date(2024, 3, 15, 9, 0, 0, 0, time.Local)

func sampleSessions() []logbook.Session {
	return []logbook.Session{
		{ID: "a", Date: "2024-01-01", Subject: "Math", Duration: 30, Note: "chapter 1"},
		{ID: "b", Date: "2024-01-01", Subject: "Math", Duration: 20},
		{ID: "c", Date: "2024-01-02", Subject: "Art", Duration: 10, Note: `said "hi", then left` + "\nsecond line"},
	}
}

type tuple struct {
	Date     string
	Subject  string
	Duration int
	Note     string
}

func tuples(sessions []logbook.Session) []tuple {
	out := make([]tuple, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, tuple{s.Date, s.Subject, s.Duration, s.Note})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Subject != out[j].Subject {
			return out[i].Subject < out[j].Subject
		}
		return out[i].Duration < out[j].Duration
	})
	return out
}

func TestExportEmptyCollection(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatCSV} {
		data, err := Export(nil, format)
		assert.ErrorIs(t, err, ErrNothingToExport)
		assert.Nil(t, data)
	}
}

func TestExportJSONShape(t *testing.T) {
	data, err := Export(sampleSessions()[:1], FormatJSON)
	require.NoError(t, err)

	want := "[\n  {\n    \"Date\": \"2024-01-01\",\n    \"Activity\": \"Math\",\n    \"Duration (min)\": 30,\n    \"Notes\": \"chapter 1\"\n  }\n]"
	assert.Equal(t, want, string(data))
}

func TestExportJSONDoesNotEscapeHTML(t *testing.T) {
	data, err := Export([]logbook.Session{{Date: "2024-01-01", Subject: "R&D <lab>", Duration: 5}}, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), "R&D <lab>")
}

func TestExportCSVShape(t *testing.T) {
	data, err := Export(sampleSessions()[:2], FormatCSV)
	require.NoError(t, err)

	want := "Date,Activity,Duration (min),Notes\n" +
		`"2024-01-01","Math","30","chapter 1"` + "\n" +
		`"2024-01-01","Math","20",""`
	assert.Equal(t, want, string(data))
}

func TestExportUnsupportedFormat(t *testing.T) {
	_, err := Export(sampleSessions(), Format("xml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatCSV} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Export(sampleSessions(), format)
			require.NoError(t, err)

			result, err := Decode(format.FileName(), data, importDay)
			require.NoError(t, err)
			assert.Equal(t, format, result.Format)
			assert.Zero(t, result.Skipped)
			assert.Equal(t, tuples(sampleSessions()), tuples(result.Sessions))
			for _, s := range result.Sessions {
				assert.Empty(t, s.ID, "decoded sessions get IDs from the store")
			}
		})
	}
}

func TestDecodeJSONPersistedKeys(t *testing.T) {
	content := `[{"id":"x","date":"2024-02-02","subject":"Piano","duration":25,"note":"scales"}]`

	result, err := Decode("backup.JSON", []byte(content), importDay)
	require.NoError(t, err)
	require.Len(t, result.Sessions, 1)
	assert.Equal(t, tuple{"2024-02-02", "Piano", 25, "scales"}, tuples(result.Sessions)[0])
}

func TestDecodeJSONDropsInvalidRecords(t *testing.T) {
	content := `[
		{"date":"2024-01-01","subject":"Math","duration":0},
		{"date":"2024-01-01","subject":"Math","duration":-5},
		{"date":"2024-01-01","subject":"   ","duration":10},
		{"date":"2024-01-01","subject":"Math","duration":"10"},
		{"date":"2024-01-01","subject":"Math","duration":1.5},
		{"date":"2024-01-01","subject":42,"duration":10},
		"not an object",
		{"subject":"Chess","duration":15,"note":7}
	]`

	result, err := Decode("data.json", []byte(content), importDay)
	require.NoError(t, err)
	require.Len(t, result.Sessions, 1)
	assert.Equal(t, 7, result.Skipped)
	assert.Equal(t, tuple{"2024-03-15", "Chess", 15, ""}, tuples(result.Sessions)[0])
}

func TestDecodeJSONErrors(t *testing.T) {
	_, err := Decode("data.json", []byte(`{"date":"2024-01-01"}`), importDay)
	assert.ErrorIs(t, err, ErrInvalidJSON)

	_, err = Decode("data.json", []byte(`[{"date":`), importDay)
	assert.ErrorIs(t, err, ErrMalformedContent)

	_, err = Decode("data.json", []byte(`[]`), importDay)
	assert.ErrorIs(t, err, ErrNoValidRecords)

	_, err = Decode("data.json", []byte(`[{"subject":"Math","duration":0}]`), importDay)
	assert.ErrorIs(t, err, ErrNoValidRecords)
}

func TestDecodeCSVExample(t *testing.T) {
	content := "Date,Activity,Duration (min),Notes\n\"2024-01-01\",\"Math\",\"45\",\"ok\""

	result, err := Decode("progress_data.csv", []byte(content), importDay)
	require.NoError(t, err)
	require.Len(t, result.Sessions, 1)
	assert.Equal(t, tuple{"2024-01-01", "Math", 45, "ok"}, tuples(result.Sessions)[0])
}

func TestDecodeCSVHeaderOnly(t *testing.T) {
	for _, content := range []string{"", "Date,Activity,Duration (min),Notes", "Date,Activity\n\n   \n"} {
		_, err := Decode("x.csv", []byte(content), importDay)
		assert.ErrorIs(t, err, ErrEmptyCSV, "content %q", content)
	}
}

func TestDecodeCSVTolerance(t *testing.T) {
	content := "\xef\xbb\xbfdate,subject,duration,note\r\n" +
		",Reading,30 min,\r\n" +
		"2024-01-03,Math,abc,skip me\r\n" +
		"2024-01-03,,20,no subject\r\n" +
		"2024-01-04,Math,15\r\n" +
		"\r\n" +
		"2024-01-05,Art,-5,negative\r\n"

	result, err := Decode("x.csv", []byte(content), importDay)
	require.NoError(t, err)
	require.Len(t, result.Sessions, 1)
	assert.Equal(t, tuple{"2024-03-15", "Reading", 30, ""}, tuples(result.Sessions)[0])
	assert.Equal(t, 4, result.Skipped)
}

func TestDecodeCSVStrayQuoteStaysOnItsLine(t *testing.T) {
	content := "Date,Activity,Duration (min),Notes\n" +
		"2024-01-01,Math,30,he said \"hi\n" +
		"2024-01-02,Art,20,ok\n" +
		"2024-01-03,Bio,10,ok\n"

	result, err := Decode("x.csv", []byte(content), importDay)
	require.NoError(t, err)
	assert.Zero(t, result.Skipped)
	assert.Equal(t, []tuple{
		{"2024-01-02", "Art", 20, "ok"},
		{"2024-01-03", "Bio", 10, "ok"},
		{"2024-01-01", "Math", 30, "he said hi"},
	}, tuples(result.Sessions))
}

func TestDecodeCSVUnterminatedQuoteFallsBackToLines(t *testing.T) {
	content := "Date,Activity,Duration (min),Notes\n" +
		"2024-01-01,Math,30,\"never closed\n" +
		"2024-01-02,Art,20,ok"

	result, err := Decode("x.csv", []byte(content), importDay)
	require.NoError(t, err)
	assert.Zero(t, result.Skipped)
	assert.Equal(t, []tuple{
		{"2024-01-02", "Art", 20, "ok"},
		{"2024-01-01", "Math", 30, "never closed"},
	}, tuples(result.Sessions))
}

func TestDecodeUnsupportedFile(t *testing.T) {
	for _, name := range []string{"data.txt", "data", "archive.json.gz"} {
		_, err := Decode(name, []byte("[]"), importDay)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, name)
	}
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.json")
	data, err := json.Marshal([]map[string]any{{"Date": "2024-01-09", "Activity": "Go", "Duration (min)": 90, "Notes": ""}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	result, err := DecodeFile(path, importDay)
	require.NoError(t, err)
	assert.Equal(t, []tuple{{"2024-01-09", "Go", 90, ""}}, tuples(result.Sessions))

	_, err = DecodeFile(filepath.Join(dir, "missing.csv"), importDay)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCSVHelpers(t *testing.T) {
	assert.Equal(t, []string{`"a,b"`, "c", ""}, splitFields(`"a,b",c,`))
	assert.Equal(t, []string{"h", "\"x\ny\",z"}, splitRecords("h\n\"x\ny\",z\n\n"))
	assert.Equal(t, `say "hi"`, unquote(` "say ""hi""" `))
	assert.Equal(t, "abc", unquote(`a"bc`))
	assert.Equal(t, []string{"a", `b "c`, "d"}, splitFields(`a,b "c,d`))
	assert.Equal(t, []string{`"x ""y"", z"`, "w"}, splitFields(`"x ""y"", z",w`))
	assert.Equal(t, []string{"h", `a,"open`, "b"}, splitRecords("h\na,\"open\nb"))
	assert.Equal(t, "duration", headerKey(` "Duration (min)" `))
	assert.Equal(t, "start_date", headerKey("Start Date"))
	assert.Equal(t, 42, leadingInt("42abc"))
	assert.Equal(t, -3, leadingInt(" -3"))
	assert.Equal(t, 0, leadingInt("x1"))
}
