package logbook

import (
	"strings"
	"time"
)

// DateLayout is the day-granularity layout every session date uses.
const DateLayout = "2006-01-02"

// Session is one logged block of study or activity time.
type Session struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Subject  string `json:"subject"`
	Duration int    `json:"duration"`
	Note     string `json:"note"`
}

// ShortID is the 8-character prefix shown in listings.
func (s Session) ShortID() string {
	if len(s.ID) <= 8 {
		return s.ID
	}
	return s.ID[:8]
}

// Normalize trims surrounding whitespace from the text fields.
func (s Session) Normalize() Session {
	s.Date = strings.TrimSpace(s.Date)
	s.Subject = strings.TrimSpace(s.Subject)
	s.Note = strings.TrimSpace(s.Note)
	return s
}

// Validate checks the record invariants: a subject and a positive duration.
func (s Session) Validate() error {
	if strings.TrimSpace(s.Subject) == "" {
		return ErrEmptySubject
	}
	if s.Duration <= 0 {
		return ErrInvalidDuration
	}
	return nil
}

// ValidateEntry applies Validate plus the date format check that interactive
// input must satisfy.
func (s Session) ValidateEntry() error {
	if _, err := ParseDate(s.Date); err != nil {
		return err
	}
	return s.Validate()
}

// ParseDate parses a YYYY-MM-DD day in the local time zone.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return parsed, nil
}

// FormatDate renders t as a session date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
