// Package stats derives dashboard aggregates from a snapshot of sessions.
// Every function is pure; an empty input yields zero values, never an error.
package stats

import (
	"math"
	"sort"

	"github.com/faizmokh/belajar/internal/logbook"
)

// Summary holds the headline numbers.
type Summary struct {
	TotalSessions  int
	TotalMinutes   int
	UniqueSubjects int
	// AverageMinutes is TotalMinutes/TotalSessions rounded to one decimal.
	AverageMinutes float64
	FirstDate      string
	LastDate       string
}

// SubjectTotal is the summed duration of one subject.
type SubjectTotal struct {
	Subject string
	Minutes int
}

// DayTotal is the summed duration of one date.
type DayTotal struct {
	Date    string
	Minutes int
}

// Summarize computes the headline numbers for sessions.
func Summarize(sessions []logbook.Session) Summary {
	var summary Summary
	subjects := make(map[string]struct{}, len(sessions))

	for _, s := range sessions {
		summary.TotalSessions++
		summary.TotalMinutes += s.Duration
		subjects[s.Subject] = struct{}{}

		if summary.FirstDate == "" || s.Date < summary.FirstDate {
			summary.FirstDate = s.Date
		}
		if s.Date > summary.LastDate {
			summary.LastDate = s.Date
		}
	}

	summary.UniqueSubjects = len(subjects)
	if summary.TotalSessions > 0 {
		summary.AverageMinutes = roundTenth(float64(summary.TotalMinutes) / float64(summary.TotalSessions))
	}
	return summary
}

// BySubject sums durations per subject, in the order subjects first appear.
func BySubject(sessions []logbook.Session) []SubjectTotal {
	index := make(map[string]int)
	var totals []SubjectTotal

	for _, s := range sessions {
		i, ok := index[s.Subject]
		if !ok {
			i = len(totals)
			index[s.Subject] = i
			totals = append(totals, SubjectTotal{Subject: s.Subject})
		}
		totals[i].Minutes += s.Duration
	}
	return totals
}

// ByDay sums durations per date, sorted ascending by the date string. The
// ordering is chronological only for zero-padded YYYY-MM-DD dates.
func ByDay(sessions []logbook.Session) []DayTotal {
	sums := make(map[string]int)
	for _, s := range sessions {
		sums[s.Date] += s.Duration
	}

	totals := make([]DayTotal, 0, len(sums))
	for date, minutes := range sums {
		totals = append(totals, DayTotal{Date: date, Minutes: minutes})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Date < totals[j].Date
	})
	return totals
}

// Subjects lists distinct subjects in first-seen order.
func Subjects(sessions []logbook.Session) []string {
	totals := BySubject(sessions)
	out := make([]string, len(totals))
	for i, t := range totals {
		out[i] = t.Subject
	}
	return out
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
