package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/faizmokh/belajar/internal/logbook"
)

const (
	fieldDate = iota
	fieldSubject
	fieldMinutes
	fieldNote
)

var fieldLabels = []string{"Date", "Subject", "Minutes", "Note"}

var errMinutesNotNumber = errors.New("minutes must be a whole number")

func newForm() []textinput.Model {
	inputs := make([]textinput.Model, len(fieldLabels))
	for i := range inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 200
		inputs[i] = in
	}
	inputs[fieldDate].Placeholder = "YYYY-MM-DD"
	inputs[fieldDate].CharLimit = len(logbook.DateLayout)
	inputs[fieldSubject].Placeholder = "e.g. Linear Algebra"
	inputs[fieldMinutes].Placeholder = "minutes"
	inputs[fieldMinutes].CharLimit = 5
	inputs[fieldNote].Placeholder = "optional"
	return inputs
}

// sessionFromForm reads the four inputs. Field rules beyond the minutes
// format are left to the store.
func sessionFromForm(inputs []textinput.Model) (logbook.Session, error) {
	raw := strings.TrimSpace(inputs[fieldMinutes].Value())
	minutes, err := strconv.Atoi(raw)
	if err != nil {
		return logbook.Session{}, fmt.Errorf("%w: %q", errMinutesNotNumber, raw)
	}
	return logbook.Session{
		Date:     inputs[fieldDate].Value(),
		Subject:  inputs[fieldSubject].Value(),
		Duration: minutes,
		Note:     inputs[fieldNote].Value(),
	}, nil
}

func formError(err error) string {
	switch {
	case errors.Is(err, logbook.ErrEmptySubject):
		return "Please enter a subject."
	case errors.Is(err, logbook.ErrInvalidDuration), errors.Is(err, errMinutesNotNumber):
		return "Please enter a positive number of minutes."
	case errors.Is(err, logbook.ErrInvalidDate):
		return "Please enter the date as YYYY-MM-DD."
	default:
		return fmt.Sprintf("Save failed: %v", err)
	}
}
