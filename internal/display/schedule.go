package display

import (
	"fmt"
	"strings"
)

// Schedule renders an aligned two-column prayer schedule with one row
// optionally highlighted (the next prayer) and one dimmed (the current one).
type Schedule struct {
	rows []scheduleRow
}

type scheduleRow struct {
	name       string
	time       string
	annotation string // rendered after the time, e.g. "<- next in 2h 15m"
	highlight  bool
	dimmed     bool
}

// NewSchedule creates an empty schedule renderer.
func NewSchedule() *Schedule {
	return &Schedule{}
}

// AddRow appends a plain name/time row.
func (s *Schedule) AddRow(name, time string) {
	s.rows = append(s.rows, scheduleRow{name: name, time: time})
}

// AddHighlightedRow appends the next-prayer row with a countdown annotation.
func (s *Schedule) AddHighlightedRow(name, time, annotation string) {
	s.rows = append(s.rows, scheduleRow{name: name, time: time, annotation: annotation, highlight: true})
}

// AddDimmedRow appends a dimmed row (a prayer that has already passed).
func (s *Schedule) AddDimmedRow(name, time string) {
	s.rows = append(s.rows, scheduleRow{name: name, time: time, dimmed: true})
}

// Render produces the formatted schedule string with leading indent.
func (s *Schedule) Render() string {
	if len(s.rows) == 0 {
		return ""
	}

	nameWidth := 0
	for _, r := range s.rows {
		if len(r.name) > nameWidth {
			nameWidth = len(r.name)
		}
	}

	var sb strings.Builder
	for _, r := range s.rows {
		line := fmt.Sprintf("  %-*s  %s", nameWidth, r.name, r.time)
		switch {
		case r.highlight:
			if r.annotation != "" {
				line += "  " + r.annotation
			}
			sb.WriteString(Accent(line) + "\n")
		case r.dimmed:
			sb.WriteString(Dim(line) + "\n")
		default:
			sb.WriteString(line + "\n")
		}
	}

	return sb.String()
}
