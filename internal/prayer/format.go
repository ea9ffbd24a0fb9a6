package prayer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Format constants for next-prayer display modes.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatFull               = "full"
)

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	Name      string // Full prayer name, e.g. "Asr"
	ShortName string // Abbreviated name, e.g. "A"
	Time      string // Formatted prayer time, e.g. "15:45" or "3:45 PM"
	Remaining string // Countdown, e.g. "2h 15m" or "Tomorrow"
}

// FormatClock re-renders an "HH:MM" clock string in the given Go time layout
// ("15:04" for 24h, "3:04 PM" for 12h). Unparsable input is returned as-is.
func FormatClock(clock, layout string) string {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return clock
	}
	return t.Format(layout)
}

// FormatNext formats a next-prayer result according to the chosen mode.
//
// If mode contains "{{", it is treated as a custom Go template string.
// Available template fields: .Name, .ShortName, .Time, .Remaining
//
// Example: "{{.Name}} in {{.Remaining}}" -> "Asr in 2h 15m"
func FormatNext(res NextPrayerResult, mode, layout string) string {
	timeStr := FormatClock(res.Time, layout)
	short := ShortNames[res.Name]

	if strings.Contains(mode, "{{") {
		return formatCustom(mode, FormatData{
			Name:      res.Name,
			ShortName: short,
			Time:      timeStr,
			Remaining: res.TimeUntil,
		})
	}

	switch mode {
	case FormatTimeRemaining:
		return res.TimeUntil
	case FormatNextPrayerTime:
		return timeStr
	case FormatNameAndTime:
		return fmt.Sprintf("%s %s", res.Name, timeStr)
	case FormatNameAndRemaining:
		return fmt.Sprintf("%s %s", res.Name, res.TimeUntil)
	case FormatShortNameAndTime:
		return fmt.Sprintf("%s %s", short, timeStr)
	case FormatShortNameAndRemain:
		return fmt.Sprintf("%s %s", short, res.TimeUntil)
	case FormatFull:
		return fmt.Sprintf("%s %s (%s)", res.Name, timeStr, res.TimeUntil)
	default:
		return fmt.Sprintf("%s %s", res.Name, timeStr)
	}
}

// formatCustom executes a user-provided Go template string against the FormatData.
func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	return buf.String()
}
