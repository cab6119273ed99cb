package model

import (
	"fmt"
	"strings"
	"time"
)

const icsTimeLayout = "20060102T150405"

// BuildCalendarICS builds an iCalendar event for working on the task: it
// starts at now rounded up to the next quarter hour and runs for the task's
// estimated duration.
func BuildCalendarICS(t *Task, now time.Time) (string, error) {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return "", fmt.Errorf("task title required for calendar export")
	}
	if t.Duration <= 0 {
		return "", fmt.Errorf("task duration required for calendar export")
	}

	start := roundUp(now, 15*time.Minute)
	end := start.Add(time.Duration(t.Duration) * time.Minute)

	uid := fmt.Sprintf("task-%s@procrastitask", t.ID)
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Procrastitask//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + escapeICSText(uid),
		"DTSTAMP:" + now.UTC().Format(icsTimeLayout) + "Z",
		"SUMMARY:" + escapeICSText(title),
		"DTSTART:" + start.Format(icsTimeLayout),
		"DTEND:" + end.Format(icsTimeLayout),
	}
	if desc := strings.TrimSpace(t.Description); desc != "" {
		lines = append(lines, "DESCRIPTION:"+escapeICSText(desc))
	}
	lines = append(lines, "END:VEVENT", "END:VCALENDAR", "")

	return strings.Join(lines, "\r\n"), nil
}

func roundUp(t time.Time, step time.Duration) time.Time {
	rounded := t.Truncate(step)
	if rounded.Before(t) {
		rounded = rounded.Add(step)
	}
	return rounded
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
