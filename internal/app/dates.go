package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDateInput turns interactive date entry into a timestamp. Accepted
// forms: empty (no date), ISO-8601, and the compact "19", "19.9" and
// "19.9.2026" day-first forms. Compact dates land at 9am local time and
// roll forward: a day already past this month means next month, a month
// already past means next year.
func ParseDateInput(raw string, now time.Time) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, raw, now.Location()); err == nil {
			return &t, nil
		}
	}

	parts := strings.Split(raw, ".")
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("unrecognized date %q", raw)
		}
		nums = append(nums, n)
	}

	var day, month, year int
	switch len(nums) {
	case 1:
		day = nums[0]
		month = int(now.Month())
		year = now.Year()
		if now.Day() > day {
			month++
		}
		if month > 12 {
			month = 1
			year++
		}
	case 2:
		day = nums[0]
		month = nums[1]
		year = now.Year()
		if int(now.Month()) > month {
			year++
		}
	case 3:
		day = nums[0]
		month = nums[1]
		year = nums[2]
	default:
		return nil, fmt.Errorf("unrecognized date %q", raw)
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil, fmt.Errorf("unrecognized date %q", raw)
	}
	t := time.Date(year, time.Month(month), day, 9, 0, 0, 0, now.Location())
	return &t, nil
}
