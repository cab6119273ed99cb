package model

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// coolDownPattern: an integer followed by a unit. "min" sorts before "m" in
// the alternation so "30min" never reads as 30 months.
var coolDownPattern = regexp.MustCompile(`^(\d+)(min|hr|d|w|m)$`)

// monthDuration approximates one month as 4.345 weeks.
const monthDuration = time.Duration(4.345 * 7 * 24 * float64(time.Hour))

// ParseCoolDown converts an interval spec like "2hr", "3d" or "1w" into a
// duration. Units: min, hr, d, w, m (~4.345 weeks).
func ParseCoolDown(spec string) (time.Duration, error) {
	m := coolDownPattern.FindStringSubmatch(spec)
	if m == nil {
		return 0, fmt.Errorf("cool down spec is not parseable: %q", spec)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("cool down spec is not parseable: %q", spec)
	}
	switch m[2] {
	case "min":
		return time.Duration(n) * time.Minute, nil
	case "hr":
		return time.Duration(n) * time.Hour, nil
	case "d":
		return time.Duration(n) * 24 * time.Hour, nil
	case "w":
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	default: // "m"
		return time.Duration(n) * monthDuration, nil
	}
}
