package dynamic

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Linear raises stress by one point every Interval days.
type Linear struct {
	Interval float64
}

func (d *Linear) Apply(baseline time.Time, baseStress float64, _ TaskContext, now time.Time) (float64, error) {
	return baseStress + elapsedDays(baseline, now)/d.Interval, nil
}

func (d *Linear) Token() string {
	return "dynamic-linear-day." + fnum(d.Interval)
}

var linearPrefixes = []string{"dynamic-linear-day.", "linear-day.", "dynamic-linear-day-"}

func parseLinear(text string) (Dynamic, error) {
	rest, ok := splitPrefix(text, linearPrefixes)
	if !ok {
		return nil, fmt.Errorf("not a linear dynamic: %q", text)
	}
	interval, err := strconv.ParseFloat(rest, 64)
	if err != nil || interval == 0 {
		return nil, fmt.Errorf("invalid linear dynamic interval: %q", text)
	}
	return &Linear{Interval: interval}, nil
}

// LinearWithPeak is Linear with a ceiling.
type LinearWithPeak struct {
	Interval float64
	Peak     float64
}

func (d *LinearWithPeak) Apply(baseline time.Time, baseStress float64, _ TaskContext, now time.Time) (float64, error) {
	rendered := baseStress + elapsedDays(baseline, now)/d.Interval
	return min(rendered, d.Peak), nil
}

func (d *LinearWithPeak) Token() string {
	return "dynamic-linear-day-peaked." + fnum(d.Interval) + "." + fnum(d.Peak)
}

var peakedPrefixes = []string{"dynamic-linear-day-peaked.", "linear-day-peaked."}

func parseLinearWithPeak(text string) (Dynamic, error) {
	rest, ok := splitPrefix(text, peakedPrefixes)
	if !ok {
		return nil, fmt.Errorf("not a peaked linear dynamic: %q", text)
	}
	interval, peak, err := splitPair(rest)
	if err != nil || interval == 0 {
		return nil, fmt.Errorf("invalid peaked linear dynamic: %q", text)
	}
	return &LinearWithPeak{Interval: interval, Peak: peak}, nil
}

// AbsoluteLinear raises stress by IncreaseBy every EveryXDays days, with no
// implicit +1 step and no ceiling.
type AbsoluteLinear struct {
	IncreaseBy float64
	EveryXDays float64
}

func (d *AbsoluteLinear) Apply(baseline time.Time, baseStress float64, _ TaskContext, now time.Time) (float64, error) {
	increments := elapsedDays(baseline, now) / d.EveryXDays
	return baseStress + increments*d.IncreaseBy, nil
}

func (d *AbsoluteLinear) Token() string {
	return "dynamic-linear." + fnum(d.IncreaseBy) + "." + fnum(d.EveryXDays)
}

var absoluteLinearPrefixes = []string{"dynamic-linear.", "linear."}

func parseAbsoluteLinear(text string) (Dynamic, error) {
	rest, ok := splitPrefix(text, absoluteLinearPrefixes)
	if !ok {
		return nil, fmt.Errorf("not an absolute linear dynamic: %q", text)
	}
	increaseBy, everyXDays, err := splitPair(rest)
	if err != nil || everyXDays == 0 {
		return nil, fmt.Errorf("invalid absolute linear dynamic: %q", text)
	}
	return &AbsoluteLinear{IncreaseBy: increaseBy, EveryXDays: everyXDays}, nil
}

func splitPrefix(text string, prefixes []string) (rest string, ok bool) {
	for _, p := range prefixes {
		if strings.HasPrefix(text, p) && len(text) > len(p) {
			return text[len(p):], true
		}
	}
	return "", false
}

// pairPattern matches two numbers joined by "." or "-". Each number carries
// at most one decimal point, which keeps "2.5.50" unambiguous (2.5 and 50).
var pairPattern = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)[.-](-?\d+(?:\.\d+)?)$`)

func splitPair(rest string) (a, b float64, err error) {
	m := pairPattern.FindStringSubmatch(rest)
	if m == nil {
		return 0, 0, fmt.Errorf("expected two parameters, got %q", rest)
	}
	a, err = strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, err
	}
	b, err = strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
