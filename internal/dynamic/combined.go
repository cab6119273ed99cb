package dynamic

import (
	"fmt"
	"strings"
	"time"
)

// Op joins two dynamics inside a combined expression.
type Op string

const (
	// OpAdd accumulates the next child's stress difference.
	OpAdd Op = "(+)"
	// OpSubtract removes the next child's stress difference.
	OpSubtract Op = "(-)"
	// OpGuardedAdd accumulates only while the previous difference was
	// non-zero; a zero difference stops the whole remaining chain.
	OpGuardedAdd Op = "(|+)"
)

// Combined evaluates an ordered list of child dynamics joined by operators.
//
// Evaluation is a running accumulation: each child renders against the
// stress accumulated so far, not the original base, and contributes the
// difference it produced. The final result never drops below zero.
type Combined struct {
	Children  []Dynamic
	Operators []Op
}

func (d *Combined) Apply(baseline time.Time, baseStress float64, task TaskContext, now time.Time) (float64, error) {
	first, err := d.Children[0].Apply(baseline, baseStress, task, now)
	if err != nil {
		return 0, err
	}
	prevDiff := first - baseStress
	current := baseStress + prevDiff

	for i, op := range d.Operators {
		next, err := d.Children[i+1].Apply(baseline, current, task, now)
		if err != nil {
			return 0, err
		}
		diff := next - current
		switch op {
		case OpAdd:
			current += diff
		case OpSubtract:
			current -= diff
		case OpGuardedAdd:
			if prevDiff == 0 {
				// Guard failed: keep what accumulated, skip the rest.
				return max(current, 0), nil
			}
			current += diff
		default:
			return 0, fmt.Errorf("%w: %q", ErrUnsupportedOperator, op)
		}
		prevDiff = diff
	}
	return max(current, 0), nil
}

func (d *Combined) Token() string {
	var b strings.Builder
	b.WriteString(d.Children[0].Token())
	for i, op := range d.Operators {
		b.WriteString(" " + string(op) + " ")
		b.WriteString(d.Children[i+1].Token())
	}
	return b.String()
}
