package dynamic

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// StaticOffset shifts stress by a fixed amount, floored at zero. The offset
// is deliberately mutable: incremental "bump stress by N" commands adjust it
// in place, and ZeroOutStaticOffsets resets it.
type StaticOffset struct {
	Offset float64
}

func (d *StaticOffset) Apply(_ time.Time, baseStress float64, _ TaskContext, _ time.Time) (float64, error) {
	return max(baseStress+d.Offset, 0), nil
}

func (d *StaticOffset) Token() string {
	return fmt.Sprintf("static-offset.%d", int(d.Offset))
}

var staticOffsetPattern = regexp.MustCompile(`^static-offset\.(-?\d+)$`)

func parseStaticOffset(text string) (Dynamic, error) {
	m := staticOffsetPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, fmt.Errorf("not a static-offset dynamic: %q", text)
	}
	offset, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, err
	}
	return &StaticOffset{Offset: float64(offset)}, nil
}
