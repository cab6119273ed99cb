package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoolDown(t *testing.T) {
	cases := []struct {
		spec string
		want time.Duration
	}{
		{"30min", 30 * time.Minute},
		{"2hr", 2 * time.Hour},
		{"3d", 3 * 24 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
		{"2m", 2 * monthDuration},
	}
	for _, c := range cases {
		got, err := ParseCoolDown(c.spec)
		require.NoError(t, err, c.spec)
		assert.Equal(t, c.want, got, c.spec)
	}
}

func TestParseCoolDownRejectsGarbage(t *testing.T) {
	for _, spec := range []string{"", "soon", "3", "d3", "1.5d", "3 d", "min"} {
		_, err := ParseCoolDown(spec)
		assert.Error(t, err, spec)
	}
}
