package common

import (
	"fmt"
	"strings"
	"time"
)

// FormatDurationRemaining renders a duration as "1 day, 2 hours, 3 seconds".
func FormatDurationRemaining(d time.Duration) string {
	if d <= 0 {
		return "0 seconds"
	}

	units := []struct {
		name  string
		value int
	}{
		{"day", int(d.Hours()) / 24},
		{"hour", int(d.Hours()) % 24},
		{"minute", int(d.Minutes()) % 60},
		{"second", int(d.Seconds()) % 60},
	}

	var parts []string
	for _, unit := range units {
		switch {
		case unit.value == 1:
			parts = append(parts, "1 "+unit.name)
		case unit.value > 1:
			parts = append(parts, fmt.Sprintf("%d %ss", unit.value, unit.name))
		}
	}

	if len(parts) == 0 {
		return "0 seconds"
	}

	return strings.Join(parts, ", ")
}
