package utils

import (
	"fmt"
	"time"
)

// ParseDurationString parses duration values like "90s" or "15m" coming
// from config files or environment overrides.
func ParseDurationString(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("cannot parse duration '%s': %w", value, err)
	}
	return d, nil
}
