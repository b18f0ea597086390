package plan

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeClock parses a 24-hour H:MM or HH:MM string and returns it
// zero-padded as HH:MM.
func NormalizeClock(value string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return "", false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 || minute < 0 || minute > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// shiftClock moves a normalized HH:MM value by delta minutes, wrapping around
// midnight.
func shiftClock(value string, delta int) string {
	normalized, ok := NormalizeClock(value)
	if !ok {
		return value
	}
	hour, _ := strconv.Atoi(normalized[:2])
	minute, _ := strconv.Atoi(normalized[3:])
	total := (hour*60 + minute + delta) % 1440
	if total < 0 {
		total += 1440
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
