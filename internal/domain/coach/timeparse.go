package coach

import (
	"fmt"
	"regexp"
	"strconv"
)

// Accepts "HH:MM", "HH.MM", or a bare hour "HH" anywhere in the message.
var clockTokenPattern = regexp.MustCompile(`(\d{1,2})[:.](\d{2})|(\d{1,2})`)

// ExtractClock pulls the first time token out of a free-text reply and
// normalizes it to zero-padded HH:MM. A bare hour is read as HH:00. Tokens
// outside the 24-hour range are rejected so the follow-up re-prompts instead
// of producing an impossible time.
func ExtractClock(message string) (string, bool) {
	match := clockTokenPattern.FindStringSubmatch(message)
	if match == nil {
		return "", false
	}

	var hour, minute int
	if match[1] != "" {
		hour, _ = strconv.Atoi(match[1])
		minute, _ = strconv.Atoi(match[2])
	} else {
		hour, _ = strconv.Atoi(match[3])
	}
	if hour > 23 || minute > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}
