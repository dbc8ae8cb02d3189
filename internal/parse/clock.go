package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var clockRe = regexp.MustCompile(`^(\d{1,2})[:.](\d{2})(?::(\d{2}))?$`)

// Clock parses a time of day written as "7:30", "07:30", "07.30" or "07:30:00".
func Clock(raw string) (hour, minute, second int, err error) {
	s := strings.TrimSpace(raw)
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, 0, fmt.Errorf("invalid time of day: %q", raw)
	}

	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		second, _ = strconv.Atoi(m[3])
	}

	if hour > 23 || minute > 59 || second > 59 {
		return 0, 0, 0, fmt.Errorf("time of day out of range: %q", raw)
	}
	return hour, minute, second, nil
}
