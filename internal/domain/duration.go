package domain

import (
	"regexp"
	"strconv"
)

// shortMaxSeconds is the boundary below which a video counts as a short.
const shortMaxSeconds = 180

var iso8601Duration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDurationMinutes converts a platform ISO 8601 duration (PT#H#M#S, any
// component optional) to minutes. Unparsable strings yield 0.
func ParseDurationMinutes(duration string) float64 {
	m := iso8601Duration.FindStringSubmatch(duration)
	if m == nil {
		return 0
	}
	hours := atoiOrZero(m[1])
	minutes := atoiOrZero(m[2])
	seconds := atoiOrZero(m[3])
	return float64(hours)*60 + float64(minutes) + float64(seconds)/60
}

// IsShort reports whether a duration classifies as a short-form video
// (strictly under 3 minutes).
func IsShort(duration string) bool {
	return ParseDurationMinutes(duration)*60 < shortMaxSeconds
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
