package youtube

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// isoDurationRegex matches ISO-8601 durations as returned by the Data API,
// e.g. "PT1H2M3S", "PT45S", "P1DT2H".
var isoDurationRegex = regexp.MustCompile(`^P(?:(\d+)D)?T?(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseISODuration converts an ISO-8601 duration string to a time.Duration.
// An empty string parses to zero, which the API uses for live streams.
func parseISODuration(s string) (time.Duration, error) {
	if s == "" || s == "P0D" {
		return 0, nil
	}

	m := isoDurationRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q", s)
	}

	var d time.Duration
	if m[1] != "" {
		n, _ := strconv.Atoi(m[1])
		d += time.Duration(n) * 24 * time.Hour
	}
	if m[2] != "" {
		n, _ := strconv.Atoi(m[2])
		d += time.Duration(n) * time.Hour
	}
	if m[3] != "" {
		n, _ := strconv.Atoi(m[3])
		d += time.Duration(n) * time.Minute
	}
	if m[4] != "" {
		n, _ := strconv.Atoi(m[4])
		d += time.Duration(n) * time.Second
	}
	return d, nil
}
