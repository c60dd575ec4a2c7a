package subtitle

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// builds a duration from clock components; frac is the fractional second
// digits as written ("5" in SRT means 500ms, "50" in ASS means 500ms)
func clockDuration(hours, minutes, seconds, frac string) (time.Duration, error) {
	h := 0
	if hours != "" {
		var err error
		if h, err = strconv.Atoi(hours); err != nil {
			return 0, err
		}
	}
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, err
	}
	s, err := strconv.Atoi(seconds)
	if err != nil {
		return 0, err
	}
	if m > 59 || s > 59 {
		return 0, fmt.Errorf("clock value out of range: %s:%s", minutes, seconds)
	}

	var fracDur time.Duration
	if frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		n, err := strconv.Atoi(frac + strings.Repeat("0", 9-len(frac)))
		if err != nil {
			return 0, err
		}
		fracDur = time.Duration(n)
	}

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		fracDur, nil
}

func formatSRTTime(d time.Duration) string {
	return formatClock(d, ",")
}

func formatVTTTime(d time.Duration) string {
	return formatClock(d, ".")
}

func formatClock(d time.Duration, sep string) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d%s%03d", hours, minutes, seconds, sep, millis)
}
