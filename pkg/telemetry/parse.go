package telemetry

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	sensorRe = regexp.MustCompile(`^L(\d+)F(\d+)R(\d+)t(\d+)$`)
	motionRe = regexp.MustCompile(`^el(-?\d+)er(-?\d+)cor(-?\d+)t(\d+)$`)
)

// Parse parses one telemetry line. Comment lines ('#' prefix) and
// blank lines yield (nil, nil). The line must not include the
// trailing newline.
//
// The firmware sends the motion update's left and right encoder
// fields swapped; Parse undoes the swap, so MotionUpdate.Left is
// always the real left wheel. Line re-encodes in wire order, making
// parse/encode round-trip on captured data.
func Parse(line string) (Update, error) {
	line = strings.TrimSpace(line)
	switch {
	case line == "" || strings.HasPrefix(line, "#"):
		return nil, nil
	case strings.HasPrefix(line, "el"):
		m := motionRe.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("malformed motion update %q", line)
		}
		return &MotionUpdate{
			Left:       atoi(m[2]),
			Right:      atoi(m[1]),
			Correction: atoi(m[3]),
			Interval:   time.Duration(atoi(m[4])) * time.Millisecond,
		}, nil
	case strings.HasPrefix(line, "L"):
		m := sensorRe.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("malformed sensor update %q", line)
		}
		return &SensorUpdate{
			Left:     atoi(m[1]),
			Front:    atoi(m[2]),
			Right:    atoi(m[3]),
			Interval: time.Duration(atoi(m[4])) * time.Millisecond,
		}, nil
	}
	return nil, fmt.Errorf("unrecognized telemetry line %q", line)
}

// atoi is only called on regexp-validated digits.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
