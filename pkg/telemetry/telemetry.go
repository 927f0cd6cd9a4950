// Package telemetry implements the plain-text line protocol spoken
// by the robot firmware over its serial link.
//
// The robot reports two kinds of lines:
//
//	L30F15R9999t5        distances (cm) from the left, front and right
//	                     ultrasonic sensors, and the ms since the last
//	                     report; 9999 means no echo (out of range).
//	el300er-300cor50t500 encoder counts for the left and right wheels,
//	                     the correction term applied by the firmware's
//	                     speed controller, and the ms since the last
//	                     report.
//
// Lines starting with '#' are comments. Commands towards the robot
// are single characters (see Command).
package telemetry

import (
	"fmt"
	"time"
)

// OutOfRange is the sentinel distance reported when an ultrasonic
// sensor receives no echo.
const OutOfRange = 9999

// Update is a parsed telemetry line.
type Update interface {
	// Line renders the update back to its wire form, without the
	// trailing newline.
	Line() string
}

// SensorUpdate is a distance report from the three ultrasonic
// sensors. Distances are in cm; OutOfRange means no echo.
type SensorUpdate struct {
	Left, Front, Right int
	Interval           time.Duration
}

// Line implements Update.
func (u *SensorUpdate) Line() string {
	return fmt.Sprintf("L%dF%dR%dt%d", u.Left, u.Front, u.Right, u.Interval/time.Millisecond)
}

// String formats the update for logs.
func (u *SensorUpdate) String() string {
	return fmt.Sprintf("SensorUpdate(left=%s front=%s right=%s dt=%s)",
		fmtRange(u.Left), fmtRange(u.Front), fmtRange(u.Right), u.Interval)
}

// InRange reports whether a distance value is a real echo.
func InRange(d int) bool {
	return d != OutOfRange
}

// Ranges lists the three distances in left, front, right order.
func (u *SensorUpdate) Ranges() [3]int {
	return [3]int{u.Left, u.Front, u.Right}
}

// MotionUpdate is an odometry report. Left and Right are signed
// encoder counts since the previous report, Correction is the
// firmware speed controller's applied correction term.
type MotionUpdate struct {
	Left, Right, Correction int
	Interval                time.Duration
}

// Line implements Update. The wire form carries the fields in the
// firmware's swapped order, see Parse.
func (u *MotionUpdate) Line() string {
	return fmt.Sprintf("el%der%dcor%dt%d", u.Right, u.Left, u.Correction, u.Interval/time.Millisecond)
}

// String formats the update for logs.
func (u *MotionUpdate) String() string {
	return fmt.Sprintf("MotionUpdate(left=%d right=%d cor=%d dt=%s)",
		u.Left, u.Right, u.Correction, u.Interval)
}

func fmtRange(d int) string {
	if !InRange(d) {
		return "out-of-range"
	}
	return fmt.Sprintf("%dcm", d)
}
