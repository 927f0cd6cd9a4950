// Package slam estimates the robot pose from wheel odometry and
// ultrasonic range telemetry with a particle filter, and builds the
// occupancy grid map along the way.
package slam

import (
	"math"

	"github.com/robotmaps/slam.go/pkg/geom"
	"github.com/robotmaps/slam.go/pkg/telemetry"
)

// Odometry converts encoder counts into pose increments for a
// differential-drive base.
type Odometry struct {
	// CMPerCount is the wheel travel per encoder count, cm.
	CMPerCount float64
	// WheelBase is the distance between the wheel contact points, cm.
	WheelBase float64
}

// Step is the robot-frame motion between two odometry reports.
type Step struct {
	// Dist is the arc length driven along the heading, cm.
	Dist float64
	// Turn is the heading change over the step.
	Turn geom.Angle
}

// Step converts one motion update. The firmware's correction term
// is its own business and does not enter the kinematics.
func (o Odometry) Step(mu *telemetry.MotionUpdate) Step {
	dl := float64(mu.Left) * o.CMPerCount
	dr := float64(mu.Right) * o.CMPerCount
	return Step{
		Dist: (dl + dr) / 2,
		Turn: geom.AngleFromRadians((dr - dl) / o.WheelBase),
	}
}

// Apply advances a pose by the step, integrating along the arc the
// two wheels describe.
func (s Step) Apply(p geom.Pose) geom.Pose {
	turn := s.Turn.Radians()
	if math.Abs(turn) < 1e-9 {
		return p.Advance(s.Dist)
	}
	r := s.Dist / turn
	h := p.Heading.Radians()
	p.X += r * (math.Sin(h+turn) - math.Sin(h))
	p.Y -= r * (math.Cos(h+turn) - math.Cos(h))
	p.Heading = p.Heading.AddRadians(turn)
	return p
}
