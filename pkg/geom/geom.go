// Package geom provides the 2D primitives shared by the mapper:
// positions and poses are in centimeters on the plane the robot
// started on, with the start position at the origin.
package geom

import (
	"fmt"
	"math"
)

// Pos is a position on the plane, in cm.
type Pos struct {
	X, Y float64
}

// Add returns p offset by p1.
func (p Pos) Add(p1 Pos) Pos {
	return Pos{X: p.X + p1.X, Y: p.Y + p1.Y}
}

// Sub returns the offset from p1 to p.
func (p Pos) Sub(p1 Pos) Pos {
	return Pos{X: p.X - p1.X, Y: p.Y - p1.Y}
}

// OffsetBy performs Add in-place.
func (p *Pos) OffsetBy(p1 Pos) *Pos {
	p.X += p1.X
	p.Y += p1.Y
	return p
}

// Norm is the distance from the origin.
func (p Pos) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

// Dist is the distance between two positions.
func (p Pos) Dist(p1 Pos) float64 {
	return p.Sub(p1).Norm()
}

// Bearing is the direction from the origin to p.
func (p Pos) Bearing() Angle {
	return AngleFromRadians(math.Atan2(p.Y, p.X))
}

// Pose is a position plus a heading.
type Pose struct {
	Pos
	Heading Angle
}

// PoseAt is a helper to build a Pose.
func PoseAt(x, y float64, heading Angle) Pose {
	return Pose{Pos: Pos{X: x, Y: y}, Heading: heading}
}

// Advance moves the pose forward along its heading.
func (p Pose) Advance(dist float64) Pose {
	p.Pos.OffsetBy(p.Heading.Project(dist))
	return p
}

// Turn rotates the pose in place.
func (p Pose) Turn(a Angle) Pose {
	p.Heading = p.Heading.Add(a)
	return p
}

// String formats the pose for logs.
func (p Pose) String() string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f°)", p.X, p.Y, p.Heading.Degrees())
}
