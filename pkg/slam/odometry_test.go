package slam

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotmaps/slam.go/pkg/geom"
	"github.com/robotmaps/slam.go/pkg/telemetry"
)

var testOdometry = Odometry{CMPerCount: 0.1, WheelBase: 10}

func motion(left, right int) *telemetry.MotionUpdate {
	return &telemetry.MotionUpdate{Left: left, Right: right, Interval: 100 * time.Millisecond}
}

func TestOdometryStraight(t *testing.T) {
	s := testOdometry.Step(motion(100, 100))
	require.InDelta(t, 10, s.Dist, 1e-9)
	require.InDelta(t, 0, s.Turn.Radians(), 1e-9)

	p := s.Apply(geom.PoseAt(0, 0, geom.AngleFromDegrees(90)))
	require.InDelta(t, 0, p.X, 1e-9)
	require.InDelta(t, 10, p.Y, 1e-9)
	require.InDelta(t, 90, p.Heading.Degrees(), 1e-9)
}

func TestOdometryTurnInPlace(t *testing.T) {
	s := testOdometry.Step(motion(-50, 50))
	require.InDelta(t, 0, s.Dist, 1e-9)
	require.InDelta(t, 1, s.Turn.Radians(), 1e-9) // (5+5)/10

	p := s.Apply(geom.PoseAt(3, 4, 0))
	require.InDelta(t, 3, p.X, 1e-9)
	require.InDelta(t, 4, p.Y, 1e-9)
	require.InDelta(t, 1, p.Heading.Radians(), 1e-9)
}

func TestOdometryArc(t *testing.T) {
	// quarter circle to the left: r = Dist/Turn
	s := Step{Dist: 10 * math.Pi / 2, Turn: geom.AngleFromRadians(math.Pi / 2)}
	p := s.Apply(geom.PoseAt(0, 0, 0))
	require.InDelta(t, 10, p.X, 1e-9)
	require.InDelta(t, 10, p.Y, 1e-9)
	require.InDelta(t, 90, p.Heading.Degrees(), 1e-9)
}

func TestOdometryBackward(t *testing.T) {
	s := testOdometry.Step(motion(-100, -100))
	p := s.Apply(geom.PoseAt(0, 0, 0))
	require.InDelta(t, -10, p.X, 1e-9)
	require.InDelta(t, 0, p.Y, 1e-9)
}
