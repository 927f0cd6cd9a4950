package slam

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotmaps/slam.go/pkg/geom"
	"github.com/robotmaps/slam.go/pkg/gridmap"
	"github.com/robotmaps/slam.go/pkg/sensormodel"
	"github.com/robotmaps/slam.go/pkg/telemetry"
)

func TestNewFilterUniform(t *testing.T) {
	f := NewFilter(100, 1)
	require.Len(t, f.Particles(), 100)
	for _, p := range f.Particles() {
		require.Equal(t, geom.Pose{}, p.Pose)
		require.InDelta(t, 0.01, p.Weight, 1e-12)
	}
	require.Equal(t, geom.Pose{}, f.Estimate())
}

func TestPredictMovesCloud(t *testing.T) {
	f := NewFilter(500, 42)
	f.Predict(Step{Dist: 20})

	est := f.Estimate()
	require.InDelta(t, 20, est.X, 1.0)
	require.InDelta(t, 0, est.Y, 1.0)

	// noise spreads the cloud
	var spread float64
	for _, p := range f.Particles() {
		spread += math.Abs(p.X - est.X)
	}
	require.Greater(t, spread/500, 0.1)
}

func TestEstimateCircularMean(t *testing.T) {
	f := NewFilter(2, 1)
	f.particles[0].Pose = geom.PoseAt(0, 0, geom.AngleFromDegrees(170))
	f.particles[1].Pose = geom.PoseAt(0, 0, geom.AngleFromDegrees(-170))

	h := f.Estimate().Heading.Degrees()
	// naive averaging would say 0; the circular mean is at the seam
	require.InDelta(t, 180, math.Abs(h), 1e-6)
}

func TestObserveSharpensBelief(t *testing.T) {
	m := gridmap.MustNew(100, 5)
	wall := &telemetry.SensorUpdate{
		Left:     telemetry.OutOfRange,
		Front:    50,
		Right:    telemetry.OutOfRange,
		Interval: 100 * time.Millisecond,
	}
	for i := 0; i < 5; i++ {
		sensormodel.UpdateMap(m, geom.PoseAt(0, 0, 0), wall)
	}

	f := NewFilter(3, 7)
	f.particles[0].Pose = geom.PoseAt(0, 0, 0)   // consistent with the echo
	f.particles[1].Pose = geom.PoseAt(25, 0, 0)  // expects the wall too close
	f.particles[2].Pose = geom.PoseAt(-25, 0, 0) // expects it too far

	f.Observe(m, wall)

	// the inconsistent hypotheses lose most of their weight, which
	// collapses the effective sample size and makes the resample
	// draw mostly from the consistent pose; low-probability
	// hypotheses may legitimately keep a copy
	var atOrigin int
	var total float64
	for _, p := range f.Particles() {
		if p.Pose == geom.PoseAt(0, 0, 0) {
			atOrigin++
		}
		total += p.Weight
	}
	require.GreaterOrEqual(t, atOrigin, 2)
	require.InDelta(t, 1, total, 1e-9)
	require.InDelta(t, 0, f.Estimate().X, 10)
}

func TestObserveZeroWeightsRecovers(t *testing.T) {
	f := NewFilter(4, 1)
	for i := range f.particles {
		f.particles[i].Weight = 0
	}
	f.normalize()
	for _, p := range f.Particles() {
		require.InDelta(t, 0.25, p.Weight, 1e-12)
	}
}

func TestResampleKeepsSizeAndFavorsHeavy(t *testing.T) {
	f := NewFilter(100, 3)
	heavy := geom.PoseAt(5, 5, 0)
	for i := range f.particles {
		if i == 0 {
			f.particles[i].Pose = heavy
			f.particles[i].Weight = 0.9
		} else {
			f.particles[i].Weight = 0.1 / 99
		}
	}
	f.resample()

	require.Len(t, f.Particles(), 100)
	var copies int
	for _, p := range f.Particles() {
		require.InDelta(t, 0.01, p.Weight, 1e-12)
		if p.Pose == heavy {
			copies++
		}
	}
	require.GreaterOrEqual(t, copies, 80)
}
