package slam

import (
	"math"
	"math/rand"

	"github.com/robotmaps/slam.go/pkg/geom"
	"github.com/robotmaps/slam.go/pkg/gridmap"
	"github.com/robotmaps/slam.go/pkg/sensormodel"
	"github.com/robotmaps/slam.go/pkg/telemetry"
)

// Particle is one pose hypothesis.
type Particle struct {
	geom.Pose
	Weight float64
}

// Filter is a particle filter over the robot pose. All particles
// start at the origin, which is the map's origin by definition.
type Filter struct {
	// DistNoise is the stddev of per-step travel noise, cm.
	DistNoise float64
	// TurnNoise is the stddev of per-step heading noise, rad.
	TurnNoise float64

	particles []Particle
	rng       *rand.Rand
}

// NewFilter creates a filter with n particles at the origin.
func NewFilter(n int, seed int64) *Filter {
	f := &Filter{
		DistNoise: 1.0,
		TurnNoise: 0.02,
		particles: make([]Particle, n),
		rng:       rand.New(rand.NewSource(seed)),
	}
	w := 1 / float64(n)
	for i := range f.particles {
		f.particles[i].Weight = w
	}
	return f
}

// Particles exposes the current particle set; callers must not
// modify it.
func (f *Filter) Particles() []Particle { return f.particles }

// Predict advances every particle by the step plus sampled noise.
func (f *Filter) Predict(step Step) {
	for i := range f.particles {
		noisy := Step{
			Dist: step.Dist + f.rng.NormFloat64()*f.DistNoise,
			Turn: step.Turn.AddRadians(f.rng.NormFloat64() * f.TurnNoise),
		}
		f.particles[i].Pose = noisy.Apply(f.particles[i].Pose)
	}
}

// Observe reweighs the particles against a sensor update and
// resamples when the effective sample size collapses.
func (f *Filter) Observe(m *gridmap.Map, su *telemetry.SensorUpdate) {
	for i := range f.particles {
		f.particles[i].Weight *= sensormodel.Weight(m, f.particles[i].Pose, su)
	}
	f.normalize()
	if f.effectiveSize() < float64(len(f.particles))/2 {
		f.resample()
	}
}

// Estimate is the weighted mean pose; the heading uses the circular
// mean so hypotheses straddling +/-180 degrees average sanely.
func (f *Filter) Estimate() geom.Pose {
	var x, y, sin, cos float64
	for _, p := range f.particles {
		x += p.Weight * p.X
		y += p.Weight * p.Y
		sin += p.Weight * p.Heading.Sin()
		cos += p.Weight * p.Heading.Cos()
	}
	return geom.PoseAt(x, y, geom.AngleFromRadians(math.Atan2(sin, cos)))
}

func (f *Filter) normalize() {
	var total float64
	for _, p := range f.particles {
		total += p.Weight
	}
	if total <= 0 {
		// all hypotheses died, start over from a uniform belief
		w := 1 / float64(len(f.particles))
		for i := range f.particles {
			f.particles[i].Weight = w
		}
		return
	}
	for i := range f.particles {
		f.particles[i].Weight /= total
	}
}

func (f *Filter) effectiveSize() float64 {
	var sq float64
	for _, p := range f.particles {
		sq += p.Weight * p.Weight
	}
	if sq == 0 {
		return 0
	}
	return 1 / sq
}

// resample draws a new particle set with systematic (low variance)
// resampling; weights are assumed normalized.
func (f *Filter) resample() {
	n := len(f.particles)
	next := make([]Particle, 0, n)
	step := 1 / float64(n)
	u := f.rng.Float64() * step
	var cum float64
	i := 0
	for len(next) < n {
		for cum+f.particles[i].Weight < u && i < n-1 {
			cum += f.particles[i].Weight
			i++
		}
		next = append(next, Particle{Pose: f.particles[i].Pose, Weight: step})
		u += step
	}
	f.particles = next
}
