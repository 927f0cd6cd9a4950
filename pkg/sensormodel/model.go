// Package sensormodel models the robot's three ultrasonic range
// sensors: how a distance report updates the occupancy grid, and how
// likely a report is given a pose (used to weigh particles).
package sensormodel

import (
	"math"

	"github.com/robotmaps/slam.go/pkg/geom"
	"github.com/robotmaps/slam.go/pkg/gridmap"
	"github.com/robotmaps/slam.go/pkg/telemetry"
)

// Model parameters, tuned on the original robot.
const (
	// ConeAngle is the full opening of an ultrasonic beam, rad (~50 deg).
	ConeAngle geom.Angle = 0.872664626
	// MaxRange is the distance (cm) beyond which echoes are not trusted.
	MaxRange = 130
	// RangeStdDev is the assumed echo distance noise, cm.
	RangeStdDev = 5
	// FreeFraction: cells closer than this fraction of the measured
	// distance are considered passed through by the pulse.
	FreeFraction = 0.8
)

// Log odds applied per observation.
var (
	hitLogOdds  = gridmap.LogOdds(0.7)
	missLogOdds = gridmap.LogOdds(0.3)
)

type reading struct {
	bearing geom.Angle
	dist    int
}

// readings lists the sensors with their mount bearings relative to
// the robot heading. The sensor pose is simplified to the robot pose.
func readings(su *telemetry.SensorUpdate) [3]reading {
	return [3]reading{
		{bearing: geom.AngleFromRadians(math.Pi / 2), dist: su.Left},
		{bearing: 0, dist: su.Front},
		{bearing: geom.AngleFromRadians(-math.Pi / 2), dist: su.Right},
	}
}

// UpdateMap folds one sensor update into the map, assuming the robot
// is at pose. Cells well inside the measured range lose occupancy;
// cells near the measured range gain occupancy, but only when the
// sensor saw a real echo. Out-of-range readings clear up to MaxRange
// without marking anything occupied.
func UpdateMap(m *gridmap.Map, pose geom.Pose, su *telemetry.SensorUpdate) {
	for _, rd := range readings(su) {
		dist := float64(rd.dist)
		echo := true
		if !telemetry.InRange(rd.dist) || dist > MaxRange {
			dist = MaxRange
			echo = false
		}
		if dist <= 0 {
			continue
		}
		spose := pose.Turn(rd.bearing)
		for _, c := range m.Cone(spose, ConeAngle, dist) {
			if c.Dist/dist < FreeFraction {
				m.Add(c.Pos.X, c.Pos.Y, missLogOdds)
			} else if echo {
				m.Add(c.Pos.X, c.Pos.Y, hitLogOdds)
			}
		}
	}
}

// Weight is the likelihood of observing su from pose on the current
// map. Each sensor's measured range is compared against the nearest
// cell the map believes occupied in that sensor's cone, under a
// normal noise model. Sensors reporting out of range when the map
// knows no obstacle within MaxRange are uninformative and skipped.
func Weight(m *gridmap.Map, pose geom.Pose, su *telemetry.SensorUpdate) float64 {
	p := 1.0
	for _, rd := range readings(su) {
		spose := pose.Turn(rd.bearing)
		expected := float64(MaxRange)
		if front := m.ClosestInCone(spose, ConeAngle, MaxRange); len(front) > 0 {
			expected = front[0].Dist
		}
		measured := float64(rd.dist)
		if !telemetry.InRange(rd.dist) {
			if expected >= MaxRange {
				continue
			}
			measured = MaxRange
		}
		p *= normalPDF(measured, expected, RangeStdDev)
	}
	return p
}

func normalPDF(x, mean, stddev float64) float64 {
	d := x - mean
	return math.Exp(-d*d/(2*stddev*stddev)) / (math.Sqrt(2*math.Pi) * stddev)
}
