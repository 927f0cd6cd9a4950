package slam

import (
	"github.com/golang/glog"

	fx "github.com/robotmaps/slam.go/pkg/framework"
	"github.com/robotmaps/slam.go/pkg/geom"
	"github.com/robotmaps/slam.go/pkg/gridmap"
	"github.com/robotmaps/slam.go/pkg/sensormodel"
	"github.com/robotmaps/slam.go/pkg/telemetry"
)

// Mapper is the loop controller tying the pieces together: it
// consumes telemetry messages, advances the filter on motion
// updates and folds sensor updates into the map at the estimated
// pose.
type Mapper struct {
	Map      *gridmap.Map
	Filter   *Filter
	Odometry Odometry

	estimate geom.Pose
}

// NewMapper creates a Mapper.
func NewMapper(m *gridmap.Map, f *Filter, o Odometry) *Mapper {
	return &Mapper{Map: m, Filter: f, Odometry: o}
}

// AddToLoop implements LoopAdder.
func (mp *Mapper) AddToLoop(l *fx.Loop) {
	l.AddController(fx.StageFilter, mp)
}

// Control implements Controller.
func (mp *Mapper) Control(cc fx.ControlContext) error {
	for _, msg := range cc.Messages() {
		switch u := msg.(type) {
		case *telemetry.MotionUpdate:
			mp.Filter.Predict(mp.Odometry.Step(u))
			mp.estimate = mp.Filter.Estimate()
			glog.V(2).Infof("odometry %s -> %s", u, mp.estimate)
		case *telemetry.SensorUpdate:
			mp.Filter.Observe(mp.Map, u)
			mp.estimate = mp.Filter.Estimate()
			sensormodel.UpdateMap(mp.Map, mp.estimate, u)
			mp.Map.AddPose(mp.estimate)
			glog.V(2).Infof("ranges %s -> %s", u, mp.estimate)
		}
	}
	return nil
}

// Estimate is the current pose estimate.
func (mp *Mapper) Estimate() geom.Pose {
	return mp.estimate
}

// Grid exposes the map for reporters.
func (mp *Mapper) Grid() *gridmap.Map {
	return mp.Map
}
