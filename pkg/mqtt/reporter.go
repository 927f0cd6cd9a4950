package mqtt

import (
	"encoding/json"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotmaps/slam.go/pkg/framework"
	"github.com/robotmaps/slam.go/pkg/geom"
	"github.com/robotmaps/slam.go/pkg/slam"
	"github.com/robotmaps/slam.go/pkg/telemetry"
)

// PoseReport is the payload published on the pose topic.
type PoseReport struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
}

// SensorReport is the payload published on the sensors topic.
type SensorReport struct {
	Left     int   `json:"left"`
	Front    int   `json:"front"`
	Right    int   `json:"right"`
	Interval int64 `json:"interval_ms"`
}

// MotionReport is the payload published on the motion topic.
type MotionReport struct {
	Left       int   `json:"left"`
	Right      int   `json:"right"`
	Correction int   `json:"correction"`
	Interval   int64 `json:"interval_ms"`
}

// MapReport is the payload published on the map topic.
type MapReport struct {
	CellSize int    `json:"cell_size"`
	Rows     int    `json:"rows"`
	Cols     int    `json:"cols"`
	ASCII    string `json:"ascii"`
}

// Reporter publishes the mapper state and the raw telemetry stream
// over MQTT. The map snapshot is big, so it goes out at most once
// per MapInterval.
type Reporter struct {
	Queue *Queue
	// Robot prefixes all topics to tell robots apart on a shared
	// broker.
	Robot       string
	Mapper      *slam.Mapper
	MapInterval time.Duration

	lastMap time.Time
}

// NewReporter creates a Reporter for a mapper.
func NewReporter(q *Queue, robot string, m *slam.Mapper) *Reporter {
	return &Reporter{
		Queue:       q,
		Robot:       robot,
		Mapper:      m,
		MapInterval: 5 * time.Second,
	}
}

// Name implements Named.
func (r *Reporter) Name() string { return "mqtt-reporter" }

// AddToLoop implements LoopAdder.
func (r *Reporter) AddToLoop(l *fx.Loop) {
	l.AddController(fx.StageReport, r)
}

// Control implements Controller.
func (r *Reporter) Control(cc fx.ControlContext) error {
	for _, msg := range cc.Messages() {
		switch u := msg.(type) {
		case *telemetry.SensorUpdate:
			r.publish("sensors", &SensorReport{
				Left:     u.Left,
				Front:    u.Front,
				Right:    u.Right,
				Interval: u.Interval.Milliseconds(),
			})
		case *telemetry.MotionUpdate:
			r.publish("motion", &MotionReport{
				Left:       u.Left,
				Right:      u.Right,
				Correction: u.Correction,
				Interval:   u.Interval.Milliseconds(),
			})
		}
	}
	r.publishPose(r.Mapper.Estimate())
	if now := cc.Time(); now.Sub(r.lastMap) >= r.MapInterval {
		r.lastMap = now
		r.publishMap()
	}
	return nil
}

func (r *Reporter) publishPose(pose geom.Pose) {
	r.publish("pose", &PoseReport{
		X:       pose.X,
		Y:       pose.Y,
		Heading: float64(pose.Heading),
	})
}

func (r *Reporter) publishMap() {
	grid := r.Mapper.Grid()
	rows, cols := grid.Size()
	r.publish("map", &MapReport{
		CellSize: grid.CellSize(),
		Rows:     rows,
		Cols:     cols,
		ASCII:    grid.RenderASCII(),
	})
}

func (r *Reporter) publish(topic string, report interface{}) {
	payload, err := json.Marshal(report)
	if err != nil {
		glog.Errorf("encode %s report: %v", topic, err)
		return
	}
	r.Queue.Pub(r.Robot+"/"+topic, payload)
}
