package slam

import (
	"flag"
	"time"

	"github.com/robotmaps/slam.go/pkg/gridmap"
)

// Config defines the mapper configuration.
type Config struct {
	Particles int
	Seed      int64

	CMPerCount float64
	WheelBase  float64
	DistNoise  float64
	TurnNoise  float64

	BlockSize int
	CellSize  int
}

var defaultConfig = Config{
	Particles:  200,
	CMPerCount: 0.0565, // 20cm wheel circumference, 354 counts/rev
	WheelBase:  13.5,
	DistNoise:  1.0,
	TurnNoise:  0.02,
	BlockSize:  gridmap.DefaultBlockSize,
	CellSize:   gridmap.DefaultCellSize,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.Particles, "particles", defaultConfig.Particles, "Number of pose particles.")
	flag.Int64Var(&defaultConfig.Seed, "seed", defaultConfig.Seed, "Particle filter random seed, 0 picks one.")
	flag.Float64Var(&defaultConfig.CMPerCount, "cm-per-count", defaultConfig.CMPerCount, "Wheel travel (cm) per encoder count.")
	flag.Float64Var(&defaultConfig.WheelBase, "wheel-base", defaultConfig.WheelBase, "Distance (cm) between wheel contact points.")
	flag.Float64Var(&defaultConfig.DistNoise, "dist-noise", defaultConfig.DistNoise, "Odometry travel noise stddev (cm).")
	flag.Float64Var(&defaultConfig.TurnNoise, "turn-noise", defaultConfig.TurnNoise, "Odometry heading noise stddev (rad).")
	flag.IntVar(&defaultConfig.BlockSize, "map-block", defaultConfig.BlockSize, "Map growth block size (cm).")
	flag.IntVar(&defaultConfig.CellSize, "map-cell", defaultConfig.CellSize, "Map cell size (cm).")
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewMapper builds the map, filter and mapper from the config.
func (c *Config) NewMapper() (*Mapper, error) {
	m, err := gridmap.New(c.BlockSize, c.CellSize)
	if err != nil {
		return nil, err
	}
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	f := NewFilter(c.Particles, seed)
	f.DistNoise = c.DistNoise
	f.TurnNoise = c.TurnNoise
	return NewMapper(m, f, Odometry{
		CMPerCount: c.CMPerCount,
		WheelBase:  c.WheelBase,
	}), nil
}
