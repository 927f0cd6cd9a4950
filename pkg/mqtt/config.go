package mqtt

import (
	"flag"
	"os"
	"time"

	"github.com/denisbrodbeck/machineid"
)

// Config defines how reports reach the broker.
type Config struct {
	URL         string
	Robot       string
	MapInterval time.Duration
}

var defaultConfig = Config{
	URL:         "mqtt://localhost:1883/slam/",
	MapInterval: 5 * time.Second,
}

func init() {
	if val := os.Getenv("SLAM_MQTT_URL"); val != "" {
		defaultConfig.URL = val
	}
	if val := os.Getenv("SLAM_ROBOT_ID"); val != "" {
		defaultConfig.Robot = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.URL, "mqtt", defaultConfig.URL, "MQTT broker URL, empty to disable reporting.")
	flag.StringVar(&defaultConfig.Robot, "robot-id", defaultConfig.Robot, "Robot ID used in topics, defaults to the machine ID.")
	flag.DurationVar(&defaultConfig.MapInterval, "map-interval", defaultConfig.MapInterval, "Minimum interval between map snapshots.")
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// RobotID returns the configured robot ID, falling back to the
// machine ID, then to the hostname.
func (c *Config) RobotID() (string, error) {
	if c.Robot != "" {
		return c.Robot, nil
	}
	if id, err := machineid.ID(); err == nil {
		return id, nil
	}
	return os.Hostname()
}

// NewQueue creates a connected Queue, or nil when reporting is
// disabled.
func (c *Config) NewQueue() (*Queue, error) {
	if c.URL == "" {
		return nil, nil
	}
	q, err := NewQueueFromURL(c.URL)
	if err != nil {
		return nil, err
	}
	if err = q.Connect(); err != nil {
		return nil, err
	}
	return q, nil
}
