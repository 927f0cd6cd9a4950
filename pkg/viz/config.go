package viz

import (
	"flag"

	"github.com/robotmaps/slam.go/pkg/slam"
)

// Config defines the live view endpoint.
type Config struct {
	Addr string
}

var defaultConfig = Config{
	Addr: "localhost:7070",
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Addr, "viz", defaultConfig.Addr, "Listen address of the live map view, empty to disable.")
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewServer creates the Server, or nil when disabled.
func (c *Config) NewServer(m *slam.Mapper) *Server {
	if c.Addr == "" {
		return nil
	}
	return NewServer(c.Addr, m)
}
