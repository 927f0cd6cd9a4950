package link

import (
	"errors"
	"flag"
	"io"
	"os"
)

// Config defines how to reach the robot.
type Config struct {
	Device  string
	Baud    int
	Replay  string
	Capture string
}

var defaultConfig = Config{
	Device: "/dev/rfcomm0",
	Baud:   DefaultBaud,
}

// ErrNoSource indicates neither a device nor a replay file is set.
var ErrNoSource = errors.New("no serial device or replay file configured")

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Device, "device", defaultConfig.Device, "Serial device of the robot link.")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Serial baud rate.")
	flag.StringVar(&defaultConfig.Replay, "replay", defaultConfig.Replay, "Replay a captured telemetry file instead of opening the serial device.")
	flag.StringVar(&defaultConfig.Capture, "capture", defaultConfig.Capture, "Append received telemetry lines to this file.")
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Open opens the configured link, preferring replay when set.
func (c *Config) Open() (io.ReadWriteCloser, error) {
	if c.Replay != "" {
		return OpenReplay(c.Replay)
	}
	if c.Device == "" {
		return nil, ErrNoSource
	}
	return OpenSerial(c.Device, c.Baud)
}

// NewReceiver creates a Receiver on conn with the configured
// capture file attached.
func (c *Config) NewReceiver(conn io.ReadCloser) (*Receiver, error) {
	r := NewReceiver(conn)
	if c.Capture != "" {
		f, err := os.OpenFile(c.Capture, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		r.Capture = f
	}
	return r, nil
}
