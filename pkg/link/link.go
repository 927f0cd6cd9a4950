// Package link talks to the robot: a serial device (the Bluetooth
// rfcomm profile of the firmware) or a replay of a captured
// telemetry file for offline mapping.
package link

import (
	"io"
	"os"

	"github.com/tarm/serial"
)

// DefaultBaud matches the firmware's serial configuration.
const DefaultBaud = 9600

// OpenSerial opens the robot's serial device, e.g. /dev/rfcomm0.
func OpenSerial(device string, baud int) (io.ReadWriteCloser, error) {
	if baud == 0 {
		baud = DefaultBaud
	}
	return serial.OpenPort(&serial.Config{Name: device, Baud: baud})
}

// replay adapts a captured telemetry file to the link interface;
// writes towards the robot are discarded.
type replay struct {
	*os.File
}

func (r replay) Write(p []byte) (int, error) {
	return len(p), nil
}

// OpenReplay opens a captured telemetry file as a read-only link.
func OpenReplay(path string) (io.ReadWriteCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return replay{f}, nil
}
