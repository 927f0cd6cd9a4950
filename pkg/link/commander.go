package link

import (
	"fmt"
	"io"
	"sync"

	"github.com/golang/glog"

	"github.com/robotmaps/slam.go/pkg/telemetry"
)

// Commander sends drive commands to the robot. Safe for concurrent
// use; a replay link silently discards the writes.
type Commander struct {
	lock sync.Mutex
	w    io.Writer
}

// NewCommander creates a Commander writing to the link.
func NewCommander(w io.Writer) *Commander {
	return &Commander{w: w}
}

// Send writes one drive command character.
func (c *Commander) Send(cmd telemetry.Command) error {
	if !cmd.IsValid() {
		return fmt.Errorf("invalid drive command %q", byte(cmd))
	}
	glog.V(1).Infof("send %s", cmd)
	c.lock.Lock()
	defer c.lock.Unlock()
	_, err := c.w.Write([]byte{byte(cmd)})
	return err
}

// SendLine writes a raw line, for poking the firmware by hand.
func (c *Commander) SendLine(line string) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	_, err := io.WriteString(c.w, line+"\n")
	return err
}
