package link

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/golang/glog"

	fx "github.com/robotmaps/slam.go/pkg/framework"
	"github.com/robotmaps/slam.go/pkg/telemetry"
)

// Receiver scans telemetry lines from the link and posts the parsed
// updates to the control loop. Malformed lines are logged and
// skipped so one garbled report doesn't kill a session.
type Receiver struct {
	Conn io.ReadCloser
	// Capture receives every raw line for later replay. Closed
	// together with the receiver.
	Capture io.WriteCloser
	// OnEOF is called when the stream ends cleanly (replay files).
	OnEOF func()
}

// NewReceiver creates a Receiver on a link.
func NewReceiver(conn io.ReadCloser) *Receiver {
	return &Receiver{Conn: conn}
}

// Name implements Named.
func (r *Receiver) Name() string { return "telemetry-receiver" }

// AddToLoop implements LoopAdder.
func (r *Receiver) AddToLoop(l *fx.Loop) {
	l.AddRunnable(r)
}

// Run implements Runnable. Closing the link unblocks the scanner
// when the context is canceled.
func (r *Receiver) Run(ctx context.Context) error {
	ctl := fx.LoopCtlFrom(ctx)
	if r.Capture != nil {
		defer r.Capture.Close()
	}
	return fx.RunWithContextCloser(ctx, r.Conn, func() error {
		scanner := bufio.NewScanner(r.Conn)
		for scanner.Scan() {
			line := scanner.Text()
			if r.Capture != nil {
				fmt.Fprintln(r.Capture, line)
			}
			u, err := telemetry.Parse(line)
			if err != nil {
				glog.Warningf("dropping bad telemetry: %v", err)
				continue
			}
			if u == nil {
				continue
			}
			glog.V(3).Infof("recv %v", u)
			ctl.PostMessage(u)
			ctl.TriggerNext()
		}
		if err := scanner.Err(); err != nil {
			return err
		}
		glog.Info("telemetry stream ended")
		if r.OnEOF != nil {
			r.OnEOF()
		}
		return nil
	})
}
