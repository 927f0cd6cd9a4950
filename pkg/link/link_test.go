package link

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotmaps/slam.go/pkg/framework"
	"github.com/robotmaps/slam.go/pkg/telemetry"
)

type fakeCtl struct {
	posted    []fx.Message
	triggered int
}

func (c *fakeCtl) PostMessage(m fx.Message) { c.posted = append(c.posted, m) }
func (c *fakeCtl) TriggerNext()             { c.triggered++ }

type readCloser struct {
	io.Reader
	closed bool
}

func (r *readCloser) Close() error {
	r.closed = true
	return nil
}

func TestReceiverPostsUpdates(t *testing.T) {
	stream := strings.Join([]string{
		"# boot",
		"L30F15R9999t5",
		"this is garbage",
		"",
		"el300er-300cor50t500",
	}, "\n") + "\n"

	conn := &readCloser{Reader: strings.NewReader(stream)}
	recv := NewReceiver(conn)
	var eof bool
	recv.OnEOF = func() { eof = true }

	ctl := &fakeCtl{}
	err := recv.Run(fx.WithLoopControl(context.Background(), ctl))
	require.NoError(t, err)
	require.True(t, eof)
	require.True(t, conn.closed)

	require.Len(t, ctl.posted, 2)
	require.Equal(t, 2, ctl.triggered)

	su, ok := ctl.posted[0].(*telemetry.SensorUpdate)
	require.True(t, ok)
	require.Equal(t, 30, su.Left)
	require.Equal(t, telemetry.OutOfRange, su.Right)

	mu, ok := ctl.posted[1].(*telemetry.MotionUpdate)
	require.True(t, ok)
	require.Equal(t, -300, mu.Left)
	require.Equal(t, 300, mu.Right)
}

type writeCloser struct {
	bytes.Buffer
	closed bool
}

func (w *writeCloser) Close() error {
	w.closed = true
	return nil
}

func TestReceiverCapturesRawLines(t *testing.T) {
	conn := &readCloser{Reader: strings.NewReader("# hello\nL1F2R3t4\n")}
	recv := NewReceiver(conn)
	capture := &writeCloser{}
	recv.Capture = capture

	err := recv.Run(fx.WithLoopControl(context.Background(), &fakeCtl{}))
	require.NoError(t, err)
	// comments are captured verbatim even though they are not posted
	require.Equal(t, "# hello\nL1F2R3t4\n", capture.String())
	require.True(t, capture.closed)
}

func TestReceiverCancel(t *testing.T) {
	pr, pw := io.Pipe()
	recv := NewReceiver(pr)
	ctx, cancel := context.WithCancel(fx.WithLoopControl(context.Background(), &fakeCtl{}))

	done := make(chan error, 1)
	go func() { done <- recv.Run(ctx) }()

	pw.Write([]byte("L1F2R3t4\n"))
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.Equal(t, context.Canceled, err)
	case <-time.After(5 * time.Second):
		t.Fatal("receiver did not stop on cancel")
	}
}

func TestCommander(t *testing.T) {
	var buf bytes.Buffer
	c := NewCommander(&buf)

	require.NoError(t, c.Send(telemetry.CmdForward))
	require.NoError(t, c.Send(telemetry.CmdStop))
	require.Error(t, c.Send(telemetry.Command('!')))
	require.NoError(t, c.SendLine("ping"))

	require.Equal(t, "zxping\n", buf.String())
}

func TestOpenReplay(t *testing.T) {
	dir, err := ioutil.TempDir("", "linktest")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "capture.txt")
	require.NoError(t, ioutil.WriteFile(path, []byte("L1F2R3t4\n"), 0644))

	conn, err := OpenReplay(path)
	require.NoError(t, err)
	defer conn.Close()

	// writes towards a replay are discarded
	n, err := conn.Write([]byte("z"))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	data, err := ioutil.ReadAll(conn)
	require.NoError(t, err)
	require.Equal(t, "L1F2R3t4\n", string(data))

	_, err = OpenReplay(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
}

func TestConfigOpenPrefersReplay(t *testing.T) {
	dir, err := ioutil.TempDir("", "linktest")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "capture.txt")
	require.NoError(t, ioutil.WriteFile(path, []byte("# empty\n"), 0644))

	conf := NewConfig()
	conf.Replay = path
	conn, err := conf.Open()
	require.NoError(t, err)
	conn.Close()

	conf = NewConfig()
	conf.Device = ""
	conf.Replay = ""
	_, err = conf.Open()
	require.Equal(t, ErrNoSource, err)
}
