package viz

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotmaps/slam.go/pkg/framework"
	"github.com/robotmaps/slam.go/pkg/slam"
)

type fakeIteration struct {
	now time.Time
}

func (f *fakeIteration) Context() context.Context { return context.Background() }
func (f *fakeIteration) Time() time.Time          { return f.now }
func (f *fakeIteration) Stage() fx.Stage          { return fx.StageReport }
func (f *fakeIteration) Messages() []fx.Message   { return nil }
func (f *fakeIteration) PostMessage(fx.Message)   {}
func (f *fakeIteration) TriggerNext()             {}

func testServer(t *testing.T) *Server {
	conf := slam.NewConfig()
	conf.Particles = 10
	conf.Seed = 3
	mp, err := conf.NewMapper()
	require.NoError(t, err)
	return NewServer("localhost:0", mp)
}

func TestEncodeFrame(t *testing.T) {
	s := testServer(t)
	pkt, err := s.encodeFrame()
	require.NoError(t, err)

	var f Frame
	require.NoError(t, json.Unmarshal(pkt, &f))
	require.Equal(t, s.Mapper.Grid().CellSize(), f.CellSize)

	raw, err := base64.StdEncoding.DecodeString(f.PNG)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	rows, cols := s.Mapper.Grid().Size()
	scale := img.Bounds().Dx() / cols
	require.Equal(t, cols*scale, img.Bounds().Dx())
	require.Equal(t, rows*scale, img.Bounds().Dy())
}

func TestControlBroadcastsToViewers(t *testing.T) {
	s := testServer(t)
	s.Interval = time.Millisecond

	ch := s.addClient()
	defer s.removeClient(ch)
	require.NoError(t, s.Control(&fakeIteration{now: time.Now()}))

	select {
	case pkt := <-ch:
		var f Frame
		require.NoError(t, json.Unmarshal(pkt, &f))
		require.NotEmpty(t, f.PNG)
	default:
		t.Fatal("no frame broadcast")
	}

	// within the interval, frames are suppressed
	require.NoError(t, s.Control(&fakeIteration{now: s.lastFrame}))
	select {
	case <-ch:
		t.Fatal("unexpected frame")
	default:
	}
}

func TestGreetingUsesCachedFrame(t *testing.T) {
	s := testServer(t)
	s.Interval = time.Millisecond

	// before any iteration there is nothing to greet with
	require.Nil(t, s.lastPacket())

	// rendering happens on the loop side even with no viewer yet,
	// so the next connection gets a frame without touching the map
	require.NoError(t, s.Control(&fakeIteration{now: time.Now()}))
	pkt := s.lastPacket()
	require.NotNil(t, pkt)

	var f Frame
	require.NoError(t, json.Unmarshal(pkt, &f))
	require.NotEmpty(t, f.PNG)

	// the cache tracks the latest broadcast
	s.broadcast([]byte("next"))
	require.Equal(t, []byte("next"), s.lastPacket())
}

func TestBroadcastSkipsSlowViewer(t *testing.T) {
	s := testServer(t)
	ch := s.addClient()
	defer s.removeClient(ch)

	s.broadcast([]byte("a"))
	s.broadcast([]byte("b")) // channel full, dropped
	require.Equal(t, []byte("a"), <-ch)
	select {
	case <-ch:
		t.Fatal("slow viewer should have dropped the frame")
	default:
	}
}
