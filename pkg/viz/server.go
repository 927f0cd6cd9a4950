// Package viz serves a live view of the map over HTTP, pushing
// frames to browsers through a websocket.
package viz

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotmaps/slam.go/pkg/framework"
	"github.com/robotmaps/slam.go/pkg/slam"
)

// Frame is one snapshot pushed to every connected viewer.
type Frame struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Heading  float64 `json:"heading"`
	CellSize int     `json:"cell_size"`
	// PNG is the rendered map, base64 encoded.
	PNG string `json:"png"`
}

// Server pushes map frames to websocket clients. It joins the loop
// twice: as a report stage controller producing frames, and as a
// Runnable serving HTTP.
type Server struct {
	Addr   string
	Mapper *slam.Mapper
	// Interval limits how often frames go out; rendering a PNG per
	// iteration would starve the loop.
	Interval time.Duration

	lock      sync.Mutex
	clients   map[chan []byte]struct{}
	lastPkt   []byte
	lastFrame time.Time
}

// NewServer creates a Server for a mapper.
func NewServer(addr string, m *slam.Mapper) *Server {
	return &Server{
		Addr:     addr,
		Mapper:   m,
		Interval: time.Second,
		clients:  make(map[chan []byte]struct{}),
	}
}

// Name implements Named.
func (s *Server) Name() string { return "viz-server" }

// AddToLoop implements LoopAdder.
func (s *Server) AddToLoop(l *fx.Loop) {
	l.AddController(fx.StageReport, s)
	l.AddRunnable(s)
}

// Control implements Controller. The map is owned by the control
// loop, so this is the only place frames get rendered; connection
// handlers only ever see the cached packet.
func (s *Server) Control(cc fx.ControlContext) error {
	if cc.Time().Sub(s.lastFrame) < s.Interval {
		return nil
	}
	pkt, err := s.encodeFrame()
	if err != nil {
		return err
	}
	s.lastFrame = cc.Time()
	s.broadcast(pkt)
	return nil
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(indexHTML))
	})
	mux.Handle("/live", websocket.Handler(s.serveLive))
	srv := &http.Server{Addr: s.Addr, Handler: mux}
	glog.Infof("live map on http://%s/", s.Addr)
	return fx.RunWithContextCloser(ctx, srv, func() error {
		err := srv.ListenAndServe()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	})
}

func (s *Server) serveLive(ws *websocket.Conn) {
	ch := s.addClient()
	defer s.removeClient(ch)

	// greet the viewer with the last rendered frame right away
	if pkt := s.lastPacket(); pkt != nil {
		websocket.Message.Send(ws, pkt)
	}
	for pkt := range ch {
		if err := websocket.Message.Send(ws, pkt); err != nil {
			glog.V(1).Infof("viewer gone: %v", err)
			return
		}
	}
}

func (s *Server) addClient() chan []byte {
	ch := make(chan []byte, 1)
	s.lock.Lock()
	s.clients[ch] = struct{}{}
	s.lock.Unlock()
	return ch
}

func (s *Server) removeClient(ch chan []byte) {
	s.lock.Lock()
	delete(s.clients, ch)
	s.lock.Unlock()
}

func (s *Server) lastPacket() []byte {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.lastPkt
}

func (s *Server) broadcast(pkt []byte) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.lastPkt = pkt
	for ch := range s.clients {
		// a slow viewer drops frames instead of stalling the loop
		select {
		case ch <- pkt:
		default:
		}
	}
}

func (s *Server) encodeFrame() ([]byte, error) {
	grid := s.Mapper.Grid()
	var buf bytes.Buffer
	if err := grid.WritePNG(&buf); err != nil {
		return nil, err
	}
	pose := s.Mapper.Estimate()
	return json.Marshal(&Frame{
		X:        pose.X,
		Y:        pose.Y,
		Heading:  float64(pose.Heading),
		CellSize: grid.CellSize(),
		PNG:      base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
}
