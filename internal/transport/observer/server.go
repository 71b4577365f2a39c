// Package observer serves the device framebuffer and colony status over HTTP
// and websocket to loopback clients.
package observer

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/zstd"

	"lifeboard/internal/core"
	"lifeboard/internal/health"
	"lifeboard/internal/telemetry"
)

// FrameSource is the display whose last flushed frame is served.
type FrameSource interface {
	Size() core.Size
	Packed(dst []byte) []byte
	Image() *image.Gray
}

// Presser receives button presses from the network.
type Presser interface {
	Press()
}

// Status is the JSON body of GET /v1/status.
type Status struct {
	Scene      string `json:"scene"`
	SceneIndex int    `json:"scene_index"`
	Generation uint64 `json:"generation"`
	Population int    `json:"population"`
	Hue        uint8  `json:"hue"`
	Val        uint8  `json:"val"`
	RGB        string `json:"rgb"`
	ViewX      int    `json:"view_x"`
	ViewY      int    `json:"view_y"`
	Status     string `json:"status"`
}

// Server publishes frames to websocket subscribers. Publish never blocks:
// subscribers that fall behind miss frames.
type Server struct {
	frames FrameSource
	log    *slog.Logger
	enc    *zstd.Encoder

	upgrader websocket.Upgrader
	nextID   atomic.Uint64

	mu      sync.RWMutex
	status  Status
	button  Presser
	packed  []byte
	subs    map[uint64]chan []byte
	dropped uint64
}

// NewServer creates a server for frames.
func NewServer(frames FrameSource, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("creating frame encoder: %w", err)
	}
	return &Server{
		frames: frames,
		log:    logger,
		enc:    enc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     sameOrigin,
		},
		subs: map[uint64]chan []byte{},
	}, nil
}

// SetStatus sets the network status line reported in /v1/status.
func (s *Server) SetStatus(line string) {
	s.mu.Lock()
	s.status.Status = line
	s.mu.Unlock()
}

// SetButton routes POST /v1/button to p.
func (s *Server) SetButton(p Presser) {
	s.mu.Lock()
	s.button = p
	s.mu.Unlock()
}

// Publish records the latest frame sample and sends the current framebuffer
// to every subscriber.
func (s *Server) Publish(f telemetry.FrameSample) {
	rgb := health.HSV{Hue: f.Hue, Sat: 255, Val: f.Val}.RGB()

	s.mu.Lock()
	s.status = Status{
		Scene:      f.Scene,
		SceneIndex: f.SceneIndex,
		Generation: f.Generation,
		Population: f.Population,
		Hue:        f.Hue,
		Val:        f.Val,
		RGB:        fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B),
		ViewX:      f.ViewX,
		ViewY:      f.ViewY,
		Status:     s.status.Status,
	}
	if len(s.subs) == 0 {
		s.mu.Unlock()
		return
	}
	s.packed = s.frames.Packed(s.packed)
	msg := s.enc.EncodeAll(s.packed, nil)
	for _, ch := range s.subs {
		select {
		case ch <- msg:
		default:
			s.dropped++
		}
	}
	s.mu.Unlock()
}

// Clients returns the number of connected websocket subscribers.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// Snapshot returns the last published status.
func (s *Server) Snapshot() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Handler returns a mux with every observer endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/status", s.StatusHandler())
	mux.HandleFunc("/v1/frame.png", s.FrameHandler())
	mux.HandleFunc("/v1/button", s.ButtonHandler())
	mux.HandleFunc("/v1/ws", s.WSHandler())
	return mux
}

// StatusHandler serves the last published status as JSON.
func (s *Server) StatusHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(s.Snapshot())
	}
}

// FrameHandler serves the last flushed frame as a PNG.
func (s *Server) FrameHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		rw.Header().Set("Content-Type", "image/png")
		rw.Header().Set("Cache-Control", "no-store")
		if err := png.Encode(rw, s.frames.Image()); err != nil {
			s.log.Debug("encode frame", "err", err)
		}
	}
}

// ButtonHandler presses the button on POST.
func (s *Server) ButtonHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		s.mu.RLock()
		b := s.button
		s.mu.RUnlock()
		if b == nil {
			http.Error(rw, "no button", http.StatusNotFound)
			return
		}
		b.Press()
		rw.WriteHeader(http.StatusNoContent)
	}
}

// WSHandler streams one binary message per published frame: the packed
// framebuffer (row-major, eight pixels per byte, leftmost pixel in the least
// significant bit) compressed as a zstd frame.
func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			s.log.Warn("websocket upgrade refused", "origin", r.Header.Get("Origin"), "err", err)
			return
		}
		defer conn.Close()

		id := s.nextID.Add(1)
		out := make(chan []byte, 8)
		s.mu.Lock()
		s.subs[id] = out
		s.mu.Unlock()
		defer func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		}()
		s.log.Debug("observer joined", "id", id, "remote", r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine.
		writeErr := make(chan error, 1)
		go func() {
			for {
				select {
				case <-ctx.Done():
					writeErr <- ctx.Err()
					return
				case b := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
						writeErr <- err
						return
					}
				}
			}
		}()

		// Reader loop: clients send nothing; reading surfaces the close.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		cancel()
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))

		select {
		case <-writeErr:
		case <-time.After(500 * time.Millisecond):
		}
		s.log.Debug("observer left", "id", id)
	}
}

// Close releases the frame encoder.
func (s *Server) Close() error {
	return s.enc.Close()
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// sameOrigin admits clients that send no Origin header, such as CLI tools,
// and browsers whose page was served by this host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
