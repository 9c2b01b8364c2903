// Package preview serves a live capture view over HTTP: a websocket feed
// of per-frameset summaries plus JSON status and config endpoints.
package preview

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rerun-io/realsense-go/rs2"
)

//go:embed web/*
var webFS embed.FS

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
	pingEvery = (pongWait * 9) / 10
)

// Update is one websocket message describing a received frameset.
type Update struct {
	Type    string          `json:"type"`
	Streams []StreamSummary `json:"streams"`
}

// StreamSummary condenses one frame for the UI.
type StreamSummary struct {
	Stream      string  `json:"stream"`
	FrameNumber uint64  `json:"frame_number"`
	Bytes       int     `json:"bytes"`
	DepthMin    float32 `json:"depth_min,omitempty"`
	DepthMax    float32 `json:"depth_max,omitempty"`
}

// Summarise builds the websocket update for a frameset.
func Summarise(fs *rs2.Frameset) Update {
	update := Update{Type: "frameset"}
	for _, f := range fs.Frames() {
		s := StreamSummary{
			Stream:      f.Profile().String(),
			FrameNumber: f.FrameNumber(),
			Bytes:       len(f.Data()),
		}
		if df, ok := f.(*rs2.DepthFrame); ok {
			s.DepthMin, s.DepthMax = depthExtent(df)
		}
		update.Streams = append(update.Streams, s)
	}
	return update
}

// depthExtent samples the corners and centre rather than scanning the
// whole image; the UI only needs a rough range.
func depthExtent(df *rs2.DepthFrame) (float32, float32) {
	w, h := df.Width(), df.Height()
	points := [][2]int{{0, 0}, {w - 1, 0}, {0, h - 1}, {w - 1, h - 1}, {w / 2, h / 2}}
	var minD, maxD float32
	first := true
	for _, pt := range points {
		d, err := df.Distance(pt[0], pt[1])
		if err != nil {
			continue
		}
		if first || d < minD {
			minD = d
		}
		if first || d > maxD {
			maxD = d
		}
		first = false
	}
	return minD, maxD
}

// Server broadcasts updates to websocket clients.
type Server struct {
	upgrader websocket.Upgrader
	clients  map[*websocket.Conn]*sync.Mutex
	mu       sync.Mutex

	profile  *rs2.PipelineProfile
	statusFn func() map[string]any
}

// Run serves until the context is done. Updates read from messages are
// broadcast to every connected client.
func Run(ctx context.Context, port int, profile *rs2.PipelineProfile, messages <-chan Update, statusFn func() map[string]any) error {
	srv := &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:  make(map[*websocket.Conn]*sync.Mutex),
		profile:  profile,
		statusFn: statusFn,
	}

	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.FS(sub)))
	mux.HandleFunc("/ws", srv.handleWS)
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.HandleFunc("/config", srv.handleConfig)
	mux.HandleFunc("/status", srv.handleStatus)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	go srv.broadcast(ctx, messages)

	err = httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	s.mu.Lock()
	writeMu := &sync.Mutex{}
	s.clients[conn] = writeMu
	s.mu.Unlock()

	_ = s.writeJSON(conn, writeMu, s.configPayload())

	go func() {
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(pingEvery)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					if err := s.writeMessage(conn, writeMu, websocket.PingMessage, nil); err != nil {
						_ = conn.Close()
						return
					}
				}
			}
		}()
		defer close(done)
		defer s.removeClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) configPayload() map[string]any {
	var streams []string
	if s.profile != nil {
		for _, p := range s.profile.Streams() {
			streams = append(streams, p.String())
		}
	}
	serial := ""
	if s.profile != nil {
		serial, _ = s.profile.Device().Info(rs2.InfoSerialNumber)
	}
	return map[string]any{
		"type":    "config",
		"serial":  serial,
		"streams": streams,
	}
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.configPayload())
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	payload := map[string]any{}
	if s.statusFn != nil {
		payload = s.statusFn()
	}
	payload["ws_clients"] = s.clientCount()
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) broadcast(ctx context.Context, messages <-chan Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case message, ok := <-messages:
			if !ok {
				return
			}
			payload, err := json.Marshal(message)
			if err != nil {
				continue
			}
			var stale []*websocket.Conn
			s.mu.Lock()
			for conn, writeMu := range s.clients {
				if err := s.writeMessage(conn, writeMu, websocket.TextMessage, payload); err != nil {
					stale = append(stale, conn)
				}
			}
			s.mu.Unlock()
			for _, conn := range stale {
				s.removeClient(conn)
			}
		}
	}
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}

func (s *Server) clientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) writeJSON(conn *websocket.Conn, writeMu *sync.Mutex, payload any) error {
	writeMu.Lock()
	defer writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(payload)
}

func (s *Server) writeMessage(conn *websocket.Conn, writeMu *sync.Mutex, messageType int, payload []byte) error {
	writeMu.Lock()
	defer writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(messageType, payload)
}
