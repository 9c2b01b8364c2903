package preview

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rerun-io/realsense-go/rs2"
)

func depthTestFrameset() *rs2.Frameset {
	p := rs2.StreamProfile{Kind: rs2.StreamDepth, Format: rs2.FormatZ16, Width: 4, Height: 2, Framerate: 30}
	data := make([]byte, 16)
	for i := 0; i < 8; i++ {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(1000+i*100))
	}
	return rs2.NewFrameset(rs2.NewDepthFrame(p, 7, time.Now(), 0.001, data))
}

func TestSummarise(t *testing.T) {
	update := Summarise(depthTestFrameset())
	if update.Type != "frameset" {
		t.Fatalf("update type %q", update.Type)
	}
	if len(update.Streams) != 1 {
		t.Fatalf("%d stream summaries, want 1", len(update.Streams))
	}
	s := update.Streams[0]
	if s.FrameNumber != 7 {
		t.Fatalf("frame number %d, want 7", s.FrameNumber)
	}
	if s.Bytes != 16 {
		t.Fatalf("bytes %d, want 16", s.Bytes)
	}
	if s.DepthMin >= s.DepthMax {
		t.Fatalf("depth extent [%v, %v] not increasing", s.DepthMin, s.DepthMax)
	}
	if s.DepthMin != 1.0 {
		t.Fatalf("depth min %v, want 1.0", s.DepthMin)
	}
}

func TestHandleConfig(t *testing.T) {
	srv := &Server{clients: make(map[*websocket.Conn]*sync.Mutex)}

	req := httptest.NewRequest(http.MethodGet, "/config", nil)
	rec := httptest.NewRecorder()
	srv.handleConfig(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("config status %d", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if payload["type"] != "config" {
		t.Fatalf("config payload type %v", payload["type"])
	}
}

func TestHandleStatus(t *testing.T) {
	srv := &Server{
		clients: make(map[*websocket.Conn]*sync.Mutex),
		statusFn: func() map[string]any {
			return map[string]any{"framesets": 12}
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	srv.handleStatus(rec, req)

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if payload["framesets"] != float64(12) {
		t.Fatalf("status framesets %v", payload["framesets"])
	}
	if payload["ws_clients"] != float64(0) {
		t.Fatalf("status ws_clients %v", payload["ws_clients"])
	}
}

func TestWebsocketReceivesConfigAndUpdates(t *testing.T) {
	srv := &Server{
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		clients:  make(map[*websocket.Conn]*sync.Mutex),
	}
	ts := httptest.NewServer(http.HandlerFunc(srv.handleWS))
	defer ts.Close()

	url := "ws" + ts.URL[len("http"):]
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var first map[string]any
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read config message: %v", err)
	}
	if first["type"] != "config" {
		t.Fatalf("first message type %v, want config", first["type"])
	}

	// Wait for registration, then push one update through the broadcast
	// path.
	deadline := time.Now().Add(time.Second)
	for srv.clientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	messages := make(chan Update, 1)
	messages <- Summarise(depthTestFrameset())
	close(messages)
	srv.broadcast(context.Background(), messages)

	var update Update
	if err := conn.ReadJSON(&update); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if update.Type != "frameset" || len(update.Streams) != 1 {
		t.Fatalf("unexpected update %+v", update)
	}
}
