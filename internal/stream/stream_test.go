package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/san-kum/bouncesim/internal/config"
	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/physics"
	"github.com/san-kum/bouncesim/internal/sim"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testServer struct {
	*httptest.Server
	engine *Engine
	hub    *Hub
	cancel context.CancelFunc
	done   chan error
}

func startServer(t *testing.T) *testServer {
	t.Helper()
	s, err := config.DefaultConfig().NewSimulator()
	if err != nil {
		t.Fatal(err)
	}
	log := quietLogger()
	hub := NewHub(log)
	engine := NewEngine(s, 1, 50, hub, log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- engine.Run(ctx) }()

	ts := &testServer{
		Server: httptest.NewServer(NewServer(engine, hub, log).Handler()),
		engine: engine,
		hub:    hub,
		cancel: cancel,
		done:   done,
	}
	t.Cleanup(func() {
		hub.Close()
		ts.Close()
		cancel()
		<-done
	})
	return ts
}

func (ts *testServer) post(t *testing.T, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return resp, out
}

func TestWireFrame(t *testing.T) {
	s := sim.New(sim.DefaultConfig())
	bounds := dynamo.Vec(400, 300)
	if err := s.Initialize(&bounds); err != nil {
		t.Fatal(err)
	}
	b := physics.NewBall(dynamo.Vec(100.04, 50.06), 30)
	b.ColorIndex = 2
	if !s.AddBall(b) {
		t.Fatal("ball rejected")
	}

	f := NewWireFrame(7, s)
	if f.Tick != 7 || f.Width != 400 || f.Height != 300 || f.Population != 1 {
		t.Errorf("frame header = %+v", f)
	}
	if len(f.Lines) != 4 {
		t.Errorf("expected 4 walls, got %d", len(f.Lines))
	}
	if len(f.Circles) != 1 {
		t.Fatalf("expected 1 circle, got %d", len(f.Circles))
	}
	c := f.Circles[0]
	if c.X != 100 || c.Y != 50.1 || c.Color != 2 {
		t.Errorf("circle = %+v", c)
	}

	data, err := EncodeFrame(f)
	if err != nil {
		t.Fatal(err)
	}
	back, err := DecodeFrame(data)
	if err != nil {
		t.Fatal(err)
	}
	if back.Circles[0] != c || back.State != f.State || len(back.Lines) != 4 {
		t.Errorf("decoded frame differs: %+v", back)
	}
}

func TestWireFrame_Uninitialized(t *testing.T) {
	f := NewWireFrame(0, sim.New(sim.DefaultConfig()))
	if f.Width != 0 || f.Circles != nil || f.State != "uninitialized" {
		t.Errorf("frame = %+v", f)
	}
}

func TestHealth(t *testing.T) {
	ts := startServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestSnapshot(t *testing.T) {
	ts := startServer(t)

	resp, err := http.Get(ts.URL + "/snapshot")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var f WireFrame
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		t.Fatal(err)
	}
	if f.Width != config.DefaultWidth || len(f.Lines) != 4 || f.State != "running" {
		t.Errorf("snapshot = %+v", f)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/snapshot", nil)
	req.Header.Set("Accept", msgpackType)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if ct := resp2.Header.Get("Content-Type"); ct != msgpackType {
		t.Errorf("content type = %q", ct)
	}
	data, _ := io.ReadAll(resp2.Body)
	mf, err := DecodeFrame(data)
	if err != nil {
		t.Fatal(err)
	}
	if mf.Height != config.DefaultHeight {
		t.Errorf("msgpack snapshot height = %v", mf.Height)
	}
}

func TestGravity(t *testing.T) {
	ts := startServer(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", `{"x": 0, "y": 2}`, http.StatusOK},
		{"missing y", `{"x": 1}`, http.StatusBadRequest},
		{"not json", `gravity`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := ts.post(t, "/gravity", tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d (%v)", resp.StatusCode, tt.status, out)
			}
			if tt.status == http.StatusOK && out["y"] != 2*sim.DefaultGravityStrength {
				t.Errorf("applied gravity = %v", out)
			}
		})
	}
}

func TestBarriers(t *testing.T) {
	ts := startServer(t)

	resp, _ := ts.post(t, "/barriers", `{"x1": 100, "y1": 500, "x2": 300, "y2": 450}`)
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want 201", resp.StatusCode)
	}
	resp, _ = ts.post(t, "/barriers", `{"x1": 100, "y1": 500, "x2": 105, "y2": 500}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("short barrier status = %d, want 422", resp.StatusCode)
	}

	f, err := ts.engine.Frame(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Lines) != 5 {
		t.Errorf("expected 5 lines after one barrier, got %d", len(f.Lines))
	}
}

func TestStateCommands(t *testing.T) {
	ts := startServer(t)

	steps := []struct {
		path string
		want string
	}{
		{"/pause", "paused"},
		{"/run", "running"},
		{"/restart", "running"},
	}
	for _, st := range steps {
		_, out := ts.post(t, st.path, "")
		if out["state"] != st.want {
			t.Errorf("%s: state = %v, want %s", st.path, out["state"], st.want)
		}
	}
}

func TestWebsocketStream(t *testing.T) {
	ts := startServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	for i := 0; i < 2; i++ {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		mt, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if mt != websocket.BinaryMessage {
			t.Fatalf("message type = %d", mt)
		}
		f, err := DecodeFrame(data)
		if err != nil {
			t.Fatal(err)
		}
		if f.Width != config.DefaultWidth {
			t.Errorf("frame width = %v", f.Width)
		}
	}
	if ts.hub.Len() != 1 {
		t.Errorf("hub has %d clients", ts.hub.Len())
	}
}

func TestEngineStopped(t *testing.T) {
	ts := startServer(t)
	ts.cancel()
	if err := <-ts.done; err != context.Canceled {
		t.Errorf("Run returned %v", err)
	}
	ts.done <- nil // for cleanup

	resp, err := http.Post(ts.URL+"/restart", "application/json", bytes.NewReader(nil))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
	if err := ts.engine.Do(context.Background(), func(*sim.Simulator) {}); err != ErrEngineStopped {
		t.Errorf("Do after stop = %v", err)
	}
}
