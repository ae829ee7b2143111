package bridge

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/viaduct-ui/viaduct/pkg/protocol"
	"github.com/viaduct-ui/viaduct/pkg/route"
)

func testViews() *route.Table {
	return route.New().
		View("/", route.Static("home")).
		View("/users/:id", route.Static("user"), route.WithParams("id"))
}

// dial connects to a fresh bridge, completes the hello exchange and
// returns the open connection.
func dial(t *testing.T, cfg Config) *websocket.Conn {
	t.Helper()
	if cfg.Views == nil {
		cfg.Views = testViews()
	}
	h := NewHandler(cfg)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	hello := protocol.EncodeHello(&protocol.Hello{Version: protocol.Version, Path: "/"})
	if err := conn.WriteMessage(websocket.BinaryMessage, protocol.NewFrame(protocol.FrameHello, hello).Encode()); err != nil {
		t.Fatalf("send hello: %v", err)
	}

	reply := readFrame(t, conn, protocol.FrameHello)
	ack, err := protocol.DecodeHello(reply.Payload)
	if err != nil {
		t.Fatalf("decode hello reply: %v", err)
	}
	if ack.Session == "" {
		t.Fatal("server assigned no session id")
	}
	return conn
}

// readFrame reads frames until one of the wanted type arrives,
// skipping control traffic.
func readFrame(t *testing.T, conn *websocket.Conn, want protocol.FrameType) *protocol.Frame {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		f, err := protocol.DecodeFrame(msg)
		if err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		if f.Type == protocol.FrameControl {
			continue
		}
		if f.Type != want {
			t.Fatalf("frame type = %v, want %v", f.Type, want)
		}
		return f
	}
}

func readPatches(t *testing.T, conn *websocket.Conn) []protocol.Patch {
	t.Helper()
	f := readFrame(t, conn, protocol.FramePatches)
	patches, err := protocol.DecodePatches(f.Payload)
	if err != nil {
		t.Fatalf("decode patches: %v", err)
	}
	return patches
}

func TestBootReplacesInitialEntry(t *testing.T) {
	conn := dial(t, Config{})

	patches := readPatches(t, conn)
	if len(patches) != 1 || patches[0].Op != protocol.PatchReplace {
		t.Fatalf("patches = %+v, want one replace", patches)
	}
	if patches[0].Path != "/" {
		t.Fatalf("path = %q, want /", patches[0].Path)
	}
}

func TestNavigateEventPushesHistory(t *testing.T) {
	conn := dial(t, Config{})
	readPatches(t, conn) // boot replace
	readPatches(t, conn) // boot scroll

	ev := protocol.EncodeEvent(&protocol.Event{Type: protocol.EventNavigate, Path: "/users/7"})
	if err := conn.WriteMessage(websocket.BinaryMessage, protocol.NewFrame(protocol.FrameEvent, ev).Encode()); err != nil {
		t.Fatalf("send event: %v", err)
	}

	patches := readPatches(t, conn)
	if len(patches) != 1 || patches[0].Op != protocol.PatchPush {
		t.Fatalf("patches = %+v, want one push", patches)
	}
	if patches[0].Path != "/users/7" {
		t.Fatalf("path = %q, want /users/7", patches[0].Path)
	}

	scroll := readPatches(t, conn)
	if len(scroll) != 1 || scroll[0].Op != protocol.PatchScroll {
		t.Fatalf("patches = %+v, want one scroll", scroll)
	}
}

func TestPopEventSyncsLocation(t *testing.T) {
	conn := dial(t, Config{})
	readPatches(t, conn) // boot replace
	readPatches(t, conn) // boot scroll

	ev := protocol.EncodeEvent(&protocol.Event{Type: protocol.EventNavigate, Path: "/users/7"})
	if err := conn.WriteMessage(websocket.BinaryMessage, protocol.NewFrame(protocol.FrameEvent, ev).Encode()); err != nil {
		t.Fatalf("send event: %v", err)
	}
	readPatches(t, conn) // push
	readPatches(t, conn) // scroll

	pop := protocol.EncodeEvent(&protocol.Event{Type: protocol.EventPop, Delta: -1, Path: "/"})
	if err := conn.WriteMessage(websocket.BinaryMessage, protocol.NewFrame(protocol.FrameEvent, pop).Encode()); err != nil {
		t.Fatalf("send pop: %v", err)
	}

	scroll := readPatches(t, conn)
	if len(scroll) != 1 || scroll[0].Op != protocol.PatchScroll {
		t.Fatalf("patches = %+v, want scroll after pop", scroll)
	}
	sync := readPatches(t, conn)
	if len(sync) != 1 || sync[0].Op != protocol.PatchSync {
		t.Fatalf("patches = %+v, want location sync", sync)
	}
	if sync[0].Path != "/" {
		t.Fatalf("sync path = %q, want /", sync[0].Path)
	}
}

func TestUnknownPathReportsError(t *testing.T) {
	conn := dial(t, Config{})
	readPatches(t, conn)
	readPatches(t, conn)

	ev := protocol.EncodeEvent(&protocol.Event{Type: protocol.EventNavigate, Path: "/missing"})
	if err := conn.WriteMessage(websocket.BinaryMessage, protocol.NewFrame(protocol.FrameEvent, ev).Encode()); err != nil {
		t.Fatalf("send event: %v", err)
	}

	f := readFrame(t, conn, protocol.FrameError)
	code, _, err := protocol.DecodeError(f.Payload)
	if err != nil {
		t.Fatalf("decode error frame: %v", err)
	}
	if code != protocol.ErrCodeNoRoute {
		t.Fatalf("code = %v, want %v", code, protocol.ErrCodeNoRoute)
	}
}

func TestPingIsAnswered(t *testing.T) {
	conn := dial(t, Config{})

	ping := protocol.EncodeControl(protocol.ControlPing, 42)
	if err := conn.WriteMessage(websocket.BinaryMessage, protocol.NewFrame(protocol.FrameControl, ping).Encode()); err != nil {
		t.Fatalf("send ping: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		f, err := protocol.DecodeFrame(msg)
		if err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		if f.Type != protocol.FrameControl {
			continue
		}
		op, ts, err := protocol.DecodeControl(f.Payload)
		if err != nil {
			t.Fatalf("decode control: %v", err)
		}
		if op != protocol.ControlPong || ts != 42 {
			t.Fatalf("got %v %d, want pong 42", op, ts)
		}
		return
	}
}
