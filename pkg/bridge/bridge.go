package bridge

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/viaduct-ui/viaduct/pkg/history"
	"github.com/viaduct-ui/viaduct/pkg/nav"
	"github.com/viaduct-ui/viaduct/pkg/protocol"
	"github.com/viaduct-ui/viaduct/pkg/route"
)

// Config configures a bridge Handler.
type Config struct {
	// Views is the route table shared by every session.
	Views *route.Table

	// BasePath, NotFound and Observers are passed through to each
	// session's controller.
	BasePath  string
	NotFound  *route.Binding
	Observers []nav.Observer

	// CheckOrigin overrides the upgrader's origin check. Nil keeps
	// the gorilla default (same origin).
	CheckOrigin func(r *http.Request) bool

	// PingInterval is how often the server pings an idle client.
	// ReadTimeout must exceed it. Both have sensible defaults.
	PingInterval time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	Logger *slog.Logger
}

const (
	defaultPingInterval = 30 * time.Second
	defaultReadTimeout  = 75 * time.Second
	defaultWriteTimeout = 10 * time.Second

	outboundBuffer = 32
)

// Handler upgrades HTTP requests to navigation sessions.
type Handler struct {
	cfg      Config
	upgrader websocket.Upgrader
	log      *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

// NewHandler creates a bridge handler for the given config.
func NewHandler(cfg Config) *Handler {
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = defaultPingInterval
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Handler{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     cfg.CheckOrigin,
		},
		log:      cfg.Logger,
		sessions: make(map[string]*session),
	}
}

// SessionCount returns the number of live sessions.
func (h *Handler) SessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// ServeHTTP upgrades the connection, performs the hello exchange and
// runs the session until the client goes away.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "error", err)
		return
	}

	s, err := h.accept(conn)
	if err != nil {
		h.log.Error("session setup failed", "error", err)
		conn.Close()
		return
	}

	h.register(s)
	defer h.unregister(s)

	go s.writePump()
	s.readLoop()
}

// accept runs the hello exchange and builds the session.
func (h *Handler) accept(conn *websocket.Conn) (*session, error) {
	conn.SetReadDeadline(time.Now().Add(h.cfg.ReadTimeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	frame, err := protocol.DecodeFrame(msg)
	if err != nil {
		return nil, err
	}
	if frame.Type != protocol.FrameHello {
		return nil, protocol.ErrInvalidFrameType
	}
	hello, err := protocol.DecodeHello(frame.Payload)
	if err != nil {
		return nil, err
	}

	s := &session{
		id:       newSessionID(),
		conn:     conn,
		handler:  h,
		outbound: make(chan []byte, outboundBuffer),
		done:     make(chan struct{}),
	}
	s.log = h.log.With("session", s.id)

	boot := history.Location{Path: hello.Path, Search: hello.Search, Hash: hello.Hash}
	s.history = newRemoteHistory(s, boot)
	s.controller = nav.New(nav.Config{
		Views:     h.cfg.Views,
		History:   s.history,
		BasePath:  h.cfg.BasePath,
		NotFound:  h.cfg.NotFound,
		Observers: h.cfg.Observers,
		Logger:    s.log,
		Scroller:  s.scroll,
		OnError:   s.navError,
	})

	// Echo the hello with the assigned session id.
	reply := protocol.EncodeHello(&protocol.Hello{
		Version: protocol.Version,
		Session: s.id,
		Path:    hello.Path,
		Search:  hello.Search,
		Hash:    hello.Hash,
	})
	conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
	if err := conn.WriteMessage(websocket.BinaryMessage, protocol.NewFrame(protocol.FrameHello, reply).Encode()); err != nil {
		s.controller.Close()
		return nil, err
	}

	// The browser already shows the boot URL, so the initial
	// navigation replaces instead of pushing. A redirecting guard
	// surfaces as a replace patch with the new location.
	opts := []nav.Option{nav.WithReplace()}
	if hello.Search != "" {
		opts = append(opts, nav.WithSearch(hello.Search))
	}
	if hello.Hash != "" {
		opts = append(opts, nav.WithHash(hello.Hash))
	}
	if err := s.controller.Navigate(hello.Path, opts...); err != nil {
		s.controller.Close()
		return nil, err
	}
	return s, nil
}

func (h *Handler) register(s *session) {
	h.mu.Lock()
	h.sessions[s.id] = s
	h.mu.Unlock()
}

func (h *Handler) unregister(s *session) {
	h.mu.Lock()
	delete(h.sessions, s.id)
	h.mu.Unlock()
	s.close()
}

func newSessionID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
