package bridge

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/viaduct-ui/viaduct/pkg/history"
	"github.com/viaduct-ui/viaduct/pkg/nav"
	"github.com/viaduct-ui/viaduct/pkg/protocol"
)

// session is one connected client: a websocket, its controller and
// the remote projection of its browser history.
type session struct {
	id      string
	conn    *websocket.Conn
	handler *Handler
	log     *slog.Logger

	controller *nav.Controller
	history    *remoteHistory

	outbound chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

// readLoop decodes inbound frames and drives the controller. Events
// run on this goroutine, so a session processes navigations one at a
// time.
func (s *session) readLoop() {
	defer s.close()

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.handler.cfg.ReadTimeout))
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.log.Error("read error", "error", err)
			}
			return
		}

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.log.Error("frame decode error", "error", err)
			s.sendError(protocol.ErrCodeBadFrame, "malformed frame")
			continue
		}

		switch frame.Type {
		case protocol.FrameEvent:
			s.handleEvent(frame.Payload)
		case protocol.FrameControl:
			s.handleControl(frame.Payload)
		default:
			s.log.Warn("unexpected frame type", "type", frame.Type)
		}
	}
}

func (s *session) handleEvent(payload []byte) {
	ev, err := protocol.DecodeEvent(payload)
	if err != nil {
		s.log.Error("event decode error", "error", err)
		s.sendError(protocol.ErrCodeBadFrame, "malformed event")
		return
	}

	switch ev.Type {
	case protocol.EventNavigate, protocol.EventLink:
		var opts []nav.Option
		if ev.Replace {
			opts = append(opts, nav.WithReplace())
		}
		if err := s.controller.Navigate(ev.Target(), opts...); err != nil {
			s.sendError(protocol.ErrCodeInternal, err.Error())
		}

	case protocol.EventPop:
		// The browser stack has already moved; re-enter the
		// controller and confirm the canonical location afterwards.
		s.history.pop(history.Location{Path: ev.Path, Search: ev.Search, Hash: ev.Hash})
		loc := s.controller.Location().Get()
		s.sendPatches([]protocol.Patch{{
			Op:     protocol.PatchSync,
			Path:   loc.Path,
			Search: loc.Search,
			Hash:   loc.Hash,
		}})
	}
}

func (s *session) handleControl(payload []byte) {
	op, ts, err := protocol.DecodeControl(payload)
	if err != nil {
		s.log.Error("control decode error", "error", err)
		return
	}
	if op == protocol.ControlPing {
		s.enqueue(protocol.NewFrame(protocol.FrameControl, protocol.EncodeControl(protocol.ControlPong, ts)).Encode())
	}
}

// writePump owns all writes to the connection.
func (s *session) writePump() {
	ticker := time.NewTicker(s.handler.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-s.outbound:
			if !ok {
				return
			}
			s.conn.SetWriteDeadline(time.Now().Add(s.handler.cfg.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				s.log.Error("write error", "error", err)
				s.close()
				return
			}
		case <-ticker.C:
			ping := protocol.NewFrame(protocol.FrameControl,
				protocol.EncodeControl(protocol.ControlPing, uint64(time.Now().UnixMilli())))
			s.conn.SetWriteDeadline(time.Now().Add(s.handler.cfg.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.BinaryMessage, ping.Encode()); err != nil {
				s.close()
				return
			}
		case <-s.done:
			return
		}
	}
}

// sendPatches satisfies patchSender.
func (s *session) sendPatches(patches []protocol.Patch) error {
	payload, err := protocol.EncodePatches(patches)
	if err != nil {
		return err
	}
	f := protocol.NewFrame(protocol.FramePatches, payload)
	f.Flags = protocol.FlagFinal
	s.enqueue(f.Encode())
	return nil
}

func (s *session) scroll(behavior string) {
	s.sendPatches([]protocol.Patch{{Op: protocol.PatchScroll, Behavior: behavior}})
}

func (s *session) navError(err error) {
	s.sendError(protocol.ErrCodeNoRoute, err.Error())
}

func (s *session) sendError(code protocol.ErrorCode, msg string) {
	s.enqueue(protocol.NewFrame(protocol.FrameError, protocol.EncodeError(code, msg)).Encode())
}

// enqueue hands a message to the write pump. A client that cannot
// drain its buffer gets disconnected rather than blocking navigation.
func (s *session) enqueue(msg []byte) {
	select {
	case s.outbound <- msg:
	case <-s.done:
	default:
		s.log.Warn("outbound buffer full, dropping session")
		s.close()
	}
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.controller.Close()
		s.conn.Close()
	})
}
