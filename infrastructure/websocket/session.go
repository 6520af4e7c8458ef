package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"dm-relay/domain"
	"dm-relay/services"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024 // 64KB
)

// Session lifecycle. Closed is terminal: no further events are processed and
// deliveries racing the teardown are silently dropped.
const (
	stateConnecting int32 = iota
	stateActive
	stateClosed
)

// Session binds one websocket connection to one identity and bridges
// transport events to the message router. It is the connection handle
// registered in the presence registry; its uuid is what the registry
// compares on unregister.
type Session struct {
	id       string
	identity string
	conn     *websocket.Conn
	send     chan []byte
	state    atomic.Int32
	done     chan struct{}
	once     sync.Once
	log      *slog.Logger
	service  services.IRouterService
}

func NewSession(log *slog.Logger, service services.IRouterService,
	conn *websocket.Conn, identity string, sendBufferSize int) *Session {
	id := uuid.NewString()
	return &Session{
		id:       id,
		identity: identity,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		log:      log.With("identity", identity, "handle", id),
		service:  service,
	}
}

func (s *Session) ID() string { return s.id }

// Start transitions the session to Active: it registers with the presence
// registry (announcing the new online set) and launches both pumps.
func (s *Session) Start() {
	s.state.Store(stateActive)
	s.service.Connect(s.identity, s)
	go s.writePump()
	go s.readPump()
}

// Deliver pushes a persisted message to the peer. Called by the router from
// other sessions' goroutines; dropped without error once the session closed
// or when the peer is too slow to drain its buffer.
func (s *Session) Deliver(msg domain.Message) {
	s.push(EventReceiveMessage, toMessageRecord(msg))
}

// NotifyPresence pushes the current online set to the peer.
func (s *Session) NotifyPresence(online []string) {
	s.push(EventOnlineUsers, online)
}

func (s *Session) push(eventType string, payload any) {
	if s.state.Load() != stateActive {
		return
	}
	frame, err := marshalEvent(eventType, payload)
	if err != nil {
		s.log.Error("Failed to marshal outbound event", "type", eventType, "err", err)
		return
	}
	select {
	case s.send <- frame:
	default:
		s.log.Warn("Send buffer full, dropping event", "type", eventType)
	}
}

// readPump pumps inbound frames from the connection to the router.
// Per-connection ordering holds because all inbound events of this session
// go through this single goroutine.
func (s *Session) readPump() {
	defer s.Close()

	ctx := context.Background()
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("Read failed", "err", err)
			}
			return
		}

		var envelope Envelope
		if err := json.Unmarshal(frame, &envelope); err != nil {
			s.log.Debug("Dropping unparseable frame", "err", err)
			continue
		}

		switch envelope.Type {
		case EventSendMessage:
			var payload SendMessagePayload
			if err := json.Unmarshal(envelope.Data, &payload); err != nil {
				s.log.Debug("Dropping malformed send-message payload", "err", err)
				continue
			}
			if err := s.service.HandleInbound(ctx, s.identity, payload.Recipient, payload.Body); err != nil {
				// Best-effort relay: malformed or unpersisted messages are
				// dropped, never fatal for the connection.
				s.log.Warn("Inbound message dropped", "err", err)
			}
		default:
			s.log.Debug("Ignoring unknown event type", "type", envelope.Type)
		}
	}
}

// writePump pumps outbound frames to the connection and keeps it alive with
// pings. Exits on the first write error or when the session closes.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case <-s.done:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case frame := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				s.log.Debug("Write failed", "err", err)
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.log.Debug("Ping failed", "err", err)
				return
			}
		}
	}
}

// Close transitions the session to Closed, tears down the transport and
// removes this handle from the registry (compare-and-remove, so a superseded
// connection closing late cannot evict its successor). Idempotent.
func (s *Session) Close() {
	s.once.Do(func() {
		s.state.Store(stateClosed)
		close(s.done)
		_ = s.conn.Close()
		s.service.Disconnect(s.identity, s.id)
		s.log.Debug("Session closed")
	})
}
