package websocket

import (
	"log/slog"
	"net/http"
	"time"

	"dm-relay/auth"
	"dm-relay/services"

	"github.com/gorilla/websocket"
)

// Handler upgrades HTTP requests to websocket sessions.
//
// Handshake contract: the client supplies ?identity= or a ?token= issued by
// POST /register. A connection without a resolvable
// identity never becomes Active: it is closed right after the upgrade with a
// policy-violation frame, mirroring the registry never seeing it.
type Handler struct {
	log            *slog.Logger
	service        services.IRouterService
	upgrader       websocket.Upgrader
	sendBufferSize int
}

func NewHandler(log *slog.Logger, service services.IRouterService, sendBufferSize int) *Handler {
	return &Handler{
		log:     log,
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		sendBufferSize: sendBufferSize,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity := r.URL.Query().Get("identity")
	if identity == "" {
		if token := r.URL.Query().Get("token"); token != "" {
			claims, err := auth.ValidateToken(token)
			if err != nil {
				h.log.Warn("Handshake with invalid token", "err", err)
			} else {
				identity = claims.Identity
			}
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Upgrade failed", "err", err)
		return
	}

	if identity == "" {
		h.log.Warn("Connection without identity, disconnecting")
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "identity required"))
		_ = conn.Close()
		return
	}

	session := NewSession(h.log, h.service, conn, identity, h.sendBufferSize)
	session.Start()
}
