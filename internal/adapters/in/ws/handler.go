// Package ws serves the realtime channel over WebSocket.
package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"ordertracker/internal/adapters/out/realtime"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/ports"
	"ordertracker/internal/pkg/errs"
	"ordertracker/internal/pkg/origins"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Config struct {
	// MessagesPerSecond limits inbound frames per connection. Excess frames
	// are answered with an error event and ignored.
	MessagesPerSecond float64
	Burst             int
	MaxMessageBytes   int64
	WriteWait         time.Duration
	PongWait          time.Duration
	PingPeriod        time.Duration
}

func DefaultConfig() Config {
	return Config{
		MessagesPerSecond: 5,
		Burst:             10,
		MaxMessageBytes:   4096,
		WriteWait:         10 * time.Second,
		PongWait:          60 * time.Second,
		PingPeriod:        54 * time.Second,
	}
}

type Handler struct {
	hub      *realtime.Hub
	auth     ports.Authenticator
	origins  origins.AllowList
	upgrader websocket.Upgrader
	cfg      Config
	logger   *zap.Logger
}

func NewHandler(hub *realtime.Hub, auth ports.Authenticator, allow origins.AllowList, cfg Config, logger *zap.Logger) *Handler {
	h := &Handler{
		hub:     hub,
		auth:    auth,
		origins: allow,
		cfg:     cfg,
		logger:  logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return h.origins.Allows(r.Header.Get("Origin"))
		},
	}
	return h
}

// ServeHTTP authenticates the token, upgrades the connection and blocks
// until it is closed.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.origins.Allows(r.Header.Get("Origin")) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	principal, err := h.auth.Authenticate(r.Context(), tokenFrom(r))
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	client, err := h.hub.Connect(principal)
	if err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(h.cfg.WriteWait))
		_ = conn.Close()
		return
	}

	log := h.logger.With(zap.String("identity_id", principal.ID.String()), zap.Stringer("role", principal.Role))
	log.Debug("realtime client connected")

	go h.writePump(conn, client, log)
	h.readPump(conn, client, log)
	h.hub.Disconnect(client)
	log.Debug("realtime client disconnected")
}

func tokenFrom(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func (h *Handler) readPump(conn *websocket.Conn, client *realtime.Client, log *zap.Logger) {
	defer conn.Close()

	conn.SetReadLimit(h.cfg.MaxMessageBytes)
	_ = conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	})

	limiter := rate.NewLimiter(rate.Limit(h.cfg.MessagesPerSecond), h.cfg.Burst)
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("realtime read failed", zap.Error(err))
			}
			return
		}
		if !limiter.Allow() {
			client.SendError("rate limit exceeded")
			continue
		}
		h.dispatch(client, frame)
	}
}

func (h *Handler) dispatch(client *realtime.Client, frame []byte) {
	var msg realtime.Message
	if err := json.Unmarshal(frame, &msg); err != nil {
		client.SendError("malformed message")
		return
	}

	switch msg.Event {
	case realtime.EventJoin:
		var raw string
		if err := json.Unmarshal(msg.Data, &raw); err != nil {
			client.SendError("join expects an identity id")
			return
		}
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			client.SendError("join expects an identity id")
			return
		}
		if err = h.hub.Join(client, id); err != nil {
			client.SendError(joinFailure(err))
		}
	default:
		client.SendError("unknown event " + msg.Event)
	}
}

func joinFailure(err error) string {
	if errors.Is(err, errs.ErrForbidden) {
		return "cannot join another identity's channel"
	}
	return "join failed"
}

// writePump is the only writer of conn.
func (h *Handler) writePump(conn *websocket.Conn, client *realtime.Client, log *zap.Logger) {
	ticker := time.NewTicker(h.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		h.hub.Disconnect(client)
		_ = conn.Close()
	}()

	for {
		select {
		case frame := <-client.Messages():
			_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Debug("realtime write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-client.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(h.cfg.WriteWait))
			return
		}
	}
}
