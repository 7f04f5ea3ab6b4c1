package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/egor/engadvisor/session"
	"github.com/egor/engadvisor/websocket"
)

// checkOrigin allows configured origins and local connections without an Origin header.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		host := r.Host
		return strings.HasPrefix(host, "localhost:") || strings.HasPrefix(host, "127.0.0.1:")
	}

	if h.originAllowed(origin) {
		return true
	}
	h.logger.Warn("websocket origin rejected", zap.String("origin", origin))
	return false
}

// ServeWs upgrades an authenticated request to a WebSocket connection.
// The session token is passed in the token query parameter.
func (h *Handler) ServeWs(c *gin.Context) {
	if h.hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "websocket disabled"})
		return
	}

	claims, err := h.tokens.ValidateToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}
	p, err := h.store.Get(claims.SessionID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
		return
	}

	upgrader := gorilla.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := websocket.NewClient(h.hub, conn, p.ID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(func(client *websocket.Client, raw []byte) {
		h.processWebSocketMessage(p, client, raw)
	})

	h.logger.Info("websocket connected", zap.String("session", p.ID))
}

// processWebSocketMessage dispatches one incoming frame.
func (h *Handler) processWebSocketMessage(p *session.Profile, client *websocket.Client, raw []byte) {
	var msg websocket.WebSocketMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		client.SendError("invalid JSON")
		return
	}

	// the session may have expired while the socket stayed open
	if _, err := h.store.Get(p.ID); err != nil {
		client.SendError("session expired")
		return
	}

	switch msg.Type {
	case websocket.TypeSubmit:
		var payload websocket.SubmitPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			client.SendError("invalid submit payload")
			return
		}
		result := h.advisor.Submit(context.Background(), p, payload.Message, payload.History)
		data, err := websocket.NewTurnMessage(result)
		h.reply(client, data, err)

	case websocket.TypeViewHistory:
		var payload websocket.HistoryPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			client.SendError("invalid viewHistory payload")
			return
		}
		data, err := websocket.NewHistoryMessage(h.advisor.ViewHistory(payload.History))
		h.reply(client, data, err)

	default:
		client.SendError("unknown message type: " + msg.Type)
	}
}

func (h *Handler) reply(client *websocket.Client, data []byte, err error) {
	if err != nil {
		h.logger.Error("failed to encode websocket reply", zap.Error(err))
		client.SendError("internal error")
		return
	}
	client.Send(data)
}
