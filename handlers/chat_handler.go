package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/egor/engadvisor/models"
	"github.com/egor/engadvisor/websocket"
)

type chatRequest struct {
	Message string            `json:"message"`
	History []models.Exchange `json:"history"`
}

type historyRequest struct {
	History []models.Exchange `json:"history"`
}

// Chat runs one turn.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	p := profile(c)
	before := p.Render()
	result := h.advisor.Submit(c.Request.Context(), p, req.Message, req.History)

	if result.Interests != before {
		h.pushInterests(p.ID, result.Interests)
	}
	c.JSON(http.StatusOK, result)
}

// ViewHistory renders the conversation as text.
func (h *Handler) ViewHistory(c *gin.Context) {
	var req historyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": h.advisor.ViewHistory(req.History)})
}

// SaveHistory writes the conversation to the history file.
func (h *Handler) SaveHistory(c *gin.Context) {
	var req historyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	status, err := h.advisor.SaveHistory(req.History)
	if err != nil {
		h.logger.Error("failed to save history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save chat history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (h *Handler) pushInterests(sessionID, interests string) {
	if h.hub == nil {
		return
	}
	msg, err := websocket.NewInterestsMessage(interests)
	if err != nil {
		h.logger.Warn("failed to encode interests message", zap.Error(err))
		return
	}
	h.hub.SendToSession(sessionID, msg)
}
