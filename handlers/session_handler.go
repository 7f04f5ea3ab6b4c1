package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateSession starts a session and returns its token.
func (h *Handler) CreateSession(c *gin.Context) {
	p := h.store.Create()

	token, err := h.tokens.GenerateToken(p.ID)
	if err != nil {
		h.store.Delete(p.ID)
		h.logger.Error("failed to sign session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	h.logger.Info("session created", zap.String("session", p.ID))
	c.JSON(http.StatusCreated, gin.H{
		"sessionId": p.ID,
		"token":     token,
		"interests": p.Render(),
	})
}

// GetInterests returns the rendered interests of the session.
func (h *Handler) GetInterests(c *gin.Context) {
	p := profile(c)
	c.JSON(http.StatusOK, gin.H{"interests": p.Render(), "tags": p.Interests()})
}
