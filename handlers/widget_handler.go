package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/egor/engadvisor/feedback"
	"github.com/egor/engadvisor/websocket"
)

// WidgetConfig tells an embedded chat widget how to talk to the server.
func (h *Handler) WidgetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sessionUrl": "/api/sessions",
		"websocket": gin.H{
			"enabled": h.hub != nil,
			"url":     "/ws",
			"params":  []string{"token"},
			"send":    []string{websocket.TypeSubmit, websocket.TypeViewHistory},
			"receive": []string{websocket.TypeTurn, websocket.TypeHistory, websocket.TypeInterests, websocket.TypeError},
		},
		"ratings": feedback.Ratings(),
	})
}
