package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/egor/engadvisor/feedback"
)

type feedbackRequest struct {
	UserMessage  string `json:"userMessage"`
	BotResponse  string `json:"botResponse"`
	Rating       string `json:"rating" binding:"required"`
	FeedbackText string `json:"feedbackText"`
}

// SubmitFeedback stores a rating of a bot response.
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	status, err := h.advisor.SubmitFeedback(profile(c), req.UserMessage, req.BotResponse, req.Rating, req.FeedbackText)
	switch {
	case errors.Is(err, feedback.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "ratings": feedback.Ratings()})
	case err != nil:
		h.logger.Error("failed to save feedback", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save feedback"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": status})
	}
}
