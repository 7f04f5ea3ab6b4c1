package models

import "time"

// Feedback is one rating left by a user about a bot response
type Feedback struct {
	Timestamp        time.Time `json:"timestamp"`
	UserMessage      string    `json:"userMessage"`
	BotResponse      string    `json:"botResponse"`
	Rating           string    `json:"rating"`
	FeedbackText     string    `json:"feedbackText,omitempty"`
	TrackedInterests []string  `json:"trackedInterests"`
}
