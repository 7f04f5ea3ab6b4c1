package websocket

import (
	"encoding/json"

	"github.com/egor/engadvisor/advisor"
	"github.com/egor/engadvisor/models"
)

// Message types
const (
	TypeSubmit      = "submit"
	TypeViewHistory = "viewHistory"
	TypeTurn        = "turn"
	TypeHistory     = "history"
	TypeInterests   = "interests"
	TypeError       = "error"
)

// WebSocketMessage is the envelope of every frame.
type WebSocketMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// SubmitPayload is sent by the client to run a turn.
type SubmitPayload struct {
	Message string            `json:"message"`
	History []models.Exchange `json:"history"`
}

// HistoryPayload asks for a rendered conversation.
type HistoryPayload struct {
	History []models.Exchange `json:"history"`
}

// NewMessage encodes payload under messageType.
func NewMessage(messageType string, payload interface{}) ([]byte, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(WebSocketMessage{
		Type:    messageType,
		Payload: payloadJSON,
	})
}

// NewTurnMessage carries the result of a turn.
func NewTurnMessage(result advisor.TurnResult) ([]byte, error) {
	return NewMessage(TypeTurn, result)
}

// NewHistoryMessage carries a rendered conversation.
func NewHistoryMessage(text string) ([]byte, error) {
	return NewMessage(TypeHistory, struct {
		Text string `json:"text"`
	}{text})
}

// NewInterestsMessage notifies a session that its interests changed.
func NewInterestsMessage(interests string) ([]byte, error) {
	return NewMessage(TypeInterests, struct {
		Interests string `json:"interests"`
	}{interests})
}

// NewErrorMessage creates an error message.
func NewErrorMessage(errorText string) ([]byte, error) {
	payload := struct {
		Error string `json:"error"`
	}{
		Error: errorText,
	}

	return NewMessage(TypeError, payload)
}
