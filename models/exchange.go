package models

// Exchange is one (user, bot) pair of a conversation history.
// Histories are owned by the caller and passed in on every turn.
type Exchange struct {
	User string `json:"user"`
	Bot  string `json:"bot"`
}
