package models

// MatchResult is a scored catalog entry produced for a single query.
type MatchResult struct {
	Program         *Program `json:"program"`
	Score           int      `json:"score"`
	MatchedKeywords []string `json:"matchedKeywords"` // first-seen order, duplicates kept
}
