package model

import "time"

// SuggestionType distinguishes feature ideas from bug reports.
type SuggestionType string

const (
	SuggestionTypeSuggestion SuggestionType = "suggestion"
	SuggestionTypeIssue      SuggestionType = "issue"
)

// ParseSuggestionType validates raw user input.
func ParseSuggestionType(s string) (SuggestionType, bool) {
	switch SuggestionType(s) {
	case SuggestionTypeSuggestion, SuggestionTypeIssue:
		return SuggestionType(s), true
	default:
		return "", false
	}
}

// Suggestion is user feedback. Username is captured at submission time.
type Suggestion struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	Username  string         `json:"username"`
	Type      SuggestionType `json:"type"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
}
