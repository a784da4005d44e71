package models

import (
	"time"

	"career-counselling/internal/assessment"
)

// TestResponse is the latest submission for a user. A new submission
// replaces the previous one.
type TestResponse struct {
	UserID           string                    `json:"userId"`
	Answers          []assessment.Answer       `json:"answers"`
	SubmittedAt      time.Time                 `json:"submittedAt"`
	CareerSuggestion assessment.Recommendation `json:"careerSuggestion"`
}
