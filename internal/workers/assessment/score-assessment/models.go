// internal/workers/assessment/score-assessment/models.go
package scoreassessment

import "career-counselling/internal/assessment"

// Input is the job payload. Without a userId the answers are scored but
// nothing is stored.
type Input struct {
	UserID  string              `json:"userId,omitempty"`
	Answers []assessment.Answer `json:"answers"`
}

type Output struct {
	CareerSuggestion assessment.Recommendation `json:"careerSuggestion"`
	Persisted        bool                      `json:"persisted"`
	SubmittedAt      string                    `json:"submittedAt,omitempty"`
}
