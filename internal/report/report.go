// Package report builds the career guidance views served alongside test
// results: the guidance report, scholarships and college suggestions.
package report

import (
	"maps"
	"slices"
	"time"

	"career-counselling/internal/assessment"
	"career-counselling/internal/models"
)

const (
	noDomain      = "N/A"
	noDescription = "No description available."
)

var nextSteps = []string{
	"Research the suggested career paths",
	"Connect with professionals in your field of interest",
	"Consider taking relevant courses or certifications",
	"Build a portfolio showcasing your skills",
}

type PersonalInfo struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

type CareerGuidance struct {
	RecommendedDomain  string   `json:"recommendedDomain"`
	SuggestedRoles     []string `json:"suggestedRoles"`
	RecommendedCourses []string `json:"recommendedCourses"`
	Description        string   `json:"description"`
}

type CareerReport struct {
	PersonalInfo   PersonalInfo   `json:"personalInfo"`
	CareerGuidance CareerGuidance `json:"careerGuidance"`
	NextSteps      []string       `json:"nextSteps"`
	Aggregates     map[string]int `json:"aggregates,omitzero"`
	GeneratedAt    time.Time      `json:"generatedAt"`
}

// GenerateCareerReport summarises the user's latest result. resp may be nil
// when no test has been taken; the guidance then carries placeholders and
// aggregates are left out.
func GenerateCareerReport(user *models.User, resp *models.TestResponse) CareerReport {
	var s assessment.Recommendation
	var aggregates map[string]int
	if resp != nil {
		s = resp.CareerSuggestion
		aggregates = maps.Clone(s.Aggregates)
		if aggregates == nil {
			aggregates = map[string]int{}
		}
	}

	guidance := CareerGuidance{
		RecommendedDomain:  s.Domain,
		SuggestedRoles:     nonNil(s.Roles),
		RecommendedCourses: nonNil(s.Courses),
		Description:        s.Description,
	}
	if guidance.RecommendedDomain == "" {
		guidance.RecommendedDomain = noDomain
	}
	if guidance.Description == "" {
		guidance.Description = noDescription
	}

	return CareerReport{
		PersonalInfo: PersonalInfo{
			Name:   user.Name,
			Email:  user.Email,
			Status: user.ClassStatus,
		},
		CareerGuidance: guidance,
		NextSteps:      append([]string(nil), nextSteps...),
		Aggregates:     aggregates,
		GeneratedAt:    time.Now().UTC(),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
