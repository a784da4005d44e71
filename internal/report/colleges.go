package report

import (
	"career-counselling/internal/assessment"
	"career-counselling/internal/models"
)

const (
	defaultCountry = "India"
	defaultDomain  = "Technology"
)

type College struct {
	College string `json:"college"`
	Course  string `json:"course"`
}

type collegeTemplate struct {
	name   string
	prefix string
}

var collegesByCountry = map[string][]collegeTemplate{
	"India": {
		{name: "IIT Bombay", prefix: "B.Tech / M.Tech - "},
		{name: "IISc Bangalore", prefix: "Research - "},
		{name: "IIM Ahmedabad", prefix: "MBA - "},
	},
}

// CollegeRecommendations suggests colleges in the user's target country,
// falling back to India for unknown or missing countries.
func CollegeRecommendations(user *models.User, suggestion *assessment.Recommendation) []College {
	country := defaultCountry
	if user.Profile != nil && user.Profile.TargetCountryRegion != "" {
		country = user.Profile.TargetCountryRegion.String()
	}
	domain := defaultDomain
	if suggestion != nil && suggestion.Domain != "" {
		domain = suggestion.Domain
	}

	templates, ok := collegesByCountry[country]
	if !ok {
		templates = collegesByCountry[defaultCountry]
	}

	out := make([]College, len(templates))
	for i, t := range templates {
		out[i] = College{College: t.name, Course: t.prefix + domain}
	}
	return out
}
