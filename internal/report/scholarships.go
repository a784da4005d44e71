package report

import (
	"slices"

	"career-counselling/internal/assessment"
	"career-counselling/internal/models"
)

type Scholarship struct {
	Name        string   `json:"name"`
	Amount      string   `json:"amount"`
	Eligibility string   `json:"eligibility"`
	Deadline    string   `json:"deadline"`
	Type        string   `json:"type"`
	Target      string   `json:"target"`
	Domains     []string `json:"domains"`
}

var scholarships = []Scholarship{
	{
		Name:        "Merit Scholarship Program",
		Amount:      "₹50,000 - ₹2,00,000",
		Eligibility: "Students with 85%+ marks",
		Deadline:    "March 31, 2025",
		Type:        "Academic Excellence",
		Target:      "Student",
		Domains:     []string{"Tech", "Business", "Creative"},
	},
	{
		Name:        "STEM Education Grant",
		Amount:      "₹1,00,000 - ₹3,00,000",
		Eligibility: "Science & Tech students",
		Deadline:    "April 15, 2025",
		Type:        "Subject Specific",
		Target:      "Student",
		Domains:     []string{"Tech"},
	},
	{
		Name:        "Need-Based Financial Aid",
		Amount:      "₹25,000 - ₹1,50,000",
		Eligibility: "Family income < ₹5 LPA",
		Deadline:    "May 30, 2025",
		Type:        "Financial Support",
		Target:      "Student",
		Domains:     []string{"Tech", "Business", "Creative", "Skilled"},
	},
	{
		Name:        "Professional Development Grant",
		Amount:      "₹30,000 - ₹1,00,000",
		Eligibility: "Working professionals",
		Deadline:    "June 30, 2025",
		Type:        "Skill Enhancement",
		Target:      "Worker",
		Domains:     []string{"Tech", "Business"},
	},
	{
		Name:        "Career Transition Support",
		Amount:      "₹50,000 - ₹2,00,000",
		Eligibility: "Career changers",
		Deadline:    "July 15, 2025",
		Type:        "Career Change",
		Target:      "Worker",
		Domains:     []string{"Business", "Creative"},
	},
}

// domainTags maps recommendation domains to the short tags used on
// scholarships. Domains without a tag are not filtered on.
var domainTags = map[string]string{
	assessment.DomainFor(assessment.BucketTechnical): "Tech",
	assessment.DomainFor(assessment.BucketBusiness):  "Business",
	assessment.DomainFor(assessment.BucketCreative):  "Creative",
}

// ScholarshipOptions lists scholarships targeting the user's class status,
// narrowed to the suggested domain when one is known. suggestion may be nil.
func ScholarshipOptions(user *models.User, suggestion *assessment.Recommendation) []Scholarship {
	tag := ""
	if suggestion != nil {
		tag = domainTags[suggestion.Domain]
	}

	out := make([]Scholarship, 0, len(scholarships))
	for _, s := range scholarships {
		if s.Target != user.ClassStatus {
			continue
		}
		if tag != "" && !slices.Contains(s.Domains, tag) {
			continue
		}
		s.Domains = append([]string(nil), s.Domains...)
		out = append(out, s)
	}
	return out
}
