// internal/assessment/recommendation.go
package assessment

type template struct {
	domain      string
	roles       []string
	courses     []string
	description string
}

var templates = map[Bucket]template{
	BucketTechnical: {
		domain:      "Technology",
		roles:       []string{"Software Developer", "Data Scientist", "Cybersecurity Analyst"},
		courses:     []string{"Computer Science", "Data Analytics", "AI/ML"},
		description: "You have strong technical and analytical skills suitable for tech careers.",
	},
	BucketCreative: {
		domain:      "Creative Arts",
		roles:       []string{"Graphic Designer", "Content Creator", "UX/UI Designer"},
		courses:     []string{"Design Thinking", "Digital Marketing", "Fine Arts"},
		description: "Your creative abilities make you perfect for design and content roles.",
	},
	BucketBusiness: {
		domain:      "Business & Management",
		roles:       []string{"Business Analyst", "Project Manager", "Consultant"},
		courses:     []string{"MBA", "Business Analytics", "Leadership"},
		description: "Your leadership and detail-oriented nature suits business roles.",
	},
	BucketSocial: {
		domain:      "Social Services",
		roles:       []string{"Counselor", "Teacher", "Social Worker"},
		courses:     []string{"Psychology", "Education", "Social Work"},
		description: "Your people skills make you ideal for helping professions.",
	},
	BucketAnalytical: {
		domain:      "Research & Analysis",
		roles:       []string{"Research Analyst", "Statistician", "Market Researcher"},
		courses:     []string{"Statistics", "Research Methods", "Economics"},
		description: "Your analytical mindset suits research-oriented careers.",
	},
}

// templateFor builds a fresh recommendation for b, falling back to the
// technical template for an unknown bucket.
func templateFor(b Bucket) Recommendation {
	t, ok := templates[b]
	if !ok {
		t = templates[BucketTechnical]
	}
	return Recommendation{
		Domain:      t.domain,
		Roles:       append([]string(nil), t.roles...),
		Courses:     append([]string(nil), t.courses...),
		Description: t.description,
	}
}

// DomainFor returns the domain name recommended for bucket b.
func DomainFor(b Bucket) string {
	return templateFor(b).Domain
}
