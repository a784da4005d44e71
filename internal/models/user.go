package models

import (
	"bytes"
	"encoding/json"
	"slices"
	"time"
)

// MaxResearchPapers caps the papers kept on a profile.
const MaxResearchPapers = 50

// User is a registered candidate. Codes for verification live in the OTP
// store, never on the user.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	ClassStatus string    `json:"class_status"`
	Phone       string    `json:"phone"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"createdAt"`
	Profile     *Profile  `json:"profile,omitempty"`
}

// Public is the subset of a user echoed back by the auth endpoints.
func (u *User) Public() map[string]interface{} {
	return map[string]interface{}{
		"id":           u.ID,
		"name":         u.Name,
		"email":        u.Email,
		"class_status": u.ClassStatus,
		"phone":        u.Phone,
		"verified":     u.Verified,
	}
}

// Profile holds optional academic and career details.
type Profile struct {
	StudentType         FlexString      `json:"studentType,omitempty"`
	Stream              FlexString      `json:"stream,omitempty"`
	AcademicPercentile  FlexString      `json:"academicPercentile,omitempty"`
	IELTSSAT            FlexString      `json:"ieltsSat,omitempty"`
	BachelorStream      FlexString      `json:"bachelorStream,omitempty"`
	CareerGoal          FlexString      `json:"careerGoal,omitempty"`
	GREGMAT             FlexString      `json:"greGmat,omitempty"`
	ExperienceYears     *float64        `json:"experienceYears,omitempty"`
	StudentStage        FlexString      `json:"studentStage,omitempty"`
	TargetCountryRegion FlexString      `json:"targetCountryRegion,omitempty"`
	ResearchPapers      []ResearchPaper `json:"researchPapers,omitempty"`
}

type ResearchPaper struct {
	Title string     `json:"title,omitempty"`
	Venue string     `json:"venue,omitempty"`
	Year  FlexString `json:"year,omitempty"`
	Link  string     `json:"link,omitempty"`
}

// Merge returns p overlaid with the non-empty fields of update. A non-nil
// paper list in update replaces the existing one, truncated to
// MaxResearchPapers. Neither argument is modified.
func (p *Profile) Merge(update *Profile) *Profile {
	var out Profile
	if p != nil {
		out = *p
		out.ResearchPapers = slices.Clone(p.ResearchPapers)
		if p.ExperienceYears != nil {
			years := *p.ExperienceYears
			out.ExperienceYears = &years
		}
	}
	if update == nil {
		return &out
	}

	overlay := func(dst *FlexString, src FlexString) {
		if src != "" {
			*dst = src
		}
	}
	overlay(&out.StudentType, update.StudentType)
	overlay(&out.Stream, update.Stream)
	overlay(&out.AcademicPercentile, update.AcademicPercentile)
	overlay(&out.IELTSSAT, update.IELTSSAT)
	overlay(&out.BachelorStream, update.BachelorStream)
	overlay(&out.CareerGoal, update.CareerGoal)
	overlay(&out.GREGMAT, update.GREGMAT)
	overlay(&out.StudentStage, update.StudentStage)
	overlay(&out.TargetCountryRegion, update.TargetCountryRegion)

	if update.ExperienceYears != nil {
		years := *update.ExperienceYears
		out.ExperienceYears = &years
	}

	if update.ResearchPapers != nil {
		papers := update.ResearchPapers
		if len(papers) > MaxResearchPapers {
			papers = papers[:MaxResearchPapers]
		}
		out.ResearchPapers = append([]ResearchPaper{}, papers...)
	}
	return &out
}

// FlexString decodes from either a JSON string or a JSON number. Form
// clients send scores and years both ways.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}
