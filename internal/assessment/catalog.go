// internal/assessment/catalog.go
package assessment

import (
	"fmt"
)

// Likert is the agreement scale offered for every question.
var Likert = []string{
	"Strongly Agree",
	"Agree",
	"Neutral",
	"Disagree",
	"Strongly Disagree",
}

// Question is a single scored questionnaire item.
type Question struct {
	ID       int      `json:"id"`
	Text     string   `json:"question"`
	Options  []string `json:"options"`
	Category Category `json:"category"`
}

func q(id int, text string, c Category) Question {
	return Question{ID: id, Text: text, Options: Likert, Category: c}
}

var riasecQuestions = []Question{
	q(101, "I enjoy working with tools, machines, or physical objects.", RIASECRealistic),
	q(102, "I like solving math or science problems.", RIASECInvestigative),
	q(103, "I enjoy creative activities like drawing, writing, or designing.", RIASECArtistic),
	q(104, "I like helping people and teaching others.", RIASECSocial),
	q(105, "I enjoy leading, selling, or influencing people.", RIASECEnterprising),
	q(106, "I like organizing information and following procedures.", RIASECConventional),
}

var miQuestions = []Question{
	q(201, "I can express myself clearly through writing or speaking.", MILinguistic),
	q(202, "I enjoy solving puzzles or logic problems.", MILogical),
	q(203, "I remember things better using pictures or diagrams.", MIVisualSpatial),
	q(204, "I keep rhythm easily and enjoy music.", MIMusical),
	q(205, "I learn best by doing and moving.", MIBodily),
	q(206, "I understand how others feel and work well in teams.", MIInterpersonal),
	q(207, "I’m good at understanding my own emotions and motivations.", MIIntrapersonal),
	q(208, "I notice patterns in nature and enjoy the outdoors.", MINaturalistic),
}

var eiQuestions = []Question{
	q(301, "I can recognize my emotions as I experience them.", EISelfAwareness),
	q(302, "I stay calm under pressure or stress.", EISelfRegulation),
	q(303, "I stay motivated even when things get difficult.", EIMotivation),
	q(304, "I can understand how others feel even when they don’t say it.", EIEmpathy),
	q(305, "I can manage conflicts effectively and maintain good relationships.", EISocialSkills),
}

// legacyQuestions is the first questionnaire; kept so stored answers from it
// still score.
var legacyQuestions = []Question{
	q(1, "I enjoy working with numbers and data analysis", LegacyAnalytical),
	q(2, "I prefer working in teams rather than alone", LegacySocial),
	q(3, "I enjoy creating and designing new things", LegacyCreative),
	q(4, "I like to solve complex technical problems", LegacyTechnical),
	q(5, "I enjoy leading and managing others", LegacyLeadership),
	q(6, "I prefer detailed, systematic work", LegacyDetailOriented),
	q(7, "I enjoy helping and counseling others", LegacyHelping),
	q(8, "I like working with my hands and building things", LegacyHandsOn),
}

// Catalog is an immutable, ordered set of questions with unique ids.
// It is safe for concurrent use.
type Catalog struct {
	questions []Question
	byID      map[int]int
}

// NewCatalog concatenates the given groups in order. Ids must be positive
// and unique across every group.
func NewCatalog(groups ...[]Question) (*Catalog, error) {
	c := &Catalog{byID: make(map[int]int)}
	for _, group := range groups {
		for _, question := range group {
			if question.ID <= 0 {
				return nil, fmt.Errorf("question id must be positive, got %d", question.ID)
			}
			if _, dup := c.byID[question.ID]; dup {
				return nil, fmt.Errorf("duplicate question id %d", question.ID)
			}
			question.Options = append([]string(nil), question.Options...)
			c.byID[question.ID] = len(c.questions)
			c.questions = append(c.questions, question)
		}
	}
	return c, nil
}

var defaultCatalog = mustCatalog(riasecQuestions, miQuestions, eiQuestions, legacyQuestions)

func mustCatalog(groups ...[]Question) *Catalog {
	c, err := NewCatalog(groups...)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultCatalog returns the built-in questionnaire: RIASEC, Multiple
// Intelligences, Emotional Intelligence, then the legacy set.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// Questions returns a copy of the questions in display order.
func (c *Catalog) Questions() []Question {
	out := make([]Question, len(c.questions))
	for i, question := range c.questions {
		question.Options = append([]string(nil), question.Options...)
		out[i] = question
	}
	return out
}

// Lookup finds a question by id.
func (c *Catalog) Lookup(id int) (Question, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Question{}, false
	}
	question := c.questions[idx]
	question.Options = append([]string(nil), question.Options...)
	return question, true
}

// Len reports the number of questions.
func (c *Catalog) Len() int {
	return len(c.questions)
}

func (c *Catalog) category(id int) (Category, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return "", false
	}
	return c.questions[idx].Category, true
}
