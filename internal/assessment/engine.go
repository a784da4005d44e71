// internal/assessment/engine.go
package assessment

import (
	"encoding/json"
	"math"
)

// Answer is one submitted response to a catalog question.
type Answer struct {
	QuestionID int    `json:"questionId"`
	Answer     string `json:"answer"`
}

// UnmarshalJSON never fails. A question id that is not an integer decodes
// as 0, which matches no question, and answer text that is not a string
// decodes as empty, which scores 0.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var raw struct {
		QuestionID json.RawMessage `json:"questionId"`
		Answer     json.RawMessage `json:"answer"`
	}
	*a = Answer{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	var id float64
	if err := json.Unmarshal(raw.QuestionID, &id); err == nil && id == math.Trunc(id) &&
		id >= math.MinInt32 && id <= math.MaxInt32 {
		a.QuestionID = int(id)
	}
	var text string
	if err := json.Unmarshal(raw.Answer, &text); err == nil {
		a.Answer = text
	}
	return nil
}

// Recommendation is the scored verdict for a set of answers.
type Recommendation struct {
	Domain      string         `json:"domain"`
	Roles       []string       `json:"roles"`
	Courses     []string       `json:"courses"`
	Description string         `json:"description"`
	Aggregates  map[string]int `json:"aggregates"`
}

// GeneralDomain is returned when there is nothing to score.
const GeneralDomain = "General"

const insufficientDataDescription = "No sufficient data to provide a recommendation."

var likertScores = map[string]int{
	"Strongly Agree":    5,
	"Agree":             4,
	"Neutral":           3,
	"Disagree":          2,
	"Strongly Disagree": 1,
}

// LikertScore converts answer text to its numeric value. Unknown text scores 0.
func LikertScore(answer string) int {
	return likertScores[answer]
}

// Engine scores answers against a catalog. It holds no mutable state and
// may be shared between goroutines.
type Engine struct {
	catalog *Catalog
}

// NewEngine returns an engine bound to catalog. A nil catalog selects the
// built-in questionnaire.
func NewEngine(catalog *Catalog) *Engine {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Engine{catalog: catalog}
}

// Catalog returns the catalog the engine scores against.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Score aggregates answers into dimension buckets and picks a domain from
// the coarse buckets. It never fails: unknown question ids and unknown
// answer text contribute nothing, and duplicates are counted each time.
func (e *Engine) Score(answers []Answer) Recommendation {
	if len(answers) == 0 {
		return Recommendation{
			Domain:      GeneralDomain,
			Roles:       []string{},
			Courses:     []string{},
			Description: insufficientDataDescription,
			Aggregates:  map[string]int{},
		}
	}

	scores := make(map[string]int, len(Buckets)+len(FineCategories))
	for _, key := range AggregateKeys() {
		scores[key] = 0
	}

	for _, a := range answers {
		category, ok := e.catalog.category(a.QuestionID)
		if !ok {
			continue
		}
		score := LikertScore(a.Answer)

		// Legacy technical/creative/social/analytical share their key with
		// the coarse bucket, so they land here as well as in the fan-out.
		if _, tracked := scores[string(category)]; tracked {
			scores[string(category)] += score
		}
		for _, b := range coarseFanOut[category] {
			scores[string(b)] += score
		}
	}

	rec := templateFor(topBucket(scores))
	rec.Aggregates = scores
	return rec
}

// topBucket scans Buckets in order and keeps the earliest maximum.
func topBucket(scores map[string]int) Bucket {
	best := Buckets[0]
	for _, b := range Buckets[1:] {
		if scores[string(best)] < scores[string(b)] {
			best = b
		}
	}
	return best
}
