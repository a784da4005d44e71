// internal/assessment/engine_test.go
package assessment

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestEngine() *Engine {
	return NewEngine(DefaultCatalog())
}

func zeroAggregates() map[string]int {
	out := make(map[string]int)
	for _, k := range AggregateKeys() {
		out[k] = 0
	}
	return out
}

// ==========================
// Degenerate / Empty Input
// ==========================

func TestEngine_Score_EmptyAnswers(t *testing.T) {
	for _, answers := range [][]Answer{nil, {}} {
		rec := newTestEngine().Score(answers)

		assert.Equal(t, "General", rec.Domain)
		assert.NotNil(t, rec.Roles)
		assert.Empty(t, rec.Roles)
		assert.NotNil(t, rec.Courses)
		assert.Empty(t, rec.Courses)
		assert.Equal(t, "No sufficient data to provide a recommendation.", rec.Description)
		assert.NotNil(t, rec.Aggregates)
		assert.Empty(t, rec.Aggregates)
	}
}

// ==========================
// Concrete Scenarios
// ==========================

func TestEngine_Score_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		answers        []Answer
		expectedDomain string
		expected       map[string]int
	}{
		{
			name:           "investigative feeds technical and analytical",
			answers:        []Answer{{QuestionID: 102, Answer: "Strongly Agree"}},
			expectedDomain: "Technology",
			expected: map[string]int{
				"RIASEC_I":   5,
				"technical":  5,
				"analytical": 5,
			},
		},
		{
			name:           "artistic feeds creative",
			answers:        []Answer{{QuestionID: 103, Answer: "Agree"}},
			expectedDomain: "Creative Arts",
			expected: map[string]int{
				"RIASEC_A": 4,
				"creative": 4,
			},
		},
		{
			name: "linguistic has no coarse bucket",
			answers: []Answer{
				{QuestionID: 201, Answer: "Neutral"},
				{QuestionID: 104, Answer: "Strongly Agree"},
			},
			expectedDomain: "Social Services",
			expected: map[string]int{
				"MI_Linguistic": 3,
				"RIASEC_S":      5,
				"social":        5,
			},
		},
		{
			name:           "unknown question id takes the non-empty path",
			answers:        []Answer{{QuestionID: 9999, Answer: "Strongly Agree"}},
			expectedDomain: "Technology",
			expected:       map[string]int{},
		},
		{
			name: "enterprising and conventional feed business",
			answers: []Answer{
				{QuestionID: 105, Answer: "Agree"},
				{QuestionID: 106, Answer: "Disagree"},
			},
			expectedDomain: "Business & Management",
			expected: map[string]int{
				"RIASEC_E": 4,
				"RIASEC_C": 2,
				"business": 6,
			},
		},
		{
			name:           "interpersonal feeds social",
			answers:        []Answer{{QuestionID: 206, Answer: "Disagree"}},
			expectedDomain: "Social Services",
			expected: map[string]int{
				"MI_Interpersonal": 2,
				"social":           2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newTestEngine().Score(tt.answers)

			want := zeroAggregates()
			for k, v := range tt.expected {
				want[k] = v
			}

			assert.Equal(t, tt.expectedDomain, rec.Domain)
			assert.Equal(t, want, rec.Aggregates)
			assert.Len(t, rec.Roles, 3)
			assert.Len(t, rec.Courses, 3)
			assert.NotEmpty(t, rec.Description)
		})
	}
}

func TestEngine_Score_LegacyCategories(t *testing.T) {
	tests := []struct {
		name     string
		id       int
		expected map[string]int
	}{
		// legacy analytical hits its own key, then fans out to technical and analytical
		{name: "analytical", id: 1, expected: map[string]int{"analytical": 10, "technical": 5}},
		{name: "social", id: 2, expected: map[string]int{"social": 10}},
		{name: "creative", id: 3, expected: map[string]int{"creative": 10}},
		// technical has a key but no fan-out entry
		{name: "technical", id: 4, expected: map[string]int{"technical": 5}},
		{name: "leadership", id: 5, expected: map[string]int{"business": 5}},
		{name: "detail-oriented", id: 6, expected: map[string]int{"business": 5}},
		{name: "helping", id: 7, expected: map[string]int{"social": 5}},
		{name: "hands-on", id: 8, expected: map[string]int{"technical": 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newTestEngine().Score([]Answer{{QuestionID: tt.id, Answer: "Strongly Agree"}})

			want := zeroAggregates()
			for k, v := range tt.expected {
				want[k] = v
			}
			assert.Equal(t, want, rec.Aggregates)
		})
	}
}

// ==========================
// Likert Conversion
// ==========================

func TestLikertScore(t *testing.T) {
	tests := map[string]int{
		"Strongly Agree":    5,
		"Agree":             4,
		"Neutral":           3,
		"Disagree":          2,
		"Strongly Disagree": 1,
		"":                  0,
		"agree":             0,
		"Maybe":             0,
		" Agree":            0,
	}
	for answer, expected := range tests {
		assert.Equal(t, expected, LikertScore(answer), "answer %q", answer)
	}
}

func TestEngine_Score_UnrecognisedAnswerScoresZero(t *testing.T) {
	rec := newTestEngine().Score([]Answer{{QuestionID: 101, Answer: "Sometimes"}})

	assert.Equal(t, zeroAggregates(), rec.Aggregates)
	assert.Equal(t, "Technology", rec.Domain)
}

// ==========================
// Properties
// ==========================

func TestEngine_Score_AlwaysReturnsEveryKey(t *testing.T) {
	inputs := [][]Answer{
		{{QuestionID: 101, Answer: "Agree"}},
		{{QuestionID: -1, Answer: "X"}},
		{{QuestionID: 305, Answer: "Strongly Disagree"}, {QuestionID: 8, Answer: "Neutral"}},
	}

	for _, answers := range inputs {
		rec := newTestEngine().Score(answers)
		require.Len(t, rec.Aggregates, len(AggregateKeys()))
		for _, k := range AggregateKeys() {
			v, ok := rec.Aggregates[k]
			assert.True(t, ok, "missing key %s", k)
			assert.GreaterOrEqual(t, v, 0)
		}
	}
}

func TestEngine_Score_UnknownIDIsIgnored(t *testing.T) {
	engine := newTestEngine()
	base := []Answer{
		{QuestionID: 101, Answer: "Agree"},
		{QuestionID: 203, Answer: "Strongly Agree"},
		{QuestionID: 7, Answer: "Neutral"},
	}
	withUnknown := append(append([]Answer(nil), base...), Answer{QuestionID: -1, Answer: "X"})

	assert.Equal(t, engine.Score(base), engine.Score(withUnknown))
}

func TestEngine_Score_Monotonic(t *testing.T) {
	engine := newTestEngine()
	base := []Answer{
		{QuestionID: 102, Answer: "Agree"},
		{QuestionID: 104, Answer: "Neutral"},
	}

	for _, question := range DefaultCatalog().Questions() {
		extra := Answer{QuestionID: question.ID, Answer: "Agree"}
		before := engine.Score(base).Aggregates
		after := engine.Score(append(append([]Answer(nil), base...), extra)).Aggregates

		touched := map[string]bool{string(question.Category): true}
		for _, b := range CoarseBuckets(question.Category) {
			touched[string(b)] = true
		}

		for k, v := range before {
			if touched[k] {
				assert.GreaterOrEqual(t, after[k], v, "question %d key %s", question.ID, k)
			} else {
				assert.Equal(t, v, after[k], "question %d changed untouched key %s", question.ID, k)
			}
		}
	}
}

func TestEngine_Score_DuplicatesCountEachTime(t *testing.T) {
	rec := newTestEngine().Score([]Answer{
		{QuestionID: 103, Answer: "Agree"},
		{QuestionID: 103, Answer: "Agree"},
	})

	assert.Equal(t, 8, rec.Aggregates["RIASEC_A"])
	assert.Equal(t, 8, rec.Aggregates["creative"])
}

func TestEngine_Score_OrderIndependent(t *testing.T) {
	engine := newTestEngine()
	a := []Answer{
		{QuestionID: 101, Answer: "Agree"},
		{QuestionID: 103, Answer: "Strongly Agree"},
		{QuestionID: 105, Answer: "Neutral"},
	}
	b := []Answer{a[2], a[0], a[1]}

	assert.Equal(t, engine.Score(a), engine.Score(b))
}

// ==========================
// Tie-break
// ==========================

// The winner is the first of technical, creative, business, social,
// analytical holding the maximum. Changing Buckets' order changes this.
func TestEngine_Score_TieBreak(t *testing.T) {
	tests := []struct {
		name           string
		answers        []Answer
		expectedDomain string
	}{
		{
			name: "all five equal picks technical",
			answers: []Answer{
				{QuestionID: 1, Answer: "Disagree"},   // analytical 4, technical 2
				{QuestionID: 101, Answer: "Disagree"}, // technical 4
				{QuestionID: 103, Answer: "Agree"},    // creative 4
				{QuestionID: 105, Answer: "Agree"},    // business 4
				{QuestionID: 104, Answer: "Agree"},    // social 4
			},
			expectedDomain: "Technology",
		},
		{
			name: "creative ties social and wins",
			answers: []Answer{
				{QuestionID: 103, Answer: "Agree"},
				{QuestionID: 104, Answer: "Agree"},
			},
			expectedDomain: "Creative Arts",
		},
		{
			name: "business ties social and wins",
			answers: []Answer{
				{QuestionID: 104, Answer: "Neutral"},
				{QuestionID: 105, Answer: "Neutral"},
			},
			expectedDomain: "Business & Management",
		},
		{
			name: "analytical only wins when strictly greater",
			answers: []Answer{
				{QuestionID: 1, Answer: "Strongly Agree"},
			},
			expectedDomain: "Research & Analysis",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newTestEngine().Score(tt.answers)
			assert.Equal(t, tt.expectedDomain, rec.Domain)
		})
	}
}

func TestTopBucket_AllEqualNonZero(t *testing.T) {
	scores := map[string]int{}
	for _, b := range Buckets {
		scores[string(b)] = 7
	}
	assert.Equal(t, BucketTechnical, topBucket(scores))
	assert.Equal(t, "Technology", DomainFor(topBucket(scores)))
}

func TestTemplateFor_UnknownBucketFallsBackToTechnical(t *testing.T) {
	rec := templateFor(Bucket("nonexistent"))
	assert.Equal(t, "Technology", rec.Domain)
}

func TestEngine_Score_ResultDoesNotAliasTemplates(t *testing.T) {
	engine := newTestEngine()
	first := engine.Score([]Answer{{QuestionID: 101, Answer: "Agree"}})
	first.Roles[0] = "mutated"
	first.Courses[0] = "mutated"

	second := engine.Score([]Answer{{QuestionID: 101, Answer: "Agree"}})
	assert.Equal(t, "Software Developer", second.Roles[0])
	assert.Equal(t, "Computer Science", second.Courses[0])
}

// ==========================
// Loose Client Input
// ==========================

func TestAnswer_UnmarshalJSON_Lenient(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Answer
	}{
		{"well formed", `{"questionId":102,"answer":"Agree"}`, Answer{QuestionID: 102, Answer: "Agree"}},
		{"integral float id", `{"questionId":102.0,"answer":"Agree"}`, Answer{QuestionID: 102, Answer: "Agree"}},
		{"string id", `{"questionId":"104","answer":"Agree"}`, Answer{Answer: "Agree"}},
		{"fractional id", `{"questionId":102.5,"answer":"Agree"}`, Answer{Answer: "Agree"}},
		{"missing answer", `{"questionId":104}`, Answer{QuestionID: 104}},
		{"null answer", `{"questionId":102,"answer":null}`, Answer{QuestionID: 102}},
		{"numeric answer", `{"questionId":102,"answer":5}`, Answer{QuestionID: 102}},
		{"not an object", `7`, Answer{}},
		{"null item", `null`, Answer{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Answer
			require.NoError(t, json.Unmarshal([]byte(tt.body), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_Score_SkipsMalformedItems(t *testing.T) {
	bodies := []string{
		`[{"questionId":102,"answer":"Strongly Agree"},{"questionId":104}]`,
		`[{"questionId":102,"answer":"Strongly Agree"},{"questionId":"104","answer":"Agree"}]`,
		`[{"questionId":102,"answer":"Strongly Agree"},{"questionId":104,"answer":null},"Agree"]`,
	}

	for _, body := range bodies {
		var answers []Answer
		require.NoError(t, json.Unmarshal([]byte(body), &answers), body)

		rec := newTestEngine().Score(answers)
		assert.Equal(t, "Technology", rec.Domain, body)
		assert.Equal(t, 5, rec.Aggregates["technical"], body)
		assert.Equal(t, 0, rec.Aggregates["social"], body)
	}
}

// ==========================
// Concurrency
// ==========================

func TestEngine_Score_Concurrent(t *testing.T) {
	engine := newTestEngine()
	answers := []Answer{
		{QuestionID: 102, Answer: "Strongly Agree"},
		{QuestionID: 206, Answer: "Agree"},
	}
	want := engine.Score(answers)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, engine.Score(answers))
		}()
	}
	wg.Wait()
}

func TestNewEngine_NilCatalogUsesDefault(t *testing.T) {
	engine := NewEngine(nil)
	assert.Same(t, DefaultCatalog(), engine.Catalog())
}
