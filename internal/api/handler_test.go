package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"career-counselling/internal/assessment"
	"career-counselling/internal/common/config"
	"career-counselling/internal/common/logger"
	"career-counselling/internal/models"
	"career-counselling/internal/otp"
	"career-counselling/internal/search"
	"career-counselling/internal/store"
	"career-counselling/internal/submission"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeArchive struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (f *fakeArchive) Put(_ context.Context, key, _ string, _ []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	return f.err
}

type fakeCounter struct {
	counts []search.DomainCount
	err    error
}

func (f *fakeCounter) DomainCounts(context.Context) ([]search.DomainCount, error) {
	return f.counts, f.err
}

type testEnv struct {
	handler http.Handler
	store   store.Store
	archive *fakeArchive
}

func newTestEnv(t *testing.T, opts ...func(*Dependencies)) *testEnv {
	t.Helper()
	log := logger.NewTestLogger(t)
	st := store.NewMemory()
	arc := &fakeArchive{}

	deps := Dependencies{
		Store:       st,
		Submissions: submission.NewService(st, assessment.NewEngine(nil), nil, nil, log),
		OTP: otp.NewService(config.OTPConfig{Length: 6, TTL: 600},
			otp.NewMemoryCodeStore(), otp.NewLogSender(log), log),
		Archive:   arc,
		Logger:    log,
		ExposeOTP: true,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	h := NewHandler(deps)
	return &testEnv{handler: h.Routes([]string{"*"}), store: deps.Store, archive: arc}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (e *testEnv) register(t *testing.T) (string, string) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name":         "Asha",
		"email":        "asha@example.com",
		"class_status": "Student",
		"phone":        "9999999999",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	return body["userId"].(string), body["otp"].(string)
}

func (e *testEnv) verifiedUser(t *testing.T) string {
	t.Helper()
	id, code := e.register(t)
	rec := e.do(t, http.MethodPost, "/api/auth/verify-otp", map[string]string{"userId": id, "otp": code})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return id
}

func (e *testEnv) submit(t *testing.T, id string, answers []assessment.Answer) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodPost, "/api/test/submit", map[string]interface{}{"userId": id, "answers": answers})
}

var techAnswers = []assessment.Answer{
	{QuestionID: 102, Answer: "Strongly Agree"},
	{QuestionID: 101, Answer: "Agree"},
}

// ==========================
// Auth
// ==========================

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	id, code := env.register(t)

	assert.NotEmpty(t, id)
	assert.Len(t, code, 6)

	u, err := env.store.GetUser(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Asha", u.Name)
	assert.False(t, u.Verified)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestRegister_HidesOTPByDefault(t *testing.T) {
	env := newTestEnv(t, func(d *Dependencies) { d.ExposeOTP = false })

	rec := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Asha", "email": "a@b.c", "class_status": "Student", "phone": "1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "User registered successfully. OTP sent to phone/email.", body["message"])
	assert.NotContains(t, body, "otp")
}

type failingSender struct{}

func (failingSender) Channel() string { return "email" }

func (failingSender) Send(context.Context, *models.User, string) error {
	return errors.New("smtp down")
}

type countingStore struct {
	store.Store
	creates int
}

func (c *countingStore) CreateUser(ctx context.Context, user *models.User) error {
	c.creates++
	return c.Store.CreateUser(ctx, user)
}

func TestRegister_DeliveryFailureCreatesNoUser(t *testing.T) {
	st := &countingStore{Store: store.NewMemory()}
	env := newTestEnv(t, func(d *Dependencies) {
		d.Store = st
		d.OTP = otp.NewService(config.OTPConfig{Length: 6, TTL: 600},
			otp.NewMemoryCodeStore(), failingSender{}, d.Logger)
	})

	rec := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Asha", "email": "a@b.c", "class_status": "Student", "phone": "1",
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Failed to deliver OTP", decode(t, rec)["message"])
	assert.Zero(t, st.creates)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing fields", map[string]string{"name": "Asha"}},
		{"empty value", map[string]string{"name": "", "email": "a@b.c", "class_status": "Student", "phone": "1"}},
		{"malformed json", `{"name":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/auth/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, "All fields are required", body["message"])
			assert.NotEmpty(t, body["errors"])
		})
	}
}

func TestVerifyOTP(t *testing.T) {
	env := newTestEnv(t)
	id, code := env.register(t)

	rec := env.do(t, http.MethodPost, "/api/auth/verify-otp", map[string]string{"userId": id, "otp": "000000"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid OTP", decode(t, rec)["message"])

	rec = env.do(t, http.MethodPost, "/api/auth/verify-otp", map[string]string{"userId": id, "otp": code})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "OTP verified successfully", body["message"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, id, user["id"])
	assert.Equal(t, true, user["verified"])
	assert.Equal(t, "Student", user["class_status"])

	rec = env.do(t, http.MethodPost, "/api/auth/verify-otp", map[string]string{"userId": id, "otp": code})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already verified", decode(t, rec)["message"])
}

func TestVerifyOTP_UnknownUser(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/auth/verify-otp", map[string]string{"userId": "nope", "otp": "123456"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decode(t, rec)["message"])
}

func TestVerifyOTP_NumericValues(t *testing.T) {
	ctx := context.Background()
	codes := otp.NewMemoryCodeStore()
	log := logger.NewTestLogger(t)
	env := newTestEnv(t, func(d *Dependencies) {
		d.OTP = otp.NewService(config.OTPConfig{Length: 6, TTL: 600}, codes, otp.NewLogSender(log), log)
	})

	require.NoError(t, env.store.CreateUser(ctx, &models.User{ID: "1700000000000", Name: "Ravi"}))
	require.NoError(t, codes.Put(ctx, "1700000000000", "482913", 0))

	rec := env.do(t, http.MethodPost, "/api/auth/verify-otp", `{"userId":1700000000000,"otp":482913}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	id, _ := env.register(t)

	papers := make([]map[string]interface{}, 60)
	for i := range papers {
		papers[i] = map[string]interface{}{"title": "Paper", "year": 2020 + i%5}
	}

	rec := env.do(t, http.MethodPost, "/api/auth/update-profile", map[string]interface{}{
		"userId":  id,
		"profile": map[string]interface{}{"stream": "Science", "researchPapers": papers},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Profile updated", body["message"])
	assert.Equal(t, id, body["user"].(map[string]interface{})["id"])

	rec = env.do(t, http.MethodPost, "/api/auth/update-profile", map[string]interface{}{
		"userId":  id,
		"profile": map[string]interface{}{"careerGoal": "Researcher", "academicPercentile": 92.5},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	u, err := env.store.GetUser(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, u.Profile)
	assert.Equal(t, models.FlexString("Science"), u.Profile.Stream)
	assert.Equal(t, models.FlexString("Researcher"), u.Profile.CareerGoal)
	assert.Equal(t, models.FlexString("92.5"), u.Profile.AcademicPercentile)
	assert.Len(t, u.Profile.ResearchPapers, models.MaxResearchPapers)
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/auth/update-profile", map[string]interface{}{
		"userId": "nope", "profile": map[string]interface{}{},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ==========================
// Test routes
// ==========================

func TestQuestions(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/test/questions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Questions []assessment.Question `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Questions, 27)
	assert.Equal(t, 101, body.Questions[0].ID)
	assert.Len(t, body.Questions[0].Options, 5)
	assert.Equal(t, assessment.Category("RIASEC_R"), body.Questions[0].Category)
}

func TestSubmit(t *testing.T) {
	env := newTestEnv(t)
	id := env.verifiedUser(t)

	rec := env.submit(t, id, techAnswers)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Message          string                    `json:"message"`
		CareerSuggestion assessment.Recommendation `json:"careerSuggestion"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Test submitted successfully", body.Message)
	assert.Equal(t, "Technology", body.CareerSuggestion.Domain)
	assert.Len(t, body.CareerSuggestion.Aggregates, 24)
	assert.Equal(t, 9, body.CareerSuggestion.Aggregates["technical"])
}

func TestSubmit_EmptyAnswers(t *testing.T) {
	env := newTestEnv(t)
	id := env.verifiedUser(t)

	rec := env.submit(t, id, []assessment.Answer{})
	require.Equal(t, http.StatusOK, rec.Code)
	suggestion := decode(t, rec)["careerSuggestion"].(map[string]interface{})
	assert.Equal(t, "General", suggestion["domain"])
	assert.Empty(t, suggestion["aggregates"])
}

func TestSubmit_Unauthorized(t *testing.T) {
	env := newTestEnv(t)
	unverified, _ := env.register(t)

	for _, id := range []string{unverified, "nope"} {
		rec := env.submit(t, id, techAnswers)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "User not found or not verified", decode(t, rec)["message"])
	}
}

func TestSubmit_MalformedItemsScoreSoftly(t *testing.T) {
	env := newTestEnv(t)
	id := env.verifiedUser(t)

	bodies := []string{
		`[{"questionId":102,"answer":"Strongly Agree"},{"questionId":104}]`,
		`[{"questionId":102,"answer":"Strongly Agree"},{"questionId":"104","answer":"Agree"}]`,
		`[{"questionId":102,"answer":null},{"questionId":101,"answer":"Strongly Agree"}]`,
	}
	for _, answers := range bodies {
		rec := env.do(t, http.MethodPost, "/api/test/submit", `{"userId":"`+id+`","answers":`+answers+`}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		suggestion := decode(t, rec)["careerSuggestion"].(map[string]interface{})
		assert.Equal(t, "Technology", suggestion["domain"], answers)
		aggregates := suggestion["aggregates"].(map[string]interface{})
		assert.Equal(t, float64(5), aggregates["technical"], answers)
	}
}

func TestSubmit_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{
		`{"userId":"1"}`,
		`{"answers":[]}`,
		`{"userId":"1","answers":"Agree"}`,
	} {
		rec := env.do(t, http.MethodPost, "/api/test/submit", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestResults_EmptySubmissionKeepsEmptyLists(t *testing.T) {
	env := newTestEnv(t)
	id := env.verifiedUser(t)
	require.Equal(t, http.StatusOK, env.submit(t, id, []assessment.Answer{}).Code)

	rec := env.do(t, http.MethodGet, "/api/test/results/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results := decode(t, rec)["results"].(map[string]interface{})
	assert.Equal(t, []interface{}{}, results["answers"])

	suggestion := results["careerSuggestion"].(map[string]interface{})
	assert.Equal(t, "General", suggestion["domain"])
	assert.Equal(t, []interface{}{}, suggestion["roles"])
	assert.Equal(t, []interface{}{}, suggestion["courses"])
	assert.Equal(t, map[string]interface{}{}, suggestion["aggregates"])

	rec = env.do(t, http.MethodGet, "/api/report/career-guidance/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode(t, rec)["report"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{}, report["aggregates"])
}

func TestResults(t *testing.T) {
	env := newTestEnv(t)
	id := env.verifiedUser(t)

	rec := env.do(t, http.MethodGet, "/api/test/results/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Test results not found", decode(t, rec)["message"])

	require.Equal(t, http.StatusOK, env.submit(t, id, techAnswers).Code)

	rec = env.do(t, http.MethodGet, "/api/test/results/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Asha", body["user"].(map[string]interface{})["name"])
	results := body["results"].(map[string]interface{})
	assert.Len(t, results["answers"], 2)
	assert.Equal(t, "Technology", results["careerSuggestion"].(map[string]interface{})["domain"])

	rec = env.do(t, http.MethodGet, "/api/test/results/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decode(t, rec)["message"])
}

// ==========================
// Reports
// ==========================

func TestCareerGuidance(t *testing.T) {
	env := newTestEnv(t)
	id := env.verifiedUser(t)

	rec := env.do(t, http.MethodGet, "/api/report/career-guidance/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	guidance := body["report"].(map[string]interface{})["careerGuidance"].(map[string]interface{})
	assert.Equal(t, "N/A", guidance["recommendedDomain"])
	colleges := body["colleges"].([]interface{})
	require.Len(t, colleges, 3)
	assert.Equal(t, "B.Tech / M.Tech - Technology", colleges[0].(map[string]interface{})["course"])

	env.submit(t, id, []assessment.Answer{{QuestionID: 103, Answer: "Strongly Agree"}})

	body = decode(t, env.do(t, http.MethodGet, "/api/report/career-guidance/"+id, nil))
	assert.Equal(t, "Career guidance report generated successfully", body["message"])
	guidance = body["report"].(map[string]interface{})["careerGuidance"].(map[string]interface{})
	assert.Equal(t, "Creative Arts", guidance["recommendedDomain"])
	colleges = body["colleges"].([]interface{})
	assert.Equal(t, "MBA - Creative Arts", colleges[2].(map[string]interface{})["course"])

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/report/career-guidance/nope", nil).Code)
}

func TestScholarships(t *testing.T) {
	env := newTestEnv(t)
	id := env.verifiedUser(t)

	body := decode(t, env.do(t, http.MethodGet, "/api/report/scholarships/"+id, nil))
	assert.Equal(t, "Scholarship options fetched successfully", body["message"])
	assert.Len(t, body["scholarships"], 3)

	env.submit(t, id, []assessment.Answer{{QuestionID: 103, Answer: "Strongly Agree"}})
	body = decode(t, env.do(t, http.MethodGet, "/api/report/scholarships/"+id, nil))
	assert.Len(t, body["scholarships"], 2)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/report/scholarships/nope", nil).Code)
}

func TestDomainCounts(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/report/domains", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	counter := &fakeCounter{counts: []search.DomainCount{{Domain: "Technology", Count: 4}}}
	env = newTestEnv(t, func(d *Dependencies) { d.Search = counter })
	rec = env.do(t, http.MethodGet, "/api/report/domains", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	domains := decode(t, rec)["domains"].([]interface{})
	assert.Equal(t, "Technology", domains[0].(map[string]interface{})["domain"])

	counter.err = errors.New("cluster unavailable")
	rec = env.do(t, http.MethodGet, "/api/report/domains", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// ==========================
// Portfolio and export
// ==========================

func TestPortfolioData(t *testing.T) {
	env := newTestEnv(t)
	id := env.verifiedUser(t)

	body := decode(t, env.do(t, http.MethodGet, "/api/portfolio/data/"+id, nil))
	portfolio := body["portfolio"].(map[string]interface{})
	assert.Nil(t, portfolio["careerSuggestion"])
	assert.Empty(t, portfolio["testResults"])

	env.submit(t, id, techAnswers)
	body = decode(t, env.do(t, http.MethodGet, "/api/portfolio/data/"+id, nil))
	assert.Equal(t, "Portfolio data fetched successfully", body["message"])
	portfolio = body["portfolio"].(map[string]interface{})
	assert.Equal(t, "9999999999", portfolio["personalInfo"].(map[string]interface{})["phone"])
	assert.Equal(t, "Technology", portfolio["careerSuggestion"].(map[string]interface{})["domain"])
	assert.Len(t, portfolio["testResults"], 2)
	assert.NotEmpty(t, portfolio["generatedAt"])
}

func TestPortfolioPDF(t *testing.T) {
	env := newTestEnv(t)
	id := env.verifiedUser(t)
	env.submit(t, id, techAnswers)

	rec := env.do(t, http.MethodGet, "/api/portfolio/generate/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Career_Research_Assessment.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
	assert.Equal(t, []string{"portfolios/" + id + "/Career_Research_Assessment.pdf"}, env.archive.keys)

	rec = env.do(t, http.MethodGet, "/api/portfolio/generate/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPortfolioPDF_ArchiveFailureStillServes(t *testing.T) {
	env := newTestEnv(t)
	env.archive.err = errors.New("bucket missing")
	id := env.verifiedUser(t)

	rec := env.do(t, http.MethodGet, "/api/portfolio/generate/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExcelExport(t *testing.T) {
	env := newTestEnv(t)
	id := env.verifiedUser(t)
	env.submit(t, id, techAnswers)

	rec := env.do(t, http.MethodGet, "/api/export/excel/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Career_Research_Assessment.xlsx")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

// ==========================
// Health, routing and middleware
// ==========================

type pingStore struct {
	*store.Memory
	err error
}

func (p pingStore) Ping(context.Context) error { return p.err }
func (pingStore) Mode() string                 { return store.ModeDB }

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	body := decode(t, env.do(t, http.MethodGet, "/api/health", nil))
	assert.Equal(t, "Career Counselling API is running!", body["message"])

	rec := env.do(t, http.MethodGet, "/api/health/db", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["connected"])
}

func TestHealthDB_Database(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		connected bool
	}{
		{"reachable", nil, true},
		{"unreachable", errors.New("dial tcp: refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, func(d *Dependencies) { d.Store = pingStore{Memory: store.NewMemory(), err: tt.err} })
			rec := env.do(t, http.MethodGet, "/api/health/db", nil)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.connected, decode(t, rec)["connected"])
		})
	}
}

func TestNotFound(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/unknown"},
		{http.MethodGet, "/api/auth/register"},
		{http.MethodDelete, "/api/test/questions"},
	} {
		rec := env.do(t, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.path)
		assert.Equal(t, "Route not found", decode(t, rec)["message"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/api/health", nil)

	rec := env.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("preflight", func(t *testing.T) {
		rec := httptest.NewRecorder()
		CORS([]string{"*"})(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/test/submit", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	})

	t.Run("allow list", func(t *testing.T) {
		handler := CORS([]string{"https://app.example.com"})(ok)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

		req.Header.Set("Origin", "https://evil.example.com")
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRecover(t *testing.T) {
	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	rec := httptest.NewRecorder()

	Recover(logger.NewTestLogger(t))(boom).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Something went wrong!", decode(t, rec)["message"])
}
