// Package api implements the career counselling REST API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"career-counselling/internal/archive"
	apperrors "career-counselling/internal/common/errors"
	"career-counselling/internal/common/logger"
	"career-counselling/internal/common/validation"
	"career-counselling/internal/models"
	"career-counselling/internal/otp"
	"career-counselling/internal/search"
	"career-counselling/internal/store"
	"career-counselling/internal/submission"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 1 << 20

// DomainCounter reports how often each domain has been recommended.
type DomainCounter interface {
	DomainCounts(ctx context.Context) ([]search.DomainCount, error)
}

// Dependencies are the collaborators of Handler. Search and Archive are
// optional.
type Dependencies struct {
	Store       store.Store
	Submissions *submission.Service
	OTP         *otp.Service
	Search      DomainCounter
	Archive     archive.Archive
	Logger      logger.Logger
	// ExposeOTP echoes issued codes in the register response.
	ExposeOTP bool
}

// Handler serves every API route.
type Handler struct {
	store       store.Store
	submissions *submission.Service
	otp         *otp.Service
	search      DomainCounter
	archive     archive.Archive
	log         logger.Logger
	exposeOTP   bool
}

func NewHandler(deps Dependencies) *Handler {
	arc := deps.Archive
	if arc == nil {
		arc = archive.NopArchive{}
	}
	return &Handler{
		store:       deps.Store,
		submissions: deps.Submissions,
		otp:         deps.OTP,
		search:      deps.Search,
		archive:     arc,
		log:         deps.Logger,
		exposeOTP:   deps.ExposeOTP,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/verify-otp", h.handleVerifyOTP)
	mux.HandleFunc("POST /api/auth/update-profile", h.handleUpdateProfile)

	mux.HandleFunc("GET /api/test/questions", h.handleQuestions)
	mux.HandleFunc("POST /api/test/submit", h.handleSubmit)
	mux.HandleFunc("GET /api/test/results/{userId}", h.handleResults)

	mux.HandleFunc("GET /api/report/career-guidance/{userId}", h.handleCareerGuidance)
	mux.HandleFunc("GET /api/report/scholarships/{userId}", h.handleScholarships)
	mux.HandleFunc("GET /api/report/domains", h.handleDomainCounts)

	mux.HandleFunc("GET /api/portfolio/generate/{userId}", h.handlePortfolioPDF)
	mux.HandleFunc("GET /api/portfolio/data/{userId}", h.handlePortfolioData)
	mux.HandleFunc("GET /api/export/excel/{userId}", h.handleExcelExport)

	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("GET /api/health/db", h.handleHealthDB)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("/", h.handleNotFound)
}

// Routes returns the full middleware-wrapped handler.
func (h *Handler) Routes(corsOrigins []string) http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return Recover(h.log)(Metrics(AccessLog(h.log)(CORS(corsOrigins)(mux))))
}

func (h *Handler) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "Route not found")
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeAppError maps err onto its HTTP status. Validation details are
// returned under "errors".
func (h *Handler) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := apperrors.Normalize(err)
	status := apperrors.HTTPStatus(stdErr.Code)

	body := map[string]interface{}{"message": stdErr.Message}
	if details, ok := stdErr.Metadata["errors"]; ok {
		body["errors"] = details
	}

	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", map[string]interface{}{
			"method":  r.Method,
			"path":    r.URL.Path,
			"code":    string(stdErr.Code),
			"details": stdErr.Details,
		})
	}
	writeJSON(w, status, body)
}

// decodeBody validates the request body against v and decodes it into dst.
// message is returned to the client when validation fails.
func decodeBody(w http.ResponseWriter, r *http.Request, v *validation.Validator, message string, dst interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return apperrors.NewValidationError("Invalid request body", err.Error())
	}

	result := v.ValidateJSON(body)
	if !result.Valid {
		return apperrors.NewValidationError(message, result.GetErrorMessages()...)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.NewValidationError(message, err.Error())
	}
	return nil
}

func (h *Handler) loadUser(ctx context.Context, id string) (*models.User, error) {
	u, err := h.store.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewUserNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewStorageFailedError("get user", err)
	}
	return u, nil
}

// loadResponse returns the user's latest response, or nil when there is
// none or it cannot be read.
func (h *Handler) loadResponse(ctx context.Context, userID string) *models.TestResponse {
	resp, err := h.store.GetResponse(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.log.Warn("failed to load test response", map[string]interface{}{
				"userId": userID,
				"error":  err.Error(),
			})
		}
		return nil
	}
	return resp
}
