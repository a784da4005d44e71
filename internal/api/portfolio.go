package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"career-counselling/internal/archive"
	"career-counselling/internal/assessment"
	apperrors "career-counselling/internal/common/errors"
	"career-counselling/internal/models"
	"career-counselling/internal/render"
)

type portfolioPersonalInfo struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	ClassStatus string `json:"class_status"`
}

type portfolioData struct {
	PersonalInfo     portfolioPersonalInfo      `json:"personalInfo"`
	CareerSuggestion *assessment.Recommendation `json:"careerSuggestion"`
	TestResults      []assessment.Answer        `json:"testResults"`
	GeneratedAt      time.Time                  `json:"generatedAt"`
}

func (h *Handler) handlePortfolioData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("userId")

	user, err := h.loadUser(ctx, userID)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	data := portfolioData{
		PersonalInfo: portfolioPersonalInfo{
			Name:        user.Name,
			Email:       user.Email,
			Phone:       user.Phone,
			ClassStatus: user.ClassStatus,
		},
		TestResults: []assessment.Answer{},
		GeneratedAt: time.Now().UTC(),
	}
	if resp := h.loadResponse(ctx, userID); resp != nil {
		data.CareerSuggestion = &resp.CareerSuggestion
		data.TestResults = resp.Answers
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Portfolio data fetched successfully",
		"portfolio": data,
	})
}

func (h *Handler) handlePortfolioPDF(w http.ResponseWriter, r *http.Request) {
	h.serveArtifact(w, r, "PDF", render.PDFFilename, render.PDFContentType,
		func(user *models.User, resp *models.TestResponse) ([]byte, error) {
			return render.PortfolioPDF(user, resp)
		})
}

func (h *Handler) handleExcelExport(w http.ResponseWriter, r *http.Request) {
	catalog := h.submissions.Engine().Catalog()
	h.serveArtifact(w, r, "Excel", render.XLSXFilename, render.XLSXContentType,
		func(user *models.User, resp *models.TestResponse) ([]byte, error) {
			return render.AssessmentWorkbook(user, resp, catalog)
		})
}

type renderFunc func(user *models.User, resp *models.TestResponse) ([]byte, error)

// serveArtifact renders a download for the path user, archives a copy and
// writes it as an attachment.
func (h *Handler) serveArtifact(w http.ResponseWriter, r *http.Request, format, filename, contentType string, fn renderFunc) {
	ctx := r.Context()
	userID := r.PathValue("userId")

	user, err := h.loadUser(ctx, userID)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	body, err := fn(user, h.loadResponse(ctx, userID))
	if err != nil {
		h.writeAppError(w, r, apperrors.NewRenderFailedError(format, err))
		return
	}

	h.archiveArtifact(ctx, archive.Key(user.ID, filename), contentType, body)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) archiveArtifact(ctx context.Context, key, contentType string, body []byte) {
	if err := h.archive.Put(ctx, key, contentType, body); err != nil {
		h.log.Warn("failed to archive artifact", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
