package api

import (
	"net/http"

	"career-counselling/internal/assessment"
	apperrors "career-counselling/internal/common/errors"
	"career-counselling/internal/report"
)

func (h *Handler) handleCareerGuidance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("userId")

	user, err := h.loadUser(ctx, userID)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	resp := h.loadResponse(ctx, userID)
	var suggestion *assessment.Recommendation
	if resp != nil {
		suggestion = &resp.CareerSuggestion
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Career guidance report generated successfully",
		"report":   report.GenerateCareerReport(user, resp),
		"colleges": report.CollegeRecommendations(user, suggestion),
	})
}

func (h *Handler) handleScholarships(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("userId")

	user, err := h.loadUser(ctx, userID)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	var suggestion *assessment.Recommendation
	if resp := h.loadResponse(ctx, userID); resp != nil {
		suggestion = &resp.CareerSuggestion
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Scholarship options fetched successfully",
		"scholarships": report.ScholarshipOptions(user, suggestion),
	})
}

func (h *Handler) handleDomainCounts(w http.ResponseWriter, r *http.Request) {
	if h.search == nil {
		h.writeAppError(w, r, apperrors.NewServiceUnavailableError("Search index"))
		return
	}

	counts, err := h.search.DomainCounts(r.Context())
	if err != nil {
		h.writeAppError(w, r, apperrors.NewSearchFailedError("domain counts", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Domain counts fetched successfully",
		"domains": counts,
	})
}
