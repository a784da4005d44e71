package api

import (
	"errors"
	"net/http"

	"career-counselling/internal/assessment"
	apperrors "career-counselling/internal/common/errors"
	"career-counselling/internal/common/validation"
	"career-counselling/internal/models"
	"career-counselling/internal/store"
)

type submitRequest struct {
	UserID  models.FlexString   `json:"userId"`
	Answers []assessment.Answer `json:"answers"`
}

func (h *Handler) handleQuestions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"questions": h.submissions.Engine().Catalog().Questions(),
	})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeBody(w, r, validation.SubmitTest, "userId and answers are required", &req); err != nil {
		h.writeAppError(w, r, err)
		return
	}

	ctx := r.Context()
	userID := req.UserID.String()
	user, err := h.store.GetUser(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.writeAppError(w, r, apperrors.NewStorageFailedError("get user", err))
		return
	}
	if user == nil || !user.Verified {
		h.writeAppError(w, r, apperrors.NewUserNotVerifiedError(userID))
		return
	}

	resp, err := h.submissions.Submit(ctx, user, req.Answers)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":          "Test submitted successfully",
		"careerSuggestion": resp.CareerSuggestion,
	})
}

func (h *Handler) handleResults(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("userId")

	user, err := h.loadUser(ctx, userID)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	resp, err := h.store.GetResponse(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		h.writeAppError(w, r, apperrors.NewResultsNotFoundError(userID))
		return
	}
	if err != nil {
		h.writeAppError(w, r, apperrors.NewStorageFailedError("get response", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": map[string]string{
			"id":           user.ID,
			"name":         user.Name,
			"email":        user.Email,
			"class_status": user.ClassStatus,
		},
		"results": resp,
	})
}
