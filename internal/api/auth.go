package api

import (
	"net/http"
	"time"

	apperrors "career-counselling/internal/common/errors"
	"career-counselling/internal/common/validation"
	"career-counselling/internal/models"

	"github.com/google/uuid"
)

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	ClassStatus string `json:"class_status"`
	Phone       string `json:"phone"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
	OTP     string `json:"otp,omitempty"`
}

type verifyOTPRequest struct {
	UserID models.FlexString `json:"userId"`
	OTP    models.FlexString `json:"otp"`
}

type updateProfileRequest struct {
	UserID  models.FlexString `json:"userId"`
	Profile models.Profile    `json:"profile"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(w, r, validation.Register, "All fields are required", &req); err != nil {
		h.writeAppError(w, r, err)
		return
	}

	user := &models.User{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Email:       req.Email,
		ClassStatus: req.ClassStatus,
		Phone:       req.Phone,
		CreatedAt:   time.Now().UTC(),
	}
	// The code is keyed by the new id, so it can be issued before the user
	// exists. A failed delivery then leaves no unverifiable account behind.
	code, err := h.otp.Issue(r.Context(), user)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		h.writeAppError(w, r, apperrors.NewStorageFailedError("create user", err))
		return
	}

	resp := registerResponse{
		Message: "User registered successfully. OTP sent to phone/email.",
		UserID:  user.ID,
	}
	if h.exposeOTP {
		resp.OTP = code
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeBody(w, r, validation.VerifyOTP, "userId and otp are required", &req); err != nil {
		h.writeAppError(w, r, err)
		return
	}

	ctx := r.Context()
	user, err := h.loadUser(ctx, req.UserID.String())
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	if user.Verified {
		h.writeAppError(w, r, apperrors.NewUserAlreadyVerifiedError(user.ID))
		return
	}

	if err := h.otp.Verify(ctx, user.ID, req.OTP.String()); err != nil {
		h.writeAppError(w, r, err)
		return
	}

	user.Verified = true
	if err := h.store.UpdateUser(ctx, user); err != nil {
		h.writeAppError(w, r, apperrors.NewStorageFailedError("update user", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "OTP verified successfully",
		"user":    user.Public(),
	})
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeBody(w, r, validation.UpdateProfile, "userId and profile are required", &req); err != nil {
		h.writeAppError(w, r, err)
		return
	}

	ctx := r.Context()
	user, err := h.loadUser(ctx, req.UserID.String())
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	user.Profile = user.Profile.Merge(&req.Profile)
	if err := h.store.UpdateUser(ctx, user); err != nil {
		h.writeAppError(w, r, apperrors.NewStorageFailedError("update profile", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated",
		"user":    map[string]string{"id": user.ID},
	})
}
