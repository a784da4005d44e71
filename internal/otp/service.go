package otp

import (
	"context"
	"errors"
	"time"

	"career-counselling/internal/common/config"
	apperrors "career-counselling/internal/common/errors"
	"career-counselling/internal/common/logger"
	"career-counselling/internal/models"
)

// Service issues codes, stores them and checks them on verification.
type Service struct {
	codes  CodeStore
	sender Sender
	length int
	ttl    time.Duration
	log    logger.Logger
}

func NewService(cfg config.OTPConfig, codes CodeStore, sender Sender, log logger.Logger) *Service {
	return &Service{
		codes:  codes,
		sender: sender,
		length: cfg.Length,
		ttl:    time.Duration(cfg.TTL) * time.Second,
		log:    log,
	}
}

// Issue generates a code for user, stores it and delivers it. The code is
// returned so callers that expose it in development can do so.
func (s *Service) Issue(ctx context.Context, user *models.User) (string, error) {
	code, err := Generate(s.length)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	if err := s.codes.Put(ctx, user.ID, code, s.ttl); err != nil {
		return "", apperrors.NewStorageFailedError("store otp", err)
	}
	if err := s.sender.Send(ctx, user, code); err != nil {
		return "", apperrors.NewOTPDeliveryFailedError(s.sender.Channel(), err)
	}

	s.log.Debug("otp issued", map[string]interface{}{
		"userId":  user.ID,
		"channel": s.sender.Channel(),
	})
	return code, nil
}

// Channel names the delivery channel codes are sent on.
func (s *Service) Channel() string {
	return s.sender.Channel()
}

// Verify checks code against the pending one for userID and consumes it on
// success.
func (s *Service) Verify(ctx context.Context, userID, code string) error {
	expected, err := s.codes.Get(ctx, userID)
	switch {
	case errors.Is(err, ErrCodeExpired):
		return apperrors.NewOTPExpiredError()
	case errors.Is(err, ErrCodeNotFound):
		return apperrors.NewOTPInvalidError()
	case err != nil:
		return apperrors.NewStorageFailedError("load otp", err)
	}

	if !Validate(expected, code) {
		return apperrors.NewOTPInvalidError()
	}

	if err := s.codes.Delete(ctx, userID); err != nil {
		s.log.Warn("failed to delete used otp", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
	}
	return nil
}
