// internal/workers/communication/send-otp/handler_test.go
package sendotp

import (
	"context"
	"errors"
	"testing"
	"time"

	"career-counselling/internal/common/config"
	apperrors "career-counselling/internal/common/errors"
	"career-counselling/internal/common/logger"
	"career-counselling/internal/models"
	"career-counselling/internal/otp"
	"career-counselling/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

// recordingSender captures delivered codes per user.
type recordingSender struct {
	sent map[string]string
	err  error
}

func (s *recordingSender) Channel() string { return config.ChannelEmail }

func (s *recordingSender) Send(_ context.Context, user *models.User, code string) error {
	if s.err != nil {
		return s.err
	}
	s.sent[user.ID] = code
	return nil
}

type testEnv struct {
	handler *Handler
	store   *store.Memory
	otp     *otp.Service
	sender  *recordingSender
}

func newTestEnv(t *testing.T, cfg *Config) *testEnv {
	t.Helper()
	log := &testLogger{t: t}
	st := store.NewMemory()
	sender := &recordingSender{sent: make(map[string]string)}
	svc := otp.NewService(config.OTPConfig{Length: 6, TTL: 300}, otp.NewMemoryCodeStore(), sender, log)
	return &testEnv{
		handler: NewHandler(cfg, st, svc, nil, log),
		store:   st,
		otp:     svc,
		sender:  sender,
	}
}

func (e *testEnv) seedUser(t *testing.T, id string, verified bool) {
	t.Helper()
	require.NoError(t, e.store.CreateUser(context.Background(), &models.User{
		ID:          id,
		Name:        "Asha",
		Email:       "asha@example.com",
		ClassStatus: "Student",
		Phone:       "+919999999999",
		Verified:    verified,
	}))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_SendsVerifiableCode(t *testing.T) {
	env := newTestEnv(t, LoadConfig())
	env.seedUser(t, "u1", false)
	ctx := context.Background()

	output, err := env.handler.Execute(ctx, &Input{UserID: "u1"})
	require.NoError(t, err)
	assert.True(t, output.OTPSent)
	assert.Equal(t, config.ChannelEmail, output.Channel)
	assert.Empty(t, output.Reason)

	code, ok := env.sender.sent["u1"]
	require.True(t, ok)
	assert.Len(t, code, 6)
	assert.NoError(t, env.otp.Verify(ctx, "u1", code))
}

func TestHandler_Execute_VerifiedUser(t *testing.T) {
	t.Run("skipped", func(t *testing.T) {
		env := newTestEnv(t, &Config{Timeout: time.Second, SkipVerified: true})
		env.seedUser(t, "u1", true)

		output, err := env.handler.Execute(context.Background(), &Input{UserID: "u1"})
		require.NoError(t, err)
		assert.False(t, output.OTPSent)
		assert.Equal(t, reasonAlreadyVerified, output.Reason)
		assert.Empty(t, env.sender.sent)
	})

	t.Run("rejected", func(t *testing.T) {
		env := newTestEnv(t, &Config{Timeout: time.Second})
		env.seedUser(t, "u1", true)

		output, err := env.handler.Execute(context.Background(), &Input{UserID: "u1"})
		assert.Nil(t, output)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeUserAlreadyVerified))
	})
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_UnknownUser(t *testing.T) {
	env := newTestEnv(t, nil)

	output, err := env.handler.Execute(context.Background(), &Input{UserID: "missing"})
	assert.Nil(t, output)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeUserNotFound))
}

func TestHandler_Execute_DeliveryFailureIsRetryable(t *testing.T) {
	env := newTestEnv(t, nil)
	env.sender.err = errors.New("ses throttled")
	env.seedUser(t, "u1", false)

	_, err := env.handler.Execute(context.Background(), &Input{UserID: "u1"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeOTPDeliveryFailed))
	assert.True(t, apperrors.Normalize(err).Retryable)
}

func TestDecodeInput(t *testing.T) {
	input, err := decodeInput(`{"userId":"u1","otherVar":true}`)
	require.NoError(t, err)
	assert.Equal(t, "u1", input.UserID)

	for _, variables := range []string{`{}`, `{"userId":""}`, `{"userId":42}`, `not json`} {
		_, err := decodeInput(variables)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidationFailed), "variables %s", variables)
	}
}
