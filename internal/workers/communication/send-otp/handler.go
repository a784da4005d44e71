// internal/workers/communication/send-otp/handler.go
package sendotp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	apperrors "career-counselling/internal/common/errors"
	"career-counselling/internal/common/logger"
	"career-counselling/internal/common/metrics"
	"career-counselling/internal/common/observability"
	"career-counselling/internal/common/validation"
	"career-counselling/internal/models"
	"career-counselling/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "send-otp"
)

// Issuer issues a verification code to a user.
type Issuer interface {
	Issue(ctx context.Context, user *models.User) (string, error)
	Channel() string
}

type Handler struct {
	config       *Config
	users        store.Store
	issuer       Issuer
	obs          *observability.Observability
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, users store.Store, issuer Issuer, obs *observability.Observability, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		users:        users,
		issuer:       issuer,
		obs:          obs,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := decodeInput(job.Variables)
	if err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	h.completeJob(ctx, client, job, output, start)
}

func decodeInput(variables string) (*Input, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(variables), &raw); err != nil {
		return nil, apperrors.NewValidationError("Invalid job variables", err.Error())
	}
	if result := validation.SendOTP.ValidateInput(raw); !result.Valid {
		return nil, apperrors.NewValidationError("Invalid job variables", result.GetErrorMessages()...)
	}
	return &Input{UserID: raw["userId"].(string)}, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	user, err := h.users.GetUser(ctx, input.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewUserNotFoundError(input.UserID)
	}
	if err != nil {
		return nil, apperrors.NewStorageFailedError("get user", err)
	}

	if user.Verified {
		if h.config.SkipVerified {
			h.logger.Info("user already verified, skipping otp", map[string]interface{}{
				"userId": user.ID,
			})
			return &Output{OTPSent: false, Reason: reasonAlreadyVerified}, nil
		}
		return nil, apperrors.NewUserAlreadyVerifiedError(user.ID)
	}

	if _, err := h.issuer.Issue(ctx, user); err != nil {
		return nil, err
	}

	h.logger.Info("otp sent", map[string]interface{}{
		"userId":  user.ID,
		"channel": h.issuer.Channel(),
	})
	return &Output{OTPSent: true, Channel: h.issuer.Channel()}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output, start time.Time) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}

	elapsed := time.Since(start)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(elapsed.Seconds())
	h.obs.RecordJob(ctx, TaskType, "completed", elapsed)
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := apperrors.Normalize(err)
	elapsed := time.Since(start)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(elapsed.Seconds())
	h.obs.RecordJob(ctx, TaskType, "failed", elapsed)

	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
