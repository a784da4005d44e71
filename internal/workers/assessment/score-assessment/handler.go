// internal/workers/assessment/score-assessment/handler.go
package scoreassessment

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
	"career-counselling/internal/store"
	"career-counselling/internal/submission"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "score-assessment"
)

type Handler struct {
	config       *Config
	users        store.Store
	submissions  *submission.Service
	obs          *observability.Observability
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, users store.Store, submissions *submission.Service, obs *observability.Observability, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		users:        users,
		submissions:  submissions,
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

// decodeInput validates the raw job variables before binding them.
func decodeInput(variables string) (*Input, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(variables), &raw); err != nil {
		return nil, apperrors.NewValidationError("Invalid job variables", err.Error())
	}
	if result := validation.ScoreAssessment.ValidateInput(raw); !result.Valid {
		return nil, apperrors.NewValidationError("Invalid job variables", result.GetErrorMessages()...)
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewValidationError("Invalid job variables", err.Error())
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.UserID == "" {
		rec := h.submissions.Score(ctx, input.Answers)
		h.logger.Info("assessment scored", map[string]interface{}{
			"answers": len(input.Answers),
			"domain":  rec.Domain,
		})
		return &Output{CareerSuggestion: rec}, nil
	}

	user, err := h.users.GetUser(ctx, input.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewUserNotFoundError(input.UserID)
	}
	if err != nil {
		return nil, apperrors.NewStorageFailedError("get user", err)
	}
	if !user.Verified {
		return nil, apperrors.NewUserNotVerifiedError(input.UserID)
	}

	resp, err := h.submissions.Submit(ctx, user, input.Answers)
	if err != nil {
		return nil, err
	}
	return &Output{
		CareerSuggestion: resp.CareerSuggestion,
		Persisted:        true,
		SubmittedAt:      resp.SubmittedAt.Format(time.RFC3339),
	}, nil
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
