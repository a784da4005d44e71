// Package submission scores answer sets and records the result for a user.
package submission

import (
	"context"
	"time"

	"career-counselling/internal/assessment"
	apperrors "career-counselling/internal/common/errors"
	"career-counselling/internal/common/logger"
	"career-counselling/internal/common/metrics"
	"career-counselling/internal/common/observability"
	"career-counselling/internal/models"
	"career-counselling/internal/search"
	"career-counselling/internal/store"
)

// Indexer receives every saved result. Indexing is best effort.
type Indexer interface {
	Index(ctx context.Context, doc search.ResultDocument) error
}

type Service struct {
	store  store.Store
	engine *assessment.Engine
	index  Indexer
	obs    *observability.Observability
	log    logger.Logger
	now    func() time.Time
}

// NewService wires the scoring pipeline. index and obs may be nil.
func NewService(st store.Store, engine *assessment.Engine, index Indexer, obs *observability.Observability, log logger.Logger) *Service {
	if engine == nil {
		engine = assessment.NewEngine(nil)
	}
	return &Service{
		store:  st,
		engine: engine,
		index:  index,
		obs:    obs,
		log:    log,
		now:    time.Now,
	}
}

func (s *Service) Engine() *assessment.Engine {
	return s.engine
}

// Score runs the engine and records scoring metrics. It never fails.
func (s *Service) Score(ctx context.Context, answers []assessment.Answer) assessment.Recommendation {
	start := time.Now()
	rec := s.engine.Score(answers)

	metrics.AssessmentsScored.WithLabelValues(rec.Domain).Inc()
	s.obs.RecordAssessment(ctx, rec.Domain, time.Since(start))
	return rec
}

// Submit scores answers for user and replaces their stored response.
func (s *Service) Submit(ctx context.Context, user *models.User, answers []assessment.Answer) (*models.TestResponse, error) {
	if answers == nil {
		answers = []assessment.Answer{}
	}
	resp := &models.TestResponse{
		UserID:           user.ID,
		Answers:          answers,
		SubmittedAt:      s.now().UTC(),
		CareerSuggestion: s.Score(ctx, answers),
	}

	if err := s.store.SaveResponse(ctx, resp); err != nil {
		return nil, apperrors.NewStorageFailedError("save response", err)
	}

	s.log.Info("assessment submitted", map[string]interface{}{
		"userId":  user.ID,
		"answers": len(answers),
		"domain":  resp.CareerSuggestion.Domain,
	})

	if s.index != nil {
		doc := search.ResultDocument{
			UserID:      user.ID,
			ClassStatus: user.ClassStatus,
			Domain:      resp.CareerSuggestion.Domain,
			Aggregates:  resp.CareerSuggestion.Aggregates,
			SubmittedAt: resp.SubmittedAt,
		}
		if err := s.index.Index(ctx, doc); err != nil {
			s.log.Warn("failed to index result", map[string]interface{}{
				"userId": user.ID,
				"error":  err.Error(),
			})
		}
	}
	return resp, nil
}
