// internal/common/camunda/worker.go
package camunda

import (
	"sync"
	"time"

	"career-counselling/internal/common/config"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// Workers opens job workers on one client and closes them together.
type Workers struct {
	client zbc.Client
	logger *zap.Logger

	mu      sync.Mutex
	running map[string]worker.JobWorker
}

func NewWorkers(client zbc.Client, logger *zap.Logger) *Workers {
	return &Workers{
		client:  client,
		logger:  logger,
		running: make(map[string]worker.JobWorker),
	}
}

// Start opens a job worker for taskType unless it is disabled or already
// running.
func (w *Workers) Start(taskType string, wcfg config.WorkerConfig, handler worker.JobHandler) {
	if !wcfg.Enabled {
		w.logger.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.running[taskType]; ok {
		w.logger.Warn("worker already started", zap.String("taskType", taskType))
		return
	}

	w.running[taskType] = w.client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	w.logger.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}

// Running lists the task types with an open worker.
func (w *Workers) Running() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.running))
	for taskType := range w.running {
		out = append(out, taskType)
	}
	return out
}

// Close stops polling and waits for in-flight jobs to finish.
func (w *Workers) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for taskType, jw := range w.running {
		w.logger.Info("stopping worker", zap.String("taskType", taskType))
		jw.Close()
		jw.AwaitClose()
		delete(w.running, taskType)
	}
}
