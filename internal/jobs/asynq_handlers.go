package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fairway/internal/common"
	"fairway/internal/config"
	"fairway/internal/services"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Task type definitions
const (
	TypeGenerateSlots = "slots:generate"
)

const QueueDefault = "default"

// GenerateSlotsPayload defines the payload for bulk slot generation tasks
type GenerateSlotsPayload struct {
	TenantID uuid.UUID                     `json:"tenant_id"`
	Request  services.GenerateSlotsRequest `json:"request"`
}

// Enqueuer is the part of *asynq.Client used to submit tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NewGenerateSlotsTask creates a new bulk slot generation task
func NewGenerateSlotsTask(tenantID uuid.UUID, req services.GenerateSlotsRequest, maxRetry int) (*asynq.Task, error) {
	data, err := json.Marshal(GenerateSlotsPayload{TenantID: tenantID, Request: req})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeGenerateSlots, data, asynq.MaxRetry(maxRetry), asynq.Queue(QueueDefault)), nil
}

// SlotGenerationHandler runs generation tasks on the worker.
type SlotGenerationHandler struct {
	generator services.SlotGenerator
}

func NewSlotGenerationHandler(generator services.SlotGenerator) *SlotGenerationHandler {
	return &SlotGenerationHandler{generator: generator}
}

// ProcessTask implements asynq.Handler. Invalid requests are not retried.
func (h *SlotGenerationHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload GenerateSlotsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal generate payload: %v: %w", err, asynq.SkipRetry)
	}

	logger := log.With().Str("tenant_id", payload.TenantID.String()).
		Str("start_date", payload.Request.StartDate).
		Str("end_date", payload.Request.EndDate).Logger()
	logger.Info().Msg("starting slot generation")

	count, err := h.generator.Generate(ctx, payload.TenantID, payload.Request)
	if err != nil {
		if errors.Is(err, common.ErrInvalidInput) {
			logger.Warn().Err(err).Msg("slot generation rejected")
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		logger.Error().Err(err).Msg("slot generation failed")
		return err
	}

	logger.Info().Int("slots", count).Msg("slot generation completed")
	return nil
}

// NewServer builds the asynq worker and its mux.
func NewServer(redis asynq.RedisConnOpt, cfg config.QueuingConfig, generator services.SlotGenerator) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(redis, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues:      cfg.QueuePriorities,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Error().Err(err).Str("task", task.Type()).Msg("task failed")
		}),
	})

	mux := asynq.NewServeMux()
	mux.Handle(TypeGenerateSlots, NewSlotGenerationHandler(generator))
	return srv, mux
}
