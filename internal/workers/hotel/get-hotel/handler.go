package gethotel

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"hotel-search/internal/common/config"
	"hotel-search/internal/common/errors"
	"hotel-search/internal/common/logger"
	"hotel-search/internal/common/metrics"
	"hotel-search/internal/common/validation"
	"hotel-search/internal/models"
)

const TaskType = "get-hotel"

// Handler loads one hotel from the relational store and returns it in its
// index document shape.
type Handler struct {
	config       *Config
	repo         HotelReader
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig  *config.Config
	Repository HotelReader
	Logger     logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Repository == nil {
		return nil, fmt.Errorf("get-hotel: repository is required")
	}

	cfg := createConfigFromAppConfig(opts.AppConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for get-hotel: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:       cfg,
		repo:         opts.Repository,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log, cfg.MaxRetries),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Loading hotel", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	output, err := h.process(ctx, job)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.FromError(TaskType, err).Code)).Inc()
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	if err := h.completeJob(ctx, client, job, output); err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) process(ctx context.Context, job entities.Job) (*Output, error) {
	input, err := h.parseInput(job)
	if err != nil {
		return nil, err
	}
	return h.Execute(ctx, input)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInputParsingError(err)
	}

	result, err := validation.Validate(GetInputSchema(), variables)
	if err != nil {
		return nil, errors.NewInputParsingError(err)
	}
	if !result.Valid {
		return nil, errors.NewValidationError(result.ErrorMessages())
	}

	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		return nil, errors.NewInputParsingError(err)
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	row, err := h.repo.GetByID(ctx, input.HotelID)
	if err != nil {
		return nil, err
	}
	return &Output{Hotel: models.NewHotelDoc(*row)}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("create complete job command: %w", err)
	}
	_, err = request.Send(ctx)
	return err
}
