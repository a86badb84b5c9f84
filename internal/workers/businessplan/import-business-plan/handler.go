package importbusinessplan

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"bizplan-workers/internal/common/errors"
	"bizplan-workers/internal/common/logger"
	"bizplan-workers/internal/common/metrics"
	"bizplan-workers/internal/common/observability"
	"bizplan-workers/internal/common/validation"
	"bizplan-workers/internal/importer"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "import-business-plan"

// DocumentImporter is satisfied by *importer.Importer.
type DocumentImporter interface {
	ImportAllWithPath(ctx context.Context, raw importer.RawInput) (*importer.Result, error)
}

type Handler struct {
	config       *Config
	logger       logger.Logger
	importer     DocumentImporter
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
	newID        func() string
}

func NewHandler(config *Config, log logger.Logger, imp DocumentImporter, obs *observability.Observability) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		logger:       l,
		importer:     imp,
		errorHandler: errors.NewErrorHandler(l),
		obs:          obs,
		newID:        uuid.NewString,
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

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(client, job, errors.NewInputParseError(err), start)
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.fail(client, job, err, start)
		return
	}

	h.completeJob(client, job, output, start)
}

// Execute validates the raw document and imports all sections.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	data := input.Data
	if data == nil {
		data = map[string]interface{}{}
	}

	opts := validation.Options{AllowMalformedCollections: h.config.LenientFallback}
	if result := validation.ValidateDocumentInput(data, opts); !result.Valid {
		return nil, errors.NewInputValidationError(result.Err().Error()).
			WithMetadata("requestId", input.RequestId).
			WithMetadata("fields", result.GetErrorMessages())
	}

	raw, err := importer.ParseRawInput(data)
	if err != nil {
		if stderrors.Is(err, importer.ErrUnknownSection) {
			return nil, errors.NewUnknownSectionError(err.Error())
		}
		return nil, errors.NewInputValidationError(err.Error())
	}

	result, err := h.importer.ImportAllWithPath(ctx, raw)
	if err != nil {
		return nil, classify(err).WithMetadata("requestId", input.RequestId)
	}

	h.logger.Info("business plan imported", map[string]interface{}{
		"requestId":  input.RequestId,
		"importPath": result.Path,
		"sections":   result.Document.Len(),
	})

	return &Output{
		DocumentId: h.newID(),
		RequestId:  input.RequestId,
		Document:   result.Document,
		ImportPath: result.Path,
	}, nil
}

// classify maps importer errors onto job error codes. A malformed fallback
// wins over the orchestration wrapper around it.
func classify(err error) *errors.StandardError {
	switch {
	case stderrors.Is(err, importer.ErrMalformedFallback):
		return errors.NewMalformedFallbackError(err)
	case stderrors.Is(err, importer.ErrUnknownSection):
		return errors.NewUnknownSectionError(err.Error())
	case stderrors.Is(err, importer.ErrOrchestration):
		return errors.NewOrchestrationError(err)
	default:
		return errors.NewInternalError(err)
	}
}

// Job commands use a fresh context so an expired job timeout does not drop
// the result.
func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output, start time.Time) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		h.fail(client, job, errors.NewInternalError(err), start)
		return
	}
	ctx := context.Background()
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "completed")
}

func (h *Handler) fail(client worker.JobClient, job entities.Job, err error, start time.Time) {
	ctx := context.Background()
	h.errorHandler.HandleJobError(ctx, client, job, err)
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
}
