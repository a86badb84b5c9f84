package renderbusinessplan

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"bizplan-workers/internal/businessplan"
	"bizplan-workers/internal/common/errors"
	"bizplan-workers/internal/common/logger"
	"bizplan-workers/internal/common/metrics"
	"bizplan-workers/internal/common/observability"
	"bizplan-workers/internal/render"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "render-business-plan"

// PageRenderer is satisfied by *render.Renderer.
type PageRenderer interface {
	RenderSections(doc *businessplan.Document, theme businessplan.Theme, keys []businessplan.SectionKey) []render.Page
	WriteHTML(w io.Writer, title string, theme businessplan.Theme, pages []render.Page) error
}

type Handler struct {
	config       *Config
	logger       logger.Logger
	renderer     PageRenderer
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
}

func NewHandler(config *Config, log logger.Logger, renderer PageRenderer, obs *observability.Observability) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	if renderer == nil {
		renderer = render.New()
	}
	return &Handler{
		config:       config,
		logger:       l,
		renderer:     renderer,
		errorHandler: errors.NewErrorHandler(l),
		obs:          obs,
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

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(client, job, errors.NewInputParseError(err), start)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.fail(client, job, err, start)
		return
	}

	h.completeJob(client, job, output, start)
}

// Execute renders the requested sections and the combined HTML file.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Document == nil {
		return nil, errors.NewInputValidationError("document is required").
			WithMetadata("requestId", input.RequestId)
	}

	keys := sectionKeys(input.Sections)

	theme := h.config.Theme
	if input.Theme != nil {
		theme = input.Theme.Merge(theme)
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.NewRenderError(err)
	}

	pages := h.renderer.RenderSections(input.Document, theme, keys)

	var buf bytes.Buffer
	if err := h.renderer.WriteHTML(&buf, h.config.Title, theme, pages); err != nil {
		return nil, errors.NewRenderError(err).WithMetadata("requestId", input.RequestId)
	}

	h.logger.Info("business plan rendered", map[string]interface{}{
		"requestId": input.RequestId,
		"pages":     len(pages),
		"theme":     theme.Name,
	})

	return &Output{
		RequestId: input.RequestId,
		Pages:     pages,
		HTML:      buf.String(),
	}, nil
}

// sectionKeys resolves requested page names. Unknown names are kept so the
// renderer emits its not-found page for them.
func sectionKeys(names []string) []businessplan.SectionKey {
	if len(names) == 0 {
		return businessplan.Keys()
	}
	keys := make([]businessplan.SectionKey, 0, len(names))
	for _, name := range names {
		key, err := businessplan.ParseSectionKey(name)
		if err != nil {
			key = businessplan.SectionKey(name)
		}
		keys = append(keys, key)
	}
	return keys
}

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
