package export

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/pimsync/connector/internal/domain/channel"
	"github.com/pimsync/connector/internal/domain/export"
	"github.com/pimsync/connector/internal/infrastructure/logger"
)

// ErrExportRunning is returned when a run is requested while the channel's
// previous run has not ended.
var ErrExportRunning = errors.New("export: previous run still in progress")

// Runner owns the run lifecycle: it creates the export record, resolves the
// watermark and the remote language table, drives every step and finalizes
// the run. Step and unit failures end up on the error log; the run itself
// completes unless a precondition violation aborts it.
type Runner struct {
	channels  channel.Repository
	exports   export.Repository
	watermark export.Query
	languages LanguageAPI
	cache     RunCache
	steps     []Step
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewRunner wires the orchestrator. Steps run in the given order; dependents
// (products referencing categories and options) belong after their
// dependencies. A nil cache disables the per-run reset.
func NewRunner(channels channel.Repository, exports export.Repository, watermark export.Query, languages LanguageAPI, cache RunCache, steps []Step, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		channels:  channels,
		exports:   exports,
		watermark: watermark,
		languages: languages,
		cache:     cache,
		steps:     steps,
		logger:    logger,
		tracer:    otel.Tracer("pimsync/export"),
	}
}

// Run executes one synchronization run for the channel.
func (r *Runner) Run(ctx context.Context, channelID uuid.UUID) (*export.Export, error) {
	ctx, span := r.tracer.Start(ctx, "export.run",
		trace.WithAttributes(attribute.String("channel.id", channelID.String())))
	defer span.End()

	ch, err := r.channels.FindByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	finished, err := r.watermark.IsLastExportFinished(ctx, ch.ID)
	if err != nil {
		return nil, err
	}
	if !finished {
		return nil, ErrExportRunning
	}
	watermark, err := r.watermark.FindLastExportStarted(ctx, ch.ID)
	if err != nil {
		return nil, err
	}
	remoteLanguages, err := r.languages.GetAll(ctx, ch)
	if err != nil {
		return nil, err
	}

	// Lookup caches are run-scoped. Dropping them here forces every remote
	// lookup (media presence, folders, currency, tax) to be redone, so a
	// remote deletion between runs is seen.
	if r.cache != nil {
		if err := r.cache.Clear(ctx); err != nil {
			return nil, err
		}
	}

	run, err := export.NewExport(ch.ID)
	if err != nil {
		return nil, err
	}
	if err := r.exports.Save(ctx, run); err != nil {
		return nil, err
	}

	rc, err := NewRunContext(ch, run, watermark, remoteLanguages)
	if err != nil {
		return run, r.abort(ctx, run, err)
	}

	// Queries issued by the steps carry both IDs in the SQL log.
	ctx = logger.WithChannelID(ctx, ch.ID.String())
	ctx = logger.WithExportID(ctx, run.ID.String())

	r.logger.Info("export run started",
		zap.String("export_id", run.ID.String()),
		zap.String("channel", ch.Name),
		zap.Timep("watermark", watermark))

	for _, step := range r.steps {
		stepCtx, stepSpan := r.tracer.Start(ctx, "export.step",
			trace.WithAttributes(attribute.String("step", step.Name())))
		stepErr := step.Run(stepCtx, rc)
		stepSpan.End()
		if stepErr == nil {
			continue
		}
		r.logger.Error("export step failed",
			zap.String("step", step.Name()),
			zap.Error(stepErr))
		if err := r.exports.AddError(ctx, run.ID, "step failed", map[string]string{
			"step":  step.Name(),
			"cause": stepErr.Error(),
		}); err != nil {
			return run, err
		}
		if errors.Is(stepErr, ErrRunAborted) {
			return run, r.abort(ctx, run, stepErr)
		}
	}

	if err := r.end(ctx, run); err != nil {
		return run, err
	}
	r.logger.Info("export run ended", zap.String("export_id", run.ID.String()))
	return run, nil
}

// abort finalizes the run record and surfaces the failure. The run counts as
// ended so the next invocation is not blocked, but the abort error reaches
// the caller.
func (r *Runner) abort(ctx context.Context, run *export.Export, cause error) error {
	if err := r.end(ctx, run); err != nil {
		r.logger.Error("finalizing aborted run failed", zap.Error(err))
	}
	return cause
}

func (r *Runner) end(ctx context.Context, run *export.Export) error {
	if err := run.End(time.Now()); err != nil {
		return err
	}
	return r.exports.Save(ctx, run)
}
