// Package scheduler runs periodic exports for every configured channel.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	exportapp "github.com/pimsync/connector/internal/application/export"
	"github.com/pimsync/connector/internal/domain/channel"
	"github.com/pimsync/connector/internal/domain/export"
)

// ExportRunner starts one synchronization run for a channel.
type ExportRunner interface {
	Run(ctx context.Context, channelID uuid.UUID) (*export.Export, error)
}

// Config holds the export scheduler configuration.
type Config struct {
	// Interval is how often every channel is exported.
	Interval time.Duration

	// RunTimeout bounds a single channel run. Zero means no timeout.
	RunTimeout time.Duration
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() Config {
	return Config{
		Interval:   15 * time.Minute,
		RunTimeout: 30 * time.Minute,
	}
}

// ExportScheduler triggers an export run for every channel on a fixed
// interval. A channel whose previous run is still in progress is skipped
// and picked up again on the next tick.
type ExportScheduler struct {
	config   Config
	runner   ExportRunner
	channels channel.Repository
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewExportScheduler creates a new export scheduler.
func NewExportScheduler(config Config, runner ExportRunner, channels channel.Repository, logger *zap.Logger) *ExportScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Interval <= 0 {
		config.Interval = DefaultConfig().Interval
	}
	return &ExportScheduler{
		config:   config,
		runner:   runner,
		channels: channels,
		logger:   logger,
	}
}

// Start starts the scheduler loop.
func (s *ExportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Export scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("run_timeout", s.config.RunTimeout),
	)

	return nil
}

// Stop stops the scheduler and waits for an in-flight pass to finish.
func (s *ExportScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Export scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ExportScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runAll(ctx)
		}
	}
}

// runAll exports every channel sequentially. Runs are serialized so two
// channels never compete for the same remote rate limit window.
func (s *ExportScheduler) runAll(ctx context.Context) {
	channels, err := s.channels.FindAll(ctx)
	if err != nil {
		s.logger.Error("Scheduled export pass failed to list channels", zap.Error(err))
		return
	}

	for _, ch := range channels {
		if ctx.Err() != nil {
			return
		}
		s.runOne(ctx, ch.ID)
	}
}

func (s *ExportScheduler) runOne(ctx context.Context, channelID uuid.UUID) {
	runCtx := ctx
	if s.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.config.RunTimeout)
		defer cancel()
	}

	run, err := s.runner.Run(runCtx, channelID)
	switch {
	case err == nil:
		s.logger.Info("Scheduled export finished",
			zap.String("channel_id", channelID.String()),
			zap.String("export_id", run.ID.String()),
		)
	case errors.Is(err, exportapp.ErrExportRunning):
		s.logger.Debug("Scheduled export skipped, previous run still in progress",
			zap.String("channel_id", channelID.String()),
		)
	default:
		s.logger.Error("Scheduled export failed",
			zap.String("channel_id", channelID.String()),
			zap.Error(err),
		)
	}
}
