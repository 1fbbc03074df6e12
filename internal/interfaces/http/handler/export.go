package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pimsync/connector/internal/domain/export"
	"github.com/pimsync/connector/internal/interfaces/http/dto"
)

// ExportRunner executes one synchronization run for a channel.
type ExportRunner interface {
	Run(ctx context.Context, channelID uuid.UUID) (*export.Export, error)
}

// ExportHandler handles export-related API endpoints
type ExportHandler struct {
	BaseHandler
	runner  ExportRunner
	exports export.Repository
	logger  *zap.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(runner ExportRunner, exports export.Repository, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{
		runner:  runner,
		exports: exports,
		logger:  logger,
	}
}

// ExportResponse represents an export run
type ExportResponse struct {
	ID        string     `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	ChannelID string     `json:"channel_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	Status    string     `json:"status" example:"ended"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// ExportErrorResponse represents one entry of an export's error log
type ExportErrorResponse struct {
	ID         string            `json:"id"`
	Message    string            `json:"message"`
	Parameters map[string]string `json:"parameters,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

func toExportResponse(e *export.Export) ExportResponse {
	return ExportResponse{
		ID:        e.ID.String(),
		ChannelID: e.ChannelID.String(),
		Status:    string(e.Status),
		StartedAt: e.StartedAt,
		EndedAt:   e.EndedAt,
	}
}

func toExportErrorResponses(errs []export.Error) []ExportErrorResponse {
	responses := make([]ExportErrorResponse, 0, len(errs))
	for _, e := range errs {
		responses = append(responses, ExportErrorResponse{
			ID:         e.ID.String(),
			Message:    e.Message,
			Parameters: e.Parameters,
			CreatedAt:  e.CreatedAt,
		})
	}
	return responses
}

// TriggerExport starts a synchronization run for the channel and waits for
// it to finish. The completed run is returned, error log included in the
// sense that failed units are recorded on the run rather than failing the
// request. A 409 means the previous run has not ended yet.
func (h *ExportHandler) TriggerExport(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid channel ID")
		return
	}
	channelID, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid channel ID")
		return
	}

	run, err := h.runner.Run(c.Request.Context(), channelID)
	if err != nil {
		h.logger.Warn("export run rejected",
			zap.String("channel_id", channelID.String()),
			zap.Error(err))
		h.HandleError(c, err)
		return
	}

	h.Created(c, toExportResponse(run))
}

// GetExport returns a single export run
func (h *ExportHandler) GetExport(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid export ID")
		return
	}
	exportID, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid export ID")
		return
	}

	run, err := h.exports.FindByID(c.Request.Context(), exportID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toExportResponse(run))
}

// GetExportErrors returns the export's error log, oldest first
func (h *ExportHandler) GetExportErrors(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid export ID")
		return
	}
	exportID, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid export ID")
		return
	}

	// Resolve the run first so an unknown ID is a 404, not an empty list.
	if _, err := h.exports.FindByID(c.Request.Context(), exportID); err != nil {
		h.HandleError(c, err)
		return
	}

	errs, err := h.exports.Errors(c.Request.Context(), exportID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toExportErrorResponses(errs))
}

// RegisterRoutes registers export routes
func (h *ExportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/channels/:id/exports", h.TriggerExport)
	exports := rg.Group("/exports")
	{
		exports.GET("/:id", h.GetExport)
		exports.GET("/:id/errors", h.GetExportErrors)
	}
}
