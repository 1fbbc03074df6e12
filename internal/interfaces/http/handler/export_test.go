package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	exportapp "github.com/pimsync/connector/internal/application/export"
	"github.com/pimsync/connector/internal/domain/export"
	"github.com/pimsync/connector/internal/interfaces/http/dto"
)

type fakeRunner struct {
	run       *export.Export
	err       error
	channelID uuid.UUID
}

func (f *fakeRunner) Run(ctx context.Context, channelID uuid.UUID) (*export.Export, error) {
	f.channelID = channelID
	if f.err != nil {
		return nil, f.err
	}
	return f.run, nil
}

type fakeExportRepo struct {
	exports map[uuid.UUID]*export.Export
	errors  map[uuid.UUID][]export.Error
}

func newFakeExportRepo() *fakeExportRepo {
	return &fakeExportRepo{
		exports: make(map[uuid.UUID]*export.Export),
		errors:  make(map[uuid.UUID][]export.Error),
	}
}

func (f *fakeExportRepo) Save(ctx context.Context, e *export.Export) error {
	f.exports[e.ID] = e
	return nil
}

func (f *fakeExportRepo) FindByID(ctx context.Context, id uuid.UUID) (*export.Export, error) {
	e, ok := f.exports[id]
	if !ok {
		return nil, export.ErrExportNotFound
	}
	return e, nil
}

func (f *fakeExportRepo) AddLine(ctx context.Context, line export.Line) error {
	return nil
}

func (f *fakeExportRepo) ProcessLine(ctx context.Context, lineID uuid.UUID) error {
	return nil
}

func (f *fakeExportRepo) AddError(ctx context.Context, exportID uuid.UUID, message string, parameters map[string]string) error {
	f.errors[exportID] = append(f.errors[exportID], export.Error{
		ID:         uuid.New(),
		ExportID:   exportID,
		Message:    message,
		Parameters: parameters,
		CreatedAt:  time.Now(),
	})
	return nil
}

func (f *fakeExportRepo) Errors(ctx context.Context, exportID uuid.UUID) ([]export.Error, error) {
	return f.errors[exportID], nil
}

func endedExport(channelID uuid.UUID) *export.Export {
	ended := time.Now()
	return &export.Export{
		ID:        uuid.New(),
		ChannelID: channelID,
		Status:    export.StatusEnded,
		StartedAt: ended.Add(-time.Minute),
		EndedAt:   &ended,
	}
}

func exportTestEngine(runner ExportRunner, repo export.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	api := engine.Group("/api/v1")
	NewExportHandler(runner, repo, nil).RegisterRoutes(api)
	return engine
}

func TestExportHandler_TriggerExport(t *testing.T) {
	channelID := uuid.New()
	run := endedExport(channelID)
	runner := &fakeRunner{run: run}
	engine := exportTestEngine(runner, newFakeExportRepo())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/channels/"+channelID.String()+"/exports", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, channelID, runner.channelID)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, run.ID.String(), data["id"])
	assert.Equal(t, channelID.String(), data["channel_id"])
	assert.Equal(t, "ended", data["status"])
	assert.NotEmpty(t, data["started_at"])
	assert.NotEmpty(t, data["ended_at"])
}

func TestExportHandler_TriggerExport_InvalidID(t *testing.T) {
	engine := exportTestEngine(&fakeRunner{}, newFakeExportRepo())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/channels/not-a-uuid/exports", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
}

func TestExportHandler_TriggerExport_DomainErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "previous run still in progress",
			err:            exportapp.ErrExportRunning,
			expectedStatus: http.StatusConflict,
			expectedCode:   dto.ErrCodeExportRunning,
		},
		{
			name:           "language not configured remotely",
			err:            exportapp.ErrLanguageNotConfigured,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   dto.ErrCodeChannelMisconfigured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := exportTestEngine(&fakeRunner{err: tt.err}, newFakeExportRepo())

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/api/v1/channels/"+uuid.NewString()+"/exports", nil)
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
		})
	}
}

func TestExportHandler_GetExport(t *testing.T) {
	repo := newFakeExportRepo()
	run := endedExport(uuid.New())
	require.NoError(t, repo.Save(context.Background(), run))
	engine := exportTestEngine(&fakeRunner{}, repo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/exports/"+run.ID.String(), nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, run.ID.String(), data["id"])
	assert.Equal(t, "ended", data["status"])
}

func TestExportHandler_GetExport_NotFound(t *testing.T) {
	engine := exportTestEngine(&fakeRunner{}, newFakeExportRepo())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/exports/"+uuid.NewString(), nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestExportHandler_GetExportErrors(t *testing.T) {
	repo := newFakeExportRepo()
	run := endedExport(uuid.New())
	require.NoError(t, repo.Save(context.Background(), run))
	require.NoError(t, repo.AddError(context.Background(), run.ID,
		"Can't update product {sku}", map[string]string{"{sku}": "SKU-001"}))
	require.NoError(t, repo.AddError(context.Background(), run.ID,
		"Category tree not found", nil))
	engine := exportTestEngine(&fakeRunner{}, repo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/exports/"+run.ID.String()+"/errors", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	list := resp.Data.([]interface{})
	require.Len(t, list, 2)

	first := list[0].(map[string]interface{})
	assert.Equal(t, "Can't update product {sku}", first["message"])
	params := first["parameters"].(map[string]interface{})
	assert.Equal(t, "SKU-001", params["{sku}"])

	second := list[1].(map[string]interface{})
	assert.Equal(t, "Category tree not found", second["message"])
	assert.NotContains(t, second, "parameters")
}

func TestExportHandler_GetExportErrors_EmptyLog(t *testing.T) {
	repo := newFakeExportRepo()
	run := endedExport(uuid.New())
	require.NoError(t, repo.Save(context.Background(), run))
	engine := exportTestEngine(&fakeRunner{}, repo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/exports/"+run.ID.String()+"/errors", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	list := resp.Data.([]interface{})
	assert.Empty(t, list)
}

func TestExportHandler_GetExportErrors_UnknownExport(t *testing.T) {
	engine := exportTestEngine(&fakeRunner{}, newFakeExportRepo())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/exports/"+uuid.NewString()+"/errors", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
