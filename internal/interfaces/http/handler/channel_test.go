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

	"github.com/pimsync/connector/internal/domain/channel"
	"github.com/pimsync/connector/internal/interfaces/http/dto"
)

type fakeChannelRepo struct {
	channels map[uuid.UUID]*channel.Channel
	err      error
}

func newFakeChannelRepo(channels ...*channel.Channel) *fakeChannelRepo {
	repo := &fakeChannelRepo{channels: make(map[uuid.UUID]*channel.Channel)}
	for _, ch := range channels {
		repo.channels[ch.ID] = ch
	}
	return repo
}

func (f *fakeChannelRepo) FindByID(ctx context.Context, id uuid.UUID) (*channel.Channel, error) {
	if f.err != nil {
		return nil, f.err
	}
	ch, ok := f.channels[id]
	if !ok {
		return nil, channel.ErrChannelNotFound
	}
	return ch, nil
}

func (f *fakeChannelRepo) FindAll(ctx context.Context) ([]channel.Channel, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]channel.Channel, 0, len(f.channels))
	for _, ch := range f.channels {
		out = append(out, *ch)
	}
	return out, nil
}

func testChannel(t *testing.T) *channel.Channel {
	t.Helper()
	nameAttr := uuid.New()
	sales := "98432def39fc4624b33213a56b8c944d"
	return &channel.Channel{
		ID:                        uuid.New(),
		Name:                      "webshop",
		Host:                      "https://shop.example.com",
		ClientID:                  "client-id",
		ClientSecret:              "client-secret",
		DefaultLanguage:           "en_GB",
		Languages:                 []string{"de_DE", "pl_PL"},
		CategoryTreeIDs:           []uuid.UUID{uuid.New()},
		AttributeProductName:      &nameAttr,
		SalesChannelID:            &sales,
		CustomFieldAttributeIDs:   []uuid.UUID{uuid.New(), uuid.New()},
		PropertyGroupAttributeIDs: []uuid.UUID{uuid.New()},
		CreatedAt:                 time.Now(),
		UpdatedAt:                 time.Now(),
	}
}

func channelTestEngine(repo channel.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	api := engine.Group("/api/v1")
	NewChannelHandler(repo).RegisterRoutes(api)
	return engine
}

func TestChannelHandler_ListChannels(t *testing.T) {
	ch := testChannel(t)
	engine := channelTestEngine(newFakeChannelRepo(ch))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/channels", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	list := resp.Data.([]interface{})
	require.Len(t, list, 1)

	data := list[0].(map[string]interface{})
	assert.Equal(t, ch.ID.String(), data["id"])
	assert.Equal(t, "webshop", data["name"])
	assert.Equal(t, "en_GB", data["default_language"])
}

func TestChannelHandler_ListChannels_Empty(t *testing.T) {
	engine := channelTestEngine(newFakeChannelRepo())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/channels", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	list := resp.Data.([]interface{})
	assert.Empty(t, list)
}

func TestChannelHandler_GetChannel(t *testing.T) {
	ch := testChannel(t)
	engine := channelTestEngine(newFakeChannelRepo(ch))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/channels/"+ch.ID.String(), nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, ch.ID.String(), data["id"])
	assert.Equal(t, "https://shop.example.com", data["host"])
	assert.Equal(t, "client-id", data["client_id"])
	assert.Equal(t, "98432def39fc4624b33213a56b8c944d", data["sales_channel_id"])

	languages := data["languages"].([]interface{})
	assert.Len(t, languages, 2)

	customFields := data["custom_field_attribute_ids"].([]interface{})
	assert.Len(t, customFields, 2)
}

func TestChannelHandler_GetChannel_OmitsClientSecret(t *testing.T) {
	ch := testChannel(t)
	engine := channelTestEngine(newFakeChannelRepo(ch))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/channels/"+ch.ID.String(), nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "client-secret")
	assert.NotContains(t, w.Body.String(), "client_secret")
}

func TestChannelHandler_GetChannel_NotFound(t *testing.T) {
	engine := channelTestEngine(newFakeChannelRepo())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/channels/"+uuid.NewString(), nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestChannelHandler_GetChannel_InvalidID(t *testing.T) {
	engine := channelTestEngine(newFakeChannelRepo())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/channels/not-a-uuid", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
