package shopware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pimsync/connector/internal/domain/catalog"
	"github.com/pimsync/connector/internal/domain/channel"
	"github.com/pimsync/connector/internal/domain/link"
	"github.com/pimsync/connector/internal/infrastructure/shopware/model"
)

const mediaEntity = "media"

// BinaryStorage reads the binary content behind a catalog media path.
type BinaryStorage interface {
	Read(ctx context.Context, path string) ([]byte, error)
}

// RunCache caches string lookups for the lifetime of an export run. Clear
// is invoked at the start of every run so no lookup outlives the run that
// made it.
type RunCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// MediaClient resolves catalog media to remote media resources. Resolution
// walks three states: a linked media whose remote presence is confirmed is
// reused, an unlinked media whose derived file name already exists remotely
// is adopted, everything else is created in the default folder and uploaded.
type MediaClient struct {
	connector *Connector
	storage   BinaryStorage
	links     link.Store
	cache     RunCache
	logger    *zap.Logger
}

// NewMediaClient creates a media client on the shared connector.
func NewMediaClient(connector *Connector, storage BinaryStorage, links link.Store, cache RunCache, logger *zap.Logger) *MediaClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaClient{
		connector: connector,
		storage:   storage,
		links:     links,
		cache:     cache,
		logger:    logger,
	}
}

// FindOrCreate resolves the media to a remote media id. referencedLocally
// reports whether the current snapshot already references the linked remote
// id; when it does, the remote presence check is skipped.
func (m *MediaClient) FindOrCreate(ctx context.Context, ch *channel.Channel, media *catalog.Media, referencedLocally bool) (string, error) {
	remoteID, err := m.checkLinked(ctx, ch, media, referencedLocally)
	if err != nil {
		return "", err
	}
	if remoteID != "" {
		return remoteID, nil
	}

	fileName := media.RemoteFileName()
	remoteID, err = m.findByFileName(ctx, ch, fileName)
	if err != nil {
		return "", err
	}
	if remoteID != "" {
		// Present remotely but unknown to the link store. Adopt it
		// instead of colliding on the file name.
		if err := m.saveLink(ctx, ch, media, remoteID); err != nil {
			return "", err
		}
		return remoteID, nil
	}

	folder, err := m.DefaultFolder(ctx, ch, "product")
	if err != nil {
		return "", err
	}

	return m.createNew(ctx, ch, media, folder)
}

// checkLinked returns the linked remote id when the link is still usable.
func (m *MediaClient) checkLinked(ctx context.Context, ch *channel.Channel, media *catalog.Media, referencedLocally bool) (string, error) {
	stored, err := m.links.Load(ctx, ch.ID, link.EntityTypeMedia, media.ID, uuid.Nil)
	if err != nil {
		return "", err
	}
	if stored == "" {
		return "", nil
	}
	if referencedLocally {
		return stored, nil
	}
	exists, err := m.hasMedia(ctx, ch, stored)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", nil
	}
	return stored, nil
}

func (m *MediaClient) createNew(ctx context.Context, ch *channel.Channel, media *catalog.Media, folder *model.MediaFolder) (string, error) {
	remoteID, err := m.createResource(ctx, ch, folder)
	if err != nil {
		return "", err
	}

	if err := m.upload(ctx, ch, remoteID, media); err != nil {
		// The placeholder resource must not survive a failed upload.
		m.deleteQuietly(ctx, ch, remoteID)
		return "", err
	}

	if err := m.saveLink(ctx, ch, media, remoteID); err != nil {
		return "", err
	}
	return remoteID, nil
}

func (m *MediaClient) createResource(ctx context.Context, ch *channel.Channel, folder *model.MediaFolder) (string, error) {
	payload := map[string]any{
		"mediaFolderId": folder.MediaFolderID,
		"private":       false,
	}
	return m.connector.create(ctx, ch, mediaEntity, payload, nil)
}

func (m *MediaClient) upload(ctx context.Context, ch *channel.Channel, remoteID string, media *catalog.Media) error {
	content, err := m.storage.Read(ctx, media.Path)
	if err != nil {
		return fmt.Errorf("shopware: failed to read media content: %w", err)
	}

	query := url.Values{}
	query.Set("extension", media.Extension)
	query.Set("fileName", media.RemoteFileName())

	_, err = m.connector.do(ctx, ch, request{
		method:      http.MethodPost,
		path:        "/api/_action/media/" + remoteID + "/upload",
		query:       query,
		body:        content,
		contentType: media.Mime,
	})
	if err != nil && !IsDuplicatedFileName(err) {
		return err
	}
	return nil
}

func (m *MediaClient) saveLink(ctx context.Context, ch *channel.Channel, media *catalog.Media, remoteID string) error {
	l, err := link.NewLink(ch.ID, link.EntityTypeMedia, media.ID, uuid.Nil, remoteID)
	if err != nil {
		return err
	}
	return m.links.Save(ctx, l)
}

// Delete removes the remote media and its link. Client errors from the
// remote are swallowed so a vanished media does not fail the run.
func (m *MediaClient) Delete(ctx context.Context, ch *channel.Channel, remoteID string) error {
	if err := m.connector.remove(ctx, ch, mediaEntity, remoteID); err != nil && !IsClientError(err) {
		return err
	}
	if err := m.cache.Delete(ctx, hasMediaCacheKey(ch, remoteID)); err != nil {
		m.logger.Warn("failed to invalidate media cache", zap.Error(err))
	}
	return nil
}

func (m *MediaClient) deleteQuietly(ctx context.Context, ch *channel.Channel, remoteID string) {
	if err := m.Delete(ctx, ch, remoteID); err != nil {
		m.logger.Warn("failed to delete media after upload failure",
			zap.String("media_id", remoteID), zap.Error(err))
	}
}

// ---------------------------------------------------------------------------
// Lookups
// ---------------------------------------------------------------------------

func hasMediaCacheKey(ch *channel.Channel, remoteID string) string {
	return "has-media:" + ch.ID.String() + ":" + remoteID
}

func folderCacheKey(ch *channel.Channel, entity string) string {
	return "media-folder:" + ch.ID.String() + ":" + entity
}

// hasMedia checks whether the remote media id still exists, caching positive
// answers for the run.
func (m *MediaClient) hasMedia(ctx context.Context, ch *channel.Channel, remoteID string) (bool, error) {
	if _, ok, err := m.cache.Get(ctx, hasMediaCacheKey(ch, remoteID)); err == nil && ok {
		return true, nil
	}

	criteria := NewCriteria().IDs([]string{remoteID}).Limit(1)
	resp, err := m.connector.search(ctx, ch, mediaEntity, criteria, nil)
	if err != nil {
		if IsClientError(err) {
			return false, nil
		}
		return false, err
	}
	if len(resp.Data) == 0 {
		return false, nil
	}

	if err := m.cache.Set(ctx, hasMediaCacheKey(ch, remoteID), "1"); err != nil {
		m.logger.Warn("failed to cache media presence", zap.Error(err))
	}
	return true, nil
}

// findByFileName returns the id of the remote media owning the file name, or
// "" when none does.
func (m *MediaClient) findByFileName(ctx context.Context, ch *channel.Channel, fileName string) (string, error) {
	criteria := NewCriteria().
		Limit(1).
		Filter(EqualsFilter("fileName", fileName))

	resp, err := m.connector.search(ctx, ch, mediaEntity, criteria, nil)
	if err != nil {
		if IsClientError(err) {
			return "", nil
		}
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", nil
	}

	var data struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Data[0], &data); err != nil {
		return "", fmt.Errorf("shopware: failed to parse media: %w", err)
	}
	return data.ID, nil
}

// DefaultFolder returns the default media folder for the entity, cached per
// channel for the run.
func (m *MediaClient) DefaultFolder(ctx context.Context, ch *channel.Channel, entity string) (*model.MediaFolder, error) {
	if cached, ok, err := m.cache.Get(ctx, folderCacheKey(ch, entity)); err == nil && ok {
		var folder model.MediaFolder
		if err := json.Unmarshal([]byte(cached), &folder); err == nil {
			return &folder, nil
		}
	}

	criteria := NewCriteria().
		Limit(1).
		Filter(EqualsFilter("entity", entity)).
		Association("folder")

	resp, err := m.connector.search(ctx, ch, "media-default-folder", criteria, nil)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, ErrDefaultFolderNotFound
	}

	var data struct {
		ID     string `json:"id"`
		Entity string `json:"entity"`
		Folder *struct {
			ID string `json:"id"`
		} `json:"folder"`
	}
	if err := json.Unmarshal(resp.Data[0], &data); err != nil {
		return nil, fmt.Errorf("shopware: failed to parse media default folder: %w", err)
	}
	if data.Folder == nil || data.Folder.ID == "" {
		return nil, ErrDefaultFolderNotFound
	}

	folder := &model.MediaFolder{ID: data.ID, MediaFolderID: data.Folder.ID, Entity: data.Entity}
	if encoded, err := json.Marshal(folder); err == nil {
		if err := m.cache.Set(ctx, folderCacheKey(ch, entity), string(encoded)); err != nil {
			m.logger.Warn("failed to cache media folder", zap.Error(err))
		}
	}
	return folder, nil
}

// ---------------------------------------------------------------------------
// Translations
// ---------------------------------------------------------------------------

// GetTranslations reads the media with its alt/title translations.
func (m *MediaClient) GetTranslations(ctx context.Context, ch *channel.Channel, remoteID string) (*model.Media, error) {
	criteria := NewCriteria().
		IDs([]string{remoteID}).
		Association("translations")

	resp, err := m.connector.search(ctx, ch, mediaEntity, criteria, nil)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, newAPIError(http.StatusNotFound, nil)
	}

	var data struct {
		ID           string  `json:"id"`
		FileName     *string `json:"fileName"`
		Translations []struct {
			LanguageID string  `json:"languageId"`
			Alt        *string `json:"alt"`
			Title      *string `json:"title"`
		} `json:"translations"`
	}
	if err := json.Unmarshal(resp.Data[0], &data); err != nil {
		return nil, fmt.Errorf("shopware: failed to parse media: %w", err)
	}

	media := model.NewMedia(data.ID, data.FileName)
	translations := make([]model.MediaTranslation, 0, len(data.Translations))
	for _, tr := range data.Translations {
		translations = append(translations, model.MediaTranslation{
			LanguageID: tr.LanguageID,
			Alt:        tr.Alt,
			Title:      tr.Title,
		})
	}
	media.SetTranslations(translations)
	return media, nil
}

// Update patches the media translations.
func (m *MediaClient) Update(ctx context.Context, ch *channel.Channel, media *model.Media) error {
	return m.connector.patch(ctx, ch, mediaEntity, media.ID(), media, nil)
}
