package export

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pimsync/connector/internal/domain/catalog"
	"github.com/pimsync/connector/internal/domain/link"
	"github.com/pimsync/connector/internal/infrastructure/shopware"
	"github.com/pimsync/connector/internal/infrastructure/shopware/model"
)

// MediaProcess patches the alt/title translations of already-linked remote
// media. Media without a link are skipped: the gallery mapper creates remote
// media on demand and this process only keeps their texts current.
type MediaProcess struct {
	detector *ChangeDetector
	client   MediaAPI
	links    link.Store
	media    catalog.MediaRepository
	logger   *zap.Logger
}

// NewMediaProcess wires the media translation workflow.
func NewMediaProcess(detector *ChangeDetector, client MediaAPI, links link.Store, media catalog.MediaRepository, logger *zap.Logger) *MediaProcess {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaProcess{
		detector: detector,
		client:   client,
		links:    links,
		media:    media,
		logger:   logger,
	}
}

// Export merges the closed-world translation set of one media asset onto its
// remote counterpart.
func (p *MediaProcess) Export(ctx context.Context, run *RunContext, mediaID uuid.UUID) error {
	remoteID, err := p.links.Load(ctx, run.Channel.ID, link.EntityTypeMedia, mediaID, uuid.Nil)
	if err != nil {
		return err
	}
	if remoteID == "" {
		return nil
	}
	if !p.detector.ShouldExport(ctx, run.Watermark, mediaID) {
		return nil
	}

	asset, err := p.media.FindByID(ctx, mediaID)
	if err != nil {
		return newUnitError("media not found", map[string]string{
			"media": mediaID.String(),
		}, err)
	}

	remote, err := p.client.GetTranslations(ctx, run.Channel, remoteID)
	if shopware.IsNotFound(err) {
		// the remote media disappeared, drop the stale link
		return p.links.Delete(ctx, run.Channel.ID, link.EntityTypeMedia, mediaID)
	}
	if err != nil {
		return err
	}

	remote.UpdateTranslations(p.translations(run, asset))
	if remote.IsDirty() {
		return p.client.Update(ctx, run.Channel, remote)
	}
	return nil
}

// translations builds the per-language alt/title set. Only languages with
// content are confirmed; UpdateTranslations clears the rest.
func (p *MediaProcess) translations(run *RunContext, asset *catalog.Media) []model.MediaTranslation {
	out := make([]model.MediaTranslation, 0, len(run.Channel.AllLanguages()))
	for _, code := range run.Channel.AllLanguages() {
		var alt, title *string
		if v := asset.Alt[code]; v != "" {
			alt = stringPtr(v)
		}
		if v := asset.Title[code]; v != "" {
			title = stringPtr(v)
		}
		if alt == nil && title == nil {
			continue
		}
		out = append(out, model.MediaTranslation{
			LanguageID: run.LanguageID(code),
			Alt:        alt,
			Title:      title,
		})
	}
	return out
}
