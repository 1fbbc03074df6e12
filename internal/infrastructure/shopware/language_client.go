package shopware

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pimsync/connector/internal/domain/channel"
	"github.com/pimsync/connector/internal/infrastructure/shopware/model"
)

// LanguageClient reads the remote language table. The export maps the
// channel's configured language codes onto remote language ids through the
// attached locale.
type LanguageClient struct {
	connector *Connector
}

// NewLanguageClient creates a language client on the shared connector.
func NewLanguageClient(connector *Connector) *LanguageClient {
	return &LanguageClient{connector: connector}
}

// GetAll reads every remote language with its locale.
func (l *LanguageClient) GetAll(ctx context.Context, ch *channel.Channel) ([]model.Language, error) {
	criteria := NewCriteria().
		Limit(500).
		Association("locale")

	resp, err := l.connector.search(ctx, ch, "language", criteria, nil)
	if err != nil {
		return nil, err
	}

	languages := make([]model.Language, 0, len(resp.Data))
	for _, raw := range resp.Data {
		var data struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Locale *struct {
				ID   string `json:"id"`
				Code string `json:"code"`
			} `json:"locale"`
		}
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("shopware: failed to parse language: %w", err)
		}
		lang := model.Language{ID: data.ID, Name: data.Name}
		if data.Locale != nil {
			lang.LocaleID = data.Locale.ID
			lang.ISO = data.Locale.Code
		}
		languages = append(languages, lang)
	}
	return languages, nil
}
