package shopware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pimsync/connector/internal/domain/channel"
	"github.com/pimsync/connector/internal/infrastructure/shopware/model"
)

const categoryEntity = "category"

// CategoryClient reads and writes remote categories.
type CategoryClient struct {
	connector *Connector
}

// NewCategoryClient creates a category client on the shared connector.
func NewCategoryClient(connector *Connector) *CategoryClient {
	return &CategoryClient{connector: connector}
}

type categoryData struct {
	ID              string                    `json:"id"`
	Name            *string                   `json:"name"`
	ParentID        *string                   `json:"parentId"`
	Active          bool                      `json:"active"`
	Visible         bool                      `json:"visible"`
	CustomFields    model.CustomFieldValues   `json:"customFields"`
	Description     *string                   `json:"description"`
	MediaID         *string                   `json:"mediaId"`
	MetaTitle       *string                   `json:"metaTitle"`
	MetaDescription *string                   `json:"metaDescription"`
	Keywords        *string                   `json:"keywords"`
	Translations    []categoryTranslationData `json:"translations"`
}

type categoryTranslationData struct {
	LanguageID      string                  `json:"languageId"`
	Name            *string                 `json:"name"`
	Description     *string                 `json:"description"`
	MetaTitle       *string                 `json:"metaTitle"`
	MetaDescription *string                 `json:"metaDescription"`
	Keywords        *string                 `json:"keywords"`
	CustomFields    model.CustomFieldValues `json:"customFields"`
}

func (d categoryData) toModel() *model.Category {
	translations := make([]*model.CategoryTranslation, 0, len(d.Translations))
	for _, tr := range d.Translations {
		translations = append(translations, model.HydrateCategoryTranslation(
			"", tr.LanguageID, tr.Name, tr.Description, tr.MetaTitle, tr.MetaDescription, tr.Keywords, tr.CustomFields))
	}
	return model.HydrateCategory(
		d.ID, d.Name, d.ParentID, d.Active, d.Visible, d.CustomFields,
		d.Description, d.MediaID, d.MetaTitle, d.MetaDescription, d.Keywords, translations)
}

// Get reads the category with its translations. A missing category is
// reported as *APIError with a 404 status through IsNotFound.
func (c *CategoryClient) Get(ctx context.Context, ch *channel.Channel, categoryID string) (*model.Category, error) {
	criteria := NewCriteria().
		IDs([]string{categoryID}).
		Association("translations")

	resp, err := c.connector.search(ctx, ch, categoryEntity, criteria, nil)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, newAPIError(http.StatusNotFound, nil)
	}

	var data categoryData
	if err := json.Unmarshal(resp.Data[0], &data); err != nil {
		return nil, fmt.Errorf("shopware: failed to parse category: %w", err)
	}
	return data.toModel(), nil
}

// Create creates the category and returns its remote id.
func (c *CategoryClient) Create(ctx context.Context, ch *channel.Channel, category *model.Category) (string, error) {
	return c.connector.create(ctx, ch, categoryEntity, category, nil)
}

// Update patches the category.
func (c *CategoryClient) Update(ctx context.Context, ch *channel.Channel, category *model.Category) error {
	return c.connector.patch(ctx, ch, categoryEntity, category.ID(), category, nil)
}

// Delete removes the category.
func (c *CategoryClient) Delete(ctx context.Context, ch *channel.Channel, categoryID string) error {
	return c.connector.remove(ctx, ch, categoryEntity, categoryID)
}
