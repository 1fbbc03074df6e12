package shopware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/pimsync/connector/internal/domain/channel"
	"github.com/pimsync/connector/internal/infrastructure/shopware/model"
)

const productEntity = "product"

// ProductClient reads and writes remote products.
type ProductClient struct {
	connector *Connector
}

// NewProductClient creates a product client on the shared connector.
func NewProductClient(connector *Connector) *ProductClient {
	return &ProductClient{connector: connector}
}

type productData struct {
	ID            string                   `json:"id"`
	ProductNumber string                   `json:"productNumber"`
	Name          *string                  `json:"name"`
	Active        bool                     `json:"active"`
	Stock         *int                     `json:"stock"`
	TaxID         *string                  `json:"taxId"`
	Price         []productPriceData       `json:"price"`
	Categories    []entityReference        `json:"categories"`
	Properties    []entityReference        `json:"properties"`
	CustomFields  model.CustomFieldValues  `json:"customFields"`
	Media         []productMediaData       `json:"media"`
	CoverID       *string                  `json:"coverId"`
	Translations  []productTranslationData `json:"translations"`
}

type entityReference struct {
	ID string `json:"id"`
}

type productPriceData struct {
	CurrencyID string          `json:"currencyId"`
	Gross      decimal.Decimal `json:"gross"`
	Net        decimal.Decimal `json:"net"`
	Linked     bool            `json:"linked"`
}

type productMediaData struct {
	ID       string `json:"id"`
	MediaID  string `json:"mediaId"`
	Position int    `json:"position"`
}

type productTranslationData struct {
	LanguageID      string                  `json:"languageId"`
	Name            *string                 `json:"name"`
	Description     *string                 `json:"description"`
	Keywords        *string                 `json:"keywords"`
	MetaTitle       *string                 `json:"metaTitle"`
	MetaDescription *string                 `json:"metaDescription"`
	CustomFields    model.CustomFieldValues `json:"customFields"`
}

func (d productData) toModel() *model.Product {
	var price *model.Price
	if len(d.Price) > 0 {
		price = &model.Price{
			CurrencyID: d.Price[0].CurrencyID,
			Gross:      d.Price[0].Gross,
			Net:        d.Price[0].Net,
			Linked:     d.Price[0].Linked,
		}
	}
	categoryIDs := make([]string, 0, len(d.Categories))
	for _, ref := range d.Categories {
		categoryIDs = append(categoryIDs, ref.ID)
	}
	propertyIDs := make([]string, 0, len(d.Properties))
	for _, ref := range d.Properties {
		propertyIDs = append(propertyIDs, ref.ID)
	}
	media := make([]model.ProductMedia, 0, len(d.Media))
	for _, m := range d.Media {
		media = append(media, model.ProductMedia{ID: m.ID, MediaID: m.MediaID, Position: m.Position})
	}
	translations := make([]*model.ProductTranslation, 0, len(d.Translations))
	for _, tr := range d.Translations {
		translations = append(translations, model.HydrateProductTranslation(
			"", tr.LanguageID, tr.Name, tr.Description, tr.Keywords, tr.MetaTitle, tr.MetaDescription, tr.CustomFields))
	}
	return model.HydrateProduct(
		d.ID, d.ProductNumber, d.Name, d.Active, d.Stock, d.TaxID, price,
		categoryIDs, propertyIDs, d.CustomFields, media, d.CoverID, translations)
}

// Get reads the product with its gallery, category and property assignments
// and translations.
func (p *ProductClient) Get(ctx context.Context, ch *channel.Channel, productID string) (*model.Product, error) {
	criteria := NewCriteria().
		IDs([]string{productID}).
		Association("media").
		Association("categories").
		Association("properties").
		Association("translations")

	resp, err := p.connector.search(ctx, ch, productEntity, criteria, nil)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, newAPIError(http.StatusNotFound, nil)
	}

	var data productData
	if err := json.Unmarshal(resp.Data[0], &data); err != nil {
		return nil, fmt.Errorf("shopware: failed to parse product: %w", err)
	}
	return data.toModel(), nil
}

// Create creates the product and returns its remote id.
func (p *ProductClient) Create(ctx context.Context, ch *channel.Channel, product *model.Product) (string, error) {
	return p.connector.create(ctx, ch, productEntity, product, nil)
}

// Update patches the product and drops the gallery entries no mapper
// re-confirmed.
func (p *ProductClient) Update(ctx context.Context, ch *channel.Channel, product *model.Product) error {
	for _, stale := range product.MediaToRemove() {
		if stale.ID == "" {
			continue
		}
		if err := p.connector.remove(ctx, ch, "product-media", stale.ID); err != nil && !IsNotFound(err) {
			return err
		}
	}
	return p.connector.patch(ctx, ch, productEntity, product.ID(), product, nil)
}
