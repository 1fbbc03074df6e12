package export

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pimsync/connector/internal/domain/catalog"
	"github.com/pimsync/connector/internal/domain/channel"
	"github.com/pimsync/connector/internal/domain/link"
	"github.com/pimsync/connector/internal/infrastructure/shopware/model"
)

// resolveValues loads the bound attribute and resolves the product's value
// list for the language. A nil binding or an absent value resolves to nil.
func resolveValues(ctx context.Context, attributes catalog.AttributeRepository, product *catalog.Product, binding *uuid.UUID, lang string) ([]string, *catalog.Attribute, error) {
	if binding == nil {
		return nil, nil, nil
	}
	attr, err := attributes.FindByID(ctx, *binding)
	if err != nil {
		return nil, nil, err
	}
	if !product.HasAttribute(attr.Code) {
		return nil, attr, nil
	}
	return product.Attribute(attr.Code).Resolve(attr.Scope, lang), attr, nil
}

func resolveFirst(ctx context.Context, attributes catalog.AttributeRepository, product *catalog.Product, binding *uuid.UUID, lang string) (string, error) {
	values, _, err := resolveValues(ctx, attributes, product, binding, lang)
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		return "", nil
	}
	return values[0], nil
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "enabled":
		return true
	}
	return false
}

// --- name ---

type productNameMapper struct {
	attributes catalog.AttributeRepository
}

func (m *productNameMapper) Map(ctx context.Context, run *RunContext, snapshot *model.Product, source ProductSource) error {
	name, err := resolveFirst(ctx, m.attributes, source.Product, run.Channel.AttributeProductName, source.Language)
	if err != nil {
		return err
	}
	if name == "" {
		if !source.IsDefaultLanguage {
			// language pass without a translated name inherits the default
			return nil
		}
		name = source.Product.SKU
	}
	snapshot.SetName(stringPtr(name))
	return nil
}

// --- active flag ---

type productActiveMapper struct {
	attributes catalog.AttributeRepository
}

func (m *productActiveMapper) Map(ctx context.Context, run *RunContext, snapshot *model.Product, source ProductSource) error {
	if !source.IsDefaultLanguage {
		return nil
	}
	if run.Channel.AttributeProductActive == nil {
		snapshot.SetActive(true)
		return nil
	}
	value, err := resolveFirst(ctx, m.attributes, source.Product, run.Channel.AttributeProductActive, source.Language)
	if err != nil {
		return err
	}
	snapshot.SetActive(parseBool(value))
	return nil
}

// --- stock ---

type productStockMapper struct {
	attributes catalog.AttributeRepository
}

func (m *productStockMapper) Map(ctx context.Context, run *RunContext, snapshot *model.Product, source ProductSource) error {
	if !source.IsDefaultLanguage {
		return nil
	}
	value, err := resolveFirst(ctx, m.attributes, source.Product, run.Channel.AttributeProductStock, source.Language)
	if err != nil {
		return err
	}
	if value == "" {
		return nil
	}
	stock, err := strconv.Atoi(value)
	if err != nil {
		return newUnitError("invalid stock value", map[string]string{
			"sku":   source.Product.SKU,
			"value": value,
		}, err)
	}
	snapshot.SetStock(&stock)
	return nil
}

// --- price and tax ---

type productPriceMapper struct {
	attributes catalog.AttributeRepository
	system     SystemAPI
}

func (m *productPriceMapper) Map(ctx context.Context, run *RunContext, snapshot *model.Product, source ProductSource) error {
	if !source.IsDefaultLanguage {
		return nil
	}
	gross, err := m.resolveDecimal(ctx, run, source, run.Channel.AttributeProductPriceGross)
	if err != nil {
		return err
	}
	if gross == nil {
		return nil
	}
	net, err := m.resolveDecimal(ctx, run, source, run.Channel.AttributeProductPriceNet)
	if err != nil {
		return err
	}
	if net == nil {
		net = gross
	}

	currencyID, err := m.system.DefaultCurrencyID(ctx, run.Channel)
	if err != nil {
		return err
	}
	snapshot.SetPrice(&model.Price{
		CurrencyID: currencyID,
		Gross:      *gross,
		Net:        *net,
		Linked:     true,
	})

	return m.mapTax(ctx, run, snapshot, source)
}

func (m *productPriceMapper) mapTax(ctx context.Context, run *RunContext, snapshot *model.Product, source ProductSource) error {
	value, err := resolveFirst(ctx, m.attributes, source.Product, run.Channel.AttributeProductTax, source.Language)
	if err != nil {
		return err
	}
	if value == "" {
		return nil
	}
	rate, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return newUnitError("invalid tax rate", map[string]string{
			"sku":   source.Product.SKU,
			"value": value,
		}, err)
	}
	taxID, err := m.system.TaxIDByRate(ctx, run.Channel, rate)
	if err != nil {
		return err
	}
	if taxID == "" {
		return newUnitError("no remote tax matches rate", map[string]string{
			"sku":  source.Product.SKU,
			"rate": value,
		}, nil)
	}
	snapshot.SetTaxID(&taxID)
	return nil
}

func (m *productPriceMapper) resolveDecimal(ctx context.Context, run *RunContext, source ProductSource, binding *uuid.UUID) (*decimal.Decimal, error) {
	value, err := resolveFirst(ctx, m.attributes, source.Product, binding, source.Language)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, newUnitError("invalid price value", map[string]string{
			"sku":   source.Product.SKU,
			"value": value,
		}, err)
	}
	return &d, nil
}

// --- description ---

type productDescriptionMapper struct {
	attributes catalog.AttributeRepository
}

func (m *productDescriptionMapper) Map(ctx context.Context, run *RunContext, snapshot *model.Product, source ProductSource) error {
	value, err := resolveFirst(ctx, m.attributes, source.Product, run.Channel.AttributeProductDescription, source.Language)
	if err != nil {
		return err
	}
	if value == "" {
		return nil
	}
	snapshot.SetDescription(stringPtr(value))
	return nil
}

// --- categories ---

type productCategoryMapper struct {
	links link.Store
}

func (m *productCategoryMapper) Map(ctx context.Context, run *RunContext, snapshot *model.Product, source ProductSource) error {
	if !source.IsDefaultLanguage {
		return nil
	}
	for _, categoryID := range source.Product.CategoryIDs {
		for _, treeID := range run.Channel.CategoryTreeIDs {
			remoteID, err := m.links.Load(ctx, run.Channel.ID, link.EntityTypeCategory, categoryID, treeID)
			if err != nil {
				return err
			}
			if remoteID == "" {
				// category not exported under this tree
				continue
			}
			snapshot.AddCategoryID(remoteID)
		}
	}
	return nil
}

// --- property-group options ---

type productPropertyMapper struct {
	attributes catalog.AttributeRepository
	options    catalog.OptionRepository
	links      link.Store
}

func (m *productPropertyMapper) Map(ctx context.Context, run *RunContext, snapshot *model.Product, source ProductSource) error {
	if !source.IsDefaultLanguage {
		return nil
	}
	for _, attributeID := range propertyGroupAttributes(run.Channel, source.Product) {
		attr, err := m.attributes.FindByID(ctx, attributeID)
		if err != nil {
			return err
		}
		if !attr.HasOptions() || !source.Product.HasAttribute(attr.Code) {
			continue
		}
		codes := source.Product.Attribute(attr.Code).Resolve(attr.Scope, source.Language)
		for _, code := range codes {
			option, err := m.options.FindByCode(ctx, attr.ID, code)
			if err != nil {
				return err
			}
			remoteID, err := m.links.Load(ctx, run.Channel.ID, link.EntityTypePropertyGroupOption, option.ID, attr.ID)
			if err != nil {
				return err
			}
			if remoteID == "" {
				// option not exported yet, picked up on the next run
				continue
			}
			snapshot.AddPropertyID(remoteID)
		}
	}
	return nil
}

// propertyGroupAttributes unions the channel's configured property-group
// attributes with the bindings of a variable product, de-duplicated in a
// stable order.
func propertyGroupAttributes(ch *channel.Channel, product *catalog.Product) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ch.PropertyGroupAttributeIDs)+len(product.Bindings))
	out := make([]uuid.UUID, 0, len(seen))
	for _, id := range ch.PropertyGroupAttributeIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range product.Bindings {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// --- custom fields ---

type productCustomFieldMapper struct {
	attributes catalog.AttributeRepository
	links      link.Store
}

func (m *productCustomFieldMapper) Map(ctx context.Context, run *RunContext, snapshot *model.Product, source ProductSource) error {
	for _, attributeID := range run.Channel.CustomFieldAttributeIDs {
		attr, err := m.attributes.FindByID(ctx, attributeID)
		if err != nil {
			return err
		}
		remoteID, err := m.links.Load(ctx, run.Channel.ID, link.EntityTypeCustomField, attr.ID, uuid.Nil)
		if err != nil {
			return err
		}
		if remoteID == "" {
			// field not exported yet
			continue
		}
		values := []string(nil)
		if source.Product.HasAttribute(attr.Code) {
			values = source.Product.Attribute(attr.Code).Resolve(attr.Scope, source.Language)
		}
		snapshot.AddCustomField(CustomFieldName(attr.Code), customFieldValue(attr.Type, values))
	}
	return nil
}

// customFieldValue renders a value list for the remote custom field schema.
// An empty list maps to nil, which clears the field remotely.
func customFieldValue(attrType catalog.AttributeType, values []string) any {
	if len(values) == 0 {
		return nil
	}
	switch attrType {
	case catalog.AttributeTypeNumeric, catalog.AttributeTypePrice:
		if f, err := strconv.ParseFloat(values[0], 64); err == nil {
			return f
		}
		return values[0]
	case catalog.AttributeTypeMultiSelect:
		out := make([]any, 0, len(values))
		for _, v := range values {
			out = append(out, v)
		}
		return out
	default:
		return values[0]
	}
}

// --- SEO URL ---

type productSeoMapper struct{}

func (productSeoMapper) Map(_ context.Context, run *RunContext, snapshot *model.Product, source ProductSource) error {
	if !source.IsDefaultLanguage || run.Channel.SalesChannelID == nil {
		return nil
	}
	if snapshot.ID() == "" {
		// the canonical path needs the remote id, mapped after creation
		return nil
	}
	base := source.Product.SKU
	if snapshot.Name() != nil && *snapshot.Name() != "" {
		base = *snapshot.Name()
	}
	snapshot.AddSeoURL(model.SeoURL{
		SalesChannelID: *run.Channel.SalesChannelID,
		SeoPathInfo:    slugify(base),
		PathInfo:       "/detail/" + snapshot.ID(),
		RouteName:      "frontend.detail.page",
		IsCanonical:    true,
	})
	return nil
}

// slugify lowercases and collapses everything outside [a-z0-9] into single
// dashes.
func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// --- gallery ---

type productGalleryMapper struct {
	attributes catalog.AttributeRepository
	media      catalog.MediaRepository
	api        MediaAPI
	links      link.Store
}

func (m *productGalleryMapper) Map(ctx context.Context, run *RunContext, snapshot *model.Product, source ProductSource) error {
	if !source.IsDefaultLanguage {
		return nil
	}
	values, _, err := resolveValues(ctx, m.attributes, source.Product, run.Channel.AttributeProductGallery, source.Language)
	if err != nil {
		return err
	}
	for position, raw := range values {
		localID, err := uuid.Parse(raw)
		if err != nil {
			return newUnitError("invalid gallery media reference", map[string]string{
				"sku":   source.Product.SKU,
				"value": raw,
			}, err)
		}
		asset, err := m.media.FindByID(ctx, localID)
		if err != nil {
			return err
		}
		linked, err := m.links.Load(ctx, run.Channel.ID, link.EntityTypeMedia, asset.ID, uuid.Nil)
		if err != nil {
			return err
		}
		// a hydrated gallery entry for the linked id proves the remote
		// media exists, no remote check needed
		referenced := linked != "" && snapshot.HasMedia(linked)
		remoteID, err := m.api.FindOrCreate(ctx, run.Channel, asset, referenced)
		if err != nil {
			return newUnitError("media resolution failed", map[string]string{
				"sku":   source.Product.SKU,
				"media": asset.ID.String(),
			}, err)
		}
		if snapshot.HasMedia(remoteID) {
			snapshot.ConfirmMedia(remoteID)
		} else {
			snapshot.AddMedia(model.ProductMedia{MediaID: remoteID, Position: position})
		}
		if position == 0 {
			m.mapCover(snapshot, remoteID)
		}
	}
	return nil
}

// mapCover points the cover at the first gallery position. The cover
// references the gallery entry id, which exists only once the remote knows
// the entry, so a freshly added media becomes the cover on the next pass.
func (m *productGalleryMapper) mapCover(snapshot *model.Product, remoteMediaID string) {
	for _, entry := range snapshot.Media() {
		if entry.MediaID == remoteMediaID && entry.ID != "" {
			snapshot.SetCoverID(stringPtr(entry.ID))
			return
		}
	}
}
