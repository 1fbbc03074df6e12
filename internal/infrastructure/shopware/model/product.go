package model

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"
)

// Price is one currency price of a product.
type Price struct {
	CurrencyID string
	Gross      decimal.Decimal
	Net        decimal.Decimal
	Linked     bool
}

func (p Price) equal(other Price) bool {
	return p.CurrencyID == other.CurrencyID &&
		p.Gross.Equal(other.Gross) &&
		p.Net.Equal(other.Net) &&
		p.Linked == other.Linked
}

// Product mirrors a remote product resource. Gallery media carry removal
// bookkeeping: hydrating marks nothing, the gallery mapper re-confirms every
// entry it still wants and the rest is dropped on update.
type Product struct {
	id              string
	sku             string
	name            *string
	active          bool
	stock           *int
	taxID           *string
	price           *Price
	description     *string
	keywords        *string
	metaTitle       *string
	metaDescription *string
	categoryIDs     map[string]struct{}
	propertyIDs     map[string]struct{}
	customFields    CustomFieldValues
	media           map[string]ProductMedia
	mediaToRemove   map[string]struct{}
	coverID         *string
	seoURLs         []SeoURL
	translations    map[string]*ProductTranslation
	dirty           bool
}

// NewProduct creates an empty snapshot for a product not yet created remotely.
func NewProduct() *Product {
	return &Product{
		active:        true,
		categoryIDs:   map[string]struct{}{},
		propertyIDs:   map[string]struct{}{},
		media:         map[string]ProductMedia{},
		mediaToRemove: map[string]struct{}{},
		translations:  map[string]*ProductTranslation{},
	}
}

// HydrateProduct rebuilds a clean snapshot from a remote read. Every hydrated
// gallery entry starts marked for removal; the gallery mapper un-marks the
// entries that are still wanted so stale remote media get dropped.
func HydrateProduct(id, sku string, name *string, active bool, stock *int, taxID *string, price *Price, categoryIDs, propertyIDs []string, customFields CustomFieldValues, media []ProductMedia, coverID *string, translations []*ProductTranslation) *Product {
	p := NewProduct()
	p.id = id
	p.sku = sku
	p.name = name
	p.active = active
	p.stock = stock
	p.taxID = taxID
	p.price = price
	p.customFields = customFields
	p.coverID = coverID
	for _, cid := range categoryIDs {
		p.categoryIDs[cid] = struct{}{}
	}
	for _, pid := range propertyIDs {
		p.propertyIDs[pid] = struct{}{}
	}
	for _, m := range media {
		p.media[m.MediaID] = m
		p.mediaToRemove[m.MediaID] = struct{}{}
	}
	for _, tr := range translations {
		p.translations[tr.LanguageID()] = tr
	}
	return p
}

func (p *Product) ID() string    { return p.id }
func (p *Product) SetID(id string) { p.id = id }

// IsDirty reports whether the root snapshot or any translation changed.
func (p *Product) IsDirty() bool {
	if p.dirty {
		return true
	}
	for _, tr := range p.translations {
		if tr.IsDirty() {
			return true
		}
	}
	return false
}

func (p *Product) SKU() string { return p.sku }
func (p *Product) SetSKU(sku string) {
	if apply(&p.sku, sku) {
		p.dirty = true
	}
}

func (p *Product) Name() *string { return p.name }
func (p *Product) SetName(name *string) {
	if applyPtr(&p.name, name) {
		p.dirty = true
	}
}

func (p *Product) Active() bool { return p.active }
func (p *Product) SetActive(active bool) {
	if apply(&p.active, active) {
		p.dirty = true
	}
}

func (p *Product) Stock() *int { return p.stock }
func (p *Product) SetStock(stock *int) {
	if applyPtr(&p.stock, stock) {
		p.dirty = true
	}
}

func (p *Product) TaxID() *string { return p.taxID }
func (p *Product) SetTaxID(taxID *string) {
	if applyPtr(&p.taxID, taxID) {
		p.dirty = true
	}
}

func (p *Product) Price() *Price { return p.price }
func (p *Product) SetPrice(price *Price) {
	if p.price == nil && price == nil {
		return
	}
	if p.price != nil && price != nil && p.price.equal(*price) {
		return
	}
	p.price = price
	p.dirty = true
}

func (p *Product) Description() *string { return p.description }
func (p *Product) SetDescription(description *string) {
	if applyPtr(&p.description, description) {
		p.dirty = true
	}
}

func (p *Product) Keywords() *string { return p.keywords }
func (p *Product) SetKeywords(keywords *string) {
	if applyPtr(&p.keywords, keywords) {
		p.dirty = true
	}
}

func (p *Product) MetaTitle() *string { return p.metaTitle }
func (p *Product) SetMetaTitle(metaTitle *string) {
	if applyPtr(&p.metaTitle, metaTitle) {
		p.dirty = true
	}
}

func (p *Product) MetaDescription() *string { return p.metaDescription }
func (p *Product) SetMetaDescription(metaDescription *string) {
	if applyPtr(&p.metaDescription, metaDescription) {
		p.dirty = true
	}
}

// CategoryIDs returns the assigned remote category ids, sorted.
func (p *Product) CategoryIDs() []string { return sortedKeys(p.categoryIDs) }

// AddCategoryID assigns a remote category, dirtying only on a new entry.
func (p *Product) AddCategoryID(id string) {
	if _, ok := p.categoryIDs[id]; ok {
		return
	}
	p.categoryIDs[id] = struct{}{}
	p.dirty = true
}

// PropertyIDs returns the assigned property-group option ids, sorted.
func (p *Product) PropertyIDs() []string { return sortedKeys(p.propertyIDs) }

// AddPropertyID assigns a property option, dirtying only on a new entry.
func (p *Product) AddPropertyID(id string) {
	if _, ok := p.propertyIDs[id]; ok {
		return
	}
	p.propertyIDs[id] = struct{}{}
	p.dirty = true
}

func (p *Product) CustomFields() CustomFieldValues { return p.customFields }

// AddCustomField updates one custom field in place; nil clears the field.
func (p *Product) AddCustomField(fieldID string, value any) {
	if p.customFields.set(fieldID, value) {
		p.dirty = true
	}
}

// HasCustomField reports whether the field id is present.
func (p *Product) HasCustomField(fieldID string) bool {
	return p.customFields.Has(fieldID)
}

// HasMedia reports whether the gallery references the remote media id.
func (p *Product) HasMedia(mediaID string) bool {
	_, ok := p.media[mediaID]
	return ok
}

// AddMedia appends a gallery entry, dirtying only on a new media id.
func (p *Product) AddMedia(m ProductMedia) {
	if _, ok := p.media[m.MediaID]; ok {
		p.ConfirmMedia(m.MediaID)
		return
	}
	p.media[m.MediaID] = m
	p.dirty = true
}

// ConfirmMedia keeps a hydrated gallery entry that would otherwise be removed.
func (p *Product) ConfirmMedia(mediaID string) {
	delete(p.mediaToRemove, mediaID)
}

// MediaToRemove returns the gallery entries hydrated from the remote state
// that no mapper re-confirmed, sorted by media id.
func (p *Product) MediaToRemove() []ProductMedia {
	out := make([]ProductMedia, 0, len(p.mediaToRemove))
	for id := range p.mediaToRemove {
		out = append(out, p.media[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MediaID < out[j].MediaID })
	return out
}

// HasRemovals reports whether any hydrated gallery entry lost confirmation.
// An update call is needed even when nothing else changed.
func (p *Product) HasRemovals() bool { return len(p.mediaToRemove) > 0 }

// Media returns the confirmed gallery entries ordered by position.
func (p *Product) Media() []ProductMedia {
	out := make([]ProductMedia, 0, len(p.media))
	for id, m := range p.media {
		if _, removed := p.mediaToRemove[id]; removed {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func (p *Product) CoverID() *string { return p.coverID }
func (p *Product) SetCoverID(coverID *string) {
	if applyPtr(&p.coverID, coverID) {
		p.dirty = true
	}
}

// SeoURLs returns the mapped SEO paths.
func (p *Product) SeoURLs() []SeoURL { return p.seoURLs }

// AddSeoURL replaces the entry for the same sales channel, dirtying only on
// an actual change.
func (p *Product) AddSeoURL(u SeoURL) {
	for i, existing := range p.seoURLs {
		if existing.SalesChannelID != u.SalesChannelID {
			continue
		}
		u.ID = existing.ID
		if existing == u {
			return
		}
		p.seoURLs[i] = u
		p.dirty = true
		return
	}
	p.seoURLs = append(p.seoURLs, u)
	p.dirty = true
}

// Translation returns the translation slot for the language id, or nil.
func (p *Product) Translation(languageID string) *ProductTranslation {
	return p.translations[languageID]
}

// TranslationLanguages returns the language ids carrying a translation slot.
func (p *Product) TranslationLanguages() []string {
	out := make([]string, 0, len(p.translations))
	for lang := range p.translations {
		out = append(out, lang)
	}
	return out
}

// TranslatedView projects the snapshot into a per-language view; see
// Category.TranslatedView.
func (p *Product) TranslatedView(languageID string) *Product {
	view := NewProduct()
	view.id = p.id
	view.sku = p.sku
	view.active = p.active
	view.stock = p.stock
	view.taxID = p.taxID
	view.price = p.price
	view.coverID = p.coverID
	for cid := range p.categoryIDs {
		view.categoryIDs[cid] = struct{}{}
	}
	for pid := range p.propertyIDs {
		view.propertyIDs[pid] = struct{}{}
	}
	for id, m := range p.media {
		view.media[id] = m
	}
	if tr, ok := p.translations[languageID]; ok {
		view.name = tr.name
		view.description = tr.description
		view.keywords = tr.keywords
		view.metaTitle = tr.metaTitle
		view.metaDescription = tr.metaDescription
		view.customFields = tr.customFields.clone()
	}
	return view
}

// MergeTranslatedView writes the view's translatable fields back into the
// language slot; see Category.MergeTranslatedView.
func (p *Product) MergeTranslatedView(view *Product, languageID string) {
	merged := &ProductTranslation{
		languageID:      languageID,
		name:            view.name,
		description:     view.description,
		keywords:        view.keywords,
		metaTitle:       view.metaTitle,
		metaDescription: view.metaDescription,
		customFields:    view.customFields.clone(),
	}
	if existing, ok := p.translations[languageID]; ok {
		if existing.contentEquals(merged) {
			return
		}
		merged.id = existing.id
	}
	merged.dirty = true
	p.translations[languageID] = merged
}

// RetainTranslations nulls out translations for languages not in keep; the
// translation set is closed-world per run.
func (p *Product) RetainTranslations(keep []string) {
	keepSet := make(map[string]struct{}, len(keep))
	for _, lang := range keep {
		keepSet[lang] = struct{}{}
	}
	for lang, tr := range p.translations {
		if _, ok := keepSet[lang]; ok {
			continue
		}
		tr.clear()
	}
}

// MarshalJSON renders the update/create payload expected by the remote API.
func (p *Product) MarshalJSON() ([]byte, error) {
	data := map[string]any{
		"productNumber": p.sku,
		"active":        p.active,
	}
	if p.name != nil {
		data["name"] = p.name
	}
	if p.stock != nil {
		data["stock"] = p.stock
	}
	if p.taxID != nil {
		data["taxId"] = p.taxID
	}
	if p.price != nil {
		data["price"] = []map[string]any{{
			"currencyId": p.price.CurrencyID,
			"gross":      p.price.Gross,
			"net":        p.price.Net,
			"linked":     p.price.Linked,
		}}
	}
	if len(p.categoryIDs) > 0 {
		categories := make([]map[string]string, 0, len(p.categoryIDs))
		for _, id := range p.CategoryIDs() {
			categories = append(categories, map[string]string{"id": id})
		}
		data["categories"] = categories
	}
	if len(p.propertyIDs) > 0 {
		properties := make([]map[string]string, 0, len(p.propertyIDs))
		for _, id := range p.PropertyIDs() {
			properties = append(properties, map[string]string{"id": id})
		}
		data["properties"] = properties
	}
	if media := p.Media(); len(media) > 0 {
		entries := make([]map[string]any, 0, len(media))
		for _, m := range media {
			entry := map[string]any{
				"mediaId":  m.MediaID,
				"position": m.Position,
			}
			if m.ID != "" {
				entry["id"] = m.ID
			}
			entries = append(entries, entry)
		}
		data["media"] = entries
	}
	if p.coverID != nil {
		data["coverId"] = p.coverID
	}
	if p.customFields != nil {
		data["customFields"] = p.customFields
	}
	if len(p.seoURLs) > 0 {
		urls := make([]map[string]any, 0, len(p.seoURLs))
		for _, u := range p.seoURLs {
			urls = append(urls, u.payload())
		}
		data["seoUrls"] = urls
	}
	if len(p.translations) > 0 {
		translations := map[string]any{}
		for lang, tr := range p.translations {
			translations[lang] = tr.payload()
		}
		data["translations"] = translations
	}
	return json.Marshal(data)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
