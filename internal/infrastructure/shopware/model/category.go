package model

import "encoding/json"

// Category mirrors a remote category resource. The zero value from
// NewCategory is an unsaved, clean snapshot; clients hydrate existing remote
// state through HydrateCategory so mapping starts from a clean baseline.
type Category struct {
	id              string
	name            *string
	parentID        *string
	active          bool
	visible         bool
	customFields    CustomFieldValues
	description     *string
	mediaID         *string
	metaTitle       *string
	metaDescription *string
	keywords        *string
	translations    map[string]*CategoryTranslation
	dirty           bool
}

// NewCategory creates an empty snapshot for a category that does not exist
// remotely yet.
func NewCategory() *Category {
	return &Category{
		active:       true,
		visible:      true,
		translations: map[string]*CategoryTranslation{},
	}
}

// HydrateCategory rebuilds a snapshot from a remote read. The result is
// clean: only subsequent mapping changes flip the dirty flag.
func HydrateCategory(id string, name, parentID *string, active, visible bool, customFields CustomFieldValues, description, mediaID, metaTitle, metaDescription, keywords *string, translations []*CategoryTranslation) *Category {
	c := &Category{
		id:              id,
		name:            name,
		parentID:        parentID,
		active:          active,
		visible:         visible,
		customFields:    customFields,
		description:     description,
		mediaID:         mediaID,
		metaTitle:       metaTitle,
		metaDescription: metaDescription,
		keywords:        keywords,
		translations:    map[string]*CategoryTranslation{},
	}
	for _, tr := range translations {
		c.translations[tr.LanguageID()] = tr
	}
	return c
}

// ID returns the remote id, empty until the first create.
func (c *Category) ID() string { return c.id }

// SetID records the remote id after creation without dirtying the snapshot.
func (c *Category) SetID(id string) { c.id = id }

// IsDirty reports whether the root snapshot or any translation changed.
func (c *Category) IsDirty() bool {
	if c.dirty {
		return true
	}
	for _, tr := range c.translations {
		if tr.IsDirty() {
			return true
		}
	}
	return false
}

func (c *Category) Name() *string { return c.name }
func (c *Category) SetName(name *string) {
	if applyPtr(&c.name, name) {
		c.dirty = true
	}
}

func (c *Category) ParentID() *string { return c.parentID }
func (c *Category) SetParentID(parentID *string) {
	if applyPtr(&c.parentID, parentID) {
		c.dirty = true
	}
}

func (c *Category) Active() bool { return c.active }
func (c *Category) SetActive(active bool) {
	if apply(&c.active, active) {
		c.dirty = true
	}
}

func (c *Category) Visible() bool { return c.visible }
func (c *Category) SetVisible(visible bool) {
	if apply(&c.visible, visible) {
		c.dirty = true
	}
}

func (c *Category) Description() *string { return c.description }
func (c *Category) SetDescription(description *string) {
	if applyPtr(&c.description, description) {
		c.dirty = true
	}
}

func (c *Category) MediaID() *string { return c.mediaID }
func (c *Category) SetMediaID(mediaID *string) {
	if applyPtr(&c.mediaID, mediaID) {
		c.dirty = true
	}
}

func (c *Category) MetaTitle() *string { return c.metaTitle }
func (c *Category) SetMetaTitle(metaTitle *string) {
	if applyPtr(&c.metaTitle, metaTitle) {
		c.dirty = true
	}
}

func (c *Category) MetaDescription() *string { return c.metaDescription }
func (c *Category) SetMetaDescription(metaDescription *string) {
	if applyPtr(&c.metaDescription, metaDescription) {
		c.dirty = true
	}
}

func (c *Category) Keywords() *string { return c.keywords }
func (c *Category) SetKeywords(keywords *string) {
	if applyPtr(&c.keywords, keywords) {
		c.dirty = true
	}
}

func (c *Category) CustomFields() CustomFieldValues { return c.customFields }

// AddCustomField updates one custom field in place; an explicit nil clears
// the field remotely while leaving the others untouched.
func (c *Category) AddCustomField(fieldID string, value any) {
	if c.customFields.set(fieldID, value) {
		c.dirty = true
	}
}

// HasCustomField reports whether the field id is present.
func (c *Category) HasCustomField(fieldID string) bool {
	return c.customFields.Has(fieldID)
}

// Translation returns the translation slot for the language id, or nil.
func (c *Category) Translation(languageID string) *CategoryTranslation {
	return c.translations[languageID]
}

// TranslationLanguages returns the language ids carrying a translation slot.
func (c *Category) TranslationLanguages() []string {
	out := make([]string, 0, len(c.translations))
	for lang := range c.translations {
		out = append(out, lang)
	}
	return out
}

// TranslatedView projects the snapshot into a throwaway per-language view:
// shared fields are copied as-is, translatable fields come from the language
// slot. Mappers run over the view exactly as over the root snapshot.
func (c *Category) TranslatedView(languageID string) *Category {
	view := &Category{
		id:           c.id,
		parentID:     c.parentID,
		active:       c.active,
		visible:      c.visible,
		mediaID:      c.mediaID,
		translations: map[string]*CategoryTranslation{},
	}
	if tr, ok := c.translations[languageID]; ok {
		view.name = tr.name
		view.customFields = tr.customFields.clone()
		view.description = tr.description
		view.metaTitle = tr.metaTitle
		view.metaDescription = tr.metaDescription
		view.keywords = tr.keywords
	}
	return view
}

// MergeTranslatedView writes the view's translatable fields back into the
// language slot, replacing or creating the translation. The snapshot is
// dirtied only when the merged content differs from what was stored.
func (c *Category) MergeTranslatedView(view *Category, languageID string) {
	merged := &CategoryTranslation{
		languageID:      languageID,
		name:            view.name,
		customFields:    view.customFields.clone(),
		description:     view.description,
		metaTitle:       view.metaTitle,
		metaDescription: view.metaDescription,
		keywords:        view.keywords,
	}
	if existing, ok := c.translations[languageID]; ok {
		if existing.contentEquals(merged) {
			return
		}
		merged.id = existing.id
	}
	merged.dirty = true
	c.translations[languageID] = merged
}

// RetainTranslations nulls out the content of every translation whose
// language is not in keep. The translation set is closed-world per run:
// a language dropped from the channel must be cleared remotely, not left
// stale.
func (c *Category) RetainTranslations(keep []string) {
	keepSet := make(map[string]struct{}, len(keep))
	for _, lang := range keep {
		keepSet[lang] = struct{}{}
	}
	for lang, tr := range c.translations {
		if _, ok := keepSet[lang]; ok {
			continue
		}
		tr.clear()
	}
}

// MarshalJSON renders the update/create payload expected by the remote API.
func (c *Category) MarshalJSON() ([]byte, error) {
	data := map[string]any{
		"name":    c.name,
		"active":  c.active,
		"visible": c.visible,
	}
	if c.parentID != nil {
		data["parentId"] = c.parentID
	}
	if c.mediaID != nil {
		data["mediaId"] = c.mediaID
	}
	if c.metaTitle != nil {
		data["metaTitle"] = c.metaTitle
	}
	if c.metaDescription != nil {
		data["metaDescription"] = c.metaDescription
	}
	if c.keywords != nil {
		data["keywords"] = c.keywords
	}
	if c.description != nil {
		data["description"] = c.description
	}
	if len(c.translations) > 0 {
		translations := map[string]any{}
		for lang, tr := range c.translations {
			translations[lang] = tr.payload()
		}
		data["translations"] = translations
	}
	return json.Marshal(data)
}
