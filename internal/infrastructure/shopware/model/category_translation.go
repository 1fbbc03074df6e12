package model

// CategoryTranslation is the language-scoped subset of a category snapshot.
type CategoryTranslation struct {
	id              string
	languageID      string
	name            *string
	customFields    CustomFieldValues
	description     *string
	metaTitle       *string
	metaDescription *string
	keywords        *string
	dirty           bool
}

// NewCategoryTranslation creates a translation slot for the given remote
// language id.
func NewCategoryTranslation(languageID string) *CategoryTranslation {
	return &CategoryTranslation{languageID: languageID}
}

// HydrateCategoryTranslation rebuilds a translation from a remote read
// without marking it dirty.
func HydrateCategoryTranslation(id, languageID string, name, description, metaTitle, metaDescription, keywords *string, customFields CustomFieldValues) *CategoryTranslation {
	return &CategoryTranslation{
		id:              id,
		languageID:      languageID,
		name:            name,
		customFields:    customFields,
		description:     description,
		metaTitle:       metaTitle,
		metaDescription: metaDescription,
		keywords:        keywords,
	}
}

func (t *CategoryTranslation) ID() string         { return t.id }
func (t *CategoryTranslation) LanguageID() string { return t.languageID }
func (t *CategoryTranslation) IsDirty() bool      { return t.dirty }

func (t *CategoryTranslation) Name() *string { return t.name }
func (t *CategoryTranslation) SetName(name *string) {
	if applyPtr(&t.name, name) {
		t.dirty = true
	}
}

func (t *CategoryTranslation) Description() *string { return t.description }
func (t *CategoryTranslation) SetDescription(description *string) {
	if applyPtr(&t.description, description) {
		t.dirty = true
	}
}

func (t *CategoryTranslation) MetaTitle() *string { return t.metaTitle }
func (t *CategoryTranslation) SetMetaTitle(metaTitle *string) {
	if applyPtr(&t.metaTitle, metaTitle) {
		t.dirty = true
	}
}

func (t *CategoryTranslation) MetaDescription() *string { return t.metaDescription }
func (t *CategoryTranslation) SetMetaDescription(metaDescription *string) {
	if applyPtr(&t.metaDescription, metaDescription) {
		t.dirty = true
	}
}

func (t *CategoryTranslation) Keywords() *string { return t.keywords }
func (t *CategoryTranslation) SetKeywords(keywords *string) {
	if applyPtr(&t.keywords, keywords) {
		t.dirty = true
	}
}

func (t *CategoryTranslation) CustomFields() CustomFieldValues { return t.customFields }

// AddCustomField updates one custom field in place; nil clears the field.
func (t *CategoryTranslation) AddCustomField(fieldID string, value any) {
	if t.customFields.set(fieldID, value) {
		t.dirty = true
	}
}

// isEmpty reports whether the translation carries no content.
func (t *CategoryTranslation) isEmpty() bool {
	return t.name == nil && t.description == nil && t.metaTitle == nil &&
		t.metaDescription == nil && t.keywords == nil && len(t.customFields) == 0
}

// contentEquals compares translatable content, ignoring id and dirty state.
func (t *CategoryTranslation) contentEquals(other *CategoryTranslation) bool {
	return ptrEq(t.name, other.name) &&
		ptrEq(t.description, other.description) &&
		ptrEq(t.metaTitle, other.metaTitle) &&
		ptrEq(t.metaDescription, other.metaDescription) &&
		ptrEq(t.keywords, other.keywords) &&
		t.customFields.equal(other.customFields)
}

// clear nulls every translatable field, reporting whether content was lost.
func (t *CategoryTranslation) clear() bool {
	if t.isEmpty() {
		return false
	}
	t.name = nil
	t.description = nil
	t.metaTitle = nil
	t.metaDescription = nil
	t.keywords = nil
	t.customFields = nil
	t.dirty = true
	return true
}

func (t *CategoryTranslation) payload() map[string]any {
	data := map[string]any{
		"name":       t.name,
		"languageId": t.languageID,
	}
	if t.customFields != nil {
		data["customFields"] = t.customFields
	}
	if t.description != nil {
		data["description"] = t.description
	}
	if t.metaTitle != nil {
		data["metaTitle"] = t.metaTitle
	}
	if t.metaDescription != nil {
		data["metaDescription"] = t.metaDescription
	}
	if t.keywords != nil {
		data["keywords"] = t.keywords
	}
	return data
}

func ptrEq[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
