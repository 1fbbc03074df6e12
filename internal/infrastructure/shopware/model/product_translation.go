package model

// ProductTranslation is the language-scoped subset of a product snapshot.
type ProductTranslation struct {
	id              string
	languageID      string
	name            *string
	description     *string
	keywords        *string
	metaTitle       *string
	metaDescription *string
	customFields    CustomFieldValues
	dirty           bool
}

// NewProductTranslation creates a translation slot for the language id.
func NewProductTranslation(languageID string) *ProductTranslation {
	return &ProductTranslation{languageID: languageID}
}

// HydrateProductTranslation rebuilds a clean translation from a remote read.
func HydrateProductTranslation(id, languageID string, name, description, keywords, metaTitle, metaDescription *string, customFields CustomFieldValues) *ProductTranslation {
	return &ProductTranslation{
		id:              id,
		languageID:      languageID,
		name:            name,
		description:     description,
		keywords:        keywords,
		metaTitle:       metaTitle,
		metaDescription: metaDescription,
		customFields:    customFields,
	}
}

func (t *ProductTranslation) ID() string         { return t.id }
func (t *ProductTranslation) LanguageID() string { return t.languageID }
func (t *ProductTranslation) IsDirty() bool      { return t.dirty }

func (t *ProductTranslation) Name() *string { return t.name }
func (t *ProductTranslation) SetName(name *string) {
	if applyPtr(&t.name, name) {
		t.dirty = true
	}
}

func (t *ProductTranslation) Description() *string { return t.description }
func (t *ProductTranslation) SetDescription(description *string) {
	if applyPtr(&t.description, description) {
		t.dirty = true
	}
}

func (t *ProductTranslation) Keywords() *string { return t.keywords }
func (t *ProductTranslation) SetKeywords(keywords *string) {
	if applyPtr(&t.keywords, keywords) {
		t.dirty = true
	}
}

func (t *ProductTranslation) MetaTitle() *string { return t.metaTitle }
func (t *ProductTranslation) SetMetaTitle(metaTitle *string) {
	if applyPtr(&t.metaTitle, metaTitle) {
		t.dirty = true
	}
}

func (t *ProductTranslation) MetaDescription() *string { return t.metaDescription }
func (t *ProductTranslation) SetMetaDescription(metaDescription *string) {
	if applyPtr(&t.metaDescription, metaDescription) {
		t.dirty = true
	}
}

func (t *ProductTranslation) CustomFields() CustomFieldValues { return t.customFields }

// AddCustomField updates one custom field in place; nil clears the field.
func (t *ProductTranslation) AddCustomField(fieldID string, value any) {
	if t.customFields.set(fieldID, value) {
		t.dirty = true
	}
}

func (t *ProductTranslation) isEmpty() bool {
	return t.name == nil && t.description == nil && t.keywords == nil &&
		t.metaTitle == nil && t.metaDescription == nil && len(t.customFields) == 0
}

func (t *ProductTranslation) contentEquals(other *ProductTranslation) bool {
	return ptrEq(t.name, other.name) &&
		ptrEq(t.description, other.description) &&
		ptrEq(t.keywords, other.keywords) &&
		ptrEq(t.metaTitle, other.metaTitle) &&
		ptrEq(t.metaDescription, other.metaDescription) &&
		t.customFields.equal(other.customFields)
}

func (t *ProductTranslation) clear() bool {
	if t.isEmpty() {
		return false
	}
	t.name = nil
	t.description = nil
	t.keywords = nil
	t.metaTitle = nil
	t.metaDescription = nil
	t.customFields = nil
	t.dirty = true
	return true
}

func (t *ProductTranslation) payload() map[string]any {
	data := map[string]any{
		"name":       t.name,
		"languageId": t.languageID,
	}
	if t.description != nil {
		data["description"] = t.description
	}
	if t.keywords != nil {
		data["keywords"] = t.keywords
	}
	if t.metaTitle != nil {
		data["metaTitle"] = t.metaTitle
	}
	if t.metaDescription != nil {
		data["metaDescription"] = t.metaDescription
	}
	if t.customFields != nil {
		data["customFields"] = t.customFields
	}
	return data
}
