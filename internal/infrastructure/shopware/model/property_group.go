package model

import "encoding/json"

// PropertyGroup mirrors a remote property group (the choice-list container
// an option attribute exports into).
type PropertyGroup struct {
	id           string
	name         *string
	displayType  string
	sortingType  string
	translations map[string]*PropertyGroupTranslation
	dirty        bool
}

// PropertyGroupTranslation is the per-language name of a property group.
type PropertyGroupTranslation struct {
	languageID string
	name       *string
	dirty      bool
}

func (t *PropertyGroupTranslation) LanguageID() string { return t.languageID }
func (t *PropertyGroupTranslation) Name() *string      { return t.name }
func (t *PropertyGroupTranslation) IsDirty() bool      { return t.dirty }

// NewPropertyGroup creates an empty snapshot with the remote defaults.
func NewPropertyGroup() *PropertyGroup {
	return &PropertyGroup{
		displayType:  "text",
		sortingType:  "alphanumeric",
		translations: map[string]*PropertyGroupTranslation{},
	}
}

// HydratePropertyGroup rebuilds a clean snapshot from a remote read.
func HydratePropertyGroup(id string, name *string, displayType, sortingType string, translations map[string]*string) *PropertyGroup {
	g := NewPropertyGroup()
	g.id = id
	g.name = name
	if displayType != "" {
		g.displayType = displayType
	}
	if sortingType != "" {
		g.sortingType = sortingType
	}
	for lang, trName := range translations {
		g.translations[lang] = &PropertyGroupTranslation{languageID: lang, name: trName}
	}
	return g
}

func (g *PropertyGroup) ID() string      { return g.id }
func (g *PropertyGroup) SetID(id string) { g.id = id }

func (g *PropertyGroup) Name() *string { return g.name }
func (g *PropertyGroup) SetName(name *string) {
	if applyPtr(&g.name, name) {
		g.dirty = true
	}
}

// SetTranslatedName sets the per-language group name, dirtying on change.
func (g *PropertyGroup) SetTranslatedName(languageID string, name *string) {
	tr, ok := g.translations[languageID]
	if !ok {
		tr = &PropertyGroupTranslation{languageID: languageID}
		g.translations[languageID] = tr
	}
	if applyPtr(&tr.name, name) {
		tr.dirty = true
	}
}

// TranslatedName returns the per-language group name, or nil.
func (g *PropertyGroup) TranslatedName(languageID string) *string {
	if tr, ok := g.translations[languageID]; ok {
		return tr.name
	}
	return nil
}

// IsDirty reports whether the group or any translation changed.
func (g *PropertyGroup) IsDirty() bool {
	if g.dirty {
		return true
	}
	for _, tr := range g.translations {
		if tr.dirty {
			return true
		}
	}
	return false
}

// MarshalJSON renders the create/update payload.
func (g *PropertyGroup) MarshalJSON() ([]byte, error) {
	data := map[string]any{
		"name":        g.name,
		"displayType": g.displayType,
		"sortingType": g.sortingType,
	}
	if g.id != "" {
		data["id"] = g.id
	}
	if len(g.translations) > 0 {
		translations := map[string]any{}
		for lang, tr := range g.translations {
			translations[lang] = map[string]any{"name": tr.name}
		}
		data["translations"] = translations
	}
	return json.Marshal(data)
}

// PropertyGroupOption mirrors one option of a remote property group.
// RequestKey is the batch correlation token `{attributeId}_{optionId}`.
type PropertyGroupOption struct {
	id           string
	groupID      string
	name         *string
	mediaID      *string
	position     *int
	translations map[string]*PropertyGroupTranslation
	requestKey   string
	dirty        bool
}

// NewPropertyGroupOption creates an empty snapshot.
func NewPropertyGroupOption() *PropertyGroupOption {
	return &PropertyGroupOption{translations: map[string]*PropertyGroupTranslation{}}
}

// HydratePropertyGroupOption rebuilds a clean snapshot from a remote read.
func HydratePropertyGroupOption(id, groupID string, name, mediaID *string, position *int, translations map[string]*string) *PropertyGroupOption {
	o := NewPropertyGroupOption()
	o.id = id
	o.groupID = groupID
	o.name = name
	o.mediaID = mediaID
	o.position = position
	for lang, trName := range translations {
		o.translations[lang] = &PropertyGroupTranslation{languageID: lang, name: trName}
	}
	return o
}

func (o *PropertyGroupOption) ID() string      { return o.id }
func (o *PropertyGroupOption) SetID(id string) { o.id = id }

func (o *PropertyGroupOption) GroupID() string { return o.groupID }
func (o *PropertyGroupOption) SetGroupID(groupID string) {
	if apply(&o.groupID, groupID) {
		o.dirty = true
	}
}

func (o *PropertyGroupOption) Name() *string { return o.name }
func (o *PropertyGroupOption) SetName(name *string) {
	if applyPtr(&o.name, name) {
		o.dirty = true
	}
}

func (o *PropertyGroupOption) MediaID() *string { return o.mediaID }
func (o *PropertyGroupOption) SetMediaID(mediaID *string) {
	if applyPtr(&o.mediaID, mediaID) {
		o.dirty = true
	}
}

func (o *PropertyGroupOption) Position() *int { return o.position }
func (o *PropertyGroupOption) SetPosition(position *int) {
	if applyPtr(&o.position, position) {
		o.dirty = true
	}
}

// SetTranslatedName sets the per-language option name, dirtying on change.
func (o *PropertyGroupOption) SetTranslatedName(languageID string, name *string) {
	tr, ok := o.translations[languageID]
	if !ok {
		tr = &PropertyGroupTranslation{languageID: languageID}
		o.translations[languageID] = tr
	}
	if applyPtr(&tr.name, name) {
		tr.dirty = true
	}
}

// TranslatedName returns the per-language option name, or nil.
func (o *PropertyGroupOption) TranslatedName(languageID string) *string {
	if tr, ok := o.translations[languageID]; ok {
		return tr.name
	}
	return nil
}

func (o *PropertyGroupOption) RequestKey() string       { return o.requestKey }
func (o *PropertyGroupOption) SetRequestKey(key string) { o.requestKey = key }

// IsDirty reports whether the option or any translation changed.
func (o *PropertyGroupOption) IsDirty() bool {
	if o.dirty {
		return true
	}
	for _, tr := range o.translations {
		if tr.dirty {
			return true
		}
	}
	return false
}

// MarshalJSON renders the create/update payload.
func (o *PropertyGroupOption) MarshalJSON() ([]byte, error) {
	data := map[string]any{
		"name":    o.name,
		"groupId": o.groupID,
	}
	if o.id != "" {
		data["id"] = o.id
	}
	if o.mediaID != nil {
		data["mediaId"] = o.mediaID
	}
	if o.position != nil {
		data["position"] = o.position
	}
	if len(o.translations) > 0 {
		translations := map[string]any{}
		for lang, tr := range o.translations {
			translations[lang] = map[string]any{"name": tr.name}
		}
		data["translations"] = translations
	}
	return json.Marshal(data)
}
