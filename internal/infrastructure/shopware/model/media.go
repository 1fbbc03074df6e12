package model

import "encoding/json"

// MediaTranslation is the per-language alt/title pair of a remote media.
type MediaTranslation struct {
	ID         string
	LanguageID string
	Alt        *string
	Title      *string
}

func (t MediaTranslation) isEmpty() bool {
	return t.Alt == nil && t.Title == nil
}

func (t MediaTranslation) contentEquals(other MediaTranslation) bool {
	return ptrEq(t.Alt, other.Alt) && ptrEq(t.Title, other.Title)
}

// Media mirrors a remote media resource: the derived filename plus its
// translation set.
type Media struct {
	id           string
	fileName     *string
	translations map[string]MediaTranslation
	dirty        bool
}

// NewMedia creates a snapshot for a known remote media id. fileName may be
// nil when only translations are updated.
func NewMedia(id string, fileName *string) *Media {
	return &Media{id: id, fileName: fileName, translations: map[string]MediaTranslation{}}
}

func (m *Media) ID() string        { return m.id }
func (m *Media) FileName() *string { return m.fileName }
func (m *Media) IsDirty() bool     { return m.dirty }

// Translations returns the current translation set keyed by language id.
func (m *Media) Translations() map[string]MediaTranslation { return m.translations }

// SetTranslations replaces the set from a remote read without dirtying.
func (m *Media) SetTranslations(translations []MediaTranslation) {
	m.translations = make(map[string]MediaTranslation, len(translations))
	for _, tr := range translations {
		m.translations[tr.LanguageID] = tr
	}
}

// UpdateTranslations merges the given set and clears every previously
// populated language that is absent from it. The translation set is
// closed-world: a language dropped at the source must be nulled remotely,
// not left stale.
func (m *Media) UpdateTranslations(translations []MediaTranslation) {
	confirmed := make(map[string]struct{}, len(translations))
	for _, tr := range translations {
		confirmed[tr.LanguageID] = struct{}{}
		if existing, ok := m.translations[tr.LanguageID]; ok {
			if existing.contentEquals(tr) {
				continue
			}
			tr.ID = existing.ID
		}
		m.translations[tr.LanguageID] = tr
		m.dirty = true
	}
	for lang, existing := range m.translations {
		if _, ok := confirmed[lang]; ok {
			continue
		}
		if existing.isEmpty() {
			continue
		}
		m.translations[lang] = MediaTranslation{ID: existing.ID, LanguageID: existing.LanguageID}
		m.dirty = true
	}
}

// MarshalJSON renders the patch payload.
func (m *Media) MarshalJSON() ([]byte, error) {
	data := map[string]any{}
	if m.fileName != nil {
		data["fileName"] = m.fileName
	}
	if len(m.translations) > 0 {
		translations := map[string]any{}
		for lang, tr := range m.translations {
			translations[lang] = map[string]any{"alt": tr.Alt, "title": tr.Title}
		}
		data["translations"] = translations
	}
	return json.Marshal(data)
}

// MediaFolder is a remote media default folder reference, cached per run.
type MediaFolder struct {
	ID            string
	MediaFolderID string
	Entity        string
}

// Language is the remote representation of a configured language: the remote
// language id plus its locale code (e.g. "de-DE") and ISO code (e.g. "de").
type Language struct {
	ID       string
	Name     string
	LocaleID string
	ISO      string
}
