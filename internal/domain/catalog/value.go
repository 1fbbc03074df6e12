package catalog

// TranslatedString is a per-language string map, e.g. {"en": "...", "de": "..."}.
type TranslatedString map[string]string

// Get returns the value for lang, falling back to fallback, then empty.
func (t TranslatedString) Get(lang, fallback string) string {
	if v, ok := t[lang]; ok && v != "" {
		return v
	}
	if v, ok := t[fallback]; ok {
		return v
	}
	return ""
}

// Has reports whether a non-empty value exists for lang.
func (t TranslatedString) Has(lang string) bool {
	v, ok := t[lang]
	return ok && v != ""
}

// Languages returns the language codes that carry a non-empty value.
func (t TranslatedString) Languages() []string {
	out := make([]string, 0, len(t))
	for lang, v := range t {
		if v != "" {
			out = append(out, lang)
		}
	}
	return out
}

// Value is one attribute value of a product. Global-scope attributes store a
// single value list; local-scope attributes store one list per language.
// Lists have one element for scalar attributes and many for multi-valued ones
// (multiselect, gallery).
type Value struct {
	Global     []string
	ByLanguage map[string][]string
}

// Resolve applies translation inheritance: global values win for ScopeGlobal
// attributes, otherwise the language-specific list is used with no fallback
// across languages. A nil return means the attribute carries no value for the
// requested language.
func (v Value) Resolve(scope AttributeScope, lang string) []string {
	if scope == ScopeGlobal {
		return v.Global
	}
	if v.ByLanguage == nil {
		return nil
	}
	return v.ByLanguage[lang]
}

// ResolveFirst returns the first resolved element, or "" when empty.
func (v Value) ResolveFirst(scope AttributeScope, lang string) string {
	vals := v.Resolve(scope, lang)
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}
