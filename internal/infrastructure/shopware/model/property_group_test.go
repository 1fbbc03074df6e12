package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyGroup_DirtyTracking(t *testing.T) {
	t.Run("new group carries remote defaults", func(t *testing.T) {
		g := NewPropertyGroup()
		assert.False(t, g.IsDirty())
	})

	t.Run("hydrated group stays clean on identical values", func(t *testing.T) {
		g := HydratePropertyGroup("pg-1", strPtr("Color"), "text", "alphanumeric", map[string]*string{"lang-de": strPtr("Farbe")})
		g.SetName(strPtr("Color"))
		g.SetTranslatedName("lang-de", strPtr("Farbe"))
		assert.False(t, g.IsDirty())
	})

	t.Run("changed translated name dirties", func(t *testing.T) {
		g := HydratePropertyGroup("pg-1", strPtr("Color"), "", "", map[string]*string{"lang-de": strPtr("Farbe")})
		g.SetTranslatedName("lang-de", strPtr("Farbton"))
		assert.True(t, g.IsDirty())
		assert.Equal(t, strPtr("Farbton"), g.TranslatedName("lang-de"))
	})

	t.Run("new language slot dirties", func(t *testing.T) {
		g := HydratePropertyGroup("pg-1", strPtr("Color"), "", "", nil)
		g.SetTranslatedName("lang-pl", strPtr("Kolor"))
		assert.True(t, g.IsDirty())
	})
}

func TestPropertyGroup_MarshalJSON(t *testing.T) {
	g := NewPropertyGroup()
	g.SetName(strPtr("Color"))
	g.SetTranslatedName("lang-de", strPtr("Farbe"))

	raw, err := json.Marshal(g)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "Color", payload["name"])
	assert.Equal(t, "text", payload["displayType"])
	assert.Equal(t, "alphanumeric", payload["sortingType"])
	assert.NotContains(t, payload, "id")

	translations, ok := payload["translations"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"name": "Farbe"}, translations["lang-de"])
}

func TestPropertyGroupOption_DirtyTracking(t *testing.T) {
	t.Run("hydrated option stays clean on identical values", func(t *testing.T) {
		o := HydratePropertyGroupOption("opt-1", "pg-1", strPtr("Red"), nil, intPtr(1), map[string]*string{"lang-de": strPtr("Rot")})
		o.SetName(strPtr("Red"))
		o.SetGroupID("pg-1")
		o.SetPosition(intPtr(1))
		o.SetTranslatedName("lang-de", strPtr("Rot"))
		assert.False(t, o.IsDirty())
	})

	t.Run("changed position dirties", func(t *testing.T) {
		o := HydratePropertyGroupOption("opt-1", "pg-1", strPtr("Red"), nil, intPtr(1), nil)
		o.SetPosition(intPtr(2))
		assert.True(t, o.IsDirty())
	})

	t.Run("request key does not dirty", func(t *testing.T) {
		o := HydratePropertyGroupOption("opt-1", "pg-1", strPtr("Red"), nil, nil, nil)
		o.SetRequestKey("attr-1_opt-1")
		assert.False(t, o.IsDirty())
		assert.Equal(t, "attr-1_opt-1", o.RequestKey())
	})
}

func TestPropertyGroupOption_MarshalJSON(t *testing.T) {
	o := NewPropertyGroupOption()
	o.SetGroupID("pg-1")
	o.SetName(strPtr("Red"))
	o.SetMediaID(strPtr("media-1"))
	o.SetTranslatedName("lang-de", strPtr("Rot"))

	raw, err := json.Marshal(o)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "Red", payload["name"])
	assert.Equal(t, "pg-1", payload["groupId"])
	assert.Equal(t, "media-1", payload["mediaId"])
	assert.NotContains(t, payload, "id")
	assert.NotContains(t, payload, "position")
}
