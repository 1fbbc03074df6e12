package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomFieldConfig_MergeLabel(t *testing.T) {
	t.Run("new labels dirty", func(t *testing.T) {
		c := NewCustomFieldConfig()
		c.MergeLabel(map[string]string{"lang-de": "Farbe"})
		assert.True(t, c.IsDirty())
		assert.Equal(t, "Farbe", c.Label()["lang-de"])
	})

	t.Run("identical labels keep clean", func(t *testing.T) {
		c := NewCustomFieldConfig()
		c.MergeLabel(map[string]string{"lang-de": "Farbe"})
		c.dirty = false

		c.MergeLabel(map[string]string{"lang-de": "Farbe"})
		assert.False(t, c.IsDirty())
	})

	t.Run("merge keeps labels of other languages", func(t *testing.T) {
		c := NewCustomFieldConfig()
		c.MergeLabel(map[string]string{"lang-de": "Farbe"})
		c.MergeLabel(map[string]string{"lang-en": "Color"})
		assert.Equal(t, "Farbe", c.Label()["lang-de"])
		assert.Equal(t, "Color", c.Label()["lang-en"])
	})
}

func TestCustomFieldConfig_AddOption(t *testing.T) {
	t.Run("same value merges labels", func(t *testing.T) {
		c := NewCustomFieldConfig()
		c.AddOption(CustomFieldConfigOption{Value: "red", Label: map[string]string{"lang-de": "Rot"}})
		c.dirty = false

		c.AddOption(CustomFieldConfigOption{Value: "red", Label: map[string]string{"lang-en": "Red"}})

		require.Len(t, c.Options(), 1)
		assert.Equal(t, map[string]string{"lang-de": "Rot", "lang-en": "Red"}, c.Options()[0].Label)
		assert.True(t, c.IsDirty())
	})

	t.Run("identical option keeps clean", func(t *testing.T) {
		c := NewCustomFieldConfig()
		c.AddOption(CustomFieldConfigOption{Value: "red", Label: map[string]string{"lang-de": "Rot"}})
		c.dirty = false

		c.AddOption(CustomFieldConfigOption{Value: "red", Label: map[string]string{"lang-de": "Rot"}})
		assert.False(t, c.IsDirty())
		assert.Len(t, c.Options(), 1)
	})
}

func TestCustomField_DirtyTracking(t *testing.T) {
	t.Run("hydrated field is clean", func(t *testing.T) {
		f := HydrateCustomField("cf-1", "cf_color", strPtr("select"), nil, strPtr("set-1"))
		assert.False(t, f.IsDirty())
	})

	t.Run("config change dirties the field", func(t *testing.T) {
		f := HydrateCustomField("cf-1", "cf_color", strPtr("select"), nil, strPtr("set-1"))
		f.Config().SetComponentName(strPtr("sw-single-select"))
		assert.True(t, f.IsDirty())
	})

	t.Run("unchanged values keep clean", func(t *testing.T) {
		f := HydrateCustomField("cf-1", "cf_color", strPtr("select"), nil, strPtr("set-1"))
		f.SetName("cf_color")
		f.SetType(strPtr("select"))
		f.SetCustomFieldSetID(strPtr("set-1"))
		assert.False(t, f.IsDirty())
	})
}

func TestCustomField_MarshalJSON(t *testing.T) {
	f := NewCustomField()
	f.SetName("cf_color")
	f.SetType(strPtr("select"))
	f.SetCustomFieldSetID(strPtr("set-1"))
	f.Config().SetCustomFieldType(strPtr("select"))
	f.Config().AddOption(CustomFieldConfigOption{Value: "red", Label: map[string]string{"lang-de": "Rot"}})

	raw, err := json.Marshal(f)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "cf_color", payload["name"])
	assert.Equal(t, "select", payload["type"])
	assert.Equal(t, "set-1", payload["customFieldSetId"])
	assert.NotContains(t, payload, "id")

	config, ok := payload["config"].(map[string]any)
	require.True(t, ok)
	options, ok := config["options"].([]any)
	require.True(t, ok)
	require.Len(t, options, 1)
}

func TestCustomFieldSet_MarshalJSON(t *testing.T) {
	s := CustomFieldSet{
		Name:     "pim_attributes",
		Active:   true,
		Label:    map[string]string{"lang-de": "PIM"},
		Entities: []string{"product", "category"},
	}

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "pim_attributes", payload["name"])
	assert.NotContains(t, payload, "id")

	relations, ok := payload["relations"].([]any)
	require.True(t, ok)
	require.Len(t, relations, 2)
	assert.Equal(t, map[string]any{"entityName": "product"}, relations[0])
}
