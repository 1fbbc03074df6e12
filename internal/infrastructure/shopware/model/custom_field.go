package model

import (
	"encoding/json"
	"reflect"
)

// CustomFieldConfig is the remote rendering configuration of a custom field.
type CustomFieldConfig struct {
	fieldType       *string
	customFieldType *string
	label           map[string]string
	componentName   *string
	dateType        *string
	numberType      *string
	options         []CustomFieldConfigOption
	entityName      *string
	dirty           bool
}

// CustomFieldConfigOption is one select option of a custom field config,
// labelled per language.
type CustomFieldConfigOption struct {
	Value string
	Label map[string]string
}

// NewCustomFieldConfig creates an empty, clean config.
func NewCustomFieldConfig() *CustomFieldConfig {
	return &CustomFieldConfig{}
}

// HydrateCustomFieldConfig rebuilds a clean config from a remote read.
func HydrateCustomFieldConfig(fieldType, customFieldType *string, label map[string]string, componentName, dateType, numberType *string, options []CustomFieldConfigOption, entityName *string) *CustomFieldConfig {
	return &CustomFieldConfig{
		fieldType:       fieldType,
		customFieldType: customFieldType,
		label:           label,
		componentName:   componentName,
		dateType:        dateType,
		numberType:      numberType,
		options:         options,
		entityName:      entityName,
	}
}

func (c *CustomFieldConfig) IsDirty() bool { return c.dirty }

func (c *CustomFieldConfig) Type() *string { return c.fieldType }
func (c *CustomFieldConfig) SetType(t *string) {
	if applyPtr(&c.fieldType, t) {
		c.dirty = true
	}
}

func (c *CustomFieldConfig) CustomFieldType() *string { return c.customFieldType }
func (c *CustomFieldConfig) SetCustomFieldType(t *string) {
	if applyPtr(&c.customFieldType, t) {
		c.dirty = true
	}
}

func (c *CustomFieldConfig) ComponentName() *string { return c.componentName }
func (c *CustomFieldConfig) SetComponentName(name *string) {
	if applyPtr(&c.componentName, name) {
		c.dirty = true
	}
}

func (c *CustomFieldConfig) DateType() *string { return c.dateType }
func (c *CustomFieldConfig) SetDateType(t *string) {
	if applyPtr(&c.dateType, t) {
		c.dirty = true
	}
}

func (c *CustomFieldConfig) NumberType() *string { return c.numberType }
func (c *CustomFieldConfig) SetNumberType(t *string) {
	if applyPtr(&c.numberType, t) {
		c.dirty = true
	}
}

func (c *CustomFieldConfig) EntityName() *string { return c.entityName }
func (c *CustomFieldConfig) SetEntityName(name *string) {
	if applyPtr(&c.entityName, name) {
		c.dirty = true
	}
}

func (c *CustomFieldConfig) Label() map[string]string { return c.label }

// MergeLabel merges per-language labels, dirtying only on actual change.
func (c *CustomFieldConfig) MergeLabel(label map[string]string) {
	for lang, text := range label {
		if current, ok := c.label[lang]; ok && current == text {
			continue
		}
		if c.label == nil {
			c.label = map[string]string{}
		}
		c.label[lang] = text
		c.dirty = true
	}
}

func (c *CustomFieldConfig) Options() []CustomFieldConfigOption { return c.options }

// AddOption updates the option with the same value in place, merging labels,
// or appends a new one. Dirty only on actual change.
func (c *CustomFieldConfig) AddOption(option CustomFieldConfigOption) {
	for i, current := range c.options {
		if current.Value != option.Value {
			continue
		}
		merged := make(map[string]string, len(current.Label)+len(option.Label))
		for k, v := range current.Label {
			merged[k] = v
		}
		for k, v := range option.Label {
			merged[k] = v
		}
		if reflect.DeepEqual(merged, current.Label) {
			return
		}
		c.options[i].Label = merged
		c.dirty = true
		return
	}
	c.options = append(c.options, option)
	c.dirty = true
}

// MarshalJSON renders the config payload, omitting unset fields.
func (c *CustomFieldConfig) MarshalJSON() ([]byte, error) {
	data := map[string]any{}
	if c.fieldType != nil {
		data["type"] = c.fieldType
	}
	if c.customFieldType != nil {
		data["customFieldType"] = c.customFieldType
	}
	if len(c.label) > 0 {
		data["label"] = c.label
	}
	if c.componentName != nil {
		data["componentName"] = c.componentName
	}
	if c.dateType != nil {
		data["dateType"] = c.dateType
	}
	if c.numberType != nil {
		data["numberType"] = c.numberType
	}
	if len(c.options) > 0 {
		options := make([]map[string]any, 0, len(c.options))
		for _, o := range c.options {
			options = append(options, map[string]any{"value": o.Value, "label": o.Label})
		}
		data["options"] = options
	}
	if c.entityName != nil {
		data["entityName"] = c.entityName
	}
	return json.Marshal(data)
}

// CustomField mirrors one remote custom field resource. RequestKey is the
// batch correlation token attached to create payloads.
type CustomField struct {
	id         string
	name       string
	fieldType  *string
	config     *CustomFieldConfig
	setID      *string
	requestKey string
	dirty      bool
}

// NewCustomField creates an empty snapshot.
func NewCustomField() *CustomField {
	return &CustomField{config: NewCustomFieldConfig()}
}

// HydrateCustomField rebuilds a clean snapshot from a remote read.
func HydrateCustomField(id, name string, fieldType *string, config *CustomFieldConfig, setID *string) *CustomField {
	if config == nil {
		config = NewCustomFieldConfig()
	}
	return &CustomField{id: id, name: name, fieldType: fieldType, config: config, setID: setID}
}

func (f *CustomField) ID() string       { return f.id }
func (f *CustomField) SetID(id string)  { f.id = id }
func (f *CustomField) Name() string     { return f.name }

func (f *CustomField) SetName(name string) {
	if apply(&f.name, name) {
		f.dirty = true
	}
}

func (f *CustomField) Type() *string { return f.fieldType }
func (f *CustomField) SetType(t *string) {
	if applyPtr(&f.fieldType, t) {
		f.dirty = true
	}
}

func (f *CustomField) Config() *CustomFieldConfig { return f.config }

func (f *CustomField) CustomFieldSetID() *string { return f.setID }
func (f *CustomField) SetCustomFieldSetID(setID *string) {
	if applyPtr(&f.setID, setID) {
		f.dirty = true
	}
}

func (f *CustomField) RequestKey() string       { return f.requestKey }
func (f *CustomField) SetRequestKey(key string) { f.requestKey = key }

// IsDirty reports whether the field or its config changed.
func (f *CustomField) IsDirty() bool {
	return f.dirty || f.config.IsDirty()
}

// MarshalJSON renders the create/update payload.
func (f *CustomField) MarshalJSON() ([]byte, error) {
	data := map[string]any{
		"name": f.name,
	}
	if f.id != "" {
		data["id"] = f.id
	}
	if f.fieldType != nil {
		data["type"] = f.fieldType
	}
	data["config"] = f.config
	if f.setID != nil {
		data["customFieldSetId"] = f.setID
	}
	return json.Marshal(data)
}

// CustomFieldSet groups exported custom fields and binds them to remote
// entities (product, category).
type CustomFieldSet struct {
	ID       string
	Name     string
	Active   bool
	Label    map[string]string
	Entities []string
}

// MarshalJSON renders the create payload with its entity relations.
func (s CustomFieldSet) MarshalJSON() ([]byte, error) {
	relations := make([]map[string]string, 0, len(s.Entities))
	for _, entity := range s.Entities {
		relations = append(relations, map[string]string{"entityName": entity})
	}
	data := map[string]any{
		"name": s.Name,
		"config": map[string]any{
			"active": s.Active,
			"label":  s.Label,
		},
		"relations": relations,
	}
	if s.ID != "" {
		data["id"] = s.ID
	}
	return json.Marshal(data)
}
