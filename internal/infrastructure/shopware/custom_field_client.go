package shopware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pimsync/connector/internal/domain/channel"
	"github.com/pimsync/connector/internal/infrastructure/shopware/model"
)

const (
	customFieldEntity    = "custom-field"
	customFieldSetEntity = "custom-field-set"

	customFieldBatchSize = 30
)

// CustomFieldClient reads and writes remote custom fields and their set.
type CustomFieldClient struct {
	connector *Connector
}

// NewCustomFieldClient creates a custom field client on the shared connector.
func NewCustomFieldClient(connector *Connector) *CustomFieldClient {
	return &CustomFieldClient{connector: connector}
}

type customFieldData struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Type             *string         `json:"type"`
	Config           json.RawMessage `json:"config"`
	CustomFieldSetID *string         `json:"customFieldSetId"`
}

type customFieldConfigData struct {
	Type            *string                         `json:"type"`
	CustomFieldType *string                         `json:"customFieldType"`
	Label           map[string]string               `json:"label"`
	ComponentName   *string                         `json:"componentName"`
	DateType        *string                         `json:"dateType"`
	NumberType      *string                         `json:"numberType"`
	Options         []model.CustomFieldConfigOption `json:"options"`
	EntityName      *string                         `json:"entityName"`
}

func (d customFieldData) toModel() (*model.CustomField, error) {
	config := model.NewCustomFieldConfig()
	if len(d.Config) > 0 && string(d.Config) != "null" {
		var raw customFieldConfigData
		if err := json.Unmarshal(d.Config, &raw); err != nil {
			return nil, fmt.Errorf("shopware: failed to parse custom field config: %w", err)
		}
		config = model.HydrateCustomFieldConfig(
			raw.Type, raw.CustomFieldType, raw.Label, raw.ComponentName,
			raw.DateType, raw.NumberType, raw.Options, raw.EntityName)
	}
	return model.HydrateCustomField(d.ID, d.Name, d.Type, config, d.CustomFieldSetID), nil
}

// Get reads the custom field by remote id.
func (c *CustomFieldClient) Get(ctx context.Context, ch *channel.Channel, fieldID string) (*model.CustomField, error) {
	criteria := NewCriteria().IDs([]string{fieldID})
	resp, err := c.connector.search(ctx, ch, customFieldEntity, criteria, nil)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, newAPIError(http.StatusNotFound, nil)
	}

	var data customFieldData
	if err := json.Unmarshal(resp.Data[0], &data); err != nil {
		return nil, fmt.Errorf("shopware: failed to parse custom field: %w", err)
	}
	return data.toModel()
}

// FindByNames returns the remote ids of custom fields keyed by their name.
func (c *CustomFieldClient) FindByNames(ctx context.Context, ch *channel.Channel, names []string) (map[string]string, error) {
	if len(names) == 0 {
		return map[string]string{}, nil
	}
	criteria := NewCriteria().
		Limit(len(names)).
		Filter(EqualsAnyFilter("name", names))

	resp, err := c.connector.search(ctx, ch, customFieldEntity, criteria, nil)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]string, len(resp.Data))
	for _, raw := range resp.Data {
		var data customFieldData
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("shopware: failed to parse custom field: %w", err)
		}
		ids[data.Name] = data.ID
	}
	return ids, nil
}

// InsertBatch creates the fields in chunks and returns the remote ids keyed
// by each field's request key. Direct correlation through the batch response
// comes first; fields the response does not correlate are reconciled by a
// lookup matched on the field name. Fields unmatched either way are absent
// from the result.
func (c *CustomFieldClient) InsertBatch(ctx context.Context, ch *channel.Channel, fields []*model.CustomField) (map[string]string, error) {
	ids := make(map[string]string, len(fields))

	for start := 0; start < len(fields); start += customFieldBatchSize {
		end := start + customFieldBatchSize
		if end > len(fields) {
			end = len(fields)
		}
		chunk := fields[start:end]

		payloads := make(map[string]any, len(chunk))
		for _, field := range chunk {
			payloads[field.RequestKey()] = field
		}

		created, err := c.connector.syncUpsert(ctx, ch, "custom_field", payloads)
		if err != nil {
			return nil, err
		}

		var unresolved []*model.CustomField
		for _, field := range chunk {
			if id, ok := created[field.RequestKey()]; ok {
				ids[field.RequestKey()] = id
				continue
			}
			unresolved = append(unresolved, field)
		}

		if len(unresolved) == 0 {
			continue
		}

		names := make([]string, 0, len(unresolved))
		for _, field := range unresolved {
			names = append(names, field.Name())
		}
		byName, err := c.FindByNames(ctx, ch, names)
		if err != nil {
			return nil, err
		}
		for _, field := range unresolved {
			if id, ok := byName[field.Name()]; ok {
				ids[field.RequestKey()] = id
			}
		}
	}

	return ids, nil
}

// Update patches the custom field.
func (c *CustomFieldClient) Update(ctx context.Context, ch *channel.Channel, field *model.CustomField) error {
	return c.connector.patch(ctx, ch, customFieldEntity, field.ID(), field, nil)
}

// Delete removes the custom field.
func (c *CustomFieldClient) Delete(ctx context.Context, ch *channel.Channel, fieldID string) error {
	return c.connector.remove(ctx, ch, customFieldEntity, fieldID)
}

// ---------------------------------------------------------------------------
// Custom field set
// ---------------------------------------------------------------------------

// FindSetByName returns the remote id of the custom field set, or "" when the
// set does not exist yet.
func (c *CustomFieldClient) FindSetByName(ctx context.Context, ch *channel.Channel, name string) (string, error) {
	criteria := NewCriteria().
		Limit(1).
		Filter(EqualsFilter("name", name))

	resp, err := c.connector.search(ctx, ch, customFieldSetEntity, criteria, nil)
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", nil
	}

	var data struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Data[0], &data); err != nil {
		return "", fmt.Errorf("shopware: failed to parse custom field set: %w", err)
	}
	return data.ID, nil
}

// CreateSet creates the custom field set and returns its remote id.
func (c *CustomFieldClient) CreateSet(ctx context.Context, ch *channel.Channel, set model.CustomFieldSet) (string, error) {
	return c.connector.create(ctx, ch, customFieldSetEntity, set, nil)
}
