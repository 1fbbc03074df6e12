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
	propertyGroupEntity       = "property-group"
	propertyGroupOptionEntity = "property-group-option"

	propertyGroupOptionBatchSize = 30
	propertyGroupOptionPageSize  = 500
)

// PropertyGroupClient reads and writes remote property groups and their
// options.
type PropertyGroupClient struct {
	connector *Connector
}

// NewPropertyGroupClient creates a property group client on the shared
// connector.
func NewPropertyGroupClient(connector *Connector) *PropertyGroupClient {
	return &PropertyGroupClient{connector: connector}
}

type propertyGroupData struct {
	ID           string                 `json:"id"`
	Name         *string                `json:"name"`
	DisplayType  string                 `json:"displayType"`
	SortingType  string                 `json:"sortingType"`
	Translations []groupTranslationData `json:"translations"`
}

type groupTranslationData struct {
	LanguageID string  `json:"languageId"`
	Name       *string `json:"name"`
}

type propertyGroupOptionData struct {
	ID           string                 `json:"id"`
	GroupID      string                 `json:"groupId"`
	Name         *string                `json:"name"`
	MediaID      *string                `json:"mediaId"`
	Position     *int                   `json:"position"`
	Translations []groupTranslationData `json:"translations"`
}

func translationNames(translations []groupTranslationData) map[string]*string {
	if len(translations) == 0 {
		return nil
	}
	out := make(map[string]*string, len(translations))
	for _, tr := range translations {
		out[tr.LanguageID] = tr.Name
	}
	return out
}

// Get reads the property group with its translations.
func (p *PropertyGroupClient) Get(ctx context.Context, ch *channel.Channel, groupID string) (*model.PropertyGroup, error) {
	criteria := NewCriteria().
		IDs([]string{groupID}).
		Association("translations")

	resp, err := p.connector.search(ctx, ch, propertyGroupEntity, criteria, nil)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, newAPIError(http.StatusNotFound, nil)
	}

	var data propertyGroupData
	if err := json.Unmarshal(resp.Data[0], &data); err != nil {
		return nil, fmt.Errorf("shopware: failed to parse property group: %w", err)
	}
	return model.HydratePropertyGroup(data.ID, data.Name, data.DisplayType, data.SortingType, translationNames(data.Translations)), nil
}

// Create creates the property group and returns its remote id.
func (p *PropertyGroupClient) Create(ctx context.Context, ch *channel.Channel, group *model.PropertyGroup) (string, error) {
	return p.connector.create(ctx, ch, propertyGroupEntity, group, nil)
}

// Update patches the property group.
func (p *PropertyGroupClient) Update(ctx context.Context, ch *channel.Channel, group *model.PropertyGroup) error {
	return p.connector.patch(ctx, ch, propertyGroupEntity, group.ID(), group, nil)
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// GetOptions reads every option of the group, paging through the result.
func (p *PropertyGroupClient) GetOptions(ctx context.Context, ch *channel.Channel, groupID string) ([]*model.PropertyGroupOption, error) {
	var options []*model.PropertyGroupOption

	for page := 1; ; page++ {
		criteria := NewCriteria().
			Limit(propertyGroupOptionPageSize).
			Page(page).
			Filter(EqualsFilter("groupId", groupID)).
			Association("translations")

		resp, err := p.connector.search(ctx, ch, propertyGroupOptionEntity, criteria, nil)
		if err != nil {
			return nil, err
		}
		if len(resp.Data) == 0 {
			break
		}

		for _, raw := range resp.Data {
			var data propertyGroupOptionData
			if err := json.Unmarshal(raw, &data); err != nil {
				return nil, fmt.Errorf("shopware: failed to parse property group option: %w", err)
			}
			options = append(options, model.HydratePropertyGroupOption(
				data.ID, data.GroupID, data.Name, data.MediaID, data.Position, translationNames(data.Translations)))
		}

		if len(resp.Data) < propertyGroupOptionPageSize {
			break
		}
	}

	return options, nil
}

// FindOptionsByNames returns the remote ids of the group's options keyed by
// their name.
func (p *PropertyGroupClient) FindOptionsByNames(ctx context.Context, ch *channel.Channel, groupID string, names []string) (map[string]string, error) {
	if len(names) == 0 {
		return map[string]string{}, nil
	}
	criteria := NewCriteria().
		Limit(len(names)).
		Filter(EqualsFilter("groupId", groupID)).
		Filter(EqualsAnyFilter("name", names))

	resp, err := p.connector.search(ctx, ch, propertyGroupOptionEntity, criteria, nil)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]string, len(resp.Data))
	for _, raw := range resp.Data {
		var data propertyGroupOptionData
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("shopware: failed to parse property group option: %w", err)
		}
		if data.Name != nil {
			ids[*data.Name] = data.ID
		}
	}
	return ids, nil
}

// InsertOptionsBatch creates the options in chunks and returns the remote
// ids keyed by each option's request key. The batch response correlates
// directly where it can; options it does not correlate are reconciled by a
// lookup matched on the option name. Options unmatched either way are absent
// from the result.
func (p *PropertyGroupClient) InsertOptionsBatch(ctx context.Context, ch *channel.Channel, options []*model.PropertyGroupOption) (map[string]string, error) {
	ids := make(map[string]string, len(options))

	for start := 0; start < len(options); start += propertyGroupOptionBatchSize {
		end := start + propertyGroupOptionBatchSize
		if end > len(options) {
			end = len(options)
		}
		chunk := options[start:end]

		payloads := make(map[string]any, len(chunk))
		for _, option := range chunk {
			payloads[option.RequestKey()] = option
		}

		created, err := p.connector.syncUpsert(ctx, ch, "property_group_option", payloads)
		if err != nil {
			return nil, err
		}

		byGroup := map[string][]*model.PropertyGroupOption{}
		for _, option := range chunk {
			if id, ok := created[option.RequestKey()]; ok {
				ids[option.RequestKey()] = id
				continue
			}
			byGroup[option.GroupID()] = append(byGroup[option.GroupID()], option)
		}

		for groupID, unresolved := range byGroup {
			names := make([]string, 0, len(unresolved))
			for _, option := range unresolved {
				if option.Name() != nil {
					names = append(names, *option.Name())
				}
			}
			byName, err := p.FindOptionsByNames(ctx, ch, groupID, names)
			if err != nil {
				return nil, err
			}
			for _, option := range unresolved {
				if option.Name() == nil {
					continue
				}
				if id, ok := byName[*option.Name()]; ok {
					ids[option.RequestKey()] = id
				}
			}
		}
	}

	return ids, nil
}

// UpdateOption patches the option.
func (p *PropertyGroupClient) UpdateOption(ctx context.Context, ch *channel.Channel, option *model.PropertyGroupOption) error {
	return p.connector.patch(ctx, ch, propertyGroupOptionEntity, option.ID(), option, nil)
}

// DeleteOption removes the option.
func (p *PropertyGroupClient) DeleteOption(ctx context.Context, ch *channel.Channel, optionID string) error {
	return p.connector.remove(ctx, ch, propertyGroupOptionEntity, optionID)
}
