package shopware

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pimsync/connector/internal/domain/channel"
)

// SystemClient reads the remote system tables the mappers resolve ids
// against: the default currency and the tax rates.
type SystemClient struct {
	connector *Connector
	cache     RunCache
}

// NewSystemClient creates a system client on the shared connector.
func NewSystemClient(connector *Connector, cache RunCache) *SystemClient {
	return &SystemClient{connector: connector, cache: cache}
}

// DefaultCurrencyID returns the id of the system default currency, cached
// per channel for the run.
func (s *SystemClient) DefaultCurrencyID(ctx context.Context, ch *channel.Channel) (string, error) {
	key := "currency:" + ch.ID.String()
	if cached, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return cached, nil
	}

	criteria := NewCriteria().
		Limit(1).
		Filter(EqualsFilter("isSystemDefault", true))

	resp, err := s.connector.search(ctx, ch, "currency", criteria, nil)
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", ErrEmptyResponse
	}

	var data struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Data[0], &data); err != nil {
		return "", fmt.Errorf("shopware: failed to parse currency: %w", err)
	}

	_ = s.cache.Set(ctx, key, data.ID)
	return data.ID, nil
}

// TaxIDByRate returns the id of the tax entry with the given rate, cached
// per channel for the run. Returns "" when no tax matches.
func (s *SystemClient) TaxIDByRate(ctx context.Context, ch *channel.Channel, rate float64) (string, error) {
	key := fmt.Sprintf("tax:%s:%g", ch.ID, rate)
	if cached, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return cached, nil
	}

	criteria := NewCriteria().
		Limit(1).
		Filter(EqualsFilter("taxRate", rate))

	resp, err := s.connector.search(ctx, ch, "tax", criteria, nil)
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
		return "", fmt.Errorf("shopware: failed to parse tax: %w", err)
	}

	_ = s.cache.Set(ctx, key, data.ID)
	return data.ID, nil
}
