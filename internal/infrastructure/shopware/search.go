package shopware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pimsync/connector/internal/domain/channel"
)

// searchResponse is the envelope of the search endpoints.
type searchResponse struct {
	Total int               `json:"total"`
	Data  []json.RawMessage `json:"data"`
}

// search runs a criteria search against /api/search/{entity}.
func (c *Connector) search(ctx context.Context, ch *channel.Channel, entity string, criteria *Criteria, headers map[string]string) (*searchResponse, error) {
	body, err := c.do(ctx, ch, request{
		method:  http.MethodPost,
		path:    "/api/search/" + entity,
		headers: headers,
		body:    criteria.Body(),
	})
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("shopware: failed to parse search response for %s: %w", entity, err)
	}
	return &resp, nil
}

// create posts the payload and returns the id of the created document.
func (c *Connector) create(ctx context.Context, ch *channel.Channel, entity string, payload any, headers map[string]string) (string, error) {
	query := url.Values{}
	query.Set("_response", "true")

	body, err := c.do(ctx, ch, request{
		method:  http.MethodPost,
		path:    "/api/" + entity,
		query:   query,
		headers: headers,
		body:    payload,
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("shopware: failed to parse create response for %s: %w", entity, err)
	}
	if resp.Data.ID == "" {
		return "", ErrEmptyResponse
	}
	return resp.Data.ID, nil
}

// patch updates the document in place.
func (c *Connector) patch(ctx context.Context, ch *channel.Channel, entity, id string, payload any, headers map[string]string) error {
	_, err := c.do(ctx, ch, request{
		method:  http.MethodPatch,
		path:    "/api/" + entity + "/" + id,
		headers: headers,
		body:    payload,
	})
	return err
}

// remove deletes the document.
func (c *Connector) remove(ctx context.Context, ch *channel.Channel, entity, id string) error {
	_, err := c.do(ctx, ch, request{
		method: http.MethodDelete,
		path:   "/api/" + entity + "/" + id,
	})
	return err
}
