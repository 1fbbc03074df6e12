package shopware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pimsync/connector/internal/domain/channel"
)

// headerIndexingBehavior defers remote index rebuilds to the queue so large
// batches do not block the write path.
const (
	headerIndexingBehavior = "indexing-behavior"
	indexingUseQueue       = "use-queue-indexing"
)

// syncOperation is one keyed operation of the sync endpoint.
type syncOperation struct {
	Entity  string `json:"entity"`
	Action  string `json:"action"`
	Payload []any  `json:"payload"`
}

// syncUpsert writes the keyed operations through /api/_action/sync and
// returns the created ids per operation key. Keys the response does not
// correlate are absent from the result, not an error; callers reconcile
// them through a natural-key lookup.
func (c *Connector) syncUpsert(ctx context.Context, ch *channel.Channel, entity string, payloads map[string]any) (map[string]string, error) {
	operations := make(map[string]syncOperation, len(payloads))
	for key, payload := range payloads {
		operations[key] = syncOperation{
			Entity:  entity,
			Action:  "upsert",
			Payload: []any{payload},
		}
	}

	body, err := c.do(ctx, ch, request{
		method:  http.MethodPost,
		path:    "/api/_action/sync",
		headers: map[string]string{headerIndexingBehavior: indexingUseQueue},
		body:    operations,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data map[string]struct {
			Result []struct {
				Entities map[string][]string `json:"entities"`
			} `json:"result"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("shopware: failed to parse sync response: %w", err)
	}

	ids := make(map[string]string, len(resp.Data))
	for key, entry := range resp.Data {
		for _, result := range entry.Result {
			created, ok := result.Entities[entity]
			if !ok || len(created) == 0 {
				continue
			}
			ids[key] = created[0]
			break
		}
	}
	return ids, nil
}
