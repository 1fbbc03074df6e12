package link

import (
	"context"

	"github.com/google/uuid"
)

// Store is the identity reconciliation store. Save is an upsert: concurrent
// writers racing to link the same key must converge on the last write instead
// of failing. Load with uuid.Nil sub-scope matches only unscoped rows.
type Store interface {
	Exists(ctx context.Context, channelID uuid.UUID, entityType EntityType, localID uuid.UUID) (bool, error)
	// Load returns "" (no error) when no link exists.
	Load(ctx context.Context, channelID uuid.UUID, entityType EntityType, localID, subScopeID uuid.UUID) (string, error)
	Save(ctx context.Context, l *Link) error
	Delete(ctx context.Context, channelID uuid.UUID, entityType EntityType, localID uuid.UUID) error
	// LocalIDByRemote resolves the reverse direction. Returns ErrNotFound
	// when the remote id is not linked.
	LocalIDByRemote(ctx context.Context, channelID uuid.UUID, entityType EntityType, remoteID string) (uuid.UUID, error)
	// StaleLinks returns links of the entity type whose local id is not in
	// keep, scoped to subScopeID. Used by the removal pass.
	StaleLinks(ctx context.Context, channelID uuid.UUID, entityType EntityType, subScopeID uuid.UUID, keep []uuid.UUID) ([]Link, error)
}
