package channel

import (
	"context"

	"github.com/google/uuid"
)

// Repository provides read access to configured channels.
type Repository interface {
	// FindByID loads a channel. Returns ErrChannelNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Channel, error)
	// FindAll returns every configured channel.
	FindAll(ctx context.Context) ([]Channel, error)
}
