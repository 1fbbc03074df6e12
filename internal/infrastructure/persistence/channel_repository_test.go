package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pimsync/connector/internal/domain/channel"
)

func TestGormChannelRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trips the full configuration", func(t *testing.T) {
		repo := NewGormChannelRepository(newTestDB(t))

		ch, err := channel.NewChannel("shop", "shop.example.com", "client", "secret", "en")
		require.NoError(t, err)
		ch.Languages = []string{"de", "fr"}
		segmentID := uuid.New()
		ch.SegmentID = &segmentID
		ch.CategoryTreeIDs = []uuid.UUID{uuid.New(), uuid.New()}
		nameAttr := uuid.New()
		ch.AttributeProductName = &nameAttr
		salesChannel := "c5fa8e23a2a24ec9b1b3f9f1ed8efa3a"
		ch.SalesChannelID = &salesChannel
		ch.CustomFieldAttributeIDs = []uuid.UUID{uuid.New()}
		ch.PropertyGroupAttributeIDs = []uuid.UUID{uuid.New()}

		require.NoError(t, repo.Save(ctx, ch))

		loaded, err := repo.FindByID(ctx, ch.ID)
		require.NoError(t, err)
		assert.Equal(t, ch.Name, loaded.Name)
		assert.Equal(t, ch.Host, loaded.Host)
		assert.Equal(t, ch.ClientSecret, loaded.ClientSecret)
		assert.Equal(t, ch.Languages, loaded.Languages)
		assert.Equal(t, ch.SegmentID, loaded.SegmentID)
		assert.Equal(t, ch.CategoryTreeIDs, loaded.CategoryTreeIDs)
		assert.Equal(t, ch.AttributeProductName, loaded.AttributeProductName)
		assert.Nil(t, loaded.AttributeProductTax)
		assert.Equal(t, ch.SalesChannelID, loaded.SalesChannelID)
		assert.Equal(t, ch.CustomFieldAttributeIDs, loaded.CustomFieldAttributeIDs)
		assert.Equal(t, ch.PropertyGroupAttributeIDs, loaded.PropertyGroupAttributeIDs)
	})

	t.Run("missing channel yields not found", func(t *testing.T) {
		repo := NewGormChannelRepository(newTestDB(t))

		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, channel.ErrChannelNotFound)
	})

	t.Run("find all orders by name", func(t *testing.T) {
		repo := NewGormChannelRepository(newTestDB(t))

		second, err := channel.NewChannel("b-shop", "b.example.com", "c", "s", "en")
		require.NoError(t, err)
		first, err := channel.NewChannel("a-shop", "a.example.com", "c", "s", "en")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, second))
		require.NoError(t, repo.Save(ctx, first))

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "a-shop", all[0].Name)
		assert.Equal(t, "b-shop", all[1].Name)
	})
}
