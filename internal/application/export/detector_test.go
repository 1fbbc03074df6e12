package export

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestChangeDetector(t *testing.T) {
	ctx := context.Background()
	watermark := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("nil watermark always exports", func(t *testing.T) {
		detector := NewChangeDetector(newFakeEventHistory(), nil)
		assert.True(t, detector.ShouldExport(ctx, nil, uuid.New()))
	})

	t.Run("change before watermark skips", func(t *testing.T) {
		events := newFakeEventHistory()
		entityID := uuid.New()
		events.timestamps[entityID] = watermark.Add(-time.Hour)

		detector := NewChangeDetector(events, nil)
		assert.False(t, detector.ShouldExport(ctx, &watermark, entityID))
	})

	t.Run("change at watermark exports", func(t *testing.T) {
		events := newFakeEventHistory()
		entityID := uuid.New()
		events.timestamps[entityID] = watermark

		detector := NewChangeDetector(events, nil)
		assert.True(t, detector.ShouldExport(ctx, &watermark, entityID))
	})

	t.Run("change after watermark exports", func(t *testing.T) {
		events := newFakeEventHistory()
		entityID := uuid.New()
		events.timestamps[entityID] = watermark.Add(time.Minute)

		detector := NewChangeDetector(events, nil)
		assert.True(t, detector.ShouldExport(ctx, &watermark, entityID))
	})

	t.Run("no history skips", func(t *testing.T) {
		detector := NewChangeDetector(newFakeEventHistory(), nil)
		assert.False(t, detector.ShouldExport(ctx, &watermark, uuid.New()))
	})

	t.Run("changed sub-entity forces unchanged parent out", func(t *testing.T) {
		events := newFakeEventHistory()
		parentID := uuid.New()
		staleChild := uuid.New()
		freshChild := uuid.New()
		events.timestamps[parentID] = watermark.Add(-time.Hour)
		events.timestamps[staleChild] = watermark.Add(-time.Hour)
		events.timestamps[freshChild] = watermark.Add(time.Minute)

		detector := NewChangeDetector(events, nil)
		assert.True(t, detector.ShouldExport(ctx, &watermark, parentID, staleChild, freshChild))
	})

	t.Run("unchanged parent and sub-entities skip", func(t *testing.T) {
		events := newFakeEventHistory()
		parentID := uuid.New()
		child := uuid.New()
		events.timestamps[parentID] = watermark.Add(-time.Hour)
		events.timestamps[child] = watermark.Add(-time.Minute)

		detector := NewChangeDetector(events, nil)
		assert.False(t, detector.ShouldExport(ctx, &watermark, parentID, child))
	})

	t.Run("lookup failure fails open", func(t *testing.T) {
		events := newFakeEventHistory()
		entityID := uuid.New()
		events.failing[entityID] = errors.New("event store unreachable")

		detector := NewChangeDetector(events, nil)
		assert.True(t, detector.ShouldExport(ctx, &watermark, entityID))
	})
}
