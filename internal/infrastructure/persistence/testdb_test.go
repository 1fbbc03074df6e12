package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pimsync/connector/internal/infrastructure/persistence/models"
)

// newTestDB opens an in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.ChannelModel{},
		&models.ExportModel{},
		&models.ExportLineModel{},
		&models.ExportErrorModel{},
		&models.LinkModel{},
		&models.EventModel{},
		&models.CategoryModel{},
		&models.CategoryTreeModel{},
		&models.ProductModel{},
		&models.AttributeModel{},
		&models.AttributeOptionModel{},
		&models.MediaModel{},
		&models.SegmentProductModel{},
	))
	return db
}
