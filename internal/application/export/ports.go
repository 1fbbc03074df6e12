package export

import (
	"context"

	"github.com/pimsync/connector/internal/domain/catalog"
	"github.com/pimsync/connector/internal/domain/channel"
	"github.com/pimsync/connector/internal/infrastructure/shopware/model"
)

// The remote client interfaces below are satisfied by the shopware package's
// concrete clients. They carry exactly the calls the processes need.

// CategoryAPI reads and writes remote categories.
type CategoryAPI interface {
	Get(ctx context.Context, ch *channel.Channel, categoryID string) (*model.Category, error)
	Create(ctx context.Context, ch *channel.Channel, category *model.Category) (string, error)
	Update(ctx context.Context, ch *channel.Channel, category *model.Category) error
	Delete(ctx context.Context, ch *channel.Channel, categoryID string) error
}

// ProductAPI reads and writes remote products.
type ProductAPI interface {
	Get(ctx context.Context, ch *channel.Channel, productID string) (*model.Product, error)
	Create(ctx context.Context, ch *channel.Channel, product *model.Product) (string, error)
	Update(ctx context.Context, ch *channel.Channel, product *model.Product) error
}

// CustomFieldAPI reads and writes remote custom fields and their set.
type CustomFieldAPI interface {
	Get(ctx context.Context, ch *channel.Channel, fieldID string) (*model.CustomField, error)
	InsertBatch(ctx context.Context, ch *channel.Channel, fields []*model.CustomField) (map[string]string, error)
	Update(ctx context.Context, ch *channel.Channel, field *model.CustomField) error
	Delete(ctx context.Context, ch *channel.Channel, fieldID string) error
	FindSetByName(ctx context.Context, ch *channel.Channel, name string) (string, error)
	CreateSet(ctx context.Context, ch *channel.Channel, set model.CustomFieldSet) (string, error)
}

// PropertyGroupAPI reads and writes remote property groups and options.
type PropertyGroupAPI interface {
	Get(ctx context.Context, ch *channel.Channel, groupID string) (*model.PropertyGroup, error)
	Create(ctx context.Context, ch *channel.Channel, group *model.PropertyGroup) (string, error)
	Update(ctx context.Context, ch *channel.Channel, group *model.PropertyGroup) error
	GetOptions(ctx context.Context, ch *channel.Channel, groupID string) ([]*model.PropertyGroupOption, error)
	InsertOptionsBatch(ctx context.Context, ch *channel.Channel, options []*model.PropertyGroupOption) (map[string]string, error)
}

// MediaAPI resolves and mutates remote media.
type MediaAPI interface {
	FindOrCreate(ctx context.Context, ch *channel.Channel, media *catalog.Media, referencedLocally bool) (string, error)
	Delete(ctx context.Context, ch *channel.Channel, remoteID string) error
	GetTranslations(ctx context.Context, ch *channel.Channel, remoteID string) (*model.Media, error)
	Update(ctx context.Context, ch *channel.Channel, media *model.Media) error
}

// LanguageAPI lists the remote language configuration.
type LanguageAPI interface {
	GetAll(ctx context.Context, ch *channel.Channel) ([]model.Language, error)
}

// SystemAPI answers remote system configuration lookups.
type SystemAPI interface {
	DefaultCurrencyID(ctx context.Context, ch *channel.Channel) (string, error)
	TaxIDByRate(ctx context.Context, ch *channel.Channel, rate float64) (string, error)
}

// RunCache is the lookup cache the remote clients consult during a run.
// The runner clears it before the first step so a remote lookup made in
// one run is never trusted in the next.
type RunCache interface {
	Clear(ctx context.Context) error
}
