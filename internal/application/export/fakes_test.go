package export

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pimsync/connector/internal/domain/catalog"
	"github.com/pimsync/connector/internal/domain/channel"
	"github.com/pimsync/connector/internal/domain/export"
	"github.com/pimsync/connector/internal/domain/link"
	"github.com/pimsync/connector/internal/infrastructure/shopware"
	"github.com/pimsync/connector/internal/infrastructure/shopware/model"
)

func notFoundErr() error {
	return &shopware.APIError{StatusCode: http.StatusNotFound}
}

// --- identity links ---

type fakeLinkStore struct {
	rows []link.Link
}

func newFakeLinkStore() *fakeLinkStore { return &fakeLinkStore{} }

func (s *fakeLinkStore) Exists(_ context.Context, channelID uuid.UUID, entityType link.EntityType, localID uuid.UUID) (bool, error) {
	for _, row := range s.rows {
		if row.ChannelID == channelID && row.EntityType == entityType && row.LocalID == localID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeLinkStore) Load(_ context.Context, channelID uuid.UUID, entityType link.EntityType, localID, subScopeID uuid.UUID) (string, error) {
	for _, row := range s.rows {
		if row.ChannelID == channelID && row.EntityType == entityType && row.LocalID == localID && row.SubScopeID == subScopeID {
			return row.RemoteID, nil
		}
	}
	return "", nil
}

func (s *fakeLinkStore) Save(_ context.Context, l *link.Link) error {
	for i, row := range s.rows {
		if row.ChannelID == l.ChannelID && row.EntityType == l.EntityType && row.LocalID == l.LocalID && row.SubScopeID == l.SubScopeID {
			s.rows[i] = *l
			return nil
		}
	}
	s.rows = append(s.rows, *l)
	return nil
}

func (s *fakeLinkStore) Delete(_ context.Context, channelID uuid.UUID, entityType link.EntityType, localID uuid.UUID) error {
	kept := s.rows[:0]
	for _, row := range s.rows {
		if row.ChannelID == channelID && row.EntityType == entityType && row.LocalID == localID {
			continue
		}
		kept = append(kept, row)
	}
	s.rows = kept
	return nil
}

func (s *fakeLinkStore) LocalIDByRemote(_ context.Context, channelID uuid.UUID, entityType link.EntityType, remoteID string) (uuid.UUID, error) {
	for _, row := range s.rows {
		if row.ChannelID == channelID && row.EntityType == entityType && row.RemoteID == remoteID {
			return row.LocalID, nil
		}
	}
	return uuid.Nil, link.ErrNotFound
}

func (s *fakeLinkStore) StaleLinks(_ context.Context, channelID uuid.UUID, entityType link.EntityType, subScopeID uuid.UUID, keep []uuid.UUID) ([]link.Link, error) {
	keepSet := make(map[uuid.UUID]struct{}, len(keep))
	for _, id := range keep {
		keepSet[id] = struct{}{}
	}
	var out []link.Link
	for _, row := range s.rows {
		if row.ChannelID != channelID || row.EntityType != entityType || row.SubScopeID != subScopeID {
			continue
		}
		if _, ok := keepSet[row.LocalID]; ok {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// --- export bookkeeping ---

type fakeExportRepo struct {
	saved     map[uuid.UUID]*export.Export
	lines     []export.Line
	processed map[uuid.UUID]bool
	errs      []export.Error
}

func newFakeExportRepo() *fakeExportRepo {
	return &fakeExportRepo{
		saved:     map[uuid.UUID]*export.Export{},
		processed: map[uuid.UUID]bool{},
	}
}

func (r *fakeExportRepo) Save(_ context.Context, e *export.Export) error {
	r.saved[e.ID] = e
	return nil
}

func (r *fakeExportRepo) FindByID(_ context.Context, id uuid.UUID) (*export.Export, error) {
	e, ok := r.saved[id]
	if !ok {
		return nil, export.ErrExportNotFound
	}
	return e, nil
}

func (r *fakeExportRepo) AddLine(_ context.Context, line export.Line) error {
	r.lines = append(r.lines, line)
	return nil
}

func (r *fakeExportRepo) ProcessLine(_ context.Context, lineID uuid.UUID) error {
	r.processed[lineID] = true
	return nil
}

func (r *fakeExportRepo) AddError(_ context.Context, exportID uuid.UUID, message string, parameters map[string]string) error {
	r.errs = append(r.errs, export.Error{
		ID:         uuid.New(),
		ExportID:   exportID,
		Message:    message,
		Parameters: parameters,
		CreatedAt:  time.Now(),
	})
	return nil
}

func (r *fakeExportRepo) Errors(_ context.Context, exportID uuid.UUID) ([]export.Error, error) {
	var out []export.Error
	for _, e := range r.errs {
		if e.ExportID == exportID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeExportRepo) allProcessed() bool {
	for _, line := range r.lines {
		if !r.processed[line.ID] {
			return false
		}
	}
	return true
}

type fakeWatermarkQuery struct {
	started  *time.Time
	finished bool
}

func (q *fakeWatermarkQuery) FindLastExportStarted(context.Context, uuid.UUID) (*time.Time, error) {
	return q.started, nil
}

func (q *fakeWatermarkQuery) IsLastExportFinished(context.Context, uuid.UUID) (bool, error) {
	return q.finished, nil
}

type fakeEventHistory struct {
	timestamps map[uuid.UUID]time.Time
	failing    map[uuid.UUID]error
}

func newFakeEventHistory() *fakeEventHistory {
	return &fakeEventHistory{
		timestamps: map[uuid.UUID]time.Time{},
		failing:    map[uuid.UUID]error{},
	}
}

func (q *fakeEventHistory) FindLastChangeTimestamp(_ context.Context, aggregateID uuid.UUID) (*time.Time, error) {
	if err, ok := q.failing[aggregateID]; ok {
		return nil, err
	}
	if ts, ok := q.timestamps[aggregateID]; ok {
		return &ts, nil
	}
	return nil, nil
}

// --- catalog read models ---

type fakeChannelRepo struct {
	channels map[uuid.UUID]*channel.Channel
}

func (r *fakeChannelRepo) FindByID(_ context.Context, id uuid.UUID) (*channel.Channel, error) {
	ch, ok := r.channels[id]
	if !ok {
		return nil, channel.ErrChannelNotFound
	}
	return ch, nil
}

func (r *fakeChannelRepo) FindAll(context.Context) ([]channel.Channel, error) {
	var out []channel.Channel
	for _, ch := range r.channels {
		out = append(out, *ch)
	}
	return out, nil
}

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*catalog.Category
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, catalog.ErrCategoryNotFound
	}
	return c, nil
}

type fakeTreeRepo struct {
	trees map[uuid.UUID]*catalog.Tree
}

func (r *fakeTreeRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Tree, error) {
	t, ok := r.trees[id]
	if !ok {
		return nil, catalog.ErrTreeNotFound
	}
	return t, nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return p, nil
}

type fakeProductQuery struct {
	ids    []uuid.UUID
	byType map[catalog.ProductType][]uuid.UUID
}

func (q *fakeProductQuery) FindIDs(context.Context) ([]uuid.UUID, error) { return q.ids, nil }

func (q *fakeProductQuery) FindIDsByType(_ context.Context, productType catalog.ProductType) ([]uuid.UUID, error) {
	return q.byType[productType], nil
}

type fakeSegmentQuery struct {
	ids map[uuid.UUID][]uuid.UUID
}

func (q *fakeSegmentQuery) FindIDs(_ context.Context, segmentID uuid.UUID) ([]uuid.UUID, error) {
	return q.ids[segmentID], nil
}

func (q *fakeSegmentQuery) FindIDsByType(_ context.Context, segmentID uuid.UUID, _ catalog.ProductType) ([]uuid.UUID, error) {
	return q.ids[segmentID], nil
}

type fakeAttributeRepo struct {
	attributes map[uuid.UUID]*catalog.Attribute
}

func (r *fakeAttributeRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Attribute, error) {
	a, ok := r.attributes[id]
	if !ok {
		return nil, catalog.ErrAttributeNotFound
	}
	return a, nil
}

type fakeOptionQuery struct {
	ids map[uuid.UUID][]uuid.UUID
}

func (q *fakeOptionQuery) FindIDs(_ context.Context, attributeID uuid.UUID) ([]uuid.UUID, error) {
	return q.ids[attributeID], nil
}

type fakeOptionRepo struct {
	options map[uuid.UUID]*catalog.Option
}

func (r *fakeOptionRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Option, error) {
	o, ok := r.options[id]
	if !ok {
		return nil, catalog.ErrOptionNotFound
	}
	return o, nil
}

func (r *fakeOptionRepo) FindByCode(_ context.Context, attributeID uuid.UUID, code string) (*catalog.Option, error) {
	for _, o := range r.options {
		if o.AttributeID == attributeID && o.Code == code {
			return o, nil
		}
	}
	return nil, catalog.ErrOptionNotFound
}

type fakeMediaRepo struct {
	media map[uuid.UUID]*catalog.Media
	ids   []uuid.UUID
}

func (r *fakeMediaRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Media, error) {
	m, ok := r.media[id]
	if !ok {
		return nil, catalog.ErrMediaNotFound
	}
	return m, nil
}

func (r *fakeMediaRepo) FindIDs(context.Context) ([]uuid.UUID, error) { return r.ids, nil }

// --- remote clients ---

// fakeCategoryAPI stores hydrated-clean copies so a later Get behaves like a
// real remote read.
type fakeCategoryAPI struct {
	remote  map[string]*model.Category
	creates int
	updates int
	deletes int
	nextID  int
	deleted []string
}

func newFakeCategoryAPI() *fakeCategoryAPI {
	return &fakeCategoryAPI{remote: map[string]*model.Category{}}
}

func (a *fakeCategoryAPI) Get(_ context.Context, _ *channel.Channel, categoryID string) (*model.Category, error) {
	c, ok := a.remote[categoryID]
	if !ok {
		return nil, notFoundErr()
	}
	return hydrateCategoryCopy(c, categoryID), nil
}

func (a *fakeCategoryAPI) Create(_ context.Context, _ *channel.Channel, category *model.Category) (string, error) {
	a.creates++
	a.nextID++
	id := fmt.Sprintf("remote-cat-%d", a.nextID)
	a.remote[id] = hydrateCategoryCopy(category, id)
	return id, nil
}

func (a *fakeCategoryAPI) Update(_ context.Context, _ *channel.Channel, category *model.Category) error {
	a.updates++
	a.remote[category.ID()] = hydrateCategoryCopy(category, category.ID())
	return nil
}

func (a *fakeCategoryAPI) Delete(_ context.Context, _ *channel.Channel, categoryID string) error {
	if _, ok := a.remote[categoryID]; !ok {
		return notFoundErr()
	}
	a.deletes++
	a.deleted = append(a.deleted, categoryID)
	delete(a.remote, categoryID)
	return nil
}

func hydrateCategoryCopy(c *model.Category, id string) *model.Category {
	var translations []*model.CategoryTranslation
	for _, lang := range c.TranslationLanguages() {
		tr := c.Translation(lang)
		translations = append(translations, model.HydrateCategoryTranslation(
			"tr-"+lang, lang,
			tr.Name(), tr.Description(), tr.MetaTitle(), tr.MetaDescription(), tr.Keywords(),
			tr.CustomFields(),
		))
	}
	return model.HydrateCategory(id,
		c.Name(), c.ParentID(), c.Active(), c.Visible(), c.CustomFields(),
		c.Description(), c.MediaID(), c.MetaTitle(), c.MetaDescription(), c.Keywords(),
		translations)
}

type fakeProductAPI struct {
	remote  map[string]*model.Product
	creates int
	updates int
	nextID  int
}

func newFakeProductAPI() *fakeProductAPI {
	return &fakeProductAPI{remote: map[string]*model.Product{}}
}

func (a *fakeProductAPI) Get(_ context.Context, _ *channel.Channel, productID string) (*model.Product, error) {
	p, ok := a.remote[productID]
	if !ok {
		return nil, notFoundErr()
	}
	return hydrateProductCopy(p, productID), nil
}

func (a *fakeProductAPI) Create(_ context.Context, _ *channel.Channel, product *model.Product) (string, error) {
	a.creates++
	a.nextID++
	id := fmt.Sprintf("remote-prod-%d", a.nextID)
	a.remote[id] = hydrateProductCopy(product, id)
	return id, nil
}

func (a *fakeProductAPI) Update(_ context.Context, _ *channel.Channel, product *model.Product) error {
	a.updates++
	a.remote[product.ID()] = hydrateProductCopy(product, product.ID())
	return nil
}

func hydrateProductCopy(p *model.Product, id string) *model.Product {
	var translations []*model.ProductTranslation
	for _, lang := range p.TranslationLanguages() {
		tr := p.Translation(lang)
		translations = append(translations, model.HydrateProductTranslation(
			"tr-"+lang, lang,
			tr.Name(), tr.Description(), tr.Keywords(), tr.MetaTitle(), tr.MetaDescription(),
			tr.CustomFields(),
		))
	}
	media := p.Media()
	for i := range media {
		if media[i].ID == "" {
			// the remote assigns the gallery association id
			media[i].ID = "pm-" + media[i].MediaID
		}
	}
	return model.HydrateProduct(id, p.SKU(),
		p.Name(), p.Active(), p.Stock(), p.TaxID(), p.Price(),
		p.CategoryIDs(), p.PropertyIDs(), p.CustomFields(),
		media, p.CoverID(), translations)
}

type fakeCustomFieldAPI struct {
	remote       map[string]*model.CustomField
	inserted     [][]*model.CustomField
	updates      int
	setID        string
	setCreations int
	nextID       int
	// uncorrelated simulates deferred indexing losing token correlation
	uncorrelated bool
}

func newFakeCustomFieldAPI() *fakeCustomFieldAPI {
	return &fakeCustomFieldAPI{remote: map[string]*model.CustomField{}}
}

func (a *fakeCustomFieldAPI) Get(_ context.Context, _ *channel.Channel, fieldID string) (*model.CustomField, error) {
	f, ok := a.remote[fieldID]
	if !ok {
		return nil, notFoundErr()
	}
	return model.HydrateCustomField(fieldID, f.Name(), f.Type(), hydrateConfigCopy(f.Config()), f.CustomFieldSetID()), nil
}

func hydrateConfigCopy(c *model.CustomFieldConfig) *model.CustomFieldConfig {
	label := make(map[string]string, len(c.Label()))
	for k, v := range c.Label() {
		label[k] = v
	}
	options := append([]model.CustomFieldConfigOption(nil), c.Options()...)
	return model.HydrateCustomFieldConfig(c.Type(), c.CustomFieldType(), label,
		c.ComponentName(), c.DateType(), c.NumberType(), options, c.EntityName())
}

func (a *fakeCustomFieldAPI) InsertBatch(_ context.Context, _ *channel.Channel, fields []*model.CustomField) (map[string]string, error) {
	a.inserted = append(a.inserted, fields)
	ids := map[string]string{}
	for _, f := range fields {
		a.nextID++
		id := fmt.Sprintf("remote-field-%d", a.nextID)
		a.remote[id] = f
		if !a.uncorrelated {
			ids[f.RequestKey()] = id
		}
	}
	return ids, nil
}

func (a *fakeCustomFieldAPI) Update(_ context.Context, _ *channel.Channel, field *model.CustomField) error {
	a.updates++
	a.remote[field.ID()] = field
	return nil
}

func (a *fakeCustomFieldAPI) Delete(_ context.Context, _ *channel.Channel, fieldID string) error {
	delete(a.remote, fieldID)
	return nil
}

func (a *fakeCustomFieldAPI) FindSetByName(_ context.Context, _ *channel.Channel, _ string) (string, error) {
	return a.setID, nil
}

func (a *fakeCustomFieldAPI) CreateSet(_ context.Context, _ *channel.Channel, _ model.CustomFieldSet) (string, error) {
	a.setCreations++
	a.setID = "remote-set-1"
	return a.setID, nil
}

type fakePropertyGroupAPI struct {
	groups       map[string]*model.PropertyGroup
	batches      [][]*model.PropertyGroupOption
	groupCreates int
	groupUpdates int
	nextID       int
}

func newFakePropertyGroupAPI() *fakePropertyGroupAPI {
	return &fakePropertyGroupAPI{groups: map[string]*model.PropertyGroup{}}
}

func (a *fakePropertyGroupAPI) Get(_ context.Context, _ *channel.Channel, groupID string) (*model.PropertyGroup, error) {
	g, ok := a.groups[groupID]
	if !ok {
		return nil, notFoundErr()
	}
	translations := map[string]*string{}
	// rebuild clean from the stored snapshot
	return model.HydratePropertyGroup(groupID, g.Name(), "text", "alphanumeric", translations), nil
}

func (a *fakePropertyGroupAPI) Create(_ context.Context, _ *channel.Channel, group *model.PropertyGroup) (string, error) {
	a.groupCreates++
	a.nextID++
	id := fmt.Sprintf("remote-group-%d", a.nextID)
	a.groups[id] = group
	return id, nil
}

func (a *fakePropertyGroupAPI) Update(_ context.Context, _ *channel.Channel, group *model.PropertyGroup) error {
	a.groupUpdates++
	a.groups[group.ID()] = group
	return nil
}

func (a *fakePropertyGroupAPI) GetOptions(context.Context, *channel.Channel, string) ([]*model.PropertyGroupOption, error) {
	return nil, nil
}

func (a *fakePropertyGroupAPI) InsertOptionsBatch(_ context.Context, _ *channel.Channel, options []*model.PropertyGroupOption) (map[string]string, error) {
	a.batches = append(a.batches, options)
	ids := map[string]string{}
	for _, o := range options {
		if o.ID() != "" {
			ids[o.RequestKey()] = o.ID()
			continue
		}
		a.nextID++
		ids[o.RequestKey()] = fmt.Sprintf("remote-option-%d", a.nextID)
	}
	return ids, nil
}

type fakeMediaAPI struct {
	remoteIDs    map[uuid.UUID]string
	resolveCalls int
	translations map[string]*model.Media
	updates      []*model.Media
	deleted      []string
}

func newFakeMediaAPI() *fakeMediaAPI {
	return &fakeMediaAPI{
		remoteIDs:    map[uuid.UUID]string{},
		translations: map[string]*model.Media{},
	}
}

func (a *fakeMediaAPI) FindOrCreate(_ context.Context, _ *channel.Channel, media *catalog.Media, _ bool) (string, error) {
	a.resolveCalls++
	id, ok := a.remoteIDs[media.ID]
	if !ok {
		id = "remote-media-" + media.ID.String()[:8]
		a.remoteIDs[media.ID] = id
	}
	return id, nil
}

func (a *fakeMediaAPI) Delete(_ context.Context, _ *channel.Channel, remoteID string) error {
	a.deleted = append(a.deleted, remoteID)
	return nil
}

func (a *fakeMediaAPI) GetTranslations(_ context.Context, _ *channel.Channel, remoteID string) (*model.Media, error) {
	m, ok := a.translations[remoteID]
	if !ok {
		return nil, notFoundErr()
	}
	return m, nil
}

func (a *fakeMediaAPI) Update(_ context.Context, _ *channel.Channel, media *model.Media) error {
	a.updates = append(a.updates, media)
	// store a clean rebuild so the next read behaves like a remote one
	clean := model.NewMedia(media.ID(), media.FileName())
	translations := make([]model.MediaTranslation, 0, len(media.Translations()))
	for _, tr := range media.Translations() {
		translations = append(translations, tr)
	}
	clean.SetTranslations(translations)
	a.translations[media.ID()] = clean
	return nil
}

type fakeLanguageAPI struct {
	languages []model.Language
}

func (a *fakeLanguageAPI) GetAll(context.Context, *channel.Channel) ([]model.Language, error) {
	return a.languages, nil
}

type fakeSystemAPI struct {
	currencyID string
	taxes      map[float64]string
}

func (a *fakeSystemAPI) DefaultCurrencyID(context.Context, *channel.Channel) (string, error) {
	return a.currencyID, nil
}

func (a *fakeSystemAPI) TaxIDByRate(_ context.Context, _ *channel.Channel, rate float64) (string, error) {
	return a.taxes[rate], nil
}

// --- shared fixtures ---

func testLanguages() []model.Language {
	return []model.Language{
		{ID: "lang-en", Name: "English", LocaleID: "loc-en", ISO: "en"},
		{ID: "lang-de", Name: "Deutsch", LocaleID: "loc-de", ISO: "de"},
	}
}

func mustChannel() *channel.Channel {
	ch, err := channel.NewChannel("test-shop", "shop.example.com", "client", "secret", "en")
	if err != nil {
		panic(err)
	}
	ch.Languages = []string{"de"}
	return ch
}

func mustRunContext(ch *channel.Channel, watermark *time.Time) *RunContext {
	run, err := export.NewExport(ch.ID)
	if err != nil {
		panic(err)
	}
	rc, err := NewRunContext(ch, run, watermark, testLanguages())
	if err != nil {
		panic(err)
	}
	return rc
}

func timePtr(t time.Time) *time.Time { return &t }
