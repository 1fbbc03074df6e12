package shopware

// Filter is one criteria filter of a search request.
type Filter struct {
	Type  string `json:"type"`
	Field string `json:"field"`
	Value any    `json:"value"`
}

// EqualsFilter matches documents whose field equals the value.
func EqualsFilter(field string, value any) Filter {
	return Filter{Type: "equals", Field: field, Value: value}
}

// EqualsAnyFilter matches documents whose field equals any of the values.
func EqualsAnyFilter(field string, values []string) Filter {
	return Filter{Type: "equalsAny", Field: field, Value: values}
}

// Criteria is the JSON criteria body of the search endpoints.
type Criteria struct {
	limit        int
	page         int
	ids          []string
	filters      []Filter
	associations map[string]any
	includes     map[string][]string
}

// NewCriteria creates an empty criteria.
func NewCriteria() *Criteria {
	return &Criteria{}
}

// Limit caps the page size.
func (c *Criteria) Limit(limit int) *Criteria {
	c.limit = limit
	return c
}

// Page selects the result page, starting at 1.
func (c *Criteria) Page(page int) *Criteria {
	c.page = page
	return c
}

// IDs restricts the result to the given document ids.
func (c *Criteria) IDs(ids []string) *Criteria {
	c.ids = ids
	return c
}

// Filter appends a filter.
func (c *Criteria) Filter(f Filter) *Criteria {
	c.filters = append(c.filters, f)
	return c
}

// Association loads the named association with the result.
func (c *Criteria) Association(name string) *Criteria {
	if c.associations == nil {
		c.associations = map[string]any{}
	}
	c.associations[name] = map[string]any{}
	return c
}

// Include restricts the returned fields of an api alias.
func (c *Criteria) Include(alias string, fields []string) *Criteria {
	if c.includes == nil {
		c.includes = map[string][]string{}
	}
	c.includes[alias] = fields
	return c
}

// Body renders the criteria into the search request payload.
func (c *Criteria) Body() map[string]any {
	body := map[string]any{}
	if c.limit > 0 {
		body["limit"] = c.limit
	}
	if c.page > 0 {
		body["page"] = c.page
	}
	if len(c.ids) > 0 {
		body["ids"] = c.ids
	}
	if len(c.filters) > 0 {
		body["filter"] = c.filters
	}
	if len(c.associations) > 0 {
		body["associations"] = c.associations
	}
	if len(c.includes) > 0 {
		body["includes"] = c.includes
	}
	return body
}
