package model

import "reflect"

// CustomFieldValues is the keyed-by-field-id custom field map shared by
// categories, products and their translations. An explicit nil value clears
// the field remotely while leaving the others untouched.
type CustomFieldValues map[string]any

// set updates the field in place and reports whether anything changed.
func (c *CustomFieldValues) set(fieldID string, value any) bool {
	if *c == nil {
		*c = CustomFieldValues{}
	}
	current, ok := (*c)[fieldID]
	if !ok && value == nil {
		return false
	}
	if ok && reflect.DeepEqual(current, value) {
		return false
	}
	(*c)[fieldID] = value
	return true
}

// Has reports whether the field carries an entry, including explicit nil.
func (c CustomFieldValues) Has(fieldID string) bool {
	_, ok := c[fieldID]
	return ok
}

// Get returns the stored value for the field id.
func (c CustomFieldValues) Get(fieldID string) any {
	return c[fieldID]
}

// clone copies the map so translated views never alias the root snapshot.
func (c CustomFieldValues) clone() CustomFieldValues {
	if c == nil {
		return nil
	}
	out := make(CustomFieldValues, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// equal compares two value maps by deep equality.
func (c CustomFieldValues) equal(other CustomFieldValues) bool {
	if len(c) != len(other) {
		return false
	}
	for k, v := range c {
		ov, ok := other[k]
		if !ok || !reflect.DeepEqual(v, ov) {
			return false
		}
	}
	return true
}
