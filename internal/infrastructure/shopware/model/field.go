// Package model holds the in-memory mirrors of remote Shopware resources.
// Every snapshot tracks a dirty flag: a setter that receives a value equal to
// the current one leaves the flag alone, a setter that changes the value
// flips it. The export processes rely on this contract to decide whether a
// remote update call is needed at all.
package model

import "reflect"

// apply assigns v to *dst and reports whether the value changed. All setters
// funnel through apply (or applyAny) so the dirty contract lives in one place.
func apply[T comparable](dst *T, v T) bool {
	if *dst == v {
		return false
	}
	*dst = v
	return true
}

// applyPtr assigns v to *dst comparing pointees, treating two nils as equal.
func applyPtr[T comparable](dst **T, v *T) bool {
	if *dst == nil && v == nil {
		return false
	}
	if *dst != nil && v != nil && **dst == *v {
		return false
	}
	*dst = v
	return true
}

// applyAny assigns arbitrary values (custom field payloads can be strings,
// numbers, slices or nested maps) comparing by deep equality.
func applyAny(dst *any, v any) bool {
	if reflect.DeepEqual(*dst, v) {
		return false
	}
	*dst = v
	return true
}

// strPtr returns a pointer to s, or nil for the empty string. Remote payloads
// omit empty optional fields instead of sending "".
func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
