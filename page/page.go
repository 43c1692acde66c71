// Package page resolves raw list-query parameters into a bounded cursor
// request. Markers are opaque entity IDs; because IDs are K-sortable,
// "everything after the marker in ID order" is stable across pages.
package page

import (
	"fmt"
	"strconv"

	qonos "github.com/frielp/qonos"
)

const (
	// DefaultLimit applies when the caller supplies no limit.
	DefaultLimit = 20
	// MaxLimit caps the page size; larger requests are clamped.
	MaxLimit = 1000
)

// Params is a validated, bounded list query.
type Params struct {
	// Limit is the maximum number of records to return. Always positive
	// after Resolve.
	Limit int
	// Marker is an opaque continuation token: the ID of the last record of
	// the previous page, or empty for the first page.
	Marker string
}

// Resolve validates raw query parameters. An absent limit falls back to
// DefaultLimit; a present limit must parse as a positive integer or the
// request is invalid. Values above MaxLimit are clamped, not rejected.
// The marker passes through unexamined — stores treat unknown markers as
// "start past everything".
func Resolve(rawLimit, marker string) (Params, error) {
	p := Params{Limit: DefaultLimit, Marker: marker}
	if rawLimit == "" {
		return p, nil
	}

	n, err := strconv.Atoi(rawLimit)
	if err != nil {
		return Params{}, fmt.Errorf("%w: %q", qonos.ErrInvalidLimit, rawLimit)
	}
	if n <= 0 {
		return Params{}, fmt.Errorf("%w: %d", qonos.ErrInvalidLimit, n)
	}
	if n > MaxLimit {
		n = MaxLimit
	}
	p.Limit = n
	return p, nil
}
