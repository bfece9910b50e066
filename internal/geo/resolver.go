// Package geo resolves free-text places to coordinates and distances.
//
// Resolution is best effort by design: the quoting path must always
// produce a distance, so failures degrade through a landmark table and
// finally a fixed default instead of surfacing an error.
package geo

import (
	"context"
	"errors"
	"strings"

	"rideon/internal/types"
)

// ErrNotFound reports that a place could not be resolved to coordinates.
var ErrNotFound = errors.New("place not found")

// Resolver turns a free-text place description into coordinates.
type Resolver interface {
	Resolve(ctx context.Context, place string) (types.Point, error)
}

// DefaultUnresolvedKm is used when either endpoint of a route cannot be
// resolved at all.
const DefaultUnresolvedKm = 15.0

// Chain tries each resolver in order and returns the first hit.
type Chain []Resolver

func (c Chain) Resolve(ctx context.Context, place string) (types.Point, error) {
	for _, r := range c {
		p, err := r.Resolve(ctx, place)
		if err == nil {
			return p, nil
		}
	}
	return types.Point{}, ErrNotFound
}

// RouteDistanceKm resolves both endpoints and returns the clamped
// great-circle distance between them. Unresolvable endpoints fall back
// to DefaultUnresolvedKm; this function never fails.
func RouteDistanceKm(ctx context.Context, r Resolver, pickup, destination string) float64 {
	from, err := r.Resolve(ctx, pickup)
	if err != nil {
		return DefaultUnresolvedKm
	}
	to, err := r.Resolve(ctx, destination)
	if err != nil {
		return DefaultUnresolvedKm
	}
	return DistanceKm(from, to)
}

func normalizePlace(place string) string {
	return strings.ToLower(strings.TrimSpace(place))
}
