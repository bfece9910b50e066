package geo

import (
	"context"
	"strings"

	"rideon/internal/types"
)

// landmarks maps well-known city/landmark substrings to coordinates.
// Matched case-insensitively anywhere in the place text, so "Mumbai
// Central" and "new delhi" both hit.
var landmarks = map[string]types.Point{
	"mumbai":    {Lat: 19.0760, Lng: 72.8777},
	"delhi":     {Lat: 28.7041, Lng: 77.1025},
	"bangalore": {Lat: 12.9716, Lng: 77.5946},
	"chennai":   {Lat: 13.0827, Lng: 80.2707},
	"kolkata":   {Lat: 22.5726, Lng: 88.3639},
	"hyderabad": {Lat: 17.3850, Lng: 78.4867},
	"pune":      {Lat: 18.5204, Lng: 73.8567},
	"airport":   {Lat: 19.0896, Lng: 72.8656},
	"station":   {Lat: 19.0330, Lng: 72.8347},
}

// LandmarkResolver resolves places against the static landmark table.
// It is the offline fallback behind the Maps geocoder.
type LandmarkResolver struct{}

func (LandmarkResolver) Resolve(_ context.Context, place string) (types.Point, error) {
	normalized := normalizePlace(place)
	if normalized == "" {
		return types.Point{}, ErrNotFound
	}
	for substr, p := range landmarks {
		if strings.Contains(normalized, substr) {
			return p, nil
		}
	}
	return types.Point{}, ErrNotFound
}
