package geo

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"rideon/internal/types"
)

// MapsGeocoder resolves places through the Google Maps Geocoding API.
// Every call is bounded by the configured timeout so a slow upstream
// can never stall the quoting path.
type MapsGeocoder struct {
	client  *maps.Client
	region  string
	timeout time.Duration
}

func NewMapsGeocoder(apiKey, region string, timeout time.Duration) (*MapsGeocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &MapsGeocoder{client: client, region: region, timeout: timeout}, nil
}

func (g *MapsGeocoder) Resolve(ctx context.Context, place string) (types.Point, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address: place,
		Region:  g.region,
	})
	if err != nil {
		return types.Point{}, fmt.Errorf("geocode %q: %w", place, err)
	}
	if len(results) == 0 {
		return types.Point{}, ErrNotFound
	}
	loc := results[0].Geometry.Location
	return types.Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}
