package pricing

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"rideon/internal/geo"
)

// Service quotes fares for routes. It never fails a quote: distance
// resolution degrades through the resolver chain down to fixed
// defaults.
type Service struct {
	resolver geo.Resolver
	catalog  Catalog
	promos   PromoTable
	log      *zap.Logger
}

func NewService(resolver geo.Resolver, catalog Catalog, promos PromoTable, log *zap.Logger) *Service {
	return &Service{
		resolver: resolver,
		catalog:  catalog,
		promos:   promos,
		log:      log.With(zap.String("component", "pricing")),
	}
}

// Catalog exposes the rate card, e.g. for request validation.
func (s *Service) Catalog() Catalog {
	return s.catalog
}

// Promos exposes the promocode table for server-side re-application.
func (s *Service) Promos() PromoTable {
	return s.promos
}

// Quote prices every eligible vehicle class for the request. With a
// route it resolves a real distance and filters classes by viability;
// without one it returns a catalog preview at a fixed distance.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) []Quote {
	at := req.At
	if at.IsZero() {
		at = time.Now()
	}

	var promo *Promo
	if !req.AlreadyDiscounted {
		if p, ok := s.promos.Lookup(req.Promocode); ok {
			promo = &p
		}
	}

	preview := req.Pickup == "" || req.Destination == ""
	distance := PreviewDistanceKm
	if !preview {
		distance = geo.RouteDistanceKm(ctx, s.resolver, req.Pickup, req.Destination)
		s.log.Debug("resolved route distance",
			zap.String("pickup", req.Pickup),
			zap.String("destination", req.Destination),
			zap.Float64("distance_km", distance),
		)
	}

	quotes := make([]Quote, 0, len(s.catalog))
	for _, rate := range s.catalog {
		if !preview && !EligibleAt(rate.Class, distance) {
			continue
		}
		price := Fare(rate, distance, at, promo)
		quotes = append(quotes, Quote{
			Class:      rate.Class,
			Price:      price,
			BaseFare:   rate.BaseFare,
			PerKmRate:  rate.PerKm,
			DistanceKm: round1(distance),
			Breakdown: Breakdown{
				Base:           rate.BaseFare,
				DistanceCharge: round1(float64(price-rate.BaseFare) * 0.8),
				Surcharges:     round1(float64(price-rate.BaseFare) * 0.2),
			},
		})
	}
	return quotes
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
