package pricing

import (
	"math"
	"time"
)

const (
	// MinFare and MaxFare clamp every quoted price.
	MinFare int64 = 1
	MaxFare int64 = 99999

	// PreviewDistanceKm is used when quoting without a route.
	PreviewDistanceKm = 10.0
)

// fare computes the undiscounted tiered fare for a distance.
//
// Tier boundaries (km): 2, 5, 15, 50. Very short trips get a minimum
// floor of 1.5x base; beyond 5 km the distance component is
// progressively discounted (95% to 15 km, 85% to 50 km, 75% after).
func fare(rate Rate, distanceKm float64) float64 {
	base := float64(rate.BaseFare)
	perKm := float64(rate.PerKm)

	switch {
	case distanceKm <= 2:
		return math.Max(base*1.5, base+perKm*distanceKm)
	case distanceKm <= 5:
		return base + perKm*distanceKm
	case distanceKm <= 15:
		return base + perKm*distanceKm*0.95
	case distanceKm <= 50:
		return base + perKm*15*0.95 + perKm*(distanceKm-15)*0.85
	default:
		return base + perKm*15*0.95 + perKm*35*0.85 + perKm*(distanceKm-50)*0.75
	}
}

// timeMultiplier returns the time-of-day surcharge for the local hour:
// 15% during the morning and evening rush, 10% late at night.
func timeMultiplier(at time.Time) float64 {
	hour := at.Hour()
	switch {
	case (hour >= 7 && hour <= 10) || (hour >= 17 && hour <= 20):
		return 1.15
	case hour >= 22 || hour <= 5:
		return 1.10
	}
	return 1.0
}

// classMultiplier adjusts for vehicle class: premium classes cost 5%
// more, the saver class 5% less.
func classMultiplier(class VehicleClass) float64 {
	switch class {
	case ClassSUV, ClassMini:
		return 1.05
	case ClassSaverScooter:
		return 0.95
	}
	return 1.0
}

// Fare prices one vehicle class for a distance at a point in time,
// applying an optional promocode. Percent codes discount before
// rounding, flat codes deduct from the rounded price; the result is
// always clamped to [MinFare, MaxFare].
func Fare(rate Rate, distanceKm float64, at time.Time, promo *Promo) int64 {
	f := fare(rate, distanceKm)
	f *= timeMultiplier(at)
	f *= classMultiplier(rate.Class)
	if promo != nil && promo.Kind == PromoPercent {
		f *= 1 - float64(promo.Value)/100
	}
	price := roundHalfUp(f)
	if promo != nil && promo.Kind == PromoFlat {
		price -= flatDiscount(price, promo.Value)
	}
	return clampFare(price)
}

// EligibleAt reports whether a vehicle class may be offered for a
// real (non-preview) distance. SUVs are withheld on awkward mid-range
// trips below 15 km, and scooters are not viable for long hauls.
func EligibleAt(class VehicleClass, distanceKm float64) bool {
	switch {
	case distanceKm < 5:
		return true
	case distanceKm < 25:
		return class != ClassSUV || distanceKm >= 15
	case distanceKm < 100:
		return true
	default:
		return class != ClassScooter && class != ClassSaverScooter
	}
}

func clampFare(price int64) int64 {
	if price < MinFare {
		return MinFare
	}
	if price > MaxFare {
		return MaxFare
	}
	return price
}

func flatDiscount(price, value int64) int64 {
	if price < value {
		return price
	}
	return value
}

// roundHalfUp rounds to the nearest whole rupee, halves up.
func roundHalfUp(f float64) int64 {
	return int64(math.Floor(f + 0.5))
}
