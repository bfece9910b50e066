// Package pricing implements the fare quoting engine: vehicle catalog,
// tiered distance fares, time-of-day surcharges and promocodes.
package pricing

import "time"

// VehicleClass names a bookable vehicle category.
type VehicleClass string

const (
	ClassScooter      VehicleClass = "Scooter"
	ClassSaverScooter VehicleClass = "Saver Scooter"
	ClassBike         VehicleClass = "Bike"
	ClassRickshaw     VehicleClass = "Rickshaw"
	ClassMini         VehicleClass = "Mini"
	ClassSUV          VehicleClass = "SUV"
	ClassAuto         VehicleClass = "Auto"
)

// Rate is the fare schedule for one vehicle class, in whole rupees.
type Rate struct {
	Class    VehicleClass
	BaseFare int64
	PerKm    int64
}

// Catalog is the ordered vehicle-class rate schedule.
type Catalog []Rate

// DefaultCatalog mirrors the production rate card.
var DefaultCatalog = Catalog{
	{Class: ClassScooter, BaseFare: 15, PerKm: 5},
	{Class: ClassSaverScooter, BaseFare: 12, PerKm: 4},
	{Class: ClassBike, BaseFare: 20, PerKm: 6},
	{Class: ClassRickshaw, BaseFare: 25, PerKm: 8},
	{Class: ClassMini, BaseFare: 50, PerKm: 12},
	{Class: ClassSUV, BaseFare: 120, PerKm: 20},
	{Class: ClassAuto, BaseFare: 30, PerKm: 9},
}

// Contains reports whether the catalog has a rate for the given class.
func (c Catalog) Contains(class VehicleClass) bool {
	_, ok := c.Rate(class)
	return ok
}

// Rate looks up the rate for a class.
func (c Catalog) Rate(class VehicleClass) (Rate, bool) {
	for _, r := range c {
		if r.Class == class {
			return r, true
		}
	}
	return Rate{}, false
}

// QuoteRequest asks for fares on a route. Empty pickup/destination
// switches to preview mode: every class quoted at a fixed distance
// with no distance filtering.
type QuoteRequest struct {
	Pickup            string
	Destination       string
	Promocode         string
	AlreadyDiscounted bool
	At                time.Time
}

// Breakdown is a display-only split of the charge above base fare:
// 80% attributed to distance, 20% to surcharges. It is not a precise
// cost attribution.
type Breakdown struct {
	Base           int64   `json:"base"`
	DistanceCharge float64 `json:"distance_charge"`
	Surcharges     float64 `json:"surcharges"`
}

// Quote is one vehicle class priced for a route.
type Quote struct {
	Class      VehicleClass `json:"type"`
	Price      int64        `json:"price"`
	BaseFare   int64        `json:"base_fare"`
	PerKmRate  int64        `json:"per_km_rate"`
	DistanceKm float64      `json:"distance"`
	Breakdown  Breakdown    `json:"fare_breakdown"`
}
