// Package driver holds the driver directory consumed by the booking
// lifecycle. Matching is deliberately simple: any driver with the
// requested vehicle class is reused, otherwise a placeholder is
// synthesized. This is a stand-in, not a dispatch algorithm.
package driver

import (
	"context"
	"errors"

	"rideon/internal/types"
)

var ErrNotFound = errors.New("driver not found")

type Driver struct {
	ID            types.ID `json:"id"`
	Name          string   `json:"name"`
	Phone         string   `json:"phone"`
	VehicleClass  string   `json:"vehicle_class"`
	VehicleNumber string   `json:"vehicle_number"`
	Rating        float64  `json:"rating"`
}

// Directory finds and registers drivers.
type Directory interface {
	// FindByClass returns any driver whose vehicle class matches the
	// given class, allowing partial matches. ErrNotFound when none.
	FindByClass(ctx context.Context, class string) (*Driver, error)
	Create(ctx context.Context, d *Driver) error
}
