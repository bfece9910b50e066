// Package booking implements the trip lifecycle: creation under the
// single-active-trip rule, monotonic status transitions and payment
// settlement.
package booking

import (
	"time"

	"rideon/internal/types"
)

type Status string

const (
	StatusPending        Status = "Pending"
	StatusConfirmed      Status = "Confirmed"
	StatusDriverAssigned Status = "Driver Assigned"
	StatusInProgress     Status = "In Progress"
	StatusCompleted      Status = "Completed"
	StatusPaid           Status = "Paid"
	StatusCancelled      Status = "Cancelled"
	// StatusRented is the terminal state of the separate rental flow;
	// rentals never pass through the trip state machine.
	StatusRented Status = "Rented"
)

// ActiveStatuses block a user from creating another booking. Every
// non-terminal state counts, including Completed: a finished trip
// keeps blocking until payment clears it to Paid.
var ActiveStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusDriverAssigned,
	StatusInProgress,
	StatusCompleted,
}

// AllowedTransitions encodes the trip state flow. Transitions are
// monotonic; the only exit from Confirmed is cancellation.
var AllowedTransitions = map[Status][]Status{
	StatusPending:        {StatusDriverAssigned},
	StatusConfirmed:      {StatusCancelled},
	StatusDriverAssigned: {StatusInProgress},
	StatusInProgress:     {StatusCompleted},
	StatusCompleted:      {StatusPaid},
}

func CanTransition(from, to Status) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsActive reports whether a status blocks new bookings.
func (s Status) IsActive() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentWallet PaymentMethod = "wallet"
	PaymentCash   PaymentMethod = "cash"
)

// Booking is one ride request. Price is locked at creation time and
// never re-quoted.
type Booking struct {
	ID            types.ID    `json:"id"`
	UserID        types.ID    `json:"user_id"`
	VehicleClass  string      `json:"vehicle_type"`
	Price         types.Money `json:"price"`
	Pickup        string      `json:"pickup"`
	Destination   string      `json:"destination"`
	Status        Status      `json:"status"`
	StatusVersion int         `json:"-"`
	CanCancel     bool        `json:"can_cancel"`
	DriverID      *types.ID   `json:"driver_id,omitempty"`
	VehicleNumber *string     `json:"vehicle_number,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}
