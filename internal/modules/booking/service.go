package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rideon/internal/modules/driver"
	"rideon/internal/modules/pricing"
	"rideon/internal/modules/wallet"
	"rideon/internal/types"
)

var (
	ErrNotFound       = errors.New("booking not found")
	ErrActiveTrip     = errors.New("active trip exists")
	ErrInvalidState   = errors.New("invalid state transition")
	ErrConflict       = errors.New("booking state conflict")
	ErrNotPayable     = errors.New("booking not found or not payable")
	ErrInvalidPayment = errors.New("invalid payment method")
	ErrBadRequest     = errors.New("bad request")
)

// Store defines the persistence operations the lifecycle needs. The
// production implementation is PgxStore; tests substitute an
// in-memory fake.
type Store interface {
	// Create persists a new booking, re-checking the active-trip
	// precondition inside the same transaction. Returns ErrActiveTrip
	// when the user already holds an active booking.
	Create(ctx context.Context, b *Booking) error
	Get(ctx context.Context, id types.ID) (*Booking, error)
	GetForUser(ctx context.Context, id, userID types.ID) (*Booking, error)
	ListByUser(ctx context.Context, userID types.ID) ([]Booking, error)
	ListOngoing(ctx context.Context) ([]Booking, error)
	HasActiveByUser(ctx context.Context, userID types.ID) (bool, error)
	// UpdateStatus performs an optimistically locked transition and
	// reports whether the row was won.
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error)
	// CancelConfirmed flips a cancellable Confirmed booking owned by
	// the user to Cancelled, clearing the cancellable flag. Reports
	// whether anything changed.
	CancelConfirmed(ctx context.Context, id, userID types.ID) (bool, error)
}

// Ledger is the wallet collaborator used for settlement.
type Ledger interface {
	DebitForBooking(ctx context.Context, userID, bookingID types.ID, amount types.Money) error
}

type Service struct {
	store   Store
	drivers driver.Directory
	promos  pricing.PromoTable
	ledger  Ledger
	log     *zap.Logger
}

func NewService(store Store, drivers driver.Directory, promos pricing.PromoTable, ledger Ledger, log *zap.Logger) *Service {
	return &Service{
		store:   store,
		drivers: drivers,
		promos:  promos,
		ledger:  ledger,
		log:     log.With(zap.String("component", "booking")),
	}
}

type CreateCommand struct {
	UserID       types.ID
	VehicleClass string
	Price        int64
	Pickup       string
	Destination  string
	Promocode    string
}

// Create books a ride. The submitted price is never trusted as
// discounted: the promocode is re-applied server-side before the fare
// is locked.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Booking, error) {
	if cmd.UserID == "" || cmd.VehicleClass == "" || cmd.Pickup == "" || cmd.Destination == "" {
		return nil, ErrBadRequest
	}
	if cmd.Price < 0 {
		return nil, ErrBadRequest
	}

	active, err := s.store.HasActiveByUser(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrActiveTrip
	}

	price, discount, _ := s.promos.Apply(cmd.Price, cmd.Promocode, false)

	d, err := s.resolveDriver(ctx, cmd.VehicleClass, cmd.UserID)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		ID:            types.ID(uuid.NewString()),
		UserID:        cmd.UserID,
		VehicleClass:  cmd.VehicleClass,
		Price:         types.Rupees(price),
		Pickup:        cmd.Pickup,
		Destination:   cmd.Destination,
		Status:        StatusDriverAssigned,
		CanCancel:     true,
		DriverID:      &d.ID,
		VehicleNumber: &d.VehicleNumber,
		CreatedAt:     time.Now(),
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, err
	}
	s.log.Info("booking created",
		zap.String("booking_id", string(b.ID)),
		zap.String("user_id", string(cmd.UserID)),
		zap.String("vehicle_class", cmd.VehicleClass),
		zap.Int64("price", price),
		zap.Int64("discount", discount),
	)
	return b, nil
}

type RentalCommand struct {
	UserID       types.ID
	VehicleClass string
	Price        int64
}

// CreateRental books a self-drive rental. Rentals land directly in
// the terminal Rented state and do not participate in the
// single-active-trip rule.
func (s *Service) CreateRental(ctx context.Context, cmd RentalCommand) (*Booking, error) {
	if cmd.UserID == "" || cmd.VehicleClass == "" || cmd.Price < 0 {
		return nil, ErrBadRequest
	}
	b := &Booking{
		ID:           types.ID(uuid.NewString()),
		UserID:       cmd.UserID,
		VehicleClass: cmd.VehicleClass,
		Price:        types.Rupees(cmd.Price),
		Pickup:       "Rental",
		Destination:  "Rental",
		Status:       StatusRented,
		CreatedAt:    time.Now(),
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Start moves a booking from Driver Assigned to In Progress.
func (s *Service) Start(ctx context.Context, id types.ID) (*Booking, error) {
	return s.advance(ctx, id, StatusInProgress)
}

// Complete moves a booking from In Progress to Completed.
func (s *Service) Complete(ctx context.Context, id types.ID) (*Booking, error) {
	return s.advance(ctx, id, StatusCompleted)
}

func (s *Service) advance(ctx context.Context, id types.ID, to Status) (*Booking, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, to) {
		return nil, ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, id, b.Status, to, b.StatusVersion)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	s.log.Info("booking advanced",
		zap.String("booking_id", string(id)),
		zap.String("from", string(b.Status)),
		zap.String("to", string(to)),
	)
	return s.store.Get(ctx, id)
}

type PayCommand struct {
	BookingID types.ID
	UserID    types.ID
	Method    PaymentMethod
}

// PayResult reports how settlement ended. AlreadyPaid marks the
// idempotent re-pay case, which creates no second ledger entry.
type PayResult struct {
	Booking     *Booking
	AlreadyPaid bool
}

// Pay settles a completed booking. Wallet settlement is atomic: the
// debit, its ledger entry and the status flip commit together or not
// at all, so a failure can never leave a booking half paid.
func (s *Service) Pay(ctx context.Context, cmd PayCommand) (*PayResult, error) {
	b, err := s.store.GetForUser(ctx, cmd.BookingID, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if b.Status == StatusPaid {
		return &PayResult{Booking: b, AlreadyPaid: true}, nil
	}
	if b.Status != StatusCompleted {
		return nil, ErrNotPayable
	}
	if b.Price.Amount <= 0 {
		return nil, ErrBadRequest
	}

	switch cmd.Method {
	case PaymentWallet:
		err := s.ledger.DebitForBooking(ctx, cmd.UserID, cmd.BookingID, b.Price)
		if errors.Is(err, wallet.ErrBookingNotPayable) {
			// Lost a race with another settlement attempt; reload to
			// tell already-paid apart from a real conflict.
			if cur, getErr := s.store.GetForUser(ctx, cmd.BookingID, cmd.UserID); getErr == nil && cur.Status == StatusPaid {
				return &PayResult{Booking: cur, AlreadyPaid: true}, nil
			}
			return nil, ErrConflict
		}
		if err != nil {
			return nil, err
		}
	case PaymentCash:
		ok, err := s.store.UpdateStatus(ctx, cmd.BookingID, StatusCompleted, StatusPaid, b.StatusVersion)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrConflict
		}
	default:
		return nil, ErrInvalidPayment
	}

	paid, err := s.store.GetForUser(ctx, cmd.BookingID, cmd.UserID)
	if err != nil {
		return nil, err
	}
	s.log.Info("booking settled",
		zap.String("booking_id", string(cmd.BookingID)),
		zap.String("method", string(cmd.Method)),
		zap.Int64("amount", b.Price.Amount),
	)
	return &PayResult{Booking: paid}, nil
}

// Cancel withdraws a Confirmed, still-cancellable booking. Any other
// state is a silent no-op: the booking is returned unchanged and
// changed=false. (Kept bug-compatible with the original product
// behavior pending clarification.)
func (s *Service) Cancel(ctx context.Context, id, userID types.ID) (b *Booking, changed bool, err error) {
	b, err = s.store.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, false, err
	}
	if b.Status != StatusConfirmed || !b.CanCancel {
		s.log.Debug("cancel ignored",
			zap.String("booking_id", string(id)),
			zap.String("status", string(b.Status)),
		)
		return b, false, nil
	}
	ok, err := s.store.CancelConfirmed(ctx, id, userID)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return b, false, nil
	}
	b, err = s.store.GetForUser(ctx, id, userID)
	return b, true, err
}

// Get returns a booking owned by the user.
func (s *Service) Get(ctx context.Context, id, userID types.ID) (*Booking, error) {
	return s.store.GetForUser(ctx, id, userID)
}

// History lists the user's bookings, newest first.
func (s *Service) History(ctx context.Context, userID types.ID) ([]Booking, error) {
	return s.store.ListByUser(ctx, userID)
}

// Ongoing lists trips currently on the road, for the admin dashboard.
func (s *Service) Ongoing(ctx context.Context) ([]Booking, error) {
	return s.store.ListOngoing(ctx)
}

// resolveDriver reuses any driver with a matching vehicle class and
// synthesizes a deterministic placeholder otherwise.
func (s *Service) resolveDriver(ctx context.Context, class string, userID types.ID) (*driver.Driver, error) {
	d, err := s.drivers.FindByClass(ctx, class)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, driver.ErrNotFound) {
		return nil, err
	}
	d = &driver.Driver{
		ID:            types.ID(uuid.NewString()),
		Name:          fmt.Sprintf("Driver %s", class),
		Phone:         "+91-9876543210",
		VehicleClass:  class,
		VehicleNumber: placeholderVehicleNumber(class, userID),
		Rating:        4.5,
	}
	if err := s.drivers.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func placeholderVehicleNumber(class string, userID types.ID) string {
	prefix := strings.ToUpper(class)
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	suffix := string(userID)
	if len(suffix) > 4 {
		suffix = suffix[:4]
	}
	return fmt.Sprintf("%s-%s", prefix, suffix)
}
