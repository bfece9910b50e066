package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rideon/internal/types"
)

const bookingColumns = `id, user_id, vehicle_class, price, pickup, destination,
	status, status_version, can_cancel, driver_id, vehicle_number, created_at`

// PgxStore is the PostgreSQL booking store.
type PgxStore struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *PgxStore {
	return &PgxStore{db: db}
}

// Create inserts the booking, re-verifying the active-trip rule
// inside the transaction so two simultaneous requests from the same
// user cannot both slip past the service-level check. Rentals skip
// the check (Rented is not an active status).
func (s *PgxStore) Create(ctx context.Context, b *Booking) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if b.Status.IsActive() || b.Status == StatusDriverAssigned {
		var exists bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM bookings
				WHERE user_id = $1
				  AND status IN ('Pending','Confirmed','Driver Assigned','In Progress','Completed')
				FOR UPDATE
			)`, string(b.UserID),
		).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			return ErrActiveTrip
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO bookings (
			id, user_id, vehicle_class, price, pickup, destination,
			status, status_version, can_cancel, driver_id, vehicle_number, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		string(b.ID),
		string(b.UserID),
		b.VehicleClass,
		b.Price.Amount,
		b.Pickup,
		b.Destination,
		string(b.Status),
		b.StatusVersion,
		b.CanCancel,
		idPtr(b.DriverID),
		b.VehicleNumber,
		b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *PgxStore) Get(ctx context.Context, id types.ID) (*Booking, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, string(id))
	return scanBooking(row)
}

func (s *PgxStore) GetForUser(ctx context.Context, id, userID types.ID) (*Booking, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 AND user_id = $2`,
		string(id), string(userID))
	return scanBooking(row)
}

func (s *PgxStore) ListByUser(ctx context.Context, userID types.ID) ([]Booking, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`,
		string(userID))
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (s *PgxStore) ListOngoing(ctx context.Context) ([]Booking, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE status IN ('Driver Assigned', 'In Progress')
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (s *PgxStore) HasActiveByUser(ctx context.Context, userID types.ID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE user_id = $1
			  AND status IN ('Pending','Confirmed','Driver Assigned','In Progress','Completed')
		)`, string(userID),
	).Scan(&exists)
	return exists, err
}

func (s *PgxStore) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE bookings
		SET status = $1, status_version = status_version + 1
		WHERE id = $2 AND status = $3 AND status_version = $4`,
		string(to), string(id), string(from), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PgxStore) CancelConfirmed(ctx context.Context, id, userID types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE bookings
		SET status = 'Cancelled', can_cancel = FALSE, status_version = status_version + 1
		WHERE id = $1 AND user_id = $2 AND status = 'Confirmed' AND can_cancel`,
		string(id), string(userID),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var id, userID string
	var price int64
	var driverID, vehicleNumber *string

	err := row.Scan(
		&id, &userID, &b.VehicleClass, &price, &b.Pickup, &b.Destination,
		&b.Status, &b.StatusVersion, &b.CanCancel, &driverID, &vehicleNumber, &b.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	b.ID = types.ID(id)
	b.UserID = types.ID(userID)
	b.Price = types.Rupees(price)
	if driverID != nil {
		d := types.ID(*driverID)
		b.DriverID = &d
	}
	b.VehicleNumber = vehicleNumber
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]Booking, error) {
	defer rows.Close()
	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func idPtr(id *types.ID) *string {
	if id == nil {
		return nil
	}
	s := string(*id)
	return &s
}

var _ Store = (*PgxStore)(nil)
