package driver

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rideon/internal/types"
)

// Store is the PostgreSQL driver directory.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) FindByClass(ctx context.Context, class string) (*Driver, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, phone, vehicle_class, vehicle_number, rating
		FROM drivers
		WHERE vehicle_class ILIKE '%' || $1 || '%'
		ORDER BY created_at
		LIMIT 1`, class,
	)

	var d Driver
	var id string
	err := row.Scan(&id, &d.Name, &d.Phone, &d.VehicleClass, &d.VehicleNumber, &d.Rating)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	d.ID = types.ID(id)
	return &d, nil
}

func (s *Store) Create(ctx context.Context, d *Driver) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO drivers (id, name, phone, vehicle_class, vehicle_number, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
		string(d.ID), d.Name, d.Phone, d.VehicleClass, d.VehicleNumber, d.Rating,
	)
	return err
}
