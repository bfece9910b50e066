package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"rideon/internal/types"
)

// Store defines the persistence operations the wallet service needs.
// The production implementation is PgxStore; tests substitute an
// in-memory fake.
type Store interface {
	GetOrCreate(ctx context.Context, userID types.ID) (*Wallet, error)
	Credit(ctx context.Context, userID types.ID, amount int64, description string) (*Wallet, error)
	DebitForBooking(ctx context.Context, userID, bookingID types.ID, amount int64, description string) error
	Transactions(ctx context.Context, userID types.ID) ([]Transaction, error)
}

// PgxStore is the PostgreSQL wallet store.
type PgxStore struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewStore(db *pgxpool.Pool, log *zap.Logger) *PgxStore {
	return &PgxStore{db: db, log: log.With(zap.String("component", "wallet_store"))}
}

// GetOrCreate returns the user's wallet, creating it lazily with a
// zero balance.
func (s *PgxStore) GetOrCreate(ctx context.Context, userID types.ID) (*Wallet, error) {
	_, err := s.db.Exec(ctx, `
		INSERT INTO wallets (id, user_id, balance, created_at)
		VALUES ($1, $2, 0, NOW())
		ON CONFLICT (user_id) DO NOTHING`,
		uuid.NewString(), string(userID),
	)
	if err != nil {
		return nil, fmt.Errorf("ensure wallet for user %s: %w", userID, err)
	}
	return s.get(ctx, s.db, userID)
}

// Credit tops up the balance and appends the matching ledger row in
// one transaction.
func (s *PgxStore) Credit(ctx context.Context, userID types.ID, amount int64, description string) (*Wallet, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO wallets (id, user_id, balance, created_at)
		VALUES ($1, $2, 0, NOW())
		ON CONFLICT (user_id) DO NOTHING`,
		uuid.NewString(), string(userID),
	)
	if err != nil {
		return nil, err
	}
	_, err = tx.Exec(ctx, `
		UPDATE wallets SET balance = balance + $2 WHERE user_id = $1`,
		string(userID), amount,
	)
	if err != nil {
		return nil, err
	}
	if err := appendEntry(ctx, tx, userID, amount, TransactionCredit, description); err != nil {
		return nil, err
	}

	w, err := s.get(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// DebitForBooking settles a completed booking from the wallet. The
// balance check, the debit, the ledger entry and the booking status
// flip commit together or not at all. The balance guard is a CAS so
// two simultaneous settlement attempts cannot both debit.
func (s *PgxStore) DebitForBooking(ctx context.Context, userID, bookingID types.ID, amount int64, description string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO wallets (id, user_id, balance, created_at)
		VALUES ($1, $2, 0, NOW())
		ON CONFLICT (user_id) DO NOTHING`,
		uuid.NewString(), string(userID),
	)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE wallets SET balance = balance - $2
		WHERE user_id = $1 AND balance >= $2`,
		string(userID), amount,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		w, err := s.get(ctx, tx, userID)
		if err != nil {
			return err
		}
		return &InsufficientBalanceError{Required: amount, Available: w.Balance.Amount}
	}

	if err := appendEntry(ctx, tx, userID, -amount, TransactionDebit, description); err != nil {
		return err
	}

	tag, err = tx.Exec(ctx, `
		UPDATE bookings SET status = 'Paid', status_version = status_version + 1
		WHERE id = $1 AND user_id = $2 AND status = 'Completed'`,
		string(bookingID), string(userID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotPayable
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.log.Info("wallet debit settled",
		zap.String("user_id", string(userID)),
		zap.String("booking_id", string(bookingID)),
		zap.Int64("amount", amount),
	)
	return nil
}

func (s *PgxStore) Transactions(ctx context.Context, userID types.ID) ([]Transaction, error) {
	rows, err := s.db.Query(ctx, `
		SELECT t.id, t.wallet_id, t.amount, t.transaction_type, t.description, t.created_at
		FROM wallet_transactions t
		JOIN wallets w ON w.id = t.wallet_id
		WHERE w.user_id = $1
		ORDER BY t.created_at DESC`, string(userID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Transaction
	for rows.Next() {
		var e Transaction
		var id, walletID string
		if err := rows.Scan(&id, &walletID, &e.Amount, &e.Type, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ID = types.ID(id)
		e.WalletID = types.ID(walletID)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *PgxStore) get(ctx context.Context, q queryer, userID types.ID) (*Wallet, error) {
	row := q.QueryRow(ctx, `
		SELECT id, user_id, balance, created_at
		FROM wallets WHERE user_id = $1`, string(userID),
	)
	var w Wallet
	var id, uid string
	var balance int64
	var createdAt time.Time
	if err := row.Scan(&id, &uid, &balance, &createdAt); err != nil {
		return nil, err
	}
	w.ID = types.ID(id)
	w.UserID = types.ID(uid)
	w.Balance = types.Rupees(balance)
	w.CreatedAt = createdAt
	return &w, nil
}

func appendEntry(ctx context.Context, tx pgx.Tx, userID types.ID, amount int64, typ TransactionType, description string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO wallet_transactions (id, wallet_id, amount, transaction_type, description, created_at)
		SELECT $1, id, $2, $3, $4, NOW() FROM wallets WHERE user_id = $5`,
		uuid.NewString(), amount, string(typ), description, string(userID),
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

var _ Store = (*PgxStore)(nil)
