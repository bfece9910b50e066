package wallet

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"rideon/internal/types"
)

type Service struct {
	store Store
	log   *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log.With(zap.String("component", "wallet"))}
}

// Get returns the user's wallet, creating an empty one on first use.
func (s *Service) Get(ctx context.Context, userID types.ID) (*Wallet, error) {
	return s.store.GetOrCreate(ctx, userID)
}

// TopUp credits the wallet. The amount must be strictly positive; the
// wallet is left untouched otherwise.
func (s *Service) TopUp(ctx context.Context, userID types.ID, amount int64) (*Wallet, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	w, err := s.store.Credit(ctx, userID, amount, fmt.Sprintf("Wallet top-up of ₹%d", amount))
	if err != nil {
		return nil, err
	}
	s.log.Info("wallet credited",
		zap.String("user_id", string(userID)),
		zap.Int64("amount", amount),
		zap.Int64("balance", w.Balance.Amount),
	)
	return w, nil
}

// DebitForBooking atomically settles a completed booking from the
// wallet; see Store.DebitForBooking for the transaction contract.
func (s *Service) DebitForBooking(ctx context.Context, userID, bookingID types.ID, amount types.Money) error {
	description := fmt.Sprintf("Trip payment for booking %s", bookingID)
	return s.store.DebitForBooking(ctx, userID, bookingID, amount.Amount, description)
}

// Transactions lists the user's ledger, newest first.
func (s *Service) Transactions(ctx context.Context, userID types.ID) ([]Transaction, error) {
	return s.store.Transactions(ctx, userID)
}
