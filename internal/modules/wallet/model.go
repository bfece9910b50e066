// Package wallet manages per-user balances and the append-only
// transaction ledger. Every balance change writes exactly one ledger
// row inside the same database transaction.
package wallet

import (
	"errors"
	"fmt"
	"time"

	"rideon/internal/types"
)

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

type Wallet struct {
	ID        types.ID    `json:"id"`
	UserID    types.ID    `json:"user_id"`
	Balance   types.Money `json:"balance"`
	CreatedAt time.Time   `json:"created_at"`
}

// Transaction is an immutable ledger entry. Amount is signed:
// negative for debits, positive for credits.
type Transaction struct {
	ID          types.ID        `json:"id"`
	WalletID    types.ID        `json:"wallet_id"`
	Amount      int64           `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

var (
	// ErrInvalidAmount rejects non-positive top-ups.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrBookingNotPayable reports that the booking-status flip inside
	// the settlement transaction matched no row (already paid or not
	// completed); the whole transaction is rolled back.
	ErrBookingNotPayable = errors.New("booking not payable")
)

// InsufficientBalanceError carries the figures the caller reports back
// to the user.
type InsufficientBalanceError struct {
	Required  int64
	Available int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient wallet balance: need %d, have %d", e.Required, e.Available)
}
