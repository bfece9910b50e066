package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"rideon/internal/auth"
	"rideon/internal/geo"
	"rideon/internal/modules/booking"
	"rideon/internal/modules/driver"
	"rideon/internal/modules/pricing"
	"rideon/internal/modules/wallet"
	"rideon/internal/types"
)

// In-memory stand-ins so the router test exercises real services
// end to end without a database.

type memResolver struct{}

func (memResolver) Resolve(_ context.Context, place string) (types.Point, error) {
	switch strings.ToLower(place) {
	case "andheri":
		return types.Point{Lat: 19.1197, Lng: 72.8464}, nil
	case "bandra":
		return types.Point{Lat: 19.0596, Lng: 72.8295}, nil
	}
	return types.Point{}, geo.ErrNotFound
}

type memBookingStore struct {
	bookings map[types.ID]*booking.Booking
}

func (m *memBookingStore) Create(_ context.Context, b *booking.Booking) error {
	if b.Status.IsActive() || b.Status == booking.StatusDriverAssigned {
		for _, existing := range m.bookings {
			if existing.UserID == b.UserID && existing.Status.IsActive() {
				return booking.ErrActiveTrip
			}
		}
	}
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memBookingStore) Get(_ context.Context, id types.ID) (*booking.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBookingStore) GetForUser(_ context.Context, id, userID types.ID) (*booking.Booking, error) {
	b, ok := m.bookings[id]
	if !ok || b.UserID != userID {
		return nil, booking.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBookingStore) ListByUser(_ context.Context, userID types.ID) ([]booking.Booking, error) {
	var out []booking.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBookingStore) ListOngoing(_ context.Context) ([]booking.Booking, error) {
	var out []booking.Booking
	for _, b := range m.bookings {
		if b.Status == booking.StatusDriverAssigned || b.Status == booking.StatusInProgress {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBookingStore) HasActiveByUser(_ context.Context, userID types.ID) (bool, error) {
	for _, b := range m.bookings {
		if b.UserID == userID && b.Status.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (m *memBookingStore) UpdateStatus(_ context.Context, id types.ID, from, to booking.Status, version int) (bool, error) {
	b, ok := m.bookings[id]
	if !ok || b.Status != from || b.StatusVersion != version {
		return false, nil
	}
	b.Status = to
	b.StatusVersion++
	return true, nil
}

func (m *memBookingStore) CancelConfirmed(_ context.Context, id, userID types.ID) (bool, error) {
	b, ok := m.bookings[id]
	if !ok || b.UserID != userID || b.Status != booking.StatusConfirmed || !b.CanCancel {
		return false, nil
	}
	b.Status = booking.StatusCancelled
	b.CanCancel = false
	b.StatusVersion++
	return true, nil
}

type memDirectory struct {
	drivers []*driver.Driver
}

func (m *memDirectory) FindByClass(_ context.Context, class string) (*driver.Driver, error) {
	for _, d := range m.drivers {
		if strings.EqualFold(d.VehicleClass, class) {
			return d, nil
		}
	}
	return nil, driver.ErrNotFound
}

func (m *memDirectory) Create(_ context.Context, d *driver.Driver) error {
	m.drivers = append(m.drivers, d)
	return nil
}

type memWalletStore struct {
	bookings *memBookingStore
	balances map[types.ID]int64
	entries  []wallet.Transaction
}

func (m *memWalletStore) wallet(userID types.ID) *wallet.Wallet {
	return &wallet.Wallet{
		ID:        types.ID("w-" + string(userID)),
		UserID:    userID,
		Balance:   types.Rupees(m.balances[userID]),
		CreatedAt: time.Now(),
	}
}

func (m *memWalletStore) GetOrCreate(_ context.Context, userID types.ID) (*wallet.Wallet, error) {
	if _, ok := m.balances[userID]; !ok {
		m.balances[userID] = 0
	}
	return m.wallet(userID), nil
}

func (m *memWalletStore) Credit(_ context.Context, userID types.ID, amount int64, description string) (*wallet.Wallet, error) {
	m.balances[userID] += amount
	m.entries = append(m.entries, wallet.Transaction{
		WalletID: types.ID("w-" + string(userID)), Amount: amount,
		Type: wallet.TransactionCredit, Description: description,
	})
	return m.wallet(userID), nil
}

func (m *memWalletStore) DebitForBooking(_ context.Context, userID, bookingID types.ID, amount int64, description string) error {
	if m.balances[userID] < amount {
		return &wallet.InsufficientBalanceError{Required: amount, Available: m.balances[userID]}
	}
	b, ok := m.bookings.bookings[bookingID]
	if !ok || b.UserID != userID || b.Status != booking.StatusCompleted {
		return wallet.ErrBookingNotPayable
	}
	m.balances[userID] -= amount
	m.entries = append(m.entries, wallet.Transaction{
		WalletID: types.ID("w-" + string(userID)), Amount: -amount,
		Type: wallet.TransactionDebit, Description: description,
	})
	b.Status = booking.StatusPaid
	b.StatusVersion++
	return nil
}

func (m *memWalletStore) Transactions(_ context.Context, userID types.ID) ([]wallet.Transaction, error) {
	var out []wallet.Transaction
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].WalletID == types.ID("w-"+string(userID)) {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

type testEnv struct {
	router       http.Handler
	auth         *auth.Manager
	bookingStore *memBookingStore
	walletStore  *memWalletStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop()

	bookingStore := &memBookingStore{bookings: make(map[types.ID]*booking.Booking)}
	walletStore := &memWalletStore{bookings: bookingStore, balances: make(map[types.ID]int64)}

	pricingSvc := pricing.NewService(memResolver{}, pricing.DefaultCatalog, pricing.DefaultPromos, log)
	walletSvc := wallet.NewService(walletStore, log)
	bookingSvc := booking.NewService(bookingStore, &memDirectory{}, pricing.DefaultPromos, walletSvc, log)
	authMgr := auth.NewManager("test-secret", time.Hour)

	router := NewRouter(Services{
		Pricing:  pricingSvc,
		Bookings: bookingSvc,
		Wallet:   walletSvc,
		Auth:     authMgr,
	}, log, false)

	return &testEnv{router: router, auth: authMgr, bookingStore: bookingStore, walletStore: walletStore}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) token(t *testing.T, userID string, admin bool) string {
	t.Helper()
	token, err := e.auth.Sign(types.ID(userID), admin)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestQuotesArePublic(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/quotes?pickup=Andheri&destination=Bandra", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Quotes []struct {
			Type     string  `json:"type"`
			Price    int64   `json:"price"`
			Distance float64 `json:"distance"`
		} `json:"quotes"`
	}
	decode(t, rec, &resp)
	if len(resp.Quotes) == 0 {
		t.Fatal("no quotes returned")
	}
	for _, q := range resp.Quotes {
		if q.Price < 1 {
			t.Errorf("%s price %d below floor", q.Type, q.Price)
		}
		if q.Distance <= 0 {
			t.Errorf("%s distance %v", q.Type, q.Distance)
		}
	}
}

func TestApplyPromo(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/promocodes/apply", "", map[string]any{
		"vehicle_type": "Auto",
		"price":        100,
		"promocode":    "save50",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Valid    bool  `json:"valid"`
		Price    int64 `json:"price"`
		Discount int64 `json:"discount"`
	}
	decode(t, rec, &resp)
	if !resp.Valid || resp.Price != 50 || resp.Discount != 50 {
		t.Errorf("got %+v, want valid 50/50", resp)
	}
}

func TestBookingsRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/bookings", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/bookings", "not-a-jwt", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want 401", rec.Code)
	}
}

func TestAdminRequiresAdminClaim(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/admin/bookings/ongoing", env.token(t, "u1", false), nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin: status = %d, want 403", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/admin/bookings/ongoing", env.token(t, "ops", true), nil)
	if rec.Code != http.StatusOK {
		t.Errorf("admin: status = %d, want 200", rec.Code)
	}
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	user := env.token(t, "u1", false)
	ops := env.token(t, "ops", true)

	// Book a ride.
	rec := env.do(t, http.MethodPost, "/api/bookings", user, map[string]any{
		"vehicle_type": "Mini",
		"price":        200,
		"pickup":       "Andheri",
		"destination":  "Bandra",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, rec, &created)
	if created.Status != "Driver Assigned" {
		t.Errorf("status = %q", created.Status)
	}

	// A second booking conflicts.
	rec = env.do(t, http.MethodPost, "/api/bookings", user, map[string]any{
		"vehicle_type": "Auto", "price": 80, "pickup": "Andheri", "destination": "Bandra",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("second booking: status = %d, want 409", rec.Code)
	}

	// Admin drives the trip to completion.
	rec = env.do(t, http.MethodPost, fmt.Sprintf("/api/admin/bookings/%s/start", created.ID), ops, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("start: status = %d, body %s", rec.Code, rec.Body.String())
	}
	rec = env.do(t, http.MethodPost, fmt.Sprintf("/api/admin/bookings/%s/complete", created.ID), ops, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete: status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Paying from an empty wallet fails with figures attached.
	rec = env.do(t, http.MethodPost, fmt.Sprintf("/api/bookings/%s/pay", created.ID), user, map[string]any{"method": "wallet"})
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("empty wallet pay: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var short struct {
		Required  int64 `json:"required"`
		Available int64 `json:"available"`
	}
	decode(t, rec, &short)
	if short.Required != 200 || short.Available != 0 {
		t.Errorf("required/available = %d/%d, want 200/0", short.Required, short.Available)
	}

	// Top up and retry.
	rec = env.do(t, http.MethodPost, "/api/wallet/topup", user, map[string]any{"amount": 500})
	if rec.Code != http.StatusOK {
		t.Fatalf("topup: status = %d, body %s", rec.Code, rec.Body.String())
	}
	rec = env.do(t, http.MethodPost, fmt.Sprintf("/api/bookings/%s/pay", created.ID), user, map[string]any{"method": "wallet"})
	if rec.Code != http.StatusOK {
		t.Fatalf("pay: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var paid struct {
		Booking struct {
			Status string `json:"status"`
		} `json:"booking"`
		AlreadyPaid bool `json:"already_paid"`
	}
	decode(t, rec, &paid)
	if paid.Booking.Status != "Paid" || paid.AlreadyPaid {
		t.Errorf("got %+v", paid)
	}

	// Wallet reflects the debit, ledger has both rows.
	rec = env.do(t, http.MethodGet, "/api/wallet", user, nil)
	var w struct {
		Balance struct {
			Amount int64 `json:"amount"`
		} `json:"balance"`
	}
	decode(t, rec, &w)
	if w.Balance.Amount != 300 {
		t.Errorf("balance = %d, want 300", w.Balance.Amount)
	}
	rec = env.do(t, http.MethodGet, "/api/wallet/transactions", user, nil)
	var ledger struct {
		Transactions []struct {
			Amount int64 `json:"amount"`
		} `json:"transactions"`
	}
	decode(t, rec, &ledger)
	if len(ledger.Transactions) != 2 {
		t.Errorf("ledger rows = %d, want 2", len(ledger.Transactions))
	}

	// Re-pay is idempotent.
	rec = env.do(t, http.MethodPost, fmt.Sprintf("/api/bookings/%s/pay", created.ID), user, map[string]any{"method": "wallet"})
	if rec.Code != http.StatusOK {
		t.Fatalf("re-pay: status = %d", rec.Code)
	}
	decode(t, rec, &paid)
	if !paid.AlreadyPaid {
		t.Error("re-pay should report already_paid")
	}
}

func TestCreateBookingRejectsUnknownVehicleClass(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/bookings", env.token(t, "u1", false), map[string]any{
		"vehicle_type": "Helicopter",
		"price":        9000,
		"pickup":       "Andheri",
		"destination":  "Bandra",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
}

func TestGetForeignBookingIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	owner := env.token(t, "u1", false)
	other := env.token(t, "u2", false)

	rec := env.do(t, http.MethodPost, "/api/bookings", owner, map[string]any{
		"vehicle_type": "Auto", "price": 80, "pickup": "Andheri", "destination": "Bandra",
	})
	var created struct {
		ID string `json:"id"`
	}
	decode(t, rec, &created)

	rec = env.do(t, http.MethodGet, "/api/bookings/"+created.ID, other, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRentalOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/rentals", env.token(t, "u1", false), map[string]any{
		"vehicle_type": "Scooter",
		"price":        300,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Status string `json:"status"`
		Pickup string `json:"pickup"`
	}
	decode(t, rec, &created)
	if created.Status != "Rented" || created.Pickup != "Rental" {
		t.Errorf("got %+v", created)
	}
}

func TestTopUpValidationOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/wallet/topup", env.token(t, "u1", false), map[string]any{"amount": -5})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
}
