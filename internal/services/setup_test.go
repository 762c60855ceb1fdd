package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/baharkarakas/imagify-backend/internal/auth"
	"github.com/baharkarakas/imagify-backend/internal/imagegen"
	"github.com/baharkarakas/imagify-backend/internal/logger"
	"github.com/baharkarakas/imagify-backend/internal/models"
	"github.com/baharkarakas/imagify-backend/internal/razorpay"
	"github.com/baharkarakas/imagify-backend/internal/repository/sqlite"
	"github.com/baharkarakas/imagify-backend/internal/worker"
)

const testKeySecret = "rzp_test_secret"

// ─── fakes ──────────────────────────────────────────────────────────────────

type fakeGateway struct {
	mu        sync.Mutex
	orders    map[string]razorpay.Order
	seq       int
	createErr error
	fetchErr  error
}

func newFakeGateway() *fakeGateway { return &fakeGateway{orders: map[string]razorpay.Order{}} }

func (g *fakeGateway) CreateOrder(_ context.Context, req razorpay.OrderRequest) (razorpay.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return razorpay.Order{}, g.createErr
	}
	g.seq++
	o := razorpay.Order{
		ID:       fmt.Sprintf("order_%d", g.seq),
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}
	g.orders[o.ID] = o
	return o, nil
}

func (g *fakeGateway) FetchOrder(_ context.Context, id string) (razorpay.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fetchErr != nil {
		return razorpay.Order{}, g.fetchErr
	}
	o, ok := g.orders[id]
	if !ok {
		return razorpay.Order{}, &razorpay.HTTPError{Status: 400}
	}
	return o, nil
}

// pay marks the order paid, as the gateway would after checkout.
func (g *fakeGateway) pay(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	o := g.orders[id]
	o.Status = razorpay.StatusPaid
	g.orders[id] = o
}

// put registers an arbitrary order.
func (g *fakeGateway) put(o razorpay.Order) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.orders[o.ID] = o
}

type fakeGenerator struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (imagegen.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return imagegen.Image{}, f.err
	}
	return imagegen.Image{Data: []byte("png:" + prompt), ContentType: "image/png"}, nil
}

// ─── harness ────────────────────────────────────────────────────────────────

type harness struct {
	store    *sqlite.Store
	ledger   *LedgerService
	txns     *TransactionService
	payments *PaymentService
	images   *ImageService
	users    *UserService
	tm       *auth.TokenManager
	gw       *fakeGateway
	gen      *fakeGenerator
}

func setupServices(t *testing.T) *harness {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(store.Close)

	log := logger.Discard()
	wp := worker.NewPool(1, 256)
	t.Cleanup(wp.Stop)

	audit := NewAuditor(store.Repos().AuditLogs, wp, log)
	h := &harness{store: store, gw: newFakeGateway(), gen: &fakeGenerator{}}
	h.tm = auth.NewTokenManager("jwt-secret", 0)
	h.ledger = NewLedgerService(store, audit, log)
	h.txns = NewTransactionService(store, log)
	h.payments = NewPaymentService(store, h.ledger, h.txns, h.gw,
		PaymentConfig{KeySecret: testKeySecret, Currency: "INR"}, audit, log)
	h.images = NewImageService(h.ledger, h.gen, log)
	h.users = NewUserService(store.Repos().Users, h.tm, 5, log)
	return h
}

func (h *harness) newUser(t *testing.T, email string, balance int64) models.User {
	t.Helper()
	u, err := h.store.Repos().Users.Create(context.Background(), models.User{
		Name: "Test", Email: email, PasswordHash: "x", CreditBalance: balance,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (h *harness) balance(t *testing.T, userID string) int64 {
	t.Helper()
	bal, err := h.ledger.GetBalance(context.Background(), userID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	return bal
}
