package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/baharkarakas/imagify-backend/internal/apperr"
	"github.com/baharkarakas/imagify-backend/internal/metrics"
	"github.com/baharkarakas/imagify-backend/internal/models"
	"github.com/baharkarakas/imagify-backend/internal/razorpay"
	repo "github.com/baharkarakas/imagify-backend/internal/repository"
)

type PaymentGateway interface {
	CreateOrder(ctx context.Context, req razorpay.OrderRequest) (razorpay.Order, error)
	FetchOrder(ctx context.Context, orderID string) (razorpay.Order, error)
}

type PaymentConfig struct {
	KeySecret string
	Currency  string
}

type PaymentService struct {
	store  repo.Store
	ledger *LedgerService
	txns   *TransactionService
	gw     PaymentGateway
	cfg    PaymentConfig
	audit  *Auditor
	log    *slog.Logger
}

func NewPaymentService(store repo.Store, ledger *LedgerService, txns *TransactionService, gw PaymentGateway, cfg PaymentConfig, audit *Auditor, log *slog.Logger) *PaymentService {
	return &PaymentService{store: store, ledger: ledger, txns: txns, gw: gw, cfg: cfg, audit: audit, log: log}
}

// Callback is what the checkout widget hands back after payment.
type Callback struct {
	OrderID   string
	PaymentID string
	Signature string
}

type Settlement struct {
	Transaction models.Transaction
	Balance     int64
}

// CreateOrder records a pending transaction and opens a gateway order whose
// receipt is the transaction id.
func (s *PaymentService) CreateOrder(ctx context.Context, userID, planID string) (razorpay.Order, models.Transaction, error) {
	plan, ok := models.LookupPlan(planID)
	if !ok {
		return razorpay.Order{}, models.Transaction{}, apperr.ErrUnknownPlan
	}
	tx, err := s.txns.CreatePending(ctx, userID, plan.Name)
	if err != nil {
		return razorpay.Order{}, models.Transaction{}, err
	}

	start := time.Now()
	order, err := s.gw.CreateOrder(ctx, razorpay.OrderRequest{
		Amount:   plan.MinorUnits(),
		Currency: s.cfg.Currency,
		Receipt:  tx.ID,
	})
	metrics.UpstreamLatency.WithLabelValues("razorpay").Observe(time.Since(start).Seconds())
	if err != nil {
		s.log.Error("razorpay create order", "txn_id", tx.ID, "err", err)
		return razorpay.Order{}, tx, apperr.ErrUpstream.Wrap(err)
	}
	metrics.OrdersCreated.WithLabelValues(plan.Name).Inc()
	s.log.Info("order created", "txn_id", tx.ID, "order_id", order.ID, "amount", order.Amount)
	return order, tx, nil
}

// Verify authenticates a payment callback and, the first time it succeeds for
// a transaction, credits the purchased plan. Replays get ErrAlreadyProcessed.
func (s *PaymentService) Verify(ctx context.Context, cb Callback) (Settlement, error) {
	st, err := s.verify(ctx, cb)
	metrics.PaymentVerifications.WithLabelValues(resultLabel(err)).Inc()
	return st, err
}

func (s *PaymentService) verify(ctx context.Context, cb Callback) (Settlement, error) {
	if cb.OrderID == "" || cb.PaymentID == "" || cb.Signature == "" {
		return Settlement{}, apperr.ErrMissingFields
	}
	if !razorpay.VerifyPaymentSignature(cb.OrderID, cb.PaymentID, cb.Signature, s.cfg.KeySecret) {
		s.log.Warn("payment signature mismatch", "order_id", cb.OrderID)
		return Settlement{}, apperr.ErrSignatureMismatch
	}

	start := time.Now()
	order, err := s.gw.FetchOrder(ctx, cb.OrderID)
	metrics.UpstreamLatency.WithLabelValues("razorpay").Observe(time.Since(start).Seconds())
	if err != nil {
		s.log.Error("razorpay fetch order", "order_id", cb.OrderID, "err", err)
		return Settlement{}, apperr.ErrUpstream.Wrap(err)
	}
	if order.Status != razorpay.StatusPaid {
		return Settlement{}, apperr.ErrOrderNotPaid
	}
	if order.Receipt == "" {
		return Settlement{}, apperr.ErrTransactionNotFound
	}

	tx, err := s.txns.GetByID(ctx, order.Receipt)
	if err != nil {
		return Settlement{}, err
	}
	if tx.Paid {
		return Settlement{Transaction: tx}, apperr.ErrAlreadyProcessed
	}

	var st Settlement
	err = s.store.WithinTx(ctx, func(r repo.Repositories) error {
		bal, err := s.ledger.creditWith(ctx, r.Balances, tx.UserID, tx.Credits)
		if err != nil {
			return err
		}
		paid, err := s.txns.markPaidWith(ctx, r.Transactions, tx.ID, cb.PaymentID)
		if err != nil {
			return err
		}
		st = Settlement{Transaction: paid, Balance: bal}
		return nil
	})
	if errors.Is(err, apperr.ErrAlreadyPaid) {
		// lost a race with a concurrent callback; its credit stands, ours rolled back
		return Settlement{Transaction: tx}, apperr.ErrAlreadyProcessed
	}
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			s.log.Error("payment settle", "txn_id", tx.ID, "err", err)
		}
		return Settlement{}, err
	}

	metrics.CreditsPurchased.Add(float64(tx.Credits))
	s.audit.Record("transaction", tx.ID, "payment_settled", map[string]any{
		"order_id":   cb.OrderID,
		"payment_id": cb.PaymentID,
		"credits":    tx.Credits,
	})
	s.log.Info("payment settled", "txn_id", tx.ID, "user_id", tx.UserID, "credits", tx.Credits, "balance", st.Balance)
	return st, nil
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return "error"
}
