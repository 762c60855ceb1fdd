package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/baharkarakas/imagify-backend/internal/apperr"
	"github.com/baharkarakas/imagify-backend/internal/metrics"
	repo "github.com/baharkarakas/imagify-backend/internal/repository"
)

// LedgerService mediates every change to a user's credit balance. Mutations
// are single conditional statements in the store, so two requests for the
// same user cannot both pass the sufficiency check against a stale balance.
type LedgerService struct {
	store repo.Store
	audit *Auditor
	log   *slog.Logger
}

func NewLedgerService(store repo.Store, audit *Auditor, log *slog.Logger) *LedgerService {
	return &LedgerService{store: store, audit: audit, log: log}
}

func (s *LedgerService) GetBalance(ctx context.Context, userID string) (int64, error) {
	bal, err := s.store.Repos().Balances.Get(ctx, userID)
	if err != nil {
		return 0, ledgerErr(err, bal)
	}
	return bal, nil
}

// Debit removes amount credits. When the balance is short it returns an
// *apperr.InsufficientCreditError carrying the untouched balance.
func (s *LedgerService) Debit(ctx context.Context, userID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, apperr.ErrInvalidAmount
	}
	bal, err := s.store.Repos().Balances.Debit(ctx, userID, amount)
	if err != nil {
		return bal, ledgerErr(err, bal)
	}
	metrics.CreditsDebited.Add(float64(amount))
	s.audit.Record("user", userID, "credit_debited", map[string]any{"amount": amount, "balance": bal})
	s.log.Debug("credits debited", "user_id", userID, "amount", amount, "balance", bal)
	return bal, nil
}

func (s *LedgerService) Credit(ctx context.Context, userID string, amount int64) (int64, error) {
	bal, err := s.creditWith(ctx, s.store.Repos().Balances, userID, amount)
	if err != nil {
		return 0, err
	}
	s.audit.Record("user", userID, "credit_added", map[string]any{"amount": amount, "balance": bal})
	return bal, nil
}

// creditWith lets callers run the increment inside their own transaction.
func (s *LedgerService) creditWith(ctx context.Context, b repo.Balances, userID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, apperr.ErrInvalidAmount
	}
	bal, err := b.Credit(ctx, userID, amount)
	if err != nil {
		return 0, ledgerErr(err, bal)
	}
	return bal, nil
}

func ledgerErr(err error, bal int64) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return apperr.ErrUserNotFound
	case errors.Is(err, repo.ErrInsufficientBalance):
		return &apperr.InsufficientCreditError{Balance: bal}
	default:
		return apperr.ErrInternal.Wrap(err)
	}
}
