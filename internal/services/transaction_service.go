package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/baharkarakas/imagify-backend/internal/apperr"
	"github.com/baharkarakas/imagify-backend/internal/models"
	repo "github.com/baharkarakas/imagify-backend/internal/repository"
)

// TransactionService is the append-only log of purchase intents.
type TransactionService struct {
	store repo.Store
	log   *slog.Logger
}

func NewTransactionService(store repo.Store, log *slog.Logger) *TransactionService {
	return &TransactionService{store: store, log: log}
}

// CreatePending records an unpaid purchase of planID for userID.
func (s *TransactionService) CreatePending(ctx context.Context, userID, planID string) (models.Transaction, error) {
	plan, ok := models.LookupPlan(planID)
	if !ok {
		return models.Transaction{}, apperr.ErrUnknownPlan
	}
	tx, err := s.store.Repos().Transactions.Create(ctx, models.Transaction{
		UserID:  userID,
		Plan:    plan.Name,
		Amount:  plan.Price.IntPart(),
		Credits: plan.Credits,
	})
	if err != nil {
		return models.Transaction{}, apperr.ErrInternal.Wrap(err)
	}
	s.log.Info("transaction created", "txn_id", tx.ID, "user_id", userID, "plan", plan.Name)
	return tx, nil
}

// MarkPaid flips the transaction to paid exactly once.
func (s *TransactionService) MarkPaid(ctx context.Context, id, paymentRef string) (models.Transaction, error) {
	return s.markPaidWith(ctx, s.store.Repos().Transactions, id, paymentRef)
}

func (s *TransactionService) markPaidWith(ctx context.Context, t repo.Transactions, id, paymentRef string) (models.Transaction, error) {
	tx, err := t.MarkPaid(ctx, id, paymentRef)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return models.Transaction{}, apperr.ErrTransactionNotFound
	case errors.Is(err, repo.ErrAlreadyPaid):
		return models.Transaction{}, apperr.ErrAlreadyPaid
	case err != nil:
		return models.Transaction{}, apperr.ErrInternal.Wrap(err)
	}
	return tx, nil
}

func (s *TransactionService) GetByID(ctx context.Context, id string) (models.Transaction, error) {
	tx, err := s.store.Repos().Transactions.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Transaction{}, apperr.ErrTransactionNotFound
	}
	if err != nil {
		return models.Transaction{}, apperr.ErrInternal.Wrap(err)
	}
	return tx, nil
}

func (s *TransactionService) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	txs, err := s.store.Repos().Transactions.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}
	return txs, nil
}
