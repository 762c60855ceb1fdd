package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/baharkarakas/imagify-backend/internal/models"
	repo "github.com/baharkarakas/imagify-backend/internal/repository"
	"github.com/google/uuid"
)

type transactionsRepo struct{ db dbtx }

const txColumns = `id, user_id, plan, amount, credits, paid, payment_ref, created_at`

func scanTx(row rowScanner, tx *models.Transaction) error {
	var created string
	if err := row.Scan(&tx.ID, &tx.UserID, &tx.Plan, &tx.Amount, &tx.Credits, &tx.Paid, &tx.PaymentRef, &created); err != nil {
		return err
	}
	tx.CreatedAt = parseTime(created)
	return nil
}

func (r *transactionsRepo) Create(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, plan, amount, credits, paid, created_at)
		 VALUES (?,?,?,?,?,0,?)`,
		tx.ID, tx.UserID, tx.Plan, tx.Amount, tx.Credits, now(),
	)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return r.GetByID(ctx, tx.ID)
}

func (r *transactionsRepo) GetByID(ctx context.Context, id string) (models.Transaction, error) {
	var tx models.Transaction
	err := scanTx(r.db.QueryRowContext(ctx, `SELECT `+txColumns+` FROM transactions WHERE id=?`, id), &tx)
	return tx, notFound(err)
}

func (r *transactionsRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+txColumns+`
		   FROM transactions
		  WHERE user_id=?
		  ORDER BY created_at DESC
		  LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := scanTx(rows, &tx); err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (r *transactionsRepo) MarkPaid(ctx context.Context, id, paymentRef string) (models.Transaction, error) {
	var tx models.Transaction
	err := scanTx(r.db.QueryRowContext(ctx,
		`UPDATE transactions
		    SET paid = 1, payment_ref = ?
		  WHERE id = ? AND paid = 0
		  RETURNING `+txColumns,
		paymentRef, id,
	), &tx)
	if errors.Is(err, sql.ErrNoRows) {
		if _, gerr := r.GetByID(ctx, id); gerr != nil {
			return models.Transaction{}, gerr
		}
		return models.Transaction{}, repo.ErrAlreadyPaid
	}
	return tx, err
}
