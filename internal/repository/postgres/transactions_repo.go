package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/baharkarakas/imagify-backend/internal/models"
	repo "github.com/baharkarakas/imagify-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type transactionsRepo struct{ db dbtx }

const txColumns = `id, user_id, plan, amount, credits, paid, payment_ref, created_at`

func scanTx(row pgx.Row, tx *models.Transaction) error {
	return row.Scan(&tx.ID, &tx.UserID, &tx.Plan, &tx.Amount, &tx.Credits, &tx.Paid, &tx.PaymentRef, &tx.CreatedAt)
}

func (r *transactionsRepo) Create(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	err := scanTx(r.db.QueryRow(ctx,
		`INSERT INTO transactions (id, user_id, plan, amount, credits, paid)
		 VALUES ($1,$2,$3,$4,$5,false)
		 RETURNING `+txColumns,
		tx.ID, tx.UserID, tx.Plan, tx.Amount, tx.Credits,
	), &tx)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return tx, nil
}

func (r *transactionsRepo) GetByID(ctx context.Context, id string) (models.Transaction, error) {
	var tx models.Transaction
	err := scanTx(r.db.QueryRow(ctx, `SELECT `+txColumns+` FROM transactions WHERE id=$1`, id), &tx)
	return tx, notFound(err)
}

func (r *transactionsRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+txColumns+`
		   FROM transactions
		  WHERE user_id=$1
		  ORDER BY created_at DESC
		  LIMIT $2 OFFSET $3`,
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
	err := scanTx(r.db.QueryRow(ctx,
		`UPDATE transactions
		    SET paid = true, payment_ref = $2
		  WHERE id = $1 AND paid = false
		  RETURNING `+txColumns,
		id, paymentRef,
	), &tx)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, gerr := r.GetByID(ctx, id); gerr != nil {
			return models.Transaction{}, gerr
		}
		return models.Transaction{}, repo.ErrAlreadyPaid
	}
	return tx, err
}
