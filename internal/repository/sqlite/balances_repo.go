package sqlite

import (
	"context"
	"database/sql"
	"errors"

	repo "github.com/baharkarakas/imagify-backend/internal/repository"
)

type balancesRepo struct{ db dbtx }

func (r *balancesRepo) Get(ctx context.Context, userID string) (int64, error) {
	var bal int64
	err := r.db.QueryRowContext(ctx, `SELECT credit_balance FROM users WHERE id=?`, userID).Scan(&bal)
	return bal, notFound(err)
}

func (r *balancesRepo) Debit(ctx context.Context, userID string, amount int64) (int64, error) {
	var bal int64
	err := r.db.QueryRowContext(ctx,
		`UPDATE users
		    SET credit_balance = credit_balance - ?, updated_at = ?
		  WHERE id = ? AND credit_balance >= ?
		  RETURNING credit_balance`,
		amount, now(), userID, amount,
	).Scan(&bal)
	if errors.Is(err, sql.ErrNoRows) {
		cur, gerr := r.Get(ctx, userID)
		if gerr != nil {
			return 0, gerr
		}
		return cur, repo.ErrInsufficientBalance
	}
	return bal, err
}

func (r *balancesRepo) Credit(ctx context.Context, userID string, amount int64) (int64, error) {
	var bal int64
	err := r.db.QueryRowContext(ctx,
		`UPDATE users
		    SET credit_balance = credit_balance + ?, updated_at = ?
		  WHERE id = ?
		  RETURNING credit_balance`,
		amount, now(), userID,
	).Scan(&bal)
	return bal, notFound(err)
}
