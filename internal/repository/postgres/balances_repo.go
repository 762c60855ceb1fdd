package postgres

import (
	"context"
	"errors"

	repo "github.com/baharkarakas/imagify-backend/internal/repository"
	"github.com/jackc/pgx/v5"
)

type balancesRepo struct{ db dbtx }

func (r *balancesRepo) Get(ctx context.Context, userID string) (int64, error) {
	var bal int64
	err := r.db.QueryRow(ctx,
		`SELECT credit_balance FROM users WHERE id=$1`, userID,
	).Scan(&bal)
	return bal, notFound(err)
}

func (r *balancesRepo) Debit(ctx context.Context, userID string, amount int64) (int64, error) {
	var bal int64
	err := r.db.QueryRow(ctx,
		`UPDATE users
		    SET credit_balance = credit_balance - $2,
		        updated_at = now()
		  WHERE id = $1 AND credit_balance >= $2
		  RETURNING credit_balance`,
		userID, amount,
	).Scan(&bal)
	if errors.Is(err, pgx.ErrNoRows) {
		// either no such user or not enough credit
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
	err := r.db.QueryRow(ctx,
		`UPDATE users
		    SET credit_balance = credit_balance + $2,
		        updated_at = now()
		  WHERE id = $1
		  RETURNING credit_balance`,
		userID, amount,
	).Scan(&bal)
	return bal, notFound(err)
}
