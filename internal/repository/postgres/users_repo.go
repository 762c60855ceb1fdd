package postgres

import (
	"context"
	"fmt"

	"github.com/baharkarakas/imagify-backend/internal/models"
	repo "github.com/baharkarakas/imagify-backend/internal/repository"
	"github.com/google/uuid"
)

type usersRepo struct{ db dbtx }

const userColumns = `id, name, email, password_hash, credit_balance, created_at, updated_at`

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO users(id, name, email, password_hash, credit_balance)
		 VALUES($1,$2,$3,$4,$5)
		 RETURNING `+userColumns,
		u.ID, u.Name, u.Email, u.PasswordHash, u.CreditBalance,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreditBalance, &u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return models.User{}, repo.ErrConflict
	}
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=$1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreditBalance, &u.CreatedAt, &u.UpdatedAt)
	return u, notFound(err)
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email=$1`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreditBalance, &u.CreatedAt, &u.UpdatedAt)
	return u, notFound(err)
}
