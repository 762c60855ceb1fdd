package sqlite

import (
	"context"
	"fmt"

	"github.com/baharkarakas/imagify-backend/internal/models"
	repo "github.com/baharkarakas/imagify-backend/internal/repository"
	"github.com/google/uuid"
)

type usersRepo struct{ db dbtx }

const userColumns = `id, name, email, password_hash, credit_balance, created_at, updated_at`

type rowScanner interface{ Scan(dest ...any) error }

func scanUser(row rowScanner, u *models.User) error {
	var created, updated string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreditBalance, &created, &updated); err != nil {
		return err
	}
	u.CreatedAt, u.UpdatedAt = parseTime(created), parseTime(updated)
	return nil
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	ts := now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users(id, name, email, password_hash, credit_balance, created_at, updated_at)
		 VALUES(?,?,?,?,?,?,?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.CreditBalance, ts, ts,
	)
	if isUniqueViolation(err) {
		return models.User{}, repo.ErrConflict
	}
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return r.GetByID(ctx, u.ID)
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=?`, id), &u)
	return u, notFound(err)
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email=?`, email), &u)
	return u, notFound(err)
}
