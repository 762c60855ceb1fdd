package repository

import (
	"context"
	"errors"

	"github.com/baharkarakas/imagify-backend/internal/models"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrConflict            = errors.New("record already exists")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAlreadyPaid         = errors.New("transaction already paid")
)

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
}

// Balances mutates users.credit_balance. Every method is a single statement so
// concurrent callers on the same user cannot lose updates.
type Balances interface {
	Get(ctx context.Context, userID string) (int64, error)
	// Debit subtracts amount only when the balance covers it. On
	// ErrInsufficientBalance the returned value is the untouched balance.
	Debit(ctx context.Context, userID string, amount int64) (int64, error)
	Credit(ctx context.Context, userID string, amount int64) (int64, error)
}

type Transactions interface {
	Create(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	GetByID(ctx context.Context, id string) (models.Transaction, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error)
	// MarkPaid flips paid false->true. A second call returns ErrAlreadyPaid.
	MarkPaid(ctx context.Context, id, paymentRef string) (models.Transaction, error)
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}

type Repositories struct {
	Users        Users
	Balances     Balances
	Transactions Transactions
	AuditLogs    AuditLogs
}

// Store hands out repositories bound either to the connection pool or to a
// single database transaction.
type Store interface {
	Repos() Repositories
	// WithinTx runs fn against repositories sharing one transaction. fn's error
	// rolls everything back.
	WithinTx(ctx context.Context, fn func(Repositories) error) error
	Ping(ctx context.Context) error
	Close()
}
