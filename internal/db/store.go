package db

import (
	"context"
	"strings"

	"github.com/baharkarakas/imagify-backend/internal/repository"
	"github.com/baharkarakas/imagify-backend/internal/repository/postgres"
	"github.com/baharkarakas/imagify-backend/internal/repository/sqlite"
)

// IsSQLite reports whether url selects the embedded sqlite backend
// ("sqlite:<path>" or "file:<path>").
func IsSQLite(url string) bool {
	return strings.HasPrefix(url, "sqlite:") || strings.HasPrefix(url, "file:")
}

func sqlitePath(url string) string {
	p := strings.TrimPrefix(strings.TrimPrefix(url, "sqlite:"), "file:")
	return strings.TrimPrefix(p, "//")
}

// Open connects the store named by url. Postgres migrations run only when
// migrate is set; the sqlite schema is always ensured.
func Open(ctx context.Context, url string, migrate bool) (repository.Store, error) {
	if IsSQLite(url) {
		return sqlite.Open(sqlitePath(url))
	}
	pool, err := NewPool(ctx, url)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return postgres.NewStore(pool), nil
}
