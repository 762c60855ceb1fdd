package postgres

import (
	"context"

	"github.com/baharkarakas/imagify-backend/internal/models"
)

type auditLogsRepo struct{ db dbtx }

func (r *auditLogsRepo) Create(ctx context.Context, l models.AuditLog) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO audit_logs(entity_type, entity_id, action, details) VALUES($1,$2,$3,$4)`,
		l.EntityType, l.EntityID, l.Action, l.Details,
	)
	return err
}
