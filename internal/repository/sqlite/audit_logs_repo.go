package sqlite

import (
	"context"
	"encoding/json"

	"github.com/baharkarakas/imagify-backend/internal/models"
	"github.com/google/uuid"
)

type auditLogsRepo struct{ db dbtx }

func (r *auditLogsRepo) Create(ctx context.Context, l models.AuditLog) error {
	var details []byte
	if l.Details != nil {
		b, err := json.Marshal(l.Details)
		if err != nil {
			return err
		}
		details = b
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs(id, entity_type, entity_id, action, details, created_at) VALUES(?,?,?,?,?,?)`,
		uuid.NewString(), l.EntityType, l.EntityID, l.Action, details, now(),
	)
	return err
}
