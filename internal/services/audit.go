package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/baharkarakas/imagify-backend/internal/models"
	repo "github.com/baharkarakas/imagify-backend/internal/repository"
	"github.com/baharkarakas/imagify-backend/internal/worker"
)

// Auditor writes audit_logs rows off the request path. A nil Auditor is a no-op.
type Auditor struct {
	r   repo.AuditLogs
	wp  *worker.Pool
	log *slog.Logger
}

func NewAuditor(r repo.AuditLogs, wp *worker.Pool, log *slog.Logger) *Auditor {
	return &Auditor{r: r, wp: wp, log: log}
}

func (a *Auditor) Record(entityType, entityID, action string, details map[string]any) {
	if a == nil {
		return
	}
	entry := models.AuditLog{
		EntityType: entityType,
		EntityID:   &entityID,
		Action:     action,
		Details:    details,
	}
	ok := a.wp.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.r.Create(ctx, entry); err != nil {
			a.log.Warn("audit write failed", "action", action, "entity_id", entityID, "err", err)
		}
	})
	if !ok {
		a.log.Warn("audit queue full, entry dropped", "action", action, "entity_id", entityID)
	}
}
