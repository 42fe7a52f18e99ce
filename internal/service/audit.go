package service

import (
	"context"
	"log"

	"github.com/edge-risk/backend/internal/model"
)

// AuditRepo is the append-only write path for audit entries.
type AuditRepo interface {
	InsertAuditEntry(ctx context.Context, entry *model.AuditEntry) error
	ListAuditEntries(ctx context.Context, limit int) ([]*model.AuditEntry, error)
}

// AuditReporter records security-relevant outcomes. Report never fails the
// caller: a sink failure is logged and swallowed, the triggering business
// operation already succeeded or failed on its own terms.
type AuditReporter struct {
	repo AuditRepo
}

func NewAuditReporter(repo AuditRepo) *AuditReporter {
	return &AuditReporter{repo: repo}
}

// Report writes one immutable entry. actor is nil for anonymous or system
// actions.
func (r *AuditReporter) Report(ctx context.Context, actor *model.AuthUser, action, status, message string) {
	entry := &model.AuditEntry{
		Action:  action,
		Status:  status,
		Message: message,
	}
	if actor != nil {
		id := actor.ID
		entry.UserID = &id
	}

	if err := r.repo.InsertAuditEntry(ctx, entry); err != nil {
		log.Printf("audit: failed to record %q (%s): %v", action, status, err)
	}
}

// List returns the newest entries first, for the staff-only log view.
func (r *AuditReporter) List(ctx context.Context, limit int) ([]*model.AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return r.repo.ListAuditEntries(ctx, limit)
}
