package db

import (
	"context"

	"github.com/edge-risk/backend/internal/model"
)

// InsertAuditEntry appends one row to the audit log. The timestamp is
// assigned by the database at write time; rows are never updated or deleted.
func (db *Postgres) InsertAuditEntry(ctx context.Context, entry *model.AuditEntry) error {
	query := `
		INSERT INTO audit_log (user_id, action, status, message, timestamp)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := db.Pool.Exec(ctx, query, entry.UserID, entry.Action, entry.Status, entry.Message)
	return err
}

// ListAuditEntries returns the newest entries first.
func (db *Postgres) ListAuditEntries(ctx context.Context, limit int) ([]*model.AuditEntry, error) {
	query := `
		SELECT id, user_id, action, status, message, timestamp
		FROM audit_log
		ORDER BY timestamp DESC
		LIMIT $1
	`
	rows, err := db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*model.AuditEntry, 0)
	for rows.Next() {
		var entry model.AuditEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Action,
			&entry.Status,
			&entry.Message,
			&entry.Timestamp,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
