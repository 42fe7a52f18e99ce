package db

import (
	"context"
	"time"

	"github.com/edge-risk/backend/internal/model"
)

func (db *Postgres) InsertEvent(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO monitoring_events (mac_address, detected_class, detected_at, evidence, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`
	err := db.Pool.QueryRow(ctx, query,
		event.MACAddress, event.DetectedClass, event.DetectedAt, event.Evidence,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return nil, err
	}
	return event, nil
}

// ListEventsByRange returns events detected inside [start, end], newest first.
func (db *Postgres) ListEventsByRange(ctx context.Context, start, end time.Time) ([]*model.Event, error) {
	query := `
		SELECT id, mac_address, detected_class, detected_at, evidence, created_at
		FROM monitoring_events
		WHERE detected_at BETWEEN $1 AND $2
		ORDER BY detected_at DESC
	`
	rows, err := db.Pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		var event model.Event
		if err := rows.Scan(
			&event.ID,
			&event.MACAddress,
			&event.DetectedClass,
			&event.DetectedAt,
			&event.Evidence,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, &event)
	}
	return events, rows.Err()
}
