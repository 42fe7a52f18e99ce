package db

import (
	"context"
	"time"
)

// RevokeToken adds a refresh token id to the revocation set. Inserting an
// already-revoked id is a no-op; the caller can distinguish the two cases
// from the returned flag. Rows are kept past expiry, the set only grows.
func (db *Postgres) RevokeToken(ctx context.Context, jti string, userID int64, expiresAt time.Time) (bool, error) {
	query := `
		INSERT INTO revoked_tokens (jti, user_id, expires_at, revoked_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (jti) DO NOTHING
	`
	tag, err := db.Pool.Exec(ctx, query, jti, userID, expiresAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// IsTokenRevoked checks revocation set membership. The read goes straight to
// the pool so a committed revoke is always observed by a concurrent renew.
func (db *Postgres) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	query := `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`
	if err := db.Pool.QueryRow(ctx, query, jti).Scan(&revoked); err != nil {
		return false, err
	}
	return revoked, nil
}
