package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edge-risk/backend/internal/model"
)

type fakeAuditRepo struct {
	entries []*model.AuditEntry
	fail    bool
}

func (f *fakeAuditRepo) InsertAuditEntry(ctx context.Context, entry *model.AuditEntry) error {
	if f.fail {
		return fmt.Errorf("sink down")
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) ListAuditEntries(ctx context.Context, limit int) ([]*model.AuditEntry, error) {
	if limit > len(f.entries) {
		limit = len(f.entries)
	}
	return f.entries[:limit], nil
}

func TestReportNormalizesAnonymousActor(t *testing.T) {
	repo := &fakeAuditRepo{}
	reporter := NewAuditReporter(repo)
	ctx := context.Background()

	reporter.Report(ctx, nil, model.ActionLogin, model.AuditError, "invalid credentials")
	reporter.Report(ctx, &model.AuthUser{ID: 7}, model.ActionLogin, model.AuditSuccess, "login succeeded")

	require.Len(t, repo.entries, 2)
	assert.Nil(t, repo.entries[0].UserID)
	require.NotNil(t, repo.entries[1].UserID)
	assert.Equal(t, int64(7), *repo.entries[1].UserID)
}

func TestReportSwallowsSinkFailure(t *testing.T) {
	repo := &fakeAuditRepo{fail: true}
	reporter := NewAuditReporter(repo)

	// Must not panic or surface the error.
	reporter.Report(context.Background(), nil, model.ActionLogout, model.AuditSuccess, "logout succeeded")
	assert.Empty(t, repo.entries)
}

func TestListClampsLimit(t *testing.T) {
	repo := &fakeAuditRepo{}
	for i := 0; i < 10; i++ {
		repo.entries = append(repo.entries, &model.AuditEntry{ID: int64(i)})
	}
	reporter := NewAuditReporter(repo)

	entries, err := reporter.List(context.Background(), -5)
	require.NoError(t, err)
	assert.Len(t, entries, 10, "bad limits fall back to the default")
}
