package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/edge-risk/backend/internal/config"
	"github.com/edge-risk/backend/internal/model"
)

type fakeAuthRepo struct {
	users   map[int64]*model.User
	nextID  int64
	revoked map[string]bool
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		users:   make(map[int64]*model.User),
		nextID:  1,
		revoked: make(map[string]bool),
	}
}

func (f *fakeAuthRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAuthRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAuthRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeAuthRepo) RevokeToken(ctx context.Context, jti string, userID int64, expiresAt time.Time) (bool, error) {
	if f.revoked[jti] {
		return false, nil
	}
	f.revoked[jti] = true
	return true, nil
}

func (f *fakeAuthRepo) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	return f.revoked[jti], nil
}

func authConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:     "test-secret",
		JWTAccessTTL:  "10m",
		JWTRefreshTTL: "24h",
		ResetTokenTTL: "24h",
	}
}

func seedUser(t *testing.T, repo *fakeAuthRepo, username, password string, staff, super bool) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := repo.CreateUser(context.Background(), &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		IsStaff:      staff,
		IsSuperuser:  super,
	})
	require.NoError(t, err)
	return user
}

func TestLoginIssuesVerifiablePair(t *testing.T) {
	repo := newFakeAuthRepo()
	svc, err := NewAuthService(repo, authConfig())
	require.NoError(t, err)

	seeded := seedUser(t, repo, "alice", "correct horse", false, false)

	user, pair, err := svc.Login(context.Background(), "alice", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, user.ID)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	parsed, err := svc.ParseAccessToken(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, parsed.ID)
	assert.Equal(t, "alice", parsed.Username)
}

func TestLoginFailureIsUniform(t *testing.T) {
	repo := newFakeAuthRepo()
	svc, err := NewAuthService(repo, authConfig())
	require.NoError(t, err)

	seedUser(t, repo, "alice", "correct horse", false, false)

	_, _, wrongPassword := svc.Login(context.Background(), "alice", "battery staple")
	_, _, unknownUser := svc.Login(context.Background(), "nobody", "battery staple")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
}

func TestRenewRoundTrip(t *testing.T) {
	repo := newFakeAuthRepo()
	svc, err := NewAuthService(repo, authConfig())
	require.NoError(t, err)

	user := seedUser(t, repo, "alice", "correct horse", true, false)

	pair, err := svc.IssuePair(user)
	require.NoError(t, err)

	access, err := svc.Renew(context.Background(), pair.Refresh)
	require.NoError(t, err)

	parsed, err := svc.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, parsed.ID)
	assert.True(t, parsed.IsStaff)
}

func TestRenewRejectsAccessToken(t *testing.T) {
	repo := newFakeAuthRepo()
	svc, err := NewAuthService(repo, authConfig())
	require.NoError(t, err)

	user := seedUser(t, repo, "alice", "correct horse", false, false)
	pair, err := svc.IssuePair(user)
	require.NoError(t, err)

	// An access token must not pass as a refresh token.
	_, err = svc.Renew(context.Background(), pair.Access)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestRenewRejectsGarbage(t *testing.T) {
	repo := newFakeAuthRepo()
	svc, err := NewAuthService(repo, authConfig())
	require.NoError(t, err)

	_, err = svc.Renew(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	_, err = svc.Renew(context.Background(), "")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestRenewRejectsForeignSignature(t *testing.T) {
	repo := newFakeAuthRepo()
	svc, err := NewAuthService(repo, authConfig())
	require.NoError(t, err)

	otherCfg := authConfig()
	otherCfg.JWTSecret = "some-other-secret"
	other, err := NewAuthService(repo, otherCfg)
	require.NoError(t, err)

	user := seedUser(t, repo, "alice", "correct horse", false, false)
	pair, err := other.IssuePair(user)
	require.NoError(t, err)

	_, err = svc.Renew(context.Background(), pair.Refresh)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestRenewRejectsExpired(t *testing.T) {
	repo := newFakeAuthRepo()
	cfg := authConfig()
	cfg.JWTRefreshTTL = "-1m"
	svc, err := NewAuthService(repo, cfg)
	require.NoError(t, err)

	user := seedUser(t, repo, "alice", "correct horse", false, false)
	pair, err := svc.IssuePair(user)
	require.NoError(t, err)

	_, err = svc.Renew(context.Background(), pair.Refresh)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRevokeBlocksRenewal(t *testing.T) {
	repo := newFakeAuthRepo()
	svc, err := NewAuthService(repo, authConfig())
	require.NoError(t, err)

	user := seedUser(t, repo, "alice", "correct horse", false, false)
	pair, err := svc.IssuePair(user)
	require.NoError(t, err)

	already, err := svc.Revoke(context.Background(), pair.Refresh)
	require.NoError(t, err)
	assert.False(t, already)

	// Revocation is permanent no matter how often revoke runs.
	for i := 0; i < 3; i++ {
		already, err = svc.Revoke(context.Background(), pair.Refresh)
		require.NoError(t, err)
		assert.True(t, already)

		_, err = svc.Renew(context.Background(), pair.Refresh)
		assert.ErrorIs(t, err, ErrTokenRevoked)
	}
}

func TestRenewForDeletedAccountFails(t *testing.T) {
	repo := newFakeAuthRepo()
	svc, err := NewAuthService(repo, authConfig())
	require.NoError(t, err)

	user := seedUser(t, repo, "alice", "correct horse", false, false)
	pair, err := svc.IssuePair(user)
	require.NoError(t, err)

	delete(repo.users, user.ID)

	_, err = svc.Renew(context.Background(), pair.Refresh)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	repo := newFakeAuthRepo()
	svc, err := NewAuthService(repo, authConfig())
	require.NoError(t, err)

	require.NoError(t, svc.EnsureAdmin(context.Background(), "admin", "admin-password", "admin@example.com"))
	require.NoError(t, svc.EnsureAdmin(context.Background(), "admin", "admin-password", "admin@example.com"))

	assert.Len(t, repo.users, 1)
	admin, err := repo.GetUserByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.True(t, admin.IsSuperuser)
	assert.True(t, admin.IsStaff)
}

func TestNewAuthServiceValidatesConfig(t *testing.T) {
	repo := newFakeAuthRepo()

	cfg := authConfig()
	cfg.JWTSecret = ""
	_, err := NewAuthService(repo, cfg)
	assert.ErrorIs(t, err, ErrMisconfigured)

	cfg = authConfig()
	cfg.JWTAccessTTL = "ten minutes"
	_, err = NewAuthService(repo, cfg)
	assert.ErrorIs(t, err, ErrMisconfigured)
}
