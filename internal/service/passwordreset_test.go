package service

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/edge-risk/backend/internal/model"
)

type fakeResetRepo struct {
	users map[int64]*model.User
}

func (f *fakeResetRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeResetRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeResetRepo) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.PasswordHash = passwordHash
	return nil
}

type fakeMailer struct {
	sent []string
	fail bool
}

func (f *fakeMailer) Send(to, subject, body string) error {
	if f.fail {
		return fmt.Errorf("smtp unreachable")
	}
	f.sent = append(f.sent, body)
	return nil
}

var linkPattern = regexp.MustCompile(`\?uid=([^&\s]+)&token=([^&\s]+)`)

func newResetFixture(t *testing.T) (*PasswordResetService, *fakeResetRepo, *fakeMailer) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("old password"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeResetRepo{users: map[int64]*model.User{
		1: {ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: string(hash)},
	}}
	mailer := &fakeMailer{}

	svc, err := NewPasswordResetService(repo, mailer, authConfig(), "https://app.example.com")
	require.NoError(t, err)
	return svc, repo, mailer
}

func extractLink(t *testing.T, body string) (uid, token string) {
	t.Helper()
	m := linkPattern.FindStringSubmatch(body)
	require.Len(t, m, 3, "mail body should carry a reset link")
	uidEsc, err := url.QueryUnescape(m[1])
	require.NoError(t, err)
	tokenEsc, err := url.QueryUnescape(m[2])
	require.NoError(t, err)
	return uidEsc, tokenEsc
}

func TestResetRoundTripAndReplay(t *testing.T) {
	svc, repo, mailer := newResetFixture(t)
	ctx := context.Background()

	user, err := svc.RequestReset(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Len(t, mailer.sent, 1)

	uid, token := extractLink(t, mailer.sent[0])

	confirmed, err := svc.ConfirmReset(ctx, uid, token, "brand new password")
	require.NoError(t, err)
	assert.Equal(t, int64(1), confirmed.ID)

	err = bcrypt.CompareHashAndPassword([]byte(repo.users[1].PasswordHash), []byte("brand new password"))
	assert.NoError(t, err, "stored hash should match the new password")

	// The token was derived from the old hash, so a replay must fail.
	_, err = svc.ConfirmReset(ctx, uid, token, "yet another password")
	assert.ErrorIs(t, err, ErrResetInvalidToken)
}

func TestResetRequestUnknownEmail(t *testing.T) {
	svc, _, mailer := newResetFixture(t)

	user, err := svc.RequestReset(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Empty(t, mailer.sent)
}

func TestResetRequestSurvivesMailFailure(t *testing.T) {
	svc, _, mailer := newResetFixture(t)
	mailer.fail = true

	user, err := svc.RequestReset(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NotNil(t, user)
}

func TestConfirmResetBadTarget(t *testing.T) {
	svc, _, _ := newResetFixture(t)
	ctx := context.Background()

	_, err := svc.ConfirmReset(ctx, "!!!not-base64!!!", "whatever-token", "brand new password")
	assert.ErrorIs(t, err, ErrResetInvalidTarget)

	_, err = svc.ConfirmReset(ctx, EncodeUserID(999), "whatever-token", "brand new password")
	assert.ErrorIs(t, err, ErrResetInvalidTarget)
}

func TestConfirmResetTamperedToken(t *testing.T) {
	svc, _, mailer := newResetFixture(t)
	ctx := context.Background()

	_, err := svc.RequestReset(ctx, "alice@example.com")
	require.NoError(t, err)
	uid, token := extractLink(t, mailer.sent[0])

	_, err = svc.ConfirmReset(ctx, uid, token+"x", "brand new password")
	assert.ErrorIs(t, err, ErrResetInvalidToken)

	_, err = svc.ConfirmReset(ctx, uid, "no-dash-token", "brand new password")
	assert.ErrorIs(t, err, ErrResetInvalidToken)

	// Untouched token still works afterwards: failed attempts consume nothing.
	_, err = svc.ConfirmReset(ctx, uid, token, "brand new password")
	require.NoError(t, err)
}

func TestConfirmResetExpiredToken(t *testing.T) {
	svc, repo, _ := newResetFixture(t)
	ctx := context.Background()

	stale := time.Now().Add(-25 * time.Hour).Unix()
	token := svc.tokenFor(repo.users[1], stale)

	_, err := svc.ConfirmReset(ctx, EncodeUserID(1), token, "brand new password")
	assert.ErrorIs(t, err, ErrResetInvalidToken)
}

func TestConfirmResetWeakPassword(t *testing.T) {
	svc, _, _ := newResetFixture(t)

	_, err := svc.ConfirmReset(context.Background(), EncodeUserID(1), "whatever", "short")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEncodeDecodeUserID(t *testing.T) {
	for _, id := range []int64{1, 42, 999999} {
		decoded, err := DecodeUserID(EncodeUserID(id))
		require.NoError(t, err)
		assert.Equal(t, id, decoded)
	}
}
