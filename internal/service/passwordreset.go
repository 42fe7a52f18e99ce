package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/edge-risk/backend/internal/config"
	"github.com/edge-risk/backend/internal/db"
	"github.com/edge-risk/backend/internal/mail"
	"github.com/edge-risk/backend/internal/model"
)

// ResetRepo is the storage slice the password-reset flow needs.
type ResetRepo interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
}

// PasswordResetService issues and consumes single-use reset tokens.
//
// A token is never stored. It is an HMAC over the account id, the current
// password hash and an issue timestamp, so changing the password invalidates
// every outstanding token for the account, and a consumed token cannot be
// replayed. Tokens also expire after tokenTTL (24h by default) even if unused.
type PasswordResetService struct {
	repo        ResetRepo
	mailer      mail.Sender
	secret      []byte
	tokenTTL    time.Duration
	frontendURL string
}

func NewPasswordResetService(repo ResetRepo, mailer mail.Sender, cfg config.AuthConfig, frontendURL string) (*PasswordResetService, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}

	tokenTTL, err := time.ParseDuration(cfg.ResetTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid RESET_TOKEN_TTL", ErrMisconfigured)
	}

	return &PasswordResetService{
		repo:        repo,
		mailer:      mailer,
		secret:      []byte(cfg.JWTSecret),
		tokenTTL:    tokenTTL,
		frontendURL: frontendURL,
	}, nil
}

// RequestReset starts the reset flow for the account behind email. Whether or
// not the account exists the caller gets the same nil result, and the
// not-found path still burns a token derivation so the two cases stay close
// in timing. The returned user is nil when no mail was sent and is only
// meant for audit logging.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			s.deriveToken(0, "missing-account-placeholder", time.Now().Unix())
			return nil, nil
		}
		return nil, err
	}

	uid := EncodeUserID(user.ID)
	token := s.tokenFor(user, time.Now().Unix())
	link := fmt.Sprintf("%s/reset-password-confirm.html?uid=%s&token=%s", s.frontendURL, uid, token)

	body := fmt.Sprintf("Use the link below to reset your password:\n%s\n\nThe link expires in %s.", link, s.tokenTTL)
	if err := s.mailer.Send(user.Email, "Password recovery", body); err != nil {
		// Best effort: delivery failure must not fail the request.
		return user, nil
	}
	return user, nil
}

// ConfirmReset validates the uid/token pair and sets the new password.
func (s *PasswordResetService) ConfirmReset(ctx context.Context, uid, token, newPassword string) (*model.User, error) {
	if len(newPassword) < minPasswordLength || len(newPassword) > 128 {
		return nil, ErrInvalidInput
	}

	userID, err := DecodeUserID(uid)
	if err != nil {
		return nil, ErrResetInvalidTarget
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrResetInvalidTarget
		}
		return nil, err
	}

	if err := s.checkToken(user, token); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// Persisting the new hash invalidates the token for any replay.
	if err := s.repo.UpdateUserPassword(ctx, user.ID, string(hash)); err != nil {
		return nil, err
	}
	return user, nil
}

// tokenFor derives the reset token for the user at the given issue time:
// "<base36 timestamp>-<hmac>".
func (s *PasswordResetService) tokenFor(user *model.User, ts int64) string {
	return strconv.FormatInt(ts, 36) + "-" + s.deriveToken(user.ID, user.PasswordHash, ts)
}

func (s *PasswordResetService) deriveToken(userID int64, passwordHash string, ts int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "password-reset:%d:%s:%d", userID, passwordHash, ts)
	return hex.EncodeToString(mac.Sum(nil))[:32]
}

func (s *PasswordResetService) checkToken(user *model.User, token string) error {
	tsPart, macPart, ok := strings.Cut(token, "-")
	if !ok {
		return ErrResetInvalidToken
	}

	ts, err := strconv.ParseInt(tsPart, 36, 64)
	if err != nil {
		return ErrResetInvalidToken
	}

	issued := time.Unix(ts, 0)
	now := time.Now()
	if issued.After(now) || now.Sub(issued) > s.tokenTTL {
		return ErrResetInvalidToken
	}

	expected := s.deriveToken(user.ID, user.PasswordHash, ts)
	if !hmac.Equal([]byte(expected), []byte(macPart)) {
		return ErrResetInvalidToken
	}
	return nil
}

// EncodeUserID renders a numeric account id as the urlsafe uid used in reset
// links.
func EncodeUserID(id int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(id, 10)))
}

// DecodeUserID reverses EncodeUserID.
func DecodeUserID(uid string) (int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(string(raw), 10, 64)
}
