package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/edge-risk/backend/internal/config"
	"github.com/edge-risk/backend/internal/db"
	"github.com/edge-risk/backend/internal/model"
)

const (
	tokenUseAccess  = "access"
	tokenUseRefresh = "refresh"

	minUsernameLength = 3
	minPasswordLength = 8
)

// AuthRepo is the slice of storage the auth service needs: account lookup
// plus the refresh token revocation set.
type AuthRepo interface {
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	RevokeToken(ctx context.Context, jti string, userID int64, expiresAt time.Time) (bool, error)
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthService verifies credentials and owns the session token lifecycle.
// Access and refresh tokens are HS256 JWTs; an access token verifies without
// any store lookup, a refresh token is additionally checked against the
// revocation set. Refresh tokens are NOT rotated on renewal: the same token
// stays valid until natural expiry or explicit revocation.
type AuthService struct {
	repo       AuthRepo
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration

	// dummyHash absorbs a bcrypt comparison on the unknown-username path so
	// the two login failure modes keep comparable latency.
	dummyHash []byte
}

type accessClaims struct {
	Username    string `json:"username"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	TokenUse    string `json:"use"`
	jwt.RegisteredClaims
}

type refreshClaims struct {
	TokenUse string `json:"use"`
	jwt.RegisteredClaims
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	Access  string
	Refresh string
}

func NewAuthService(repo AuthRepo, cfg config.AuthConfig) (*AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}

	accessTTL, err := time.ParseDuration(cfg.JWTAccessTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JWT_ACCESS_TTL", ErrMisconfigured)
	}

	refreshTTL, err := time.ParseDuration(cfg.JWTRefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JWT_REFRESH_TTL", ErrMisconfigured)
	}

	dummyHash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &AuthService{
		repo:       repo,
		jwtSecret:  []byte(cfg.JWTSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		dummyHash:  dummyHash,
	}, nil
}

// EnsureAdmin creates the bootstrap superuser account if it does not exist.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password, email string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: ADMIN_USERNAME/ADMIN_PASSWORD are required", ErrMisconfigured)
	}

	_, err := s.repo.GetUserByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !db.IsNoRows(err) {
		return err
	}

	if err := validateCredentials(username, password); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.repo.CreateUser(ctx, &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsStaff:      true,
		IsSuperuser:  true,
	})
	return err
}

// Login verifies the credentials and mints a fresh token pair. The error is
// ErrInvalidCredentials for both an unknown username and a wrong password.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, TokenPair, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if db.IsNoRows(err) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, TokenPair{}, ErrInvalidCredentials
		}
		return nil, TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.IssuePair(user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// IssuePair mints an access/refresh pair bound to the user. Pure mint, no
// store write: a refresh token only touches the store when it is revoked.
func (s *AuthService) IssuePair(user *model.User) (TokenPair, error) {
	now := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Username:    user.Username,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		TokenUse:    tokenUseAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	})
	accessStr, err := access.SignedString(s.jwtSecret)
	if err != nil {
		return TokenPair{}, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims{
		TokenUse: tokenUseRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	})
	refreshStr, err := refresh.SignedString(s.jwtSecret)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{Access: accessStr, Refresh: refreshStr}, nil
}

// Renew verifies a refresh token and mints a new access token for the same
// account. The refresh token itself is left untouched.
func (s *AuthService) Renew(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.parseRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	revoked, err := s.repo.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", ErrTokenRevoked
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return "", ErrTokenMalformed
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			// Account is gone; the session is dead even though the token
			// still verifies.
			return "", ErrTokenRevoked
		}
		return "", err
	}

	now := time.Now()
	access := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Username:    user.Username,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		TokenUse:    tokenUseAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	})
	return access.SignedString(s.jwtSecret)
}

// Revoke adds the refresh token's id to the revocation set. Revoking an
// already-revoked token succeeds; alreadyRevoked lets the caller log that
// case distinctly.
func (s *AuthService) Revoke(ctx context.Context, refreshToken string) (alreadyRevoked bool, err error) {
	claims, err := s.parseRefreshToken(refreshToken)
	if err != nil {
		return false, err
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return false, ErrTokenMalformed
	}

	inserted, err := s.repo.RevokeToken(ctx, claims.ID, userID, claims.ExpiresAt.Time)
	if err != nil {
		return false, err
	}
	return !inserted, nil
}

// ParseAccessToken verifies an access token without any store lookup and
// returns the request identity embedded in it.
func (s *AuthService) ParseAccessToken(tokenStr string) (*model.AuthUser, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, s.keyFunc)
	if err != nil {
		return nil, classifyTokenError(err)
	}
	if !token.Valid || claims.TokenUse != tokenUseAccess {
		return nil, ErrTokenMalformed
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrTokenMalformed
	}

	return &model.AuthUser{
		ID:          userID,
		Username:    claims.Username,
		IsStaff:     claims.IsStaff,
		IsSuperuser: claims.IsSuperuser,
	}, nil
}

func (s *AuthService) parseRefreshToken(tokenStr string) (*refreshClaims, error) {
	if strings.TrimSpace(tokenStr) == "" {
		return nil, ErrTokenMalformed
	}

	claims := &refreshClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, s.keyFunc)
	if err != nil {
		return nil, classifyTokenError(err)
	}
	if !token.Valid || claims.TokenUse != tokenUseRefresh {
		return nil, ErrTokenMalformed
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

func (s *AuthService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrTokenMalformed
	}
	return s.jwtSecret, nil
}

func classifyTokenError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrTokenExpired
	}
	return ErrTokenMalformed
}

func validateCredentials(username, password string) error {
	username = strings.TrimSpace(username)

	if len(username) < minUsernameLength || len(username) > 64 {
		return ErrInvalidInput
	}
	if len(password) < minPasswordLength || len(password) > 128 {
		return ErrInvalidInput
	}
	return nil
}
