package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/edge-risk/backend/internal/db"
	"github.com/edge-risk/backend/internal/model"
)

// UserRepo is the storage slice for account management.
type UserRepo interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// UserService implements the account management operations. Every mutation
// runs the authorization policy before touching the store, so a refusal
// leaves no partial effect.
type UserService struct {
	repo UserRepo
}

func NewUserService(repo UserRepo) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Create(ctx context.Context, actor *model.AuthUser, req *model.UserCreateRequest) (*model.User, error) {
	if err := CanCreateUser(actor, req); err != nil {
		return nil, err
	}

	if err := validateCredentials(req.Username, req.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, &model.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hash),
		IsStaff:      req.IsStaff,
		IsSuperuser:  req.IsSuperuser,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *UserService) Update(ctx context.Context, actor *model.AuthUser, id int64, req *model.UserUpdateRequest) (*model.User, error) {
	target, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := CanUpdateUser(actor, target, req); err != nil {
		return nil, err
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if len(username) < minUsernameLength || len(username) > 64 {
			return nil, ErrInvalidInput
		}
		target.Username = username
	}
	if req.Email != nil {
		target.Email = strings.TrimSpace(*req.Email)
	}
	if req.Password != nil {
		if len(*req.Password) < minPasswordLength || len(*req.Password) > 128 {
			return nil, ErrInvalidInput
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		target.PasswordHash = string(hash)
	}
	if req.IsStaff != nil {
		target.IsStaff = *req.IsStaff
	}
	if req.IsSuperuser != nil {
		target.IsSuperuser = *req.IsSuperuser
	}

	updated, err := s.repo.UpdateUser(ctx, target)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, actor *model.AuthUser, id int64) error {
	target, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := CanDeleteUser(actor, target); err != nil {
		return err
	}

	if err := s.repo.DeleteUser(ctx, id); err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		if db.IsForeignKeyViolation(err) {
			// Audit rows still reference the account.
			return ErrConflict
		}
		return err
	}
	return nil
}
