package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"billing-backend/internal/apperr"
	"billing-backend/internal/auth"
	"billing-backend/internal/cache"
	"billing-backend/internal/models"
	"billing-backend/internal/repositories"
)

// UserStore is the persistence surface behind accounts.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type UserService struct {
	users UserStore
	jwt   *auth.JWTManager
}

func NewUserService(users UserStore, jwt *auth.JWTManager) *UserService {
	return &UserService{users: users, jwt: jwt}
}

func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	if req == nil || req.Name == "" || req.Email == "" || len(req.Password) < 8 {
		return nil, apperr.New(apperr.KindValidation, "noDataProvided")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Wrap(err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, apperr.New(apperr.KindBusinessRule, "userAlreadyExists")
		}
		return nil, apperr.Wrap(err)
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	log.Printf("[Auth] New user %d (%s)", user.ID, user.Email)
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if req == nil || req.Email == "" || req.Password == "" {
		return nil, apperr.New(apperr.KindValidation, "noDataProvided")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Repeat logins with the same credentials skip the bcrypt compare.
	if userID, ok := cache.GetCachedAuth(ctx, email, req.Password); ok {
		user, err := s.users.Get(ctx, userID)
		if err == nil && user.IsActive {
			return s.issue(user)
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.New(apperr.KindValidation, "invalidCredentials")
	}
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	if !user.IsActive || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, apperr.New(apperr.KindValidation, "invalidCredentials")
	}

	cache.CacheAuth(ctx, email, req.Password, user.ID)
	return s.issue(user)
}

func (s *UserService) issue(user *models.User) (*models.AuthResponse, error) {
	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}
