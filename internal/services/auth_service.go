package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/models"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/repository"
)

var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountDeactivated  = errors.New("account deactivated")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

type AuthService struct {
	users  *repository.UserRepository
	hasher PasswordHasher
	tokens *TokenService
}

func NewAuthService(users *repository.UserRepository, hasher PasswordHasher, tokens *TokenService) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	refresh, err := s.rotateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID.String())
	return s.tokenResponse(user, refresh)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}
	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

// Refresh exchanges a refresh token for a new pair. The presented token stops
// working because the stored one is overwritten.
func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error) {
	user, err := s.users.GetByRefreshToken(ctx, req.RefreshToken)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}
	if user.RefreshTokenExpiry == nil || user.RefreshTokenExpiry.Before(s.tokens.now()) {
		return nil, ErrRefreshTokenExpired
	}

	return s.issue(ctx, user)
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	refresh, err := s.rotateRefreshToken(user)
	if err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	return s.tokenResponse(user, refresh)
}

func (s *AuthService) rotateRefreshToken(user *models.User) (string, error) {
	refresh, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return "", err
	}
	repository.SetRefreshToken(user, refresh, s.tokens.RefreshTokenExpiry())
	return refresh, nil
}

func (s *AuthService) tokenResponse(user *models.User, refresh string) (*dto.TokenResponse, error) {
	access, expiresAt, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		Email:        user.Email,
		Role:         user.Role,
	}, nil
}
