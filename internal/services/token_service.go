package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/config"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const refreshTokenBytes = 32

var ErrWeakSigningKey = fmt.Errorf("jwt signing secret must be at least %d bytes", config.MinJWTSecretLength)

// AccessClaims is the claim set carried by access tokens.
type AccessClaims struct {
	Role     models.Role `json:"role"`
	LastName string      `json:"family_name"`
	Email    string      `json:"email"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret        []byte
	issuer        string
	audience      string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

func NewTokenService(cfg *config.Config) (*TokenService, error) {
	if len(cfg.JWTSecret) < config.MinJWTSecretLength {
		return nil, ErrWeakSigningKey
	}
	return &TokenService{
		secret:        []byte(cfg.JWTSecret),
		issuer:        cfg.JWTIssuer,
		audience:      cfg.JWTAudience,
		accessExpiry:  cfg.JWTAccessExpiry,
		refreshExpiry: cfg.JWTRefreshExpiry,
		now:           time.Now,
	}, nil
}

// GenerateAccessToken signs an HS256 token for user and returns it with its expiry.
func (s *TokenService) GenerateAccessToken(user *models.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.accessExpiry)
	claims := AccessClaims{
		Role:     user.Role,
		LastName: user.LastName,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *TokenService) GenerateRefreshToken() (string, error) {
	raw := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}

func (s *TokenService) RefreshTokenExpiry() time.Time {
	return s.now().Add(s.refreshExpiry)
}

// Keyfunc resolves the verification key and rejects tokens that were not
// signed with HS256, carry no expiry, or were minted for another issuer or
// audience.
func (s *TokenService) Keyfunc() jwt.Keyfunc {
	return func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		claims, ok := t.Claims.(*AccessClaims)
		if !ok {
			return nil, errors.New("unexpected claims type")
		}
		if claims.ExpiresAt == nil {
			return nil, jwt.ErrTokenRequiredClaimMissing
		}
		if claims.Issuer != s.issuer {
			return nil, jwt.ErrTokenInvalidIssuer
		}
		if !containsString(claims.Audience, s.audience) {
			return nil, jwt.ErrTokenInvalidAudience
		}
		return s.secret, nil
	}
}

// ParseAccessToken verifies raw and returns its claims.
func (s *TokenService) ParseAccessToken(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, s.Keyfunc(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func containsString(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
