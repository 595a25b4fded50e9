package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get user")
	}
	return &user, nil
}

// GetByEmail matches case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", models.NormalizeEmail(email)).
		First(&user).Error
	if err != nil {
		return nil, translate(err, "get user by email")
	}
	return &user, nil
}

// GetByRefreshToken finds the user currently holding the raw refresh token.
func (r *UserRepository) GetByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	var user models.User
	err := r.db.WithContext(ctx).
		Where("refresh_token_hash = ?", HashToken(token)).
		First(&user).Error
	if err != nil {
		return nil, translate(err, "get user by refresh token")
	}
	return &user, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", models.NormalizeEmail(email)).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err, "create user")
	}
	return nil
}

// Update writes every column of user.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Model(user).Select("*").Omit("id", "created_at").Updates(user)
	if result.Error != nil {
		return translate(result.Error, "update user")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRefreshToken stores the digest of token on user, replacing any previous one.
func SetRefreshToken(user *models.User, token string, expiry time.Time) {
	hash := HashToken(token)
	user.RefreshTokenHash = &hash
	user.RefreshTokenExpiry = &expiry
}

// HashToken is the at-rest form of a refresh token.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

func translate(err error, op string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return fmt.Errorf("%s: %w", op, err)
}
