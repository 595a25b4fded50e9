package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the access level of an account. Higher roles include the
// permissions of the lower ones.
type Role string

const (
	RoleUser   Role = "User"
	RoleEditor Role = "Editor"
	RoleAdmin  Role = "Admin"
)

func (r Role) rank() int {
	switch r {
	case RoleUser:
		return 1
	case RoleEditor:
		return 2
	case RoleAdmin:
		return 3
	}
	return 0
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r.rank() > 0 }

// AtLeast reports whether r grants everything min grants.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r.rank() >= min.rank()
}

// ParseRole matches a role name case-insensitively.
func ParseRole(s string) (Role, bool) {
	for _, r := range []Role{RoleUser, RoleEditor, RoleAdmin} {
		if strings.EqualFold(s, string(r)) {
			return r, true
		}
	}
	return "", false
}

type User struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email              string     `gorm:"not null;size:255;uniqueIndex" json:"email"`
	PasswordHash       string     `gorm:"not null" json:"-"`
	FirstName          string     `gorm:"size:50;not null" json:"first_name"`
	LastName           string     `gorm:"size:50;not null" json:"last_name"`
	Role               Role       `gorm:"size:20;not null" json:"role"`
	IsActive           bool       `gorm:"not null" json:"is_active"`
	RefreshTokenHash   *string    `gorm:"size:64;index" json:"-"`
	RefreshTokenExpiry *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps emails in canonical form so lookups and the unique index
// are case-insensitive.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
