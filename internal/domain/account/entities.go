package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("account not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleEmployee   Role = "EMPLOYEE"
)

func (r Role) Valid() bool {
	return r == RoleSuperAdmin || r == RoleAdmin || r == RoleEmployee
}

type Organization struct {
	ID          uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string         `gorm:"size:255;uniqueIndex" json:"name"`
	DisplayName string         `gorm:"size:255" json:"display_name"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Organization) TableName() string { return "organizations" }

type User struct {
	ID             uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	Email          string         `gorm:"size:255;uniqueIndex" json:"email"`
	PasswordHash   string         `gorm:"size:128" json:"-"`
	PasswordSalt   string         `gorm:"size:64" json:"-"`
	FirstName      string         `gorm:"size:100" json:"first_name"`
	LastName       string         `gorm:"size:100" json:"last_name"`
	Role           Role           `gorm:"size:20;default:'EMPLOYEE';index" json:"role"`
	OrganizationID *uuid.UUID     `gorm:"type:char(36);index" json:"organization,omitempty"`
	IsActive       bool           `json:"is_active"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func (u *User) IsSuperAdmin() bool { return u.Role == RoleSuperAdmin }
func (u *User) IsAdmin() bool      { return u.Role == RoleAdmin }
func (u *User) IsEmployee() bool   { return u.Role == RoleEmployee }

// HasOrganizationAccess: super-admins see everything, everyone else only
// their own organization.
func (u *User) HasOrganizationAccess(orgID uuid.UUID) bool {
	if u.IsSuperAdmin() {
		return true
	}
	return u.OrganizationID != nil && *u.OrganizationID == orgID
}
