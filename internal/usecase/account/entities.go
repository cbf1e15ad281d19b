package account

import (
	"time"

	domain "verifyme-backend/internal/domain/account"

	"github.com/google/uuid"
)

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenDTO is the login response: bearer token plus the profile the
// client needs to scope its UI.
type TokenDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserDTO   `json:"user"`
}

type CreateOrganizationInput struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`

	// Optional initial admin for the new organization.
	AdminEmail    string `json:"admin_email,omitempty"`
	AdminPassword string `json:"admin_password,omitempty"`
	AdminFirst    string `json:"admin_first_name,omitempty"`
	AdminLast     string `json:"admin_last_name,omitempty"`
}

type CreateUserInput struct {
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      domain.Role `json:"role"`
}

type UserDTO struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	FullName     string      `json:"full_name"`
	Role         domain.Role `json:"role"`
	Organization *uuid.UUID  `json:"organization,omitempty"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		FullName:     u.FullName(),
		Role:         u.Role,
		Organization: u.OrganizationID,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
	}
}
