package account

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	domain "verifyme-backend/internal/domain/account"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrForbidden = errors.New("not allowed for this role")

type Usecase struct {
	users  domain.UserRepository
	orgs   domain.OrganizationRepository
	tokens *TokenIssuer
}

func NewUsecase(users domain.UserRepository, orgs domain.OrganizationRepository, tokens *TokenIssuer) *Usecase {
	return &Usecase{users: users, orgs: orgs, tokens: tokens}
}

// Login checks credentials and returns a signed bearer token. Inactive
// accounts fail the same way as bad credentials so probing cannot tell
// them apart.
func (u *Usecase) Login(ctx context.Context, in LoginInput) (*TokenDTO, error) {
	user, err := u.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !verifyPassword(in.Password, user.PasswordSalt, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	token, exp, err := u.tokens.Issue(user, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return &TokenDTO{Token: token, ExpiresAt: exp, User: toUserDTO(user)}, nil
}

// Authenticate resolves a bearer token to its user. Backs the auth
// middleware.
func (u *Usecase) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := u.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	user, err := u.users.GetByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// CreateOrganization provisions a tenant, optionally with its first
// admin. Super-admin only.
func (u *Usecase) CreateOrganization(ctx context.Context, actor *domain.User, in CreateOrganizationInput) (*domain.Organization, error) {
	if !actor.IsSuperAdmin() {
		return nil, ErrForbidden
	}
	if in.Name == "" {
		return nil, errors.New("organization name is required")
	}
	if _, err := u.orgs.GetByName(ctx, in.Name); err == nil {
		return nil, errors.New("organization name already used")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	org := &domain.Organization{
		ID:          uuid.New(),
		Name:        in.Name,
		DisplayName: in.DisplayName,
		IsActive:    true,
	}
	if org.DisplayName == "" {
		org.DisplayName = org.Name
	}
	if err := u.orgs.Create(ctx, org); err != nil {
		return nil, err
	}

	if in.AdminEmail != "" {
		_, err := u.createUser(ctx, &org.ID, CreateUserInput{
			Email:     in.AdminEmail,
			Password:  in.AdminPassword,
			FirstName: in.AdminFirst,
			LastName:  in.AdminLast,
			Role:      domain.RoleAdmin,
		})
		if err != nil {
			return nil, err
		}
	}
	return org, nil
}

func (u *Usecase) ListOrganizations(ctx context.Context, actor *domain.User) ([]domain.Organization, error) {
	if !actor.IsSuperAdmin() {
		return nil, ErrForbidden
	}
	return u.orgs.List(ctx)
}

// CreateEmployee adds a user to the admin's own organization. Admins may
// only mint employees; super-admins may also mint admins.
func (u *Usecase) CreateEmployee(ctx context.Context, actor *domain.User, orgID uuid.UUID, in CreateUserInput) (*UserDTO, error) {
	switch {
	case actor.IsSuperAdmin():
	case actor.IsAdmin():
		if !actor.HasOrganizationAccess(orgID) {
			return nil, ErrForbidden
		}
		if in.Role != "" && in.Role != domain.RoleEmployee {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}
	if in.Role == "" {
		in.Role = domain.RoleEmployee
	}
	if !in.Role.Valid() || in.Role == domain.RoleSuperAdmin {
		return nil, errors.New("invalid role")
	}
	if _, err := u.orgs.GetByID(ctx, orgID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	dto, err := u.createUser(ctx, &orgID, in)
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) ListEmployees(ctx context.Context, actor *domain.User, orgID uuid.UUID, role domain.Role) ([]UserDTO, error) {
	if !actor.IsSuperAdmin() && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if !actor.HasOrganizationAccess(orgID) {
		return nil, ErrForbidden
	}
	users, err := u.users.ListByOrganization(ctx, orgID, role)
	if err != nil {
		return nil, err
	}
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, toUserDTO(&users[i]))
	}
	return out, nil
}

func (u *Usecase) createUser(ctx context.Context, orgID *uuid.UUID, in CreateUserInput) (*UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || len(in.Password) < 8 {
		return nil, errors.New("email and a password of at least 8 characters are required")
	}
	if _, err := u.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	salt, hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:             uuid.New(),
		Email:          email,
		PasswordHash:   hash,
		PasswordSalt:   salt,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Role:           in.Role,
		OrganizationID: orgID,
		IsActive:       true,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	dto := toUserDTO(user)
	return &dto, nil
}

func hashPassword(password string) (salt, hash string, err error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	salt = hex.EncodeToString(raw)
	return salt, digest(password, salt), nil
}

func verifyPassword(password, salt, hash string) bool {
	return subtle.ConstantTimeCompare([]byte(digest(password, salt)), []byte(hash)) == 1
}

func digest(password, salt string) string {
	sum := sha256.Sum256([]byte(salt + ":" + password))
	return hex.EncodeToString(sum[:])
}
