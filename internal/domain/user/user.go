package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired   = errors.New("user: id is required")
	ErrNameRequired = errors.New("user: name is required")
	ErrInvalidRole  = errors.New("user: invalid role")
	ErrNotFound     = errors.New("user: not found")
)

type ID string

type Role string

const (
	RoleGuest Role = "guest"
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

type User struct {
	ID        ID
	Name      string
	Email     string
	Roles     []Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	Save(ctx context.Context, user *User) error
}

type CreateParams struct {
	ID        ID
	Name      string
	Email     string
	Roles     []Role
	CreatedAt time.Time
}

func NewUser(params CreateParams) (*User, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	roles, err := normalizeRoles(params.Roles)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		roles = []Role{RoleGuest}
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &User{
		ID:        ID(id),
		Name:      name,
		Email:     strings.ToLower(strings.TrimSpace(params.Email)),
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (u *User) HasRole(role Role) bool {
	role = normalizeRole(role)
	if role == "" {
		return false
	}
	for _, current := range u.Roles {
		if normalizeRole(current) == role {
			return true
		}
	}
	return false
}

func normalizeRoles(roles []Role) ([]Role, error) {
	if len(roles) == 0 {
		return nil, nil
	}
	seen := make(map[Role]struct{}, len(roles))
	normalized := make([]Role, 0, len(roles))
	for _, role := range roles {
		norm := normalizeRole(role)
		if norm == "" {
			return nil, ErrInvalidRole
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		normalized = append(normalized, norm)
	}
	return normalized, nil
}

func normalizeRole(role Role) Role {
	switch strings.ToLower(strings.TrimSpace(string(role))) {
	case "guest":
		return RoleGuest
	case "staff":
		return RoleStaff
	case "admin":
		return RoleAdmin
	default:
		return ""
	}
}
