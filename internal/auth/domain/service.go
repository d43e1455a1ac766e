package domain

import (
	"context"
	"errors"
	"time"
)

type LoginRequest struct {
	Email    string
	Password string
}

type RegisterRequest struct {
	TenantID  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type CreateTenantRequest struct {
	Name           string
	Subdomain      string
	Plan           string
	AdminEmail     string
	AdminPassword  string
	AdminFirstName string
	AdminLastName  string
}

// AuthResult is the response for every token-issuing flow.
type AuthResult struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user"`
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	// CreateTenant provisions a tenant with its first ADMIN user atomically:
	// either both rows exist afterwards or neither does.
	CreateTenant(ctx context.Context, req CreateTenantRequest) (*AuthResult, error)
	GetProfile(ctx context.Context, userID string) (*User, error)
}

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrInvalidTenant      = errors.New("invalid_tenant")
	ErrUserExists         = errors.New("user_exists")
	ErrSubdomainTaken     = errors.New("subdomain_taken")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidSubdomain   = errors.New("invalid_subdomain")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidPassword    = errors.New("invalid_password")
)
