package domain

import (
	"context"
	"errors"
)

// ResolveRequest carries the inbound tenant identification headers.
// ID takes precedence over Subdomain when both are present.
type ResolveRequest struct {
	ID        string
	Subdomain string
}

type Service interface {
	// Resolve validates the tenant identified by the request. An unknown,
	// malformed, or inactive tenant is indistinguishable from a missing one.
	Resolve(ctx context.Context, req ResolveRequest) (*Tenant, error)
	GetByID(ctx context.Context, id string) (*Tenant, error)
}

var (
	ErrTenantRequired = errors.New("tenant_required")
	ErrNotFound       = errors.New("tenant_not_found")
)
