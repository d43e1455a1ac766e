package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
)

type CreateContactRequest struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Position  string
	Status    Status
	CompanyID string
}

type UpdateContactRequest struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Position  *string
	Status    *Status
	CompanyID *string
}

type ListContactRequest struct {
	pagination.Params

	Search    string
	Status    Status
	CompanyID string
}

type ListContactResponse struct {
	Contacts []Contact       `json:"data"`
	Meta     pagination.Meta `json:"meta"`
}

type Stats struct {
	Total       int64 `json:"total"`
	Active      int64 `json:"active"`
	Prospects   int64 `json:"prospects"`
	WithCompany int64 `json:"with_company"`
}

type Service interface {
	Create(ctx context.Context, req CreateContactRequest) (*Contact, error)
	List(ctx context.Context, req ListContactRequest) (*ListContactResponse, error)
	GetByID(ctx context.Context, id string) (*Contact, error)
	Update(ctx context.Context, id string, req UpdateContactRequest) (*Contact, error)
	Delete(ctx context.Context, id string) error
	GetStats(ctx context.Context) (*Stats, error)
}

var (
	ErrInvalidTenant   = errors.New("invalid_tenant")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrNotFound        = errors.New("contact_not_found")
	ErrCompanyNotFound = errors.New("contact_company_not_found")
)
