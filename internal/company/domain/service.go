package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
)

type CreateCompanyRequest struct {
	Name     string
	Industry string
	Website  string
	Phone    string
	Email    string
	Address  string
	Size     Size
	Status   Status
}

type UpdateCompanyRequest struct {
	Name     *string
	Industry *string
	Website  *string
	Phone    *string
	Email    *string
	Address  *string
	Size     *Size
	Status   *Status
}

type ListCompanyRequest struct {
	pagination.Params

	Search   string
	Status   Status
	Industry string
	Size     Size
}

type ListCompanyResponse struct {
	Companies []Company       `json:"data"`
	Meta      pagination.Meta `json:"meta"`
}

// Stats buckets companies missing a size under "UNKNOWN".
type Stats struct {
	Total     int64            `json:"total"`
	Active    int64            `json:"active"`
	Prospects int64            `json:"prospects"`
	BySize    map[string]int64 `json:"by_size"`
}

type Service interface {
	Create(ctx context.Context, req CreateCompanyRequest) (*Company, error)
	List(ctx context.Context, req ListCompanyRequest) (*ListCompanyResponse, error)
	GetByID(ctx context.Context, id string) (*Company, error)
	Update(ctx context.Context, id string, req UpdateCompanyRequest) (*Company, error)
	Delete(ctx context.Context, id string) error
	GetStats(ctx context.Context) (*Stats, error)
}

var (
	ErrInvalidTenant = errors.New("invalid_tenant")
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidSize   = errors.New("invalid_size")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrNotFound      = errors.New("company_not_found")
)
