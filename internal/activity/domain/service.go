package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
)

type CreateActivityRequest struct {
	Type         Type
	Title        string
	Description  string
	Status       Status
	DueDate      *time.Time
	AssignedToID string
	CompanyID    string
	ContactID    string
	DealID       string
}

type UpdateActivityRequest struct {
	Type         *Type
	Title        *string
	Description  *string
	Status       *Status
	DueDate      *time.Time
	AssignedToID *string
	CompanyID    *string
	ContactID    *string
	DealID       *string
}

type ListActivityRequest struct {
	pagination.Params

	Search       string
	Type         Type
	Status       Status
	AssignedToID string
	CompanyID    string
	ContactID    string
	DealID       string
	Overdue      bool
}

type ListActivityResponse struct {
	Activities []Activity      `json:"data"`
	Meta       pagination.Meta `json:"meta"`
}

type UpcomingRequest struct {
	Days         int
	AssignedToID string
}

type Stats struct {
	Total      int64          `json:"total"`
	Planned    int64          `json:"planned"`
	InProgress int64          `json:"in_progress"`
	Completed  int64          `json:"completed"`
	Overdue    int64          `json:"overdue"`
	ByType     map[Type]int64 `json:"by_type"`
}

type Service interface {
	Create(ctx context.Context, req CreateActivityRequest) (*Activity, error)
	List(ctx context.Context, req ListActivityRequest) (*ListActivityResponse, error)
	GetByID(ctx context.Context, id string) (*Activity, error)
	Update(ctx context.Context, id string, req UpdateActivityRequest) (*Activity, error)
	Delete(ctx context.Context, id string) error
	GetUpcoming(ctx context.Context, req UpcomingRequest) ([]Activity, error)
	GetStats(ctx context.Context, assignedToID string) (*Stats, error)
}

var (
	ErrInvalidTenant    = errors.New("invalid_tenant")
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidType      = errors.New("invalid_type")
	ErrInvalidTitle   = errors.New("invalid_title")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrNotFound         = errors.New("activity_not_found")
	ErrAssigneeNotFound = errors.New("activity_assignee_not_found")
	ErrCompanyNotFound  = errors.New("activity_company_not_found")
	ErrContactNotFound  = errors.New("activity_contact_not_found")
	ErrDealNotFound     = errors.New("activity_deal_not_found")
)
