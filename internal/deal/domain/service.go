package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
)

type CreateDealRequest struct {
	Title       string
	Value       float64
	Currency    string
	Stage       Stage
	Status      Status
	Probability int
	CloseDate   *time.Time
	OwnerID     string
	CompanyID   string
	ContactID   string
}

type UpdateDealRequest struct {
	Title       *string
	Value       *float64
	Currency    *string
	Stage       *Stage
	Status      *Status
	Probability *int
	CloseDate   *time.Time
	OwnerID     *string
	CompanyID   *string
	ContactID   *string
}

type ListDealRequest struct {
	pagination.Params

	Search    string
	Stage     Stage
	Status    Status
	OwnerID   string
	CompanyID string
	ContactID string
}

type ListDealResponse struct {
	Deals []Deal          `json:"data"`
	Meta  pagination.Meta `json:"meta"`
}

type StageStats struct {
	Count int64   `json:"count"`
	Value float64 `json:"value"`
}

type Stats struct {
	Total      int64                 `json:"total"`
	Open       int64                 `json:"open"`
	Won        int64                 `json:"won"`
	Lost       int64                 `json:"lost"`
	ByStage    map[Stage]StageStats  `json:"by_stage"`
	TotalValue float64               `json:"total_value"`
	AvgValue   float64               `json:"avg_value"`
}

// PipelineEntry aggregates OPEN deals for one stage of the sales funnel.
type PipelineEntry struct {
	Stage Stage   `json:"stage"`
	Count int64   `json:"count"`
	Value float64 `json:"value"`
}

type Service interface {
	Create(ctx context.Context, req CreateDealRequest) (*Deal, error)
	List(ctx context.Context, req ListDealRequest) (*ListDealResponse, error)
	GetByID(ctx context.Context, id string) (*Deal, error)
	Update(ctx context.Context, id string, req UpdateDealRequest) (*Deal, error)
	Delete(ctx context.Context, id string) error
	GetStats(ctx context.Context) (*Stats, error)
	GetPipeline(ctx context.Context) ([]PipelineEntry, error)
}

var (
	ErrInvalidTenant      = errors.New("invalid_tenant")
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidTitle       = errors.New("invalid_title")
	ErrInvalidValue       = errors.New("invalid_value")
	ErrInvalidStage       = errors.New("invalid_stage")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrInvalidProbability = errors.New("invalid_probability")
	ErrNotFound           = errors.New("deal_not_found")
	ErrOwnerNotFound      = errors.New("deal_owner_not_found")
	ErrCompanyNotFound    = errors.New("deal_company_not_found")
	ErrContactNotFound    = errors.New("deal_contact_not_found")
)
