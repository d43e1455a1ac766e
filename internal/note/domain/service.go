package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
)

type CreateNoteRequest struct {
	Content   string
	CompanyID string
	ContactID string
	DealID    string
}

type UpdateNoteRequest struct {
	Content   *string
	CompanyID *string
	ContactID *string
	DealID    *string
}

type ListNoteRequest struct {
	pagination.Params

	Search    string
	AuthorID  string
	CompanyID string
	ContactID string
	DealID    string
}

type ListNoteResponse struct {
	Notes []Note          `json:"data"`
	Meta  pagination.Meta `json:"meta"`
}

type EntityStats struct {
	Companies  int64 `json:"companies"`
	Contacts   int64 `json:"contacts"`
	Deals      int64 `json:"deals"`
	Unattached int64 `json:"unattached"`
}

type Stats struct {
	Total       int64       `json:"total"`
	RecentCount int64       `json:"recent_count"`
	ByEntity    EntityStats `json:"by_entity"`
}

// Update and Delete are restricted to the note's author; callers pass the
// authenticated user's ID explicitly.
type Service interface {
	Create(ctx context.Context, authorID string, req CreateNoteRequest) (*Note, error)
	List(ctx context.Context, req ListNoteRequest) (*ListNoteResponse, error)
	GetByID(ctx context.Context, id string) (*Note, error)
	Update(ctx context.Context, callerID, id string, req UpdateNoteRequest) (*Note, error)
	Delete(ctx context.Context, callerID, id string) error
	GetStats(ctx context.Context, authorID string) (*Stats, error)
}

var (
	ErrInvalidTenant   = errors.New("invalid_tenant")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidContent  = errors.New("invalid_content")
	ErrNotFound        = errors.New("note_not_found")
	ErrNotAuthor       = errors.New("note_not_author")
	ErrAuthorNotFound  = errors.New("note_author_not_found")
	ErrCompanyNotFound = errors.New("note_company_not_found")
	ErrContactNotFound = errors.New("note_contact_not_found")
	ErrDealNotFound    = errors.New("note_deal_not_found")
)
