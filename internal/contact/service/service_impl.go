package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	companydomain "github.com/smallbiznis/relaycrm/internal/company/domain"
	"github.com/smallbiznis/relaycrm/internal/contact/domain"
	"github.com/smallbiznis/relaycrm/internal/tenantctx"
	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	Companies companydomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	companies companydomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("contact.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		companies: p.Companies,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateContactRequest) (*domain.Contact, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return nil, domain.ErrInvalidName
	}
	status := req.Status
	if status == "" {
		status = domain.StatusActive
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	companyID, err := s.resolveCompany(ctx, tenantID, req.CompanyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	contact := &domain.Contact{
		ID:        s.genID.Generate(),
		TenantID:  tenantID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Position:  strings.TrimSpace(req.Position),
		Status:    status,
		CompanyID: companyID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, contact); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, contact.ID.String())
}

func (s *Service) List(ctx context.Context, req domain.ListContactRequest) (*domain.ListContactResponse, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}
	if req.Status != "" && !req.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	filter := domain.ListContactFilter{
		Search: strings.TrimSpace(req.Search),
		Status: req.Status,
	}
	if value := strings.TrimSpace(req.CompanyID); value != "" {
		id, err := snowflake.ParseString(value)
		if err != nil || id == 0 {
			return nil, domain.ErrInvalidID
		}
		filter.CompanyID = &id
	}

	contacts, total, err := s.repo.List(ctx, s.db, tenantID, filter, req.Params)
	if err != nil {
		return nil, err
	}

	return &domain.ListContactResponse{
		Contacts: contacts,
		Meta:     pagination.BuildMeta(total, req.Params),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	contactID, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	contact, err := s.repo.FindByID(ctx, s.db, tenantID, contactID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, domain.ErrNotFound
	}
	return contact, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateContactRequest) (*domain.Contact, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	contactID, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	contact, err := s.repo.FindByID(ctx, s.db, tenantID, contactID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, domain.ErrNotFound
	}

	if req.FirstName != nil {
		firstName := strings.TrimSpace(*req.FirstName)
		if firstName == "" {
			return nil, domain.ErrInvalidName
		}
		contact.FirstName = firstName
	}
	if req.LastName != nil {
		lastName := strings.TrimSpace(*req.LastName)
		if lastName == "" {
			return nil, domain.ErrInvalidName
		}
		contact.LastName = lastName
	}
	if req.Email != nil {
		contact.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		contact.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Position != nil {
		contact.Position = strings.TrimSpace(*req.Position)
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		contact.Status = *req.Status
	}
	if req.CompanyID != nil {
		companyID, err := s.resolveCompany(ctx, tenantID, *req.CompanyID)
		if err != nil {
			return nil, err
		}
		contact.CompanyID = companyID
	}
	contact.Company = nil
	contact.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, contact); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, contact.ID.String())
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidTenant
	}

	contactID, err := s.parseID(id)
	if err != nil {
		return err
	}

	contact, err := s.repo.FindByID(ctx, s.db, tenantID, contactID)
	if err != nil {
		return err
	}
	if contact == nil {
		return domain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, tenantID, contactID)
}

func (s *Service) GetStats(ctx context.Context) (*domain.Stats, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}
	return s.repo.Stats(ctx, s.db, tenantID)
}

// resolveCompany validates the optional company reference under the caller's
// tenant. An empty value clears the link; a company belonging to another
// tenant is treated exactly like a missing one.
func (s *Service) resolveCompany(ctx context.Context, tenantID snowflake.ID, value string) (*snowflake.ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}

	id, err := snowflake.ParseString(trimmed)
	if err != nil || id == 0 {
		return nil, domain.ErrCompanyNotFound
	}

	company, err := s.companies.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	return &id, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
