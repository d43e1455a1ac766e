package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/relaycrm/internal/auth/domain"
	companydomain "github.com/smallbiznis/relaycrm/internal/company/domain"
	contactdomain "github.com/smallbiznis/relaycrm/internal/contact/domain"
	"github.com/smallbiznis/relaycrm/internal/deal/domain"
	"github.com/smallbiznis/relaycrm/internal/tenantctx"
	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultCurrency = "USD"

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	Users     authdomain.Repository
	Companies companydomain.Repository
	Contacts  contactdomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	users     authdomain.Repository
	companies companydomain.Repository
	contacts  contactdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("deal.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		users:     p.Users,
		companies: p.Companies,
		contacts:  p.Contacts,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateDealRequest) (*domain.Deal, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}
	if req.Value < 0 {
		return nil, domain.ErrInvalidValue
	}
	if req.Probability < 0 || req.Probability > 100 {
		return nil, domain.ErrInvalidProbability
	}

	stage := req.Stage
	if stage == "" {
		stage = domain.StageProspecting
	}
	if !stage.Valid() {
		return nil, domain.ErrInvalidStage
	}
	status := req.Status
	if status == "" {
		status = domain.StatusOpen
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	ownerID, err := s.resolveOwner(ctx, tenantID, req.OwnerID)
	if err != nil {
		return nil, err
	}
	companyID, err := s.resolveCompany(ctx, tenantID, req.CompanyID)
	if err != nil {
		return nil, err
	}
	contactID, err := s.resolveContact(ctx, tenantID, req.ContactID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	deal := &domain.Deal{
		ID:          s.genID.Generate(),
		TenantID:    tenantID,
		Title:       title,
		Value:       req.Value,
		Currency:    currency,
		Stage:       stage,
		Status:      status,
		Probability: req.Probability,
		CloseDate:   req.CloseDate,
		OwnerID:     ownerID,
		CompanyID:   companyID,
		ContactID:   contactID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, deal); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, deal.ID.String())
}

func (s *Service) List(ctx context.Context, req domain.ListDealRequest) (*domain.ListDealResponse, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}
	if req.Stage != "" && !req.Stage.Valid() {
		return nil, domain.ErrInvalidStage
	}
	if req.Status != "" && !req.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	filter := domain.ListDealFilter{
		Search: strings.TrimSpace(req.Search),
		Stage:  req.Stage,
		Status: req.Status,
	}

	var err error
	if filter.OwnerID, err = optionalID(req.OwnerID); err != nil {
		return nil, domain.ErrInvalidID
	}
	if filter.CompanyID, err = optionalID(req.CompanyID); err != nil {
		return nil, domain.ErrInvalidID
	}
	if filter.ContactID, err = optionalID(req.ContactID); err != nil {
		return nil, domain.ErrInvalidID
	}

	deals, total, err := s.repo.List(ctx, s.db, tenantID, filter, req.Params)
	if err != nil {
		return nil, err
	}

	return &domain.ListDealResponse{
		Deals: deals,
		Meta:  pagination.BuildMeta(total, req.Params),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Deal, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	dealID, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	deal, err := s.repo.FindByID(ctx, s.db, tenantID, dealID)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, domain.ErrNotFound
	}
	return deal, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateDealRequest) (*domain.Deal, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	dealID, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	deal, err := s.repo.FindByID(ctx, s.db, tenantID, dealID)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, domain.ErrNotFound
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		deal.Title = title
	}
	if req.Value != nil {
		if *req.Value < 0 {
			return nil, domain.ErrInvalidValue
		}
		deal.Value = *req.Value
	}
	if req.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if currency == "" {
			currency = defaultCurrency
		}
		deal.Currency = currency
	}
	if req.Stage != nil {
		if !req.Stage.Valid() {
			return nil, domain.ErrInvalidStage
		}
		deal.Stage = *req.Stage
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		deal.Status = *req.Status
	}
	if req.Probability != nil {
		if *req.Probability < 0 || *req.Probability > 100 {
			return nil, domain.ErrInvalidProbability
		}
		deal.Probability = *req.Probability
	}
	if req.CloseDate != nil {
		deal.CloseDate = req.CloseDate
	}
	if req.OwnerID != nil {
		ownerID, err := s.resolveOwner(ctx, tenantID, *req.OwnerID)
		if err != nil {
			return nil, err
		}
		deal.OwnerID = ownerID
	}
	if req.CompanyID != nil {
		companyID, err := s.resolveCompany(ctx, tenantID, *req.CompanyID)
		if err != nil {
			return nil, err
		}
		deal.CompanyID = companyID
	}
	if req.ContactID != nil {
		contactID, err := s.resolveContact(ctx, tenantID, *req.ContactID)
		if err != nil {
			return nil, err
		}
		deal.ContactID = contactID
	}
	deal.Owner = nil
	deal.Company = nil
	deal.Contact = nil
	deal.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, deal); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, deal.ID.String())
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidTenant
	}

	dealID, err := s.parseID(id)
	if err != nil {
		return err
	}

	deal, err := s.repo.FindByID(ctx, s.db, tenantID, dealID)
	if err != nil {
		return err
	}
	if deal == nil {
		return domain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, tenantID, dealID)
}

func (s *Service) GetStats(ctx context.Context) (*domain.Stats, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}
	return s.repo.Stats(ctx, s.db, tenantID)
}

func (s *Service) GetPipeline(ctx context.Context) ([]domain.PipelineEntry, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}
	return s.repo.Pipeline(ctx, s.db, tenantID)
}

// resolveOwner requires a user in the caller's tenant. A user belonging to a
// different tenant is reported as missing, never as forbidden.
func (s *Service) resolveOwner(ctx context.Context, tenantID snowflake.ID, value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrOwnerNotFound
	}

	user, err := s.users.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, domain.ErrOwnerNotFound
	}
	return id, nil
}

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

func (s *Service) resolveContact(ctx context.Context, tenantID snowflake.ID, value string) (*snowflake.ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}

	id, err := snowflake.ParseString(trimmed)
	if err != nil || id == 0 {
		return nil, domain.ErrContactNotFound
	}

	contact, err := s.contacts.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, domain.ErrContactNotFound
	}
	return &id, nil
}

func optionalID(value string) (*snowflake.ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(trimmed)
	if err != nil || id == 0 {
		return nil, err
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
