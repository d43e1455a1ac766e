package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/relaycrm/internal/activity/domain"
	authdomain "github.com/smallbiznis/relaycrm/internal/auth/domain"
	companydomain "github.com/smallbiznis/relaycrm/internal/company/domain"
	contactdomain "github.com/smallbiznis/relaycrm/internal/contact/domain"
	dealdomain "github.com/smallbiznis/relaycrm/internal/deal/domain"
	"github.com/smallbiznis/relaycrm/internal/tenantctx"
	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultUpcomingDays = 7
	upcomingLimit       = 20
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	Users     authdomain.Repository
	Companies companydomain.Repository
	Contacts  contactdomain.Repository
	Deals     dealdomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	users     authdomain.Repository
	companies companydomain.Repository
	contacts  contactdomain.Repository
	deals     dealdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("activity.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		users:     p.Users,
		companies: p.Companies,
		contacts:  p.Contacts,
		deals:     p.Deals,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateActivityRequest) (*domain.Activity, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	if !req.Type.Valid() {
		return nil, domain.ErrInvalidType
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}
	status := req.Status
	if status == "" {
		status = domain.StatusPlanned
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	assignedToID, err := s.resolveAssignee(ctx, tenantID, req.AssignedToID)
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
	dealID, err := s.resolveDeal(ctx, tenantID, req.DealID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	activity := &domain.Activity{
		ID:           s.genID.Generate(),
		TenantID:     tenantID,
		Type:         req.Type,
		Title:        title,
		Description:  req.Description,
		Status:       status,
		DueDate:      req.DueDate,
		AssignedToID: assignedToID,
		CompanyID:    companyID,
		ContactID:    contactID,
		DealID:       dealID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if status == domain.StatusCompleted {
		activity.CompletedAt = &now
	}

	if err := s.repo.Insert(ctx, s.db, activity); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, activity.ID.String())
}

func (s *Service) List(ctx context.Context, req domain.ListActivityRequest) (*domain.ListActivityResponse, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}
	if req.Type != "" && !req.Type.Valid() {
		return nil, domain.ErrInvalidType
	}
	if req.Status != "" && !req.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	filter := domain.ListActivityFilter{
		Search:  strings.TrimSpace(req.Search),
		Type:    req.Type,
		Status:  req.Status,
		Overdue: req.Overdue,
		Now:     time.Now().UTC(),
	}

	var err error
	if filter.AssignedToID, err = optionalID(req.AssignedToID); err != nil {
		return nil, domain.ErrInvalidID
	}
	if filter.CompanyID, err = optionalID(req.CompanyID); err != nil {
		return nil, domain.ErrInvalidID
	}
	if filter.ContactID, err = optionalID(req.ContactID); err != nil {
		return nil, domain.ErrInvalidID
	}
	if filter.DealID, err = optionalID(req.DealID); err != nil {
		return nil, domain.ErrInvalidID
	}

	activities, total, err := s.repo.List(ctx, s.db, tenantID, filter, req.Params)
	if err != nil {
		return nil, err
	}

	return &domain.ListActivityResponse{
		Activities: activities,
		Meta:       pagination.BuildMeta(total, req.Params),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	activityID, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	activity, err := s.repo.FindByID(ctx, s.db, tenantID, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, domain.ErrNotFound
	}
	return activity, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateActivityRequest) (*domain.Activity, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	activityID, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	activity, err := s.repo.FindByID(ctx, s.db, tenantID, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now().UTC()
	if req.Type != nil {
		if !req.Type.Valid() {
			return nil, domain.ErrInvalidType
		}
		activity.Type = *req.Type
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		activity.Title = title
	}
	if req.Description != nil {
		activity.Description = *req.Description
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		// Completion time tracks the status transition: stamped when the
		// activity closes, cleared when it is reopened.
		if *req.Status == domain.StatusCompleted {
			if activity.Status != domain.StatusCompleted {
				activity.CompletedAt = &now
			}
		} else {
			activity.CompletedAt = nil
		}
		activity.Status = *req.Status
	}
	if req.DueDate != nil {
		activity.DueDate = req.DueDate
	}
	if req.AssignedToID != nil {
		assignedToID, err := s.resolveAssignee(ctx, tenantID, *req.AssignedToID)
		if err != nil {
			return nil, err
		}
		activity.AssignedToID = assignedToID
	}
	if req.CompanyID != nil {
		companyID, err := s.resolveCompany(ctx, tenantID, *req.CompanyID)
		if err != nil {
			return nil, err
		}
		activity.CompanyID = companyID
	}
	if req.ContactID != nil {
		contactID, err := s.resolveContact(ctx, tenantID, *req.ContactID)
		if err != nil {
			return nil, err
		}
		activity.ContactID = contactID
	}
	if req.DealID != nil {
		dealID, err := s.resolveDeal(ctx, tenantID, *req.DealID)
		if err != nil {
			return nil, err
		}
		activity.DealID = dealID
	}
	activity.AssignedTo = nil
	activity.Company = nil
	activity.Contact = nil
	activity.Deal = nil
	activity.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, activity); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, activity.ID.String())
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidTenant
	}

	activityID, err := s.parseID(id)
	if err != nil {
		return err
	}

	activity, err := s.repo.FindByID(ctx, s.db, tenantID, activityID)
	if err != nil {
		return err
	}
	if activity == nil {
		return domain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, tenantID, activityID)
}

func (s *Service) GetUpcoming(ctx context.Context, req domain.UpcomingRequest) ([]domain.Activity, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	days := req.Days
	if days <= 0 {
		days = defaultUpcomingDays
	}

	filter := domain.UpcomingFilter{
		Limit: upcomingLimit,
	}
	filter.From = time.Now().UTC()
	filter.To = filter.From.AddDate(0, 0, days)

	var err error
	if filter.AssignedToID, err = optionalID(req.AssignedToID); err != nil {
		return nil, domain.ErrInvalidID
	}

	return s.repo.Upcoming(ctx, s.db, tenantID, filter)
}

func (s *Service) GetStats(ctx context.Context, assignedToID string) (*domain.Stats, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	filter := domain.StatsFilter{Now: time.Now().UTC()}

	var err error
	if filter.AssignedToID, err = optionalID(assignedToID); err != nil {
		return nil, domain.ErrInvalidID
	}

	return s.repo.Stats(ctx, s.db, tenantID, filter)
}

func (s *Service) resolveAssignee(ctx context.Context, tenantID snowflake.ID, value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrAssigneeNotFound
	}

	user, err := s.users.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, domain.ErrAssigneeNotFound
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

func (s *Service) resolveDeal(ctx context.Context, tenantID snowflake.ID, value string) (*snowflake.ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}

	id, err := snowflake.ParseString(trimmed)
	if err != nil || id == 0 {
		return nil, domain.ErrDealNotFound
	}

	deal, err := s.deals.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, domain.ErrDealNotFound
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
