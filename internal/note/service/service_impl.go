package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/relaycrm/internal/auth/domain"
	companydomain "github.com/smallbiznis/relaycrm/internal/company/domain"
	contactdomain "github.com/smallbiznis/relaycrm/internal/contact/domain"
	dealdomain "github.com/smallbiznis/relaycrm/internal/deal/domain"
	"github.com/smallbiznis/relaycrm/internal/note/domain"
	"github.com/smallbiznis/relaycrm/internal/tenantctx"
	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// recentWindow is the lookback used for the recent_count stat.
const recentWindow = 7 * 24 * time.Hour

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
		log:       p.Log.Named("note.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		users:     p.Users,
		companies: p.Companies,
		contacts:  p.Contacts,
		deals:     p.Deals,
	}
}

func (s *Service) Create(ctx context.Context, authorID string, req domain.CreateNoteRequest) (*domain.Note, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, domain.ErrInvalidContent
	}

	author, err := s.resolveAuthor(ctx, tenantID, authorID)
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
	note := &domain.Note{
		ID:        s.genID.Generate(),
		TenantID:  tenantID,
		Content:   content,
		AuthorID:  author,
		CompanyID: companyID,
		ContactID: contactID,
		DealID:    dealID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, note); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, note.ID.String())
}

func (s *Service) List(ctx context.Context, req domain.ListNoteRequest) (*domain.ListNoteResponse, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	filter := domain.ListNoteFilter{
		Search: strings.TrimSpace(req.Search),
	}

	var err error
	if filter.AuthorID, err = optionalID(req.AuthorID); err != nil {
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

	notes, total, err := s.repo.List(ctx, s.db, tenantID, filter, req.Params)
	if err != nil {
		return nil, err
	}

	return &domain.ListNoteResponse{
		Notes: notes,
		Meta:  pagination.BuildMeta(total, req.Params),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	noteID, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	note, err := s.repo.FindByID(ctx, s.db, tenantID, noteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, domain.ErrNotFound
	}
	return note, nil
}

func (s *Service) Update(ctx context.Context, callerID, id string, req domain.UpdateNoteRequest) (*domain.Note, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	noteID, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	note, err := s.repo.FindByID(ctx, s.db, tenantID, noteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, domain.ErrNotFound
	}
	if err := s.requireAuthor(note, callerID); err != nil {
		return nil, err
	}

	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			return nil, domain.ErrInvalidContent
		}
		note.Content = content
	}
	if req.CompanyID != nil {
		companyID, err := s.resolveCompany(ctx, tenantID, *req.CompanyID)
		if err != nil {
			return nil, err
		}
		note.CompanyID = companyID
	}
	if req.ContactID != nil {
		contactID, err := s.resolveContact(ctx, tenantID, *req.ContactID)
		if err != nil {
			return nil, err
		}
		note.ContactID = contactID
	}
	if req.DealID != nil {
		dealID, err := s.resolveDeal(ctx, tenantID, *req.DealID)
		if err != nil {
			return nil, err
		}
		note.DealID = dealID
	}
	note.Author = nil
	note.Company = nil
	note.Contact = nil
	note.Deal = nil
	note.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, note); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, note.ID.String())
}

func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidTenant
	}

	noteID, err := s.parseID(id)
	if err != nil {
		return err
	}

	note, err := s.repo.FindByID(ctx, s.db, tenantID, noteID)
	if err != nil {
		return err
	}
	if note == nil {
		return domain.ErrNotFound
	}
	if err := s.requireAuthor(note, callerID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, s.db, tenantID, noteID)
}

func (s *Service) GetStats(ctx context.Context, authorID string) (*domain.Stats, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	filter := domain.StatsFilter{
		Since: time.Now().UTC().Add(-recentWindow),
	}

	var err error
	if filter.AuthorID, err = optionalID(authorID); err != nil {
		return nil, domain.ErrInvalidID
	}

	return s.repo.Stats(ctx, s.db, tenantID, filter)
}

func (s *Service) requireAuthor(note *domain.Note, callerID string) error {
	id, err := snowflake.ParseString(strings.TrimSpace(callerID))
	if err != nil || id != note.AuthorID {
		return domain.ErrNotAuthor
	}
	return nil
}

func (s *Service) resolveAuthor(ctx context.Context, tenantID snowflake.ID, value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrAuthorNotFound
	}

	user, err := s.users.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, domain.ErrAuthorNotFound
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
