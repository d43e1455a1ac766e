package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/relaycrm/internal/company/domain"
	"github.com/smallbiznis/relaycrm/internal/tenantctx"
	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("company.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCompanyRequest) (*domain.Company, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.Size != "" && !req.Size.Valid() {
		return nil, domain.ErrInvalidSize
	}
	status := req.Status
	if status == "" {
		status = domain.StatusActive
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	now := time.Now().UTC()
	company := &domain.Company{
		ID:        s.genID.Generate(),
		TenantID:  tenantID,
		Name:      name,
		Industry:  strings.TrimSpace(req.Industry),
		Website:   strings.TrimSpace(req.Website),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		Address:   strings.TrimSpace(req.Address),
		Size:      req.Size,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCompanyRequest) (*domain.ListCompanyResponse, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}
	if req.Status != "" && !req.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if req.Size != "" && !req.Size.Valid() {
		return nil, domain.ErrInvalidSize
	}

	filter := domain.ListCompanyFilter{
		Search:   strings.TrimSpace(req.Search),
		Status:   req.Status,
		Industry: strings.TrimSpace(req.Industry),
		Size:     req.Size,
	}

	companies, total, err := s.repo.List(ctx, s.db, tenantID, filter, req.Params)
	if err != nil {
		return nil, err
	}

	return &domain.ListCompanyResponse{
		Companies: companies,
		Meta:      pagination.BuildMeta(total, req.Params),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	companyID, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	company, err := s.repo.FindByID(ctx, s.db, tenantID, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateCompanyRequest) (*domain.Company, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	companyID, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	company, err := s.repo.FindByID(ctx, s.db, tenantID, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		company.Name = name
	}
	if req.Industry != nil {
		company.Industry = strings.TrimSpace(*req.Industry)
	}
	if req.Website != nil {
		company.Website = strings.TrimSpace(*req.Website)
	}
	if req.Phone != nil {
		company.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		company.Email = strings.TrimSpace(*req.Email)
	}
	if req.Address != nil {
		company.Address = strings.TrimSpace(*req.Address)
	}
	if req.Size != nil {
		if *req.Size != "" && !req.Size.Valid() {
			return nil, domain.ErrInvalidSize
		}
		company.Size = *req.Size
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		company.Status = *req.Status
	}
	company.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidTenant
	}

	companyID, err := s.parseID(id)
	if err != nil {
		return err
	}

	company, err := s.repo.FindByID(ctx, s.db, tenantID, companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, tenantID, companyID)
}

func (s *Service) GetStats(ctx context.Context) (*domain.Stats, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}
	return s.repo.Stats(ctx, s.db, tenantID)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
