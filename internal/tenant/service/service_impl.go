package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/relaycrm/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("tenant.service"),
		repo: p.Repo,
	}
}

// Resolve picks the tenant by id header first, falling back to subdomain.
// Inactive tenants resolve to ErrNotFound so disabled tenants are not
// distinguishable from nonexistent ones.
func (s *Service) Resolve(ctx context.Context, req domain.ResolveRequest) (*domain.Tenant, error) {
	id := strings.TrimSpace(req.ID)
	subdomain := strings.TrimSpace(req.Subdomain)

	if id == "" && subdomain == "" {
		return nil, domain.ErrTenantRequired
	}

	var tenant *domain.Tenant
	if id != "" {
		parsed, err := snowflake.ParseString(id)
		if err != nil || parsed == 0 {
			return nil, domain.ErrNotFound
		}
		tenant, err = s.repo.FindByID(ctx, s.db, parsed)
		if err != nil {
			return nil, err
		}
	} else {
		found, err := s.repo.FindBySubdomain(ctx, s.db, subdomain)
		if err != nil {
			return nil, err
		}
		tenant = found
	}

	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	if !tenant.IsActive {
		s.log.Debug("inactive tenant rejected", zap.String("tenant_id", tenant.ID.String()))
		return nil, domain.ErrNotFound
	}

	return tenant, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return nil, domain.ErrNotFound
	}

	tenant, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	return tenant, nil
}
