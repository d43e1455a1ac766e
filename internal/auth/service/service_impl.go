package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/relaycrm/internal/auth/domain"
	"github.com/smallbiznis/relaycrm/internal/auth/password"
	"github.com/smallbiznis/relaycrm/internal/auth/token"
	tenantdomain "github.com/smallbiznis/relaycrm/internal/tenant/domain"
	"github.com/smallbiznis/relaycrm/internal/tenantctx"
	"github.com/smallbiznis/relaycrm/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Issuer     *token.Issuer
	Repo       domain.Repository
	TenantRepo tenantdomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	issuer     *token.Issuer
	repo       domain.Repository
	tenantRepo tenantdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("auth.service"),
		genID:      p.GenID,
		issuer:     p.Issuer,
		repo:       p.Repo,
		tenantRepo: p.TenantRepo,
	}
}

// Login authenticates by email across all tenants. Missing user, inactive
// user, and inactive tenant all collapse into ErrInvalidCredentials so the
// response leaks nothing about which precondition failed.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive || user.Tenant == nil || !user.Tenant.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issueFor(user)
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error) {
	tenantID, err := snowflake.ParseString(strings.TrimSpace(req.TenantID))
	if err != nil || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}
	if len(req.Password) < 8 {
		return nil, domain.ErrInvalidPassword
	}

	tenant, err := s.tenantRepo.FindByID(ctx, s.db, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil || !tenant.IsActive {
		return nil, domain.ErrInvalidTenant
	}

	existing, err := s.repo.FindByEmailInTenant(ctx, s.db, tenantID, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           s.genID.Generate(),
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}

	user.Tenant = tenant
	return s.issueFor(user)
}

// CreateTenant provisions the tenant and its first ADMIN user in one
// transaction. A failure on the user insert (duplicate admin email under a
// concurrent request, for example) rolls the tenant row back too.
func (s *Service) CreateTenant(ctx context.Context, req domain.CreateTenantRequest) (*domain.AuthResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	subdomain := strings.ToLower(strings.TrimSpace(req.Subdomain))
	if subdomain == "" || strings.ContainsAny(subdomain, " .") {
		return nil, domain.ErrInvalidSubdomain
	}

	adminEmail := strings.ToLower(strings.TrimSpace(req.AdminEmail))
	if adminEmail == "" || !strings.Contains(adminEmail, "@") {
		return nil, domain.ErrInvalidEmail
	}
	if len(req.AdminPassword) < 8 {
		return nil, domain.ErrInvalidPassword
	}

	plan := strings.TrimSpace(req.Plan)
	if plan == "" {
		plan = tenantdomain.DefaultPlan
	}

	existingTenant, err := s.tenantRepo.FindBySubdomain(ctx, s.db, subdomain)
	if err != nil {
		return nil, err
	}
	if existingTenant != nil {
		return nil, domain.ErrSubdomainTaken
	}

	existingUser, err := s.repo.FindByEmail(ctx, s.db, adminEmail)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, domain.ErrUserExists
	}

	hash, err := password.Hash(req.AdminPassword)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tenant := &tenantdomain.Tenant{
		ID:        s.genID.Generate(),
		Name:      name,
		Subdomain: subdomain,
		Plan:      plan,
		IsActive:  true,
		Settings:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	admin := &domain.User{
		ID:           s.genID.Generate(),
		TenantID:     tenant.ID,
		Email:        adminEmail,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.AdminFirstName),
		LastName:     strings.TrimSpace(req.AdminLastName),
		Role:         domain.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.tenantRepo.Insert(ctx, tx, tenant); err != nil {
			return err
		}
		return s.repo.Insert(ctx, tx, admin)
	})
	if txErr != nil {
		if db.IsDuplicateKeyErr(txErr) {
			return nil, domain.ErrSubdomainTaken
		}
		return nil, txErr
	}

	s.log.Info("tenant provisioned",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("subdomain", tenant.Subdomain),
	)

	admin.Tenant = tenant
	return s.issueFor(admin)
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	id, err := snowflake.ParseString(strings.TrimSpace(userID))
	if err != nil || id == 0 {
		return nil, domain.ErrUserNotFound
	}

	user, err := s.repo.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *Service) issueFor(user *domain.User) (*domain.AuthResult, error) {
	signed, expiresAt, err := s.issuer.Issue(user.ID.String(), user.Email, user.TenantID.String(), time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}
