package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/relaycrm/internal/auth/domain"
	"github.com/smallbiznis/relaycrm/internal/auth/repository"
	"github.com/smallbiznis/relaycrm/internal/auth/token"
	tenantdomain "github.com/smallbiznis/relaycrm/internal/tenant/domain"
	tenantrepository "github.com/smallbiznis/relaycrm/internal/tenant/repository"
	"github.com/smallbiznis/relaycrm/internal/tenantctx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

func setupService(t *testing.T, node *snowflake.Node) (domain.Service, *gorm.DB, *token.Issuer) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&tenantdomain.Tenant{}, &domain.User{}))

	issuer := token.NewIssuer("test-secret", time.Hour)
	svc := New(Params{
		DB:         conn,
		Log:        zap.NewNop(),
		GenID:      node,
		Issuer:     issuer,
		Repo:       repository.Provide(),
		TenantRepo: tenantrepository.Provide(),
	})
	return svc, conn, issuer
}

func provisionTenant(t *testing.T, svc domain.Service, subdomain, adminEmail string) *domain.AuthResult {
	t.Helper()
	result, err := svc.CreateTenant(context.Background(), domain.CreateTenantRequest{
		Name:           subdomain,
		Subdomain:      subdomain,
		AdminEmail:     adminEmail,
		AdminPassword:  "supersecret",
		AdminFirstName: "Admin",
		AdminLastName:  "User",
	})
	require.NoError(t, err)
	return result
}

func TestCreateTenantIssuesAdminToken(t *testing.T) {
	node := mustNode(t)
	svc, _, issuer := setupService(t, node)

	result := provisionTenant(t, svc, "create-tenant-ok", "admin@create-tenant-ok.test")
	require.Equal(t, domain.RoleAdmin, result.User.Role)
	require.Equal(t, tenantdomain.DefaultPlan, result.User.Tenant.Plan)

	claims, err := issuer.Parse(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, result.User.ID.String(), claims.Subject)
	require.Equal(t, result.User.TenantID.String(), claims.TenantID)
	require.Equal(t, result.User.Email, claims.Email)
}

func TestCreateTenantSubdomainTaken(t *testing.T) {
	node := mustNode(t)
	svc, _, _ := setupService(t, node)

	provisionTenant(t, svc, "taken-subdomain", "admin@taken-subdomain.test")

	_, err := svc.CreateTenant(context.Background(), domain.CreateTenantRequest{
		Name:          "Other",
		Subdomain:     "taken-subdomain",
		AdminEmail:    "other@taken-subdomain.test",
		AdminPassword: "supersecret",
	})
	require.ErrorIs(t, err, domain.ErrSubdomainTaken)
}

func TestCreateTenantAdminEmailTakenGlobally(t *testing.T) {
	node := mustNode(t)
	svc, _, _ := setupService(t, node)

	provisionTenant(t, svc, "email-taken-a", "admin@email-taken.test")

	_, err := svc.CreateTenant(context.Background(), domain.CreateTenantRequest{
		Name:          "Other",
		Subdomain:     "email-taken-b",
		AdminEmail:    "admin@email-taken.test",
		AdminPassword: "supersecret",
	})
	require.ErrorIs(t, err, domain.ErrUserExists)
}

func TestCreateTenantRollsBackOnUserConflict(t *testing.T) {
	node := mustNode(t)
	svc, conn, _ := setupService(t, node)

	provisionTenant(t, svc, "rollback-a", "admin@rollback.test")

	_, err := svc.CreateTenant(context.Background(), domain.CreateTenantRequest{
		Name:          "Rollback B",
		Subdomain:     "rollback-b",
		AdminEmail:    "admin@rollback.test",
		AdminPassword: "supersecret",
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, conn.Model(&tenantdomain.Tenant{}).Where("subdomain = ?", "rollback-b").Count(&count).Error)
	require.Zero(t, count, "failed provisioning must not leave an orphan tenant")
}

func TestCreateTenantValidation(t *testing.T) {
	node := mustNode(t)
	svc, _, _ := setupService(t, node)

	cases := []struct {
		name string
		req  domain.CreateTenantRequest
		want error
	}{
		{"empty name", domain.CreateTenantRequest{Subdomain: "x", AdminEmail: "a@b.c", AdminPassword: "supersecret"}, domain.ErrInvalidName},
		{"dotted subdomain", domain.CreateTenantRequest{Name: "X", Subdomain: "a.b", AdminEmail: "a@b.c", AdminPassword: "supersecret"}, domain.ErrInvalidSubdomain},
		{"bad email", domain.CreateTenantRequest{Name: "X", Subdomain: "x1", AdminEmail: "nope", AdminPassword: "supersecret"}, domain.ErrInvalidEmail},
		{"short password", domain.CreateTenantRequest{Name: "X", Subdomain: "x2", AdminEmail: "a@b.c", AdminPassword: "short"}, domain.ErrInvalidPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateTenant(context.Background(), tc.req)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	node := mustNode(t)
	svc, _, _ := setupService(t, node)

	admin := provisionTenant(t, svc, "register-login", "admin@register-login.test")

	registered, err := svc.Register(context.Background(), domain.RegisterRequest{
		TenantID:  admin.User.TenantID.String(),
		Email:     "Rep@Register-Login.test",
		Password:  "supersecret",
		FirstName: "Rep",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, registered.User.Role)
	require.Equal(t, "rep@register-login.test", registered.User.Email)

	logged, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "rep@register-login.test",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.Equal(t, registered.User.ID, logged.User.ID)
}

func TestRegisterDuplicateEmailInTenant(t *testing.T) {
	node := mustNode(t)
	svc, _, _ := setupService(t, node)

	admin := provisionTenant(t, svc, "register-dup", "admin@register-dup.test")

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		TenantID: admin.User.TenantID.String(),
		Email:    "admin@register-dup.test",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, domain.ErrUserExists)
}

func TestRegisterUnknownTenant(t *testing.T) {
	node := mustNode(t)
	svc, _, _ := setupService(t, node)

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		TenantID: node.Generate().String(),
		Email:    "rep@unknown-tenant.test",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, domain.ErrInvalidTenant)
}

func TestLoginInvalidCredentialsCollapse(t *testing.T) {
	node := mustNode(t)
	svc, conn, _ := setupService(t, node)

	admin := provisionTenant(t, svc, "login-collapse", "admin@login-collapse.test")

	// wrong password
	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "admin@login-collapse.test",
		Password: "wrongpassword",
	})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// unknown email
	_, err = svc.Login(context.Background(), domain.LoginRequest{
		Email:    "ghost@login-collapse.test",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// inactive tenant
	require.NoError(t, conn.Model(&tenantdomain.Tenant{}).
		Where("id = ?", admin.User.TenantID).
		Update("is_active", false).Error)
	_, err = svc.Login(context.Background(), domain.LoginRequest{
		Email:    "admin@login-collapse.test",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestGetProfileScopedToTenant(t *testing.T) {
	node := mustNode(t)
	svc, _, _ := setupService(t, node)

	a := provisionTenant(t, svc, "profile-a", "admin@profile-a.test")
	b := provisionTenant(t, svc, "profile-b", "admin@profile-b.test")

	ctxA := tenantctx.WithTenantID(context.Background(), a.User.TenantID)
	profile, err := svc.GetProfile(ctxA, a.User.ID.String())
	require.NoError(t, err)
	require.Equal(t, a.User.Email, profile.Email)

	// a user from another tenant is invisible
	_, err = svc.GetProfile(ctxA, b.User.ID.String())
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
