package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/relaycrm/internal/tenant/domain"
	"github.com/smallbiznis/relaycrm/internal/tenant/repository"
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

func setupService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Tenant{}))

	svc := New(Params{
		DB:   conn,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
	return svc, conn
}

func seedTenant(t *testing.T, conn *gorm.DB, node *snowflake.Node, subdomain string, active bool) domain.Tenant {
	t.Helper()
	now := time.Now().UTC()
	tenant := domain.Tenant{
		ID:        node.Generate(),
		Name:      subdomain,
		Subdomain: subdomain,
		Plan:      domain.DefaultPlan,
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, conn.Create(&tenant).Error)
	return tenant
}

func TestResolveByID(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t)
	tenant := seedTenant(t, conn, node, "resolve-by-id", true)

	resolved, err := svc.Resolve(context.Background(), domain.ResolveRequest{ID: tenant.ID.String()})
	require.NoError(t, err)
	require.Equal(t, tenant.ID, resolved.ID)
}

func TestResolveBySubdomain(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t)
	tenant := seedTenant(t, conn, node, "resolve-by-subdomain", true)

	resolved, err := svc.Resolve(context.Background(), domain.ResolveRequest{Subdomain: "resolve-by-subdomain"})
	require.NoError(t, err)
	require.Equal(t, tenant.ID, resolved.ID)
}

func TestResolveIDTakesPrecedence(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t)
	byID := seedTenant(t, conn, node, "precedence-id", true)
	seedTenant(t, conn, node, "precedence-sub", true)

	resolved, err := svc.Resolve(context.Background(), domain.ResolveRequest{
		ID:        byID.ID.String(),
		Subdomain: "precedence-sub",
	})
	require.NoError(t, err)
	require.Equal(t, byID.ID, resolved.ID)
}

func TestResolveMissingHeaders(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Resolve(context.Background(), domain.ResolveRequest{})
	require.ErrorIs(t, err, domain.ErrTenantRequired)
}

func TestResolveUnknownTenant(t *testing.T) {
	node := mustNode(t)
	svc, _ := setupService(t)

	_, err := svc.Resolve(context.Background(), domain.ResolveRequest{ID: node.Generate().String()})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Resolve(context.Background(), domain.ResolveRequest{ID: "not-a-snowflake"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveInactiveTenant(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t)
	tenant := seedTenant(t, conn, node, "inactive-tenant", false)

	_, err := svc.Resolve(context.Background(), domain.ResolveRequest{ID: tenant.ID.String()})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Resolve(context.Background(), domain.ResolveRequest{Subdomain: "inactive-tenant"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}
