package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	companydomain "github.com/smallbiznis/relaycrm/internal/company/domain"
	companyrepository "github.com/smallbiznis/relaycrm/internal/company/repository"
	"github.com/smallbiznis/relaycrm/internal/contact/domain"
	"github.com/smallbiznis/relaycrm/internal/contact/repository"
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

func setupService(t *testing.T, node *snowflake.Node) (domain.Service, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&companydomain.Company{}, &domain.Contact{}))

	svc := New(Params{
		DB:        conn,
		Log:       zap.NewNop(),
		GenID:     node,
		Repo:      repository.Provide(),
		Companies: companyrepository.Provide(),
	})
	return svc, conn
}

func seedCompany(t *testing.T, conn *gorm.DB, node *snowflake.Node, tenantID snowflake.ID, name string) companydomain.Company {
	t.Helper()
	now := time.Now().UTC()
	company := companydomain.Company{
		ID:        node.Generate(),
		TenantID:  tenantID,
		Name:      name,
		Status:    companydomain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, conn.Create(&company).Error)
	return company
}

func TestCreateContactWithCompany(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t, node)
	tenantID := node.Generate()
	ctx := tenantctx.WithTenantID(context.Background(), tenantID)
	company := seedCompany(t, conn, node, tenantID, "Linked Co")

	created, err := svc.Create(ctx, domain.CreateContactRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		CompanyID: company.ID.String(),
	})
	require.NoError(t, err)
	require.NotNil(t, created.CompanyID)
	require.Equal(t, company.ID, *created.CompanyID)
	require.NotNil(t, created.Company, "response preloads the linked company")
	require.Equal(t, "Linked Co", created.Company.Name)
}

func TestCreateContactCrossTenantCompany(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t, node)
	tenantA := node.Generate()
	tenantB := node.Generate()
	foreign := seedCompany(t, conn, node, tenantB, "Foreign Co")

	ctxA := tenantctx.WithTenantID(context.Background(), tenantA)
	_, err := svc.Create(ctxA, domain.CreateContactRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		CompanyID: foreign.ID.String(),
	})
	require.ErrorIs(t, err, domain.ErrCompanyNotFound)
}

func TestUpdateContactClearsCompanyLink(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t, node)
	tenantID := node.Generate()
	ctx := tenantctx.WithTenantID(context.Background(), tenantID)
	company := seedCompany(t, conn, node, tenantID, "Detach Co")

	created, err := svc.Create(ctx, domain.CreateContactRequest{
		FirstName: "John",
		LastName:  "Smith",
		CompanyID: company.ID.String(),
	})
	require.NoError(t, err)

	empty := ""
	updated, err := svc.Update(ctx, created.ID.String(), domain.UpdateContactRequest{CompanyID: &empty})
	require.NoError(t, err)
	require.Nil(t, updated.CompanyID)
}

func TestContactValidation(t *testing.T) {
	node := mustNode(t)
	svc, _ := setupService(t, node)
	ctx := tenantctx.WithTenantID(context.Background(), node.Generate())

	_, err := svc.Create(ctx, domain.CreateContactRequest{FirstName: "Only"})
	require.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateContactRequest{FirstName: "A", LastName: "B", Status: "SLEEPING"})
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestContactStats(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t, node)
	tenantID := node.Generate()
	ctx := tenantctx.WithTenantID(context.Background(), tenantID)
	company := seedCompany(t, conn, node, tenantID, "Stats Co")

	_, err := svc.Create(ctx, domain.CreateContactRequest{FirstName: "A", LastName: "One", CompanyID: company.ID.String()})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateContactRequest{FirstName: "B", LastName: "Two", Status: domain.StatusProspect})
	require.NoError(t, err)

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.Total)
	require.Equal(t, int64(1), stats.Active)
	require.Equal(t, int64(1), stats.Prospects)
	require.Equal(t, int64(1), stats.WithCompany)
}

func TestListContactsFilterByCompany(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t, node)
	tenantID := node.Generate()
	ctx := tenantctx.WithTenantID(context.Background(), tenantID)
	company := seedCompany(t, conn, node, tenantID, "Filter Co")

	_, err := svc.Create(ctx, domain.CreateContactRequest{FirstName: "In", LastName: "Company", CompanyID: company.ID.String()})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateContactRequest{FirstName: "No", LastName: "Company"})
	require.NoError(t, err)

	listed, err := svc.List(ctx, domain.ListContactRequest{CompanyID: company.ID.String()})
	require.NoError(t, err)
	require.Len(t, listed.Contacts, 1)
	require.Equal(t, "In", listed.Contacts[0].FirstName)
}
