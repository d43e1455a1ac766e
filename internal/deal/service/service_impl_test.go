package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	authdomain "github.com/smallbiznis/relaycrm/internal/auth/domain"
	authrepository "github.com/smallbiznis/relaycrm/internal/auth/repository"
	companydomain "github.com/smallbiznis/relaycrm/internal/company/domain"
	companyrepository "github.com/smallbiznis/relaycrm/internal/company/repository"
	contactdomain "github.com/smallbiznis/relaycrm/internal/contact/domain"
	contactrepository "github.com/smallbiznis/relaycrm/internal/contact/repository"
	"github.com/smallbiznis/relaycrm/internal/deal/domain"
	"github.com/smallbiznis/relaycrm/internal/deal/repository"
	tenantdomain "github.com/smallbiznis/relaycrm/internal/tenant/domain"
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
	require.NoError(t, conn.AutoMigrate(
		&tenantdomain.Tenant{},
		&authdomain.User{},
		&companydomain.Company{},
		&contactdomain.Contact{},
		&domain.Deal{},
	))

	svc := New(Params{
		DB:        conn,
		Log:       zap.NewNop(),
		GenID:     node,
		Repo:      repository.Provide(),
		Users:     authrepository.Provide(),
		Companies: companyrepository.Provide(),
		Contacts:  contactrepository.Provide(),
	})
	return svc, conn
}

func seedUser(t *testing.T, conn *gorm.DB, node *snowflake.Node, tenantID snowflake.ID, email string) authdomain.User {
	t.Helper()
	now := time.Now().UTC()
	user := authdomain.User{
		ID:           node.Generate(),
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: "x",
		Role:         authdomain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, conn.Create(&user).Error)
	return user
}

func TestCreateDealDefaults(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t, node)
	tenantID := node.Generate()
	ctx := tenantctx.WithTenantID(context.Background(), tenantID)
	owner := seedUser(t, conn, node, tenantID, "owner@deal-defaults.test")

	created, err := svc.Create(ctx, domain.CreateDealRequest{
		Title:   "First deal",
		Value:   1000,
		OwnerID: owner.ID.String(),
	})
	require.NoError(t, err)
	require.Equal(t, domain.StageProspecting, created.Stage)
	require.Equal(t, domain.StatusOpen, created.Status)
	require.Equal(t, "USD", created.Currency)
	require.NotNil(t, created.Owner, "response preloads the owner")
}

func TestCreateDealCrossTenantOwner(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t, node)
	tenantA := node.Generate()
	tenantB := node.Generate()
	foreignOwner := seedUser(t, conn, node, tenantB, "owner@cross-tenant.test")

	ctxA := tenantctx.WithTenantID(context.Background(), tenantA)
	_, err := svc.Create(ctxA, domain.CreateDealRequest{
		Title:   "Stolen owner",
		OwnerID: foreignOwner.ID.String(),
	})
	require.ErrorIs(t, err, domain.ErrOwnerNotFound)
}

func TestCreateDealValidation(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t, node)
	tenantID := node.Generate()
	ctx := tenantctx.WithTenantID(context.Background(), tenantID)
	owner := seedUser(t, conn, node, tenantID, "owner@deal-validation.test")

	cases := []struct {
		name string
		req  domain.CreateDealRequest
		want error
	}{
		{"empty title", domain.CreateDealRequest{OwnerID: owner.ID.String()}, domain.ErrInvalidTitle},
		{"negative value", domain.CreateDealRequest{Title: "X", Value: -5, OwnerID: owner.ID.String()}, domain.ErrInvalidValue},
		{"probability over 100", domain.CreateDealRequest{Title: "X", Probability: 101, OwnerID: owner.ID.String()}, domain.ErrInvalidProbability},
		{"bad stage", domain.CreateDealRequest{Title: "X", Stage: "LIMBO", OwnerID: owner.ID.String()}, domain.ErrInvalidStage},
		{"bad status", domain.CreateDealRequest{Title: "X", Status: "MAYBE", OwnerID: owner.ID.String()}, domain.ErrInvalidStatus},
		{"missing owner", domain.CreateDealRequest{Title: "X"}, domain.ErrOwnerNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDealStatsAndPipeline(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t, node)
	tenantID := node.Generate()
	ctx := tenantctx.WithTenantID(context.Background(), tenantID)
	owner := seedUser(t, conn, node, tenantID, "owner@deal-stats.test")

	mk := func(title string, value float64, stage domain.Stage, status domain.Status) {
		t.Helper()
		_, err := svc.Create(ctx, domain.CreateDealRequest{
			Title:   title,
			Value:   value,
			Stage:   stage,
			Status:  status,
			OwnerID: owner.ID.String(),
		})
		require.NoError(t, err)
	}
	mk("open proposal", 1000, domain.StageProposal, domain.StatusOpen)
	mk("open negotiation", 3000, domain.StageNegotiation, domain.StatusOpen)
	mk("won", 6000, domain.StageClosedWon, domain.StatusWon)
	mk("lost", 500, domain.StageClosedLost, domain.StatusLost)

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(4), stats.Total)
	require.Equal(t, int64(2), stats.Open)
	require.Equal(t, int64(1), stats.Won)
	require.Equal(t, int64(1), stats.Lost)
	require.Equal(t, float64(10500), stats.TotalValue)
	require.InDelta(t, 2625, stats.AvgValue, 0.001)
	require.Equal(t, domain.StageStats{Count: 1, Value: 1000}, stats.ByStage[domain.StageProposal])

	// pipeline covers OPEN deals only
	pipeline, err := svc.GetPipeline(ctx)
	require.NoError(t, err)
	require.Len(t, pipeline, 2)
	total := int64(0)
	for _, entry := range pipeline {
		total += entry.Count
		require.NotEqual(t, domain.StageClosedWon, entry.Stage)
		require.NotEqual(t, domain.StageClosedLost, entry.Stage)
	}
	require.Equal(t, int64(2), total)
}

func TestUpdateDealPartial(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t, node)
	tenantID := node.Generate()
	ctx := tenantctx.WithTenantID(context.Background(), tenantID)
	owner := seedUser(t, conn, node, tenantID, "owner@deal-update.test")

	created, err := svc.Create(ctx, domain.CreateDealRequest{
		Title:   "Moving deal",
		Value:   2000,
		OwnerID: owner.ID.String(),
	})
	require.NoError(t, err)

	stage := domain.StageNegotiation
	probability := 80
	updated, err := svc.Update(ctx, created.ID.String(), domain.UpdateDealRequest{
		Stage:       &stage,
		Probability: &probability,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StageNegotiation, updated.Stage)
	require.Equal(t, 80, updated.Probability)
	require.Equal(t, "Moving deal", updated.Title)
	require.Equal(t, float64(2000), updated.Value)
}

func TestDealTenantIsolation(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t, node)
	tenantA := node.Generate()
	tenantB := node.Generate()
	ctxA := tenantctx.WithTenantID(context.Background(), tenantA)
	ctxB := tenantctx.WithTenantID(context.Background(), tenantB)
	owner := seedUser(t, conn, node, tenantA, "owner@deal-isolation.test")

	created, err := svc.Create(ctxA, domain.CreateDealRequest{
		Title:   "Private deal",
		OwnerID: owner.ID.String(),
	})
	require.NoError(t, err)

	_, err = svc.GetByID(ctxB, created.ID.String())
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Delete(ctxB, created.ID.String())
	require.ErrorIs(t, err, domain.ErrNotFound)
}
