package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/relaycrm/internal/activity/domain"
	"github.com/smallbiznis/relaycrm/internal/activity/repository"
	authdomain "github.com/smallbiznis/relaycrm/internal/auth/domain"
	authrepository "github.com/smallbiznis/relaycrm/internal/auth/repository"
	companydomain "github.com/smallbiznis/relaycrm/internal/company/domain"
	companyrepository "github.com/smallbiznis/relaycrm/internal/company/repository"
	contactdomain "github.com/smallbiznis/relaycrm/internal/contact/domain"
	contactrepository "github.com/smallbiznis/relaycrm/internal/contact/repository"
	dealdomain "github.com/smallbiznis/relaycrm/internal/deal/domain"
	dealrepository "github.com/smallbiznis/relaycrm/internal/deal/repository"
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
		&dealdomain.Deal{},
		&domain.Activity{},
	))

	svc := New(Params{
		DB:        conn,
		Log:       zap.NewNop(),
		GenID:     node,
		Repo:      repository.Provide(),
		Users:     authrepository.Provide(),
		Companies: companyrepository.Provide(),
		Contacts:  contactrepository.Provide(),
		Deals:     dealrepository.Provide(),
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

func TestCreateActivityDefaults(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t, node)
	tenantID := node.Generate()
	ctx := tenantctx.WithTenantID(context.Background(), tenantID)
	assignee := seedUser(t, conn, node, tenantID, "rep@activity-defaults.test")

	created, err := svc.Create(ctx, domain.CreateActivityRequest{
		Type:         domain.TypeCall,
		Title:        "Kickoff call",
		AssignedToID: assignee.ID.String(),
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusPlanned, created.Status)
	require.Nil(t, created.CompletedAt)
	require.NotNil(t, created.AssignedTo)
}

func TestCreateActivityCompletedStampsTime(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t, node)
	tenantID := node.Generate()
	ctx := tenantctx.WithTenantID(context.Background(), tenantID)
	assignee := seedUser(t, conn, node, tenantID, "rep@activity-completed.test")

	created, err := svc.Create(ctx, domain.CreateActivityRequest{
		Type:         domain.TypeTask,
		Title:        "Already done",
		Status:       domain.StatusCompleted,
		AssignedToID: assignee.ID.String(),
	})
	require.NoError(t, err)
	require.NotNil(t, created.CompletedAt)
	require.WithinDuration(t, time.Now().UTC(), *created.CompletedAt, 5*time.Second)
}

func TestUpdateActivityCompletionTransitions(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t, node)
	tenantID := node.Generate()
	ctx := tenantctx.WithTenantID(context.Background(), tenantID)
	assignee := seedUser(t, conn, node, tenantID, "rep@activity-transitions.test")

	created, err := svc.Create(ctx, domain.CreateActivityRequest{
		Type:         domain.TypeMeeting,
		Title:        "Demo",
		AssignedToID: assignee.ID.String(),
	})
	require.NoError(t, err)

	completed := domain.StatusCompleted
	updated, err := svc.Update(ctx, created.ID.String(), domain.UpdateActivityRequest{Status: &completed})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	firstStamp := *updated.CompletedAt

	// completing an already completed activity keeps the original stamp
	updated, err = svc.Update(ctx, created.ID.String(), domain.UpdateActivityRequest{Status: &completed})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	require.Equal(t, firstStamp.Unix(), updated.CompletedAt.Unix())

	planned := domain.StatusPlanned
	updated, err = svc.Update(ctx, created.ID.String(), domain.UpdateActivityRequest{Status: &planned})
	require.NoError(t, err)
	require.Nil(t, updated.CompletedAt, "reopening clears the completion time")
}

func TestCreateActivityValidation(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t, node)
	tenantID := node.Generate()
	ctx := tenantctx.WithTenantID(context.Background(), tenantID)
	assignee := seedUser(t, conn, node, tenantID, "rep@activity-validation.test")

	cases := []struct {
		name string
		req  domain.CreateActivityRequest
		want error
	}{
		{"bad type", domain.CreateActivityRequest{Type: "CARRIER_PIGEON", Title: "X", AssignedToID: assignee.ID.String()}, domain.ErrInvalidType},
		{"empty title", domain.CreateActivityRequest{Type: domain.TypeCall, AssignedToID: assignee.ID.String()}, domain.ErrInvalidTitle},
		{"bad status", domain.CreateActivityRequest{Type: domain.TypeCall, Title: "X", Status: "SOMEDAY", AssignedToID: assignee.ID.String()}, domain.ErrInvalidStatus},
		{"missing assignee", domain.CreateActivityRequest{Type: domain.TypeCall, Title: "X"}, domain.ErrAssigneeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateActivityCrossTenantRefs(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t, node)
	tenantA := node.Generate()
	tenantB := node.Generate()
	ctxA := tenantctx.WithTenantID(context.Background(), tenantA)
	assigneeA := seedUser(t, conn, node, tenantA, "rep-a@activity-cross.test")
	assigneeB := seedUser(t, conn, node, tenantB, "rep-b@activity-cross.test")

	_, err := svc.Create(ctxA, domain.CreateActivityRequest{
		Type:         domain.TypeCall,
		Title:        "Wrong assignee",
		AssignedToID: assigneeB.ID.String(),
	})
	require.ErrorIs(t, err, domain.ErrAssigneeNotFound)

	foreignDeal := dealdomain.Deal{
		ID:       node.Generate(),
		TenantID: tenantB,
		Title:    "Foreign deal",
		Currency: "USD",
		Stage:    dealdomain.StageProposal,
		Status:   dealdomain.StatusOpen,
		OwnerID:  assigneeB.ID,
	}
	require.NoError(t, conn.Create(&foreignDeal).Error)

	_, err = svc.Create(ctxA, domain.CreateActivityRequest{
		Type:         domain.TypeCall,
		Title:        "Wrong deal",
		AssignedToID: assigneeA.ID.String(),
		DealID:       foreignDeal.ID.String(),
	})
	require.ErrorIs(t, err, domain.ErrDealNotFound)
}

func TestGetUpcomingWindow(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t, node)
	tenantID := node.Generate()
	ctx := tenantctx.WithTenantID(context.Background(), tenantID)
	assignee := seedUser(t, conn, node, tenantID, "rep@activity-upcoming.test")
	other := seedUser(t, conn, node, tenantID, "other@activity-upcoming.test")

	mk := func(title string, due time.Time, status domain.Status, userID snowflake.ID) {
		t.Helper()
		req := domain.CreateActivityRequest{
			Type:         domain.TypeTask,
			Title:        title,
			Status:       status,
			DueDate:      &due,
			AssignedToID: userID.String(),
		}
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	now := time.Now().UTC()
	mk("tomorrow", now.Add(24*time.Hour), domain.StatusPlanned, assignee.ID)
	mk("in three days", now.Add(72*time.Hour), domain.StatusInProgress, assignee.ID)
	mk("next month", now.AddDate(0, 1, 0), domain.StatusPlanned, assignee.ID)
	mk("yesterday", now.Add(-24*time.Hour), domain.StatusPlanned, assignee.ID)
	mk("done tomorrow", now.Add(24*time.Hour), domain.StatusCompleted, assignee.ID)
	mk("someone else", now.Add(25*time.Hour), domain.StatusPlanned, other.ID)

	// default window is seven days, open statuses only
	upcoming, err := svc.GetUpcoming(ctx, domain.UpcomingRequest{})
	require.NoError(t, err)
	require.Len(t, upcoming, 3)
	require.Equal(t, "tomorrow", upcoming[0].Title)

	upcoming, err = svc.GetUpcoming(ctx, domain.UpcomingRequest{Days: 60})
	require.NoError(t, err)
	require.Len(t, upcoming, 4)

	upcoming, err = svc.GetUpcoming(ctx, domain.UpcomingRequest{AssignedToID: other.ID.String()})
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	require.Equal(t, "someone else", upcoming[0].Title)
}

func TestActivityStats(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t, node)
	tenantID := node.Generate()
	ctx := tenantctx.WithTenantID(context.Background(), tenantID)
	assignee := seedUser(t, conn, node, tenantID, "rep@activity-stats.test")

	now := time.Now().UTC()
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	mk := func(typ domain.Type, status domain.Status, due *time.Time) {
		t.Helper()
		_, err := svc.Create(ctx, domain.CreateActivityRequest{
			Type:         typ,
			Title:        "stats row",
			Status:       status,
			DueDate:      due,
			AssignedToID: assignee.ID.String(),
		})
		require.NoError(t, err)
	}
	mk(domain.TypeCall, domain.StatusPlanned, &past)
	mk(domain.TypeCall, domain.StatusPlanned, &future)
	mk(domain.TypeEmail, domain.StatusInProgress, nil)
	mk(domain.TypeTask, domain.StatusCompleted, &past)

	stats, err := svc.GetStats(ctx, "")
	require.NoError(t, err)
	require.Equal(t, int64(4), stats.Total)
	require.Equal(t, int64(2), stats.Planned)
	require.Equal(t, int64(1), stats.InProgress)
	require.Equal(t, int64(1), stats.Completed)
	require.Equal(t, int64(1), stats.Overdue, "completed rows never count as overdue")
	require.Equal(t, int64(2), stats.ByType[domain.TypeCall])
	require.Equal(t, int64(1), stats.ByType[domain.TypeEmail])
}

func TestActivityTenantIsolation(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupService(t, node)
	tenantA := node.Generate()
	tenantB := node.Generate()
	ctxA := tenantctx.WithTenantID(context.Background(), tenantA)
	ctxB := tenantctx.WithTenantID(context.Background(), tenantB)
	assignee := seedUser(t, conn, node, tenantA, "rep@activity-isolation.test")

	created, err := svc.Create(ctxA, domain.CreateActivityRequest{
		Type:         domain.TypeCall,
		Title:        "Private call",
		AssignedToID: assignee.ID.String(),
	})
	require.NoError(t, err)

	_, err = svc.GetByID(ctxB, created.ID.String())
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Delete(ctxB, created.ID.String())
	require.ErrorIs(t, err, domain.ErrNotFound)
}
