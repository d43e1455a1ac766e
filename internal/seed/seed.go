package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/smallbiznis/relaycrm/internal/activity/domain"
	authdomain "github.com/smallbiznis/relaycrm/internal/auth/domain"
	"github.com/smallbiznis/relaycrm/internal/auth/password"
	companydomain "github.com/smallbiznis/relaycrm/internal/company/domain"
	contactdomain "github.com/smallbiznis/relaycrm/internal/contact/domain"
	dealdomain "github.com/smallbiznis/relaycrm/internal/deal/domain"
	notedomain "github.com/smallbiznis/relaycrm/internal/note/domain"
	tenantdomain "github.com/smallbiznis/relaycrm/internal/tenant/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	demoTenantName    = "Acme"
	demoTenantSub     = "acme"
	demoAdminEmail    = "admin@acme.test"
	demoAdminPassword = "changeme123"
	demoUserEmail     = "sales@acme.test"
	demoUserPassword  = "changeme123"
)

// EnsureDemoData seeds a demo tenant with a small sample pipeline. The seed
// is idempotent: an existing demo tenant short-circuits the whole routine.
func EnsureDemoData(db *gorm.DB, node *snowflake.Node, log *zap.Logger) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	log = log.Named("seed")

	ctx := context.Background()

	var existing tenantdomain.Tenant
	err := db.WithContext(ctx).Where("subdomain = ?", demoTenantSub).First(&existing).Error
	if err == nil {
		log.Debug("demo tenant already present", zap.String("subdomain", demoTenantSub))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		tenant := tenantdomain.Tenant{
			ID:        node.Generate(),
			Name:      demoTenantName,
			Subdomain: demoTenantSub,
			Plan:      tenantdomain.DefaultPlan,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}

		admin, err := newUser(node, tenant.ID, demoAdminEmail, demoAdminPassword, "Ada", "Miller", authdomain.RoleAdmin, now)
		if err != nil {
			return err
		}
		rep, err := newUser(node, tenant.ID, demoUserEmail, demoUserPassword, "Sam", "Ortiz", authdomain.RoleUser, now)
		if err != nil {
			return err
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		if err := tx.Create(&rep).Error; err != nil {
			return err
		}

		company := companydomain.Company{
			ID:        node.Generate(),
			TenantID:  tenant.ID,
			Name:      "Globex Corporation",
			Industry:  "Manufacturing",
			Website:   "https://globex.example",
			Email:     "info@globex.example",
			Size:      companydomain.SizeMedium,
			Status:    companydomain.StatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&company).Error; err != nil {
			return err
		}

		contact := contactdomain.Contact{
			ID:        node.Generate(),
			TenantID:  tenant.ID,
			FirstName: "Hank",
			LastName:  "Scorpio",
			Email:     "hank@globex.example",
			Position:  "CEO",
			Status:    contactdomain.StatusActive,
			CompanyID: &company.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&contact).Error; err != nil {
			return err
		}

		closeDate := now.AddDate(0, 1, 0)
		deal := dealdomain.Deal{
			ID:          node.Generate(),
			TenantID:    tenant.ID,
			Title:       "Globex annual license",
			Value:       24000,
			Currency:    "USD",
			Stage:       dealdomain.StageProposal,
			Status:      dealdomain.StatusOpen,
			Probability: 60,
			CloseDate:   &closeDate,
			OwnerID:     rep.ID,
			CompanyID:   &company.ID,
			ContactID:   &contact.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Create(&deal).Error; err != nil {
			return err
		}

		dueDate := now.AddDate(0, 0, 3)
		activity := activitydomain.Activity{
			ID:           node.Generate(),
			TenantID:     tenant.ID,
			Type:         activitydomain.TypeCall,
			Title:        "Proposal follow-up call",
			Status:       activitydomain.StatusPlanned,
			DueDate:      &dueDate,
			AssignedToID: rep.ID,
			CompanyID:    &company.ID,
			ContactID:    &contact.ID,
			DealID:       &deal.ID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Create(&activity).Error; err != nil {
			return err
		}

		note := notedomain.Note{
			ID:        node.Generate(),
			TenantID:  tenant.ID,
			Content:   "Hank wants the proposal revised with volume pricing before the call.",
			AuthorID:  rep.ID,
			DealID:    &deal.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&note).Error; err != nil {
			return err
		}

		log.Info("demo tenant seeded",
			zap.String("tenant_id", tenant.ID.String()),
			zap.String("subdomain", demoTenantSub),
		)
		return nil
	})
}

func newUser(node *snowflake.Node, tenantID snowflake.ID, email, plain, firstName, lastName string, role authdomain.Role, now time.Time) (authdomain.User, error) {
	hashed, err := password.Hash(plain)
	if err != nil {
		return authdomain.User{}, err
	}
	return authdomain.User{
		ID:           node.Generate(),
		TenantID:     tenantID,
		Email:        strings.ToLower(email),
		PasswordHash: hashed,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
