package migration

import (
	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/smallbiznis/relaycrm/internal/activity/domain"
	authdomain "github.com/smallbiznis/relaycrm/internal/auth/domain"
	companydomain "github.com/smallbiznis/relaycrm/internal/company/domain"
	"github.com/smallbiznis/relaycrm/internal/config"
	contactdomain "github.com/smallbiznis/relaycrm/internal/contact/domain"
	dealdomain "github.com/smallbiznis/relaycrm/internal/deal/domain"
	notedomain "github.com/smallbiznis/relaycrm/internal/note/domain"
	"github.com/smallbiznis/relaycrm/internal/seed"
	tenantdomain "github.com/smallbiznis/relaycrm/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, genID *snowflake.Node, log *zap.Logger) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql installs lean on GORM's schema sync.
			if err := conn.AutoMigrate(
				&tenantdomain.Tenant{},
				&authdomain.User{},
				&companydomain.Company{},
				&contactdomain.Contact{},
				&dealdomain.Deal{},
				&activitydomain.Activity{},
				&notedomain.Note{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDemoData {
			return seed.EnsureDemoData(conn, genID, log)
		}
		return nil
	}),
)
