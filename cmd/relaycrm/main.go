package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/relaycrm/internal/activity"
	"github.com/smallbiznis/relaycrm/internal/auth"
	"github.com/smallbiznis/relaycrm/internal/company"
	"github.com/smallbiznis/relaycrm/internal/config"
	"github.com/smallbiznis/relaycrm/internal/contact"
	"github.com/smallbiznis/relaycrm/internal/deal"
	"github.com/smallbiznis/relaycrm/internal/logger"
	"github.com/smallbiznis/relaycrm/internal/migration"
	"github.com/smallbiznis/relaycrm/internal/note"
	"github.com/smallbiznis/relaycrm/internal/server"
	"github.com/smallbiznis/relaycrm/internal/tenant"
	"github.com/smallbiznis/relaycrm/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		tenant.Module,
		auth.Module,
		company.Module,
		contact.Module,
		deal.Module,
		activity.Module,
		note.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
