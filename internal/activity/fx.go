package activity

import (
	"github.com/smallbiznis/relaycrm/internal/activity/repository"
	"github.com/smallbiznis/relaycrm/internal/activity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("activity.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
