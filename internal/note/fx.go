package note

import (
	"github.com/smallbiznis/relaycrm/internal/note/repository"
	"github.com/smallbiznis/relaycrm/internal/note/service"
	"go.uber.org/fx"
)

var Module = fx.Module("note.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
