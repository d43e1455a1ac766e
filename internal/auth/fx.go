package auth

import (
	"github.com/smallbiznis/relaycrm/internal/auth/repository"
	"github.com/smallbiznis/relaycrm/internal/auth/service"
	"github.com/smallbiznis/relaycrm/internal/auth/token"
	"github.com/smallbiznis/relaycrm/internal/config"
	"go.uber.org/fx"
)

func newIssuer(cfg config.Config) *token.Issuer {
	return token.NewIssuer(cfg.JWTSecret, cfg.JWTExpiresIn)
}

var Module = fx.Module("auth.service",
	fx.Provide(newIssuer),
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
