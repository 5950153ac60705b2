package auth

import (
	"go.uber.org/fx"

	"github.com/inkvoice/inkvoice/internal/auth/service"
	"github.com/inkvoice/inkvoice/internal/auth/session"
	"github.com/inkvoice/inkvoice/internal/ratelimit"
)

var Module = fx.Module("auth",
	fx.Provide(session.NewManager),
	fx.Provide(ratelimit.NewTokenBucket),
	fx.Provide(service.NewService),
)
