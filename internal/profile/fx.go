package profile

import (
	"github.com/inkvoice/inkvoice/internal/profile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("profile",
	fx.Provide(service.NewService),
)
