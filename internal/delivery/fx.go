package delivery

import (
	"go.uber.org/fx"

	"github.com/inkvoice/inkvoice/internal/delivery/service"
)

var Module = fx.Module("delivery",
	fx.Provide(service.NewService),
)
