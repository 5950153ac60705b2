package pdf

import (
	"go.uber.org/fx"
)

var Module = fx.Module("providers.pdf",
	fx.Provide(func(r *ChromeRenderer) Renderer { return r }),
	fx.Provide(NewChromeRenderer),
)
