package refdata

import "go.uber.org/fx"

var Module = fx.Module("refdata.module",
	fx.Provide(
		NewService,
		NewResolver,
	),
)
