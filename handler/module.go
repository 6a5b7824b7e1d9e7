package handler

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module("handler",
		fx.Provide(NewCommandHandler),
		fx.Provide(NewRootRoute),
		fx.Provide(NewInvokeRoute),
		fx.Provide(NewHealthRoute),
	)
}
