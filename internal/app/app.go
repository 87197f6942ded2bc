package app

import (
	"time"

	"go.uber.org/fx"

	"zmbs.dev/eggseed/internal/app/appconfig"
	"zmbs.dev/eggseed/internal/app/appcontext"
	"zmbs.dev/eggseed/internal/infra"
	"zmbs.dev/eggseed/internal/pkg/logger"
	"zmbs.dev/eggseed/internal/repo"
	"zmbs.dev/eggseed/internal/service"
	"zmbs.dev/eggseed/internal/util/eggverifs"
)

func Options(ctx appcontext.Ctx, additionalOpts ...fx.Option) []fx.Option {
	conf, err := appconfig.Parse(ctx)
	if err != nil {
		panic(err)
	}

	baseOpts := []fx.Option{
		// Misc
		fx.Supply(conf),

		// Infrastructures
		infra.Module(),

		// Verifiers
		eggverifs.Module(),

		// Repositories
		repo.Module(),

		// Services
		service.Module(),

		// fx Extra Options
		fx.StartTimeout(10 * time.Second),
		fx.StopTimeout(30 * time.Second),
	}

	if ctx.Env == appcontext.EnvTest {
		// for testing, logger is too annoying. therefore, we use a NopLogger here
		baseOpts = append(baseOpts, fx.NopLogger)
	} else {
		// logger and configuration are the only two things that are not in the fx graph
		// because some other packages need them to be initialized before fx starts
		logger.Configure(conf)
		baseOpts = append(baseOpts, fx.WithLogger(logger.Fx))
	}

	return append(baseOpts, additionalOpts...)
}

func New(ctx appcontext.Ctx, additionalOpts ...fx.Option) *fx.App {
	return fx.New(Options(ctx, additionalOpts...)...)
}
