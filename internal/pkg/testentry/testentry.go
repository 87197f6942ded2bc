package testentry

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"zmbs.dev/eggseed/internal/app"
	"zmbs.dev/eggseed/internal/app/appcontext"
)

// Populate builds the application graph without a database and fills targets
// from it. Targets must not depend on *bun.DB.
func Populate(t zerolog.TestingLog, targets ...any) {
	opts := []fx.Option{
		fx.Populate(targets...),
		fx.Invoke(func() {
			log.Logger = log.Logger.Output(zerolog.NewTestWriter(t))
		}),
	}

	fxApp := app.New(appcontext.Declare(appcontext.EnvTest), opts...)

	if err := fxApp.Start(context.Background()); err != nil {
		panic(err)
	}
}
