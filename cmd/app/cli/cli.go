package cli

import (
	"context"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"zmbs.dev/eggseed/internal/app"
	"zmbs.dev/eggseed/internal/app/appcontext"
)

// SourceFlag overrides EGGSEED_DATASET_SOURCE for a single command.
var SourceFlag = &cli.StringFlag{
	Name:    "source",
	Aliases: []string{"s"},
	Usage:   "dataset source: `embedded`, file:<path> or a bare path (defaults to EGGSEED_DATASET_SOURCE)",
}

func Start(module fx.Option) error {
	return app.New(appcontext.Declare(appcontext.EnvCLI), module).Start(context.Background())
}

// DepsFn builds the application graph lazily and populates T from it. Only
// the constructors T needs are run, so commands that never touch the database
// do not require one.
func DepsFn[T any]() func() (T, error) {
	return func() (T, error) {
		var deps T
		if err := Start(fx.Populate(&deps)); err != nil {
			return deps, errors.Wrap(err, "failed to start application")
		}
		return deps, nil
	}
}
