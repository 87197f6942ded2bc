package load

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	cliapp "zmbs.dev/eggseed/cmd/app/cli"
	"zmbs.dev/eggseed/internal/app/appconfig"
	"zmbs.dev/eggseed/internal/repo"
	"zmbs.dev/eggseed/internal/repo/memstore"
	"zmbs.dev/eggseed/internal/service"
)

type CommandDeps struct {
	fx.In

	Config      *appconfig.Config
	SeedService *service.Seed
}

type DatabaseDeps struct {
	fx.In

	Config        *appconfig.Config
	SeedService   *service.Seed
	EasterEggRepo *repo.EasterEgg
}

func Command(depsFn func() (CommandDeps, error), dbDepsFn func() (DatabaseDeps, error)) *cli.Command {
	return &cli.Command{
		Name:        "load",
		Usage:       "validate the catalogue and upsert it into the database",
		Description: "saves every accepted record in its own transaction, then links buildable references; loading the same catalogue twice is a no-op",
		Flags: []cli.Flag{
			cliapp.SourceFlag,
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "load into an in-memory store instead of the database",
			},
			&cli.BoolFlag{
				Name:  "prune",
				Usage: "delete stored easter eggs that are no longer in the catalogue",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("dry-run") {
				deps, err := depsFn()
				if err != nil {
					return err
				}
				return run(c, deps.Config, deps.SeedService, memstore.New())
			}

			deps, err := dbDepsFn()
			if err != nil {
				return err
			}
			return run(c, deps.Config, deps.SeedService, deps.EasterEggRepo)
		},
	}
}
