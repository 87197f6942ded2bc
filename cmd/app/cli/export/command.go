package export

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	cliapp "zmbs.dev/eggseed/cmd/app/cli"
	"zmbs.dev/eggseed/internal/app/appconfig"
	"zmbs.dev/eggseed/internal/repo"
	"zmbs.dev/eggseed/internal/service"
)

type CommandDeps struct {
	fx.In

	Config        *appconfig.Config
	ExportService *service.Export
}

type DatabaseDeps struct {
	fx.In

	Config        *appconfig.Config
	ExportService *service.Export
	EasterEggRepo *repo.EasterEgg
}

func Command(depsFn func() (CommandDeps, error), dbDepsFn func() (DatabaseDeps, error)) *cli.Command {
	return &cli.Command{
		Name:        "export",
		Usage:       "write a canonical JSON snapshot of the catalogue",
		Description: "encodes the accepted records (or, with --from-db, the stored ones) in the canonical format and optionally publishes the snapshot to S3",
		Flags: []cli.Flag{
			cliapp.SourceFlag,
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "write the snapshot to `FILE` (\"-\" for stdout)",
				Value:   "-",
			},
			&cli.BoolFlag{
				Name:  "publish",
				Usage: "upload the gzip-compressed snapshot to EGGSEED_SNAPSHOT_S3_BUCKET",
			},
			&cli.BoolFlag{
				Name:  "from-db",
				Usage: "snapshot what the database holds instead of the catalogue",
			},
			&cli.StringSliceFlag{
				Name:  "key",
				Usage: "with --from-db, export only `GAME/map-slug/slug` (repeatable)",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("from-db") {
				keys, err := parseKeys(c.StringSlice("key"))
				if err != nil {
					return err
				}
				deps, err := dbDepsFn()
				if err != nil {
					return err
				}
				data, err := deps.ExportService.StoreSnapshot(c.Context, deps.EasterEggRepo, keys...)
				if err != nil {
					return err
				}
				return emit(c, deps.Config, deps.ExportService, data)
			}
			if len(c.StringSlice("key")) > 0 {
				return cli.Exit("--key requires --from-db", 2)
			}

			deps, err := depsFn()
			if err != nil {
				return err
			}
			return run(c, deps)
		},
	}
}
