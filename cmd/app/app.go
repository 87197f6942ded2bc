package app

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	cliapp "zmbs.dev/eggseed/cmd/app/cli"
	"zmbs.dev/eggseed/cmd/app/cli/export"
	"zmbs.dev/eggseed/cmd/app/cli/load"
	"zmbs.dev/eggseed/cmd/app/cli/migrate"
	"zmbs.dev/eggseed/cmd/app/cli/validate"
	"zmbs.dev/eggseed/internal/pkg/bininfo"
)

func Run() {
	app := &cli.App{
		Name:        "eggseed",
		Usage:       "validate and seed the Zombies Easter egg catalogue",
		Description: "Validates the curated Easter egg catalogue and seeds it into PostgreSQL. Built with Go, bun and go.uber.org/fx.",
		Version:     bininfo.Version + " (built " + bininfo.BuildTime + ")",
		Commands: []*cli.Command{
			validate.Command(cliapp.DepsFn[validate.CommandDeps]()),
			load.Command(cliapp.DepsFn[load.CommandDeps](), cliapp.DepsFn[load.DatabaseDeps]()),
			export.Command(cliapp.DepsFn[export.CommandDeps](), cliapp.DepsFn[export.DatabaseDeps]()),
			migrate.Command(cliapp.DepsFn[migrate.CommandDeps]()),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run app")
	}
}
