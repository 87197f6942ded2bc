package validate

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	cliapp "zmbs.dev/eggseed/cmd/app/cli"
	"zmbs.dev/eggseed/internal/app/appconfig"
	"zmbs.dev/eggseed/internal/service"
)

type CommandDeps struct {
	fx.In

	Config            *appconfig.Config
	ValidationService *service.Validation
}

func Command(depsFn func() (CommandDeps, error)) *cli.Command {
	return &cli.Command{
		Name:        "validate",
		Usage:       "validate the catalogue without touching the database",
		Description: "runs every verifier over the catalogue and prints all violations; exits non-zero when a record is rejected",
		Flags: []cli.Flag{
			cliapp.SourceFlag,
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "treat warnings (e.g. dangling buildable references) as failures",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the report as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			deps, err := depsFn()
			if err != nil {
				return err
			}
			return run(c, deps)
		},
	}
}
