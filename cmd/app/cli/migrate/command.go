package migrate

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"zmbs.dev/eggseed/internal/repo"
)

type CommandDeps struct {
	fx.In

	SchemaRepo *repo.Schema
}

func Command(depsFn func() (CommandDeps, error)) *cli.Command {
	return &cli.Command{
		Name:        "migrate",
		Usage:       "create the easter egg tables and indexes",
		Description: "creates easter_eggs and easter_egg_steps with their unique indexes if they do not exist yet",
		Action: func(c *cli.Context) error {
			deps, err := depsFn()
			if err != nil {
				return err
			}
			return run(c, deps)
		},
	}
}
