package migrate

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func run(c *cli.Context, deps CommandDeps) error {
	log.Info().Str("evt.name", "migrate.start").Msg("running schema migration")

	if err := deps.SchemaRepo.Migrate(c.Context); err != nil {
		return errors.Wrap(err, "failed to migrate schema")
	}

	log.Info().Str("evt.name", "migrate.done").Msg("schema migration completed")
	return nil
}
