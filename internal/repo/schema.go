package repo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"

	"zmbs.dev/eggseed/internal/model"
)

type Schema struct {
	db *bun.DB
}

func NewSchema(db *bun.DB) *Schema {
	return &Schema{db: db}
}

// Migrate creates the easter egg tables and their unique indexes. It is safe
// to run repeatedly.
func (r *Schema) Migrate(ctx context.Context) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewCreateTable().
			Model((*model.EasterEgg)(nil)).
			IfNotExists().
			Exec(ctx); err != nil {
			return errors.Wrap(err, "failed to create easter_eggs table")
		}
		log.Info().Msg("easter_eggs table ensured")

		if _, err := tx.NewCreateTable().
			Model((*model.Step)(nil)).
			IfNotExists().
			ForeignKey(`("egg_id") REFERENCES "easter_eggs" ("egg_id") ON DELETE CASCADE`).
			ForeignKey(`("buildable_egg_id") REFERENCES "easter_eggs" ("egg_id") ON DELETE SET NULL`).
			Exec(ctx); err != nil {
			return errors.Wrap(err, "failed to create easter_egg_steps table")
		}
		log.Info().Msg("easter_egg_steps table ensured")

		if _, err := tx.NewCreateIndex().
			Model((*model.EasterEgg)(nil)).
			Unique().
			IfNotExists().
			Index("easter_eggs_key_uidx").
			Column("game_short_name", "map_slug", "slug").
			Exec(ctx); err != nil {
			return errors.Wrap(err, "failed to create index on (game_short_name, map_slug, slug) of easter_eggs table")
		}

		if _, err := tx.NewCreateIndex().
			Model((*model.Step)(nil)).
			Unique().
			IfNotExists().
			Index("easter_egg_steps_order_uidx").
			Column("egg_id", "step_order").
			Exec(ctx); err != nil {
			return errors.Wrap(err, "failed to create index on (egg_id, step_order) of easter_egg_steps table")
		}
		log.Info().Msg("unique indexes ensured")

		return nil
	})
}
