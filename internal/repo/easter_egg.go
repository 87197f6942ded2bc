package repo

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/uptrace/bun"
	"gopkg.in/guregu/null.v3"

	"zmbs.dev/eggseed/internal/model"
	"zmbs.dev/eggseed/internal/repo/selector"
)

type EasterEgg struct {
	db  *bun.DB
	sel selector.S[model.EasterEgg]
}

func NewEasterEgg(db *bun.DB) *EasterEgg {
	return &EasterEgg{
		db:  db,
		sel: selector.New[model.EasterEgg](db),
	}
}

// SaveEasterEgg upserts egg keyed by (game_short_name, map_slug, slug) and its
// steps keyed by (egg_id, step_order) in a single transaction. Steps beyond the
// new step count are deleted. When the stored content hash equals
// egg.ContentHash nothing is written.
func (r *EasterEgg) SaveEasterEgg(ctx context.Context, egg *model.EasterEgg) (*model.SaveResult, error) {
	result := &model.SaveResult{}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var existing model.EasterEgg
		err := tx.NewSelect().
			Model(&existing).
			Column("egg_id", "content_hash").
			Where("game_short_name = ?", egg.GameShortName).
			Where("map_slug = ?", egg.MapSlug).
			Where("slug = ?", egg.Slug).
			Scan(ctx)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			result.Outcome = model.SaveOutcomeInserted
		case err != nil:
			return errors.Wrap(err, "failed to look up existing easter egg")
		case egg.ContentHash != "" && existing.ContentHash == egg.ContentHash:
			egg.EggID = existing.EggID
			result.EggID = existing.EggID
			result.Outcome = model.SaveOutcomeUnchanged
			return nil
		default:
			result.Outcome = model.SaveOutcomeUpdated
		}

		egg.EggID = 0
		_, err = tx.NewInsert().
			Model(egg).
			On("CONFLICT (game_short_name, map_slug, slug) DO UPDATE").
			Set("name = EXCLUDED.name").
			Set("type = EXCLUDED.type").
			Set("xp_reward = EXCLUDED.xp_reward").
			Set("description = EXCLUDED.description").
			Set("rewards_description = EXCLUDED.rewards_description").
			Set("video_embed_url = EXCLUDED.video_embed_url").
			Set("player_count_requirement = EXCLUDED.player_count_requirement").
			Set("variant_tag = EXCLUDED.variant_tag").
			Set("category_tag = EXCLUDED.category_tag").
			Set("content_hash = EXCLUDED.content_hash").
			Set("updated_at = current_timestamp").
			Returning("egg_id").
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to upsert easter egg")
		}
		result.EggID = egg.EggID

		for _, step := range egg.Steps {
			step.StepID = 0
			step.EggID = egg.EggID
			step.BuildableEggID = null.Int{}
		}

		_, err = tx.NewInsert().
			Model(&egg.Steps).
			On("CONFLICT (egg_id, step_order) DO UPDATE").
			Set("label = EXCLUDED.label").
			Set("image_url = EXCLUDED.image_url").
			Set("buildable_reference_slug = EXCLUDED.buildable_reference_slug").
			Set("buildable_egg_id = NULL").
			Returning("step_id").
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to upsert easter egg steps")
		}
		result.StepsWritten = len(egg.Steps)

		res, err := tx.NewDelete().
			Model((*model.Step)(nil)).
			Where("egg_id = ?", egg.EggID).
			Where("step_order > ?", len(egg.Steps)).
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to prune stale easter egg steps")
		}
		if pruned, err := res.RowsAffected(); err == nil {
			result.StepsPruned = int(pruned)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// LinkBuildable stores the resolved target of a step's buildable reference.
// An invalid target clears the link.
func (r *EasterEgg) LinkBuildable(ctx context.Context, eggID int64, order int, target null.Int) error {
	_, err := r.db.NewUpdate().
		Model((*model.Step)(nil)).
		Set("buildable_egg_id = ?", target).
		Where("egg_id = ?", eggID).
		Where("step_order = ?", order).
		Exec(ctx)
	return errors.Wrap(err, "failed to link buildable reference")
}

// PruneExcept deletes every stored easter egg whose key is not in keep. Steps
// go with them through the foreign key cascade.
func (r *EasterEgg) PruneExcept(ctx context.Context, keep []model.Key) (int, error) {
	var stored []*model.EasterEgg
	err := r.db.NewSelect().
		Model(&stored).
		Column("egg_id", "game_short_name", "map_slug", "slug").
		Scan(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list stored easter egg keys")
	}

	keepSet := lo.SliceToMap(keep, func(k model.Key) (model.Key, struct{}) {
		return k, struct{}{}
	})
	stale := lo.FilterMap(stored, func(egg *model.EasterEgg, _ int) (int64, bool) {
		_, ok := keepSet[egg.Key()]
		return egg.EggID, !ok
	})
	if len(stale) == 0 {
		return 0, nil
	}

	_, err = r.db.NewDelete().
		Model((*model.EasterEgg)(nil)).
		Where("egg_id IN (?)", bun.In(stale)).
		Exec(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to prune stale easter eggs")
	}

	return len(stale), nil
}

func (r *EasterEgg) ListEasterEggs(ctx context.Context) ([]*model.EasterEgg, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Relation("Steps", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Order("step_order ASC")
			}).
			Order("game_short_name ASC", "map_slug ASC", "egg_id ASC")
	})
}

func (r *EasterEgg) GetEasterEgg(ctx context.Context, key model.Key) (*model.EasterEgg, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Relation("Steps", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Order("step_order ASC")
			}).
			Where("ee.game_short_name = ?", key.GameShortName).
			Where("ee.map_slug = ?", key.MapSlug).
			Where("ee.slug = ?", key.Slug)
	})
}

func (r *EasterEgg) Count(ctx context.Context) (eggs int, steps int, err error) {
	eggs, err = r.db.NewSelect().Model((*model.EasterEgg)(nil)).Count(ctx)
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to count easter eggs")
	}
	steps, err = r.db.NewSelect().Model((*model.Step)(nil)).Count(ctx)
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to count easter egg steps")
	}
	return eggs, steps, nil
}
