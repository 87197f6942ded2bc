package service

import (
	"context"

	"gopkg.in/guregu/null.v3"

	"zmbs.dev/eggseed/internal/model"
	"zmbs.dev/eggseed/internal/repo"
	"zmbs.dev/eggseed/internal/repo/memstore"
)

// Store persists easter eggs for the loader and reads them back for export.
type Store interface {
	SaveEasterEgg(ctx context.Context, egg *model.EasterEgg) (*model.SaveResult, error)
	LinkBuildable(ctx context.Context, eggID int64, order int, target null.Int) error
	PruneExcept(ctx context.Context, keep []model.Key) (int, error)
	ListEasterEggs(ctx context.Context) ([]*model.EasterEgg, error)
	GetEasterEgg(ctx context.Context, key model.Key) (*model.EasterEgg, error)
	Count(ctx context.Context) (eggs int, steps int, err error)
}

var (
	_ Store = (*repo.EasterEgg)(nil)
	_ Store = (*memstore.Store)(nil)
)
