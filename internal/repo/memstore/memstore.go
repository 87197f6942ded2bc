// Package memstore keeps easter eggs in process memory. It backs dry runs and
// tests with the same upsert semantics as the Postgres repository.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/samber/lo"
	"gopkg.in/guregu/null.v3"

	"zmbs.dev/eggseed/internal/model"
	"zmbs.dev/eggseed/internal/pkg/seederr"
)

type Store struct {
	mu     sync.RWMutex
	nextID int64
	byKey  map[model.Key]*model.EasterEgg
	byID   map[int64]*model.EasterEgg

	// FailOn makes SaveEasterEgg fail for the given keys.
	FailOn map[model.Key]error
}

func New() *Store {
	return &Store{
		byKey:  map[model.Key]*model.EasterEgg{},
		byID:   map[int64]*model.EasterEgg{},
		FailOn: map[model.Key]error{},
	}
}

func (s *Store) SaveEasterEgg(ctx context.Context, egg *model.EasterEgg) (*model.SaveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := egg.Key()
	if err, ok := s.FailOn[key]; ok {
		return nil, err
	}

	existing, ok := s.byKey[key]
	if ok && egg.ContentHash != "" && existing.ContentHash == egg.ContentHash {
		egg.EggID = existing.EggID
		return &model.SaveResult{EggID: existing.EggID, Outcome: model.SaveOutcomeUnchanged}, nil
	}

	stored := clone(egg)
	result := &model.SaveResult{StepsWritten: len(stored.Steps)}
	if ok {
		stored.EggID = existing.EggID
		stored.CreatedAt = existing.CreatedAt
		result.Outcome = model.SaveOutcomeUpdated
		if len(existing.Steps) > len(stored.Steps) {
			result.StepsPruned = len(existing.Steps) - len(stored.Steps)
		}
	} else {
		s.nextID++
		stored.EggID = s.nextID
		result.Outcome = model.SaveOutcomeInserted
	}
	for _, step := range stored.Steps {
		step.EggID = stored.EggID
		step.BuildableEggID = null.Int{}
	}

	s.byKey[key] = stored
	s.byID[stored.EggID] = stored
	egg.EggID = stored.EggID
	result.EggID = stored.EggID

	return result, nil
}

func (s *Store) LinkBuildable(ctx context.Context, eggID int64, order int, target null.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	egg, ok := s.byID[eggID]
	if !ok {
		return seederr.ErrNotFound.Msg("easter egg %d not found", eggID)
	}
	for _, step := range egg.Steps {
		if step.Order == order {
			step.BuildableEggID = target
			return nil
		}
	}
	return seederr.ErrNotFound.Msg("easter egg %d has no step %d", eggID, order)
}

func (s *Store) PruneExcept(ctx context.Context, keep []model.Key) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keepSet := lo.SliceToMap(keep, func(k model.Key) (model.Key, struct{}) {
		return k, struct{}{}
	})

	pruned := map[int64]struct{}{}
	for key, egg := range s.byKey {
		if _, ok := keepSet[key]; ok {
			continue
		}
		pruned[egg.EggID] = struct{}{}
		delete(s.byKey, key)
		delete(s.byID, egg.EggID)
	}

	// references to pruned eggs behave like ON DELETE SET NULL
	for _, egg := range s.byID {
		for _, step := range egg.Steps {
			if _, ok := pruned[step.BuildableEggID.Int64]; ok && step.BuildableEggID.Valid {
				step.BuildableEggID = null.Int{}
			}
		}
	}

	return len(pruned), nil
}

func (s *Store) ListEasterEggs(ctx context.Context) ([]*model.EasterEgg, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	eggs := make([]*model.EasterEgg, 0, len(s.byID))
	for _, egg := range s.byID {
		eggs = append(eggs, clone(egg))
	}
	sort.Slice(eggs, func(i, j int) bool {
		a, b := eggs[i], eggs[j]
		if a.GameShortName != b.GameShortName {
			return a.GameShortName < b.GameShortName
		}
		if a.MapSlug != b.MapSlug {
			return a.MapSlug < b.MapSlug
		}
		return a.EggID < b.EggID
	})
	return eggs, nil
}

func (s *Store) GetEasterEgg(ctx context.Context, key model.Key) (*model.EasterEgg, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	egg, ok := s.byKey[key]
	if !ok {
		return nil, seederr.ErrNotFound
	}
	return clone(egg), nil
}

func (s *Store) Count(ctx context.Context) (eggs int, steps int, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, egg := range s.byID {
		steps += len(egg.Steps)
	}
	return len(s.byID), steps, nil
}

func clone(egg *model.EasterEgg) *model.EasterEgg {
	c := *egg
	c.Steps = lo.Map(egg.Steps, func(step *model.Step, _ int) *model.Step {
		s := *step
		return &s
	})
	return &c
}
