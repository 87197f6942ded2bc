package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gopkg.in/guregu/null.v3"

	"zmbs.dev/eggseed/internal/app/appconfig"
	"zmbs.dev/eggseed/internal/catalog"
	"zmbs.dev/eggseed/internal/model"
	"zmbs.dev/eggseed/internal/pkg/async"
	"zmbs.dev/eggseed/internal/pkg/observability"
	"zmbs.dev/eggseed/internal/pkg/seederr"
	"zmbs.dev/eggseed/internal/util/eggverifs"
)

type LoadOptions struct {
	// Prune deletes stored eggs whose key no longer appears in the catalogue.
	Prune bool
}

type LoadResult struct {
	RunID string `json:"runId"`

	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Rejected  int `json:"rejected"`
	Failed    int `json:"failed"`

	StepsWritten  int `json:"stepsWritten"`
	StepsPruned   int `json:"stepsPruned"`
	LinksResolved int `json:"linksResolved"`
	LinksDangling int `json:"linksDangling"`
	Pruned        int `json:"pruned"`

	Report *eggverifs.Report `json:"report"`
}

type Seed struct {
	Validation *Validation
	Config     *appconfig.Config
}

func NewSeed(validation *Validation, conf *appconfig.Config) *Seed {
	return &Seed{
		Validation: validation,
		Config:     conf,
	}
}

type savedEgg struct {
	egg    *model.EasterEgg
	result *model.SaveResult
}

// Load validates c and writes every accepted record to store. Records are
// saved first; buildable references are linked in a second pass once every
// record of the run has an id. A failing record does not stop the others:
// its error is collected and returned together with the result.
func (s *Seed) Load(ctx context.Context, c *catalog.Catalog, store Store, opts LoadOptions) (*LoadResult, error) {
	start := time.Now()
	result := &LoadResult{RunID: xid.New().String()}
	logger := log.With().Str("run.id", result.RunID).Logger()

	report := s.Validation.Validate(ctx, c)
	result.Report = report
	result.Rejected = report.RejectedCount()
	for _, v := range report.Errors() {
		logger.Warn().
			Str("evt.name", "seed.rejected").
			Int("index", v.Index).
			Str("key", v.Key.String()).
			Str("field", v.Field).
			Str("code", v.Err.Code).
			Msg(v.Err.Message)
	}
	observability.Records.WithLabelValues("rejected").Add(float64(result.Rejected))

	accepted := report.Accepted(c)
	for _, egg := range accepted {
		hash, err := catalog.ContentHash(egg)
		if err != nil {
			return result, errors.Wrapf(err, "failed to hash %s", egg.Key())
		}
		egg.ContentHash = hash
	}

	saved, errs := s.save(ctx, accepted, store, result, &logger)

	s.link(ctx, saved, store, result, &errs, &logger)

	if opts.Prune {
		keep := lo.Map(c.Entries, func(e *catalog.Entry, _ int) model.Key {
			return e.Key
		})
		pruned, err := store.PruneExcept(ctx, keep)
		if err != nil {
			errs.E = append(errs.E, seederr.ErrStore.Msg("failed to prune stale easter eggs: %v", err))
		}
		result.Pruned = pruned
		observability.Records.WithLabelValues("pruned").Add(float64(pruned))
	}

	elapsed := time.Since(start)
	observability.LoadDuration.Set(elapsed.Seconds())

	event := logger.Info()
	if len(errs.E) > 0 {
		event = logger.Error().Err(errs)
	} else {
		observability.LastSuccess.WithLabelValues("load").SetToCurrentTime()
	}
	event.
		Str("evt.name", "seed.load").
		Str("source", c.Source).
		Int("inserted", result.Inserted).
		Int("updated", result.Updated).
		Int("unchanged", result.Unchanged).
		Int("rejected", result.Rejected).
		Int("failed", result.Failed).
		Int("linksResolved", result.LinksResolved).
		Int("linksDangling", result.LinksDangling).
		Int("pruned", result.Pruned).
		Dur("elapsed", elapsed).
		Msg("load finished")

	return result, errs.Wrapped()
}

// save is the first pass. It runs with at most SeedConcurrency records in
// flight and each record gets its own transaction deadline.
func (s *Seed) save(ctx context.Context, accepted []*model.EasterEgg, store Store, result *LoadResult, logger *zerolog.Logger) ([]savedEgg, async.Errors) {
	results, _ := async.Map(accepted, s.Config.SeedConcurrency, func(egg *model.EasterEgg) (*model.SaveResult, error) {
		txCtx := ctx
		if s.Config.SeedTxTimeout > 0 {
			var cancel context.CancelFunc
			txCtx, cancel = context.WithTimeout(ctx, s.Config.SeedTxTimeout)
			defer cancel()
		}

		r, err := store.SaveEasterEgg(txCtx, egg)
		if err != nil {
			return nil, seederr.ErrStore.
				Msg("failed to persist %s: %v", egg.Key(), err).
				WithExtras(seederr.Extras{"key": egg.Key().String()})
		}
		return r, nil
	})

	errs := async.Errors{}
	saved := make([]savedEgg, 0, len(results))
	for _, r := range results {
		egg := accepted[r.Index]
		if r.Err != nil {
			result.Failed++
			errs.E = append(errs.E, r.Err)
			logger.Error().
				Err(r.Err).
				Str("evt.name", "seed.save").
				Str("key", egg.Key().String()).
				Msg("failed to save easter egg")
			continue
		}

		switch r.Value.Outcome {
		case model.SaveOutcomeInserted:
			result.Inserted++
		case model.SaveOutcomeUpdated:
			result.Updated++
		case model.SaveOutcomeUnchanged:
			result.Unchanged++
		}
		result.StepsWritten += r.Value.StepsWritten
		result.StepsPruned += r.Value.StepsPruned
		observability.Records.WithLabelValues(string(r.Value.Outcome)).Inc()

		if l := logger.Trace(); l.Enabled() {
			l.Str("key", egg.Key().String()).
				Int64("eggId", r.Value.EggID).
				Str("outcome", string(r.Value.Outcome)).
				Msg("easter egg saved")
		}

		saved = append(saved, savedEgg{egg: egg, result: r.Value})
	}
	observability.Records.WithLabelValues("failed").Add(float64(result.Failed))

	return saved, errs
}

// link is the second pass. References resolve only against BUILDABLE records
// saved in this run; an unresolved reference clears the stored link.
func (s *Seed) link(ctx context.Context, saved []savedEgg, store Store, result *LoadResult, errs *async.Errors, logger *zerolog.Logger) {
	buildables := map[model.Key]int64{}
	for _, e := range saved {
		if e.egg.Type == model.EggTypeBuildable {
			buildables[e.egg.Key()] = e.result.EggID
		}
	}

	for _, e := range saved {
		for _, step := range e.egg.Steps {
			if !step.BuildableReferenceSlug.Valid {
				continue
			}

			target := e.egg.MapKey().Ref(step.BuildableReferenceSlug.String)
			id, ok := buildables[target]
			link := null.Int{}
			if ok {
				link = null.IntFrom(id)
				result.LinksResolved++
			} else {
				result.LinksDangling++
				logger.Warn().
					Str("evt.name", "seed.link").
					Str("key", e.egg.Key().String()).
					Int("order", step.Order).
					Str("target", target.String()).
					Msg("buildable reference left dangling")
			}

			if err := store.LinkBuildable(ctx, e.result.EggID, step.Order, link); err != nil {
				errs.E = append(errs.E, seederr.ErrStore.
					Msg("failed to link %s step %d: %v", e.egg.Key(), step.Order, err).
					WithExtras(seederr.Extras{"key": e.egg.Key().String(), "order": step.Order}))
				continue
			}
			step.BuildableEggID = link
		}
	}
}
