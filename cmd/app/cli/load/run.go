package load

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"zmbs.dev/eggseed/internal/app/appconfig"
	"zmbs.dev/eggseed/internal/pkg/observability"
	"zmbs.dev/eggseed/internal/service"
)

func run(c *cli.Context, conf *appconfig.Config, seed *service.Seed, store service.Store) error {
	catalogue, err := seed.Validation.Open(c.String("source"))
	if err != nil {
		return err
	}

	result, loadErr := seed.Load(c.Context, catalogue, store, service.LoadOptions{
		Prune: c.Bool("prune"),
	})

	for _, v := range result.Report.Violations {
		fmt.Fprintln(c.App.Writer, v.String())
	}
	fmt.Fprintf(c.App.Writer, "run %s: %d inserted, %d updated, %d unchanged, %d rejected, %d failed, %d link(s) resolved, %d dangling, %d pruned\n",
		result.RunID, result.Inserted, result.Updated, result.Unchanged, result.Rejected, result.Failed,
		result.LinksResolved, result.LinksDangling, result.Pruned)

	if eggs, steps, err := store.Count(c.Context); err == nil {
		log.Info().
			Str("evt.name", "seed.count").
			Str("run.id", result.RunID).
			Int("eggs", eggs).
			Int("steps", steps).
			Msg("store row count after load")
	}

	if err := observability.WriteTextfile(conf.MetricsTextfile); err != nil {
		return err
	}

	return loadErr
}
