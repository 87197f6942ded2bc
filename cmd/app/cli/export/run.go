package export

import (
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"zmbs.dev/eggseed/internal/app/appconfig"
	"zmbs.dev/eggseed/internal/model"
	"zmbs.dev/eggseed/internal/pkg/observability"
	"zmbs.dev/eggseed/internal/service"
)

func run(c *cli.Context, deps CommandDeps) error {
	catalogue, err := deps.ExportService.Validation.Open(c.String("source"))
	if err != nil {
		return err
	}

	data, report, err := deps.ExportService.Snapshot(c.Context, catalogue)
	if err != nil {
		return err
	}
	if report.RejectedCount() > 0 {
		log.Warn().
			Str("evt.name", "export.rejected").
			Int("rejected", report.RejectedCount()).
			Msg("rejected records are left out of the snapshot; run `eggseed validate` for details")
	}

	return emit(c, deps.Config, deps.ExportService, data)
}

func emit(c *cli.Context, conf *appconfig.Config, export *service.Export, data []byte) error {
	if out := c.String("out"); out == "-" || out == "" {
		if _, err := c.App.Writer.Write(data); err != nil {
			return err
		}
	} else if err := export.WriteFile(out, data); err != nil {
		return err
	}

	if c.Bool("publish") {
		if _, err := export.Publish(c.Context, data); err != nil {
			return err
		}
	}

	return observability.WriteTextfile(conf.MetricsTextfile)
}

func parseKeys(raw []string) ([]model.Key, error) {
	keys := make([]model.Key, 0, len(raw))
	for _, s := range raw {
		key, err := model.ParseKey(s)
		if err != nil {
			return nil, cli.Exit(err.Error(), 2)
		}
		keys = append(keys, key)
	}
	return keys, nil
}
