package validate

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"zmbs.dev/eggseed/internal/pkg/observability"
)

func run(c *cli.Context, deps CommandDeps) error {
	catalogue, err := deps.ValidationService.Open(c.String("source"))
	if err != nil {
		return err
	}

	report := deps.ValidationService.Validate(c.Context, catalogue)

	out := c.App.Writer
	if c.Bool("json") {
		b, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode report")
		}
		fmt.Fprintln(out, string(b))
	} else {
		for _, v := range report.Violations {
			fmt.Fprintln(out, v.String())
		}
		fmt.Fprintf(out, "%s: %d record(s), %d error(s), %d warning(s), %d rejected\n",
			report.Source, report.Total, len(report.Errors()), len(report.Warnings()), report.RejectedCount())
	}

	if c.Bool("strict") {
		err = report.StrictErr()
	} else {
		err = report.Err()
	}
	if err == nil {
		observability.LastSuccess.WithLabelValues("validate").SetToCurrentTime()
	}

	if werr := observability.WriteTextfile(deps.Config.MetricsTextfile); werr != nil {
		return werr
	}

	if err != nil {
		return cli.Exit(fmt.Sprintf("catalogue %s failed validation", report.Source), 1)
	}
	return nil
}
