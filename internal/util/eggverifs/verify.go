package eggverifs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"zmbs.dev/eggseed/internal/catalog"
	"zmbs.dev/eggseed/internal/pkg/observability"
)

type Verifier interface {
	Name() string
	Verify(ctx context.Context, entries []*catalog.Entry) []*Violation
}

// catalogueWide is implemented by verifiers that are handed every entry of the
// catalogue, including the ones an earlier verifier already rejected.
type catalogueWide interface {
	catalogueWide()
}

type EggVerifiers []Verifier

// NewEggVerifiers orders the pipeline: records rejected by a verifier are not
// handed to the ones after it, so references only resolve to accepted records.
// The duplicate verifier is catalogue-wide and sees every record with a
// readable key.
func NewEggVerifiers(schemaVerifier *SchemaVerifier, stepOrderVerifier *StepOrderVerifier, duplicateVerifier *DuplicateVerifier, referenceVerifier *ReferenceVerifier) *EggVerifiers {
	return &EggVerifiers{
		schemaVerifier,
		stepOrderVerifier,
		duplicateVerifier,
		referenceVerifier,
	}
}

// Default builds the pipeline outside of the fx graph.
func Default() *EggVerifiers {
	return NewEggVerifiers(NewSchemaVerifier(), NewStepOrderVerifier(), NewDuplicateVerifier(), NewReferenceVerifier())
}

func (verifiers EggVerifiers) Verify(ctx context.Context, c *catalog.Catalog) *Report {
	report := newReport(c)
	entries := c.Entries

	for _, pipe := range verifiers {
		start := time.Now()

		name := pipe.Name()
		input := entries
		if _, ok := pipe.(catalogueWide); ok {
			input = c.Entries
		}
		violations := pipe.Verify(ctx, input)

		observability.VerifyDuration.
			WithLabelValues(name).
			Observe(time.Since(start).Seconds())

		for _, v := range violations {
			v.Verifier = name
		}
		report.add(violations...)

		entries = lo.Filter(entries, func(e *catalog.Entry, _ int) bool {
			return !report.Rejected(e.Index)
		})

		if l := log.Trace(); l.Enabled() {
			l.Str("verifier", name).
				Int("violations", len(violations)).
				Int("remaining", len(entries)).
				Msg("verifier finished")
		}
	}

	report.sort()

	for _, v := range report.Violations {
		observability.Violations.
			WithLabelValues(v.Err.Code, string(v.Err.Severity)).
			Inc()
	}

	log.Info().
		Str("evt.name", "eggverifs.verify").
		Str("source", c.Source).
		Int("records", report.Total).
		Int("errors", len(report.Errors())).
		Int("warnings", len(report.Warnings())).
		Int("rejected", report.RejectedCount()).
		Msg("catalogue verified")

	return report
}
