package service

import (
	"context"

	"github.com/pkg/errors"

	"zmbs.dev/eggseed/internal/app/appconfig"
	"zmbs.dev/eggseed/internal/catalog"
	"zmbs.dev/eggseed/internal/util/eggverifs"
)

type Validation struct {
	Verifiers *eggverifs.EggVerifiers
	Config    *appconfig.Config
}

func NewValidation(verifiers *eggverifs.EggVerifiers, conf *appconfig.Config) *Validation {
	return &Validation{
		Verifiers: verifiers,
		Config:    conf,
	}
}

// Open reads the catalogue from source, or from the configured dataset source
// when source is empty.
func (s *Validation) Open(source string) (*catalog.Catalog, error) {
	if source == "" {
		source = s.Config.DatasetSource.String()
	}
	c, err := catalog.Open(source)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open catalogue")
	}
	return c, nil
}

func (s *Validation) Validate(ctx context.Context, c *catalog.Catalog) *eggverifs.Report {
	return s.Verifiers.Verify(ctx, c)
}
