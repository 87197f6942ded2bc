package eggverifs

import (
	"context"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"zmbs.dev/eggseed/internal/catalog"
	"zmbs.dev/eggseed/internal/pkg/seederr"
	"zmbs.dev/eggseed/internal/util"
)

type SchemaVerifier struct {
	validate *validator.Validate
	trans    ut.Translator
}

// ensure SchemaVerifier conforms to Verifier
var _ Verifier = (*SchemaVerifier)(nil)

func NewSchemaVerifier() *SchemaVerifier {
	validate := util.NewValidator()
	return &SchemaVerifier{
		validate: validate,
		trans:    util.NewTranslator(validate),
	}
}

func (s *SchemaVerifier) Name() string {
	return "schema"
}

func (s *SchemaVerifier) Verify(ctx context.Context, entries []*catalog.Entry) []*Violation {
	var violations []*Violation

	for _, entry := range entries {
		if entry.Egg == nil {
			cause := entry.Err
			if cause == nil {
				cause = errors.New("record was not decoded")
			}
			violations = append(violations, newViolation(entry, "", seederr.ErrSchema.Msg("cannot decode record: %s", cause)))
			continue
		}

		err := s.validate.StructCtx(ctx, entry.Egg)
		if err == nil {
			continue
		}

		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			violations = append(violations, newViolation(entry, "", seederr.ErrSchema.Msg("%s", err)))
			continue
		}

		for _, fe := range ve {
			violations = append(violations, newViolation(entry, fieldPath(fe), seederr.ErrSchema.Msg("%s", fe.Translate(s.trans))))
		}
	}

	return violations
}

// fieldPath drops the leading struct name, e.g. "EasterEgg.steps[0].label" -> "steps[0].label".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
