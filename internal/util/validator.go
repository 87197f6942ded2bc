package util

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gopkg.in/guregu/null.v3"

	"zmbs.dev/eggseed/internal/constant"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterValidation("slug", slug)
	validate.RegisterValidation("gameshortname", gameShortName)
	validate.RegisterCustomTypeFunc(nullIntValuer, null.Int{})
	validate.RegisterCustomTypeFunc(nullStringValuer, null.String{})

	// report violations with the authoring (JSON) field names
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

func slug(fl validator.FieldLevel) bool {
	return slugRegex.MatchString(fl.Field().String())
}

func gameShortName(fl validator.FieldLevel) bool {
	return lo.Contains(constant.GameShortNames, fl.Field().String())
}

func nullIntValuer(field reflect.Value) interface{} {
	if valuer, ok := field.Interface().(null.Int); ok {
		return valuer.Int64
	}

	return nil
}

func nullStringValuer(field reflect.Value) interface{} {
	if valuer, ok := field.Interface().(null.String); ok {
		return valuer.String
	}

	return nil
}

// NewTranslator returns an English translator with the default messages and
// the custom rules above registered on validate.
func NewTranslator(validate *validator.Validate) ut.Translator {
	enLocale := en.New()
	trans, _ := ut.New(enLocale, enLocale).GetTranslator("en")

	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		log.Warn().Err(err).Str("locale", "en").Msg("could not register translation")
	}

	custom := map[string]string{
		"slug":          "{0} must be a lowercase kebab-case slug",
		"gameshortname": "{0} must be a known game short name",
	}
	for tag, text := range custom {
		tag, text := tag, text
		err := validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		})
		if err != nil {
			log.Warn().Err(err).Str("tag", tag).Msg("could not register translation for custom rule")
		}
	}

	return trans
}
