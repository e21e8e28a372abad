// Package validation wraps go-playground/validator with English messages that name fields after their tags.
package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/myrjola/holocron/internal/errors"
)

// ErrInvalid is wrapped by every validation failure returned from Struct.
var ErrInvalid = errors.NewSentinel("validation failed")

type service struct {
	validate   *validator.Validate
	translator ut.Translator
}

var (
	once sync.Once
	svc  *service
)

func get() *service {
	once.Do(func() {
		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(tagName)
		_ = enTranslations.RegisterDefaultTranslations(v, trans)
		registerShort(v, trans, "min", "{0} must be at least {1}")
		registerShort(v, trans, "max", "{0} must be at most {1}")

		svc = &service{validate: v, translator: trans}
	})
	return svc
}

// tagName prefers the query, yaml and json tags in that order so that messages use the external names.
func tagName(fld reflect.StructField) string {
	for _, key := range []string{"query", "yaml", "json"} {
		tag := fld.Tag.Get(key)
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		if tag == "-" {
			return ""
		}
		if tag != "" {
			return tag
		}
	}
	return fld.Name
}

func registerShort(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// Struct validates s against its validate tags. Failures wrap ErrInvalid and carry translated messages.
func Struct(s any) error {
	err := get().validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate struct")
	}
	return errors.Wrap(ErrInvalid, strings.Join(Messages(err), "; "))
}

// Messages returns the translated messages of a validator error.
func Messages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Translate(get().translator))
	}
	return out
}
