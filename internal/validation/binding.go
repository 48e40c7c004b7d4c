package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"formkit/internal/mask"
)

// Struct tags understood by RegisterTags, usable in gin binding tags
// (e.g. `binding:"required,cpf"`).
const (
	TagCPF        = "cpf"
	TagBirthDate  = "birthdate"
	TagEmailLoose = "email_loose"
)

var customTags = map[string]func(string) bool{
	TagCPF:        IsValidCPF,
	TagBirthDate:  isValidBirthDateInput,
	TagEmailLoose: IsValidEmail,
}

// isValidBirthDateInput accepts the date masked or as bare digits.
func isValidBirthDateInput(value string) bool {
	return IsValidCalendarDate(mask.BirthDate(value))
}

func RegisterTags(v *validator.Validate) error {
	for tag, check := range customTags {
		if err := v.RegisterValidation(tag, stringCheck(check)); err != nil {
			return fmt.Errorf("register %s validation: %w", tag, err)
		}
	}
	return nil
}

func stringCheck(check func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return check(fl.Field().String())
	}
}

// jsonFieldName reports fields by their JSON name so binding errors match the
// request body.
func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}

// bindingRegistrar runs the registration once and keeps its outcome, so a
// failed first attempt keeps failing.
type bindingRegistrar struct {
	once sync.Once
	err  error
}

func (r *bindingRegistrar) register(engine func() any) error {
	r.once.Do(func() {
		r.err = registerOn(engine())
	})
	return r.err
}

var ginBinding bindingRegistrar

// RegisterBinding installs the custom tags on gin's default validator and
// makes it report JSON field names.
func RegisterBinding() error {
	return ginBinding.register(binding.Validator.Engine)
}

func registerOn(engine any) error {
	v, ok := engine.(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding engine %T", engine)
	}
	v.RegisterTagNameFunc(jsonFieldName)
	return RegisterTags(v)
}
