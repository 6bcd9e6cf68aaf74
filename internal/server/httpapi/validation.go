package httpapi

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type enumValue interface {
	IsValid() bool
}

var registerOnce sync.Once

// RegisterCustomValidators adds the "enum" tag, which accepts any value whose
// IsValid method reports true, and makes errors use JSON field names.
func RegisterCustomValidators(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v.RegisterValidation("enum", validateEnum)
}

func validateEnum(fl validator.FieldLevel) bool {
	e, ok := fl.Field().Interface().(enumValue)
	if !ok {
		return false
	}
	return e.IsValid()
}

func setupBinding() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := RegisterCustomValidators(v); err != nil {
				panic(err)
			}
		}
	})
}
