package validation

import (
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/EcoQuest_Go/internal/domain"
)

var (
	structValidator     *validator.Validate
	structValidatorOnce sync.Once
)

// Struct validates s using its `validate` tags. Besides the built-in tags it
// understands "material", which accepts only normalized material keys.
func Struct(s interface{}) error {
	structValidatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("material", validateMaterial)
		structValidator = v
	})
	return structValidator.Struct(s)
}

func validateMaterial(fl validator.FieldLevel) bool {
	return domain.IsMaterial(fl.Field().String())
}
