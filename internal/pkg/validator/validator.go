package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/landcover-microservice/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("landcover_class", validateClass)
	_ = validate.RegisterValidation("percentile", validatePercentile)
	_ = validate.RegisterValidation("planting_policy", validatePolicy)
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}

// validateClass - trees | fields | roads
func validateClass(fl validator.FieldLevel) bool {
	return domain.IsKnownClass(fl.Field().String())
}

// validatePercentile - число в диапазоне [0, 100]
func validatePercentile(fl validator.FieldLevel) bool {
	v := fl.Field().Float()
	return v >= 0 && v <= 100
}

// validatePolicy - auto | coverage | aqi (пустое значение допустимо)
func validatePolicy(fl validator.FieldLevel) bool {
	_, ok := domain.ParsePlantingPolicy(fl.Field().String())
	return ok
}

// FieldErrors converts validation errors into a field -> tag map for AppError details.
func FieldErrors(err error) map[string]interface{} {
	out := make(map[string]interface{})
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["error"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
