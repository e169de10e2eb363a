package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/station-directory/internal/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// В ошибках валидации отдаём имена полей как в json-теле запроса
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}

// ToAppError преобразует ошибки validator в VALIDATION_ERROR с именами полей
func ToAppError(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}

	details := make(map[string]interface{})
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
	}

	return apperrors.ErrValidation.WithDetails(details)
}
