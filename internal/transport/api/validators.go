package api

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// catalogCode коды сервисов, стран и провайдеров в каталоге: латиница, цифры, _ и -.
var catalogCode = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// validateMaxBytes проверяет длину строки в байтах, а не в рунах, как тэг max.
func validateMaxBytes(fl validator.FieldLevel) bool {
	maxBytes, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return len(str) <= maxBytes
}

func validateCatalogCode(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	return ok && catalogCode.MatchString(str)
}

func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("validator registration: unexpected engine %T", binding.Validator.Engine())
	}
	validations := map[string]validator.Func{
		"max_bytes":    validateMaxBytes,
		"catalog_code": validateCatalogCode,
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("validator registration %s: %w", tag, err)
		}
	}
	return nil
}
