package utils

import (
	"claimdesk-service/internal/pkg/exceptions"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	onceValidate sync.Once
)

func Validator() *validator.Validate {
	onceValidate.Do(func() {
		validate = validator.New()
	})
	return validate
}

func ValidateStruct(s interface{}) error {
	if err := Validator().Struct(s); err != nil {
		return exceptions.ErrInputValidation(err)
	}
	return nil
}
