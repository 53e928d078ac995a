package util

import (
	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func InitValidator() {
	Validate = validator.New()
}

func ValidateStruct(s any) error {
	if Validate == nil {
		InitValidator()
	}
	return Validate.Struct(s)
}
