package rest

import "github.com/go-playground/validator/v10"

// Validator adapts go-playground/validator to echo's Validator hook.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}
