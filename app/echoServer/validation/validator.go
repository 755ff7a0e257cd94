package validation

import (
	"github.com/go-playground/validator/v10"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}

// Engine exposes the underlying validate instance for controllers that
// run struct checks directly.
func (v *Validator) Engine() *validator.Validate {
	return v.v
}
