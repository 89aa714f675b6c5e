package validator

import (
	"errors"

	"ctchen222/tictactoe/internal/game"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterCustom(validate); err != nil {
		panic(err)
	}
}

func GetValidator() *validator.Validate {
	return validate
}

// RegisterCustom installs the game tags on v. The HTTP layer calls it for gin's engine.
func RegisterCustom(v *validator.Validate) error {
	return v.RegisterValidation("mark", validateMark)
}

// validateMark accepts an empty cell, "X" or "O" in either case.
func validateMark(fl validator.FieldLevel) bool {
	_, err := game.ParseMark(fl.Field().String())
	return err == nil
}

// RegisterGin installs the game tags on the validator behind gin's binding tags.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator is not go-playground/validator")
	}
	return RegisterCustom(v)
}
