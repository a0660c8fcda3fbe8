package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var tagCharsPattern = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)

// RegisterValidators installs the custom binding rules used by the post
// payloads. Called once from main before the router is built.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("tagchars", func(fl validator.FieldLevel) bool {
		return tagCharsPattern.MatchString(fl.Field().String())
	})
}
