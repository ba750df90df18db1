package validation

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var studentIDRegex = regexp.MustCompile(`^\d{8}$`)

// ValidStudentID reports whether s is an 8-digit student identifier.
func ValidStudentID(s string) bool {
	return studentIDRegex.MatchString(s)
}

// RegisterCustomRules registers the custom binding rules with gin's validator.
// Must run once during startup, before any request binding happens.
func RegisterCustomRules() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("studentid", func(fl validator.FieldLevel) bool {
			return ValidStudentID(fl.Field().String())
		})
	}
}
