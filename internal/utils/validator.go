package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var hexColorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{3}|[A-Fa-f0-9]{6})$`)

func InitValidator() {
	Validate = validator.New()
}

// IsHexColor reports whether s is a #RGB or #RRGGBB color code.
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}
