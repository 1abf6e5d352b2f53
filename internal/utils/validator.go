package utils

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func InitValidator() {
	if Validate == nil {
		Validate = validator.New()
	}
}

// Now is the single clock behind every persisted timestamp, gorm's NowFunc included.
func Now() time.Time {
	return time.Now().UTC()
}
