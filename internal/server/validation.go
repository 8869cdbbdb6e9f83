package server

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Nardos-Amakele/TutorSite/internal/timeslot"
)

// registerValidators adds the custom "clock" rule used by availability and
// booking payloads. Clock values are zero-padded "HH:MM" strings.
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			return timeslot.ValidClock(fl.Field().String())
		})
	}
}
