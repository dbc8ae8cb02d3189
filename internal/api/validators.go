package api

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"laundry-booking-backend/internal/parse"
)

var registerOnce sync.Once

// registerValidators adds the domain binding tags to gin's validator.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// Report JSON field names in validation messages.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		v.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
			_, _, _, err := parse.Clock(fl.Field().String())
			return err == nil
		})
		v.RegisterValidation("machinetype", func(fl validator.FieldLevel) bool {
			_, err := parse.MachineType(fl.Field().String())
			return err == nil
		})
		v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			_, err := parse.Date(fl.Field().String())
			return err == nil
		})
	})
}
