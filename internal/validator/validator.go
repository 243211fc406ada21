package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/classroom-service/internal/errors"
	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator wraps struct-tag validation with the custom domain validators.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a validator instance with all custom validators registered.
func New() *Validator {
	v := validator.New()

	// Report json tag names instead of Go field names in errors.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidators(v)

	return &Validator{structValidator: v}
}

// ValidateStruct validates struct tags only.
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate runs struct validation and converts failures into the shared
// ValidationErrors type.
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		return errors.ToValidationErrors(err)
	}
	return nil
}

func registerCustomValidators(v *validator.Validate) {
	v.RegisterValidation("user_role", validateUserRole)
	v.RegisterValidation("course_status", validateCourseStatus)
	v.RegisterValidation("enrollment_status", validateEnrollmentStatus)
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch models.UserRole(fl.Field().String()) {
	case models.RoleAdmin, models.RoleTeacher, models.RoleStudent:
		return true
	}
	return false
}

func validateCourseStatus(fl validator.FieldLevel) bool {
	switch models.CourseStatus(fl.Field().String()) {
	case models.CourseScheduled, models.CourseLive, models.CourseCompleted, models.CourseCancelled:
		return true
	}
	return false
}

func validateEnrollmentStatus(fl validator.FieldLevel) bool {
	switch models.EnrollmentStatus(fl.Field().String()) {
	case models.EnrollmentPending, models.EnrollmentActive, models.EnrollmentCompleted, models.EnrollmentSuspended:
		return true
	}
	return false
}
