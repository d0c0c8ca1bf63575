package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"lanebook/pkg/logger"
	"lanebook/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type LaneValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewLaneValidator(log *logger.Logger) *LaneValidator {
	v := validator.New()

	if err := v.RegisterValidation("calendar_date", validateCalendarDate); err != nil {
		log.Fatal("Failed to register 'calendar_date' validator", "error", err)
	}
	if err := v.RegisterValidation("time_of_day", validateTimeOfDay); err != nil {
		log.Fatal("Failed to register 'time_of_day' validator", "error", err)
	}

	log.Info("Lane validator initialized successfully")

	return &LaneValidator{
		validate: v,
		logger:   log,
	}
}

func validateCalendarDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	if _, err := model.ParseDate(s); err != nil {
		return false
	}
	return s >= "1900-01-01" && s <= "2100-12-31"
}

func validateTimeOfDay(fl validator.FieldLevel) bool {
	return model.TimeOfDay(fl.Field().Int()).Valid()
}

func (v *LaneValidator) ValidateLane(lane *model.Lane) error {
	return v.translate(v.validate.Struct(lane))
}

func (v *LaneValidator) ValidateLaneUpdate(updates *model.LaneUpdate) error {
	return v.translate(v.validate.Struct(updates))
}

func (v *LaneValidator) ValidateBlock(block *model.BlockedInterval) error {
	return v.translate(v.validate.Struct(block))
}

func (v *LaneValidator) translate(err error) error {
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return v.translateValidationErrors(validationErrs)
	}
	return err
}

func (v *LaneValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s is below the allowed minimum (%s)", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s is above the allowed maximum (%s)", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "calendar_date":
			message = fmt.Sprintf("%s must be a calendar date in YYYY-MM-DD format", err.Field())
		case "time_of_day":
			message = fmt.Sprintf("%s must be minutes since midnight within 0..1439", err.Field())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid object ID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
