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

type HoursValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewHoursValidator(log *logger.Logger) *HoursValidator {
	v := validator.New()

	if err := v.RegisterValidation("calendar_date", validateCalendarDate); err != nil {
		log.Fatal("Failed to register 'calendar_date' validator", "error", err)
	}
	if err := v.RegisterValidation("time_of_day", validateTimeOfDay); err != nil {
		log.Fatal("Failed to register 'time_of_day' validator", "error", err)
	}
	if err := v.RegisterValidation("week_schedule", validateWeekSchedule); err != nil {
		log.Fatal("Failed to register 'week_schedule' validator", "error", err)
	}

	log.Info("Hours validator initialized successfully")

	return &HoursValidator{
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

func validateWeekSchedule(fl validator.FieldLevel) bool {
	week, ok := fl.Field().Interface().(model.WeekSchedule)
	if !ok {
		return false
	}
	for _, day := range week {
		if day.IsClosed {
			continue
		}
		if !day.Open.Valid() || !day.Close.Valid() || day.Open >= day.Close {
			return false
		}
	}
	return true
}

func (v *HoursValidator) ValidateDefaultWeek(week *model.DefaultWeek) error {
	return v.translate(v.validate.Struct(week))
}

func (v *HoursValidator) ValidateSeasonalPeriod(period *model.SeasonalPeriod) error {
	return v.translate(v.validate.Struct(period))
}

// ValidateDateOverride enforces the struct tags plus the shape rule an
// override must satisfy on write: an open override carries a usable
// replacement range.
func (v *HoursValidator) ValidateDateOverride(override *model.DateOverride) error {
	if err := v.translate(v.validate.Struct(override)); err != nil {
		return err
	}
	if !override.IsClosed && !override.HasHours() {
		return ValidationErrors{{
			Field:   "Open",
			Message: "an override that is not closed must carry open and close times with open before close",
		}}
	}
	return nil
}

func (v *HoursValidator) translate(err error) error {
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return v.translateValidationErrors(validationErrs)
	}
	return err
}

func (v *HoursValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "calendar_date":
			message = fmt.Sprintf("%s must be a calendar date in YYYY-MM-DD format", err.Field())
		case "time_of_day":
			message = fmt.Sprintf("%s must be minutes since midnight within 0..1439", err.Field())
		case "week_schedule":
			message = "every open weekday must have open before close, both within a single day"
		case "gtefield":
			message = fmt.Sprintf("%s must not be before %s", err.Field(), err.Param())
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
