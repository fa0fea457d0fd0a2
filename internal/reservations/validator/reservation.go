package validator

import (
	"errors"
	"fmt"
	"strings"

	apperrors "slotify/pkg/errors"
	"slotify/pkg/logger"
	"slotify/pkg/model"

	"github.com/go-playground/validator/v10"
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

// ToAppError converts the field errors into the API error shape.
func (v ValidationErrors) ToAppError() *apperrors.AppError {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return apperrors.Validation("Request validation failed", details)
}

// ReservationValidator validates the inbound reservation payloads. It
// registers the calendar-specific formats the struct tags refer to:
// date_ymd (YYYY-MM-DD) and clock_hhmm (HH:MM wall clock).
type ReservationValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewReservationValidator(log *logger.Logger) *ReservationValidator {
	v := validator.New()

	if err := v.RegisterValidation("date_ymd", validateDateYMD); err != nil {
		log.Fatal("Failed to register 'date_ymd' validator", "error", err)
	}
	if err := v.RegisterValidation("clock_hhmm", validateClockHHMM); err != nil {
		log.Fatal("Failed to register 'clock_hhmm' validator", "error", err)
	}

	return &ReservationValidator{
		validate: v,
		logger:   log,
	}
}

func validateDateYMD(fl validator.FieldLevel) bool {
	_, err := model.ParseDate(fl.Field().String())
	return err == nil
}

func validateClockHHMM(fl validator.FieldLevel) bool {
	_, err := model.ParseClock(fl.Field().String())
	return err == nil
}

func (v *ReservationValidator) ValidateHoldRequest(req *model.HoldRequest) error {
	return v.check(req)
}

func (v *ReservationValidator) ValidateHoldValidateRequest(req *model.HoldValidateRequest) error {
	if err := v.check(req); err != nil {
		return err
	}

	start, _ := model.ParseClock(req.Start)
	end, _ := model.ParseClock(req.End)
	if end <= start {
		return ValidationErrors{
			ValidationError{Field: "End", Message: "end must be after start"},
		}
	}
	return nil
}

func (v *ReservationValidator) ValidateHoldExtendRequest(req *model.HoldExtendRequest) error {
	return v.check(req)
}

func (v *ReservationValidator) ValidateBookingRequest(req *model.BookingRequest) error {
	return v.check(req)
}

func (v *ReservationValidator) ValidatePriceQuoteRequest(req *model.PriceQuoteRequest) error {
	return v.check(req)
}

func (v *ReservationValidator) check(payload any) error {
	if err := v.validate.Struct(payload); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *ReservationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		case "date_ymd":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD form", err.Field())
		case "clock_hhmm":
			message = fmt.Sprintf("%s must be a time in HH:MM form", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
