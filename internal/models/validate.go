package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(notificationRules, Notification{})
	v.RegisterStructValidation(availabilityRules, AvailabilityWindow{})
	v.RegisterStructValidation(therapistAURules, TherapistAU{})
	return v
}

// Validate runs all field and struct-level rules against a record.
// Returns validator.ValidationErrors on failure.
func Validate(v interface{}) error {
	return validate.Struct(v)
}

// notificationRules: read_at is set if and only if is_read is true.
func notificationRules(sl validator.StructLevel) {
	n := sl.Current().Interface().(Notification)
	if n.IsRead && n.ReadAt == nil {
		sl.ReportError(n.ReadAt, "ReadAt", "read_at", "read_state", "")
	}
	if !n.IsRead && n.ReadAt != nil {
		sl.ReportError(n.ReadAt, "ReadAt", "read_at", "read_state", "")
	}
}

// availabilityRules: a window must start before it ends. Format errors are
// already reported by the datetime tag, so skip unparseable values here.
func availabilityRules(sl validator.StructLevel) {
	w := sl.Current().Interface().(AvailabilityWindow)
	start, err1 := time.Parse("15:04", w.StartTime)
	end, err2 := time.Parse("15:04", w.EndTime)
	if err1 != nil || err2 != nil {
		return
	}
	if !start.Before(end) {
		sl.ReportError(w.EndTime, "EndTime", "end_time", "window_order", "")
	}
}

// therapistAURules: cross-field invariants on the AU profile.
func therapistAURules(sl validator.StructLevel) {
	t := sl.Current().Interface().(TherapistAU)

	// Pause trail is all-or-none and tied to the paused status.
	if t.Status == StatusPaused {
		if t.PausedAt == nil {
			sl.ReportError(t.PausedAt, "PausedAt", "paused_at", "pause_trail", "")
		}
		if t.PausedBy == nil {
			sl.ReportError(t.PausedBy, "PausedBy", "paused_by", "pause_trail", "")
		}
		if t.PauseReason == "" {
			sl.ReportError(t.PauseReason, "PauseReason", "pause_reason", "pause_trail", "")
		}
	} else if t.PausedAt != nil || t.PausedBy != nil || t.PauseReason != "" {
		sl.ReportError(t.PausedAt, "PausedAt", "paused_at", "pause_trail", "")
	}

	// Only the clinician credential may supervise assistants.
	if t.CanSupervise && t.CredentialType == CredentialAssistant {
		sl.ReportError(t.CanSupervise, "CanSupervise", "can_supervise", "supervision", "")
	}
}

// FormatValidationErrors flattens a validator error into a field → message map
// suitable for a 400 response body.
func FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["_"] = err.Error()
		return errors
	}

	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			errors[field] = field + " is required"
		case "oneof":
			errors[field] = field + " must be one of: " + e.Param()
		case "max":
			errors[field] = field + " must be at most " + e.Param() + " characters"
		case "len":
			errors[field] = field + " must be exactly " + e.Param() + " characters"
		case "numeric":
			errors[field] = field + " must be numeric"
		case "gte":
			errors[field] = field + " must be greater than or equal to " + e.Param()
		case "lte":
			errors[field] = field + " must be less than or equal to " + e.Param()
		case "datetime":
			errors[field] = field + " must be a time in HH:MM format"
		case "read_state":
			errors[field] = "read_at must be set exactly when is_read is true"
		case "window_order":
			errors[field] = "start_time must be before end_time"
		case "pause_trail":
			errors[field] = "paused_at, paused_by and pause_reason must be set together with the paused status"
		case "supervision":
			errors[field] = "only the clinician credential can supervise"
		default:
			errors[field] = field + " is invalid"
		}
	}

	return errors
}
