package booking

import "errors"

var (
	// ErrMissingPatientName is returned when the patient name is empty
	ErrMissingPatientName = errors.New("patient name is required")

	// ErrMissingApptTime is returned when the appointment time is empty
	ErrMissingApptTime = errors.New("appointment time is required")

	// ErrMissingPayment is returned when payment is required but empty
	ErrMissingPayment = errors.New("payment is required")

	// ErrSlotConflict is returned when an appointment already exists at the
	// candidate's date/time under the active conflict-key policy
	ErrSlotConflict = errors.New("an appointment already exists at this date/time")

	// ErrInvalidDate is returned when a candidate date is not yyyy-mm-dd
	ErrInvalidDate = errors.New("appointment date must be a yyyy-mm-dd calendar date")
)

// IsValidation reports whether err is a booking validation failure, i.e.
// recoverable and reportable to the user with no state change.
func IsValidation(err error) bool {
	return Reason(err) != ""
}

// Reason maps a validation error to its wire reason code. Returns "" for
// non-validation errors.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrMissingPatientName),
		errors.Is(err, ErrMissingApptTime),
		errors.Is(err, ErrMissingPayment):
		return "missing_field"
	case errors.Is(err, ErrSlotConflict):
		return "slot_conflict"
	case errors.Is(err, ErrInvalidDate):
		return "invalid_date"
	default:
		return ""
	}
}
