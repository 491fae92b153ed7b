package booking

import "strings"

// Policy carries the per-clinic validation switches. The conflict key is
// (date, time) by default; MatchPatientName additionally requires a
// case-insensitive name match, which lets two different patients share the
// identical slot.
type Policy struct {
	RequirePayment   bool
	MatchPatientName bool
}

// Validate decides whether a candidate booking may be appended given the
// current store contents. It returns one of the validation sentinels or nil.
// There is deliberately no time-format check, past-date check or length
// limit.
func Validate(candidate Booking, existing []Booking, p Policy) error {
	if strings.TrimSpace(candidate.PatientName) == "" {
		return ErrMissingPatientName
	}
	if strings.TrimSpace(candidate.ApptTime) == "" {
		return ErrMissingApptTime
	}
	if p.RequirePayment && strings.TrimSpace(candidate.Payment) == "" {
		return ErrMissingPayment
	}
	if !candidate.DateValid {
		return ErrInvalidDate
	}

	for _, b := range existing {
		if !b.DateValid || !SameDay(b.Date, candidate.Date) {
			continue
		}
		if b.ApptTime != candidate.ApptTime {
			continue
		}
		if p.MatchPatientName && !strings.EqualFold(b.PatientName, candidate.PatientName) {
			continue
		}
		return ErrSlotConflict
	}
	return nil
}
