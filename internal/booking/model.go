package booking

import "time"

// DateLayout is the wire format for appointment dates in the backing store.
const DateLayout = "2006-01-02"

// Booking is one appointment record. ApptDate carries the raw stored value;
// Date/DateValid hold the parsed form. Rows whose date fails to parse are
// kept (they still count for conflict checks) but are excluded from the
// upcoming/archived views.
type Booking struct {
	PatientName string `json:"patient_name"`
	ApptDate    string `json:"appointment_date"`
	ApptTime    string `json:"appointment_time"`
	Payment     string `json:"payment"`

	Date      time.Time `json:"-"`
	DateValid bool      `json:"-"`
}

// New builds a Booking from raw field values, parsing the date.
func New(patientName, apptDate, apptTime, payment string) Booking {
	b := Booking{
		PatientName: patientName,
		ApptDate:    apptDate,
		ApptTime:    apptTime,
		Payment:     payment,
	}
	b.Date, b.DateValid = ParseDate(apptDate)
	return b
}

// ParseDate parses an ISO-8601 calendar date. ok is false for anything the
// store holds that is not a real date; callers treat those rows as dateless
// rather than failing the load.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SameDay reports whether two times fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
