package booking

import (
	"fmt"
	"strings"
)

// Field identifies one of the four booking columns independent of where a
// schema places it.
type Field int

const (
	FieldDate Field = iota
	FieldName
	FieldTime
	FieldPayment
)

// Schema is the declared column layout of a backing store. A store keeps
// whichever layout created it, so the schema is configuration, not something
// inferred per request.
type Schema struct {
	Name    string
	Columns []string
	Fields  []Field
}

// Canonical is the default layout: Appt_Date | Patient_Name | Appt_Time | Payment.
func Canonical() Schema {
	return Schema{
		Name:    "canonical",
		Columns: []string{"Appt_Date", "Patient_Name", "Appt_Time", "Payment"},
		Fields:  []Field{FieldDate, FieldName, FieldTime, FieldPayment},
	}
}

// Legacy is the older layout with the patient name first and renamed headers.
func Legacy() Schema {
	return Schema{
		Name:    "legacy",
		Columns: []string{"Patient Name", "Appointment Date", "Appointment Time (manual)", "Payment"},
		Fields:  []Field{FieldName, FieldDate, FieldTime, FieldPayment},
	}
}

// SchemaByName resolves a configured schema name.
func SchemaByName(name string) (Schema, error) {
	switch name {
	case "", "canonical":
		return Canonical(), nil
	case "legacy":
		return Legacy(), nil
	default:
		return Schema{}, fmt.Errorf("booking: unknown store schema %q", name)
	}
}

// Header returns the header row for a new, empty store.
func (s Schema) Header() []string {
	out := make([]string, len(s.Columns))
	copy(out, s.Columns)
	return out
}

// Encode lays out a booking as a store row in schema order.
func (s Schema) Encode(b Booking) []string {
	row := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		row[i] = fieldValue(b, f)
	}
	return row
}

// Decode reads a row positionally. Short rows are padded with empty strings,
// extra cells are dropped.
func (s Schema) Decode(row []string) Booking {
	get := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	var name, date, tm, payment string
	for i, f := range s.Fields {
		switch f {
		case FieldDate:
			date = get(i)
		case FieldName:
			name = get(i)
		case FieldTime:
			tm = get(i)
		case FieldPayment:
			payment = get(i)
		}
	}
	return New(name, date, tm, payment)
}

// DecodeWithHeader recovers rows from a store whose header does not match
// this schema: known columns are matched by name (tolerating the renamed
// variants), everything unrecognized is ignored, and missing fields default
// to empty strings. The store itself is never rewritten.
func (s Schema) DecodeWithHeader(header, row []string) Booking {
	var name, date, tm, payment string
	for i, col := range header {
		if i >= len(row) {
			break
		}
		switch fieldForColumn(col) {
		case FieldDate:
			date = row[i]
		case FieldName:
			name = row[i]
		case FieldTime:
			tm = row[i]
		case FieldPayment:
			payment = row[i]
		}
	}
	return New(name, date, tm, payment)
}

// Matches reports whether a store header is exactly this schema's layout.
func (s Schema) Matches(header []string) bool {
	if len(header) != len(s.Columns) {
		return false
	}
	for i, col := range s.Columns {
		if header[i] != col {
			return false
		}
	}
	return true
}

func fieldValue(b Booking, f Field) string {
	switch f {
	case FieldDate:
		return b.ApptDate
	case FieldName:
		return b.PatientName
	case FieldTime:
		return b.ApptTime
	default:
		return b.Payment
	}
}

// fieldForColumn maps a header cell to a field, tolerating the column-name
// drift between store variants. Returns -1 for unknown columns.
func fieldForColumn(col string) Field {
	switch normalizeColumn(col) {
	case "apptdate", "appointmentdate", "date":
		return FieldDate
	case "patientname", "name":
		return FieldName
	case "appttime", "appointmenttime", "appointmenttimemanual", "time":
		return FieldTime
	case "payment":
		return FieldPayment
	default:
		return Field(-1)
	}
}

func normalizeColumn(col string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(col) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
