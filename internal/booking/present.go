package booking

import (
	"sort"
	"time"
)

// DisplayRow is one table row in a day group, re-indexed from 1 for display.
type DisplayRow struct {
	Index       int    `json:"index"`
	PatientName string `json:"patient_name"`
	ApptTime    string `json:"appointment_time"`
	Payment     string `json:"payment"`
}

// DayGroup is all bookings of one calendar day in display order.
type DayGroup struct {
	Day  time.Time
	Rows []DisplayRow
}

// Partition splits bookings into upcoming and archived relative to the
// cutoff date. With inclusive true the cutoff day itself counts as upcoming.
// Rows without a parsed date land in neither partition.
func Partition(all []Booking, cutoff time.Time, inclusive bool) (upcoming, archived []Booking) {
	c := dateOnly(cutoff)
	for _, b := range all {
		if !b.DateValid {
			continue
		}
		d := dateOnly(b.Date)
		isUpcoming := d.After(c)
		if inclusive && d.Equal(c) {
			isUpcoming = true
		}
		if isUpcoming {
			upcoming = append(upcoming, b)
		} else {
			archived = append(archived, b)
		}
	}
	return upcoming, archived
}

// GroupByDay groups a partition by calendar date. Day groups are ordered by
// date (ascending or descending); rows keep the store's insertion order
// unless sortByTime asks for the time string as a secondary key.
func GroupByDay(subset []Booking, ascending, sortByTime bool) []DayGroup {
	byDay := make(map[time.Time][]Booking)
	var days []time.Time
	for _, b := range subset {
		d := dateOnly(b.Date)
		if _, seen := byDay[d]; !seen {
			days = append(days, d)
		}
		byDay[d] = append(byDay[d], b)
	}

	sort.Slice(days, func(i, j int) bool {
		if ascending {
			return days[i].Before(days[j])
		}
		return days[i].After(days[j])
	})

	groups := make([]DayGroup, 0, len(days))
	for _, day := range days {
		rows := byDay[day]
		if sortByTime {
			sort.SliceStable(rows, func(i, j int) bool {
				return rows[i].ApptTime < rows[j].ApptTime
			})
		}
		g := DayGroup{Day: day, Rows: make([]DisplayRow, 0, len(rows))}
		for i, b := range rows {
			g.Rows = append(g.Rows, DisplayRow{
				Index:       i + 1,
				PatientName: b.PatientName,
				ApptTime:    b.ApptTime,
				Payment:     b.Payment,
			})
		}
		groups = append(groups, g)
	}
	return groups
}
