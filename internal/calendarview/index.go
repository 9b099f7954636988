package calendarview

import (
	"time"

	"github.com/username/vacation-calendar/internal/booking"
	"github.com/username/vacation-calendar/pkg/dateutil"
)

// Entry is one booking active on a given day
type Entry struct {
	BookingID string `json:"booking_id"`
	Employee  string `json:"employee"`
	Color     string `json:"color"`
	Sector    string `json:"sector"`
}

// DayIndex maps a calendar date (YYYY-MM-DD) to the bookings active on it,
// in booking insertion order
type DayIndex map[string][]Entry

// BuildDayIndex expands every booking into its days. It is rebuilt from
// scratch on each render and never patched.
func BuildDayIndex(bookings []booking.Booking) DayIndex {
	index := make(DayIndex)
	for _, b := range bookings {
		entry := Entry{
			BookingID: b.ID,
			Employee:  b.Employee,
			Color:     b.Color,
			Sector:    b.Sector,
		}

		end := dateutil.Normalize(b.End)
		for day := dateutil.Normalize(b.Start); !day.After(end); day = day.AddDate(0, 0, 1) {
			key := dateutil.Key(day)
			index[key] = append(index[key], entry)
		}
	}
	return index
}

// On returns the entries for a date
func (idx DayIndex) On(date time.Time) []Entry {
	return idx[dateutil.Key(date)]
}
