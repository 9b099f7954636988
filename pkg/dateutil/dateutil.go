package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO 8601 calendar date layout used for storage and keys
const DateLayout = "2006-01-02"

var spanishMonths = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// WeekdayHeaders are the short Spanish weekday names, Monday first
var WeekdayHeaders = [7]string{"Lun", "Mar", "Mié", "Jue", "Vie", "Sáb", "Dom"}

// Date returns the naive calendar date (midnight UTC)
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Normalize drops the clock and location, keeping the calendar date as seen in t's location
func Normalize(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// StartOfWeek returns the Monday of the week for the given date
func StartOfWeek(date time.Time) time.Time {
	return StartOfDay(date.AddDate(0, 0, -MondayOffset(date.Weekday())))
}

// MondayOffset returns the column of a weekday in a Monday-first week (Monday=0, Sunday=6)
func MondayOffset(weekday time.Weekday) int {
	if weekday == time.Sunday {
		return 6
	}
	return int(weekday) - 1
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// AddDays shifts a naive date by n days
func AddDays(date time.Time, n int) time.Time {
	return Normalize(date).AddDate(0, 0, n)
}

// DaysInclusive returns the number of calendar days in [start, end].
// Returns 0 when end is before start.
func DaysInclusive(start, end time.Time) int {
	s, e := Normalize(start), Normalize(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// DaysInMonth returns the number of days of the month
func DaysInMonth(year int, month time.Month) int {
	return Date(year, month+1, 0).Day()
}

// Key formats a date as YYYY-MM-DD, the lookup key used by holiday sets and indexes
func Key(date time.Time) string {
	return date.Format(DateLayout)
}

// ParseDate parses a date string in the formats accepted by the dashboard
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	formats := []string{
		DateLayout,
		"02/01/2006",
		"02.01.2006",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02 15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return Normalize(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", dateStr)
}

// MonthName returns the Spanish month name
func MonthName(month time.Month) string {
	if month < time.January || month > time.December {
		return ""
	}
	return spanishMonths[month-1]
}

// Today returns today's date (start of day)
func Today() time.Time {
	return Normalize(time.Now())
}
