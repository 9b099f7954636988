package calendarview

import (
	"fmt"
	"time"

	"github.com/username/vacation-calendar/pkg/dateutil"
)

// Cursor is the displayed (year, month)
type Cursor struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// NewCursor builds a cursor, rolling month 0 back to December of the previous
// year and month 13 forward to January of the next year
func NewCursor(year, month int) Cursor {
	switch {
	case month < 1:
		return Cursor{Year: year - 1, Month: time.December}
	case month > 12:
		return Cursor{Year: year + 1, Month: time.January}
	}
	return Cursor{Year: year, Month: time.Month(month)}
}

// CursorAt returns the cursor of the month containing date
func CursorAt(date time.Time) Cursor {
	return Cursor{Year: date.Year(), Month: date.Month()}
}

// Next advances one month
func (c Cursor) Next() Cursor {
	return NewCursor(c.Year, int(c.Month)+1)
}

// Prev goes back one month
func (c Cursor) Prev() Cursor {
	return NewCursor(c.Year, int(c.Month)-1)
}

// First returns the first day of the month
func (c Cursor) First() time.Time {
	return dateutil.Date(c.Year, c.Month, 1)
}

// Title is the Spanish heading, e.g. "Junio 2025"
func (c Cursor) Title() string {
	return fmt.Sprintf("%s %d", dateutil.MonthName(c.Month), c.Year)
}

// String formats the cursor as YYYY-MM
func (c Cursor) String() string {
	return fmt.Sprintf("%04d-%02d", c.Year, int(c.Month))
}
