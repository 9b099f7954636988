package calendar

import (
	"fmt"
	"sort"

	"github.com/username/vacation-calendar/pkg/dateutil"
)

// argentinaHolidays are the national holidays hardcoded per supported year
var argentinaHolidays = map[int][]struct {
	date string
	note string
}{
	2025: {
		{"2025-01-01", "Año Nuevo"},
		{"2025-02-03", "Feriado"},
		{"2025-02-04", "Feriado"},
		{"2025-03-04", "Carnaval"},
		{"2025-03-24", "Día Nacional de la Memoria por la Verdad y la Justicia"},
		{"2025-04-18", "Viernes Santo"},
		{"2025-05-01", "Día del Trabajador"},
		{"2025-05-25", "Día de la Revolución de Mayo"},
		{"2025-06-20", "Paso a la Inmortalidad del General Manuel Belgrano"},
		{"2025-07-09", "Día de la Independencia"},
		{"2025-12-08", "Inmaculada Concepción de María"},
		{"2025-12-25", "Navidad"},
	},
}

// StaticCalendar serves the hardcoded holiday table
type StaticCalendar struct {
	years []int
}

// NewStaticCalendar restricts the table to the given years. No years means all of them.
func NewStaticCalendar(years ...int) *StaticCalendar {
	return &StaticCalendar{years: years}
}

// Name implements Source
func (sc *StaticCalendar) Name() string {
	return "static"
}

// SupportedYears lists the years present in the hardcoded table
func SupportedYears() []int {
	years := make([]int, 0, len(argentinaHolidays))
	for y := range argentinaHolidays {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Holidays implements Source
func (sc *StaticCalendar) Holidays() ([]Holiday, error) {
	years := sc.years
	if len(years) == 0 {
		years = SupportedYears()
	}

	var out []Holiday
	for _, year := range years {
		entries, ok := argentinaHolidays[year]
		if !ok {
			return out, fmt.Errorf("no hardcoded holidays for year %d", year)
		}
		for _, e := range entries {
			date, err := dateutil.ParseDate(e.date)
			if err != nil {
				return nil, fmt.Errorf("bad hardcoded holiday %q: %w", e.date, err)
			}
			out = append(out, Holiday{Date: date, Note: e.note})
		}
	}
	return out, nil
}
