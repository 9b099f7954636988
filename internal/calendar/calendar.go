package calendar

import (
	"sort"
	"time"

	"github.com/username/vacation-calendar/pkg/dateutil"
)

// Holiday is a non-working calendar date
type Holiday struct {
	Date time.Time `json:"date"`
	Note string    `json:"note,omitempty"`
}

// Source provides holidays from one origin (hardcoded table, text file, ...)
type Source interface {
	// Name identifies the source in logs
	Name() string

	// Holidays returns every holiday the source knows about
	Holidays() ([]Holiday, error)
}

// Set is an immutable holiday lookup keyed by calendar date
type Set struct {
	days map[string]Holiday
}

// NewSet builds a set from holidays. Later duplicates keep the first note.
func NewSet(holidays ...Holiday) *Set {
	s := &Set{days: make(map[string]Holiday, len(holidays))}
	for _, h := range holidays {
		h.Date = dateutil.Normalize(h.Date)
		key := dateutil.Key(h.Date)
		if _, ok := s.days[key]; ok {
			continue
		}
		s.days[key] = h
	}
	return s
}

// IsHoliday checks exact-date membership
func (s *Set) IsHoliday(date time.Time) bool {
	if s == nil {
		return false
	}
	_, ok := s.days[dateutil.Key(date)]
	return ok
}

// Get returns the holiday on date, if any
func (s *Set) Get(date time.Time) (Holiday, bool) {
	if s == nil {
		return Holiday{}, false
	}
	h, ok := s.days[dateutil.Key(date)]
	return h, ok
}

// Len returns the number of holidays in the set
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.days)
}

// InMonth returns the holidays of a month in date order
func (s *Set) InMonth(year int, month time.Month) []Holiday {
	var out []Holiday
	if s == nil {
		return out
	}
	for _, h := range s.days {
		if h.Date.Year() == year && h.Date.Month() == month {
			out = append(out, h)
		}
	}
	sortHolidays(out)
	return out
}

// InYear returns the holidays of a year in date order
func (s *Set) InYear(year int) []Holiday {
	var out []Holiday
	if s == nil {
		return out
	}
	for _, h := range s.days {
		if h.Date.Year() == year {
			out = append(out, h)
		}
	}
	sortHolidays(out)
	return out
}

// Years lists the years with at least one holiday, ascending
func (s *Set) Years() []int {
	seen := make(map[int]bool)
	var years []int
	if s == nil {
		return years
	}
	for _, h := range s.days {
		if !seen[h.Date.Year()] {
			seen[h.Date.Year()] = true
			years = append(years, h.Date.Year())
		}
	}
	sort.Ints(years)
	return years
}

func sortHolidays(hs []Holiday) {
	sort.Slice(hs, func(i, j int) bool {
		return hs[i].Date.Before(hs[j].Date)
	})
}
