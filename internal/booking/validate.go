package booking

import (
	"strings"
	"time"

	"github.com/username/vacation-calendar/pkg/dateutil"
)

// Holidays answers exact-date membership
type Holidays interface {
	IsHoliday(date time.Time) bool
}

// Policy holds the configurable parts of the admission rules
type Policy struct {
	// WeekendShift moves a Saturday/Sunday start to the following Monday
	WeekendShift bool
	// StrictAdjacency also rejects ranges whose first or last day has a holiday
	// right next to it, on either side
	StrictAdjacency bool
	// Sectors is the closed sector list. Empty disables the membership check.
	Sectors []string
}

// DefaultPolicy is the strict rule set with weekend shifting enabled
func DefaultPolicy() Policy {
	return Policy{
		WeekendShift:    true,
		StrictAdjacency: true,
		Sectors:         DefaultSectors,
	}
}

// Decision is the outcome of an accepted candidate
type Decision struct {
	Start time.Time
	End   time.Time
	// Shifted is set when the weekend rule moved the start date
	Shifted        bool
	RequestedStart time.Time
}

// Validate decides whether candidate is admissible against the existing bookings
// and the holiday set. It never mutates its inputs. Existing bookings sharing the
// candidate's ID are ignored so an edited record does not conflict with itself.
func Validate(candidate Booking, existing []Booking, holidays Holidays, policy Policy) (Decision, error) {
	if strings.TrimSpace(candidate.Employee) == "" {
		return Decision{}, &RejectionError{Reason: ReasonEmptyName}
	}

	start := dateutil.Normalize(candidate.Start)
	end := dateutil.Normalize(candidate.End)
	if end.Before(start) {
		return Decision{}, &RejectionError{Reason: ReasonInvalidRange}
	}

	if len(policy.Sectors) > 0 && !knownSector(policy.Sectors, candidate.Sector) {
		return Decision{}, &RejectionError{Reason: ReasonUnknownSector, Sector: candidate.Sector}
	}

	decision := Decision{Start: start, End: end, RequestedStart: start}
	if policy.WeekendShift {
		decision.Start, decision.End, decision.Shifted = ShiftWeekendStart(start, end)
	}

	if err := checkHolidays(decision.Start, decision.End, holidays, policy.StrictAdjacency); err != nil {
		return Decision{}, err
	}

	probe := Booking{Start: decision.Start, End: decision.End}
	for _, e := range existing {
		if candidate.ID != "" && e.ID == candidate.ID {
			continue
		}
		if !SameSector(e.Sector, candidate.Sector) {
			continue
		}
		if Overlaps(probe, e) {
			return Decision{}, &RejectionError{
				Reason:   ReasonSectorOverlap,
				Employee: e.Employee,
				Sector:   e.Sector,
			}
		}
	}

	return decision, nil
}

// ShiftWeekendStart moves a weekend start to Monday keeping the requested duration
func ShiftWeekendStart(start, end time.Time) (time.Time, time.Time, bool) {
	var offset int
	switch start.Weekday() {
	case time.Saturday:
		offset = 2
	case time.Sunday:
		offset = 1
	default:
		return start, end, false
	}

	duration := dateutil.DaysInclusive(start, end)
	newStart := dateutil.AddDays(start, offset)
	return newStart, dateutil.AddDays(newStart, duration-1), true
}

type boundaryCheck struct {
	date     time.Time
	boundary Boundary
}

func checkHolidays(start, end time.Time, holidays Holidays, strict bool) error {
	if holidays == nil {
		return nil
	}

	checks := []boundaryCheck{
		{start, BoundaryStart},
		{end, BoundaryEnd},
	}
	if strict {
		checks = append(checks,
			boundaryCheck{dateutil.AddDays(start, -1), BoundaryBeforeStart},
			boundaryCheck{dateutil.AddDays(start, 1), BoundaryAfterStart},
			boundaryCheck{dateutil.AddDays(end, 1), BoundaryAfterEnd},
		)
	}

	for _, c := range checks {
		if holidays.IsHoliday(c.date) {
			return &RejectionError{
				Reason:   ReasonHolidayBoundary,
				Date:     c.date,
				Boundary: c.boundary,
			}
		}
	}
	return nil
}

func knownSector(sectors []string, sector string) bool {
	for _, s := range sectors {
		if SameSector(s, sector) {
			return true
		}
	}
	return false
}
