package vacation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/username/vacation-calendar/internal/booking"
	"github.com/username/vacation-calendar/pkg/dateutil"
)

var (
	// ErrNotFound is returned when no booking has the requested ID
	ErrNotFound = errors.New("booking not found")
	// ErrInvalidRequest is returned when a request is malformed before any booking rule applies
	ErrInvalidRequest = errors.New("invalid request")
	// ErrStoreUnavailable is returned for mutations while the store has never been read successfully
	ErrStoreUnavailable = errors.New("bookings store has not been read; changes are disabled")
)

// RegisterRequest is a new booking as submitted by the form, the API or the CLI.
// Either End or Duration must be set. An empty Employee is not a request error:
// it is rejected by the booking rules with the usual message.
type RegisterRequest struct {
	Employee string `json:"employee" form:"employee" validate:"max=80"`
	Sector   string `json:"sector" form:"sector" validate:"required"`
	Start    string `json:"start" form:"start" validate:"required"`
	End      string `json:"end" form:"end" validate:"required_without=Duration"`
	Duration int    `json:"duration" form:"duration" validate:"omitempty,min=1,max=366"`
	Color    string `json:"color" form:"color" validate:"omitempty,hexcolor"`
	Note     string `json:"note" form:"note" validate:"max=200"`
}

// UpdateRequest changes the range of an existing booking. Empty optional fields
// keep the stored value.
type UpdateRequest struct {
	Employee string  `json:"employee" form:"employee" validate:"max=80"`
	Sector   string  `json:"sector" form:"sector"`
	Start    string  `json:"start" form:"start" validate:"required"`
	End      string  `json:"end" form:"end" validate:"required_without=Duration"`
	Duration int     `json:"duration" form:"duration" validate:"omitempty,min=1,max=366"`
	Color    string  `json:"color" form:"color" validate:"omitempty,hexcolor"`
	Note     *string `json:"note" form:"note" validate:"omitempty,max=200"`
}

// dateRange resolves start plus either an explicit end or a duration in days.
// An explicit end wins over a duration.
func dateRange(startStr, endStr string, duration int, allowed []int) (time.Time, time.Time, error) {
	start, err := dateutil.ParseDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start: %v", ErrInvalidRequest, err)
	}

	if strings.TrimSpace(endStr) != "" {
		end, err := dateutil.ParseDate(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end: %v", ErrInvalidRequest, err)
		}
		return start, end, nil
	}

	if len(allowed) > 0 && !containsInt(allowed, duration) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: duration %d not in %v", ErrInvalidRequest, duration, allowed)
	}
	return start, dateutil.AddDays(start, duration-1), nil
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// apply merges the update onto an existing booking
func (r UpdateRequest) apply(b booking.Booking, start, end time.Time) booking.Booking {
	if name := strings.TrimSpace(r.Employee); name != "" {
		b.Employee = name
	}
	if r.Sector != "" {
		b.Sector = booking.NormalizeSector(r.Sector)
	}
	if r.Note != nil {
		b.Note = strings.TrimSpace(*r.Note)
	}
	b.Start = start
	b.End = end
	return b
}
