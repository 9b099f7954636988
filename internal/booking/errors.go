package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/username/vacation-calendar/pkg/dateutil"
)

// Reason identifies why a candidate booking was rejected
type Reason string

const (
	ReasonEmptyName       Reason = "EMPTY_NAME"
	ReasonInvalidRange    Reason = "INVALID_RANGE"
	ReasonUnknownSector   Reason = "UNKNOWN_SECTOR"
	ReasonHolidayBoundary Reason = "HOLIDAY_BOUNDARY"
	ReasonSectorOverlap   Reason = "SECTOR_OVERLAP"
)

// Boundary names which edge of the range touched a holiday
type Boundary string

const (
	BoundaryStart       Boundary = "start"
	BoundaryEnd         Boundary = "end"
	BoundaryBeforeStart Boundary = "before_start"
	BoundaryAfterStart  Boundary = "after_start"
	BoundaryAfterEnd    Boundary = "after_end"
)

// Sentinels for errors.Is
var (
	ErrEmptyName       = errors.New("empty employee name")
	ErrInvalidRange    = errors.New("end date before start date")
	ErrUnknownSector   = errors.New("unknown sector")
	ErrHolidayBoundary = errors.New("range starts or ends on or next to a holiday")
	ErrSectorOverlap   = errors.New("range overlaps a booking in the same sector")
)

var sentinels = map[Reason]error{
	ReasonEmptyName:       ErrEmptyName,
	ReasonInvalidRange:    ErrInvalidRange,
	ReasonUnknownSector:   ErrUnknownSector,
	ReasonHolidayBoundary: ErrHolidayBoundary,
	ReasonSectorOverlap:   ErrSectorOverlap,
}

// RejectionError is returned by Validate when a candidate is not admissible
type RejectionError struct {
	Reason Reason
	// Employee is the conflicting employee for ReasonSectorOverlap
	Employee string
	// Date is the holiday for ReasonHolidayBoundary
	Date     time.Time
	Boundary Boundary
	Sector   string
}

// Error implements the error interface with the dashboard's user-facing wording
func (e *RejectionError) Error() string {
	switch e.Reason {
	case ReasonEmptyName:
		return "Ingresar nombre."
	case ReasonInvalidRange:
		return "No permitido: la fecha de fin es anterior a la de inicio"
	case ReasonUnknownSector:
		return fmt.Sprintf("No permitido: sector desconocido %q", e.Sector)
	case ReasonHolidayBoundary:
		return "No permitido: " + boundaryMessage(e.Boundary, e.Date)
	case ReasonSectorOverlap:
		return fmt.Sprintf("Se superpone con %s.", e.Employee)
	}
	return string(e.Reason)
}

// Unwrap maps the reason to its sentinel
func (e *RejectionError) Unwrap() error {
	return sentinels[e.Reason]
}

func boundaryMessage(b Boundary, date time.Time) string {
	day := dateutil.Key(date)
	switch b {
	case BoundaryStart:
		return "el día de inicio es feriado (" + day + ")"
	case BoundaryEnd:
		return "el día de fin es feriado (" + day + ")"
	case BoundaryBeforeStart:
		return "el día anterior al inicio es feriado (" + day + ")"
	case BoundaryAfterStart:
		return "el día siguiente al inicio es feriado (" + day + ")"
	case BoundaryAfterEnd:
		return "el día posterior al fin es feriado (" + day + ")"
	}
	return "feriado en " + day
}

// AsRejection extracts a RejectionError from err
func AsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
