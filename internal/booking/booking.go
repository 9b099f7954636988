package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/username/vacation-calendar/pkg/dateutil"
)

// DefaultSectors is the closed list of department tags used when none is configured
var DefaultSectors = []string{
	"LABORATORIO",
	"PRODUCCION",
	"COMERCIAL",
	"FACTURACION",
	"COMPRAS",
	"CONTABLE",
	"SOCIOS",
}

// Booking is one employee's vacation range in one sector.
// Start and End are naive dates, both inclusive.
type Booking struct {
	ID       string    `json:"id"`
	Employee string    `json:"employee"`
	Sector   string    `json:"sector"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Color    string    `json:"color"`
	Note     string    `json:"note,omitempty"`
}

// NewID returns a fresh booking identifier
func NewID() string {
	return uuid.NewString()
}

// Days returns the inclusive length of the booking in days
func (b Booking) Days() int {
	return dateutil.DaysInclusive(b.Start, b.End)
}

// Label is the human row label used by delete selectors ("Juan (2025-06-02)")
func (b Booking) Label() string {
	return b.Employee + " (" + dateutil.Key(b.Start) + ")"
}

// SameSector reports whether two sector tags match, ignoring case
func SameSector(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// NormalizeSector trims and upper-cases a sector tag
func NormalizeSector(sector string) string {
	return strings.ToUpper(strings.TrimSpace(sector))
}

// Overlaps is the closed-interval overlap test. It is symmetric.
func Overlaps(a, b Booking) bool {
	return !a.Start.After(b.End) && !a.End.Before(b.Start)
}

// Find returns the index of the booking with the given ID, or -1
func Find(bookings []Booking, id string) int {
	for i, b := range bookings {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// ColorOf returns the color last used by an employee, or "" if unknown
func ColorOf(bookings []Booking, employee string) string {
	employee = strings.TrimSpace(employee)
	for i := len(bookings) - 1; i >= 0; i-- {
		if strings.EqualFold(strings.TrimSpace(bookings[i].Employee), employee) {
			return bookings[i].Color
		}
	}
	return ""
}
