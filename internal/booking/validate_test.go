package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/vacation-calendar/pkg/dateutil"
)

type holidaySet map[string]bool

func (h holidaySet) IsHoliday(date time.Time) bool {
	return h[dateutil.Key(date)]
}

// Argentina 2025 holidays relevant to the cases below
var testHolidays = holidaySet{
	"2025-05-01": true,
	"2025-05-25": true,
	"2025-06-20": true,
	"2025-07-09": true,
}

func d(s string) time.Time {
	t, err := dateutil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func week(employee, sector, start string, days int) Booking {
	s := d(start)
	return Booking{
		ID:       NewID(),
		Employee: employee,
		Sector:   sector,
		Start:    s,
		End:      dateutil.AddDays(s, days-1),
		Color:    "#6EC6FF",
	}
}

func TestValidateEmptyName(t *testing.T) {
	candidate := week("   ", "COMERCIAL", "2025-06-02", 7)

	_, err := Validate(candidate, nil, testHolidays, DefaultPolicy())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyName))
}

func TestValidateInvalidRange(t *testing.T) {
	candidate := Booking{Employee: "Ana", Sector: "COMERCIAL", Start: d("2025-03-12"), End: d("2025-03-10")}

	_, err := Validate(candidate, nil, testHolidays, DefaultPolicy())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRange))
}

func TestValidateSingleDayRange(t *testing.T) {
	candidate := Booking{Employee: "Ana", Sector: "COMERCIAL", Start: d("2025-03-12"), End: d("2025-03-12")}

	decision, err := Validate(candidate, nil, testHolidays, DefaultPolicy())

	require.NoError(t, err)
	assert.Equal(t, d("2025-03-12"), decision.Start)
	assert.Equal(t, d("2025-03-12"), decision.End)
}

func TestValidateUnknownSector(t *testing.T) {
	candidate := week("Ana", "MARKETING", "2025-06-02", 7)

	_, err := Validate(candidate, nil, testHolidays, DefaultPolicy())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownSector))

	policy := DefaultPolicy()
	policy.Sectors = nil
	_, err = Validate(candidate, nil, testHolidays, policy)
	assert.NoError(t, err)
}

func TestValidateHolidayBoundary(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		strict   bool
		wantErr  bool
		boundary Boundary
	}{
		{"start on holiday", "2025-05-01", "2025-05-10", true, true, BoundaryStart},
		{"start the day before a holiday", "2025-04-30", "2025-05-10", true, true, BoundaryAfterStart},
		{"end on holiday", "2025-05-19", "2025-05-25", true, true, BoundaryEnd},
		{"end the day before a holiday", "2025-05-15", "2025-05-24", true, true, BoundaryAfterEnd},
		{"start the day after a holiday", "2025-05-02", "2025-05-08", true, true, BoundaryBeforeStart},
		{"end the day after a holiday is allowed", "2025-05-20", "2025-05-26", true, false, ""},
		{"spanning a holiday is allowed", "2025-07-07", "2025-07-11", true, false, ""},
		{"lenient ignores adjacent days", "2025-05-02", "2025-05-08", false, false, ""},
		{"lenient still rejects start on holiday", "2025-05-01", "2025-05-08", false, true, BoundaryStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := Policy{StrictAdjacency: tt.strict}
			candidate := Booking{Employee: "Ana", Sector: "COMERCIAL", Start: d(tt.start), End: d(tt.end)}

			_, err := Validate(candidate, nil, testHolidays, policy)

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrHolidayBoundary))
			rej, ok := AsRejection(err)
			require.True(t, ok)
			assert.Equal(t, tt.boundary, rej.Boundary)
		})
	}
}

func TestValidateWeekendShift(t *testing.T) {
	candidate := week("Ana", "COMERCIAL", "2025-06-21", 7) // Saturday

	decision, err := Validate(candidate, nil, testHolidays, DefaultPolicy())

	require.NoError(t, err)
	assert.True(t, decision.Shifted)
	assert.Equal(t, d("2025-06-21"), decision.RequestedStart)
	assert.Equal(t, d("2025-06-23"), decision.Start)
	assert.Equal(t, d("2025-06-29"), decision.End)
}

func TestValidateWeekendShiftDisabled(t *testing.T) {
	candidate := week("Ana", "COMERCIAL", "2025-06-21", 7)
	policy := DefaultPolicy()
	policy.WeekendShift = false

	// Without the shift the day before (2025-06-20) is a holiday.
	_, err := Validate(candidate, nil, testHolidays, policy)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHolidayBoundary))
}

func TestShiftWeekendStart(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		days      int
		wantStart string
		wantEnd   string
		shifted   bool
	}{
		{"saturday 7 days", "2025-06-21", 7, "2025-06-23", "2025-06-29", true},
		{"sunday 14 days", "2025-06-22", 14, "2025-06-23", "2025-07-06", true},
		{"sunday 3 days", "2025-03-09", 3, "2025-03-10", "2025-03-12", true},
		{"monday untouched", "2025-06-02", 7, "2025-06-02", "2025-06-08", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := d(tt.start)
			start, end, shifted := ShiftWeekendStart(start, dateutil.AddDays(start, tt.days-1))

			assert.Equal(t, tt.shifted, shifted)
			assert.Equal(t, d(tt.wantStart), start)
			assert.Equal(t, d(tt.wantEnd), end)
		})
	}
}

func TestValidateSectorOverlap(t *testing.T) {
	juan := week("Juan", "COMERCIAL", "2025-06-02", 7)
	existing := []Booking{juan}

	pedro := week("Pedro", "COMERCIAL", "2025-06-05", 7)
	_, err := Validate(pedro, existing, testHolidays, DefaultPolicy())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSectorOverlap))
	rej, _ := AsRejection(err)
	assert.Equal(t, "Juan", rej.Employee)
	assert.Equal(t, "Se superpone con Juan.", err.Error())

	pedro.Sector = "PRODUCCION"
	decision, err := Validate(pedro, existing, testHolidays, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, d("2025-06-05"), decision.Start)
	assert.Equal(t, d("2025-06-11"), decision.End)
}

func TestValidateSectorMatchIsCaseInsensitive(t *testing.T) {
	existing := []Booking{week("Juan", "comercial", "2025-06-02", 7)}
	candidate := week("Pedro", "COMERCIAL", "2025-06-08", 7)

	_, err := Validate(candidate, existing, testHolidays, Policy{})

	assert.True(t, errors.Is(err, ErrSectorOverlap))
}

func TestValidateDifferentSectorsSameRange(t *testing.T) {
	for _, sector := range DefaultSectors[1:] {
		existing := []Booking{week("Juan", DefaultSectors[0], "2025-06-02", 14)}
		candidate := week("Pedro", sector, "2025-06-02", 14)

		_, err := Validate(candidate, existing, testHolidays, DefaultPolicy())

		assert.NoError(t, err, "sector %s", sector)
	}
}

func TestValidateIgnoresOwnID(t *testing.T) {
	juan := week("Juan", "COMERCIAL", "2025-06-02", 7)
	edited := juan
	edited.End = d("2025-06-10")

	_, err := Validate(edited, []Booking{juan}, testHolidays, DefaultPolicy())

	assert.NoError(t, err)
}

func TestValidateIsPure(t *testing.T) {
	existing := []Booking{week("Juan", "COMERCIAL", "2025-06-02", 7)}
	snapshot := append([]Booking(nil), existing...)
	candidate := week("Pedro", "COMERCIAL", "2025-06-21", 7)
	candidateCopy := candidate

	first, err1 := Validate(candidate, existing, testHolidays, DefaultPolicy())
	second, err2 := Validate(candidate, existing, testHolidays, DefaultPolicy())

	assert.Equal(t, first, second)
	assert.Equal(t, err1, err2)
	assert.Equal(t, snapshot, existing)
	assert.Equal(t, candidateCopy, candidate)
}

func TestOverlapsIsSymmetric(t *testing.T) {
	ranges := []Booking{
		week("a", "X", "2025-06-02", 7),
		week("b", "X", "2025-06-08", 3),
		week("c", "X", "2025-06-09", 1),
		week("d", "X", "2025-05-20", 30),
		week("e", "X", "2025-07-01", 14),
	}

	for _, a := range ranges {
		for _, b := range ranges {
			assert.Equal(t, Overlaps(a, b), Overlaps(b, a), "%s/%s", a.Employee, b.Employee)
		}
	}

	assert.True(t, Overlaps(ranges[0], ranges[1]), "touching on the last day overlaps")
	assert.False(t, Overlaps(ranges[0], ranges[2]), "adjacent ranges do not overlap")
}
