package calendar

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/username/vacation-calendar/pkg/dateutil"
)

type failingSource struct{}

func (failingSource) Name() string                 { return "broken" }
func (failingSource) Holidays() ([]Holiday, error) { return nil, errors.New("boom") }

func TestStaticCalendarHolidays(t *testing.T) {
	holidays, err := NewStaticCalendar(2025).Holidays()
	require.NoError(t, err)
	assert.Len(t, holidays, 12)

	set := NewSet(holidays...)
	assert.True(t, set.IsHoliday(dateutil.Date(2025, time.May, 1)))
	assert.True(t, set.IsHoliday(time.Date(2025, time.June, 20, 15, 0, 0, 0, time.Local)))
	assert.False(t, set.IsHoliday(dateutil.Date(2025, time.June, 21)))
}

func TestStaticCalendarUnknownYear(t *testing.T) {
	_, err := NewStaticCalendar(1999).Holidays()
	assert.Error(t, err)
}

func TestSetInMonth(t *testing.T) {
	holidays, _ := NewStaticCalendar().Holidays()
	set := NewSet(holidays...)

	may := set.InMonth(2025, time.May)
	require.Len(t, may, 2)
	assert.Equal(t, dateutil.Date(2025, time.May, 1), may[0].Date)
	assert.Equal(t, dateutil.Date(2025, time.May, 25), may[1].Date)

	assert.Empty(t, set.InMonth(2025, time.August))
	assert.Equal(t, []int{2025}, set.Years())
}

func TestSetKeepsFirstNote(t *testing.T) {
	date := dateutil.Date(2025, time.May, 1)
	set := NewSet(Holiday{Date: date, Note: "first"}, Holiday{Date: date, Note: "second"})

	h, ok := set.Get(date)
	require.True(t, ok)
	assert.Equal(t, "first", h.Note)
	assert.Equal(t, 1, set.Len())
}

func TestNilSet(t *testing.T) {
	var set *Set
	assert.False(t, set.IsHoliday(dateutil.Date(2025, time.May, 1)))
	assert.Equal(t, 0, set.Len())
}

func TestFileCalendarParse(t *testing.T) {
	fc := NewFileCalendar("inline", zap.NewNop())

	input := strings.Join([]string{
		"# Argentina 2026",
		"",
		"2026-01-01 Año Nuevo",
		"2026-05-01",
		"not-a-date Something",
		"  2026-07-09   Día de la Independencia  ",
	}, "\n")

	holidays, err := fc.parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, holidays, 3)
	assert.Equal(t, "Año Nuevo", holidays[0].Note)
	assert.Equal(t, "", holidays[1].Note)
	assert.Equal(t, dateutil.Date(2026, time.July, 9), holidays[2].Date)
	assert.Equal(t, "Día de la Independencia", holidays[2].Note)
}

func TestFileCalendarMissingFile(t *testing.T) {
	fc := NewFileCalendar(filepath.Join(t.TempDir(), "missing.txt"), zap.NewNop())
	_, err := fc.Holidays()
	assert.Error(t, err)
}

func TestCompositeCalendarMergesAndSkipsFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.txt")
	require.NoError(t, os.WriteFile(path, []byte("2026-01-01 Año Nuevo\n2025-05-01 duplicate\n"), 0o644))

	cc := NewCompositeCalendar(zap.NewNop(),
		NewStaticCalendar(2025),
		failingSource{},
		NewFileCalendar(path, zap.NewNop()),
	)

	set, err := cc.Load()
	require.NoError(t, err)
	assert.Equal(t, 13, set.Len())
	assert.True(t, set.IsHoliday(dateutil.Date(2026, time.January, 1)))

	h, _ := set.Get(dateutil.Date(2025, time.May, 1))
	assert.Equal(t, "Día del Trabajador", h.Note)
}

func TestCompositeCalendarAllSourcesFail(t *testing.T) {
	cc := NewCompositeCalendar(zap.NewNop(), failingSource{})
	_, err := cc.Load()
	assert.Error(t, err)
}
