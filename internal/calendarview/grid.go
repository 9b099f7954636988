package calendarview

import (
	"time"

	"github.com/username/vacation-calendar/internal/calendar"
	"github.com/username/vacation-calendar/pkg/dateutil"
)

// Ellipsis marks a truncated label. ASCII so the raster font can draw it.
const Ellipsis = "..."

// Options are presentation parameters shared by the grid and the renderers
type Options struct {
	// MaxEntries caps the swatches drawn per day
	MaxEntries int
	// LabelBudget is the number of runes kept from an employee name
	LabelBudget int
	CellWidth   int
	CellHeight  int
}

// DefaultOptions matches the dashboard layout
func DefaultOptions() Options {
	return Options{
		MaxEntries:  4,
		LabelBudget: 14,
		CellWidth:   150,
		CellHeight:  110,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MaxEntries <= 0 {
		o.MaxEntries = def.MaxEntries
	}
	if o.LabelBudget <= 0 {
		o.LabelBudget = def.LabelBudget
	}
	if o.CellWidth <= 0 {
		o.CellWidth = def.CellWidth
	}
	if o.CellHeight <= 0 {
		o.CellHeight = def.CellHeight
	}
	return o
}

// Label is a drawable swatch
type Label struct {
	Entry
	Text string `json:"text"`
}

// Cell is one slot of the month grid. Leading and trailing slots outside the
// month have IsEmpty set and carry no date.
type Cell struct {
	IsEmpty     bool      `json:"is_empty"`
	Date        time.Time `json:"date"`
	Day         int       `json:"day,omitempty"`
	IsHoliday   bool      `json:"is_holiday,omitempty"`
	HolidayNote string    `json:"holiday_note,omitempty"`
	Labels      []Label   `json:"labels,omitempty"`
	// Overflow counts the entries beyond the per-day cap
	Overflow int `json:"overflow,omitempty"`
}

// Month is a Monday-first grid of 4 to 6 weeks
type Month struct {
	Cursor   Cursor             `json:"cursor"`
	Title    string             `json:"title"`
	Headers  [7]string          `json:"headers"`
	Weeks    [][7]Cell          `json:"weeks"`
	Holidays []calendar.Holiday `json:"holidays"`
}

// BuildMonth lays out the month of cursor. Holiday styling and booking swatches
// are independent: a holiday cell still lists the bookings spanning it.
func BuildMonth(cursor Cursor, index DayIndex, holidays *calendar.Set, opts Options) *Month {
	opts = opts.withDefaults()

	month := &Month{
		Cursor:   cursor,
		Title:    cursor.Title(),
		Headers:  dateutil.WeekdayHeaders,
		Holidays: holidays.InMonth(cursor.Year, cursor.Month),
	}

	first := cursor.First()
	lead := dateutil.MondayOffset(first.Weekday())
	days := dateutil.DaysInMonth(cursor.Year, cursor.Month)

	var week [7]Cell
	col := 0
	for ; col < lead; col++ {
		week[col] = Cell{IsEmpty: true}
	}

	for day := 1; day <= days; day++ {
		date := dateutil.Date(cursor.Year, cursor.Month, day)
		week[col] = buildCell(date, index, holidays, opts)
		col++
		if col == 7 {
			month.Weeks = append(month.Weeks, week)
			week = [7]Cell{}
			col = 0
		}
	}

	if col > 0 {
		for ; col < 7; col++ {
			week[col] = Cell{IsEmpty: true}
		}
		month.Weeks = append(month.Weeks, week)
	}

	return month
}

func buildCell(date time.Time, index DayIndex, holidays *calendar.Set, opts Options) Cell {
	cell := Cell{Date: date, Day: date.Day()}

	if h, ok := holidays.Get(date); ok {
		cell.IsHoliday = true
		cell.HolidayNote = h.Note
	}

	entries := index.On(date)
	shown := entries
	if len(shown) > opts.MaxEntries {
		shown = shown[:opts.MaxEntries]
		cell.Overflow = len(entries) - opts.MaxEntries
	}
	for _, e := range shown {
		cell.Labels = append(cell.Labels, Label{Entry: e, Text: TruncateLabel(e.Employee, opts.LabelBudget)})
	}

	return cell
}

// TruncateLabel keeps at most budget runes of name, appending Ellipsis when cut
func TruncateLabel(name string, budget int) string {
	runes := []rune(name)
	if budget <= 0 || len(runes) <= budget {
		return name
	}
	return string(runes[:budget]) + Ellipsis
}
