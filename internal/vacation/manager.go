package vacation

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/username/vacation-calendar/internal/booking"
	"github.com/username/vacation-calendar/internal/calendar"
	"github.com/username/vacation-calendar/internal/calendarview"
	"github.com/username/vacation-calendar/internal/metrics"
	"github.com/username/vacation-calendar/internal/store"
	"github.com/username/vacation-calendar/pkg/dateutil"
	"github.com/username/vacation-calendar/pkg/palette"
)

// User-facing warnings attached to results when persistence misbehaves
const (
	WarnLoadFailed = "No se pudieron leer los registros guardados; se muestran los últimos datos conocidos."
	WarnSaveFailed = "No se pudieron guardar los cambios; podrían perderse al reiniciar."
	WarnEmptyWrite = "No se guarda una tabla vacía: el archivo conserva el último registro."
)

// Store is the persistence the manager depends on
type Store interface {
	Load() ([]booking.Booking, error)
	Save(bookings []booking.Booking) error
	Reset() error
}

// Options configure booking rules and presentation
type Options struct {
	Policy booking.Policy
	View   calendarview.Options
	// Durations restricts duration-based requests. Empty allows any.
	Durations []int
}

// AppState is everything a dashboard render needs for one pass
type AppState struct {
	Cursor   calendarview.Cursor `json:"cursor"`
	Bookings []booking.Booking   `json:"bookings"`
	Month    *calendarview.Month `json:"month"`
	Warnings []string            `json:"warnings,omitempty"`
}

// Result describes a completed mutation
type Result struct {
	Booking  booking.Booking  `json:"booking"`
	Decision booking.Decision `json:"-"`
	// Persisted is false when the store refused or failed the write
	Persisted bool     `json:"persisted"`
	Warnings  []string `json:"warnings,omitempty"`
}

// Manager runs each dashboard interaction as one serialized pass:
// load the store, validate or mutate, save, rebuild the index, render.
type Manager struct {
	mu       sync.Mutex
	store    Store
	holidays *calendar.Set
	palette  *palette.Palette
	opts     Options
	validate *validator.Validate
	metrics  *metrics.Recorder
	logger   *zap.Logger

	// lastGood is served when a load fails mid-session
	lastGood []booking.Booking
	// loaded is set once the store has been read or written successfully
	loaded bool
	// unsaved is set while lastGood holds changes the store has not accepted;
	// it is served ahead of the store until a save succeeds
	unsaved bool
}

// NewManager creates a new vacation manager
func NewManager(
	st Store,
	holidays *calendar.Set,
	pal *palette.Palette,
	opts Options,
	recorder *metrics.Recorder,
	logger *zap.Logger,
) *Manager {
	if pal == nil {
		pal, _ = palette.New(palette.Default)
	}
	return &Manager{
		store:    st,
		holidays: holidays,
		palette:  pal,
		opts:     opts,
		validate: validator.New(),
		metrics:  recorder,
		logger:   logger,
	}
}

// Sectors returns the sector choices offered to users
func (m *Manager) Sectors() []string {
	if len(m.opts.Policy.Sectors) > 0 {
		return m.opts.Policy.Sectors
	}
	return booking.DefaultSectors
}

// Durations returns the configured duration choices
func (m *Manager) Durations() []int {
	return m.opts.Durations
}

// Colors returns the palette offered in the form
func (m *Manager) Colors() []string {
	return m.palette.Colors()
}

// Holidays returns the holidays of a year, or all of them for year 0
func (m *Manager) Holidays(year int) []calendar.Holiday {
	if year == 0 {
		var all []calendar.Holiday
		for _, y := range m.holidays.Years() {
			all = append(all, m.holidays.InYear(y)...)
		}
		return all
	}
	return m.holidays.InYear(year)
}

// Register validates and stores a new booking
func (m *Manager) Register(req RegisterRequest) (*Result, error) {
	if err := m.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	start, end, err := dateRange(req.Start, req.End, req.Duration, m.opts.Durations)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	bookings, warnings := m.load()
	if !m.loaded {
		return nil, ErrStoreUnavailable
	}

	candidate := booking.Booking{
		ID:       booking.NewID(),
		Employee: strings.TrimSpace(req.Employee),
		Sector:   booking.NormalizeSector(req.Sector),
		Start:    start,
		End:      end,
		Note:     strings.TrimSpace(req.Note),
	}

	decision, err := booking.Validate(candidate, bookings, m.holidays, m.opts.Policy)
	if err != nil {
		m.rejected(candidate, err)
		return nil, err
	}

	candidate.Start, candidate.End = decision.Start, decision.End
	candidate.Color = m.palette.Pick(candidate.Employee, req.Color, booking.ColorOf(bookings, candidate.Employee))

	persisted, saveWarnings := m.save(append(bookings, candidate))
	warnings = mergeWarnings(warnings, persisted, saveWarnings)
	m.metrics.BookingRegistered()

	m.logger.Info("Booking registered",
		zap.String("id", candidate.ID),
		zap.String("employee", candidate.Employee),
		zap.String("sector", candidate.Sector),
		zap.String("start", dateutil.Key(candidate.Start)),
		zap.String("end", dateutil.Key(candidate.End)),
		zap.Bool("shifted", decision.Shifted),
		zap.Bool("persisted", persisted))

	return &Result{Booking: candidate, Decision: decision, Persisted: persisted, Warnings: warnings}, nil
}

// Update re-validates an existing booking with a new range, ignoring the booking itself
// in the overlap check
func (m *Manager) Update(id string, req UpdateRequest) (*Result, error) {
	if err := m.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	start, end, err := dateRange(req.Start, req.End, req.Duration, m.opts.Durations)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	bookings, warnings := m.load()
	if !m.loaded {
		return nil, ErrStoreUnavailable
	}

	idx := booking.Find(bookings, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	candidate := req.apply(bookings[idx], start, end)
	decision, err := booking.Validate(candidate, bookings, m.holidays, m.opts.Policy)
	if err != nil {
		m.rejected(candidate, err)
		return nil, err
	}

	candidate.Start, candidate.End = decision.Start, decision.End
	if req.Color != "" {
		candidate.Color = m.palette.Pick(candidate.Employee, req.Color, candidate.Color)
	}

	updated := make([]booking.Booking, len(bookings))
	copy(updated, bookings)
	updated[idx] = candidate

	persisted, saveWarnings := m.save(updated)
	warnings = mergeWarnings(warnings, persisted, saveWarnings)

	m.logger.Info("Booking updated",
		zap.String("id", candidate.ID),
		zap.String("employee", candidate.Employee),
		zap.String("start", dateutil.Key(candidate.Start)),
		zap.String("end", dateutil.Key(candidate.End)),
		zap.Bool("persisted", persisted))

	return &Result{Booking: candidate, Decision: decision, Persisted: persisted, Warnings: warnings}, nil
}

// Delete removes a booking. Removing the last booking is refused by the
// store's empty-write guard and reported as a warning.
func (m *Manager) Delete(id string) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bookings, warnings := m.load()
	if !m.loaded {
		return nil, ErrStoreUnavailable
	}

	idx := booking.Find(bookings, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	removed := bookings[idx]

	remaining := make([]booking.Booking, 0, len(bookings)-1)
	remaining = append(remaining, bookings[:idx]...)
	remaining = append(remaining, bookings[idx+1:]...)

	persisted, saveWarnings := m.save(remaining)
	warnings = mergeWarnings(warnings, persisted, saveWarnings)
	if persisted {
		m.metrics.BookingDeleted()
	}

	m.logger.Info("Booking deleted",
		zap.String("id", removed.ID),
		zap.String("employee", removed.Employee),
		zap.Bool("persisted", persisted))

	return &Result{Booking: removed, Persisted: persisted, Warnings: warnings}, nil
}

// Clear deliberately empties the store, bypassing the empty-write guard
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Reset(); err != nil {
		m.metrics.StoreFailure("reset")
		return fmt.Errorf("failed to reset store: %w", err)
	}
	m.lastGood = nil
	m.loaded = true
	m.unsaved = false
	m.metrics.SetBookings(0)
	return nil
}

// List returns the current bookings and any load warning
func (m *Manager) List() ([]booking.Booking, []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

// Find returns one booking by ID
func (m *Manager) Find(id string) (booking.Booking, error) {
	bookings, _ := m.List()
	idx := booking.Find(bookings, id)
	if idx < 0 {
		return booking.Booking{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return bookings[idx], nil
}

// State loads the store and lays out the month at cursor
func (m *Manager) State(cursor calendarview.Cursor) *AppState {
	m.mu.Lock()
	defer m.mu.Unlock()

	bookings, warnings := m.load()
	index := calendarview.BuildDayIndex(bookings)

	return &AppState{
		Cursor:   cursor,
		Bookings: bookings,
		Month:    calendarview.BuildMonth(cursor, index, m.holidays, m.opts.View),
		Warnings: warnings,
	}
}

// RenderPNG draws the month at cursor as a PNG image
func (m *Manager) RenderPNG(cursor calendarview.Cursor, w io.Writer) error {
	state := m.State(cursor)
	if err := calendarview.RenderPNG(state.Month, w, m.opts.View); err != nil {
		return err
	}
	m.metrics.CalendarRendered("png")
	return nil
}

// RenderPDF exports the month at cursor as a one-page PDF
func (m *Manager) RenderPDF(cursor calendarview.Cursor, w io.Writer) error {
	state := m.State(cursor)
	if err := calendarview.RenderPDF(state.Month, w, m.opts.View); err != nil {
		return err
	}
	m.metrics.CalendarRendered("pdf")
	return nil
}

// load must be called with mu held. Unsaved changes win over the store; on a
// failed read the last good collection is served.
func (m *Manager) load() ([]booking.Booking, []string) {
	if m.unsaved {
		return clone(m.lastGood), []string{WarnSaveFailed}
	}

	bookings, err := m.store.Load()
	if err != nil {
		m.metrics.StoreFailure("load")
		m.logger.Warn("Failed to load bookings, using last known state",
			zap.Error(err),
			zap.Int("bookings", len(m.lastGood)))
		return clone(m.lastGood), []string{WarnLoadFailed}
	}

	m.lastGood = bookings
	m.loaded = true
	m.metrics.SetBookings(len(bookings))
	return clone(bookings), nil
}

// save must be called with mu held. The in-memory state follows the mutation
// even if the write fails, except for a refused empty write.
func (m *Manager) save(bookings []booking.Booking) (bool, []string) {
	err := m.store.Save(bookings)
	switch {
	case err == nil:
		m.lastGood = bookings
		m.loaded = true
		m.unsaved = false
		m.metrics.SetBookings(len(bookings))
		return true, nil
	case errors.Is(err, store.ErrEmptyWrite):
		m.logger.Warn("Empty write refused, store left unchanged")
		return false, []string{WarnEmptyWrite}
	default:
		m.lastGood = bookings
		m.unsaved = true
		m.metrics.StoreFailure("save")
		m.logger.Error("Failed to save bookings", zap.Error(err), zap.Int("bookings", len(bookings)))
		return false, []string{WarnSaveFailed}
	}
}

func (m *Manager) rejected(candidate booking.Booking, err error) {
	reason := "UNKNOWN"
	if rej, ok := booking.AsRejection(err); ok {
		reason = string(rej.Reason)
	}
	m.metrics.BookingRejected(reason)
	m.logger.Info("Booking rejected",
		zap.String("employee", candidate.Employee),
		zap.String("sector", candidate.Sector),
		zap.String("start", dateutil.Key(candidate.Start)),
		zap.String("end", dateutil.Key(candidate.End)),
		zap.String("reason", reason),
		zap.Error(err))
}

// mergeWarnings combines the warnings of a pass. A successful save clears the
// pending unsaved-changes warning reported by load.
func mergeWarnings(loadWarnings []string, persisted bool, saveWarnings []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, w := range append(loadWarnings, saveWarnings...) {
		if seen[w] || (persisted && w == WarnSaveFailed) {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func clone(bookings []booking.Booking) []booking.Booking {
	out := make([]booking.Booking, len(bookings))
	copy(out, bookings)
	return out
}
