package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/username/vacation-calendar/internal/booking"
	"github.com/username/vacation-calendar/internal/calendarview"
	"github.com/username/vacation-calendar/internal/vacation"
	"github.com/username/vacation-calendar/pkg/dateutil"
)

// envelope is the JSON response contract of the API
type envelope struct {
	Data  interface{} `json:"data,omitempty"`
	Error *apiError   `json:"error,omitempty"`
	Meta  *meta       `json:"meta,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Employee names the conflicting booking for SECTOR_OVERLAP
	Employee string `json:"employee,omitempty"`
	Date     string `json:"date,omitempty"`
}

type meta struct {
	Warnings []string `json:"warnings,omitempty"`
	Shifted  bool     `json:"shifted,omitempty"`
	// RequestedStart is the start before a weekend shift
	RequestedStart string `json:"requested_start,omitempty"`
}

func respond(c *gin.Context, status int, data interface{}, m *meta) {
	c.Header("Cache-Control", "no-store")
	if m != nil && len(m.Warnings) == 0 && !m.Shifted {
		m = nil
	}
	c.JSON(status, envelope{Data: data, Meta: m})
}

// respondError maps domain errors to HTTP statuses
func respondError(c *gin.Context, err error) {
	status, body := classify(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(status, envelope{Error: body})
}

func classify(err error) (int, *apiError) {
	if rej, ok := booking.AsRejection(err); ok {
		body := &apiError{Code: string(rej.Reason), Message: rej.Error(), Employee: rej.Employee}
		if !rej.Date.IsZero() {
			body.Date = dateutil.Key(rej.Date)
		}
		return http.StatusUnprocessableEntity, body
	}
	switch {
	case errors.Is(err, vacation.ErrInvalidRequest):
		return http.StatusBadRequest, &apiError{Code: "INVALID_REQUEST", Message: err.Error()}
	case errors.Is(err, vacation.ErrNotFound):
		return http.StatusNotFound, &apiError{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, vacation.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, &apiError{Code: "STORE_UNAVAILABLE", Message: err.Error()}
	default:
		return http.StatusInternalServerError, &apiError{Code: "INTERNAL", Message: "internal error"}
	}
}

func resultMeta(res *vacation.Result) *meta {
	m := &meta{Warnings: res.Warnings}
	if res.Decision.Shifted {
		m.Shifted = true
		m.RequestedStart = dateutil.Key(res.Decision.RequestedStart)
	}
	return m
}

// cursorFromQuery reads year and month from the query string
func cursorFromQuery(c *gin.Context) calendarview.Cursor {
	return parseCursor(c.Query("year"), c.Query("month"))
}

// parseCursor defaults missing or invalid values to the current month.
// Out-of-range months roll over into the neighbouring year.
func parseCursor(yearStr, monthStr string) calendarview.Cursor {
	now := calendarview.CursorAt(dateutil.Today())

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1 || year > 9999 {
		year = now.Year
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		month = int(now.Month)
	}
	return calendarview.NewCursor(year, month)
}

func (s *Server) listBookings(c *gin.Context) {
	bookings, warnings := s.manager.List()
	respond(c, http.StatusOK, bookings, &meta{Warnings: warnings})
}

func (s *Server) getBooking(c *gin.Context) {
	b, err := s.manager.Find(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, b, nil)
}

func (s *Server) createBooking(c *gin.Context) {
	var req vacation.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Join(vacation.ErrInvalidRequest, err))
		return
	}

	res, err := s.manager.Register(req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, res.Booking, resultMeta(res))
}

func (s *Server) updateBooking(c *gin.Context) {
	var req vacation.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Join(vacation.ErrInvalidRequest, err))
		return
	}

	res, err := s.manager.Update(c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, res.Booking, resultMeta(res))
}

func (s *Server) deleteBooking(c *gin.Context) {
	res, err := s.manager.Delete(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !res.Persisted {
		respond(c, http.StatusConflict, res.Booking, &meta{Warnings: res.Warnings})
		return
	}
	respond(c, http.StatusOK, res.Booking, &meta{Warnings: res.Warnings})
}

func (s *Server) getCalendar(c *gin.Context) {
	state := s.manager.State(cursorFromQuery(c))
	respond(c, http.StatusOK, state.Month, &meta{Warnings: state.Warnings})
}

func (s *Server) listHolidays(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		year = time.Now().Year()
	}
	respond(c, http.StatusOK, s.manager.Holidays(year), nil)
}
