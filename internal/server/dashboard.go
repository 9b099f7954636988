package server

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/username/vacation-calendar/internal/booking"
	"github.com/username/vacation-calendar/internal/calendarview"
	"github.com/username/vacation-calendar/internal/vacation"
	"github.com/username/vacation-calendar/pkg/dateutil"
)

//go:embed templates/dashboard.html
var dashboardTemplate string

var templateFuncs = template.FuncMap{
	"date":        dateutil.Key,
	"monthNumber": func(m time.Month) int { return int(m) },
}

type monthOption struct {
	Value    int
	Name     string
	Selected bool
}

type yearOption struct {
	Value    int
	Selected bool
}

// page is the data rendered by the dashboard template
type page struct {
	State     *vacation.AppState
	Prev      calendarview.Cursor
	Next      calendarview.Cursor
	Months    []monthOption
	Years     []yearOption
	Sectors   []string
	Durations []int
	Colors    []string
	Today     string
	Form      vacation.RegisterRequest
	Success   string
	Errors    []string
	Warnings  []string
}

func (s *Server) newPage(cursor calendarview.Cursor) *page {
	state := s.manager.State(cursor)

	p := &page{
		State:     state,
		Prev:      cursor.Prev(),
		Next:      cursor.Next(),
		Sectors:   s.manager.Sectors(),
		Durations: s.manager.Durations(),
		Colors:    s.manager.Colors(),
		Today:     dateutil.Key(dateutil.Today()),
		Warnings:  state.Warnings,
	}

	for m := time.January; m <= time.December; m++ {
		p.Months = append(p.Months, monthOption{Value: int(m), Name: dateutil.MonthName(m), Selected: m == cursor.Month})
	}
	for y := cursor.Year - 2; y <= cursor.Year+2; y++ {
		p.Years = append(p.Years, yearOption{Value: y, Selected: y == cursor.Year})
	}
	return p
}

func (s *Server) render(c *gin.Context, status int, p *page) {
	c.Header("Cache-Control", "no-store")
	c.HTML(status, "dashboard", p)
}

func (s *Server) dashboard(c *gin.Context) {
	s.render(c, http.StatusOK, s.newPage(cursorFromQuery(c)))
}

func (s *Server) submitBooking(c *gin.Context) {
	var req vacation.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		p := s.newPage(cursorFromQuery(c))
		p.Form = req
		p.Errors = append(p.Errors, "Datos inválidos en el formulario.")
		s.render(c, http.StatusBadRequest, p)
		return
	}

	res, err := s.manager.Register(req)
	if err != nil {
		status, _ := classify(err)
		p := s.newPage(cursorFromQuery(c))
		p.Form = req
		p.Errors = append(p.Errors, userMessage(err))
		s.render(c, status, p)
		return
	}

	// show the month the new booking starts in
	p := s.newPage(calendarview.CursorAt(res.Booking.Start))
	p.Success = "Registrado correctamente."
	if res.Decision.Shifted {
		p.Success += fmt.Sprintf(" El inicio cayó en fin de semana y se movió al %s.", dateutil.Key(res.Booking.Start))
	}
	p.Warnings = append(p.Warnings, res.Warnings...)
	s.render(c, http.StatusOK, p)
}

func (s *Server) submitDelete(c *gin.Context) {
	cursor := parseCursor(c.PostForm("year"), c.PostForm("month"))

	res, err := s.manager.Delete(c.Param("id"))
	if err != nil {
		status, _ := classify(err)
		p := s.newPage(cursor)
		p.Errors = append(p.Errors, userMessage(err))
		s.render(c, status, p)
		return
	}

	p := s.newPage(cursor)
	if res.Persisted {
		p.Success = "Registro eliminado."
	}
	p.Warnings = append(p.Warnings, res.Warnings...)
	s.render(c, http.StatusOK, p)
}

func (s *Server) calendarPNG(c *gin.Context) {
	cursor := cursorFromQuery(c)
	s.sendRendered(c, cursor, "image/png", func(w io.Writer) error {
		return s.manager.RenderPNG(cursor, w)
	})
}

func (s *Server) calendarPDF(c *gin.Context) {
	cursor := cursorFromQuery(c)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="vacaciones-%s.pdf"`, cursor.String()))
	s.sendRendered(c, cursor, "application/pdf", func(w io.Writer) error {
		return s.manager.RenderPDF(cursor, w)
	})
}

// sendRendered buffers the whole document so a failed render never leaves a
// truncated body behind a 200
func (s *Server) sendRendered(c *gin.Context, cursor calendarview.Cursor, contentType string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		s.logger.Error("Failed to render calendar",
			zap.String("month", cursor.String()),
			zap.String("content_type", contentType),
			zap.Error(err))
		c.Writer.Header().Del("Content-Disposition")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// userMessage is the Spanish text shown for an error on the page
func userMessage(err error) string {
	if rej, ok := booking.AsRejection(err); ok {
		return rej.Error()
	}
	status, _ := classify(err)
	switch status {
	case http.StatusBadRequest:
		return "Datos inválidos: revise las fechas y la duración."
	case http.StatusNotFound:
		return "El registro ya no existe."
	case http.StatusServiceUnavailable:
		return "No se pudieron leer los registros guardados; no se permiten cambios por ahora."
	default:
		return "Error interno."
	}
}
