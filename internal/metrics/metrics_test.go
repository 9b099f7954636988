package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, r *Recorder) string {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestRecorderCounts(t *testing.T) {
	r := New()

	r.BookingRegistered()
	r.BookingRegistered()
	r.BookingRejected("SECTOR_OVERLAP")
	r.BookingRejected("SECTOR_OVERLAP")
	r.BookingRejected("EMPTY_NAME")
	r.BookingDeleted()
	r.StoreFailure("load")
	r.SetBookings(5)
	r.CalendarRendered("png")

	body := scrape(t, r)
	assert.Contains(t, body, "vacation_bookings_registered_total 2")
	assert.Contains(t, body, `vacation_bookings_rejected_total{reason="SECTOR_OVERLAP"} 2`)
	assert.Contains(t, body, `vacation_bookings_rejected_total{reason="EMPTY_NAME"} 1`)
	assert.Contains(t, body, "vacation_bookings_deleted_total 1")
	assert.Contains(t, body, `vacation_store_failures_total{op="load"} 1`)
	assert.Contains(t, body, "vacation_bookings 5")
	assert.Contains(t, body, `vacation_calendar_renders_total{format="png"} 1`)
}

func TestRecorderHandler(t *testing.T) {
	r := New()
	r.BookingRegistered()
	r.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, 20*time.Millisecond)

	body := scrape(t, r)
	assert.Contains(t, body, "vacation_bookings_registered_total 1")
	assert.Contains(t, body, `http_requests_total{method="GET",path="/",status="200"} 1`)
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder

	assert.NotPanics(t, func() {
		r.BookingRegistered()
		r.BookingRejected("EMPTY_NAME")
		r.BookingDeleted()
		r.StoreFailure("save")
		r.SetBookings(1)
		r.CalendarRendered("pdf")
		r.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	})
	assert.Nil(t, r.Registry())

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
